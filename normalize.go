/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizeWord folds a word into its canonical form: trimmed,
// diacritics stripped, lowercased. Empty input yields empty output.
func normalizeWord(word string) string {
	trimmed := strings.TrimSpace(word)
	if trimmed == "" {
		return ""
	}

	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(folder, trimmed)
	if err != nil {
		folded = trimmed
	}

	return strings.ToLower(folded)
}

// compareWords matches two already-normalized words exactly.
func compareWords(a, b string) bool {
	return a != "" && a == b
}

// suggestCorrection offers a best-effort fixup for an obviously
// mistyped word, currently by collapsing runs of repeated letters
// ("ccasa" -> "casa"). Advisory only; never used for scoring.
func suggestCorrection(raw string) string {
	normalized := normalizeWord(raw)
	if normalized == "" {
		return ""
	}

	var collapsed strings.Builder
	var last rune

	for i, r := range normalized {
		if i > 0 && r == last {
			continue
		}
		collapsed.WriteRune(r)
		last = r
	}

	suggestion := collapsed.String()
	if suggestion == normalized || len([]rune(suggestion)) < 2 {
		return ""
	}

	return suggestion
}

// wasCorrected reports whether normalization changed the word beyond
// trimming and lowercasing, for "corrected from" messaging.
func wasCorrected(raw, normalized string) bool {
	return normalized != strings.ToLower(strings.TrimSpace(raw))
}
