/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"strings"
	"unicode"
)

const defaultAvatar = "👤"

// Player holds one person's game state: the secret words they chose,
// the hints revealed on them so far, and their progress through the
// words of their assigned target.
type Player struct {
	Name         string
	WordCount    int
	Words        []string // normalized forms
	Originals    []string // as typed
	Hints        []string // one per word
	TargetIndex  int      // index into the target's words, starts at the second word
	WrongCurrent int      // wrong guesses against the current word, resets on success
	WrongPerWord []int
	Discovered   []bool
	Target       *Player
	Completed    bool
	Avatar       string
}

func newPlayer(name string, wordCount int) *Player {
	return &Player{
		Name:        name,
		WordCount:   wordCount,
		TargetIndex: 1,
		Avatar:      defaultAvatar,
	}
}

// SetWords validates and stores the player's secret list. The first
// word is pre-discovered and shown in full; every other hint starts as
// the first letter only.
func (p *Player) SetWords(words []string) error {
	if len(p.Words) == p.WordCount && p.WordCount > 0 {
		return stateErrorf("your words are already set")
	}

	if len(words) != p.WordCount {
		return validationErrorf("exactly %d words are required", p.WordCount)
	}

	for _, word := range words {
		trimmed := strings.TrimSpace(word)
		if trimmed == "" {
			return validationErrorf("every word must be filled in")
		}
		for _, r := range strings.ReplaceAll(trimmed, " ", "") {
			if !unicode.IsLetter(r) {
				return validationErrorf("words may only contain letters")
			}
		}
		if len([]rune(trimmed)) < 2 {
			return validationErrorf("words must be at least 2 letters long")
		}
	}

	p.Originals = make([]string, 0, len(words))
	p.Words = make([]string, 0, len(words))

	for _, word := range words {
		p.Originals = append(p.Originals, strings.TrimSpace(word))
		p.Words = append(p.Words, normalizeWord(word))
	}

	p.Discovered = make([]bool, p.WordCount)
	p.Discovered[0] = true
	p.WrongPerWord = make([]int, p.WordCount)

	p.Hints = make([]string, 0, p.WordCount)
	for i, word := range p.Words {
		if i == 0 {
			p.Hints = append(p.Hints, word)
		} else {
			p.Hints = append(p.Hints, string([]rune(word)[:1]))
		}
	}

	return nil
}

// CurrentHint derives the hint for the word the player is currently
// guessing: the full word at index 0, otherwise the first letter plus
// one more letter per wrong guess, clamped to the word length.
func (p *Player) CurrentHint() string {
	if p.Target == nil || p.TargetIndex >= len(p.Target.Words) {
		return ""
	}

	word := []rune(p.Target.Words[p.TargetIndex])

	if p.TargetIndex == 0 {
		return string(word)
	}

	total := 1 + p.WrongCurrent
	if total > len(word) {
		total = len(word)
	}

	return string(word[:total])
}

// RefreshTargetHints recomputes all of the target's hints from its
// accumulated per-word error counts.
func (p *Player) RefreshTargetHints() {
	if p.Target == nil {
		return
	}

	for i, word := range p.Target.Words {
		runes := []rune(word)

		if i == 0 {
			p.Target.Hints[i] = word
			continue
		}

		if i < len(p.Target.WrongPerWord) {
			total := 1 + p.Target.WrongPerWord[i]
			if total > len(runes) {
				total = len(runes)
			}
			p.Target.Hints[i] = string(runes[:total])
		}
	}
}

// PreviousWord returns the target word discovered just before the
// current one, for reference in the UI.
func (p *Player) PreviousWord() string {
	if p.Target == nil || p.TargetIndex <= 0 || p.TargetIndex-1 >= len(p.Target.Words) {
		return ""
	}

	return p.Target.Words[p.TargetIndex-1]
}

// AttemptGuess checks a raw guess against the target's current word.
// A correct guess marks the word discovered and advances; a wrong one
// grows the hint by another letter.
func (p *Player) AttemptGuess(raw string) (bool, string) {
	if p.Target == nil || p.Completed {
		return false, "there is no word to guess"
	}

	if p.TargetIndex >= len(p.Target.Words) {
		return false, "every word has already been discovered"
	}

	answer := p.Target.Words[p.TargetIndex]
	original := strings.TrimSpace(raw)
	guess := normalizeWord(original)

	if compareWords(guess, answer) {
		p.Target.Discovered[p.TargetIndex] = true
		p.TargetIndex++
		p.WrongCurrent = 0
		p.RefreshTargetHints()

		corrected := ""
		if wasCorrected(original, guess) {
			corrected = fmt.Sprintf(" (corrected from %q)", original)
		}

		if p.TargetIndex >= len(p.Target.Words) {
			p.Completed = true
			return true, fmt.Sprintf("congratulations! you discovered %q%s and completed every word!", answer, corrected)
		}

		return true, fmt.Sprintf("correct! %q%s - next hint: %s", answer, corrected, p.CurrentHint())
	}

	p.WrongCurrent++
	if p.TargetIndex < len(p.Target.WrongPerWord) {
		p.Target.WrongPerWord[p.TargetIndex]++
	}
	p.RefreshTargetHints()

	suggestion := ""
	if s := suggestCorrection(original); s != "" && s != guess {
		suggestion = fmt.Sprintf(" (did you mean %q?)", s)
	}

	return false, fmt.Sprintf("wrong! new hint: %s%s", p.CurrentHint(), suggestion)
}

// ClearWords resets everything set by SetWords along with guessing
// progress, used between matches.
func (p *Player) ClearWords() {
	p.Words = nil
	p.Originals = nil
	p.Hints = nil
	p.TargetIndex = 1
	p.WrongCurrent = 0
	p.WrongPerWord = nil
	p.Discovered = nil
	p.Completed = false
}

func (p *Player) SetAvatar(avatar string) {
	if avatar != "" {
		p.Avatar = avatar
	}
}

// WordsSet reports whether the player has submitted a full word list.
func (p *Player) WordsSet() bool {
	return p.WordCount > 0 && len(p.Words) == p.WordCount
}
