/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"strings"
	"testing"
)

func TestSetWords(t *testing.T) {
	tests := []struct {
		name     string
		words    []string
		wantKind string
	}{
		{"valid list", []string{"casa", "gato", "pato", "bola"}, ""},
		{"valid with inner space", []string{"bom dia", "gato", "pato", "bola"}, ""},
		{"valid with accents", []string{"maçã", "cão", "pêra", "avó"}, ""},
		{"too few", []string{"casa", "gato"}, kindValidation},
		{"too many", []string{"a1", "b", "c", "d", "e"}, kindValidation},
		{"empty entry", []string{"casa", "  ", "pato", "bola"}, kindValidation},
		{"digits rejected", []string{"casa", "g4to", "pato", "bola"}, kindValidation},
		{"punctuation rejected", []string{"casa", "ga-to", "pato", "bola"}, kindValidation},
		{"single letter rejected", []string{"casa", "g", "pato", "bola"}, kindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlayer("Alice", 4)
			err := p.SetWords(tt.words)

			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("SetWords() unexpected error: %v", err)
				}

				if !p.Discovered[0] {
					t.Error("first word should start discovered")
				}
				for i := 1; i < len(p.Discovered); i++ {
					if p.Discovered[i] {
						t.Errorf("word %d should not start discovered", i)
					}
				}

				if p.Hints[0] != p.Words[0] {
					t.Errorf("hint[0] = %q, want full word %q", p.Hints[0], p.Words[0])
				}
				for i := 1; i < len(p.Hints); i++ {
					if p.Hints[i] != string([]rune(p.Words[i])[:1]) {
						t.Errorf("hint[%d] = %q, want first letter only", i, p.Hints[i])
					}
				}

				for _, word := range p.Words {
					if word != strings.ToLower(word) {
						t.Errorf("stored word %q is not lowercase", word)
					}
				}

				return
			}

			if err == nil {
				t.Fatal("SetWords() expected error, got nil")
			}
			if kind := errorKind(err); kind != tt.wantKind {
				t.Errorf("error kind = %q, want %q", kind, tt.wantKind)
			}
		})
	}
}

func TestSetWordsTwice(t *testing.T) {
	p := newPlayer("Alice", 4)

	if err := p.SetWords([]string{"casa", "gato", "pato", "bola"}); err != nil {
		t.Fatalf("first SetWords() failed: %v", err)
	}

	err := p.SetWords([]string{"rosa", "fogo", "vela", "sapo"})
	if err == nil {
		t.Fatal("second SetWords() should fail without a reset")
	}
	if kind := errorKind(err); kind != kindState {
		t.Errorf("error kind = %q, want %q", kind, kindState)
	}

	p.ClearWords()

	if err := p.SetWords([]string{"rosa", "fogo", "vela", "sapo"}); err != nil {
		t.Fatalf("SetWords() after reset failed: %v", err)
	}
}

func pairedPlayers(t *testing.T) (*Player, *Player) {
	t.Helper()

	alice := newPlayer("Alice", 4)
	bob := newPlayer("Bob", 4)

	if err := alice.SetWords([]string{"rosa", "fogo", "vela", "sapo"}); err != nil {
		t.Fatalf("alice SetWords() failed: %v", err)
	}
	if err := bob.SetWords([]string{"casa", "gato", "pato", "bola"}); err != nil {
		t.Fatalf("bob SetWords() failed: %v", err)
	}

	alice.Target = bob
	bob.Target = alice

	return alice, bob
}

func TestCurrentHintGrowsWithWrongGuesses(t *testing.T) {
	alice, _ := pairedPlayers(t)

	if hint := alice.CurrentHint(); hint != "g" {
		t.Fatalf("initial hint = %q, want %q", hint, "g")
	}

	alice.AttemptGuess("wrong")
	if hint := alice.CurrentHint(); hint != "ga" {
		t.Errorf("hint after 1 miss = %q, want %q", hint, "ga")
	}

	alice.AttemptGuess("nope")
	alice.AttemptGuess("still")
	if hint := alice.CurrentHint(); hint != "gato" {
		t.Errorf("hint after 3 misses = %q, want %q", hint, "gato")
	}

	// Clamped to the word length.
	alice.AttemptGuess("again")
	if hint := alice.CurrentHint(); hint != "gato" {
		t.Errorf("hint should clamp at %q, got %q", "gato", hint)
	}
}

func TestAttemptGuessCorrect(t *testing.T) {
	alice, bob := pairedPlayers(t)

	correct, _ := alice.AttemptGuess("gato")
	if !correct {
		t.Fatal("exact guess should be correct")
	}

	if !bob.Discovered[1] {
		t.Error("guessed word should be marked discovered on the target")
	}
	if alice.TargetIndex != 2 {
		t.Errorf("TargetIndex = %d, want 2", alice.TargetIndex)
	}
	if alice.WrongCurrent != 0 {
		t.Errorf("WrongCurrent = %d, want 0", alice.WrongCurrent)
	}
}

func TestAttemptGuessAccentInsensitive(t *testing.T) {
	alice := newPlayer("Alice", 4)
	bob := newPlayer("Bob", 4)

	if err := bob.SetWords([]string{"casa", "maçã", "pato", "bola"}); err != nil {
		t.Fatalf("SetWords() failed: %v", err)
	}
	alice.Target = bob

	correct, message := alice.AttemptGuess("MACA")
	if !correct {
		t.Fatalf("accent-folded guess should match, got message %q", message)
	}
}

func TestAttemptGuessWrong(t *testing.T) {
	alice, bob := pairedPlayers(t)

	correct, _ := alice.AttemptGuess("cachorro")
	if correct {
		t.Fatal("wrong guess reported correct")
	}

	if alice.WrongCurrent != 1 {
		t.Errorf("WrongCurrent = %d, want 1", alice.WrongCurrent)
	}
	if bob.WrongPerWord[1] != 1 {
		t.Errorf("target WrongPerWord[1] = %d, want 1", bob.WrongPerWord[1])
	}
	if bob.Hints[1] != "ga" {
		t.Errorf("target hint = %q, want %q", bob.Hints[1], "ga")
	}
}

func TestAttemptGuessCompletion(t *testing.T) {
	alice, _ := pairedPlayers(t)

	for _, word := range []string{"gato", "pato"} {
		if correct, msg := alice.AttemptGuess(word); !correct {
			t.Fatalf("guess %q failed: %s", word, msg)
		}
	}

	correct, _ := alice.AttemptGuess("bola")
	if !correct {
		t.Fatal("final guess should be correct")
	}
	if !alice.Completed {
		t.Error("player should be completed after the last word")
	}

	if correct, _ := alice.AttemptGuess("anything"); correct {
		t.Error("completed player should not guess again")
	}
}

func TestAttemptGuessWithoutTarget(t *testing.T) {
	p := newPlayer("Alice", 4)

	correct, message := p.AttemptGuess("casa")
	if correct {
		t.Error("guess without target should fail softly")
	}
	if message == "" {
		t.Error("soft failure should carry a message")
	}
}

func TestPreviousWord(t *testing.T) {
	alice, _ := pairedPlayers(t)

	if got := alice.PreviousWord(); got != "casa" {
		t.Errorf("PreviousWord() = %q, want %q", got, "casa")
	}

	alice.AttemptGuess("gato")

	if got := alice.PreviousWord(); got != "gato" {
		t.Errorf("PreviousWord() after advance = %q, want %q", got, "gato")
	}

	loner := newPlayer("Solo", 4)
	if got := loner.PreviousWord(); got != "" {
		t.Errorf("PreviousWord() without target = %q, want empty", got)
	}
}

func TestRefreshTargetHints(t *testing.T) {
	alice, bob := pairedPlayers(t)

	bob.WrongPerWord[2] = 2
	alice.RefreshTargetHints()

	if bob.Hints[0] != "casa" {
		t.Errorf("hint[0] = %q, want full word", bob.Hints[0])
	}
	if bob.Hints[2] != "pat" {
		t.Errorf("hint[2] = %q, want %q", bob.Hints[2], "pat")
	}
}
