/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"testing"
)

func TestNewMatchConfigClamping(t *testing.T) {
	tests := []struct {
		name           string
		wordCount      int
		maxPlayers     int
		wantWords      int
		wantMaxPlayers int
	}{
		{"in range", 5, 4, 5, 4},
		{"word count too low", 1, 4, 4, 4},
		{"word count too high", 20, 4, 8, 4},
		{"max players too low", 5, 1, 5, 2},
		{"max players too high", 5, 100, 5, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := newMatchConfig(tt.wordCount, tt.maxPlayers)

			if config.WordCount != tt.wantWords {
				t.Errorf("WordCount = %d, want %d", config.WordCount, tt.wantWords)
			}
			if config.MaxPlayers != tt.wantMaxPlayers {
				t.Errorf("MaxPlayers = %d, want %d", config.MaxPlayers, tt.wantMaxPlayers)
			}
		})
	}
}

func testMatch(t *testing.T, names ...string) *Match {
	t.Helper()

	m := newMatch(newMatchConfig(4, 8))
	m.RoomCode = "ABC123"

	for _, name := range names {
		if err := m.AddPlayer(newPlayer(name, 4)); err != nil {
			t.Fatalf("AddPlayer(%s) failed: %v", name, err)
		}
	}

	return m
}

func fillWords(t *testing.T, m *Match) {
	t.Helper()

	for i, p := range m.Players {
		words := make([]string, 4)
		for j := range words {
			words[j] = fmt.Sprintf("%s%s", "palavra", string(rune('a'+i*4+j)))
		}
		if err := p.SetWords(words); err != nil {
			t.Fatalf("SetWords for %s failed: %v", p.Name, err)
		}
	}
}

func TestTargetCycle(t *testing.T) {
	for _, n := range []int{2, 3, 5, 8} {
		t.Run(fmt.Sprintf("%d players", n), func(t *testing.T) {
			names := make([]string, n)
			for i := range names {
				names[i] = fmt.Sprintf("player%d", i)
			}

			m := testMatch(t, names...)

			// Following targets n times from any player returns to
			// that player, so the cycle covers the whole roster.
			for _, start := range m.Players {
				p := start
				for j := 0; j < n; j++ {
					if p.Target == nil {
						t.Fatalf("player %s has no target", p.Name)
					}
					p = p.Target
				}
				if p != start {
					t.Errorf("cycle from %s did not close", start.Name)
				}
			}
		})
	}
}

func TestTargetsClearedBelowTwoPlayers(t *testing.T) {
	m := testMatch(t, "Alice", "Bob")

	if m.Players[0].Target == nil {
		t.Fatal("targets should be set with 2 players")
	}

	m.RemovePlayer("Bob")

	if m.Players[0].Target != nil {
		t.Error("target should be cleared when roster drops below 2")
	}
}

func TestAddPlayerRoomFull(t *testing.T) {
	m := newMatch(newMatchConfig(4, 2))

	if err := m.AddPlayer(newPlayer("Alice", 4)); err != nil {
		t.Fatal(err)
	}
	if err := m.AddPlayer(newPlayer("Bob", 4)); err != nil {
		t.Fatal(err)
	}

	err := m.AddPlayer(newPlayer("Carol", 4))
	if err == nil {
		t.Fatal("third player should be rejected")
	}
	if kind := errorKind(err); kind != kindCapacity {
		t.Errorf("error kind = %q, want %q", kind, kindCapacity)
	}
}

func TestStartRequirements(t *testing.T) {
	m := testMatch(t, "Alice")

	err := m.Start()
	if err == nil {
		t.Fatal("start with one player should fail")
	}
	if kind := errorKind(err); kind != kindState {
		t.Errorf("error kind = %q, want %q", kind, kindState)
	}

	if err := m.AddPlayer(newPlayer("Bob", 4)); err != nil {
		t.Fatal(err)
	}

	err = m.Start()
	if err == nil {
		t.Fatal("start without words should fail")
	}

	fillWords(t, m)

	if err := m.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !m.Started || m.TurnIndex != 0 {
		t.Errorf("after start: started=%t turn=%d, want true/0", m.Started, m.TurnIndex)
	}
}

func TestAttemptStateChecks(t *testing.T) {
	m := testMatch(t, "Alice", "Bob")

	if _, _, err := m.Attempt("Alice", "word"); errorKind(err) != kindState {
		t.Errorf("attempt before start: kind = %q, want %q", errorKind(err), kindState)
	}

	fillWords(t, m)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}

	if _, _, err := m.Attempt("Mallory", "word"); errorKind(err) != kindNotFound {
		t.Errorf("unknown player: kind = %q, want %q", errorKind(err), kindNotFound)
	}

	if _, _, err := m.Attempt("Bob", "word"); errorKind(err) != kindState {
		t.Errorf("out of turn: kind = %q, want %q", errorKind(err), kindState)
	}
}

func TestWrongGuessAdvancesTurn(t *testing.T) {
	m := testMatch(t, "Alice", "Bob", "Carol")
	fillWords(t, m)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}

	correct, _, err := m.Attempt("Alice", "definitelywrong")
	if err != nil {
		t.Fatal(err)
	}
	if correct {
		t.Fatal("guess should be wrong")
	}
	if m.TurnIndex != 1 {
		t.Errorf("TurnIndex = %d, want 1", m.TurnIndex)
	}

	// Wraps around the roster.
	m.Attempt("Bob", "alsowrong")
	m.Attempt("Carol", "stillwrong")
	if m.TurnIndex != 0 {
		t.Errorf("TurnIndex = %d, want 0 after wrap", m.TurnIndex)
	}
}

func TestCorrectGuessKeepsTurn(t *testing.T) {
	m := testMatch(t, "Alice", "Bob")
	fillWords(t, m)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}

	// Alice guesses Bob's second word, read straight from his list.
	answer := m.Players[1].Words[1]

	correct, _, err := m.Attempt("Alice", answer)
	if err != nil {
		t.Fatal(err)
	}
	if !correct {
		t.Fatal("guess should be correct")
	}

	if m.TurnIndex != 0 {
		t.Errorf("TurnIndex = %d, want 0 (correct guess keeps the turn)", m.TurnIndex)
	}
	if !m.Players[1].Discovered[1] {
		t.Error("Bob's second word should be discovered")
	}
	if m.Players[0].TargetIndex != 2 {
		t.Errorf("Alice's TargetIndex = %d, want 2", m.Players[0].TargetIndex)
	}
}

func TestWinnerLatches(t *testing.T) {
	m := testMatch(t, "Alice", "Bob")
	fillWords(t, m)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}

	bob := m.Players[1]
	for _, answer := range bob.Words[1:] {
		correct, _, err := m.Attempt("Alice", answer)
		if err != nil {
			t.Fatal(err)
		}
		if !correct {
			t.Fatalf("guess %q should be correct", answer)
		}
	}

	if m.Winner != m.Players[0] {
		t.Fatal("Alice should be the winner")
	}

	_, _, err := m.Attempt("Alice", "anything")
	if errorKind(err) != kindState {
		t.Errorf("attempt after finish: kind = %q, want %q", errorKind(err), kindState)
	}
}

func TestTurnClampAfterRemoval(t *testing.T) {
	m := testMatch(t, "Alice", "Bob", "Carol")
	fillWords(t, m)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}

	m.Attempt("Alice", "wrong")
	m.Attempt("Bob", "wrong")
	if m.TurnIndex != 2 {
		t.Fatalf("TurnIndex = %d, want 2", m.TurnIndex)
	}

	m.RemovePlayer("Carol")

	if m.TurnIndex < 0 || m.TurnIndex >= len(m.Players) {
		t.Errorf("TurnIndex %d out of range for %d players", m.TurnIndex, len(m.Players))
	}
}

func TestRemovePlayerUnknownName(t *testing.T) {
	m := testMatch(t, "Alice", "Bob")

	if m.RemovePlayer("Mallory") {
		t.Error("removing an unknown name should report false")
	}
	if len(m.Players) != 2 {
		t.Errorf("roster size = %d, want 2", len(m.Players))
	}
}

func TestFindPlayerCaseInsensitive(t *testing.T) {
	m := testMatch(t, "Alice")

	if m.FindPlayer("ALICE") == nil {
		t.Error("lookup should ignore case")
	}
	if m.FindPlayer("Mallory") != nil {
		t.Error("unknown name should return nil")
	}
}

func TestChatLogBounded(t *testing.T) {
	m := testMatch(t, "Alice", "Bob")

	for i := 0; i < 60; i++ {
		m.AddChat("Alice", fmt.Sprintf("message %d", i))
	}

	if len(m.Chat) != chatLogLimit {
		t.Errorf("chat length = %d, want %d", len(m.Chat), chatLogLimit)
	}
	if m.Chat[len(m.Chat)-1].Text != "message 59" {
		t.Errorf("newest message = %q, want %q", m.Chat[len(m.Chat)-1].Text, "message 59")
	}
}

func TestAnswerKeyOnlyAfterFinish(t *testing.T) {
	m := testMatch(t, "Alice", "Bob")
	fillWords(t, m)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}

	if m.AnswerKey() != nil {
		t.Error("answer key should be nil before the match finishes")
	}

	snapshot := m.Snapshot()
	for _, p := range snapshot.Players {
		if len(p.Words) != 0 || len(p.Originals) != 0 {
			t.Errorf("snapshot leaked words for %s before finish", p.Name)
		}
	}

	bob := m.Players[1]
	for _, answer := range bob.Words[1:] {
		m.Attempt("Alice", answer)
	}

	key := m.AnswerKey()
	if len(key) != 2 {
		t.Fatalf("answer key entries = %d, want 2", len(key))
	}
	for _, entry := range key {
		if len(entry.Words) != 4 || len(entry.Originals) != 4 {
			t.Errorf("answer key entry for %s incomplete", entry.Player)
		}
	}

	snapshot = m.Snapshot()
	for _, p := range snapshot.Players {
		if len(p.Words) != 4 {
			t.Errorf("snapshot should include words for %s after finish", p.Name)
		}
	}
}

func TestReset(t *testing.T) {
	m := testMatch(t, "Alice", "Bob")
	fillWords(t, m)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}

	m.AddChat("Alice", "hello")

	bob := m.Players[1]
	for _, answer := range bob.Words[1:] {
		m.Attempt("Alice", answer)
	}

	m.Reset()

	if m.Started || m.Winner != nil || m.TurnIndex != 0 || len(m.Chat) != 0 {
		t.Error("reset did not clear match state")
	}

	for _, p := range m.Players {
		if p.WordsSet() || p.Completed || p.TargetIndex != 1 {
			t.Errorf("reset did not clear player %s", p.Name)
		}
		if p.Target == nil {
			t.Errorf("targets should be rebuilt for %s", p.Name)
		}
	}

	// The same roster can play again.
	fillWords(t, m)
	if err := m.Start(); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
}

func TestScenarioAliceAndBob(t *testing.T) {
	m := newMatch(newMatchConfig(5, 8))
	m.RoomCode = "ABC123"

	alice := newPlayer("Alice", 5)
	bob := newPlayer("Bob", 5)

	if err := m.AddPlayer(alice); err != nil {
		t.Fatal(err)
	}
	if err := m.AddPlayer(bob); err != nil {
		t.Fatal(err)
	}

	if err := alice.SetWords([]string{"rosa", "fogo", "vela", "sapo", "lua"}); err != nil {
		t.Fatal(err)
	}
	if err := bob.SetWords([]string{"casa", "gato", "pato", "bola", "rio"}); err != nil {
		t.Fatal(err)
	}

	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	if m.CurrentPlayer() != alice {
		t.Fatal("Alice should have the first turn")
	}

	// Alice guesses Bob's second word correctly and keeps the turn.
	correct, _, err := m.Attempt("Alice", "gato")
	if err != nil || !correct {
		t.Fatalf("correct guess failed: correct=%t err=%v", correct, err)
	}
	if !bob.Discovered[1] {
		t.Error("Bob's word should be discovered")
	}
	if alice.TargetIndex != 2 {
		t.Errorf("Alice's TargetIndex = %d, want 2", alice.TargetIndex)
	}
	if m.CurrentPlayer() != alice {
		t.Error("turn should stay with Alice")
	}

	// Alice misses; turn passes to Bob and the error is recorded on
	// the pending word in Bob's list.
	correct, _, err = m.Attempt("Alice", "peixe")
	if err != nil || correct {
		t.Fatalf("wrong guess mishandled: correct=%t err=%v", correct, err)
	}
	if m.CurrentPlayer() != bob {
		t.Error("turn should pass to Bob")
	}
	if bob.WrongPerWord[2] != 1 {
		t.Errorf("Bob's WrongPerWord[2] = %d, want 1", bob.WrongPerWord[2])
	}

	// Symmetric case: Bob guesses against Alice's list.
	correct, _, err = m.Attempt("Bob", "fogo")
	if err != nil || !correct {
		t.Fatalf("Bob's correct guess failed: correct=%t err=%v", correct, err)
	}
	if !alice.Discovered[1] {
		t.Error("Alice's word should be discovered")
	}
}
