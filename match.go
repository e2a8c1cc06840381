/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"strings"
	"time"
)

const chatLogLimit = 50

// MatchConfig is clamped on construction and immutable afterwards.
type MatchConfig struct {
	WordCount  int `json:"word_count"`
	MaxPlayers int `json:"max_players"`
}

func newMatchConfig(wordCount, maxPlayers int) MatchConfig {
	return MatchConfig{
		WordCount:  clamp(wordCount, 4, 8),
		MaxPlayers: clamp(maxPlayers, 2, 8),
	}
}

func clamp(n, low, high int) int {
	if n < low {
		return low
	}
	if n > high {
		return high
	}
	return n
}

// Match owns the roster, the turn pointer, and the win condition for a
// single room. Roster insertion order is turn order; each player's
// target is the next player in the cycle.
type Match struct {
	Config    MatchConfig
	Players   []*Player
	TurnIndex int
	Started   bool
	Winner    *Player
	Chat      []ChatMessage
	RoomCode  string
}

func newMatch(config MatchConfig) *Match {
	return &Match{
		Config: config,
	}
}

// AddPlayer appends to the roster and rebuilds the target cycle.
func (m *Match) AddPlayer(p *Player) error {
	if len(m.Players) >= m.Config.MaxPlayers {
		return capacityErrorf("the room is full")
	}

	p.WordCount = m.Config.WordCount
	m.Players = append(m.Players, p)
	m.recomputeTargets()

	return nil
}

// RemovePlayer drops a player by case-insensitive name, clamps the
// turn pointer, and rebuilds the target cycle. Returns false if no
// such player exists.
func (m *Match) RemovePlayer(name string) bool {
	dst := m.Players[:0]
	removed := false

	for _, p := range m.Players {
		if strings.EqualFold(p.Name, name) {
			removed = true
			continue
		}
		dst = append(dst, p)
	}
	m.Players = dst

	if !removed {
		return false
	}

	if len(m.Players) > 0 {
		m.TurnIndex %= len(m.Players)
	} else {
		m.TurnIndex = 0
	}

	m.recomputeTargets()

	return true
}

// FindPlayer looks a player up by case-insensitive name.
func (m *Match) FindPlayer(name string) *Player {
	for _, p := range m.Players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// recomputeTargets rebuilds the directed cycle players[i] -> players[i+1].
// Below two players there is no cycle, so targets are cleared rather
// than left pointing at a stale roster.
func (m *Match) recomputeTargets() {
	if len(m.Players) < 2 {
		for _, p := range m.Players {
			p.Target = nil
		}
		return
	}

	for i, p := range m.Players {
		p.Target = m.Players[(i+1)%len(m.Players)]
	}
}

// Start begins the match once every player has a full word list.
func (m *Match) Start() error {
	if len(m.Players) < 2 {
		return stateErrorf("at least 2 players are required")
	}

	for _, p := range m.Players {
		if len(p.Words) != m.Config.WordCount {
			return stateErrorf("player %s has not set their words yet", p.Name)
		}
	}

	m.Started = true
	m.TurnIndex = 0

	return nil
}

// Attempt processes one guess by the named player. A wrong guess
// passes the turn to the next player; a correct guess keeps it. The
// first player to complete their target's list wins.
func (m *Match) Attempt(playerName, raw string) (bool, string, error) {
	if !m.Started {
		return false, "", stateErrorf("the game has not started yet")
	}

	if m.Winner != nil {
		return false, "", stateErrorf("the game is already over")
	}

	player := m.FindPlayer(playerName)
	if player == nil {
		return false, "", notFoundErrorf("player %s is not in this room", playerName)
	}

	if m.Players[m.TurnIndex] != player {
		return false, "", stateErrorf("it is not your turn")
	}

	correct, message := player.AttemptGuess(raw)

	if player.Completed {
		m.Winner = player
	}

	if !correct {
		m.TurnIndex = (m.TurnIndex + 1) % len(m.Players)
	}

	return correct, message, nil
}

// CurrentPlayer returns the player whose turn it is, or nil.
func (m *Match) CurrentPlayer() *Player {
	if len(m.Players) > 0 && m.TurnIndex >= 0 && m.TurnIndex < len(m.Players) {
		return m.Players[m.TurnIndex]
	}
	return nil
}

// AllWordsSet reports whether every player has submitted a full list.
func (m *Match) AllWordsSet() bool {
	for _, p := range m.Players {
		if !p.WordsSet() {
			return false
		}
	}
	return len(m.Players) > 0
}

// AddChat appends to the chat log, keeping only the newest entries.
func (m *Match) AddChat(playerName, text string) ChatMessage {
	entry := ChatMessage{
		Type:      "chat_message",
		Player:    playerName,
		Text:      strings.TrimSpace(text),
		Timestamp: time.Now().Format("15:04:05"),
	}

	m.Chat = append(m.Chat, entry)
	if len(m.Chat) > chatLogLimit {
		m.Chat = m.Chat[len(m.Chat)-chatLogLimit:]
	}

	return entry
}

// Snapshot builds the full game state sent to clients. Complete word
// lists are only included once a winner exists.
func (m *Match) Snapshot() GameStateMessage {
	current := m.CurrentPlayer()
	currentName := ""
	if current != nil {
		currentName = current.Name
	}

	winnerName := ""
	if m.Winner != nil {
		winnerName = m.Winner.Name
	}

	players := make([]PlayerState, 0, len(m.Players))
	for _, p := range m.Players {
		targetName := ""
		if p.Target != nil {
			targetName = p.Target.Name
		}

		state := PlayerState{
			Name:         p.Name,
			Avatar:       p.Avatar,
			Discovered:   p.Discovered,
			Hints:        p.Hints,
			CurrentIndex: p.TargetIndex,
			CurrentHint:  p.CurrentHint(),
			PreviousWord: p.PreviousWord(),
			Completed:    p.Completed,
			Target:       targetName,
			WordsSet:     p.WordsSet(),
		}

		if m.Winner != nil {
			state.Words = p.Words
			state.Originals = p.Originals
		}

		players = append(players, state)
	}

	return GameStateMessage{
		Type:          "game_state",
		RoomCode:      m.RoomCode,
		TurnIndex:     m.TurnIndex,
		CurrentPlayer: currentName,
		Started:       m.Started,
		Winner:        winnerName,
		Config:        m.Config,
		Players:       players,
		Chat:          m.Chat,
	}
}

// AnswerKey returns every player's full word list, or nil until the
// match has finished.
func (m *Match) AnswerKey() []AnswerEntry {
	if m.Winner == nil {
		return nil
	}

	key := make([]AnswerEntry, 0, len(m.Players))
	for _, p := range m.Players {
		key = append(key, AnswerEntry{
			Player:     p.Name,
			Originals:  p.Originals,
			Words:      p.Words,
			Discovered: p.Discovered,
		})
	}

	return key
}

// Reset returns the match to the not-started state with the same
// roster, clearing words, progress, and chat.
func (m *Match) Reset() {
	m.Started = false
	m.Winner = nil
	m.TurnIndex = 0
	m.Chat = nil

	for _, p := range m.Players {
		p.ClearWords()
	}

	m.recomputeTargets()
}
