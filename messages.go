/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

// Messages coming from clients
type ClientMessage struct {
	Type     string   `json:"type"`               // "join_room", "leave_room", "kick_player", "set_ready", "start_match", "submit_words", "guess", "send_chat", "send_reaction", "request_state", "request_answer_key", "restart_match"
	Name     string   `json:"name,omitempty"`     // join_room
	Avatar   string   `json:"avatar,omitempty"`   // join_room
	Target   string   `json:"target,omitempty"`   // kick_player
	Ready    *bool    `json:"ready,omitempty"`    // set_ready
	Words    []string `json:"words,omitempty"`    // submit_words
	Word     string   `json:"word,omitempty"`     // guess
	Text     string   `json:"text,omitempty"`     // send_chat
	Reaction string   `json:"reaction,omitempty"` // send_reaction
}

// RoomCreatedMessage is sent to the creator's session once it connects.
type RoomCreatedMessage struct {
	Type     string      `json:"type"` // "room_created"
	RoomCode string      `json:"room_code"`
	Config   MatchConfig `json:"config"`
}

// PlayerJoinedMessage announces a join or reconnect to the whole room.
type PlayerJoinedMessage struct {
	Type      string   `json:"type"` // "player_joined"
	Player    string   `json:"player"`
	Reconnect bool     `json:"reconnect"`
	Players   []string `json:"players"`
	Total     int      `json:"total"`
	Max       int      `json:"max"`
}

// PlayerReadyMessage announces a ready flag change.
type PlayerReadyMessage struct {
	Type   string `json:"type"` // "player_ready"
	Player string `json:"player"`
	Ready  bool   `json:"ready"`
}

// WordsAckMessage confirms a word list to its submitter only.
type WordsAckMessage struct {
	Type    string `json:"type"` // "words_ack"
	Message string `json:"message"`
}

// WordsStatusMessage tells the room who has submitted words so far.
type WordsStatusMessage struct {
	Type    string       `json:"type"` // "words_status"
	Player  string       `json:"player"`
	Players []WordStatus `json:"players"`
}

type WordStatus struct {
	Player   string `json:"player"`
	WordsSet bool   `json:"words_set"`
}

// GuessResultMessage informs everyone about a guess outcome.
type GuessResultMessage struct {
	Type    string `json:"type"` // "guess_result"
	Player  string `json:"player"`
	Word    string `json:"word"`
	Correct bool   `json:"correct"`
	Message string `json:"message"`
}

// MatchFinishedMessage announces the winner.
type MatchFinishedMessage struct {
	Type    string `json:"type"` // "match_finished"
	Winner  string `json:"winner"`
	Message string `json:"message"`
}

// ChatMessage is both the stored chat log entry and the wire frame.
type ChatMessage struct {
	Type      string `json:"type"` // "chat_message"
	Player    string `json:"player"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// ReactionMessage carries an allowlisted emoji reaction.
type ReactionMessage struct {
	Type     string `json:"type"` // "reaction"
	Player   string `json:"player"`
	Reaction string `json:"reaction"`
}

// PlayerLeftMessage announces a departure, voluntary or not.
type PlayerLeftMessage struct {
	Type    string   `json:"type"` // "player_left"
	Player  string   `json:"player"`
	Kicked  bool     `json:"kicked"`
	Players []string `json:"players"`
}

// KickedMessage is sent to the kicked session only, before disconnect.
type KickedMessage struct {
	Type    string `json:"type"` // "player_kicked"
	Message string `json:"message"`
}

// CreatorChangedMessage announces a creator hand-off.
type CreatorChangedMessage struct {
	Type   string `json:"type"` // "creator_changed"
	Player string `json:"player"`
}

// MatchStartedMessage announces a manual start.
type MatchStartedMessage struct {
	Type          string `json:"type"` // "match_started"
	CurrentPlayer string `json:"current_player"`
}

// MatchRestartedMessage announces a "play again" reset.
type MatchRestartedMessage struct {
	Type    string      `json:"type"` // "match_restarted"
	Player  string      `json:"player"`
	Players []string    `json:"players"`
	Config  MatchConfig `json:"config"`
}

// AnswerKeyMessage carries the full answer key, post-finish only.
type AnswerKeyMessage struct {
	Type    string        `json:"type"` // "answer_key"
	Entries []AnswerEntry `json:"entries"`
}

type AnswerEntry struct {
	Player     string   `json:"player"`
	Originals  []string `json:"originals"`
	Words      []string `json:"words"`
	Discovered []bool   `json:"discovered"`
}

// ErrorMessage is sent to the offending session only.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// GameStateMessage is the full room snapshot.
type GameStateMessage struct {
	Type          string        `json:"type"` // "game_state"
	RoomCode      string        `json:"room_code"`
	TurnIndex     int           `json:"turn_index"`
	CurrentPlayer string        `json:"current_player,omitempty"`
	Started       bool          `json:"started"`
	Winner        string        `json:"winner,omitempty"`
	Config        MatchConfig   `json:"config"`
	Players       []PlayerState `json:"players"`
	Chat          []ChatMessage `json:"chat,omitempty"`
}

type PlayerState struct {
	Name         string   `json:"name"`
	Avatar       string   `json:"avatar"`
	Discovered   []bool   `json:"discovered"`
	Hints        []string `json:"hints"`
	CurrentIndex int      `json:"current_index"`
	CurrentHint  string   `json:"current_hint"`
	PreviousWord string   `json:"previous_word"`
	Completed    bool     `json:"completed"`
	Target       string   `json:"target,omitempty"`
	WordsSet     bool     `json:"words_set"`
	Words        []string `json:"words,omitempty"`     // only after the match ends
	Originals    []string `json:"originals,omitempty"` // only after the match ends
}
