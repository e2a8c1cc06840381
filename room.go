/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"crypto/rand"
	"log"
	"strings"
	"sync"
	"time"
)

const (
	maxNameLength = 20
	maxChatLength = 200
)

var allowedReactions = []string{"👍", "👎", "🤔", "😂", "😱", "🔥", "💡", "❤️"}

type inboundEvent struct {
	client *Client
	msg    ClientMessage
}

// Room owns one match plus its connection roster, readiness set, and
// disconnect bookkeeping. All mutations go through the run loop or a
// timer goroutine, serialized by mu.
type Room struct {
	code  string
	mode  string
	match *Match

	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	events   chan inboundEvent

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time
	removalAt  time.Time // set once the room has no sessions left

	creatorID   string // cookie/client ID of the current creator
	creatorName string
	ready       map[string]bool      // lowercased name -> ready
	pendingGone map[string]time.Time // lowercased name -> slot removal deadline
}

func newRoom(code, mode string, config MatchConfig, creatorID string) *Room {
	now := time.Now()

	match := newMatch(config)
	match.RoomCode = code

	return &Room{
		code:        code,
		mode:        mode,
		match:       match,
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unreg:       make(chan *Client),
		events:      make(chan inboundEvent),
		createdAt:   now,
		lastActive:  now,
		creatorID:   creatorID,
		ready:       make(map[string]bool),
		pendingGone: make(map[string]time.Time),
	}
}

func (r *Room) run(cfg *Config) {
	for {
		select {
		case c := <-r.register:
			r.handleRegister(c)

		case c := <-r.unreg:
			r.handleUnregister(cfg, c)

		case ev := <-r.events:
			r.dispatch(cfg, ev)
		}
	}
}

// dispatch routes one inbound event, converting any failure into an
// error notification for the originating session only. State is never
// partially mutated: handlers validate before touching anything.
func (r *Room) dispatch(cfg *Config, ev inboundEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("%s | ERROR: recovered in room %s: %v", time.Now().Format(logDate), r.code, rec)
			r.sendError(ev.client, &GameError{Kind: kindInternal, Message: "internal error"})
		}
	}()

	var err error

	switch ev.msg.Type {
	case "join_room":
		err = r.handleJoin(cfg, ev.client, ev.msg)
	case "leave_room":
		err = r.handleLeave(cfg, ev.client)
	case "kick_player":
		err = r.handleKick(cfg, ev.client, ev.msg)
	case "set_ready":
		err = r.handleReady(ev.client, ev.msg)
	case "start_match":
		err = r.handleStart(cfg, ev.client)
	case "submit_words":
		err = r.handleWords(cfg, ev.client, ev.msg)
	case "guess":
		err = r.handleGuess(cfg, ev.client, ev.msg)
	case "send_chat":
		err = r.handleChat(ev.client, ev.msg)
	case "send_reaction":
		err = r.handleReaction(ev.client, ev.msg)
	case "request_state":
		err = r.handleState(ev.client)
	case "request_answer_key":
		err = r.handleAnswerKey(ev.client)
	case "restart_match":
		err = r.handleRestart(cfg, ev.client)
	default:
		err = validationErrorf("unknown event type: %s", ev.msg.Type)
	}

	if err != nil {
		r.sendError(ev.client, err)
	}
}

func (r *Room) handleRegister(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastActive = time.Now()
	r.removalAt = time.Time{}
	r.clients[c] = true

	if c.clientID == r.creatorID {
		r.sendToLocked(c, RoomCreatedMessage{
			Type:     "room_created",
			RoomCode: r.code,
			Config:   r.match.Config,
		})
	}

	r.sendToLocked(c, r.match.Snapshot())
}

func (r *Room) handleUnregister(cfg *Config, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[c]; ok {
		delete(r.clients, c)
		close(c.send)
	}

	r.lastActive = time.Now()

	if c.name == "" || r.hasSessionLocked(c.name) {
		return
	}

	// Keep the match slot through the grace window so a tab refresh
	// can reconnect without losing submitted words.
	r.pendingGone[strings.ToLower(c.name)] = time.Now().Add(cfg.disconnectGrace)
	go r.scheduleRemoval(cfg, c.name, c.clientID)
}

// scheduleRemoval waits out the grace window, and if no session with
// this name or client ID has reconnected, removes the player.
func (r *Room) scheduleRemoval(cfg *Config, name, clientID string) {
	time.Sleep(cfg.disconnectGrace)

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.pendingGone, strings.ToLower(name))

	for client := range r.clients {
		if client.clientID == clientID || strings.EqualFold(client.name, name) {
			return
		}
	}

	r.removePlayerLocked(cfg, name, false)
}

func (r *Room) handleJoin(cfg *Config, c *Client, msg ClientMessage) error {
	name := strings.TrimSpace(msg.Name)
	if name == "" {
		return validationErrorf("a name is required")
	}
	if len([]rune(name)) > maxNameLength {
		return validationErrorf("names must be at most %d characters", maxNameLength)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastActive = time.Now()

	existing := r.match.FindPlayer(name)
	reconnect := existing != nil

	if reconnect {
		delete(r.pendingGone, strings.ToLower(name))
		existing.SetAvatar(msg.Avatar)
	} else {
		if r.match.Started {
			return stateErrorf("the game has already started")
		}

		player := newPlayer(name, r.match.Config.WordCount)
		player.SetAvatar(msg.Avatar)

		if err := r.match.AddPlayer(player); err != nil {
			return err
		}
	}

	c.name = name

	// Creator identity follows the creator's name across reconnects.
	if r.creatorName != "" && strings.EqualFold(r.creatorName, name) {
		r.creatorID = c.clientID
	}
	if c.clientID == r.creatorID && r.creatorName == "" {
		r.creatorName = name
	}

	r.broadcastLocked(PlayerJoinedMessage{
		Type:      "player_joined",
		Player:    name,
		Reconnect: reconnect,
		Players:   r.playerNamesLocked(),
		Total:     len(r.match.Players),
		Max:       r.match.Config.MaxPlayers,
	})

	r.sendToLocked(c, r.match.Snapshot())

	if reconnect {
		logf(cfg, "ROOMS: Player %q reconnected to %s", name, r.code)
	} else {
		logf(cfg, "ROOMS: Player %q joined %s", name, r.code)
	}

	return nil
}

func (r *Room) handleLeave(cfg *Config, c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.name == "" {
		return validationErrorf("join the room first")
	}

	r.removePlayerLocked(cfg, c.name, false)

	if _, ok := r.clients[c]; ok {
		delete(r.clients, c)
		close(c.send)
	}

	return nil
}

func (r *Room) handleKick(cfg *Config, c *Client, msg ClientMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.clientID != r.creatorID {
		return authorizationErrorf("only the room creator can kick players")
	}

	target := strings.TrimSpace(msg.Target)
	if target == "" {
		return validationErrorf("a target player is required")
	}

	player := r.match.FindPlayer(target)
	if player == nil {
		return notFoundErrorf("player %s is not in this room", target)
	}

	// Notify the kicked sessions before forcing them off.
	for client := range r.clients {
		if strings.EqualFold(client.name, player.Name) {
			r.sendToLocked(client, KickedMessage{
				Type:    "player_kicked",
				Message: "you have been removed by the room creator",
			})
			delete(r.clients, client)
			close(client.send)
		}
	}

	r.removePlayerLocked(cfg, player.Name, true)

	return nil
}

func (r *Room) handleReady(c *Client, msg ClientMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.name == "" {
		return validationErrorf("join the room first")
	}
	if c.clientID == r.creatorID {
		return authorizationErrorf("the room creator does not flag ready")
	}
	if r.match.FindPlayer(c.name) == nil {
		return notFoundErrorf("player %s is not in this room", c.name)
	}

	ready := msg.Ready != nil && *msg.Ready
	if ready {
		r.ready[strings.ToLower(c.name)] = true
	} else {
		delete(r.ready, strings.ToLower(c.name))
	}

	r.lastActive = time.Now()

	r.broadcastLocked(PlayerReadyMessage{
		Type:   "player_ready",
		Player: c.name,
		Ready:  ready,
	})

	return nil
}

func (r *Room) handleStart(cfg *Config, c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.clientID != r.creatorID {
		return authorizationErrorf("only the room creator can start the match")
	}

	// Every currently-connected player other than the creator must
	// have flagged ready. Disconnected players are not counted; the
	// word check in Start covers them.
	for _, p := range r.match.Players {
		if strings.EqualFold(p.Name, r.creatorName) {
			continue
		}
		if r.hasSessionLocked(p.Name) && !r.ready[strings.ToLower(p.Name)] {
			return stateErrorf("%s is not ready yet", p.Name)
		}
	}

	if err := r.match.Start(); err != nil {
		return err
	}

	r.lastActive = time.Now()

	current := ""
	if p := r.match.CurrentPlayer(); p != nil {
		current = p.Name
	}

	r.broadcastLocked(MatchStartedMessage{
		Type:          "match_started",
		CurrentPlayer: current,
	})
	r.broadcastLocked(r.match.Snapshot())

	logf(cfg, "GAME: Match started in %s with %d players", r.code, len(r.match.Players))

	return nil
}

func (r *Room) handleWords(cfg *Config, c *Client, msg ClientMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.name == "" {
		return validationErrorf("join the room first")
	}

	player := r.match.FindPlayer(c.name)
	if player == nil {
		return notFoundErrorf("player %s is not in this room", c.name)
	}

	if err := player.SetWords(msg.Words); err != nil {
		return err
	}

	r.lastActive = time.Now()

	r.sendToLocked(c, WordsAckMessage{
		Type:    "words_ack",
		Message: "words set successfully",
	})

	statuses := make([]WordStatus, 0, len(r.match.Players))
	for _, p := range r.match.Players {
		statuses = append(statuses, WordStatus{
			Player:   p.Name,
			WordsSet: p.WordsSet(),
		})
	}

	r.broadcastLocked(WordsStatusMessage{
		Type:    "words_status",
		Player:  c.name,
		Players: statuses,
	})

	logf(cfg, "GAME: Player %q set %d words in %s", c.name, len(msg.Words), r.code)

	return nil
}

func (r *Room) handleGuess(cfg *Config, c *Client, msg ClientMessage) error {
	word := strings.TrimSpace(msg.Word)
	if word == "" {
		return validationErrorf("enter a word to guess")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c.name == "" {
		return validationErrorf("join the room first")
	}

	correct, message, err := r.match.Attempt(c.name, word)
	if err != nil {
		return err
	}

	r.lastActive = time.Now()

	r.broadcastLocked(GuessResultMessage{
		Type:    "guess_result",
		Player:  c.name,
		Word:    word,
		Correct: correct,
		Message: message,
	})
	r.broadcastLocked(r.match.Snapshot())

	logf(cfg, "GAME: Guess %q by %q in %s: correct=%t", word, c.name, r.code, correct)

	if r.match.Winner != nil {
		r.broadcastLocked(MatchFinishedMessage{
			Type:    "match_finished",
			Winner:  r.match.Winner.Name,
			Message: r.match.Winner.Name + " won the game!",
		})

		logf(cfg, "GAME: Match finished in %s, winner %q", r.code, r.match.Winner.Name)
	}

	return nil
}

func (r *Room) handleChat(c *Client, msg ClientMessage) error {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return validationErrorf("a message is required")
	}
	if len([]rune(text)) > maxChatLength {
		return validationErrorf("messages must be at most %d characters", maxChatLength)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c.name == "" || r.match.FindPlayer(c.name) == nil {
		return notFoundErrorf("player is not in this room")
	}

	r.lastActive = time.Now()

	entry := r.match.AddChat(c.name, text)
	r.broadcastLocked(entry)

	return nil
}

func (r *Room) handleReaction(c *Client, msg ClientMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.name == "" || r.match.FindPlayer(c.name) == nil {
		return notFoundErrorf("player is not in this room")
	}

	allowed := false
	for _, reaction := range allowedReactions {
		if msg.Reaction == reaction {
			allowed = true
			break
		}
	}
	if !allowed {
		return validationErrorf("that reaction is not allowed")
	}

	r.lastActive = time.Now()

	r.broadcastLocked(ReactionMessage{
		Type:     "reaction",
		Player:   c.name,
		Reaction: msg.Reaction,
	})

	return nil
}

func (r *Room) handleState(c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sendToLocked(c, r.match.Snapshot())

	return nil
}

func (r *Room) handleAnswerKey(c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.match.AnswerKey()
	if key == nil {
		return stateErrorf("the game has not finished yet")
	}

	r.broadcastLocked(AnswerKeyMessage{
		Type:    "answer_key",
		Entries: key,
	})

	return nil
}

func (r *Room) handleRestart(cfg *Config, c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.clientID != r.creatorID {
		return authorizationErrorf("only the room creator can restart the match")
	}

	r.match.Reset()
	r.ready = make(map[string]bool)
	r.lastActive = time.Now()

	r.broadcastLocked(MatchRestartedMessage{
		Type:    "match_restarted",
		Player:  c.name,
		Players: r.playerNamesLocked(),
		Config:  r.match.Config,
	})
	r.broadcastLocked(r.match.Snapshot())

	logf(cfg, "GAME: Match restarted in %s by %q", r.code, c.name)

	return nil
}

// removePlayerLocked drops a player from the match, announces it, and
// hands creator identity to the earliest remaining connected player if
// the creator is the one leaving. Assumes r.mu is held.
func (r *Room) removePlayerLocked(cfg *Config, name string, kicked bool) bool {
	if !r.match.RemovePlayer(name) {
		return false
	}

	lower := strings.ToLower(name)
	delete(r.ready, lower)
	delete(r.pendingGone, lower)

	r.lastActive = time.Now()

	r.broadcastLocked(PlayerLeftMessage{
		Type:    "player_left",
		Player:  name,
		Kicked:  kicked,
		Players: r.playerNamesLocked(),
	})

	if strings.EqualFold(r.creatorName, name) {
		r.promoteCreatorLocked()
	}

	if kicked {
		logf(cfg, "ROOMS: Player %q kicked from %s", name, r.code)
	} else {
		logf(cfg, "ROOMS: Player %q left %s", name, r.code)
	}

	return true
}

func (r *Room) promoteCreatorLocked() {
	for _, p := range r.match.Players {
		for client := range r.clients {
			if strings.EqualFold(client.name, p.Name) {
				r.creatorID = client.clientID
				r.creatorName = p.Name

				r.broadcastLocked(CreatorChangedMessage{
					Type:   "creator_changed",
					Player: p.Name,
				})

				return
			}
		}
	}

	r.creatorName = ""
	r.creatorID = ""
}

func (r *Room) hasSessionLocked(name string) bool {
	for client := range r.clients {
		if strings.EqualFold(client.name, name) {
			return true
		}
	}
	return false
}

func (r *Room) playerNamesLocked() []string {
	names := make([]string, 0, len(r.match.Players))
	for _, p := range r.match.Players {
		names = append(names, p.Name)
	}
	return names
}

func (r *Room) broadcastLocked(msg any) {
	for client := range r.clients {
		select {
		case client.send <- msg:
		default:
			delete(r.clients, client)
			close(client.send)
		}
	}
}

func (r *Room) sendToLocked(c *Client, msg any) {
	if _, ok := r.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(r.clients, c)
		close(c.send)
	}
}

// sendError reports a failure to the offending session only. Sessions
// already dropped from the roster are skipped; their channel is closed.
func (r *Room) sendError(c *Client, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sendToLocked(c, ErrorMessage{
		Type:    "error",
		Kind:    errorKind(err),
		Message: err.Error(),
	})
}

// expired decides whether the sweeper may remove this room. Rooms with
// live sessions never expire; empty rooms get a removal deadline,
// extended for rooms young enough that the creator's first page load
// may still be connecting.
func (r *Room) expired(cfg *Config, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.clients) > 0 {
		r.removalAt = time.Time{}
		return false
	}

	if now.Sub(r.lastActive) > cfg.roomTimeout {
		return true
	}

	if r.removalAt.IsZero() {
		deadline := now.Add(cfg.disconnectGrace)
		if earliest := r.createdAt.Add(cfg.createGrace); earliest.After(deadline) {
			deadline = earliest
		}
		r.removalAt = deadline
		return false
	}

	return now.After(r.removalAt)
}

// closeAll disconnects every session in this room (used by the sweeper).
func (r *Room) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for c := range r.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(r.clients, c)
	}
}

// RoomRegistry holds every live room keyed by code.
type RoomRegistry struct {
	mu    sync.Mutex
	rooms map[string]*Room
	cfg   *Config
}

func newRoomRegistry(ctx context.Context, cfg *Config) *RoomRegistry {
	reg := &RoomRegistry{
		rooms: make(map[string]*Room),
		cfg:   cfg,
	}

	go reg.sweepLoop(ctx)

	return reg
}

func (reg *RoomRegistry) create(wordCount, maxPlayers int, mode, creatorID string) *Room {
	config := newMatchConfig(wordCount, maxPlayers)

	if mode == "" {
		mode = "classic"
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	code := reg.newRoomCodeLocked()
	room := newRoom(code, mode, config, creatorID)
	reg.rooms[code] = room

	go room.run(reg.cfg)

	return room
}

func (reg *RoomRegistry) lookup(code string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[strings.ToUpper(code)]

	return room, ok
}

// newRoomCodeLocked generates a human-typed room code: 6 uppercase
// alphanumerics, retried against collisions, falling back to 8
// characters if the short space looks crowded.
func (reg *RoomRegistry) newRoomCodeLocked() string {
	for i := 0; i < 20; i++ {
		code := randomCode(6)
		if _, exists := reg.rooms[code]; !exists {
			return code
		}
	}

	for {
		code := randomCode(8)
		if _, exists := reg.rooms[code]; !exists {
			return code
		}
	}
}

func randomCode(length int) string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	out := make([]byte, length)
	for i := range out {
		out[i] = letters[int(buf[i])%len(letters)]
	}

	return string(out)
}

// sweepLoop periodically removes rooms that have sat empty past their
// removal deadline or idle past the room timeout.
func (reg *RoomRegistry) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(reg.cfg.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reg.sweep(time.Now())
		}
	}
}

func (reg *RoomRegistry) sweep(now time.Time) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for code, room := range reg.rooms {
		if room.expired(reg.cfg, now) {
			delete(reg.rooms, code)
			go room.closeAll()

			logf(reg.cfg, "ROOMS: Removed expired room %s", code)
		}
	}
}
