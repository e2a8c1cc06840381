/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "wordbox_id"

// getOrSetPlayerID returns the stable client identifier for this
// browser, minting one if none exists. It survives tab reloads, so it
// is the primary reconnection key; the display name is a fallback.
func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

type Client struct {
	conn      *websocket.Conn
	send      chan any
	sessionID string
	clientID  string
	name      string
}

func (c *Client) readPump(room *Room) {
	defer func() {
		room.unreg <- c
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		room.events <- inboundEvent{
			client: c,
			msg:    msg,
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// createRoom handles GET /room by creating a room and redirecting to
// its page. Word count and player cap arrive as query parameters and
// are clamped by the match config.
func createRoom(cfg *Config, path string, reg *RoomRegistry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		wordCount := queryInt(r, "words", 5)
		maxPlayers := queryInt(r, "max", 8)
		mode := r.URL.Query().Get("mode")

		creatorID := getOrSetPlayerID(w, r)

		room := reg.create(wordCount, maxPlayers, mode, creatorID)

		logf(cfg, "ROOMS: Created room %s (%d words, %d players max)",
			room.code,
			room.match.Config.WordCount,
			room.match.Config.MaxPlayers,
		)

		http.Redirect(w, r, path+"/"+room.code, http.StatusTemporaryRedirect)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}

	return parsed
}

func serveRoomPage(cfg *Config, reg *RoomRegistry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		code := strings.ToUpper(ps.ByName("code"))

		if _, ok := reg.lookup(code); !ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			securityHeaders(cfg, w)
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(newPage("Not Found", "That room does not exist.")))

			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		_, _ = w.Write([]byte(newPage("wordbox", "Room "+code)))
	}
}

// serveRoomWS upgrades the connection and attaches the session to the
// room named by :code.
func serveRoomWS(cfg *Config, reg *RoomRegistry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		code := strings.ToUpper(ps.ByName("code"))

		room, ok := reg.lookup(code)
		if !ok {
			http.Error(w, "room not found", http.StatusNotFound)

			return
		}

		clientID := getOrSetPlayerID(w, r)
		if clientID == "" {
			http.Error(w, "unable to assign client id", http.StatusInternalServerError)

			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)

			return
		}

		client := &Client{
			conn:      conn,
			send:      make(chan any, 8),
			sessionID: uuid.NewString(),
			clientID:  clientID,
		}

		room.register <- client

		go client.writePump()
		client.readPump(room)
	}
}

// qrHandler generates a PNG QR code for the current room URL.
func qrHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))

	_, _ = w.Write(png)
}

// registerWordGame sets up routes so that:
//   - $path           → creates a room (6-char code) and redirects
//   - $path/:code     → HTML client
//   - $path/:code/ws  → WebSocket for that room
//   - $path/:code/qr  → PNG QR code for that room URL
func registerWordGame(cfg *Config, path string, mux *httprouter.Router, reg *RoomRegistry) {
	mux.GET(cfg.prefix+path, createRoom(cfg, cfg.prefix+path, reg))

	mux.GET(cfg.prefix+path+"/:code", serveRoomPage(cfg, reg))

	mux.GET(cfg.prefix+path+"/:code/ws", serveRoomWS(cfg, reg))

	mux.GET(cfg.prefix+path+"/:code/qr", qrHandler)
}
