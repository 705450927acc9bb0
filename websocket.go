/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"log"
	"net/http"
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

const playerCookieName = "categories_id"

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

type client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

// shutdown closes the underlying socket, nudging both pumps to exit.
func (c *client) shutdown() {
	if c.conn == nil {
		return
	}

	c.conn.SetWriteDeadline(time.Now().Add(timeout))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}

func (c *client) readPump(g *Game) {
	defer func() {
		g.disconnect(c)
		_ = c.conn.Close()
	}()

	for {
		var msg clientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "join":
			if msg.Pseudonym == "" {
				continue
			}
			g.join(c, msg.Pseudonym)

		case "update_config":
			if msg.Configuration == nil {
				continue
			}
			g.updateConfiguration(c.playerID, msg.Configuration)

		case "set_categories_by_everyone":
			if msg.Enabled == nil {
				continue
			}
			g.setCategoriesByEveryone(c.playerID, *msg.Enabled)

		case "switch_master":
			if msg.TargetUUID == "" {
				continue
			}
			g.switchMaster(c.playerID, msg.TargetUUID)

		case "set_lock":
			if msg.Locked == nil {
				continue
			}
			g.setLock(c.playerID, *msg.Locked)

		case "kick":
			if msg.TargetUUID == "" {
				continue
			}
			g.kickByMaster(c.playerID, msg.TargetUUID)

		case "start":
			g.start(c.playerID)

		case "submit_answers":
			if msg.Answers == nil {
				continue
			}
			g.receiveAnswers(c.playerID, msg.Answers)

		case "cast_vote":
			if msg.Category == "" || msg.AuthorUUID == "" || msg.Vote == nil {
				continue
			}
			g.receiveVote(c.playerID, msg.Category, msg.AuthorUUID, *msg.Vote)

		case "mark_ready":
			g.receiveVoteReady(c.playerID)

		case "restart":
			g.restart(c.playerID)

		default:
			// ignore unknown types
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// serveGameSocket upgrades the connection and binds it to the game named
// in the URL. The player only enters the game once it sends a join
// message with its pseudonym.
func serveGameSocket(cfg *Config, directory *GameDirectory) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		playerID := getOrSetPlayerID(w, r)
		if playerID == "" {
			http.Error(w, "unable to assign player id", http.StatusInternalServerError)
			return
		}

		game := directory.getOrCreate(gameID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		c := &client{
			conn:     conn,
			send:     make(chan any, 64),
			playerID: playerID,
		}

		go c.writePump()
		c.readPump(game)
	}
}

// qrHandler generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gameID := ps.ByName("gameid")
	if gameID == "" {
		http.Error(w, "missing game id", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func serveGamePage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		_, _ = w.Write([]byte(newPage("categories", "Game "+ps.ByName("gameid"))))
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, directory *GameDirectory) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := directory.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerCategoriesGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerCategoriesGame(cfg *Config, path string, mux *httprouter.Router) {
	directory := newGameDirectory(cfg)

	// Root path → redirect to new random game
	mux.GET(path, redirectNewGame(cfg, path, directory))

	// Per-game client view (HTML)
	mux.GET(path+"/:gameid", serveGamePage(cfg))

	// Per-game websocket
	mux.GET(path+"/:gameid/ws", serveGameSocket(cfg, directory))

	// Per-game QR code
	mux.GET(path+"/:gameid/qr", qrHandler)
}

// newRandomSlug generates a crypto-random 8-character game identifier.
func newRandomSlug() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	out := make([]byte, 8)
	for i := range out {
		out[i] = letters[randomIndex(len(letters))]
	}

	return string(out)
}
