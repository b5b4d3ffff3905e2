package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/wanderworlds/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one live connection. playerID is empty until the connection's
// first join is processed; it is only touched by the hub goroutine.
type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

// serveWS upgrades the request and runs the connection against the hub.
func serveWS(cfg *Config, hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, 64),
		}

		hub.register <- client

		go client.writePump()
		client.readPump(cfg, hub)
	}
}

// readPump decodes inbound frames and routes them by type tag. Malformed
// frames are logged and dropped; the connection stays up. Only transport
// errors end the loop.
func (c *Client) readPump(cfg *Config, h *Hub) {
	defer func() {
		h.unreg <- c
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := game.DecodeClientMessage(raw)
		if err != nil {
			logf(cfg, "WORLD: Dropping malformed frame from %s: %v", c.conn.RemoteAddr(), err)
			continue
		}

		switch msg.Type {
		case game.TypeJoin:
			h.joins <- inbound{client: c, msg: msg}
		case game.TypeUpdatePlayer:
			h.updates <- inbound{client: c, msg: msg}
		case game.TypeCollectObject:
			h.collects <- inbound{client: c, msg: msg}
		case game.TypeChatMessage:
			h.chats <- inbound{client: c, msg: msg}
		default:
			logf(cfg, "WORLD: Ignoring unknown message type %q from %s", msg.Type, c.conn.RemoteAddr())
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

// QR handler: generates a PNG QR code for the world URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /world/qr; strip trailing "/qr" to get the world URL.
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

// registerWanderWorld sets up routes so that:
//   - $path       → plaintext world banner
//   - $path/ws    → the world websocket
//   - $path/qr    → PNG QR code for the world URL
func registerWanderWorld(cfg *Config, path string, mux *httprouter.Router, errs chan<- error) {
	hub := newHub(cfg)
	go hub.run()

	mux.GET(cfg.prefix+path, serveHomePage(cfg, errs))

	mux.GET(cfg.prefix+path+"/ws", serveWS(cfg, hub))

	mux.GET(cfg.prefix+path+"/qr", qrHandler)
}
