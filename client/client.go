// Package client is the WanderWorlds reconciliation loop: it predicts the
// local player's movement on a fixed tick, emits collect intents on
// overlap, and merges server-pushed updates for remote entities into a
// local mirror. The server stays authoritative; everything here is
// advisory until confirmed.
package client

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Seednode/wanderworlds/game"
)

// State is the transport lifecycle position.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Reconnecting
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Reconnecting:
		return "reconnecting"
	}
	return "unknown"
}

var (
	ErrClosed       = errors.New("client: closed")
	ErrNotConnected = errors.New("client: not connected")
)

// Keys is the sampled movement input. Opposing keys are not reconciled;
// both apply, which cancels on one axis and combines into diagonals
// across axes.
type Keys struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

type Client struct {
	url            string
	tuning         game.Tuning
	reconnectDelay time.Duration
	logger         *log.Logger

	mu       sync.Mutex
	state    State
	conn     *websocket.Conn
	playerID string
	self     *game.Player
	players  map[string]*game.Player
	objects  map[string]*game.Object
	messages []game.ChatMessage
	keys     Keys

	// Single timer owned by the lifecycle; Disconnect cancels it.
	reconnect *time.Timer
	closed    bool

	loopOnce sync.Once
	done     chan struct{}

	writeMu sync.Mutex
	sendFn  func(msg any) error // test hook, defaults to conn writes
}

// New builds a client for the given websocket URL. Connect starts it.
func New(url string, tuning game.Tuning) *Client {
	return &Client{
		url:            url,
		tuning:         tuning,
		reconnectDelay: 5 * time.Second,
		logger:         log.New(os.Stderr, "[wander] ", log.LstdFlags),
		players:        make(map[string]*game.Player),
		objects:        make(map[string]*game.Object),
		done:           make(chan struct{}),
	}
}

// Connect opens the transport, joins with a fresh client-generated
// identifier, and starts the read and tick loops. A failed dial arms the
// reconnect timer and returns the error.
func (c *Client) Connect() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.state = Connecting
	id := game.NewID()
	c.playerID = id
	c.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		c.scheduleReconnect()
		return err
	}

	c.mu.Lock()
	if c.closed {
		// Disconnect landed while the dial was in flight.
		c.mu.Unlock()
		_ = conn.Close()
		return ErrClosed
	}
	c.conn = conn
	c.state = Connected
	c.mu.Unlock()

	if err := c.write(game.ClientMessage{Type: game.TypeJoin, PlayerID: id}); err != nil {
		_ = conn.Close()
		c.scheduleReconnect()
		return err
	}

	go c.readLoop(conn)
	c.loopOnce.Do(func() {
		go c.tickLoop()
	})

	return nil
}

// Disconnect closes the transport and suppresses the automatic reconnect.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.reconnect != nil {
		c.reconnect.Stop()
		c.reconnect = nil
	}
	conn := c.conn
	c.conn = nil
	c.state = Disconnected
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	close(c.done)
}

// scheduleReconnect arms one delayed reconnect attempt, reusing Connect.
func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.state = Disconnected
		return
	}
	c.state = Reconnecting
	if c.reconnect != nil {
		c.reconnect.Stop()
	}
	c.reconnect = time.AfterFunc(c.reconnectDelay, func() {
		_ = c.Connect()
	})
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		c.handleFrame(raw)
	}

	c.mu.Lock()
	closed := c.closed
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()

	if !closed {
		c.scheduleReconnect()
	}
}

// handleFrame merges one server frame into the mirror. Remote entities
// are overwritten wholesale, last writer wins by arrival order.
func (c *Client) handleFrame(raw []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Printf("dropping malformed frame: %v", err)
		return
	}

	switch env.Type {
	case game.TypeJoined:
		var msg game.JoinedMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return
		}
		c.applyJoined(msg)

	case game.TypePlayerJoined:
		var msg game.PlayerJoinedMessage
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Player == nil {
			return
		}
		c.applyRemotePlayer(msg.Player)

	case game.TypePlayerUpdated:
		var msg game.PlayerUpdatedMessage
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Player == nil {
			return
		}
		c.applyRemotePlayer(msg.Player)

	case game.TypePlayerLeft:
		var msg game.PlayerLeftMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return
		}
		c.applyPlayerLeft(msg.PlayerID)

	case game.TypeObjectCollected:
		var msg game.ObjectCollectedMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return
		}
		c.applyObjectCollected(msg)

	case game.TypeObjectRespawned:
		var msg game.ObjectRespawnedMessage
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Object == nil {
			return
		}
		c.applyObjectRespawned(msg.Object)

	case game.TypeNewChatMessage:
		var msg game.NewChatMessageMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return
		}
		c.applyChatMessage(msg.Message)

	default:
		c.logger.Printf("ignoring unknown message type %q", env.Type)
	}
}

func (c *Client) applyJoined(msg game.JoinedMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.playerID = msg.PlayerID
	c.self = msg.Player
	c.players = msg.Players
	if c.players == nil {
		c.players = make(map[string]*game.Player)
	}
	c.objects = msg.Objects
	if c.objects == nil {
		c.objects = make(map[string]*game.Object)
	}
	c.messages = msg.Messages
}

func (c *Client) applyRemotePlayer(p *game.Player) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p.ID == c.playerID {
		return
	}
	c.players[p.ID] = p
}

func (c *Client) applyPlayerLeft(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == c.playerID {
		return
	}
	delete(c.players, id)
}

func (c *Client) applyObjectCollected(msg game.ObjectCollectedMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if o, ok := c.objects[msg.ObjectID]; ok {
		o.Collected = true
		o.CollectedBy = msg.PlayerID
	}
	if msg.PlayerID == c.playerID && c.self != nil {
		c.self.Score = msg.PlayerScore
	}
	if p, ok := c.players[msg.PlayerID]; ok {
		p.Score = msg.PlayerScore
	}
}

func (c *Client) applyObjectRespawned(o *game.Object) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.objects[o.ID] = o
}

func (c *Client) applyChatMessage(msg game.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, msg)
	if over := len(c.messages) - c.tuning.ChatHistory; over > 0 {
		c.messages = c.messages[over:]
	}
}

func (c *Client) write(msg any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.sendFn != nil {
		return c.sendFn(msg)
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}
	return conn.WriteJSON(msg)
}

// SendChat sends a chat intent; trimming, truncation, and the append are
// all authoritative server-side.
func (c *Client) SendChat(text string) error {
	return c.write(game.ClientMessage{Type: game.TypeChatMessage, Message: text})
}

// Customization setters funnel into updatePlayer, like every other local
// player change.

func (c *Client) SetName(name string) error { return c.customize(func(p *game.Player) { p.Name = name }) }

func (c *Client) SetAvatar(avatar string) error {
	return c.customize(func(p *game.Player) { p.Avatar = avatar })
}

func (c *Client) SetColor(color string) error {
	return c.customize(func(p *game.Player) { p.Color = color })
}

func (c *Client) customize(mutate func(*game.Player)) error {
	c.mu.Lock()
	if c.self == nil {
		c.mu.Unlock()
		return ErrNotConnected
	}
	mutate(c.self)
	upd := *c.self
	c.mu.Unlock()

	return c.write(game.ClientMessage{Type: game.TypeUpdatePlayer, Player: &upd})
}

// Read-only snapshots for the rendering layer.

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) PlayerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

func (c *Client) Self() *game.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.self == nil {
		return nil
	}
	clone := *c.self
	return &clone
}

func (c *Client) Players() map[string]game.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	players := make(map[string]game.Player, len(c.players))
	for id, p := range c.players {
		players[id] = *p
	}
	return players
}

func (c *Client) Objects() map[string]game.Object {
	c.mu.Lock()
	defer c.mu.Unlock()
	objects := make(map[string]game.Object, len(c.objects))
	for id, o := range c.objects {
		objects[id] = *o
	}
	return objects
}

func (c *Client) Messages() []game.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	messages := make([]game.ChatMessage, len(c.messages))
	copy(messages, c.messages)
	return messages
}
