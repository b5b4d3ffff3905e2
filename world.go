// WanderWorlds shared world
//
// One Hub owns the authoritative world: the player map, the collectible
// object map, and the capped chat history. Every inbound frame and every
// respawn firing mutates that state under the hub mutex, so each operation
// is a single atomic step. Clients hold only advisory mirrors.
//
// Features:
// - Single process-lifetime world at /world, websocket at /world/ws
// - join / updatePlayer / collectObject / chatMessage per the wire contract
// - Exactly-once collection: duplicate or late collect requests are no-ops
// - Collected objects respawn at a fresh random position after a delay
// - Chat history is FIFO-capped; joiners get the most recent entries
// - Disconnects evict the player and broadcast a single playerLeft
// - In-browser QR button to share the world URL, backed by go-qrcode

package main

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/wanderworlds/game"
)

type inbound struct {
	client *Client
	msg    game.ClientMessage
}

type Hub struct {
	cfg    *Config
	tuning game.Tuning

	clients map[*Client]bool
	byID    map[string]*Client

	players  map[string]*game.Player
	objects  map[string]*game.Object
	messages []game.ChatMessage

	register chan *Client
	unreg    chan *Client
	joins    chan inbound
	updates  chan inbound
	collects chan inbound
	chats    chan inbound

	mu sync.RWMutex

	rng      *rand.Rand
	respawns *respawnScheduler
	now      func() time.Time
}

func newHub(cfg *Config) *Hub {
	h := &Hub{
		cfg:      cfg,
		tuning:   cfg.tuning,
		clients:  make(map[*Client]bool),
		byID:     make(map[string]*Client),
		players:  make(map[string]*game.Player),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		joins:    make(chan inbound),
		updates:  make(chan inbound),
		collects: make(chan inbound),
		chats:    make(chan inbound),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}
	h.objects = h.tuning.InitialObjects(h.rng)
	h.respawns = newRespawnScheduler(h.fireRespawn)
	return h
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unreg:
			h.handleClose(c)

		case in := <-h.joins:
			h.handleJoin(in.client, in.msg)

		case in := <-h.updates:
			h.handleUpdatePlayer(in.client, in.msg)

		case in := <-h.collects:
			h.handleCollectObject(in.client, in.msg)

		case in := <-h.chats:
			h.handleChatMessage(in.client, in.msg)
		}
	}
}

// handleJoin assigns or adopts an identifier, creates or adopts the player
// record, replies with the full world snapshot, and announces the arrival
// to everyone else.
func (h *Hub) handleJoin(c *Client, msg game.ClientMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := msg.PlayerID
	if id == "" {
		id = game.NewID()
	}
	c.playerID = id
	h.byID[id] = c

	player := msg.Player
	if player == nil {
		player = h.tuning.NewPlayer(id, h.rng)
	}
	player.ID = id
	h.players[id] = player

	h.sendLocked(c, game.JoinedMessage{
		Type:     game.TypeJoined,
		PlayerID: id,
		Player:   clonePlayer(player),
		Players:  h.playerSnapshotLocked(),
		Objects:  h.objectSnapshotLocked(),
		Messages: h.recentChatLocked(),
	})

	h.broadcastExceptLocked(c, game.PlayerJoinedMessage{
		Type:   game.TypePlayerJoined,
		Player: clonePlayer(player),
	})

	logf(h.cfg, "WORLD: Player %s joined", id)
}

// handleUpdatePlayer overwrites the stored record with the one the client
// claims, trusting positions entirely. The identifier and the score stay
// server-owned: score changes only through collection.
func (h *Hub) handleUpdatePlayer(c *Client, msg game.ClientMessage) {
	if c.playerID == "" || msg.Player == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	existing, ok := h.players[c.playerID]
	if !ok {
		return
	}

	updated := *msg.Player
	updated.ID = c.playerID
	updated.Score = existing.Score
	h.players[c.playerID] = &updated

	h.broadcastExceptLocked(c, game.PlayerUpdatedMessage{
		Type:   game.TypePlayerUpdated,
		Player: clonePlayer(&updated),
	})
}

// handleCollectObject is the exactly-once transition: the first request
// wins, every duplicate or late request is a silent no-op.
func (h *Hub) handleCollectObject(c *Client, msg game.ClientMessage) {
	if c.playerID == "" || msg.ObjectID == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	object, ok := h.objects[msg.ObjectID]
	if !ok || object.Collected {
		return
	}
	player, ok := h.players[c.playerID]
	if !ok {
		return
	}

	object.Collected = true
	object.CollectedBy = c.playerID
	player.Score += object.Value

	h.broadcastAllLocked(game.ObjectCollectedMessage{
		Type:        game.TypeObjectCollected,
		ObjectID:    object.ID,
		PlayerID:    c.playerID,
		PlayerScore: player.Score,
	})

	h.respawns.Schedule(object.ID, h.tuning.RespawnDelay())

	logf(h.cfg, "WORLD: Player %s collected %s %s for %d points", c.playerID, object.Kind, object.ID, object.Value)
}

// handleChatMessage trims, truncates, appends with FIFO eviction, and
// broadcasts to everyone. Whitespace-only messages are dropped.
func (h *Hub) handleChatMessage(c *Client, msg game.ClientMessage) {
	if c.playerID == "" {
		return
	}

	text := strings.TrimSpace(msg.Message)
	if text == "" {
		return
	}
	if runes := []rune(text); len(runes) > h.tuning.ChatMaxLength {
		text = string(runes[:h.tuning.ChatMaxLength])
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	player, ok := h.players[c.playerID]
	if !ok {
		return
	}

	entry := game.ChatMessage{
		ID:         game.NewID(),
		PlayerID:   c.playerID,
		PlayerName: player.Name,
		Message:    text,
		Timestamp:  h.now().UnixMilli(),
	}

	h.messages = append(h.messages, entry)
	if over := len(h.messages) - h.tuning.ChatHistory; over > 0 {
		h.messages = h.messages[over:]
	}

	h.broadcastAllLocked(game.NewChatMessageMessage{
		Type:    game.TypeNewChatMessage,
		Message: entry,
	})
}

// handleClose evicts the connection and, if it had joined, removes the
// player record and broadcasts exactly one playerLeft to the remainder.
func (h *Hub) handleClose(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}

	id := c.playerID
	if id == "" || h.byID[id] != c {
		return
	}
	delete(h.byID, id)

	if _, ok := h.players[id]; !ok {
		return
	}
	delete(h.players, id)

	h.broadcastAllLocked(game.PlayerLeftMessage{
		Type:     game.TypePlayerLeft,
		PlayerID: id,
	})

	logf(h.cfg, "WORLD: Player %s left", id)
}

// fireRespawn returns a collected object to the world at a fresh random
// position. A missing object is a no-op; objects are never removed today,
// the check guards a future that does remove them.
func (h *Hub) fireRespawn(objectID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	object, ok := h.objects[objectID]
	if !ok {
		return
	}

	object.Collected = false
	object.CollectedBy = ""
	object.Position = h.tuning.RandomSpawn(h.rng)

	h.broadcastAllLocked(game.ObjectRespawnedMessage{
		Type:   game.TypeObjectRespawned,
		Object: cloneObject(object),
	})

	logf(h.cfg, "WORLD: Object %s respawned", objectID)
}

// sendLocked delivers to one client, evicting it if its send buffer is
// full. Delivery is fire-and-forget. Clients already evicted are skipped:
// their send channel is closed, and frames from their readPump can still
// arrive until the connection-close error lands.
func (h *Hub) sendLocked(c *Client, msg any) {
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
		h.dropLocked(c)
	}
}

func (h *Hub) broadcastExceptLocked(except *Client, msg any) {
	for client := range h.clients {
		if client == except {
			continue
		}
		h.sendLocked(client, msg)
	}
}

func (h *Hub) broadcastAllLocked(msg any) {
	h.broadcastExceptLocked(nil, msg)
}

// dropLocked removes a stalled client from the registry; player cleanup
// happens when its readPump delivers the close.
func (h *Hub) dropLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Snapshot helpers copy entities so outbound marshaling never races later
// mutations.

func (h *Hub) playerSnapshotLocked() map[string]*game.Player {
	players := make(map[string]*game.Player, len(h.players))
	for id, p := range h.players {
		players[id] = clonePlayer(p)
	}
	return players
}

func (h *Hub) objectSnapshotLocked() map[string]*game.Object {
	objects := make(map[string]*game.Object, len(h.objects))
	for id, o := range h.objects {
		objects[id] = cloneObject(o)
	}
	return objects
}

func (h *Hub) recentChatLocked() []game.ChatMessage {
	n := h.tuning.ChatReplay
	if n > len(h.messages) {
		n = len(h.messages)
	}
	recent := make([]game.ChatMessage, n)
	copy(recent, h.messages[len(h.messages)-n:])
	return recent
}

func clonePlayer(p *game.Player) *game.Player {
	clone := *p
	return &clone
}

func cloneObject(o *game.Object) *game.Object {
	clone := *o
	return &clone
}
