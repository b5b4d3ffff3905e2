package game

import "encoding/json"

// Message type tags, client -> server.
const (
	TypeJoin          = "join"
	TypeUpdatePlayer  = "updatePlayer"
	TypeCollectObject = "collectObject"
	TypeChatMessage   = "chatMessage"
)

// Message type tags, server -> client.
const (
	TypeJoined          = "joined"
	TypePlayerJoined    = "playerJoined"
	TypePlayerUpdated   = "playerUpdated"
	TypePlayerLeft      = "playerLeft"
	TypeObjectCollected = "objectCollected"
	TypeObjectRespawned = "objectRespawned"
	TypeNewChatMessage  = "newChatMessage"
)

// ClientMessage is the single inbound frame shape; fields are populated
// according to Type.
type ClientMessage struct {
	Type     string  `json:"type"`
	PlayerID string  `json:"playerId,omitempty"` // join
	Player   *Player `json:"player,omitempty"`   // join / updatePlayer
	ObjectID string  `json:"objectId,omitempty"` // collectObject
	Message  string  `json:"message,omitempty"`  // chatMessage
}

// JoinedMessage is unicast to a client after a successful join.
type JoinedMessage struct {
	Type     string             `json:"type"` // "joined"
	PlayerID string             `json:"playerId"`
	Player   *Player            `json:"player"`
	Players  map[string]*Player `json:"players"`
	Objects  map[string]*Object `json:"objects"`
	Messages []ChatMessage      `json:"messages"`
}

// PlayerJoinedMessage announces a new player to everyone else.
type PlayerJoinedMessage struct {
	Type   string  `json:"type"` // "playerJoined"
	Player *Player `json:"player"`
}

// PlayerUpdatedMessage carries a full replacement player record.
type PlayerUpdatedMessage struct {
	Type   string  `json:"type"` // "playerUpdated"
	Player *Player `json:"player"`
}

// PlayerLeftMessage announces a departure by id only.
type PlayerLeftMessage struct {
	Type     string `json:"type"` // "playerLeft"
	PlayerID string `json:"playerId"`
}

// ObjectCollectedMessage goes to all connections, collector included.
type ObjectCollectedMessage struct {
	Type        string `json:"type"` // "objectCollected"
	ObjectID    string `json:"objectId"`
	PlayerID    string `json:"playerId"`
	PlayerScore int    `json:"playerScore"`
}

// ObjectRespawnedMessage carries the full refreshed object record.
type ObjectRespawnedMessage struct {
	Type   string  `json:"type"` // "objectRespawned"
	Object *Object `json:"object"`
}

// NewChatMessageMessage broadcasts an appended chat entry.
type NewChatMessageMessage struct {
	Type    string      `json:"type"` // "newChatMessage"
	Message ChatMessage `json:"message"`
}

// DecodeClientMessage parses an inbound frame without failing the
// connection on garbage; callers drop and log on error.
func DecodeClientMessage(raw []byte) (ClientMessage, error) {
	var msg ClientMessage
	err := json.Unmarshal(raw, &msg)
	return msg, err
}
