// Package game holds the WanderWorlds wire entities and world rules shared
// by the server and the headless client.
package game

import (
	"github.com/google/uuid"
)

// Position is a point in continuous world coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Direction is the facing reported by a moving player.
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
	DirIdle  Direction = "idle"
)

// Player is the full per-player record. The server owns the authoritative
// copy; clients hold advisory mirrors overwritten wholesale on update.
type Player struct {
	ID        string    `json:"id"`
	Position  Position  `json:"position"`
	Direction Direction `json:"direction"`
	IsMoving  bool      `json:"isMoving"`
	Avatar    string    `json:"avatar"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Score     int       `json:"score"`
}

// ObjectKind is one of the three collectible categories.
type ObjectKind string

const (
	KindCoin ObjectKind = "coin"
	KindGem  ObjectKind = "gem"
	KindStar ObjectKind = "star"
)

// Object is a collectible. Objects are never deleted: collection toggles
// the flag, respawn clears it and moves the object.
type Object struct {
	ID          string     `json:"id"`
	Kind        ObjectKind `json:"type"`
	Position    Position   `json:"position"`
	Value       int        `json:"value"`
	Collected   bool       `json:"collected"`
	CollectedBy string     `json:"collectedBy"`
}

// ChatMessage is immutable once appended. PlayerName is captured at send
// time rather than resolved live.
type ChatMessage struct {
	ID         string `json:"id"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}
