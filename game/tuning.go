package game

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning collects every world constant the server and client agree on.
// Values default to the reference behavior and may be overridden by a
// YAML world file.
type Tuning struct {
	WorldWidth  float64 `yaml:"world_width"`
	WorldHeight float64 `yaml:"world_height"`

	MoveSpeed float64 `yaml:"move_speed"`
	TickMs    int     `yaml:"tick_ms"`

	PlayerSize float64 `yaml:"player_size"`
	ObjectSize float64 `yaml:"object_size"`

	SpawnMargin float64 `yaml:"spawn_margin"`

	CoinCount int `yaml:"coin_count"`
	GemCount  int `yaml:"gem_count"`
	StarCount int `yaml:"star_count"`

	CoinValue int `yaml:"coin_value"`
	GemValue  int `yaml:"gem_value"`
	StarValue int `yaml:"star_value"`

	RespawnMs int `yaml:"respawn_ms"`

	ChatHistory   int `yaml:"chat_history"`
	ChatReplay    int `yaml:"chat_replay"`
	ChatMaxLength int `yaml:"chat_max_length"`
}

// DefaultTuning returns the reference constants.
func DefaultTuning() Tuning {
	return Tuning{
		WorldWidth:    2000,
		WorldHeight:   2000,
		MoveSpeed:     5,
		TickMs:        16,
		PlayerSize:    50,
		ObjectSize:    30,
		SpawnMargin:   50,
		CoinCount:     10,
		GemCount:      6,
		StarCount:     4,
		CoinValue:     10,
		GemValue:      25,
		StarValue:     50,
		RespawnMs:     30000,
		ChatHistory:   100,
		ChatReplay:    20,
		ChatMaxLength: 100,
	}
}

// LoadTuning reads a world file over the defaults, so a partial document
// only overrides what it names.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("world file %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("world file %s: %w", path, err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.WorldWidth < t.PlayerSize || t.WorldHeight < t.PlayerSize {
		return fmt.Errorf("world %gx%g smaller than a player", t.WorldWidth, t.WorldHeight)
	}
	if t.SpawnMargin < 0 {
		return fmt.Errorf("spawn margin must not be negative: %g", t.SpawnMargin)
	}
	if t.WorldWidth <= 2*t.SpawnMargin || t.WorldHeight <= 2*t.SpawnMargin {
		return fmt.Errorf("world %gx%g leaves no spawn area inside margin %g", t.WorldWidth, t.WorldHeight, t.SpawnMargin)
	}
	if t.MoveSpeed <= 0 {
		return fmt.Errorf("move speed must be positive: %g", t.MoveSpeed)
	}
	if t.TickMs <= 0 {
		return fmt.Errorf("tick interval must be positive: %dms", t.TickMs)
	}
	if t.RespawnMs <= 0 {
		return fmt.Errorf("respawn delay must be positive: %dms", t.RespawnMs)
	}
	if t.ChatHistory < t.ChatReplay {
		return fmt.Errorf("chat history %d smaller than replay window %d", t.ChatHistory, t.ChatReplay)
	}
	if t.ChatMaxLength < 1 {
		return fmt.Errorf("chat max length must be positive: %d", t.ChatMaxLength)
	}
	return nil
}

// TickInterval is the reconciliation loop cadence.
func (t Tuning) TickInterval() time.Duration {
	return time.Duration(t.TickMs) * time.Millisecond
}

// RespawnDelay is how long a collected object stays off the map.
func (t Tuning) RespawnDelay() time.Duration {
	return time.Duration(t.RespawnMs) * time.Millisecond
}

// Value returns the point value for a kind under this tuning.
func (t Tuning) Value(kind ObjectKind) int {
	switch kind {
	case KindCoin:
		return t.CoinValue
	case KindGem:
		return t.GemValue
	case KindStar:
		return t.StarValue
	}
	return 0
}
