package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultTuningValidates(t *testing.T) {
	if err := DefaultTuning().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadTuningPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	doc := `world_width: 1000
coin_count: 2
respawn_ms: 5000
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	tuning, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if tuning.WorldWidth != 1000 {
		t.Errorf("world width = %g, want 1000", tuning.WorldWidth)
	}
	if tuning.WorldHeight != 2000 {
		t.Errorf("world height = %g, want default 2000", tuning.WorldHeight)
	}
	if tuning.CoinCount != 2 {
		t.Errorf("coin count = %d, want 2", tuning.CoinCount)
	}
	if tuning.RespawnDelay() != 5*time.Second {
		t.Errorf("respawn delay = %s, want 5s", tuning.RespawnDelay())
	}
	if tuning.MoveSpeed != 5 {
		t.Errorf("move speed = %g, want default 5", tuning.MoveSpeed)
	}
}

func TestLoadTuningRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	if err := os.WriteFile(path, []byte("move_speed: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadTuning(path); err == nil {
		t.Fatal("expected validation error for negative move speed")
	}
}

func TestLoadTuningMissingFile(t *testing.T) {
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateRejectsWorldInsideSpawnMargins(t *testing.T) {
	// Wide enough for a player but not for the spawn margins, which would
	// leave RandomSpawn with an empty interval.
	tuning := DefaultTuning()
	tuning.WorldWidth = 90

	if err := tuning.Validate(); err == nil {
		t.Fatal("expected error for world narrower than twice the spawn margin")
	}

	tuning = DefaultTuning()
	tuning.SpawnMargin = -1

	if err := tuning.Validate(); err == nil {
		t.Fatal("expected error for negative spawn margin")
	}
}

func TestValidateChatWindows(t *testing.T) {
	tuning := DefaultTuning()
	tuning.ChatHistory = 5
	tuning.ChatReplay = 10

	if err := tuning.Validate(); err == nil {
		t.Fatal("expected error when replay window exceeds history")
	}
}
