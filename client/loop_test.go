package client

import (
	"testing"

	"github.com/Seednode/wanderworlds/game"
)

func TestStepKeys(t *testing.T) {
	tuning := game.DefaultTuning()

	cases := []struct {
		name       string
		pos        game.Position
		keys       Keys
		wantPos    game.Position
		wantDir    game.Direction
		wantMoving bool
	}{
		{"idle", game.Position{X: 100, Y: 100}, Keys{}, game.Position{X: 100, Y: 100}, game.DirIdle, false},
		{"up", game.Position{X: 100, Y: 100}, Keys{Up: true}, game.Position{X: 100, Y: 95}, game.DirUp, true},
		{"down", game.Position{X: 100, Y: 100}, Keys{Down: true}, game.Position{X: 100, Y: 105}, game.DirDown, true},
		{"left", game.Position{X: 100, Y: 100}, Keys{Left: true}, game.Position{X: 95, Y: 100}, game.DirLeft, true},
		{"right", game.Position{X: 100, Y: 100}, Keys{Right: true}, game.Position{X: 105, Y: 100}, game.DirRight, true},
		{"diagonal faces last key", game.Position{X: 100, Y: 100}, Keys{Up: true, Left: true}, game.Position{X: 95, Y: 95}, game.DirLeft, true},
		{"opposing keys cancel", game.Position{X: 100, Y: 100}, Keys{Up: true, Down: true}, game.Position{X: 100, Y: 100}, game.DirDown, true},
		{"clamped at origin", game.Position{X: 2, Y: 3}, Keys{Up: true, Left: true}, game.Position{X: 0, Y: 0}, game.DirLeft, true},
		{"clamped at far edge", game.Position{X: 1948, Y: 1948}, Keys{Down: true, Right: true}, game.Position{X: 1950, Y: 1950}, game.DirRight, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pos, dir, moving := step(tuning, tc.pos, tc.keys)
			if pos != tc.wantPos {
				t.Errorf("pos = %+v, want %+v", pos, tc.wantPos)
			}
			if dir != tc.wantDir {
				t.Errorf("dir = %q, want %q", dir, tc.wantDir)
			}
			if moving != tc.wantMoving {
				t.Errorf("moving = %t, want %t", moving, tc.wantMoving)
			}
		})
	}
}

// stepClient builds a joined client whose writes land in the returned
// slice instead of a socket.
func stepClient(pos game.Position) (*Client, *[]game.ClientMessage) {
	c := New("ws://unused", game.DefaultTuning())
	c.state = Connected
	c.self = &game.Player{ID: "p1", Position: pos}

	sent := &[]game.ClientMessage{}
	c.sendFn = func(msg any) error {
		*sent = append(*sent, msg.(game.ClientMessage))
		return nil
	}

	return c, sent
}

func TestStepEmitsCollectThenUpdate(t *testing.T) {
	c, sent := stepClient(game.Position{X: 95, Y: 100})
	c.objects["o1"] = &game.Object{ID: "o1", Kind: game.KindCoin, Position: game.Position{X: 120, Y: 120}}
	c.keys = Keys{Right: true}

	c.Step()

	if len(*sent) != 2 {
		t.Fatalf("sent %d messages, want collect then update", len(*sent))
	}
	if (*sent)[0].Type != game.TypeCollectObject || (*sent)[0].ObjectID != "o1" {
		t.Errorf("first message = %+v, want collectObject o1", (*sent)[0])
	}
	update := (*sent)[1]
	if update.Type != game.TypeUpdatePlayer {
		t.Fatalf("second message = %+v, want updatePlayer", update)
	}
	if update.Player.Position != (game.Position{X: 100, Y: 100}) {
		t.Errorf("committed position = %+v", update.Player.Position)
	}
	if update.Player.Direction != game.DirRight || !update.Player.IsMoving {
		t.Errorf("committed facing = %q moving=%t", update.Player.Direction, update.Player.IsMoving)
	}
	if c.self.Position != (game.Position{X: 100, Y: 100}) {
		t.Errorf("local position = %+v", c.self.Position)
	}
}

func TestStepSkipsCollectedObjects(t *testing.T) {
	c, sent := stepClient(game.Position{X: 95, Y: 100})
	c.objects["o1"] = &game.Object{ID: "o1", Position: game.Position{X: 120, Y: 120}, Collected: true, CollectedBy: "p2"}
	c.keys = Keys{Right: true}

	c.Step()

	if len(*sent) != 1 || (*sent)[0].Type != game.TypeUpdatePlayer {
		t.Fatalf("sent %+v, want a lone updatePlayer", *sent)
	}
}

func TestStepSendsNothingWhenStationary(t *testing.T) {
	cases := []struct {
		name string
		pos  game.Position
		keys Keys
	}{
		{"no keys", game.Position{X: 100, Y: 100}, Keys{}},
		{"opposing keys", game.Position{X: 100, Y: 100}, Keys{Up: true, Down: true}},
		{"pinned at edge", game.Position{X: 0, Y: 100}, Keys{Left: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, sent := stepClient(tc.pos)
			c.keys = tc.keys

			c.Step()

			if len(*sent) != 0 {
				t.Fatalf("sent %+v on a stationary tick", *sent)
			}
		})
	}
}

func TestStepRequiresJoinedConnection(t *testing.T) {
	c, sent := stepClient(game.Position{X: 100, Y: 100})
	c.keys = Keys{Right: true}

	c.state = Reconnecting
	c.Step()

	c.state = Connected
	c.self = nil
	c.Step()

	if len(*sent) != 0 {
		t.Fatalf("sent %+v before join completed", *sent)
	}
}
