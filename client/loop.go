package client

import (
	"time"

	"github.com/Seednode/wanderworlds/game"
)

// SetKeys replaces the sampled movement input for subsequent ticks.
func (c *Client) SetKeys(keys Keys) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = keys
}

func (c *Client) tickLoop() {
	ticker := time.NewTicker(c.tuning.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.Step()
		}
	}
}

// Step runs one movement/collision tick. A tick whose tentative position
// equals the current one commits nothing and sends nothing. The collect
// intent is emitted for the first uncollected overlap found; the local
// collected flag flips only when the server confirms.
func (c *Client) Step() {
	c.mu.Lock()
	if c.state != Connected || c.self == nil {
		c.mu.Unlock()
		return
	}

	pos, dir, moving := step(c.tuning, c.self.Position, c.keys)
	if pos == c.self.Position {
		c.mu.Unlock()
		return
	}

	var collect string
	for id, o := range c.objects {
		if !o.Collected && c.tuning.Overlaps(pos, o.Position) {
			collect = id
			break
		}
	}

	c.self.Position = pos
	c.self.Direction = dir
	c.self.IsMoving = moving
	upd := *c.self
	c.mu.Unlock()

	if collect != "" {
		_ = c.write(game.ClientMessage{Type: game.TypeCollectObject, ObjectID: collect})
	}
	_ = c.write(game.ClientMessage{Type: game.TypeUpdatePlayer, Player: &upd})
}

// step computes the tentative position for one tick. Keys apply in a
// fixed order, the last applied key wins the facing, and the result is
// clamped to the playable rectangle.
func step(t game.Tuning, pos game.Position, k Keys) (game.Position, game.Direction, bool) {
	dir := game.DirIdle
	moving := false

	if k.Up {
		pos.Y -= t.MoveSpeed
		dir = game.DirUp
		moving = true
	}
	if k.Down {
		pos.Y += t.MoveSpeed
		dir = game.DirDown
		moving = true
	}
	if k.Left {
		pos.X -= t.MoveSpeed
		dir = game.DirLeft
		moving = true
	}
	if k.Right {
		pos.X += t.MoveSpeed
		dir = game.DirRight
		moving = true
	}

	return t.Clamp(pos), dir, moving
}
