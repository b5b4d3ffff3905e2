package game

import "math/rand"

// Clamp bounds a tentative player position to the playable rectangle,
// [0, W-player] on each axis, so a step past an edge lands exactly on it.
func (t Tuning) Clamp(p Position) Position {
	if p.X < 0 {
		p.X = 0
	}
	if max := t.WorldWidth - t.PlayerSize; p.X > max {
		p.X = max
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if max := t.WorldHeight - t.PlayerSize; p.Y > max {
		p.Y = max
	}
	return p
}

// InBounds reports whether a position lies inside the world rectangle.
func (t Tuning) InBounds(p Position) bool {
	return p.X >= 0 && p.X < t.WorldWidth && p.Y >= 0 && p.Y < t.WorldHeight
}

// RandomSpawn picks a position inside the spawn margins.
func (t Tuning) RandomSpawn(rng *rand.Rand) Position {
	return Position{
		X: float64(rng.Intn(int(t.WorldWidth-2*t.SpawnMargin))) + t.SpawnMargin,
		Y: float64(rng.Intn(int(t.WorldHeight-2*t.SpawnMargin))) + t.SpawnMargin,
	}
}

// Overlaps tests axis-aligned rectangle overlap between a player box
// anchored at p and an object box anchored at o.
func (t Tuning) Overlaps(p, o Position) bool {
	return p.X < o.X+t.ObjectSize &&
		p.X+t.PlayerSize > o.X &&
		p.Y < o.Y+t.ObjectSize &&
		p.Y+t.PlayerSize > o.Y
}

// NewPlayer builds a server-default player record at a random spawn.
func (t Tuning) NewPlayer(id string, rng *rand.Rand) *Player {
	name := id
	if len(name) > 4 {
		name = name[:4]
	}
	return &Player{
		ID:        id,
		Position:  t.RandomSpawn(rng),
		Direction: DirIdle,
		IsMoving:  false,
		Avatar:    "1",
		Name:      "Player " + name,
		Color:     "#5585FF",
		Score:     0,
	}
}

// NewObject builds an uncollected object of the given kind at a random
// spawn.
func (t Tuning) NewObject(kind ObjectKind, rng *rand.Rand) *Object {
	return &Object{
		ID:       NewID(),
		Kind:     kind,
		Position: t.RandomSpawn(rng),
		Value:    t.Value(kind),
	}
}

// InitialObjects builds the world's fixed object census.
func (t Tuning) InitialObjects(rng *rand.Rand) map[string]*Object {
	objects := make(map[string]*Object, t.CoinCount+t.GemCount+t.StarCount)
	add := func(kind ObjectKind, n int) {
		for i := 0; i < n; i++ {
			o := t.NewObject(kind, rng)
			objects[o.ID] = o
		}
	}
	add(KindCoin, t.CoinCount)
	add(KindGem, t.GemCount)
	add(KindStar, t.StarCount)
	return objects
}
