package valueobjects

import "math/rand"

// Position is a point on the canvas
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Positioner picks a position for a canvas node seen for the first time
type Positioner interface {
	Place() Position
}

// RandomBox places nodes uniformly inside [0,Width) x [0,Height)
type RandomBox struct {
	Width  float64
	Height float64
	Rand   *rand.Rand
}

// NewRandomBox creates a positioner for a square box of the given size
func NewRandomBox(size float64, seed int64) *RandomBox {
	return &RandomBox{
		Width:  size,
		Height: size,
		Rand:   rand.New(rand.NewSource(seed)),
	}
}

// Place returns a random position inside the box
func (b *RandomBox) Place() Position {
	if b.Rand == nil {
		return Position{X: rand.Float64() * b.Width, Y: rand.Float64() * b.Height}
	}
	return Position{X: b.Rand.Float64() * b.Width, Y: b.Rand.Float64() * b.Height}
}
