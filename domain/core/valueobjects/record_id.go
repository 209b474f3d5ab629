package valueobjects

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out record identifiers
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random UUIDv4 identifiers
type UUIDGenerator struct{}

// NewID returns a new random identifier
func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// SequenceGenerator returns prefix-1, prefix-2, ... and is meant for tests
// and deterministic seeding.
type SequenceGenerator struct {
	Prefix string
	next   atomic.Int64
}

// NewID returns the next identifier in the sequence
func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s-%d", g.Prefix, g.next.Add(1))
}
