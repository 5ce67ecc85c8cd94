package store

import (
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces the unique suffix appended to delta record names.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 suffixes.
//
// UUIDv7 embeds a timestamp in the most significant bits, so record names
// built from consecutive suffixes sort lexicographically in creation order.
//
// Uses github.com/google/uuid package for RFC 4122 compliant UUIDs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Format: "550e8400-e29b-41d4-a716-446655440000" (36 characters)
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined suffixes for testing.
//
// This enables deterministic record names and golden output comparison.
// Tests can provide a known sequence of suffixes and verify exact file
// layout.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu       sync.Mutex
	suffixes []string
	idx      int
}

// NewFixedGenerator creates a generator that returns suffixes in order.
//
// Example:
//
//	gen := NewFixedGenerator("suffix-1", "suffix-2")
//	gen.Generate() // "suffix-1"
//	gen.Generate() // "suffix-2"
//	gen.Generate() // panic: all suffixes exhausted
func NewFixedGenerator(suffixes ...string) *FixedGenerator {
	return &FixedGenerator{
		suffixes: suffixes,
		idx:      0,
	}
}

// Generate returns the next predetermined suffix.
// Thread-safe: uses mutex to protect index access.
//
// Panics if all suffixes have been consumed. This is a fail-fast approach
// to catch test misconfiguration (test appended more records than expected).
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.suffixes) {
		panic("FixedGenerator: all suffixes exhausted")
	}
	suffix := g.suffixes[g.idx]
	g.idx++
	return suffix
}
