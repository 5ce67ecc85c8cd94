package store

import (
	"testing"
)

// Fixed suffixes for deterministic record names. They must parse as UUIDs
// because the store recovers document ids from record names by peeling a
// UUID off the right-hand side.
const (
	suffixA = "00000000-0000-7000-8000-000000000001"
	suffixB = "00000000-0000-7000-8000-000000000002"
	suffixC = "00000000-0000-7000-8000-000000000003"
)

// newTestStore creates and initializes a store rooted in a temp directory.
func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s := New(t.TempDir(), opts...)
	if !s.Init() {
		t.Fatal("Init() = false, want true")
	}
	return s
}
