package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrNotInitialized is returned by data operations invoked before a
// successful Init. Callers that see it are violating the store contract.
var ErrNotInitialized = errors.New("store not initialized")

const (
	snapshotsDir = "snapshots"
	updatesDir   = "updates"

	snapshotExt = ".snap"
	deltaExt    = ".delta"
)

// Store persists document snapshots and delta records under a private root
// directory. Snapshots replace; delta records append.
//
// All methods are safe for concurrent use; a single mutex serializes
// filesystem access.
type Store struct {
	mu          sync.Mutex
	root        string
	ids         IDGenerator
	logger      *slog.Logger
	initialized bool
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the delta record suffix generator.
// Tests use FixedGenerator for deterministic record names.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		s.ids = gen
	}
}

// WithLogger sets the logger used for storage diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store rooted at dir. No filesystem access happens until Init.
func New(root string, opts ...Option) *Store {
	s := &Store{
		root:   root,
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init idempotently creates the storage root with its snapshot and updates
// areas. It returns false, not an error, when the root cannot be created so
// callers can degrade to memory-only operation.
func (s *Store) Init() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return true
	}

	dirs := []string{
		s.root,
		filepath.Join(s.root, snapshotsDir),
		filepath.Join(s.root, updatesDir),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.logger.Warn("storage unavailable", "dir", dir, "error", err)
			return false
		}
	}

	s.initialized = true
	s.logger.Debug("storage initialized", "root", s.root)
	return true
}

// IsAvailable reports whether the storage root is usable. Unlike Init it has
// no side effects: it probes whether the root exists or could be created
// under an existing parent directory.
func (s *Store) IsAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return true
	}
	return dirUsable(s.root)
}

// Root returns the storage root directory.
func (s *Store) Root() string {
	return s.root
}

// checkInitialized guards every data operation. Caller must hold s.mu.
func (s *Store) checkInitialized() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	return nil
}

func (s *Store) snapshotPath(id string) string {
	return filepath.Join(s.root, snapshotsDir, id+snapshotExt)
}

func (s *Store) updatePath(name string) string {
	return filepath.Join(s.root, updatesDir, name)
}

// validateDocID rejects ids that cannot serve as file name stems.
func validateDocID(id string) error {
	if id == "" {
		return errors.New("empty document id")
	}
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("invalid document id %q", id)
	}
	return nil
}

// deltaDocID extracts the document id from a delta record name, or "" when
// the name does not match <id>-<uuid>.delta. The suffix is parsed from the
// right because document ids may themselves contain hyphens.
func deltaDocID(name string) string {
	stem, ok := strings.CutSuffix(name, deltaExt)
	if !ok {
		return ""
	}
	const uuidLen = 36
	if len(stem) < uuidLen+2 || stem[len(stem)-uuidLen-1] != '-' {
		return ""
	}
	if _, err := uuid.Parse(stem[len(stem)-uuidLen:]); err != nil {
		return ""
	}
	return stem[:len(stem)-uuidLen-1]
}

// dirUsable reports whether path exists as a directory, or could be created
// under an existing parent.
func dirUsable(path string) bool {
	info, err := os.Stat(path)
	if err == nil {
		return info.IsDir()
	}
	if !os.IsNotExist(err) {
		return false
	}
	parent := filepath.Dir(path)
	if parent == path {
		return false
	}
	return dirUsable(parent)
}
