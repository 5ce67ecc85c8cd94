package coordinator

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/kern/internal/bridge"
	"github.com/roach88/kern/internal/doc"
	"github.com/roach88/kern/internal/engine"
	"github.com/roach88/kern/internal/store"
)

// ErrNotReady is returned by operations that require a completed InitStore.
var ErrNotReady = errors.New("coordinator not ready")

// DefaultDocumentID is the document the coordinator points at before any
// explicit load.
const DefaultDocumentID = "default"

// Default cadence for the two background policies.
const (
	DefaultSnapshotInterval = 30 * time.Second
	DefaultFlushInterval    = 5 * time.Second
)

// State is the coordinator lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Clock abstracts time for cadence decisions. Production uses the system
// clock; tests inject testutil.DeterministicClock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// pendingUpdate is one exported delta blob awaiting flush, tagged with the
// document it was exported from so a later document switch cannot misfile it.
type pendingUpdate struct {
	docID string
	data  []byte
}

// Coordinator owns the visible document state. See the package documentation
// for the concurrency model.
type Coordinator struct {
	mu sync.Mutex

	client *bridge.Client
	store  *store.Store
	clock  Clock
	logger *slog.Logger

	state     State
	initOnce  bool
	initErr   error
	loading   bool
	available bool

	docID   string
	body    string
	view    doc.View
	hasView bool
	health  string
	lastErr error

	lastSnapshot time.Time
	pending      []pendingUpdate

	snapshotInterval time.Duration
	flushInterval    time.Duration

	viewCh chan struct{}
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDocumentID sets the document the coordinator starts on.
// Default: DefaultDocumentID.
func WithDocumentID(id string) Option {
	return func(c *Coordinator) { c.docID = id }
}

// WithPlaceholderBody sets the text that seeds a document with no snapshot.
// Default: engine.DefaultBody.
func WithPlaceholderBody(body string) Option {
	return func(c *Coordinator) { c.body = body }
}

// WithSnapshotInterval sets the autosave snapshot cadence.
func WithSnapshotInterval(d time.Duration) Option {
	return func(c *Coordinator) { c.snapshotInterval = d }
}

// WithFlushInterval sets the delta flush cadence.
func WithFlushInterval(d time.Duration) Option {
	return func(c *Coordinator) { c.flushInterval = d }
}

// WithClock replaces the cadence clock. Tests use
// testutil.DeterministicClock.
func WithClock(clock Clock) Option {
	return func(c *Coordinator) { c.clock = clock }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// New creates a Coordinator over an engine client and a store. Nothing
// starts until InitStore.
func New(client *bridge.Client, st *store.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		client:           client,
		store:            st,
		clock:            systemClock{},
		logger:           slog.Default(),
		docID:            DefaultDocumentID,
		body:             engine.DefaultBody,
		snapshotInterval: DefaultSnapshotInterval,
		flushInterval:    DefaultFlushInterval,
		viewCh:           make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsReady reports whether InitStore completed successfully.
func (c *Coordinator) IsReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateReady
}

// IsLoading reports whether a document switch is in flight. Because the
// coordinator serializes operations, this blocks while one runs.
func (c *Coordinator) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LastError returns the most recent operation failure, or nil.
func (c *Coordinator) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// View returns a copy of the currently published view.
func (c *Coordinator) View() doc.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.Clone()
}

// CurrentDocumentID returns the id of the document the coordinator points at.
func (c *Coordinator) CurrentDocumentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.docID
}

// Health returns the engine health string captured at init.
func (c *Coordinator) Health() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.health
}

// StorageAvailable reports whether the store initialized successfully.
func (c *Coordinator) StorageAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.available
}

// ViewChanged returns a channel that receives a signal after each published
// view change. Signals coalesce: a consumer that has not drained the channel
// gets one signal no matter how many changes happened.
func (c *Coordinator) ViewChanged() <-chan struct{} {
	return c.viewCh
}

// publishLocked replaces the published view when the candidate is newer.
// Stale candidates are dropped so the published version never moves
// backwards. Caller must hold c.mu.
func (c *Coordinator) publishLocked(v doc.View) {
	if c.hasView && v.Version <= c.view.Version {
		c.logger.Debug("stale view dropped", "version", v.Version, "published", c.view.Version)
		return
	}
	c.view = v
	c.hasView = true
	c.signalViewLocked()
}

// signalViewLocked wakes the view-change channel without blocking.
// Caller must hold c.mu.
func (c *Coordinator) signalViewLocked() {
	select {
	case c.viewCh <- struct{}{}:
	default:
	}
}
