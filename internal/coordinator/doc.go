// Package coordinator owns the visible document state and drives the
// persistence lifecycle around the engine client.
//
// ARCHITECTURE:
//
// The coordinator sits between the outer surface (CLI, UI) and the two
// capabilities underneath it:
//
//	outer surface
//	     │  ApplyEdit / SetDocumentText / SaveDocument / LoadDocument
//	     ▼
//	Coordinator ──── bridge.Client ──── engine (own goroutine)
//	     │
//	     └────────── store.Store  ──── filesystem
//
// One mutex serializes every operation, including the autosave timer
// callbacks, so no two operations interleave mid-flight. Guards (readiness,
// loading, storage availability) are checked under the lock on entry, and
// internal *Locked helpers let compound operations (LoadDocument saves the
// outgoing document first) run without re-entering the lock.
//
// Initialization Order:
//
// InitStore runs once: storage first (best effort; an unusable root degrades
// the session to memory-only), then the engine (fatal; the coordinator stays
// non-ready and reports the error), then an optional restore of the current
// document's snapshot, then the first view fetch. A repeated call returns
// whatever the first attempt produced.
//
// Published Views:
//
// The coordinator republishes the engine's view after every successful
// mutation. The published version only moves forward; a candidate view with
// a version at or below the published one is dropped, except across a
// document switch where the version sequence legitimately restarts. A
// size-one signal channel coalesces change notifications for a consumer
// that redraws on its own schedule.
//
// Background Policies:
//
// SetupAutoSave starts two timers sharing one cancel function: the snapshot
// timer saves the document when enough time has passed since the last save,
// and the flush timer appends buffered delta blobs to the store. Buffer
// entries are tagged with the document id they were exported from, so blobs
// buffered before a document switch are still appended under the right id.
// Timer failures are logged and retried on the next tick.
//
// Errors from the engine or the store never escape ApplyEdit or
// SetDocumentText: the failure is logged, LastError records it, and the
// previously published view stays published.
package coordinator
