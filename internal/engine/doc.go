// Package engine implements the kern document engine.
//
// The engine owns the authoritative document state: an ordered list of lines
// with stable identities, plus a version counter incremented by every
// accepted mutation. Callers never touch engine state directly; the bridge
// package hosts one Engine per session inside a dedicated goroutine and all
// access goes through its request/response protocol.
//
// ARCHITECTURE:
//
// Single-Owner State:
// The Engine is not safe for concurrent use. Exactly one goroutine (the
// bridge's engine context) calls its methods. This keeps edit application,
// version accounting, and line-identity allocation free of locks and easy
// to reason about.
//
// Line Identity:
// Every line carries a stable numeric id allocated from a per-document
// counter. Identity is independent of position: edits that move a line keep
// its id, a split keeps the id on the first segment, a merge keeps the id of
// the upper line. Ids are never reused; the counter is persisted in the
// snapshot so identity survives save/load round trips.
//
// Addressing:
// EditDelta addresses the pre-edit view by line index and column. Columns
// are measured in runes and clamped to the line length. A delete walks
// backward from the addressed position, merging across line boundaries, and
// clamps at the start of the document. Inserted text may contain "\n" and
// splits the line accordingly. All inserted or replacing text is normalized
// to NFC at the mutation boundary so equal-looking content stores equally.
//
// Snapshots:
// State serializes to a versioned JSON blob (see snapshot.go). The blob is
// opaque to every other package; only the engine reads or writes its
// structure.
package engine
