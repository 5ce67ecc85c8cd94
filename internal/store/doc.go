// Package store provides file-backed durable storage for document snapshots
// and delta records.
//
// Layout under the storage root:
//
//	<root>/snapshots/<id>.snap          one snapshot blob per document
//	<root>/updates/<id>-<suffix>.delta  append-only delta records
//
// Snapshots have replace semantics: SaveSnapshot writes the new blob to a
// temporary file, syncs it, renames it over the old one, and then clears the
// document's delta records. A crash mid-save leaves the previous snapshot and
// its deltas untouched.
//
// Delta records are append-only and never overwritten. Record suffixes are
// UUIDv7, so names sort lexicographically in creation order and a plain name
// sort recovers append order.
//
// All blobs are opaque to the store; encoding and decoding belong to the
// engine's snapshot codec.
//
// Init returns false instead of an error when the storage root cannot be
// created, letting callers degrade to memory-only operation. Every data
// operation called before a successful Init fails with ErrNotInitialized.
package store
