package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// snapshotFormatVersion is the encoding version written by this engine.
// Bump it whenever the snapshot structure changes; decodeSnapshot rejects
// every version it does not know, old or new.
const snapshotFormatVersion = 1

// snapshot is the serialized form of the full engine state. The blob is
// opaque outside this package; the store and coordinator only move bytes.
type snapshot struct {
	FormatVersion int            `json:"format_version"`
	Version       uint64         `json:"version"`
	NextID        uint64         `json:"next_id"`
	Lines         []snapshotLine `json:"lines"`
}

type snapshotLine struct {
	ID   uint64 `json:"id"`
	Text string `json:"text"`
}

// snapshotHeader decodes just enough to check the format version before the
// strict full decode, so an unknown version reports as such instead of as an
// unknown-field error.
type snapshotHeader struct {
	FormatVersion int `json:"format_version"`
}

func (e *Engine) encodeSnapshot() ([]byte, error) {
	snap := snapshot{
		FormatVersion: snapshotFormatVersion,
		Version:       e.version,
		NextID:        e.nextID,
		Lines:         make([]snapshotLine, len(e.lines)),
	}
	for i, l := range e.lines {
		snap.Lines[i] = snapshotLine{ID: l.id, Text: l.text}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (*snapshot, error) {
	if len(data) == 0 {
		return nil, NewSnapshotError("empty snapshot blob")
	}

	var hdr snapshotHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		return nil, NewSnapshotError("malformed snapshot: %v", err)
	}
	if hdr.FormatVersion != snapshotFormatVersion {
		return nil, NewSnapshotError("unsupported snapshot format version %d", hdr.FormatVersion)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var snap snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, NewSnapshotError("malformed snapshot: %v", err)
	}

	if err := validateSnapshot(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// validateSnapshot checks structural integrity before the engine adopts the
// decoded state: at least one line, every line id allocated below next_id,
// no id used twice.
func validateSnapshot(snap *snapshot) error {
	if len(snap.Lines) == 0 {
		return NewSnapshotError("snapshot has no lines")
	}

	seen := make(map[uint64]bool, len(snap.Lines))
	for i, l := range snap.Lines {
		if l.ID == 0 || l.ID >= snap.NextID {
			return NewSnapshotError("line %d has id %d outside allocated range [1, %d)", i, l.ID, snap.NextID)
		}
		if seen[l.ID] {
			return NewSnapshotError("line id %d appears twice", l.ID)
		}
		seen[l.ID] = true
	}
	return nil
}
