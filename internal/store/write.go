package store

import (
	"fmt"
	"os"
)

// SaveSnapshot replaces the snapshot blob for a document and removes every
// delta record appended before the save.
//
// The new blob is written to a temporary file, synced, and renamed over the
// previous snapshot. The rename is atomic, so a failure mid-save leaves the
// old blob and the old delta records intact. Delta records are removed only
// after the rename succeeds.
func (s *Store) SaveSnapshot(id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkInitialized(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := validateDocID(id); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	final := s.snapshotPath(id)
	tmp := final + ".tmp"
	if err := writeFileSync(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, data); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save snapshot %s: %w", id, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save snapshot %s: %w", id, err)
	}

	if err := s.removeDeltasLocked(id); err != nil {
		return fmt.Errorf("save snapshot %s: clear deltas: %w", id, err)
	}

	s.logger.Debug("snapshot saved", "doc", id, "bytes", len(data))
	return nil
}

// AppendUpdates appends a delta record for a document under a fresh
// time-ordered name. Records are never overwritten; a name collision fails
// instead of truncating the existing record.
func (s *Store) AppendUpdates(id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkInitialized(); err != nil {
		return fmt.Errorf("append updates: %w", err)
	}
	if err := validateDocID(id); err != nil {
		return fmt.Errorf("append updates: %w", err)
	}

	name := id + "-" + s.ids.Generate() + deltaExt
	if err := writeFileSync(s.updatePath(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, data); err != nil {
		return fmt.Errorf("append updates %s: %w", id, err)
	}

	s.logger.Debug("delta appended", "doc", id, "record", name, "bytes", len(data))
	return nil
}

// DeleteDocument removes a document's snapshot and all of its delta records.
// Deleting a document that was never saved is not an error.
func (s *Store) DeleteDocument(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkInitialized(); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if err := validateDocID(id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if err := os.Remove(s.snapshotPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if err := s.removeDeltasLocked(id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}

	s.logger.Debug("document deleted", "doc", id)
	return nil
}

// removeDeltasLocked deletes every delta record belonging to id.
// Caller must hold s.mu.
func (s *Store) removeDeltasLocked(id string) error {
	names, err := s.deltaNamesLocked(id)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := os.Remove(s.updatePath(name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// writeFileSync writes data to path with the given open flags and syncs it
// to disk before closing.
func writeFileSync(path string, flag int, data []byte) error {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
