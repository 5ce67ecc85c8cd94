package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadDocument returns the snapshot blob for a document, or nil when none
// has been saved. A missing document is not an error.
func (s *Store) LoadDocument(id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkInitialized(); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if err := validateDocID(id); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	data, err := os.ReadFile(s.snapshotPath(id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", id, err)
	}
	return data, nil
}

// ListDocuments returns the ids of every document with a snapshot, sorted.
//
// Returns an empty slice (not nil) when the store holds no documents.
func (s *Store) ListDocuments() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkInitialized(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	entries, err := os.ReadDir(filepath.Join(s.root, snapshotsDir))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	// ReadDir returns entries sorted by name, so ids come out sorted too.
	ids := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stem, ok := strings.CutSuffix(e.Name(), snapshotExt)
		if !ok || stem == "" {
			continue
		}
		ids = append(ids, stem)
	}
	return ids, nil
}

// ListUpdates returns the delta record names for a document in append order.
//
// Returns an empty slice (not nil) when the document has no delta records.
func (s *Store) ListUpdates(id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkInitialized(); err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}
	if err := validateDocID(id); err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}

	return s.deltaNamesLocked(id)
}

// LoadUpdate returns the blob of a single delta record by name. The record
// must belong to the given document.
func (s *Store) LoadUpdate(id, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkInitialized(); err != nil {
		return nil, fmt.Errorf("load update: %w", err)
	}
	if err := validateDocID(id); err != nil {
		return nil, fmt.Errorf("load update: %w", err)
	}
	if deltaDocID(name) != id {
		return nil, fmt.Errorf("load update: record %q does not belong to document %q", name, id)
	}

	data, err := os.ReadFile(s.updatePath(name))
	if err != nil {
		return nil, fmt.Errorf("load update %s: %w", name, err)
	}
	return data, nil
}

// Stats summarizes storage usage across both areas.
type Stats struct {
	SnapshotCount int   `json:"snapshot_count"`
	UpdatesCount  int   `json:"updates_count"`
	TotalBytes    int64 `json:"total_bytes"`
}

// GetStats reports the number of snapshot blobs, the number of delta
// records, and the total bytes they occupy on disk.
func (s *Store) GetStats() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkInitialized(); err != nil {
		return Stats{}, fmt.Errorf("get stats: %w", err)
	}

	var st Stats
	count, bytes, err := scanArea(filepath.Join(s.root, snapshotsDir), snapshotExt)
	if err != nil {
		return Stats{}, fmt.Errorf("get stats: %w", err)
	}
	st.SnapshotCount = count
	st.TotalBytes += bytes

	count, bytes, err = scanArea(filepath.Join(s.root, updatesDir), deltaExt)
	if err != nil {
		return Stats{}, fmt.Errorf("get stats: %w", err)
	}
	st.UpdatesCount = count
	st.TotalBytes += bytes

	return st, nil
}

// deltaNamesLocked returns the delta record names for id, in name order.
// UUIDv7 suffixes sort lexicographically by creation time, so name order is
// append order. Caller must hold s.mu.
func (s *Store) deltaNamesLocked(id string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, updatesDir))
	if err != nil {
		return nil, fmt.Errorf("scan updates: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if deltaDocID(e.Name()) == id {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// scanArea counts the files with ext directly under dir and sums their sizes.
func scanArea(dir, ext string) (count int, bytes int64, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("scan %s: %w", filepath.Base(dir), err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return 0, 0, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		count++
		bytes += info.Size()
	}
	return count, bytes, nil
}
