package coordinator

import (
	"context"
	"fmt"

	"github.com/roach88/kern/internal/doc"
)

// InitStore brings the coordinator up: storage first (best effort), then the
// engine (fatal on failure), then the current document's snapshot if one
// exists, then the first view.
//
// Only the first call does work. Later calls return whatever the first
// attempt produced, like a cached promise.
func (c *Coordinator) InitStore(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initOnce {
		c.logger.Debug("init already attempted", "state", c.state.String())
		return c.initErr
	}
	c.initOnce = true
	c.state = StateInitializing
	c.initErr = c.initLocked(ctx)
	return c.initErr
}

func (c *Coordinator) initLocked(ctx context.Context) error {
	c.available = c.store.Init()
	if !c.available {
		c.logger.Warn("storage unavailable, running memory-only", "root", c.store.Root())
	}

	health, err := c.client.Init(ctx)
	if err != nil {
		c.state = StateUninitialized
		c.lastErr = err
		return fmt.Errorf("engine init: %w", err)
	}
	c.health = health

	if c.available {
		data, err := c.store.LoadDocument(c.docID)
		switch {
		case err != nil:
			c.logger.Warn("snapshot load at init failed", "doc", c.docID, "error", err)
		case data != nil:
			if err := c.client.LoadFromBytes(ctx, data); err != nil {
				c.logger.Warn("snapshot restore at init failed", "doc", c.docID, "error", err)
			}
		}
	}

	view, err := c.client.GetView(ctx)
	if err != nil {
		c.state = StateUninitialized
		c.lastErr = err
		return fmt.Errorf("initial view: %w", err)
	}

	c.lastSnapshot = c.clock.Now()
	c.state = StateReady
	c.lastErr = nil
	c.publishLocked(view)
	c.logger.Info("coordinator ready",
		"doc", c.docID,
		"storage", c.available,
		"version", view.Version,
	)
	return nil
}

// SaveDocument exports a snapshot of the current document and persists it,
// clearing the document's buffered deltas and resetting the autosave timer.
// It is a no-op before readiness or without storage.
func (c *Coordinator) SaveDocument(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveDocumentLocked(ctx)
}

// saveDocumentLocked is SaveDocument without the lock, for composition from
// LoadDocument. Caller must hold c.mu.
func (c *Coordinator) saveDocumentLocked(ctx context.Context) error {
	if c.state != StateReady {
		return nil
	}
	if !c.available {
		c.logger.Debug("save skipped: storage unavailable", "doc", c.docID)
		return nil
	}

	data, err := c.client.ExportSnapshot(ctx)
	if err != nil {
		c.lastErr = err
		return fmt.Errorf("export snapshot: %w", err)
	}
	if err := c.store.SaveSnapshot(c.docID, data); err != nil {
		c.lastErr = err
		return fmt.Errorf("save document %s: %w", c.docID, err)
	}

	c.lastSnapshot = c.clock.Now()
	c.dropPendingLocked(c.docID)
	c.logger.Info("document saved", "doc", c.docID, "bytes", len(data))
	return nil
}

// LoadDocument switches to another document: the outgoing document is saved
// on a best-effort basis, then the incoming document's snapshot is restored,
// or the placeholder body is seeded when no snapshot exists. The published
// view switches atomically at the end.
func (c *Coordinator) LoadDocument(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return ErrNotReady
	}

	c.loading = true
	defer func() { c.loading = false }()

	if err := c.saveDocumentLocked(ctx); err != nil {
		c.logger.Warn("save before switch failed", "doc", c.docID, "error", err)
	}

	c.docID = id

	var data []byte
	if c.available {
		var err error
		data, err = c.store.LoadDocument(id)
		if err != nil {
			c.logger.Warn("snapshot load failed", "doc", id, "error", err)
			data = nil
		}
	}

	view, err := c.restoreLocked(ctx, data)
	if err != nil {
		c.lastErr = err
		return fmt.Errorf("load document %s: %w", id, err)
	}

	c.lastSnapshot = c.clock.Now()
	// The incoming document starts its own version sequence.
	c.hasView = false
	c.publishLocked(view)
	c.logger.Info("document loaded", "doc", id, "restored", data != nil, "version", view.Version)
	return nil
}

// restoreLocked brings the engine to the incoming document's state: from the
// snapshot blob when one exists, otherwise from the placeholder body. A blob
// the engine rejects degrades to the placeholder. Caller must hold c.mu.
func (c *Coordinator) restoreLocked(ctx context.Context, data []byte) (doc.View, error) {
	if data != nil {
		if err := c.client.LoadFromBytes(ctx, data); err != nil {
			c.logger.Warn("snapshot rejected, seeding placeholder", "doc", c.docID, "error", err)
		} else {
			return c.client.GetView(ctx)
		}
	}
	return c.client.SetText(ctx, c.body)
}

// ListDocuments returns the ids of all stored documents, or just the current
// id when storage is unavailable.
func (c *Coordinator) ListDocuments() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.available {
		ids, err := c.store.ListDocuments()
		if err == nil {
			return ids
		}
		c.logger.Warn("list documents failed", "error", err)
	}
	return []string{c.docID}
}
