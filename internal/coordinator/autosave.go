package coordinator

import (
	"context"
	"time"
)

// SetupAutoSave starts the two background policies: a snapshot timer that
// saves the document once the snapshot interval has elapsed since the last
// save, and a flush timer that appends buffered delta blobs to the store.
// The returned cancel function stops both.
func (c *Coordinator) SetupAutoSave(ctx context.Context) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)

	go c.runTimer(ctx, c.snapshotInterval, c.snapshotTick)
	go c.runTimer(ctx, c.flushInterval, c.flushTick)

	c.logger.Debug("autosave running",
		"snapshot_interval", c.snapshotInterval,
		"flush_interval", c.flushInterval,
	)
	return cancel
}

func (c *Coordinator) runTimer(ctx context.Context, every time.Duration, tick func(context.Context)) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			tick(ctx)
		}
	}
}

// snapshotTick saves the document when the snapshot interval has elapsed
// since the last save. A manual SaveDocument resets the timer, so a tick
// right after one does nothing. Failures are logged and retried next tick.
func (c *Coordinator) snapshotTick(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady || !c.available || c.loading {
		return
	}
	if c.clock.Now().Sub(c.lastSnapshot) < c.snapshotInterval {
		return
	}

	if err := c.saveDocumentLocked(ctx); err != nil {
		c.logger.Warn("autosave failed", "doc", c.docID, "error", err)
	}
}

// Flush appends buffered delta blobs to the store immediately, outside
// the flush timer's cadence. Blobs that fail to append stay buffered for
// the next attempt.
func (c *Coordinator) Flush(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushPendingLocked()
}

func (c *Coordinator) flushTick(ctx context.Context) {
	c.Flush(ctx)
}

// flushPendingLocked writes out the pending buffer. Caller must hold c.mu.
func (c *Coordinator) flushPendingLocked() {
	if c.state != StateReady || !c.available || len(c.pending) == 0 {
		return
	}

	total := len(c.pending)
	kept := c.pending[:0]
	for _, pu := range c.pending {
		if err := c.store.AppendUpdates(pu.docID, pu.data); err != nil {
			c.logger.Warn("delta flush failed", "doc", pu.docID, "error", err)
			kept = append(kept, pu)
		}
	}
	c.pending = kept

	if flushed := total - len(c.pending); flushed > 0 {
		c.logger.Debug("deltas flushed", "count", flushed, "kept", len(c.pending))
	}
}
