package coordinator

import (
	"context"

	"github.com/roach88/kern/internal/doc"
)

// ApplyEdit funnels one edit through the engine and republishes the view.
// An edit the engine rejects is logged and swallowed; the previously
// published view stays in place. No-op before readiness.
func (c *Coordinator) ApplyEdit(ctx context.Context, delta doc.EditDelta) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady || c.loading {
		c.logger.Debug("edit ignored: not ready", "line", delta.Line, "col", delta.Col)
		return
	}

	if _, err := c.client.ApplyEdit(ctx, delta); err != nil {
		c.lastErr = err
		c.logger.Warn("edit rejected",
			"doc", c.docID,
			"line", delta.Line,
			"col", delta.Col,
			"error", err,
		)
		return
	}

	view, err := c.client.GetView(ctx)
	if err != nil {
		c.lastErr = err
		c.logger.Warn("view refresh failed", "doc", c.docID, "error", err)
		return
	}

	c.publishLocked(view)
	c.bufferExportLocked(ctx)
}

// SetDocumentText replaces the whole document body and republishes the view.
// Failures are logged and swallowed like ApplyEdit's. No-op before readiness.
func (c *Coordinator) SetDocumentText(ctx context.Context, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady || c.loading {
		c.logger.Debug("set text ignored: not ready")
		return
	}

	view, err := c.client.SetText(ctx, text)
	if err != nil {
		c.lastErr = err
		c.logger.Warn("set text rejected", "doc", c.docID, "error", err)
		return
	}

	c.publishLocked(view)
	c.bufferExportLocked(ctx)
}

// bufferExportLocked asks the engine for an update export and buffers it for
// the next flush tick. Nothing ever flushes in memory-only mode, so blobs
// are not buffered there. Caller must hold c.mu.
func (c *Coordinator) bufferExportLocked(ctx context.Context) {
	if !c.available {
		return
	}

	data, err := c.client.ExportUpdates(ctx)
	if err != nil {
		c.logger.Warn("update export failed", "doc", c.docID, "error", err)
		return
	}
	c.pending = append(c.pending, pendingUpdate{docID: c.docID, data: data})
}

// dropPendingLocked removes buffered blobs belonging to id.
// Caller must hold c.mu.
func (c *Coordinator) dropPendingLocked(id string) {
	kept := c.pending[:0]
	for _, pu := range c.pending {
		if pu.docID != id {
			kept = append(kept, pu)
		}
	}
	c.pending = kept
}
