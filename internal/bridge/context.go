package bridge

import (
	"fmt"
	"log/slog"

	"github.com/roach88/kern/internal/engine"
)

// EngineFactory constructs the engine when the context handles init.
// The default factory never fails; tests inject failing ones to exercise
// startup error paths.
type EngineFactory func(body string) (*engine.Engine, error)

func defaultEngineFactory(body string) (*engine.Engine, error) {
	return engine.New(body), nil
}

// engineContext is the isolated execution context hosting one Engine.
//
// Exactly one goroutine runs its loop; the Engine is created there on the
// init request and never escapes. Each dequeued request produces exactly one
// response, errors included, so the client side can always match an answer
// to an outstanding waiter.
type engineContext struct {
	queue     *requestQueue
	responses chan<- Response
	done      <-chan struct{}
	body      string
	factory   EngineFactory
	logger    *slog.Logger

	eng *engine.Engine
}

// run is the context loop. It drains the queue, waits for the availability
// signal when empty, and exits on done or once the queue is closed and
// drained.
func (c *engineContext) run() {
	c.logger.Debug("engine context starting")

	for {
		req, ok := c.queue.TryDequeue()
		if ok {
			if !c.respond(c.handle(req)) {
				return
			}
			continue
		}

		select {
		case <-c.done:
			c.logger.Debug("engine context stopping", "reason", "terminated")
			return

		case <-c.queue.Wait():
			if c.queue.Closed() && c.queue.Len() == 0 {
				c.logger.Debug("engine context stopping", "reason", "queue closed")
				return
			}
		}
	}
}

// respond delivers one response, giving up if the client terminated while
// the send was in flight. Returns false when the loop should stop.
func (c *engineContext) respond(resp Response) bool {
	select {
	case c.responses <- resp:
		return true
	case <-c.done:
		return false
	}
}

// handle executes one request against the engine and builds its response.
func (c *engineContext) handle(req Request) Response {
	c.logger.Debug("handling request", "kind", req.Kind)

	if req.Kind == ReqInit {
		return c.handleInit()
	}
	if c.eng == nil {
		return errorResponse(req.Kind, fmt.Errorf("engine not initialized"))
	}

	switch req.Kind {
	case ReqCheckHealth:
		return Response{Kind: RespHealth, Re: req.Kind, Health: engine.Health}

	case ReqGetView:
		v := c.eng.View()
		return Response{Kind: RespView, Re: req.Kind, View: &v}

	case ReqApplyEdit:
		if req.Delta == nil {
			return errorResponse(req.Kind, fmt.Errorf("apply_edit request missing delta"))
		}
		affected, err := c.eng.ApplyEdit(*req.Delta)
		if err != nil {
			return errorResponse(req.Kind, err)
		}
		return Response{Kind: RespEdited, Re: req.Kind, Affected: affected}

	case ReqSetText:
		c.eng.SetText(req.Content)
		v := c.eng.View()
		return Response{Kind: RespView, Re: req.Kind, View: &v}

	case ReqExportSnapshot:
		data, err := c.eng.Snapshot()
		if err != nil {
			return errorResponse(req.Kind, err)
		}
		return Response{Kind: RespSnapshot, Re: req.Kind, Data: data}

	case ReqExportUpdates:
		data, err := c.eng.ExportUpdates()
		if err != nil {
			return errorResponse(req.Kind, err)
		}
		return Response{Kind: RespUpdates, Re: req.Kind, Data: data}

	case ReqLoadFromBytes:
		if err := c.eng.LoadSnapshot(req.Data); err != nil {
			return errorResponse(req.Kind, err)
		}
		return Response{Kind: RespLoaded, Re: req.Kind}

	case ReqGetText:
		return Response{Kind: RespText, Re: req.Kind, Content: c.eng.Text()}

	case ReqGetVersion:
		return Response{Kind: RespVersion, Re: req.Kind, Version: c.eng.Version()}

	default:
		return errorResponse(req.Kind, fmt.Errorf("unknown request kind %q", req.Kind))
	}
}

func (c *engineContext) handleInit() Response {
	if c.eng != nil {
		return errorResponse(ReqInit, fmt.Errorf("engine already initialized"))
	}

	eng, err := c.factory(c.body)
	if err != nil {
		return errorResponse(ReqInit, err)
	}

	c.eng = eng
	return Response{Kind: RespReady, Re: ReqInit, Health: engine.Health}
}

func errorResponse(re RequestKind, err error) Response {
	return Response{Kind: RespError, Re: re, Message: err.Error()}
}
