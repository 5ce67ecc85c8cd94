package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/kern/internal/doc"
	"github.com/roach88/kern/internal/engine"
)

// ErrTerminated is returned for every request pending at or issued after
// Terminate.
var ErrTerminated = errors.New("client terminated")

// Client is the typed request/response facade over the engine context.
//
// Thread-safety model:
//   - Init(): call exactly once, from any goroutine
//   - typed operations: safe from any goroutine; requests are delivered to
//     the context in submission order
//   - Terminate(): safe from any goroutine, idempotent
//
// Operations issued before Init resolves are buffered and flushed, in
// order, the instant readiness is observed; Init itself bypasses the
// buffer. Callers should not have two requests of the same kind outstanding
// at once (see the package documentation for why this mostly works anyway).
type Client struct {
	mu          sync.Mutex
	queue       *requestQueue
	responses   chan Response
	waiters     map[ResponseKind][]chan Response
	pending     []Request
	ready       bool
	initialized bool
	terminated  bool

	done     chan struct{}
	stopOnce sync.Once

	body    string
	factory EngineFactory
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBody sets the seed body used when init creates a fresh engine.
// Default: engine.DefaultBody.
func WithBody(body string) Option {
	return func(c *Client) { c.body = body }
}

// WithEngineFactory overrides engine construction during init. The default
// factory never fails; tests inject failing ones to exercise startup errors.
func WithEngineFactory(f EngineFactory) Option {
	return func(c *Client) { c.factory = f }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client. No goroutines start until Init.
func NewClient(opts ...Option) *Client {
	c := &Client{
		queue:     newRequestQueue(),
		responses: make(chan Response),
		waiters:   make(map[ResponseKind][]chan Response),
		done:      make(chan struct{}),
		body:      engine.DefaultBody,
		factory:   defaultEngineFactory,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init starts the engine context and dispatch goroutines, sends the init
// request immediately, and resolves with the engine's health string once
// the ready response arrives. A startup failure resolves with an error
// carrying the context's message, and the client stays unusable until
// terminated.
func (c *Client) Init(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.terminated {
		c.mu.Unlock()
		return "", ErrTerminated
	}
	if c.initialized {
		c.mu.Unlock()
		return "", fmt.Errorf("init already called")
	}
	c.initialized = true
	ch := c.addWaiterLocked(RespReady)
	c.mu.Unlock()

	ec := &engineContext{
		queue:     c.queue,
		responses: c.responses,
		done:      c.done,
		body:      c.body,
		factory:   c.factory,
		logger:    c.logger,
	}
	go ec.run()
	go c.dispatch()

	// Bypasses the pre-ready buffer: nothing reaches the queue before this.
	c.queue.Enqueue(Request{Kind: ReqInit})

	resp, err := c.await(ctx, RespReady, ch)
	if err != nil {
		return "", err
	}
	return resp.Health, nil
}

// CheckHealth probes the engine context.
func (c *Client) CheckHealth(ctx context.Context) (string, error) {
	resp, err := c.roundTrip(ctx, Request{Kind: ReqCheckHealth})
	if err != nil {
		return "", err
	}
	return resp.Health, nil
}

// GetView returns the current authoritative view.
func (c *Client) GetView(ctx context.Context) (doc.View, error) {
	resp, err := c.roundTrip(ctx, Request{Kind: ReqGetView})
	if err != nil {
		return doc.View{}, err
	}
	return viewFrom(resp)
}

// ApplyEdit submits one edit delta. On success it returns the post-edit
// line indices whose content changed; a rejection surfaces the engine's
// message as a *ResponseError.
func (c *Client) ApplyEdit(ctx context.Context, delta doc.EditDelta) ([]int, error) {
	resp, err := c.roundTrip(ctx, Request{Kind: ReqApplyEdit, Delta: &delta})
	if err != nil {
		return nil, err
	}
	return resp.Affected, nil
}

// SetText replaces the entire document body and returns the resulting view.
func (c *Client) SetText(ctx context.Context, content string) (doc.View, error) {
	resp, err := c.roundTrip(ctx, Request{Kind: ReqSetText, Content: content})
	if err != nil {
		return doc.View{}, err
	}
	return viewFrom(resp)
}

// ExportSnapshot serializes the full engine state to an opaque blob.
func (c *Client) ExportSnapshot(ctx context.Context) ([]byte, error) {
	resp, err := c.roundTrip(ctx, Request{Kind: ReqExportSnapshot})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ExportUpdates serializes the incremental state since the last export.
func (c *Client) ExportUpdates(ctx context.Context) ([]byte, error) {
	resp, err := c.roundTrip(ctx, Request{Kind: ReqExportUpdates})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// LoadFromBytes restores engine state from a previously exported blob.
func (c *Client) LoadFromBytes(ctx context.Context, data []byte) error {
	_, err := c.roundTrip(ctx, Request{Kind: ReqLoadFromBytes, Data: data})
	return err
}

// GetText returns the full document body as plain text.
func (c *Client) GetText(ctx context.Context) (string, error) {
	resp, err := c.roundTrip(ctx, Request{Kind: ReqGetText})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// GetVersion returns the engine's current version counter.
func (c *Client) GetVersion(ctx context.Context) (uint64, error) {
	resp, err := c.roundTrip(ctx, Request{Kind: ReqGetVersion})
	if err != nil {
		return 0, err
	}
	return resp.Version, nil
}

// Terminate tears down the context. Pending and future requests fail
// immediately with ErrTerminated. Idempotent.
func (c *Client) Terminate() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		c.terminated = true
		c.mu.Unlock()

		close(c.done)
		c.queue.Close()
		c.logger.Debug("client terminated")
	})
}

// PendingLen returns the number of requests buffered while awaiting
// readiness. Useful for monitoring and testing.
func (c *Client) PendingLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// roundTrip registers a one-shot waiter for the request's response kind,
// submits the request (or buffers it pre-ready), and awaits the answer.
// Registration and submission happen under one lock so waiter order always
// matches delivery order.
func (c *Client) roundTrip(ctx context.Context, req Request) (Response, error) {
	expected, ok := responseKinds[req.Kind]
	if !ok {
		return Response{}, fmt.Errorf("no response kind mapped for request %q", req.Kind)
	}

	c.mu.Lock()
	if c.terminated {
		c.mu.Unlock()
		return Response{}, ErrTerminated
	}
	ch := c.addWaiterLocked(expected)
	if !c.ready {
		c.pending = append(c.pending, req)
	} else {
		c.queue.Enqueue(req)
	}
	c.mu.Unlock()

	return c.await(ctx, expected, ch)
}

// await resolves one waiter. Context cancellation abandons the waiter slot;
// the request itself is never recalled once submitted.
func (c *Client) await(ctx context.Context, kind ResponseKind, ch chan Response) (Response, error) {
	select {
	case resp := <-ch:
		if resp.Kind == RespError {
			return Response{}, &ResponseError{Request: resp.Re, Message: resp.Message}
		}
		return resp, nil

	case <-c.done:
		return Response{}, ErrTerminated

	case <-ctx.Done():
		c.removeWaiter(kind, ch)
		return Response{}, ctx.Err()
	}
}

// dispatch routes responses to waiters until termination.
func (c *Client) dispatch() {
	for {
		select {
		case <-c.done:
			return
		case resp := <-c.responses:
			c.route(resp)
		}
	}
}

// route delivers one response to the oldest waiter for its kind. A ready
// response additionally flips the client to ready and flushes the pre-ready
// buffer, in submission order, before the init caller resumes.
func (c *Client) route(resp Response) {
	key := resp.Kind
	if resp.Kind == RespError {
		expected, ok := responseKinds[resp.Re]
		if !ok {
			c.logger.Warn("dropping unroutable error response", "re", resp.Re, "message", resp.Message)
			return
		}
		key = expected
	}

	c.mu.Lock()
	if resp.Kind == RespReady && !c.ready {
		c.ready = true
		for _, r := range c.pending {
			c.queue.Enqueue(r)
		}
		c.pending = nil
	}

	list := c.waiters[key]
	if len(list) == 0 {
		c.mu.Unlock()
		c.logger.Warn("dropping response with no waiter", "kind", resp.Kind, "re", resp.Re)
		return
	}
	ch := list[0]
	c.waiters[key] = list[1:]
	c.mu.Unlock()

	// Waiter channels are buffered; this never blocks the dispatcher.
	ch <- resp
}

func (c *Client) addWaiterLocked(kind ResponseKind) chan Response {
	ch := make(chan Response, 1)
	c.waiters[kind] = append(c.waiters[kind], ch)
	return ch
}

func (c *Client) removeWaiter(kind ResponseKind, ch chan Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.waiters[kind]
	for i, w := range list {
		if w == ch {
			c.waiters[kind] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

func viewFrom(resp Response) (doc.View, error) {
	if resp.View == nil {
		return doc.View{}, fmt.Errorf("%s response missing view", resp.Kind)
	}
	return *resp.View, nil
}
