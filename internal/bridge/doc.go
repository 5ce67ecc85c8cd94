// Package bridge connects callers to the kern document engine through a
// typed request/response protocol.
//
// The engine runs inside an isolated context: a dedicated goroutine that
// owns the engine.Engine outright. Nothing outside that goroutine ever
// touches engine state; every interaction is a Request submitted through the
// Client and a Response routed back by kind. This mirrors an out-of-process
// engine without the process boundary, and keeps the option of reintroducing
// one later without changing callers.
//
// ARCHITECTURE:
//
// Request Flow:
//  1. Callers invoke a typed Client method (ApplyEdit, GetView, ...)
//  2. The Client registers a one-shot waiter keyed by the expected response
//     kind, then enqueues the request on an unbounded FIFO queue
//  3. The context goroutine dequeues, executes against the engine, and
//     emits exactly one Response per Request
//  4. The dispatch goroutine routes each Response to the oldest waiter
//     registered for its kind
//
// Readiness:
// Init sends the init request immediately, bypassing the pre-ready buffer.
// Every other request issued before the ready response arrives is buffered
// in submission order and flushed onto the queue the moment readiness is
// observed, before the Init caller is resumed. No request is dropped.
//
// Error responses carry the request kind they answer, so a failure routes to
// the same waiter that a success would have.
//
// Response matching is by kind, not request identity. Waiters for one kind
// form a FIFO list, which keeps matching exact even when two requests of the
// same kind are outstanding; callers should still await one before issuing
// the next, since a cancelled caller abandons its slot in the list.
//
// Terminate closes the context. Pending and future requests fail immediately
// with ErrTerminated; in-flight work is never left hanging.
package bridge
