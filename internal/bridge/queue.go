package bridge

import "sync"

// requestQueue is a thread-safe FIFO queue of requests awaiting the engine
// context.
//
// The queue is unbounded so that enqueuing never blocks a caller holding the
// client mutex; delivery order is therefore decided entirely by enqueue
// order, which is what the FIFO guarantee rests on.
//
// The signal channel (buffered, size 1) coalesces availability notifications
// and enables select-based waiting in the context loop. Close closes the
// signal channel, waking the loop for shutdown.
type requestQueue struct {
	mu       sync.Mutex
	requests []Request
	closed   bool
	signal   chan struct{}
}

func newRequestQueue() *requestQueue {
	return &requestQueue{
		requests: make([]Request, 0, 16),
		signal:   make(chan struct{}, 1),
	}
}

// Enqueue adds a request to the back of the queue.
// Thread-safe: may be called from any goroutine.
// Returns false if the queue is closed.
func (q *requestQueue) Enqueue(r Request) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.requests = append(q.requests, r)

	// Non-blocking signal; the size-1 buffer coalesces bursts.
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue attempts to dequeue without blocking.
// Returns (Request{}, false) if the queue is empty.
func (q *requestQueue) TryDequeue() (Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.requests) == 0 {
		return Request{}, false
	}

	r := q.requests[0]

	// Nil out the slot so the backing array does not retain the request's
	// pointers (Delta, Data) until reallocation.
	q.requests[0] = Request{}

	if len(q.requests) == 1 {
		q.requests = q.requests[:0]
	} else {
		q.requests = q.requests[1:]
	}

	return r, true
}

// Wait returns a channel that signals when requests may be available. The
// channel is closed when the queue is closed, so the wait case fires
// immediately during shutdown.
func (q *requestQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *requestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.requests)
}

// Closed reports whether Close has been called. The context loop checks this
// with Len to distinguish shutdown from a coalesced stale signal.
func (q *requestQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close marks the queue closed and wakes any waiter. Enqueue after Close
// returns false; drained requests already queued remain dequeuable.
func (q *requestQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
