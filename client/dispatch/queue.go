package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// ErrClosed is returned when work is handed to a closed [Queue].
var ErrClosed = errors.New("dispatch queue closed")

// Dispatcher runs functions on a designated execution context.
type Dispatcher interface {
	Dispatch(fn func()) error
}

// Queue is a serial FIFO [Dispatcher]. A single goroutine runs every
// dispatched function in order, so state touched only from the queue needs
// no further locking.
type Queue struct {
	name    string
	logger  *slog.Logger
	mu      sync.Mutex
	cond    *sync.Cond
	pending []func()
	closed  bool
	done    chan struct{}
	// pinned queues ignore Close.
	pinned bool
}

// NewQueue starts a queue. A nil logger means slog.Default().
func NewQueue(name string, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}

	q := &Queue{
		name:   name,
		logger: logger,
		done:   make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)

	go q.run()

	return q
}

var mainQueue = sync.OnceValue(func() *Queue {
	q := NewQueue("main", nil)
	q.pinned = true
	return q
})

// Main returns the process-wide queue that callback handlers run on by
// default. It is never closed; calling Close on it does nothing.
func Main() *Queue {
	return mainQueue()
}

// Dispatch enqueues fn without waiting for it to run. It is safe to call from
// a function already running on the queue.
func (q *Queue) Dispatch(fn func()) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return fmt.Errorf("queue[%s]: %w", q.name, ErrClosed)
	}

	q.pending = append(q.pending, fn)
	q.cond.Signal()

	return nil
}

// Sync runs fn on the queue and waits for it to return. Calling Sync from the
// queue itself deadlocks.
func (q *Queue) Sync(fn func()) error {
	ran := make(chan struct{})
	if err := q.Dispatch(func() {
		defer close(ran)
		fn()
	}); err != nil {
		return err
	}

	<-ran

	return nil
}

// Close stops accepting work, runs whatever is already pending and waits for
// the queue goroutine to exit. Like Sync, calling Close from a function
// running on the queue deadlocks.
func (q *Queue) Close() {
	if q.pinned {
		return
	}

	q.mu.Lock()
	q.closed = true
	q.cond.Signal()
	q.mu.Unlock()

	<-q.done
}

func (q *Queue) run() {
	defer close(q.done)

	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}

		fn := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		q.exec(fn)
	}
}

// exec runs fn, keeping the queue alive if it panics.
func (q *Queue) exec(fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			q.logger.Error("dispatched func panicked", "queue", q.name, "panic", rec, "trace", string(debug.Stack()))
		}
	}()

	fn()
}
