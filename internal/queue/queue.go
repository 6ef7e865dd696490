// Package queue provides the in-memory handoff between request handlers and the persistence worker.
package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
)

// Queue is an unbounded FIFO of events. Any number of goroutines may Enqueue;
// a single consumer calls Dequeue or TryDequeue.
type Queue struct {
	mu           sync.Mutex
	backlog      []domain.Event
	notify       chan struct{}
	shuttingDown atomic.Bool

	enqueued  atomic.Uint64
	processed atomic.Uint64
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{
		notify: make(chan struct{}, 1),
	}
}

// Enqueue appends an event and wakes the consumer. It never blocks.
// Returns false only after CloseIntake.
func (q *Queue) Enqueue(ev domain.Event) bool {
	q.mu.Lock()
	if q.shuttingDown.Load() {
		q.mu.Unlock()
		return false
	}
	q.backlog = append(q.backlog, ev)
	q.enqueued.Add(1)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// Dequeue blocks until an event is available or ctx is done.
func (q *Queue) Dequeue(ctx context.Context) (domain.Event, error) {
	for {
		if ev, ok := q.TryDequeue(); ok {
			return ev, nil
		}
		select {
		case <-ctx.Done():
			return domain.Event{}, ctx.Err()
		case <-q.notify:
		}
	}
}

// TryDequeue pops the oldest event without waiting.
func (q *Queue) TryDequeue() (domain.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.backlog) == 0 {
		return domain.Event{}, false
	}
	ev := q.backlog[0]
	q.backlog[0] = domain.Event{}
	q.backlog = q.backlog[1:]
	if len(q.backlog) == 0 {
		q.backlog = nil
	}
	return ev, true
}

// Len returns the number of events waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}

// MarkProcessed increases the processed counter.
func (q *Queue) MarkProcessed() { q.processed.Add(1) }

// Metrics returns counters and the current backlog.
func (q *Queue) Metrics() (enq, proc uint64, backlog int) {
	return q.enqueued.Load(), q.processed.Load(), q.Len()
}

// CloseIntake disallows future enqueues. Once it returns, the backlog only shrinks.
func (q *Queue) CloseIntake() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.shuttingDown.Store(true)
}

// IsShuttingDown reports if intake has been closed.
func (q *Queue) IsShuttingDown() bool { return q.shuttingDown.Load() }
