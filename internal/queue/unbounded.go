// Package queue provides the unbounded-FIFO primitive shared by the group's
// and element's inbound streams and by the element mailbox. There is no
// back-pressure: a plain buffered Go channel can't give unbounded capacity
// without an arbitrary bound, so sends here are never allowed to block the
// caller.
package queue

import (
	"context"
	"sync"
)

// Unbounded is a generic, mutex-guarded FIFO with non-blocking pushes and a
// context-aware blocking pop. It is shared in ownership between a single
// producer-goroutine-set and a single consumer; mutation only happens under
// the lock.
type Unbounded[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []T
	closed bool
}

// New returns an empty, open queue.
func New[T any]() *Unbounded[T] {
	q := &Unbounded[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends v to the tail. It never blocks; it only fails once the queue
// has been closed.
func (q *Unbounded[T]) Push(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, v)
	q.cond.Signal()
	return true
}

// Pop blocks until an item is available, the queue is closed and drained, or
// ctx is done. ok is false in the latter two cases.
func (q *Unbounded[T]) Pop(ctx context.Context) (v T, ok bool) {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		if ctx.Err() != nil {
			var zero T
			return zero, false
		}
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	v = q.items[0]
	q.items = q.items[1:]
	return v, true
}

// TryPop pops without blocking; ok is false if the queue is empty.
func (q *Unbounded[T]) TryPop() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	v = q.items[0]
	q.items = q.items[1:]
	return v, true
}

// Len reports the number of items currently queued.
func (q *Unbounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close marks the queue closed; queued items remain drainable, subsequent
// Pushes fail.
func (q *Unbounded[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}
