// File: lockfree/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package lockfree

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-sync/api"
	"github.com/momentics/hioload-sync/epoch"
	"github.com/momentics/hioload-sync/internal/concurrency"
	"github.com/momentics/hioload-sync/pool"
)

var _ api.Queue[int] = (*Queue[int])(nil)

type queueNode[T any] struct {
	value T
	next  atomic.Pointer[queueNode[T]]
	life  lifecycle
}

// Queue is a Michael-Scott queue. head always points at a sentinel whose
// successor holds the oldest value; tail is at most one node behind the end.
type Queue[T any] struct {
	head  atomic.Pointer[queueNode[T]]
	_     cpu.CacheLinePad
	tail  atomic.Pointer[queueNode[T]]
	_     cpu.CacheLinePad
	c     *epoch.Collector
	nodes *pool.SyncPool[*queueNode[T]]
	m     counters
}

// NewQueue returns an empty queue holding only its sentinel.
func NewQueue[T any](opts ...Option) *Queue[T] {
	o := buildOptions(opts)
	q := &Queue[T]{c: o.collector, m: newCounters("queue")}
	q.nodes = pool.NewResettingPool(
		func() *queueNode[T] { return new(queueNode[T]) },
		func(n *queueNode[T]) {
			n.life.release()
			var zero T
			n.value = zero
			n.next.Store(nil)
			q.m.reclaimed.Inc()
		},
	)
	q.reset()
	return q
}

// Enqueue appends v at the tail.
func (q *Queue[T]) Enqueue(v T) {
	n := q.nodes.Get()
	n.life.revive()
	n.value = v
	n.next.Store(nil)

	g := q.c.Pin()
	defer g.Unpin()
	b := concurrency.NewBackoff(q.c.SpinLimit())
	for {
		t := q.tail.Load()
		next := t.next.Load()
		if next != nil {
			// Tail is lagging; help it along.
			q.tail.CompareAndSwap(t, next)
			g.Repin()
			continue
		}
		if t.next.CompareAndSwap(nil, n) {
			q.tail.CompareAndSwap(t, n)
			return
		}
		q.m.retries.Inc()
		g.Repin()
		b.Spin()
	}
}

// Dequeue removes the oldest value; false if the queue is empty.
func (q *Queue[T]) Dequeue() (T, bool) {
	g := q.c.Pin()
	defer g.Unpin()
	b := concurrency.NewBackoff(q.c.SpinLimit())
	for {
		h := q.head.Load()
		next := h.next.Load()
		if next == nil {
			var zero T
			return zero, false
		}
		if t := q.tail.Load(); t == h {
			q.tail.CompareAndSwap(t, next)
			g.Repin()
			continue
		}
		if q.head.CompareAndSwap(h, next) {
			// next is the new sentinel; its value is moved out.
			v := next.value
			var zero T
			next.value = zero
			h.life.retire()
			q.m.retired.Inc()
			g.Retire(h, q.nodes)
			return v, true
		}
		q.m.retries.Inc()
		g.Repin()
		b.Spin()
	}
}

// IsEmpty reports whether the queue was empty at the moment of the call.
func (q *Queue[T]) IsEmpty() bool {
	g := q.c.Pin()
	defer g.Unpin()
	return q.head.Load().next.Load() == nil
}

// Close frees the sentinel and every queued node. No other call may run
// concurrently. The queue is empty and reusable afterwards.
func (q *Queue[T]) Close() {
	n := q.head.Load()
	q.reset()
	for n != nil {
		next := n.next.Load()
		n.life.retire()
		q.m.retired.Inc()
		q.nodes.Put(n)
		n = next
	}
}

// reset installs a fresh sentinel as both head and tail.
func (q *Queue[T]) reset() {
	sentinel := q.nodes.Get()
	sentinel.life.revive()
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
}
