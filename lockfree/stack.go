// File: lockfree/stack.go
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

var _ api.Stack[int] = (*Stack[int])(nil)

type stackNode[T any] struct {
	value T
	// next is written only while the node is unpublished.
	next *stackNode[T]
	life lifecycle
}

// Stack is a Treiber stack.
type Stack[T any] struct {
	head  atomic.Pointer[stackNode[T]]
	_     cpu.CacheLinePad
	c     *epoch.Collector
	nodes *pool.SyncPool[*stackNode[T]]
	m     counters
}

// NewStack returns an empty stack.
func NewStack[T any](opts ...Option) *Stack[T] {
	o := buildOptions(opts)
	s := &Stack[T]{c: o.collector, m: newCounters("stack")}
	s.nodes = pool.NewResettingPool(
		func() *stackNode[T] { return new(stackNode[T]) },
		func(n *stackNode[T]) {
			n.life.release()
			var zero T
			n.value = zero
			n.next = nil
			s.m.reclaimed.Inc()
		},
	)
	return s
}

// Push adds v on top.
func (s *Stack[T]) Push(v T) {
	n := s.nodes.Get()
	n.life.revive()
	n.value = v
	b := concurrency.NewBackoff(s.c.SpinLimit())
	for {
		h := s.head.Load()
		n.next = h
		if s.head.CompareAndSwap(h, n) {
			return
		}
		s.m.retries.Inc()
		b.Spin()
	}
}

// Pop removes the top value; false if the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	g := s.c.Pin()
	defer g.Unpin()
	b := concurrency.NewBackoff(s.c.SpinLimit())
	for {
		h := s.head.Load()
		if h == nil {
			var zero T
			return zero, false
		}
		if s.head.CompareAndSwap(h, h.next) {
			v := h.value
			s.retire(g, h)
			return v, true
		}
		s.m.retries.Inc()
		g.Repin()
		b.Spin()
	}
}

// IsEmpty reports whether the stack was empty at the moment of the call.
func (s *Stack[T]) IsEmpty() bool {
	g := s.c.Pin()
	defer g.Unpin()
	return s.head.Load() == nil
}

func (s *Stack[T]) retire(g *epoch.Guard, n *stackNode[T]) {
	n.life.retire()
	s.m.retired.Inc()
	g.Retire(n, s.nodes)
}

// Close frees every remaining node. No other call may run concurrently.
func (s *Stack[T]) Close() {
	n := s.head.Swap(nil)
	for n != nil {
		next := n.next
		n.life.retire()
		s.m.retired.Inc()
		s.nodes.Put(n)
		n = next
	}
}
