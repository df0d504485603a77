// File: lockfree/list.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package lockfree

import (
	"cmp"
	"fmt"
	"sync/atomic"

	"github.com/momentics/hioload-sync/api"
	"github.com/momentics/hioload-sync/epoch"
	"github.com/momentics/hioload-sync/internal/concurrency"
	"github.com/momentics/hioload-sync/pool"
)

var _ api.OrderedMap[int, string] = (*List[int, string])(nil)

// Strategy selects how a List traversal treats logically deleted nodes.
type Strategy uint8

const (
	// EagerUnlink cuts a whole run of deleted nodes with one CAS on the
	// last live predecessor.
	EagerUnlink Strategy = iota
	// LazyUnlink cuts deleted nodes one at a time as they are met.
	LazyUnlink
	// MarkOnly never unlinks and needs no CAS; lookups only. Inserts and
	// deletes on a MarkOnly list traverse with LazyUnlink.
	MarkOnly
)

func (s Strategy) String() string {
	switch s {
	case EagerUnlink:
		return "eager-unlink"
	case LazyUnlink:
		return "lazy-unlink"
	case MarkOnly:
		return "mark-only"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// markRef is an immutable (successor, deleted) pair. Links are swapped as a
// whole and compared by identity, so a stale ref never matches a new one.
type markRef[K, V any] struct {
	node   *listNode[K, V]
	marked bool
}

type listNode[K, V any] struct {
	key   K
	value V
	// next is never nil while the node is linked. Once marked it never changes.
	next atomic.Pointer[markRef[K, V]]
	life lifecycle
}

// List is a lock-free sorted map with unique keys.
type List[K, V any] struct {
	head     atomic.Pointer[markRef[K, V]]
	compare  func(a, b K) int
	strategy Strategy
	c        *epoch.Collector
	nodes    *pool.SyncPool[*listNode[K, V]]
	m        counters
}

// NewList returns an empty list ordered by cmp.Compare.
func NewList[K cmp.Ordered, V any](opts ...Option) *List[K, V] {
	return NewListFunc[K, V](cmp.Compare[K], opts...)
}

// NewListFunc returns an empty list ordered by compare, which must be a
// strict total order returning <0, 0 or >0.
func NewListFunc[K, V any](compare func(a, b K) int, opts ...Option) *List[K, V] {
	if compare == nil {
		panic("lockfree: nil compare function")
	}
	o := buildOptions(opts)
	if o.strategy > MarkOnly {
		panic("lockfree: unknown strategy " + o.strategy.String())
	}
	l := &List[K, V]{
		compare:  compare,
		strategy: o.strategy,
		c:        o.collector,
		m:        newCounters("list"),
	}
	l.nodes = pool.NewResettingPool(
		func() *listNode[K, V] { return new(listNode[K, V]) },
		func(n *listNode[K, V]) {
			n.life.release()
			var (
				k K
				v V
			)
			n.key, n.value = k, v
			n.next.Store(nil)
			l.m.reclaimed.Inc()
		},
	)
	l.head.Store(&markRef[K, V]{})
	return l
}

// Strategy returns the find strategy used by Lookup.
func (l *List[K, V]) Strategy() Strategy {
	return l.strategy
}

// writeStrategy is the traversal used by Insert and Delete, which need an
// unmarked predecessor link to CAS.
func (l *List[K, V]) writeStrategy() Strategy {
	if l.strategy == MarkOnly {
		return LazyUnlink
	}
	return l.strategy
}

// Insert stores value under key. It returns false, leaving the existing
// value untouched, if key is already present.
func (l *List[K, V]) Insert(key K, value V) bool {
	g := l.c.Pin()
	defer g.Unpin()
	b := concurrency.NewBackoff(l.c.SpinLimit())
	var n *listNode[K, V]
	for {
		c, found := l.find(key, l.writeStrategy(), g)
		if found {
			// n was never published; the garbage collector takes it.
			return false
		}
		if n == nil {
			n = l.nodes.Get()
			n.life.revive()
			n.key, n.value = key, value
		}
		n.next.Store(&markRef[K, V]{node: c.curr})
		if c.prev.CompareAndSwap(c.prevRef, &markRef[K, V]{node: n}) {
			return true
		}
		l.m.retries.Inc()
		g.Repin()
		b.Spin()
	}
}

// Delete removes key and returns its value; false if absent. The delete
// takes effect when the node is marked; unlinking is best effort and left
// to later traversals when it loses a race.
func (l *List[K, V]) Delete(key K) (V, bool) {
	g := l.c.Pin()
	defer g.Unpin()
	for {
		c, found := l.find(key, l.writeStrategy(), g)
		if !found {
			var zero V
			return zero, false
		}
		curr := c.curr
		succ, ok := mark(curr)
		if !ok {
			// Another deleter won; the next find will skip or unlink it.
			l.m.retries.Inc()
			g.Repin()
			continue
		}
		v := curr.value
		if c.prev.CompareAndSwap(c.prevRef, &markRef[K, V]{node: succ}) {
			l.retire(g, curr)
		}
		return v, true
	}
}

// mark sets the deleted flag on n's link and returns the frozen successor.
// false means n was already marked by someone else.
func mark[K, V any](n *listNode[K, V]) (*listNode[K, V], bool) {
	for {
		ref := n.next.Load()
		if ref.marked {
			return nil, false
		}
		if n.next.CompareAndSwap(ref, &markRef[K, V]{node: ref.node, marked: true}) {
			return ref.node, true
		}
	}
}

// Lookup returns the value stored under key using the list's strategy.
func (l *List[K, V]) Lookup(key K) (V, bool) {
	return l.LookupWith(key, l.strategy)
}

// LookupWith returns the value stored under key, traversing with s.
func (l *List[K, V]) LookupWith(key K, s Strategy) (V, bool) {
	g := l.c.Pin()
	defer g.Unpin()
	c, found := l.find(key, s, g)
	if !found {
		var zero V
		return zero, false
	}
	return c.curr.value, true
}

// Range calls fn for every live entry in ascending key order until fn
// returns false. Entries inserted or deleted concurrently may or may not be
// visited. fn must not block: the walk holds a pinned guard throughout.
func (l *List[K, V]) Range(fn func(key K, value V) bool) {
	g := l.c.Pin()
	defer g.Unpin()
	for n := l.head.Load().node; n != nil; {
		ref := n.next.Load()
		if !ref.marked && !fn(n.key, n.value) {
			return
		}
		n = ref.node
	}
}

func (l *List[K, V]) retire(g *epoch.Guard, n *listNode[K, V]) {
	n.life.retire()
	l.m.retired.Inc()
	g.Retire(n, l.nodes)
}

// Close frees every node still linked, marked or not. No other call may run
// concurrently. The list is empty and reusable afterwards.
func (l *List[K, V]) Close() {
	n := l.head.Swap(&markRef[K, V]{}).node
	for n != nil {
		next := n.next.Load().node
		n.life.retire()
		l.m.retired.Inc()
		l.nodes.Put(n)
		n = next
	}
}
