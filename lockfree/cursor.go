// File: lockfree/cursor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Sorted list traversal. Every find leaves a cursor whose prev link held
// prevRef, an unmarked ref to curr, when it was read; Insert and Delete CAS
// prev from prevRef. MarkOnly cursors are valid for reading only.

package lockfree

import (
	"sync/atomic"

	"github.com/momentics/hioload-sync/epoch"
)

type cursor[K, V any] struct {
	prev    *atomic.Pointer[markRef[K, V]]
	prevRef *markRef[K, V]
	curr    *listNode[K, V]
}

// find positions a cursor at the first live node with key >= key, restarting
// from head whenever a strategy loses a CAS.
func (l *List[K, V]) find(key K, s Strategy, g *epoch.Guard) (cursor[K, V], bool) {
	for {
		ref := l.head.Load()
		c := cursor[K, V]{prev: &l.head, prevRef: ref, curr: ref.node}
		var found, ok bool
		switch s {
		case EagerUnlink:
			found, ok = l.findEager(&c, key, g)
		case LazyUnlink:
			found, ok = l.findLazy(&c, key, g)
		case MarkOnly:
			found, ok = l.findMarkOnly(&c, key)
		default:
			panic("lockfree: unknown strategy " + s.String())
		}
		if ok {
			return c, found
		}
		l.m.retries.Inc()
		g.Repin()
	}
}

// findEager skips runs of marked nodes and removes each run with a single
// CAS on the last unmarked link before it. The run ends at the first
// unmarked node, which is where the scan stops or continues from.
func (l *List[K, V]) findEager(c *cursor[K, V], key K, g *epoch.Guard) (found, ok bool) {
	for {
		// Walk to the first unmarked node, leaving prev untouched.
		curr := c.curr
		var succ *markRef[K, V]
		for curr != nil {
			succ = curr.next.Load()
			if !succ.marked {
				break
			}
			curr = succ.node
		}
		if curr != c.prevRef.node {
			unlinked := &markRef[K, V]{node: curr}
			if !c.prev.CompareAndSwap(c.prevRef, unlinked) {
				return false, false
			}
			for n := c.prevRef.node; n != curr; {
				next := n.next.Load().node
				l.retire(g, n)
				n = next
			}
			c.prevRef = unlinked
		}
		c.curr = curr
		if curr == nil {
			return false, true
		}
		switch d := l.compare(curr.key, key); {
		case d == 0:
			return true, true
		case d > 0:
			return false, true
		}
		c.prev = &curr.next
		c.prevRef = succ
		c.curr = succ.node
	}
}

// findLazy unlinks marked nodes one by one as the scan meets them.
func (l *List[K, V]) findLazy(c *cursor[K, V], key K, g *epoch.Guard) (found, ok bool) {
	for {
		curr := c.curr
		if curr == nil {
			return false, true
		}
		succ := curr.next.Load()
		if succ.marked {
			unlinked := &markRef[K, V]{node: succ.node}
			if !c.prev.CompareAndSwap(c.prevRef, unlinked) {
				return false, false
			}
			l.retire(g, curr)
			c.prevRef = unlinked
			c.curr = succ.node
			continue
		}
		switch d := l.compare(curr.key, key); {
		case d == 0:
			return true, true
		case d > 0:
			return false, true
		}
		c.prev = &curr.next
		c.prevRef = succ
		c.curr = succ.node
	}
}

// findMarkOnly walks through marked nodes without touching them; a key is
// present when its node is not marked.
func (l *List[K, V]) findMarkOnly(c *cursor[K, V], key K) (found, ok bool) {
	for {
		curr := c.curr
		if curr == nil {
			return false, true
		}
		succ := curr.next.Load()
		if d := l.compare(curr.key, key); d >= 0 {
			return d == 0 && !succ.marked, true
		}
		c.prev = &curr.next
		c.prevRef = succ
		c.curr = succ.node
	}
}
