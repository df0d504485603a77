// File: lock/clh.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package lock

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-sync/api"
	"github.com/momentics/hioload-sync/control"
	"github.com/momentics/hioload-sync/internal/concurrency"
	"github.com/momentics/hioload-sync/pool"
)

var (
	_ api.TokenLocker[CLHToken] = (*CLHLock)(nil)

	clhContended = control.LockContended.WithLabelValues("clh")
	clhNodes     = pool.NewSyncPool(func() *clhNode { return new(clhNode) })
)

type clhNode struct {
	locked atomic.Bool
	_      cpu.CacheLinePad
}

// CLHToken is the ownership token of a CLHLock.
type CLHToken struct {
	node *clhNode
}

// CLHLock is an implicit queue of waiters, each spinning on its
// predecessor's node. A node released by its owner is inherited and
// recycled by exactly one successor.
type CLHLock struct {
	tail atomic.Pointer[clhNode]
	_    cpu.CacheLinePad
}

// NewCLHLock returns an unlocked lock whose tail is a free sentinel node.
// The zero value is also unlocked.
func NewCLHLock() *CLHLock {
	l := &CLHLock{}
	n := clhNodes.Get()
	n.locked.Store(false)
	l.tail.Store(n)
	return l
}

// Acquire queues a fresh node behind the current tail and waits for the
// predecessor to release.
func (l *CLHLock) Acquire() CLHToken {
	n := clhNodes.Get()
	n.locked.Store(true)
	pred := l.tail.Swap(n)
	if pred == nil {
		return CLHToken{node: n}
	}
	if pred.locked.Load() {
		clhContended.Inc()
		var b concurrency.Backoff
		for pred.locked.Load() {
			b.Snooze()
		}
	}
	// Only this goroutine ever observes pred from here on.
	clhNodes.Put(pred)
	return CLHToken{node: n}
}

// Release hands the lock to whoever queued behind the token's node.
func (l *CLHLock) Release(t CLHToken) {
	t.node.locked.Store(false)
}

// Do runs fn while holding the lock.
func (l *CLHLock) Do(fn func()) {
	t := l.Acquire()
	defer l.Release(t)
	fn()
}

// Close recycles the tail node. The lock must be unlocked and idle;
// it returns to the zero state and remains usable.
func (l *CLHLock) Close() {
	if n := l.tail.Swap(nil); n != nil {
		clhNodes.Put(n)
	}
}
