// File: lock/mcs.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// MCS queue lock with spinning and parking waiters.

package lock

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-sync/api"
	"github.com/momentics/hioload-sync/control"
	"github.com/momentics/hioload-sync/internal/concurrency"
	"github.com/momentics/hioload-sync/internal/park"
	"github.com/momentics/hioload-sync/pool"
)

var (
	_ api.TokenLocker[MCSToken] = (*MCSLock)(nil)
	_ api.TokenLocker[MCSToken] = (*MCSParkLock)(nil)

	mcsContended     = control.LockContended.WithLabelValues("mcs")
	mcsParkContended = control.LockContended.WithLabelValues("mcs_park")

	mcsNodes = pool.NewResettingPool(
		func() *mcsNode { return new(mcsNode) },
		func(n *mcsNode) {
			n.next.Store(nil)
			n.parker = nil
		},
	)
)

type mcsNode struct {
	locked atomic.Bool
	next   atomic.Pointer[mcsNode]
	// parker is set before the node is linked behind its predecessor and
	// read by the predecessor only after it observes the link.
	parker *park.Parker
	_      cpu.CacheLinePad
}

// MCSToken is the ownership token of MCSLock and MCSParkLock.
type MCSToken struct {
	node *mcsNode
}

// mcsQueue is the tail pointer shared by both MCS variants.
type mcsQueue struct {
	tail atomic.Pointer[mcsNode]
	_    cpu.CacheLinePad
}

func (q *mcsQueue) acquire(parking bool, contended prometheus.Counter) MCSToken {
	n := mcsNodes.Get()
	n.locked.Store(true)
	pred := q.tail.Swap(n)
	if pred == nil {
		return MCSToken{node: n}
	}
	contended.Inc()
	if parking {
		// Fresh per wait: a late Unpark must not leak into a recycled node.
		n.parker = park.New()
	}
	pred.next.Store(n)

	var b concurrency.Backoff
	for n.locked.Load() {
		if parking && b.Completed() {
			n.parker.Park()
			continue
		}
		b.Snooze()
	}
	return MCSToken{node: n}
}

func (q *mcsQueue) tryAcquire() (MCSToken, bool) {
	n := mcsNodes.Get()
	n.locked.Store(false)
	if q.tail.CompareAndSwap(nil, n) {
		return MCSToken{node: n}, true
	}
	mcsNodes.Put(n)
	return MCSToken{}, false
}

func (q *mcsQueue) release(t MCSToken) {
	n := t.node
	succ := n.next.Load()
	if succ == nil {
		if q.tail.CompareAndSwap(n, nil) {
			mcsNodes.Put(n)
			return
		}
		// A successor swapped the tail but has not linked itself yet.
		var b concurrency.Backoff
		for succ = n.next.Load(); succ == nil; succ = n.next.Load() {
			b.Snooze()
		}
	}
	p := succ.parker
	succ.locked.Store(false)
	if p != nil {
		p.Unpark()
	}
	mcsNodes.Put(n)
}

// MCSLock is a queue lock where every waiter spins on its own node.
// The zero value is unlocked.
type MCSLock struct {
	q mcsQueue
}

// Acquire enqueues the caller and spins until its predecessor hands over.
func (l *MCSLock) Acquire() MCSToken {
	return l.q.acquire(false, mcsContended)
}

// TryAcquire takes the lock only if nobody holds or waits for it.
func (l *MCSLock) TryAcquire() (MCSToken, bool) {
	return l.q.tryAcquire()
}

// Release passes ownership to the successor or empties the queue.
func (l *MCSLock) Release(t MCSToken) {
	l.q.release(t)
}

// Do runs fn while holding the lock.
func (l *MCSLock) Do(fn func()) {
	t := l.Acquire()
	defer l.Release(t)
	fn()
}

// MCSParkLock is an MCS lock whose waiters block in the kernel after a
// short spin. Suited to long critical sections. The zero value is unlocked.
type MCSParkLock struct {
	q mcsQueue
}

// Acquire enqueues the caller and parks until its predecessor wakes it.
func (l *MCSParkLock) Acquire() MCSToken {
	return l.q.acquire(true, mcsParkContended)
}

// TryAcquire takes the lock only if nobody holds or waits for it.
func (l *MCSParkLock) TryAcquire() (MCSToken, bool) {
	return l.q.tryAcquire()
}

// Release passes ownership to the successor, waking it if parked.
func (l *MCSParkLock) Release(t MCSToken) {
	l.q.release(t)
}

// Do runs fn while holding the lock.
func (l *MCSParkLock) Do(fn func()) {
	t := l.Acquire()
	defer l.Release(t)
	fn()
}
