// File: lock/ticket.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package lock

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-sync/api"
	"github.com/momentics/hioload-sync/control"
	"github.com/momentics/hioload-sync/internal/concurrency"
)

var (
	_ api.TokenLocker[Ticket] = (*TicketLock)(nil)

	ticketContended = control.LockContended.WithLabelValues("ticket")
)

// Ticket is the ownership token of a TicketLock.
type Ticket uint32

// TicketLock grants the lock in ticket order. Counters wrap; only equality
// is ever compared. The zero value is unlocked.
type TicketLock struct {
	_       cpu.CacheLinePad
	next    atomic.Uint32
	_       cpu.CacheLinePad
	current atomic.Uint32
	_       cpu.CacheLinePad
}

// Acquire draws a ticket and waits until it is served.
func (l *TicketLock) Acquire() Ticket {
	t := l.next.Add(1) - 1
	if l.current.Load() == t {
		return Ticket(t)
	}
	ticketContended.Inc()
	var b concurrency.Backoff
	for l.current.Load() != t {
		b.Snooze()
	}
	return Ticket(t)
}

// TryAcquire takes the lock only if it is free and nobody is queued.
func (l *TicketLock) TryAcquire() (Ticket, bool) {
	c := l.current.Load()
	if l.next.CompareAndSwap(c, c+1) {
		return Ticket(c), true
	}
	return 0, false
}

// Release serves the next ticket.
func (l *TicketLock) Release(t Ticket) {
	l.current.Store(uint32(t) + 1)
}

// Do runs fn while holding the lock.
func (l *TicketLock) Do(fn func()) {
	t := l.Acquire()
	defer l.Release(t)
	fn()
}
