// File: lock/lock_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package lock

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type lockCase struct {
	name string
	// build returns the lock as sync.Locker plus a snapshot of its queue end,
	// which changes every time a new waiter enqueues.
	build func() (sync.Locker, func() any)
}

func lockCases() []lockCase {
	return []lockCase{
		{"ticket", func() (sync.Locker, func() any) {
			l := &TicketLock{}
			return NewLocker[Ticket](l), func() any { return l.next.Load() }
		}},
		{"clh", func() (sync.Locker, func() any) {
			l := NewCLHLock()
			return NewLocker[CLHToken](l), func() any { return l.tail.Load() }
		}},
		{"clh_zero", func() (sync.Locker, func() any) {
			l := &CLHLock{}
			return NewLocker[CLHToken](l), func() any { return l.tail.Load() }
		}},
		{"mcs", func() (sync.Locker, func() any) {
			l := &MCSLock{}
			return NewLocker[MCSToken](l), func() any { return l.q.tail.Load() }
		}},
		{"mcs_park", func() (sync.Locker, func() any) {
			l := &MCSParkLock{}
			return NewLocker[MCSToken](l), func() any { return l.q.tail.Load() }
		}},
	}
}

func waitGroupTimeout(t *testing.T, wg *sync.WaitGroup, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatal("Timeout: possible deadlock or lost wake-up")
	}
}

func TestMutualExclusion(t *testing.T) {
	for _, tc := range lockCases() {
		t.Run(tc.name, func(t *testing.T) {
			for _, shape := range []struct{ goroutines, iters int }{{8, 100}, {16, 2000}} {
				lk, _ := tc.build()
				counter := 0
				var wg sync.WaitGroup
				for g := 0; g < shape.goroutines; g++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						for i := 0; i < shape.iters; i++ {
							lk.Lock()
							counter++
							lk.Unlock()
						}
					}()
				}
				waitGroupTimeout(t, &wg, 10*time.Second)
				if want := shape.goroutines * shape.iters; counter != want {
					t.Fatalf("counter = %d, want %d", counter, want)
				}
			}
		})
	}
}

func TestFIFOGrantOrder(t *testing.T) {
	const waiters = 8
	for _, tc := range lockCases() {
		t.Run(tc.name, func(t *testing.T) {
			lk, queued := tc.build()
			var order []int

			lk.Lock()
			var wg sync.WaitGroup
			for i := 0; i < waiters; i++ {
				before := queued()
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					lk.Lock()
					order = append(order, id)
					lk.Unlock()
				}(i)
				deadline := time.Now().Add(5 * time.Second)
				for queued() == before {
					if time.Now().After(deadline) {
						t.Fatalf("waiter %d never enqueued", i)
					}
					runtime.Gosched()
				}
			}
			lk.Unlock()
			waitGroupTimeout(t, &wg, 5*time.Second)

			if len(order) != waiters {
				t.Fatalf("granted %d waiters, want %d", len(order), waiters)
			}
			for i, id := range order {
				if id != i {
					t.Fatalf("grant order %v is not FIFO", order)
				}
			}
		})
	}
}

func TestTicketTryAcquire(t *testing.T) {
	var l TicketLock
	tk, ok := l.TryAcquire()
	if !ok {
		t.Fatal("TryAcquire on a free lock failed")
	}
	if _, ok := l.TryAcquire(); ok {
		t.Fatal("TryAcquire on a held lock succeeded")
	}
	l.Release(tk)
	tk, ok = l.TryAcquire()
	if !ok {
		t.Fatal("TryAcquire after Release failed")
	}
	l.Release(tk)
}

func TestMCSTryAcquire(t *testing.T) {
	var l MCSLock
	tk, ok := l.TryAcquire()
	if !ok {
		t.Fatal("TryAcquire on a free lock failed")
	}
	if _, ok := l.TryAcquire(); ok {
		t.Fatal("TryAcquire on a held lock succeeded")
	}
	l.Release(tk)
	if l.q.tail.Load() != nil {
		t.Fatal("tail not cleared after uncontended Release")
	}

	var p MCSParkLock
	tk, ok = p.TryAcquire()
	if !ok {
		t.Fatal("MCSParkLock.TryAcquire on a free lock failed")
	}
	p.Release(tk)
}

func TestDoReleasesOnPanic(t *testing.T) {
	var l TicketLock
	func() {
		defer func() { _ = recover() }()
		l.Do(func() { panic("boom") })
	}()
	tk, ok := l.TryAcquire()
	if !ok {
		t.Fatal("lock still held after panicking Do")
	}
	l.Release(tk)

	var m MCSLock
	n := 0
	m.Do(func() { n++ })
	if n != 1 {
		t.Fatalf("Do ran fn %d times, want 1", n)
	}
	if _, ok := m.TryAcquire(); !ok {
		t.Fatal("MCSLock held after Do")
	}
}

func TestContentionIsCounted(t *testing.T) {
	var l TicketLock
	before := testutil.ToFloat64(ticketContended)

	tk := l.Acquire()
	done := make(chan struct{})
	go func() {
		l.Do(func() {})
		close(done)
	}()
	deadline := time.Now().Add(5 * time.Second)
	for testutil.ToFloat64(ticketContended) == before {
		if time.Now().After(deadline) {
			t.Fatal("contended acquisition was not counted")
		}
		runtime.Gosched()
	}
	l.Release(tk)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for contended waiter")
	}
}

func TestCLHCloseRecyclesTail(t *testing.T) {
	l := NewCLHLock()
	l.Do(func() {})
	l.Close()
	if l.tail.Load() != nil {
		t.Fatal("tail still set after Close")
	}
	// Closed lock behaves like the zero value.
	l.Do(func() {})
}
