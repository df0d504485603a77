// File: lock/bench_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package lock

import (
	"sync"
	"testing"
)

func benchmarkLocker(b *testing.B, lk sync.Locker) {
	counter := 0
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			lk.Lock()
			counter++
			lk.Unlock()
		}
	})
	_ = counter
}

func BenchmarkMutex(b *testing.B)       { benchmarkLocker(b, &sync.Mutex{}) }
func BenchmarkTicketLock(b *testing.B)  { benchmarkLocker(b, NewLocker[Ticket](&TicketLock{})) }
func BenchmarkCLHLock(b *testing.B)     { benchmarkLocker(b, NewLocker[CLHToken](NewCLHLock())) }
func BenchmarkMCSLock(b *testing.B)     { benchmarkLocker(b, NewLocker[MCSToken](&MCSLock{})) }
func BenchmarkMCSParkLock(b *testing.B) { benchmarkLocker(b, NewLocker[MCSToken](&MCSParkLock{})) }
