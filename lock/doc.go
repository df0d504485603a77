// File: lock/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package lock provides fair, FIFO mutual-exclusion locks.
//
// TicketLock hands out monotonically increasing tickets and grants them in
// order; every waiter polls the same counter. CLHLock and MCSLock queue
// waiters on per-acquisition nodes so each waiter spins on its own cache
// line. MCSParkLock is the MCS queue with waiters parked in the kernel
// instead of spinning, trading wake-up latency for idle CPU.
//
// Acquire returns an ownership token that must be passed, exactly once, to
// Release on the same lock. Locker adapts any of them to sync.Locker.
// None of the locks support timeouts, cancellation or reentrancy.
package lock
