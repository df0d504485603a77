//go:build linux
// +build linux

// File: internal/park/park_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Futex-backed parker.

package park

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	futexPrivateFlag = 128
	futexWaitPrivate = 0 | futexPrivateFlag
	futexWakePrivate = 1 | futexPrivateFlag
)

const (
	stateEmpty uint32 = iota
	stateNotified
	stateParked
)

// Parker blocks a single waiter until Unpark.
type Parker struct {
	state uint32
}

// New returns an empty parker.
func New() *Parker {
	return &Parker{}
}

// Park blocks until a token is available and consumes it.
func (p *Parker) Park() {
	if atomic.CompareAndSwapUint32(&p.state, stateNotified, stateEmpty) {
		return
	}
	if !atomic.CompareAndSwapUint32(&p.state, stateEmpty, stateParked) {
		// Only Unpark moves the state off empty.
		atomic.StoreUint32(&p.state, stateEmpty)
		return
	}
	for {
		futexWait(&p.state, stateParked)
		if atomic.CompareAndSwapUint32(&p.state, stateNotified, stateEmpty) {
			return
		}
	}
}

// Unpark makes a token available and wakes the waiter if it is blocked.
func (p *Parker) Unpark() {
	if atomic.SwapUint32(&p.state, stateNotified) == stateParked {
		futexWake(&p.state)
	}
}

// futexWait sleeps while *addr == val. EAGAIN and EINTR return early; the
// caller loops on its own state.
func futexWait(addr *uint32, val uint32) {
	_, _, _ = unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)), futexWaitPrivate, uintptr(val), 0, 0, 0)
}

func futexWake(addr *uint32) {
	_, _, _ = unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)), futexWakePrivate, 1, 0, 0, 0)
}
