//go:build !linux
// +build !linux

// File: internal/park/park_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Channel-backed parker for platforms without a futex.

package park

// Parker blocks a single waiter until Unpark.
type Parker struct {
	wake chan struct{}
}

// New returns an empty parker.
func New() *Parker {
	return &Parker{wake: make(chan struct{}, 1)}
}

// Park blocks until a token is available and consumes it.
func (p *Parker) Park() {
	<-p.wake
}

// Unpark makes a token available; a second token is dropped.
func (p *Parker) Unpark() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}
