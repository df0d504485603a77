// File: internal/concurrency/spin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Exponential backoff for spin-wait loops. Spinning is bounded by a limit
// after which the waiter yields its processor through runtime.Gosched, so a
// queue of spinners larger than GOMAXPROCS still lets the holder run.

package concurrency

import "runtime"

// DefaultSpinLimit is the backoff exponent used by zero-value Backoff.
const DefaultSpinLimit = 6

// Backoff tracks one waiter's spin step. Not safe for concurrent use.
type Backoff struct {
	step uint32
	ceil uint32 // limit+1; zero selects DefaultSpinLimit
}

// NewBackoff returns a Backoff yielding after 1<<limit busy iterations.
func NewBackoff(limit int) Backoff {
	if limit < 0 {
		limit = 0
	}
	return Backoff{ceil: uint32(limit) + 1}
}

func (b *Backoff) max() uint32 {
	if b.ceil == 0 {
		return DefaultSpinLimit
	}
	return b.ceil - 1
}

// Spin busy-waits for 1<<step iterations, growing step up to the limit.
// Use it after a failed CAS where the state is expected to change soon.
func (b *Backoff) Spin() {
	for i := uint32(0); i < 1<<min(b.step, b.max()); i++ {
		spinHint()
	}
	if b.step <= b.max() {
		b.step++
	}
}

// Snooze spins while under the limit and yields the processor afterwards.
// Use it while waiting on another goroutine to publish a flag.
func (b *Backoff) Snooze() {
	if b.step <= b.max() {
		for i := uint32(0); i < 1<<b.step; i++ {
			spinHint()
		}
		b.step++
		return
	}
	runtime.Gosched()
}

// Completed reports whether the backoff has moved to yielding.
func (b *Backoff) Completed() bool {
	return b.step > b.max()
}

// Reset returns the backoff to its first step.
func (b *Backoff) Reset() {
	b.step = 0
}

//go:noinline
func spinHint() {}
