// Package api
// Author: momentics@gmail.com
//
// Token-based mutual exclusion contract shared by the queue locks.

package api

// TokenLocker is a lock whose acquisition yields an ownership token.
// The token returned by Acquire must be handed, exactly once, to Release on
// the same lock. Reusing or forging tokens is undefined.
type TokenLocker[T any] interface {
	// Acquire blocks until the caller owns the lock.
	Acquire() T
	// Release hands the lock to the next waiter, if any.
	Release(token T)
}
