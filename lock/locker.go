// File: lock/locker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package lock

import (
	"sync"

	"github.com/momentics/hioload-sync/api"
)

var _ sync.Locker = (*Locker[Ticket])(nil)

// Locker adapts a token lock to sync.Locker by keeping the token of the
// current holder. Only the holder reads or writes it.
type Locker[T any] struct {
	l     api.TokenLocker[T]
	token T
}

// NewLocker wraps l.
func NewLocker[T any](l api.TokenLocker[T]) *Locker[T] {
	return &Locker[T]{l: l}
}

func (a *Locker[T]) Lock() {
	a.token = a.l.Acquire()
}

func (a *Locker[T]) Unlock() {
	t := a.token
	var zero T
	a.token = zero
	a.l.Release(t)
}
