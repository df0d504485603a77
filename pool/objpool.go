// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package pool

import "sync"

// ObjectPool is a generic object pool.
type ObjectPool[T any] interface {
	Get() T
	Put(T)
}

var _ ObjectPool[*int] = (*SyncPool[*int])(nil)

// SyncPool wraps sync.Pool for generic usage.
// An optional reset hook runs on every Put, before the object becomes
// visible to the next Get.
type SyncPool[T any] struct {
	pool  *sync.Pool
	reset func(T)
}

// NewSyncPool creates a new SyncPool with a creator function.
func NewSyncPool[T any](creator func() T) *SyncPool[T] {
	return NewResettingPool(creator, nil)
}

// NewResettingPool creates a SyncPool that passes released objects through reset.
func NewResettingPool[T any](creator func() T, reset func(T)) *SyncPool[T] {
	return &SyncPool[T]{
		pool:  &sync.Pool{New: func() any { return creator() }},
		reset: reset,
	}
}

func (sp *SyncPool[T]) Get() T {
	return sp.pool.Get().(T)
}

func (sp *SyncPool[T]) Put(obj T) {
	if sp.reset != nil {
		sp.reset(obj)
	}
	sp.pool.Put(obj)
}

// PutAny lets a SyncPool act as a type-erased reclamation target.
func (sp *SyncPool[T]) PutAny(v any) {
	obj, ok := v.(T)
	if !ok {
		panic("pool.SyncPool: PutAny received wrong type")
	}
	sp.Put(obj)
}
