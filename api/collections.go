// Package api
// Author: momentics <momentics@gmail.com>
//
// Contracts for the lock-free collections.

package api

// Stack is a LIFO container safe for concurrent use.
type Stack[T any] interface {
	// Push adds an item on top.
	Push(item T)
	// Pop removes the top item, returns false if empty.
	Pop() (T, bool)
	// IsEmpty reports a snapshot of emptiness.
	IsEmpty() bool
}

// Queue is an unbounded FIFO container safe for concurrent use.
type Queue[T any] interface {
	// Enqueue appends an item at the tail.
	Enqueue(item T)
	// Dequeue removes the oldest item, returns false if empty.
	Dequeue() (T, bool)
	// IsEmpty reports a snapshot of emptiness.
	IsEmpty() bool
}

// OrderedMap is a key-ordered set of unique keys with attached values.
type OrderedMap[K, V any] interface {
	// Insert stores value under key; false if the key is already present.
	Insert(key K, value V) bool
	// Delete removes key and returns its value; false if absent.
	Delete(key K) (V, bool)
	// Lookup returns the value stored under key; false if absent.
	Lookup(key K) (V, bool)
	// Range visits live entries in ascending key order until fn returns false.
	Range(fn func(key K, value V) bool)
}
