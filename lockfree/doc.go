// File: lockfree/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package lockfree provides unbounded lock-free containers: a Treiber stack,
// a Michael-Scott FIFO queue and a key-ordered linked list with three
// traversal strategies.
//
// All mutations are single-word compare-and-swap retries. Removed nodes are
// retired to an epoch.Collector and recycled through a pool only after every
// goroutine that could still hold a reference has unpinned, so recycled nodes
// never surface as ABA. Each structure pins one guard per operation and
// repins on every retry.
//
// Close frees the remaining nodes and must not race with any other call.
package lockfree
