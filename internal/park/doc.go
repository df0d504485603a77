// File: internal/park/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package park provides a one-waiter parking primitive with token semantics:
// Unpark before Park makes the next Park return immediately, and at most one
// token is stored. Spurious returns are allowed, so callers re-check their
// condition in a loop.
//
// On Linux the waiter blocks its OS thread in a private futex; elsewhere it
// blocks on a one-slot channel.
package park
