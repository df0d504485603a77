// File: lockfree/node.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Node lifecycle tracking. A node moves live -> retired -> free; any other
// transition is a double retire or double free and panics.

package lockfree

import "sync/atomic"

const (
	nodeLive uint32 = iota
	nodeRetired
	nodeFree
)

type lifecycle struct {
	state atomic.Uint32
}

// revive marks a node fresh from the pool as live.
func (l *lifecycle) revive() {
	l.state.Store(nodeLive)
}

func (l *lifecycle) retire() {
	if !l.state.CompareAndSwap(nodeLive, nodeRetired) {
		panic("lockfree: node retired twice")
	}
}

// release is called from the pool reset hook.
func (l *lifecycle) release() {
	if !l.state.CompareAndSwap(nodeRetired, nodeFree) {
		panic("lockfree: node freed without being retired")
	}
}
