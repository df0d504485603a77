// File: epoch/guard.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package epoch

import "github.com/momentics/hioload-sync/control"

// Guard is a pinned critical section. While a guard is pinned, nothing
// retired after the pin point is destroyed. Not safe for concurrent use.
type Guard struct {
	c *Collector
	p *participant
}

func (g *Guard) pinned() *participant {
	if g.p == nil {
		panic("epoch: guard used after Unpin")
	}
	return g.p
}

// Repin republishes the current epoch, releasing the guard's hold on older
// garbage. Pointers loaded before Repin must not be dereferenced after it.
func (g *Guard) Repin() {
	p := g.pinned()
	p.state.Store(g.c.global.Load()<<1 | pinnedBit)
}

// Unpin ends the critical section. Calling it twice is a no-op.
func (g *Guard) Unpin() {
	p := g.p
	if p == nil {
		return
	}
	g.p = nil
	p.state.Store(0)
	p.unpins++
	if p.unpins >= g.c.cfg.CollectStride {
		p.unpins = 0
		g.c.collect(p)
	}
	p.owned.Store(false)
}

// Defer schedules fn to run after the grace period of the current epoch.
func (g *Guard) Defer(fn func()) {
	g.push(deferred{fn: fn})
}

// Retire schedules obj to be handed to dst after the grace period.
// obj must already be unreachable from the shared structure.
func (g *Guard) Retire(obj any, dst Reclaimer) {
	g.push(deferred{obj: obj, dst: dst})
}

func (g *Guard) push(d deferred) {
	p := g.pinned()
	d.epoch = g.c.global.Load()
	p.bag.Add(d)
	g.c.pending.Add(1)
	control.DeferredPending.Inc()
	if p.bag.Length()%g.c.cfg.BagCapacity == 0 {
		g.c.collect(p)
	}
}
