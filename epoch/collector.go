// File: epoch/collector.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Global epoch, participant registry and grace-period collection.

package epoch

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-sync/api"
	"github.com/momentics/hioload-sync/control"
)

// pinnedBit marks a participant state word as pinned; the epoch sits above it.
const pinnedBit = 1

// Reclaimer receives objects whose grace period has elapsed.
// It is intentionally type-erased; pool.SyncPool implements it.
type Reclaimer interface {
	PutAny(obj any)
}

// deferred is one bag entry: either a closure or an object for a Reclaimer.
type deferred struct {
	epoch uint64
	fn    func()
	obj   any
	dst   Reclaimer
}

func (d deferred) run() {
	if d.fn != nil {
		d.fn()
		return
	}
	d.dst.PutAny(d.obj)
}

// participant is a reusable pin slot. Records are never unlinked from the
// registry; the bag and counters belong to whoever holds owned.
type participant struct {
	state  atomic.Uint64
	owned  atomic.Bool
	bag    *queue.Queue
	unpins int
	warnAt int
	next   *participant
	_      cpu.CacheLinePad
}

// Collector owns a global epoch and the participants pinned against it.
type Collector struct {
	global  atomic.Uint64
	_       cpu.CacheLinePad
	head    atomic.Pointer[participant]
	count   atomic.Int64
	pending atomic.Int64
	cfg     control.Config
	log     *slog.Logger
}

var (
	defaultOnce      sync.Once
	defaultCollector *Collector
)

// Default returns the process-wide collector built from control.DefaultConfig.
func Default() *Collector {
	defaultOnce.Do(func() {
		c, err := NewCollector(nil)
		if err != nil {
			panic(err)
		}
		defaultCollector = c
	})
	return defaultCollector
}

// Pin pins a guard on the process-wide collector.
func Pin() *Guard {
	return Default().Pin()
}

// NewCollector creates an isolated collector. A nil cfg selects defaults.
func NewCollector(cfg *control.Config) (*Collector, error) {
	if cfg == nil {
		cfg = control.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Collector{cfg: *cfg, log: cfg.Log()}, nil
}

// Pin claims a participant record and publishes the current epoch in it.
func (c *Collector) Pin() *Guard {
	p := c.claim()
	p.state.Store(c.global.Load()<<1 | pinnedBit)
	return &Guard{c: c, p: p}
}

// claim takes an idle record or appends a fresh one to the registry.
func (c *Collector) claim() *participant {
	for p := c.head.Load(); p != nil; p = p.next {
		if !p.owned.Load() && p.owned.CompareAndSwap(false, true) {
			return p
		}
	}
	p := &participant{bag: queue.New(), warnAt: c.cfg.BacklogWarn}
	p.owned.Store(true)
	for {
		h := c.head.Load()
		p.next = h
		if c.head.CompareAndSwap(h, p) {
			break
		}
	}
	c.count.Add(1)
	control.Participants.Inc()
	return p
}

// tryAdvance moves the global epoch forward when every pinned participant
// has observed the current one. The epoch must be read before the registry
// head: a record appended after that read pins no earlier than it.
func (c *Collector) tryAdvance() bool {
	e := c.global.Load()
	for p := c.head.Load(); p != nil; p = p.next {
		s := p.state.Load()
		if s&pinnedBit != 0 && s>>1 != e {
			return false
		}
	}
	if c.global.CompareAndSwap(e, e+1) {
		control.EpochAdvances.Inc()
		return true
	}
	return false
}

// collect runs the expired prefix of p's bag. Caller must own p.
func (c *Collector) collect(p *participant) {
	c.tryAdvance()
	e := c.global.Load()
	n := 0
	for p.bag.Length() > 0 {
		d := p.bag.Peek().(deferred)
		if d.epoch+2 > e {
			break
		}
		p.bag.Remove()
		d.run()
		n++
	}
	c.settle(n)
	c.checkBacklog(p, e)
}

func (c *Collector) settle(n int) {
	if n == 0 {
		return
	}
	c.pending.Add(int64(-n))
	control.DeferredPending.Sub(float64(n))
}

// checkBacklog warns once per doubling of a bag that cannot drain.
func (c *Collector) checkBacklog(p *participant, e uint64) {
	l := p.bag.Length()
	switch {
	case l >= p.warnAt:
		c.log.Warn("epoch: reclamation backlog growing, a pinned participant is stalling the epoch",
			"pending", l, "epoch", e, "participants", c.count.Load())
		p.warnAt = l * 2
	case l < c.cfg.BacklogWarn:
		p.warnAt = c.cfg.BacklogWarn
	}
}

// Collect advances the epoch if possible and drains expired entries from
// every idle participant.
func (c *Collector) Collect() {
	for p := c.head.Load(); p != nil; p = p.next {
		if p.owned.Load() || !p.owned.CompareAndSwap(false, true) {
			continue
		}
		c.collect(p)
		p.owned.Store(false)
	}
}

// Flush pushes the epoch forward by up to two steps and collects, so garbage
// retired before the call is destroyed unless a guard is still pinned.
func (c *Collector) Flush() {
	c.tryAdvance()
	c.tryAdvance()
	c.Collect()
}

// Drain destroys every deferred entry of idle participants regardless of
// epoch. Teardown only: no guard may be pinned concurrently.
func (c *Collector) Drain() {
	total := 0
	for p := c.head.Load(); p != nil; p = p.next {
		if p.owned.Load() || !p.owned.CompareAndSwap(false, true) {
			continue
		}
		n := 0
		for p.bag.Length() > 0 {
			p.bag.Remove().(deferred).run()
			n++
		}
		c.settle(n)
		total += n
		p.owned.Store(false)
	}
	if total > 0 {
		c.log.Debug("epoch: drained deferred destructions", "count", total)
	}
}

// Epoch returns the current global epoch.
func (c *Collector) Epoch() uint64 {
	return c.global.Load()
}

// Pending returns the number of deferred entries not yet executed.
func (c *Collector) Pending() int64 {
	return c.pending.Load()
}

// Participants returns the number of registered participant records.
func (c *Collector) Participants() int64 {
	return c.count.Load()
}

// SpinLimit returns the backoff exponent for structures reclaiming through c.
func (c *Collector) SpinLimit() int {
	return c.cfg.SpinLimit
}

// RegisterProbes exposes collector state through a debug registry.
func (c *Collector) RegisterProbes(dbg api.Debug) {
	dbg.RegisterProbe("epoch.global", func() any { return c.Epoch() })
	dbg.RegisterProbe("epoch.participants", func() any { return c.Participants() })
	dbg.RegisterProbe("epoch.pending", func() any { return c.Pending() })
}
