// File: lockfree/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package lockfree

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/hioload-sync/control"
	"github.com/momentics/hioload-sync/epoch"
)

// Option configures a structure at construction.
type Option func(*options)

type options struct {
	collector *epoch.Collector
	strategy  Strategy
}

// WithCollector reclaims nodes through c instead of epoch.Default().
func WithCollector(c *epoch.Collector) Option {
	return func(o *options) {
		o.collector = c
	}
}

// WithStrategy selects the find strategy of a List. Ignored by Stack and Queue.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

func buildOptions(opts []Option) options {
	o := options{strategy: EagerUnlink}
	for _, opt := range opts {
		opt(&o)
	}
	if o.collector == nil {
		o.collector = epoch.Default()
	}
	return o
}

// counters are the per-structure metric children, resolved once.
type counters struct {
	retries   prometheus.Counter
	retired   prometheus.Counter
	reclaimed prometheus.Counter
}

func newCounters(structure string) counters {
	return counters{
		retries:   control.CASRetries.WithLabelValues(structure),
		retired:   control.NodesRetired.WithLabelValues(structure),
		reclaimed: control.NodesReclaimed.WithLabelValues(structure),
	}
}
