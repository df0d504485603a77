// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collectors for contention and reclamation telemetry.
// Collectors are package-level; embedders opt in with RegisterMetrics.

package control

import "github.com/prometheus/client_golang/prometheus"

var (
	// CASRetries counts failed compare-and-swap attempts that forced a retry.
	CASRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hioload_sync_cas_retries_total",
		Help: "Total number of CAS retries per lock-free structure",
	}, []string{"structure"})
	// NodesRetired counts nodes handed to the epoch collector.
	NodesRetired = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hioload_sync_nodes_retired_total",
		Help: "Total number of nodes retired for deferred destruction",
	}, []string{"structure"})
	// NodesReclaimed counts nodes destroyed after their grace period or at teardown.
	NodesReclaimed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hioload_sync_nodes_reclaimed_total",
		Help: "Total number of nodes returned to their pool",
	}, []string{"structure"})
	// LockContended counts acquisitions that had to wait.
	LockContended = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hioload_sync_lock_contended_total",
		Help: "Total number of lock acquisitions that found the lock held",
	}, []string{"lock"})
	// EpochAdvances counts successful global epoch increments.
	EpochAdvances = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hioload_sync_epoch_advances_total",
		Help: "Total number of global epoch advances",
	})
	// DeferredPending reports deferred destructions not yet executed.
	DeferredPending = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hioload_sync_deferred_pending",
		Help: "Current number of deferred destructions awaiting a grace period",
	})
	// Participants reports registered epoch participant records.
	Participants = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hioload_sync_epoch_participants",
		Help: "Current number of epoch participant records",
	})
)

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// RegisterMetrics registers all hioload-sync collectors on reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		CASRetries,
		NodesRetired,
		NodesReclaimed,
		LockContended,
		EpochAdvances,
		DeferredPending,
		Participants,
	)
}
