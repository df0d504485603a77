package control

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetrics(t *testing.T) {
	reg := NewRegistry()
	RegisterMetrics(reg)
	CASRetries.WithLabelValues("stack").Inc()
	NodesRetired.WithLabelValues("stack").Inc()
	NodesReclaimed.WithLabelValues("stack").Inc()
	LockContended.WithLabelValues("mcs").Inc()
	EpochAdvances.Inc()
	DeferredPending.Set(3)
	Participants.Set(2)
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) < 7 {
		t.Fatalf("expected 7 metric families, got %d", len(mfs))
	}
	if v := testutil.ToFloat64(DeferredPending); v != 3 {
		t.Errorf("expected pending 3, got %v", v)
	}
}

func TestRegisterMetricsDuplicatePanics(t *testing.T) {
	reg := NewRegistry()
	RegisterMetrics(reg)
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	RegisterMetrics(reg)
}
