package concurrency

import "testing"

func TestBackoffCompletesAfterLimit(t *testing.T) {
	b := NewBackoff(3)
	for i := 0; i < 4; i++ {
		if b.Completed() {
			t.Fatalf("completed too early at step %d", i)
		}
		b.Snooze()
	}
	if !b.Completed() {
		t.Fatal("expected completion after limit")
	}
	b.Snooze() // yields, must not panic or grow
	b.Reset()
	if b.Completed() {
		t.Fatal("reset did not rewind")
	}
}

func TestBackoffZeroValueUsesDefault(t *testing.T) {
	var b Backoff
	for i := 0; i <= DefaultSpinLimit; i++ {
		b.Spin()
	}
	if !b.Completed() {
		t.Fatal("zero-value backoff should complete after default limit")
	}
	b.Spin() // capped
}

func TestNegativeLimitClamped(t *testing.T) {
	b := NewBackoff(-5)
	if b.max() != 0 {
		t.Errorf("expected limit 0, got %d", b.max())
	}
	b.Snooze()
	if !b.Completed() {
		t.Error("limit 0 should yield after a single spin")
	}
}
