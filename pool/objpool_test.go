package pool

import "testing"

type slot struct {
	value int
	dirty bool
}

func TestSyncPoolResetOnPut(t *testing.T) {
	resets := 0
	p := NewResettingPool(func() *slot { return &slot{} }, func(s *slot) {
		resets++
		s.value = 0
		s.dirty = false
	})
	s := p.Get()
	s.value, s.dirty = 7, true
	p.Put(s)
	if resets != 1 {
		t.Fatalf("expected 1 reset, got %d", resets)
	}
	if s.value != 0 || s.dirty {
		t.Errorf("object not reset: %+v", s)
	}
	if got := p.Get(); got == nil {
		t.Error("Get returned nil")
	}
}

func TestSyncPoolPutAny(t *testing.T) {
	p := NewSyncPool(func() *slot { return &slot{} })
	p.PutAny(&slot{value: 1})
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on wrong type")
		}
	}()
	p.PutAny("not a slot")
}
