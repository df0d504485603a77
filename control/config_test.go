package control

import (
	"errors"
	"testing"

	"github.com/momentics/hioload-sync/api"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
	if cfg.Log() == nil {
		t.Fatal("expected a logger")
	}
}

func TestValidateRejectsNonPositive(t *testing.T) {
	cases := map[string]func(*Config){
		"BagCapacity":   func(c *Config) { c.BagCapacity = 0 },
		"CollectStride": func(c *Config) { c.CollectStride = -1 },
		"BacklogWarn":   func(c *Config) { c.BacklogWarn = 0 },
		"SpinLimit":     func(c *Config) { c.SpinLimit = 17 },
	}
	for field, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		err := cfg.Validate()
		if !errors.Is(err, api.ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", field, err)
		}
		var apiErr *api.Error
		if !errors.As(err, &apiErr) || apiErr.Context["field"] != field {
			t.Errorf("%s: expected field in context, got %v", field, err)
		}
	}
}

func TestNilLoggerFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logger = nil
	if cfg.Log() == nil {
		t.Fatal("expected slog.Default fallback")
	}
}

func TestFromEnvOverlay(t *testing.T) {
	t.Setenv("HSYNC_BAG_CAPACITY", "8")
	t.Setenv("HSYNC_SPIN_LIMIT", "2")
	cfg, err := FromEnv("HSYNC", nil)
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.BagCapacity != 8 || cfg.SpinLimit != 2 {
		t.Errorf("overlay not applied: %+v", cfg)
	}
	if cfg.CollectStride != DefaultConfig().CollectStride {
		t.Errorf("unset variable changed CollectStride to %d", cfg.CollectStride)
	}
}

func TestFromEnvRejectsGarbage(t *testing.T) {
	t.Setenv("HSYNC_COLLECT_STRIDE", "lots")
	if _, err := FromEnv("HSYNC", nil); !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	t.Setenv("HSYNC_COLLECT_STRIDE", "0")
	if _, err := FromEnv("HSYNC", nil); err == nil {
		t.Fatal("expected validation failure for zero stride")
	}
}
