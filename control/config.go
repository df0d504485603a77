// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Tunables for epoch reclamation and busy-wait loops.

package control

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/momentics/hioload-sync/api"
)

// Config holds parameters immutable per collector.
type Config struct {
	BagCapacity   int          // Deferred entries per participant before a collection attempt
	CollectStride int          // Unpins of a participant between opportunistic collections
	BacklogWarn   int          // Bag length that triggers a stalled-reclamation warning
	SpinLimit     int          // Backoff exponent for CAS retries in lock-free structures on this collector
	Logger        *slog.Logger // Destination for diagnostics; nil means slog.Default()
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		BagCapacity:   64,
		CollectStride: 128,
		BacklogWarn:   1 << 16,
		SpinLimit:     6,
		Logger:        slog.Default(),
	}
}

// Validate reports the first out-of-range field.
func (c *Config) Validate() error {
	check := func(field string, v int) error {
		if v > 0 {
			return nil
		}
		return api.NewError(api.ErrCodeInvalidArgument, "control: value must be positive").
			WithContext("field", field).
			WithContext("value", v)
	}
	if err := check("BagCapacity", c.BagCapacity); err != nil {
		return err
	}
	if err := check("CollectStride", c.CollectStride); err != nil {
		return err
	}
	if err := check("BacklogWarn", c.BacklogWarn); err != nil {
		return err
	}
	if c.SpinLimit < 0 || c.SpinLimit > 16 {
		return api.NewError(api.ErrCodeInvalidArgument, "control: spin limit out of range [0,16]").
			WithContext("field", "SpinLimit").
			WithContext("value", c.SpinLimit)
	}
	return nil
}

// Log returns the configured logger or the process default.
func (c *Config) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// FromEnv overlays <prefix>_BAG_CAPACITY, <prefix>_COLLECT_STRIDE,
// <prefix>_BACKLOG_WARN and <prefix>_SPIN_LIMIT on top of base.
// Unset variables keep the base value.
func FromEnv(prefix string, base *Config) (*Config, error) {
	if base == nil {
		base = DefaultConfig()
	}
	cfg := *base
	fields := []struct {
		name string
		dst  *int
	}{
		{"BAG_CAPACITY", &cfg.BagCapacity},
		{"COLLECT_STRIDE", &cfg.CollectStride},
		{"BACKLOG_WARN", &cfg.BacklogWarn},
		{"SPIN_LIMIT", &cfg.SpinLimit},
	}
	for _, f := range fields {
		key := prefix + "_" + f.name
		raw, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, api.NewError(api.ErrCodeInvalidArgument, "control: malformed integer").
				WithContext("env", key).
				WithContext("value", raw)
		}
		*f.dst = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
