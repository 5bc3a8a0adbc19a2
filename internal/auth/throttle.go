// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/tablescout/tablescout/internal/logging"
	"github.com/tablescout/tablescout/internal/metrics"
)

// ThrottleConfig holds configuration for the login throttle.
type ThrottleConfig struct {
	// MaxFailures is the number of failures within Window before a block.
	MaxFailures int `json:"max_failures"`

	// Window is the trailing interval over which failures accumulate.
	Window time.Duration `json:"window"`

	// BlockDuration is how long an address stays blocked once it trips.
	BlockDuration time.Duration `json:"block_duration"`

	// SweepInterval is how often expired records are removed.
	SweepInterval time.Duration `json:"sweep_interval"`
}

// DefaultThrottleConfig returns the production defaults: 8 failures in a
// trailing 15-minute window earn a 15-minute block.
func DefaultThrottleConfig() ThrottleConfig {
	return ThrottleConfig{
		MaxFailures:   8,
		Window:        15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		SweepInterval: 5 * time.Minute,
	}
}

// Throttle rate-limits login attempts keyed by client address. Implementations
// must be safe for concurrent use.
//
// The in-memory implementation is per-instance; a multi-instance deployment
// that needs globally consistent blocking can swap in a shared-store
// implementation behind this interface.
type Throttle interface {
	// Check reports whether key is currently blocked and, if so, for how
	// much longer. It never mutates state, so repeated attempts against a
	// blocked key do not extend the block.
	Check(key string) (blocked bool, remaining time.Duration)

	// RecordFailure counts one failed attempt for key, starting a fresh
	// window if the previous one has elapsed. It returns true if the
	// failure tripped the block threshold.
	RecordFailure(key string) bool

	// Clear drops all throttle state for key.
	Clear(key string)
}

// throttleRecord tracks failures for one address.
type throttleRecord struct {
	failures     int
	windowStart  time.Time
	blockedUntil time.Time
}

// MemoryThrottle is the in-memory Throttle implementation. State is
// process-local and resets on restart.
type MemoryThrottle struct {
	config  ThrottleConfig
	mu      sync.Mutex
	records map[string]*throttleRecord

	// now is swapped in tests to control time.
	now func() time.Time
}

// NewMemoryThrottle creates an in-memory throttle with the given config.
// Zero-valued fields fall back to defaults.
func NewMemoryThrottle(config ThrottleConfig) *MemoryThrottle {
	defaults := DefaultThrottleConfig()
	if config.MaxFailures <= 0 {
		config.MaxFailures = defaults.MaxFailures
	}
	if config.Window <= 0 {
		config.Window = defaults.Window
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = defaults.BlockDuration
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = defaults.SweepInterval
	}

	return &MemoryThrottle{
		config:  config,
		records: make(map[string]*throttleRecord),
		now:     time.Now,
	}
}

// Check reports whether key is currently blocked.
func (t *MemoryThrottle) Check(key string) (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, ok := t.records[key]
	if !ok {
		return false, 0
	}

	now := t.now()
	if now.Before(record.blockedUntil) {
		return true, record.blockedUntil.Sub(now)
	}

	return false, 0
}

// RecordFailure counts one failure for key and returns true when the
// threshold is reached and a block is set.
func (t *MemoryThrottle) RecordFailure(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()

	record, ok := t.records[key]
	if !ok || now.Sub(record.windowStart) >= t.config.Window {
		record = &throttleRecord{windowStart: now}
		t.records[key] = record
	}

	record.failures++
	if record.failures < t.config.MaxFailures {
		return false
	}

	record.blockedUntil = now.Add(t.config.BlockDuration)
	metrics.RecordThrottleBlock()
	logging.Warn().
		Str("address", key).
		Int("failures", record.failures).
		Dur("block_duration", t.config.BlockDuration).
		Msg("Login throttle tripped")

	return true
}

// Clear drops the record for key.
func (t *MemoryThrottle) Clear(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, key)
}

// sweep removes records whose window and block have both elapsed.
func (t *MemoryThrottle) sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	removed := 0
	for key, record := range t.records {
		expired := now.Sub(record.windowStart) >= t.config.Window &&
			!now.Before(record.blockedUntil)
		if expired {
			delete(t.records, key)
			removed++
		}
	}

	return removed
}

// StartSweep runs a background loop removing expired records until ctx is
// canceled.
func (t *MemoryThrottle) StartSweep(ctx context.Context) {
	ticker := time.NewTicker(t.config.SweepInterval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := t.sweep(); removed > 0 {
					logging.Debug().Int("removed", removed).Msg("Swept expired throttle records")
				}
			}
		}
	}()
}
