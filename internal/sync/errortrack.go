package sync

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// DefaultFailThreshold is how many consecutive failures put a unit
	// into cooldown.
	DefaultFailThreshold = 3

	// DefaultCooldown is how long a unit is suspended after the threshold
	// is reached.
	DefaultCooldown = 5 * time.Minute

	// DefaultPermanentThreshold is how many consecutive failures mark a
	// unit permanently failed, requiring an explicit Reset.
	DefaultPermanentThreshold = 10
)

// TrackerConfig tunes failure escalation. Zero values take the defaults.
type TrackerConfig struct {
	FailThreshold      int
	Cooldown           time.Duration
	PermanentThreshold int
}

func (c TrackerConfig) withDefaults() TrackerConfig {
	if c.FailThreshold <= 0 {
		c.FailThreshold = DefaultFailThreshold
	}
	if c.Cooldown <= 0 {
		c.Cooldown = DefaultCooldown
	}
	if c.PermanentThreshold <= 0 {
		c.PermanentThreshold = DefaultPermanentThreshold
	}
	return c
}

// ErrorTracker counts consecutive failures per logical unit and advises
// when to suspend that unit. A unit is whatever the caller keys by: the
// scheduler records whole passes under one key, the engine records
// individual item transfers under the item id, so one consistently failing
// object backs off while everything else keeps syncing.
//
// Three escalation tiers per unit: below the fail threshold it runs
// normally, above it the unit is suspended for a cooldown window, and above
// the permanent threshold it stays suspended until an explicit Reset.
// The tracker only advises; callers may ignore it for manual triggers.
type ErrorTracker struct {
	clock clockwork.Clock
	cfg   TrackerConfig

	mu    sync.Mutex
	units map[string]*unitState
}

type unitState struct {
	consecutive int
	lastFailure time.Time
}

// NewErrorTracker builds a tracker on the given clock.
func NewErrorTracker(clock clockwork.Clock, cfg TrackerConfig) *ErrorTracker {
	return &ErrorTracker{
		clock: clock,
		cfg:   cfg.withDefaults(),
		units: make(map[string]*unitState),
	}
}

// RecordFailure notes one failed attempt for the unit.
func (t *ErrorTracker) RecordFailure(unit string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.units[unit]
	if s == nil {
		s = &unitState{}
		t.units[unit] = s
	}
	s.consecutive++
	s.lastFailure = t.clock.Now()
}

// RecordSuccess clears the unit's consecutive-failure streak. A permanently
// failed unit stays failed; only Reset clears that state.
func (t *ErrorTracker) RecordSuccess(unit string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.units[unit]
	if s == nil || s.consecutive >= t.cfg.PermanentThreshold {
		return
	}
	delete(t.units, unit)
}

// ShouldSkip reports whether the unit's next attempt should be skipped.
func (t *ErrorTracker) ShouldSkip(unit string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.units[unit]
	if s == nil {
		return false
	}
	if s.consecutive >= t.cfg.PermanentThreshold {
		return true
	}
	if s.consecutive >= t.cfg.FailThreshold {
		return t.clock.Since(s.lastFailure) < t.cfg.Cooldown
	}
	return false
}

// Permanent reports whether the unit reached the permanent threshold.
func (t *ErrorTracker) Permanent(unit string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.units[unit]
	return s != nil && s.consecutive >= t.cfg.PermanentThreshold
}

// Failures returns the unit's current consecutive-failure count.
func (t *ErrorTracker) Failures(unit string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.units[unit]
	if s == nil {
		return 0
	}
	return s.consecutive
}

// Reset clears all failure state for the unit, including permanent
// failure. Intended for an explicit user action after fixing the cause.
func (t *ErrorTracker) Reset(unit string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.units, unit)
}
