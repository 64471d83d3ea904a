package sync

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func newTestTracker(cfg TrackerConfig) (*ErrorTracker, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	return NewErrorTracker(clock, cfg), clock
}

func TestErrorTracker_BelowThresholdNeverSkips(t *testing.T) {
	tr, _ := newTestTracker(TrackerConfig{})

	tr.RecordFailure("pass")
	tr.RecordFailure("pass")
	assert.False(t, tr.ShouldSkip("pass"))
	assert.Equal(t, 2, tr.Failures("pass"))
}

func TestErrorTracker_CooldownAfterThreshold(t *testing.T) {
	tr, clock := newTestTracker(TrackerConfig{FailThreshold: 3, Cooldown: time.Minute})

	for i := 0; i < 3; i++ {
		tr.RecordFailure("pass")
	}
	assert.True(t, tr.ShouldSkip("pass"))

	clock.Advance(30 * time.Second)
	assert.True(t, tr.ShouldSkip("pass"))

	clock.Advance(31 * time.Second)
	assert.False(t, tr.ShouldSkip("pass"))
}

func TestErrorTracker_SuccessClearsStreak(t *testing.T) {
	tr, _ := newTestTracker(TrackerConfig{FailThreshold: 3})

	tr.RecordFailure("pass")
	tr.RecordFailure("pass")
	tr.RecordSuccess("pass")
	tr.RecordFailure("pass")
	assert.False(t, tr.ShouldSkip("pass"))
	assert.Equal(t, 1, tr.Failures("pass"))
}

func TestErrorTracker_UnitsAreIndependent(t *testing.T) {
	tr, _ := newTestTracker(TrackerConfig{FailThreshold: 2, Cooldown: time.Minute})

	tr.RecordFailure("item-a")
	tr.RecordFailure("item-a")
	assert.True(t, tr.ShouldSkip("item-a"))

	// A failing unit never suspends its neighbors.
	assert.False(t, tr.ShouldSkip("item-b"))
	assert.Equal(t, 0, tr.Failures("item-b"))

	tr.RecordSuccess("item-b")
	assert.True(t, tr.ShouldSkip("item-a"))
}

func TestErrorTracker_PermanentRequiresReset(t *testing.T) {
	tr, clock := newTestTracker(TrackerConfig{FailThreshold: 2, Cooldown: time.Minute, PermanentThreshold: 5})

	for i := 0; i < 5; i++ {
		tr.RecordFailure("pass")
	}
	assert.True(t, tr.Permanent("pass"))

	// Neither time nor a stray success clears permanent failure.
	clock.Advance(time.Hour)
	assert.True(t, tr.ShouldSkip("pass"))
	tr.RecordSuccess("pass")
	assert.True(t, tr.ShouldSkip("pass"))

	tr.Reset("pass")
	assert.False(t, tr.Permanent("pass"))
	assert.False(t, tr.ShouldSkip("pass"))
	assert.Equal(t, 0, tr.Failures("pass"))
}
