// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/logger"
	syncengine "github.com/Ruszero01/EcoPaste-Sync-sub000/internal/sync"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/models"
)

type countingSyncer struct {
	calls atomic.Int64
	err   error
}

func (c *countingSyncer) Sync(context.Context) (models.SyncResult, error) {
	c.calls.Add(1)
	return models.SyncResult{State: models.StateIdle}, c.err
}

func waitForCalls(t *testing.T, c *countingSyncer, want int64) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.calls.Load() >= want
	}, time.Second, time.Millisecond)
}

func TestAutoSync_TriggersOnTicks(t *testing.T) {
	syncer := &countingSyncer{}
	clock := clockwork.NewFakeClock()
	w := NewAutoSync(syncer, nil, clock, logger.Nop(), models.SyncEvery1h)

	w.Start(context.Background())
	defer w.Stop()

	clock.BlockUntilContext(context.Background(), 1)
	clock.Advance(time.Hour)
	waitForCalls(t, syncer, 1)

	clock.BlockUntilContext(context.Background(), 1)
	clock.Advance(time.Hour)
	waitForCalls(t, syncer, 2)
}

func TestAutoSync_StopHaltsTicking(t *testing.T) {
	syncer := &countingSyncer{}
	clock := clockwork.NewFakeClock()
	w := NewAutoSync(syncer, nil, clock, logger.Nop(), models.SyncEvery1h)

	w.Start(context.Background())
	clock.BlockUntilContext(context.Background(), 1)
	w.Stop()

	clock.Advance(2 * time.Hour)
	assert.Equal(t, int64(0), syncer.calls.Load())
}

func TestAutoSync_StopWithoutStartIsNoop(t *testing.T) {
	w := NewAutoSync(&countingSyncer{}, nil, clockwork.NewFakeClock(), logger.Nop(), models.SyncEvery1h)
	w.Stop()
}

func TestAutoSync_TrackerVetoSkipsPass(t *testing.T) {
	syncer := &countingSyncer{}
	clock := clockwork.NewFakeClock()
	tracker := syncengine.NewErrorTracker(clock, syncengine.TrackerConfig{FailThreshold: 1, Cooldown: time.Hour * 24})
	tracker.RecordFailure(SchedulerUnit)

	w := NewAutoSync(syncer, tracker, clock, logger.Nop(), models.SyncEvery1h)
	w.Start(context.Background())
	defer w.Stop()

	clock.BlockUntilContext(context.Background(), 1)
	clock.Advance(time.Hour)

	// Give the goroutine a moment; the pass must not have run.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(0), syncer.calls.Load())
}

func TestAutoSync_FailuresFeedTracker(t *testing.T) {
	syncer := &countingSyncer{err: syncengine.ErrIndexUnavailable}
	clock := clockwork.NewFakeClock()
	tracker := syncengine.NewErrorTracker(clock, syncengine.TrackerConfig{FailThreshold: 3})

	w := NewAutoSync(syncer, tracker, clock, logger.Nop(), models.SyncEvery1h)
	w.Start(context.Background())
	defer w.Stop()

	clock.BlockUntilContext(context.Background(), 1)
	clock.Advance(time.Hour)
	waitForCalls(t, syncer, 1)

	require.Eventually(t, func() bool {
		return tracker.Failures(SchedulerUnit) == 1
	}, time.Second, time.Millisecond)
}

func TestWorkers_StartAndStopAll(t *testing.T) {
	var order []string
	a := &recordingWorker{name: "a", order: &order}
	b := &recordingWorker{name: "b", order: &order}

	ws := NewWorkers(a, b)
	ws.Start(context.Background())
	ws.Stop()

	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, order)
}

type recordingWorker struct {
	name  string
	order *[]string
}

func (w *recordingWorker) Start(context.Context) { *w.order = append(*w.order, "start "+w.name) }
func (w *recordingWorker) Stop()                 { *w.order = append(*w.order, "stop "+w.name) }
