// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"
	"errors"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/logger"
	syncengine "github.com/Ruszero01/EcoPaste-Sync-sub000/internal/sync"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/models"
)

// SchedulerUnit is the error-tracker unit under which scheduled pass
// outcomes are recorded.
const SchedulerUnit = "scheduler"

// AutoSync triggers a sync pass on a fixed interval. The worker is idle
// until Start is called.
//
// Scheduled triggers are advisory: a pass already in flight drops the
// trigger, and the error tracker can veto a trigger while the endpoint is
// in cooldown or permanently failed. Failures of scheduled passes feed
// back into the tracker.
type autoSync struct {
	syncer   Syncer
	tracker  *syncengine.ErrorTracker
	clock    clockwork.Clock
	log      *logger.Logger
	interval models.SyncInterval

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewAutoSync creates the periodic scheduler. tracker may be nil, in which
// case every tick triggers a pass.
func NewAutoSync(syncer Syncer, tracker *syncengine.ErrorTracker, clock clockwork.Clock, log *logger.Logger, interval models.SyncInterval) Worker {
	return &autoSync{
		syncer:   syncer,
		tracker:  tracker,
		clock:    clock,
		log:      log,
		interval: interval,
	}
}

// Start launches the ticking goroutine. A second Start stops the previous
// run first, so changing the interval is a Stop-free restart.
func (a *autoSync) Start(ctx context.Context) {
	a.Stop()

	a.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.wg.Add(1)
	a.mu.Unlock()

	period := a.interval.Duration()
	a.log.Info().Dur("interval", period).Msg("auto sync scheduler started")

	go func() {
		defer a.wg.Done()
		ticker := a.clock.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-ticker.Chan():
				a.tick(jobCtx)
			}
		}
	}()
}

// Stop cancels the ticking goroutine and blocks until it has exited. Safe
// to call when the worker is not running.
func (a *autoSync) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	a.wg.Wait()
}

func (a *autoSync) tick(ctx context.Context) {
	if a.tracker != nil && a.tracker.ShouldSkip(SchedulerUnit) {
		a.log.Debug().
			Int("consecutive_failures", a.tracker.Failures(SchedulerUnit)).
			Msg("scheduled sync skipped, endpoint in backoff")
		return
	}

	result, err := a.syncer.Sync(ctx)
	switch {
	case errors.Is(err, syncengine.ErrSyncInProgress):
		// A manual pass is running; not a failure.
	case err != nil:
		if a.tracker != nil {
			a.tracker.RecordFailure(SchedulerUnit)
		}
	default:
		if a.tracker != nil {
			a.tracker.RecordSuccess(SchedulerUnit)
		}
		a.log.Debug().
			Int("uploaded", result.Uploaded).
			Int("downloaded", result.Downloaded).
			Msg("scheduled sync finished")
	}
}
