// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jonboulle/clockwork"

	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/checksum"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/logger"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/store"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/models"
)

// EngineConfig carries the per-device identity and sync-mode selection the
// engine applies to every pass.
type EngineConfig struct {
	DeviceID string
	Mode     models.SyncModeConfig
	Notifier Notifier

	// Tracker, when set, suspends transfer of items that keep failing so
	// the rest of the pass continues unimpeded. Suspended items are retried
	// once their cooldown expires.
	Tracker *ErrorTracker
}

// Engine orchestrates one full bidirectional sync pass: analyze local
// changes, fetch the remote index, merge both sides deterministically and
// upload a full replacement snapshot when anything changed.
//
// Exactly one pass runs at a time. A trigger arriving mid-pass is dropped
// with [ErrSyncInProgress], never queued.
type Engine struct {
	store    store.LocalStore
	index    IndexManager
	payloads PayloadTransfer
	clock    clockwork.Clock
	log      *logger.Logger
	cfg      EngineConfig

	isSyncing atomic.Bool
	state     atomic.Value

	mu sync.Mutex
	// lastResult holds the outcome of the most recent pass, failed or not.
	lastResult *models.SyncResult
	// snapshot is the last successfully synced local state, keyed by item id.
	// The local diff of the next pass is computed against it.
	snapshot map[string]models.SyncItem
	// observedDeleted holds tombstone ids this device saw on a completed
	// pass. A tombstone is pruned from the index once its deletion was
	// observed on a previous pass, not the one that introduced it.
	observedDeleted map[string]bool
}

// NewEngine wires a sync engine over the given collaborators. A nil
// cfg.Notifier is replaced with a no-op.
func NewEngine(st store.LocalStore, index IndexManager, payloads PayloadTransfer, clock clockwork.Clock, log *logger.Logger, cfg EngineConfig) *Engine {
	if cfg.Notifier == nil {
		cfg.Notifier = nopNotifier{}
	}
	e := &Engine{
		store:           st,
		index:           index,
		payloads:        payloads,
		clock:           clock,
		log:             log,
		cfg:             cfg,
		snapshot:        make(map[string]models.SyncItem),
		observedDeleted: make(map[string]bool),
	}
	e.state.Store(models.StateIdle)
	return e
}

// State reports the engine's current position in a pass.
func (e *Engine) State() models.SyncState {
	return e.state.Load().(models.SyncState)
}

// Sync runs one full pass and returns its result.
//
// Per-item failures are collected in the result and never abort the pass.
// Index-level failures (fetch or upload of the manifest itself) abort with
// a StateFailed result and a non-nil error. The snapshot advances only on a
// completed pass, so a failed pass is retried in full next time.
func (e *Engine) Sync(ctx context.Context) (models.SyncResult, error) {
	if !e.isSyncing.CompareAndSwap(false, true) {
		return models.SyncResult{State: e.State()}, ErrSyncInProgress
	}
	defer e.isSyncing.Store(false)

	started := e.clock.Now()
	e.cfg.Notifier.SyncStarted()
	e.log.Info().Str("device_id", e.cfg.DeviceID).Msg("sync pass started")

	result, err := e.runPass(ctx)
	result.Duration = e.clock.Since(started)
	result.Timestamp = started

	if err != nil {
		result.State = models.StateFailed
		e.setState(models.StateFailed)
		e.log.Error().Err(err).Dur("duration", result.Duration).Msg("sync pass failed")
	} else {
		result.State = models.StateIdle
		e.setState(models.StateIdle)
		e.log.Info().
			Int("uploaded", result.Uploaded).
			Int("downloaded", result.Downloaded).
			Int("conflicts", len(result.Conflicts)).
			Int("item_errors", len(result.Errors)).
			Dur("duration", result.Duration).
			Msg("sync pass finished")
	}

	e.mu.Lock()
	e.lastResult = &result
	e.mu.Unlock()

	e.cfg.Notifier.SyncFinished(result)
	return result, err
}

// LastResult returns the outcome of the most recent pass, or nil if no pass
// has finished yet.
func (e *Engine) LastResult() *models.SyncResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastResult
}

func (e *Engine) runPass(ctx context.Context) (models.SyncResult, error) {
	var result models.SyncResult

	e.mu.Lock()
	prevSnapshot := e.snapshot
	prevObserved := e.observedDeleted
	e.mu.Unlock()

	// Phase 1: local diff against the last synced snapshot.
	e.setState(models.StateAnalyzingLocal)

	localItems, err := e.store.GetAllItems(ctx)
	if err != nil {
		return result, fmt.Errorf("load local items: %w", err)
	}
	syncOpts := models.SyncOptions{SyncFavoriteChanges: true}
	local := make(map[string]models.SyncItem, len(localItems))
	for _, item := range localItems {
		if !IsSyncable(item, e.cfg.Mode, syncOpts) {
			continue
		}
		local[item.ID] = item
	}
	changes := diffSnapshot(prevSnapshot, local)

	// Phase 2: remote index. nil means a first-time or unreadable remote,
	// both handled as an empty item set.
	e.setState(models.StateFetchingRemote)

	remoteIndex, err := e.index.DownloadIndex(ctx)
	if err != nil {
		return result, err
	}
	remote := make(map[string]models.SyncItem)
	remoteChecksum := ""
	if remoteIndex != nil {
		remoteChecksum = remoteIndex.DataChecksum
		for _, item := range remoteIndex.Items {
			remote[item.ID] = item
		}
	}

	// Phase 3: apply remote state to the local store. Conflicts resolve by
	// newest LastModified; ties keep local.
	e.setState(models.StateMerging)

	locallyDeleted := make(map[string]bool, len(changes.Deleted))
	for _, id := range changes.Deleted {
		locallyDeleted[id] = true
	}

	newlyObserved := make(map[string]bool)
	for id, rem := range remote {
		loc, exists := local[id]

		if !exists && locallyDeleted[id] && !rem.Deleted {
			// The item was deleted here since the last pass. Unless the
			// remote copy was revised after that pass, the deletion wins and
			// the remote copy must not be resurrected locally.
			if snap, had := prevSnapshot[id]; had && !rem.NewerThan(snap) {
				continue
			}
		}

		if rem.Deleted {
			newlyObserved[id] = true
			if !exists || loc.NewerThan(rem) {
				continue
			}
			if err = e.store.DeleteItem(ctx, id); err != nil {
				result.Errors = append(result.Errors, itemError(id, "delete_local", err))
				continue
			}
			delete(local, id)
			result.Downloaded++
			result.Conflicts = append(result.Conflicts, models.ConflictRecord{
				ItemID:     id,
				Resolution: models.ResolutionLocalDeleted,
			})
			continue
		}

		if !IsSyncable(rem, e.cfg.Mode, syncOpts) {
			// Mode-excluded remote items stay in the cloud index for other
			// devices but are never materialized locally.
			continue
		}

		if exists && (loc.Checksum == rem.Checksum || !rem.NewerThan(loc)) {
			if loc.Checksum != rem.Checksum {
				result.Conflicts = append(result.Conflicts, models.ConflictRecord{
					ItemID:     id,
					Resolution: models.ResolutionLocalKept,
				})
			}
			continue
		}

		if e.itemSuspended(id) {
			continue
		}
		applied, dlErr := e.payloads.DownloadPayload(ctx, rem)
		e.recordItemOutcome(id, dlErr)
		if dlErr != nil {
			result.Errors = append(result.Errors, itemError(id, "download", dlErr))
			continue
		}
		if err = e.store.UpsertItem(ctx, applied); err != nil {
			result.Errors = append(result.Errors, itemError(id, "store", err))
			continue
		}
		local[id] = applied
		result.Downloaded++
		if exists {
			result.Conflicts = append(result.Conflicts, models.ConflictRecord{
				ItemID:     id,
				Resolution: models.ResolutionRemoteTaken,
			})
		}
	}

	// Phase 4: build and upload the replacement index. Start from the remote
	// set, prune tombstones observed on a previous pass, then overlay local
	// revisions that win.
	e.setState(models.StateUploading)

	final := make(map[string]models.SyncItem, len(remote)+len(local))
	for id, rem := range remote {
		if rem.Deleted && prevObserved[id] {
			continue
		}
		final[id] = rem
	}

	for id, loc := range local {
		rem, inRemote := final[id]
		if inRemote && loc.Checksum == rem.Checksum {
			continue
		}
		if inRemote && rem.NewerThan(loc) {
			continue
		}

		if over, limit := e.overFileLimit(loc); over {
			result.Errors = append(result.Errors, models.SyncError{
				ItemID:  id,
				Op:      "upload",
				Message: fmt.Sprintf("payload exceeds configured limit of %d bytes", limit),
			})
			delete(local, id)
			continue
		}

		if e.itemSuspended(id) {
			delete(local, id)
			continue
		}
		uploaded, upErr := e.payloads.UploadPayload(ctx, loc)
		e.recordItemOutcome(id, upErr)
		if upErr != nil {
			result.Errors = append(result.Errors, itemError(id, "upload", upErr))
			delete(local, id)
			continue
		}
		final[id] = uploaded
		local[id] = uploaded
		result.Uploaded++
	}

	now := e.clock.Now().UnixMilli()
	for _, id := range changes.Deleted {
		rem, ok := final[id]
		if !ok || rem.Deleted {
			continue
		}
		if snap, had := prevSnapshot[id]; had && rem.NewerThan(snap) {
			// Remote revised the item after our last sync; the deletion loses.
			continue
		}
		tomb := rem
		tomb.Deleted = true
		tomb.LastModified = now
		tomb.DeviceID = e.cfg.DeviceID
		final[id] = tomb
		newlyObserved[id] = true
		result.Uploaded++
	}

	finalItems := make([]models.SyncItem, 0, len(final))
	for _, item := range final {
		finalItems = append(finalItems, item)
	}

	if checksum.Index(finalItems) != remoteChecksum {
		if err = e.index.UploadIndex(ctx, finalItems); err != nil {
			return result, err
		}
	}

	// The snapshot advances to the post-merge local state so an immediately
	// following pass finds nothing to do.
	e.mu.Lock()
	e.snapshot = local
	observed := make(map[string]bool, len(prevObserved)+len(newlyObserved))
	for id := range prevObserved {
		if item, ok := final[id]; ok && item.Deleted {
			observed[id] = true
		}
	}
	for id := range newlyObserved {
		if item, ok := final[id]; ok && item.Deleted {
			observed[id] = true
		}
	}
	e.observedDeleted = observed
	e.mu.Unlock()

	return result, nil
}

// itemSuspended reports whether the tracker has this item in backoff.
func (e *Engine) itemSuspended(id string) bool {
	return e.cfg.Tracker != nil && e.cfg.Tracker.ShouldSkip(id)
}

func (e *Engine) recordItemOutcome(id string, err error) {
	if e.cfg.Tracker == nil {
		return
	}
	if err != nil {
		e.cfg.Tracker.RecordFailure(id)
		return
	}
	e.cfg.Tracker.RecordSuccess(id)
}

func (e *Engine) setState(state models.SyncState) {
	e.state.Store(state)
	e.cfg.Notifier.SyncStateChanged(state)
}

// overFileLimit reports whether a binary item exceeds its configured
// per-type size limit. Zero limits mean unconfigured.
func (e *Engine) overFileLimit(item models.SyncItem) (bool, int64) {
	var limit int64
	switch item.Type {
	case models.TypeImage:
		limit = e.cfg.Mode.FileLimits.MaxImageSize
	case models.TypeFiles:
		limit = e.cfg.Mode.FileLimits.MaxFileSize
	default:
		return false, 0
	}
	if limit > 0 && item.Size > limit {
		return true, limit
	}
	return false, 0
}

// diffSnapshot classifies the current local state against the last synced
// snapshot. Comparison is by the content checksum, so touched-but-unchanged
// items never register as modified.
func diffSnapshot(snapshot, local map[string]models.SyncItem) models.ChangeSet {
	var changes models.ChangeSet
	for id, item := range local {
		snap, ok := snapshot[id]
		if !ok {
			changes.Added = append(changes.Added, item)
			continue
		}
		if item.Checksum != snap.Checksum {
			changes.Modified = append(changes.Modified, item)
		}
	}
	for id := range snapshot {
		if _, ok := local[id]; !ok {
			changes.Deleted = append(changes.Deleted, id)
		}
	}
	return changes
}

func itemError(id, op string, err error) models.SyncError {
	msg := err.Error()
	if errors.Is(err, context.Canceled) {
		msg = "canceled"
	}
	return models.SyncError{ItemID: id, Op: op, Message: msg}
}

type nopNotifier struct{}

func (nopNotifier) SyncStarted()                      {}
func (nopNotifier) SyncStateChanged(models.SyncState) {}
func (nopNotifier) SyncFinished(models.SyncResult)    {}
