// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/checksum"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/logger"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/transport"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/models"
)

const (
	// indexPath is the remote name of the cloud index.
	indexPath = "sync-data.json"

	// indexCacheTTL bounds how stale a cached index may be served.
	indexCacheTTL = 30 * time.Second
)

// CloudManager owns the remote index lifecycle: fetch with a short-lived
// cache, schema validation, full-snapshot upload and remote deletion.
// It implements [IndexManager].
type CloudManager struct {
	transport transport.FileTransport
	log       *logger.Logger
	clock     clockwork.Clock
	deviceID  string

	mu        sync.Mutex
	cached    *models.CloudSyncIndex
	fetchedAt time.Time
}

// NewCloudManager constructs an index manager writing on behalf of deviceID.
func NewCloudManager(tr transport.FileTransport, log *logger.Logger, clock clockwork.Clock, deviceID string) *CloudManager {
	return &CloudManager{
		transport: tr,
		log:       log,
		clock:     clock,
		deviceID:  deviceID,
	}
}

// DownloadIndex fetches the remote index, serving a cached copy for up to
// 30 seconds after the last fetch.
//
// A missing index, malformed JSON or an unknown schema tag all return
// (nil, nil): a first-time or corrupt remote is treated as empty, never as a
// failure that would abort bootstrap. Transport failures other than 404 are
// reported as [ErrIndexUnavailable].
func (m *CloudManager) DownloadIndex(ctx context.Context) (*models.CloudSyncIndex, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != nil && m.clock.Since(m.fetchedAt) < indexCacheTTL {
		return m.cached, nil
	}

	data, err := m.transport.GetFile(ctx, indexPath)
	if err != nil {
		if errors.Is(err, transport.ErrNotFound) {
			m.cached = nil
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	var index models.CloudSyncIndex
	if err = json.Unmarshal(data, &index); err != nil {
		m.log.Warn().Err(err).Msg("remote index is not valid JSON, treating as absent")
		m.cached = nil
		return nil, nil
	}
	if index.Format != models.IndexFormatUnified {
		m.log.Warn().Str("format", index.Format).Msg("remote index has unknown schema tag, treating as absent")
		m.cached = nil
		return nil, nil
	}

	m.cached = &index
	m.fetchedAt = m.clock.Now()
	return &index, nil
}

// UploadIndex replaces the remote index with a full snapshot of items and
// primes the cache with the uploaded copy.
func (m *CloudManager) UploadIndex(ctx context.Context, items []models.SyncItem) error {
	index := m.buildIndex(items)

	data, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err = m.transport.PutFile(ctx, indexPath, data); err != nil {
		return fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	m.mu.Lock()
	m.cached = index
	m.fetchedAt = m.clock.Now()
	m.mu.Unlock()

	m.log.Info().
		Int("items", index.TotalItems).
		Str("checksum", index.DataChecksum).
		Msg("cloud index uploaded")
	return nil
}

// InvalidateCache drops the cached index so the next read hits the server.
func (m *CloudManager) InvalidateCache() {
	m.mu.Lock()
	m.cached = nil
	m.mu.Unlock()
}

// FilterForSync returns the index items that pass the sync-mode filter.
// A nil index yields nil.
func (m *CloudManager) FilterForSync(index *models.CloudSyncIndex, cfg models.SyncModeConfig, opts models.SyncOptions) []models.SyncItem {
	if index == nil {
		return nil
	}
	out := make([]models.SyncItem, 0, len(index.Items))
	for _, item := range index.Items {
		if IsSyncable(item, cfg, opts) {
			out = append(out, item)
		}
	}
	return out
}

// ApplyChanges rebuilds the remote item set from current plus the given
// change set and uploads the result as one full snapshot. Added and
// modified items replace existing entries by id; deletions become
// tombstones attributed to this device. Statistics and the data checksum
// are recomputed on upload.
func (m *CloudManager) ApplyChanges(ctx context.Context, current *models.CloudSyncIndex, changes models.ChangeSet) error {
	merged := make(map[string]models.SyncItem)
	order := make([]string, 0)
	if current != nil {
		for _, item := range current.Items {
			merged[item.ID] = item
			order = append(order, item.ID)
		}
	}

	upsert := func(item models.SyncItem) {
		if _, ok := merged[item.ID]; !ok {
			order = append(order, item.ID)
		}
		merged[item.ID] = item
	}
	for _, item := range changes.Added {
		upsert(item)
	}
	for _, item := range changes.Modified {
		upsert(item)
	}

	now := m.clock.Now().UnixMilli()
	for _, id := range changes.Deleted {
		item, ok := merged[id]
		if !ok || item.Deleted {
			continue
		}
		item.Deleted = true
		item.LastModified = now
		item.DeviceID = m.deviceID
		merged[id] = item
	}

	items := make([]models.SyncItem, 0, len(order))
	for _, id := range order {
		items = append(items, merged[id])
	}
	return m.UploadIndex(ctx, items)
}

// DeleteItems marks the given ids as tombstones in the remote index and
// uploads the result. The returned map records the per-id outcome: true for
// ids found live and tombstoned, false for ids that were missing or already
// deleted. The index is replaced as one full snapshot, so a fetch or upload
// failure fails every id in the batch; no partial remote state is written.
func (m *CloudManager) DeleteItems(ctx context.Context, ids []string) (map[string]bool, error) {
	m.InvalidateCache()

	index, err := m.DownloadIndex(ctx)
	if err != nil {
		return nil, err
	}

	outcome := make(map[string]bool, len(ids))
	for _, id := range ids {
		outcome[id] = false
	}
	if index == nil {
		return outcome, nil
	}

	live := make(map[string]bool, len(index.Items))
	for _, item := range index.Items {
		if !item.Deleted {
			live[item.ID] = true
		}
	}
	marked := 0
	for _, id := range ids {
		if live[id] {
			outcome[id] = true
			marked++
		}
	}
	if marked == 0 {
		return outcome, nil
	}

	if err = m.ApplyChanges(ctx, index, models.ChangeSet{Deleted: ids}); err != nil {
		return nil, err
	}
	return outcome, nil
}

func (m *CloudManager) buildIndex(items []models.SyncItem) *models.CloudSyncIndex {
	return &models.CloudSyncIndex{
		Format:       models.IndexFormatUnified,
		Timestamp:    m.clock.Now().UnixMilli(),
		DeviceID:     m.deviceID,
		Items:        items,
		TotalItems:   len(items),
		DataChecksum: checksum.Index(items),
		Statistics:   models.ComputeStatistics(items),
	}
}
