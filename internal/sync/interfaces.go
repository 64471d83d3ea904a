// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"context"

	"github.com/Ruszero01/EcoPaste-Sync-sub000/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/sync_mock.go -package=mock

// PayloadTransfer moves binary item content between local disk and the
// remote segment store.
type PayloadTransfer interface {
	// UploadPayload transfers the binary content of item and returns a copy
	// whose Value carries the remote segment list. Non-binary items pass
	// through untouched.
	UploadPayload(ctx context.Context, item models.SyncItem) (models.SyncItem, error)

	// DownloadPayload materializes the binary content of item locally and
	// returns a copy whose Value points at the local paths.
	DownloadPayload(ctx context.Context, item models.SyncItem) (models.SyncItem, error)
}

// IndexManager reads and writes the remote cloud index.
type IndexManager interface {
	// DownloadIndex fetches the remote index. A missing or schema-invalid
	// index is not an error: (nil, nil) means no usable remote data.
	DownloadIndex(ctx context.Context) (*models.CloudSyncIndex, error)

	// UploadIndex replaces the remote index with a full snapshot of items.
	UploadIndex(ctx context.Context, items []models.SyncItem) error

	// InvalidateCache drops any cached index so the next read hits the
	// server.
	InvalidateCache()
}

// Notifier receives engine lifecycle callbacks. All methods are invoked on
// the syncing goroutine and must not block.
type Notifier interface {
	SyncStarted()
	SyncStateChanged(state models.SyncState)
	SyncFinished(result models.SyncResult)
}
