// SPDX-License-Identifier: Apache-2.0

// Package store provides the local clipboard history persistence consumed by
// the sync core. The core treats [LocalStore] as its only local mutation
// surface: read everything, insert-or-update one item, delete one item.
package store

import (
	"context"

	"github.com/Ruszero01/EcoPaste-Sync-sub000/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/local_store_mock.go -package=mock

// LocalStore is the contract between the clipboard history database and the
// sync engine. Implementations must be safe for use by the watcher and the
// single active sync pass concurrently.
type LocalStore interface {
	// GetAllItems returns every history entry, soft-deleted rows included.
	GetAllItems(ctx context.Context) ([]models.SyncItem, error)

	// GetItem returns the entry with the given id or [ErrItemNotFound].
	GetItem(ctx context.Context, id string) (models.SyncItem, error)

	// UpsertItem inserts the item or replaces the stored row with the same
	// id. This is the engine's write-back path; it never wipes other rows.
	UpsertItem(ctx context.Context, item models.SyncItem) error

	// DeleteItem removes the entry with the given id. Deleting a missing id
	// is a no-op.
	DeleteItem(ctx context.Context, id string) error

	// Close releases the underlying database handle.
	Close() error
}
