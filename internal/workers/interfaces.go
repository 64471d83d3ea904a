// Package workers provides the background goroutines of the sync client:
// the periodic auto-sync scheduler and the Workers aggregate that starts
// and stops them as a unit.
package workers

import (
	"context"

	"github.com/Ruszero01/EcoPaste-Sync-sub000/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/workers_mock.go -package=mock

// Worker is a long-running background component with an explicit lifecycle.
// Start must not block; Stop blocks until the worker has fully exited and
// is safe to call on a worker that never started.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

// Syncer triggers one full sync pass. Implemented by the sync engine.
type Syncer interface {
	Sync(ctx context.Context) (models.SyncResult, error)
}
