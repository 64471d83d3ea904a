// SPDX-License-Identifier: Apache-2.0

// Package app wires the sync daemon together: configuration, logging,
// local storage, the WebDAV transport, the sync engine and the background
// workers.
package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/config"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/logger"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/store"
	syncengine "github.com/Ruszero01/EcoPaste-Sync-sub000/internal/sync"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/transport"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/watcher"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/workers"
)

// App owns the assembled sync daemon.
type App struct {
	cfg       *config.StructuredConfig
	log       *logger.Logger
	store     store.LocalStore
	transport transport.FileTransport
	engine    *syncengine.Engine
	tracker   *syncengine.ErrorTracker
	workers   *workers.Workers
}

// NewApp assembles the daemon from configuration. Nothing is started yet;
// Run owns the lifecycle.
func NewApp(cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	deviceID, err := LoadOrCreateDeviceID(cfg.App.DeviceIDFile)
	if err != nil {
		return nil, fmt.Errorf("device identity: %w", err)
	}
	log.Info().Str("device_id", deviceID).Msg("device identity loaded")

	localStore, err := store.NewSQLiteStore(cfg.Storage.DBPath, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	tr := transport.NewWebDAVTransport(transport.WebDAVConfig{
		BaseURL:  cfg.WebDAV.URL,
		Username: cfg.WebDAV.Username,
		Password: cfg.WebDAV.Password,
		BasePath: cfg.WebDAV.BasePath,
		Timeout:  cfg.WebDAV.RequestTimeout,
	})

	clock := clockwork.NewRealClock()
	cloud := syncengine.NewCloudManager(tr, log, clock, deviceID)
	segments := syncengine.NewSegmentManager(tr, log, syncengine.SegmentConfig{
		Concurrency: cfg.Workers.UploadConcurrency,
	})

	tracker := syncengine.NewErrorTracker(clock, syncengine.TrackerConfig{})
	engine := syncengine.NewEngine(localStore, cloud, segments, clock, log, syncengine.EngineConfig{
		DeviceID: deviceID,
		Mode:     cfg.Sync.ModeConfig(),
		Tracker:  tracker,
	})
	autoSync := workers.NewAutoSync(engine, tracker, clock, log, cfg.Sync.Interval())
	clipWatcher := watcher.NewWatcher(watcher.SystemClipboard{}, localStore, clock, log, deviceID, 0)

	return &App{
		cfg:       cfg,
		log:       log,
		store:     localStore,
		transport: tr,
		engine:    engine,
		tracker:   tracker,
		workers:   workers.NewWorkers(clipWatcher, autoSync),
	}, nil
}

// Run probes the endpoint, performs an initial sync pass and keeps the
// background workers running until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer a.store.Close()

	if err := a.transport.Options(ctx); err != nil {
		return fmt.Errorf("endpoint probe: %w", err)
	}
	if err := a.transport.MkCol(ctx, ""); err != nil {
		return fmt.Errorf("create base collection: %w", err)
	}

	// A failed initial pass is a warning, not a startup failure; the
	// scheduler retries on its interval.
	if _, err := a.engine.Sync(ctx); err != nil {
		a.tracker.RecordFailure(workers.SchedulerUnit)
		a.log.Warn().Err(err).Msg("initial sync failed")
	}

	a.workers.Start(ctx)
	a.log.Info().Msg("sync daemon running")

	<-ctx.Done()
	a.log.Info().Msg("shutting down")
	a.workers.Stop()
	return nil
}
