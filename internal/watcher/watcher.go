// SPDX-License-Identifier: Apache-2.0

// Package watcher captures new clipboard content into the local store. It
// polls the system clipboard and records each distinct text snapshot as a
// history item, deduplicated by content checksum.
package watcher

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/checksum"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/logger"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/store"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/models"
)

// DefaultPollInterval is how often the clipboard is sampled.
const DefaultPollInterval = time.Second

// maxSearchLen bounds the indexable extract stored alongside an item.
const maxSearchLen = 256

// ClipboardReader reads the current clipboard text. Split out so tests can
// feed content without touching the system clipboard.
type ClipboardReader interface {
	ReadAll() (string, error)
}

// SystemClipboard reads the real system clipboard.
type SystemClipboard struct{}

func (SystemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

// Watcher polls the clipboard and stores each new text snapshot as a
// history item. It implements the background worker lifecycle: Start does
// not block, Stop waits for the polling goroutine to exit.
type Watcher struct {
	reader   ClipboardReader
	store    store.LocalStore
	clock    clockwork.Clock
	log      *logger.Logger
	deviceID string
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// lastChecksum is the fingerprint of the newest captured snapshot,
	// primed on the first poll so content already on the clipboard at
	// startup is not re-captured.
	lastChecksum string
	primed       bool
}

// NewWatcher builds a clipboard watcher writing on behalf of deviceID. A
// non-positive interval takes the default.
func NewWatcher(reader ClipboardReader, st store.LocalStore, clock clockwork.Clock, log *logger.Logger, deviceID string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		reader:   reader,
		store:    st,
		clock:    clock,
		log:      log,
		deviceID: deviceID,
		interval: interval,
	}
}

// Start launches the polling goroutine.
func (w *Watcher) Start(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		ticker := w.clock.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-ticker.Chan():
				w.poll(jobCtx)
			}
		}
	}()
}

// Stop cancels the polling goroutine and blocks until it has exited.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *Watcher) poll(ctx context.Context) {
	content, err := w.reader.ReadAll()
	if err != nil {
		w.log.Debug().Err(err).Msg("clipboard read failed")
		return
	}
	// The first poll primes the dedupe state and captures nothing. An empty
	// clipboard still counts as primed.
	if !w.primed {
		w.primed = true
		if content != "" {
			w.lastChecksum = w.buildItem(content).Checksum
		}
		return
	}
	if content == "" {
		return
	}

	item := w.buildItem(content)
	if item.Checksum == w.lastChecksum {
		return
	}

	if err = w.store.UpsertItem(ctx, item); err != nil {
		w.log.Error().Err(err).Msg("failed to store clipboard item")
		return
	}
	w.lastChecksum = item.Checksum
	w.log.Debug().Str("item_id", item.ID).Int64("size", item.Size).Msg("clipboard item captured")
}

func (w *Watcher) buildItem(content string) models.SyncItem {
	now := w.clock.Now().UnixMilli()
	item := models.SyncItem{
		Type:         models.TypeText,
		Group:        models.GroupText,
		Value:        content,
		Search:       searchExtract(content),
		CreateTime:   now,
		LastModified: now,
		DeviceID:     w.deviceID,
		Size:         int64(len(content)),
	}
	item.ID = newItemID()
	item.Checksum = checksum.Item(item)
	return item
}

func newItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// searchExtract normalizes content into the short indexable form shown in
// history search.
func searchExtract(content string) string {
	extract := strings.Join(strings.Fields(content), " ")
	if len(extract) > maxSearchLen {
		extract = extract[:maxSearchLen]
	}
	return extract
}
