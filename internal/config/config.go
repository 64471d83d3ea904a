// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"

	"github.com/Ruszero01/EcoPaste-Sync-sub000/models"
)

// StructuredConfig is the top-level configuration container for the sync
// daemon. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the device identity file.
	App App `envPrefix:"APP_"`

	// WebDAV holds the remote endpoint settings: URL, credentials, base path
	// and request timeout.
	WebDAV WebDAV `envPrefix:"WEBDAV_"`

	// Storage holds the local clipboard database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync holds the sync-mode content filter, size limits and scheduler
	// interval.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds background worker tuning such as segment upload
	// concurrency.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration.
type App struct {
	// DeviceIDFile is the path where the generated device identity is
	// persisted. A UUIDv7 is created on first start and reused afterwards.
	// Env: APP_DEVICE_ID_FILE
	DeviceIDFile string `env:"DEVICE_ID_FILE"`
}

// WebDAV holds the remote endpoint settings. The server is a dumb file
// store; only PUT/GET/DELETE/MKCOL/PROPFIND are used.
type WebDAV struct {
	// URL is the endpoint root, e.g. "https://dav.example.com/remote.php/dav".
	// Env: WEBDAV_URL
	URL string `env:"URL"`

	// Username and Password are the basic-auth credentials.
	// Env: WEBDAV_USERNAME / WEBDAV_PASSWORD
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`

	// BasePath is the directory under URL where the sync index and segments
	// live, e.g. "/ecopaste".
	// Env: WEBDAV_BASE_PATH
	BasePath string `env:"BASE_PATH"`

	// RequestTimeout bounds a single remote round-trip (e.g. "30s").
	// Env: WEBDAV_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage holds local persistence settings.
type Storage struct {
	// DBPath is the sqlite database file holding clipboard history.
	// Env: STORAGE_DB_PATH
	DBPath string `env:"DB_PATH"`
}

// Sync holds the content filter and scheduler settings consumed by the sync
// engine.
type Sync struct {
	// IntervalHours is the coarse auto-sync period: 1, 2, 6, 12 or 24.
	// Env: SYNC_INTERVAL_HOURS
	IntervalHours int `env:"INTERVAL_HOURS"`

	IncludeText   bool `env:"INCLUDE_TEXT"`
	IncludeHTML   bool `env:"INCLUDE_HTML"`
	IncludeRTF    bool `env:"INCLUDE_RTF"`
	IncludeImages bool `env:"INCLUDE_IMAGES"`
	IncludeFiles  bool `env:"INCLUDE_FILES"`

	// OnlyFavorites restricts sync to pinned entries.
	// Env: SYNC_ONLY_FAVORITES
	OnlyFavorites bool `env:"ONLY_FAVORITES"`

	// MaxImageSize / MaxFileSize bound binary payloads in bytes; zero means
	// only the hard transfer ceiling applies.
	MaxImageSize int64 `env:"MAX_IMAGE_SIZE"`
	MaxFileSize  int64 `env:"MAX_FILE_SIZE"`
}

// Workers holds configuration for background workers.
type Workers struct {
	// UploadConcurrency bounds parallel segment uploads inside one pass.
	// Env: WORKERS_UPLOAD_CONCURRENCY
	UploadConcurrency int `env:"UPLOAD_CONCURRENCY"`
}

// Interval converts the configured hour count into a models.SyncInterval.
func (s Sync) Interval() models.SyncInterval {
	return models.SyncInterval(s.IntervalHours)
}

// ModeConfig converts the flat Sync section into the models.SyncModeConfig
// consumed by the filter. A config with every switch off is treated as
// unconfigured and replaced by the permissive default.
func (s Sync) ModeConfig() models.SyncModeConfig {
	cfg := models.SyncModeConfig{
		IncludeText:   s.IncludeText,
		IncludeHTML:   s.IncludeHTML,
		IncludeRTF:    s.IncludeRTF,
		IncludeImages: s.IncludeImages,
		IncludeFiles:  s.IncludeFiles,
		OnlyFavorites: s.OnlyFavorites,
		FileLimits: models.FileLimits{
			MaxImageSize: s.MaxImageSize,
			MaxFileSize:  s.MaxFileSize,
		},
	}
	if !cfg.IncludeText && !cfg.IncludeHTML && !cfg.IncludeRTF &&
		!cfg.IncludeImages && !cfg.IncludeFiles {
		def := models.DefaultSyncModeConfig()
		def.OnlyFavorites = cfg.OnlyFavorites
		def.FileLimits = cfg.FileLimits
		return def
	}
	return cfg
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
