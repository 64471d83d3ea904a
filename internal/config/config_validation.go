// SPDX-License-Identifier: Apache-2.0

package config

import (
	"strings"
	"time"
)

// Defaults applied after merging all sources. The daemon is expected to run
// with nothing configured except the WebDAV endpoint.
const (
	defaultDBPath            = "ecopaste.db"
	defaultDeviceIDFile      = "device-id"
	defaultBasePath          = "/ecopaste"
	defaultRequestTimeout    = 30 * time.Second
	defaultIntervalHours     = 6
	defaultUploadConcurrency = 3
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = defaultDBPath
	}
	if cfg.App.DeviceIDFile == "" {
		cfg.App.DeviceIDFile = defaultDeviceIDFile
	}
	if cfg.WebDAV.BasePath == "" {
		cfg.WebDAV.BasePath = defaultBasePath
	}
	if cfg.WebDAV.RequestTimeout <= 0 {
		cfg.WebDAV.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Sync.IntervalHours == 0 {
		cfg.Sync.IntervalHours = defaultIntervalHours
	}
	if cfg.Workers.UploadConcurrency <= 0 {
		cfg.Workers.UploadConcurrency = defaultUploadConcurrency
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.WebDAV.URL == "" {
		return ErrInvalidWebDAVConfigs
	}
	if !strings.HasPrefix(cfg.WebDAV.BasePath, "/") {
		return ErrInvalidWebDAVConfigs
	}

	switch cfg.Sync.IntervalHours {
	case 1, 2, 6, 12, 24:
	default:
		return ErrInvalidSyncConfigs
	}

	if cfg.Sync.MaxImageSize < 0 || cfg.Sync.MaxFileSize < 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
