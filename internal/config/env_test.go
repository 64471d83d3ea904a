// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_DEVICE_ID_FILE": "/var/lib/ecopaste/device-id",

		"WEBDAV_URL":             "https://dav.example.com/remote.php/dav",
		"WEBDAV_USERNAME":        "alice",
		"WEBDAV_PASSWORD":        "s3cret",
		"WEBDAV_BASE_PATH":       "/ecopaste",
		"WEBDAV_REQUEST_TIMEOUT": "45s",

		"STORAGE_DB_PATH": "/var/lib/ecopaste/history.db",

		"SYNC_INTERVAL_HOURS": "12",
		"SYNC_INCLUDE_TEXT":   "true",
		"SYNC_INCLUDE_IMAGES": "true",
		"SYNC_ONLY_FAVORITES": "true",
		"SYNC_MAX_IMAGE_SIZE": "2097152",

		"WORKERS_UPLOAD_CONCURRENCY": "5",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
	assert.Equal(t, "/var/lib/ecopaste/device-id", cfg.App.DeviceIDFile)

	assert.Equal(t, "https://dav.example.com/remote.php/dav", cfg.WebDAV.URL)
	assert.Equal(t, "alice", cfg.WebDAV.Username)
	assert.Equal(t, "s3cret", cfg.WebDAV.Password)
	assert.Equal(t, "/ecopaste", cfg.WebDAV.BasePath)
	assert.Equal(t, 45*time.Second, cfg.WebDAV.RequestTimeout)

	assert.Equal(t, "/var/lib/ecopaste/history.db", cfg.Storage.DBPath)

	assert.Equal(t, 12, cfg.Sync.IntervalHours)
	assert.True(t, cfg.Sync.IncludeText)
	assert.True(t, cfg.Sync.IncludeImages)
	assert.False(t, cfg.Sync.IncludeFiles)
	assert.True(t, cfg.Sync.OnlyFavorites)
	assert.Equal(t, int64(2097152), cfg.Sync.MaxImageSize)

	assert.Equal(t, 5, cfg.Workers.UploadConcurrency)
}

func TestParseEnv_EmptyEnvironment(t *testing.T) {
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	require.NoError(t, err)
	assert.Equal(t, "", cfg.WebDAV.URL)
	assert.Equal(t, 0, cfg.Sync.IntervalHours)
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}
