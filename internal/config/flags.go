package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-url WebDAV endpoint root URL
//	-user/-password WebDAV basic-auth credentials
//	-base-path remote directory for the sync index and segments
//	-request-timeout remote request timeout (e.g., "30s", "1m")
//	-db local sqlite database path
//	-device-id-file device identity file path
//	-interval auto-sync interval in hours (1, 2, 6, 12, 24)
//	-only-favorites restrict sync to pinned entries
//	-upload-concurrency parallel segment uploads per pass
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var webdavURL string
	var username string
	var password string
	var basePath string
	var requestTimeout time.Duration
	var dbPath string
	var deviceIDFile string
	var intervalHours int
	var onlyFavorites bool
	var uploadConcurrency int
	var jsonConfigPath string

	flag.StringVar(&webdavURL, "url", "", "WebDAV endpoint root URL")
	flag.StringVar(&username, "user", "", "WebDAV username")
	flag.StringVar(&password, "password", "", "WebDAV password")
	flag.StringVar(&basePath, "base-path", "", "Remote base path")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&dbPath, "db", "", "Local sqlite database path")
	flag.StringVar(&deviceIDFile, "device-id-file", "", "Device identity file path")
	flag.IntVar(&intervalHours, "interval", 0, "Auto-sync interval in hours")
	flag.BoolVar(&onlyFavorites, "only-favorites", false, "Sync favorite entries only")
	flag.IntVar(&uploadConcurrency, "upload-concurrency", 0, "Parallel segment uploads")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			DeviceIDFile: deviceIDFile,
		},
		WebDAV: WebDAV{
			URL:            webdavURL,
			Username:       username,
			Password:       password,
			BasePath:       basePath,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DBPath: dbPath,
		},
		Sync: Sync{
			IntervalHours: intervalHours,
			OnlyFavorites: onlyFavorites,
		},
		Workers: Workers{
			UploadConcurrency: uploadConcurrency,
		},
		JSONFilePath: jsonConfigPath,
	}
}
