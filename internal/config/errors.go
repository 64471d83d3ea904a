package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidWebDAVConfigs indicates invalid remote endpoint settings
	// (for example, a missing URL or a base path without a leading slash).
	ErrInvalidWebDAVConfigs = errors.New("invalid webdav configuration")
	// ErrInvalidSyncConfigs indicates invalid sync settings
	// (for example, an unsupported interval or negative size limits).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)
