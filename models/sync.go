package models

import "time"

// SyncModeConfig selects which clipboard content takes part in a sync pass.
// It is loaded once at the start of a pass and immutable for its duration.
type SyncModeConfig struct {
	IncludeText   bool `json:"includeText"`
	IncludeHTML   bool `json:"includeHtml"`
	IncludeRTF    bool `json:"includeRtf"`
	IncludeImages bool `json:"includeImages"`
	IncludeFiles  bool `json:"includeFiles"`

	// OnlyFavorites restricts sync to pinned entries.
	OnlyFavorites bool `json:"onlyFavorites"`

	// FileLimits bounds binary payload sizes in bytes.
	FileLimits FileLimits `json:"fileLimits"`
}

// FileLimits bounds image and file payload sizes in bytes. Zero means the
// limit is not configured and the hard transfer ceiling applies alone.
type FileLimits struct {
	MaxImageSize int64 `json:"maxImageSize"`
	MaxFileSize  int64 `json:"maxFileSize"`
}

// DefaultSyncModeConfig enables every content type with no favorite
// restriction.
func DefaultSyncModeConfig() SyncModeConfig {
	return SyncModeConfig{
		IncludeText:   true,
		IncludeHTML:   true,
		IncludeRTF:    true,
		IncludeImages: true,
		IncludeFiles:  true,
	}
}

// SyncOptions tunes filter evaluation for a single call site.
type SyncOptions struct {
	// IncludeDeleted lets tombstones pass the filter, needed when the engine
	// propagates deletions.
	IncludeDeleted bool

	// SyncFavoriteChanges lets non-favorite items pass even under
	// OnlyFavorites, so that un-favoriting an item still propagates.
	SyncFavoriteChanges bool
}

// SyncState names the engine's position in a pass.
type SyncState string

const (
	StateIdle           SyncState = "idle"
	StateAnalyzingLocal SyncState = "analyzing_local_changes"
	StateFetchingRemote SyncState = "fetching_remote"
	StateMerging        SyncState = "merging"
	StateUploading      SyncState = "uploading"
	StateFailed         SyncState = "failed"
)

// ConflictResolution records which side won a timestamp conflict.
type ConflictResolution string

const (
	ResolutionLocalKept    ConflictResolution = "local_kept"
	ResolutionRemoteTaken  ConflictResolution = "remote_taken"
	ResolutionLocalDeleted ConflictResolution = "local_deleted"
)

// ConflictRecord describes one resolved conflict inside a SyncResult.
type ConflictRecord struct {
	ItemID     string             `json:"itemId"`
	Resolution ConflictResolution `json:"resolution"`
}

// SyncError is a per-item failure collected during a pass. Per-item failures
// never abort the pass; they are reported here instead.
type SyncError struct {
	ItemID  string `json:"itemId,omitempty"`
	Op      string `json:"op"`
	Message string `json:"message"`
}

// SyncResult summarizes one complete sync pass. A result is always produced,
// even on partial failure; the UI decides how to surface it.
type SyncResult struct {
	State      SyncState        `json:"state"`
	Uploaded   int              `json:"uploaded"`
	Downloaded int              `json:"downloaded"`
	Conflicts  []ConflictRecord `json:"conflicts,omitempty"`
	Errors     []SyncError      `json:"errors,omitempty"`
	Duration   time.Duration    `json:"duration"`
	Timestamp  time.Time        `json:"timestamp"`
}

// ChangeSet classifies the local diff computed against the engine's
// last-known snapshot.
type ChangeSet struct {
	Added    []SyncItem
	Modified []SyncItem
	Deleted  []string
}

// Empty reports whether the change set carries no work.
func (c ChangeSet) Empty() bool {
	return len(c.Added) == 0 && len(c.Modified) == 0 && len(c.Deleted) == 0
}

// SyncInterval is the coarse scheduler period selected by the user.
type SyncInterval int

const (
	SyncEvery1h  SyncInterval = 1
	SyncEvery2h  SyncInterval = 2
	SyncEvery6h  SyncInterval = 6
	SyncEvery12h SyncInterval = 12
	SyncEvery24h SyncInterval = 24
)

// Duration converts the interval to a time.Duration, defaulting to one hour
// for unknown values.
func (s SyncInterval) Duration() time.Duration {
	switch s {
	case SyncEvery1h, SyncEvery2h, SyncEvery6h, SyncEvery12h, SyncEvery24h:
		return time.Duration(s) * time.Hour
	default:
		return time.Hour
	}
}
