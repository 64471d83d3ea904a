package sync

import "errors"

var (
	// ErrSyncInProgress indicates a trigger arrived while a pass was already
	// running. Triggers are dropped, not queued.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrPayloadTooLarge indicates a file exceeds the hard transfer ceiling.
	// The item is skipped and reported; the pass continues.
	ErrPayloadTooLarge = errors.New("payload exceeds transfer ceiling")

	// ErrSegmentUploadFailed indicates all upload attempts for a segment
	// were exhausted.
	ErrSegmentUploadFailed = errors.New("segment upload failed")

	// ErrSegmentChecksumMismatch indicates a downloaded segment did not
	// match its recorded checksum. Reassembly is aborted; no partial result
	// is returned.
	ErrSegmentChecksumMismatch = errors.New("segment checksum mismatch")

	// ErrIndexUnavailable indicates the remote index could not be fetched or
	// written. Index-level failures abort the pass.
	ErrIndexUnavailable = errors.New("cloud index unavailable")
)
