package models

// SegmentInfo describes one bounded-size binary chunk stored remotely.
//
// Segments are content-addressed: SegmentID is derived from the whole-file
// checksum plus the chunk index, so identical content reuses the same remote
// name across retries and devices. A segment is immutable once uploaded.
type SegmentInfo struct {
	// SegmentID is the stable remote name (without the ".seg" extension).
	SegmentID string `json:"segmentId"`

	// FileName is the original base name of the source file.
	FileName string `json:"fileName"`

	// OriginalPath is the local source path on the producing device.
	OriginalPath string `json:"originalPath,omitempty"`

	// Size is the chunk length in bytes, at most the segment limit (1 MiB).
	Size int64 `json:"size"`

	// Offset is the byte position of this file's slice inside a shared batch
	// segment. Zero for individually-segmented files.
	Offset int64 `json:"offset,omitempty"`

	// Checksum fingerprints the chunk bytes for download verification.
	Checksum string `json:"checksum"`

	// FileType records the item type the segment belongs to.
	FileType ItemType `json:"fileType"`
}
