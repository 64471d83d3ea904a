package models

// IndexFormatUnified is the only cloud index schema tag this version reads
// and writes. Indexes carrying any other tag are treated as absent remote
// data, never as a hard failure.
const IndexFormatUnified = "unified"

// CloudSyncIndex is the remote manifest describing every synced item.
//
// The index is downloaded, mutated in memory and re-uploaded wholesale on
// every successful sync pass; it is never patched remotely. On upload
// failure the previous remote index remains authoritative.
type CloudSyncIndex struct {
	// Format is the schema tag, always IndexFormatUnified.
	Format string `json:"format"`

	// Timestamp is the upload instant in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`

	// DeviceID identifies the last writer.
	DeviceID string `json:"deviceId"`

	// Items is the full item set, order-irrelevant. Deleted entries act as
	// tombstones until observed by the deleting device on a later pass.
	Items []SyncItem `json:"items"`

	// TotalItems duplicates len(Items) for cheap remote inspection.
	TotalItems int `json:"totalItems"`

	// DataChecksum is a hash over the item fingerprints, detecting index
	// corruption independent of transport integrity.
	DataChecksum string `json:"dataChecksum"`

	// Statistics summarizes the item set for status display.
	Statistics IndexStatistics `json:"statistics"`
}

// IndexStatistics holds per-type counts and sizes computed on every index
// upload.
type IndexStatistics struct {
	TextCount  int   `json:"textCount"`
	HTMLCount  int   `json:"htmlCount"`
	RTFCount   int   `json:"rtfCount"`
	ImageCount int   `json:"imageCount"`
	FileCount  int   `json:"fileCount"`
	Favorites  int   `json:"favorites"`
	TotalSize  int64 `json:"totalSize"`
}

// ComputeStatistics builds the statistics block for the given item set.
// Tombstones are excluded from every counter.
func ComputeStatistics(items []SyncItem) IndexStatistics {
	var st IndexStatistics
	for _, item := range items {
		if item.Deleted {
			continue
		}
		switch item.Type {
		case TypeText:
			st.TextCount++
		case TypeHTML:
			st.HTMLCount++
		case TypeRTF:
			st.RTFCount++
		case TypeImage:
			st.ImageCount++
		case TypeFiles:
			st.FileCount++
		}
		if item.Favorite {
			st.Favorites++
		}
		st.TotalSize += item.Size
	}
	return st
}
