package models

// ItemType identifies the clipboard content kind of a synced entry.
// The value determines how SyncItem.Value must be interpreted.
type ItemType string

const (
	// TypeText represents plain textual clipboard content.
	TypeText ItemType = "text"

	// TypeHTML represents HTML markup captured from the clipboard.
	TypeHTML ItemType = "html"

	// TypeRTF represents rich-text-format clipboard content.
	TypeRTF ItemType = "rtf"

	// TypeImage represents an image payload. SyncItem.Value holds a JSON
	// descriptor referencing the local path and, once uploaded, the remote
	// segment list.
	TypeImage ItemType = "image"

	// TypeFiles represents one or more copied files. SyncItem.Value holds a
	// JSON descriptor with the local paths and remote segment lists.
	TypeFiles ItemType = "files"
)

// Group is the coarse category derived from an item's type, used by the
// history UI for tab filtering.
type Group string

const (
	GroupText  Group = "text"
	GroupImage Group = "image"
	GroupFiles Group = "files"
)

// GroupForType maps an item type to its derived group. Unknown types fall
// into the text group.
func GroupForType(t ItemType) Group {
	switch t {
	case TypeImage:
		return GroupImage
	case TypeFiles:
		return GroupFiles
	default:
		return GroupText
	}
}

// SyncItem is one clipboard history entry eligible for synchronization.
//
// Two items with the same ID on different devices represent the same logical
// entry; on conflict only the newest LastModified wins. The Checksum field is
// a content fingerprint that excludes both timestamps, so touching an item
// without changing its content never triggers a transfer.
type SyncItem struct {
	// ID is stable, globally unique, assigned at creation and never reused.
	ID string `json:"id"`

	// Type is the clipboard content kind.
	Type ItemType `json:"type"`

	// Group is the coarse category derived from Type.
	Group Group `json:"group"`

	// Value is the payload: literal text for textual types, or a JSON
	// descriptor (see Payload) for image/files types.
	Value string `json:"value"`

	// Search is the indexable text extract shown in history search.
	Search string `json:"search,omitempty"`

	// Favorite marks the entry as pinned by the user.
	Favorite bool `json:"favorite"`

	// Note is a free-form user annotation.
	Note string `json:"note,omitempty"`

	// CreateTime is the creation instant in epoch milliseconds.
	CreateTime int64 `json:"createTime"`

	// LastModified is the last mutation instant in epoch milliseconds.
	// It is the sole conflict-resolution key.
	LastModified int64 `json:"lastModified"`

	// DeviceID identifies the device that produced the current revision.
	DeviceID string `json:"deviceId"`

	// Checksum is the content fingerprint excluding timestamps.
	Checksum string `json:"checksum"`

	// Size is the payload byte length used for fingerprinting and limits.
	Size int64 `json:"size"`

	// Deleted is the soft-delete flag. Deleted entries act as tombstones in
	// the cloud index until every device has observed the deletion.
	Deleted bool `json:"deleted"`
}

// NewerThan reports whether the item's revision is strictly newer than
// other's. Equal timestamps are not "newer"; ties keep the local copy.
func (i SyncItem) NewerThan(other SyncItem) bool {
	return i.LastModified > other.LastModified
}
