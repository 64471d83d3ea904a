package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// PayloadKind discriminates the Payload tagged union.
type PayloadKind int

const (
	PayloadText PayloadKind = iota + 1
	PayloadHTML
	PayloadRTF
	PayloadImage
	PayloadFiles
)

// ErrUnknownItemType is returned when a payload is requested for an item
// type this version does not understand.
var ErrUnknownItemType = errors.New("unknown item type")

// Payload is the decoded form of SyncItem.Value. Textual kinds carry the
// literal string; image and files kinds carry local path references plus the
// remote segment list populated after upload.
type Payload struct {
	Kind PayloadKind

	// Text holds the literal content for text/html/rtf kinds.
	Text string

	// ImagePath is the local path of an image payload.
	ImagePath string

	// FilePaths are the local paths of a files payload.
	FilePaths []string

	// Segments describe the remote chunks the binary content was uploaded
	// as. Empty until the first successful upload.
	Segments []SegmentInfo
}

// binaryDescriptor is the wire shape of SyncItem.Value for image and files
// items.
type binaryDescriptor struct {
	Path     string        `json:"path,omitempty"`
	Paths    []string      `json:"paths,omitempty"`
	Segments []SegmentInfo `json:"segments,omitempty"`
}

// ParsePayload decodes item.Value according to item.Type.
//
// For binary kinds a malformed JSON descriptor is not an error in disguise:
// the raw value is kept as the path reference and an empty segment list is
// returned, so a locally captured item that has never been uploaded still
// round-trips.
func ParsePayload(item SyncItem) (Payload, error) {
	switch item.Type {
	case TypeText:
		return Payload{Kind: PayloadText, Text: item.Value}, nil
	case TypeHTML:
		return Payload{Kind: PayloadHTML, Text: item.Value}, nil
	case TypeRTF:
		return Payload{Kind: PayloadRTF, Text: item.Value}, nil
	case TypeImage:
		var desc binaryDescriptor
		if err := json.Unmarshal([]byte(item.Value), &desc); err != nil {
			return Payload{Kind: PayloadImage, ImagePath: item.Value}, nil
		}
		return Payload{Kind: PayloadImage, ImagePath: desc.Path, Segments: desc.Segments}, nil
	case TypeFiles:
		var desc binaryDescriptor
		if err := json.Unmarshal([]byte(item.Value), &desc); err != nil {
			return Payload{Kind: PayloadFiles, FilePaths: []string{item.Value}}, nil
		}
		paths := desc.Paths
		if len(paths) == 0 && desc.Path != "" {
			paths = []string{desc.Path}
		}
		return Payload{Kind: PayloadFiles, FilePaths: paths, Segments: desc.Segments}, nil
	default:
		return Payload{}, fmt.Errorf("%w: %q", ErrUnknownItemType, item.Type)
	}
}

// Encode serializes the payload back into the SyncItem.Value wire form.
func (p Payload) Encode() (string, error) {
	switch p.Kind {
	case PayloadText, PayloadHTML, PayloadRTF:
		return p.Text, nil
	case PayloadImage:
		raw, err := json.Marshal(binaryDescriptor{Path: p.ImagePath, Segments: p.Segments})
		if err != nil {
			return "", fmt.Errorf("encode image payload: %w", err)
		}
		return string(raw), nil
	case PayloadFiles:
		raw, err := json.Marshal(binaryDescriptor{Paths: p.FilePaths, Segments: p.Segments})
		if err != nil {
			return "", fmt.Errorf("encode files payload: %w", err)
		}
		return string(raw), nil
	default:
		return "", fmt.Errorf("%w: kind %d", ErrUnknownItemType, p.Kind)
	}
}

// IsBinary reports whether the payload is transferred through the segment
// layer rather than inline in the cloud index.
func (p Payload) IsBinary() bool {
	return p.Kind == PayloadImage || p.Kind == PayloadFiles
}
