// Package checksum provides deterministic content fingerprinting for
// clipboard items, file payloads and the cloud index.
//
// Fingerprints deliberately exclude both timestamps so that touching an item
// without changing its content never looks like a modification to the sync
// engine.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/Ruszero01/EcoPaste-Sync-sub000/models"
)

// Bytes returns the hex-encoded SHA-256 digest of b.
func Bytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Item fingerprints the semantic content of a sync item: type, group, value,
// search extract, note, favorite flag and size. ID, device and timestamps
// are excluded on purpose.
func Item(item models.SyncItem) string {
	h := sha256.New()
	writeField(h, string(item.Type))
	writeField(h, string(item.Group))
	writeField(h, item.Value)
	writeField(h, item.Search)
	writeField(h, item.Note)
	writeField(h, strconv.FormatBool(item.Favorite))
	writeField(h, strconv.FormatInt(item.Size, 10))
	return hex.EncodeToString(h.Sum(nil))
}

// Index computes the cloud index data checksum: a digest over the sorted
// "id:checksum" pairs of every item. Tombstones contribute a deletion
// marker, so turning an item into a tombstone changes the result even
// though its content checksum does not. Reordering never changes it.
func Index(items []models.SyncItem) string {
	pairs := make([]string, 0, len(items))
	for _, item := range items {
		pair := item.ID + ":" + item.Checksum
		if item.Deleted {
			pair += ":deleted"
		}
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)

	h := sha256.New()
	for _, p := range pairs {
		writeField(h, p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// File streams the file at path through SHA-256 and returns the digest and
// the byte length.
func File(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("read file for checksum: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// writeField writes a length-prefixed field so that adjacent fields can
// never alias each other ("ab"+"c" vs "a"+"bc").
func writeField(w io.Writer, s string) {
	_, _ = io.WriteString(w, strconv.Itoa(len(s)))
	_, _ = io.WriteString(w, "|")
	_, _ = io.WriteString(w, s)
}
