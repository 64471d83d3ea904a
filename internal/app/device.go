package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LoadOrCreateDeviceID returns the persistent device identity. On first
// start a UUIDv7 is generated and written to path; later starts reuse it.
// The identity must survive restarts, otherwise conflict resolution would
// see every restart as a new device.
func LoadOrCreateDeviceID(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(raw))
		if _, parseErr := uuid.Parse(id); parseErr == nil {
			return id, nil
		}
		// Corrupt identity file; fall through and regenerate.
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read device id file: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate device id: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create device id dir: %w", err)
	}
	if err = os.WriteFile(path, []byte(id.String()+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write device id file: %w", err)
	}

	return id.String(), nil
}
