package migration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// markerVersion is the current marker file format version.
const markerVersion = 1

// Marker is the persisted record that the one-time migration completed.
// Its presence is the durable, idempotent signal; it is written only after
// the copied database has been verified.
type Marker struct {
	Version           int    `json:"version"`
	SourceDBPath      string `json:"source_db_path"`
	DestinationDBPath string `json:"destination_db_path"`
}

// writeMarker persists the marker atomically using a temp file + rename in
// the marker's own directory, with owner-only permissions.
func writeMarker(path string, m Marker) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding marker: %w", err)
	}

	dir := filepath.Dir(path)
	tempFile, err := os.CreateTemp(dir, "*.tmp")
	if err != nil {
		return fmt.Errorf("creating marker temp file: %w", err)
	}
	tempName := tempFile.Name()
	// Cleanup deferred for all exit paths
	defer func() { _ = os.Remove(tempName) }()
	defer func() { _ = tempFile.Close() }()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("writing marker temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("closing marker temp file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("renaming marker into place: %w", err)
	}

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("setting marker permissions: %w", err)
	}

	return nil
}

// readMarker loads a marker file. The engine gates on mere existence and
// reads the contents only to log them.
func readMarker(path string) (Marker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Marker{}, err
	}

	var m Marker
	if err := json.Unmarshal(data, &m); err != nil {
		return Marker{}, fmt.Errorf("decoding marker %s: %w", path, err)
	}
	return m, nil
}
