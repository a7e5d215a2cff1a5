package migration

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMarkerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migration-marker.json")
	in := Marker{
		Version:           markerVersion,
		SourceDBPath:      "/old/solostack.db",
		DestinationDBPath: "/new/solostack.db",
	}

	if err := writeMarker(path, in); err != nil {
		t.Fatalf("writeMarker: %v", err)
	}

	out, err := readMarker(path)
	if err != nil {
		t.Fatalf("readMarker: %v", err)
	}
	if out != in {
		t.Errorf("marker round trip = %+v, want %+v", out, in)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("marker permissions = %04o, want 0600", perm)
	}
}

func TestWriteMarkerLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "migration-marker.json")

	if err := writeMarker(path, Marker{Version: markerVersion}); err != nil {
		t.Fatalf("writeMarker: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the marker in %s, found %d entries", dir, len(entries))
	}
}
