// Package paths derives filesystem locations for current and prior
// SoloStack installations from their bundle identifiers.
package paths

import (
	"path/filepath"
	"strings"
)

// LegacyDataDir infers the data directory of a prior installation from the
// current one by swapping bundle identifiers. Two cases are handled: the
// identifier appears somewhere in the path (identifier-qualified parent
// directories), or the final path segment is the identifier itself. If
// neither holds, no legacy installation is inferable and ok is false.
//
// This is a best-effort heuristic, not a guaranteed inverse of how the
// platform composed the directory. A path that happens to contain the
// current identifier twice is rewritten at the first occurrence only.
func LegacyDataDir(newDataDir, currentID, legacyID string) (string, bool) {
	if newDataDir == "" || currentID == "" || legacyID == "" {
		return "", false
	}

	if strings.Contains(newDataDir, currentID) {
		return strings.Replace(newDataDir, currentID, legacyID, 1), true
	}

	if filepath.Base(newDataDir) == currentID {
		return filepath.Join(filepath.Dir(newDataDir), legacyID), true
	}

	return "", false
}

// DatabaseSidecars returns the write-ahead-log and shared-memory companion
// paths for a database file, following the base-name-plus-suffix convention.
func DatabaseSidecars(dbPath string) []string {
	return []string{dbPath + "-wal", dbPath + "-shm"}
}
