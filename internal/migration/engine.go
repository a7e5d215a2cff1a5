package migration

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/solostack/solostack/internal/paths"
)

// Config identifies the installations involved in the migration. All fields
// are required.
type Config struct {
	// CurrentBundleID identifies this installation's data directory.
	CurrentBundleID string
	// LegacyBundleID identifies the prior installation whose data is
	// migrated.
	LegacyBundleID string
	// DatabaseFilename is the database file name inside the data directory.
	DatabaseFilename string
	// MarkerFilename is the migration marker file name inside the data
	// directory.
	MarkerFilename string
}

// Engine performs the one-time startup migration of a prior installation's
// database into the current installation's data directory.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// NewEngine creates a migration Engine. A nil logger falls back to
// slog.Default.
func NewEngine(cfg Config, logger *slog.Logger) (*Engine, error) {
	if cfg.CurrentBundleID == "" {
		return nil, fmt.Errorf("current bundle id cannot be empty")
	}
	if cfg.LegacyBundleID == "" {
		return nil, fmt.Errorf("legacy bundle id cannot be empty")
	}
	if cfg.DatabaseFilename == "" {
		return nil, fmt.Errorf("database filename cannot be empty")
	}
	if cfg.MarkerFilename == "" {
		return nil, fmt.Errorf("marker filename cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{cfg: cfg, logger: logger}, nil
}

// Run executes the migration once. It must be called before any code path
// opens the application database. resolve returns the current installation's
// data directory, which is created if absent.
//
// Run never panics and never fails the host process: every failure is
// captured as a scoped message in Report.MigrationError, and the worst-case
// outcome is "legacy data not migrated this run".
func (e *Engine) Run(resolve func() (string, error)) Report {
	var report Report

	dataDir, err := resolve()
	if err != nil {
		report.MigrationError = fmt.Sprintf("resolving data directory: %v", err)
		e.logger.Warn("startup migration aborted", "error", report.MigrationError)
		return report
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		report.MigrationError = fmt.Sprintf("creating data directory %s: %v", dataDir, err)
		e.logger.Warn("startup migration aborted", "error", report.MigrationError)
		return report
	}

	newDBPath := filepath.Join(dataDir, e.cfg.DatabaseFilename)
	markerPath := filepath.Join(dataDir, e.cfg.MarkerFilename)
	report.NewDBPath = newDBPath
	report.MarkerPresent = fileExists(markerPath)
	if report.MarkerPresent {
		// Presence alone gates the migration; the contents are diagnostics.
		if m, err := readMarker(markerPath); err != nil {
			e.logger.Warn("migration marker unreadable", "path", markerPath, "error", err)
		} else {
			e.logger.Debug("migration marker present",
				"source", m.SourceDBPath, "destination", m.DestinationDBPath)
		}
	}

	legacyDir, ok := paths.LegacyDataDir(dataDir, e.cfg.CurrentBundleID, e.cfg.LegacyBundleID)
	if !ok {
		// No legacy installation is inferable; the common steady state.
		return report
	}

	legacyDBPath := filepath.Join(legacyDir, e.cfg.DatabaseFilename)
	if !fileExists(legacyDBPath) {
		return report
	}
	report.LegacyPathDetected = true
	report.LegacyDBPath = legacyDBPath

	// Idempotency gate: never re-copy over a live, possibly-modified
	// destination database.
	if report.MarkerPresent || fileExists(newDBPath) {
		report.MigrationCompleted = true
		return report
	}

	report.MigrationAttempted = true
	e.logger.Info("migrating legacy database",
		"source", legacyDBPath, "destination", newDBPath)

	if err := copyFile(legacyDBPath, newDBPath); err != nil {
		report.MigrationError = fmt.Sprintf("copying database: %v", err)
		e.logger.Warn("startup migration failed", "error", report.MigrationError)
		e.discardPartialCopy(newDBPath)
		return report
	}

	// A copied database without its in-flight journal files is unsafe to
	// treat as migrated, so sidecar failures are fatal to the migration.
	for _, src := range paths.DatabaseSidecars(legacyDBPath) {
		if !fileExists(src) {
			continue
		}
		dst := filepath.Join(dataDir, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			report.MigrationError = fmt.Sprintf("copying sidecar %s: %v", filepath.Base(src), err)
			e.logger.Warn("startup migration failed", "error", report.MigrationError)
			e.discardPartialCopy(newDBPath)
			return report
		}
	}

	if err := verifyCopy(legacyDBPath, newDBPath); err != nil {
		report.MigrationError = err.Error()
		e.logger.Warn("startup migration failed", "error", report.MigrationError)
		e.discardPartialCopy(newDBPath)
		return report
	}

	// The marker is the durable completion signal; without it the caller
	// must not assume migration correctness even though the copy succeeded.
	marker := Marker{
		Version:           markerVersion,
		SourceDBPath:      legacyDBPath,
		DestinationDBPath: newDBPath,
	}
	if err := writeMarker(markerPath, marker); err != nil {
		// The copy is already verified here, so it stays: the next startup's
		// existing-destination gate treats it as migrated.
		report.MigrationError = fmt.Sprintf("writing migration marker: %v", err)
		e.logger.Warn("startup migration failed", "error", report.MigrationError)
		return report
	}

	report.MarkerPresent = true
	report.MigrationCompleted = true
	e.logger.Info("legacy database migrated", "destination", newDBPath)
	return report
}

// discardPartialCopy removes the destination database and any sidecars copied
// so far. Residue left behind would satisfy the existing-destination gate on
// the next startup and pass an unverified, journal-less copy off as migrated.
func (e *Engine) discardPartialCopy(newDBPath string) {
	targets := append([]string{newDBPath}, paths.DatabaseSidecars(newDBPath)...)
	for _, path := range targets {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			e.logger.Warn("removing partial migration copy", "path", path, "error", err)
		}
	}
}

// verifyCopy compares source and destination file lengths. This deliberately
// stops short of a content checksum: a corrupted-but-same-length copy passes.
// Known limitation, kept for parity with the marker semantics.
func verifyCopy(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("verifying copy: stat source: %v", err)
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return fmt.Errorf("verifying copy: stat destination: %v", err)
	}
	if srcInfo.Size() != dstInfo.Size() {
		return fmt.Errorf("verifying copy: size mismatch: source %d bytes, destination %d bytes",
			srcInfo.Size(), dstInfo.Size())
	}
	return nil
}

// copyFile copies src to dst byte-for-byte with owner-only permissions,
// syncing before close so a crash cannot leave a silently short destination.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
