package app

import (
	"testing"

	"github.com/solostack/solostack/internal/migration"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	cfg.Data.Dir = t.TempDir()
	return cfg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.LegacyBundleID = cfg.Data.CurrentBundleID

	if _, err := New(cfg); err == nil {
		t.Error("expected invalid configuration error")
	}
}

func TestNewAndReportBeforeStart(t *testing.T) {
	cfg := testConfig(t)

	application, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Until Start runs the migration, the safe zero-value report is served.
	if report := application.MigrationReport(); report != (migration.Report{}) {
		t.Errorf("expected zero-value report before Start, got %+v", report)
	}
}
