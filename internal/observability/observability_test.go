package observability

import (
	"context"
	"log/slog"
	"testing"
)

// restoreDefault keeps the process-wide logger stable across tests.
func restoreDefault(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestInstrumentFormats(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		exporter string
		wantErr  bool
	}{
		{name: "text", format: "text"},
		{name: "json", format: "json"},
		{name: "otel stdout", format: "otel", exporter: "stdout"},
		{name: "unknown format", format: "xml", wantErr: true},
		{name: "unknown exporter", format: "otel", exporter: "carrier-pigeon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreDefault(t)

			shutdown, err := Instrument(context.Background(), slog.LevelInfo, tt.format, tt.exporter)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Instrument: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Errorf("shutdown: %v", err)
			}
		})
	}
}

func TestSeverityMapping(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "debug"},
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
	}

	// Distinct severities per level is all that matters here.
	seen := make(map[any]string)
	for _, tt := range tests {
		sev := severity(tt.level)
		if prev, dup := seen[sev]; dup {
			t.Errorf("severity for %s collides with %s", tt.want, prev)
		}
		seen[sev] = tt.want
	}
}
