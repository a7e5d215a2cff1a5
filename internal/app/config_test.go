package app

import (
	"strings"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ApplyDefaults(); err != nil {
		t.Fatalf("ApplyDefaults: %v", err)
	}

	if cfg.LogFormat != DefaultConfigLogFormat {
		t.Errorf("log format = %q", cfg.LogFormat)
	}
	if cfg.Server.Host != DefaultConfigServerHost || cfg.Server.Port != DefaultConfigServerPort {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Data.CurrentBundleID != DefaultConfigCurrentBundleID {
		t.Errorf("current bundle id = %q", cfg.Data.CurrentBundleID)
	}
	if cfg.Data.LegacyBundleID != DefaultConfigLegacyBundleID {
		t.Errorf("legacy bundle id = %q", cfg.Data.LegacyBundleID)
	}
	if cfg.Data.DatabaseFilename != DefaultConfigDatabaseFilename {
		t.Errorf("database filename = %q", cfg.Data.DatabaseFilename)
	}
	if !strings.HasSuffix(cfg.Data.Dir, cfg.Data.CurrentBundleID) {
		t.Errorf("data dir %q should be qualified by the bundle id", cfg.Data.Dir)
	}
	if cfg.SecureStore.Service != cfg.Data.CurrentBundleID {
		t.Errorf("secure store service = %q, want bundle id default", cfg.SecureStore.Service)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Data.Dir = "/custom/data"
	cfg.Data.CurrentBundleID = "org.example.app"
	cfg.SecureStore.Service = "org.example.vault"
	if err := cfg.ApplyDefaults(); err != nil {
		t.Fatalf("ApplyDefaults: %v", err)
	}

	if cfg.Data.Dir != "/custom/data" {
		t.Errorf("data dir = %q", cfg.Data.Dir)
	}
	if cfg.SecureStore.Service != "org.example.vault" {
		t.Errorf("service = %q", cfg.SecureStore.Service)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: true,
		},
		{
			name:    "bad log exporter",
			mutate:  func(c *Config) { c.LogExporter = "carrier-pigeon" },
			wantErr: true,
		},
		{
			name:    "bad host",
			mutate:  func(c *Config) { c.Server.Host = "not a host!" },
			wantErr: true,
		},
		{
			name:    "identical bundle ids",
			mutate:  func(c *Config) { c.Data.LegacyBundleID = c.Data.CurrentBundleID },
			wantErr: true,
		},
		{
			name:    "missing data dir",
			mutate:  func(c *Config) { c.Data.Dir = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			if err != nil {
				t.Fatalf("Default: %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestMigrationConfig(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	mc := cfg.MigrationConfig()
	if mc.CurrentBundleID != cfg.Data.CurrentBundleID ||
		mc.LegacyBundleID != cfg.Data.LegacyBundleID ||
		mc.DatabaseFilename != cfg.Data.DatabaseFilename ||
		mc.MarkerFilename != cfg.Data.MarkerFilename {
		t.Errorf("MigrationConfig = %+v does not mirror data config %+v", mc, cfg.Data)
	}
}
