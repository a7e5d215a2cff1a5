package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/solostack/solostack/internal/migration"
)

// LogFormat represents the logging output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
	LogFormatOTel LogFormat = "otel"
)

// LogExporter selects where otel-format logs are exported.
type LogExporter string

const (
	LogExporterStdout   LogExporter = "stdout"
	LogExporterOTLPHTTP LogExporter = "otlp-http"
	LogExporterOTLPGRPC LogExporter = "otlp-grpc"
)

// Default configuration values
const (
	DefaultConfigLogFormat        = LogFormatText
	DefaultConfigLogExporter      = LogExporterStdout
	DefaultConfigServerHost       = "127.0.0.1"
	DefaultConfigServerPort       = 4617
	DefaultConfigShutdownTimeout  = 5 * time.Second
	DefaultConfigCurrentBundleID  = "com.solostack.app"
	DefaultConfigLegacyBundleID   = "com.solostack.desktop"
	DefaultConfigDatabaseFilename = "solostack.db"
	DefaultConfigMarkerFilename   = "migration-marker.json"
)

// ServerConfig holds the loopback IPC server configuration.
type ServerConfig struct {
	Host string `json:"host" validate:"hostname_rfc1123|ip"`
	Port uint16 `json:"port"` // Port range 0-65535 handled by uint16 type
}

// ShutdownConfig holds shutdown behavior configuration.
type ShutdownConfig struct {
	// Timeout for graceful shutdown.
	Timeout time.Duration `json:"timeout"`
}

// DataConfig locates the installation's data directory and the files the
// startup migration manages. The bundle identifiers are configuration, not
// secrets: the current one names this installation, the legacy one names the
// prior installation whose data directory is probed at startup.
type DataConfig struct {
	// Dir is the data directory. Defaults to the per-user configuration
	// directory qualified by the current bundle identifier.
	Dir              string `json:"dir"`
	CurrentBundleID  string `json:"current_bundle_id" validate:"required"`
	LegacyBundleID   string `json:"legacy_bundle_id" validate:"required"`
	DatabaseFilename string `json:"database_filename" validate:"required"`
	MarkerFilename   string `json:"marker_filename" validate:"required"`
}

// SecureStoreConfig holds secure-storage addressing configuration.
type SecureStoreConfig struct {
	// Service is the service identifier credentials are stored under.
	Service string `json:"service" validate:"required"`
}

// Config holds the application's configuration.
type Config struct {
	// LogLevel for logging output (defaults to Info if unset).
	LogLevel    slog.Level        `json:"log_level"`
	LogFormat   LogFormat         `json:"log_format" validate:"oneof=text json otel"`
	LogExporter LogExporter       `json:"log_exporter" validate:"oneof=stdout otlp-http otlp-grpc"`
	Server      ServerConfig      `json:"server"`
	Shutdown    ShutdownConfig    `json:"shutdown"`
	Data        DataConfig        `json:"data"`
	SecureStore SecureStoreConfig `json:"secure_store"`
}

// Default creates a new Config with default values applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset config fields with sensible defaults.
func (c *Config) ApplyDefaults() error {
	if c.LogFormat == "" {
		c.LogFormat = DefaultConfigLogFormat
	}
	if c.LogExporter == "" {
		c.LogExporter = DefaultConfigLogExporter
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultConfigServerHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultConfigServerPort
	}
	if c.Shutdown.Timeout == 0 {
		c.Shutdown.Timeout = DefaultConfigShutdownTimeout
	}
	if c.Data.CurrentBundleID == "" {
		c.Data.CurrentBundleID = DefaultConfigCurrentBundleID
	}
	if c.Data.LegacyBundleID == "" {
		c.Data.LegacyBundleID = DefaultConfigLegacyBundleID
	}
	if c.Data.DatabaseFilename == "" {
		c.Data.DatabaseFilename = DefaultConfigDatabaseFilename
	}
	if c.Data.MarkerFilename == "" {
		c.Data.MarkerFilename = DefaultConfigMarkerFilename
	}

	// Dynamic defaults derived from the identifiers above
	if c.Data.Dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("data.dir required (auto-detect failed: %w)", err)
		}
		c.Data.Dir = filepath.Join(configDir, c.Data.CurrentBundleID)
	}
	if c.SecureStore.Service == "" {
		c.SecureStore.Service = c.Data.CurrentBundleID
	}

	return nil
}

// Validate validates the configuration using struct tags and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Data.Dir == "" {
		return errors.New("data.dir required")
	}

	// A legacy identifier equal to the current one would make the migration
	// copy the database onto itself
	if c.Data.LegacyBundleID == c.Data.CurrentBundleID {
		return errors.New("data.legacy_bundle_id must differ from data.current_bundle_id")
	}

	return nil
}

// MigrationConfig maps the data section onto the migration engine's config.
func (c *Config) MigrationConfig() migration.Config {
	return migration.Config{
		CurrentBundleID:  c.Data.CurrentBundleID,
		LegacyBundleID:   c.Data.LegacyBundleID,
		DatabaseFilename: c.Data.DatabaseFilename,
		MarkerFilename:   c.Data.MarkerFilename,
	}
}
