// =============================================================================
// fxexport - Configuration Module
// =============================================================================
//
// Loads and validates the application configuration. Everything lives in one
// YAML file, loaded once at startup; missing required keys are a fatal
// startup error so a misconfigured install never reaches the store.
//
// CONFIGURATION SECTIONS:
//   store     - Firebird connection parameters
//   transport - FTP endpoint and credentials
//   export    - export root, archival, schema version, country markers
//   log       - log level
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Transport TransportConfig `yaml:"transport"`
	Export    ExportConfig    `yaml:"export"`
	Log       LogConfig       `yaml:"log"`
}

// StoreConfig holds the Firebird connection parameters.
type StoreConfig struct {
	// Host is the database server host. Default: "localhost".
	Host string `yaml:"host"`

	// Port is the database server port. Default: 3050.
	Port int `yaml:"port"`

	// Database is the database path or alias on the server. Required.
	Database string `yaml:"database"`

	// User and Password are the store credentials. User is required.
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// TransportConfig holds the FTP upload endpoint.
type TransportConfig struct {
	// Host is the collection server host. Required for sending.
	Host string `yaml:"host"`

	// Port is the FTP control port. Default: 21.
	Port int `yaml:"port"`

	// User and Password are the FTP credentials.
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// RemoteDir is the remote directory artifacts are stored into.
	// Empty means the login directory.
	RemoteDir string `yaml:"remote_dir"`

	// TimeoutSeconds bounds the dial and transfer handshakes. Default: 30.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// ExportConfig holds the report generation settings.
type ExportConfig struct {
	// RootDir is the directory artifacts are written to. Default: "./export".
	RootDir string `yaml:"root_dir"`

	// ArchiveDir is where uploaded artifacts are moved. Empty disables
	// archival.
	ArchiveDir string `yaml:"archive_dir"`

	// ArchiveByDate creates date-based subdirectories in the archive.
	ArchiveByDate bool `yaml:"archive_by_date"`

	// FileSuffix is an optional business suffix for artifact names
	// (e.g. a branch code).
	FileSuffix string `yaml:"file_suffix"`

	// SchemaVersion selects the report schema (1, 2 or 3). Default: 3.
	SchemaVersion int `yaml:"schema_version"`

	// DomesticMarker is the substring identifying domestic seller
	// documents. Default: "BIH".
	DomesticMarker string `yaml:"domestic_marker"`

	// ForeignMarker is the literal emitted for non-domestic sellers.
	// Default: "K".
	ForeignMarker string `yaml:"foreign_marker"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	// Level controls verbosity: "debug", "info", "warn" or "error".
	// Default: "info".
	Level string `yaml:"level"`
}

// Timeout returns the transport timeout as a duration.
func (t TransportConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads, defaults and validates the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset options.
func applyDefaults(cfg *Config) {
	if cfg.Store.Host == "" {
		cfg.Store.Host = "localhost"
	}
	if cfg.Store.Port == 0 {
		cfg.Store.Port = 3050
	}
	if cfg.Transport.Port == 0 {
		cfg.Transport.Port = 21
	}
	if cfg.Transport.TimeoutSeconds == 0 {
		cfg.Transport.TimeoutSeconds = 30
	}
	if cfg.Export.RootDir == "" {
		cfg.Export.RootDir = "./export"
	}
	if cfg.Export.SchemaVersion == 0 {
		cfg.Export.SchemaVersion = 3
	}
	if cfg.Export.DomesticMarker == "" {
		cfg.Export.DomesticMarker = "BIH"
	}
	if cfg.Export.ForeignMarker == "" {
		cfg.Export.ForeignMarker = "K"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// validate rejects configurations missing required keys.
func validate(cfg *Config) error {
	if cfg.Store.Database == "" {
		return fmt.Errorf("store.database is required")
	}
	if cfg.Store.User == "" {
		return fmt.Errorf("store.user is required")
	}
	if cfg.Export.SchemaVersion < 1 || cfg.Export.SchemaVersion > 3 {
		return fmt.Errorf("export.schema_version must be 1, 2 or 3")
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}
