package config

import (
	"time"

	"github.com/sdejongh/deconflict/pkg/ledger"
	"github.com/sdejongh/deconflict/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Scan         ScanConfig    `yaml:"scan"`
	Compare      CompareConfig `yaml:"compare"`
	Ledger       LedgerConfig  `yaml:"ledger"`
	Output       OutputConfig  `yaml:"output"`
	Logging      LoggingConfig `yaml:"logging"`
	CloudFolders []string      `yaml:"cloud_folders"`
}

// ScanConfig holds traversal-related settings
type ScanConfig struct {
	Recursive          bool          `yaml:"recursive"`
	CrossDevice        bool          `yaml:"cross_device"`
	IncludeLocalMounts bool          `yaml:"include_local_mounts"`
	MountTimeout       time.Duration `yaml:"mount_timeout"`
}

// CompareConfig holds comparison-related settings
type CompareConfig struct {
	Method     models.Method `yaml:"method"`
	BufferSize int           `yaml:"buffer_size"`
}

// LedgerConfig holds conflict-ledger settings
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Progress      bool `yaml:"progress"`       // Show live scan progress
	ShowIdentical bool `yaml:"show_identical"` // Also report identical pairs
	Quiet         bool `yaml:"quiet"`          // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Level      string `yaml:"level"` // "debug", "info", "warn", "error"
	File       string `yaml:"file"`  // Log file path (empty = console only)
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Recursive:          false,
			CrossDevice:        false,
			IncludeLocalMounts: false,
			MountTimeout:       5 * time.Second,
		},
		Compare: CompareConfig{
			Method:     models.MethodHash,
			BufferSize: 65536,
		},
		Ledger: LedgerConfig{
			Path: ledger.DefaultPath,
		},
		Output: OutputConfig{
			Progress:      true,
			ShowIdentical: false,
			Quiet:         false,
		},
		Logging: LoggingConfig{
			Enabled:    false,
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		CloudFolders: nil,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !c.Compare.Method.Valid() {
		return &models.ValidationError{
			Field:   "compare.method",
			Message: "must be 'hash' or 'byte'",
		}
	}

	if c.Compare.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "compare.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if c.Ledger.Path == "" {
		return &models.ValidationError{
			Field:   "ledger.path",
			Message: "must not be empty",
		}
	}

	if c.Scan.MountTimeout < 0 {
		return &models.ValidationError{
			Field:   "scan.mount_timeout",
			Message: "must not be negative",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
