package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sdejongh/deconflict/pkg/config"
	"github.com/sdejongh/deconflict/pkg/models"
)

// validateScanRoot checks that the scan root exists and is a directory,
// returning its absolute path
func validateScanRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("directory does not exist: %s", abs)
	}
	if err != nil {
		return "", fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}

	return abs, nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.Load(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyScanFlags overrides config values with command-line flags. Only
// flags the user actually set take precedence over the file.
func applyScanFlags(cfg *config.Config, flags *ScanFlags, changed func(name string) bool) error {
	if changed("recursive") {
		cfg.Scan.Recursive = flags.Recursive
	}
	if changed("cross-device") {
		cfg.Scan.CrossDevice = flags.CrossDevice
	}
	if changed("include-local-mounts") {
		cfg.Scan.IncludeLocalMounts = flags.IncludeLocalMounts
	}
	if changed("method") {
		cfg.Compare.Method = models.Method(flags.Method)
	}
	if changed("output") {
		cfg.Ledger.Path = flags.Output
	}
	if changed("show-identical") {
		cfg.Output.ShowIdentical = flags.ShowIdentical
	}
	if flags.NoProgress {
		cfg.Output.Progress = false
	}
	if changed("log-file") {
		cfg.Logging.Enabled = true
		cfg.Logging.File = flags.LogFile
	}
	if changed("log-level") {
		cfg.Logging.Level = flags.LogLevel
	}

	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	if !cfg.Compare.Method.Valid() {
		return fmt.Errorf("invalid comparison method: %s (valid: hash, byte)", cfg.Compare.Method)
	}

	return cfg.Validate()
}
