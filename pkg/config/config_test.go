package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sdejongh/deconflict/pkg/models"
)

// TestDefault verifies the default configuration is valid
func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() is invalid: %v", err)
	}

	if cfg.Compare.Method != models.MethodHash {
		t.Errorf("default method = %s, want hash", cfg.Compare.Method)
	}
	if cfg.Scan.Recursive {
		t.Error("default should not be recursive")
	}
	if cfg.Ledger.Path == "" {
		t.Error("default ledger path is empty")
	}
}

// TestValidate exercises the validation rules
func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"BadMethod", func(c *Config) { c.Compare.Method = "md5" }},
		{"TinyBuffer", func(c *Config) { c.Compare.BufferSize = 10 }},
		{"EmptyLedgerPath", func(c *Config) { c.Ledger.Path = "" }},
		{"NegativeTimeout", func(c *Config) { c.Scan.MountTimeout = -time.Second }},
		{"BadLogLevel", func(c *Config) { c.Logging.Level = "chatty" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

// TestSaveLoadRoundTrip verifies YAML persistence
func TestSaveLoadRoundTrip(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "deconflict-config-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Scan.Recursive = true
	cfg.Compare.Method = models.MethodByte
	cfg.CloudFolders = []string{"MyCloud*"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !loaded.Scan.Recursive {
		t.Error("recursive flag lost in round trip")
	}
	if loaded.Compare.Method != models.MethodByte {
		t.Errorf("method = %s, want byte", loaded.Compare.Method)
	}
	if len(loaded.CloudFolders) != 1 || loaded.CloudFolders[0] != "MyCloud*" {
		t.Errorf("cloud folders = %v, want [MyCloud*]", loaded.CloudFolders)
	}
}

// TestLoadPartialFile verifies unspecified settings keep their defaults
func TestLoadPartialFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "deconflict-config-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "config.yaml")
	partial := "scan:\n  recursive: true\n"
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Scan.Recursive {
		t.Error("recursive not read from file")
	}
	if cfg.Compare.Method != models.MethodHash {
		t.Errorf("method = %s, want default hash", cfg.Compare.Method)
	}
	if cfg.Compare.BufferSize != 65536 {
		t.Errorf("buffer size = %d, want default 65536", cfg.Compare.BufferSize)
	}
}

// TestLoadInvalid verifies malformed and invalid files are rejected
func TestLoadInvalid(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "deconflict-config-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	t.Run("BadYAML", func(t *testing.T) {
		path := filepath.Join(tempDir, "bad.yaml")
		if err := os.WriteFile(path, []byte(":\n\t- nope"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Load() should fail for malformed YAML")
		}
	})

	t.Run("FailsValidation", func(t *testing.T) {
		path := filepath.Join(tempDir, "invalid.yaml")
		if err := os.WriteFile(path, []byte("compare:\n  method: md5\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Load() should fail for an unsupported method")
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if _, err := Load(filepath.Join(tempDir, "absent.yaml")); err == nil {
			t.Error("Load() should fail for a missing file")
		}
	})
}
