package cli

import (
	"bytes"
	"strings"
	"testing"
)

// TestVersionCommand verifies the version command renders the build
// variables that ldflags inject
func TestVersionCommand(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	Version, Commit, BuildDate = "1.2.3", "abc1234", "2026-08-29"
	defer func() {
		Version, Commit, BuildDate = origVersion, origCommit, origDate
	}()

	t.Run("Full", func(t *testing.T) {
		var buf bytes.Buffer
		cmd := NewVersionCommand()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("version command failed: %v", err)
		}

		out := buf.String()
		for _, want := range []string{"deconflict 1.2.3", "abc1234", "2026-08-29"} {
			if !strings.Contains(out, want) {
				t.Errorf("version output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("Short", func(t *testing.T) {
		var buf bytes.Buffer
		cmd := NewVersionCommand()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--short"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("version command failed: %v", err)
		}
		if got := strings.TrimSpace(buf.String()); got != "1.2.3" {
			t.Errorf("expected bare version number, got %q", got)
		}
	})
}
