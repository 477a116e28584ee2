package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sdejongh/deconflict/pkg/compare"
	"github.com/sdejongh/deconflict/pkg/config"
	"github.com/sdejongh/deconflict/pkg/models"
	"github.com/sdejongh/deconflict/pkg/output"
)

// writePair creates an original/conflicted file pair on disk
func writePair(t *testing.T, dir, name, original, conflicted string) models.ConflictPair {
	t.Helper()

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	pair := models.ConflictPair{
		OriginalPath:   filepath.Join(dir, name),
		ConflictedPath: filepath.Join(dir, stem+" [conflicted]"+ext),
	}
	if err := os.WriteFile(pair.OriginalPath, []byte(original), 0644); err != nil {
		t.Fatalf("failed to write original: %v", err)
	}
	if err := os.WriteFile(pair.ConflictedPath, []byte(conflicted), 0644); err != nil {
		t.Fatalf("failed to write conflicted: %v", err)
	}
	return pair
}

// TestCompareAllReportsDiffering verifies that every content-differing
// pair is named in the output as it is found
func TestCompareAllReportsDiffering(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "deconflict-cli-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	pairs := []models.ConflictPair{
		writePair(t, tmpDir, "same.txt", "hello world", "hello world"),
		writePair(t, tmpDir, "doc.txt", "version one", "version two"),
	}

	cfg := config.Default()
	cfg.Output.Progress = false

	comparator, err := compare.New(cfg.Compare.Method, cfg.Compare.BufferSize)
	if err != nil {
		t.Fatalf("failed to create comparator: %v", err)
	}

	t.Run("Normal", func(t *testing.T) {
		var buf bytes.Buffer
		printer := output.NewPrinter(&buf, false, false, false)
		report := &models.ScanReport{}

		identical, differing := compareAll(context.Background(), comparator, pairs, cfg, printer, report, zerolog.Nop())
		if len(identical) != 1 || len(differing) != 1 {
			t.Fatalf("expected 1 identical and 1 differing, got %d and %d", len(identical), len(differing))
		}

		out := buf.String()
		if !strings.Contains(out, "DIFFERENT: doc.txt") {
			t.Errorf("differing pair not reported in output:\n%s", out)
		}
		if strings.Contains(out, "same.txt") {
			t.Errorf("identical pair should not be reported during comparison:\n%s", out)
		}
	})

	t.Run("Quiet", func(t *testing.T) {
		quiet := *cfg
		quiet.Output.Quiet = true

		var buf bytes.Buffer
		printer := output.NewPrinter(&buf, false, false, false)
		report := &models.ScanReport{}

		compareAll(context.Background(), comparator, pairs, &quiet, printer, report, zerolog.Nop())
		if strings.Contains(buf.String(), "DIFFERENT") {
			t.Errorf("quiet mode should suppress per-pair output, got:\n%s", buf.String())
		}
	})
}
