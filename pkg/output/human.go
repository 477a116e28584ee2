package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/sdejongh/deconflict/pkg/models"
	"github.com/sdejongh/deconflict/pkg/resolve"
)

// maxSkippedShown caps how many skip records are listed in the summary
const maxSkippedShown = 5

// Printer renders scan and resolution output in human-readable form
type Printer struct {
	writer        io.Writer
	verbose       bool
	showIdentical bool
	dryRun        bool

	identical *color.Color
	different *color.Color
	warning   *color.Color
}

// NewPrinter creates a printer for the given writer
func NewPrinter(w io.Writer, verbose, showIdentical, dryRun bool) *Printer {
	return &Printer{
		writer:        w,
		verbose:       verbose,
		showIdentical: showIdentical,
		dryRun:        dryRun,
		identical:     color.New(color.FgGreen),
		different:     color.New(color.FgRed),
		warning:       color.New(color.FgYellow),
	}
}

// ScanHeader introduces a scan run
func (p *Printer) ScanHeader(root string, recursive bool, method models.Method, willConfirm bool) {
	mode := "non-recursively"
	if recursive {
		mode = "recursively"
	}
	fmt.Fprintf(p.writer, "Scanning %s in: %s\n", mode, root)
	fmt.Fprintf(p.writer, "Using comparison method: %s\n", method)
	if willConfirm {
		fmt.Fprintln(p.writer, "Will ask for confirmation before deleting identical files")
	}
	fmt.Fprintln(p.writer)
}

// NoPairs reports an empty scan
func (p *Printer) NoPairs() {
	fmt.Fprintln(p.writer, "No conflicted file pairs found.")
}

// PairsFound reports how many pairs the scan produced
func (p *Printer) PairsFound(count int) {
	fmt.Fprintf(p.writer, "Found %d conflicted file pair(s)\n\n", count)
}

// PairIdentical reports an identical pair
func (p *Printer) PairIdentical(result *models.ComparisonResult) {
	if !p.showIdentical && !p.verbose {
		return
	}
	fmt.Fprintf(p.writer, "%s %s\n", p.identical.Sprint("✓ IDENTICAL:"), baseName(result.OriginalPath))
	if p.verbose {
		fmt.Fprintf(p.writer, "  Original:    %s\n", result.OriginalPath)
		fmt.Fprintf(p.writer, "  Conflicted:  %s\n", result.ConflictedPath)
		fmt.Fprintf(p.writer, "  Size:        %s\n", formatBytes(result.OriginalSize))
		fmt.Fprintf(p.writer, "  Modified:    Original: %s\n", result.OriginalModTime.Format(time.RFC3339))
		fmt.Fprintf(p.writer, "               Conflicted: %s\n", result.ConflictedModTime.Format(time.RFC3339))
		if result.OriginalHash != "" {
			fmt.Fprintf(p.writer, "  Hash:        %s\n", result.OriginalHash)
		}
	}
}

// PairDifferent reports a content-differing pair
func (p *Printer) PairDifferent(result *models.ComparisonResult) {
	fmt.Fprintf(p.writer, "%s %s\n", p.different.Sprint("✗ DIFFERENT:"), baseName(result.OriginalPath))
	if p.verbose {
		fmt.Fprintf(p.writer, "  Original:    %s (%s)\n", result.OriginalPath, formatBytes(result.OriginalSize))
		fmt.Fprintf(p.writer, "  Conflicted:  %s (%s)\n", result.ConflictedPath, formatBytes(result.ConflictedSize))
		fmt.Fprintf(p.writer, "  Modified:    Original: %s\n", result.OriginalModTime.Format(time.RFC3339))
		fmt.Fprintf(p.writer, "               Conflicted: %s\n", result.ConflictedModTime.Format(time.RFC3339))
		fmt.Fprintf(p.writer, "  Reason:      %s\n", result.Reason)
		if result.OriginalHash != "" {
			fmt.Fprintf(p.writer, "  Original hash:    %s\n", result.OriginalHash)
			fmt.Fprintf(p.writer, "  Conflicted hash:  %s\n", result.ConflictedHash)
		}
		fmt.Fprintln(p.writer)
	}
}

// DeletePlan reports an identical pair whose conflicted copy is up for
// deletion (or would be, in dry-run mode)
func (p *Printer) DeletePlan(result *models.ComparisonResult) {
	verb := "deleting"
	if p.dryRun {
		verb = "would delete"
	}
	fmt.Fprintln(p.writer, "  → The two files")
	fmt.Fprintf(p.writer, "      %s\n", result.OriginalPath)
	fmt.Fprintf(p.writer, "      %s\n", result.ConflictedPath)
	fmt.Fprintf(p.writer, "    are identical, %s\n", verb)
	fmt.Fprintf(p.writer, "      %s\n", result.ConflictedPath)
}

// DeleteDone confirms a successful deletion
func (p *Printer) DeleteDone() {
	fmt.Fprintf(p.writer, "    %s\n", p.identical.Sprint("✓ Deleted successfully"))
}

// DeleteError reports a failed deletion
func (p *Printer) DeleteError(result *models.ComparisonResult, err error) {
	fmt.Fprintf(p.writer, "  → %s\n", p.different.Sprintf("Error deleting %s: %v", result.ConflictedPath, err))
}

// DeleteSkipped reports a declined deletion
func (p *Printer) DeleteSkipped() {
	fmt.Fprintln(p.writer, "  → Skipped deletion")
}

// CompareError reports a pair that could not be compared
func (p *Printer) CompareError(pair models.ConflictPair, err error) {
	fmt.Fprintf(p.writer, "%s\n", p.different.Sprintf("Error comparing %s and %s: %v", pair.OriginalPath, pair.ConflictedPath, err))
}

// Warning surfaces a non-fatal problem
func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintf(p.writer, "%s\n", p.warning.Sprintf("Warning: "+format, args...))
}

// ExcludedDirs reports directories pruned by the boundary classifier
func (p *Printer) ExcludedDirs(excluded []models.ExcludedDir) {
	for _, dir := range excluded {
		fmt.Fprintf(p.writer, "Skipping %s: %s\n", dir.Reason, dir.Path)
	}
}

// SkippedSummary reports paths the scanner could not process, capped at
// the first few entries
func (p *Printer) SkippedSummary(skipped []models.SkipRecord) {
	if len(skipped) == 0 {
		return
	}

	fmt.Fprintf(p.writer, "Skipped %d path(s) due to errors\n", len(skipped))
	shown := skipped
	if len(skipped) > maxSkippedShown {
		fmt.Fprintf(p.writer, "  (showing first %d of %d)\n", maxSkippedShown, len(skipped))
		shown = skipped[:maxSkippedShown]
	}
	for _, skip := range shown {
		fmt.Fprintf(p.writer, "  - %s: %s\n", skip.Path, skip.Message)
	}
}

// LedgerSummary reports the post-merge ledger state
func (p *Printer) LedgerSummary(path string, active, resolved int) {
	fmt.Fprintf(p.writer, "\nConflict tracking updated in: %s\n", path)
	fmt.Fprintf(p.writer, "  Active conflicts: %d\n", active)
	if resolved > 0 {
		fmt.Fprintf(p.writer, "  Resolved conflicts: %d\n", resolved)
	}
}

// Summary renders the run epilogue
func (p *Printer) Summary(report *models.ScanReport) {
	fmt.Fprintf(p.writer, "\n%s\n", strings.Repeat("=", 50))
	fmt.Fprintln(p.writer, "SUMMARY:")
	fmt.Fprintf(p.writer, "Total conflicted pairs found: %d\n", report.PairsFound)
	fmt.Fprintf(p.writer, "Identical files: %d\n", report.IdenticalCount)
	fmt.Fprintf(p.writer, "Different files: %d\n", report.DifferentCount)
	if report.ErrorCount > 0 {
		fmt.Fprintf(p.writer, "Comparison errors: %d\n", report.ErrorCount)
	}

	if len(report.Deleted) > 0 {
		verb := "Deleted"
		if report.DryRun {
			verb = "Would delete"
		}
		fmt.Fprintf(p.writer, "\n%s %d identical conflicted file(s)\n", verb, len(report.Deleted))
	}

	if report.IdenticalCount > 0 && !report.AutoDelete && !report.DryRun && len(report.Deleted) < report.IdenticalCount {
		fmt.Fprintln(p.writer, "\nTip: Use --auto-delete to automatically delete identical conflicted files")
	}

	if report.ActiveConflicts > 0 {
		fmt.Fprintf(p.writer, "\nFiles requiring manual review are tracked in: %s\n", report.LedgerPath)
		fmt.Fprintln(p.writer, "The file contains all active conflicts from this and previous runs.")
		fmt.Fprintln(p.writer, "Resolved conflicts are marked but kept for history.")
	}
}

// Present introduces a conflict during interactive resolution.
// Implements resolve.Presenter.
func (p *Printer) Present(index, total int, result *models.ComparisonResult) {
	fmt.Fprintf(p.writer, "\n[%d/%d] %s\n", index, total, p.different.Sprint(baseName(result.OriginalPath)))
	fmt.Fprintf(p.writer, "  Original:    %s (%s, modified %s)\n",
		result.OriginalPath, formatBytes(result.OriginalSize), result.OriginalModTime.Format(time.RFC3339))
	fmt.Fprintf(p.writer, "  Conflicted:  %s (%s, modified %s)\n",
		result.ConflictedPath, formatBytes(result.ConflictedSize), result.ConflictedModTime.Format(time.RFC3339))
	if p.dryRun {
		fmt.Fprintln(p.writer, "  Available actions:")
		fmt.Fprintf(p.writer, "    keep-original:   would delete %s\n", result.ConflictedPath)
		fmt.Fprintf(p.writer, "    keep-conflicted: would replace %s with %s\n", result.OriginalPath, result.ConflictedPath)
	}
}

// ShowDiff renders a content diff of the pair. Implements resolve.Presenter.
func (p *Printer) ShowDiff(result *models.ComparisonResult) error {
	return WriteDiff(p.writer, result.OriginalPath, result.ConflictedPath)
}

// OpenExternal opens both files in the default application.
// Implements resolve.Presenter.
func (p *Printer) OpenExternal(result *models.ComparisonResult) error {
	if err := resolve.OpenInDefaultApp(result.OriginalPath); err != nil {
		return err
	}
	return resolve.OpenInDefaultApp(result.ConflictedPath)
}

// Report announces the outcome of an applied decision.
// Implements resolve.Presenter.
func (p *Printer) Report(result *models.ComparisonResult, action resolve.Decision, err error) {
	if err != nil {
		fmt.Fprintf(p.writer, "  %s\n", p.different.Sprintf("✗ %s failed: %v", action, err))
		return
	}

	switch action {
	case resolve.KeepOriginal:
		fmt.Fprintf(p.writer, "  %s\n", p.identical.Sprintf("✓ Kept original, deleted %s", result.ConflictedPath))
	case resolve.KeepConflicted:
		fmt.Fprintf(p.writer, "  %s\n", p.identical.Sprintf("✓ Kept conflicted copy as %s", result.OriginalPath))
	}
}

func baseName(path string) string {
	return filepath.Base(path)
}
