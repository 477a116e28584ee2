package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sdejongh/deconflict/pkg/compare"
	"github.com/sdejongh/deconflict/pkg/config"
	"github.com/sdejongh/deconflict/pkg/ledger"
	"github.com/sdejongh/deconflict/pkg/logging"
	"github.com/sdejongh/deconflict/pkg/models"
	"github.com/sdejongh/deconflict/pkg/output"
	"github.com/sdejongh/deconflict/pkg/resolve"
	"github.com/sdejongh/deconflict/pkg/scan"
)

// ScanFlags holds scan command flags
type ScanFlags struct {
	Recursive          bool
	Method             string
	ShowIdentical      bool
	AutoDelete         bool
	Output             string
	DryRun             bool
	NoProgress         bool
	CrossDevice        bool
	IncludeLocalMounts bool
	Resolve            bool
	// Logging flags
	LogFile  string
	LogLevel string
}

var scanFlags ScanFlags

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan PATH",
		Short: "Find and clean up conflicted file copies",
		Long: `Scan a directory for cloud-sync conflict pairs: an original file next
to a copy whose name carries the " [conflicted]" marker. Identical copies
are deleted (after confirmation); differing pairs are recorded in a JSON
ledger for manual review.`,
		Args: cobra.ExactArgs(1),
		RunE: runScan,
	}

	cmd.Flags().BoolVarP(&scanFlags.Recursive, "recursive", "r", false, "scan subdirectories recursively")
	cmd.Flags().StringVarP(&scanFlags.Method, "method", "m", "hash", "comparison method: hash, byte")
	cmd.Flags().BoolVar(&scanFlags.ShowIdentical, "show-identical", false, "report identical pairs, not only differing ones")
	cmd.Flags().BoolVarP(&scanFlags.AutoDelete, "auto-delete", "y", false, "delete identical conflicted copies without confirmation")
	cmd.Flags().StringVarP(&scanFlags.Output, "output", "o", ledger.DefaultPath, "conflict ledger file path")
	cmd.Flags().BoolVar(&scanFlags.DryRun, "dry-run", false, "report what would be done without deleting anything")
	cmd.Flags().BoolVar(&scanFlags.NoProgress, "no-progress", false, "disable the live scan progress line")
	cmd.Flags().BoolVar(&scanFlags.CrossDevice, "cross-device", false, "descend into mount points and cloud folders")
	cmd.Flags().BoolVar(&scanFlags.IncludeLocalMounts, "include-local-mounts", false, "cross onto local devices but still skip cloud folders")
	cmd.Flags().BoolVar(&scanFlags.Resolve, "resolve", false, "interactively resolve differing pairs after the scan")

	// Logging flags
	cmd.Flags().StringVar(&scanFlags.LogFile, "log-file", "", "write structured logs to file (enables logging)")
	cmd.Flags().StringVar(&scanFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rootPath, err := validateScanRoot(args[0])
	if err != nil {
		return err
	}

	// Load configuration and apply flag overrides
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyScanFlags(cfg, &scanFlags, cmd.Flags().Changed); err != nil {
		return err
	}

	logger, err := createLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	runID := uuid.New().String()
	logger = logger.With().Str("run_id", runID).Logger()

	report := &models.ScanReport{
		RunID:      runID,
		RootPath:   rootPath,
		Recursive:  cfg.Scan.Recursive,
		Method:     cfg.Compare.Method,
		DryRun:     scanFlags.DryRun,
		AutoDelete: scanFlags.AutoDelete,
		StartTime:  time.Now(),
	}

	logger.Info().
		Str("root", rootPath).
		Bool("recursive", cfg.Scan.Recursive).
		Str("method", string(cfg.Compare.Method)).
		Bool("dry_run", scanFlags.DryRun).
		Msg("scan started")

	willConfirm := !scanFlags.DryRun && !scanFlags.AutoDelete
	printer := output.NewPrinter(os.Stdout, globalFlags.Verbose, cfg.Output.ShowIdentical, scanFlags.DryRun)
	if !cfg.Output.Quiet {
		printer.ScanHeader(rootPath, cfg.Scan.Recursive, cfg.Compare.Method, willConfirm)
	}

	// Discover conflict pairs
	lister := scan.NewSystemLister(cfg.Scan.MountTimeout, cfg.CloudFolders)
	scanner := scan.NewScanner(lister)
	scanner.SetLogger(logger)

	var liveProgress *output.ScanProgress
	if cfg.Output.Progress && output.IsTerminal(os.Stdout) {
		liveProgress = output.NewScanProgress(os.Stdout)
		scanner.SetProgressCallback(liveProgress.Update)
	}

	result, err := scanner.Scan(ctx, rootPath, scan.Options{
		Recursive:          cfg.Scan.Recursive,
		CrossDevice:        cfg.Scan.CrossDevice,
		IncludeLocalMounts: cfg.Scan.IncludeLocalMounts,
	})
	if liveProgress != nil {
		liveProgress.Clear()
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	report.DirsVisited = result.DirsVisited
	report.FilesVisited = result.FilesVisited
	report.PairsFound = len(result.Pairs)
	report.Skipped = result.Skipped
	report.Excluded = result.Excluded

	logger.Info().
		Int("dirs", result.DirsVisited).
		Int("files", result.FilesVisited).
		Int("pairs", len(result.Pairs)).
		Int("excluded_dirs", len(result.Excluded)).
		Msg("traversal complete")

	if !cfg.Output.Quiet {
		printer.ExcludedDirs(result.Excluded)
	}

	if len(result.Pairs) == 0 {
		if !cfg.Output.Quiet {
			printer.NoPairs()
		}
		return finishScan(cfg, printer, report, nil, logger)
	}

	if !cfg.Output.Quiet {
		printer.PairsFound(len(result.Pairs))
	}

	// Compare each pair
	comparator, err := compare.New(cfg.Compare.Method, cfg.Compare.BufferSize)
	if err != nil {
		return err
	}

	identical, differing := compareAll(ctx, comparator, result.Pairs, cfg, printer, report, logger)

	// Delete (or plan to delete) identical conflicted copies
	confirmer := resolve.NewConfirmer(os.Stdin, os.Stdout)
	for _, res := range identical {
		printer.PairIdentical(res)
		printer.DeletePlan(res)

		if scanFlags.DryRun {
			report.Deleted = append(report.Deleted, res.ConflictedPath)
			continue
		}

		if !scanFlags.AutoDelete && !confirmer.ConfirmDeletion(res.ConflictedPath) {
			printer.DeleteSkipped()
			continue
		}

		if err := os.Remove(res.ConflictedPath); err != nil {
			printer.DeleteError(res, err)
			logger.Error().Err(err).Str("path", res.ConflictedPath).Msg("delete failed")
			report.ErrorCount++
			continue
		}

		printer.DeleteDone()
		logger.Info().Str("path", res.ConflictedPath).Msg("deleted identical conflicted copy")
		report.Deleted = append(report.Deleted, res.ConflictedPath)
	}

	// Interactive resolution of differing pairs
	if scanFlags.Resolve && len(differing) > 0 {
		source := resolve.NewTerminalSource(os.Stdin, os.Stdout)
		controller := resolve.NewController(source, printer, scanFlags.DryRun)
		controller.SetLogger(logger)

		outcome, err := controller.Run(ctx, differing)
		if err != nil {
			return fmt.Errorf("resolution failed: %w", err)
		}
		logger.Info().
			Int("resolved", outcome.Resolved).
			Int("skipped", outcome.Skipped).
			Int("errored", outcome.Errored).
			Bool("quit", outcome.Quit).
			Msg("resolution pass complete")

		if !scanFlags.DryRun {
			differing = resolve.PruneExisting(differing)
		}
	}

	return finishScan(cfg, printer, report, differing, logger)
}

// compareAll runs the comparator over every pair sequentially, splitting
// results into identical and differing sets
func compareAll(ctx context.Context, comparator compare.Comparator, pairs []models.ConflictPair, cfg *config.Config, printer *output.Printer, report *models.ScanReport, logger zerolog.Logger) (identical, differing []*models.ComparisonResult) {
	var bar *pb.ProgressBar
	if cfg.Output.Progress && output.IsTerminal(os.Stdout) && len(pairs) > 1 {
		bar = output.NewCompareBar(len(pairs), os.Stdout)
	}

	for _, pair := range pairs {
		res, err := comparator.Compare(ctx, pair)
		if bar != nil {
			bar.Increment()
		}
		if err != nil {
			report.ErrorCount++
			printer.CompareError(pair, err)
			logger.Error().Err(err).
				Str("original", pair.OriginalPath).
				Str("conflicted", pair.ConflictedPath).
				Msg("comparison failed")
			continue
		}

		if res.Identical {
			report.IdenticalCount++
			identical = append(identical, res)
		} else {
			report.DifferentCount++
			if !cfg.Output.Quiet {
				printer.PairDifferent(res)
			}
			differing = append(differing, res)
		}
	}

	if bar != nil {
		bar.Finish()
	}
	return identical, differing
}

// finishScan merges differing results into the ledger, prints the run
// epilogue and stamps the report timing
func finishScan(cfg *config.Config, printer *output.Printer, report *models.ScanReport, differing []*models.ComparisonResult, logger zerolog.Logger) error {
	now := time.Now()

	// The ledger file is rewritten whenever this run produced differing
	// pairs, or the file already exists and its records need re-validation.
	if len(differing) > 0 || ledger.Exists(cfg.Ledger.Path) {
		led, warn := ledger.Load(cfg.Ledger.Path)
		if warn != nil {
			printer.Warning("ledger unreadable, starting fresh: %v", warn)
			logger.Warn().Err(warn).Str("path", cfg.Ledger.Path).Msg("ledger unreadable")
		}

		led.Merge(differing, now)

		if err := led.Save(now); err != nil {
			return fmt.Errorf("failed to save conflict ledger: %w", err)
		}

		report.ActiveConflicts = led.ActiveCount()
		report.ResolvedConflicts = led.ResolvedCount()
		report.LedgerPath = cfg.Ledger.Path

		if !cfg.Output.Quiet {
			printer.LedgerSummary(cfg.Ledger.Path, report.ActiveConflicts, report.ResolvedConflicts)
		}
		logger.Info().
			Str("path", cfg.Ledger.Path).
			Int("active", report.ActiveConflicts).
			Int("resolved", report.ResolvedConflicts).
			Msg("ledger updated")
	}

	report.EndTime = now
	report.Duration = report.EndTime.Sub(report.StartTime)

	if !cfg.Output.Quiet {
		printer.SkippedSummary(report.Skipped)
		printer.Summary(report)
	}

	logger.Info().
		Dur("duration", report.Duration).
		Int("identical", report.IdenticalCount).
		Int("different", report.DifferentCount).
		Int("errors", report.ErrorCount).
		Msg("scan finished")

	return nil
}

// createLogger builds the zerolog logger from configuration
func createLogger(cfg *config.Config) (zerolog.Logger, error) {
	if !cfg.Logging.Enabled {
		return zerolog.Nop(), nil
	}

	return logging.New(logging.Config{
		Level:      cfg.Logging.Level,
		Console:    cfg.Logging.File == "",
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}
