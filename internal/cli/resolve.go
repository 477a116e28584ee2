package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sdejongh/deconflict/pkg/ledger"
	"github.com/sdejongh/deconflict/pkg/models"
	"github.com/sdejongh/deconflict/pkg/output"
	"github.com/sdejongh/deconflict/pkg/resolve"
)

// ResolveFlags holds resolve command flags
type ResolveFlags struct {
	Ledger string
	DryRun bool
}

var resolveFlags ResolveFlags

// NewResolveCommand creates the resolve command
func NewResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Interactively resolve conflicts recorded in the ledger",
		Long: `Walk the active conflicts in the ledger one at a time. For each pair
you can keep the original, keep the conflicted copy, view a diff, open
both files externally, or skip. The ledger is re-validated and saved
afterwards.`,
		RunE: runResolve,
	}

	cmd.Flags().StringVarP(&resolveFlags.Ledger, "ledger", "l", ledger.DefaultPath, "conflict ledger file path")
	cmd.Flags().BoolVar(&resolveFlags.DryRun, "dry-run", false, "enumerate conflicts and actions without changing anything")

	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !ledger.Exists(resolveFlags.Ledger) {
		return fmt.Errorf("ledger file does not exist: %s", resolveFlags.Ledger)
	}

	led, warn := ledger.Load(resolveFlags.Ledger)
	if warn != nil {
		return fmt.Errorf("failed to load ledger: %w", warn)
	}

	snap := led.Snapshot(time.Now())
	var pending []*models.ComparisonResult
	for i := range snap.Conflicts {
		record := snap.Conflicts[i]
		if !record.Active() {
			continue
		}
		result := record.ComparisonResult
		pending = append(pending, &result)
	}
	pending = resolve.PruneExisting(pending)

	printer := output.NewPrinter(os.Stdout, globalFlags.Verbose, false, resolveFlags.DryRun)
	if len(pending) == 0 {
		fmt.Fprintln(os.Stdout, "No active conflicts to resolve.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "Resolving %d active conflict(s) from %s\n", len(pending), resolveFlags.Ledger)

	source := resolve.NewTerminalSource(os.Stdin, os.Stdout)
	controller := resolve.NewController(source, printer, resolveFlags.DryRun)

	outcome, err := controller.Run(ctx, pending)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	fmt.Fprintf(os.Stdout, "\nResolved: %d  Skipped: %d  Errors: %d\n",
		outcome.Resolved, outcome.Skipped, outcome.Errored)

	if resolveFlags.DryRun {
		return nil
	}

	// Re-validate every record against the filesystem and persist. Pairs
	// resolved above lose a file on disk and transition to resolved here.
	now := time.Now()
	led.Merge(nil, now)
	if err := led.Save(now); err != nil {
		return fmt.Errorf("failed to save conflict ledger: %w", err)
	}

	printer.LedgerSummary(resolveFlags.Ledger, led.ActiveCount(), led.ResolvedCount())
	return nil
}
