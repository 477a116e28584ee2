package resolve

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/sdejongh/deconflict/pkg/models"
)

// Decision is one token of input while a conflict is being presented
type Decision int

const (
	// KeepOriginal deletes the conflicted copy and keeps the original
	KeepOriginal Decision = iota
	// KeepConflicted replaces the original with the conflicted copy
	KeepConflicted
	// Skip leaves the pair untouched and moves on
	Skip
	// Quit terminates the resolution loop immediately
	Quit
	// ShowDiff re-presents the pair with a content diff; no state change
	ShowDiff
	// OpenExternal opens the pair in an external application; no state change
	OpenExternal
)

// String returns the decision name for display and logs
func (d Decision) String() string {
	switch d {
	case KeepOriginal:
		return "keep-original"
	case KeepConflicted:
		return "keep-conflicted"
	case Skip:
		return "skip"
	case Quit:
		return "quit"
	case ShowDiff:
		return "show-diff"
	case OpenExternal:
		return "open-external"
	default:
		return "unknown"
	}
}

// DecisionSource supplies decisions for conflicts as they are presented.
// Abstracting the input sequence keeps the state machine testable without
// a terminal.
type DecisionSource interface {
	// Next returns the decision for the currently presented conflict
	Next(result *models.ComparisonResult) (Decision, error)
}

// Presenter renders a conflict and its sub-action views. The wording is a
// presentation concern; the controller only sequences the calls.
type Presenter interface {
	// Present introduces a conflict before asking for a decision
	Present(index, total int, result *models.ComparisonResult)

	// ShowDiff renders a content diff of the pair
	ShowDiff(result *models.ComparisonResult) error

	// OpenExternal opens both files in an external application
	OpenExternal(result *models.ComparisonResult) error

	// Report announces the outcome of an applied decision
	Report(result *models.ComparisonResult, action Decision, err error)
}

// ItemOutcome records what happened to one conflict pair
type ItemOutcome struct {
	Result *models.ComparisonResult
	Action Decision
	Err    error
}

// Outcome summarizes a resolution pass
type Outcome struct {
	Items    []ItemOutcome
	Resolved int
	Skipped  int
	Errored  int
	Quit     bool
}

// Controller drives per-pair decisions over the content-differing pairs of
// a scan and applies the corresponding filesystem mutation
type Controller struct {
	source    DecisionSource
	presenter Presenter
	dryRun    bool
	logger    zerolog.Logger
}

// NewController creates a resolution controller. In dry-run mode no
// mutation is performed and every still-existing pair is enumerated once
// with the actions that would be available.
func NewController(source DecisionSource, presenter Presenter, dryRun bool) *Controller {
	return &Controller{
		source:    source,
		presenter: presenter,
		dryRun:    dryRun,
		logger:    zerolog.Nop(),
	}
}

// SetLogger attaches a logger for resolution diagnostics
func (c *Controller) SetLogger(logger zerolog.Logger) {
	c.logger = logger
}

// Run walks the differing pairs one at a time. Pairs whose files vanished
// since comparison are skipped silently. On Quit, the remaining pairs are
// left unvisited; they stay active in the ledger.
func (c *Controller) Run(ctx context.Context, results []*models.ComparisonResult) (*Outcome, error) {
	outcome := &Outcome{}
	total := len(results)

	for i, result := range results {
		select {
		case <-ctx.Done():
			return outcome, ctx.Err()
		default:
		}

		if !pairOnDisk(result) {
			continue
		}

		c.presenter.Present(i+1, total, result)

		if c.dryRun {
			outcome.Items = append(outcome.Items, ItemOutcome{Result: result, Action: Skip})
			outcome.Skipped++
			continue
		}

		action, err := c.decide(result)
		if err != nil {
			return outcome, err
		}

		if action == Quit {
			outcome.Quit = true
			return outcome, nil
		}

		item := ItemOutcome{Result: result, Action: action}
		switch action {
		case KeepOriginal:
			item.Err = c.applyKeepOriginal(result)
		case KeepConflicted:
			item.Err = c.applyKeepConflicted(result)
		case Skip:
			outcome.Skipped++
		}

		if action != Skip {
			if item.Err != nil {
				outcome.Errored++
				c.logger.Error().Err(item.Err).
					Str("original", result.OriginalPath).
					Str("action", action.String()).
					Msg("resolution action failed")
			} else {
				outcome.Resolved++
			}
			c.presenter.Report(result, action, item.Err)
		}

		outcome.Items = append(outcome.Items, item)
	}

	return outcome, nil
}

// decide loops over sub-actions until the source produces a state-changing
// decision
func (c *Controller) decide(result *models.ComparisonResult) (Decision, error) {
	for {
		action, err := c.source.Next(result)
		if err != nil {
			return Quit, fmt.Errorf("failed to read decision: %w", err)
		}

		switch action {
		case ShowDiff:
			if err := c.presenter.ShowDiff(result); err != nil {
				c.logger.Warn().Err(err).Str("original", result.OriginalPath).Msg("diff unavailable")
			}
		case OpenExternal:
			if err := c.presenter.OpenExternal(result); err != nil {
				c.logger.Warn().Err(err).Str("original", result.OriginalPath).Msg("external open failed")
			}
		default:
			return action, nil
		}
	}
}

// applyKeepOriginal deletes the conflicted copy; the original is untouched
func (c *Controller) applyKeepOriginal(result *models.ComparisonResult) error {
	if err := os.Remove(result.ConflictedPath); err != nil {
		return fmt.Errorf("failed to delete conflicted file: %w", err)
	}
	return nil
}

// applyKeepConflicted removes the original and renames the conflicted copy
// into its place. The conflicted file's presence is verified before the
// original is touched; a rename failure after the delete is fatal for this
// item only.
func (c *Controller) applyKeepConflicted(result *models.ComparisonResult) error {
	if _, err := os.Stat(result.ConflictedPath); err != nil {
		return fmt.Errorf("conflicted file unavailable: %w", err)
	}

	if err := os.Remove(result.OriginalPath); err != nil {
		return fmt.Errorf("failed to delete original: %w", err)
	}

	if err := os.Rename(result.ConflictedPath, result.OriginalPath); err != nil {
		return fmt.Errorf("failed to rename conflicted file into place (original already deleted): %w", err)
	}

	return nil
}

// PruneExisting filters results to pairs whose files are both still on
// disk. Run after a live resolution pass, since resolution removes one
// member of each resolved pair.
func PruneExisting(results []*models.ComparisonResult) []*models.ComparisonResult {
	kept := results[:0]
	for _, result := range results {
		if pairOnDisk(result) {
			kept = append(kept, result)
		}
	}
	return kept
}

func pairOnDisk(result *models.ComparisonResult) bool {
	if _, err := os.Stat(result.OriginalPath); err != nil {
		return false
	}
	if _, err := os.Stat(result.ConflictedPath); err != nil {
		return false
	}
	return true
}
