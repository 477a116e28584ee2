package models

import (
	"time"
)

// ScanReport summarizes one deconflict run
type ScanReport struct {
	// RunID uniquely identifies this invocation
	RunID string

	// RootPath is the scanned directory
	RootPath string

	// Recursive indicates whether subdirectories were scanned
	Recursive bool

	// Method is the comparison method used
	Method Method

	// DryRun indicates no filesystem mutation was performed
	DryRun bool

	// AutoDelete indicates identical copies were removed without prompting
	AutoDelete bool

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Traversal statistics
	DirsVisited  int
	FilesVisited int

	// PairsFound is the number of conflict pairs discovered
	PairsFound int

	// Comparison outcomes
	IdenticalCount int
	DifferentCount int
	ErrorCount     int

	// Deleted lists conflicted files removed (or that would be removed
	// in dry-run mode)
	Deleted []string

	// Skipped lists paths the scanner could not process
	Skipped []SkipRecord

	// Excluded lists directories pruned by the boundary classifier
	Excluded []ExcludedDir

	// Ledger state after merge, when a ledger was written
	ActiveConflicts   int
	ResolvedConflicts int
	LedgerPath        string
}
