package models

import (
	"time"
)

// ConflictRecord is one ledger entry: a comparison verdict plus tracking
// state that persists across runs. Records are keyed by OriginalPath and
// are never purged; a record whose pair disappears from disk is marked
// resolved and retained for history.
type ConflictRecord struct {
	ComparisonResult

	// LastSeen is when this conflict was last reported by a scan
	LastSeen time.Time `json:"last_seen"`

	// LastChecked is when the pair was last re-validated on disk without
	// being re-detected by a scan
	LastChecked *time.Time `json:"last_checked,omitempty"`

	// StillExists is true while both files of the pair remain on disk
	StillExists bool `json:"still_exists"`

	// ResolvedAt is when the pair was first observed absent from disk.
	// Set once at the transition and kept; cleared if the pair reappears.
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// Active reports whether the record tracks a live conflict
func (r *ConflictRecord) Active() bool {
	return r.StillExists
}
