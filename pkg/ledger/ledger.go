package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sdejongh/deconflict/pkg/models"
)

// DefaultPath is the ledger filename used when none is configured
const DefaultPath = "conflicted_files_to_review.json"

// Snapshot is the on-disk ledger document. It is regenerated wholesale on
// every save, with records sorted by original path for reproducible diffs.
type Snapshot struct {
	LastUpdated            time.Time               `json:"last_updated"`
	TotalActiveConflicts   int                     `json:"total_active_conflicts"`
	TotalResolvedConflicts int                     `json:"total_resolved_conflicts"`
	Conflicts              []models.ConflictRecord `json:"conflicts"`
}

// snapshotFile tolerates the older schema that stored records under a
// "files" key. Writes always use "conflicts".
type snapshotFile struct {
	LastUpdated time.Time               `json:"last_updated"`
	Conflicts   []models.ConflictRecord `json:"conflicts"`
	Files       []models.ConflictRecord `json:"files"`
}

// Ledger is the persisted, mergeable record of conflict pairs observed as
// content-different across runs, keyed by original path
type Ledger struct {
	path    string
	records map[string]*models.ConflictRecord

	// existsFn is swappable for tests; defaults to an os.Stat check
	existsFn func(path string) bool
}

// New creates an empty ledger that will persist to path
func New(path string) *Ledger {
	return &Ledger{
		path:     path,
		records:  make(map[string]*models.ConflictRecord),
		existsFn: fileExists,
	}
}

// Load reads the ledger snapshot at path. A missing file yields an empty
// ledger and no error. A malformed file also yields an empty ledger along
// with a non-nil warning error so the caller can report it and continue.
func Load(path string) (*Ledger, error) {
	l := New(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return l, fmt.Errorf("failed to read ledger file: %w", err)
	}

	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return l, fmt.Errorf("failed to parse ledger file: %w", err)
	}

	records := snap.Conflicts
	if len(records) == 0 {
		records = snap.Files
	}
	for i := range records {
		record := records[i]
		l.records[record.OriginalPath] = &record
	}

	return l, nil
}

// Path returns the ledger file path
func (l *Ledger) Path() string {
	return l.path
}

// Len returns the total number of records, active and resolved
func (l *Ledger) Len() int {
	return len(l.records)
}

// Get returns the record for an original path, or nil
func (l *Ledger) Get(originalPath string) *models.ConflictRecord {
	return l.records[originalPath]
}

// ActiveCount returns the number of records whose pair is still on disk
func (l *Ledger) ActiveCount() int {
	count := 0
	for _, record := range l.records {
		if record.StillExists {
			count++
		}
	}
	return count
}

// ResolvedCount returns the number of records retained for history
func (l *Ledger) ResolvedCount() int {
	return len(l.records) - l.ActiveCount()
}

// Merge reconciles one scan's differing results against the ledger.
//
// Every new result is upserted under its original path with last_seen
// stamped and still_exists set; a re-detected pair loses any earlier
// resolution stamp. Every record not in this run's result set is
// re-validated on disk: if both files remain, last_checked is stamped;
// otherwise the record transitions to resolved, and resolved_at keeps its
// first-transition value on later runs.
func (l *Ledger) Merge(results []*models.ComparisonResult, now time.Time) {
	seen := make(map[string]bool, len(results))

	for _, result := range results {
		record := &models.ConflictRecord{
			ComparisonResult: *result,
			LastSeen:         now,
			StillExists:      true,
		}
		l.records[result.OriginalPath] = record
		seen[result.OriginalPath] = true
	}

	for key, record := range l.records {
		if seen[key] {
			continue
		}

		if l.existsFn(record.OriginalPath) && l.existsFn(record.ConflictedPath) {
			record.StillExists = true
			checked := now
			record.LastChecked = &checked
			continue
		}

		record.StillExists = false
		if record.ResolvedAt == nil {
			resolved := now
			record.ResolvedAt = &resolved
		}
	}
}

// Snapshot builds the on-disk document with records in stable sort order
func (l *Ledger) Snapshot(now time.Time) *Snapshot {
	keys := make([]string, 0, len(l.records))
	for key := range l.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	records := make([]models.ConflictRecord, 0, len(keys))
	for _, key := range keys {
		records = append(records, *l.records[key])
	}

	active := l.ActiveCount()
	return &Snapshot{
		LastUpdated:            now,
		TotalActiveConflicts:   active,
		TotalResolvedConflicts: len(records) - active,
		Conflicts:              records,
	}
}

// Save rewrites the full snapshot atomically using a temp file and rename
func (l *Ledger) Save(now time.Time) error {
	snap := l.Snapshot(now)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	dir := filepath.Dir(l.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}

	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath) // Clean up temp file
		return fmt.Errorf("failed to finalize ledger file: %w", err)
	}

	return nil
}

// Exists reports whether the ledger file is already on disk
func Exists(path string) bool {
	return fileExists(path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
