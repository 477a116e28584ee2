package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sdejongh/deconflict/pkg/models"
)

// Marker is the filename substring cloud-sync clients append to the
// conflicted copy of a file. Matching is case-sensitive; the original
// filename is recovered by removing the first occurrence.
const Marker = " [conflicted]"

// Options control a scan
type Options struct {
	// Recursive scans subdirectories; otherwise only the immediate
	// children of the root are examined
	Recursive bool

	// CrossDevice disables boundary checking entirely, descending into
	// network mounts, external drives and cloud folders
	CrossDevice bool

	// IncludeLocalMounts keeps the cloud-storage exclusion but allows
	// crossing onto other local devices
	IncludeLocalMounts bool
}

// Result holds everything one traversal produced
type Result struct {
	// Pairs are the discovered conflict pairs
	Pairs []models.ConflictPair

	// Skipped are paths that could not be processed
	Skipped []models.SkipRecord

	// Excluded are directories pruned by the boundary classifier
	Excluded []models.ExcludedDir

	// DirsVisited and FilesVisited are the final traversal counts
	DirsVisited  int
	FilesVisited int
}

// Scanner walks a directory tree looking for conflict pairs
type Scanner struct {
	marker           string
	lister           MountLister
	progress         ProgressFunc
	progressInterval time.Duration
	logger           zerolog.Logger
}

// NewScanner creates a scanner using the given mount lister for boundary
// classification. A nil lister disables cloud-mount detection.
func NewScanner(lister MountLister) *Scanner {
	return &Scanner{
		marker: Marker,
		lister: lister,
		logger: zerolog.Nop(),
	}
}

// SetProgressCallback registers a callback for traversal progress events.
// Events are rate-limited to a bounded update interval.
func (s *Scanner) SetProgressCallback(fn ProgressFunc) {
	s.progress = fn
}

// SetProgressInterval overrides the minimum delay between progress events
func (s *Scanner) SetProgressInterval(interval time.Duration) {
	s.progressInterval = interval
}

// SetLogger attaches a logger for traversal diagnostics
func (s *Scanner) SetLogger(logger zerolog.Logger) {
	s.logger = logger
}

// Scan discovers conflict pairs under rootPath. Filesystem errors on
// individual paths become skip records; only a missing or invalid root
// is an error.
func (s *Scanner) Scan(ctx context.Context, rootPath string, opts Options) (*Result, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root is not a directory: %s", rootPath)
	}

	result := &Result{}
	emitter := newProgressEmitter(s.progress, s.progressInterval)

	if opts.Recursive {
		classifier := NewClassifier(ctx, rootPath, opts, s.lister)
		err = s.walk(ctx, rootPath, classifier, result, emitter)
	} else {
		err = s.listLevel(ctx, rootPath, result, emitter)
	}
	if err != nil {
		return nil, err
	}

	emitter.finish(rootPath)
	result.DirsVisited = emitter.dirs
	result.FilesVisited = emitter.files

	return result, nil
}

// walk performs the recursive pre-order traversal with boundary pruning
func (s *Scanner) walk(ctx context.Context, rootPath string, classifier *Classifier, result *Result, emitter *progressEmitter) error {
	return filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			result.Skipped = append(result.Skipped, models.SkipRecord{
				Path:    path,
				Message: err.Error(),
			})
			return nil
		}

		if d.IsDir() {
			emitter.dir(path)

			// The root is always traversed; boundary rules prune descent,
			// not the directory the user pointed at.
			if path == rootPath {
				return nil
			}

			dirInfo, infoErr := d.Info()
			if infoErr != nil {
				result.Skipped = append(result.Skipped, models.SkipRecord{
					Path:    path,
					Message: infoErr.Error(),
				})
				return fs.SkipDir
			}

			if excluded, reason := classifier.Exclude(path, dirInfo); excluded {
				s.logger.Debug().Str("path", path).Str("reason", reason).Msg("pruning directory")
				result.Excluded = append(result.Excluded, models.ExcludedDir{
					Path:   path,
					Reason: reason,
				})
				return fs.SkipDir
			}

			return nil
		}

		emitter.file(path)
		s.checkCandidate(path, d.Type().IsRegular(), result)
		return nil
	})
}

// listLevel enumerates only the immediate children of rootPath
func (s *Scanner) listLevel(ctx context.Context, rootPath string, result *Result, emitter *progressEmitter) error {
	emitter.dir(rootPath)

	entries, err := os.ReadDir(rootPath)
	if err != nil {
		result.Skipped = append(result.Skipped, models.SkipRecord{
			Path:    rootPath,
			Message: err.Error(),
		})
		return nil
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if entry.IsDir() {
			continue
		}
		emitter.file(filepath.Join(rootPath, entry.Name()))
		s.checkCandidate(filepath.Join(rootPath, entry.Name()), entry.Type().IsRegular(), result)
	}

	return nil
}

// checkCandidate emits a conflict pair when path carries the marker and
// the corresponding original exists as a regular file right now
func (s *Scanner) checkCandidate(path string, regular bool, result *Result) {
	name := filepath.Base(path)
	if !regular || !strings.Contains(name, s.marker) {
		return
	}

	originalName := strings.Replace(name, s.marker, "", 1)
	originalPath := filepath.Join(filepath.Dir(path), originalName)

	info, err := os.Stat(originalPath)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Skipped = append(result.Skipped, models.SkipRecord{
				Path:    originalPath,
				Message: err.Error(),
			})
		}
		return
	}
	if !info.Mode().IsRegular() {
		return
	}

	result.Pairs = append(result.Pairs, models.ConflictPair{
		OriginalPath:   originalPath,
		ConflictedPath: path,
	})
}
