package compare

import (
	"context"
	"fmt"
	"os"

	"github.com/sdejongh/deconflict/pkg/models"
)

// Comparator defines the interface for pair comparison algorithms
type Comparator interface {
	// Compare determines whether the two files of a conflict pair hold
	// identical content. Input files are never mutated.
	Compare(ctx context.Context, pair models.ConflictPair) (*models.ComparisonResult, error)

	// Name returns the name of the comparison method
	Name() string
}

// New returns the comparator for the given method
func New(method models.Method, bufferSize int) (Comparator, error) {
	switch method {
	case models.MethodHash:
		return NewHashComparator(bufferSize), nil
	case models.MethodByte:
		return NewByteComparator(bufferSize), nil
	default:
		return nil, fmt.Errorf("unsupported comparison method: %s (use: hash, byte)", method)
	}
}

// statPair stats both files and seeds a result with their sizes and
// modification times. A size mismatch is decided here, without opening
// either file; decided is true in that case.
func statPair(pair models.ConflictPair, method models.Method) (result *models.ComparisonResult, decided bool, err error) {
	origInfo, err := os.Stat(pair.OriginalPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat original: %w", err)
	}

	confInfo, err := os.Stat(pair.ConflictedPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat conflicted file: %w", err)
	}

	result = &models.ComparisonResult{
		OriginalPath:      pair.OriginalPath,
		ConflictedPath:    pair.ConflictedPath,
		Method:            method,
		OriginalSize:      origInfo.Size(),
		ConflictedSize:    confInfo.Size(),
		OriginalModTime:   origInfo.ModTime(),
		ConflictedModTime: confInfo.ModTime(),
	}

	if origInfo.Size() != confInfo.Size() {
		result.Identical = false
		result.Reason = models.ReasonDifferentSizes
		return result, true, nil
	}

	return result, false, nil
}
