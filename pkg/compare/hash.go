package compare

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sdejongh/deconflict/pkg/models"
)

// HashComparator compares pair content using streaming SHA-256 digests
type HashComparator struct {
	bufferSize int
	bufferPool *sync.Pool
}

// NewHashComparator creates a new hash-based comparator
func NewHashComparator(bufferSize int) *HashComparator {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &HashComparator{
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// Compare compares the pair using SHA-256 hashes. Sizes and modification
// times are always recorded; content is only read when the sizes match.
func (c *HashComparator) Compare(ctx context.Context, pair models.ConflictPair) (*models.ComparisonResult, error) {
	result, decided, err := statPair(pair, models.MethodHash)
	if err != nil {
		return nil, err
	}
	if decided {
		return result, nil
	}

	origHash, err := c.computeHash(ctx, pair.OriginalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to hash original: %w", err)
	}

	confHash, err := c.computeHash(ctx, pair.ConflictedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to hash conflicted file: %w", err)
	}

	result.OriginalHash = origHash
	result.ConflictedHash = confHash
	result.Identical = origHash == confHash

	if result.Identical {
		result.Reason = models.ReasonIdentical
	} else {
		result.Reason = models.ReasonHashMismatch
	}

	return result, nil
}

// computeHash computes the SHA-256 hash of a file using streaming reads
func (c *HashComparator) computeHash(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()

	bufPtr := c.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer c.bufferPool.Put(bufPtr)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := file.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// Name returns the comparator name
func (c *HashComparator) Name() string {
	return "hash"
}
