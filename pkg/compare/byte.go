package compare

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sdejongh/deconflict/pkg/models"
)

// ByteComparator compares pair content byte-by-byte.
// The most thorough method but also the slowest.
type ByteComparator struct {
	bufferSize int
	bufferPool *sync.Pool
}

// NewByteComparator creates a new byte-by-byte comparator
func NewByteComparator(bufferSize int) *ByteComparator {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &ByteComparator{
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// Compare compares the pair byte-by-byte. Content is only read when the
// sizes match; a size mismatch is decided from metadata alone.
func (c *ByteComparator) Compare(ctx context.Context, pair models.ConflictPair) (*models.ComparisonResult, error) {
	result, decided, err := statPair(pair, models.MethodByte)
	if err != nil {
		return nil, err
	}
	if decided {
		return result, nil
	}

	identical, err := c.compareContent(ctx, pair.OriginalPath, pair.ConflictedPath)
	if err != nil {
		return nil, err
	}

	result.Identical = identical
	if identical {
		result.Reason = models.ReasonIdentical
	} else {
		result.Reason = models.ReasonByteMismatch
	}

	return result, nil
}

// compareContent reads both files in lockstep and reports byte equality
func (c *ByteComparator) compareContent(ctx context.Context, origPath, confPath string) (bool, error) {
	origFile, err := os.Open(origPath)
	if err != nil {
		return false, fmt.Errorf("failed to open original: %w", err)
	}
	defer origFile.Close()

	confFile, err := os.Open(confPath)
	if err != nil {
		return false, fmt.Errorf("failed to open conflicted file: %w", err)
	}
	defer confFile.Close()

	origBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(origBufPtr)
	origBuf := *origBufPtr

	confBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(confBufPtr)
	confBuf := *confBufPtr

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		origN, origErr := io.ReadFull(origFile, origBuf)
		confN, confErr := io.ReadFull(confFile, confBuf)

		if origN != confN {
			// Sizes matched at stat time but reads diverged; the files
			// changed underneath us, treat as different.
			return false, nil
		}

		if origN > 0 && !bytes.Equal(origBuf[:origN], confBuf[:confN]) {
			return false, nil
		}

		origDone := origErr == io.EOF || origErr == io.ErrUnexpectedEOF
		confDone := confErr == io.EOF || confErr == io.ErrUnexpectedEOF

		if origDone && confDone {
			return true, nil
		}
		if origDone != confDone {
			return false, nil
		}

		if origErr != nil {
			return false, fmt.Errorf("failed to read original: %w", origErr)
		}
		if confErr != nil {
			return false, fmt.Errorf("failed to read conflicted file: %w", confErr)
		}
	}
}

// Name returns the comparator name
func (c *ByteComparator) Name() string {
	return "byte"
}
