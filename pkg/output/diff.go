package output

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// maxDiffBytes caps how much of each file the diff preview will read.
// Larger files get a truncated preview rather than an unbounded diff.
const maxDiffBytes = 512 * 1024

// WriteDiff renders a colorized content diff of the two files to w.
// Binary content is detected and reported instead of dumped.
func WriteDiff(w io.Writer, originalPath, conflictedPath string) error {
	original, origTruncated, err := readHead(originalPath)
	if err != nil {
		return fmt.Errorf("failed to read original: %w", err)
	}
	conflicted, confTruncated, err := readHead(conflictedPath)
	if err != nil {
		return fmt.Errorf("failed to read conflicted file: %w", err)
	}

	if looksBinary(original) || looksBinary(conflicted) {
		fmt.Fprintln(w, "Binary files differ; no text diff available.")
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(original), string(conflicted), true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	fmt.Fprintf(w, "--- %s\n", originalPath)
	fmt.Fprintf(w, "+++ %s\n", conflictedPath)
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			removed.Fprint(w, diff.Text)
		case diffmatchpatch.DiffInsert:
			added.Fprint(w, diff.Text)
		default:
			fmt.Fprint(w, diff.Text)
		}
	}
	fmt.Fprintln(w)

	if origTruncated || confTruncated {
		fmt.Fprintf(w, "(preview truncated to the first %s of each file)\n", formatBytes(maxDiffBytes))
	}

	return nil
}

// readHead reads up to maxDiffBytes from a file
func readHead(path string) ([]byte, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxDiffBytes+1))
	if err != nil {
		return nil, false, err
	}

	if len(data) > maxDiffBytes {
		return data[:maxDiffBytes], true, nil
	}
	return data, false, nil
}

// looksBinary reports whether content appears to be non-text
func looksBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0
}
