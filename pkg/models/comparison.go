package models

import (
	"time"
)

// Method defines how file content is compared
type Method string

const (
	// MethodHash compares streaming SHA-256 digests
	MethodHash Method = "hash"
	// MethodByte compares content byte-by-byte
	MethodByte Method = "byte"
)

// Valid reports whether the method is one of the supported values
func (m Method) Valid() bool {
	return m == MethodHash || m == MethodByte
}

// Comparison reason strings. These appear verbatim in the ledger file,
// so they are fixed here rather than composed ad hoc.
const (
	ReasonDifferentSizes = "different sizes"
	ReasonHashMismatch   = "different content (hash mismatch)"
	ReasonByteMismatch   = "different content (byte comparison)"
	ReasonIdentical      = "files are identical"
)

// ComparisonResult is the verdict of comparing a conflict pair.
// Immutable once produced; the JSON tags define the on-disk ledger schema.
type ComparisonResult struct {
	// OriginalPath is the original file path
	OriginalPath string `json:"original"`

	// ConflictedPath is the conflicted variant path
	ConflictedPath string `json:"conflicted"`

	// Identical is true when both files hold the same content
	Identical bool `json:"identical"`

	// Method is the comparison method that produced the verdict
	Method Method `json:"method"`

	// OriginalSize is the original file size in bytes
	OriginalSize int64 `json:"original_size"`

	// ConflictedSize is the conflicted file size in bytes
	ConflictedSize int64 `json:"conflicted_size"`

	// OriginalModTime is the original file modification time
	OriginalModTime time.Time `json:"original_mtime"`

	// ConflictedModTime is the conflicted file modification time
	ConflictedModTime time.Time `json:"conflicted_mtime"`

	// Reason explains the verdict
	Reason string `json:"reason"`

	// OriginalHash is the original file SHA-256 digest (hash method only,
	// and only when sizes matched so content was actually read)
	OriginalHash string `json:"original_hash,omitempty"`

	// ConflictedHash is the conflicted file SHA-256 digest
	ConflictedHash string `json:"conflicted_hash,omitempty"`
}
