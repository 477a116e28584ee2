package models

// ConflictPair is an original file together with the conflicted copy a
// cloud-sync client wrote next to it. Both paths named existing regular
// files at the moment the pair was discovered.
type ConflictPair struct {
	// OriginalPath is the absolute path of the original file
	OriginalPath string

	// ConflictedPath is the absolute path of the conflicted variant
	ConflictedPath string
}

// SkipRecord describes a path the scanner could not process
type SkipRecord struct {
	// Path is the path that was skipped
	Path string `json:"path"`

	// Message is the error text explaining why
	Message string `json:"message"`
}

// ExcludedDir describes a directory pruned from traversal by the
// boundary classifier
type ExcludedDir struct {
	// Path is the pruned directory
	Path string `json:"path"`

	// Reason is why it was pruned ("cloud storage" or "mount point")
	Reason string `json:"reason"`
}
