package scan

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultMountTimeout bounds how long the external mount-table query may run
const DefaultMountTimeout = 5 * time.Second

// networkIndicators mark mount-table entries as cloud or network storage.
// Matched case-insensitively against the whole entry.
var networkIndicators = []string{
	"fuse", "osxfuse", "macfuse", "sshfs", "webdav", "smb", "afp", "nfs",
}

// DefaultCloudFolders are well-known cloud-client sync folders under the
// user's home directory, as glob patterns.
var DefaultCloudFolders = []string{
	"Library/CloudStorage/*",
	"Library/Mobile Documents/*", // iCloud Drive
	"Dropbox*",
	"Google Drive*",
	"OneDrive*",
	"Box Sync*",
	"pCloud Drive*",
	"ShellFish/*", // ShellFish SFTP/SSH mounts
}

// MountLister reports mount points that may belong to cloud or network
// storage. Implementations are platform collaborators; the boundary
// classifier only consumes the resulting path set.
type MountLister interface {
	// ListCandidateMountPaths returns the candidate mount paths.
	// Failures degrade to an empty set rather than aborting a scan.
	ListCandidateMountPaths(ctx context.Context) ([]string, error)
}

// CommandMountLister queries the system mount table by running the mount
// command and parsing its "<device> on <path> type <fstype> (<options>)"
// output lines.
type CommandMountLister struct {
	// Command is the executable to run (default "mount")
	Command string

	// Timeout bounds the query (default DefaultMountTimeout)
	Timeout time.Duration
}

// ListCandidateMountPaths runs the mount command and keeps entries whose
// line carries a network or FUSE indicator
func (l *CommandMountLister) ListCandidateMountPaths(ctx context.Context) ([]string, error) {
	command := l.Command
	if command == "" {
		command = "mount"
	}
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultMountTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, command).Output()
	if err != nil {
		return nil, err
	}

	return parseMountOutput(strings.NewReader(string(out))), nil
}

// parseMountOutput extracts candidate mount paths from mount command output
func parseMountOutput(r io.Reader) []string {
	var paths []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		path, ok := parseMountLine(line)
		if !ok {
			continue
		}
		if hasNetworkIndicator(line) {
			paths = append(paths, path)
		}
	}

	return paths
}

// parseMountLine extracts the mount path from a line of the shape
// "<device> on <path> type <fstype> (<options>)"
func parseMountLine(line string) (string, bool) {
	if !strings.Contains(line, " on ") || !strings.Contains(line, " type ") {
		return "", false
	}

	_, rest, ok := strings.Cut(line, " on ")
	if !ok {
		return "", false
	}
	path, _, ok := strings.Cut(rest, " type ")
	if !ok {
		return "", false
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return "", false
	}
	return path, true
}

// hasNetworkIndicator reports whether the entry mentions a network or
// FUSE filesystem, case-insensitively
func hasNetworkIndicator(entry string) bool {
	lower := strings.ToLower(entry)
	for _, indicator := range networkIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// ProcMountsLister reads the kernel mount table directly. Used on Linux
// where /proc/mounts is authoritative and needs no subprocess.
type ProcMountsLister struct {
	// Path is the mount table file (default "/proc/mounts")
	Path string
}

// ListCandidateMountPaths parses the mount table file
func (l *ProcMountsLister) ListCandidateMountPaths(ctx context.Context) ([]string, error) {
	path := l.Path
	if path == "" {
		path = "/proc/mounts"
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var paths []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		// Format: <device> <mountpoint> <fstype> <options> <dump> <pass>
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		if hasNetworkIndicator(fields[2] + " " + fields[3]) {
			paths = append(paths, unescapeMountPath(fields[1]))
		}
	}

	return paths, scanner.Err()
}

// unescapeMountPath decodes the octal escapes /proc/mounts uses for
// spaces and other special characters
func unescapeMountPath(path string) string {
	replacer := strings.NewReplacer(
		`\040`, " ",
		`\011`, "\t",
		`\012`, "\n",
		`\134`, `\`,
	)
	return replacer.Replace(path)
}

// HomeFolderLister globs well-known cloud-client sync folders under the
// user's home directory
type HomeFolderLister struct {
	// Home overrides the home directory (default os.UserHomeDir)
	Home string

	// Patterns are glob patterns relative to Home (default DefaultCloudFolders)
	Patterns []string
}

// ListCandidateMountPaths returns existing directories matching the patterns
func (l *HomeFolderLister) ListCandidateMountPaths(ctx context.Context) ([]string, error) {
	home := l.Home
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, err
		}
	}

	patterns := l.Patterns
	if len(patterns) == 0 {
		patterns = DefaultCloudFolders
	}

	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(home, pattern))
		if err != nil {
			continue
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err == nil && info.IsDir() {
				paths = append(paths, match)
			}
		}
	}

	return paths, nil
}

// CompositeLister unions the results of several listers, ignoring
// individual failures so that detection degrades instead of aborting
type CompositeLister struct {
	Listers []MountLister
}

// ListCandidateMountPaths merges all candidate paths, deduplicated
func (l *CompositeLister) ListCandidateMountPaths(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, lister := range l.Listers {
		found, err := lister.ListCandidateMountPaths(ctx)
		if err != nil {
			continue
		}
		for _, path := range found {
			if !seen[path] {
				seen[path] = true
				paths = append(paths, path)
			}
		}
	}

	return paths, nil
}

// NewSystemLister builds the default lister chain: the mount command, the
// kernel mount table when present, and well-known cloud folders under the
// home directory (extended with any extra configured patterns).
func NewSystemLister(timeout time.Duration, extraPatterns []string) MountLister {
	listers := []MountLister{
		&CommandMountLister{Timeout: timeout},
	}

	if _, err := os.Stat("/proc/mounts"); err == nil {
		listers = append(listers, &ProcMountsLister{})
	}

	patterns := append([]string{}, DefaultCloudFolders...)
	patterns = append(patterns, extraPatterns...)
	listers = append(listers, &HomeFolderLister{Patterns: patterns})

	return &CompositeLister{Listers: listers}
}
