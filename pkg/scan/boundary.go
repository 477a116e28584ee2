package scan

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Exclusion reasons reported for pruned directories
const (
	ReasonCloudStorage = "cloud storage"
	ReasonMountPoint   = "mount point"
)

// Classifier decides whether a directory must be pruned from traversal.
// Cloud-storage membership is checked first; device boundaries are only
// checked when cross-device scanning is off and local mounts are not
// explicitly included.
type Classifier struct {
	crossDevice        bool
	includeLocalMounts bool
	mounts             []string
	rootDevice         uint64
	rootDeviceKnown    bool
}

// NewClassifier builds a classifier for a scan rooted at rootPath.
// In cross-device mode no mount query or device stat is performed at all.
// Mount detection failures degrade silently to an empty mount set.
func NewClassifier(ctx context.Context, rootPath string, opts Options, lister MountLister) *Classifier {
	c := &Classifier{
		crossDevice:        opts.CrossDevice,
		includeLocalMounts: opts.IncludeLocalMounts,
	}

	if opts.CrossDevice {
		return c
	}

	if lister != nil {
		if mounts, err := lister.ListCandidateMountPaths(ctx); err == nil {
			c.mounts = mounts
		}
	}

	if info, err := os.Stat(rootPath); err == nil {
		c.rootDevice, c.rootDeviceKnown = deviceID(info)
	}

	return c
}

// Exclude reports whether the directory must be pruned, and why.
// info carries the directory's stat data for the device check.
func (c *Classifier) Exclude(path string, info os.FileInfo) (bool, string) {
	if c.crossDevice {
		return false, ""
	}

	if c.underCloudStorage(path) {
		return true, ReasonCloudStorage
	}

	if !c.includeLocalMounts && c.rootDeviceKnown && info != nil {
		if device, ok := deviceID(info); ok && device != c.rootDevice {
			return true, ReasonMountPoint
		}
	}

	return false, ""
}

// underCloudStorage checks the resolved path against well-known cloud
// container locations and the detected mount set
func (c *Classifier) underCloudStorage(path string) bool {
	resolved, err := filepath.Abs(path)
	if err != nil {
		resolved = path
	}

	// Platform cloud-storage containers, regardless of mount detection
	if strings.Contains(resolved, "/Library/Mobile Documents") {
		return true
	}
	if strings.Contains(resolved, "/Library/CloudStorage") {
		return true
	}

	for _, mount := range c.mounts {
		if pathWithin(resolved, mount) {
			return true
		}
	}

	return false
}

// pathWithin reports whether path equals root or lies beneath it
func pathWithin(path, root string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(root, string(filepath.Separator))+string(filepath.Separator))
}
