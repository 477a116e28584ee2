//go:build windows

package scan

import (
	"os"
)

// deviceID is unavailable on Windows; drive letters already separate
// volumes, so device-boundary pruning is a no-op there.
func deviceID(info os.FileInfo) (uint64, bool) {
	return 0, false
}
