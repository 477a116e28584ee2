//go:build unix

package scan

import (
	"os"
	"syscall"
)

// deviceID extracts the filesystem device identifier from stat data.
// The second return is false when the platform data is unavailable.
func deviceID(info os.FileInfo) (uint64, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return uint64(st.Dev), true
}
