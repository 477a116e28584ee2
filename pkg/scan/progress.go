package scan

import (
	"time"
)

// defaultProgressInterval limits how often progress callbacks fire
const defaultProgressInterval = 50 * time.Millisecond

// Progress is a point-in-time view of traversal activity, emitted through
// the scanner's callback for consumption by a live display
type Progress struct {
	// Dirs is the running count of directories visited
	Dirs int

	// Files is the running count of files visited
	Files int

	// Current is the path being examined
	Current string
}

// ProgressFunc receives rate-limited progress events during a scan
type ProgressFunc func(Progress)

// progressEmitter throttles progress callbacks to a bounded update rate
type progressEmitter struct {
	fn       ProgressFunc
	interval time.Duration
	last     time.Time
	dirs     int
	files    int
}

func newProgressEmitter(fn ProgressFunc, interval time.Duration) *progressEmitter {
	if interval <= 0 {
		interval = defaultProgressInterval
	}
	return &progressEmitter{fn: fn, interval: interval}
}

// dir records a directory visit and maybe emits
func (e *progressEmitter) dir(path string) {
	e.dirs++
	e.emit(path, false)
}

// file records a file visit and maybe emits
func (e *progressEmitter) file(path string) {
	e.files++
	e.emit(path, false)
}

func (e *progressEmitter) emit(path string, force bool) {
	if e.fn == nil {
		return
	}
	now := time.Now()
	if !force && now.Sub(e.last) < e.interval {
		return
	}
	e.last = now
	e.fn(Progress{Dirs: e.dirs, Files: e.files, Current: path})
}

// finish emits a final event so displays end on the true totals
func (e *progressEmitter) finish(path string) {
	e.emit(path, true)
}
