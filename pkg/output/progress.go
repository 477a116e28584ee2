package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/sdejongh/deconflict/pkg/scan"
)

var spinnerFrames = []string{"-", "\\", "|", "/"}

// ScanProgress renders a single live line with a spinner, traversal counts
// and the path currently being examined, truncated to the terminal width
// with Unicode display widths respected.
type ScanProgress struct {
	writer    io.Writer
	termWidth int
	frame     int
	active    bool
}

// NewScanProgress creates a renderer writing to w. Terminal width is
// detected once; pipes and redirects fall back to 80 columns.
func NewScanProgress(w io.Writer) *ScanProgress {
	width := 80
	if file, ok := w.(*os.File); ok {
		if cols, _, err := term.GetSize(int(file.Fd())); err == nil && cols > 0 {
			width = cols
		}
	}
	return &ScanProgress{writer: w, termWidth: width}
}

// Update redraws the progress line. Safe to call at the scanner's
// callback rate; the scanner already bounds the frequency.
func (s *ScanProgress) Update(p scan.Progress) {
	prefix := fmt.Sprintf("%s (%d dirs, %d files) Scanning: ", spinnerFrames[s.frame], p.Dirs, p.Files)
	s.frame = (s.frame + 1) % len(spinnerFrames)

	available := s.termWidth - runewidth.StringWidth(prefix) - 2
	if available < 0 {
		available = 0
	}
	path := runewidth.Truncate(p.Current, available, "...")

	fmt.Fprintf(s.writer, "\r%s\r%s%s", strings.Repeat(" ", s.termWidth), prefix, path)
	s.active = true
}

// Clear erases the progress line so regular output can follow
func (s *ScanProgress) Clear() {
	if !s.active {
		return
	}
	fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", s.termWidth))
	s.active = false
}

// NewCompareBar creates a progress bar over the known number of pairs for
// the comparison phase
func NewCompareBar(total int, w io.Writer) *pb.ProgressBar {
	bar := pb.New(total)
	bar.SetWriter(w)
	bar.Set(pb.CleanOnFinish, true)
	bar.SetTemplateString(`Comparing {{counters . }} {{bar . }} {{percent . }}`)
	return bar.Start()
}

// IsTerminal reports whether w is an interactive terminal; progress
// rendering is suppressed for pipes and redirects
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
