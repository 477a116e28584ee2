package resolve

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/sdejongh/deconflict/pkg/models"
)

// TerminalSource reads decisions from an interactive reader, one line per
// prompt. Unrecognized input re-prompts.
type TerminalSource struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewTerminalSource creates a decision source over the given streams
func NewTerminalSource(r io.Reader, w io.Writer) *TerminalSource {
	return &TerminalSource{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// Next prompts for and parses one decision
func (s *TerminalSource) Next(result *models.ComparisonResult) (Decision, error) {
	for {
		fmt.Fprintf(s.writer, "Keep [o]riginal, keep [c]onflicted, [s]kip, show [d]iff, open [e]xternally, [q]uit? [s]: ")

		line, err := s.reader.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return Quit, nil
			}
			return Quit, err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "o", "original":
			return KeepOriginal, nil
		case "c", "conflicted":
			return KeepConflicted, nil
		case "s", "skip", "":
			return Skip, nil
		case "d", "diff":
			return ShowDiff, nil
		case "e", "edit", "open":
			return OpenExternal, nil
		case "q", "quit":
			return Quit, nil
		default:
			fmt.Fprintf(s.writer, "Unrecognized choice %q\n", strings.TrimSpace(line))
		}
	}
}

// Confirmer asks yes/no questions on an interactive stream. It keeps one
// buffered reader across prompts so no input is lost between questions.
type Confirmer struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewConfirmer creates a confirmer over the given streams
func NewConfirmer(r io.Reader, w io.Writer) *Confirmer {
	return &Confirmer{reader: bufio.NewReader(r), writer: w}
}

// ConfirmDeletion asks for confirmation before deleting an identical
// conflicted copy. Only an explicit yes deletes.
func (c *Confirmer) ConfirmDeletion(name string) bool {
	fmt.Fprintf(c.writer, "Delete '%s'? [y/N]: ", name)

	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// OpenInDefaultApp asks the desktop environment to open a file
func OpenInDefaultApp(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	// Detach; the viewer's lifetime is not ours to manage
	go cmd.Wait()
	return nil
}
