package editor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"notesplit/internal/ports"
)

// Opener implements ports.EditorOpener
type Opener struct {
	lookPath func(file string) (string, error)
}

// Ensure Opener implements EditorOpener
var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{lookPath: exec.LookPath}
}

// OpenAt opens path in the user's preferred editor at line
func (o *Opener) OpenAt(path string, line int) error {
	cmd, err := o.Command(path, line)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening path at line. A line <= 0 opens
// the file without jumping.
func (o *Opener) Command(path string, line int) (*exec.Cmd, error) {
	editor := o.findEditor()
	if editor == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	// $EDITOR may carry flags, e.g. "code --wait"
	fields := strings.Fields(editor)
	args := append(fields[1:], LineArgs(fields[0], path, line)...)

	cmd := exec.Command(fields[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// LineArgs returns the arguments that open path at line for editor
func LineArgs(editor, path string, line int) []string {
	if line <= 0 {
		return []string{path}
	}

	switch filepath.Base(editor) {
	case "vi", "vim", "nvim", "nano", "emacs", "kak":
		return []string{"+" + strconv.Itoa(line), path}
	case "code", "codium", "cursor":
		return []string{"--goto", path + ":" + strconv.Itoa(line)}
	case "micro", "hx", "helix", "subl", "zed":
		return []string{path + ":" + strconv.Itoa(line)}
	default:
		return []string{path}
	}
}

// findEditor returns the editor to use
func (o *Opener) findEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}

	// Try common editors
	for _, editor := range []string{"nvim", "vim", "vi", "nano", "code"} {
		if path, err := o.lookPath(editor); err == nil {
			return path
		}
	}

	return ""
}
