package obsidian

import (
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"notesplit/internal/ports"
)

// Opener implements ports.NoteOpener using the obsidian:// URI scheme
type Opener struct {
	vaultPath string
	vaultName string
	run       func(name string, args ...string) error
}

// Ensure Opener implements NoteOpener
var _ ports.NoteOpener = (*Opener)(nil)

// NewOpener creates a new Obsidian opener for the given vault path
func NewOpener(vaultPath string) *Opener {
	return &Opener{
		vaultPath: vaultPath,
		vaultName: filepath.Base(vaultPath),
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// OpenFile opens a note in Obsidian
func (o *Opener) OpenFile(filePath string) error {
	uri, err := o.BuildURI(filePath)
	if err != nil {
		return err
	}
	return o.openURI(uri)
}

// BuildURI constructs the obsidian:// URI for a given file path
func (o *Opener) BuildURI(filePath string) (string, error) {
	relPath, err := filepath.Rel(o.vaultPath, filePath)
	if err != nil {
		return "", fmt.Errorf("failed to get relative path: %w", err)
	}

	if strings.HasPrefix(relPath, "..") {
		return "", fmt.Errorf("file is outside the vault: %s", filePath)
	}

	// Obsidian expects forward slashes and no extension for notes
	relPath = strings.TrimSuffix(filepath.ToSlash(relPath), ".md")

	return fmt.Sprintf("obsidian://open?vault=%s&file=%s",
		escape(o.vaultName),
		escape(relPath),
	), nil
}

// SearchURI constructs an obsidian:// URI that searches the vault, e.g. for
// every note linking to a derived note
func (o *Opener) SearchURI(query string) string {
	return fmt.Sprintf("obsidian://search?vault=%s&query=%s",
		escape(o.vaultName),
		escape(query),
	)
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func (o *Opener) openURI(uri string) error {
	switch runtime.GOOS {
	case "darwin":
		return o.run("open", uri)
	case "linux":
		return o.run("xdg-open", uri)
	case "windows":
		return o.run("cmd", "/c", "start", "", uri)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}
