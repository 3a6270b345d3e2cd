package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"notesplit/internal/domain"
	"notesplit/internal/ports"
)

// Reviewer implements ports.SelectionReviewer with an interactive checklist
type Reviewer struct {
	opts []tea.ProgramOption
}

// Ensure Reviewer implements SelectionReviewer
var _ ports.SelectionReviewer = (*Reviewer)(nil)

// NewReviewer creates a reviewer that runs on the terminal. in and out
// override stdin/stdout when non-nil.
func NewReviewer(in io.Reader, out io.Writer) *Reviewer {
	r := &Reviewer{}
	if in != nil {
		r.opts = append(r.opts, tea.WithInput(in))
	}
	if out != nil {
		r.opts = append(r.opts, tea.WithOutput(out))
	}
	return r
}

// Review shows the selection and returns what the operator confirmed
func (r *Reviewer) Review(segments []domain.Segment, selection domain.Selection) (domain.Selection, error) {
	app := NewApp(segments, selection)
	if _, err := tea.NewProgram(app, r.opts...).Run(); err != nil {
		return nil, fmt.Errorf("review failed: %w", err)
	}
	return app.Selection(), nil
}
