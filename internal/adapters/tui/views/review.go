package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"notesplit/internal/adapters/tui/styles"
	"notesplit/internal/domain"
)

// ReviewKeyMap defines key bindings for the review view
type ReviewKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	All     key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Help    key.Binding
}

// ReviewKeys holds the default review key bindings
var ReviewKeys = ReviewKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space", "toggle"),
	),
	All: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all/none"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "extract"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "q", "ctrl+c"),
		key.WithHelp("esc", "extract nothing"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

// reviewEntry is one selected identifier with its descriptor, when known
type reviewEntry struct {
	id      int
	segment *domain.Segment
	checked bool
}

// ReviewModel shows the oracle's selection as a checklist. Entries keep the
// order the oracle gave them; unchecking removes an entry from the result.
type ReviewModel struct {
	ViewState
	entries []reviewEntry
	cursor  int
	offset  int
}

// NewReviewModel creates a review model with every selected entry checked
func NewReviewModel(segments []domain.Segment, selection domain.Selection) *ReviewModel {
	m := &ReviewModel{}
	for _, id := range selection {
		e := reviewEntry{id: id, checked: true}
		for i := range segments {
			if segments[i].Matches(id) {
				e.segment = &segments[i]
				break
			}
		}
		m.entries = append(m.entries, e)
	}
	return m
}

// Init initializes the review view
func (m *ReviewModel) Init() tea.Cmd {
	return nil
}

// Selection returns the checked identifiers in their original order
func (m *ReviewModel) Selection() domain.Selection {
	sel := domain.Selection{}
	for _, e := range m.entries {
		if e.checked {
			sel = append(sel, e.id)
		}
	}
	return sel
}

// Update handles messages for the review view
func (m *ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		switch {
		case key.Matches(msg, ReviewKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, ReviewKeys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, ReviewKeys.Toggle):
			if len(m.entries) > 0 {
				e := &m.entries[m.cursor]
				e.checked = !e.checked
				if e.checked && e.segment == nil {
					m.SetMessage(fmt.Sprintf("segment %d is not in the table and will be skipped", e.id), true)
				}
			}
		case key.Matches(msg, ReviewKeys.All):
			m.toggleAll()
		case key.Matches(msg, ReviewKeys.Confirm):
			sel := m.Selection()
			return m, func() tea.Msg { return ReviewDoneMsg{Selection: sel} }
		case key.Matches(msg, ReviewKeys.Cancel):
			return m, func() tea.Msg { return ReviewCancelledMsg{} }
		case key.Matches(msg, ReviewKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		}
		m.scroll()
	}

	return m, nil
}

// toggleAll checks everything unless everything is already checked
func (m *ReviewModel) toggleAll() {
	all := true
	for _, e := range m.entries {
		all = all && e.checked
	}
	for i := range m.entries {
		m.entries[i].checked = !all
	}
}

// pageSize is how many entries fit on screen
func (m *ReviewModel) pageSize() int {
	if m.Height <= 8 {
		return max(len(m.entries), 1)
	}
	return m.Height - 8
}

// scroll keeps the cursor on the visible page
func (m *ReviewModel) scroll() {
	size := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+size {
		m.offset = m.cursor - size + 1
	}
}

// View renders the review view
func (m *ReviewModel) View() string {
	v := NewViewBuilder().
		Title("Review extraction").
		Subtitle(fmt.Sprintf("%d of %d segments selected", len(m.Selection()), len(m.entries)))

	if len(m.entries) == 0 {
		v.Line(styles.MutedText.Render("Nothing selected."))
	}

	end := min(m.offset+m.pageSize(), len(m.entries))
	for i := m.offset; i < end; i++ {
		v.Line(m.renderEntry(i))
	}

	return v.BlankLine().
		Message(m.Message, m.MessageErr).
		Help(ReviewKeys.Toggle, ReviewKeys.All, ReviewKeys.Confirm, ReviewKeys.Cancel, ReviewKeys.Help).
		String()
}

func (m *ReviewModel) renderEntry(i int) string {
	e := m.entries[i]

	box := styles.Unchecked.String()
	if e.checked {
		box = styles.Checked.String()
	}

	var b strings.Builder
	b.WriteString(styles.SegmentID.Render(fmt.Sprintf("%3d", e.id)))
	b.WriteString("  ")
	if e.segment != nil {
		b.WriteString(styles.SegmentLines.Render(fmt.Sprintf("%-9s", e.segment.Lines())))
		b.WriteString(" ")
		b.WriteString(e.segment.Description)
	} else {
		b.WriteString(styles.WarningMsg.Render("unknown segment, will be skipped"))
	}

	line := b.String()
	if i == m.cursor {
		line = styles.SegmentCursor.Render(line)
	}
	return box + " " + line
}
