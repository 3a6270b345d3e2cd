package tui

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"notesplit/internal/adapters/tui/views"
	"notesplit/internal/domain"
)

func testSegments() []domain.Segment {
	return domain.ParseSegments("1,1,5,frontmatter\n2,7,11,insight A\n3,12,20,insight B").Segments
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive feeds keys to the app, following the commands each key returns
func drive(app *App, keys ...string) {
	for _, k := range keys {
		_, cmd := app.Update(keyMsg(k))
		for cmd != nil {
			msg := cmd()
			if _, ok := msg.(tea.QuitMsg); ok {
				return
			}
			_, cmd = app.Update(msg)
		}
	}
}

func TestApp_Review(t *testing.T) {
	tests := []struct {
		name      string
		selection domain.Selection
		keys      []string
		want      domain.Selection
	}{
		{
			name:      "confirm unchanged",
			selection: domain.Selection{3, 2},
			keys:      []string{"enter"},
			want:      domain.Selection{3, 2},
		},
		{
			name:      "uncheck second keeps order",
			selection: domain.Selection{3, 1, 2},
			keys:      []string{"down", " ", "enter"},
			want:      domain.Selection{3, 2},
		},
		{
			name:      "cancel drops everything",
			selection: domain.Selection{2},
			keys:      []string{"esc"},
			want:      domain.Selection{},
		},
		{
			name:      "all toggles off then on",
			selection: domain.Selection{1, 2},
			keys:      []string{"a", "enter"},
			want:      domain.Selection{},
		},
		{
			name:      "help does not confirm",
			selection: domain.Selection{1},
			keys:      []string{"?", "esc", "enter"},
			want:      domain.Selection{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := NewApp(testSegments(), tt.selection)
			drive(app, tt.keys...)

			got := app.Selection()
			if len(got) != len(tt.want) || (len(tt.want) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Errorf("Selection() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApp_SelectionBeforeDoneIsEmpty(t *testing.T) {
	app := NewApp(testSegments(), domain.Selection{1})
	if len(app.Selection()) != 0 {
		t.Error("unfinished review must not select anything")
	}
}

func TestReviewModel_View(t *testing.T) {
	m := views.NewReviewModel(testSegments(), domain.Selection{2, 9})
	out := m.View()

	for _, want := range []string{"insight A", "7-11", "unknown segment", "2 of 2 segments selected"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestReviewModel_WarnsOnUnknownSegment(t *testing.T) {
	m := views.NewReviewModel(testSegments(), domain.Selection{9})

	m.Update(keyMsg(" "))
	if m.Message != "" {
		t.Errorf("unchecking should not warn, got %q", m.Message)
	}

	m.Update(keyMsg(" "))
	if !m.MessageErr || !strings.Contains(m.Message, "segment 9") {
		t.Errorf("message = %q, err = %v", m.Message, m.MessageErr)
	}
	if !strings.Contains(m.View(), "segment 9 is not in the table") {
		t.Error("warning not rendered")
	}

	m.Update(keyMsg("down"))
	if m.Message != "" {
		t.Error("next key should clear the warning")
	}
}
