package editor

import (
	"errors"
	"reflect"
	"testing"
)

func TestLineArgs(t *testing.T) {
	tests := []struct {
		editor string
		line   int
		want   []string
	}{
		{"vim", 12, []string{"+12", "note.md"}},
		{"/usr/bin/nvim", 3, []string{"+3", "note.md"}},
		{"nano", 1, []string{"+1", "note.md"}},
		{"code", 12, []string{"--goto", "note.md:12"}},
		{"hx", 7, []string{"note.md:7"}},
		{"subl", 7, []string{"note.md:7"}},
		{"ed", 12, []string{"note.md"}},
		{"vim", 0, []string{"note.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.editor, func(t *testing.T) {
			got := LineArgs(tt.editor, "note.md", tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LineArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommand(t *testing.T) {
	t.Setenv("EDITOR", "code --wait")

	cmd, err := NewOpener().Command("/v/src.md", 12)
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	want := []string{"code", "--wait", "--goto", "/v/src.md:12"}
	if !reflect.DeepEqual(cmd.Args, want) {
		t.Errorf("Args = %v, want %v", cmd.Args, want)
	}
}

func TestCommand_NoEditor(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")
	o := NewOpener()
	o.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	if _, err := o.Command("x.md", 1); err == nil {
		t.Error("expected an error when no editor is available")
	}
}
