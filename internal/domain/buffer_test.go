package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return strings.Join(lines, "\n")
}

func TestBuffer_RenderNumbered(t *testing.T) {
	buf := NewBuffer("note.md", "---\ntitle: x\n---")

	want := "  1: ---\n  2: title: x\n  3: ---"
	if got := buf.RenderNumbered(); got != want {
		t.Errorf("RenderNumbered() = %q, want %q", got, want)
	}
}

func TestBuffer_Slice(t *testing.T) {
	buf := NewBuffer("note.md", numberedLines(5))

	tests := []struct {
		name    string
		start   int
		end     int
		want    string
		wantErr bool
	}{
		{name: "single line", start: 2, end: 2, want: "line 2"},
		{name: "inclusive range", start: 2, end: 4, want: "line 2\nline 3\nline 4"},
		{name: "whole document", start: 1, end: 5, want: numberedLines(5)},
		{name: "start below one", start: 0, end: 2, wantErr: true},
		{name: "end before start", start: 4, end: 3, wantErr: true},
		{name: "end past document", start: 4, end: 6, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buf.Slice(tt.start, tt.end)

			if tt.wantErr {
				var rangeErr *RangeError
				if !errors.As(err, &rangeErr) {
					t.Fatalf("expected RangeError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Slice(%d, %d) = %q, want %q", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestBuffer_InsertAfter(t *testing.T) {
	buf := NewBuffer("note.md", "a\nb\nc")

	if err := buf.InsertAfter(2, "inserted"); err != nil {
		t.Fatalf("InsertAfter failed: %v", err)
	}
	if got := buf.Text(); got != "a\nb\ninserted\nc" {
		t.Errorf("Text() = %q", got)
	}

	if err := buf.InsertAfter(4, "tail"); err != nil {
		t.Fatalf("InsertAfter at end failed: %v", err)
	}
	if err := buf.InsertAfter(0, "head"); err != nil {
		t.Fatalf("InsertAfter at top failed: %v", err)
	}
	if got := buf.Text(); got != "head\na\nb\ninserted\nc\ntail" {
		t.Errorf("Text() = %q", got)
	}

	if err := buf.InsertAfter(7, "nope"); err == nil {
		t.Error("expected error inserting past the end")
	}
	if buf.Len() != 6 {
		t.Errorf("Len() = %d after failed insert, want 6", buf.Len())
	}
}

func TestBuffer_ReverseInsertionsKeepRanges(t *testing.T) {
	buf := NewBuffer("note.md", numberedLines(30))
	original := buf.Lines()

	// Later segment first, so the earlier range is still addressed correctly.
	for _, end := range []int{22, 12} {
		if err := buf.InsertAfter(end, "- sent to [[x]]"); err != nil {
			t.Fatalf("InsertAfter(%d) failed: %v", end, err)
		}
	}

	if buf.Len() != len(original)+2 {
		t.Fatalf("Len() = %d, want %d", buf.Len(), len(original)+2)
	}

	lines := buf.Lines()
	for i := 0; i < 12; i++ {
		if lines[i] != original[i] {
			t.Errorf("line %d = %q, want %q", i+1, lines[i], original[i])
		}
	}
	if lines[12] != "- sent to [[x]]" {
		t.Errorf("line 13 = %q, want back-reference", lines[12])
	}
	for i := 12; i < 22; i++ {
		if lines[i+1] != original[i] {
			t.Errorf("shifted line %d = %q, want %q", i+2, lines[i+1], original[i])
		}
	}
	if lines[23] != "- sent to [[x]]" {
		t.Errorf("line 24 = %q, want back-reference", lines[23])
	}
}

func TestBuffer_PreservesCRLF(t *testing.T) {
	buf := NewBuffer("note.md", "a\r\nb\r\n")

	if buf.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", buf.Len())
	}
	if err := buf.InsertAfter(1, "x"); err != nil {
		t.Fatal(err)
	}
	if got := buf.Text(); got != "a\r\nx\r\nb\r\n" {
		t.Errorf("Text() = %q", got)
	}
}
