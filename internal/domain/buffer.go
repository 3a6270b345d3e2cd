package domain

import (
	"fmt"
	"strings"
)

// RangeError reports a line range that does not fit the buffer
type RangeError struct {
	Start int
	End   int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("line range %d-%d is outside the document (1-%d)", e.Start, e.End, e.Len)
}

// Buffer holds a note as an ordered, mutable sequence of lines.
// Line numbers are 1-indexed in every exported method.
type Buffer struct {
	path      string
	lines     []string
	separator string
}

// NewBuffer splits content into lines. A document using CRLF keeps CRLF
// when serialized again.
func NewBuffer(path, content string) *Buffer {
	sep := "\n"
	if strings.Contains(content, "\r\n") {
		sep = "\r\n"
	}
	return &Buffer{
		path:      path,
		lines:     strings.Split(content, sep),
		separator: sep,
	}
}

// Path returns the source document path
func (b *Buffer) Path() string {
	return b.path
}

// Len returns the current number of lines
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Lines returns a copy of the current lines
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// RenderNumbered returns the document with a padded line number in front of
// every line. The output is meant for the oracle only and is never parsed back.
func (b *Buffer) RenderNumbered() string {
	var sb strings.Builder
	for i, line := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%3d: %s", i+1, line)
	}
	return sb.String()
}

// Slice returns lines start..end (inclusive) joined by newlines
func (b *Buffer) Slice(start, end int) (string, error) {
	if start < 1 || end < start || end > len(b.lines) {
		return "", &RangeError{Start: start, End: end, Len: len(b.lines)}
	}
	return strings.Join(b.lines[start-1:end], "\n"), nil
}

// InsertAfter inserts text as a new line right after the given line.
// Line 0 inserts at the top of the document.
func (b *Buffer) InsertAfter(line int, text string) error {
	if line < 0 || line > len(b.lines) {
		return &RangeError{Start: line, End: line, Len: len(b.lines)}
	}
	b.lines = append(b.lines, "")
	copy(b.lines[line+1:], b.lines[line:])
	b.lines[line] = text
	return nil
}

// Text serializes the buffer with the document's line separator
func (b *Buffer) Text() string {
	return strings.Join(b.lines, b.separator)
}
