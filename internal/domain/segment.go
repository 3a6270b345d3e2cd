package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Field is a table cell that is an integer when the oracle wrote a plain
// number, and raw text otherwise
type Field struct {
	Raw   string
	Value int
	IsInt bool
}

// ParseField converts a raw cell. Only ASCII digits count as numeric.
func ParseField(raw string) Field {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Field{Raw: raw}
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return Field{Raw: raw}
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return Field{Raw: raw}
	}
	return Field{Raw: raw, Value: n, IsInt: true}
}

// IntField builds a numeric field
func IntField(n int) Field {
	return Field{Raw: strconv.Itoa(n), Value: n, IsInt: true}
}

func (f Field) String() string {
	return f.Raw
}

// Segment describes a labeled line range of the source note
type Segment struct {
	ID          Field
	Start       Field
	End         Field
	Description string
}

// Actionable reports whether the segment's range can be sliced
func (s Segment) Actionable() bool {
	return s.Start.IsInt && s.End.IsInt && s.Start.Value >= 1 && s.Start.Value <= s.End.Value
}

// Matches reports whether the segment carries the given numeric identifier
func (s Segment) Matches(id int) bool {
	return s.ID.IsInt && s.ID.Value == id
}

// Lines returns the display form of the range, e.g. "7-11"
func (s Segment) Lines() string {
	return fmt.Sprintf("%s-%s", s.Start.Raw, s.End.Raw)
}

// Overlaps reports whether two actionable segments share at least one line
func (s Segment) Overlaps(other Segment) bool {
	return s.Start.Value <= other.End.Value && other.Start.Value <= s.End.Value
}

// MalformedRow is a table row that could not become a Segment
type MalformedRow struct {
	Line   int
	Fields []string
	Reason string
}

// ParseResult holds every descriptor in row order plus the rejected rows
type ParseResult struct {
	Segments  []Segment
	Malformed []MalformedRow
}

// FindSegment returns the first segment carrying id
func (r ParseResult) FindSegment(id int) (Segment, bool) {
	for _, s := range r.Segments {
		if s.Matches(id) {
			return s, true
		}
	}
	return Segment{}, false
}

var codeFenceRe = regexp.MustCompile("```(?:csv)?\\s*\\n?([\\s\\S]*?)\\n?```")

// ParseSegments reads the oracle's segmentation table: one row per line,
// fields id,start,end,description. Short rows are reported, not fatal.
func ParseSegments(table string) ParseResult {
	var result ParseResult

	table = strings.TrimSpace(table)
	if matches := codeFenceRe.FindStringSubmatch(table); len(matches) > 1 {
		table = strings.TrimSpace(matches[1])
	}
	if table == "" {
		return result
	}

	r := csv.NewReader(strings.NewReader(table))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// encoding/csv cannot resume after a syntax error
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.StartLine
			}
			result.Malformed = append(result.Malformed, MalformedRow{
				Line:   line,
				Fields: row,
				Reason: err.Error(),
			})
			break
		}

		line, _ := r.FieldPos(0)
		if len(row) < 4 {
			result.Malformed = append(result.Malformed, MalformedRow{
				Line:   line,
				Fields: row,
				Reason: fmt.Sprintf("expected 4 fields, got %d", len(row)),
			})
			continue
		}

		result.Segments = append(result.Segments, Segment{
			ID:          ParseField(row[0]),
			Start:       ParseField(row[1]),
			End:         ParseField(row[2]),
			Description: strings.TrimSpace(strings.Join(row[3:], ", ")),
		})
	}

	return result
}
