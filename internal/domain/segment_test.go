package domain

import (
	"testing"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		raw       string
		wantInt   bool
		wantValue int
	}{
		{raw: "12", wantInt: true, wantValue: 12},
		{raw: " 7 ", wantInt: true, wantValue: 7},
		{raw: "007", wantInt: true, wantValue: 7},
		{raw: "", wantInt: false},
		{raw: "-3", wantInt: false},
		{raw: "1.5", wantInt: false},
		{raw: "five", wantInt: false},
		{raw: "١٢", wantInt: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			f := ParseField(tt.raw)
			if f.IsInt != tt.wantInt {
				t.Fatalf("IsInt = %v, want %v", f.IsInt, tt.wantInt)
			}
			if f.IsInt && f.Value != tt.wantValue {
				t.Errorf("Value = %d, want %d", f.Value, tt.wantValue)
			}
		})
	}
}

func TestParseSegments_WellFormed(t *testing.T) {
	table := "1,1,5,YAML frontmatter metadata\n2,7,11,Groq performance notes\n3,12,28,Project ideas"

	result := ParseSegments(table)

	if len(result.Malformed) != 0 {
		t.Fatalf("unexpected malformed rows: %+v", result.Malformed)
	}
	if len(result.Segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(result.Segments))
	}

	want := []struct {
		id, start, end int
		desc           string
	}{
		{1, 1, 5, "YAML frontmatter metadata"},
		{2, 7, 11, "Groq performance notes"},
		{3, 12, 28, "Project ideas"},
	}
	for i, w := range want {
		s := result.Segments[i]
		if !s.Matches(w.id) || s.Start.Value != w.start || s.End.Value != w.end || s.Description != w.desc {
			t.Errorf("segment %d = %+v, want %+v", i, s, w)
		}
		if !s.Actionable() {
			t.Errorf("segment %d should be actionable", i)
		}
	}
}

func TestParseSegments_Tolerant(t *testing.T) {
	tests := []struct {
		name          string
		table         string
		wantSegments  int
		wantMalformed int
	}{
		{
			name:          "empty input",
			table:         "",
			wantSegments:  0,
			wantMalformed: 0,
		},
		{
			name:          "short row skipped",
			table:         "1,1,5,meta\n2,7\n3,12,20,ideas",
			wantSegments:  2,
			wantMalformed: 1,
		},
		{
			name:          "code fence stripped",
			table:         "```csv\n1,1,5,meta\n2,7,11,insight\n```",
			wantSegments:  2,
			wantMalformed: 0,
		},
		{
			name:          "quoted description with comma",
			table:         "1,1,5,\"meta, frontmatter\"",
			wantSegments:  1,
			wantMalformed: 0,
		},
		{
			name:          "conversational padding is reported",
			table:         "Here are the segments\n1,1,5,meta",
			wantSegments:  1,
			wantMalformed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseSegments(tt.table)
			if len(result.Segments) != tt.wantSegments {
				t.Errorf("got %d segments, want %d", len(result.Segments), tt.wantSegments)
			}
			if len(result.Malformed) != tt.wantMalformed {
				t.Errorf("got %d malformed rows, want %d", len(result.Malformed), tt.wantMalformed)
			}
		})
	}
}

func TestParseSegments_NonNumericKeptButNotActionable(t *testing.T) {
	result := ParseSegments("A,start,11,odd row\n2,9,4,reversed\n3,7,11,fine")

	if len(result.Segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(result.Segments))
	}
	if result.Segments[0].ID.IsInt || result.Segments[0].Actionable() {
		t.Errorf("segment with text fields should be kept and non-actionable: %+v", result.Segments[0])
	}
	if result.Segments[1].Actionable() {
		t.Error("segment with end < start should not be actionable")
	}
	if !result.Segments[2].Actionable() {
		t.Error("well-formed segment should be actionable")
	}
	if got := result.Segments[0].Lines(); got != "start-11" {
		t.Errorf("Lines() = %q, want %q", got, "start-11")
	}
}

func TestParseResult_FindSegment(t *testing.T) {
	result := ParseSegments("4,1,2,first\n9,3,4,second")

	s, ok := result.FindSegment(9)
	if !ok || s.Description != "second" {
		t.Errorf("FindSegment(9) = %+v, %v", s, ok)
	}
	if _, ok := result.FindSegment(1); ok {
		t.Error("FindSegment(1) should not match a missing identifier")
	}
}

func TestSegment_Overlaps(t *testing.T) {
	a := Segment{Start: IntField(10), End: IntField(12)}
	tests := []struct {
		name string
		b    Segment
		want bool
	}{
		{"disjoint after", Segment{Start: IntField(20), End: IntField(22)}, false},
		{"adjacent", Segment{Start: IntField(13), End: IntField(15)}, false},
		{"shares end line", Segment{Start: IntField(12), End: IntField(15)}, true},
		{"contains", Segment{Start: IntField(1), End: IntField(30)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}
