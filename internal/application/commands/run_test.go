package commands

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"notesplit/internal/application"
	"notesplit/internal/domain"
)

const exampleNote = `---
title: recurrence
tags: [ssm]
created: 2024-01-01
---

Insight A starts here
it explains the recurrence
as a state space
with a transition matrix
and ends here
## Later
loose thoughts`

func newRun(store *memStore, oracle *scriptedOracle, opts RunOptions) *RunCommand {
	if opts.NotePath == "" {
		opts.NotePath = "/vault/src.md"
	}
	if opts.VaultPath == "" {
		opts.VaultPath = "/vault"
	}
	return NewRunCommand(store, oracle, nil, opts)
}

func TestRun_EndToEndExample(t *testing.T) {
	store := newMemStore("/vault")
	store.docs["/vault/src.md"] = exampleNote
	oracle := &scriptedOracle{
		table:    "1,1,5,frontmatter\n2,7,11,insight A",
		decision: "2",
		names:    []string{"Recurrence as State Space"},
	}

	result, err := newRun(store, oracle, RunOptions{LockDocument: true}).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Outcome != OutcomeExtracted || !result.Persisted {
		t.Fatalf("outcome = %v, persisted = %v", result.Outcome, result.Persisted)
	}
	if store.writes != 1 {
		t.Errorf("source written %d times, want 1", store.writes)
	}

	lines := strings.Split(store.docs["/vault/src.md"], "\n")
	if lines[11] != "- sent to [[recurrence-as-state-space]]" {
		t.Errorf("line 12 = %q", lines[11])
	}
	want := strings.Split(exampleNote, "\n")
	want = append(want[:11], append([]string{"- sent to [[recurrence-as-state-space]]"}, want[11:]...)...)
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("source note = %q, want %q", lines, want)
	}

	note := store.notes["recurrence-as-state-space"]
	if !strings.HasSuffix(note, "\n---\n\nInsight A starts here\nit explains the recurrence\nas a state space\nwith a transition matrix\nand ends here\n") {
		t.Errorf("derived note = %q", note)
	}

	records := result.Records()
	if len(records) != 1 || records[0].SegmentID != 2 || records[0].Lines != "7-11" || records[0].Description != "insight A" {
		t.Errorf("records = %+v", records)
	}
	if len(store.locked) != 0 {
		t.Error("lock should be released after the run")
	}
}

func TestRun_ZeroRecordsLeavesSourceUntouched(t *testing.T) {
	tests := []struct {
		name        string
		table       string
		decision    string
		failNames   []string
		wantOutcome RunOutcome
	}{
		{
			name:        "no segments",
			table:       "I could not segment this note.",
			wantOutcome: OutcomeNoSegments,
		},
		{
			name:        "none selected",
			table:       "1,1,5,frontmatter",
			decision:    "  None ",
			wantOutcome: OutcomeNothingSelected,
		},
		{
			name:        "garbage decision",
			table:       "1,1,5,frontmatter",
			decision:    "I would rather not say.",
			wantOutcome: OutcomeNothingSelected,
		},
		{
			name:        "unknown identifiers",
			table:       "1,1,5,frontmatter",
			decision:    "4, 8",
			wantOutcome: OutcomeNothingExtracted,
		},
		{
			name:        "every write fails",
			table:       "1,7,11,insight",
			decision:    "1",
			failNames:   []string{"insight"},
			wantOutcome: OutcomeNothingExtracted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore("/vault")
			store.docs["/vault/src.md"] = exampleNote
			for _, n := range tt.failNames {
				store.failNames[n] = true
			}
			oracle := &scriptedOracle{table: tt.table, decision: tt.decision, names: []string{"insight"}}

			result, err := newRun(store, oracle, RunOptions{}).Execute(context.Background())
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}

			if result.Outcome != tt.wantOutcome {
				t.Errorf("outcome = %v, want %v", result.Outcome, tt.wantOutcome)
			}
			if store.writes != 0 {
				t.Errorf("source written %d times, want 0", store.writes)
			}
			if store.docs["/vault/src.md"] != exampleNote {
				t.Error("source note changed")
			}
			if result.After != result.Before {
				t.Error("After should equal Before when nothing was extracted")
			}
		})
	}
}

func TestRun_UnreadableNoteIsFatalBeforeOracle(t *testing.T) {
	store := newMemStore("/vault")
	oracle := &scriptedOracle{}

	_, err := newRun(store, oracle, RunOptions{}).Execute(context.Background())

	if !errors.Is(err, application.ErrDocumentUnreadable) {
		t.Fatalf("expected ErrDocumentUnreadable, got %v", err)
	}
	if len(oracle.nameCalls) != 0 {
		t.Error("no oracle call should happen")
	}
}

func TestRun_OracleFailureDuringSegmentation(t *testing.T) {
	store := newMemStore("/vault")
	store.docs["/vault/src.md"] = exampleNote
	oracle := &scriptedOracle{segmentErr: &application.TransportError{Backend: "scripted", Err: errors.New("503")}}

	_, err := newRun(store, oracle, RunOptions{}).Execute(context.Background())

	var te *application.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if store.writes != 0 {
		t.Error("source must not be written")
	}
}

func TestRun_PersistFailureKeepsCreatedNotes(t *testing.T) {
	store := newMemStore("/vault")
	store.docs["/vault/src.md"] = exampleNote
	store.saveErr = errors.New("read-only file system")
	oracle := &scriptedOracle{table: "2,7,11,insight A", decision: "2", names: []string{"insight-a"}}

	result, err := newRun(store, oracle, RunOptions{}).Execute(context.Background())

	var pe *application.PersistError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistError, got %v", err)
	}
	if result == nil || len(result.Records()) != 1 || result.Persisted {
		t.Fatalf("result = %+v", result)
	}
	if _, ok := store.notes["insight-a"]; !ok {
		t.Error("derived note should remain on disk")
	}
}

func TestRun_LockedNote(t *testing.T) {
	store := newMemStore("/vault")
	store.docs["/vault/src.md"] = exampleNote
	store.locked["/vault/src.md"] = true

	_, err := newRun(store, &scriptedOracle{}, RunOptions{LockDocument: true}).Execute(context.Background())

	if !errors.Is(err, application.ErrDocumentLocked) {
		t.Fatalf("expected ErrDocumentLocked, got %v", err)
	}
}

func TestRun_ReviewerTrimsSelection(t *testing.T) {
	store := newMemStore("/vault")
	store.docs["/vault/src.md"] = numbered(30)
	oracle := &scriptedOracle{
		table:    "1,1,3,a\n2,10,12,b\n3,20,22,c",
		decision: "2,3",
		names:    []string{"c-note"},
	}
	reviewer := &fixedReviewer{keep: domain.Selection{3}}

	result, err := newRun(store, oracle, RunOptions{Reviewer: reviewer}).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !reflect.DeepEqual(reviewer.got, domain.Selection{2, 3}) {
		t.Errorf("reviewer saw %v", reviewer.got)
	}
	if len(result.Records()) != 1 || result.Records()[0].SegmentID != 3 {
		t.Errorf("records = %+v", result.Records())
	}
	if !reflect.DeepEqual(result.Decision.Selection, domain.Selection{3}) {
		t.Errorf("decision selection = %v", result.Decision.Selection)
	}
}

func TestRun_StreamsSegmentationToEcho(t *testing.T) {
	store := newMemStore("/vault")
	store.docs["/vault/src.md"] = exampleNote
	oracle := &streamingOracle{
		scriptedOracle: scriptedOracle{table: "1,1,5,frontmatter\n2,7,11,insight A", decision: "none"},
		chunkSize:      4,
	}
	var echo bytes.Buffer

	result, err := NewRunCommand(store, oracle, nil, RunOptions{NotePath: "/vault/src.md", Echo: &echo}).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if echo.String() != "1,1,5,frontmatter\n2,7,11,insight A" {
		t.Errorf("echo = %q", echo.String())
	}
	if len(result.Segments.Parsed.Segments) != 2 {
		t.Errorf("parsed %d segments, want 2", len(result.Segments.Parsed.Segments))
	}
}

func TestRun_Validate(t *testing.T) {
	cmd := NewRunCommand(newMemStore("/vault"), &scriptedOracle{}, nil, RunOptions{})

	var valErr *application.ValidationError
	if err := cmd.Validate(); !errors.As(err, &valErr) || valErr.Field != "notePath" {
		t.Errorf("Validate() = %v, want notePath ValidationError", err)
	}
}

func TestRunResult_ReferenceLine(t *testing.T) {
	store := newMemStore("/vault")
	store.docs["/vault/src.md"] = numbered(30)
	oracle := &scriptedOracle{
		table:    "1,10,12,b\n2,20,22,c",
		decision: "1,2",
		names:    []string{"c-note", "b-note"},
	}

	result, err := newRun(store, oracle, RunOptions{}).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if got := result.ReferenceLine(); got != 13 {
		t.Errorf("ReferenceLine() = %d, want 13", got)
	}
	if got := (&RunResult{}).ReferenceLine(); got != 0 {
		t.Errorf("empty result ReferenceLine() = %d, want 0", got)
	}
}

func TestRunResult_ReferenceLineCRLF(t *testing.T) {
	store := newMemStore("/vault")
	store.docs["/vault/src.md"] = strings.ReplaceAll(exampleNote, "\n", "\r\n")
	oracle := &scriptedOracle{
		table:    "1,1,5,frontmatter\n2,7,11,insight A",
		decision: "2",
		names:    []string{"Recurrence as State Space"},
	}

	result, err := newRun(store, oracle, RunOptions{}).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !strings.Contains(result.After, "\r\n- sent to [[recurrence-as-state-space]]\r\n") {
		t.Fatalf("after = %q", result.After)
	}
	if got := result.ReferenceLine(); got != 12 {
		t.Errorf("ReferenceLine() = %d, want 12", got)
	}
}
