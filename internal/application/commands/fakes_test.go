package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"notesplit/internal/application"
	"notesplit/internal/domain"
)

// scriptedOracle answers each prompt kind with a canned response
type scriptedOracle struct {
	table    string
	decision string
	names    []string

	segmentErr error
	decideErr  error
	nameErr    map[int]error // keyed by naming call index

	nameCalls []string // content passed to each naming call
}

func (o *scriptedOracle) Name() string { return "scripted" }

func (o *scriptedOracle) Classify(_ context.Context, prompt string, _ float64) (string, error) {
	switch {
	case strings.HasPrefix(prompt, "Analyze the following"):
		return o.table, o.segmentErr
	case strings.HasPrefix(prompt, "You are helping with knowledge management"):
		return o.decision, o.decideErr
	case strings.HasPrefix(prompt, "Generate a concise"):
		idx := len(o.nameCalls)
		content := prompt[strings.Index(prompt, "Content to name:\n")+len("Content to name:\n"):]
		content = content[:strings.Index(content, "\n\nReturn ONLY")]
		o.nameCalls = append(o.nameCalls, content)
		if err := o.nameErr[idx]; err != nil {
			return "", err
		}
		if idx < len(o.names) {
			return o.names[idx], nil
		}
		return fmt.Sprintf("note %d", idx), nil
	}
	return "", &application.MalformedResponse{Backend: "scripted", Reason: "unexpected prompt"}
}

// streamingOracle delivers the segmentation table in chunks
type streamingOracle struct {
	scriptedOracle
	chunkSize int
}

func (o *streamingOracle) Stream(ctx context.Context, prompt string, temperature float64, chunks chan<- string) error {
	defer close(chunks)
	out, err := o.Classify(ctx, prompt, temperature)
	if err != nil {
		return err
	}
	for len(out) > 0 {
		n := min(o.chunkSize, len(out))
		chunks <- out[:n]
		out = out[n:]
	}
	return nil
}

// memStore keeps documents and derived notes in memory
type memStore struct {
	vault     string
	docs      map[string]string
	notes     map[string]string
	failNames map[string]bool // Create fails when the base name is listed

	writes  int
	locked  map[string]bool
	readErr error
	saveErr error
}

func newMemStore(vault string) *memStore {
	return &memStore{
		vault:     vault,
		docs:      map[string]string{},
		notes:     map[string]string{},
		failNames: map[string]bool{},
		locked:    map[string]bool{},
	}
}

func (s *memStore) ReadDocument(path string) (string, error) {
	if s.readErr != nil {
		return "", s.readErr
	}
	content, ok := s.docs[path]
	if !ok {
		return "", fmt.Errorf("open %s: no such file", path)
	}
	return content, nil
}

func (s *memStore) WriteDocument(path, content string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.writes++
	s.docs[path] = content
	return nil
}

func (s *memStore) Exists(name string) (bool, error) {
	_, ok := s.notes[name]
	return ok, nil
}

func (s *memStore) Create(base, content string) (string, string, error) {
	if s.failNames[base] {
		return "", "", errors.New("permission denied")
	}
	for n := 0; ; n++ {
		name := domain.CandidateName(base, n)
		if _, ok := s.notes[name]; !ok {
			s.notes[name] = content
			return name, filepath.Join(s.vault, name+".md"), nil
		}
	}
}

func (s *memStore) Lock(path string) (func() error, error) {
	if s.locked[path] {
		return nil, fmt.Errorf("%w: %s", application.ErrDocumentLocked, path)
	}
	s.locked[path] = true
	return func() error {
		delete(s.locked, path)
		return nil
	}, nil
}

// fixedReviewer returns a preset selection
type fixedReviewer struct {
	keep domain.Selection
	got  domain.Selection
}

func (r *fixedReviewer) Review(_ []domain.Segment, sel domain.Selection) (domain.Selection, error) {
	r.got = sel
	return r.keep, nil
}

// numbered builds a note of n lines "line 1".."line n"
func numbered(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return strings.Join(lines, "\n")
}
