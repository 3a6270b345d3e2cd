package filesystem

import (
	"sync"

	"notesplit/internal/domain"
)

// Write is a change a DryRunStore held back
type Write struct {
	Path    string
	Before  string
	Content string
	Created bool
}

// DryRunStore reads from the vault but keeps every write in memory, so a
// run can be previewed without touching any file
type DryRunStore struct {
	base *Store

	mu     sync.Mutex
	notes  map[string]bool
	writes []Write
}

// NewDryRunStore wraps base
func NewDryRunStore(base *Store) *DryRunStore {
	return &DryRunStore{base: base, notes: map[string]bool{}}
}

// ReadDocument returns the last held-back content for path, or the file
func (s *DryRunStore) ReadDocument(path string) (string, error) {
	s.mu.Lock()
	for i := len(s.writes) - 1; i >= 0; i-- {
		if s.writes[i].Path == path {
			content := s.writes[i].Content
			s.mu.Unlock()
			return content, nil
		}
	}
	s.mu.Unlock()
	return s.base.ReadDocument(path)
}

// WriteDocument records the new content of path
func (s *DryRunStore) WriteDocument(path, content string) error {
	before, err := s.ReadDocument(path)
	if err != nil {
		before = ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, Write{Path: path, Before: before, Content: content})
	return nil
}

// Exists sees both the vault and notes created during the dry run
func (s *DryRunStore) Exists(name string) (bool, error) {
	s.mu.Lock()
	held := s.notes[name]
	s.mu.Unlock()
	if held {
		return true, nil
	}
	return s.base.Exists(name)
}

// Create picks a free name the same way Store does and records the note
func (s *DryRunStore) Create(base, content string) (string, string, error) {
	for n := 0; ; n++ {
		name := domain.CandidateName(base, n)
		exists, err := s.Exists(name)
		if err != nil {
			return "", "", err
		}
		if exists {
			continue
		}

		path := s.base.NotePath(name)
		s.mu.Lock()
		s.notes[name] = true
		s.writes = append(s.writes, Write{Path: path, Content: content, Created: true})
		s.mu.Unlock()
		return name, path, nil
	}
}

// Lock is a no-op; a dry run never writes the note
func (s *DryRunStore) Lock(string) (func() error, error) {
	return func() error { return nil }, nil
}

// Writes returns the held-back changes in the order they were made
func (s *DryRunStore) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Write, len(s.writes))
	copy(out, s.writes)
	return out
}
