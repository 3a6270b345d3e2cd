package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"notesplit/internal/application"
	"notesplit/internal/domain"
)

// DefaultExtension is appended to derived note names
const DefaultExtension = ".md"

// Store implements ports.NoteStore on top of an Obsidian vault directory
type Store struct {
	vaultPath string
	ext       string
}

// NewStore creates a new filesystem store rooted at vaultPath
func NewStore(vaultPath, ext string) *Store {
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Store{vaultPath: ExpandPath(vaultPath), ext: ext}
}

// ExpandPath expands a leading ~ to the home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[1:])
	}
	return path
}

// VaultPath returns the directory derived notes are written to
func (s *Store) VaultPath() string {
	return s.vaultPath
}

// NotePath returns the path a derived note called name would have
func (s *Store) NotePath(name string) string {
	return filepath.Join(s.vaultPath, name+s.ext)
}

// ReadDocument reads the whole source note
func (s *Store) ReadDocument(path string) (string, error) {
	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteDocument replaces the source note in a single write, keeping its mode
func (s *Store) WriteDocument(path, content string) error {
	path = ExpandPath(path)
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, []byte(content), mode)
}

// Exists checks the vault for a derived note called name. It always asks
// the filesystem, so notes created earlier in the same run are seen.
func (s *Store) Exists(name string) (bool, error) {
	_, err := os.Stat(s.NotePath(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Create writes a new derived note under the first free name among base,
// base-1, base-2, ... An existing note is never overwritten: a file that
// appears between the existence check and the write moves on to the next candidate.
func (s *Store) Create(base, content string) (string, string, error) {
	for n := 0; ; n++ {
		name := domain.CandidateName(base, n)
		exists, err := s.Exists(name)
		if err != nil {
			return "", "", fmt.Errorf("failed to check %s: %w", name, err)
		}
		if exists {
			continue
		}

		path := s.NotePath(name)
		err = writeExclusive(path, content)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("failed to create note %s: %w", name, err)
		}
		return name, path, nil
	}
}

// Lock takes an exclusive lock on the source note by creating <path>.lock
// holding this process's PID. A lock left by a process that no longer
// runs is taken over. The returned function releases it.
func (s *Store) Lock(path string) (func() error, error) {
	lockPath := ExpandPath(path) + ".lock"
	pid := strconv.Itoa(os.Getpid()) + "\n"

	err := writeExclusive(lockPath, pid)
	if errors.Is(err, os.ErrExist) && staleLock(lockPath) {
		if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lock %s: %w", lockPath, err)
		}
		err = writeExclusive(lockPath, pid)
	}
	if errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("%w: %s is held by %s; remove it if no run is in progress",
			application.ErrDocumentLocked, lockPath, lockOwner(lockPath))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	return func() error {
		return os.Remove(lockPath)
	}, nil
}

// lockPID returns the PID recorded in a lock file, or 0 when unreadable
func lockPID(lockPath string) int {
	data, err := os.ReadFile(lockPath)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0
	}
	return pid
}

func lockOwner(lockPath string) string {
	if pid := lockPID(lockPath); pid > 0 {
		return "pid " + strconv.Itoa(pid)
	}
	return "an unknown process"
}

// staleLock reports whether the lock's owner is known to have exited
func staleLock(lockPath string) bool {
	pid := lockPID(lockPath)
	if pid == 0 || pid == os.Getpid() {
		return false
	}
	return !processAlive(pid)
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return !errors.Is(err, os.ErrProcessDone)
}

func writeExclusive(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
