package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	m "ducktape.dev/pkg/ducktape/internal/model"
)

var (
	// ErrResultsDirExists is returned when a session would overwrite earlier results.
	ErrResultsDirExists = errors.New("results directory already exists")
	// ErrNoManifest is returned when a session recorded no tests.
	ErrNoManifest = errors.New("no recorded tests")
)

// SessionStore persists session bookkeeping: the last issued session id and
// the per-session results directories.
type SessionStore interface {
	LoadLastID(file m.Path) (string, error)
	SaveLastID(file m.Path, id string) error
	CreateResultsDir(dir m.Path) error
	LinkLatest(link m.Path, target m.Path) error
	WriteManifest(file m.Path, data []byte) error
	ReadManifest(file m.Path) ([]byte, error)
}

// LocalSessionStore implements SessionStore on the local filesystem.
type LocalSessionStore struct{}

// NewLocalSessionStore constructs a LocalSessionStore.
func NewLocalSessionStore() *LocalSessionStore {
	return &LocalSessionStore{}
}

// LoadLastID returns the id stored in file, or "" when the file does not exist.
func (s *LocalSessionStore) LoadLastID(file m.Path) (string, error) {
	data, err := os.ReadFile(string(file))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("read session id %s: %w", file, err)
	}

	return strings.TrimSpace(string(data)), nil
}

// SaveLastID writes id to file, creating its directory when needed.
func (s *LocalSessionStore) SaveLastID(file m.Path, id string) error {
	if err := os.MkdirAll(filepath.Dir(string(file)), 0o755); err != nil {
		return fmt.Errorf("create metadata dir for %s: %w", file, err)
	}

	if err := os.WriteFile(string(file), []byte(id+"\n"), 0o644); err != nil {
		return fmt.Errorf("write session id %s: %w", file, err)
	}

	slog.Debug("saved session id", "file", file, "id", id)

	return nil
}

// CreateResultsDir creates dir and its parents. An existing dir is an error.
func (s *LocalSessionStore) CreateResultsDir(dir m.Path) error {
	if _, err := os.Stat(string(dir)); err == nil {
		return fmt.Errorf("%w: %s", ErrResultsDirExists, dir)
	}

	if err := os.MkdirAll(string(dir), 0o755); err != nil {
		return fmt.Errorf("create results dir %s: %w", dir, err)
	}

	return nil
}

// LinkLatest points link at target, replacing any previous link.
func (s *LocalSessionStore) LinkLatest(link m.Path, target m.Path) error {
	if _, err := os.Lstat(string(link)); err == nil {
		if err := os.Remove(string(link)); err != nil {
			return fmt.Errorf("remove %s: %w", link, err)
		}
	}

	if err := os.Symlink(string(target), string(link)); err != nil {
		return fmt.Errorf("link %s -> %s: %w", link, target, err)
	}

	return nil
}

// WriteManifest stores the discovered tests of a session.
func (s *LocalSessionStore) WriteManifest(file m.Path, data []byte) error {
	if err := os.WriteFile(string(file), data, 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", file, err)
	}

	return nil
}

// ReadManifest loads a manifest written by WriteManifest. Links in file are
// followed.
func (s *LocalSessionStore) ReadManifest(file m.Path) ([]byte, error) {
	data, err := os.ReadFile(string(file))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoManifest, file)
	}

	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", file, err)
	}

	return data, nil
}
