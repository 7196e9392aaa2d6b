// Package adapter contains the filesystem and Go source adapters used by the
// discovery pipeline.
package adapter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	m "ducktape.dev/pkg/ducktape/internal/model"
)

// DefaultPackageMarker is the file whose presence makes a directory part of
// the loadable namespace.
const DefaultPackageMarker = "doc.go"

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning test trees. It hides direct `os` access so the
// discovery logic can be tested against fixtures without surprises.
type SourceFSAdapter interface {
	// Walk traverses root in lexical order. Returning filepath.SkipDir from fn
	// for a directory prunes it.
	Walk(root m.Path, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// ReadDir lists the Go source files directly inside dir, sorted by name.
	ReadDir(dir m.Path) ([]m.Path, error)

	// FileInfo returns metadata for a path so the domain can check existence or
	// distinguish between files and directories.
	FileInfo(path m.Path) (os.FileInfo, error)

	// IsPackage reports whether dir holds the package marker at its own level.
	IsPackage(dir m.Path) bool

	// FindPackageRoot climbs from path while directories are packages and
	// returns the parent of the topmost package directory.
	FindPackageRoot(path m.Path) (m.Path, error)

	// Abs returns an absolute, cleaned version of path.
	Abs(path m.Path) (m.Path, error)

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.WalkDir. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, entry fs.DirEntry, err error) error

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct {
	marker string
}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter that recognises
// packages by marker. An empty marker selects DefaultPackageMarker.
func NewLocalSourceFSAdapter(marker string) *LocalSourceFSAdapter {
	if marker == "" {
		marker = DefaultPackageMarker
	}

	return &LocalSourceFSAdapter{marker: marker}
}

// Walk iterates over root and everything below it.
func (a *LocalSourceFSAdapter) Walk(root m.Path, fn FilepathWalkFunc) error {
	return filepath.WalkDir(string(root), func(path string, d fs.DirEntry, err error) error {
		return fn(path, d, err)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// ReadDir returns the .go files of dir.
func (a *LocalSourceFSAdapter) ReadDir(dir m.Path) ([]m.Path, error) {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		return nil, err
	}

	var files []m.Path

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := m.Path(filepath.Join(string(dir), entry.Name()))
		if path.IsGoSource() {
			files = append(files, path)
		}
	}

	return files, nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// IsPackage checks for the marker file directly inside dir.
func (a *LocalSourceFSAdapter) IsPackage(dir m.Path) bool {
	info, err := os.Stat(filepath.Join(string(dir), a.marker))
	if err != nil {
		return false
	}

	return !info.IsDir()
}

// FindPackageRoot walks up the marker chain starting at path (a file or a
// directory). A path outside any package is its own root.
func (a *LocalSourceFSAdapter) FindPackageRoot(path m.Path) (m.Path, error) {
	abs, err := a.Abs(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(string(abs))
	if err != nil {
		return "", fmt.Errorf("package root of %s: %w", path, err)
	}

	dir := string(abs)
	if !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for a.IsPackage(m.Path(dir)) {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return m.Path(dir), nil
}

// Abs returns an absolute representation of path.
func (a *LocalSourceFSAdapter) Abs(path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
