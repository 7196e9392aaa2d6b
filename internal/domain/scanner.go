package domain

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"

	"ducktape.dev/pkg/ducktape/internal/adapter"
	m "ducktape.dev/pkg/ducktape/internal/model"
)

// FileScanner finds candidate test files below a root.
type FileScanner interface {
	Scan(root m.Path, pattern *regexp.Regexp) ([]m.Path, error)
}

type fileScanner struct {
	fs adapter.SourceFSAdapter
}

// NewFileScanner constructs a FileScanner over the given filesystem adapter.
func NewFileScanner(fsAdapter adapter.SourceFSAdapter) FileScanner {
	return &fileScanner{fs: fsAdapter}
}

// Scan returns the absolute paths of files whose base name matches pattern.
// Directories without the package marker, the root included, are pruned
// together with everything below them.
func (s *fileScanner) Scan(root m.Path, pattern *regexp.Regexp) ([]m.Path, error) {
	absRoot, err := s.fs.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	info, err := s.fs.FileInfo(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, absRoot)
	}

	if !info.IsDir() {
		if pattern.MatchString(absRoot.Base()) {
			return []m.Path{absRoot}, nil
		}

		return nil, nil
	}

	var files []m.Path

	err = s.fs.Walk(absRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if !s.fs.IsPackage(m.Path(path)) {
				slog.Debug("skipping non-package directory", "dir", path)
				return filepath.SkipDir
			}

			return nil
		}

		if pattern.MatchString(entry.Name()) {
			files = append(files, m.Path(path))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", absRoot, err)
	}

	return files, nil
}
