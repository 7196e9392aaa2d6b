// Package model defines the data structures shared by the discovery pipeline.
package model

import (
	"path/filepath"
	"strings"
)

// Path represents a file system path.
type Path string

// GoExt is the source-file extension of loadable modules.
const GoExt = ".go"

// String returns the path as a plain string.
func (p Path) String() string {
	return string(p)
}

// IsGoSource reports whether the path names a Go source file.
func (p Path) IsGoSource() bool {
	return strings.HasSuffix(string(p), GoExt)
}

// Base returns the last element of the path.
func (p Path) Base() string {
	return filepath.Base(string(p))
}

// Dir returns all but the last element of the path.
func (p Path) Dir() Path {
	return Path(filepath.Dir(string(p)))
}
