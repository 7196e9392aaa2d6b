package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"ducktape.dev/pkg/ducktape/internal/adapter"
	m "ducktape.dev/pkg/ducktape/internal/model"
	"ducktape.dev/pkg/ducktape/internal/registry"
)

// ModuleLoader is the part of the registry the resolver needs.
type ModuleLoader interface {
	Load(name string) (*m.Module, error)
	LoadFrom(root m.Path, name string) (*m.Module, error)
}

// errOtherFile means a qualified name led to a different file than the one
// being resolved.
var errOtherFile = errors.New("name belongs to another file")

// ModuleResolver turns candidate files into loaded modules.
type ModuleResolver interface {
	Resolve(files []m.Path) []*m.Module
}

type moduleResolver struct {
	fs     adapter.SourceFSAdapter
	loader ModuleLoader
	logger *slog.Logger
}

// NewModuleResolver constructs a ModuleResolver loading into loader.
func NewModuleResolver(fsAdapter adapter.SourceFSAdapter, loader ModuleLoader, logger *slog.Logger) ModuleResolver {
	if logger == nil {
		logger = slog.Default()
	}

	return &moduleResolver{fs: fsAdapter, loader: loader, logger: logger}
}

// Resolve loads each file under its package-qualified name. Files that load
// under no name are dropped; resolution never fails as a whole.
func (r *moduleResolver) Resolve(files []m.Path) []*m.Module {
	modules := make([]*m.Module, 0, len(files))

	for _, file := range files {
		if mod, ok := r.resolve(file); ok {
			modules = append(modules, mod)
		}
	}

	return modules
}

func (r *moduleResolver) resolve(file m.Path) (*m.Module, bool) {
	if !filepath.IsAbs(string(file)) || !file.IsGoSource() {
		r.logger.Warn("expected absolute path to a Go source file", "file", file)
		return nil, false
	}

	mod, err := r.resolveFromPackageRoot(file)
	if err == nil {
		return mod, true
	}

	if isBroken(err) {
		r.logger.Warn("dropping file that fails to load", "file", file, "error", err)
		return nil, false
	}

	r.logger.Debug("package root resolution failed, guessing qualified names", "file", file, "error", err)

	mod, err = r.resolveBySuffix(file)
	if err != nil {
		r.logger.Warn("dropping file that loads under no qualified name", "file", file, "error", err)
		return nil, false
	}

	return mod, true
}

// resolveFromPackageRoot derives the one authoritative name from the marker
// chain above file.
func (r *moduleResolver) resolveFromPackageRoot(file m.Path) (*m.Module, error) {
	root, err := r.fs.FindPackageRoot(file)
	if err != nil {
		return nil, err
	}

	rel, err := r.fs.RelPath(root, file)
	if err != nil {
		return nil, err
	}

	mod, err := r.loader.LoadFrom(root, qualifiedName(string(rel)))
	if err != nil {
		return nil, err
	}

	if mod.File != file {
		return nil, fmt.Errorf("%w: %s loaded from %s", errOtherFile, mod.Name, mod.File)
	}

	return mod, nil
}

// resolveBySuffix is the compatibility fallback: try progressively shorter
// suffixes of the file's path segments until one loads. At most one is
// expected to work, so misses are logged at debug level only.
func (r *moduleResolver) resolveBySuffix(file m.Path) (*m.Module, error) {
	var lastErr error

	for _, candidate := range suffixCandidates(file) {
		mod, err := r.loader.Load(candidate)
		if err == nil && mod.File != file {
			err = fmt.Errorf("%w: %s loaded from %s", errOtherFile, candidate, mod.File)
		}

		if err == nil {
			r.logger.Debug("loaded module", "module", candidate)
			return mod, nil
		}

		r.logger.Debug("could not load module, trying a shorter name", "module", candidate, "error", err)
		lastErr = err

		if isBroken(err) {
			break
		}
	}

	if lastErr == nil {
		lastErr = registry.ErrModuleNotFound
	}

	return nil, lastErr
}

// suffixCandidates lists qualified names for file from the full path down to
// the bare file name.
func suffixCandidates(file m.Path) []string {
	trimmed := strings.TrimSuffix(filepath.ToSlash(string(file)), m.GoExt)
	segments := strings.FieldsFunc(trimmed, func(r rune) bool { return r == '/' })

	candidates := make([]string, 0, len(segments))
	for i := range segments {
		candidates = append(candidates, strings.Join(segments[i:], "/"))
	}

	return candidates
}

func qualifiedName(rel string) string {
	return strings.TrimSuffix(filepath.ToSlash(rel), m.GoExt)
}

// isBroken separates "this file does not load" from "wrong qualification".
func isBroken(err error) bool {
	var loadErr *registry.LoadError
	return errors.As(err, &loadErr)
}
