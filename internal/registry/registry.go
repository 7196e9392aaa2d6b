// Package registry is the module registry discovery loads source files into.
//
// A module is a Go file loaded under a slash-separated qualified name relative
// to one of the registry's search roots. Loading a module parses every file of
// its package (the directory) and the packages it imports that live under a
// search root, recording their struct types in a TypeIndex and their methods
// in a per-type table. Modules are cached per file and packages per
// directory, so loading a file twice returns the same *model.Module without
// parsing anything again.
package registry

import (
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"ducktape.dev/pkg/ducktape/internal/adapter"
	m "ducktape.dev/pkg/ducktape/internal/model"
)

// ErrModuleNotFound means no search root holds a package chain matching the
// qualified name. It is the expected outcome of guessing a wrong name.
var ErrModuleNotFound = errors.New("module not found")

// LoadError reports a module that was found but could not be loaded, for
// example because it does not parse.
type LoadError struct {
	Name string
	File m.Path
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s (%s): %v", e.Name, e.File, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

type packageState struct {
	name    string
	scope  string // key prefix of the package's types
	err    error  // set when the package or one of its imports failed
	broken map[m.Path]error
}

// Registry caches loaded modules and the type universe they declare.
// Modules are cached per file and packages per directory, so equal qualified
// names below different roots never alias each other.
type Registry struct {
	fs       adapter.SourceFSAdapter
	goFile   adapter.GoFileAdapter
	fileSet  *token.FileSet
	roots    []m.Path
	extern   map[string]bool
	modules  map[m.Path]*m.Module
	packages map[m.Path]*packageState
	claimed  map[string]m.Path // package name -> directory keyed under it
	decls    map[m.Path][]m.TypeDecl
	methods  map[m.TypeKey][]m.MethodDecl
	types    *TypeIndex
}

// New creates an empty registry searching roots in order.
func New(fsAdapter adapter.SourceFSAdapter, goFileAdapter adapter.GoFileAdapter, roots ...m.Path) *Registry {
	r := &Registry{
		fs:       fsAdapter,
		goFile:   goFileAdapter,
		fileSet:  token.NewFileSet(),
		extern:   make(map[string]bool),
		modules:  make(map[m.Path]*m.Module),
		packages: make(map[m.Path]*packageState),
		claimed:  make(map[string]m.Path),
		decls:    make(map[m.Path][]m.TypeDecl),
		methods:  make(map[m.TypeKey][]m.MethodDecl),
		types:    NewTypeIndex(),
	}

	for _, root := range roots {
		r.AddRoot(root)
	}

	return r
}

// AddRoot appends a search root unless it is already present.
func (r *Registry) AddRoot(root m.Path) {
	clean := m.Path(filepath.Clean(string(root)))
	for _, known := range r.roots {
		if known == clean {
			return
		}
	}

	r.roots = append(r.roots, clean)
	slog.Debug("added search root", "root", clean, "roots", len(r.roots))
}

// Extern marks import paths that always keep their full path, even when a
// suffix of it names a package below a root.
func (r *Registry) Extern(importPaths ...string) {
	for _, importPath := range importPaths {
		r.extern[importPath] = true
	}
}

// Types exposes the type index.
func (r *Registry) Types() *TypeIndex {
	return r.types
}

// Methods returns the methods declared on key in its own package, in source
// order. Methods promoted from embedded types are not included.
func (r *Registry) Methods(key m.TypeKey) []m.MethodDecl {
	return append([]m.MethodDecl(nil), r.methods[key]...)
}

// Load returns the module named name below the first root holding it,
// loading it on first use.
func (r *Registry) Load(name string) (*m.Module, error) {
	file, ok := r.locate(r.roots, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}

	return r.loadFile(name, file)
}

// LoadFrom is Load restricted to root. The root is added to the search
// roots so the module's imports resolve below it.
func (r *Registry) LoadFrom(root m.Path, name string) (*m.Module, error) {
	r.AddRoot(root)

	file, ok := r.locate([]m.Path{m.Path(filepath.Clean(string(root)))}, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s below %s", ErrModuleNotFound, name, root)
	}

	return r.loadFile(name, file)
}

// loadFile returns the cached module of file or loads it under name. A file
// keeps the name it was first loaded under.
func (r *Registry) loadFile(name string, file m.Path) (*m.Module, error) {
	if mod, ok := r.modules[file]; ok {
		return mod, nil
	}

	pkg := m.PackageOf(name)
	dir := file.Dir()

	if err := r.loadPackage(pkg, dir); err != nil {
		return nil, &LoadError{Name: name, File: file, Err: err}
	}

	if err := r.packages[dir].broken[file]; err != nil {
		return nil, &LoadError{Name: name, File: file, Err: err}
	}

	mod := &m.Module{
		Name:    name,
		Package: r.packages[dir].name,
		File:    file,
		Types:   r.decls[file],
	}
	r.modules[file] = mod

	slog.Debug("loaded module", "module", name, "file", file, "types", len(mod.Types))

	return mod, nil
}

// locate maps a qualified name to a file under the first of roots where
// every directory on the way is a package.
func (r *Registry) locate(roots []m.Path, name string) (m.Path, bool) {
	segments, ok := splitName(name)
	if !ok {
		return "", false
	}

	for _, root := range roots {
		if !r.isPackageChain(root, segments[:len(segments)-1]) {
			continue
		}

		candidate := r.fs.JoinPath(append([]string{string(root)}, segments...)...) + m.GoExt

		info, err := r.fs.FileInfo(candidate)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		return candidate, true
	}

	return "", false
}

// resolveImport maps an import path onto a package directory under a root.
// The full path is tried first, then ever shorter suffixes, so a package
// imported as "example.com/mod/suite/base" is found as "suite/base" below a
// root holding suite/. The returned name is the root-relative one, which is
// the name the package is recorded under. Extern paths are never mapped.
func (r *Registry) resolveImport(importPath string) (string, m.Path, bool) {
	if r.extern[importPath] {
		return "", "", false
	}

	segments, ok := splitName(importPath)
	if !ok {
		return "", "", false
	}

	for i := range segments {
		for _, root := range r.roots {
			if r.isPackageChain(root, segments[i:]) {
				dir := r.fs.JoinPath(append([]string{string(root)}, segments[i:]...)...)
				return strings.Join(segments[i:], "/"), dir, true
			}
		}
	}

	return "", "", false
}

func (r *Registry) isPackageChain(root m.Path, dirs []string) bool {
	current := string(root)
	for _, dir := range dirs {
		current = string(r.fs.JoinPath(current, dir))
		if !r.fs.IsPackage(m.Path(current)) {
			return false
		}
	}

	return true
}

// scopeOf returns the key prefix for the package in dir. The first directory
// seen under a name is keyed by the name; any other directory with the same
// name is keyed by its own path.
func (r *Registry) scopeOf(name string, dir m.Path) string {
	if state, ok := r.packages[dir]; ok {
		return state.scope
	}

	owner, ok := r.claimed[name]
	if !ok {
		r.claimed[name] = dir
		return name
	}

	if owner == dir {
		return name
	}

	return filepath.ToSlash(string(dir))
}

func (r *Registry) loadPackage(pkg string, dir m.Path) error {
	if state, ok := r.packages[dir]; ok {
		return state.err
	}

	state := &packageState{
		name:   pkg,
		scope:  r.scopeOf(pkg, dir),
		broken: make(map[m.Path]error),
	}
	r.packages[dir] = state

	if state.scope != pkg {
		slog.Debug("package name already taken, keying by directory", "package", pkg, "dir", dir, "owner", r.claimed[pkg])
	}

	files, err := r.fs.ReadDir(dir)
	if err != nil {
		state.err = err
		return err
	}

	type dep struct {
		name string
		dir  m.Path
		path string
	}

	parsed := make(map[m.Path]adapter.FileDecls, len(files))
	resolved := make(map[string]string)

	var deps []dep

	for _, file := range files {
		decls, err := r.parseFile(file)
		if err != nil {
			// Siblings stay loadable; only modules of this file fail.
			slog.Warn("skipping file that does not parse", "package", pkg, "file", file, "error", err)
			state.broken[file] = err

			continue
		}

		parsed[file] = decls

		for _, importPath := range decls.Imports {
			if _, seen := resolved[importPath]; seen {
				continue
			}

			name, importDir, ok := r.resolveImport(importPath)
			if !ok {
				resolved[importPath] = importPath
				continue
			}

			resolved[importPath] = r.scopeOf(name, importDir)

			if importDir != dir {
				deps = append(deps, dep{name: name, dir: importDir, path: importPath})
			}
		}
	}

	for _, file := range files {
		if decls, ok := parsed[file]; ok {
			r.record(state, file, decls, resolved)
		}
	}

	for _, d := range deps {
		if err := r.loadPackage(d.name, d.dir); err != nil {
			state.err = fmt.Errorf("import %q: %w", d.path, err)
			return state.err
		}
	}

	slog.Debug("loaded package", "package", pkg, "dir", dir, "types", r.types.Len())

	return nil
}

func (r *Registry) parseFile(file m.Path) (adapter.FileDecls, error) {
	src, err := r.fs.ReadFile(file)
	if err != nil {
		return adapter.FileDecls{}, err
	}

	parsed, err := r.goFile.Parse(r.fileSet, string(file), src)
	if err != nil {
		return adapter.FileDecls{}, err
	}

	return r.goFile.ExtractDecls(r.fileSet, parsed), nil
}

// record stores the declarations of file. Embedded types from imported
// packages are keyed by the scope their package is recorded under.
func (r *Registry) record(state *packageState, file m.Path, decls adapter.FileDecls, imports map[string]string) {
	module := path.Join(state.name, strings.TrimSuffix(file.Base(), m.GoExt))

	scope := ""
	if state.scope != state.name {
		scope = state.scope
	}

	types := make([]m.TypeDecl, 0, len(decls.Types))

	for _, spec := range decls.Types {
		decl := m.TypeDecl{
			Name:    spec.Name,
			Package: state.name,
			Module:  module,
			File:    file,
			Line:    spec.Line,
			Scope:   scope,
		}

		for _, ref := range spec.Embeds {
			switch prefix, ok := imports[ref.ImportPath]; {
			case ref.ImportPath == "":
				decl.Embeds = append(decl.Embeds, m.NewTypeKey(state.scope, ref.Name))
			case ok:
				decl.Embeds = append(decl.Embeds, m.NewTypeKey(prefix, ref.Name))
			default:
				decl.Embeds = append(decl.Embeds, m.NewTypeKey(ref.ImportPath, ref.Name))
			}
		}

		r.types.Add(decl)
		types = append(types, decl)
	}

	r.decls[file] = types

	for _, method := range decls.Methods {
		key := m.NewTypeKey(state.scope, method.Receiver)
		r.methods[key] = append(r.methods[key], method)
	}
}

func splitName(name string) ([]string, bool) {
	if name == "" {
		return nil, false
	}

	segments := strings.Split(name, "/")
	for _, segment := range segments {
		if segment == "" || segment == "." || segment == ".." {
			return nil, false
		}
	}

	return segments, true
}
