// Package domain contains the test discovery pipeline: symbols are parsed,
// files scanned, modules resolved, runnable types and their methods collected
// and finally bound into executable units.
package domain

import (
	"errors"
	"fmt"
	"log/slog"

	"ducktape.dev/pkg/ducktape/internal/adapter"
	m "ducktape.dev/pkg/ducktape/internal/model"
	"ducktape.dev/pkg/ducktape/internal/registry"
	"ducktape.dev/pkg/ducktape/pkg/test"
)

// Loader discovers executable units from discovery symbols.
type Loader interface {
	Discover(symbols []string) ([]*test.Unit, error)
}

// Registry is the module registry the loader resolves into.
type Registry interface {
	ModuleLoader
	TypeUniverse
}

type loader struct {
	opts     compiledOptions
	session  *test.Session
	logger   *slog.Logger
	fs       adapter.SourceFSAdapter
	scanner  FileScanner
	resolver ModuleResolver
	classes  ClassCollector
	methods  MethodCollector
	factory  UnitFactory
}

// NewLoader wires the pipeline. The filesystem adapter must recognise the
// package marker named in opts.
func NewLoader(
	opts Options,
	session *test.Session,
	fsAdapter adapter.SourceFSAdapter,
	reg Registry,
	instantiator Instantiator,
) (Loader, error) {
	compiled, err := opts.compile()
	if err != nil {
		return nil, err
	}

	if session == nil {
		return nil, errors.New("discovery requires a session")
	}

	logger := session.Log()

	return &loader{
		opts:     compiled,
		session:  session,
		logger:   logger,
		fs:       fsAdapter,
		scanner:  NewFileScanner(fsAdapter),
		resolver: NewModuleResolver(fsAdapter, reg, logger),
		classes:  NewClassCollector(reg, m.TypeKey(compiled.Capability)),
		methods:  NewMethodCollector(reg, compiled.methodPattern, compiled.FallbackMethod),
		factory:  NewUnitFactory(instantiator),
	}, nil
}

// NewLocalLoader builds a loader over the local filesystem with a fresh
// registry. The package declaring the capability is never resolved below a
// search root.
func NewLocalLoader(opts Options, session *test.Session, instantiator Instantiator) (Loader, error) {
	opts = opts.WithDefaults()
	fsAdapter := adapter.NewLocalSourceFSAdapter(opts.PackageMarker)
	reg := registry.New(fsAdapter, adapter.NewLocalGoFileAdapter())
	reg.Extern(m.TypeKey(opts.Capability).Package())

	return NewLoader(opts, session, fsAdapter, reg, instantiator)
}

// Discover runs the pipeline for each symbol in order and concatenates the
// units. Every symbol is parsed before any of them is processed, so a
// malformed symbol yields no units at all. Later failures return the units
// of the symbols that completed before the failing one, and none of its own.
func (l *loader) Discover(symbols []string) ([]*test.Unit, error) {
	parsed := make([]m.DiscoverySymbol, 0, len(symbols))

	for _, raw := range symbols {
		symbol, err := ParseSymbol(raw)
		if err != nil {
			return nil, err
		}

		parsed = append(parsed, symbol)
	}

	var units []*test.Unit

	for _, symbol := range parsed {
		found, err := l.discoverSymbol(symbol)
		if err != nil {
			return units, err
		}

		units = append(units, found...)
	}

	ids := make([]string, 0, len(units))
	for _, unit := range units {
		ids = append(ids, unit.ID)
	}

	l.logger.Debug("discovered tests", "count", len(units), "tests", ids)

	return units, nil
}

func (l *loader) discoverSymbol(symbol m.DiscoverySymbol) ([]*test.Unit, error) {
	path := symbol.Path()

	info, err := l.fs.FileInfo(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}

	var files []m.Path
	if info.IsDir() {
		files, err = l.scanner.Scan(path, l.opts.filePattern)
		if err != nil {
			return nil, err
		}
	} else {
		abs, err := l.fs.Abs(path)
		if err != nil {
			return nil, err
		}

		files = []m.Path{abs}
	}

	modules := l.resolver.Resolve(files)

	var classes []m.TypeDecl

	for _, module := range modules {
		found, err := l.classes.Collect(module)
		if err != nil {
			l.logger.Warn("error getting test types from module", "module", module.Name, "error", err)
			continue
		}

		classes = append(classes, found...)
	}

	classes, err = FilterClasses(classes, symbol)
	if err != nil {
		return nil, err
	}

	var units []*test.Unit

	for _, decl := range classes {
		built, err := l.factory.Build(decl, l.methods.Collect(decl), l.session)
		if err != nil {
			return nil, err
		}

		units = append(units, built...)
	}

	return units, nil
}
