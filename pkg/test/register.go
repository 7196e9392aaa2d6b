package test

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Prototypes maps compiled suite types to the source declarations found by
// discovery. Discovery only knows a type's package path relative to its
// search root ("kafka/produce"), so a registered type matches when its Go
// import path ends with that relative path. Types declared at a search root
// have no relative path and never match.
type Prototypes struct {
	mu    sync.RWMutex
	types map[string][]reflect.Type // keyed by type name
}

// NewPrototypes returns an empty prototype table.
func NewPrototypes() *Prototypes {
	return &Prototypes{types: make(map[string][]reflect.Type)}
}

var defaultPrototypes = NewPrototypes()

// DefaultPrototypes returns the process-wide table filled by Register.
func DefaultPrototypes() *Prototypes {
	return defaultPrototypes
}

// Register adds proto to the default table. Call it from init.
func Register(proto Runnable) {
	if err := defaultPrototypes.Add(proto); err != nil {
		panic(err)
	}
}

// Add registers a pointer-to-struct suite value.
func (p *Prototypes) Add(proto Runnable) error {
	t := reflect.TypeOf(proto)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("test: prototype must be a pointer to a struct, got %T", proto)
	}

	elem := t.Elem()

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, known := range p.types[elem.Name()] {
		if known == elem {
			return nil
		}
	}

	p.types[elem.Name()] = append(p.types[elem.Name()], elem)

	return nil
}

// Lookup finds the compiled type for a declaration named name in the package
// at relative path pkg. It returns false when nothing matches.
func (p *Prototypes) Lookup(pkg, name string) (reflect.Type, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var matches []reflect.Type

	for _, t := range p.types[name] {
		if pkgMatches(t.PkgPath(), pkg) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return nil, false, nil
	case 1:
		return matches[0], true, nil
	default:
		return nil, false, fmt.Errorf("test: %d registered types match %s.%s", len(matches), pkg, name)
	}
}

// New allocates the suite described by ctx.Type, binds ctx and runs Init
// when the suite implements Initializer.
func (p *Prototypes) New(ctx *Context) (Runnable, error) {
	t, ok, err := p.Lookup(ctx.Type.Package, ctx.Type.Name)
	if err != nil {
		return nil, err
	}

	var instance Runnable
	if ok {
		r, isRunnable := reflect.New(t).Interface().(Runnable)
		if !isRunnable {
			return nil, fmt.Errorf("test: %s does not implement Runnable", t)
		}

		instance = r
	} else {
		instance = &Test{}
	}

	instance.Bind(ctx)

	if initializer, ok := instance.(Initializer); ok {
		if err := initializer.Init(ctx); err != nil {
			return nil, err
		}
	}

	return instance, nil
}

func pkgMatches(importPath, rel string) bool {
	if rel == "" {
		return false
	}

	return importPath == rel || strings.HasSuffix(importPath, "/"+rel)
}
