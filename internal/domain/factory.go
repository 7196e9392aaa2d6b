package domain

import (
	"fmt"

	m "ducktape.dev/pkg/ducktape/internal/model"
	"ducktape.dev/pkg/ducktape/pkg/test"
)

// Instantiator allocates the test object of a unit.
type Instantiator interface {
	New(ctx *test.Context) (test.Runnable, error)
}

// UnitFactory binds runnable types and their methods to a session.
type UnitFactory interface {
	Build(decl m.TypeDecl, methods []string, session *test.Session) ([]*test.Unit, error)
}

type unitFactory struct {
	instantiator Instantiator
}

// NewUnitFactory constructs a UnitFactory allocating through instantiator.
func NewUnitFactory(instantiator Instantiator) UnitFactory {
	if instantiator == nil {
		instantiator = test.DefaultPrototypes()
	}

	return &unitFactory{instantiator: instantiator}
}

// Build creates one unit per method. The first constructor failure is
// returned as an *InstantiationError naming that unit.
func (f *unitFactory) Build(decl m.TypeDecl, methods []string, session *test.Session) ([]*test.Unit, error) {
	units := make([]*test.Unit, 0, len(methods))

	for _, method := range methods {
		ctx := test.NewContext(session, decl.Module, test.TypeInfo{
			Name:    decl.Name,
			Package: decl.Package,
			File:    string(decl.File),
			Line:    decl.Line,
		}, method)

		instance, err := f.instantiator.New(ctx)
		if err != nil {
			return units, &InstantiationError{UnitID: ctx.ID(), Err: err}
		}

		units = append(units, &test.Unit{
			ID:       ctx.ID(),
			Context:  ctx,
			Instance: instance,
			Method:   method,
		})
	}

	return units, nil
}

// FilterClasses narrows classes to the one named by symbol. Without a class
// name every class passes; with one, exactly one must match.
func FilterClasses(classes []m.TypeDecl, symbol m.DiscoverySymbol) ([]m.TypeDecl, error) {
	if !symbol.HasClass() {
		return classes, nil
	}

	var matches []m.TypeDecl

	for _, decl := range classes {
		if decl.Name == symbol.ClassName {
			matches = append(matches, decl)
		}
	}

	switch len(matches) {
	case 1:
		return matches, nil
	case 0:
		return nil, fmt.Errorf("%w: no test type %q corresponds to %s", ErrAmbiguousSymbol, symbol.ClassName, symbol.Raw)
	default:
		return nil, fmt.Errorf("%w: %d test types named %q correspond to %s", ErrAmbiguousSymbol, len(matches), symbol.ClassName, symbol.Raw)
	}
}
