package domain

import (
	"errors"
	"fmt"

	"ducktape.dev/pkg/ducktape/internal/registry"
)

var (
	// ErrMalformedSymbol is returned when a discovery symbol has more than one
	// class qualifier.
	ErrMalformedSymbol = errors.New("malformed discovery symbol")

	// ErrPathNotFound is returned when a symbol's starting path does not exist.
	ErrPathNotFound = errors.New("path does not exist")

	// ErrAmbiguousSymbol is returned when a class filter matches zero or more
	// than one runnable type.
	ErrAmbiguousSymbol = errors.New("ambiguous discovery symbol")

	// ErrEmbeddingCycle marks a module whose types could not be inspected.
	ErrEmbeddingCycle = registry.ErrEmbeddingCycle
)

// InstantiationError attributes a constructor failure to the unit being built.
type InstantiationError struct {
	UnitID string
	Err    error
}

// Error implements the error interface.
func (e *InstantiationError) Error() string {
	return fmt.Sprintf("instantiate %s: %v", e.UnitID, e.Err)
}

// Unwrap returns the constructor error.
func (e *InstantiationError) Unwrap() error {
	return e.Err
}
