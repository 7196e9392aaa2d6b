package domain

import (
	"fmt"
	"log/slog"
	"regexp"

	m "ducktape.dev/pkg/ducktape/internal/model"
	"ducktape.dev/pkg/ducktape/internal/registry"
)

// TypeUniverse answers questions about the currently loaded types.
type TypeUniverse interface {
	Types() *registry.TypeIndex
	Methods(key m.TypeKey) []m.MethodDecl
}

// ClassCollector picks the runnable test types out of a module.
type ClassCollector interface {
	Collect(module *m.Module) ([]m.TypeDecl, error)
}

// MethodCollector picks the test methods of a runnable type.
type MethodCollector interface {
	Collect(decl m.TypeDecl) []string
}

type classCollector struct {
	universe   TypeUniverse
	capability m.TypeKey
}

// NewClassCollector constructs a ClassCollector keeping leaf types that
// embed capability.
func NewClassCollector(universe TypeUniverse, capability m.TypeKey) ClassCollector {
	return &classCollector{universe: universe, capability: capability}
}

// Collect returns the module's struct types that embed the capability and
// that no loaded type embeds, in source order.
func (c *classCollector) Collect(module *m.Module) ([]m.TypeDecl, error) {
	index := c.universe.Types()

	var runnable []m.TypeDecl

	for _, decl := range module.Types {
		ok, err := index.Satisfies(decl.Key(), c.capability)
		if err != nil {
			return nil, fmt.Errorf("inspect %s in %s: %w", decl.Name, module.Name, err)
		}

		if !ok {
			continue
		}

		if !index.IsLeaf(decl.Key()) {
			slog.Debug("skipping test type embedded by other types", "type", decl.Key(), "specializations", index.Specializations(decl.Key()))
			continue
		}

		runnable = append(runnable, decl)
	}

	return runnable, nil
}

type methodCollector struct {
	universe TypeUniverse
	pattern  *regexp.Regexp
	fallback string
}

// NewMethodCollector constructs a MethodCollector matching pattern and
// falling back to fallback.
func NewMethodCollector(universe TypeUniverse, pattern *regexp.Regexp, fallback string) MethodCollector {
	return &methodCollector{universe: universe, pattern: pattern, fallback: fallback}
}

// Collect returns the names of the type's own methods matching the pattern.
// A type declaring none gets the fallback method alone.
func (c *methodCollector) Collect(decl m.TypeDecl) []string {
	var names []string

	seen := make(map[string]bool)

	for _, method := range c.universe.Methods(decl.Key()) {
		if seen[method.Name] || !c.pattern.MatchString(method.Name) {
			continue
		}

		seen[method.Name] = true
		names = append(names, method.Name)
	}

	if len(names) == 0 {
		return []string{c.fallback}
	}

	return names
}
