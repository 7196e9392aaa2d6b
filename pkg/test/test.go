// Package test is the API test suites are written against.
//
// A suite is a struct embedding Test. Every struct that embeds Test, directly
// or through an intermediate base struct, is a test type; only the most
// derived ones (nothing else embeds them) are scheduled. Methods named Run,
// Test* or *Test become individual test cases:
//
//	type ProduceTest struct{ test.Test }
//
//	func (p *ProduceTest) TestSingleRecord() error { ... }
//
//	func init() { test.Register(&ProduceTest{}) }
//
// Registering a prototype lets discovery allocate the real suite type.
// Unregistered types are still discovered from source and are bound to a bare
// *Test.
package test

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoTestMethod is returned by the inherited Run of a suite that never
// declared a test method.
var ErrNoTestMethod = errors.New("suite declares no test method")

// Runnable is implemented by every value discovery hands to an executor.
// Embedding Test provides it.
type Runnable interface {
	Bind(ctx *Context)
	Context() *Context
	WhoAmI() string
}

// Initializer is implemented by suites that need constructor logic after the
// context is bound. A returned error is attributed to the unit being built.
type Initializer interface {
	Init(ctx *Context) error
}

// Test is the base type of all test suites.
type Test struct {
	ctx *Context
}

// Bind attaches the per-unit context.
func (t *Test) Bind(ctx *Context) {
	t.ctx = ctx
}

// Context returns the context bound by discovery, or nil.
func (t *Test) Context() *Context {
	return t.ctx
}

// Logger returns the unit logger, falling back to the default logger when the
// test was never bound.
func (t *Test) Logger() *slog.Logger {
	if t.ctx == nil {
		return slog.Default()
	}

	return t.ctx.Logger()
}

// WhoAmI returns a human-readable name for logging.
func (t *Test) WhoAmI() string {
	if t.ctx == nil {
		return "<unbound>"
	}

	return t.ctx.TestID()
}

// SetUp is a no-op hook; suites override it for custom setup logic.
func (t *Test) SetUp() error {
	return nil
}

// TearDown is a no-op hook; suites override it for custom teardown logic.
func (t *Test) TearDown() error {
	return nil
}

// Run is the fallback test case scheduled for suites declaring no test method.
// Suites relying on the fallback provide their own Run.
func (t *Test) Run() error {
	return fmt.Errorf("%w: %s", ErrNoTestMethod, t.WhoAmI())
}
