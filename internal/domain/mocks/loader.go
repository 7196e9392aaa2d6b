// Package mocks provides testify mocks of the domain interfaces.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"ducktape.dev/pkg/ducktape/pkg/test"
)

// MockLoader is a mock implementation of domain.Loader.
type MockLoader struct {
	mock.Mock
}

// NewMockLoader creates a MockLoader whose expectations are asserted when
// the test ends.
func NewMockLoader(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLoader {
	m := &MockLoader{}
	m.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Discover provides a mock function with given fields: symbols.
func (m *MockLoader) Discover(symbols []string) ([]*test.Unit, error) {
	args := m.Called(symbols)

	var units []*test.Unit
	if fn, ok := args.Get(0).(func([]string) []*test.Unit); ok {
		units = fn(symbols)
	} else if args.Get(0) != nil {
		units = args.Get(0).([]*test.Unit)
	}

	return units, args.Error(1)
}
