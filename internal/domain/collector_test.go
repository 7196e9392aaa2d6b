package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "ducktape.dev/pkg/ducktape/internal/model"
)

func typeNames(decls []m.TypeDecl) []string {
	names := make([]string, 0, len(decls))
	for _, decl := range decls {
		names = append(names, decl.Name)
	}

	return names
}

func TestClassCollector_LeafOnly(t *testing.T) {
	_, reg := newTestRegistry()
	reg.AddRoot(absPath(t, "testdata"))

	module, err := reg.Load("inheritance/test_inherit")
	require.NoError(t, err)

	collector := NewClassCollector(reg, DefaultCapability)

	classes, err := collector.Collect(module)
	require.NoError(t, err)
	assert.Equal(t, []string{"DerivedSuite", "GenericSuite"}, typeNames(classes))

	// A later declaration embedding DerivedSuite makes it a base type.
	reg.Types().Add(m.TypeDecl{
		Name:    "Specialized",
		Package: "elsewhere",
		Embeds:  []m.TypeKey{"inheritance.DerivedSuite"},
	})

	classes, err = collector.Collect(module)
	require.NoError(t, err)
	assert.Equal(t, []string{"GenericSuite"}, typeNames(classes))
}

func TestClassCollector_SkipsTypesWithoutCapability(t *testing.T) {
	_, reg := newTestRegistry()
	reg.AddRoot(absPath(t, "testdata"))

	module, err := reg.Load("loader_test_directory/test_b")
	require.NoError(t, err)

	classes, err := NewClassCollector(reg, DefaultCapability).Collect(module)
	require.NoError(t, err)
	assert.Equal(t, []string{"TestB", "TestC"}, typeNames(classes))
}

func TestClassCollector_EmbeddingCycle(t *testing.T) {
	_, reg := newTestRegistry()
	reg.AddRoot(absPath(t, "testdata"))

	module, err := reg.Load("cycle/test_cycle")
	require.NoError(t, err)

	_, err = NewClassCollector(reg, DefaultCapability).Collect(module)
	require.ErrorIs(t, err, ErrEmbeddingCycle)
	assert.Contains(t, err.Error(), "cycle/test_cycle")
}

func TestMethodCollector(t *testing.T) {
	_, reg := newTestRegistry()
	reg.AddRoot(absPath(t, "testdata"))

	_, err := reg.Load("loader_test_directory/test_a")
	require.NoError(t, err)

	decl := func(name string) m.TypeDecl {
		d, ok := reg.Types().Lookup(m.NewTypeKey("loader_test_directory", name))
		require.True(t, ok, name)

		return d
	}

	collector := NewMethodCollector(reg, regexp.MustCompile(DefaultMethodPattern), DefaultFallbackMethod)

	assert.Equal(t, []string{"TestOne", "TestTwo"}, collector.Collect(decl("TestA")))
	assert.Equal(t, []string{"TestThing"}, collector.Collect(decl("TestB")))
	assert.Equal(t, []string{"Run"}, collector.Collect(decl("TestC")))

	custom := NewMethodCollector(reg, regexp.MustCompile(`^Check$`), "Execute")
	assert.Equal(t, []string{"Check"}, custom.Collect(decl("TestA")))
	assert.Equal(t, []string{"Execute"}, custom.Collect(decl("TestB")))
}
