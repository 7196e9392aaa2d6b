package inheritance

import "ducktape.dev/pkg/ducktape/pkg/test"

type BaseSuite struct {
	test.Test
}

func (b *BaseSuite) TestShared() {}

type DerivedSuite struct {
	BaseSuite
}

func (d *DerivedSuite) TestOwn() {}

type GenericSuite[T any] struct {
	*BaseSuite
	value T
}

func (g *GenericSuite[T]) ValueTest() {}
