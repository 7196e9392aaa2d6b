package no_marker

import "ducktape.dev/pkg/ducktape/pkg/test"

type TestHidden struct {
	test.Test
}

func (t *TestHidden) TestHidden() {}
