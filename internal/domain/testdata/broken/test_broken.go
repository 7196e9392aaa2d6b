package broken

import "ducktape.dev/pkg/ducktape/pkg/test"

type TestBroken struct {
	test.Test

func (t *TestBroken) TestNothing() {}
