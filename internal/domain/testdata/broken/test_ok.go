package broken

import "ducktape.dev/pkg/ducktape/pkg/test"

type TestOK struct {
	test.Test
}

func (t *TestOK) TestFine() {}
