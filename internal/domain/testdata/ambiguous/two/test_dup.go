package two

import "ducktape.dev/pkg/ducktape/pkg/test"

type Dup struct {
	test.Test
}

func (d *Dup) TestDup() {}
