package cycle

import "ducktape.dev/pkg/ducktape/pkg/test"

type Loop struct {
	Knot
}

type Knot struct {
	Loop
}

type Fine struct {
	test.Test
}
