package loader_test_directory

import "ducktape.dev/pkg/ducktape/pkg/test"

type TestB struct {
	test.Test
	spec clusterSpec
}

func (t TestB) TestThing() {}

// TestC declares no test method of its own and falls back to Run.
type TestC struct {
	test.Test
}

func (t *TestC) teardown() {}

type clusterSpec struct {
	nodes int
}
