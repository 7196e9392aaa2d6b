package loader_test_directory

import "ducktape.dev/pkg/ducktape/pkg/test"

type TestA struct {
	test.Test
}

func (t *TestA) TestOne() {}

func (t *TestA) TestTwo() error { return nil }

func (t *TestA) prepare() {}

func (t *TestA) Check() {}
