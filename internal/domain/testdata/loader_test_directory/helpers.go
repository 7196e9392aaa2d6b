package loader_test_directory

import "ducktape.dev/pkg/ducktape/pkg/test"

// NotCollected lives in a file the file pattern does not match.
type NotCollected struct {
	test.Test
}

func (n *NotCollected) TestNever() {}
