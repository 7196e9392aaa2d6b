package base

import "ducktape.dev/pkg/ducktape/pkg/test"

// Cluster is the shared suite the cross-package tests build on.
type Cluster struct {
	test.Test
}

func (c *Cluster) Run() error { return nil }
