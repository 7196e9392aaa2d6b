package cross

import (
	suite "ducktape.dev/pkg/ducktape/internal/domain/testdata/cross/base"
)

type ClusterTest struct {
	suite.Cluster
}
