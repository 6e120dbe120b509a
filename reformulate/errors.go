package reformulate

import (
	"github.com/pkg/errors"
)

var (
	// ErrQueryNotIndexed means the query is not a pattern of the index. Use
	// Pruning or Exact instead.
	ErrQueryNotIndexed = errors.New("the index does not contain the query")

	ErrNoMinSupport = errors.New("minimum support not set and not found in the index")

	ErrUnknownStrategy = errors.New("unknown reformulation strategy")
)
