package lattice

import (
	"github.com/pkg/errors"
)

var (
	// ErrRemap means a duplicate embedding could not be translated onto the
	// vertex numbering of an existing reformulation.
	ErrRemap = errors.New("inconsistent node mapping after remap")

	ErrEmptyQuery = errors.New("query has no vertices")
)

func remapError(n, child *Node, size int) error {
	return errors.Wrapf(ErrRemap, "extending node %d into node %d: mapping has %d vertices, pattern has %d",
		n.Id, child.Id, size, len(child.Pattern.V))
}
