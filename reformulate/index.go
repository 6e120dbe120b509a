package reformulate

import (
	"time"
)

import (
	"github.com/timtadh/data-structures/errors"
)

import (
	"github.com/timtadh/gref/lattice"
	"github.com/timtadh/gref/pattern"
)

// Source is a persisted frequent-pattern index. Lookup returns a lattice
// rooted at the node of q and an expander revealing the stored
// reformulations with at least minSupport results. It reports false when
// q is not indexed.
type Source interface {
	MinSupport() int
	Lookup(q *pattern.Pattern, minSupport int) (*lattice.Lattice, lattice.Expander, bool, error)
}

// Index runs the Pruning search over the reformulations stored in an
// index instead of computing them from the database.
type Index struct {
	source Source
	query  *pattern.Pattern
	opts   *Options
}

func NewIndex(source Source, q *pattern.Pattern, opts ...Option) *Index {
	return &Index{
		source: source,
		query:  q,
		opts:   newOptions(opts),
	}
}

func (x *Index) Compute() (*Result, error) {
	minSupport := x.opts.MinSupport
	if minSupport < 0 {
		minSupport = x.source.MinSupport()
	}
	if minSupport < 0 {
		return nil, ErrNoMinSupport
	}
	start := time.Now()
	l, expander, has, err := x.source.Lookup(x.query, minSupport)
	if err != nil {
		return nil, err
	}
	if !has {
		errors.Logf("ERROR", "The index does not contain the query %v, use the pruning algorithm instead", x.query)
		return nil, ErrQueryNotIndexed
	}
	lookup := time.Since(start)
	errors.Logf("INFO", "Time to answer the query on the index: %v", lookup)
	p := newPruning("Index", l, expander, x.opts)
	r, err := p.Compute()
	if err != nil {
		return nil, err
	}
	r.QueryTime = lookup
	return r, nil
}
