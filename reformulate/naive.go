package reformulate

import (
	"time"
)

import (
	"github.com/timtadh/data-structures/errors"
)

import (
	"github.com/timtadh/gref/frontier"
	"github.com/timtadh/gref/graph"
	"github.com/timtadh/gref/lattice"
)

// Naive repeatedly selects the most frequent known reformulation and only
// then expands it.
type Naive struct {
	search
	expander lattice.Expander
}

func NewNaive(db *graph.Database, l *lattice.Lattice, opts ...Option) *Naive {
	return &Naive{
		search:   newSearch("Naive", l, newOptions(opts)),
		expander: lattice.NewExtender(db),
	}
}

func (nv *Naive) Compute() (*Result, error) {
	start := time.Now()
	root := nv.lattice.Root()
	if err := nv.expander.Expand(nv.lattice, root); err != nil {
		return nil, err
	}
	f := frontier.New()
	for _, n := range nv.lattice.Reformulations() {
		f.Add(n.Id, float64(n.ResultsNumber()))
	}
	for len(nv.s) < nv.opts.K && !f.Empty() {
		id, _ := f.Last()
		f.Remove(id)
		n := nv.lattice.Node(id)
		if nv.inS[id] {
			continue
		}
		nv.accept(n, Gain(nv.s, n, nv.opts.Lambda))
		if nv.opts.Debug && root.ResultsNumber() > 0 {
			errors.Logf("DEBUG", "relative frequency of %v: %v", n, float64(n.ResultsNumber())/float64(root.ResultsNumber()))
		}
		if err := nv.expander.Expand(nv.lattice, n); err != nil {
			return nil, err
		}
		n.Clear()
		for _, kid := range n.Reformulations() {
			if !nv.inS[kid] {
				f.Add(kid, float64(nv.lattice.Node(kid).ResultsNumber()))
			}
		}
	}
	nv.fallback()
	return nv.result(nv.expander.Expansions(), time.Since(start)), nil
}
