package reformulate

import (
	"time"
)

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/timtadh/data-structures/errors"
)

import (
	"github.com/timtadh/gref/frontier"
	"github.com/timtadh/gref/graph"
	"github.com/timtadh/gref/lattice"
)

// Exact builds the whole lattice breadth first and then selects greedily
// by marginal gain.
type Exact struct {
	search
	extender *lattice.Extender
}

func NewExact(db *graph.Database, l *lattice.Lattice, opts ...Option) *Exact {
	return &Exact{
		search:   newSearch("Exact", l, newOptions(opts)),
		extender: lattice.NewExtender(db),
	}
}

func (e *Exact) Compute() (*Result, error) {
	start := time.Now()
	errors.Logf("INFO", "Starting lattice generation")
	if err := e.build(); err != nil {
		return nil, err
	}
	errors.Logf("INFO", "Time to build the lattice: %v", time.Since(start))
	errors.Logf("INFO", "Total number of reformulations: %d", e.lattice.Size())
	greedy := time.Now()
	e.choose()
	e.fallback()
	errors.Logf("INFO", "Time to compute the reformulations using greedy algorithm: %v", time.Since(greedy))
	return e.result(e.extender.Calls, time.Since(start)), nil
}

func (e *Exact) build() error {
	queue := linkedlistqueue.New()
	queue.Enqueue(e.lattice.Root())
	push := func(n *lattice.Node) {
		queue.Enqueue(n)
	}
	for !queue.Empty() {
		item, _ := queue.Dequeue()
		n := item.(*lattice.Node)
		if n.ResultsNumber() > 1 {
			if err := e.extender.Extend(e.lattice, n, push); err != nil {
				return err
			}
		}
		n.Clear()
	}
	return nil
}

func (e *Exact) choose() {
	nodes := e.lattice.Reformulations()
	for i := 0; len(e.s) < e.opts.K; i++ {
		f := frontier.New()
		for _, n := range nodes {
			if !e.inS[n.Id] {
				f.Add(n.Id, Gain(e.s, n, e.opts.Lambda))
			}
		}
		last, has := f.Last()
		if !has {
			return
		}
		best := e.smallest(f.Bucket(last))
		if i < len(e.opts.Expected) {
			best = e.expected(f, best, i)
		}
		gain, _ := f.Score(best)
		e.accept(e.lattice.Node(best), gain)
		if f.Len() == 1 {
			return
		}
	}
}

// expected substitutes the i-th expected pick for best when it is among
// the maxima.
func (e *Exact) expected(f *frontier.Frontier, best, i int) int {
	want, has := e.lattice.Find(e.opts.Expected[i])
	if has {
		for _, id := range f.Bucket(best) {
			if id == want.Id {
				return id
			}
		}
		errors.Logf("ERROR", "Query %v with marginal gain %v is not the maximum!", want, Gain(e.s, want, e.opts.Lambda))
	} else {
		errors.Logf("ERROR", "Expected query %v is not a reformulation", e.opts.Expected[i])
	}
	return best
}
