package reformulate

import (
	"fmt"
	"math"
	"time"
)

import (
	"github.com/timtadh/data-structures/errors"
	"github.com/timtadh/data-structures/types"
)

import (
	"github.com/timtadh/gref/frontier"
	"github.com/timtadh/gref/graph"
	"github.com/timtadh/gref/lattice"
)

// Bounds brackets the marginal gain of a node and every reformulation
// below it.
type Bounds struct {
	Lower  float64
	Upper  float64
	Actual float64
}

func (b *Bounds) String() string {
	return fmt.Sprintf("(%v, %v, %v)", b.Lower, b.Upper, b.Actual)
}

// Pruning is a best-first branch and bound over a lazily expanded
// lattice. Unexpanded nodes are ordered by the upper bound of their
// subtree, expanded nodes by their own gain.
type Pruning struct {
	search
	expander lattice.Expander
	bounds   map[int]*Bounds
	mult     map[int]int // database graph -> members of S matching it
	sumMult  int
	expanded map[int]bool
	frontier *frontier.Frontier

	checks     int
	violations int
}

func NewPruning(db *graph.Database, l *lattice.Lattice, opts ...Option) *Pruning {
	return newPruning("Pruning", l, lattice.NewExtender(db), newOptions(opts))
}

func newPruning(name string, l *lattice.Lattice, x lattice.Expander, opts *Options) *Pruning {
	return &Pruning{
		search:   newSearch(name, l, opts),
		expander: x,
		bounds:   make(map[int]*Bounds),
		mult:     make(map[int]int),
		expanded: make(map[int]bool),
		frontier: frontier.New(),
	}
}

func (p *Pruning) Compute() (*Result, error) {
	start := time.Now()
	if err := p.expand(p.lattice.Root()); err != nil {
		return nil, err
	}
	p.updateAll()
	p.rebuild()
	for len(p.s) < p.opts.K && !p.frontier.Empty() {
		n, accept := p.next()
		b := p.bounds[n.Id]
		if p.opts.Debug {
			errors.Logf("DEBUG", "current %v %v frontier %v", n, b, p.frontier)
			p.check()
		}
		if accept {
			p.accept(n, b.Actual)
			p.addMultiplicity(n)
			p.updateAll()
			p.rebuild()
		} else if !p.expanded[n.Id] && n.ResultsNumber() > 1 {
			if err := p.expand(n); err != nil {
				return nil, err
			}
			p.update(n)
			n.Clear()
			for _, kid := range n.Reformulations() {
				p.push(p.lattice.Node(kid))
			}
			p.push(n)
			for _, f := range p.lattice.Heritage(n) {
				p.push(f)
			}
		} else {
			p.frontier.Remove(n.Id)
		}
	}
	p.fallback()
	return p.result(p.expander.Expansions(), time.Since(start)), nil
}

// check verifies every known bound against the current S. It only runs
// with Options.Debug and logs each violation.
func (p *Pruning) check() {
	lambda := p.opts.Lambda
	for id, b := range p.bounds {
		n := p.lattice.Node(id)
		p.checks++
		if b.Lower > b.Actual || b.Actual > b.Upper {
			p.violations++
			errors.Logf("ERROR", "unsound bounds %v on %v", b, n)
		}
		if gain := Gain(p.s, n, lambda); math.Abs(gain-b.Actual) > 1e-9 {
			p.violations++
			errors.Logf("ERROR", "stale gain %v != %v on %v", b.Actual, gain, n)
		}
		if !p.expanded[id] {
			continue
		}
		for _, kid := range n.Reformulations() {
			kb, has := p.bounds[kid]
			if !has {
				p.violations++
				errors.Logf("ERROR", "%v expanded without bounds on %v", n, kid)
			} else if kb.Upper > b.Upper || kb.Lower < b.Lower {
				p.violations++
				errors.Logf("ERROR", "%v %v escapes %v %v", kid, kb, n, b)
			}
		}
	}
}

// Bounds reports the current bounds of a known node.
func (p *Pruning) Bounds(id int) (*Bounds, bool) {
	b, has := p.bounds[id]
	return b, has
}

func (p *Pruning) expand(n *lattice.Node) error {
	if p.expanded[n.Id] {
		return nil
	}
	if err := p.expander.Expand(p.lattice, n); err != nil {
		return err
	}
	p.expanded[n.Id] = true
	return nil
}

// next decides on the maximum bucket. A node whose subtree may still hold
// a reformulation as good as the bucket is expanded first, so a tie is
// only settled once every node of that gain is in the lattice. Among the
// acceptable nodes the smallest canonical key wins. It reports whether the
// node is to be accepted.
func (p *Pruning) next() (*lattice.Node, bool) {
	last, _ := p.frontier.Last()
	score, _ := p.frontier.Score(last)
	bucket := p.frontier.Bucket(last)
	acceptable := make([]int, 0, len(bucket))
	for _, id := range bucket {
		n := p.lattice.Node(id)
		b := p.bounds[id]
		if !p.expanded[id] && n.ResultsNumber() > 1 && b.Upper >= score {
			return n, false
		}
		if !p.inS[id] && b.Actual >= score {
			acceptable = append(acceptable, id)
		}
	}
	if len(acceptable) == 0 {
		return p.lattice.Node(bucket[0]), false
	}
	return p.lattice.Node(p.smallest(acceptable)), true
}

// push (re)inserts n under its current key. Selected nodes stay only as
// long as they are unexpanded, since their reformulations are unknown.
func (p *Pruning) push(n *lattice.Node) {
	if n == p.lattice.Root() {
		return
	}
	b := p.bounds[n.Id]
	switch {
	case p.inS[n.Id] && p.expanded[n.Id]:
		p.frontier.Remove(n.Id)
	case p.inS[n.Id]:
		p.frontier.Add(n.Id, b.Upper)
	case p.expanded[n.Id]:
		p.frontier.Add(n.Id, b.Actual)
	default:
		p.frontier.Add(n.Id, math.Max(b.Upper, b.Actual))
	}
}

func (p *Pruning) rebuild() {
	p.frontier = frontier.New()
	for _, n := range p.lattice.Reformulations() {
		p.push(n)
	}
}

func (p *Pruning) addMultiplicity(n *lattice.Node) {
	for x, next := n.Results.Items()(); next != nil; x, next = next() {
		p.mult[int(x.(types.Int))]++
		p.sumMult++
	}
}

// score computes the bounds of n from its own results. A result a member
// of S already matches m times contributes [m = 0]/2 + λ(|S| - 2m) to the
// gain, upper keeps the positive contributions and lower the negative.
func (p *Pruning) score(n *lattice.Node) *Bounds {
	lambda := p.opts.Lambda
	size := float64(len(p.s))
	base := lambda * float64(p.sumMult)
	b := &Bounds{Lower: base, Upper: base, Actual: base}
	for x, next := n.Results.Items()(); next != nil; x, next = next() {
		m := p.mult[int(x.(types.Int))]
		c := lambda * (size - 2*float64(m))
		if m == 0 {
			c += .5
		}
		b.Actual += c
		if c > 0 {
			b.Upper += c
		} else {
			b.Lower += c
		}
	}
	if n.ResultsNumber() <= 1 {
		b.Lower = b.Actual
		b.Upper = b.Actual
	}
	return b
}

// fold replaces the bounds of an expanded node by its own gain widened
// by the bounds of its reformulations.
func (p *Pruning) fold(n *lattice.Node, b *Bounds) {
	b.Upper = b.Actual
	b.Lower = b.Actual
	for _, kid := range n.Reformulations() {
		kb := p.bounds[kid]
		b.Upper = math.Max(b.Upper, kb.Upper)
		b.Lower = math.Min(b.Lower, kb.Lower)
	}
}

// updateAll recomputes the bounds of every node reachable from the root
// after S has changed.
func (p *Pruning) updateAll() {
	done := make(map[int]bool, p.lattice.Size()+1)
	var visit func(n *lattice.Node)
	visit = func(n *lattice.Node) {
		if done[n.Id] {
			return
		}
		done[n.Id] = true
		b := p.score(n)
		if p.expanded[n.Id] {
			for _, kid := range n.Reformulations() {
				visit(p.lattice.Node(kid))
			}
			p.bounds[n.Id] = b
			p.fold(n, b)
		} else {
			p.bounds[n.Id] = b
		}
	}
	visit(p.lattice.Root())
}

// update scores the fresh reformulations of n and rolls the new bounds up
// the father chain.
func (p *Pruning) update(n *lattice.Node) {
	for _, kid := range n.Reformulations() {
		if !p.expanded[kid] {
			p.bounds[kid] = p.score(p.lattice.Node(kid))
		}
	}
	for cur := n; ; cur = p.lattice.Node(cur.Father) {
		p.fold(cur, p.bounds[cur.Id])
		if cur.Father < 0 {
			return
		}
	}
}
