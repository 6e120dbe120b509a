package index

import (
	"github.com/timtadh/gref/lattice"
	"github.com/timtadh/gref/pattern"
)

// Expander reveals the stored reformulations of lattice nodes. Nodes
// are read from the store only when their father is expanded.
type Expander struct {
	store      *Store
	minSupport int
	stored     map[int]int // lattice id -> store id
	calls      int
}

// Lookup roots a lattice at the stored node of q. It reports false when q
// is not indexed.
func (s *Store) Lookup(q *pattern.Pattern, minSupport int) (*lattice.Lattice, lattice.Expander, bool, error) {
	id, has, err := s.Find(q)
	if err != nil || !has {
		return nil, nil, false, err
	}
	rec, err := s.Get(id)
	if err != nil {
		return nil, nil, false, err
	}
	l := lattice.New(rec.Pattern)
	for _, gid := range rec.Results {
		l.Root().AddResult(gid, nil)
	}
	x := &Expander{
		store:      s,
		minSupport: minSupport,
		stored:     map[int]int{0: id},
	}
	return l, x, true, nil
}

func (x *Expander) Expand(l *lattice.Lattice, n *lattice.Node) error {
	x.calls++
	rec, err := x.store.Get(x.stored[n.Id])
	if err != nil {
		return err
	}
	for _, kid := range rec.Children {
		krec, err := x.store.Get(kid)
		if err != nil {
			return err
		}
		if len(krec.Results) < x.minSupport {
			continue
		}
		if child, has := l.Find(krec.Pattern); has {
			l.Attach(n, child)
			continue
		}
		child := l.Add(n, krec.Pattern)
		x.stored[child.Id] = kid
		for _, gid := range krec.Results {
			child.AddResult(gid, nil)
		}
	}
	return nil
}

func (x *Expander) Expansions() int {
	return x.calls
}
