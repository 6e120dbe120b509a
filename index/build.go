package index

import (
	"time"
)

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/timtadh/data-structures/errors"
)

import (
	"github.com/timtadh/gref/graph"
	"github.com/timtadh/gref/lattice"
	"github.com/timtadh/gref/pattern"
)

// Build mines the frequent patterns of db breadth first. The root is the
// empty pattern matching every graph; its reformulations are the single
// edge patterns. Only nodes with at least minSupport results and fewer
// than maxEdges edges are expanded and only frequent nodes are returned.
func Build(db *graph.Database, minSupport, maxEdges int) ([]*Record, *Meta, error) {
	start := time.Now()
	l := lattice.New(pattern.Empty())
	root := l.Root()
	for _, g := range db.Graphs {
		root.AddResult(g.Id, nil)
	}
	if err := singleEdges(db, l); err != nil {
		return nil, nil, err
	}
	x := lattice.NewExtender(db)
	queue := linkedlistqueue.New()
	for _, kid := range root.Reformulations() {
		queue.Enqueue(l.Node(kid))
	}
	push := func(n *lattice.Node) {
		queue.Enqueue(n)
	}
	for !queue.Empty() {
		item, _ := queue.Dequeue()
		n := item.(*lattice.Node)
		if n.ResultsNumber() >= minSupport && len(n.Pattern.E) < maxEdges {
			if err := x.Extend(l, n, push); err != nil {
				return nil, nil, err
			}
		}
		n.Clear()
	}
	recs := records(l, minSupport)
	meta := &Meta{
		MinSupport: minSupport,
		Graphs:     db.Len(),
		Nodes:      len(recs),
		MaxEdges:   maxEdges,
		Labels:     db.Labels.Labels(),
		BuiltAt:    time.Now().UTC(),
	}
	errors.Logf("INFO", "Built an index of %d frequent patterns out of %d in %v", len(recs), l.Size(), time.Since(start))
	return recs, meta, nil
}

// singleEdges seeds the lattice with one node per distinct labeled edge.
// Each database edge becomes an occurrence numbered like the stored
// pattern.
func singleEdges(db *graph.Database, l *lattice.Lattice) error {
	root := l.Root()
	for _, g := range db.Graphs {
		for e := range g.E {
			edge := &g.E[e]
			u, v := edge.Src, edge.Targ
			if u == v {
				continue
			}
			p, err := pattern.New(
				graph.Vertices{{Idx: 0, Color: g.V[u].Color}, {Idx: 1, Color: g.V[v].Color}},
				graph.Edges{{Src: 0, Targ: 1, Color: edge.Color}},
			)
			if err != nil {
				return err
			}
			n, has := l.Find(p)
			if !has {
				n = l.Add(root, p)
			}
			if n.Pattern.V[0].Color != g.V[u].Color {
				u, v = v, u
			}
			n.AddResult(g.Id, lattice.NewOccurrence(map[int]int{u: 0, v: 1}, e))
		}
	}
	return nil
}

func records(l *lattice.Lattice, minSupport int) []*Record {
	frequent := func(n *lattice.Node) bool {
		return n == l.Root() || n.ResultsNumber() >= minSupport
	}
	recs := make([]*Record, 0, l.Size()+1)
	for n, next := l.Iterate()(); next != nil; n, next = next() {
		if !frequent(n) {
			continue
		}
		rec := &Record{
			Id:       n.Id,
			Pattern:  n.Pattern,
			Father:   n.Father,
			Results:  lattice.Ints(n.Results),
			Children: make([]int, 0, len(n.Reformulations())),
		}
		for _, kid := range n.Reformulations() {
			if frequent(l.Node(kid)) {
				rec.Children = append(rec.Children, kid)
			}
		}
		recs = append(recs, rec)
	}
	return recs
}

// Create builds the index of db and writes it to s.
func Create(s *Store, db *graph.Database, minSupport, maxEdges int) (*Meta, error) {
	recs, meta, err := Build(db, minSupport, maxEdges)
	if err != nil {
		return nil, err
	}
	if err := s.Write(recs, meta); err != nil {
		return nil, err
	}
	return meta, nil
}
