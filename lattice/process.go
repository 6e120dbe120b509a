package lattice

import (
	"time"
)

import (
	"github.com/timtadh/data-structures/errors"
)

import (
	"github.com/timtadh/gref/graph"
	"github.com/timtadh/gref/pattern"
)

type Answer struct {
	Lattice  *Lattice
	Multiple int // graphs with more than one embedding
	Time     time.Duration
}

// Process answers q over db and returns a lattice rooted at q. Every
// embedding becomes one occurrence of the root whose candidates are all
// its mapped vertices.
func Process(db *graph.Database, q *pattern.Pattern) (*Answer, error) {
	if len(q.V) == 0 {
		return nil, ErrEmptyQuery
	}
	start := time.Now()
	l := New(q)
	root := l.Root()
	multiple := 0
	for _, g := range db.Graphs {
		matches := q.Embeddings(g)
		if len(matches) > 1 {
			multiple++
		}
		for _, m := range matches {
			nodeMap := make(map[int]int, len(m.Vertices))
			for pidx, gidx := range m.Vertices {
				nodeMap[gidx] = pidx
			}
			occ := NewOccurrence(nodeMap, m.Edges...)
			root.AddResult(g.Id, occ)
		}
	}
	errors.Logf("INFO", "Number of graphs with multiple answers: %d/%d", multiple, root.ResultsNumber())
	return &Answer{
		Lattice:  l,
		Multiple: multiple,
		Time:     time.Since(start),
	}, nil
}
