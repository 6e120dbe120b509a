package lattice

import (
	"github.com/timtadh/data-structures/errors"
	"github.com/timtadh/data-structures/set"
	"github.com/timtadh/data-structures/types"
)

import (
	"github.com/timtadh/gref/graph"
)

const reformulationPrintCount = 1000

// Extender grows lattice nodes one database edge at a time.
type Extender struct {
	DB       *graph.Database
	Calls    int // calls to Extend
	Created  int // nodes added to the lattice
	Trees    int // created nodes that are trees
	Warnings int // consistency warnings
}

func NewExtender(db *graph.Database) *Extender {
	return &Extender{DB: db}
}

// Extend builds every one edge extension of n over all of its
// occurrences. New reformulations are indexed, attached to n and handed
// to push when push is not nil. A child that is already indexed with n as
// its father receives the occurrence remapped onto its own vertex
// numbering; a child of another father is left alone.
func (x *Extender) Extend(l *Lattice, n *Node, push func(*Node)) error {
	x.Calls++
	if n.Cleared() {
		errors.Logf("DEBUG", "node %d was cleared before it was extended", n.Id)
		return nil
	}
	for _, gid := range Ints(n.Results) {
		g := x.DB.Graphs[gid]
		for _, occ := range n.Occurrences(gid) {
			checkRemoveAll(occ.Candidates, occ.Mapped, g)
			for _, candidate := range Ints(occ.Candidates) {
				for _, edge := range g.Adj[candidate] {
					if occ.Mapped.Has(types.Int(edge)) {
						continue
					}
					if err := x.extension(l, n, gid, g, occ, candidate, edge, push); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (x *Extender) extension(l *Lattice, n *Node, gid int, g *graph.Graph, occ *Occurrence, candidate, edge int, push func(*Node)) error {
	candMapped, has := occ.NodeMap[candidate]
	if !has {
		panic("candidate vertex is not mapped")
	}
	adj := g.Other(edge, candidate)
	targ, has := occ.NodeMap[adj]
	if !has {
		targ = -1
	} else if adj < candidate {
		// the same edge was already grown from adj
		return nil
	}
	ext, adjMapped, err := n.Pattern.Extend(candMapped, targ, g.V[adj].Color, g.E[edge].Color)
	if err != nil {
		return err
	}
	next := occ.copy()
	var child *Node
	if existing, has := l.Find(ext); has {
		if existing.Father != n.Id {
			if !existing.HasResult(gid) {
				x.Warnings++
				errors.Logf("WARN", "Reformulated query %v does not contain the result %d", existing, gid)
			}
			return nil
		}
		next.NodeMap[adj] = adjMapped
		actual := existing.Pattern.Mapping()
		if !sameInts(ext.Mapping(), actual) {
			inverse := ext.Inverse()
			for k, v := range next.NodeMap {
				next.NodeMap[k] = actual[inverse[v]]
			}
		}
		if len(next.NodeMap) != len(existing.Pattern.V) {
			return remapError(n, existing, len(next.NodeMap))
		}
		child = existing
	} else {
		next.NodeMap[adj] = adjMapped
		child = l.Add(n, ext)
		child.LastAdded = adjMapped
		x.Created++
		if ext.IsTree() {
			x.Trees++
		}
		if x.Created%reformulationPrintCount == 0 {
			errors.Logf("INFO", "Inserted %d queries", x.Created)
		}
		if push != nil {
			push(child)
		}
	}
	l.Attach(n, child)
	next.Candidates.Add(types.Int(adj))
	next.Mapped.Add(types.Int(edge))
	checkRemove(next.Candidates, next.Mapped, g, candidate)
	checkRemove(next.Candidates, next.Mapped, g, adj)
	child.AddResult(gid, next)
	return nil
}

// checkRemoveAll drops every candidate whose incident edges are all
// mapped.
func checkRemoveAll(candidates, mapped *set.SortedSet, g *graph.Graph) {
	for _, candidate := range Ints(candidates) {
		checkRemove(candidates, mapped, g, candidate)
	}
}

func checkRemove(candidates, mapped *set.SortedSet, g *graph.Graph, candidate int) {
	for _, edge := range g.Adj[candidate] {
		if !mapped.Has(types.Int(edge)) {
			return
		}
	}
	candidates.Delete(types.Int(candidate))
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Expand grows n unless it matches a single graph or none.
func (x *Extender) Expand(l *Lattice, n *Node) error {
	if n.ResultsNumber() <= 1 {
		return nil
	}
	return x.Extend(l, n, nil)
}

func (x *Extender) Expansions() int {
	return x.Calls
}
