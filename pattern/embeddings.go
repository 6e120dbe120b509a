package pattern

import (
	"github.com/timtadh/data-structures/heap"
	"github.com/timtadh/data-structures/types"
)

import (
	"github.com/timtadh/gref/graph"
)

// Embedding is a persistent linked list of (pattern idx, graph idx)
// pairs. It is used both for vertices and for edges.
type Embedding struct {
	SgIdx, EmbIdx int
	Prev          *Embedding
}

func (emb *Embedding) Extend(sgIdx, embIdx int) *Embedding {
	return &Embedding{SgIdx: sgIdx, EmbIdx: embIdx, Prev: emb}
}

func (emb *Embedding) lookup(sgIdx int) int {
	for c := emb; c != nil; c = c.Prev {
		if c.SgIdx == sgIdx {
			return c.EmbIdx
		}
	}
	return -1
}

func (emb *Embedding) hasId(id int) bool {
	for c := emb; c != nil; c = c.Prev {
		if id == c.EmbIdx {
			return true
		}
	}
	return false
}

func (emb *Embedding) slice(length int) []int {
	ids := make([]int, length)
	for i := range ids {
		ids[i] = -1
	}
	for e := emb; e != nil; e = e.Prev {
		ids[e.SgIdx] = e.EmbIdx
	}
	return ids
}

// Match is one complete embedding of a pattern into a graph.
type Match struct {
	Vertices []int // pattern vertex idx -> graph vertex idx
	Edges    []int // pattern edge idx -> graph edge idx
}

type MatchIterator func(bool) (*Match, MatchIterator)

// Embeddings returns every embedding of p into g. Automorphic images are
// distinct embeddings.
func (p *Pattern) Embeddings(g *graph.Graph) []*Match {
	matches := make([]*Match, 0, 4)
	for m, next := p.IterEmbeddings(g)(false); next != nil; m, next = next(false) {
		matches = append(matches, m)
	}
	return matches
}

func (p *Pattern) EmbeddedIn(g *graph.Graph) bool {
	for _, next := p.IterEmbeddings(g)(false); next != nil; _, next = next(true) {
		return true
	}
	return false
}

func (p *Pattern) IterEmbeddings(g *graph.Graph) (mi MatchIterator) {
	if len(p.V) == 0 {
		mi = func(bool) (*Match, MatchIterator) {
			return nil, nil
		}
		return mi
	}
	type entry struct {
		ids   *Embedding
		edges *Embedding
		eid   int
	}
	pop := func(stack []entry) (entry, []entry) {
		return stack[len(stack)-1], stack[0 : len(stack)-1]
	}
	startIdx := p.searchStartingPoint(g)
	chain := p.edgeChain(startIdx)
	color := p.V[startIdx].Color
	stack := make([]entry, 0, len(g.ColorIndex[color])*2)
	for i := len(g.ColorIndex[color]) - 1; i >= 0; i-- {
		gIdx := g.ColorIndex[color][i]
		if g.Degree(gIdx) < len(p.Adj[startIdx]) {
			continue
		}
		stack = append(stack, entry{ids: &Embedding{SgIdx: startIdx, EmbIdx: gIdx}})
	}

	mi = func(stop bool) (*Match, MatchIterator) {
		for !stop && len(stack) > 0 {
			var i entry
			i, stack = pop(stack)
			if i.eid >= len(chain) {
				return &Match{
					Vertices: i.ids.slice(len(p.V)),
					Edges:    i.edges.slice(len(p.E)),
				}, mi
			}
			// push in reverse so graph order is explored first
			exts := make([]entry, 0, 4)
			p.extendEmbedding(g, i.ids, i.edges, chain[i.eid], func(ids, edges *Embedding) {
				exts = append(exts, entry{ids, edges, i.eid + 1})
			})
			for j := len(exts) - 1; j >= 0; j-- {
				stack = append(stack, exts[j])
			}
		}
		return nil, nil
	}
	return mi
}

// searchStartingPoint picks the pattern vertex whose color is least
// frequent in g.
func (p *Pattern) searchStartingPoint(g *graph.Graph) int {
	arg := -1
	min := 0
	for i := range p.V {
		x := len(g.ColorIndex[p.V[i].Color])
		if arg == -1 || x < min {
			min = x
			arg = i
		}
	}
	return arg
}

// edgeChain orders the edges of p by a breadth first search from
// startIdx. When a vertex is reached every edge back to an already seen
// vertex follows its tree edge, so cycles are checked as early as
// possible.
func (p *Pattern) edgeChain(startIdx int) []int {
	if startIdx >= len(p.V) {
		panic("startIdx out of range")
	}
	edges := make([]int, 0, len(p.E))
	added := make(map[int]bool, len(p.E))
	seen := make(map[int]bool, len(p.V))
	queue := heap.NewUnique(heap.NewMinHeap(len(p.V)))
	queue.Add(0, types.Int(startIdx))
	order := 0
	for queue.Size() > 0 {
		u := int(queue.Pop().(types.Int))
		if seen[u] {
			continue
		}
		seen[u] = true
		for _, e := range p.Adj[u] {
			v := other(p.E, e, u)
			if seen[v] && !added[e] {
				edges = append(edges, e)
				added[e] = true
			}
		}
		for _, e := range p.Adj[u] {
			v := other(p.E, e, u)
			if !seen[v] {
				order++
				queue.Add(order, types.Int(v))
			}
		}
	}
	for e := range p.E {
		if !added[e] {
			edges = append(edges, e)
			added[e] = true
		}
	}
	if len(edges) != len(p.E) {
		panic("assert-fail: len(edges) != len(p.E)")
	}
	return edges
}

func (p *Pattern) extendEmbedding(g *graph.Graph, ids, edges *Embedding, eid int, do func(ids, edges *Embedding)) {
	e := &p.E[eid]
	srcId := ids.lookup(e.Src)
	targId := ids.lookup(e.Targ)
	grow := func(known, newIdx int) {
		for _, ge := range g.Adj[known] {
			if g.E[ge].Color != e.Color || edges.hasId(ge) {
				continue
			}
			w := g.Other(ge, known)
			if g.V[w].Color != p.V[newIdx].Color || ids.hasId(w) {
				continue
			}
			if g.Degree(w) < len(p.Adj[newIdx]) {
				continue
			}
			do(ids.Extend(newIdx, w), edges.Extend(eid, ge))
		}
	}
	if srcId == -1 && targId == -1 {
		panic("src and targ == -1. Which means the edge chain was not connected.")
	} else if srcId != -1 && targId != -1 {
		g.EdgesBetween(srcId, targId, e.Color, func(ge int) {
			if !edges.hasId(ge) {
				do(ids, edges.Extend(eid, ge))
			}
		})
	} else if srcId != -1 {
		grow(srcId, e.Targ)
	} else {
		grow(targId, e.Src)
	}
}
