package pattern

import "testing"
import "github.com/stretchr/testify/assert"

import (
	"math/rand"
)

import (
	"github.com/timtadh/data-structures/test"
)

import (
	"github.com/timtadh/gref/graph"
)

func build(t *testing.T, colors []int, edges [][3]int) *Pattern {
	V := make(graph.Vertices, len(colors))
	for i, c := range colors {
		V[i] = graph.Vertex{Idx: i, Color: c}
	}
	E := make(graph.Edges, len(edges))
	for i, e := range edges {
		E[i] = graph.Edge{Src: e[0], Targ: e[1], Color: e[2]}
	}
	p, err := New(V, E)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// permute relabels the vertices of p with perm and shuffles the edge
// order and endpoint order.
func permute(t *testing.T, p *Pattern, perm []int, r *rand.Rand) *Pattern {
	colors := make([]int, len(p.V))
	for i, v := range p.V {
		colors[perm[i]] = v.Color
	}
	edges := make([][3]int, 0, len(p.E))
	for _, e := range p.E {
		if r.Intn(2) == 0 {
			edges = append(edges, [3]int{perm[e.Src], perm[e.Targ], e.Color})
		} else {
			edges = append(edges, [3]int{perm[e.Targ], perm[e.Src], e.Color})
		}
	}
	r.Shuffle(len(edges), func(i, j int) { edges[i], edges[j] = edges[j], edges[i] })
	return build(t, colors, edges)
}

func TestCanonicalIdentity(x *testing.T) {
	t := (*test.T)(x)
	r := rand.New(rand.NewSource(7))
	patterns := []*Pattern{
		build(x, []int{0, 1, 1, 2}, [][3]int{{0, 1, 0}, {1, 2, 0}, {2, 3, 1}, {3, 0, 0}}),
		build(x, []int{0, 0, 0, 0, 0}, [][3]int{{0, 1, 0}, {1, 2, 0}, {2, 3, 0}, {3, 4, 0}, {4, 0, 0}, {0, 2, 1}}),
		build(x, []int{3, 1, 2, 1, 2}, [][3]int{{0, 1, 5}, {0, 2, 5}, {0, 3, 5}, {0, 4, 6}}),
	}
	for _, p := range patterns {
		for round := 0; round < 10; round++ {
			perm := r.Perm(len(p.V))
			q := permute(x, p, perm, r)
			t.Assert(p.Equals(q), "%v != %v\n%v\n%v", p, q, p.Code(), q.Code())
		}
	}
}

func TestCanonicalDistinguishes(t *testing.T) {
	x := assert.New(t)
	path := build(t, []int{0, 0, 0, 0}, [][3]int{{0, 1, 0}, {1, 2, 0}, {2, 3, 0}})
	star := build(t, []int{0, 0, 0, 0}, [][3]int{{0, 1, 0}, {0, 2, 0}, {0, 3, 0}})
	x.False(path.Equals(star))
	ab := build(t, []int{0, 1}, [][3]int{{0, 1, 0}})
	ab2 := build(t, []int{0, 1}, [][3]int{{0, 1, 1}})
	x.False(ab.Equals(ab2))
}

func TestCanonicalIdempotent(t *testing.T) {
	x := assert.New(t)
	p := build(t, []int{2, 0, 1}, [][3]int{{0, 1, 0}, {1, 2, 0}, {0, 2, 3}})
	V := make(graph.Vertices, len(p.V))
	for pos, vidx := range p.Mapping() {
		V[pos] = graph.Vertex{Idx: pos, Color: p.V[vidx].Color}
	}
	E := make(graph.Edges, 0, len(p.E))
	for _, t := range p.Code() {
		E = append(E, graph.Edge{Src: t.I, Targ: t.J, Color: t.LE})
	}
	q, err := New(V, E)
	x.NoError(err)
	x.Equal(p.Code(), q.Code())
	for pos := range q.Mapping() {
		x.Equal(pos, q.Mapping()[pos])
	}
}

func TestMappingInverse(x *testing.T) {
	t := (*test.T)(x)
	p := build(x, []int{4, 2, 3, 2}, [][3]int{{0, 1, 0}, {1, 2, 0}, {2, 3, 0}, {1, 3, 1}})
	for pos, vidx := range p.Mapping() {
		t.Assert(p.Inverse()[vidx] == pos, "inverse of mapping at %v", pos)
		t.Assert(p.V[vidx].Color == colorAt(p.Code(), pos), "color at position %v", pos)
	}
}

func colorAt(c Code, pos int) int {
	for _, t := range c {
		if t.I == pos {
			return t.LI
		}
		if t.J == pos {
			return t.LJ
		}
	}
	return -1
}

func TestIsTree(t *testing.T) {
	x := assert.New(t)
	x.True(build(t, []int{0, 1, 2}, [][3]int{{0, 1, 0}, {1, 2, 0}}).IsTree())
	x.False(build(t, []int{0, 1, 2}, [][3]int{{0, 1, 0}, {1, 2, 0}, {2, 0, 0}}).IsTree())
	x.True(Empty().IsTree())
}

func TestSingleVertexAndEmpty(t *testing.T) {
	x := assert.New(t)
	a := build(t, []int{3}, nil)
	b := build(t, []int{4}, nil)
	x.False(a.Equals(b))
	x.Equal(Code{{I: 0, J: 0, LI: 3, LE: -1, LJ: -1}}, a.Code())
	x.Len(Empty().Code(), 0)
	x.False(Empty().Equals(a))
}

func TestDisconnected(t *testing.T) {
	x := assert.New(t)
	_, err := New(graph.Vertices{{Idx: 0}, {Idx: 1}, {Idx: 2}, {Idx: 3}}, graph.Edges{{Src: 0, Targ: 1}, {Src: 2, Targ: 3}})
	x.Error(err)
	_, err = New(graph.Vertices{{Idx: 0}, {Idx: 1}}, nil)
	x.Error(err)
}

func TestCodeLabel(t *testing.T) {
	x := assert.New(t)
	p := build(t, []int{0, 1, 2}, [][3]int{{0, 1, 0}, {1, 2, 7}})
	c, err := LoadCode(p.Label())
	x.NoError(err)
	x.True(c.Equals(p.Code()))
	single := build(t, []int{5}, nil)
	c, err = LoadCode(single.Label())
	x.NoError(err)
	x.Equal(-1, c[0].LE)
}

func TestExtendIsPure(t *testing.T) {
	x := assert.New(t)
	p := build(t, []int{0, 1}, [][3]int{{0, 1, 0}})
	before := p.Key()
	q, idx, err := p.Extend(1, -1, 2, 0)
	x.NoError(err)
	x.Equal(2, idx)
	x.Len(p.V, 2)
	x.Len(p.E, 1)
	x.Equal(before, p.Key())
	x.Len(q.V, 3)
	x.Len(q.E, 2)
	r, idx, err := q.Extend(2, 0, 0, 0)
	x.NoError(err)
	x.Equal(0, idx)
	x.False(r.IsTree())
}

func TestSerialize(t *testing.T) {
	x := assert.New(t)
	p := build(t, []int{0, 1, 1}, [][3]int{{0, 1, 0}, {1, 2, 3}})
	q, err := Load(p.Serialize())
	x.NoError(err)
	x.True(p.Equals(q))
	x.Equal(p.V, q.V)
	x.Equal(p.E, q.E)
}
