package pattern

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

import (
	"github.com/timtadh/data-structures/errors"
)

import (
	"github.com/timtadh/gref/graph"
)

// Pattern is an immutable connected graph fragment together with its
// canonical identity. Equality between patterns is equality of their
// minimum DFS codes and never depends on vertex or edge numbering.
type Pattern struct {
	V       graph.Vertices
	E       graph.Edges
	Adj     [][]int
	code    Code
	mapping []int
	inverse []int
	tree    bool
	label   []byte
}

// Empty is the pattern without vertices.
func Empty() *Pattern {
	p, err := New(graph.Vertices{}, graph.Edges{})
	if err != nil {
		panic(err)
	}
	return p
}

// New canonicalizes the fragment (V, E). The slices are owned by the
// returned pattern.
func New(V graph.Vertices, E graph.Edges) (*Pattern, error) {
	adj := make([][]int, len(V))
	for i := range V {
		if V[i].Idx != i {
			return nil, errors.Errorf("vertex %v has idx %v", i, V[i].Idx)
		}
		adj[i] = make([]int, 0, 4)
	}
	for e := range E {
		if E[e].Src < 0 || E[e].Src >= len(V) || E[e].Targ < 0 || E[e].Targ >= len(V) {
			return nil, errors.Errorf("edge %v has an endpoint out of range", e)
		}
		adj[E[e].Src] = append(adj[E[e].Src], e)
		adj[E[e].Targ] = append(adj[E[e].Targ], e)
	}
	code, mapping, inverse, tree, err := Canonicalize(V, E, adj)
	if err != nil {
		return nil, err
	}
	return &Pattern{
		V:       V,
		E:       E,
		Adj:     adj,
		code:    code,
		mapping: mapping,
		inverse: inverse,
		tree:    tree,
		label:   code.Label(),
	}, nil
}

// FromGraph builds the pattern of a whole database (or query) graph.
func FromGraph(g *graph.Graph) (*Pattern, error) {
	V := make(graph.Vertices, len(g.V))
	E := make(graph.Edges, len(g.E))
	copy(V, g.V)
	copy(E, g.E)
	return New(V, E)
}

// Extend returns a copy of p grown by one edge from vertex src. If targ
// is negative a new vertex colored targColor is added as the other end.
// The second return value is the idx of the other end in the new
// pattern. p is not modified.
func (p *Pattern) Extend(src, targ, targColor, edgeColor int) (*Pattern, int, error) {
	V := make(graph.Vertices, len(p.V), len(p.V)+1)
	E := make(graph.Edges, len(p.E), len(p.E)+1)
	copy(V, p.V)
	copy(E, p.E)
	if targ < 0 {
		targ = len(V)
		V = append(V, graph.Vertex{Idx: targ, Color: targColor})
	}
	E = append(E, graph.Edge{Src: src, Targ: targ, Color: edgeColor})
	ext, err := New(V, E)
	if err != nil {
		return nil, -1, err
	}
	return ext, targ, nil
}

func (p *Pattern) Code() Code {
	return p.code
}

// Mapping maps DFS code positions to vertex idxs.
func (p *Pattern) Mapping() []int {
	return p.mapping
}

// Inverse maps vertex idxs to DFS code positions.
func (p *Pattern) Inverse() []int {
	return p.inverse
}

func (p *Pattern) IsTree() bool {
	return p.tree
}

// Label is the canonical identity of the pattern as bytes.
func (p *Pattern) Label() []byte {
	return p.label
}

func (p *Pattern) Key() string {
	return string(p.label)
}

func (p *Pattern) Equals(o *Pattern) bool {
	return bytes.Equal(p.label, o.label)
}

func (p *Pattern) Serialize() []byte {
	size := 8 + len(p.V)*4 + len(p.E)*12
	label := make([]byte, size)
	binary.BigEndian.PutUint32(label[0:4], uint32(len(p.E)))
	binary.BigEndian.PutUint32(label[4:8], uint32(len(p.V)))
	off := 8
	for i, v := range p.V {
		s := off + i*4
		binary.BigEndian.PutUint32(label[s:s+4], uint32(v.Color))
	}
	off += len(p.V) * 4
	for i, edge := range p.E {
		s := off + i*12
		binary.BigEndian.PutUint32(label[s:s+4], uint32(edge.Src))
		binary.BigEndian.PutUint32(label[s+4:s+8], uint32(edge.Targ))
		binary.BigEndian.PutUint32(label[s+8:s+12], uint32(edge.Color))
	}
	return label
}

func Load(data []byte) (*Pattern, error) {
	if len(data) < 8 {
		return nil, errors.Errorf("data was too small %v < 8", len(data))
	}
	lenE := int(binary.BigEndian.Uint32(data[0:4]))
	lenV := int(binary.BigEndian.Uint32(data[4:8]))
	off := 8
	expected := 8 + lenV*4 + lenE*12
	if len(data) < expected {
		return nil, errors.Errorf("data was too small %v < %v", len(data), expected)
	}
	V := make(graph.Vertices, lenV)
	E := make(graph.Edges, lenE)
	for i := 0; i < lenV; i++ {
		s := off + i*4
		V[i].Idx = i
		V[i].Color = int(binary.BigEndian.Uint32(data[s : s+4]))
	}
	off += lenV * 4
	for i := 0; i < lenE; i++ {
		s := off + i*12
		E[i].Src = int(binary.BigEndian.Uint32(data[s : s+4]))
		E[i].Targ = int(binary.BigEndian.Uint32(data[s+4 : s+8]))
		E[i].Color = int(binary.BigEndian.Uint32(data[s+8 : s+12]))
	}
	return New(V, E)
}

func (p *Pattern) String() string {
	V := make([]string, 0, len(p.V))
	E := make([]string, 0, len(p.E))
	for _, v := range p.V {
		V = append(V, fmt.Sprintf("(%v)", v.Color))
	}
	for _, e := range p.E {
		E = append(E, fmt.Sprintf("[%v-%v:%v]", e.Src, e.Targ, e.Color))
	}
	return fmt.Sprintf("{%v:%v}%v%v", len(p.E), len(p.V), strings.Join(V, ""), strings.Join(E, ""))
}

func (p *Pattern) Pretty(labels *graph.Labels) string {
	V := make([]string, 0, len(p.V))
	E := make([]string, 0, len(p.E))
	for _, v := range p.V {
		V = append(V, fmt.Sprintf("(%v)", labels.Label(v.Color)))
	}
	for _, e := range p.E {
		E = append(E, fmt.Sprintf("[%v-%v:%v]", e.Src, e.Targ, labels.Label(e.Color)))
	}
	return fmt.Sprintf("{%v:%v}%v%v", len(p.E), len(p.V), strings.Join(V, ""), strings.Join(E, ""))
}

func (p *Pattern) Dotty(labels *graph.Labels) string {
	V := make([]string, 0, len(p.V))
	E := make([]string, 0, len(p.E))
	for vidx, v := range p.V {
		V = append(V, fmt.Sprintf("n%v [label=%q];", vidx, labels.Label(v.Color)))
	}
	for _, e := range p.E {
		E = append(E, fmt.Sprintf("n%v -- n%v [label=%q];", e.Src, e.Targ, labels.Label(e.Color)))
	}
	return fmt.Sprintf("graph {\n%v\n%v\n}", strings.Join(V, "\n"), strings.Join(E, "\n"))
}

// Graph returns the pattern as a stand alone graph.
func (p *Pattern) Graph() *graph.Graph {
	b := graph.Build(len(p.V), len(p.E))
	for _, v := range p.V {
		b.AddVertex(v.Color)
	}
	for _, e := range p.E {
		b.AddEdge(&b.V[e.Src], &b.V[e.Targ], e.Color)
	}
	return b.Build()
}
