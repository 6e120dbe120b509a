package graph

type Builder struct {
	V   Vertices
	E   Edges
	Adj [][]int
}

func Build(V, E int) *Builder {
	if V < 10 {
		V = 10
	}
	if E < 10 {
		E = 10
	}
	return &Builder{
		V:   make(Vertices, 0, V),
		E:   make(Edges, 0, E),
		Adj: make([][]int, 0, V),
	}
}

func (b *Builder) Ctx(do func(*Builder)) *Builder {
	do(b)
	return b
}

func (b *Builder) Build() *Graph {
	g := &Graph{
		V:          make(Vertices, len(b.V)),
		E:          make(Edges, len(b.E)),
		Adj:        make([][]int, len(b.V)),
		ColorIndex: make(map[int][]int),
	}
	for i := range b.V {
		g.V[i].Idx = b.V[i].Idx
		g.V[i].Color = b.V[i].Color
		g.Adj[i] = make([]int, len(b.Adj[i]))
		copy(g.Adj[i], b.Adj[i])
		g.ColorIndex[g.V[i].Color] = append(g.ColorIndex[g.V[i].Color], i)
	}
	copy(g.E, b.E)
	return g
}

func (b *Builder) AddVertex(color int) *Vertex {
	if b == nil {
		panic("b was nil")
	}
	idx := len(b.V)
	b.V = append(b.V, Vertex{
		Idx:   idx,
		Color: color,
	})
	b.Adj = append(b.Adj, make([]int, 0, 5))
	return &b.V[idx]
}

func (b *Builder) AddEdge(u, v *Vertex, color int) *Edge {
	idx := len(b.E)
	b.E = append(b.E, Edge{
		Src:   u.Idx,
		Targ:  v.Idx,
		Color: color,
	})
	e := &b.E[idx]
	b.Adj[e.Src] = append(b.Adj[e.Src], idx)
	if e.Targ != e.Src {
		b.Adj[e.Targ] = append(b.Adj[e.Targ], idx)
	}
	return e
}
