package graph

import (
	"fmt"
	"strings"
)

type Vertex struct {
	Idx, Color int
}

// Edge is undirected. Src and Targ only record the order the endpoints
// were given in.
type Edge struct {
	Src, Targ, Color int
}

type Vertices []Vertex
type Edges []Edge

// Graph is one labeled undirected graph of the database. Adj[u] lists
// the ids of the edges incident to u in insertion order.
type Graph struct {
	Id         int
	V          Vertices
	E          Edges
	Adj        [][]int
	ColorIndex map[int][]int // vertex color -> vertex idxs
}

func (g *Graph) Degree(u int) int {
	return len(g.Adj[u])
}

// Other returns the endpoint of edge e that is not u.
func (g *Graph) Other(e, u int) int {
	edge := &g.E[e]
	if edge.Src == u {
		return edge.Targ
	} else if edge.Targ == u {
		return edge.Src
	}
	panic(fmt.Errorf("vertex %v is not an endpoint of edge %v", u, e))
}

// EdgesBetween calls do for every edge between u and v with the given
// color.
func (g *Graph) EdgesBetween(u, v, color int, do func(e int)) {
	for _, e := range g.Adj[u] {
		edge := &g.E[e]
		if edge.Color != color {
			continue
		}
		if (edge.Src == u && edge.Targ == v) || (edge.Src == v && edge.Targ == u) {
			do(e)
		}
	}
}

func (g *Graph) Density() float64 {
	if len(g.V) < 2 {
		return 0
	}
	n := float64(len(g.V))
	return 2 * float64(len(g.E)) / (n * (n - 1))
}

func (g *Graph) String() string {
	V := make([]string, 0, len(g.V))
	E := make([]string, 0, len(g.E))
	for _, v := range g.V {
		V = append(V, fmt.Sprintf("(%v:%v)", v.Idx, v.Color))
	}
	for _, e := range g.E {
		E = append(E, fmt.Sprintf("[%v-%v:%v]", e.Src, e.Targ, e.Color))
	}
	return fmt.Sprintf("{%v:%v}%v%v", len(g.E), len(g.V), strings.Join(V, ""), strings.Join(E, ""))
}

// Database is an ordered collection of graphs sharing one label table.
// A graph's Id is its position in Graphs.
type Database struct {
	Graphs []*Graph
	Labels *Labels
}

func NewDatabase(labels *Labels) *Database {
	return &Database{
		Graphs: make([]*Graph, 0, 100),
		Labels: labels,
	}
}

func (db *Database) Add(g *Graph) *Graph {
	g.Id = len(db.Graphs)
	db.Graphs = append(db.Graphs, g)
	return g
}

func (db *Database) Len() int {
	return len(db.Graphs)
}

// Take returns a database over the first n graphs. n <= 0 or n larger
// than the database returns db itself.
func (db *Database) Take(n int) *Database {
	if n <= 0 || n >= len(db.Graphs) {
		return db
	}
	return &Database{
		Graphs: db.Graphs[:n],
		Labels: db.Labels,
	}
}
