package graph

import "testing"
import "github.com/stretchr/testify/assert"

import (
	"bytes"
	"strings"
)

import (
	"github.com/timtadh/data-structures/test"
)

const lines = `
# two small graphs
t # 0
v 0 a
v 1 b
v 2 c
e 0 1 x
e 1 2

t # 1
v 0 a
v 1 a
e 0 1 y
`

func TestLoadLines(x *testing.T) {
	t := (*test.T)(x)
	labels := NewLabels()
	db, err := LoadLines(labels, strings.NewReader(lines))
	t.Assert(err == nil, "unexpected error %v", err)
	t.Assert(db.Len() == 2, "expected 2 graphs got %v", db.Len())
	g := db.Graphs[0]
	t.Assert(len(g.V) == 3 && len(g.E) == 2, "unexpected graph %v", g)
	t.Assert(labels.Label(g.V[2].Color) == "c", "vertex 2 should be c")
	t.Assert(labels.Label(g.E[1].Color) == "", "edge 1 should have no label")
	t.Assert(g.Degree(1) == 2, "vertex 1 should have degree 2")
	t.Assert(g.Other(0, 1) == 0, "other end of edge 0 from 1 should be 0")
	t.Assert(len(db.Graphs[1].ColorIndex[labels.Color("a")]) == 2, "graph 1 has two a vertices")
	t.Assert(db.Graphs[1].Id == 1, "ids follow positions")
}

func TestLoadLinesErrors(t *testing.T) {
	x := assert.New(t)
	_, err := LoadLines(NewLabels(), strings.NewReader("t # 0\nv 0 a\ne 0 3 x\n"))
	x.Error(err)
	_, err = LoadLines(NewLabels(), strings.NewReader("t # 0\nq 0 a\n"))
	x.Error(err)
	_, err = LoadLines(NewLabels(), strings.NewReader("t # 0\nv 0 a\nv 0 b\n"))
	x.Error(err)
}

func TestWriteLinesRoundTrip(t *testing.T) {
	x := assert.New(t)
	labels := NewLabels()
	db, err := LoadLines(labels, strings.NewReader(lines))
	x.NoError(err)
	var buf bytes.Buffer
	for _, g := range db.Graphs {
		x.NoError(WriteLines(&buf, labels, g))
	}
	again, err := LoadLines(labels, &buf)
	x.NoError(err)
	x.Equal(db.Len(), again.Len())
	for i := range db.Graphs {
		x.Equal(db.Graphs[i].V, again.Graphs[i].V)
		x.Equal(db.Graphs[i].E, again.Graphs[i].E)
	}
}

func TestLoadDot(t *testing.T) {
	x := assert.New(t)
	labels := NewLabels()
	db, err := LoadDot(labels, strings.NewReader(`
graph one {
	n1 [label="a"];
	n2 [label="b"];
	n1 -- n2 [label="x"];
	n2 -- n3 -- n1;
}
digraph two {
	a -> b;
}
`))
	x.NoError(err)
	x.Equal(2, db.Len())
	g := db.Graphs[0]
	x.Len(g.V, 3)
	x.Len(g.E, 3)
	x.Equal("a", labels.Label(g.V[0].Color))
	x.Equal("n3", labels.Label(g.V[2].Color))
	x.Equal("x", labels.Label(g.E[0].Color))
	x.Equal("", labels.Label(g.E[1].Color))
	x.Len(db.Graphs[1].E, 1)
}

func TestTake(t *testing.T) {
	x := assert.New(t)
	db, err := LoadLines(NewLabels(), strings.NewReader(lines))
	x.NoError(err)
	x.Equal(1, db.Take(1).Len())
	x.Equal(2, db.Take(0).Len())
	x.Equal(2, db.Take(5).Len())
}

func TestFormatOf(t *testing.T) {
	x := assert.New(t)
	x.Equal("dot", FormatOf("graphs.dot"))
	x.Equal("dot", FormatOf("graphs.gv.gz"))
	x.Equal("lines", FormatOf("aids.txt"))
}

func TestLoadDropsSelfLoops(t *testing.T) {
	x := assert.New(t)
	db, err := LoadLines(NewLabels(), strings.NewReader("t # 0\nv 0 a\nv 1 b\ne 0 0 x\ne 0 1\n"))
	x.NoError(err)
	x.Len(db.Graphs[0].E, 1)
	db, err = LoadDot(NewLabels(), strings.NewReader("graph { a -- a; a -- b }"))
	x.NoError(err)
	x.Len(db.Graphs[0].E, 1)
}
