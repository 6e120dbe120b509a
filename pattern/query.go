package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

import (
	"github.com/alecthomas/participle/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/timtadh/data-structures/errors"
)

import (
	"github.com/timtadh/gref/graph"
)

// queryExpr is the grammar of inline queries:
//
//	1:a -x- 2:b -- 3:c, 2 -y- 4:d
//
// Runs of vertices joined by edges are separated by commas. A vertex is
// an integer id with an optional `:label`. An edge is `-label-` or `--`
// for the empty label.
type queryExpr struct {
	Runs []*queryRun `@@ ( "," @@ )*`
}

type queryRun struct {
	Start *queryVertex `@@`
	Steps []*queryStep `@@*`
}

type queryStep struct {
	Label string       `"-" @( Ident | String | Int )? "-"`
	End   *queryVertex `@@`
}

type queryVertex struct {
	Id    int    `@Int`
	Label string `( ":" @( Ident | String | Int ) )?`
}

var parseQueryExpr = participle.MustBuild[queryExpr](participle.Unquote("String"))

// ErrUnknownLabel is the cause of ResolveQuery failing on a label the
// table does not hold.
var ErrUnknownLabel = pkgerrors.New("unknown label")

// ParseQuery parses an inline query expression into a pattern. A vertex
// takes its label from the first occurrence that names one; a vertex that
// is never labeled has the empty label. New labels are added to labels.
func ParseQuery(labels *graph.Labels, expr string) (*Pattern, error) {
	return parseQuery(expr, func(label string) (int, error) {
		return labels.Color(label), nil
	})
}

// ResolveQuery parses expr like ParseQuery but leaves labels untouched.
// A label labels does not know fails with ErrUnknownLabel.
func ResolveQuery(labels *graph.Labels, expr string) (*Pattern, error) {
	return parseQuery(expr, func(label string) (int, error) {
		color, has := labels.Lookup(label)
		if !has {
			return 0, pkgerrors.Wrapf(ErrUnknownLabel, "%q in query `%v`", label, expr)
		}
		return color, nil
	})
}

func parseQuery(expr string, color func(string) (int, error)) (*Pattern, error) {
	q, err := parseQueryExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Errorf("could not parse query `%v`: %v", expr, err)
	}
	type vertex struct {
		idx     int
		label   string
		labeled bool
	}
	vertices := make(map[int]*vertex)
	order := make([]int, 0, 10)
	type edge struct {
		src, targ int
		label     string
	}
	edges := make([]edge, 0, 10)
	visit := func(v *queryVertex) {
		x, has := vertices[v.Id]
		if !has {
			x = &vertex{idx: len(order)}
			vertices[v.Id] = x
			order = append(order, v.Id)
		}
		if v.Label != "" && !x.labeled {
			x.label = v.Label
			x.labeled = true
		}
	}
	for _, run := range q.Runs {
		visit(run.Start)
		prev := run.Start.Id
		for _, step := range run.Steps {
			visit(step.End)
			if prev == step.End.Id {
				return nil, errors.Errorf("self loop on vertex %v in query `%v`", prev, expr)
			}
			edges = append(edges, edge{src: prev, targ: step.End.Id, label: step.Label})
			prev = step.End.Id
		}
	}
	for _, run := range q.Runs {
		for _, v := range append([]*queryVertex{run.Start}, ends(run.Steps)...) {
			if x := vertices[v.Id]; v.Label != "" && v.Label != x.label {
				return nil, errors.Errorf("vertex %v labeled both %v and %v", v.Id, x.label, v.Label)
			}
		}
	}
	V := make(graph.Vertices, len(order))
	for i, id := range order {
		c, err := color(vertices[id].label)
		if err != nil {
			return nil, err
		}
		V[i] = graph.Vertex{Idx: i, Color: c}
	}
	E := make(graph.Edges, len(edges))
	for i, e := range edges {
		c, err := color(e.label)
		if err != nil {
			return nil, err
		}
		E[i] = graph.Edge{
			Src:   vertices[e.src].idx,
			Targ:  vertices[e.targ].idx,
			Color: c,
		}
	}
	return New(V, E)
}

// Expr writes p as a query expression ParseQuery reads back into an equal
// pattern. Each edge is its own run and vertex i is numbered i+1.
func (p *Pattern) Expr(labels *graph.Labels) string {
	named := make([]bool, len(p.V))
	vertex := func(idx int) string {
		label := labels.Label(p.V[idx].Color)
		if named[idx] || label == "" {
			return strconv.Itoa(idx + 1)
		}
		named[idx] = true
		return fmt.Sprintf("%d:%v", idx+1, token(label))
	}
	runs := make([]string, 0, len(p.E)+len(p.V))
	for _, e := range p.E {
		src := vertex(e.Src)
		runs = append(runs, fmt.Sprintf("%v -%v- %v", src, token(labels.Label(e.Color)), vertex(e.Targ)))
	}
	for idx := range p.V {
		if len(p.Adj[idx]) == 0 {
			runs = append(runs, vertex(idx))
		}
	}
	return strings.Join(runs, ", ")
}

// token quotes a label unless it lexes as a bare identifier or integer.
func token(label string) string {
	if label == "" {
		return ""
	}
	ident, digits := true, true
	for i, r := range label {
		isLetter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isDigit {
			digits = false
		}
		if !isLetter && !(isDigit && i > 0) {
			ident = false
		}
	}
	if ident || digits {
		return label
	}
	return strconv.Quote(label)
}

func ends(steps []*queryStep) []*queryVertex {
	vs := make([]*queryVertex, 0, len(steps))
	for _, s := range steps {
		vs = append(vs, s.End)
	}
	return vs
}
