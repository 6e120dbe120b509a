package graph

import (
	"io"
	"io/ioutil"
	"strconv"
	"strings"
)

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/formats/dot"
	"gonum.org/v1/gonum/graph/formats/dot/ast"
)

// LoadDot reads every graph of a DOT file as one database graph. Vertex
// labels come from the `label` attribute (defaulting to the node id),
// edge labels from the edge `label` attribute. Direction is ignored and
// subgraph statements are skipped.
func LoadDot(labels *Labels, input io.Reader) (*Database, error) {
	text, err := ioutil.ReadAll(input)
	if err != nil {
		return nil, errors.Wrap(err, "reading dot input")
	}
	file, err := dot.ParseBytes(text)
	if err != nil {
		return nil, errors.Wrap(err, "parsing dot input")
	}
	db := NewDatabase(labels)
	for _, g := range file.Graphs {
		dp := &dotParse{
			labels:  labels,
			builder: Build(10, 10),
			vids:    make(map[string]int),
		}
		if err := dp.stmts(g.Stmts); err != nil {
			return nil, errors.Wrapf(err, "graph %v", unquote(g.ID))
		}
		db.Add(dp.builder.Build())
	}
	return db, nil
}

type dotParse struct {
	labels  *Labels
	builder *Builder
	vids    map[string]int
}

func (p *dotParse) stmts(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.NodeStmt:
			p.loadVertex(s.Node.ID, s.Attrs)
		case *ast.EdgeStmt:
			if err := p.loadEdges(s); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *dotParse) loadVertex(sid string, attrs []*ast.Attr) int {
	sid = unquote(sid)
	label, has := attr(attrs, "label")
	if !has {
		label = sid
	}
	if idx, has := p.vids[sid]; has {
		if _, relabel := attr(attrs, "label"); relabel {
			p.builder.V[idx].Color = p.labels.Color(label)
		}
		return idx
	}
	v := p.builder.AddVertex(p.labels.Color(label))
	p.vids[sid] = v.Idx
	return v.Idx
}

func (p *dotParse) loadEdges(s *ast.EdgeStmt) error {
	label, _ := attr(s.Attrs, "label")
	color := p.labels.Color(label)
	from, ok := s.From.(*ast.Node)
	if !ok {
		return nil
	}
	src := p.loadVertex(from.ID, nil)
	for to := s.To; to != nil; to = to.To {
		n, ok := to.Vertex.(*ast.Node)
		if !ok {
			return nil
		}
		targ := p.loadVertex(n.ID, nil)
		if !loop(src, targ, "of node "+n.ID) {
			p.builder.AddEdge(&p.builder.V[src], &p.builder.V[targ], color)
		}
		src = targ
	}
	return nil
}

func attr(attrs []*ast.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Key == name {
			return unquote(a.Val), true
		}
	}
	return "", false
}

func unquote(s string) string {
	if strings.HasPrefix(s, `"`) {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}
