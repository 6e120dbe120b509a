// Package workload generates query files for batch reformulation runs:
// random connected subgraphs of the database, or the most frequent
// patterns of an index.
package workload

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"
)

import (
	"github.com/timtadh/data-structures/errors"
)

import (
	"github.com/timtadh/gref/graph"
	"github.com/timtadh/gref/index"
	"github.com/timtadh/gref/pattern"
)

// maxIterations bounds the draws spent on one query size.
const maxIterations = 2000

// Options select the queries. Sizes count edges and run From, From+Step,
// ... up to To.
type Options struct {
	From        int
	To          int
	Step        int
	PerSize     int
	MinResults  int
	MaxMultiple float64 // share of the results allowed several embeddings
	Seed        int64
	Shuffle     bool // Frequent samples instead of taking the most frequent
}

func DefaultOptions() *Options {
	return &Options{
		From:        1,
		To:          4,
		Step:        1,
		PerSize:     10,
		MinResults:  2,
		MaxMultiple: 1,
		Seed:        1,
	}
}

func (o *Options) Validate() error {
	switch {
	case o.From < 1:
		return errors.Errorf("the smallest query needs at least 1 edge (got %d)", o.From)
	case o.To < o.From:
		return errors.Errorf("sizes run from %d to %d", o.From, o.To)
	case o.Step < 1:
		return errors.Errorf("step must be at least 1 (got %d)", o.Step)
	case o.PerSize < 1:
		return errors.Errorf("at least 1 query per size is needed (got %d)", o.PerSize)
	case o.MaxMultiple < 0 || o.MaxMultiple > 1:
		return errors.Errorf("max multiple is a share between 0 and 1 (got %v)", o.MaxMultiple)
	}
	return nil
}

// Header describes o for the comment lines of a query file.
func (o *Options) Header() string {
	return fmt.Sprintf("number of queries per size: %d, sizes %d to %d step %d, min results %d, max multiple %v, seed %d",
		o.PerSize, o.From, o.To, o.Step, o.MinResults, o.MaxMultiple, o.Seed)
}

func (o *Options) sizes() []int {
	sizes := make([]int, 0, (o.To-o.From)/o.Step+1)
	for size := o.From; size <= o.To; size += o.Step {
		sizes = append(sizes, size)
	}
	return sizes
}

// Query is a generated query with the number of graphs it matches.
type Query struct {
	Pattern  *pattern.Pattern
	Results  int
	Multiple int // graphs matched more than once, -1 if not counted
}

// Random grows queries out of random database graphs. Each query is a
// connected subgraph of one graph with the requested number of edges.
// Duplicates, queries with fewer than MinResults results and queries
// embedded several times in too many graphs are dropped.
func Random(db *graph.Database, o *Options) ([]*Query, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	rnd := rand.New(rand.NewSource(o.Seed))
	queries := make([]*Query, 0, o.PerSize*len(o.sizes()))
	for _, size := range o.sizes() {
		candidates := make([]*graph.Graph, 0, db.Len())
		for _, g := range db.Graphs {
			if len(g.E) >= size {
				candidates = append(candidates, g)
			}
		}
		seen := make(map[string]bool)
		found := 0
		for i := 0; i < maxIterations && found < o.PerSize && len(candidates) > 0; i++ {
			p, err := grow(candidates[rnd.Intn(len(candidates))], size, rnd)
			if err != nil {
				return nil, err
			} else if p == nil || seen[p.Key()] {
				continue
			}
			seen[p.Key()] = true
			results, multiple := support(db, p)
			if results < o.MinResults || float64(multiple) > o.MaxMultiple*float64(results) {
				continue
			}
			queries = append(queries, &Query{Pattern: p, Results: results, Multiple: multiple})
			found++
		}
		if found < o.PerSize {
			errors.Logf("WARN", "found %d of %d queries with %d edges", found, o.PerSize, size)
		}
	}
	return queries, nil
}

// grow picks edges touching the subgraph built so far until it has size
// edges. It returns nil when the component of the start is too small.
func grow(g *graph.Graph, size int, rnd *rand.Rand) (*pattern.Pattern, error) {
	starts := make([]int, 0, len(g.V))
	for u := range g.V {
		if g.Degree(u) > 0 {
			starts = append(starts, u)
		}
	}
	if len(starts) == 0 {
		return nil, nil
	}
	idx := map[int]int{}
	order := []int{starts[rnd.Intn(len(starts))]}
	idx[order[0]] = 0
	used := make(map[int]bool, size)
	edges := make([]int, 0, size)
	for len(edges) < size {
		next := make([]int, 0, 8)
		for _, u := range order {
			for _, e := range g.Adj[u] {
				if !used[e] && g.E[e].Src != g.E[e].Targ {
					used[e] = true
					next = append(next, e)
				}
			}
		}
		for _, e := range next {
			used[e] = false
		}
		if len(next) == 0 {
			return nil, nil
		}
		e := next[rnd.Intn(len(next))]
		used[e] = true
		edges = append(edges, e)
		for _, u := range []int{g.E[e].Src, g.E[e].Targ} {
			if _, has := idx[u]; !has {
				idx[u] = len(order)
				order = append(order, u)
			}
		}
	}
	V := make(graph.Vertices, len(order))
	for i, u := range order {
		V[i] = graph.Vertex{Idx: i, Color: g.V[u].Color}
	}
	E := make(graph.Edges, len(edges))
	for i, e := range edges {
		E[i] = graph.Edge{Src: idx[g.E[e].Src], Targ: idx[g.E[e].Targ], Color: g.E[e].Color}
	}
	return pattern.New(V, E)
}

func support(db *graph.Database, p *pattern.Pattern) (results, multiple int) {
	for _, g := range db.Graphs {
		switch n := len(p.Embeddings(g)); {
		case n > 1:
			multiple++
			results++
		case n == 1:
			results++
		}
	}
	return results, multiple
}

// Frequent takes per size the PerSize patterns of the index with the
// most results, ties broken by canonical code. With Shuffle it draws a
// random sample of them instead.
func Frequent(s *index.Store, o *Options) ([]*Query, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	bySize := make(map[int][]*Query)
	err := s.Scan(func(rec *index.Record) error {
		size := len(rec.Pattern.E)
		if size < o.From || size > o.To || (size-o.From)%o.Step != 0 || len(rec.Results) < o.MinResults {
			return nil
		}
		bySize[size] = append(bySize[size], &Query{Pattern: rec.Pattern, Results: len(rec.Results), Multiple: -1})
		return nil
	})
	if err != nil {
		return nil, err
	}
	rnd := rand.New(rand.NewSource(o.Seed))
	queries := make([]*Query, 0, o.PerSize*len(o.sizes()))
	for _, size := range o.sizes() {
		qs := bySize[size]
		if o.Shuffle {
			rnd.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
		} else {
			sort.SliceStable(qs, func(i, j int) bool {
				if qs[i].Results != qs[j].Results {
					return qs[i].Results > qs[j].Results
				}
				return qs[i].Pattern.Key() < qs[j].Pattern.Key()
			})
		}
		if len(qs) > o.PerSize {
			qs = qs[:o.PerSize]
		}
		if len(qs) < o.PerSize {
			errors.Logf("WARN", "the index has %d of %d queries with %d edges", len(qs), o.PerSize, size)
		}
		queries = append(queries, qs...)
	}
	return queries, nil
}

// Write lays out a query file: every line of header as a # comment and
// then one query expression per line.
func Write(w io.Writer, labels *graph.Labels, queries []*Query, header string) error {
	out := bufio.NewWriter(w)
	if header != "" {
		for _, line := range strings.Split(header, "\n") {
			fmt.Fprintf(out, "# %v\n", line)
		}
	}
	for _, q := range queries {
		fmt.Fprintln(out, q.Pattern.Expr(labels))
	}
	return out.Flush()
}
