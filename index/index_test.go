package index

import "testing"
import "github.com/stretchr/testify/assert"

import (
	"fmt"
	"strings"
)

import (
	"github.com/pkg/errors"
)

import (
	"github.com/timtadh/gref/graph"
	"github.com/timtadh/gref/pattern"
	"github.com/timtadh/gref/reformulate"
)

const (
	ab   = "v 0 a\nv 1 b\ne 0 1\n"
	abc  = "v 0 a\nv 1 b\nv 2 c\ne 0 1\ne 1 2\n"
	abd  = "v 0 a\nv 1 b\nv 2 d\ne 0 1\ne 1 2\n"
	abce = "v 0 a\nv 1 b\nv 2 c\nv 3 e\ne 0 1\ne 1 2\ne 2 3\n"
)

func fixture(t *testing.T) *graph.Database {
	var b strings.Builder
	id := 0
	for _, part := range []struct {
		count int
		body  string
	}{{4, abce}, {3, abd}, {2, abc}, {1, ab}} {
		for i := 0; i < part.count; i++ {
			fmt.Fprintf(&b, "t # %d\n%v", id, part.body)
			id++
		}
	}
	db, err := graph.LoadLines(graph.NewLabels(), strings.NewReader(b.String()))
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func query(t *testing.T, db *graph.Database, expr string) *pattern.Pattern {
	q, err := pattern.ParseQuery(db.Labels, expr)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func built(t *testing.T, db *graph.Database, minSupport, maxEdges int) *Store {
	s, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Create(s, db, minSupport, maxEdges); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestBuild(t *testing.T) {
	x := assert.New(t)
	db := fixture(t)
	recs, meta, err := Build(db, 2, 4)
	x.Nil(err)
	x.Equal(2, meta.MinSupport)
	x.Equal(10, meta.Graphs)
	x.Equal(len(recs), meta.Nodes)
	x.Equal(0, recs[0].Id)
	x.Equal(0, len(recs[0].Pattern.V))
	x.Len(recs[0].Results, 10)
	supports := make(map[string]int)
	for _, rec := range recs {
		x.True(rec.Id == 0 || len(rec.Results) >= 2, "%v is infrequent", rec)
		supports[rec.Pattern.Key()] = len(rec.Results)
	}
	x.Equal(10, supports[query(t, db, "1:a -- 2:b").Key()])
	x.Equal(6, supports[query(t, db, "1:a -- 2:b -- 3:c").Key()])
	x.Equal(4, supports[query(t, db, "1:a -- 2:b -- 3:c -- 4:e").Key()])
	x.Equal(4, supports[query(t, db, "1:c -- 2:e").Key()])
}

func TestMaxEdges(t *testing.T) {
	x := assert.New(t)
	recs, _, err := Build(fixture(t), 1, 1)
	x.Nil(err)
	for _, rec := range recs {
		x.True(len(rec.Pattern.E) <= 1, "%v is too large", rec)
	}
	// a-b, b-c, b-d and c-e
	x.Len(recs, 5)
}

func TestStoreRoundTrip(t *testing.T) {
	x := assert.New(t)
	db := fixture(t)
	s := built(t, db, 2, 4)
	defer s.Close()
	x.Equal(2, s.MinSupport())
	q := query(t, db, "1:b -- 2:a")
	id, has, err := s.Find(q)
	x.Nil(err)
	x.True(has)
	rec, err := s.Get(id)
	x.Nil(err)
	x.True(rec.Pattern.Equals(q))
	x.Len(rec.Results, 10)
	x.Equal(0, rec.Father)
	x.Len(rec.Children, 2)
	_, err = s.Get(1000)
	x.Equal(ErrNotFound, errors.Cause(err))
	_, has, err = s.Find(query(t, db, "1:a -- 2:e"))
	x.Nil(err)
	x.False(has)
}

func TestScan(t *testing.T) {
	x := assert.New(t)
	db := fixture(t)
	s := built(t, db, 2, 4)
	defer s.Close()
	prev := -1
	count := 0
	x.NoError(s.Scan(func(rec *Record) error {
		x.True(rec.Id > prev, "%v after %v", rec.Id, prev)
		prev = rec.Id
		id, has, err := s.Find(rec.Pattern)
		x.NoError(err)
		x.True(has)
		x.Equal(rec.Id, id)
		x.True(len(rec.Results) >= 2)
		count++
		return nil
	}))
	x.Equal(s.Meta().Nodes, count)
	stop := errors.New("stop")
	seen := 0
	err := s.Scan(func(rec *Record) error {
		seen++
		return stop
	})
	x.Equal(stop, err)
	x.Equal(1, seen)
}

func TestPersisted(t *testing.T) {
	x := assert.New(t)
	db := fixture(t)
	dir := t.TempDir()
	s, err := Open(dir)
	x.Nil(err)
	_, err = Create(s, db, 3, 3)
	x.Nil(err)
	x.Nil(s.Close())
	s, err = Load(dir)
	x.Nil(err)
	defer s.Close()
	x.Equal(3, s.MinSupport())
	x.Equal(3, s.Meta().MaxEdges)
	_, has, err := s.Find(query(t, db, "1:a -- 2:b -- 3:d"))
	x.Nil(err)
	x.True(has)
	labels := s.Meta().LabelTable()
	x.Equal(db.Labels.Labels(), labels.Labels())
	_, has, err = s.Find(query(t, &graph.Database{Labels: labels}, "1:b -- 2:d"))
	x.Nil(err)
	x.True(has)
}

func TestLoadEmpty(t *testing.T) {
	x := assert.New(t)
	_, err := Load(t.TempDir())
	x.Equal(ErrInvalidIndex, errors.Cause(err))
}

func TestDecodeTruncated(t *testing.T) {
	x := assert.New(t)
	rec := &Record{Id: 3, Pattern: pattern.Empty(), Father: 1, Results: []int{1, 2}, Children: []int{7}}
	data := rec.encode()
	back, err := decodeRecord(3, data)
	x.Nil(err)
	x.Equal(rec.Results, back.Results)
	x.Equal(rec.Children, back.Children)
	x.Equal(1, back.Father)
	_, err = decodeRecord(3, data[:10])
	x.Equal(ErrInvalidIndex, errors.Cause(err))
}

func TestLookupRespectsSupport(t *testing.T) {
	x := assert.New(t)
	db := fixture(t)
	s := built(t, db, 1, 4)
	defer s.Close()
	l, expander, has, err := s.Lookup(query(t, db, "1:a -- 2:b"), 5)
	x.Nil(err)
	x.True(has)
	x.Equal(10, l.Root().ResultsNumber())
	x.Nil(expander.Expand(l, l.Root()))
	x.Equal(1, l.Size())
	x.Equal(6, l.Node(1).ResultsNumber())
	x.Equal(0, l.Node(1).Father)
	x.Equal(1, expander.Expansions())
}

func TestIndexMatchesPruning(t *testing.T) {
	x := assert.New(t)
	db := fixture(t)
	s := built(t, db, 1, 4)
	defer s.Close()
	for k := 1; k <= 3; k++ {
		q := query(t, db, "1:a -- 2:b")
		i, err := reformulate.NewIndex(s, q, reformulate.K(k)).Compute()
		x.Nil(err)
		p, err := reformulate.Run("pruning", &reformulate.Input{DB: db, Query: q}, reformulate.K(k))
		x.Nil(err)
		x.Equal("Index", i.Algorithm)
		x.InDelta(p.Objective, i.Objective, 1e-9, "k %v", k)
		x.Equal(p.Coverage, i.Coverage)
	}
}

func TestQueryNotIndexed(t *testing.T) {
	x := assert.New(t)
	db := fixture(t)
	s := built(t, db, 2, 4)
	defer s.Close()
	_, err := reformulate.NewIndex(s, query(t, db, "1:a -- 2:e")).Compute()
	x.Equal(reformulate.ErrQueryNotIndexed, err)
	_, err = reformulate.Run("index", &reformulate.Input{DB: db, Query: query(t, db, "1:d -- 2:e"), Index: s})
	x.Equal(reformulate.ErrQueryNotIndexed, err)
}
