package cmd

import "testing"
import "github.com/stretchr/testify/assert"

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

import (
	"github.com/timtadh/gref/cmd"
	"github.com/timtadh/gref/graph"
	"github.com/timtadh/gref/index"
	"github.com/timtadh/gref/pattern"
	"github.com/timtadh/gref/reformulate"
)

func database(t *testing.T) string {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		last := "c"
		if i >= 4 {
			last = "d"
		}
		fmt.Fprintf(&b, "t # %d\nv 0 a\nv 1 b\nv 2 %v\ne 0 1\ne 1 2\n", i, last)
	}
	path := filepath.Join(t.TempDir(), "db.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func rows(t *testing.T, path string) [][]string {
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return recs
}

func TestReformulateStats(t *testing.T) {
	x := assert.New(t)
	c := cmd.DefaultConfig()
	c.Database = database(t)
	stats := filepath.Join(t.TempDir(), "stats.csv")
	r := NewCommand(c)
	for _, algorithm := range []string{"exact", "bb"} {
		args, err := r.Run([]string{"-k", "2", "-a", algorithm, "-o", stats, "1:a -- 2:b"})
		x.Nil(err)
		x.Empty(args)
	}
	recs := rows(t, stats)
	x.Len(recs, 3)
	x.Equal(reformulate.CSVHeader, recs[0])
	x.Equal("Exact", recs[1][1])
	x.Equal("Pruning", recs[2][1])
	for _, rec := range recs[1:] {
		x.Equal("7", rec[2])
		x.Equal("7", rec[3])
		x.Equal("4|3", rec[16])
	}
}

func TestReformulateIndex(t *testing.T) {
	x := assert.New(t)
	c := cmd.DefaultConfig()
	c.Database = database(t)
	db, cerr := c.LoadDatabase(graph.NewLabels())
	x.Nil(cerr)
	dir := t.TempDir()
	s, err := index.Open(dir)
	x.NoError(err)
	_, err = index.Create(s, db, 2, 3)
	x.NoError(err)
	x.NoError(s.Close())

	c.Database = ""
	stats := filepath.Join(t.TempDir(), "stats.csv")
	_, cerr = NewCommand(c).Run([]string{"-a", "index", "-i", dir, "-o", stats, "1:b -- 2:a"})
	x.Nil(cerr)
	recs := rows(t, stats)
	x.Len(recs, 2)
	x.Equal("Index", recs[1][1])
	x.Equal("7", recs[1][2])
	x.Equal("4|3", recs[1][16])
}

func TestReformulateQueries(t *testing.T) {
	x := assert.New(t)
	c := cmd.DefaultConfig()
	c.Database = database(t)
	dir := t.TempDir()
	queries := filepath.Join(dir, "queries.txt")
	x.NoError(os.WriteFile(queries, []byte("# number of queries per size: 1\n1:a -- 2:b\n\n  # sizes 1 to 1\n1:b -- 2:c\n"), 0644))
	stats := filepath.Join(dir, "stats.csv")
	args, err := NewCommand(c).Run([]string{"-k", "1", "-o", stats, "-q", queries})
	x.Nil(err)
	x.Empty(args)
	recs := rows(t, stats)
	x.Len(recs, 3)
	x.Equal(reformulate.CSVHeader, recs[0])
	x.Equal("7", recs[1][3])
	x.Equal("4", recs[2][3])
	x.NotEqual(recs[1][0], recs[2][0], "each query is its own run")

	_, err = NewCommand(c).Run([]string{"-q", queries, "1:a -- 2:b"})
	x.NotNil(err)
	x.Equal(cmd.ExitConfig, err.ExitCode)
}

func TestReformulateQueriesGoesOn(t *testing.T) {
	x := assert.New(t)
	c := cmd.DefaultConfig()
	c.Database = database(t)
	db, cerr := c.LoadDatabase(graph.NewLabels())
	x.Nil(cerr)
	dir := t.TempDir()
	idx := filepath.Join(dir, "index")
	s, err := index.Open(idx)
	x.NoError(err)
	_, err = index.Create(s, db, 2, 3)
	x.NoError(err)
	x.NoError(s.Close())

	c.Database = ""
	queries := filepath.Join(dir, "queries.txt")
	x.NoError(os.WriteFile(queries, []byte("1:c -- 2:d\n1:b -- 2:a\n"), 0644))
	stats := filepath.Join(dir, "stats.csv")
	_, cerr = NewCommand(c).Run([]string{"-a", "index", "-i", idx, "-o", stats, "-q", queries})
	x.NotNil(cerr)
	x.Equal(cmd.ExitQuery, cerr.ExitCode)
	x.Contains(cerr.Error(), "1 of 2 queries")
	recs := rows(t, stats)
	x.Len(recs, 2)
	x.Equal("7", recs[1][3])

	_, cerr = NewCommand(c).Run([]string{"-a", "index", "-i", idx, "1:c -- 2:d"})
	x.NotNil(cerr)
	x.Equal(cmd.ExitQuery, cerr.ExitCode)
	_, cerr = NewCommand(c).Run([]string{"-a", "index", "-i", t.TempDir(), "1:a -- 2:b"})
	x.NotNil(cerr)
	x.Equal(cmd.ExitConfig, cerr.ExitCode)
}

func TestReformulateErrors(t *testing.T) {
	x := assert.New(t)
	c := cmd.DefaultConfig()
	c.Database = database(t)
	_, err := NewCommand(c).Run([]string{"-a", "nope", "1:a -- 2:b"})
	x.NotNil(err)
	_, err = NewCommand(c).Run([]string{"-k", "0", "1:a -- 2:b"})
	x.NotNil(err)
	_, err = NewCommand(c).Run([]string{})
	x.NotNil(err)
	_, err = NewCommand(c).Run([]string{"-a", "index", "1:a -- 2:b"})
	x.NotNil(err)
	_, err = NewCommand(c).Run([]string{"--algorithms"})
	x.Nil(err)
}

func TestReport(t *testing.T) {
	x := assert.New(t)
	c := cmd.DefaultConfig()
	c.Database = database(t)
	labels := graph.NewLabels()
	db, cerr := c.LoadDatabase(labels)
	x.Nil(cerr)
	q, err := pattern.ParseQuery(labels, "1:a -- 2:b")
	x.NoError(err)
	res, err := reformulate.Run("Pruning", &reformulate.Input{DB: db, Query: q}, reformulate.K(1))
	x.NoError(err)
	var buf bytes.Buffer
	report(&buf, labels, res, false)
	x.Contains(buf.String(), "1. gain 2.000 matches 4")
	x.Contains(buf.String(), "graphs [0 1 2 3]")
	buf.Reset()
	report(&buf, labels, res, true)
	x.Contains(buf.String(), "graph {")
}
