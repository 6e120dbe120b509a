package cmd

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

import (
	"github.com/pkg/errors"
)

import (
	"github.com/timtadh/gref/graph"
	"github.com/timtadh/gref/pattern"
)

// Input opens a file, or every file of a directory concatenated in name
// order. Files ending in .gz are decompressed.
func Input(inputPath string) (reader io.Reader, closeall func(), err error) {
	stat, err := os.Stat(inputPath)
	if err != nil {
		return nil, nil, err
	}
	if stat.IsDir() {
		return InputDir(inputPath)
	} else {
		return InputFile(inputPath)
	}
}

func InputFile(inputPath string) (reader io.Reader, closeall func(), err error) {
	freader, err := os.Open(inputPath)
	if err != nil {
		return nil, nil, err
	}
	if strings.HasSuffix(inputPath, ".gz") {
		greader, err := gzip.NewReader(freader)
		if err != nil {
			freader.Close()
			return nil, nil, err
		}
		return greader, func() {
			greader.Close()
			freader.Close()
		}, nil
	}
	return freader, func() {
		freader.Close()
	}, nil
}

func InputDir(inputDir string) (reader io.Reader, closeall func(), err error) {
	var readers []io.Reader
	var closers []func()
	dir, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(dir, func(i, j int) bool { return dir[i].Name() < dir[j].Name() })
	for _, info := range dir {
		if info.IsDir() {
			continue
		}
		creader, closer, err := InputFile(filepath.Join(inputDir, info.Name()))
		if err != nil {
			for _, closer := range closers {
				closer()
			}
			return nil, nil, err
		}
		readers = append(readers, creader)
		closers = append(closers, closer)
	}
	reader = io.MultiReader(readers...)
	return reader, func() {
		for _, closer := range closers {
			closer()
		}
	}, nil
}

// LoadDatabase reads the configured graph database, guessing the format
// from the path when none is configured, and keeps the first DBSize
// graphs.
func (c *Config) LoadDatabase(labels *graph.Labels) (*graph.Database, *Error) {
	if c.Database == "" {
		return nil, Errorf(ExitConfig, "no graph database given (use -d or the database key of the config)")
	}
	format := c.Format
	if format == "" {
		format = graph.FormatOf(c.Database)
	}
	input, closer, err := Input(c.Database)
	if err != nil {
		return nil, Err(ExitIO, errors.Wrapf(err, "could not open the graph database %v", c.Database))
	}
	defer closer()
	db, err := graph.Load(format, labels, input)
	if err != nil {
		return nil, Err(ExitIO, errors.Wrapf(err, "could not load the graph database %v", c.Database))
	}
	return db.Take(c.DBSize), nil
}

// LoadQuery reads a query given either as the path of a file holding one
// graph or as an inline expression such as `1:a -- 2:b`.
func LoadQuery(labels *graph.Labels, arg string) (*pattern.Pattern, *Error) {
	if _, err := os.Stat(arg); err != nil {
		q, err := pattern.ParseQuery(labels, arg)
		if err != nil {
			return nil, Err(ExitQuery, err)
		}
		return q, nil
	}
	input, closer, err := InputFile(arg)
	if err != nil {
		return nil, Err(ExitIO, errors.Wrapf(err, "could not open the query %v", arg))
	}
	defer closer()
	db, err := graph.Load(graph.FormatOf(arg), labels, input)
	if err != nil {
		return nil, Err(ExitIO, errors.Wrapf(err, "could not load the query %v", arg))
	}
	if db.Len() != 1 {
		return nil, Errorf(ExitQuery, "expected one query graph in %v got %d", arg, db.Len())
	}
	q, err := pattern.FromGraph(db.Graphs[0])
	if err != nil {
		return nil, Err(ExitQuery, err)
	}
	return q, nil
}

// LoadQueries reads a workload: one query expression per line of path.
// Blank lines and lines starting with # are skipped.
func LoadQueries(labels *graph.Labels, path string) ([]*pattern.Pattern, *Error) {
	input, closer, err := InputFile(path)
	if err != nil {
		return nil, Err(ExitIO, errors.Wrapf(err, "could not open the queries %v", path))
	}
	defer closer()
	var queries []*pattern.Pattern
	scanner := bufio.NewScanner(input)
	for line := 1; scanner.Scan(); line++ {
		expr := strings.TrimSpace(scanner.Text())
		if expr == "" || strings.HasPrefix(expr, "#") {
			continue
		}
		q, err := pattern.ParseQuery(labels, expr)
		if err != nil {
			return nil, Err(ExitQuery, errors.Wrapf(err, "%v:%d", path, line))
		}
		queries = append(queries, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, Err(ExitIO, errors.Wrapf(err, "could not read the queries %v", path))
	}
	if len(queries) == 0 {
		return nil, Errorf(ExitQuery, "no queries in %v", path)
	}
	return queries, nil
}
