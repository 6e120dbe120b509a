package cmd

import "testing"
import "github.com/stretchr/testify/assert"

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

import (
	"github.com/pkg/errors"
	"github.com/timtadh/getopt"
	"github.com/timtadh/gref/graph"
)

func TestDefaultConfig(t *testing.T) {
	x := assert.New(t)
	c := DefaultConfig()
	x.NoError(c.Validate())
	x.Equal(10, c.K)
	x.Equal(.5, c.Lambda)
	x.Equal(-1, c.MinSupport)
}

func TestDecodeOverlays(t *testing.T) {
	x := assert.New(t)
	c := DefaultConfig()
	x.NoError(c.Decode(strings.NewReader("k: 3\nlambda: 1.5\nformat: DOT\n")))
	x.Equal(3, c.K)
	x.Equal(1.5, c.Lambda)
	x.Equal("dot", c.Format)
	x.Equal("Pruning", c.Algorithm)
}

func TestDecodeEmpty(t *testing.T) {
	x := assert.New(t)
	c := DefaultConfig()
	x.NoError(c.Decode(strings.NewReader("")))
	x.Equal(DefaultConfig(), c)
}

func TestDecodeRejects(t *testing.T) {
	x := assert.New(t)
	x.Error(DefaultConfig().Decode(strings.NewReader("kay: 3\n")))
	x.Error(DefaultConfig().Decode(strings.NewReader("k: 0\n")))
	x.Error(DefaultConfig().Decode(strings.NewReader("lambda: -1\n")))
	x.Error(DefaultConfig().Decode(strings.NewReader("format: xml\n")))
}

func TestLoadConfig(t *testing.T) {
	x := assert.New(t)
	path := filepath.Join(t.TempDir(), "gref.yaml")
	x.NoError(os.WriteFile(path, []byte("database: graphs.txt\nmax_edges: 2\n"), 0644))
	c, err := LoadConfig(path)
	x.NoError(err)
	x.Equal("graphs.txt", c.Database)
	x.Equal(2, c.MaxEdges)
	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	x.Error(err)
}

func TestLoadDatabase(t *testing.T) {
	x := assert.New(t)
	dir := t.TempDir()
	x.NoError(os.WriteFile(filepath.Join(dir, "a.txt"), []byte("t # 0\nv 0 a\nv 1 b\ne 0 1\n"), 0644))
	x.NoError(os.WriteFile(filepath.Join(dir, "b.txt"), []byte("t # 1\nv 0 a\n"), 0644))
	c := DefaultConfig()
	c.Database = dir
	db, err := c.LoadDatabase(graph.NewLabels())
	x.Nil(err)
	x.Equal(2, db.Len())
	c.DBSize = 1
	db, err = c.LoadDatabase(graph.NewLabels())
	x.Nil(err)
	x.Equal(1, db.Len())
	c.Database = ""
	_, err = c.LoadDatabase(graph.NewLabels())
	x.NotNil(err)
	x.Equal(ExitConfig, err.ExitCode)
	c.Database = filepath.Join(dir, "missing")
	_, err = c.LoadDatabase(graph.NewLabels())
	x.NotNil(err)
	x.Equal(ExitIO, err.ExitCode)
}

func TestCommands(t *testing.T) {
	x := assert.New(t)
	var got []string
	sub := Cmd("echo", "[options] <words>", "Echo words", "u", []string{"upper"},
		func(r Runnable, args []string, optargs []getopt.OptArg) ([]string, *Error) {
			upper := false
			for _, oa := range optargs {
				switch oa.Opt() {
				case "-u", "--upper":
					upper = true
				}
			}
			for _, a := range args {
				if upper {
					a = strings.ToUpper(a)
				}
				got = append(got, a)
			}
			return nil, nil
		})
	main := Commands(map[string]Runnable{sub.Name(): sub})
	args, err := main.Run([]string{"echo", "-u", "a", "b"})
	x.Nil(err)
	x.Empty(args)
	x.Equal([]string{"A", "B"}, got)
	_, err = main.Run([]string{"nope"})
	x.NotNil(err)
	x.Equal(ExitConfig, err.ExitCode)
	_, err = main.Run([]string{"echo", "--help"})
	x.NotNil(err)
	x.Equal(0, err.ExitCode)
	x.Contains(err.Error(), "Echo words")
}

func TestLoadQuery(t *testing.T) {
	x := assert.New(t)
	labels := graph.NewLabels()
	q, err := LoadQuery(labels, "1:a -- 2:b")
	x.Nil(err)
	x.Len(q.V, 2)
	path := filepath.Join(t.TempDir(), "q.txt")
	x.NoError(os.WriteFile(path, []byte("t # 0\nv 0 b\nv 1 a\ne 0 1\n"), 0644))
	p, err := LoadQuery(labels, path)
	x.Nil(err)
	x.True(q.Equals(p))
	_, err = LoadQuery(labels, "1:a --")
	x.NotNil(err)
}

func TestLoadQueries(t *testing.T) {
	x := assert.New(t)
	labels := graph.NewLabels()
	path := filepath.Join(t.TempDir(), "queries.txt")
	x.NoError(os.WriteFile(path, []byte("# size 1\n1:a -- 2:b\n\n   \n# size 2\n1:a -- 2:b -- 3:c\n"), 0644))
	qs, err := LoadQueries(labels, path)
	x.Nil(err)
	x.Len(qs, 2)
	x.Len(qs[0].E, 1)
	x.Len(qs[1].E, 2)

	x.NoError(os.WriteFile(path, []byte("1:a -- 2:b\n1:a --\n"), 0644))
	_, err = LoadQueries(labels, path)
	x.NotNil(err)
	x.Equal(ExitQuery, err.ExitCode)
	x.Contains(err.Error(), "queries.txt:2")

	x.NoError(os.WriteFile(path, []byte("# nothing\n\n"), 0644))
	_, err = LoadQueries(labels, path)
	x.NotNil(err)

	_, err = LoadQueries(labels, filepath.Join(t.TempDir(), "missing.txt"))
	x.NotNil(err)
	x.Equal(ExitIO, err.ExitCode)
}

func TestExitCodes(t *testing.T) {
	x := assert.New(t)
	unanswerable := errors.New("unanswerable")
	ExitOn(ExitQuery, unanswerable)
	x.Equal(ExitQuery, ExitCode(unanswerable))
	x.Equal(ExitQuery, Fail(errors.Wrap(unanswerable, "query 3")).ExitCode)
	_, err := os.Open(filepath.Join(t.TempDir(), "missing"))
	x.Equal(ExitIO, Fail(err).ExitCode)
	x.Equal(ExitFailure, Fail(errors.New("boom")).ExitCode)
	e := Errorf(ExitConfig, "bad index")
	x.Equal(e, Fail(e))
	x.Equal(ExitConfig, ExitCode(errors.Wrap(e, "serving")))
}

func TestExec(t *testing.T) {
	x := assert.New(t)
	c := DefaultConfig()
	c.CPUProfile = filepath.Join(t.TempDir(), "cpu.prof")
	profiled := Cmd("profiled", "", "Runs under the cpu profile", "", nil,
		func(r Runnable, args []string, optargs []getopt.OptArg) ([]string, *Error) {
			if err := c.StartProfile(); err != nil {
				return nil, err
			}
			return args, nil
		})
	var stderr bytes.Buffer
	x.Equal(0, Exec(c, profiled, nil, &stderr))
	x.FileExists(c.CPUProfile)
	x.Empty(stderr.String())

	x.Equal(ExitFailure, Exec(c, profiled, []string{"left"}, &stderr))
	x.Contains(stderr.String(), "expected 0 args left")

	stderr.Reset()
	unanswered := BareCmd(func(r Runnable, args []string, optargs []getopt.OptArg) ([]string, *Error) {
		return nil, Err(ExitQuery, errors.New("no answer"))
	})
	x.Equal(ExitQuery, Exec(c, unanswered, nil, &stderr))
	x.Contains(stderr.String(), "no answer")
}
