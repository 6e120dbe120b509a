package workload

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

import (
	"github.com/pkg/errors"
	"github.com/timtadh/getopt"
)

import (
	"github.com/timtadh/gref/cmd"
	"github.com/timtadh/gref/graph"
	"github.com/timtadh/gref/index"
)

func NewCommand(c *cmd.Config) cmd.Runnable {
	return cmd.Cmd(
		"generate-queries",
		`[options] <output>`,
		`
Write a query file for reformulate -q. Queries are grown out of random
graphs of the database, or with --frequent taken from the index.

Option Flags
    -h,--help                         Show this message
    --from=<int>                      Smallest query in edges (default 1)
    --to=<int>                        Largest query in edges (default 4)
    --step=<int>                      Size increment (default 1)
    -n,--per-size=<int>               Queries per size (default 10)
    --min-results=<int>               Graphs a query must match (default 2)
    --max-multiple=<float>            Share of the matched graphs allowed
                                      several embeddings (default 1)
    --seed=<int>                      Seed of the random draws (default 1)
    --frequent                        Take the most frequent patterns of
                                      the index (use -i)
    --shuffle                         With --frequent, sample the patterns
    -i,--index=<dir>                  Index built with build-index
`,
		"n:i:",
		[]string{
			"from=",
			"to=",
			"step=",
			"per-size=",
			"min-results=",
			"max-multiple=",
			"seed=",
			"frequent",
			"shuffle",
			"index=",
		},
		func(r cmd.Runnable, args []string, optargs []getopt.OptArg) ([]string, *cmd.Error) {
			o := DefaultOptions()
			frequent := false
			for _, oa := range optargs {
				var err error
				switch oa.Opt() {
				case "--from":
					o.From, err = strconv.Atoi(oa.Arg())
				case "--to":
					o.To, err = strconv.Atoi(oa.Arg())
				case "--step":
					o.Step, err = strconv.Atoi(oa.Arg())
				case "-n", "--per-size":
					o.PerSize, err = strconv.Atoi(oa.Arg())
				case "--min-results":
					o.MinResults, err = strconv.Atoi(oa.Arg())
				case "--max-multiple":
					o.MaxMultiple, err = strconv.ParseFloat(oa.Arg(), 64)
				case "--seed":
					o.Seed, err = strconv.ParseInt(oa.Arg(), 10, 64)
				case "--frequent":
					frequent = true
				case "--shuffle":
					o.Shuffle = true
				case "-i", "--index":
					c.Index = oa.Arg()
				default:
					return nil, cmd.Errorf(cmd.ExitConfig, "Unknown flag '%v'\n", oa.Opt())
				}
				if err != nil {
					return nil, cmd.Errorf(cmd.ExitConfig, "Could not parse %v, '%v' (%v)", oa.Opt(), oa.Arg(), err)
				}
			}
			if len(args) != 1 {
				return nil, cmd.Usage(r, cmd.ExitConfig, "expected an output path got %v", args)
			}
			if err := o.Validate(); err != nil {
				return nil, cmd.Usage(r, cmd.ExitConfig, "%v", err)
			}
			var labels *graph.Labels
			var queries []*Query
			if frequent {
				if c.Index == "" {
					return nil, cmd.Errorf(cmd.ExitConfig, "--frequent needs an index (use -i)")
				}
				s, err := index.Load(c.Index)
				if err != nil {
					return nil, cmd.Fail(err)
				}
				defer s.Close()
				labels = s.Meta().LabelTable()
				queries, err = Frequent(s, o)
				if err != nil {
					return nil, cmd.Fail(err)
				}
			} else {
				labels = graph.NewLabels()
				db, cerr := c.LoadDatabase(labels)
				if cerr != nil {
					return nil, cerr
				}
				var err error
				queries, err = Random(db, o)
				if err != nil {
					return nil, cmd.Fail(err)
				}
			}
			if err := output(args[0], func(w io.Writer) error {
				return Write(w, labels, queries, o.Header())
			}); err != nil {
				return nil, cmd.Err(cmd.ExitIO, err)
			}
			fmt.Printf("wrote %d queries to %v\n", len(queries), args[0])
			return nil, nil
		})
}

func output(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create the query file")
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %v", path)
	}
	return f.Close()
}
