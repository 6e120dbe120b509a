// Package cmd is the command line of the reformulation strategies.
package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

import (
	"github.com/timtadh/data-structures/errors"
	"github.com/timtadh/getopt"
)

import (
	"github.com/timtadh/gref/cmd"
	"github.com/timtadh/gref/graph"
	"github.com/timtadh/gref/index"
	"github.com/timtadh/gref/lattice"
	"github.com/timtadh/gref/pattern"
	"github.com/timtadh/gref/reformulate"
)

type options struct {
	algorithm string
	results   bool
	dot       bool
	stats     string
	queries   string
	expect    []string
	opts      []reformulate.Option
}

func NewCommand(c *cmd.Config) cmd.Runnable {
	return cmd.Cmd(
		"reformulate",
		`[options] (<query>|-q <path>)`,
		`
Find the k reformulations of a query that best cover its answers while
staying diverse from one another.

<query> is either a file holding one graph or an inline expression such
        as '1:a -x- 2:b -- 3:c'

With -q every line of <path> is a query expression and each query adds
its own row to --stats. Blank lines and lines starting with # are
skipped. Queries that cannot be reformulated are logged and the run goes
on with the next one.

Option Flags
    -h,--help                         Show this message
    -k=<int>                          Number of reformulations (default 10)
    -l,--lambda=<float>               Weight of diversity against coverage
                                      (default 0.5)
    -a,--algorithm=<name>             Strategy to use (default Pruning)
    --algorithms                      List the strategies available
    -s,--min-support=<int>            Minimum support (Index strategy,
                                      defaults to the support of the index)
    -i,--index=<dir>                  Index built with build-index
    -r,--results                      Print every reformulation chosen
    --format=<lines|dot>              How --results prints patterns
    -o,--stats=<path>                 Append a CSV row of statistics
    -q,--queries=<path>               Reformulate every query of the file
    -e,--expect=<query>               Check the picks of the Exact
                                      strategy (repeatable, in order)
`,
		"k:l:a:s:i:ro:q:e:",
		[]string{
			"lambda=",
			"algorithm=",
			"algorithms",
			"min-support=",
			"index=",
			"results",
			"format=",
			"stats=",
			"queries=",
			"expect=",
		},
		func(r cmd.Runnable, args []string, optargs []getopt.OptArg) ([]string, *cmd.Error) {
			o, cerr := parse(c, optargs)
			if cerr != nil {
				return nil, cerr
			}
			if o == nil {
				return nil, nil
			}
			if o.queries != "" {
				if len(args) != 0 {
					return nil, cmd.Usage(r, cmd.ExitConfig, "-q takes no query got %v", args)
				}
				return nil, run(c, o, "")
			}
			if len(args) != 1 {
				return nil, cmd.Usage(r, cmd.ExitConfig, "expected a query got %v", args)
			}
			return nil, run(c, o, args[0])
		})
}

func parse(c *cmd.Config, optargs []getopt.OptArg) (*options, *cmd.Error) {
	o := &options{
		algorithm: c.Algorithm,
		stats:     c.Stats,
		dot:       c.Format == "dot",
	}
	k := c.K
	lambda := c.Lambda
	minSupport := c.MinSupport
	for _, oa := range optargs {
		switch oa.Opt() {
		case "-k":
			i, err := strconv.Atoi(oa.Arg())
			if err != nil || i < 1 {
				return nil, cmd.Errorf(cmd.ExitConfig, "k must be a positive integer, got '%v'", oa.Arg())
			}
			k = i
		case "-l", "--lambda":
			f, err := strconv.ParseFloat(oa.Arg(), 64)
			if err != nil || f < 0 {
				return nil, cmd.Errorf(cmd.ExitConfig, "lambda must be a non-negative number, got '%v'", oa.Arg())
			}
			lambda = f
		case "-a", "--algorithm":
			name, _, err := reformulate.Lookup(oa.Arg())
			if err != nil {
				return nil, cmd.Errorf(cmd.ExitConfig, "Strategy '%v' is not supported. (use --algorithms to get a list)", oa.Arg())
			}
			o.algorithm = name
		case "--algorithms":
			fmt.Println("Reformulation Strategies (and Abbreviations):")
			names := make([]string, 0, len(reformulate.StrategyNames))
			for name := range reformulate.StrategyNames {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				abbrvs := reformulate.StrategyNames[name]
				sort.Strings(abbrvs)
				fmt.Printf("  - %v (%v)\n", name, strings.Join(abbrvs, ", "))
			}
			return nil, nil
		case "-s", "--min-support":
			i, err := strconv.Atoi(oa.Arg())
			if err != nil {
				return nil, cmd.Errorf(cmd.ExitConfig, "Could not parse min support, '%v' (%v)", oa.Arg(), err)
			}
			minSupport = i
		case "-i", "--index":
			c.Index = oa.Arg()
		case "-r", "--results":
			o.results = true
		case "--format":
			switch oa.Arg() {
			case "lines":
				o.dot = false
			case "dot":
				o.dot = true
			default:
				return nil, cmd.Errorf(cmd.ExitConfig, "unknown pattern format '%v'", oa.Arg())
			}
		case "-o", "--stats":
			o.stats = oa.Arg()
		case "-q", "--queries":
			o.queries = oa.Arg()
		case "-e", "--expect":
			o.expect = append(o.expect, oa.Arg())
		default:
			return nil, cmd.Errorf(cmd.ExitConfig, "Unknown flag '%v'\n", oa.Opt())
		}
	}
	if _, _, err := reformulate.Lookup(o.algorithm); err != nil {
		return nil, cmd.Errorf(cmd.ExitConfig, "Strategy '%v' is not supported. (use --algorithms to get a list)", o.algorithm)
	}
	o.algorithm, _, _ = reformulate.Lookup(o.algorithm)
	o.opts = []reformulate.Option{
		reformulate.K(k),
		reformulate.Lambda(lambda),
		reformulate.MinSupport(minSupport),
		reformulate.Debug(c.Debug),
	}
	return o, nil
}

// source loads what the strategy reads: the index for Index and the
// graph database otherwise, or both when a database is configured.
func source(c *cmd.Config, o *options) (in *reformulate.Input, labels *graph.Labels, dbSize int, done func(), cerr *cmd.Error) {
	labels = graph.NewLabels()
	in = &reformulate.Input{}
	done = func() {}
	if o.algorithm == "Index" {
		if c.Index == "" {
			return nil, nil, 0, nil, cmd.Errorf(cmd.ExitConfig, "the Index strategy needs an index (use -i)")
		}
		s, err := index.Load(c.Index)
		if err != nil {
			return nil, nil, 0, nil, cmd.Fail(err)
		}
		done = func() { s.Close() }
		labels = s.Meta().LabelTable()
		in.Index = s
		dbSize = s.Meta().Graphs
	}
	if c.Database != "" || o.algorithm != "Index" {
		db, lerr := c.LoadDatabase(labels)
		if lerr != nil {
			done()
			return nil, nil, 0, nil, lerr
		}
		in.DB = db
		dbSize = db.Len()
	}
	return in, labels, dbSize, done, nil
}

func run(c *cmd.Config, o *options, queryArg string) *cmd.Error {
	in, labels, dbSize, done, cerr := source(c, o)
	if cerr != nil {
		return cerr
	}
	defer done()
	var queries []*pattern.Pattern
	if o.queries != "" {
		queries, cerr = cmd.LoadQueries(labels, o.queries)
	} else {
		var q *pattern.Pattern
		q, cerr = cmd.LoadQuery(labels, queryArg)
		queries = []*pattern.Pattern{q}
	}
	if cerr != nil {
		return cerr
	}
	opts := o.opts
	if len(o.expect) > 0 {
		expected := make([]*pattern.Pattern, 0, len(o.expect))
		for _, e := range o.expect {
			p, cerr := cmd.LoadQuery(labels, e)
			if cerr != nil {
				return cerr
			}
			expected = append(expected, p)
		}
		opts = append(opts, reformulate.Expect(expected...))
	}
	failed := 0
	for i, q := range queries {
		query := &reformulate.Input{DB: in.DB, Index: in.Index, Query: q}
		cerr := answer(o, query, labels, dbSize, opts)
		if cerr == nil {
			continue
		}
		if len(queries) == 1 || cerr.ExitCode != cmd.ExitQuery {
			return cerr
		}
		errors.Logf("ERROR", "query %d (%v): %v", i+1, q.Pretty(labels), cerr)
		failed++
	}
	if failed > 0 {
		return cmd.Errorf(cmd.ExitQuery, "%d of %d queries could not be reformulated", failed, len(queries))
	}
	return nil
}

func answer(o *options, in *reformulate.Input, labels *graph.Labels, dbSize int, opts []reformulate.Option) *cmd.Error {
	res, err := reformulate.Run(o.algorithm, in, opts...)
	if err != nil {
		return cmd.Fail(err)
	}
	fmt.Println(res)
	if o.results {
		report(os.Stdout, labels, res, o.dot)
	}
	if o.stats != "" {
		if err := appendStats(o.stats, res, dbSize); err != nil {
			return cmd.Errorf(cmd.ExitIO, "could not write the statistics to %v: %v", o.stats, err)
		}
	}
	return nil
}

func init() {
	cmd.ExitOn(cmd.ExitConfig, reformulate.ErrNoMinSupport, reformulate.ErrUnknownStrategy)
	cmd.ExitOn(cmd.ExitQuery, reformulate.ErrQueryNotIndexed)
}

func report(w io.Writer, labels *graph.Labels, res *reformulate.Result, dot bool) {
	for i, n := range res.S {
		p := n.Pattern.Pretty(labels)
		if dot {
			p = n.Pattern.Dotty(labels)
		}
		fmt.Fprintf(w, "%d. gain %.3f matches %d\n%v\n", i+1, res.Gains[i], n.ResultsNumber(), p)
		fmt.Fprintf(w, "    graphs %v\n", lattice.Ints(n.Results))
	}
}

func appendStats(path string, res *reformulate.Result, dbSize int) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	return res.WriteCSV(f, dbSize, info.Size() == 0)
}
