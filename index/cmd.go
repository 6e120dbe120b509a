package index

import (
	"fmt"
	"os"
	"strconv"
)

import (
	"github.com/timtadh/getopt"
)

import (
	"github.com/timtadh/gref/cmd"
	"github.com/timtadh/gref/graph"
)

func init() {
	cmd.ExitOn(cmd.ExitConfig, ErrInvalidIndex, ErrNotFound)
}

func NewCommand(c *cmd.Config) cmd.Runnable {
	return cmd.Cmd(
		"build-index",
		`[options] <index-dir>`,
		`
Mine the frequent patterns of the graph database into an index for the
Index reformulation strategy. <index-dir> should be new or empty.

Option Flags
    -h,--help                         Show this message
    -s,--min-support=<int>            Minimum number of graphs a pattern
                                      must match to be indexed
    -m,--max-edges=<int>              Largest pattern to index (default 4)
`,
		"s:m:",
		[]string{
			"min-support=",
			"max-edges=",
		},
		func(r cmd.Runnable, args []string, optargs []getopt.OptArg) ([]string, *cmd.Error) {
			minSupport := c.MinSupport
			maxEdges := c.MaxEdges
			for _, oa := range optargs {
				switch oa.Opt() {
				case "-s", "--min-support":
					s, err := strconv.Atoi(oa.Arg())
					if err != nil {
						return nil, cmd.Errorf(cmd.ExitConfig, "Could not parse min support, '%v' (%v)", oa.Arg(), err)
					}
					minSupport = s
				case "-m", "--max-edges":
					m, err := strconv.Atoi(oa.Arg())
					if err != nil {
						return nil, cmd.Errorf(cmd.ExitConfig, "Could not parse max edges, '%v' (%v)", oa.Arg(), err)
					}
					maxEdges = m
				default:
					return nil, cmd.Errorf(cmd.ExitConfig, "Unknown flag '%v'\n", oa.Opt())
				}
			}
			dir := c.Index
			if len(args) == 1 {
				dir = args[0]
			} else if len(args) > 1 || dir == "" {
				return nil, cmd.Usage(r, cmd.ExitConfig, "expected an index directory got %v", args)
			}
			if minSupport < 1 {
				return nil, cmd.Usage(r, cmd.ExitConfig, "a min support of at least 1 is required (use -s)")
			}
			if maxEdges < 1 {
				return nil, cmd.Usage(r, cmd.ExitConfig, "max edges must be at least 1")
			}
			if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
				return nil, cmd.Errorf(cmd.ExitConfig, "the index directory %v is not empty", dir)
			}
			db, cerr := c.LoadDatabase(graph.NewLabels())
			if cerr != nil {
				return nil, cerr
			}
			s, err := Open(dir)
			if err != nil {
				return nil, cmd.Fail(err)
			}
			defer s.Close()
			meta, err := Create(s, db, minSupport, maxEdges)
			if err != nil {
				return nil, cmd.Fail(err)
			}
			fmt.Printf("indexed %d patterns of %d graphs (min support %d, max edges %d) in %v\n",
				meta.Nodes, meta.Graphs, meta.MinSupport, meta.MaxEdges, dir)
			return nil, nil
		})
}
