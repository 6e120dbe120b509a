package lattice

import (
	"fmt"
)

import (
	"github.com/timtadh/getopt"
)

import (
	"github.com/timtadh/gref/cmd"
	"github.com/timtadh/gref/graph"
)

func init() {
	cmd.ExitOn(cmd.ExitQuery, ErrEmptyQuery)
}

func NewCommand(c *cmd.Config) cmd.Runnable {
	return cmd.Cmd(
		"query",
		`[options] <query>`,
		`
Answer a query over the graph database and report the graphs it matches.

<query> is either a file holding one graph or an inline expression such
        as '1:a -x- 2:b -- 3:c'

Option Flags
    -h,--help                         Show this message
    -r,--results                      Print the ids of the matched graphs
    -e,--embeddings                   Print the embeddings of every match
`,
		"re",
		[]string{
			"results",
			"embeddings",
		},
		func(r cmd.Runnable, args []string, optargs []getopt.OptArg) ([]string, *cmd.Error) {
			results := false
			embeddings := false
			for _, oa := range optargs {
				switch oa.Opt() {
				case "-r", "--results":
					results = true
				case "-e", "--embeddings":
					embeddings = true
				default:
					return nil, cmd.Errorf(cmd.ExitConfig, "Unknown flag '%v'\n", oa.Opt())
				}
			}
			if len(args) != 1 {
				return nil, cmd.Usage(r, cmd.ExitConfig, "expected a query got %v", args)
			}
			labels := graph.NewLabels()
			db, cerr := c.LoadDatabase(labels)
			if cerr != nil {
				return nil, cerr
			}
			q, cerr := cmd.LoadQuery(labels, args[0])
			if cerr != nil {
				return nil, cerr
			}
			a, err := Process(db, q)
			if err != nil {
				return nil, cmd.Fail(err)
			}
			root := a.Lattice.Root()
			fmt.Printf("query %v matched %d of %d graphs (%d with several embeddings) in %v\n",
				q.Pretty(labels), root.ResultsNumber(), db.Len(), a.Multiple, a.Time)
			if results || embeddings {
				for _, gid := range Ints(root.Results) {
					fmt.Printf("graph %d\n", gid)
					if !embeddings {
						continue
					}
					for _, occ := range root.Occurrences(gid) {
						fmt.Printf("    vertices %v edges %v\n", occ.NodeMap, Ints(occ.Mapped))
					}
				}
			}
			return nil, nil
		})
}
