package stats

import (
	"encoding/json"
	"fmt"
	"os"
)

import (
	"github.com/timtadh/getopt"
)

import (
	"github.com/timtadh/gref/cmd"
	"github.com/timtadh/gref/graph"
)

func NewCommand(c *cmd.Config) cmd.Runnable {
	return cmd.Cmd(
		"stats",
		`[options]`,
		`
Print statistics of the graph database.

Option Flags
    -h,--help                         Show this message
    -j,--json                         Print the statistics as JSON
`,
		"j",
		[]string{
			"json",
		},
		func(r cmd.Runnable, args []string, optargs []getopt.OptArg) ([]string, *cmd.Error) {
			asJSON := false
			for _, oa := range optargs {
				switch oa.Opt() {
				case "-j", "--json":
					asJSON = true
				default:
					return nil, cmd.Errorf(cmd.ExitConfig, "Unknown flag '%v'\n", oa.Opt())
				}
			}
			if len(args) != 0 {
				return nil, cmd.Usage(r, cmd.ExitConfig, "unexpected arguments %v", args)
			}
			db, cerr := c.LoadDatabase(graph.NewLabels())
			if cerr != nil {
				return nil, cerr
			}
			s := Compute(db)
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(s); err != nil {
					return nil, cmd.Err(cmd.ExitIO, err)
				}
			} else {
				fmt.Println(s)
			}
			return nil, nil
		})
}
