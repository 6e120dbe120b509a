package main

import (
	"os"
	"strconv"
)

import (
	"github.com/timtadh/getopt"
)

import (
	"github.com/timtadh/gref/cmd"
	"github.com/timtadh/gref/index"
	"github.com/timtadh/gref/lattice"
	refcmd "github.com/timtadh/gref/reformulate/cmd"
	"github.com/timtadh/gref/stats"
	"github.com/timtadh/gref/web"
	"github.com/timtadh/gref/workload"
)

func main() {
	c := cmd.DefaultConfig()
	reform := refcmd.NewCommand(c)
	query := lattice.NewCommand(c)
	build := index.NewCommand(c)
	stat := stats.NewCommand(c)
	serve := web.NewCommand(c)
	generate := workload.NewCommand(c)
	cmd.Main(c, cmd.Concat(
		NewMain(c),
		cmd.Commands(map[string]cmd.Runnable{
			reform.Name():   reform,
			query.Name():    query,
			build.Name():    build,
			stat.Name():     stat,
			serve.Name():    serve,
			generate.Name(): generate,
		}),
	))
}

func NewMain(c *cmd.Config) cmd.Runnable {
	return cmd.Cmd(os.Args[0],
		`[options]`,
		`
Graph query reformulation: find k reformulations of a graph query that
cover its answers while staying diverse.

Option Flags
    -h,--help                         Show this message
    -c,--config=<path>                YAML file of defaults for every option
    -d,--database=<path>              Graph database (file or directory)
    -f,--format=<lines|dot>           Format of the database (default: from
                                      the file extension)
    -n,--db-size=<int>                Only use the first n graphs
    -p,--cpu-profile=<path>           Path to write the cpu-profile
    --debug                           Verbose strategy logging
`,
		"c:d:f:n:p:",
		[]string{
			"config=",
			"database=",
			"format=",
			"db-size=",
			"cpu-profile=",
			"debug",
		},
		func(r cmd.Runnable, args []string, optargs []getopt.OptArg) ([]string, *cmd.Error) {
			for _, oa := range optargs {
				switch oa.Opt() {
				case "-c", "--config":
					loaded, err := cmd.LoadConfig(oa.Arg())
					if err != nil {
						return nil, cmd.Fail(err)
					}
					*c = *loaded
				}
			}
			for _, oa := range optargs {
				switch oa.Opt() {
				case "-c", "--config":
				case "-d", "--database":
					c.Database = oa.Arg()
				case "-f", "--format":
					c.Format = oa.Arg()
				case "-n", "--db-size":
					n, err := strconv.Atoi(oa.Arg())
					if err != nil {
						return nil, cmd.Errorf(cmd.ExitConfig, "Could not parse db size, '%v' (%v)", oa.Arg(), err)
					}
					c.DBSize = n
				case "-p", "--cpu-profile":
					c.CPUProfile = oa.Arg()
				case "--debug":
					c.Debug = true
				default:
					return nil, cmd.Errorf(cmd.ExitConfig, "Unknown flag '%v'\n", oa.Opt())
				}
			}
			if err := c.Validate(); err != nil {
				return nil, cmd.Usage(r, cmd.ExitConfig, "%v", err)
			}
			if err := c.StartProfile(); err != nil {
				return nil, err
			}
			return args, nil
		},
	)
}
