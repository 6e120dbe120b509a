package web

import (
	"net/http"
	"time"
)

import (
	"github.com/timtadh/data-structures/errors"
	"github.com/timtadh/getopt"
)

import (
	"github.com/timtadh/gref/cmd"
	"github.com/timtadh/gref/graph"
	"github.com/timtadh/gref/index"
	"github.com/timtadh/gref/reformulate"
)

func NewCommand(c *cmd.Config) cmd.Runnable {
	return cmd.Cmd(
		"serve",
		`[options]`,
		`
Serve the graph database over HTTP.

    GET  /stats          database statistics
    GET  /strategies     the reformulation strategies
    POST /reformulate    {"query": "1:a -- 2:b", "k": 10, "lambda": 0.5,
                          "algorithm": "pruning"}
    GET  /metrics        prometheus metrics

Options
    -h, --help                          view this message
    -l, --listen=<addr>:<port>          what to listen on
                                        default: 0.0.0.0:8080
    -i, --index=<dir>                   serve the Index strategy from the
                                        given index
`,
		"l:i:",
		[]string{
			"listen=",
			"index=",
		},
		func(r cmd.Runnable, args []string, optargs []getopt.OptArg) ([]string, *cmd.Error) {
			listen := c.Listen
			for _, oa := range optargs {
				switch oa.Opt() {
				case "-l", "--listen":
					listen = oa.Arg()
				case "-i", "--index":
					c.Index = oa.Arg()
				default:
					return nil, cmd.Errorf(cmd.ExitConfig, "Unknown flag '%v'\n", oa.Opt())
				}
			}

			labels := graph.NewLabels()
			var idx reformulate.Source
			if c.Index != "" {
				s, err := index.Load(c.Index)
				if err != nil {
					return nil, cmd.Fail(err)
				}
				defer s.Close()
				labels = s.Meta().LabelTable()
				idx = s
			}
			db, cerr := c.LoadDatabase(labels)
			if cerr != nil {
				return nil, cerr
			}

			handler, err := Routes(c, db, idx)
			if err != nil {
				return nil, cmd.Fail(err)
			}

			server := &http.Server{
				Addr:           listen,
				Handler:        handler,
				ReadTimeout:    10 * time.Second,
				WriteTimeout:   5 * time.Minute,
				MaxHeaderBytes: http.DefaultMaxHeaderBytes,
			}

			errors.Logf("INFO", "serving %d graphs @ %v", db.Len(), server.Addr)
			if err := server.ListenAndServe(); err != nil {
				return nil, cmd.Fail(err)
			}
			return nil, nil
		})
}
