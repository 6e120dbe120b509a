// Package web serves reformulations and database statistics over HTTP.
package web

import (
	"net/http"
)

import (
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

import (
	"github.com/timtadh/gref/cmd"
	"github.com/timtadh/gref/graph"
	"github.com/timtadh/gref/reformulate"
	"github.com/timtadh/gref/stats"
)

type Views struct {
	config *cmd.Config
	db     *graph.Database
	index  reformulate.Source
	stats  *stats.Stats
}

// Routes serves db. idx may be nil, in which case the Index strategy
// answers with an error.
func Routes(c *cmd.Config, db *graph.Database, idx reformulate.Source) (http.Handler, error) {
	mux := httprouter.New()
	v := &Views{
		config: c,
		db:     db,
		index:  idx,
		stats:  stats.Compute(db),
	}
	mux.GET("/stats", v.Context("/stats", v.Stats))
	mux.GET("/strategies", v.Context("/strategies", v.Strategies))
	mux.POST("/reformulate", v.Context("/reformulate", v.Reformulate))
	mux.Handler("GET", "/metrics", promhttp.Handler())
	return mux, nil
}
