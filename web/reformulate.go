package web

import (
	"encoding/json"
	"net/http"
	"sort"
)

import (
	"github.com/pkg/errors"
)

import (
	"github.com/timtadh/gref/lattice"
	"github.com/timtadh/gref/metrics"
	"github.com/timtadh/gref/pattern"
	"github.com/timtadh/gref/reformulate"
)

type reformulateRequest struct {
	Query      string   `json:"query"`
	K          *int     `json:"k"`
	Lambda     *float64 `json:"lambda"`
	Algorithm  string   `json:"algorithm"`
	MinSupport *int     `json:"min_support"`
}

type reformulation struct {
	Pattern string  `json:"pattern"`
	Dot     string  `json:"dot"`
	Gain    float64 `json:"gain"`
	Matches int     `json:"matches"`
	Graphs  []int   `json:"graphs"`
}

type reformulateResponse struct {
	RunId          string          `json:"run_id"`
	Algorithm      string          `json:"algorithm"`
	K              int             `json:"k"`
	Lambda         float64         `json:"lambda"`
	Query          string          `json:"query"`
	Matches        int             `json:"matches"`
	Coverage       float64         `json:"coverage"`
	Diversity      int             `json:"diversity"`
	Overlap        int             `json:"overlap"`
	Objective      float64         `json:"objective"`
	Expansions     int             `json:"expansions"`
	LatticeSize    int             `json:"lattice_size"`
	QueryMillis    int64           `json:"query_ms"`
	Millis         int64           `json:"algorithm_ms"`
	Reformulations []reformulation `json:"reformulations"`
}

func (v *Views) Stats(c *Context) {
	c.JSON(http.StatusOK, v.stats)
}

func (v *Views) Strategies(c *Context) {
	names := make([]string, 0, len(reformulate.Strategies))
	for name := range reformulate.Strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	c.JSON(http.StatusOK, map[string][]string{"strategies": names})
}

func (v *Views) Reformulate(c *Context) {
	var req reformulateRequest
	if err := json.NewDecoder(c.r.Body).Decode(&req); err != nil {
		c.Error(http.StatusBadRequest, "could not decode the request: "+err.Error())
		return
	}
	if req.Query == "" {
		c.Error(http.StatusBadRequest, "a query is required")
		return
	}
	algorithm := req.Algorithm
	if algorithm == "" {
		algorithm = v.config.Algorithm
	}
	name, _, err := reformulate.Lookup(algorithm)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return
	}
	k, lambda, minSupport := v.config.K, v.config.Lambda, v.config.MinSupport
	if req.K != nil {
		k = *req.K
	}
	if req.Lambda != nil {
		lambda = *req.Lambda
	}
	if req.MinSupport != nil {
		minSupport = *req.MinSupport
	}
	if k < 1 || lambda < 0 {
		c.Error(http.StatusBadRequest, "k must be positive and lambda non-negative")
		return
	}
	q, err := pattern.ResolveQuery(v.db.Labels, req.Query)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return
	}
	in := &reformulate.Input{DB: v.db, Query: q, Index: v.index}
	if name == "Index" && v.index == nil {
		c.Error(http.StatusBadRequest, "the server has no index")
		return
	}
	res, err := reformulate.Run(name, in,
		reformulate.K(k), reformulate.Lambda(lambda), reformulate.MinSupport(minSupport))
	if err != nil {
		metrics.Failed(name)
		switch errors.Cause(err) {
		case reformulate.ErrQueryNotIndexed, reformulate.ErrNoMinSupport, lattice.ErrEmptyQuery:
			c.Error(http.StatusUnprocessableEntity, err.Error())
		default:
			c.Error(http.StatusInternalServerError, err.Error())
		}
		return
	}
	metrics.Observe(res)
	c.JSON(http.StatusOK, v.response(res))
}

func (v *Views) response(res *reformulate.Result) *reformulateResponse {
	labels := v.db.Labels
	out := &reformulateResponse{
		RunId:          res.RunId.String(),
		Algorithm:      res.Algorithm,
		K:              res.K,
		Lambda:         res.Lambda,
		Query:          res.Root.Pattern.Pretty(labels),
		Matches:        res.Root.ResultsNumber(),
		Coverage:       res.Coverage,
		Diversity:      res.Diversity,
		Overlap:        res.Overlap,
		Objective:      res.Objective,
		Expansions:     res.Expansions,
		LatticeSize:    res.Size,
		QueryMillis:    res.QueryTime.Milliseconds(),
		Millis:         res.Time.Milliseconds(),
		Reformulations: make([]reformulation, 0, len(res.S)),
	}
	for i, n := range res.S {
		out.Reformulations = append(out.Reformulations, reformulation{
			Pattern: n.Pattern.Pretty(labels),
			Dot:     n.Pattern.Dotty(labels),
			Gain:    res.Gains[i],
			Matches: n.ResultsNumber(),
			Graphs:  lattice.Ints(n.Results),
		})
	}
	return out
}
