package reformulate

import (
	"strings"
)

import (
	"github.com/pkg/errors"
)

import (
	"github.com/timtadh/gref/graph"
	"github.com/timtadh/gref/lattice"
	"github.com/timtadh/gref/pattern"
)

type Strategy interface {
	Compute() (*Result, error)
}

// Input is what a strategy draws on. Answer is computed from DB and Query
// when it is nil. Index is only used by the Index strategy.
type Input struct {
	DB     *graph.Database
	Query  *pattern.Pattern
	Answer *lattice.Answer
	Index  Source
}

func (in *Input) answer() (*lattice.Answer, error) {
	if in.Answer == nil {
		a, err := lattice.Process(in.DB, in.Query)
		if err != nil {
			return nil, err
		}
		in.Answer = a
	}
	return in.Answer, nil
}

type StrategyFunc func(in *Input, opts ...Option) (Strategy, error)

var StrategyAbbrvs map[string]string
var StrategyNames map[string][]string

func init() {
	StrategyAbbrvs = map[string]string{
		"exact":   "Exact",
		"e":       "Exact",
		"1":       "Exact",
		"naive":   "Naive",
		"n":       "Naive",
		"2":       "Naive",
		"pruning": "Pruning",
		"p":       "Pruning",
		"bb":      "Pruning",
		"3":       "Pruning",
		"index":   "Index",
		"i":       "Index",
		"4":       "Index",
	}
	StrategyNames = make(map[string][]string)
	for abbrv, name := range StrategyAbbrvs {
		StrategyNames[name] = append(StrategyNames[name], abbrv)
	}
}

var Strategies = map[string]StrategyFunc{
	"Exact": func(in *Input, opts ...Option) (Strategy, error) {
		a, err := in.answer()
		if err != nil {
			return nil, err
		}
		return &answered{NewExact(in.DB, a.Lattice, opts...), a}, nil
	},
	"Naive": func(in *Input, opts ...Option) (Strategy, error) {
		a, err := in.answer()
		if err != nil {
			return nil, err
		}
		return &answered{NewNaive(in.DB, a.Lattice, opts...), a}, nil
	},
	"Pruning": func(in *Input, opts ...Option) (Strategy, error) {
		a, err := in.answer()
		if err != nil {
			return nil, err
		}
		return &answered{NewPruning(in.DB, a.Lattice, opts...), a}, nil
	},
	"Index": func(in *Input, opts ...Option) (Strategy, error) {
		if in.Index == nil {
			return nil, errors.New("the Index strategy needs an index")
		}
		return NewIndex(in.Index, in.Query, opts...), nil
	},
}

// Lookup resolves a strategy name or abbreviation.
func Lookup(name string) (string, StrategyFunc, error) {
	if full, has := StrategyAbbrvs[strings.ToLower(name)]; has {
		name = full
	}
	f, has := Strategies[name]
	if !has {
		return "", nil, errors.Wrapf(ErrUnknownStrategy, "%q", name)
	}
	return name, f, nil
}

// Run computes the reformulations of in with the named strategy.
func Run(name string, in *Input, opts ...Option) (*Result, error) {
	_, f, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	s, err := f(in, opts...)
	if err != nil {
		return nil, err
	}
	return s.Compute()
}

// answered carries the query answering time into the result.
type answered struct {
	Strategy
	answer *lattice.Answer
}

func (a *answered) Compute() (*Result, error) {
	r, err := a.Strategy.Compute()
	if err != nil {
		return nil, err
	}
	r.QueryTime = a.answer.Time
	return r, nil
}
