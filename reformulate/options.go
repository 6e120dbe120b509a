package reformulate

import (
	"github.com/timtadh/gref/pattern"
)

type Options struct {
	K          int
	Lambda     float64
	MinSupport int // Index only, negative means read it from the index
	Expected   []*pattern.Pattern
	Debug      bool
}

type Option func(*Options)

func DefaultOptions() *Options {
	return &Options{
		K:          10,
		Lambda:     0.5,
		MinSupport: -1,
	}
}

func K(k int) Option {
	return func(o *Options) {
		o.K = k
	}
}

func Lambda(lambda float64) Option {
	return func(o *Options) {
		o.Lambda = lambda
	}
}

func MinSupport(support int) Option {
	return func(o *Options) {
		o.MinSupport = support
	}
}

// Expect checks the picks of the Exact strategy against a known sequence.
func Expect(picks ...*pattern.Pattern) Option {
	return func(o *Options) {
		o.Expected = append(o.Expected, picks...)
	}
}

func Debug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

func newOptions(opts []Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Options) Copy() *Options {
	c := *o
	c.Expected = append([]*pattern.Pattern(nil), o.Expected...)
	return &c
}
