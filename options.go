// SPDX-License-Identifier: MIT

// options.go - functional configuration of the engine. This file defines:
//   - Option / Options (functional options over unexported state),
//   - documented defaults (constants),
//   - WithX constructors that panic on nonsensical values,
//   - gatherOptions, which applies defaults before the options.
//
// Design notes:
//   - Options only tune how the pipeline runs (parallelism, arithmetic,
//     checks, logging) and how surface vertices are placed and valued.
//     Which complex is built is ComplexConfig's job.
//   - The subdivision modes are aliased from package subdivision so callers
//     need a single import.
//   - Panics are reserved for programmer errors (a negative worker count, a
//     nil logger); input problems are returned as errors.

package chromatic

import (
	"log/slog"

	"github.com/katalvlaran/chromatic/subdivision"
)

// Barycenter selects how a simplex is reduced to a surface vertex.
type Barycenter = subdivision.Barycenter

// Barycenter modes.
const (
	Arithmetic     = subdivision.Arithmetic
	RadiusWeighted = subdivision.RadiusWeighted
)

// ValueSource selects the filtration value of surface vertices.
type ValueSource = subdivision.ValueSource

// Value sources.
const (
	AlphaValues     = subdivision.AlphaValues
	ColorSeparation = subdivision.ColorSeparation
)

// Defaults.
const (
	// DefaultWorkers means runtime.GOMAXPROCS(0).
	DefaultWorkers = 0

	// DefaultExactArithmetic keeps the exact fallback of the predicates on.
	DefaultExactArithmetic = true

	// DefaultValidation runs regular.Validate on every triangulation.
	DefaultValidation = true

	DefaultBarycenter  = Arithmetic
	DefaultValueSource = AlphaValues
)

const (
	panicWorkers = "chromatic: WithWorkers: n must be >= 0"
	panicLogger  = "chromatic: WithLogger: logger must not be nil"
)

// Option mutates Options.
type Option func(*Options)

// Options is the resolved configuration of a call.
type Options struct {
	workers    int
	exact      bool
	validate   bool
	barycenter Barycenter
	values     ValueSource
	logger     *slog.Logger
}

// WithWorkers bounds the goroutines of the parallel stages. 0 selects
// runtime.GOMAXPROCS(0). Panics if n < 0.
func WithWorkers(n int) Option {
	if n < 0 {
		panic(panicWorkers)
	}

	return func(o *Options) { o.workers = n }
}

// WithExactArithmetic toggles the exact fallback of the geometric
// predicates. Without it, uncertain signs are taken from floating point and
// the result is flagged unstable.
func WithExactArithmetic(on bool) Option {
	return func(o *Options) { o.exact = on }
}

// WithValidation toggles the structural check of the triangulation.
func WithValidation(on bool) Option {
	return func(o *Options) { o.validate = on }
}

// WithBarycenter selects the barycenter mode. Panics on an unknown mode.
func WithBarycenter(b Barycenter) Option {
	set := subdivision.WithBarycenter(b)

	return func(o *Options) {
		var so subdivision.Options
		set(&so)
		o.barycenter = so.Barycenter
	}
}

// WithValueSource selects where vertex values come from. Panics on an
// unknown source.
func WithValueSource(v ValueSource) Option {
	set := subdivision.WithValueSource(v)

	return func(o *Options) {
		var so subdivision.Options
		set(&so)
		o.values = so.Values
	}
}

// WithLogger routes stage logs to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicLogger)
	}

	return func(o *Options) { o.logger = l }
}

func gatherOptions(user ...Option) Options {
	o := Options{
		workers:    DefaultWorkers,
		exact:      DefaultExactArithmetic,
		validate:   DefaultValidation,
		barycenter: DefaultBarycenter,
		values:     DefaultValueSource,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, set := range user {
		set(&o)
	}

	return o
}

func (o Options) subdivisionOptions() []subdivision.Option {
	return []subdivision.Option{
		subdivision.WithBarycenter(o.barycenter),
		subdivision.WithValueSource(o.values),
		subdivision.WithWorkers(o.workers),
	}
}
