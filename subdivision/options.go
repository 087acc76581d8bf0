// SPDX-License-Identifier: MIT

package subdivision

import (
	"fmt"
	"runtime"
)

// Barycenter selects how a simplex is reduced to one point.
type Barycenter int

const (
	// Arithmetic is the plain mean of the vertex coordinates.
	Arithmetic Barycenter = iota
	// RadiusWeighted weighs each vertex by its weight (squared radius),
	// falling back to Arithmetic when all weights are zero.
	RadiusWeighted
)

func (b Barycenter) String() string {
	switch b {
	case Arithmetic:
		return "arithmetic"
	case RadiusWeighted:
		return "radius-weighted"
	default:
		return fmt.Sprintf("Barycenter(%d)", int(b))
	}
}

// ValueSource selects the filtration value of a surface vertex.
type ValueSource int

const (
	// AlphaValues uses the filtration value of the carrier simplex.
	AlphaValues ValueSource = iota
	// ColorSeparation uses the mean pairwise distance between the
	// barycenters of the carrier's color classes.
	ColorSeparation
)

func (v ValueSource) String() string {
	switch v {
	case AlphaValues:
		return "alpha"
	case ColorSeparation:
		return "color-separation"
	default:
		return fmt.Sprintf("ValueSource(%d)", int(v))
	}
}

// Options configures Build.
type Options struct {
	Barycenter Barycenter
	Values     ValueSource
	Workers    int
}

// Option mutates Options.
type Option func(*Options)

// WithBarycenter sets the barycenter mode. Panics on an unknown mode.
func WithBarycenter(b Barycenter) Option {
	if b != Arithmetic && b != RadiusWeighted {
		panic(fmt.Sprintf("subdivision: unknown barycenter mode %d", int(b)))
	}

	return func(o *Options) { o.Barycenter = b }
}

// WithValueSource sets where vertex values come from. Panics on an unknown
// source.
func WithValueSource(v ValueSource) Option {
	if v != AlphaValues && v != ColorSeparation {
		panic(fmt.Sprintf("subdivision: unknown value source %d", int(v)))
	}

	return func(o *Options) { o.Values = v }
}

// WithWorkers sets the number of goroutines computing barycenters; 0 means
// runtime.GOMAXPROCS(0). Panics if n < 0.
func WithWorkers(n int) Option {
	if n < 0 {
		panic("subdivision: WithWorkers(n): n must be >= 0")
	}

	return func(o *Options) { o.Workers = n }
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}

	return runtime.GOMAXPROCS(0)
}
