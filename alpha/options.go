// SPDX-License-Identifier: MIT

package alpha

import "runtime"

// DefaultWorkers selects runtime.GOMAXPROCS(0) workers.
const DefaultWorkers = 0

// MaxCondition bounds the condition number of the orthosphere system; worse
// systems are treated as singular.
const MaxCondition = 1e13

// Options configures Compute.
type Options struct {
	Workers int
}

// Option mutates Options.
type Option func(*Options)

// WithWorkers sets the number of goroutines used for orthospheres.
// Panics if n < 0.
func WithWorkers(n int) Option {
	if n < 0 {
		panic("alpha: WithWorkers(n): n must be >= 0")
	}

	return func(o *Options) { o.Workers = n }
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}

	return runtime.GOMAXPROCS(0)
}
