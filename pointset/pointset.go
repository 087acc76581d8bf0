// SPDX-License-Identifier: MIT

package pointset

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// New validates the parallel point/color/radius sequences and builds a Set.
//
// Contract:
//   - len(points) ≥ MinPoints.
//   - len(colors) == len(points).
//   - weighted ⇒ len(radii) == len(points), every radius finite and ≥ 0.
//   - !weighted ⇒ radii are ignored (nil is fine).
//   - every coordinate is finite.
//
// The input slices are copied; later changes by the caller do not leak in.
//
// Complexity: O(n) time and memory.
func New(points []r3.Vector, colors []int, radii []float64, weighted bool) (*Set, error) {
	n := len(points)

	// Stage 1: shape.
	if n < MinPoints {
		return nil, errors.Wrapf(ErrInvalidInput, "need at least %d points, got %d", MinPoints, n)
	}
	if len(colors) != n {
		return nil, errors.Wrapf(ErrInvalidInput, "each point must have a color label: %d points, %d colors", n, len(colors))
	}
	if weighted && len(radii) != n {
		return nil, errors.Wrapf(ErrInvalidInput, "each point must have a radius for weighted complexes: %d points, %d radii", n, len(radii))
	}

	// Stage 2: values.
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return nil, errors.Wrapf(ErrInvalidInput, "point %d has a non-finite coordinate %v", i, p)
		}
	}
	weights := make([]float64, n)
	if weighted {
		for i, r := range radii {
			if !finite(r) || r < 0 {
				return nil, errors.Wrapf(ErrInvalidInput, "radius %d must be finite and non-negative, got %g", i, r)
			}
			weights[i] = r * r
		}
	}

	// Stage 3: private copies.
	s := &Set{
		points:   make([]r3.Vector, n),
		weights:  weights,
		colors:   make([]int, n),
		weighted: weighted,
	}
	copy(s.points, points)
	copy(s.colors, colors)

	return s, nil
}

// ColorCount returns the number of distinct color labels.
func (s *Set) ColorCount() int {
	seen := make(map[int]struct{}, 4)
	for _, c := range s.colors {
		seen[c] = struct{}{}
	}

	return len(seen)
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
