// SPDX-License-Identifier: MIT

package pointset

import (
	"errors"

	"github.com/golang/geo/r3"
)

// MinPoints is the smallest input that can span one tetrahedron.
const MinPoints = 4

// ErrInvalidInput reports malformed input. It is always returned wrapped with
// context; match it with errors.Is.
var ErrInvalidInput = errors.New("pointset: invalid input")

// Set is an immutable weighted, colored point cloud. Points are identified by
// their index in the input sequence.
type Set struct {
	points   []r3.Vector
	weights  []float64
	colors   []int
	weighted bool
}

// Len returns the number of points.
func (s *Set) Len() int { return len(s.points) }

// Point returns the coordinates of point i.
func (s *Set) Point(i int) r3.Vector { return s.points[i] }

// Weight returns the weight (squared radius) of point i; zero when unweighted.
func (s *Set) Weight(i int) float64 { return s.weights[i] }

// Color returns the color label of point i.
func (s *Set) Color(i int) int { return s.colors[i] }

// Weighted reports whether weights take part in the geometry.
func (s *Set) Weighted() bool { return s.weighted }

// Points returns the coordinate slice. Callers must not modify it.
func (s *Set) Points() []r3.Vector { return s.points }

// Weights returns the weight slice. Callers must not modify it.
func (s *Set) Weights() []float64 { return s.weights }

// Colors returns the color slice. Callers must not modify it.
func (s *Set) Colors() []int { return s.colors }

// Lifted returns the paraboloid lift |p|² − w of point i.
func (s *Set) Lifted(i int) float64 {
	p := s.points[i]

	return p.Dot(p) - s.weights[i]
}
