// SPDX-License-Identifier: MIT

// validate.go - post-construction checks of a Complex.
//
// Design notes:
//   - Validation reads only the flat simplex table and the input points; it
//     never consults the builder, so a Complex assembled from a hand-made
//     Triangulation is checked the same way.
//   - Combinatorial stages run first and are exact. The geometric stages use
//     the exact orientation predicate for flatness and a float volume
//     balance (gonum/floats, quickhull) for coverage.
//   - Every failure wraps ErrDegenerateGeometry with the offending simplex.

package regular

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/markus-wa/quickhull-go/v2"
	perrors "github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/chromatic/predicates"
)

const (
	// volumeTolerance is the relative slack between the summed tetrahedron
	// volume and the convex hull volume.
	volumeTolerance = 1e-9

	hullEps = 1e-12
)

// Validate checks the combinatorial and geometric sanity of c.
//
// Stages:
//  1. Euler characteristic V−E+F−T = 1 (the triangulation is a 3-ball).
//  2. Every triangle has one or two tetrahedral cofaces; exactly the hull
//     triangles have one.
//  3. The hull is a closed 2-manifold: every hull edge borders two hull
//     triangles and V−E+F = 2.
//  4. No tetrahedron is flat (exact orientation).
//  5. The tetrahedra cover the convex hull once: their summed volume equals
//     the hull volume, which must be positive.
//
// Contract: c was produced by NewComplex. Validate does not modify c.
//
// Complexity: O(S) for stages 1-3 over S simplices, O(T) exact orientation
// tests and an O(n log n) hull for stages 4-5.
func Validate(c *Complex) error {
	// Stage 1
	chi := c.Count(0) - c.Count(1) + c.Count(2) - c.Count(3)
	if chi != 1 {
		return perrors.Wrapf(ErrDegenerateGeometry, "euler characteristic %d, want 1", chi)
	}

	// Stage 2
	boundary := 0
	lo, hi := c.Range(2)
	for i := lo; i < hi; i++ {
		s := &c.simplices[i]
		switch n := len(s.Cofaces); {
		case n == 1 && s.OnHull:
			boundary++
		case n == 2 && !s.OnHull:
		default:
			return perrors.Wrapf(ErrDegenerateGeometry, "triangle %v has %d cofaces (hull=%t)", s.Key.Vertices(), n, s.OnHull)
		}
	}
	if boundary != len(c.tri.Hull) {
		return perrors.Wrapf(ErrDegenerateGeometry, "%d boundary triangles, %d hull facets", boundary, len(c.tri.Hull))
	}

	// Stage 3
	hv, he := 0, 0
	for d := 0; d <= 1; d++ {
		lo, hi := c.Range(d)
		for i := lo; i < hi; i++ {
			s := &c.simplices[i]
			if !s.OnHull {
				continue
			}
			if d == 0 {
				hv++
				continue
			}
			he++
			onHull := 0
			for _, t := range s.Cofaces {
				if c.simplices[t].OnHull {
					onHull++
				}
			}
			if onHull != 2 {
				return perrors.Wrapf(ErrDegenerateGeometry, "hull edge %v borders %d hull triangles", s.Key.Vertices(), onHull)
			}
		}
	}
	if chi := hv - he + boundary; chi != 2 {
		return perrors.Wrapf(ErrDegenerateGeometry, "hull euler characteristic %d, want 2", chi)
	}

	// Stage 4
	k := predicates.New(c.set)
	for _, t := range c.tri.Tetrahedra {
		if k.Orient3(t[0], t[1], t[2], t[3]) == 0 {
			return perrors.Wrapf(ErrDegenerateGeometry, "tetrahedron %v is flat", t)
		}
	}

	// Stage 5
	pts := c.set.Points()
	vols := make([]float64, len(c.tri.Tetrahedra))
	for i, t := range c.tri.Tetrahedra {
		vols[i] = math.Abs(signedVolume(pts[t[0]], pts[t[1]], pts[t[2]], pts[t[3]]))
	}
	total := floats.Sum(vols)
	scale := extent(pts)
	if total <= volumeTolerance*scale*scale*scale {
		return perrors.Wrapf(ErrDegenerateGeometry, "tetrahedra cover no volume (%g)", total)
	}
	hull, ok := hullVolume(pts)
	if !ok {
		return nil
	}
	if diff := math.Abs(total - hull); diff > volumeTolerance*math.Max(hull, scale*scale*scale) {
		return perrors.Wrapf(ErrDegenerateGeometry, "tetrahedra cover volume %g, convex hull has %g", total, hull)
	}

	return nil
}

func signedVolume(a, b, c, d r3.Vector) float64 {
	return b.Sub(a).Dot(c.Sub(a).Cross(d.Sub(a))) / 6
}

// hullVolume returns the convex hull volume of pts. ok is false when the
// hull could not be computed, which happens for flat input.
func hullVolume(pts []r3.Vector) (vol float64, ok bool) {
	defer func() {
		if recover() != nil {
			vol, ok = 0, false
		}
	}()

	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(pts, true, true, hullEps*math.Max(1, extent(pts)))
	if len(ch.Indices) == 0 || len(ch.Indices)%3 != 0 {
		return 0, false
	}
	parts := make([]float64, 0, len(ch.Indices)/3)
	o := pts[ch.Indices[0]]
	for i := 0; i < len(ch.Indices); i += 3 {
		parts = append(parts, signedVolume(o, pts[ch.Indices[i]], pts[ch.Indices[i+1]], pts[ch.Indices[i+2]]))
	}

	return math.Abs(floats.Sum(parts)), true
}

// extent is the largest side of the bounding box.
func extent(pts []r3.Vector) float64 {
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = r3.Vector{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vector{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	d := hi.Sub(lo)

	return math.Max(d.X, math.Max(d.Y, d.Z))
}
