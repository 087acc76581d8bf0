// SPDX-License-Identifier: MIT

package subdivision

import (
	"context"
	"math"
	"sort"

	"github.com/golang/geo/r3"
	perrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/chromatic/alpha"
	"github.com/katalvlaran/chromatic/classify"
	"github.com/katalvlaran/chromatic/pointset"
	"github.com/katalvlaran/chromatic/regular"
	"github.com/katalvlaran/chromatic/surface"
)

// Result is the subdivided interface, ready for surface.Assemble.
type Result struct {
	Vertices []r3.Vector
	Carriers [][]int
	Entries  []surface.Entry
}

// Build subdivides the interface simplices iface of cx (ascending complex
// indices, closed under interface faces) valued by values.
//
// Stages:
//  1. barycenter and value of every interface simplex, in parallel ranges;
//  2. surface vertex numbering by alpha.Order over those values;
//  3. edges and triangles from the chains of interface faces, each valued
//     by its largest member, then the whole list sorted by surface.Entry.Less.
//
// Contract:
//   - values is indexed by complex index; it is read only for AlphaValues.
//   - the result depends on neither the worker count nor map iteration.
//
// Complexity: O(m) barycenters plus O(m·14) chain candidates for m interface
// simplices, and an O(E log E) sort of the E entries.
func Build(ctx context.Context, cx *regular.Complex, values []float64, iface []int, opts ...Option) (*Result, error) {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	set := cx.Set()

	// Stage 1: barycenters and vertex values, in parallel by range.
	m := len(iface)
	centers := make([]r3.Vector, m)
	vvals := make([]float64, m)
	if m > 0 {
		workers := o.workers()
		chunk := (m + workers - 1) / workers
		g, gctx := errgroup.WithContext(ctx)
		for lo := 0; lo < m; lo += chunk {
			lo, hi := lo, min(lo+chunk, m)
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return perrors.Wrap(err, "subdivision: barycenters")
				}
				for k := lo; k < hi; k++ {
					vs := cx.Simplex(iface[k]).Vertices()
					centers[k] = center(set, vs, o.Barycenter)
					switch o.Values {
					case ColorSeparation:
						vvals[k] = separation(set, vs, o.Barycenter)
					default:
						vvals[k] = values[iface[k]]
					}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	// Stage 2: vertex order by (value, dimension, complex index), the same
	// order the filtration itself uses.
	vals := make([]float64, cx.Len())
	keep := make([]bool, cx.Len())
	pos := make(map[int]int, m) // complex index -> position in iface
	for k, i := range iface {
		vals[i], keep[i], pos[i] = vvals[k], true, k
	}
	order := alpha.Order(cx, &alpha.Filtration{Values: vals, Retained: keep})

	res := &Result{
		Vertices: make([]r3.Vector, m),
		Carriers: make([][]int, m),
	}
	vertexOf := make(map[int]int, m) // complex index -> surface vertex
	value := make([]float64, m)      // by surface vertex
	for out, i := range order {
		k := pos[i]
		vertexOf[i] = out
		res.Vertices[out] = centers[k]
		res.Carriers[out] = cx.Simplex(i).Vertices()
		value[out] = vvals[k]
		res.Entries = append(res.Entries, surface.Entry{Simplex: []int{out}, Value: vvals[k]})
	}

	if err := ctx.Err(); err != nil {
		return nil, perrors.Wrap(err, "subdivision: chains")
	}

	// Stage 3: chains σ0 ⊂ σ1 (⊂ σ2).
	faces := func(i int) []int {
		var out []int
		for _, f := range cx.Subfaces(i) {
			if _, ok := vertexOf[f]; ok {
				out = append(out, f)
			}
		}
		return out
	}
	chain := func(members ...int) surface.Entry {
		s := make([]int, len(members))
		v := math.Inf(-1)
		for j, c := range members {
			s[j] = vertexOf[c]
			v = math.Max(v, value[s[j]])
		}
		sort.Ints(s)
		return surface.Entry{Simplex: s, Value: v}
	}
	for _, top := range iface {
		for _, mid := range faces(top) {
			res.Entries = append(res.Entries, chain(mid, top))
			for _, low := range faces(mid) {
				res.Entries = append(res.Entries, chain(low, mid, top))
			}
		}
	}

	sort.Slice(res.Entries, func(a, b int) bool { return res.Entries[a].Less(res.Entries[b]) })

	return res, nil
}

// center reduces the points vs to one point.
func center(set *pointset.Set, vs []int, mode Barycenter) r3.Vector {
	if mode == RadiusWeighted {
		var sum r3.Vector
		total := 0.0
		for _, v := range vs {
			w := set.Weight(v)
			sum = sum.Add(set.Point(v).Mul(w))
			total += w
		}
		if total > 0 {
			return sum.Mul(1 / total)
		}
	}
	var sum r3.Vector
	for _, v := range vs {
		sum = sum.Add(set.Point(v))
	}

	return sum.Mul(1 / float64(len(vs)))
}

// separation is the mean distance between the centers of the color classes
// of vs.
func separation(set *pointset.Set, vs []int, mode Barycenter) float64 {
	classes := classify.Partition(vs, set.Colors())
	cs := make([]r3.Vector, len(classes))
	for i, c := range classes {
		cs[i] = center(set, c, mode)
	}
	sum, n := 0.0, 0
	for i := range cs {
		for j := i + 1; j < len(cs); j++ {
			sum += cs[i].Distance(cs[j])
			n++
		}
	}
	if n == 0 {
		return 0
	}

	return sum / float64(n)
}
