// SPDX-License-Identifier: MIT

package alpha

import (
	"context"
	"math"
	"sort"

	"github.com/golang/geo/r3"
	perrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/chromatic/regular"
)

// Filtration holds one value per simplex of a complex, indexed like it.
type Filtration struct {
	Values   []float64
	Retained []bool
}

// Len is the number of retained simplices.
func (f *Filtration) Len() int {
	n := 0
	for _, ok := range f.Retained {
		if ok {
			n++
		}
	}

	return n
}

// sphere is an orthosphere: center and squared radius (power).
type sphere struct {
	center r3.Vector
	rho    float64
}

// Compute returns the filtration of cx. With useAlpha false every simplex
// gets 0 and is retained.
//
// Stages (useAlpha):
//  1. the orthosphere of every simplex, in parallel index ranges;
//  2. top-down: a face attached to a coface (the opposite vertex lies inside
//     its orthosphere) takes the smallest such coface value;
//  3. clamp at 0, then bottom-up repair so that faces never exceed cofaces;
//  4. retained = finite value.
//
// Contract:
//   - the result is independent of the worker count;
//   - ctx is checked between chunks; cancellation returns ctx's error.
//
// Complexity: O(S) small dense solves for S simplices, O(S) for the
// propagation passes.
func Compute(ctx context.Context, cx *regular.Complex, useAlpha bool, opts ...Option) (*Filtration, error) {
	n := cx.Len()
	f := &Filtration{Values: make([]float64, n), Retained: make([]bool, n)}
	if !useAlpha {
		for i := range f.Retained {
			f.Retained[i] = true
		}
		return f, nil
	}

	var o Options
	for _, fn := range opts {
		fn(&o)
	}

	spheres, err := orthospheres(ctx, cx, o.workers())
	if err != nil {
		return nil, err
	}
	propagate(cx, spheres, f.Values)

	for i, v := range f.Values {
		f.Values[i] = math.Max(0, v)
	}
	for d := 1; d <= 3; d++ {
		lo, hi := cx.Range(d)
		for i := lo; i < hi; i++ {
			for _, fc := range cx.Simplex(i).Faces {
				f.Values[i] = math.Max(f.Values[i], f.Values[fc])
			}
		}
	}
	for i, v := range f.Values {
		f.Retained[i] = !math.IsInf(v, 1)
	}

	return f, nil
}

// orthospheres computes the sphere of every simplex, split into contiguous
// index ranges across workers.
func orthospheres(ctx context.Context, cx *regular.Complex, workers int) ([]sphere, error) {
	n := cx.Len()
	out := make([]sphere, n)
	chunk := (n + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if i%256 == 0 {
					if err := gctx.Err(); err != nil {
						return perrors.Wrap(err, "alpha: orthospheres")
					}
				}
				out[i] = orthosphere(cx, cx.Simplex(i).Vertices())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// orthosphere solves for the center z = p0 + Aλ with (AᵀA)λ = b/2, where the
// columns of A are pᵢ−p0 and bᵢ = |pᵢ−p0|² − wᵢ + w0.
func orthosphere(cx *regular.Complex, vs []int) sphere {
	set := cx.Set()
	p0, w0 := set.Point(vs[0]), set.Weight(vs[0])
	k := len(vs) - 1
	if k == 0 {
		return sphere{center: p0, rho: -w0}
	}

	cols := make([]r3.Vector, k)
	rhs := mat.NewVecDense(k, nil)
	for i := 0; i < k; i++ {
		cols[i] = set.Point(vs[i+1]).Sub(p0)
		rhs.SetVec(i, (cols[i].Norm2()-set.Weight(vs[i+1])+w0)/2)
	}
	gram := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			gram.SetSym(i, j, cols[i].Dot(cols[j]))
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok || chol.Cond() > MaxCondition {
		return sphere{center: p0, rho: math.Inf(1)}
	}
	var lambda mat.VecDense
	if err := chol.SolveVecTo(&lambda, rhs); err != nil {
		return sphere{center: p0, rho: math.Inf(1)}
	}
	var off r3.Vector
	for i := 0; i < k; i++ {
		off = off.Add(cols[i].Mul(lambda.AtVec(i)))
	}

	return sphere{center: p0.Add(off), rho: off.Norm2() - w0}
}

// propagate fills values top-down: a simplex without a value takes its own
// orthosphere radius; a face already valued keeps the smaller value; an
// unvalued face inherits its coface's value when attached to it.
func propagate(cx *regular.Complex, spheres []sphere, values []float64) {
	set := cx.Set()
	valued := make([]bool, len(values))
	for d := 3; d >= 0; d-- {
		lo, hi := cx.Range(d)
		for i := lo; i < hi; i++ {
			if !valued[i] {
				values[i], valued[i] = spheres[i].rho, true
			}
			if d == 0 || math.IsInf(values[i], 1) {
				continue
			}
			sx := cx.Simplex(i)
			for _, fc := range sx.Faces {
				if valued[fc] {
					values[fc] = math.Min(values[fc], values[i])
					continue
				}
				q := opposite(sx.Key, cx.Simplex(fc).Key)
				s := spheres[fc]
				if math.IsInf(s.rho, 1) {
					continue
				}
				if s.center.Sub(set.Point(q)).Norm2()-set.Weight(q) < s.rho {
					values[fc], valued[fc] = values[i], true
				}
			}
		}
	}
}

// opposite returns the vertex of s that face f lacks.
func opposite(s, f regular.Key) int {
	for _, v := range s.Vertices() {
		found := false
		for _, u := range f.Vertices() {
			if u == v {
				found = true
				break
			}
		}
		if !found {
			return v
		}
	}

	return -1
}

// Order returns the retained simplex indices sorted by (value, dimension,
// canonical key). Complex indices already follow (dimension, key), so a
// stable sort by value over ascending indices suffices. f need not come from
// Compute: any per-simplex values with a retained mask are ordered the same
// way.
func Order(cx *regular.Complex, f *Filtration) []int {
	idx := make([]int, 0, len(f.Values))
	for i, ok := range f.Retained {
		if ok {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, vb := f.Values[idx[a]], f.Values[idx[b]]
		if va != vb {
			return va < vb
		}
		return cx.Simplex(idx[a]).Dim() < cx.Simplex(idx[b]).Dim()
	})

	return idx
}
