// SPDX-License-Identifier: MIT

// kernel.go - the Kernel type and its public predicates.
//
// Design notes:
//   - Every predicate is the sign of a small determinant whose rows are
//     built from a subset of the columns (x, y, z, lift) followed by a
//     column of ones. One evaluator (eval) serves all of them; the column
//     list decides the predicate.
//   - Only predicates that read the lift column are perturbed. Plain
//     orientations report true zeros, so callers see coplanar and collinear
//     input as it is and never build zero-volume cells from it.
//   - Lift values come from pointset.Set.Lifted; exact rows are rebuilt from
//     the same coordinates and weights as rationals.

package predicates

import (
	"errors"
	"math"
	"math/big"

	"github.com/katalvlaran/chromatic/pointset"
)

// ErrNumericalInstability marks results that relied on an ambiguous
// floating-point sign because the exact fallback was disabled.
var ErrNumericalInstability = errors.New("predicates: numerical instability")

// column ids of a predicate row.
const (
	colX = iota
	colY
	colZ
	colLift
)

var (
	spaceCols  = []int{colX, colY, colZ}
	liftedCols = []int{colX, colY, colZ, colLift}
)

// Stats counts how predicate calls were resolved.
type Stats struct {
	Calls     int // total predicate evaluations
	Filtered  int // decided by the float filter
	Exact     int // needed exact arithmetic
	Zero      int // unlifted predicates that came out exactly zero
	Perturbed int // exactly degenerate power tests decided by perturbation
	Ambiguous int // filter failed with the exact fallback disabled
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithExact toggles the exact big.Rat fallback (default on).
func WithExact(on bool) Option {
	return func(k *Kernel) { k.exact = on }
}

// Kernel evaluates predicates on a fixed weighted point set.
type Kernel struct {
	set   *pointset.Set
	exact bool

	rat   [][]*big.Rat // lazily built exact rows (x, y, z, lift) per point
	stats Stats
}

// New returns a Kernel over set. The set is retained, not copied.
func New(set *pointset.Set, opts ...Option) *Kernel {
	k := &Kernel{
		set:   set,
		exact: true,
		rat:   make([][]*big.Rat, set.Len()),
	}
	for _, o := range opts {
		o(k)
	}

	return k
}

// Stats returns the resolution counters accumulated so far.
func (k *Kernel) Stats() Stats { return k.stats }

// Stable reports whether every predicate so far had a certified sign.
func (k *Kernel) Stable() bool { return k.stats.Ambiguous == 0 }

// Orient3 returns the sign of the 4×4 orientation determinant. It is 0
// exactly when the four points are coplanar.
func (k *Kernel) Orient3(a, b, c, d int) int {
	ids := [4]int{a, b, c, d}

	return k.eval(ids[:], spaceCols)
}

// Orient4 returns the perturbed sign of the 5×5 lifted orientation
// determinant, the power test of e against the orthosphere of abcd.
//
// Contract:
//   - the result is ±1 whenever a, b, c, d are not coplanar;
//   - 0 is returned only when all five points are coplanar.
func (k *Kernel) Orient4(a, b, c, d, e int) int {
	ids := [5]int{a, b, c, d, e}

	return k.eval(ids[:], liftedCols)
}

// Orient2 returns the orientation of a, b, c projected along axis drop
// (0 = x, 1 = y, 2 = z). It is 0 when the projections are collinear.
func (k *Kernel) Orient2(drop, a, b, c int) int {
	ids := [3]int{a, b, c}
	cols := plane(drop)

	return k.eval(ids[:], cols[:2])
}

// Power2 is the perturbed power test of d against the orthocircle of a, b, c
// for four coplanar points, evaluated in the projection along axis drop.
// d conflicts with abc when Power2 and Orient2 over the same axis agree.
func (k *Kernel) Power2(drop, a, b, c, d int) int {
	ids := [4]int{a, b, c, d}
	cols := plane(drop)

	return k.eval(ids[:], cols[:])
}

// Collinear reports whether a, b, c lie on one line (coincident points
// included).
func (k *Kernel) Collinear(a, b, c int) bool {
	for drop := colX; drop <= colZ; drop++ {
		if k.Orient2(drop, a, b, c) != 0 {
			return false
		}
	}

	return true
}

// InOrthocircle reports whether p, coplanar with the non-collinear triangle
// abc, lies inside the orthocircle of abc within their common plane. It is
// the lower-dimensional power test used for hull triangles that p cannot see
// strictly.
//
// The projection axis is the dominant component of the float normal; the
// decision does not depend on the axis, any axis with a non-degenerate
// projection gives the same answer.
func (k *Kernel) InOrthocircle(a, b, c, p int) bool {
	pa, pb, pc := k.set.Point(a), k.set.Point(b), k.set.Point(c)
	nrm := pb.Sub(pa).Cross(pc.Sub(pa))
	axes := [3]int{colX, colY, colZ}
	comp := [3]float64{math.Abs(nrm.X), math.Abs(nrm.Y), math.Abs(nrm.Z)}
	for i := 1; i < 3; i++ {
		for j := i; j > 0 && comp[axes[j]] > comp[axes[j-1]]; j-- {
			axes[j], axes[j-1] = axes[j-1], axes[j]
		}
	}
	for _, drop := range axes {
		if o := k.Orient2(drop, a, b, c); o != 0 {
			return k.Power2(drop, a, b, c, p) == o
		}
	}

	return false
}

// plane returns the two coordinate columns left after dropping one axis,
// followed by the lift column.
func plane(drop int) [3]int {
	switch drop {
	case colX:
		return [3]int{colY, colZ, colLift}
	case colY:
		return [3]int{colZ, colX, colLift}
	default:
		return [3]int{colX, colY, colLift}
	}
}

// eval is the layered evaluation of det | row(ids[r]) over cols | 1 |.
//
// Stages:
//  1. float Laplace expansion, accepted when above the forward error bound;
//  2. exact big.Rat elimination (or the raw float sign with exact disabled);
//  3. for lifted predicates only, a true zero goes to perturb.
func (k *Kernel) eval(ids []int, cols []int) int {
	k.stats.Calls++

	var val, mag matrix5
	k.fillFloat(&val, &mag, ids, cols)
	n := len(cols) + 1
	det, perm := detPerm(&val, &mag, n)
	if s, ok := certain(det, perm); ok {
		k.stats.Filtered++
		return s
	}

	var s int
	if k.exact {
		k.stats.Exact++
		s = ratDetSign(k.ratMatrix(ids, cols, -1))
	} else {
		k.stats.Ambiguous++
		s = sign(det)
	}
	if s != 0 {
		return s
	}
	if cols[len(cols)-1] != colLift {
		k.stats.Zero++
		return 0
	}
	k.stats.Perturbed++

	return k.perturb(ids, cols)
}

// fillFloat writes value and magnitude rows. The magnitude of the lifted
// entry is |p|²+w, an upper bound of |lift| that also covers its rounding.
func (k *Kernel) fillFloat(val, mag *matrix5, ids []int, cols []int) {
	for r, id := range ids {
		p := k.set.Point(id)
		row := [4]float64{p.X, p.Y, p.Z, k.set.Lifted(id)}
		rowMag := [4]float64{abs(p.X), abs(p.Y), abs(p.Z), p.Dot(p) + k.set.Weight(id)}
		for j, c := range cols {
			val[r][j] = row[c]
			mag[r][j] = rowMag[c]
		}
		val[r][len(cols)] = 1
		mag[r][len(cols)] = 1
	}
}

// exactRow returns the exact (x, y, z, |p|²−w) of point id.
func (k *Kernel) exactRow(id int) []*big.Rat {
	if row := k.rat[id]; row != nil {
		return row
	}
	p := k.set.Point(id)
	x := new(big.Rat).SetFloat64(p.X)
	y := new(big.Rat).SetFloat64(p.Y)
	z := new(big.Rat).SetFloat64(p.Z)
	w := new(big.Rat).SetFloat64(k.set.Weight(id))

	lift := new(big.Rat).Mul(x, x)
	lift.Add(lift, new(big.Rat).Mul(y, y))
	lift.Add(lift, new(big.Rat).Mul(z, z))
	lift.Sub(lift, w)

	row := []*big.Rat{x, y, z, lift}
	k.rat[id] = row

	return row
}

// ratMatrix builds a fresh exact matrix over ids. Row unit (if ≥ 0) is
// replaced by the unit vector of the lift column.
func (k *Kernel) ratMatrix(ids []int, cols []int, unit int) [][]*big.Rat {
	n := len(cols) + 1
	m := make([][]*big.Rat, n)
	for r, id := range ids {
		m[r] = make([]*big.Rat, n)
		if r == unit {
			for j := range m[r] {
				m[r][j] = new(big.Rat)
			}
			m[r][len(cols)-1].SetInt64(1)
			continue
		}
		src := k.exactRow(id)
		for j, c := range cols {
			m[r][j] = new(big.Rat).Set(src[c])
		}
		m[r][len(cols)] = big.NewRat(1, 1)
	}

	return m
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}

	return x
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
