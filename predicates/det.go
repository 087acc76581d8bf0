// SPDX-License-Identifier: MIT

package predicates

import (
	"math"
	"math/big"
	"math/bits"
)

// matrix5 is the largest predicate matrix (5×5); smaller ones use the
// leading block.
type matrix5 [5][5]float64

// filterFactor bounds the relative error of a Laplace expansion of order ≤ 5
// with one rounded lifted entry per term, with a 2× safety margin.
const filterFactor = 32 * 0x1p-53

// minPermanent guards against underflow, where relative bounds stop holding.
const minPermanent = 1e-280

// detPerm returns the determinant of val and the permanent of mag over the
// leading n×n block, both by Laplace expansion along rows.
func detPerm(val, mag *matrix5, n int) (det, perm float64) {
	return laplace(val, mag, n, 0, (1<<n)-1)
}

func laplace(val, mag *matrix5, n, row, cols int) (det, perm float64) {
	if row == n-1 {
		c := bits.TrailingZeros(uint(cols))
		return val[row][c], mag[row][c]
	}
	s := 1.0
	for c := 0; c < n; c++ {
		if cols&(1<<c) == 0 {
			continue
		}
		if mag[row][c] != 0 {
			d, p := laplace(val, mag, n, row+1, cols&^(1<<c))
			det += s * val[row][c] * d
			perm += mag[row][c] * p
		}
		s = -s
	}

	return det, perm
}

// certain reports the sign of det when the float result is certified.
func certain(det, perm float64) (int, bool) {
	if perm < minPermanent || math.IsInf(perm, 0) || math.IsNaN(det) {
		return 0, false
	}
	bound := filterFactor * perm
	switch {
	case det > bound:
		return 1, true
	case det < -bound:
		return -1, true
	default:
		return 0, false
	}
}

// ratDetSign returns the exact sign of det(m) by fraction-exact Gaussian
// elimination. m is consumed.
func ratDetSign(m [][]*big.Rat) int {
	n := len(m)
	s := 1
	f := new(big.Rat)
	t := new(big.Rat)
	for col := 0; col < n; col++ {
		piv := -1
		for r := col; r < n; r++ {
			if m[r][col].Sign() != 0 {
				piv = r
				break
			}
		}
		if piv < 0 {
			return 0
		}
		if piv != col {
			m[piv], m[col] = m[col], m[piv]
			s = -s
		}
		s *= m[col][col].Sign()
		for r := col + 1; r < n; r++ {
			if m[r][col].Sign() == 0 {
				continue
			}
			f.Quo(m[r][col], m[col][col])
			for c := col; c < n; c++ {
				m[r][c].Sub(m[r][c], t.Mul(f, m[col][c]))
			}
		}
	}

	return s
}
