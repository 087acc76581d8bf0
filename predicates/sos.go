// SPDX-License-Identifier: MIT

package predicates

import "sort"

// perturb resolves an exactly vanishing lifted determinant.
//
// Only the lift is perturbed: point i gets lift_i − ε_i, where ε_i ≫ ε_j
// whenever i > j, i.e. a tiny extra weight that grows with the index. The
// determinant is linear in the lift column, so
//
//	det(ε) = −Σ_r ε_{ids[r]} · C_r
//
// with C_r the cofactor of row r's lift entry: the determinant with row r
// replaced by the unit vector of the lift column. Walking rows by decreasing
// point index, the first non-zero cofactor decides. C_r is the unlifted
// orientation of the other points, so it vanishes for every row only when
// all points are coplanar (collinear, for Power2); then 0 is returned.
func (k *Kernel) perturb(ids []int, cols []int) int {
	rows := make([]int, len(ids))
	for r := range rows {
		rows[r] = r
	}
	sort.Slice(rows, func(i, j int) bool { return ids[rows[i]] > ids[rows[j]] })

	for _, r := range rows {
		if s := k.cofactorSign(ids, cols, r); s != 0 {
			return -s
		}
	}

	return 0
}

// cofactorSign evaluates one perturbation coefficient, filtered first.
func (k *Kernel) cofactorSign(ids []int, cols []int, unit int) int {
	var val, mag matrix5
	k.fillFloat(&val, &mag, ids, cols)
	n := len(cols) + 1
	for j := 0; j < n; j++ {
		val[unit][j], mag[unit][j] = 0, 0
	}
	val[unit][len(cols)-1], mag[unit][len(cols)-1] = 1, 1

	det, perm := detPerm(&val, &mag, n)
	if s, ok := certain(det, perm); ok {
		return s
	}
	if !k.exact {
		return sign(det)
	}

	return ratDetSign(k.ratMatrix(ids, cols, unit))
}
