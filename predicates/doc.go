// SPDX-License-Identifier: MIT

// Package predicates evaluates the geometric predicates the regular
// triangulation is built on, robustly and consistently.
//
//	Orient3(a,b,c,d)   = sign det | xᵢ yᵢ zᵢ 1 |           (4×4)
//	Orient4(a,b,c,d,e) = sign det | xᵢ yᵢ zᵢ |pᵢ|²−wᵢ 1 |   (5×5)
//	Orient2, Power2    = the same two in a coordinate projection (3×3, 4×4)
//
// Orient4 is the orientation of the lifted points in R⁴, i.e. the power test
// of e against the orthosphere of abcd. With Orient3(a,b,c,d) > 0, e conflicts
// with the tetrahedron exactly when Orient4(a,b,c,d,e) > 0. Power2 is the
// planar version used for hull triangles coplanar with the query point.
//
// Evaluation is layered:
//
//  1. float64 Laplace expansion together with its permanent; the sign is
//     accepted when |det| exceeds a conservative forward error bound;
//  2. otherwise the determinant is recomputed exactly with math/big.Rat
//     (every float64 is a dyadic rational, so this is the true sign);
//  3. a true zero of a lifted predicate is resolved by symbolic
//     perturbation of the weights: point i gets an extra weight ε_i, with
//     ε_i dominating ε_j for i > j. Coordinates are never moved.
//
// Orient3 and Orient2 therefore report exact zeros for coplanar and collinear
// input. Orient4 and Power2 return 0 only when the whole argument set is
// coplanar (collinear); the triangulation never asks that question.
//
// The perturbation is keyed on point index only, so every predicate is a pure
// function of its arguments and the regular triangulation it induces is
// unique for a given input.
//
// A Kernel can be told to skip stage 2 (WithExact(false)). Ambiguous filter
// results are then taken at face value and the kernel reports itself as
// unstable; callers surface that as ErrNumericalInstability.
//
// A Kernel is not safe for concurrent use.
package predicates
