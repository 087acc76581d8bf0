// SPDX-License-Identifier: MIT

// Package regular builds the regular (weighted Delaunay) triangulation of a
// weighted point set and exposes it as a flat simplicial complex.
//
// Construction:
//
//	Every point p with weight w is lifted to (p, |p|²−w) in R⁴. The lower
//	convex hull of the lifted points projects onto the regular triangulation.
//	The hull is maintained together with the point ω at vertical infinity:
//	facets that miss ω are the tetrahedra, facets through ω stand on the
//	triangles of the 3D convex hull. The boundary of that 4-polytope is a
//	closed 3-manifold, stored as cells with four neighbor links.
//
//	Exact duplicates are collapsed first (the larger weight stays). The
//	hull is seeded with the first four affinely independent points and the
//	rest are inserted in input order (beneath-beyond): a remembering walk
//	locates the point, the facets it sees are collected by breadth-first
//	search, removed, and replaced by the cone from the point over the
//	horizon. A point that sees no facet is redundant (hidden by its
//	neighbors' power balls) and does not appear in the result; previously
//	inserted vertices can become hidden the same way.
//
// Geometric decisions go through package predicates. Orientation tests are
// exact and may report coplanarity; power tests break ties by an
// index-keyed perturbation of the weights only. A point lying in the plane
// of a hull triangle is tested against the triangle's orthocircle in that
// plane. Coordinates are never moved, so every tetrahedron has positive
// volume and, without weights, the result is a Delaunay triangulation of
// the input. Fully coplanar input is rejected with ErrDegenerateGeometry.
//
// The Complex type stores every simplex of dimension 0..3 in a flat table,
// ordered by dimension and then by sorted vertex tuple, with face and coface
// links as indices into that table.
//
// Errors:
//
//	ErrDegenerateGeometry - the input has no volume, or the structure failed
//	                        a consistency check (broken links, Euler
//	                        characteristic, coverage, flat cells).
package regular
