// SPDX-License-Identifier: MIT

// Package subdivision builds the interface surface as part of the
// barycentric subdivision of a triangulation.
//
// Each retained interface simplex σ contributes one vertex, its barycenter.
// Surface simplices are the chains σ0 ⊂ σ1 ⊂ σ2 of retained interface
// simplices: an edge joins the barycenters of an interface simplex and one of
// its interface faces, a triangle spans a full flag. Inside a tetrahedron
// with color classes of sizes 2+2, 3+1, 2+1+1 or 1+1+1+1 this yields exactly
// the pieces of surface separating the classes.
//
// Vertices take the filtration value of their simplex; a chain takes the
// largest value among its members, so the result is again a filtration.
// Vertex indices follow the sorted order of the vertex entries.
package subdivision
