// SPDX-License-Identifier: MIT

// Package alpha assigns filtration values to the simplices of a regular
// triangulation and selects the alpha subcomplex.
//
// Every simplex σ has an orthosphere: the smallest sphere, centered in the
// affine hull of σ, that is orthogonal to the weighted balls of its vertices.
// Its squared radius ρ(σ) is the first α at which σ could appear. A face
// inherits the value of a coface when the coface's extra vertex lies inside
// the face's orthosphere (the face is attached, not Gabriel). Values are
// then clamped at zero and made monotone from faces to cofaces.
//
// Simplices whose orthosphere cannot be solved reliably (condition number
// above MaxCondition, i.e. near-flat slivers) get +Inf and are left out of
// the alpha subcomplex. With alpha
// disabled every simplex is kept at value 0.
//
// Orthospheres are computed concurrently by index range; the result does
// not depend on the number of workers.
package alpha
