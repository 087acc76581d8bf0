// SPDX-License-Identifier: MIT

// Package pointset holds the validated, read-only input of an interface
// computation: point coordinates, per-point weights and color labels.
//
// A Set is built once per call by New and never mutated afterwards, so it can
// be shared freely between the worker goroutines of later stages.
//
// Weights follow the power-distance convention: a point with radius r carries
// weight r². When the set is unweighted every weight is zero and the radii are
// ignored entirely (they may be nil).
//
// Errors:
//
//	ErrInvalidInput - length mismatch, fewer than MinPoints points,
//	                  negative radius, or a non-finite coordinate/radius.
package pointset
