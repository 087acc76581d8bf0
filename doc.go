// SPDX-License-Identifier: MIT

// Package chromatic extracts interface surfaces from colored, optionally
// weighted, 3D point clouds.
//
// What it computes:
//
//	Given points with color labels (and radii), chromatic builds the regular
//	(weighted Delaunay) triangulation, assigns alpha filtration values,
//	keeps the simplices whose vertices carry two or more colors and returns
//	the part of their barycentric subdivision that separates the colors: a
//	filtered 2-complex ready for persistent homology.
//
// Pipeline (one synchronous call, each stage read-only on the previous one):
//
//	pointset/    - validated input; weight = radius² or 0
//	predicates/  - filtered, exact and symbolically perturbed determinants
//	regular/     - regular triangulation, simplex table, validation
//	alpha/       - orthosphere radii, attachment propagation, alpha subcomplex
//	classify/    - interface vs bulk simplices, chromatic partitions
//	subdivision/ - barycenters and chains of interface simplices
//	surface/     - the assembled InterfaceSurface
//
// Configuration:
//
//	ComplexConfig carries the two switches of the computation (Weighted,
//	Alpha). Everything else is a functional Option: worker count, logger,
//	barycenter mode, vertex value source, exact arithmetic and validation.
//
// Errors:
//
//	ErrInvalidInput          - malformed input; nothing is computed.
//	ErrDegenerateGeometry    - the points span no volume, or the
//	                           triangulation failed validation.
//	ErrNumericalInstability  - some predicate could not be certified; the
//	                           surface is still returned with Stable=false.
//
// Quick example:
//
//	s, err := chromatic.ComputeInterfaceSurface(points, colors, radii,
//		chromatic.DefaultConfig(), chromatic.WithWorkers(4))
//	if err != nil {
//		return err
//	}
//	for _, e := range s.Filtration {
//		fmt.Println(e.Simplex, e.Value)
//	}
package chromatic
