// SPDX-License-Identifier: MIT

package chromatic

import (
	"github.com/katalvlaran/chromatic/pointset"
	"github.com/katalvlaran/chromatic/predicates"
	"github.com/katalvlaran/chromatic/regular"
	"github.com/katalvlaran/chromatic/surface"
)

// Sentinel errors, matchable with errors.Is.
var (
	// ErrInvalidInput reports malformed input.
	ErrInvalidInput = pointset.ErrInvalidInput

	// ErrDegenerateGeometry reports input without volume (coplanar or
	// collinear points) or a triangulation that failed validation.
	ErrDegenerateGeometry = regular.ErrDegenerateGeometry

	// ErrNumericalInstability reports predicates that could not be
	// certified. It accompanies a best-effort result.
	ErrNumericalInstability = predicates.ErrNumericalInstability

	// ErrInconsistent reports an internal assembly failure.
	ErrInconsistent = surface.ErrInconsistent
)
