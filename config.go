// SPDX-License-Identifier: MIT

package chromatic

// ComplexConfig selects which complex the surface is built from.
type ComplexConfig struct {
	// Weighted uses radius² as point weight in every geometric test.
	Weighted bool
	// Alpha restricts the output to the alpha subcomplex and uses alpha
	// values for the filtration; otherwise every value is 0.
	Alpha bool
}

// DefaultConfig is the weighted alpha complex.
func DefaultConfig() ComplexConfig {
	return ComplexConfig{Weighted: true, Alpha: true}
}
