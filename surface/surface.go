// SPDX-License-Identifier: MIT

// Package surface holds the assembled interface surface: barycenter vertices
// and the filtered simplicial complex built on them.
package surface

import (
	"errors"
	"sort"

	"github.com/golang/geo/r3"
	perrors "github.com/pkg/errors"
)

// ErrInconsistent reports an assembly whose parts do not fit together.
var ErrInconsistent = errors.New("surface: inconsistent assembly")

// Entry is one simplex of the surface with its filtration value. Simplex
// holds ascending indices into InterfaceSurface.Vertices.
type Entry struct {
	Simplex []int
	Value   float64
}

// Dim is the dimension of the entry's simplex.
func (e Entry) Dim() int { return len(e.Simplex) - 1 }

// Less orders entries by value, then dimension, then vertex tuple.
func (e Entry) Less(o Entry) bool {
	if e.Value != o.Value {
		return e.Value < o.Value
	}
	if len(e.Simplex) != len(o.Simplex) {
		return len(e.Simplex) < len(o.Simplex)
	}
	for i := range e.Simplex {
		if e.Simplex[i] != o.Simplex[i] {
			return e.Simplex[i] < o.Simplex[i]
		}
	}

	return false
}

// InterfaceSurface is immutable once assembled.
type InterfaceSurface struct {
	// Vertices are barycenters of interface simplices of the triangulation.
	Vertices []r3.Vector
	// Filtration is sorted by (value, dimension, vertex tuple).
	Filtration []Entry
	// Carriers[i] is the point tuple whose barycenter is Vertices[i].
	Carriers [][]int

	Weighted bool
	Alpha    bool
	// Stable is false when some geometric predicate was not certified.
	Stable bool
}

type entryKey [3]int

func keyOf(s []int) entryKey {
	k := entryKey{-1, -1, -1}
	copy(k[:], s)

	return k
}

// Assemble checks and packages a surface.
//
// Stages:
//  1. one carrier per vertex;
//  2. every entry has 1..3 ascending, in-range vertex indices and appears once;
//  3. entries are sorted;
//  4. every vertex has its own entry;
//  5. every face of an entry is an entry with a value no larger.
//
// Contract: the inputs are retained, not copied; the caller hands them over.
// Errors wrap ErrInconsistent and name the first offending entry.
//
// Complexity: O(E) expected for E entries: one map insertion and at most
// three face lookups each.
func Assemble(vertices []r3.Vector, carriers [][]int, entries []Entry, weighted, alpha, stable bool) (*InterfaceSurface, error) {
	// Stage 1
	if len(carriers) != len(vertices) {
		return nil, perrors.Wrapf(ErrInconsistent, "%d carriers for %d vertices", len(carriers), len(vertices))
	}

	// Stage 2
	values := make(map[entryKey]float64, len(entries))
	for i, e := range entries {
		if len(e.Simplex) == 0 || len(e.Simplex) > 3 {
			return nil, perrors.Wrapf(ErrInconsistent, "entry %d has %d vertices", i, len(e.Simplex))
		}
		for j, v := range e.Simplex {
			if v < 0 || v >= len(vertices) {
				return nil, perrors.Wrapf(ErrInconsistent, "entry %d references vertex %d of %d", i, v, len(vertices))
			}
			if j > 0 && v <= e.Simplex[j-1] {
				return nil, perrors.Wrapf(ErrInconsistent, "entry %d is not in canonical order: %v", i, e.Simplex)
			}
		}
		k := keyOf(e.Simplex)
		if _, dup := values[k]; dup {
			return nil, perrors.Wrapf(ErrInconsistent, "entry %v appears twice", e.Simplex)
		}
		values[k] = e.Value
	}

	// Stage 3
	if !sort.SliceIsSorted(entries, func(i, j int) bool { return entries[i].Less(entries[j]) }) {
		return nil, perrors.Wrap(ErrInconsistent, "filtration is not sorted")
	}

	// Stage 4
	for v := range vertices {
		if _, ok := values[keyOf([]int{v})]; !ok {
			return nil, perrors.Wrapf(ErrInconsistent, "vertex %d has no entry", v)
		}
	}

	// Stage 5
	for _, e := range entries {
		if len(e.Simplex) == 1 {
			continue
		}
		for skip := range e.Simplex {
			face := make([]int, 0, 2)
			face = append(face, e.Simplex[:skip]...)
			face = append(face, e.Simplex[skip+1:]...)
			fv, ok := values[keyOf(face)]
			if !ok {
				return nil, perrors.Wrapf(ErrInconsistent, "face %v of %v is missing", face, e.Simplex)
			}
			if fv > e.Value {
				return nil, perrors.Wrapf(ErrInconsistent, "face %v enters at %g after %v at %g", face, fv, e.Simplex, e.Value)
			}
		}
	}

	return &InterfaceSurface{
		Vertices:   vertices,
		Filtration: entries,
		Carriers:   carriers,
		Weighted:   weighted,
		Alpha:      alpha,
		Stable:     stable,
	}, nil
}

// Counts returns the number of vertices, edges and triangles.
func (s *InterfaceSurface) Counts() (v, e, f int) {
	var c [3]int
	for _, en := range s.Filtration {
		c[en.Dim()]++
	}

	return c[0], c[1], c[2]
}

// EulerCharacteristic is V − E + F.
func (s *InterfaceSurface) EulerCharacteristic() int {
	v, e, f := s.Counts()

	return v - e + f
}

// Sublevel returns the prefix of the filtration with value ≤ alpha. The
// prefix is itself a simplicial complex.
func (s *InterfaceSurface) Sublevel(alpha float64) []Entry {
	n := sort.Search(len(s.Filtration), func(i int) bool { return s.Filtration[i].Value > alpha })

	return s.Filtration[:n]
}
