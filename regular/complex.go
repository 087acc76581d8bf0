// SPDX-License-Identifier: MIT

package regular

import (
	"sort"

	perrors "github.com/pkg/errors"

	"github.com/katalvlaran/chromatic/pointset"
)

// Key is the canonical form of a simplex: ascending vertex ids padded with -1.
type Key [4]int

// MakeKey returns the canonical key of the given vertex ids.
// It panics on more than four ids.
func MakeKey(vertices ...int) Key {
	if len(vertices) == 0 || len(vertices) > 4 {
		panic("regular: a simplex has between 1 and 4 vertices")
	}
	k := Key{-1, -1, -1, -1}
	copy(k[:], vertices)
	sort.Ints(k[:len(vertices)])

	return k
}

// Dim is the dimension of the simplex the key names.
func (k Key) Dim() int {
	d := -1
	for _, v := range k {
		if v >= 0 {
			d++
		}
	}

	return d
}

// Vertices returns the vertex ids of k.
func (k Key) Vertices() []int {
	return append([]int(nil), k[:k.Dim()+1]...)
}

// Less orders keys by dimension, then lexicographically.
func (k Key) Less(o Key) bool {
	if dk, do := k.Dim(), o.Dim(); dk != do {
		return dk < do
	}

	return lessInts(k[:], o[:])
}

// Simplex is one entry of a Complex.
type Simplex struct {
	Key     Key
	Faces   []int // codimension-1 faces
	Cofaces []int // codimension-1 cofaces
	OnHull  bool  // lies on the boundary of the convex hull
}

// Dim is the dimension of s.
func (s *Simplex) Dim() int { return s.Key.Dim() }

// Vertices returns the vertex ids of s in ascending order.
func (s *Simplex) Vertices() []int { return s.Key.Vertices() }

// Complex is the full simplicial complex of a regular triangulation.
// Simplices are indexed 0..Len()-1 in (dimension, key) order.
type Complex struct {
	set       *pointset.Set
	tri       *Triangulation
	simplices []Simplex
	index     map[Key]int
	offset    [5]int
}

// NewComplex expands the tetrahedra of tri into every face and links them.
//
// Contract:
//   - tri.Tetrahedra is non-empty; every tri.Hull triangle is a face of
//     some tetrahedron (ErrDegenerateGeometry otherwise);
//   - simplex indices are ordered by dimension, then by vertex tuple, so
//     they are reproducible for a given triangulation;
//   - hull triangles and all their faces are flagged OnHull.
//
// Complexity: O(T log T) for T tetrahedra (15 subsets each, one sort).
func NewComplex(set *pointset.Set, tri *Triangulation) (*Complex, error) {
	if set == nil || tri == nil {
		return nil, perrors.Wrap(ErrDegenerateGeometry, "regular: nil input")
	}
	if len(tri.Tetrahedra) == 0 {
		return nil, perrors.Wrap(ErrDegenerateGeometry, "regular: no tetrahedra")
	}

	seen := make(map[Key]struct{}, 8*len(tri.Tetrahedra))
	var keys []Key
	add := func(vs ...int) {
		k := MakeKey(vs...)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	for _, t := range tri.Tetrahedra {
		for mask := 1; mask < 16; mask++ {
			var vs []int
			for i := 0; i < 4; i++ {
				if mask&(1<<i) != 0 {
					vs = append(vs, t[i])
				}
			}
			add(vs...)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	c := &Complex{
		set:       set,
		tri:       tri,
		simplices: make([]Simplex, len(keys)),
		index:     make(map[Key]int, len(keys)),
	}
	for i, k := range keys {
		c.simplices[i].Key = k
		c.index[k] = i
		c.offset[k.Dim()+1] = i + 1
	}
	for d := 1; d <= 4; d++ {
		if c.offset[d] < c.offset[d-1] {
			c.offset[d] = c.offset[d-1]
		}
	}

	for i := range c.simplices {
		vs := c.simplices[i].Key.Vertices()
		if len(vs) < 2 {
			continue
		}
		for skip := range vs {
			face := make([]int, 0, len(vs)-1)
			face = append(face, vs[:skip]...)
			face = append(face, vs[skip+1:]...)
			f := c.index[MakeKey(face...)]
			c.simplices[i].Faces = append(c.simplices[i].Faces, f)
			c.simplices[f].Cofaces = append(c.simplices[f].Cofaces, i)
		}
		sort.Ints(c.simplices[i].Faces)
	}

	for _, h := range tri.Hull {
		i, ok := c.index[MakeKey(h[:]...)]
		if !ok {
			return nil, perrors.Wrapf(ErrDegenerateGeometry, "hull triangle %v is not a face of any tetrahedron", h)
		}
		c.markHull(i)
	}

	return c, nil
}

func (c *Complex) markHull(i int) {
	if c.simplices[i].OnHull {
		return
	}
	c.simplices[i].OnHull = true
	for _, f := range c.simplices[i].Faces {
		c.markHull(f)
	}
}

// Set returns the point set the complex was built on.
func (c *Complex) Set() *pointset.Set { return c.set }

// Triangulation returns the underlying triangulation.
func (c *Complex) Triangulation() *Triangulation { return c.tri }

// Len is the number of simplices.
func (c *Complex) Len() int { return len(c.simplices) }

// Simplex returns the simplex with index i.
func (c *Complex) Simplex(i int) *Simplex { return &c.simplices[i] }

// Range returns the index interval [lo, hi) holding the simplices of
// dimension d.
func (c *Complex) Range(d int) (lo, hi int) {
	if d < 0 || d > 3 {
		return 0, 0
	}

	return c.offset[d], c.offset[d+1]
}

// Count returns the number of simplices of dimension d.
func (c *Complex) Count(d int) int {
	lo, hi := c.Range(d)

	return hi - lo
}

// Index looks up the simplex spanned by the given vertex ids.
func (c *Complex) Index(vertices ...int) (int, bool) {
	if len(vertices) == 0 || len(vertices) > 4 {
		return -1, false
	}
	i, ok := c.index[MakeKey(vertices...)]

	return i, ok
}

// Subfaces returns the indices of every proper face of simplex i, ascending.
func (c *Complex) Subfaces(i int) []int {
	vs := c.simplices[i].Key.Vertices()
	var out []int
	full := 1<<len(vs) - 1
	for mask := 1; mask < full; mask++ {
		var face []int
		for j, v := range vs {
			if mask&(1<<j) != 0 {
				face = append(face, v)
			}
		}
		out = append(out, c.index[MakeKey(face...)])
	}
	sort.Ints(out)

	return out
}
