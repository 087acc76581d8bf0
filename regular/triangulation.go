// SPDX-License-Identifier: MIT

package regular

import (
	"errors"
	"sort"

	"github.com/golang/geo/r3"
	perrors "github.com/pkg/errors"

	"github.com/katalvlaran/chromatic/pointset"
	"github.com/katalvlaran/chromatic/predicates"
)

// ErrDegenerateGeometry reports input without volume (fewer than four
// affinely independent points) or a triangulation that failed a consistency
// check.
var ErrDegenerateGeometry = errors.New("regular: degenerate geometry")

// omega is the vertex id of the point at vertical infinity.
const omega = -1

// Triangulation is the result of Build.
type Triangulation struct {
	// Tetrahedra holds sorted vertex quadruples in lexicographic order.
	Tetrahedra [][4]int

	// Hull holds the sorted vertex triples of the convex hull boundary.
	Hull [][3]int

	// Hidden lists, ascending, the points that are not vertices.
	Hidden []int

	// Stable is false when some predicate sign was not certified.
	Stable bool

	// Stats summarizes predicate resolution.
	Stats predicates.Stats
}

// Options configures Build.
type Options struct {
	exact bool
}

// Option mutates Options.
type Option func(*Options)

// WithExact toggles the exact-arithmetic fallback of the predicates.
func WithExact(on bool) Option {
	return func(o *Options) { o.exact = on }
}

// cell is one facet of the lifted hull: four vertex ids (omega allowed) and
// the neighbor across the face opposite each slot. Cells are positively
// oriented: Orient3 > 0 for finite cells; for cells through omega, putting a
// point beyond the hull triangle into omega's slot gives Orient3 > 0.
type cell struct {
	v     [4]int
	n     [4]int
	alive bool
}

// half names the face of cell c opposite slot s.
type half struct {
	c, s int
}

type builder struct {
	k     *predicates.Kernel
	n     int
	cells []cell
	free  []int
	last  int

	mark  []int
	seen  []bool
	stamp int
	rnd   uint64
}

// Build triangulates set.
//
// Stages:
//  1. collapse exactly coincident points: the copy with the larger weight
//     stays, ties go to the lower index, the others are reported as hidden;
//  2. seed the hull with the first four affinely independent points;
//  3. insert the remaining points in input order.
//
// The result does not depend on the insertion order: ties are broken by the
// index-keyed weight perturbation, which makes the regular triangulation
// unique. No tetrahedron has zero volume.
//
// Complexity: expected O(n log n)…O(n²) predicate calls depending on the
// walk lengths; O(n) cells of memory for well spread input.
//
// Errors: ErrDegenerateGeometry when the distinct points are all coplanar
// or a cavity fails to close.
func Build(set *pointset.Set, opts ...Option) (*Triangulation, error) {
	o := Options{exact: true}
	for _, fn := range opts {
		fn(&o)
	}
	if set == nil || set.Len() < pointset.MinPoints {
		return nil, perrors.Wrap(pointset.ErrInvalidInput, "regular: point set too small")
	}

	b := &builder{
		k:   predicates.New(set, predicates.WithExact(o.exact)),
		n:   set.Len(),
		rnd: 0x9e3779b97f4a7c15,
	}

	// Stage 1
	order := distinct(set)

	// Stage 2
	root, err := b.seed(order)
	if err != nil {
		return nil, err
	}
	if err := b.init(root); err != nil {
		return nil, err
	}

	// Stage 3
	for _, p := range order {
		if p == root[0] || p == root[1] || p == root[2] || p == root[3] {
			continue
		}
		if err := b.insert(p); err != nil {
			return nil, perrors.Wrapf(err, "inserting point %d", p)
		}
	}
	if err := b.checkLinks(); err != nil {
		return nil, err
	}

	return b.result(), nil
}

// distinct returns, ascending, the indices that survive duplicate collapse.
func distinct(set *pointset.Set) []int {
	best := make(map[r3.Vector]int, set.Len())
	for i := 0; i < set.Len(); i++ {
		p := set.Point(i)
		key := r3.Vector{X: p.X + 0, Y: p.Y + 0, Z: p.Z + 0} // fold -0 into +0
		j, ok := best[key]
		if !ok || set.Weight(i) > set.Weight(j) {
			best[key] = i
		}
	}
	order := make([]int, 0, len(best))
	for _, i := range best {
		order = append(order, i)
	}
	sort.Ints(order)

	return order
}

// seed picks the first four affinely independent points of order.
func (b *builder) seed(order []int) ([4]int, error) {
	var root [4]int
	if len(order) < 4 {
		return root, perrors.Wrapf(ErrDegenerateGeometry, "only %d distinct points", len(order))
	}
	root[0], root[1] = order[0], order[1]

	found := false
	for _, p := range order[2:] {
		if !b.k.Collinear(root[0], root[1], p) {
			root[2], found = p, true
			break
		}
	}
	if !found {
		return root, perrors.Wrap(ErrDegenerateGeometry, "all points are collinear")
	}

	for _, p := range order[2:] {
		if p != root[2] && b.k.Orient3(root[0], root[1], root[2], p) != 0 {
			root[3] = p
			return root, nil
		}
	}

	return root, perrors.Wrap(ErrDegenerateGeometry, "all points are coplanar")
}

// init seeds the hull with root and omega: one finite cell and the four
// infinite cells on its faces.
func (b *builder) init(root [4]int) error {
	if b.k.Orient3(root[0], root[1], root[2], root[3]) < 0 {
		root[1], root[2] = root[2], root[1]
	}
	ids := []int{b.alloc(root)}
	for i := 0; i < 4; i++ {
		v := root
		v[i] = omega
		// the beyond side of face i is opposite root[i]: flip to stay positive
		j, k := (i+1)&3, (i+2)&3
		v[j], v[k] = v[k], v[j]
		ids = append(ids, b.alloc(v))
	}
	b.last = ids[0]

	faces := make(map[[3]int]half, 10)
	for _, c := range ids {
		for s := 0; s < 4; s++ {
			b.pair(faces, c, s)
		}
	}
	if len(faces) != 0 {
		return perrors.Wrap(ErrDegenerateGeometry, "initial simplex is not closed")
	}

	return nil
}

// insert adds point p, or leaves it out when it is hidden.
func (b *builder) insert(p int) error {
	seed := b.locate(p)
	if seed < 0 {
		return nil
	}

	// Stage 1: conflict region by BFS over visible cells.
	b.stamp++
	b.mark[seed], b.seen[seed] = b.stamp, true
	stack := []int{seed}
	var region []int
	var horizon []half
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		region = append(region, c)
		for s := 0; s < 4; s++ {
			nb := b.cells[c].n[s]
			if b.mark[nb] != b.stamp {
				b.mark[nb] = b.stamp
				b.seen[nb] = b.visible(nb, p)
				if b.seen[nb] {
					stack = append(stack, nb)
				}
			}
			if !b.seen[nb] {
				horizon = append(horizon, half{c, s})
			}
		}
	}

	// Stage 2: cone from p over the horizon. Region cells stay allocated
	// until every horizon face has been read.
	faces := make(map[[3]int]half, 3*len(horizon))
	for _, h := range horizon {
		old := b.cells[h.c]
		v := old.v
		v[h.s] = p
		nc := b.alloc(v)
		nb := old.n[h.s]
		b.cells[nc].n[h.s] = nb
		for s := 0; s < 4; s++ {
			if b.cells[nb].n[s] == h.c {
				b.cells[nb].n[s] = nc
				break
			}
		}
		for s := 0; s < 4; s++ {
			if s != h.s {
				b.pair(faces, nc, s)
			}
		}
		if !isInfinite(v) {
			b.last = nc
		}
	}
	if len(faces) != 0 {
		return perrors.Wrapf(ErrDegenerateGeometry, "cavity of point %d is not a ball (%d unmatched faces)", p, len(faces))
	}

	// Stage 3: retire the conflict region.
	for _, c := range region {
		b.cells[c].alive = false
		b.free = append(b.free, c)
	}

	return nil
}

// locate returns a cell visible from p, or -1 when p is hidden.
func (b *builder) locate(p int) int {
	c := b.last
	limit := 4*len(b.cells) + 64
	for step := 0; step < limit; step++ {
		cl := &b.cells[c]
		if isInfinite(cl.v) {
			if b.visible(c, p) {
				return c
			}
			break
		}
		next := -1
		start := int(b.next() & 3)
		for t := 0; t < 4; t++ {
			s := (start + t) & 3
			w := cl.v
			w[s] = p
			if b.k.Orient3(w[0], w[1], w[2], w[3]) < 0 {
				next = cl.n[s]
				break
			}
		}
		if next < 0 {
			// p lies in c; lower-hull convexity makes c the only candidate
			if b.visible(c, p) {
				return c
			}
			return -1
		}
		c = next
	}

	// the walk did not settle; scan
	for i := range b.cells {
		if b.cells[i].alive && b.visible(i, p) {
			return i
		}
	}

	return -1
}

// visible reports whether p lies beyond the hull facet c. A point in the
// plane of a hull triangle sees it when it lies inside the triangle's
// orthocircle; that is the power test of the lifted facet restricted to the
// plane, and it agrees with the test of the finite cell below the triangle.
func (b *builder) visible(c, p int) bool {
	v := b.cells[c].v
	for s := 0; s < 4; s++ {
		if v[s] != omega {
			continue
		}
		w := v
		w[s] = p
		if o := b.k.Orient3(w[0], w[1], w[2], w[3]); o != 0 {
			return o > 0
		}
		f := faceKey(v, s)

		return b.k.InOrthocircle(f[0], f[1], f[2], p)
	}

	return b.k.Orient4(v[0], v[1], v[2], v[3], p) > 0
}

// pair links face (c, s) with a previously seen copy of the same face, or
// remembers it.
func (b *builder) pair(faces map[[3]int]half, c, s int) {
	key := faceKey(b.cells[c].v, s)
	if o, ok := faces[key]; ok {
		b.cells[c].n[s] = o.c
		b.cells[o.c].n[o.s] = c
		delete(faces, key)
		return
	}
	faces[key] = half{c, s}
}

func (b *builder) alloc(v [4]int) int {
	nc := cell{v: v, n: [4]int{-1, -1, -1, -1}, alive: true}
	if k := len(b.free); k > 0 {
		id := b.free[k-1]
		b.free = b.free[:k-1]
		b.cells[id] = nc
		return id
	}
	b.cells = append(b.cells, nc)
	b.mark = append(b.mark, 0)
	b.seen = append(b.seen, false)

	return len(b.cells) - 1
}

// next is a xorshift step; it only varies the walk's face order.
func (b *builder) next() uint64 {
	b.rnd ^= b.rnd << 13
	b.rnd ^= b.rnd >> 7
	b.rnd ^= b.rnd << 17

	return b.rnd
}

// checkLinks verifies that neighbor links are alive, reciprocal and agree on
// the shared face.
func (b *builder) checkLinks() error {
	for i, cl := range b.cells {
		if !cl.alive {
			continue
		}
		for s := 0; s < 4; s++ {
			nb := cl.n[s]
			if nb < 0 || !b.cells[nb].alive {
				return perrors.Wrapf(ErrDegenerateGeometry, "cell %d has a dangling neighbor", i)
			}
			back := -1
			for t := 0; t < 4; t++ {
				if b.cells[nb].n[t] == i {
					back = t
				}
			}
			if back < 0 || faceKey(cl.v, s) != faceKey(b.cells[nb].v, back) {
				return perrors.Wrapf(ErrDegenerateGeometry, "cells %d and %d disagree on their shared face", i, nb)
			}
		}
	}

	return nil
}

func (b *builder) result() *Triangulation {
	present := make([]bool, b.n)
	t := &Triangulation{Stable: b.k.Stable(), Stats: b.k.Stats()}
	for _, cl := range b.cells {
		if !cl.alive {
			continue
		}
		if isInfinite(cl.v) {
			var tri [3]int
			k := 0
			for _, v := range cl.v {
				if v != omega {
					tri[k] = v
					k++
				}
			}
			sort.Ints(tri[:])
			t.Hull = append(t.Hull, tri)
			continue
		}
		tet := cl.v
		sort.Ints(tet[:])
		for _, v := range tet {
			present[v] = true
		}
		t.Tetrahedra = append(t.Tetrahedra, tet)
	}
	sort.Slice(t.Tetrahedra, func(i, j int) bool { return lessInts(t.Tetrahedra[i][:], t.Tetrahedra[j][:]) })
	sort.Slice(t.Hull, func(i, j int) bool { return lessInts(t.Hull[i][:], t.Hull[j][:]) })
	for i, ok := range present {
		if !ok {
			t.Hidden = append(t.Hidden, i)
		}
	}

	return t
}

func isInfinite(v [4]int) bool {
	return v[0] == omega || v[1] == omega || v[2] == omega || v[3] == omega
}

// faceKey is the sorted vertex triple of the face opposite slot s.
func faceKey(v [4]int, s int) [3]int {
	var f [3]int
	k := 0
	for i := 0; i < 4; i++ {
		if i != s {
			f[k] = v[i]
			k++
		}
	}
	sort.Ints(f[:])

	return f
}

func lessInts(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}

	return false
}
