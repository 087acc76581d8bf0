// SPDX-License-Identifier: MIT

// Package classify separates interface simplices, whose vertices carry at
// least two colors, from monochromatic bulk simplices.
package classify

import (
	"strconv"
	"strings"

	"github.com/katalvlaran/chromatic/regular"
)

// IsInterface reports whether the vertices of a simplex span two or more
// colors. Single vertices are never interface simplices.
func IsInterface(vertices []int, colors []int) bool {
	if len(vertices) < 2 {
		return false
	}
	for _, v := range vertices[1:] {
		if colors[v] != colors[vertices[0]] {
			return true
		}
	}

	return false
}

// Split partitions the retained simplices of cx into interface and bulk
// index lists, both ascending.
func Split(cx *regular.Complex, retained []bool, colors []int) (iface, bulk []int) {
	for i := 0; i < cx.Len(); i++ {
		if !retained[i] {
			continue
		}
		if IsInterface(cx.Simplex(i).Vertices(), colors) {
			iface = append(iface, i)
		} else {
			bulk = append(bulk, i)
		}
	}

	return iface, bulk
}

// Partition groups the vertices of a simplex by color. Classes are ordered
// by their first vertex; vertices keep their input order inside a class.
func Partition(vertices []int, colors []int) [][]int {
	var classes [][]int
	slot := make(map[int]int, len(vertices))
	for _, v := range vertices {
		c := colors[v]
		k, ok := slot[c]
		if !ok {
			k = len(classes)
			slot[c] = k
			classes = append(classes, nil)
		}
		classes[k] = append(classes[k], v)
	}

	return classes
}

// Signature returns the class sizes of Partition in descending order, the
// chromatic type of a simplex (e.g. [2 2], [2 1 1]).
func Signature(vertices []int, colors []int) []int {
	parts := Partition(vertices, colors)
	sig := make([]int, len(parts))
	for i, p := range parts {
		sig[i] = len(p)
	}
	for i := 1; i < len(sig); i++ {
		for j := i; j > 0 && sig[j] > sig[j-1]; j-- {
			sig[j], sig[j-1] = sig[j-1], sig[j]
		}
	}

	return sig
}

// Census counts the interface simplices of each chromatic type, keyed by
// the joined Signature ("2+2", "2+1+1", "1+1"). Simplices of every
// dimension are counted.
func Census(cx *regular.Complex, iface []int, colors []int) map[string]int {
	out := make(map[string]int, 8)
	var b strings.Builder
	for _, i := range iface {
		b.Reset()
		for j, n := range Signature(cx.Simplex(i).Vertices(), colors) {
			if j > 0 {
				b.WriteByte('+')
			}
			b.WriteString(strconv.Itoa(n))
		}
		out[b.String()]++
	}

	return out
}

// Multicolored returns the tetrahedra of cx whose vertices span at least two
// colors and that are retained.
func Multicolored(cx *regular.Complex, retained []bool, colors []int) [][4]int {
	var out [][4]int
	lo, hi := cx.Range(3)
	for i := lo; i < hi; i++ {
		if !retained[i] {
			continue
		}
		vs := cx.Simplex(i).Vertices()
		if IsInterface(vs, colors) {
			out = append(out, [4]int{vs[0], vs[1], vs[2], vs[3]})
		}
	}

	return out
}
