package regular_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/chromatic/pointset"
	"github.com/katalvlaran/chromatic/predicates"
	"github.com/katalvlaran/chromatic/regular"
)

func randomSet(t testing.TB, n int, seed int64, weighted bool) *pointset.Set {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	pts := make([]r3.Vector, n)
	radii := make([]float64, n)
	colors := make([]int, n)
	for i := range pts {
		pts[i] = r3.Vector{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
		radii[i] = 0.2 * rng.Float64()
		colors[i] = i % 3
	}
	s, err := pointset.New(pts, colors, radii, weighted)
	require.NoError(t, err)

	return s
}

func lattice(t testing.TB, k int) *pointset.Set {
	t.Helper()
	var pts []r3.Vector
	for x := 0; x < k; x++ {
		for y := 0; y < k; y++ {
			for z := 0; z < k; z++ {
				pts = append(pts, r3.Vector{X: float64(x), Y: float64(y), Z: float64(z)})
			}
		}
	}
	s, err := pointset.New(pts, make([]int, len(pts)), nil, false)
	require.NoError(t, err)

	return s
}

func build(t *testing.T, s *pointset.Set) (*regular.Triangulation, *regular.Complex) {
	t.Helper()
	tri, err := regular.Build(s)
	require.NoError(t, err)
	cx, err := regular.NewComplex(s, tri)
	require.NoError(t, err)
	require.NoError(t, regular.Validate(cx))

	return tri, cx
}

// twoGroups is a degenerate cloud: five points on the z = 0 hull face,
// three of them collinear, and a cocircular quadruple.
func twoGroups(t testing.TB, weighted bool) *pointset.Set {
	t.Helper()
	pts := []r3.Vector{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0.5, Y: 1, Z: 0}, {X: 0.5, Y: 0.5, Z: 1},
		{X: 2, Y: 0, Z: 0}, {X: 2.5, Y: 1, Z: 0}, {X: 2.5, Y: 0.5, Z: 1}, {X: 1.5, Y: 0.5, Z: 0.5},
	}
	radii := []float64{0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3}
	s, err := pointset.New(pts, []int{1, 1, 1, 1, 2, 2, 2, 2}, radii, weighted)
	require.NoError(t, err)

	return s
}

// assertRegular checks, with the predicates the builder uses, that no point
// is in conflict with any tetrahedron that does not contain it.
func assertRegular(t *testing.T, s *pointset.Set, tri *regular.Triangulation) {
	t.Helper()
	k := predicates.New(s)
	for _, tet := range tri.Tetrahedra {
		o := k.Orient3(tet[0], tet[1], tet[2], tet[3])
		require.NotZero(t, o, "flat tetrahedron %v", tet)
		for q := 0; q < s.Len(); q++ {
			if q == tet[0] || q == tet[1] || q == tet[2] || q == tet[3] {
				continue
			}
			conflict := k.Orient4(tet[0], tet[1], tet[2], tet[3], q) == o
			assert.False(t, conflict, "point %d conflicts with %v", q, tet)
		}
	}
}

// assertSolid checks in plain floating point that every tetrahedron has
// volume and that no point lies strictly inside an orthosphere.
func assertSolid(t *testing.T, s *pointset.Set, tri *regular.Triangulation) {
	t.Helper()
	const tol = 1e-9
	for _, tet := range tri.Tetrahedra {
		p := [4]r3.Vector{s.Point(tet[0]), s.Point(tet[1]), s.Point(tet[2]), s.Point(tet[3])}
		a := [3]r3.Vector{p[1].Sub(p[0]).Mul(2), p[2].Sub(p[0]).Mul(2), p[3].Sub(p[0]).Mul(2)}
		det := a[0].Dot(a[1].Cross(a[2]))
		require.Greater(t, math.Abs(det)/48, tol, "tetrahedron %v has no volume", tet)

		// orthocenter: 2(pᵢ−p₀)·c = |pᵢ|²−wᵢ − |p₀|²+w₀
		var b [3]float64
		for i := 0; i < 3; i++ {
			b[i] = s.Lifted(tet[i+1]) - s.Lifted(tet[0])
		}
		c := a[1].Cross(a[2]).Mul(b[0]).
			Add(a[2].Cross(a[0]).Mul(b[1])).
			Add(a[0].Cross(a[1]).Mul(b[2])).
			Mul(1 / det)
		rho := c.Sub(p[0]).Norm2() - s.Weight(tet[0])
		for q := 0; q < s.Len(); q++ {
			if q == tet[0] || q == tet[1] || q == tet[2] || q == tet[3] {
				continue
			}
			power := c.Sub(s.Point(q)).Norm2() - s.Weight(q)
			assert.GreaterOrEqual(t, power, rho-tol*(1+math.Abs(rho)), "point %d inside the orthosphere of %v", q, tet)
		}
	}
}

func TestBuild_SingleTetrahedron(t *testing.T) {
	pts := []r3.Vector{{}, {X: 1}, {Y: 1}, {Z: 1}}
	s, err := pointset.New(pts, []int{0, 0, 1, 1}, nil, false)
	require.NoError(t, err)

	tri, cx := build(t, s)
	assert.Equal(t, [][4]int{{0, 1, 2, 3}}, tri.Tetrahedra)
	assert.Len(t, tri.Hull, 4)
	assert.Empty(t, tri.Hidden)
	assert.Equal(t, 15, cx.Len())
	for d, want := range []int{4, 6, 4, 1} {
		assert.Equal(t, want, cx.Count(d), "dimension %d", d)
	}
}

func TestBuild_RandomIsRegular(t *testing.T) {
	for _, weighted := range []bool{false, true} {
		s := randomSet(t, 60, 7, weighted)
		tri, _ := build(t, s)
		assert.True(t, tri.Stable)
		assertRegular(t, s, tri)
		assertSolid(t, s, tri)
		if !weighted {
			assert.Empty(t, tri.Hidden, "unweighted distinct points are always vertices")
		}
	}
}

func TestBuild_LatticeIsDegenerateButValid(t *testing.T) {
	s := lattice(t, 3)
	tri, cx := build(t, s)

	assert.Empty(t, tri.Hidden)
	assert.Equal(t, 27, cx.Count(0))
	assert.Positive(t, tri.Stats.Perturbed, "cospherical ties need the perturbation")
	assert.Positive(t, tri.Stats.Zero, "coplanar quadruples are reported, not perturbed")
	assert.True(t, tri.Stable)
	assertRegular(t, s, tri)
	assertSolid(t, s, tri)
}

func TestBuild_TwoGroupsHasNoFlatCells(t *testing.T) {
	for _, weighted := range []bool{false, true} {
		s := twoGroups(t, weighted)
		tri, cx := build(t, s)

		assert.Empty(t, tri.Hidden, "weighted=%t", weighted)
		assertRegular(t, s, tri)
		assertSolid(t, s, tri)

		// 0, 1, 4 are collinear on the hull; 1, 2, 4, 5 share the z = 0 face
		_, ok := cx.Index(0, 1, 4)
		assert.False(t, ok, "collinear triple is not a triangle")
		_, ok = cx.Index(1, 2, 4, 5)
		assert.False(t, ok, "coplanar quadruple is not a tetrahedron")
	}
}

func TestBuild_WeightsDoNotMatterWhenEqual(t *testing.T) {
	// equal radii shift every lift by the same constant
	plain, err := regular.Build(twoGroups(t, false))
	require.NoError(t, err)
	equal, err := regular.Build(twoGroups(t, true))
	require.NoError(t, err)
	assert.Equal(t, plain.Tetrahedra, equal.Tetrahedra)
	assert.Equal(t, plain.Hull, equal.Hull)
}

func TestBuild_WeightHidesPoint(t *testing.T) {
	pts := []r3.Vector{{}, {X: 1}, {Y: 1}, {Z: 1}, {X: 0.25, Y: 0.25, Z: 0.25}}
	radii := []float64{2, 2, 2, 2, 0}

	s, err := pointset.New(pts, make([]int, 5), radii, true)
	require.NoError(t, err)
	tri, _ := build(t, s)
	assert.Equal(t, []int{4}, tri.Hidden)
	assert.Len(t, tri.Tetrahedra, 1)

	s, err = pointset.New(pts, make([]int, 5), radii, false)
	require.NoError(t, err)
	tri, _ = build(t, s)
	assert.Empty(t, tri.Hidden)
	assert.Len(t, tri.Tetrahedra, 4)
}

func TestBuild_DuplicatesCollapse(t *testing.T) {
	base := randomSet(t, 12, 3, false)
	pts := append(append([]r3.Vector(nil), base.Points()...), base.Point(0), base.Point(5))
	s, err := pointset.New(pts, make([]int, len(pts)), nil, false)
	require.NoError(t, err)

	tri, cx := build(t, s)
	assert.Equal(t, []int{12, 13}, tri.Hidden, "equal weights keep the lower index")
	assert.Equal(t, 12, cx.Count(0))
	assertSolid(t, s, tri)
}

func TestBuild_DuplicateKeepsHeavierCopy(t *testing.T) {
	pts := []r3.Vector{{}, {X: 1}, {Y: 1}, {Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1}}
	radii := []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.3}
	s, err := pointset.New(pts, []int{0, 0, 0, 0, 0, 1}, radii, true)
	require.NoError(t, err)

	tri, cx := build(t, s)
	assert.Equal(t, []int{1}, tri.Hidden)
	_, ok := cx.Index(1)
	assert.False(t, ok)
	_, ok = cx.Index(5)
	assert.True(t, ok)
	assertSolid(t, s, tri)

	// unweighted, the copies tie and the first one stays
	s, err = pointset.New(pts, make([]int, len(pts)), nil, false)
	require.NoError(t, err)
	tri, _ = build(t, s)
	assert.Equal(t, []int{5}, tri.Hidden)
}

func TestBuild_FlatInputIsRejected(t *testing.T) {
	var grid []r3.Vector
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			grid = append(grid, r3.Vector{X: float64(i), Y: float64(j)})
		}
	}
	cases := []struct {
		name string
		pts  []r3.Vector
	}{
		{"planar grid", grid},
		{"collinear", []r3.Vector{{}, {X: 1}, {X: 2}, {X: 3}, {X: 4}}},
		{"three distinct", []r3.Vector{{}, {X: 1}, {Y: 1}, {}, {X: 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := pointset.New(tc.pts, make([]int, len(tc.pts)), nil, false)
			require.NoError(t, err)
			_, err = regular.Build(s)
			assert.ErrorIs(t, err, regular.ErrDegenerateGeometry)
		})
	}
}

func TestBuild_SeedSkipsDegenerateLeaders(t *testing.T) {
	// the first four points are coplanar, the first three collinear
	pts := []r3.Vector{{}, {X: 1}, {X: 2}, {Y: 1}, {Z: 1}, {X: 1, Y: 1, Z: 1}}
	s, err := pointset.New(pts, make([]int, len(pts)), nil, false)
	require.NoError(t, err)

	tri, cx := build(t, s)
	assert.Empty(t, tri.Hidden)
	assert.Equal(t, 6, cx.Count(0))
	assertRegular(t, s, tri)
	assertSolid(t, s, tri)
}

func TestValidate_Rejects(t *testing.T) {
	corner := []r3.Vector{{}, {X: 1}, {Y: 1}, {Z: 1}}
	cases := []struct {
		name  string
		extra r3.Vector
		tri   regular.Triangulation
	}{
		{
			name:  "boundary triangles not on the hull",
			extra: r3.Vector{X: 5, Y: 5, Z: 5},
			tri:   regular.Triangulation{Tetrahedra: [][4]int{{0, 1, 2, 3}}},
		},
		{
			name:  "flat tetrahedron",
			extra: r3.Vector{X: 0.5, Y: 0.5},
			tri: regular.Triangulation{
				Tetrahedra: [][4]int{{0, 1, 2, 4}},
				Hull:       [][3]int{{0, 1, 2}, {0, 1, 4}, {0, 2, 4}, {1, 2, 4}},
			},
		},
		{
			name:  "overlapping tetrahedra",
			extra: r3.Vector{X: 0.2, Y: 0.2, Z: 0.2},
			tri: regular.Triangulation{
				Tetrahedra: [][4]int{{0, 1, 2, 3}, {0, 1, 2, 4}},
				Hull:       [][3]int{{0, 1, 3}, {0, 2, 3}, {1, 2, 3}, {0, 1, 4}, {0, 2, 4}, {1, 2, 4}},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pts := append(append([]r3.Vector(nil), corner...), tc.extra)
			s, err := pointset.New(pts, make([]int, len(pts)), nil, false)
			require.NoError(t, err)
			cx, err := regular.NewComplex(s, &tc.tri)
			require.NoError(t, err)
			assert.ErrorIs(t, regular.Validate(cx), regular.ErrDegenerateGeometry)
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	s := randomSet(t, 40, 11, true)
	a, err := regular.Build(s)
	require.NoError(t, err)
	b, err := regular.Build(s)
	require.NoError(t, err)
	assert.Equal(t, a.Tetrahedra, b.Tetrahedra)
	assert.Equal(t, a.Hidden, b.Hidden)
}

func TestBuild_TooFewPoints(t *testing.T) {
	_, err := regular.Build(nil)
	assert.ErrorIs(t, err, pointset.ErrInvalidInput)
}

func TestComplex_Links(t *testing.T) {
	s := randomSet(t, 25, 5, false)
	_, cx := build(t, s)

	for i := 0; i < cx.Len(); i++ {
		sx := cx.Simplex(i)
		assert.Len(t, sx.Faces, dimFaces(sx.Dim()))
		for _, f := range sx.Faces {
			assert.Contains(t, cx.Simplex(f).Cofaces, i)
			assert.Equal(t, sx.Dim()-1, cx.Simplex(f).Dim())
		}
		got, ok := cx.Index(sx.Vertices()...)
		require.True(t, ok)
		assert.Equal(t, i, got)
	}

	lo, _ := cx.Range(3)
	assert.Len(t, cx.Subfaces(lo), 14)
	_, ok := cx.Index()
	assert.False(t, ok)
}

func TestComplex_HullFlags(t *testing.T) {
	s := lattice(t, 3)
	_, cx := build(t, s)
	center, ok := cx.Index(13) // (1,1,1)
	require.True(t, ok)
	assert.False(t, cx.Simplex(center).OnHull)
	corner, ok := cx.Index(0)
	require.True(t, ok)
	assert.True(t, cx.Simplex(corner).OnHull)
}

func TestMakeKey(t *testing.T) {
	k := regular.MakeKey(7, 2, 5)
	assert.Equal(t, regular.Key{2, 5, 7, -1}, k)
	assert.Equal(t, 2, k.Dim())
	assert.Equal(t, []int{2, 5, 7}, k.Vertices())
	assert.True(t, regular.MakeKey(9).Less(k))
	assert.Panics(t, func() { regular.MakeKey() })
}

func dimFaces(d int) int {
	if d == 0 {
		return 0
	}

	return d + 1
}
