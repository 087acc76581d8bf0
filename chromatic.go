// SPDX-License-Identifier: MIT

package chromatic

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	perrors "github.com/pkg/errors"

	"github.com/katalvlaran/chromatic/alpha"
	"github.com/katalvlaran/chromatic/classify"
	"github.com/katalvlaran/chromatic/pointset"
	"github.com/katalvlaran/chromatic/regular"
	"github.com/katalvlaran/chromatic/subdivision"
	"github.com/katalvlaran/chromatic/surface"
)

// ComputeInterfaceSurface builds the interface surface of a colored point
// cloud.
//
// Inputs:
//   - points: at least four coordinates.
//   - colors: one label per point.
//   - radii: one non-negative radius per point; ignored (may be nil) unless
//     cfg.Weighted.
//
// Errors:
//   - ErrInvalidInput for malformed input.
//   - ErrDegenerateGeometry when the distinct points are coplanar or the
//     triangulation fails validation.
//   - ErrNumericalInstability together with a surface whose Stable is false.
//
// A single-colored cloud yields an empty surface and no error.
func ComputeInterfaceSurface(points []r3.Vector, colors []int, radii []float64, cfg ComplexConfig, opts ...Option) (*surface.InterfaceSurface, error) {
	return ComputeInterfaceSurfaceContext(context.Background(), points, colors, radii, cfg, opts...)
}

// ComputeInterfaceSurfaceContext is ComputeInterfaceSurface with
// cancellation between and inside the parallel stages.
func ComputeInterfaceSurfaceContext(ctx context.Context, points []r3.Vector, colors []int, radii []float64, cfg ComplexConfig, opts ...Option) (*surface.InterfaceSurface, error) {
	o := gatherOptions(opts...)
	r := newRun(o, cfg)

	st, err := r.complex(ctx, points, colors, radii)
	if err != nil {
		return nil, err
	}

	iface, bulk := classify.Split(st.cx, st.filt.Retained, st.set.Colors())
	r.log.Debug("classified",
		slog.Int("interface", len(iface)),
		slog.Int("bulk", len(bulk)),
		slog.Any("signatures", classify.Census(st.cx, iface, st.set.Colors())))

	start := time.Now()
	sub, err := subdivision.Build(ctx, st.cx, st.filt.Values, iface, o.subdivisionOptions()...)
	if err != nil {
		return nil, err
	}
	r.log.Debug("subdivided",
		slog.Int("vertices", len(sub.Vertices)),
		slog.Int("entries", len(sub.Entries)),
		slog.Duration("took", time.Since(start)))

	tri := st.cx.Triangulation()
	surf, err := surface.Assemble(sub.Vertices, sub.Carriers, sub.Entries, cfg.Weighted, cfg.Alpha, tri.Stable)
	if err != nil {
		return nil, err
	}
	if !surf.Stable {
		r.log.Warn("uncertified predicates",
			slog.Int("ambiguous", tri.Stats.Ambiguous))
		return surf, perrors.Wrapf(ErrNumericalInstability, "%d predicate signs taken from floating point", tri.Stats.Ambiguous)
	}

	return surf, nil
}

// GetBarycentricSubdivisionAndFiltration returns the vertices and the sorted
// filtration of the interface surface. On ErrNumericalInstability the
// best-effort vertices and filtration are returned with the error.
func GetBarycentricSubdivisionAndFiltration(points []r3.Vector, colors []int, radii []float64, weighted, useAlpha bool, opts ...Option) ([]r3.Vector, []surface.Entry, error) {
	s, err := ComputeInterfaceSurface(points, colors, radii, ComplexConfig{Weighted: weighted, Alpha: useAlpha}, opts...)
	if s == nil {
		return nil, nil, err
	}

	return s.Vertices, s.Filtration, err
}

// MulticoloredTetrahedra returns, as ascending vertex quadruples in
// lexicographic order, the tetrahedra of the complex selected by cfg whose
// vertices carry at least two colors.
func MulticoloredTetrahedra(points []r3.Vector, colors []int, radii []float64, cfg ComplexConfig, opts ...Option) ([][4]int, error) {
	o := gatherOptions(opts...)
	r := newRun(o, cfg)

	st, err := r.complex(context.Background(), points, colors, radii)
	if err != nil {
		return nil, err
	}
	tets := classify.Multicolored(st.cx, st.filt.Retained, st.set.Colors())
	if tri := st.cx.Triangulation(); !tri.Stable {
		return tets, perrors.Wrapf(ErrNumericalInstability, "%d predicate signs taken from floating point", tri.Stats.Ambiguous)
	}

	return tets, nil
}

// run carries the options and logger of one call.
type run struct {
	opts Options
	cfg  ComplexConfig
	log  *slog.Logger
}

func newRun(o Options, cfg ComplexConfig) *run {
	return &run{
		opts: o,
		cfg:  cfg,
		log: o.logger.With(
			slog.String("component", "chromatic"),
			slog.String("run_id", uuid.NewString()),
			slog.Bool("weighted", cfg.Weighted),
			slog.Bool("alpha", cfg.Alpha)),
	}
}

// stages holds the shared intermediate results.
type stages struct {
	set  *pointset.Set
	cx   *regular.Complex
	filt *alpha.Filtration
}

// complex runs validation, triangulation and filtration.
func (r *run) complex(ctx context.Context, points []r3.Vector, colors []int, radii []float64) (*stages, error) {
	var st stages
	var err error

	// Stage 1: input.
	if st.set, err = pointset.New(points, colors, radii, r.cfg.Weighted); err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, perrors.Wrap(err, "chromatic: before triangulation")
	}

	// Stage 2: regular triangulation.
	start := time.Now()
	tri, err := regular.Build(st.set, regular.WithExact(r.opts.exact))
	if err != nil {
		return nil, err
	}
	if st.cx, err = regular.NewComplex(st.set, tri); err != nil {
		return nil, err
	}
	if r.opts.validate {
		if err = regular.Validate(st.cx); err != nil {
			return nil, err
		}
	}
	r.log.Debug("triangulated",
		slog.Int("points", st.set.Len()),
		slog.Int("colors", st.set.ColorCount()),
		slog.Int("tetrahedra", st.cx.Count(3)),
		slog.Int("hidden", len(tri.Hidden)),
		slog.Int("perturbed", tri.Stats.Perturbed),
		slog.Int("exact", tri.Stats.Exact),
		slog.Duration("took", time.Since(start)))
	if err = ctx.Err(); err != nil {
		return nil, perrors.Wrap(err, "chromatic: before filtration")
	}

	// Stage 3: filtration values.
	start = time.Now()
	if st.filt, err = alpha.Compute(ctx, st.cx, r.cfg.Alpha, alpha.WithWorkers(r.opts.workers)); err != nil {
		return nil, err
	}
	r.log.Debug("filtered",
		slog.Int("retained", st.filt.Len()),
		slog.Int("simplices", st.cx.Len()),
		slog.Duration("took", time.Since(start)))

	return &st, nil
}
