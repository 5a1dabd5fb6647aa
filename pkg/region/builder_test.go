package region

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillon/umbra/pkg/diag"
	"github.com/quillon/umbra/pkg/geom"
	"github.com/quillon/umbra/pkg/kernel"
	"github.com/quillon/umbra/pkg/kernel/kerneltest"
	"github.com/quillon/umbra/pkg/silhouette"
)

func testContext(t *testing.T) *silhouette.Context {
	t.Helper()
	ctx, err := silhouette.NewContext(1e-3, 1e-2, geom.Vec3{Z: -1}, geom.NewPlane(geom.Vec3{}, geom.Vec3{Z: 1}))
	require.NoError(t, err)
	return ctx
}

// counter returns a code allocator starting at 1.
func counter() func() int {
	n := 0
	return func() int {
		n++
		return n
	}
}

func square(x0, y0, x1, y1 float64) *geom.Polyline {
	return geom.NewLoop(
		geom.Vec3{X: x0, Y: y0},
		geom.Vec3{X: x1, Y: y0},
		geom.Vec3{X: x1, Y: y1},
		geom.Vec3{X: x0, Y: y1},
	)
}

func newSilhouette(code int, projected kernel.Curve) *silhouette.Silhouette {
	return &silhouette.Silhouette{Code: code, ShapeID: uuid.New(), Projected: projected}
}

func hasMessage(log *diag.Log, substr string) bool {
	for _, m := range log.Messages() {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestBuildOverlappingSquares(t *testing.T) {
	ctx := testContext(t)
	silA := newSilhouette(1, square(0, 0, 2, 2))
	silB := newSilhouette(2, square(1, 1, 3, 3))

	// Decomposition of two overlapping squares: A-only L, the shared
	// square, B-only L.
	aOnly := geom.NewLoop(
		geom.Vec3{}, geom.Vec3{X: 2}, geom.Vec3{X: 2, Y: 1},
		geom.Vec3{X: 1, Y: 1}, geom.Vec3{X: 1, Y: 2}, geom.Vec3{Y: 2},
	)
	shared := square(1, 1, 2, 2)
	bOnly := geom.NewLoop(
		geom.Vec3{X: 2, Y: 1}, geom.Vec3{X: 3, Y: 1}, geom.Vec3{X: 3, Y: 3},
		geom.Vec3{X: 1, Y: 3}, geom.Vec3{X: 1, Y: 2}, geom.Vec3{X: 2, Y: 2},
	)
	fake := &kerneltest.Fake{
		BooleanRegionsFn: func(curves []kernel.Curve, _ geom.Plane, combine bool, _ float64) [][]kernel.Curve {
			assert.False(t, combine, "adjacent regions must stay distinct")
			assert.Len(t, curves, 2)
			return [][]kernel.Curve{{aOnly}, {shared}, {bOnly}}
		},
	}

	regions := NewBuilder(fake, ctx, diag.New()).Build([]*silhouette.Silhouette{silA, silB}, counter())

	require.Len(t, regions, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{regions[0].Code, regions[1].Code, regions[2].Code})

	for _, r := range regions {
		assert.True(t, r.CentroidValid, "region %d centroid", r.Code)
	}
	assert.InDelta(t, 3.0, regions[0].Area, 1e-9)
	assert.InDelta(t, 1.0, regions[1].Area, 1e-9)

	assert.Equal(t, []int{1}, regions[0].ContainedBy, "A-only region")
	assert.Equal(t, []int{1, 2}, regions[1].ContainedBy, "shared region sees both shapes")
	assert.Equal(t, []int{2}, regions[2].ContainedBy, "B-only region")
	require.Len(t, regions[1].ContainedByIDs, 2)
	assert.Equal(t, silA.ShapeID, regions[1].ContainedByIDs[0])
}

func TestBuildRegionContainsRegion(t *testing.T) {
	ctx := testContext(t)
	sil := newSilhouette(1, square(0, 0, 4, 4))

	fake := &kerneltest.Fake{
		BooleanRegionsFn: func([]kernel.Curve, geom.Plane, bool, float64) [][]kernel.Curve {
			return [][]kernel.Curve{{square(0, 0, 4, 4)}, {square(1, 1, 2, 2)}}
		},
	}

	regions := NewBuilder(fake, ctx, diag.New()).Build([]*silhouette.Silhouette{sil}, counter())

	require.Len(t, regions, 2)
	outer, inner := regions[0], regions[1]
	assert.Equal(t, []int{inner.Code}, outer.Contains, "outer strictly encloses inner")
	assert.Empty(t, inner.Contains)
}

func TestBuildJoinsLoopPieces(t *testing.T) {
	ctx := testContext(t)
	sil := newSilhouette(1, square(0, 0, 1, 1))

	// One region delivered as two open halves.
	fake := &kerneltest.Fake{
		BooleanRegionsFn: func([]kernel.Curve, geom.Plane, bool, float64) [][]kernel.Curve {
			return [][]kernel.Curve{{
				geom.NewPolyline(geom.Vec3{}, geom.Vec3{X: 1}, geom.Vec3{X: 1, Y: 1}),
				geom.NewPolyline(geom.Vec3{}, geom.Vec3{Y: 1}, geom.Vec3{X: 1, Y: 1}),
			}}
		},
	}

	regions := NewBuilder(fake, ctx, diag.New()).Build([]*silhouette.Silhouette{sil}, counter())

	require.Len(t, regions, 1)
	assert.True(t, regions[0].Boundary.IsClosed())
	assert.InDelta(t, 1.0, regions[0].Area, 1e-9)
}

func TestBuildSkipsUnjoinableLoop(t *testing.T) {
	ctx := testContext(t)
	sil := newSilhouette(1, square(0, 0, 1, 1))
	log := diag.New()

	fake := &kerneltest.Fake{
		BooleanRegionsFn: func([]kernel.Curve, geom.Plane, bool, float64) [][]kernel.Curve {
			return [][]kernel.Curve{
				{square(0, 0, 1, 1)},
				{
					geom.NewPolyline(geom.Vec3{}, geom.Vec3{X: 1}),
					geom.NewPolyline(geom.Vec3{X: 5}, geom.Vec3{X: 6}),
				},
			}
		},
	}

	regions := NewBuilder(fake, ctx, log).Build([]*silhouette.Silhouette{sil}, counter())

	require.Len(t, regions, 1, "the unjoinable loop is skipped, the batch continues")
	assert.True(t, hasMessage(log, "did not join"))
}

func TestBuildInvalidCentroidExcluded(t *testing.T) {
	ctx := testContext(t)
	sil := newSilhouette(1, square(0, 0, 3, 3))
	log := diag.New()

	// A horseshoe whose area centroid lands in its own notch.
	horseshoe := geom.NewLoop(
		geom.Vec3{}, geom.Vec3{X: 3}, geom.Vec3{X: 3, Y: 3}, geom.Vec3{X: 2, Y: 3},
		geom.Vec3{X: 2, Y: 1}, geom.Vec3{X: 1, Y: 1}, geom.Vec3{X: 1, Y: 3}, geom.Vec3{Y: 3},
	)
	fake := &kerneltest.Fake{
		BooleanRegionsFn: func([]kernel.Curve, geom.Plane, bool, float64) [][]kernel.Curve {
			return [][]kernel.Curve{{horseshoe}}
		},
	}

	regions := NewBuilder(fake, ctx, log).Build([]*silhouette.Silhouette{sil}, counter())

	require.Len(t, regions, 1)
	r := regions[0]
	assert.False(t, r.CentroidValid)
	assert.Empty(t, r.ContainedBy, "containment needs a valid representative point")
	assert.True(t, hasMessage(log, "centroid fell outside"))
}

func TestBuildOpenLoopHasNoArea(t *testing.T) {
	ctx := testContext(t)
	sil := newSilhouette(1, square(0, 0, 1, 1))

	fake := &kerneltest.Fake{
		BooleanRegionsFn: func([]kernel.Curve, geom.Plane, bool, float64) [][]kernel.Curve {
			return [][]kernel.Curve{{geom.NewPolyline(geom.Vec3{}, geom.Vec3{X: 1}, geom.Vec3{X: 2, Y: 1})}}
		},
	}

	regions := NewBuilder(fake, ctx, diag.New()).Build([]*silhouette.Silhouette{sil}, counter())

	require.Len(t, regions, 1)
	assert.Zero(t, regions[0].Area)
	assert.False(t, regions[0].CentroidValid)
}

func TestBuildEmptyDecomposition(t *testing.T) {
	ctx := testContext(t)
	sil := newSilhouette(1, square(0, 0, 1, 1))
	log := diag.New()

	regions := NewBuilder(&kerneltest.Fake{}, ctx, log).Build([]*silhouette.Silhouette{sil}, counter())

	assert.Empty(t, regions)
	assert.True(t, hasMessage(log, "no regions"))
}

func TestBuildNoProjectedCurves(t *testing.T) {
	ctx := testContext(t)
	log := diag.New()
	sil := &silhouette.Silhouette{Code: 1} // projection failed upstream

	regions := NewBuilder(&kerneltest.Fake{}, ctx, log).Build([]*silhouette.Silhouette{sil}, counter())

	assert.Empty(t, regions)
	assert.True(t, hasMessage(log, "no projected curves"))
}
