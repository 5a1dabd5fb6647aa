package silhouette

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillon/umbra/pkg/diag"
	"github.com/quillon/umbra/pkg/geom"
	"github.com/quillon/umbra/pkg/kernel"
	"github.com/quillon/umbra/pkg/kernel/kerneltest"
)

func testContext(t *testing.T) *Context {
	t.Helper()
	ctx, err := NewContext(1e-3, 1e-2, geom.Vec3{Z: -1}, geom.NewPlane(geom.Vec3{}, geom.Vec3{Z: 1}))
	require.NoError(t, err)
	return ctx
}

// squarePieces returns two open halves of the unit square at height z.
func squarePieces(z float64) []kernel.Curve {
	return []kernel.Curve{
		geom.NewPolyline(geom.Vec3{X: 0, Y: 0, Z: z}, geom.Vec3{X: 1, Y: 0, Z: z}, geom.Vec3{X: 1, Y: 1, Z: z}),
		geom.NewPolyline(geom.Vec3{X: 0, Y: 0, Z: z}, geom.Vec3{X: 0, Y: 1, Z: z}, geom.Vec3{X: 1, Y: 1, Z: z}),
	}
}

func TestNewContextValidation(t *testing.T) {
	plane := geom.NewPlane(geom.Vec3{}, geom.Vec3{Z: 1})

	_, err := NewContext(0, 1e-2, geom.Vec3{Z: -1}, plane)
	assert.Error(t, err, "zero tolerance must be rejected")

	_, err = NewContext(1e-3, -1, geom.Vec3{Z: -1}, plane)
	assert.Error(t, err, "negative angle tolerance must be rejected")

	_, err = NewContext(1e-3, 1e-2, geom.Vec3{}, plane)
	assert.Error(t, err, "zero view direction must be rejected")

	ctx, err := NewContext(1e-3, 1e-2, geom.Vec3{Z: -2}, plane)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ctx.ViewDir.Norm(), 1e-9, "view direction is normalized")
	assert.True(t, ctx.HasPlane)
}

func TestContextNoPlane(t *testing.T) {
	ctx, err := NewContext(1e-3, 1e-2, geom.Vec3{Z: -1}, geom.Plane{})
	require.NoError(t, err)
	assert.False(t, ctx.HasPlane)
	assert.Equal(t, ctx.ViewDir, ctx.RayDir(), "without a plane, rays follow the view direction")
}

func TestBuildJoinsAndProjects(t *testing.T) {
	ctx := testContext(t)
	fake := &kerneltest.Fake{
		SilhouetteCurvesFn: func(kernel.Shape, geom.Vec3, float64, float64) []kernel.Curve {
			return squarePieces(5)
		},
	}
	shape := &kerneltest.Solid{
		Name: "cube",
		BBox: geom.Box{Min: geom.Vec3{Z: 2}, Max: geom.Vec3{X: 1, Y: 1, Z: 3}},
	}

	s := NewBuilder(fake, ctx, diag.New()).Build(1, uuid.New(), shape)

	require.NotNil(t, s.Boundary)
	assert.True(t, s.Boundary.IsClosed(), "square halves join into a loop")
	assert.Equal(t, kernel.KindSolid, s.Kind)
	assert.Equal(t, 2.0, s.Depth, "depth is the bounding box minimum in the plane frame")

	require.NotNil(t, s.Projected)
	assert.InDelta(t, 0, s.Projected.Midpoint().Z, 1e-9, "projection lands on the support plane")
}

func TestBuildExtractionFailure(t *testing.T) {
	ctx := testContext(t)
	fake := &kerneltest.Fake{} // no silhouette curves
	log := diag.New()
	shape := &kerneltest.Solid{Name: "cube", BBox: geom.Box{Max: geom.Vec3{X: 1, Y: 1, Z: 1}}}

	s := NewBuilder(fake, ctx, log).Build(1, uuid.New(), shape)

	require.NotNil(t, s, "extraction failure still creates the silhouette")
	assert.Nil(t, s.Boundary)
	assert.Nil(t, s.Projected)
	assert.Zero(t, s.Depth, "no boundary means depth 0")
	assert.True(t, s.CutFailed)
	assert.NotZero(t, log.Len(), "failure is logged")
}

func TestBuildJoinFailure(t *testing.T) {
	ctx := testContext(t)
	fake := &kerneltest.Fake{
		SilhouetteCurvesFn: func(kernel.Shape, geom.Vec3, float64, float64) []kernel.Curve {
			return []kernel.Curve{
				geom.NewPolyline(geom.Vec3{}, geom.Vec3{X: 1}),
				geom.NewPolyline(geom.Vec3{X: 5, Y: 5}, geom.Vec3{X: 6, Y: 5}),
			}
		},
	}
	shape := &kerneltest.Solid{Name: "cube"}

	s := NewBuilder(fake, ctx, diag.New()).Build(1, uuid.New(), shape)

	assert.Nil(t, s.Boundary, "disconnected pieces must not join")
	assert.Zero(t, s.Depth)
}

func TestBuildNilShape(t *testing.T) {
	ctx := testContext(t)
	log := diag.New()

	s := NewBuilder(&kerneltest.Fake{}, ctx, log).Build(3, uuid.New(), nil)

	assert.Equal(t, 3, s.Code)
	assert.Equal(t, kernel.KindNone, s.Kind)
	assert.True(t, s.CutFailed)
	assert.NotZero(t, log.Len())
}

func TestBuildNoPlaneSkipsProjection(t *testing.T) {
	ctx, err := NewContext(1e-3, 1e-2, geom.Vec3{Z: -1}, geom.Plane{})
	require.NoError(t, err)
	fake := &kerneltest.Fake{
		SilhouetteCurvesFn: func(kernel.Shape, geom.Vec3, float64, float64) []kernel.Curve {
			return squarePieces(0)
		},
	}
	shape := &kerneltest.Solid{Name: "cube", BBox: geom.Box{Min: geom.Vec3{Z: 2}, Max: geom.Vec3{X: 1, Y: 1, Z: 3}}}

	s := NewBuilder(fake, ctx, diag.New()).Build(1, uuid.New(), shape)

	require.NotNil(t, s.Boundary)
	assert.Nil(t, s.Projected)
	assert.Zero(t, s.Depth, "depth needs a support plane")
}

func TestFragmentsFallback(t *testing.T) {
	shape := &kerneltest.Solid{Name: "cube"}
	s := &Silhouette{Code: 1, Shape: shape, CutFailed: true}

	frags := s.Fragments()
	require.Len(t, frags, 1)
	assert.Same(t, kernel.Shape(shape), frags[0], "failed cut falls back to the original shape")
}
