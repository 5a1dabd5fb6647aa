package silhouette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillon/umbra/pkg/diag"
	"github.com/quillon/umbra/pkg/geom"
	"github.com/quillon/umbra/pkg/kernel"
	"github.com/quillon/umbra/pkg/kernel/kerneltest"
)

// squareBoundary is a closed unit-square boundary at z = 0.
func squareBoundary() kernel.Curve {
	return geom.NewLoop(
		geom.Vec3{},
		geom.Vec3{X: 1},
		geom.Vec3{X: 1, Y: 1},
		geom.Vec3{Y: 1},
	)
}

func TestSimpleCutSuccess(t *testing.T) {
	ctx := testContext(t)
	shape := &kerneltest.Solid{Name: "cube"}
	fragA := &kerneltest.Solid{Name: "fragA"}
	fragB := &kerneltest.Solid{Name: "fragB"}
	fake := &kerneltest.Fake{
		SplitSolidFn: func(kernel.Shape, []kernel.Curve, float64) []kernel.Shape {
			return []kernel.Shape{fragA, fragB}
		},
	}
	s := &Silhouette{Code: 1, Shape: shape, Kind: kernel.KindSolid, Boundary: squareBoundary(), CutFailed: true}

	res := NewCutter(fake, ctx, diag.New()).SimpleCut(s)

	assert.Equal(t, CutSimple, res.Status)
	assert.True(t, res.Succeeded())
	assert.False(t, s.CutFailed)
	assert.Equal(t, 2, s.FragmentCount())
}

func TestSimpleCutMeshUsesMeshSplit(t *testing.T) {
	ctx := testContext(t)
	shape := &kerneltest.Mesh{Name: "shell"}
	fake := &kerneltest.Fake{
		SplitMeshFn: func(kernel.Shape, []kernel.Curve, float64) []kernel.Shape {
			return []kernel.Shape{&kerneltest.Mesh{Name: "front"}, &kerneltest.Mesh{Name: "back"}}
		},
	}
	s := &Silhouette{Code: 1, Shape: shape, Kind: kernel.KindMesh, Boundary: squareBoundary(), CutFailed: true}

	res := NewCutter(fake, ctx, diag.New()).SimpleCut(s)

	assert.True(t, res.Succeeded())
	assert.Contains(t, fake.Calls, "SplitMesh(shell)")
	assert.NotContains(t, fake.Calls, "SplitSolid(shell)")
}

func TestSimpleCutSingleFragmentFails(t *testing.T) {
	ctx := testContext(t)
	shape := &kerneltest.Solid{Name: "cube"}
	fake := &kerneltest.Fake{
		SplitSolidFn: func(s kernel.Shape, _ []kernel.Curve, _ float64) []kernel.Shape {
			return []kernel.Shape{s} // degenerate split
		},
	}
	s := &Silhouette{Code: 1, Shape: shape, Kind: kernel.KindSolid, Boundary: squareBoundary(), CutFailed: true}

	res := NewCutter(fake, ctx, diag.New()).SimpleCut(s)

	assert.Equal(t, CutFailed, res.Status)
	assert.False(t, res.Succeeded())
	assert.True(t, s.CutFailed)
	assert.Zero(t, s.FragmentCount())
}

func TestSimpleCutRejectsUnsupportedKind(t *testing.T) {
	ctx := testContext(t)
	shape := &kerneltest.Surface{}
	fake := &kerneltest.Fake{}
	s := &Silhouette{Code: 1, Shape: shape, Kind: kernel.KindSurface, Boundary: squareBoundary(), CutFailed: true}

	res := NewCutter(fake, ctx, diag.New()).SimpleCut(s)

	assert.Equal(t, CutFailed, res.Status)
	assert.Empty(t, fake.Calls, "unsupported kinds fail before any kernel call")
}

func TestSimpleCutMissingBoundary(t *testing.T) {
	ctx := testContext(t)
	s := &Silhouette{Code: 1, Shape: &kerneltest.Solid{Name: "cube"}, Kind: kernel.KindSolid, CutFailed: true}

	res := NewCutter(&kerneltest.Fake{}, ctx, diag.New()).SimpleCut(s)

	assert.Equal(t, CutFailed, res.Status)
	assert.True(t, s.CutFailed)
}

// advancedFixture builds a solid whose square boundary has two
// segments lying on existing edges (left, right) and two crossing
// segments (bottom, top), one crossed face and one intact face.
func advancedFixture(t *testing.T) (*kerneltest.Solid, *Silhouette, *kerneltest.Solid) {
	t.Helper()

	// Right and bottom-to-top verticals of the square are existing
	// edges of the solid; bottom and top segments cross face interiors.
	edgeRight := geom.NewPolyline(geom.Vec3{X: 1}, geom.Vec3{X: 1, Y: 1})
	edgeLeft := geom.NewPolyline(geom.Vec3{Y: 1}, geom.Vec3{})

	crossedIso := &kerneltest.Solid{Name: "crossed-iso"}
	crossed := &kerneltest.Face{
		ContainsFn: func(p geom.Vec3, tol float64) bool {
			// Bottom (0.5,0,0) and top (0.5,1,0) segment midpoints.
			return p.X == 0.5
		},
		Isolated: crossedIso,
	}
	intact := &kerneltest.Face{}

	solid := &kerneltest.Solid{
		Name:     "cube",
		FaceList: []*kerneltest.Face{crossed, intact},
		EdgeList: []kernel.Curve{edgeRight, edgeLeft},
	}
	s := &Silhouette{Code: 1, Shape: solid, Kind: kernel.KindSolid, Boundary: squareBoundary(), CutFailed: true}
	return solid, s, crossedIso
}

func TestAdvancedCutSuccess(t *testing.T) {
	ctx := testContext(t)
	_, s, crossedIso := advancedFixture(t)

	var gotCutters int
	fake := &kerneltest.Fake{
		SplitSolidFn: func(target kernel.Shape, cutters []kernel.Curve, _ float64) []kernel.Shape {
			require.Same(t, kernel.Shape(crossedIso), target, "only the isolated crossed face is split")
			gotCutters = len(cutters)
			return []kernel.Shape{&kerneltest.Solid{Name: "half1"}, &kerneltest.Solid{Name: "half2"}}
		},
	}

	res := NewCutter(fake, ctx, diag.New()).AdvancedCut(s)

	assert.Equal(t, CutAdvanced, res.Status)
	assert.True(t, res.Succeeded())
	assert.False(t, s.CutFailed)
	assert.Equal(t, 2, gotCutters, "two crossing segments reach the crossed face")
	assert.Len(t, res.Fragments, 3, "two split halves plus one intact face")
}

func TestAdvancedCutEmptyUnionIsFatal(t *testing.T) {
	ctx := testContext(t)
	crossedIso := &kerneltest.Solid{Name: "crossed-iso"}
	crossed := &kerneltest.Face{
		ContainsFn: func(geom.Vec3, float64) bool { return true },
		Isolated:   crossedIso,
	}
	solid := &kerneltest.Solid{Name: "cube", FaceList: []*kerneltest.Face{crossed}}
	s := &Silhouette{Code: 1, Shape: solid, Kind: kernel.KindSolid, Boundary: squareBoundary(), CutFailed: true}

	// Every face split fails, leaving an empty union.
	fake := &kerneltest.Fake{}
	res := NewCutter(fake, ctx, diag.New()).AdvancedCut(s)

	assert.Equal(t, CutFailed, res.Status)
	assert.True(t, s.CutFailed)
	assert.Empty(t, res.Fragments)
}

func TestAdvancedCutDegradesOnFault(t *testing.T) {
	ctx := testContext(t)
	crashing := &kerneltest.Face{
		ContainsFn: func(geom.Vec3, float64) bool { panic("kernel fault") },
	}
	solid := &kerneltest.Solid{Name: "cube", FaceList: []*kerneltest.Face{crashing}}
	s := &Silhouette{Code: 1, Shape: solid, Kind: kernel.KindSolid, Boundary: squareBoundary(), CutFailed: true}
	log := diag.New()

	res := NewCutter(&kerneltest.Fake{}, ctx, log).AdvancedCut(s)

	assert.Equal(t, CutDegraded, res.Status)
	require.Len(t, res.Fragments, 1, "degradation returns the original, unsplit shape")
	assert.Same(t, kernel.Shape(solid), res.Fragments[0])
	assert.False(t, res.Succeeded(), "a one-element result still counts as failed")
	assert.True(t, s.CutFailed)
	assert.NotZero(t, log.Len())
}

func TestAdvancedCutRejectsNonSolid(t *testing.T) {
	ctx := testContext(t)
	s := &Silhouette{Code: 1, Shape: &kerneltest.Mesh{Name: "shell"}, Kind: kernel.KindMesh, Boundary: squareBoundary(), CutFailed: true}

	res := NewCutter(&kerneltest.Fake{}, ctx, diag.New()).AdvancedCut(s)

	assert.Equal(t, CutFailed, res.Status)
	assert.True(t, s.CutFailed)
}
