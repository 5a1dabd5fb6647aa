// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
//
// Signed distance fields carry no B-rep topology, so the capability
// set is partial: solid splitting, face/edge enumeration and planar
// Boolean decomposition report failure through the interface's
// nil returns, which the pipeline treats as recoverable (the cut is
// flagged failed and the raw shape flows on). Silhouette extraction,
// ray casting, mesh splitting and all curve operations are supported.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/quillon/umbra/pkg/geom"
	"github.com/quillon/umbra/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Backend)(nil)

// defaultMeshCells controls marching cubes tessellation resolution
// for silhouette extraction and mesh conversion.
const defaultMeshCells = 64

// Backend implements kernel.Kernel using sdfx.
type Backend struct {
	meshCells int
}

// New returns a Backend with default tessellation resolution.
func New() *Backend {
	return &Backend{meshCells: defaultMeshCells}
}

// NewWithResolution returns a Backend tessellating at the given
// marching-cubes cell count.
func NewWithResolution(cells int) *Backend {
	return &Backend{meshCells: cells}
}

// solidShape wraps an sdf.SDF3 as a kernel solid shape. It carries no
// face/edge topology, so it intentionally does not implement
// kernel.Solid.
type solidShape struct {
	s sdf.SDF3
}

// Kind reports the shape category.
func (s *solidShape) Kind() kernel.ShapeKind { return kernel.KindSolid }

// BoundingBox returns the axis-aligned bounding box.
func (s *solidShape) BoundingBox() geom.Box {
	bb := s.s.BoundingBox()
	return geom.Box{
		Min: geom.Vec3{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: geom.Vec3{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Shape, or nil
// when the shape is not an sdfx solid.
func unwrap(s kernel.Shape) sdf.SDF3 {
	if w, ok := s.(*solidShape); ok {
		return w.s
	}
	return nil
}

// wrap creates a kernel.Shape from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Shape {
	return &solidShape{s: s}
}

// Box creates a box with the given dimensions, minimum corner at the
// origin. sdf.Box3D centers the box, so it is shifted by
// half-dimensions.
func (b *Backend) Box(x, y, z float64) kernel.Shape {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Sphere creates a sphere of the given radius centered at the origin.
func (b *Backend) Sphere(radius float64) kernel.Shape {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Sphere3D: %v", err))
	}
	return wrap(s)
}

// Cylinder creates a cylinder with the given height and radius.
func (b *Backend) Cylinder(height, radius float64) kernel.Shape {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return wrap(s)
}

// Union returns the union of two solids.
func (b *Backend) Union(a, c kernel.Shape) kernel.Shape {
	return wrap(sdf.Union3D(unwrap(a), unwrap(c)))
}

// Difference returns the difference a - c.
func (b *Backend) Difference(a, c kernel.Shape) kernel.Shape {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(c)))
}

// Intersection returns the intersection of two solids.
func (b *Backend) Intersection(a, c kernel.Shape) kernel.Shape {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(c)))
}

// Translate moves a solid by (x, y, z).
func (b *Backend) Translate(s kernel.Shape, x, y, z float64) kernel.Shape {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (b *Backend) Rotate(s kernel.Shape, x, y, z float64) kernel.Shape {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0
	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ---------------------------------------------------------------------------
// Curve operations (polyline-backed)
// ---------------------------------------------------------------------------

// asPolyline extracts the backing polyline from an opaque curve.
func asPolyline(c kernel.Curve) *geom.Polyline {
	p, _ := c.(*geom.Polyline)
	return p
}

// JoinCurves chains polyline pieces into one curve.
func (b *Backend) JoinCurves(pieces []kernel.Curve, tol float64) kernel.Curve {
	var polys []*geom.Polyline
	for _, c := range pieces {
		p := asPolyline(c)
		if p == nil {
			return nil
		}
		polys = append(polys, p)
	}
	joined := geom.JoinPolylines(polys, tol)
	if joined == nil {
		return nil
	}
	return joined
}

// ProjectCurve projects a polyline onto the plane.
func (b *Backend) ProjectCurve(c kernel.Curve, plane geom.Plane) kernel.Curve {
	p := asPolyline(c)
	if p == nil {
		return nil
	}
	return p.ProjectTo(plane)
}

// AreaCentroid computes area and centroid of a closed planar polyline.
func (b *Backend) AreaCentroid(c kernel.Curve) (float64, geom.Vec3, bool) {
	p := asPolyline(c)
	if p == nil {
		return 0, geom.Vec3{}, false
	}
	return p.AreaCentroid()
}

// PointInside tests point containment in a closed polyline.
func (b *Backend) PointInside(c kernel.Curve, pt geom.Vec3, plane geom.Plane, tol float64) bool {
	p := asPolyline(c)
	if p == nil {
		return false
	}
	return p.Contains(pt, plane, tol)
}

// CurvesOverlap reports whether two polylines share a sub-segment.
func (b *Backend) CurvesOverlap(a, c kernel.Curve, tol float64) bool {
	pa, pc := asPolyline(a), asPolyline(c)
	if pa == nil || pc == nil {
		return false
	}
	return pa.Overlaps(pc, tol)
}

// CurveSegments decomposes a polyline into its line segments.
func (b *Backend) CurveSegments(c kernel.Curve) []kernel.Curve {
	p := asPolyline(c)
	if p == nil {
		return nil
	}
	segs := p.Segments()
	out := make([]kernel.Curve, len(segs))
	for i, s := range segs {
		out[i] = s
	}
	return out
}

// ---------------------------------------------------------------------------
// Unsupported topology operations
// ---------------------------------------------------------------------------

// SplitSolid requires B-rep topology an SDF cannot provide; it always
// reports failure and the pipeline falls back.
func (b *Backend) SplitSolid(s kernel.Shape, cutters []kernel.Curve, tol float64) []kernel.Shape {
	return nil
}

// BooleanRegions requires a planar arrangement kernel; unsupported.
func (b *Backend) BooleanRegions(curves []kernel.Curve, plane geom.Plane, combine bool, tol float64) [][]kernel.Curve {
	return nil
}
