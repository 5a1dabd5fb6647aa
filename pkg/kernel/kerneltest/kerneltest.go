// Package kerneltest provides a programmable fake geometry kernel and
// scripted shape types for pipeline tests. Curve operations default to
// the real polyline implementations; shape operations default to
// failure unless scripted, matching the kernel's nil-on-failure
// convention.
package kerneltest

import (
	"fmt"

	"github.com/quillon/umbra/pkg/geom"
	"github.com/quillon/umbra/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Fake)(nil)

// Fake implements kernel.Kernel with overridable function fields. Every
// call is journaled in Calls so tests can assert stage ordering.
type Fake struct {
	SilhouetteCurvesFn func(shape kernel.Shape, viewDir geom.Vec3, tol, angleTol float64) []kernel.Curve
	JoinCurvesFn       func(pieces []kernel.Curve, tol float64) kernel.Curve
	SplitSolidFn       func(s kernel.Shape, cutters []kernel.Curve, tol float64) []kernel.Shape
	SplitMeshFn        func(m kernel.Shape, cutters []kernel.Curve, tol float64) []kernel.Shape
	BooleanRegionsFn   func(curves []kernel.Curve, plane geom.Plane, combine bool, tol float64) [][]kernel.Curve
	RayIntersectFn     func(ray geom.Ray, target kernel.Shape, tol float64) []geom.Vec3

	Calls []string
}

// record journals one call.
func (f *Fake) record(format string, args ...interface{}) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

// shapeName labels a shape in the journal.
func shapeName(s kernel.Shape) string {
	switch t := s.(type) {
	case *Solid:
		return t.Name
	case *Mesh:
		return t.Name
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%T", s)
	}
}

// SilhouetteCurves returns the scripted curve pieces, or none.
func (f *Fake) SilhouetteCurves(shape kernel.Shape, viewDir geom.Vec3, tol, angleTol float64) []kernel.Curve {
	f.record("SilhouetteCurves(%s)", shapeName(shape))
	if f.SilhouetteCurvesFn != nil {
		return f.SilhouetteCurvesFn(shape, viewDir, tol, angleTol)
	}
	return nil
}

// JoinCurves defaults to the real polyline chaining.
func (f *Fake) JoinCurves(pieces []kernel.Curve, tol float64) kernel.Curve {
	f.record("JoinCurves(%d)", len(pieces))
	if f.JoinCurvesFn != nil {
		return f.JoinCurvesFn(pieces, tol)
	}
	var polys []*geom.Polyline
	for _, c := range pieces {
		p, ok := c.(*geom.Polyline)
		if !ok {
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
func (f *Fake) ProjectCurve(c kernel.Curve, plane geom.Plane) kernel.Curve {
	f.record("ProjectCurve")
	p, ok := c.(*geom.Polyline)
	if !ok {
		return nil
	}
	return p.ProjectTo(plane)
}

// SplitSolid returns the scripted fragments, or failure.
func (f *Fake) SplitSolid(s kernel.Shape, cutters []kernel.Curve, tol float64) []kernel.Shape {
	f.record("SplitSolid(%s)", shapeName(s))
	if f.SplitSolidFn != nil {
		return f.SplitSolidFn(s, cutters, tol)
	}
	return nil
}

// SplitMesh returns the scripted fragments, or failure.
func (f *Fake) SplitMesh(m kernel.Shape, cutters []kernel.Curve, tol float64) []kernel.Shape {
	f.record("SplitMesh(%s)", shapeName(m))
	if f.SplitMeshFn != nil {
		return f.SplitMeshFn(m, cutters, tol)
	}
	return nil
}

// BooleanRegions returns the scripted decomposition, or failure.
func (f *Fake) BooleanRegions(curves []kernel.Curve, plane geom.Plane, combine bool, tol float64) [][]kernel.Curve {
	f.record("BooleanRegions(%d)", len(curves))
	if f.BooleanRegionsFn != nil {
		return f.BooleanRegionsFn(curves, plane, combine, tol)
	}
	return nil
}

// RayIntersect consults the override, then the target's scripted
// HitsFn.
func (f *Fake) RayIntersect(ray geom.Ray, target kernel.Shape, tol float64) []geom.Vec3 {
	f.record("RayIntersect(%s)", shapeName(target))
	if f.RayIntersectFn != nil {
		return f.RayIntersectFn(ray, target, tol)
	}
	switch t := target.(type) {
	case *Solid:
		if t.HitsFn != nil {
			return t.HitsFn(ray)
		}
	case *Mesh:
		if t.HitsFn != nil {
			return t.HitsFn(ray)
		}
	}
	return nil
}

// AreaCentroid uses the real polyline math.
func (f *Fake) AreaCentroid(c kernel.Curve) (float64, geom.Vec3, bool) {
	f.record("AreaCentroid")
	p, ok := c.(*geom.Polyline)
	if !ok {
		return 0, geom.Vec3{}, false
	}
	return p.AreaCentroid()
}

// PointInside uses the real polyline math.
func (f *Fake) PointInside(c kernel.Curve, pt geom.Vec3, plane geom.Plane, tol float64) bool {
	f.record("PointInside")
	p, ok := c.(*geom.Polyline)
	if !ok {
		return false
	}
	return p.Contains(pt, plane, tol)
}

// CurvesOverlap uses the real polyline math.
func (f *Fake) CurvesOverlap(a, b kernel.Curve, tol float64) bool {
	f.record("CurvesOverlap")
	pa, okA := a.(*geom.Polyline)
	pb, okB := b.(*geom.Polyline)
	if !okA || !okB {
		return false
	}
	return pa.Overlaps(pb, tol)
}

// CurveSegments uses the real polyline math.
func (f *Fake) CurveSegments(c kernel.Curve) []kernel.Curve {
	f.record("CurveSegments")
	p, ok := c.(*geom.Polyline)
	if !ok {
		return nil
	}
	segs := p.Segments()
	out := make([]kernel.Curve, len(segs))
	for i, s := range segs {
		out[i] = s
	}
	return out
}
