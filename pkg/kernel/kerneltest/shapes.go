package kerneltest

import (
	"github.com/quillon/umbra/pkg/geom"
	"github.com/quillon/umbra/pkg/kernel"
)

// Compile-time interface checks.
var (
	_ kernel.Solid = (*Solid)(nil)
	_ kernel.Mesh  = (*Mesh)(nil)
	_ kernel.Face  = (*Face)(nil)
	_ kernel.Loop  = (*Loop)(nil)
	_ kernel.Trim  = (*Trim)(nil)
)

// Solid is a scripted solid shape.
type Solid struct {
	Name     string
	BBox     geom.Box
	FaceList []*Face
	EdgeList []kernel.Curve

	// HitsFn scripts ray intersections against this solid.
	HitsFn func(ray geom.Ray) []geom.Vec3

	// ShapeKind overrides the reported kind when non-zero.
	ShapeKind kernel.ShapeKind
}

// Kind reports the scripted kind, defaulting to solid.
func (s *Solid) Kind() kernel.ShapeKind {
	if s.ShapeKind != kernel.KindNone {
		return s.ShapeKind
	}
	return kernel.KindSolid
}

// BoundingBox returns the scripted box.
func (s *Solid) BoundingBox() geom.Box { return s.BBox }

// Faces returns the scripted faces.
func (s *Solid) Faces() []kernel.Face {
	out := make([]kernel.Face, len(s.FaceList))
	for i, f := range s.FaceList {
		out[i] = f
	}
	return out
}

// Edges returns the scripted edges.
func (s *Solid) Edges() []kernel.Curve { return s.EdgeList }

// Mesh is a scripted mesh shape.
type Mesh struct {
	Name       string
	BBox       geom.Box
	Centroid   geom.Vec3
	CentroidOK bool
	HitsFn     func(ray geom.Ray) []geom.Vec3
}

// Kind reports the mesh kind.
func (m *Mesh) Kind() kernel.ShapeKind { return kernel.KindMesh }

// BoundingBox returns the scripted box.
func (m *Mesh) BoundingBox() geom.Box { return m.BBox }

// AreaCentroid returns the scripted centroid.
func (m *Mesh) AreaCentroid() (geom.Vec3, bool) { return m.Centroid, m.CentroidOK }

// Surface is a shape with surface kind, for exercising unsupported
// shape-kind paths.
type Surface struct {
	BBox geom.Box
}

// Kind reports the surface kind.
func (s *Surface) Kind() kernel.ShapeKind { return kernel.KindSurface }

// BoundingBox returns the scripted box.
func (s *Surface) BoundingBox() geom.Box { return s.BBox }

// Face is a scripted face.
type Face struct {
	CentroidPt geom.Vec3
	CentroidOK bool
	LoopList   []*Loop

	// ContainsFn scripts the closest-point-on-surface test; nil means
	// no point is on the face.
	ContainsFn func(p geom.Vec3, tol float64) bool

	// SurfaceFn evaluates the surface at a parameter point; nil falls
	// back to the centroid.
	SurfaceFn func(uv geom.UV) geom.Vec3

	// DomainMid is the parameter-domain midpoint.
	DomainMid geom.UV

	// Isolated is the single-face solid returned by AsSolid; nil
	// isolates the face as a one-face Solid automatically.
	Isolated kernel.Shape
}

// Loops returns the scripted loops.
func (f *Face) Loops() []kernel.Loop {
	out := make([]kernel.Loop, len(f.LoopList))
	for i, l := range f.LoopList {
		out[i] = l
	}
	return out
}

// Centroid returns the scripted centroid.
func (f *Face) Centroid() (geom.Vec3, bool) { return f.CentroidPt, f.CentroidOK }

// ContainsPoint runs the scripted containment test.
func (f *Face) ContainsPoint(p geom.Vec3, tol float64) bool {
	if f.ContainsFn == nil {
		return false
	}
	return f.ContainsFn(p, tol)
}

// AsSolid isolates the face as a single-face solid.
func (f *Face) AsSolid() kernel.Shape {
	if f.Isolated != nil {
		return f.Isolated
	}
	return &Solid{Name: "face-solid", FaceList: []*Face{f}}
}

// PointAt evaluates the scripted surface.
func (f *Face) PointAt(uv geom.UV) geom.Vec3 {
	if f.SurfaceFn != nil {
		return f.SurfaceFn(uv)
	}
	return f.CentroidPt
}

// DomainMidpoint returns the scripted parameter midpoint.
func (f *Face) DomainMidpoint() geom.UV { return f.DomainMid }

// Loop is a scripted trim loop.
type Loop struct {
	TrimList []*Trim
}

// Trims returns the scripted trims.
func (l *Loop) Trims() []kernel.Trim {
	out := make([]kernel.Trim, len(l.TrimList))
	for i, t := range l.TrimList {
		out[i] = t
	}
	return out
}

// Trim is a scripted trim curve.
type Trim struct {
	Len float64

	// SampleFn scripts parameter-space sampling; nil returns Samples
	// regardless of spacing.
	SampleFn func(spacing float64) []geom.UV
	Samples  []geom.UV
}

// Length returns the scripted length.
func (t *Trim) Length() float64 { return t.Len }

// Sample returns the scripted samples.
func (t *Trim) Sample(spacing float64) []geom.UV {
	if t.SampleFn != nil {
		return t.SampleFn(spacing)
	}
	return t.Samples
}
