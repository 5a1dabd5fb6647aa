package kernel

import "github.com/quillon/umbra/pkg/geom"

// ShapeKind is the closed set of shape categories the pipeline
// understands. The kind is resolved once, when a shape enters the
// pipeline, never by repeated type tests.
type ShapeKind int

const (
	KindNone ShapeKind = iota
	KindSolid
	KindMesh
	KindSurface
)

// String returns the lowercase kind name.
func (k ShapeKind) String() string {
	switch k {
	case KindSolid:
		return "solid"
	case KindMesh:
		return "mesh"
	case KindSurface:
		return "surface"
	default:
		return "none"
	}
}

// Shape is an opaque handle to kernel geometry.
type Shape interface {
	Kind() ShapeKind
	BoundingBox() geom.Box
}

// Curve is an opaque handle to a kernel curve. Structural operations
// on curves (joining, splitting, projection, containment) live on the
// Kernel interface; the handle itself answers only cheap queries.
type Curve interface {
	IsClosed() bool
	IsPlanar(tol float64) bool
	Length() float64
	Midpoint() geom.Vec3
}

// Solid is a shape with B-rep topology. Backends without face/edge
// topology (signed distance fields) may return empty slices, which
// callers treat as "operation unsupported".
type Solid interface {
	Shape
	Faces() []Face
	Edges() []Curve
}

// Face is one bounded surface patch of a solid.
type Face interface {
	// Loops returns the face's trim loops, outer loop first.
	Loops() []Loop

	// Centroid returns the face's area centroid.
	Centroid() (geom.Vec3, bool)

	// ContainsPoint reports whether p lies on the face within tol
	// (closest-point-on-surface test).
	ContainsPoint(p geom.Vec3, tol float64) bool

	// AsSolid isolates the face as a single-face solid shape.
	AsSolid() Shape

	// PointAt evaluates the underlying surface at parameter uv.
	PointAt(uv geom.UV) geom.Vec3

	// DomainMidpoint returns the midpoint of the surface's parameter
	// domain.
	DomainMidpoint() geom.UV
}

// Loop is one closed chain of trim curves bounding a face.
type Loop interface {
	Trims() []Trim
}

// Trim is one trim curve of a loop, living in the parameter space of
// the face's surface.
type Trim interface {
	// Length returns the trim's length in parameter space.
	Length() float64

	// Sample returns parameter-space points along the trim at the
	// given spacing. Empty means the trim is too short to sample.
	Sample(spacing float64) []geom.UV
}

// Mesh is a triangle-mesh shape.
type Mesh interface {
	Shape

	// AreaCentroid returns the area-weighted centroid of the mesh
	// surface.
	AreaCentroid() (geom.Vec3, bool)
}
