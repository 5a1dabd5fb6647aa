// Package kernel defines the abstract geometry kernel interface
// consumed by the silhouette and region pipelines. Implementations
// (sdfx, a B-rep binding, test fakes) provide curve extraction,
// splitting and ray casting behind this interface; the pipelines never
// see concrete geometry types.
//
// Failure convention: every operation reports failure through nil or
// empty returns, never through panics. Callers treat a nil curve, an
// empty fragment slice or an empty hit list as a recoverable,
// per-item condition.
package kernel

import "github.com/quillon/umbra/pkg/geom"

// Kernel is the geometry capability set required by the pipeline.
type Kernel interface {
	// SilhouetteCurves extracts the visibility-boundary curve pieces of
	// shape as seen along viewDir. An empty result means extraction
	// failed or the shape has no silhouette.
	SilhouetteCurves(shape Shape, viewDir geom.Vec3, tol, angleTol float64) []Curve

	// JoinCurves chains curve pieces whose ends meet within tol into a
	// single (possibly open) curve, or returns nil when they do not
	// form one connected chain.
	JoinCurves(pieces []Curve, tol float64) Curve

	// ProjectCurve orthogonally projects c onto plane, or returns nil
	// when projection is not possible.
	ProjectCurve(c Curve, plane geom.Plane) Curve

	// SplitSolid splits a solid shape by the given curves. A nil or
	// single-element result means the split failed to separate the
	// shape.
	SplitSolid(s Shape, cutters []Curve, tol float64) []Shape

	// SplitMesh is SplitSolid for mesh shapes.
	SplitMesh(m Shape, cutters []Curve, tol float64) []Shape

	// BooleanRegions decomposes a set of closed planar curves into
	// disjoint region loops. When combine is false adjacent regions
	// stay distinct. Each returned element is the (possibly
	// multi-piece) boundary of one region.
	BooleanRegions(curves []Curve, plane geom.Plane, combine bool, tol float64) [][]Curve

	// RayIntersect returns the points where ray hits target, in no
	// guaranteed order. Empty means no hit.
	RayIntersect(ray geom.Ray, target Shape, tol float64) []geom.Vec3

	// AreaCentroid computes the enclosed area and area centroid of a
	// closed planar curve. ok is false for open, non-planar or
	// degenerate curves.
	AreaCentroid(c Curve) (area float64, centroid geom.Vec3, ok bool)

	// PointInside reports whether p lies inside closed curve c when
	// viewed in plane.
	PointInside(c Curve, p geom.Vec3, plane geom.Plane, tol float64) bool

	// CurvesOverlap reports whether a and b share a sub-curve longer
	// than tol.
	CurvesOverlap(a, b Curve, tol float64) bool

	// CurveSegments decomposes c into its constituent segments.
	CurveSegments(c Curve) []Curve
}
