// Package region decomposes the planar projection of many silhouettes'
// boundary curves into disjoint regions, builds the containment graph
// between regions and source shapes, and resolves which shapes occlude
// each region.
package region

import (
	"github.com/google/uuid"

	"github.com/quillon/umbra/pkg/geom"
	"github.com/quillon/umbra/pkg/kernel"
)

// Region is one disjoint cell of the planar arrangement formed by all
// projected boundary curves. It holds only identifier back-references
// to silhouettes, never owning ones. Once the occlusion fields are
// populated the region is immutable.
type Region struct {
	// Code is the solve-scope identifier, counted independently from
	// silhouette codes.
	Code int

	// Boundary is the region's closed planar curve.
	Boundary kernel.Curve

	// Area is the enclosed area, 0 when the boundary is open or
	// non-planar.
	Area float64

	// Centroid is the representative point: the area centroid,
	// validated to lie inside the region. CentroidValid is false when
	// validation failed; such a region is excluded from containment and
	// occlusion resolution.
	Centroid      geom.Vec3
	CentroidValid bool

	// ContainedBy lists the silhouette codes whose projected curves
	// contain the representative point; ContainedByIDs the matching
	// shape ids.
	ContainedBy    []int
	ContainedByIDs []uuid.UUID

	// Contains lists the codes of regions strictly enclosed by this
	// one.
	Contains []int

	// OccludedBy and OccludedByIDs list every containing silhouette
	// except the nearest one along the view direction. Both stay empty
	// for regions with fewer than two containing silhouettes or
	// insufficient distance data.
	OccludedBy    []int
	OccludedByIDs []uuid.UUID
}
