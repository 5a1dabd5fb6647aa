package region

import (
	"github.com/quillon/umbra/pkg/diag"
	"github.com/quillon/umbra/pkg/kernel"
	"github.com/quillon/umbra/pkg/silhouette"
)

// Builder computes the planar region decomposition of all silhouettes'
// projected boundary curves and the containment graph over the result.
type Builder struct {
	k   kernel.Kernel
	ctx *silhouette.Context
	log *diag.Log
}

// NewBuilder returns a Builder over the given kernel and context.
func NewBuilder(k kernel.Kernel, ctx *silhouette.Context, log *diag.Log) *Builder {
	return &Builder{k: k, ctx: ctx, log: log}
}

// Build decomposes the projected curves into disjoint regions and
// fills each region's containment lists. nextCode allocates the
// solve-scope region codes. An empty result is recoverable; the
// occlusion stage simply has nothing to resolve.
func (b *Builder) Build(sils []*silhouette.Silhouette, nextCode func() int) []*Region {
	var curves []kernel.Curve
	var owners []*silhouette.Silhouette
	for _, s := range sils {
		if s.Projected == nil {
			continue
		}
		curves = append(curves, s.Projected)
		owners = append(owners, s)
	}
	if len(curves) == 0 {
		b.log.Warnf("region build: no projected curves")
		return nil
	}

	// Non-combined decomposition: adjacent regions stay distinct.
	loops := b.k.BooleanRegions(curves, b.ctx.Plane, false, b.ctx.Tolerance)
	if len(loops) == 0 {
		b.log.Errorf("region build: planar decomposition produced no regions")
		return nil
	}

	var regions []*Region
	for i, pieces := range loops {
		joined := b.k.JoinCurves(pieces, b.ctx.Tolerance)
		if joined == nil {
			b.log.Warnf("region build: loop %d did not join, skipped", i)
			continue
		}
		r := &Region{Code: nextCode(), Boundary: joined}
		if joined.IsClosed() && joined.IsPlanar(b.ctx.Tolerance) {
			area, centroid, ok := b.k.AreaCentroid(joined)
			if ok && b.k.PointInside(joined, centroid, b.ctx.Plane, b.ctx.Tolerance) {
				r.Area = area
				r.Centroid = centroid
				r.CentroidValid = true
			} else {
				b.log.Warnf("region %d: centroid fell outside its own boundary", r.Code)
			}
		} else {
			b.log.Warnf("region %d: boundary not closed and planar", r.Code)
		}
		regions = append(regions, r)
	}

	b.buildContainment(regions, owners)
	return regions
}

// buildContainment records, per region, which source silhouettes
// contain its representative point and which other regions it strictly
// encloses.
func (b *Builder) buildContainment(regions []*Region, owners []*silhouette.Silhouette) {
	for _, r := range regions {
		if !r.CentroidValid {
			continue
		}
		for _, s := range owners {
			if b.k.PointInside(s.Projected, r.Centroid, b.ctx.Plane, b.ctx.Tolerance) {
				r.ContainedBy = append(r.ContainedBy, s.Code)
				r.ContainedByIDs = append(r.ContainedByIDs, s.ShapeID)
			}
		}
		for _, q := range regions {
			if q == r || !q.CentroidValid {
				continue
			}
			// Strict enclosure: q's representative point inside r and r
			// strictly larger.
			if r.Area > q.Area && b.k.PointInside(r.Boundary, q.Centroid, b.ctx.Plane, b.ctx.Tolerance) {
				r.Contains = append(r.Contains, q.Code)
			}
		}
	}
}
