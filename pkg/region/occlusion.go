package region

import (
	"sort"

	"github.com/quillon/umbra/pkg/diag"
	"github.com/quillon/umbra/pkg/geom"
	"github.com/quillon/umbra/pkg/kernel"
	"github.com/quillon/umbra/pkg/silhouette"
)

// Resolver determines, per region, which silhouettes occlude it: every
// containing silhouette except the one nearest to the region's
// representative point along the view direction.
type Resolver struct {
	k   kernel.Kernel
	ctx *silhouette.Context
	log *diag.Log
}

// NewResolver returns a Resolver over the given kernel and context.
func NewResolver(k kernel.Kernel, ctx *silhouette.Context, log *diag.Log) *Resolver {
	return &Resolver{k: k, ctx: ctx, log: log}
}

// Resolve fills the occlusion lists of every region. Regions with an
// invalid representative point or fewer than two containing
// silhouettes are skipped with empty lists; so are regions for which
// fewer than two distance computations succeed (insufficient data, not
// an error).
func (r *Resolver) Resolve(regions []*Region, sils []*silhouette.Silhouette) {
	byCode := make(map[int]*silhouette.Silhouette, len(sils))
	for _, s := range sils {
		byCode[s.Code] = s
	}

	for _, reg := range regions {
		if !reg.CentroidValid {
			continue
		}
		if len(reg.ContainedBy) < 2 {
			// One containing silhouette has no occlusion ambiguity.
			continue
		}
		r.resolveRegion(reg, byCode)
	}
}

type hit struct {
	dist float64
	sil  *silhouette.Silhouette
}

// resolveRegion ray-casts from the region's representative point along
// the view direction against each containing silhouette's candidate
// geometry (its lit fragments, or its raw shape when no cut
// succeeded), ranks the minimum hit distances and records all but the
// nearest as occluders.
func (r *Resolver) resolveRegion(reg *Region, byCode map[int]*silhouette.Silhouette) {
	ray := geom.Ray{Origin: reg.Centroid, Dir: r.ctx.ViewDir}

	var hits []hit
	for _, code := range reg.ContainedBy {
		s, ok := byCode[code]
		if !ok {
			r.log.Warnf("region %d: unknown silhouette code %d", reg.Code, code)
			continue
		}
		candidates := s.Lit
		if len(candidates) == 0 {
			candidates = []kernel.Shape{s.Shape}
		}
		dist, found := r.minHitDistance(ray, candidates)
		if !found {
			r.log.Warnf("region %d: no hit on silhouette %d", reg.Code, code)
			continue
		}
		hits = append(hits, hit{dist: dist, sil: s})
	}

	if len(hits) < 2 {
		return
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].sil.Code < hits[j].sil.Code
	})

	// The nearest hit owns the region; everything behind it occludes.
	for _, h := range hits[1:] {
		reg.OccludedBy = append(reg.OccludedBy, h.sil.Code)
		reg.OccludedByIDs = append(reg.OccludedByIDs, h.sil.ShapeID)
	}
}

// minHitDistance returns the smallest distance from the ray origin to
// any intersection with the candidate shapes.
func (r *Resolver) minHitDistance(ray geom.Ray, candidates []kernel.Shape) (float64, bool) {
	best := 0.0
	found := false
	for _, c := range candidates {
		if c == nil {
			continue
		}
		for _, p := range r.k.RayIntersect(ray, c, r.ctx.Tolerance) {
			d := p.Dist(ray.Origin)
			if !found || d < best {
				best = d
				found = true
			}
		}
	}
	return best, found
}
