package silhouette

import (
	"github.com/quillon/umbra/pkg/diag"
	"github.com/quillon/umbra/pkg/geom"
	"github.com/quillon/umbra/pkg/kernel"
)

// Classifier assigns cut fragments to the lit or shadow partition of a
// silhouette using mutual-occlusion ray tests along the support-plane
// normal. Two distinct algorithms are kept deliberately: the
// two-fragment path tests each fragment only against the other one,
// while the N-fragment path accumulates hits against every other
// fragment. Unifying them would change classification outcomes.
type Classifier struct {
	k   kernel.Kernel
	ctx *Context
	log *diag.Log
}

// NewClassifier returns a Classifier over the given kernel and context.
func NewClassifier(k kernel.Kernel, ctx *Context, log *diag.Log) *Classifier {
	return &Classifier{k: k, ctx: ctx, log: log}
}

// Classify rebuilds the silhouette's lit/shadow partitions from the
// given fragments. The collections are cleared first, so repeated
// calls with the same inputs are idempotent. The undetermined
// collection is kept declared but is never populated: both paths only
// distinguish zero hits (lit) from one or more (shadow).
func (cl *Classifier) Classify(s *Silhouette, frags []kernel.Shape) {
	s.Lit = nil
	s.Shadow = nil
	s.Undetermined = nil

	if len(frags) < 2 {
		cl.log.Warnf("silhouette %d: %d fragments, nothing to classify", s.Code, len(frags))
		return
	}
	if len(frags) == 2 {
		cl.classifyPair(s, frags)
	} else {
		cl.classifyMany(s, frags)
	}

	// A cut only counts as succeeded once its fragments are classified.
	// When every fragment was rejected the silhouette reverts to failed
	// so downstream consumers fall back to the original shape.
	if len(s.Lit)+len(s.Shadow)+len(s.Undetermined) == 0 {
		cl.log.Errorf("silhouette %d: no fragment classified, cut marked failed", s.Code)
		s.CutFailed = true
	}
}

// classifyPair handles exactly two fragments. Each fragment casts a
// ray from its representative point along the plane normal and is
// tested against the other fragment only. Both rays are evaluated
// independently: occlusion is not guaranteed symmetric under
// numerical tolerance.
func (cl *Classifier) classifyPair(s *Silhouette, frags []kernel.Shape) {
	repA, okA := cl.pairRepPoint(frags[0])
	repB, okB := cl.pairRepPoint(frags[1])
	if !okA || !okB {
		cl.log.Errorf("silhouette %d: no representative point for pair classification", s.Code)
		return
	}

	dir := cl.ctx.RayDir()
	hitsA := cl.k.RayIntersect(geom.Ray{Origin: repA, Dir: dir}, frags[1], cl.ctx.Tolerance)
	hitsB := cl.k.RayIntersect(geom.Ray{Origin: repB, Dir: dir}, frags[0], cl.ctx.Tolerance)

	cl.assign(s, frags[0], len(hitsA))
	cl.assign(s, frags[1], len(hitsB))
}

// pairRepPoint picks the representative point for the two-fragment
// path: the first face's area centroid for a solid, the mesh area
// centroid for a mesh.
func (cl *Classifier) pairRepPoint(frag kernel.Shape) (geom.Vec3, bool) {
	switch frag.Kind() {
	case kernel.KindSolid:
		solid, ok := frag.(kernel.Solid)
		if !ok {
			return geom.Vec3{}, false
		}
		faces := solid.Faces()
		if len(faces) == 0 {
			return geom.Vec3{}, false
		}
		return faces[0].Centroid()
	case kernel.KindMesh:
		mesh, ok := frag.(kernel.Mesh)
		if !ok {
			return geom.Vec3{}, false
		}
		return mesh.AreaCentroid()
	default:
		return geom.Vec3{}, false
	}
}

// classifyMany handles three or more fragments (advanced-cut output).
// Every fragment must be a single-face solid; others are skipped with
// a warning and excluded from classification. A fragment's hits are
// accumulated against all other fragments in the set.
func (cl *Classifier) classifyMany(s *Silhouette, frags []kernel.Shape) {
	type entry struct {
		frag kernel.Shape
		rep  geom.Vec3
	}
	var entries []entry
	var reps []geom.Vec3

	for i, frag := range frags {
		rep, ok := cl.manyRepPoint(frag)
		if !ok {
			cl.log.Warnf("silhouette %d: fragment %d is not a single-face solid, skipped", s.Code, i)
			continue
		}
		for _, prev := range reps {
			if rep.Dist(prev) <= cl.ctx.Tolerance {
				cl.log.Warnf("silhouette %d: duplicate representative point for fragment %d", s.Code, i)
				break
			}
		}
		reps = append(reps, rep)
		entries = append(entries, entry{frag: frag, rep: rep})
	}

	dir := cl.ctx.RayDir()
	for _, e := range entries {
		ray := geom.Ray{Origin: e.rep, Dir: dir}
		total := 0
		for _, other := range frags {
			if other == e.frag {
				continue
			}
			total += len(cl.k.RayIntersect(ray, other, cl.ctx.Tolerance))
		}
		cl.assign(s, e.frag, total)
	}
}

// manyRepPoint computes the representative point for the N-fragment
// path: sample every trim of every loop of the fragment's single face
// at half the loop's shortest trim length, average the sampled surface
// parameters and evaluate the surface there. With no samples the
// parameter-domain midpoint is used.
func (cl *Classifier) manyRepPoint(frag kernel.Shape) (geom.Vec3, bool) {
	solid, ok := frag.(kernel.Solid)
	if !ok || frag.Kind() != kernel.KindSolid {
		return geom.Vec3{}, false
	}
	faces := solid.Faces()
	if len(faces) != 1 {
		return geom.Vec3{}, false
	}
	face := faces[0]

	var sum geom.UV
	count := 0
	for _, loop := range face.Loops() {
		trims := loop.Trims()
		shortest := 0.0
		for i, t := range trims {
			if l := t.Length(); i == 0 || l < shortest {
				shortest = l
			}
		}
		if shortest <= 0 {
			continue
		}
		spacing := shortest / 2
		for _, t := range trims {
			for _, uv := range t.Sample(spacing) {
				sum.U += uv.U
				sum.V += uv.V
				count++
			}
		}
	}

	if count == 0 {
		return face.PointAt(face.DomainMidpoint()), true
	}
	avg := geom.UV{U: sum.U / float64(count), V: sum.V / float64(count)}
	return face.PointAt(avg), true
}

// assign files a fragment under lit or shadow by its hit count.
func (cl *Classifier) assign(s *Silhouette, frag kernel.Shape, hits int) {
	if hits == 0 {
		s.Lit = append(s.Lit, frag)
		return
	}
	s.Shadow = append(s.Shadow, frag)
}
