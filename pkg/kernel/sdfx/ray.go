package sdfx

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/quillon/umbra/pkg/geom"
	"github.com/quillon/umbra/pkg/kernel"
)

// maxMarchSteps bounds sphere tracing per ray.
const maxMarchSteps = 4096

// RayIntersect returns the points where the ray crosses the shape's
// surface. SDF solids are sphere traced; meshes are tested triangle by
// triangle.
func (b *Backend) RayIntersect(ray geom.Ray, target kernel.Shape, tol float64) []geom.Vec3 {
	switch t := target.(type) {
	case *solidShape:
		return sphereTrace(t.s, ray, tol)
	case *meshShape:
		return rayMesh(ray, t.tris, tol)
	default:
		return nil
	}
}

func toV3(p geom.Vec3) v3.Vec { return v3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

// sphereTrace marches along the ray by the absolute distance-field
// value, recording every crossing of the surface band |d| <= eps.
func sphereTrace(s sdf.SDF3, ray geom.Ray, tol float64) []geom.Vec3 {
	dir := ray.Dir.Normalize()
	if dir.Norm() == 0 {
		return nil
	}
	eps := math.Max(tol, 1e-9)

	bb := s.BoundingBox()
	center := geom.Vec3{X: (bb.Min.X + bb.Max.X) / 2, Y: (bb.Min.Y + bb.Max.Y) / 2, Z: (bb.Min.Z + bb.Max.Z) / 2}
	diagonal := geom.Vec3{X: bb.Max.X - bb.Min.X, Y: bb.Max.Y - bb.Min.Y, Z: bb.Max.Z - bb.Min.Z}.Norm()
	maxT := ray.Origin.Dist(center) + diagonal

	var hits []geom.Vec3
	t := 0.0
	for step := 0; step < maxMarchSteps && t <= maxT; step++ {
		p := ray.Origin.Add(dir.Scale(t))
		d := s.Evaluate(toV3(p))
		if math.Abs(d) <= eps {
			hits = append(hits, p)
			// Walk out of the surface band before continuing.
			t += 4 * eps
			for step < maxMarchSteps && t <= maxT {
				if math.Abs(s.Evaluate(toV3(ray.Origin.Add(dir.Scale(t))))) > 2*eps {
					break
				}
				t += 4 * eps
				step++
			}
			continue
		}
		t += math.Max(math.Abs(d), eps)
	}
	return hits
}

// rayMesh collects every ray/triangle intersection.
func rayMesh(ray geom.Ray, tris [][3]geom.Vec3, tol float64) []geom.Vec3 {
	dir := ray.Dir.Normalize()
	var hits []geom.Vec3
	for _, t := range tris {
		if p, ok := rayTriangle(ray.Origin, dir, t, tol); ok {
			hits = append(hits, p)
		}
	}
	return hits
}

// rayTriangle is the Moller-Trumbore ray/triangle intersection.
func rayTriangle(origin, dir geom.Vec3, t [3]geom.Vec3, tol float64) (geom.Vec3, bool) {
	const eps = 1e-12
	e1 := t[1].Sub(t[0])
	e2 := t[2].Sub(t[0])
	h := dir.Cross(e2)
	a := e1.Dot(h)
	if math.Abs(a) < eps {
		return geom.Vec3{}, false // ray parallel to triangle
	}
	f := 1 / a
	s := origin.Sub(t[0])
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return geom.Vec3{}, false
	}
	q := s.Cross(e1)
	v := f * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return geom.Vec3{}, false
	}
	dist := f * e2.Dot(q)
	if dist <= tol {
		return geom.Vec3{}, false // behind or at the origin
	}
	return origin.Add(dir.Scale(dist)), true
}
