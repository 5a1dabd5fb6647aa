package geom

import "math"

// Plane is an oriented plane with an in-plane coordinate frame.
// Normal, XAxis and YAxis are expected to be unit length and mutually
// orthogonal; NewPlane builds such a frame from origin and normal.
type Plane struct {
	Origin Vec3
	Normal Vec3
	XAxis  Vec3
	YAxis  Vec3
}

// NewPlane constructs a plane through origin with the given normal,
// deriving an arbitrary but stable in-plane frame.
func NewPlane(origin, normal Vec3) Plane {
	n := normal.Normalize()

	// Pick the world axis least aligned with n to seed the frame.
	seed := Vec3{1, 0, 0}
	if math.Abs(n.X) > math.Abs(n.Y) {
		seed = Vec3{0, 1, 0}
		if math.Abs(n.Y) > math.Abs(n.Z) {
			seed = Vec3{0, 0, 1}
		}
	}

	x := seed.Cross(n).Normalize()
	y := n.Cross(x)
	return Plane{Origin: origin, Normal: n, XAxis: x, YAxis: y}
}

// Valid reports whether the plane has a usable frame.
func (p Plane) Valid() bool {
	return p.Normal.Norm() > 0
}

// Z returns the signed distance of point q from the plane along its
// normal ("depth" in the plane's frame).
func (p Plane) Z(q Vec3) float64 {
	return q.Sub(p.Origin).Dot(p.Normal)
}

// ToUV maps a point to in-plane (u, v) coordinates, discarding the
// normal component.
func (p Plane) ToUV(q Vec3) UV {
	d := q.Sub(p.Origin)
	return UV{U: d.Dot(p.XAxis), V: d.Dot(p.YAxis)}
}

// FromUV maps in-plane coordinates back to a world point on the plane.
func (p Plane) FromUV(uv UV) Vec3 {
	return p.Origin.Add(p.XAxis.Scale(uv.U)).Add(p.YAxis.Scale(uv.V))
}

// Project returns the orthogonal projection of q onto the plane.
func (p Plane) Project(q Vec3) Vec3 {
	return q.Sub(p.Normal.Scale(p.Z(q)))
}
