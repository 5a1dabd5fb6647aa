package geom

import "math"

// Polyline is a piecewise-linear curve. It is the concrete curve
// representation used by the sdfx kernel backend and the test kernel;
// it satisfies the kernel's opaque Curve interface structurally.
type Polyline struct {
	Points []Vec3
	Closed bool
}

// NewPolyline builds an open polyline over the given points.
func NewPolyline(points ...Vec3) *Polyline {
	return &Polyline{Points: points}
}

// NewLoop builds a closed polyline. The closing edge from the last
// point back to the first is implicit.
func NewLoop(points ...Vec3) *Polyline {
	return &Polyline{Points: points, Closed: true}
}

// IsClosed reports whether the curve is a closed loop.
func (p *Polyline) IsClosed() bool { return p.Closed }

// edgeCount returns the number of line segments, including the
// implicit closing edge of a loop.
func (p *Polyline) edgeCount() int {
	n := len(p.Points)
	if n < 2 {
		return 0
	}
	if p.Closed {
		return n
	}
	return n - 1
}

// edge returns the endpoints of segment i.
func (p *Polyline) edge(i int) (Vec3, Vec3) {
	a := p.Points[i]
	b := p.Points[(i+1)%len(p.Points)]
	return a, b
}

// Length returns the total arc length.
func (p *Polyline) Length() float64 {
	total := 0.0
	for i := 0; i < p.edgeCount(); i++ {
		a, b := p.edge(i)
		total += a.Dist(b)
	}
	return total
}

// Midpoint returns the point at half the arc length.
func (p *Polyline) Midpoint() Vec3 {
	if len(p.Points) == 0 {
		return Vec3{}
	}
	half := p.Length() / 2
	walked := 0.0
	for i := 0; i < p.edgeCount(); i++ {
		a, b := p.edge(i)
		l := a.Dist(b)
		if walked+l >= half && l > 0 {
			return a.Lerp(b, (half-walked)/l)
		}
		walked += l
	}
	return p.Points[len(p.Points)-1]
}

// Start returns the first point.
func (p *Polyline) Start() Vec3 { return p.Points[0] }

// End returns the last point.
func (p *Polyline) End() Vec3 { return p.Points[len(p.Points)-1] }

// Reverse returns a copy with point order flipped.
func (p *Polyline) Reverse() *Polyline {
	pts := make([]Vec3, len(p.Points))
	for i, q := range p.Points {
		pts[len(pts)-1-i] = q
	}
	return &Polyline{Points: pts, Closed: p.Closed}
}

// IsPlanar reports whether all points lie within tol of the curve's
// best-fit plane. Curves with fewer than 3 points are trivially planar.
func (p *Polyline) IsPlanar(tol float64) bool {
	if len(p.Points) < 3 {
		return true
	}
	pl, ok := p.FitPlane()
	if !ok {
		return true // degenerate (collinear) counts as planar
	}
	for _, q := range p.Points {
		if math.Abs(pl.Z(q)) > tol {
			return false
		}
	}
	return true
}

// FitPlane computes the curve's plane using Newell's method. ok is
// false when the points are collinear or fewer than 3.
func (p *Polyline) FitPlane() (Plane, bool) {
	n := len(p.Points)
	if n < 3 {
		return Plane{}, false
	}
	var normal, centroid Vec3
	for i := 0; i < n; i++ {
		a := p.Points[i]
		b := p.Points[(i+1)%n]
		normal.X += (a.Y - b.Y) * (a.Z + b.Z)
		normal.Y += (a.Z - b.Z) * (a.X + b.X)
		normal.Z += (a.X - b.X) * (a.Y + b.Y)
		centroid = centroid.Add(a)
	}
	if normal.Norm() == 0 {
		return Plane{}, false
	}
	return NewPlane(centroid.Scale(1/float64(n)), normal), true
}

// Segments decomposes the polyline into its constituent line segments,
// each returned as a two-point open polyline.
func (p *Polyline) Segments() []*Polyline {
	segs := make([]*Polyline, 0, p.edgeCount())
	for i := 0; i < p.edgeCount(); i++ {
		a, b := p.edge(i)
		segs = append(segs, NewPolyline(a, b))
	}
	return segs
}

// ProjectTo returns the polyline orthogonally projected onto plane.
func (p *Polyline) ProjectTo(plane Plane) *Polyline {
	pts := make([]Vec3, len(p.Points))
	for i, q := range p.Points {
		pts[i] = plane.Project(q)
	}
	return &Polyline{Points: pts, Closed: p.Closed}
}

// AreaCentroid computes the enclosed area and area centroid of a
// closed planar polyline using the shoelace formula in the curve's
// own plane frame. ok is false for open or degenerate curves.
func (p *Polyline) AreaCentroid() (area float64, centroid Vec3, ok bool) {
	if !p.Closed || len(p.Points) < 3 {
		return 0, Vec3{}, false
	}
	plane, fit := p.FitPlane()
	if !fit {
		return 0, Vec3{}, false
	}

	var a2, cu, cv float64
	n := len(p.Points)
	for i := 0; i < n; i++ {
		p0 := plane.ToUV(p.Points[i])
		p1 := plane.ToUV(p.Points[(i+1)%n])
		cross := p0.U*p1.V - p1.U*p0.V
		a2 += cross
		cu += (p0.U + p1.U) * cross
		cv += (p0.V + p1.V) * cross
	}
	if a2 == 0 {
		return 0, Vec3{}, false
	}
	area = math.Abs(a2 / 2)
	centroid = plane.FromUV(UV{U: cu / (3 * a2), V: cv / (3 * a2)})
	return area, centroid, true
}

// Contains reports whether point q lies inside the closed polyline
// when both are viewed in the given plane. The test is the even-odd
// ray crossing rule on in-plane coordinates; points within tol of the
// boundary count as inside.
func (p *Polyline) Contains(q Vec3, plane Plane, tol float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	pt := plane.ToUV(q)

	// Boundary proximity counts as containment.
	for i := 0; i < p.edgeCount(); i++ {
		a, b := p.edge(i)
		if distPointSegmentUV(pt, plane.ToUV(a), plane.ToUV(b)) <= tol {
			return true
		}
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi := plane.ToUV(p.Points[i])
		pj := plane.ToUV(p.Points[j])
		if (pi.V > pt.V) != (pj.V > pt.V) {
			x := (pj.U-pi.U)*(pt.V-pi.V)/(pj.V-pi.V) + pi.U
			if pt.U < x {
				inside = !inside
			}
		}
	}
	return inside
}

// distPointSegmentUV returns the distance from point p to segment ab
// in plane coordinates.
func distPointSegmentUV(p, a, b UV) float64 {
	abu, abv := b.U-a.U, b.V-a.V
	apu, apv := p.U-a.U, p.V-a.V
	lenSq := abu*abu + abv*abv
	t := 0.0
	if lenSq > 0 {
		t = (apu*abu + apv*abv) / lenSq
		t = math.Max(0, math.Min(1, t))
	}
	du, dv := apu-t*abu, apv-t*abv
	return math.Sqrt(du*du + dv*dv)
}

// DistanceTo returns the minimum distance from point q to the
// polyline.
func (p *Polyline) DistanceTo(q Vec3) float64 {
	if len(p.Points) == 0 {
		return math.Inf(1)
	}
	if len(p.Points) == 1 {
		return q.Dist(p.Points[0])
	}
	best := math.Inf(1)
	for i := 0; i < p.edgeCount(); i++ {
		a, b := p.edge(i)
		if d := distPointSegment(q, a, b); d < best {
			best = d
		}
	}
	return best
}

// distPointSegment returns the distance from point q to segment ab.
func distPointSegment(q, a, b Vec3) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	t := 0.0
	if lenSq > 0 {
		t = math.Max(0, math.Min(1, q.Sub(a).Dot(ab)/lenSq))
	}
	return q.Dist(a.Add(ab.Scale(t)))
}

// Overlaps reports whether two polylines share a collinear sub-segment
// longer than tol. It is used to tell boundary-edge curves apart from
// curves crossing a face interior.
func (p *Polyline) Overlaps(q *Polyline, tol float64) bool {
	for i := 0; i < p.edgeCount(); i++ {
		a0, a1 := p.edge(i)
		for j := 0; j < q.edgeCount(); j++ {
			b0, b1 := q.edge(j)
			if segmentsOverlap(a0, a1, b0, b1, tol) {
				return true
			}
		}
	}
	return false
}

// segmentsOverlap reports whether segments a0-a1 and b0-b1 are
// collinear within tol and share more than a point of their extent.
func segmentsOverlap(a0, a1, b0, b1 Vec3, tol float64) bool {
	da := a1.Sub(a0)
	la := da.Norm()
	if la == 0 {
		return false
	}
	dir := da.Scale(1 / la)

	// Both endpoints of b must lie on the line of a.
	if distPointLine(b0, a0, dir) > tol || distPointLine(b1, a0, dir) > tol {
		return false
	}

	// Overlap of the 1-D parameter intervals along dir.
	t0 := b0.Sub(a0).Dot(dir)
	t1 := b1.Sub(a0).Dot(dir)
	lo := math.Max(0, math.Min(t0, t1))
	hi := math.Min(la, math.Max(t0, t1))
	return hi-lo > tol
}

// distPointLine returns the distance from p to the infinite line
// through origin with unit direction dir.
func distPointLine(p, origin, dir Vec3) float64 {
	d := p.Sub(origin)
	return d.Sub(dir.Scale(d.Dot(dir))).Norm()
}

// JoinPolylines chains curve pieces whose endpoints coincide within
// tol into a single polyline, flipping pieces as needed. It returns
// nil when the pieces do not form one connected chain. A chain whose
// free ends meet within tol is marked closed.
func JoinPolylines(pieces []*Polyline, tol float64) *Polyline {
	var parts []*Polyline
	for _, p := range pieces {
		if p != nil && len(p.Points) >= 2 {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	if len(parts) == 1 && parts[0].Closed {
		return parts[0]
	}

	chain := append([]Vec3(nil), parts[0].Points...)
	used := make([]bool, len(parts))
	used[0] = true

	for joined := 1; joined < len(parts); {
		progressed := false
		for i, part := range parts {
			if used[i] {
				continue
			}
			switch {
			case chain[len(chain)-1].Dist(part.Start()) <= tol:
				chain = append(chain, part.Points[1:]...)
			case chain[len(chain)-1].Dist(part.End()) <= tol:
				rev := part.Reverse()
				chain = append(chain, rev.Points[1:]...)
			case chain[0].Dist(part.End()) <= tol:
				chain = append(part.Points[:len(part.Points)-1:len(part.Points)-1], chain...)
			case chain[0].Dist(part.Start()) <= tol:
				rev := part.Reverse()
				chain = append(rev.Points[:len(rev.Points)-1:len(rev.Points)-1], chain...)
			default:
				continue
			}
			used[i] = true
			joined++
			progressed = true
		}
		if !progressed {
			return nil // disconnected pieces
		}
	}

	out := &Polyline{Points: chain}
	if len(chain) >= 3 && chain[0].Dist(chain[len(chain)-1]) <= tol {
		out.Points = chain[:len(chain)-1]
		out.Closed = true
	}
	return out
}
