package sdfx

import (
	"math"

	"github.com/deadsy/sdfx/render"

	"github.com/quillon/umbra/pkg/geom"
	"github.com/quillon/umbra/pkg/kernel"
)

// meshShape is a triangle-mesh shape produced by tessellating an SDF
// solid (or by splitting another mesh).
type meshShape struct {
	tris [][3]geom.Vec3
	bbox geom.Box
}

// Kind reports the shape category.
func (m *meshShape) Kind() kernel.ShapeKind { return kernel.KindMesh }

// BoundingBox returns the axis-aligned bounding box.
func (m *meshShape) BoundingBox() geom.Box { return m.bbox }

// AreaCentroid returns the area-weighted centroid of the mesh surface.
func (m *meshShape) AreaCentroid() (geom.Vec3, bool) {
	var total float64
	var sum geom.Vec3
	for _, t := range m.tris {
		area := t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Norm() / 2
		center := t[0].Add(t[1]).Add(t[2]).Scale(1.0 / 3.0)
		sum = sum.Add(center.Scale(area))
		total += area
	}
	if total == 0 {
		return geom.Vec3{}, false
	}
	return sum.Scale(1 / total), true
}

// newMeshShape builds a meshShape and its bounding box.
func newMeshShape(tris [][3]geom.Vec3) *meshShape {
	m := &meshShape{tris: tris}
	if len(tris) == 0 {
		return m
	}
	m.bbox = geom.Box{Min: tris[0][0], Max: tris[0][0]}
	for _, t := range tris {
		for _, v := range t {
			m.bbox = m.bbox.Union(geom.Box{Min: v, Max: v})
		}
	}
	return m
}

// ToMesh tessellates a solid into a triangle-mesh shape using marching
// cubes.
func (b *Backend) ToMesh(s kernel.Shape) kernel.Mesh {
	tris := b.tessellate(s)
	if tris == nil {
		return nil
	}
	return newMeshShape(tris)
}

// tessellate returns a shape's triangles: a mesh's own triangles, or a
// marching-cubes tessellation for an SDF solid.
func (b *Backend) tessellate(s kernel.Shape) [][3]geom.Vec3 {
	if m, ok := s.(*meshShape); ok {
		return m.tris
	}
	sdf3 := unwrap(s)
	if sdf3 == nil {
		return nil
	}
	renderer := render.NewMarchingCubesUniform(b.meshCells)
	triangles := render.ToTriangles(sdf3, renderer)
	tris := make([][3]geom.Vec3, 0, len(triangles))
	for _, tri := range triangles {
		var t [3]geom.Vec3
		for j := 0; j < 3; j++ {
			v := tri[j]
			t[j] = geom.Vec3{X: v.X, Y: v.Y, Z: v.Z}
		}
		tris = append(tris, t)
	}
	return tris
}

// edgeKey identifies a mesh edge by its quantized, ordered endpoints.
type edgeKey [6]int64

// quantize snaps a coordinate to the tolerance grid.
func quantize(x, quantum float64) int64 {
	return int64(math.Round(x / quantum))
}

// makeEdgeKey builds an order-independent key for edge a-b.
func makeEdgeKey(a, b geom.Vec3, quantum float64) edgeKey {
	ka := [3]int64{quantize(a.X, quantum), quantize(a.Y, quantum), quantize(a.Z, quantum)}
	kb := [3]int64{quantize(b.X, quantum), quantize(b.Y, quantum), quantize(b.Z, quantum)}
	if kb[0] < ka[0] || (kb[0] == ka[0] && (kb[1] < ka[1] || (kb[1] == ka[1] && kb[2] < ka[2]))) {
		ka, kb = kb, ka
	}
	return edgeKey{ka[0], ka[1], ka[2], kb[0], kb[1], kb[2]}
}

// SilhouetteCurves extracts silhouette edges from the shape's triangle
// mesh: edges shared by a front-facing and a back-facing triangle with
// respect to the view direction. Triangles grazing the view within the
// angular tolerance count as both. Each edge is returned as one curve
// piece for downstream joining.
func (b *Backend) SilhouetteCurves(shape kernel.Shape, viewDir geom.Vec3, tol, angleTol float64) []kernel.Curve {
	tris := b.tessellate(shape)
	if len(tris) == 0 {
		return nil
	}
	view := viewDir.Normalize()
	grazing := math.Sin(angleTol)
	quantum := tol
	if quantum <= 0 {
		quantum = 1e-9
	}

	type facing struct {
		front, back bool
		a, b        geom.Vec3
	}
	edges := make(map[edgeKey]*facing)

	for _, t := range tris {
		n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Normalize()
		dot := n.Dot(view)
		front := dot < 0 || math.Abs(dot) <= grazing
		back := dot > 0 || math.Abs(dot) <= grazing
		for j := 0; j < 3; j++ {
			a, c := t[j], t[(j+1)%3]
			key := makeEdgeKey(a, c, quantum)
			f := edges[key]
			if f == nil {
				f = &facing{a: a, b: c}
				edges[key] = f
			}
			f.front = f.front || front
			f.back = f.back || back
		}
	}

	var pieces []kernel.Curve
	for _, f := range edges {
		if f.front && f.back {
			pieces = append(pieces, geom.NewPolyline(f.a, f.b))
		}
	}
	return pieces
}

// SplitMesh separates a mesh into connectivity components after
// removing triangle adjacencies across edges lying on the cutter
// curves. Fewer than two components means the curves did not separate
// the mesh.
func (b *Backend) SplitMesh(m kernel.Shape, cutters []kernel.Curve, tol float64) []kernel.Shape {
	mesh, ok := m.(*meshShape)
	if !ok || len(mesh.tris) == 0 || len(cutters) == 0 {
		return nil
	}
	var polys []*geom.Polyline
	for _, c := range cutters {
		if p := asPolyline(c); p != nil {
			polys = append(polys, p)
		}
	}
	if len(polys) == 0 {
		return nil
	}

	onCut := func(a, c geom.Vec3) bool {
		for _, p := range polys {
			if p.DistanceTo(a) <= tol && p.DistanceTo(c) <= tol {
				return true
			}
		}
		return false
	}

	quantum := tol
	if quantum <= 0 {
		quantum = 1e-9
	}

	// Adjacency over shared edges, excluding edges on the cut.
	byEdge := make(map[edgeKey][]int)
	for i, t := range mesh.tris {
		for j := 0; j < 3; j++ {
			a, c := t[j], t[(j+1)%3]
			if onCut(a, c) {
				continue
			}
			key := makeEdgeKey(a, c, quantum)
			byEdge[key] = append(byEdge[key], i)
		}
	}
	adj := make(map[int][]int)
	for _, tris := range byEdge {
		for _, i := range tris {
			for _, j := range tris {
				if i != j {
					adj[i] = append(adj[i], j)
				}
			}
		}
	}

	// Flood fill components.
	comp := make([]int, len(mesh.tris))
	for i := range comp {
		comp[i] = -1
	}
	count := 0
	for i := range mesh.tris {
		if comp[i] >= 0 {
			continue
		}
		stack := []int{i}
		comp[i] = count
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range adj[cur] {
				if comp[next] < 0 {
					comp[next] = count
					stack = append(stack, next)
				}
			}
		}
		count++
	}
	if count < 2 {
		return nil
	}

	groups := make([][][3]geom.Vec3, count)
	for i, t := range mesh.tris {
		groups[comp[i]] = append(groups[comp[i]], t)
	}
	out := make([]kernel.Shape, 0, count)
	for _, g := range groups {
		out = append(out, newMeshShape(g))
	}
	return out
}
