package silhouette

import (
	"github.com/quillon/umbra/pkg/diag"
	"github.com/quillon/umbra/pkg/kernel"
)

// CutStatus is the closed set of cut outcomes.
type CutStatus int

const (
	// CutFailed means no usable fragment set was produced.
	CutFailed CutStatus = iota
	// CutSimple means the direct Boolean split succeeded.
	CutSimple
	// CutAdvanced means the per-face decomposition succeeded.
	CutAdvanced
	// CutDegraded means an unexpected fault was absorbed and the
	// original, unsplit shape is returned as the only fragment.
	CutDegraded
)

// String returns the lowercase status name.
func (s CutStatus) String() string {
	switch s {
	case CutSimple:
		return "simple"
	case CutAdvanced:
		return "advanced"
	case CutDegraded:
		return "degraded"
	default:
		return "failed"
	}
}

// CutResult is the tagged outcome of a cut attempt. Fragments is nil
// on failure; a degraded result carries the original shape as its only
// element and still counts as failed under the two-fragment rule.
type CutResult struct {
	Status    CutStatus
	Fragments []kernel.Shape
}

// Succeeded reports whether the cut produced a usable separation:
// at least two fragments.
func (r CutResult) Succeeded() bool { return len(r.Fragments) >= 2 }

// Cutter splits a silhouette's shape along its boundary curve. The
// simple cut is a direct Boolean split; the advanced cut decomposes
// the solid face by face, splitting only the faces the boundary
// actually crosses.
type Cutter struct {
	k   kernel.Kernel
	ctx *Context
	log *diag.Log
}

// NewCutter returns a Cutter over the given kernel and context.
func NewCutter(k kernel.Kernel, ctx *Context, log *diag.Log) *Cutter {
	return &Cutter{k: k, ctx: ctx, log: log}
}

// SimpleCut splits the shape directly by its boundary curve. Solids
// and meshes only; fewer than two fragments is a failure. On success
// the silhouette's fragment set and cut flag are updated.
func (c *Cutter) SimpleCut(s *Silhouette) CutResult {
	if s.Shape == nil || s.Boundary == nil {
		c.log.Errorf("silhouette %d: simple cut needs a shape and a boundary curve", s.Code)
		s.CutFailed = true
		return CutResult{Status: CutFailed}
	}
	if s.Kind != kernel.KindSolid && s.Kind != kernel.KindMesh {
		c.log.Errorf("silhouette %d: cannot cut shape kind %s", s.Code, s.Kind)
		s.CutFailed = true
		return CutResult{Status: CutFailed}
	}

	// Defensive re-join: upstream joining may have left the curve in
	// pieces a backend tolerates but the splitter does not.
	cutter := c.k.JoinCurves([]kernel.Curve{s.Boundary}, c.ctx.Tolerance)
	if cutter == nil {
		cutter = s.Boundary
	}

	var frags []kernel.Shape
	if s.Kind == kernel.KindSolid {
		frags = c.k.SplitSolid(s.Shape, []kernel.Curve{cutter}, c.ctx.Tolerance)
	} else {
		frags = c.k.SplitMesh(s.Shape, []kernel.Curve{cutter}, c.ctx.Tolerance)
	}

	if len(frags) < 2 {
		c.log.Warnf("silhouette %d: simple cut produced %d fragments", s.Code, len(frags))
		s.CutFailed = true
		return CutResult{Status: CutFailed}
	}
	s.CutFailed = false
	s.setFragments(frags)
	return CutResult{Status: CutSimple, Fragments: frags}
}

// AdvancedCut decomposes the boundary curve into segments, classifies
// each as an edge curve (overlapping an existing boundary edge of the
// solid) or a crossing curve (cutting a face interior), then splits
// each crossed face in isolation and duplicates intact faces. Only
// solids are supported. An unexpected fault degrades to returning the
// original, unsplit shape as a single fragment.
func (c *Cutter) AdvancedCut(s *Silhouette) (result CutResult) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Errorf("silhouette %d: advanced cut fault: %v", s.Code, r)
			s.CutFailed = true
			result = CutResult{Status: CutDegraded, Fragments: []kernel.Shape{s.Shape}}
		}
	}()

	if s.Shape == nil || s.Boundary == nil || s.Kind != kernel.KindSolid {
		c.log.Errorf("silhouette %d: advanced cut needs a solid with a boundary curve", s.Code)
		s.CutFailed = true
		return CutResult{Status: CutFailed}
	}
	solid, ok := s.Shape.(kernel.Solid)
	if !ok {
		c.log.Errorf("silhouette %d: shape reports solid kind but has no topology", s.Code)
		s.CutFailed = true
		return CutResult{Status: CutFailed}
	}

	segments := c.k.CurveSegments(s.Boundary)
	edges := solid.Edges()

	// A segment overlapping any existing edge of the solid lies on the
	// boundary already and cuts nothing; the rest cross face interiors.
	var crossing []kernel.Curve
	for _, seg := range segments {
		onEdge := false
		for _, e := range edges {
			if c.k.CurvesOverlap(seg, e, c.ctx.Tolerance) {
				onEdge = true
				break
			}
		}
		if !onEdge {
			crossing = append(crossing, seg)
		}
	}

	var frags []kernel.Shape
	for _, face := range solid.Faces() {
		var cutters []kernel.Curve
		for _, cc := range crossing {
			if face.ContainsPoint(cc.Midpoint(), c.ctx.Tolerance) {
				cutters = append(cutters, cc)
			}
		}
		isolated := face.AsSolid()
		if len(cutters) == 0 {
			frags = append(frags, isolated)
			continue
		}
		sub := c.k.SplitSolid(isolated, cutters, c.ctx.Tolerance)
		if len(sub) == 0 {
			c.log.Warnf("silhouette %d: crossed face failed to split", s.Code)
			continue
		}
		frags = append(frags, sub...)
	}

	if len(frags) == 0 {
		c.log.Errorf("silhouette %d: advanced cut produced no fragments", s.Code)
		s.CutFailed = true
		return CutResult{Status: CutFailed}
	}
	if len(frags) < 2 {
		// A single fragment does not separate the shape.
		c.log.Warnf("silhouette %d: advanced cut produced %d fragments", s.Code, len(frags))
		s.CutFailed = true
		return CutResult{Status: CutAdvanced, Fragments: frags}
	}
	s.CutFailed = false
	s.setFragments(frags)
	return CutResult{Status: CutAdvanced, Fragments: frags}
}
