package silhouette

import (
	"github.com/google/uuid"

	"github.com/quillon/umbra/pkg/diag"
	"github.com/quillon/umbra/pkg/geom"
	"github.com/quillon/umbra/pkg/kernel"
)

// Builder creates Silhouettes: it extracts the visibility-boundary
// curve for the context's view direction, joins the pieces, projects
// the result onto the support plane and computes the shape's depth.
// Extraction failure is recoverable: the Silhouette is still created
// with nil curve fields and flows downstream.
type Builder struct {
	k   kernel.Kernel
	ctx *Context
	log *diag.Log
}

// NewBuilder returns a Builder over the given kernel and context.
func NewBuilder(k kernel.Kernel, ctx *Context, log *diag.Log) *Builder {
	return &Builder{k: k, ctx: ctx, log: log}
}

// Build creates the Silhouette for one shape. code is the solve-scope
// identifier assigned by the caller's counter.
func (b *Builder) Build(code int, id uuid.UUID, shape kernel.Shape) *Silhouette {
	s := &Silhouette{
		Code:      code,
		ShapeID:   id,
		Shape:     shape,
		Kind:      kernel.KindNone,
		CutFailed: true, // until a cut succeeds
	}
	if shape == nil {
		b.log.Errorf("silhouette %d: nil shape", code)
		return s
	}
	s.Kind = shape.Kind()

	pieces := b.k.SilhouetteCurves(shape, b.ctx.ViewDir, b.ctx.Tolerance, b.ctx.AngleTolerance)
	if len(pieces) == 0 {
		b.log.Warnf("silhouette %d: no boundary curve extracted", code)
		return s
	}

	joined := b.k.JoinCurves(pieces, b.ctx.Tolerance)
	if joined == nil {
		b.log.Warnf("silhouette %d: boundary pieces did not join", code)
		return s
	}
	s.Boundary = joined

	// Depth and projection need a resolved support plane.
	if !b.ctx.HasPlane {
		b.log.Warnf("silhouette %d: no support plane, skipping projection", code)
		return s
	}
	s.Depth = minBoxDepth(shape.BoundingBox(), b.ctx.Plane)
	s.Projected = b.k.ProjectCurve(joined, b.ctx.Plane)
	if s.Projected == nil {
		b.log.Warnf("silhouette %d: boundary projection failed", code)
	}
	return s
}

// minBoxDepth returns the minimum Z of the box's corners in the
// plane's frame.
func minBoxDepth(box geom.Box, plane geom.Plane) float64 {
	depth := 0.0
	first := true
	for _, x := range []float64{box.Min.X, box.Max.X} {
		for _, y := range []float64{box.Min.Y, box.Max.Y} {
			for _, z := range []float64{box.Min.Z, box.Max.Z} {
				d := plane.Z(geom.Vec3{X: x, Y: y, Z: z})
				if first || d < depth {
					depth = d
					first = false
				}
			}
		}
	}
	return depth
}
