// Package silhouette derives a shape's visibility-boundary curve for a
// view direction, cuts the shape along that curve, and classifies the
// resulting fragments as lit or self-shadowed using ray tests.
package silhouette

import (
	"github.com/google/uuid"

	"github.com/quillon/umbra/pkg/kernel"
)

// Silhouette is the per-shape record of one solve: the boundary curve
// extracted for the view, its projection onto the support plane, and
// the cut/classification state. It is created by the Builder, mutated
// in place by the Cutter and Classifier, and read by the region stage.
type Silhouette struct {
	// Code is the solve-scope identifier, assigned by the solver's
	// monotonic counter starting at 1.
	Code int

	// ShapeID identifies the owning shape across the host boundary.
	ShapeID uuid.UUID

	// Shape is the owning shape. The silhouette holds it exclusively
	// for the duration of the solve.
	Shape kernel.Shape

	// Kind is resolved once at creation.
	Kind kernel.ShapeKind

	// Boundary is the joined visibility-boundary curve, nil when
	// extraction or joining failed.
	Boundary kernel.Curve

	// Projected is Boundary projected onto the support plane, nil when
	// Boundary is nil or no plane was resolved.
	Projected kernel.Curve

	// Depth is the minimum Z of the shape's bounding box in the support
	// plane's frame; 0 when Boundary is nil.
	Depth float64

	// CutFailed is false only when a cut produced at least 2 fragments
	// and classification assigned at least one of them.
	CutFailed bool

	// Lit, Shadow and Undetermined partition the cut fragments after
	// classification. Undetermined is declared for a three-way outcome
	// the classifiers do not currently produce.
	Lit          []kernel.Shape
	Shadow       []kernel.Shape
	Undetermined []kernel.Shape

	fragments []kernel.Shape
}

// Fragments returns the cut output. When no cut succeeded it falls
// back to the original shape as a single-element slice, so callers
// always have geometry to work with.
func (s *Silhouette) Fragments() []kernel.Shape {
	if len(s.fragments) > 0 {
		return s.fragments
	}
	if s.Shape != nil {
		return []kernel.Shape{s.Shape}
	}
	return nil
}

// setFragments records the cut output.
func (s *Silhouette) setFragments(frags []kernel.Shape) {
	s.fragments = frags
}

// FragmentCount returns the number of fragments a successful cut
// produced, 0 otherwise.
func (s *Silhouette) FragmentCount() int { return len(s.fragments) }
