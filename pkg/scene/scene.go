// Package scene provides the Lisp scene DSL. A script constructs
// shapes through the sdfx kernel backend, registers them for the
// solve and sets the view direction. Evaluation runs in a sandboxed
// zygomys environment with a hard timeout.
package scene

import (
	"github.com/quillon/umbra/pkg/geom"
	"github.com/quillon/umbra/pkg/kernel"
)

// Scene is the result of evaluating a scene script.
type Scene struct {
	// Shapes in registration order.
	Shapes []kernel.Shape

	// ViewDir is the view direction set by (view dx dy dz).
	ViewDir geom.Vec3

	// HasView reports whether the script set a view.
	HasView bool
}

// newScene returns an empty scene.
func newScene() *Scene {
	return &Scene{}
}

// addShape registers a shape for the solve.
func (s *Scene) addShape(shape kernel.Shape) {
	s.Shapes = append(s.Shapes, shape)
}

// setView records the view direction.
func (s *Scene) setView(dir geom.Vec3) {
	s.ViewDir = dir
	s.HasView = true
}
