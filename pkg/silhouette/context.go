package silhouette

import (
	"github.com/pkg/errors"

	"github.com/quillon/umbra/pkg/geom"
)

// Context is the immutable tolerance bundle shared by every pipeline
// stage: linear and angular tolerances, the view direction, and the
// support plane (the near plane of the resolved view). It is supplied
// by the host's view-resolution layer.
type Context struct {
	Tolerance      float64
	AngleTolerance float64
	ViewDir        geom.Vec3
	Plane          geom.Plane
	HasPlane       bool
}

// NewContext validates and builds a Context. A missing support plane
// is recoverable (depth and projection are skipped downstream), but a
// non-positive tolerance or a zero view direction is a batch-level
// precondition failure.
func NewContext(tol, angleTol float64, viewDir geom.Vec3, plane geom.Plane) (*Context, error) {
	if tol <= 0 {
		return nil, errors.Errorf("tolerance must be positive, got %g", tol)
	}
	if angleTol <= 0 {
		return nil, errors.Errorf("angle tolerance must be positive, got %g", angleTol)
	}
	if viewDir.Norm() == 0 {
		return nil, errors.New("view direction must be non-zero")
	}
	return &Context{
		Tolerance:      tol,
		AngleTolerance: angleTol,
		ViewDir:        viewDir.Normalize(),
		Plane:          plane,
		HasPlane:       plane.Valid(),
	}, nil
}

// RayDir returns the direction used for self-occlusion ray tests: the
// support-plane normal when a plane was resolved, else the view
// direction.
func (c *Context) RayDir() geom.Vec3 {
	if c.HasPlane {
		return c.Plane.Normal
	}
	return c.ViewDir
}
