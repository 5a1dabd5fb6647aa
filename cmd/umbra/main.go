// Command umbra evaluates a scene script, solves the silhouette and
// region pipeline for it, and prints the diagnostic log together with
// a per-silhouette and per-region report.
package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/quillon/umbra/pkg/diag"
	"github.com/quillon/umbra/pkg/geom"
	"github.com/quillon/umbra/pkg/kernel/sdfx"
	"github.com/quillon/umbra/pkg/pipeline"
	"github.com/quillon/umbra/pkg/scene"
	"github.com/quillon/umbra/pkg/silhouette"
)

func main() {
	scenePath := flag.String("scene", "", "path to the scene script")
	tol := flag.Float64("tol", 1e-3, "linear tolerance")
	angleTol := flag.Float64("angle-tol", 1e-2, "angular tolerance (radians)")
	cells := flag.Int("resolution", 64, "marching cubes cell count")
	shadows := flag.Bool("shadows", true, "cut and classify self-shadow fragments")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if *scenePath == "" {
		log.Fatal("missing -scene")
	}
	source, err := os.ReadFile(*scenePath)
	if err != nil {
		log.WithError(err).Fatal("reading scene script")
	}

	backend := sdfx.NewWithResolution(*cells)
	sc, err := scene.NewEngine(backend).Evaluate(string(source))
	if err != nil {
		log.WithError(err).Fatal("evaluating scene script")
	}
	if len(sc.Shapes) == 0 {
		log.Fatal("scene registered no shapes")
	}
	viewDir := sc.ViewDir
	if !sc.HasView {
		viewDir = geom.Vec3{Z: -1}
		log.Warn("scene set no view, defaulting to -Z")
	}

	ctx, err := silhouette.NewContext(*tol, *angleTol, viewDir, supportPlane(sc, viewDir))
	if err != nil {
		log.WithError(err).Fatal("building tolerance context")
	}

	dlog := diag.NewWithLogger(log)
	solver, err := pipeline.NewSolverWithLog(backend, ctx, dlog)
	if err != nil {
		log.WithError(err).Fatal("building solver")
	}
	result, err := solver.Solve(sc.Shapes, pipeline.Options{CreateShadowData: *shadows})
	if err != nil {
		log.WithError(err).Fatal("solve aborted")
	}

	for _, s := range result.Silhouettes {
		log.WithFields(logrus.Fields{
			"code":      s.Code,
			"kind":      s.Kind.String(),
			"depth":     s.Depth,
			"cutFailed": s.CutFailed,
			"lit":       len(s.Lit),
			"shadow":    len(s.Shadow),
		}).Info("silhouette")
	}
	for _, r := range result.Regions {
		log.WithFields(logrus.Fields{
			"code":        r.Code,
			"area":        r.Area,
			"containedBy": r.ContainedBy,
			"occludedBy":  r.OccludedBy,
		}).Info("region")
	}
}

// supportPlane places the near plane in front of the scene along the
// view direction.
func supportPlane(sc *scene.Scene, viewDir geom.Vec3) geom.Plane {
	box := sc.Shapes[0].BoundingBox()
	for _, s := range sc.Shapes[1:] {
		box = box.Union(s.BoundingBox())
	}
	diagonal := box.Max.Sub(box.Min).Norm()
	origin := box.Center().Sub(viewDir.Normalize().Scale(diagonal))
	return geom.NewPlane(origin, viewDir)
}
