// Package pipeline orchestrates one solve: silhouette extraction,
// two-phase cutting, fragment classification, planar region
// decomposition and occlusion resolution. A Solver owns the solve's
// monotonic silhouette and region counters, so concurrent solves need
// only independent Solver values, never a reset call.
package pipeline

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/quillon/umbra/pkg/diag"
	"github.com/quillon/umbra/pkg/kernel"
	"github.com/quillon/umbra/pkg/region"
	"github.com/quillon/umbra/pkg/silhouette"
)

// Options control one solve.
type Options struct {
	// CreateShadowData enables the cutter and classifier stages. When
	// false every silhouette keeps empty fragment collections.
	CreateShadowData bool

	// Existing extends a pre-existing silhouette list: the new shapes
	// are appended after it and the region stage sees the union.
	// Existing silhouettes are not re-cut.
	Existing []*silhouette.Silhouette
}

// Result is the outcome of one solve.
type Result struct {
	Silhouettes []*silhouette.Silhouette
	Regions     []*region.Region

	// Log is the flat ordered diagnostic list, advisory only.
	Log []string
}

// Solver runs solves over one kernel and tolerance context. It is
// single-threaded and synchronous; each Solver owns its counters and
// must not be shared across concurrent solves.
type Solver struct {
	k   kernel.Kernel
	ctx *silhouette.Context
	log *diag.Log

	silCode    int
	regionCode int
}

// NewSolver builds a Solver. The kernel and context are batch-level
// preconditions; missing either aborts before any per-item work.
func NewSolver(k kernel.Kernel, ctx *silhouette.Context) (*Solver, error) {
	return NewSolverWithLog(k, ctx, diag.New())
}

// NewSolverWithLog is NewSolver with a caller-supplied diagnostic log.
func NewSolverWithLog(k kernel.Kernel, ctx *silhouette.Context, log *diag.Log) (*Solver, error) {
	if k == nil {
		return nil, errors.New("pipeline: geometry kernel is required")
	}
	if ctx == nil {
		return nil, errors.New("pipeline: tolerance context is required")
	}
	if log == nil {
		log = diag.New()
	}
	return &Solver{k: k, ctx: ctx, log: log}, nil
}

// nextSilhouetteCode allocates the next silhouette code, starting at 1.
func (sv *Solver) nextSilhouetteCode() int {
	sv.silCode++
	return sv.silCode
}

// nextRegionCode allocates the next region code, starting at 1.
func (sv *Solver) nextRegionCode() int {
	sv.regionCode++
	return sv.regionCode
}

// Solve runs the full pipeline over the shapes in input order. Only
// batch-level precondition failures return an error; every per-item
// failure is recovered, logged, and leaves the item flagged while the
// batch continues.
//
// Ordering guarantee: the simple-cut pass visits every silhouette
// before any advanced cut is attempted.
func (sv *Solver) Solve(shapes []kernel.Shape, opts Options) (*Result, error) {
	if len(shapes) == 0 && len(opts.Existing) == 0 {
		sv.log.Errorf("solve aborted: no shapes")
		return nil, errors.New("pipeline: no shapes to solve")
	}

	sils := append([]*silhouette.Silhouette(nil), opts.Existing...)

	builder := silhouette.NewBuilder(sv.k, sv.ctx, sv.log)
	var fresh []*silhouette.Silhouette
	for _, shape := range shapes {
		code := sv.nextSilhouetteCode()
		s := sv.buildOne(builder, code, shape)
		fresh = append(fresh, s)
		sils = append(sils, s)
	}

	if opts.CreateShadowData {
		sv.cutAndClassify(fresh)
	} else {
		sv.log.Infof("shadow data disabled, skipping cut and classification")
	}

	regions := sv.buildRegions(sils)
	return &Result{Silhouettes: sils, Regions: regions, Log: sv.log.Messages()}, nil
}

// buildOne creates one silhouette, absorbing unexpected faults.
func (sv *Solver) buildOne(b *silhouette.Builder, code int, shape kernel.Shape) (s *silhouette.Silhouette) {
	defer func() {
		if r := recover(); r != nil {
			sv.log.Errorf("build: silhouette %d: unexpected fault: %v", code, r)
			s = &silhouette.Silhouette{Code: code, ShapeID: uuid.New(), Shape: shape, CutFailed: true}
		}
	}()
	return b.Build(code, uuid.New(), shape)
}

// cutAndClassify runs the two cut phases and then classification.
// The simple pass runs to completion over the whole batch before the
// first advanced cut; the advanced pass only ever sees silhouettes
// already marked failed by the simple pass.
func (sv *Solver) cutAndClassify(sils []*silhouette.Silhouette) {
	cutter := silhouette.NewCutter(sv.k, sv.ctx, sv.log)

	results := make(map[*silhouette.Silhouette]silhouette.CutResult, len(sils))
	for _, s := range sils {
		results[s] = sv.cutOne("simple cut", s, func() silhouette.CutResult {
			return cutter.SimpleCut(s)
		})
	}

	for _, s := range sils {
		if results[s].Succeeded() {
			continue
		}
		if s.Kind != kernel.KindSolid {
			continue // advanced cut handles solids only
		}
		results[s] = sv.cutOne("advanced cut", s, func() silhouette.CutResult {
			return cutter.AdvancedCut(s)
		})
	}

	classifier := silhouette.NewClassifier(sv.k, sv.ctx, sv.log)
	for _, s := range sils {
		res := results[s]
		if !res.Succeeded() {
			continue
		}
		sv.classifyOne(classifier, s, res.Fragments)
	}
}

// cutOne runs one cut attempt, absorbing unexpected faults.
func (sv *Solver) cutOne(stage string, s *silhouette.Silhouette, fn func() silhouette.CutResult) (res silhouette.CutResult) {
	defer func() {
		if r := recover(); r != nil {
			sv.log.Errorf("%s: silhouette %d: unexpected fault: %v", stage, s.Code, r)
			s.CutFailed = true
			res = silhouette.CutResult{Status: silhouette.CutFailed}
		}
	}()
	return fn()
}

// classifyOne runs classification for one silhouette, absorbing
// unexpected faults.
func (sv *Solver) classifyOne(cl *silhouette.Classifier, s *silhouette.Silhouette, frags []kernel.Shape) {
	defer func() {
		if r := recover(); r != nil {
			sv.log.Errorf("classify: silhouette %d: unexpected fault: %v", s.Code, r)
		}
	}()
	cl.Classify(s, frags)
}

// buildRegions runs the region decomposition and occlusion stages,
// absorbing unexpected faults.
func (sv *Solver) buildRegions(sils []*silhouette.Silhouette) (regions []*region.Region) {
	defer func() {
		if r := recover(); r != nil {
			sv.log.Errorf("regions: unexpected fault: %v", r)
			regions = nil
		}
	}()
	rb := region.NewBuilder(sv.k, sv.ctx, sv.log)
	regions = rb.Build(sils, sv.nextRegionCode)
	if len(regions) == 0 {
		return regions
	}
	region.NewResolver(sv.k, sv.ctx, sv.log).Resolve(regions, sils)
	return regions
}
