package scene

import (
	"strings"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"

	"github.com/quillon/umbra/pkg/kernel/sdfx"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// Engine evaluates scene scripts. Each call to Evaluate creates a
// fresh sandboxed zygomys environment for determinism.
type Engine struct {
	backend *sdfx.Backend
}

// NewEngine returns an Engine building shapes on the given sdfx
// backend.
func NewEngine(backend *sdfx.Backend) *Engine {
	return &Engine{backend: backend}
}

type evalResult struct {
	scene *Scene
	err   error
}

// Evaluate runs a scene script and returns the resulting Scene.
// Parse errors, runtime errors in user code, panics and timeouts all
// surface as a single error.
func (e *Engine) Evaluate(source string) (*Scene, error) {
	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: errors.Errorf("panic during evaluation: %v", r)}
			}
		}()
		sc, err := e.evaluate(source)
		ch <- evalResult{scene: sc, err: err}
	}()

	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.scene, res.err
	case <-timer.C:
		return nil, errors.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Scene, error) {
	// Empty source is a valid script that produces an empty scene.
	if strings.TrimSpace(source) == "" {
		return newScene(), nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or
	// syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	sc := newScene()
	registerBuiltins(env, e.backend, sc)

	if err := env.LoadString(source); err != nil {
		return nil, errors.Wrap(err, "scene parse")
	}
	if _, err := env.Run(); err != nil {
		return nil, errors.Wrap(err, "scene eval")
	}
	return sc, nil
}
