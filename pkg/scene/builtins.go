package scene

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/quillon/umbra/pkg/geom"
	"github.com/quillon/umbra/pkg/kernel"
	"github.com/quillon/umbra/pkg/kernel/sdfx"
)

// sexpShape wraps a kernel shape as a zygomys value.
type sexpShape struct {
	shape kernel.Shape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("#<shape %s>", s.shape.Kind())
}

func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// toFloat64 coerces a numeric Sexp.
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", s)
	}
}

// toShape unwraps a shape argument.
func toShape(s zygo.Sexp) (kernel.Shape, error) {
	w, ok := s.(*sexpShape)
	if !ok {
		return nil, fmt.Errorf("expected a shape, got %T", s)
	}
	return w.shape, nil
}

// floatArgs coerces exactly n numeric arguments.
func floatArgs(name string, args []zygo.Sexp, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires exactly %d arguments, got %d", name, n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", name, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// registerBuiltins installs the scene DSL into a zygomys environment.
func registerBuiltins(env *zygo.Zlisp, backend *sdfx.Backend, sc *Scene) {
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := floatArgs("box", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{shape: backend.Box(v[0], v[1], v[2])}, nil
	})

	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := floatArgs("sphere", args, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{shape: backend.Sphere(v[0])}, nil
	})

	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := floatArgs("cylinder", args, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{shape: backend.Cylinder(v[0], v[1])}, nil
	})

	binary := func(name string, op func(a, b kernel.Shape) kernel.Shape) {
		env.AddFunction(name, func(env *zygo.Zlisp, fname string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 shapes, got %d arguments", name, len(args))
			}
			a, err := toShape(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			b, err := toShape(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return &sexpShape{shape: op(a, b)}, nil
		})
	}
	binary("union", backend.Union)
	binary("difference", backend.Difference)
	binary("intersection", backend.Intersection)

	transform := func(name string, op func(s kernel.Shape, x, y, z float64) kernel.Shape) {
		env.AddFunction(name, func(env *zygo.Zlisp, fname string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 4 {
				return zygo.SexpNull, fmt.Errorf("%s requires a shape and 3 numbers, got %d arguments", name, len(args))
			}
			s, err := toShape(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			v, err := floatArgs(name, args[1:], 3)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpShape{shape: op(s, v[0], v[1], v[2])}, nil
		})
	}
	transform("translate", backend.Translate)
	transform("rotate", backend.Rotate)

	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("shape requires exactly 1 argument, got %d", len(args))
		}
		s, err := toShape(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: %w", err)
		}
		sc.addShape(s)
		return args[0], nil
	})

	env.AddFunction("view", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := floatArgs("view", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		dir := geom.Vec3{X: v[0], Y: v[1], Z: v[2]}
		if dir.Norm() == 0 {
			return zygo.SexpNull, fmt.Errorf("view direction must be non-zero")
		}
		sc.setView(dir)
		return zygo.SexpNull, nil
	})
}
