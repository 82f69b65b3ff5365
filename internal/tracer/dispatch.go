package tracer

import (
	"fmt"

	"github.com/bentobox-sdk/ecsgraph/internal/compileerrors"
	"github.com/bentobox-sdk/ecsgraph/internal/shims"
)

// dispatchPlotterCall routes a `<plotterParam>.Method(...)` call to the
// matching Plotter method: the builtin surface
// (random/switch/trig/const) that has no Go operator equivalent and so
// stays an explicit method call rather than going through evalBinary/Unary.
func (tr *Tracer) dispatchPlotterCall(method string, args []*shims.GraphNode) (*shims.GraphNode, error) {
	arity := func(n int) error {
		if len(args) != n {
			return &compileerrors.UnsupportedControlFlowError{
				Reason: fmt.Sprintf("%s expects %d argument(s), got %d", method, n, len(args)),
			}
		}
		return nil
	}

	switch method {
	case "Const":
		if err := arity(1); err != nil {
			return nil, err
		}
		node, err := tr.plotter.Const(args[0])
		if err != nil {
			return nil, err
		}
		return &shims.GraphNode{Node: node}, nil
	case "Switch":
		if err := arity(3); err != nil {
			return nil, err
		}
		return tr.plotter.Switch(args[0], args[1], args[2])
	case "Random":
		if err := arity(2); err != nil {
			return nil, err
		}
		return tr.plotter.Random(args[0], args[1])
	case "Add":
		if err := arity(2); err != nil {
			return nil, err
		}
		return tr.plotter.Add(args[0], args[1])
	case "Sub":
		if err := arity(2); err != nil {
			return nil, err
		}
		return tr.plotter.Sub(args[0], args[1])
	case "Mul":
		if err := arity(2); err != nil {
			return nil, err
		}
		return tr.plotter.Mul(args[0], args[1])
	case "Div":
		if err := arity(2); err != nil {
			return nil, err
		}
		return tr.plotter.Div(args[0], args[1])
	case "Mod":
		if err := arity(2); err != nil {
			return nil, err
		}
		return tr.plotter.Mod(args[0], args[1])
	case "Pow":
		if err := arity(2); err != nil {
			return nil, err
		}
		return tr.plotter.Pow(args[0], args[1])
	case "Max":
		if err := arity(2); err != nil {
			return nil, err
		}
		return tr.plotter.Max(args[0], args[1])
	case "Min":
		if err := arity(2); err != nil {
			return nil, err
		}
		return tr.plotter.Min(args[0], args[1])
	case "Abs":
		if err := arity(1); err != nil {
			return nil, err
		}
		return tr.plotter.Abs(args[0])
	case "Floor":
		if err := arity(1); err != nil {
			return nil, err
		}
		return tr.plotter.Floor(args[0])
	case "Ceil":
		if err := arity(1); err != nil {
			return nil, err
		}
		return tr.plotter.Ceil(args[0])
	case "Sin":
		if err := arity(1); err != nil {
			return nil, err
		}
		return tr.plotter.Sin(args[0])
	case "Cos":
		if err := arity(1); err != nil {
			return nil, err
		}
		return tr.plotter.Cos(args[0])
	case "Tan":
		if err := arity(1); err != nil {
			return nil, err
		}
		return tr.plotter.Tan(args[0])
	case "ArcSin":
		if err := arity(1); err != nil {
			return nil, err
		}
		return tr.plotter.ArcSin(args[0])
	case "ArcCos":
		if err := arity(1); err != nil {
			return nil, err
		}
		return tr.plotter.ArcCos(args[0])
	case "ArcTan":
		if err := arity(1); err != nil {
			return nil, err
		}
		return tr.plotter.ArcTan(args[0])
	case "And":
		if err := arity(2); err != nil {
			return nil, err
		}
		return tr.plotter.And(args[0], args[1])
	case "Or":
		if err := arity(2); err != nil {
			return nil, err
		}
		return tr.plotter.Or(args[0], args[1])
	case "Not":
		if err := arity(1); err != nil {
			return nil, err
		}
		return tr.plotter.Not(args[0])
	case "Eq":
		if err := arity(2); err != nil {
			return nil, err
		}
		return tr.plotter.Eq(args[0], args[1])
	case "Gt":
		if err := arity(2); err != nil {
			return nil, err
		}
		return tr.plotter.Gt(args[0], args[1])
	case "Lt":
		if err := arity(2); err != nil {
			return nil, err
		}
		return tr.plotter.Lt(args[0], args[1])
	case "Ge":
		if err := arity(2); err != nil {
			return nil, err
		}
		return tr.plotter.Ge(args[0], args[1])
	case "Le":
		if err := arity(2); err != nil {
			return nil, err
		}
		return tr.plotter.Le(args[0], args[1])
	default:
		return nil, &compileerrors.UnsupportedControlFlowError{Reason: fmt.Sprintf("unsupported plotter call %q", method)}
	}
}
