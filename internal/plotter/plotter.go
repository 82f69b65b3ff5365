// Package plotter implements the tracing context: the
// surface invoked (by internal/tracer) with the rewritten convert
// function's body, which records reads/writes and ultimately emits a
// graphir.Graph.
package plotter

import (
	"sort"
	"strings"

	"github.com/bentobox-sdk/ecsgraph/internal/compileerrors"
	"github.com/bentobox-sdk/ecsgraph/internal/graphir"
	"github.com/bentobox-sdk/ecsgraph/internal/shims"
	"github.com/bentobox-sdk/ecsgraph/internal/value"
)

// EntityRegistration is one simulation entity made available for a
// compilation: its engine-assigned id and the attribute schema of each
// component attached to it.
type EntityRegistration struct {
	ID         uint64
	Components map[string]map[string]value.Type // component name -> attribute schema
}

func componentSetKey(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// Plotter is the tracing context: it resolves entities by component set,
// exposes constants/switch/arithmetic/trig/random helpers, and produces
// the final Graph from recorded activity.
type Plotter struct {
	entityIndex map[string]*shims.GraphEntity
	shared      *shims.SharedState
}

// New builds a Plotter pre-populated with GraphEntitys whose component
// sets reflect the simulation's registered entities & components.
func New(entities []EntityRegistration) *Plotter {
	shared := shims.NewSharedState()
	index := make(map[string]*shims.GraphEntity, len(entities))
	for _, reg := range entities {
		names := make([]string, 0, len(reg.Components))
		for name := range reg.Components {
			names = append(names, name)
		}
		index[componentSetKey(names)] = shims.NewGraphEntityShared(reg.ID, reg.Components, shared)
	}
	return &Plotter{entityIndex: index, shared: shared}
}

// Entity resolves a GraphEntity by its set of component names. Duplicate
// names in components is a DuplicateComponentsError; a component set with
// no registered entity is an UnknownEntityError.
func (p *Plotter) Entity(components ...string) (*shims.GraphEntity, error) {
	seen := make(map[string]bool, len(components))
	for _, c := range components {
		if seen[c] {
			return nil, &compileerrors.DuplicateComponentsError{Component: c}
		}
		seen[c] = true
	}

	e, ok := p.entityIndex[componentSetKey(components)]
	if !ok {
		return nil, &compileerrors.UnknownEntityError{Components: components}
	}
	return e, nil
}

// Const wraps a host value as a Const Node.
func (p *Plotter) Const(v any) (graphir.Node, error) {
	val, err := value.Wrap(v)
	if err != nil {
		return nil, err
	}
	return &graphir.ConstNode{Value: val}, nil
}

// Graph collects the Plotter's recorded activity into the final, ordered
// Graph.
func (p *Plotter) Graph() graphir.Graph {
	return graphir.Graph{Inputs: p.shared.Inputs(), Outputs: p.shared.Outputs()}
}

func binary(op graphir.BinaryOp, x, y any) (*shims.GraphNode, error) {
	xn, err := shims.Wrap(x)
	if err != nil {
		return nil, err
	}
	yn, err := shims.Wrap(y)
	if err != nil {
		return nil, err
	}
	return &shims.GraphNode{Node: &graphir.BinaryNode{Op: op, X: xn.Node, Y: yn.Node}}, nil
}

func unary(op graphir.UnaryOp, x any) (*shims.GraphNode, error) {
	xn, err := shims.Wrap(x)
	if err != nil {
		return nil, err
	}
	return &shims.GraphNode{Node: &graphir.UnaryNode{Op: op, X: xn.Node}}, nil
}

// Add, Sub, Mul, Div, Mod, Pow, Max, Min are the binary pure operators,
// one for one with the free-function forms (`plotter.add(x, y)`, etc.)
// a convert function can call directly.
func (p *Plotter) Add(x, y any) (*shims.GraphNode, error) { return binary(graphir.Add, x, y) }
func (p *Plotter) Sub(x, y any) (*shims.GraphNode, error) { return binary(graphir.Sub, x, y) }
func (p *Plotter) Mul(x, y any) (*shims.GraphNode, error) { return binary(graphir.Mul, x, y) }
func (p *Plotter) Div(x, y any) (*shims.GraphNode, error) { return binary(graphir.Div, x, y) }
func (p *Plotter) Mod(x, y any) (*shims.GraphNode, error) { return binary(graphir.Mod, x, y) }
func (p *Plotter) Pow(x, y any) (*shims.GraphNode, error) { return binary(graphir.Pow, x, y) }
func (p *Plotter) Max(x, y any) (*shims.GraphNode, error) { return binary(graphir.Max, x, y) }
func (p *Plotter) Min(x, y any) (*shims.GraphNode, error) { return binary(graphir.Min, x, y) }

// Abs, Floor, Ceil are the unary pure arithmetic operators.
func (p *Plotter) Abs(x any) (*shims.GraphNode, error)   { return unary(graphir.Abs, x) }
func (p *Plotter) Floor(x any) (*shims.GraphNode, error) { return unary(graphir.Floor, x) }
func (p *Plotter) Ceil(x any) (*shims.GraphNode, error)  { return unary(graphir.Ceil, x) }

// Sin, Cos, Tan, ArcSin, ArcCos, ArcTan are the trigonometric operators.
func (p *Plotter) Sin(x any) (*shims.GraphNode, error)    { return unary(graphir.Sin, x) }
func (p *Plotter) Cos(x any) (*shims.GraphNode, error)    { return unary(graphir.Cos, x) }
func (p *Plotter) Tan(x any) (*shims.GraphNode, error)    { return unary(graphir.Tan, x) }
func (p *Plotter) ArcSin(x any) (*shims.GraphNode, error) { return unary(graphir.ArcSin, x) }
func (p *Plotter) ArcCos(x any) (*shims.GraphNode, error) { return unary(graphir.ArcCos, x) }
func (p *Plotter) ArcTan(x any) (*shims.GraphNode, error) { return unary(graphir.ArcTan, x) }

// And, Or, Not are the boolean connectives; Eq, Gt, Lt, Ge, Le the
// comparisons. Ge and Le are built the way GraphNode desugars them
// (Or(Gt, Eq) and Or(Lt, Eq)), so the graphir Ge/Le ops are not emitted
// here; Plotter has no Ne helper (GraphNode.Ne builds Not(Eq)). The
// free-function forms exist because user source may call `plotter.ge(x, y)`
// style helpers directly rather than through operator overloads.
func (p *Plotter) And(x, y any) (*shims.GraphNode, error) { return binary(graphir.And, x, y) }
func (p *Plotter) Or(x, y any) (*shims.GraphNode, error)  { return binary(graphir.Or, x, y) }
func (p *Plotter) Not(x any) (*shims.GraphNode, error)    { return unary(graphir.Not, x) }
func (p *Plotter) Eq(x, y any) (*shims.GraphNode, error)  { return binary(graphir.Eq, x, y) }
func (p *Plotter) Gt(x, y any) (*shims.GraphNode, error)  { return binary(graphir.Gt, x, y) }
func (p *Plotter) Lt(x, y any) (*shims.GraphNode, error)  { return binary(graphir.Lt, x, y) }
func (p *Plotter) Ge(x, y any) (*shims.GraphNode, error) {
	xn, err := shims.Wrap(x)
	if err != nil {
		return nil, err
	}
	return xn.Ge(y)
}
func (p *Plotter) Le(x, y any) (*shims.GraphNode, error) {
	xn, err := shims.Wrap(x)
	if err != nil {
		return nil, err
	}
	return xn.Le(y)
}

// Random produces a value uniformly distributed in [low, high].
func (p *Plotter) Random(low, high any) (*shims.GraphNode, error) {
	lown, err := shims.Wrap(low)
	if err != nil {
		return nil, err
	}
	highn, err := shims.Wrap(high)
	if err != nil {
		return nil, err
	}
	return &shims.GraphNode{Node: &graphir.RandomNode{Low: lown.Node, High: highn.Node}}, nil
}

// Switch selects between whenTrue and whenFalse based on condition,
// capturing both branches as IR unconditionally — no
// short-circuiting. This backs both the ternary transform and the
// if/else-to-Switch lowering in internal/tracer.
func (p *Plotter) Switch(condition, whenTrue, whenFalse any) (*shims.GraphNode, error) {
	cond, err := shims.Wrap(condition)
	if err != nil {
		return nil, err
	}
	t, err := shims.Wrap(whenTrue)
	if err != nil {
		return nil, err
	}
	f, err := shims.Wrap(whenFalse)
	if err != nil {
		return nil, err
	}
	return &shims.GraphNode{Node: &graphir.SwitchNode{Condition: cond.Node, True: t.Node, False: f.Node}}, nil
}
