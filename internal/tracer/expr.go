package tracer

import (
	"go/token"
	"strconv"

	"github.com/dave/dst"

	"github.com/bentobox-sdk/ecsgraph/internal/analyze"
	"github.com/bentobox-sdk/ecsgraph/internal/compileerrors"
	"github.com/bentobox-sdk/ecsgraph/internal/shims"
)

// evalExpr translates one expression directly into the GraphNode/Plotter
// calls it denotes, one AST node at a time rather than through a separate
// IR-building pass.
func (tr *Tracer) evalExpr(s scope, expr dst.Expr) (*shims.GraphNode, error) {
	switch e := expr.(type) {
	case *dst.ParenExpr:
		return tr.evalExpr(s, e.X)

	case *dst.BasicLit:
		return tr.evalLiteral(e)

	case *dst.Ident:
		return tr.evalIdent(s, e)

	case *dst.UnaryExpr:
		return tr.evalUnary(s, e)

	case *dst.BinaryExpr:
		return tr.evalBinary(s, e)

	case *dst.CallExpr:
		return tr.evalCall(s, e)

	case *dst.SelectorExpr, *dst.IndexExpr:
		return tr.evalAttributeRead(s, expr, tr.nextLine())

	default:
		return nil, &compileerrors.UnsupportedInputError{Reason: "unsupported expression shape"}
	}
}

func (tr *Tracer) evalLiteral(lit *dst.BasicLit) (*shims.GraphNode, error) {
	switch lit.Kind {
	case token.INT:
		n, err := strconv.ParseInt(lit.Value, 0, 64)
		if err != nil {
			return nil, &compileerrors.TypeError{Reason: "invalid integer literal " + lit.Value}
		}
		return shims.Wrap(n)
	case token.FLOAT:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return nil, &compileerrors.TypeError{Reason: "invalid float literal " + lit.Value}
		}
		return shims.Wrap(f)
	case token.STRING:
		str, err := strconv.Unquote(lit.Value)
		if err != nil {
			return nil, &compileerrors.TypeError{Reason: "invalid string literal " + lit.Value}
		}
		return shims.Wrap(str)
	default:
		return nil, &compileerrors.UnsupportedInputError{Reason: "unsupported literal kind"}
	}
}

func (tr *Tracer) evalIdent(s scope, id *dst.Ident) (*shims.GraphNode, error) {
	switch id.Name {
	case "true":
		return shims.Wrap(true)
	case "false":
		return shims.Wrap(false)
	}
	n, ok := s.getVar(id.Name)
	if !ok {
		return nil, &compileerrors.UnsupportedInputError{Reason: "undefined symbol " + id.Name}
	}
	return n, nil
}

func (tr *Tracer) evalUnary(s scope, e *dst.UnaryExpr) (*shims.GraphNode, error) {
	x, err := tr.evalExpr(s, e.X)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case token.SUB:
		return x.Neg()
	case token.ADD:
		return x.Pos(), nil
	case token.NOT:
		return tr.plotter.Not(x)
	default:
		return nil, &compileerrors.UnsupportedInputError{Reason: "unsupported unary operator " + e.Op.String()}
	}
}

func (tr *Tracer) evalBinary(s scope, e *dst.BinaryExpr) (*shims.GraphNode, error) {
	x, err := tr.evalExpr(s, e.X)
	if err != nil {
		return nil, err
	}
	y, err := tr.evalExpr(s, e.Y)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case token.ADD:
		return x.Add(y)
	case token.SUB:
		return x.Sub(y)
	case token.MUL:
		return x.Mul(y)
	case token.QUO:
		return x.Div(y)
	case token.REM:
		return x.Mod(y)
	case token.EQL:
		return x.Eq(y)
	case token.NEQ:
		return x.Ne(y)
	case token.LSS:
		return x.Lt(y)
	case token.GTR:
		return x.Gt(y)
	case token.LEQ:
		return x.Le(y)
	case token.GEQ:
		return x.Ge(y)
	case token.LAND:
		return tr.plotter.And(x, y)
	case token.LOR:
		return tr.plotter.Or(x, y)
	default:
		return nil, &compileerrors.UnsupportedInputError{Reason: "unsupported binary operator " + e.Op.String()}
	}
}

func (tr *Tracer) evalCall(s scope, call *dst.CallExpr) (*shims.GraphNode, error) {
	sel, ok := call.Fun.(*dst.SelectorExpr)
	if !ok {
		return nil, &compileerrors.UnsupportedControlFlowError{Reason: "unsupported call expression"}
	}
	ident, ok := sel.X.(*dst.Ident)
	if !ok || ident.Name != tr.plotterParam {
		return nil, &compileerrors.UnsupportedControlFlowError{Reason: "calls are only supported on the plotter binding"}
	}

	args := make([]*shims.GraphNode, len(call.Args))
	for i, a := range call.Args {
		n, err := tr.evalExpr(s, a)
		if err != nil {
			return nil, err
		}
		args[i] = n
	}
	return tr.dispatchPlotterCall(sel.Sel.Name, args)
}

// evalAttributeRead resolves `entity["component"].attribute` (the
// Get contract) through the current scope's entity binding, so a read
// inside a forked branch observes that branch's own prior writes first.
func (tr *Tracer) evalAttributeRead(s scope, expr dst.Expr, line int) (*shims.GraphNode, error) {
	entityParam, component, attribute, ok := analyze.ComponentAttribute(expr)
	if !ok {
		return nil, &compileerrors.UnsupportedInputError{Reason: "unsupported attribute expression"}
	}
	e, err := s.entity(entityParam)
	if err != nil {
		return nil, err
	}
	c, err := e.Component(component)
	if err != nil {
		return nil, err
	}
	return c.Get(attribute, line)
}
