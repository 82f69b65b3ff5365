// Package shims implements the Graph IR shims: GraphNode,
// GraphComponent and GraphEntity. Go has no operator overloading, so
// GraphNode exposes ordinary methods (Add, Sub, ...) instead of
// `+`/`-`/`==` overloads; internal/tracer maps the Go operators in user
// source onto these methods, which is what lets that source still read
// like plain arithmetic.
package shims

import (
	"github.com/bentobox-sdk/ecsgraph/internal/graphir"
	"github.com/bentobox-sdk/ecsgraph/internal/value"
)

// GraphNode wraps an IR node and provides the builder methods that stand
// in for the host language's arithmetic/comparison overloads.
type GraphNode struct {
	Node graphir.Node
}

// Wrap returns x as a *GraphNode: if x is already one, it is returned as
// is; if x is a graphir.Node, it is wrapped; otherwise x is lifted via the
// value package into a Const node.
func Wrap(x any) (*GraphNode, error) {
	switch v := x.(type) {
	case *GraphNode:
		return v, nil
	case graphir.Node:
		return &GraphNode{Node: v}, nil
	default:
		val, err := value.Wrap(x)
		if err != nil {
			return nil, err
		}
		return &GraphNode{Node: &graphir.ConstNode{Value: val}}, nil
	}
}

func binary(op graphir.BinaryOp, x, y any) (*GraphNode, error) {
	xn, err := Wrap(x)
	if err != nil {
		return nil, err
	}
	yn, err := Wrap(y)
	if err != nil {
		return nil, err
	}
	return &GraphNode{Node: &graphir.BinaryNode{Op: op, X: xn.Node, Y: yn.Node}}, nil
}

func unary(op graphir.UnaryOp, x any) (*GraphNode, error) {
	xn, err := Wrap(x)
	if err != nil {
		return nil, err
	}
	return &GraphNode{Node: &graphir.UnaryNode{Op: op, X: xn.Node}}, nil
}

func (n *GraphNode) Add(y any) (*GraphNode, error) { return binary(graphir.Add, n, y) }
func (n *GraphNode) Sub(y any) (*GraphNode, error) { return binary(graphir.Sub, n, y) }
func (n *GraphNode) Mul(y any) (*GraphNode, error) { return binary(graphir.Mul, n, y) }
func (n *GraphNode) Div(y any) (*GraphNode, error) { return binary(graphir.Div, n, y) }
func (n *GraphNode) Mod(y any) (*GraphNode, error) { return binary(graphir.Mod, n, y) }

// Neg desugars unary minus to Sub(Const(0), x).
func (n *GraphNode) Neg() (*GraphNode, error) {
	zero, err := Wrap(int32(0))
	if err != nil {
		return nil, err
	}
	return binary(graphir.Sub, zero, n)
}

// Pos is the identity (unary plus has no effect).
func (n *GraphNode) Pos() *GraphNode { return n }

func (n *GraphNode) Eq(y any) (*GraphNode, error) { return binary(graphir.Eq, n, y) }

// Ne desugars to Not(Eq(x, y)).
func (n *GraphNode) Ne(y any) (*GraphNode, error) {
	eq, err := binary(graphir.Eq, n, y)
	if err != nil {
		return nil, err
	}
	return unary(graphir.Not, eq)
}

func (n *GraphNode) Lt(y any) (*GraphNode, error) { return binary(graphir.Lt, n, y) }
func (n *GraphNode) Gt(y any) (*GraphNode, error) { return binary(graphir.Gt, n, y) }

// Le desugars to Or(Lt(x, y), Eq(x, y)).
func (n *GraphNode) Le(y any) (*GraphNode, error) {
	lt, err := binary(graphir.Lt, n, y)
	if err != nil {
		return nil, err
	}
	eq, err := binary(graphir.Eq, n, y)
	if err != nil {
		return nil, err
	}
	return &GraphNode{Node: &graphir.BinaryNode{Op: graphir.Or, X: lt.Node, Y: eq.Node}}, nil
}

// Ge desugars to Or(Gt(x, y), Eq(x, y)).
func (n *GraphNode) Ge(y any) (*GraphNode, error) {
	gt, err := binary(graphir.Gt, n, y)
	if err != nil {
		return nil, err
	}
	eq, err := binary(graphir.Eq, n, y)
	if err != nil {
		return nil, err
	}
	return &GraphNode{Node: &graphir.BinaryNode{Op: graphir.Or, X: gt.Node, Y: eq.Node}}, nil
}

// Equal is structural equality on the wrapped Node.
func (n *GraphNode) Equal(o *GraphNode) bool {
	if n == nil || o == nil {
		return n == o
	}
	return graphir.Equal(n.Node, o.Node)
}
