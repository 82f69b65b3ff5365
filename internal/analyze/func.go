// Package analyze implements the read-only analyzer passes:
// they walk the (preprocessed) AST once and annotate it or compute
// standalone facts consumed by the linters and by internal/tracer. None of
// them mutate the tree.
package analyze

import (
	"go/token"

	"github.com/dave/dst"
)

// FuncShape is the function-shape annotation: arg count, whether the body is
// empty, and whether the body uses
// any construct this Go-native surface treats as the "generator" case.
// Go has no generator/yield; the faithful analogue for a system that must
// trace deterministically, single-threaded, with no suspension points
// is any concurrency construct — go/select/channel ops — which
// this pass flags the same way a yield statement would be flagged.
type FuncShape struct {
	ArgCount    int
	IsEmpty     bool
	IsGenerator bool
}

// Func computes the FuncShape of a function declaration.
func Func(fn *dst.FuncDecl) FuncShape {
	shape := FuncShape{}
	if fn.Type.Params != nil {
		for _, f := range fn.Type.Params.List {
			if len(f.Names) == 0 {
				shape.ArgCount++
			} else {
				shape.ArgCount += len(f.Names)
			}
		}
	}
	shape.IsEmpty = isEmptyBody(fn.Body)
	shape.IsGenerator = usesConcurrency(fn.Body)
	return shape
}

// isEmptyBody mirrors the original's "only pass and/or a docstring
// expression" check: a body with no statements, or only bare literal
// expression statements, carries no semantics for the compiler.
func isEmptyBody(body *dst.BlockStmt) bool {
	if body == nil {
		return true
	}
	for _, stmt := range body.List {
		switch s := stmt.(type) {
		case *dst.ExprStmt:
			if _, ok := s.X.(*dst.BasicLit); ok {
				continue
			}
			return false
		default:
			return false
		}
	}
	return true
}

func usesConcurrency(node dst.Node) bool {
	found := false
	dst.Inspect(node, func(n dst.Node) bool {
		if found || n == nil {
			return false
		}
		switch s := n.(type) {
		case *dst.GoStmt, *dst.SelectStmt:
			found = true
		case *dst.UnaryExpr:
			if s.Op == token.ARROW {
				found = true
			}
		case *dst.SendStmt:
			found = true
		case *dst.ChanType:
			found = true
		}
		return !found
	})
	return found
}
