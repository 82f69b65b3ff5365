// Package preprocess implements the pre-analysis AST rewrites:
// augmented-assignment desugaring.
package preprocess

import (
	"go/token"

	"github.com/dave/dst"
	"github.com/dave/dst/dstutil"
)

var augassignToBinary = map[token.Token]token.Token{
	token.ADD_ASSIGN: token.ADD,
	token.SUB_ASSIGN: token.SUB,
	token.MUL_ASSIGN: token.MUL,
	token.QUO_ASSIGN: token.QUO,
	token.REM_ASSIGN: token.REM,
}

// DesugarAugAssign rewrites every `target OP= value` into
// `target = target OP value`, for plain names and attribute/index chains
// alike, in place. Source positions and decorations on the original nodes
// are preserved because the rewrite mutates the existing AssignStmt rather
// than replacing it wholesale.
func DesugarAugAssign(file *dst.File) {
	dstutil.Apply(file, func(c *dstutil.Cursor) bool {
		assign, ok := c.Node().(*dst.AssignStmt)
		if !ok {
			return true
		}
		binOp, isAug := augassignToBinary[assign.Tok]
		if !isAug {
			return true
		}
		if len(assign.Lhs) != 1 || len(assign.Rhs) != 1 {
			return true
		}

		target := assign.Lhs[0]
		value := assign.Rhs[0]

		assign.Rhs = []dst.Expr{
			&dst.BinaryExpr{X: dst.Clone(target).(dst.Expr), Op: binOp, Y: value},
		}
		assign.Tok = token.ASSIGN
		return true
	}, nil)
}
