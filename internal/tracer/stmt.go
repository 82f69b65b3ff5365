package tracer

import (
	"github.com/dave/dst"

	"github.com/bentobox-sdk/ecsgraph/internal/analyze"
	"github.com/bentobox-sdk/ecsgraph/internal/compileerrors"
	"github.com/bentobox-sdk/ecsgraph/internal/sourceast"
)

// traceStmts executes stmts in source order against s. internal/analyze's
// Lint has already restricted the statement shapes that can reach here.
func (tr *Tracer) traceStmts(s scope, stmts []dst.Stmt) error {
	for _, stmt := range stmts {
		if err := tr.traceStmt(s, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (tr *Tracer) traceStmt(s scope, stmt dst.Stmt) error {
	line := tr.nextLine()

	switch st := stmt.(type) {
	case *dst.AssignStmt:
		return tr.traceAssign(s, st, line)

	case *dst.IfStmt:
		return tr.traceIf(s, st, line)

	case *dst.ExprStmt:
		_, err := tr.evalExpr(s, st.X)
		return err

	case *dst.ReturnStmt:
		return nil

	default:
		return &compileerrors.UnsupportedControlFlowError{Reason: "unsupported statement shape", Pos: sourceast.Position(line)}
	}
}

func (tr *Tracer) traceAssign(s scope, st *dst.AssignStmt, line int) error {
	rhs, err := tr.evalExpr(s, st.Rhs[0])
	if err != nil {
		return err
	}

	lhs := st.Lhs[0]
	if id, ok := lhs.(*dst.Ident); ok {
		s.setVar(id.Name, rhs)
		return nil
	}

	entityParam, component, attribute, ok := analyze.ComponentAttribute(lhs)
	if !ok {
		return &compileerrors.UnsupportedControlFlowError{Reason: "unsupported assignment target", Pos: sourceast.Position(line)}
	}
	e, err := s.entity(entityParam)
	if err != nil {
		return err
	}
	c, err := e.Component(component)
	if err != nil {
		return err
	}
	return c.Set(attribute, rhs, line)
}
