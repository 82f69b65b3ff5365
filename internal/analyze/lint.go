package analyze

import (
	"fmt"
	"strings"

	"github.com/dave/dst"

	"github.com/bentobox-sdk/ecsgraph/internal/compileerrors"
)

// Lint enforces the supported statement/expression subset over a
// ConvertFnInfo, raising UnsupportedInput/UnsupportedControlFlow. It runs
// after the analyzers and before the transforms, so it
// sees the augassign-desugared but otherwise original statement shapes.
func Lint(info *ConvertFnInfo) error {
	if info.Shape.IsGenerator {
		return &compileerrors.UnsupportedInputError{
			Reason: "convert function must not use concurrency constructs (go/select/channel)",
		}
	}
	if info.Func.Type.Results != nil && len(info.Func.Type.Results.List) != 0 {
		return &compileerrors.UnsupportedInputError{
			Reason: "convert function must not declare return values",
		}
	}
	if info.Shape.IsEmpty {
		return nil
	}
	if err := lintStmts(info.Func.Body.List); err != nil {
		return err
	}
	return lintControlFlow(info.Func.Body.List, map[string]bool{})
}

// lintStmts rejects every statement/expression shape outside the
// enumerated subset: assignment, if/elif/else, a bare expression
// statement, and a value-less return. No loops, no switches, no
// declarations, no multi-target/tuple assignment (Go's only native form of
// "multi"/"unpack" assignment shapes — unused by this domain's system
// bodies and rejected here).
func lintStmts(stmts []dst.Stmt) error {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *dst.AssignStmt:
			if len(s.Lhs) != 1 || len(s.Rhs) != 1 {
				return &compileerrors.UnsupportedControlFlowError{
					Reason: "multi-target/tuple assignment is not supported",
				}
			}
			if err := lintExpr(s.Rhs[0]); err != nil {
				return err
			}
		case *dst.IfStmt:
			if s.Init != nil {
				return &compileerrors.UnsupportedControlFlowError{
					Reason: "if-statements with an init clause are not supported",
				}
			}
			if err := lintExpr(s.Cond); err != nil {
				return err
			}
			if err := lintStmts(s.Body.List); err != nil {
				return err
			}
			switch e := s.Else.(type) {
			case nil:
			case *dst.BlockStmt:
				if err := lintStmts(e.List); err != nil {
					return err
				}
			case *dst.IfStmt:
				if err := lintStmts([]dst.Stmt{e}); err != nil {
					return err
				}
			default:
				return &compileerrors.UnsupportedControlFlowError{Reason: "unsupported else clause"}
			}
		case *dst.ExprStmt:
			if err := lintExpr(s.X); err != nil {
				return err
			}
		case *dst.ReturnStmt:
			if len(s.Results) != 0 {
				return &compileerrors.UnsupportedControlFlowError{
					Reason: "convert functions must not return a value",
				}
			}
		default:
			return &compileerrors.UnsupportedControlFlowError{
				Reason: fmt.Sprintf("unsupported statement %T", stmt),
			}
		}
	}
	return nil
}

func lintExpr(expr dst.Expr) error {
	switch e := expr.(type) {
	case *dst.Ident, *dst.BasicLit:
		return nil
	case *dst.BinaryExpr:
		if err := lintExpr(e.X); err != nil {
			return err
		}
		return lintExpr(e.Y)
	case *dst.UnaryExpr:
		return lintExpr(e.X)
	case *dst.ParenExpr:
		return lintExpr(e.X)
	case *dst.SelectorExpr:
		if _, _, ok := Symbol(e); ok {
			return nil
		}
		return &compileerrors.UnsupportedControlFlowError{Reason: "unsupported selector expression"}
	case *dst.IndexExpr:
		if _, _, ok := Symbol(e); ok {
			return nil
		}
		return &compileerrors.UnsupportedControlFlowError{Reason: "unsupported index expression"}
	case *dst.CallExpr:
		for _, a := range e.Args {
			if err := lintExpr(a); err != nil {
				return err
			}
		}
		return nil
	default:
		return &compileerrors.UnsupportedControlFlowError{Reason: fmt.Sprintf("unsupported expression %T", expr)}
	}
}

// lintControlFlow implements the "ambiguous conditional write" check: a
// local-variable output symbol of an if/elif/else
// chain must either already have a value before the chain, or be assigned
// in every one of its branches (including a final else). Attribute writes
// (`entity["component"].attr`) are exempt — GraphComponent.Get always has
// a sensible default (the attribute's current value), so only bare local
// identifiers can hit the "no default" case, which is treated as fatal.
func lintControlFlow(stmts []dst.Stmt, knownBefore map[string]bool) error {
	known := make(map[string]bool, len(knownBefore))
	for k := range knownBefore {
		known[k] = true
	}

	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *dst.AssignStmt:
			for _, lhs := range s.Lhs {
				if sym, _, ok := Symbol(lhs); ok && isLocalSymbol(sym) {
					known[sym] = true
				}
			}
		case *dst.IfStmt:
			branches := collectBranchStmtLists(s)
			hasElse := branches[len(branches)-1] != nil

			writesPerBranch := make([]map[string]bool, len(branches))
			allLocalSyms := map[string]bool{}
			for i, b := range branches {
				w := map[string]bool{}
				if b != nil {
					act := ComputeActivity(b)
					for _, sym := range act.OutputSyms {
						if isLocalSymbol(sym) {
							w[sym] = true
							allLocalSyms[sym] = true
						}
					}
				}
				writesPerBranch[i] = w
			}

			for sym := range allLocalSyms {
				if known[sym] {
					continue
				}
				if !hasElse {
					return &compileerrors.UnsupportedControlFlowError{
						Reason: fmt.Sprintf("%q is only conditionally assigned and has no value before this if statement", sym),
					}
				}
				for _, w := range writesPerBranch {
					if !w[sym] {
						return &compileerrors.UnsupportedControlFlowError{
							Reason: fmt.Sprintf("%q is not assigned in every branch and has no default value", sym),
						}
					}
				}
			}

			for _, b := range branches {
				if b == nil {
					continue
				}
				if err := lintControlFlow(b, known); err != nil {
					return err
				}
			}

			for sym := range allLocalSyms {
				allWrite := true
				for _, w := range writesPerBranch {
					if !w[sym] {
						allWrite = false
						break
					}
				}
				if allWrite {
					known[sym] = true
				}
			}
		}
	}
	return nil
}

// collectBranchStmtLists flattens an if/elif/else chain into its ordered
// branch bodies, with a trailing nil entry when there is no final else
// (elif chains are nested *dst.IfStmt values in dst, identically to
// go/ast).
func collectBranchStmtLists(s *dst.IfStmt) [][]dst.Stmt {
	branches := [][]dst.Stmt{s.Body.List}
	cur := s.Else
	for {
		switch e := cur.(type) {
		case nil:
			return append(branches, nil)
		case *dst.BlockStmt:
			return append(branches, e.List)
		case *dst.IfStmt:
			branches = append(branches, e.Body.List)
			cur = e.Else
		default:
			return append(branches, nil)
		}
	}
}

func isLocalSymbol(sym string) bool {
	return !strings.ContainsAny(sym, "[.")
}
