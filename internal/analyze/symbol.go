package analyze

import (
	"fmt"
	"strconv"

	"github.com/dave/dst"
)

// Symbol computes a canonical symbol name for the
// restricted shapes this Go-native surface supports: a bare identifier
// (`x`), or an attribute expression `entity["component"].attribute` built
// from an IndexExpr (string-literal index) wrapped in a SelectorExpr. It
// returns the canonical dotted/bracket string form and the outermost
// ("base") name: `a.b.c -> symbol="a.b.c", base_symbol="a"` and
// `m[k] -> base_symbol="m"`.
func Symbol(expr dst.Expr) (sym string, base string, ok bool) {
	switch e := expr.(type) {
	case *dst.Ident:
		return e.Name, e.Name, true
	case *dst.SelectorExpr:
		subSym, subBase, ok := Symbol(e.X)
		if !ok {
			return "", "", false
		}
		return fmt.Sprintf("%s.%s", subSym, e.Sel.Name), subBase, true
	case *dst.IndexExpr:
		subSym, subBase, ok := Symbol(e.X)
		if !ok {
			return "", "", false
		}
		idx, ok := indexLiteral(e.Index)
		if !ok {
			return "", "", false
		}
		return fmt.Sprintf("%s[%s]", subSym, idx), subBase, true
	default:
		return "", "", false
	}
}

func indexLiteral(expr dst.Expr) (string, bool) {
	lit, ok := expr.(*dst.BasicLit)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

// ComponentAttribute recognizes the `entity["component"].attribute` shape
// specifically and returns its three parts. This is the pattern
// internal/tracer dispatches Get/Set calls for (GraphEntity.Component,
// then GraphComponent.Get/Set).
func ComponentAttribute(expr dst.Expr) (entityParam, component, attribute string, ok bool) {
	sel, ok := expr.(*dst.SelectorExpr)
	if !ok {
		return "", "", "", false
	}
	idx, ok := sel.X.(*dst.IndexExpr)
	if !ok {
		return "", "", "", false
	}
	ident, ok := idx.X.(*dst.Ident)
	if !ok {
		return "", "", "", false
	}
	lit, ok := idx.Index.(*dst.BasicLit)
	if !ok {
		return "", "", "", false
	}
	comp, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", "", "", false
	}
	return ident.Name, comp, sel.Sel.Name, true
}
