package transform

import (
	"github.com/dave/dst"
	"github.com/dave/dst/dstutil"

	"github.com/bentobox-sdk/ecsgraph/internal/sourceast"
)

// TernaryFuncName is the reserved call users write in place of Python's
// `A if C else B` expression syntax, which Go's grammar has no equivalent
// for: `Ternary(C, A, B)` is valid, ordinary-looking Go (just a function
// call with three arguments), parses with no special-casing in
// internal/sourceast, and is exactly what this transform looks for.
const TernaryFuncName = "Ternary"

// LowerTernary rewrites every `Ternary(C, A, B)` call in file into
// `<plotterParam>.Switch(C, A, B)`: both branches are always captured as
// IR by Switch, so evaluation-order side effects (which this language has
// none of anyway) are never a concern.
func LowerTernary(file *dst.File, plotterParam string) {
	dstutil.Apply(file, func(c *dstutil.Cursor) bool {
		call, ok := c.Node().(*dst.CallExpr)
		if !ok {
			return true
		}
		ident, ok := call.Fun.(*dst.Ident)
		if !ok || ident.Name != TernaryFuncName {
			return true
		}
		if len(call.Args) != 3 {
			return true
		}
		call.Fun = sourceast.NewSelector(sourceast.NewIdent(plotterParam), "Switch")
		return true
	}, nil)
}
