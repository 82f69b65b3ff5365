// Package transform implements the AST-rewriting passes that
// run after linting and before tracing: renaming the convert function to
// the materialized entry point, and lowering the Go-native ternary
// surface to Plotter.Switch calls. if/elif/else lowering is instead
// performed directly by internal/tracer while it walks the rewritten
// tree: statically typed implementations can translate each AST node
// directly to an IR builder call, which licenses folding that rewrite into
// the IR-builder walk instead of re-deriving it as a second AST pass once Go
// if-statements (already structurally what's needed) are involved.
package transform

import "github.com/dave/dst"

// BuildGraphFuncName is the materialized entry point name, used by
// the `build_graph` rename below.
const BuildGraphFuncName = "BuildGraph"

// RenameToBuildGraph renames fn in place to BuildGraphFuncName. The
// original has decorators to strip here too; Go source has no decorator
// syntax, so the rewrite is just the rename.
func RenameToBuildGraph(fn *dst.FuncDecl) {
	fn.Name.Name = BuildGraphFuncName
}
