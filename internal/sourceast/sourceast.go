// Package sourceast implements the AST acquisition and synthesis layer. The
// surface is user Go source text for a "convert
// function", parsed with github.com/dave/dst so that positions and
// comments survive the preprocess/transform passes untouched.
package sourceast

import (
	"fmt"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"

	"github.com/bentobox-sdk/ecsgraph/internal/compileerrors"
)

// File wraps a parsed dst file together with the name it was parsed under.
type File struct {
	Dst  *dst.File
	Name string
}

// Parse decorates source (a single Go source file containing exactly one
// top-level convert function) into a
// dst.File, preserving comments and source positions.
func Parse(name, source string) (*File, error) {
	f, err := decorator.Parse(source)
	if err != nil {
		return nil, &compileerrors.UnsupportedInputError{Reason: fmt.Sprintf("source does not parse as Go: %v", err)}
	}
	return &File{Dst: f, Name: name}, nil
}

// ConvertFunc finds the unique top-level function declaration in f:
// exactly one function is expected at module scope.
func ConvertFunc(f *File) (*dst.FuncDecl, error) {
	var found *dst.FuncDecl
	for _, decl := range f.Dst.Decls {
		fn, ok := decl.(*dst.FuncDecl)
		if !ok {
			continue
		}
		if found != nil {
			return nil, &compileerrors.UnsupportedInputError{Reason: "source must declare exactly one convert function, found more than one"}
		}
		found = fn
	}
	if found == nil {
		return nil, &compileerrors.UnsupportedInputError{Reason: "source declares no top-level function"}
	}
	return found, nil
}

// Position returns the best-effort (line, column) of a node for
// diagnostics. dst nodes carry no numeric position of their own (that
// belongs to the go/token.FileSet a *dst.File's decorator owns
// internally); callers therefore thread an explicit running line counter
// through the walk instead of asking nodes for it (see internal/tracer).
func Position(line int) compileerrors.Position {
	return compileerrors.Position{Line: line, Column: 0}
}

// NewIdent synthesizes a bare identifier expression, used by transform
// passes that build replacement nodes.
func NewIdent(name string) *dst.Ident {
	return dst.NewIdent(name)
}

// NewSelector synthesizes `x.sel`, used by internal/transform to rewrite a
// bare call into a method call on the plotter parameter.
func NewSelector(x dst.Expr, sel string) *dst.SelectorExpr {
	return &dst.SelectorExpr{X: x, Sel: dst.NewIdent(sel)}
}

// Print renders f back to Go source text, used by diagnostics that quote
// the (possibly transformed) convert function.
func Print(f *File) (string, error) {
	var buf strings.Builder
	if err := decorator.Fprint(&buf, f.Dst); err != nil {
		return "", err
	}
	return buf.String(), nil
}
