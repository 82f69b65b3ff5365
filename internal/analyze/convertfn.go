package analyze

import (
	"github.com/dave/dst"

	"github.com/bentobox-sdk/ecsgraph/internal/compileerrors"
	"github.com/bentobox-sdk/ecsgraph/internal/sourceast"
)

// ConvertFnInfo is the convert-function annotation: the unique top-level
// function declaration, its first parameter name (the Plotter binding),
// and the remaining parameter names (the
// pre-resolved Entity bindings this Go-native surface uses in place of
// ad-hoc `plotter.entity(...)` calls inside the body).
type ConvertFnInfo struct {
	Func         *dst.FuncDecl
	PlotterParam string
	EntityParams []string
	Shape        FuncShape
}

// ConvertFn finds the unique top-level function declaration in f and
// splits its parameter list into the plotter binding and the entity
// bindings.
func ConvertFn(f *sourceast.File) (*ConvertFnInfo, error) {
	fn, err := sourceast.ConvertFunc(f)
	if err != nil {
		return nil, err
	}

	var names []string
	if fn.Type.Params != nil {
		for _, field := range fn.Type.Params.List {
			for _, n := range field.Names {
				names = append(names, n.Name)
			}
		}
	}
	if len(names) == 0 {
		return nil, &compileerrors.UnsupportedInputError{
			Reason: "convert function must take at least one parameter (the plotter binding)",
		}
	}

	return &ConvertFnInfo{
		Func:         fn,
		PlotterParam: names[0],
		EntityParams: names[1:],
		Shape:        Func(fn),
	}, nil
}
