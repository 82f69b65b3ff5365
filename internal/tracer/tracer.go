package tracer

import (
	"github.com/bentobox-sdk/ecsgraph/internal/analyze"
	"github.com/bentobox-sdk/ecsgraph/internal/compileerrors"
	"github.com/bentobox-sdk/ecsgraph/internal/graphir"
	"github.com/bentobox-sdk/ecsgraph/internal/plotter"
	"github.com/bentobox-sdk/ecsgraph/internal/shims"
)

// Tracer walks a linted, transformed convert function body and records its
// activity into a Plotter by invoking the materialized graph-building
// entry point against the resolved entities.
type Tracer struct {
	plotter      *plotter.Plotter
	plotterParam string
	line         int
}

// nextLine hands out a monotonically increasing line counter used as the
// best-effort source position in diagnostics: dst nodes carry no numeric
// position of their own (see internal/sourceast's note), so rather than
// reconstruct one, the walk just counts statements/expressions visited.
func (tr *Tracer) nextLine() int {
	tr.line++
	return tr.line
}

// Run traces info.Func's body against pl, with entities already resolved
// for each of info.EntityParams: this Go-native surface performs that
// resolution ahead of tracing rather than from inline
// `plotter.entity(...)` calls.
func Run(pl *plotter.Plotter, info *analyze.ConvertFnInfo, entities map[string]*shims.GraphEntity) (graphir.Graph, error) {
	for _, p := range info.EntityParams {
		if _, ok := entities[p]; !ok {
			return graphir.Graph{}, &compileerrors.UnsupportedInputError{
				Reason: "no entity bound to parameter " + p,
			}
		}
	}

	tr := &Tracer{plotter: pl, plotterParam: info.PlotterParam}
	root := newRootScope(entities)

	if info.Func.Body != nil {
		if err := tr.traceStmts(root, info.Func.Body.List); err != nil {
			return graphir.Graph{}, err
		}
	}

	return pl.Graph(), nil
}
