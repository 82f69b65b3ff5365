package compiler

import (
	"fmt"

	"github.com/bentobox-sdk/ecsgraph/internal/graphir"
	"github.com/bentobox-sdk/ecsgraph/internal/pipeline"
	"github.com/bentobox-sdk/ecsgraph/internal/plotter"
)

// unboundParamError is raised by resolveEntitiesStage when the caller's
// CompileRequest does not bind every entity parameter the convert function
// declares.
type unboundParamError struct {
	Param string
}

func (e *unboundParamError) Error() string {
	return fmt.Sprintf("no entity binding provided for parameter %q", e.Param)
}

// CompileRequest is the compiler's public entry point input: the convert
// function's source text, the simulation's registered entities (by engine
// id and component schema), and the pre-resolved component set each entity
// parameter stands for.
type CompileRequest struct {
	SourceName string
	Source     string
	Entities   []plotter.EntityRegistration
	Bindings   []pipeline.EntityBinding
}

// Compile runs the full parse -> preprocess -> analyze -> lint -> transform
// -> resolve -> trace pipeline over req, returning the
// resulting Graph or the first stage error encountered.
func Compile(req CompileRequest) (graphir.Graph, error) {
	p := pipeline.New(
		parseStage{},
		preprocessStage{},
		analyzeStage{},
		lintStage{},
		transformStage{},
		resolveEntitiesStage{registrations: req.Entities},
		traceStage{},
	)

	ctx := p.Run(&pipeline.CompileContext{
		SourceName: req.SourceName,
		Source:     req.Source,
		Bindings:   req.Bindings,
	})

	if ctx.Err != nil {
		return graphir.Graph{}, ctx.Err
	}
	return ctx.Graph, nil
}
