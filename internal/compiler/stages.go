// Package compiler wires the parse/preprocess/analyze/lint/transform/trace
// stages (internal/sourceast, internal/preprocess, internal/analyze,
// internal/transform, internal/tracer) into an ordered pipeline.Pipeline,
// each stage a pipeline.Processor operating on a
// shared pipeline.CompileContext.
package compiler

import (
	"github.com/bentobox-sdk/ecsgraph/internal/analyze"
	"github.com/bentobox-sdk/ecsgraph/internal/compileerrors"
	"github.com/bentobox-sdk/ecsgraph/internal/pipeline"
	"github.com/bentobox-sdk/ecsgraph/internal/plotter"
	"github.com/bentobox-sdk/ecsgraph/internal/preprocess"
	"github.com/bentobox-sdk/ecsgraph/internal/shims"
	"github.com/bentobox-sdk/ecsgraph/internal/sourceast"
	"github.com/bentobox-sdk/ecsgraph/internal/tracer"
	"github.com/bentobox-sdk/ecsgraph/internal/transform"
)

// parseStage acquires the AST from source text.
type parseStage struct{}

func (parseStage) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	f, err := sourceast.Parse(ctx.SourceName, ctx.Source)
	if err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.File = f
	return ctx
}

// preprocessStage performs augmented-assignment desugaring.
type preprocessStage struct{}

func (preprocessStage) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	preprocess.DesugarAugAssign(ctx.File.Dst)
	return ctx
}

// analyzeStage finds the convert function and
// computes its shape/parameter split.
type analyzeStage struct{}

func (analyzeStage) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	info, err := analyze.ConvertFn(ctx.File)
	if err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.Info = info
	return ctx
}

// lintStage rejects unsupported shapes before any
// rewrite runs.
type lintStage struct{}

func (lintStage) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	if err := analyze.Lint(ctx.Info); err != nil {
		ctx.Err = err
	}
	return ctx
}

// transformStage renames to the materialized
// entry point and lowers the ternary surface. if/elif/else lowering happens
// later, directly inside traceStage (see internal/transform/buildgraph.go).
type transformStage struct{}

func (transformStage) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	transform.RenameToBuildGraph(ctx.Info.Func)
	transform.LowerTernary(ctx.File.Dst, ctx.Info.PlotterParam)
	return ctx
}

// resolveEntitiesStage builds the Plotter and resolves
// each convert-function entity parameter to its bound GraphEntity ahead of
// tracing.
type resolveEntitiesStage struct {
	registrations []plotter.EntityRegistration
}

func (s resolveEntitiesStage) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	pl := plotter.New(s.registrations)
	ctx.Plotter = pl

	bound := make(map[string][]string, len(ctx.Bindings))
	for _, b := range ctx.Bindings {
		bound[b.Param] = b.Components
	}

	entities := make(map[string]*shims.GraphEntity, len(ctx.Info.EntityParams))
	for _, p := range ctx.Info.EntityParams {
		comps, ok := bound[p]
		if !ok {
			ctx.Err = &unboundParamError{Param: p}
			return ctx
		}
		e, err := pl.Entity(comps...)
		if err != nil {
			ctx.Err = err
			return ctx
		}
		entities[p] = e
	}
	ctx.Entities = entities
	return ctx
}

// traceStage walks the rewritten body and emits the
// final Graph.
type traceStage struct{}

func (traceStage) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	graph, err := tracer.Run(ctx.Plotter, ctx.Info, ctx.Entities)
	if err != nil {
		ctx.Err = err
		return ctx
	}
	if err := graph.Validate(); err != nil {
		ctx.Err = &compileerrors.MaterializationFailureError{Reason: err.Error()}
		return ctx
	}
	ctx.Graph = graph
	return ctx
}
