// Package pipeline is the compile-driver orchestration: a
// fixed sequence of Processors threaded through one CompileContext (parse ->
// preprocess -> analyze -> lint -> transform -> trace). Compiling a graph has
// no editor-feedback use case that wants every stage's diagnostics even
// after one stage fails, so Run stops at the first stage that sets ctx.Err
// (see CompileContext) rather than running every remaining Processor
// regardless.
package pipeline

// Processor is one stage of a compile pipeline.
type Processor interface {
	Process(ctx *CompileContext) *CompileContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline, stopping as soon as a stage records an error.
func (p *Pipeline) Run(initialCtx *CompileContext) *CompileContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		if ctx.Err != nil {
			break
		}
		ctx = processor.Process(ctx)
	}
	return ctx
}
