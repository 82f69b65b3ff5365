package pipeline

import (
	"github.com/bentobox-sdk/ecsgraph/internal/analyze"
	"github.com/bentobox-sdk/ecsgraph/internal/graphir"
	"github.com/bentobox-sdk/ecsgraph/internal/plotter"
	"github.com/bentobox-sdk/ecsgraph/internal/shims"
	"github.com/bentobox-sdk/ecsgraph/internal/sourceast"
)

// EntityBinding pre-resolves one convert-function entity parameter to the
// component set it stands for, replacing inline `plotter.entity(...)`
// calls made mid-body with an up-front resolution step before tracing begins.
type EntityBinding struct {
	Param      string
	Components []string
}

// CompileContext is the value threaded through every pipeline.Processor,
// accumulating the result of each compile stage until Err is
// set or the final stage populates Graph.
type CompileContext struct {
	SourceName string
	Source     string
	Bindings   []EntityBinding

	File       *sourceast.File
	Info       *analyze.ConvertFnInfo
	Plotter    *plotter.Plotter
	Entities   map[string]*shims.GraphEntity
	Graph      graphir.Graph

	Err error
}
