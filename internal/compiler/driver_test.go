package compiler

import (
	"testing"

	"github.com/bentobox-sdk/ecsgraph/internal/pipeline"
	"github.com/bentobox-sdk/ecsgraph/internal/plotter"
	"github.com/bentobox-sdk/ecsgraph/internal/value"
)

func positionSchema() map[string]value.Type {
	return map[string]value.Type{"x": value.Scalar(value.INT32)}
}

func TestCompileProducesExpectedGraph(t *testing.T) {
	req := CompileRequest{
		SourceName: "update.go",
		Source: `package convert

func Update(g Plotter, car Entity) {
	car["position"].x = car["position"].x + 1
}
`,
		Entities: []plotter.EntityRegistration{
			{ID: 1, Components: map[string]map[string]value.Type{"position": positionSchema()}},
		},
		Bindings: []pipeline.EntityBinding{{Param: "car", Components: []string{"position"}}},
	}

	graph, err := Compile(req)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if len(graph.Outputs) != 1 {
		t.Fatalf("expected exactly one mutate, got %d", len(graph.Outputs))
	}
	want := "Mutate(1/position/x, Add(Retrieve(1/position/x), Const(1:INT32)))"
	if got := graph.Outputs[0].Serialize(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileRejectsInvalidSource(t *testing.T) {
	req := CompileRequest{
		SourceName: "bad.go",
		Source:     "this is not go source{{{",
	}
	if _, err := Compile(req); err == nil {
		t.Error("expected a parse error")
	}
}

func TestCompileRejectsUnboundEntityParam(t *testing.T) {
	req := CompileRequest{
		SourceName: "update.go",
		Source: `package convert

func Update(g Plotter, car Entity) {
	car["position"].x = 0
}
`,
		Entities: []plotter.EntityRegistration{
			{ID: 1, Components: map[string]map[string]value.Type{"position": positionSchema()}},
		},
	}
	if _, err := Compile(req); err == nil {
		t.Error("expected an error for an unbound entity parameter")
	}
}
