package simulation

import (
	"testing"

	"github.com/bentobox-sdk/ecsgraph/internal/graphir"
	"github.com/bentobox-sdk/ecsgraph/internal/pipeline"
	"github.com/bentobox-sdk/ecsgraph/internal/value"
	"github.com/bentobox-sdk/ecsgraph/pkg/ecs"
)

func sampleDef() ecs.SimulationDef {
	return ecs.SimulationDef{
		Name: "demo",
		Components: []ecs.ComponentDef{
			{Name: "position", Schema: map[string]value.Type{"x": value.Scalar(value.INT32)}},
		},
		Entities: []ecs.EntityDef{
			{ID: 1, Components: []string{"position"}},
		},
	}
}

func TestNewRejectsInvalidDefinition(t *testing.T) {
	def := sampleDef()
	def.Entities[0].Components = append(def.Entities[0].Components, "velocity")
	if _, err := New(def, nil); err == nil {
		t.Error("expected an error for an invalid simulation definition")
	}
}

func TestCompileSystemAppendsGraph(t *testing.T) {
	sim, err := New(sampleDef(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	source := `package convert

func Update(g Plotter, car Entity) {
	car["position"].x = car["position"].x + 1
}
`
	bindings := []pipeline.EntityBinding{{Param: "car", Components: []string{"position"}}}
	if err := sim.CompileSystem("move", source, bindings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	def := sim.Def()
	if len(def.Systems) != 1 {
		t.Fatalf("expected one system, got %d", len(def.Systems))
	}
	if len(def.Systems[0].Graph.Outputs) != 1 {
		t.Errorf("expected one mutate in the compiled graph, got %d", len(def.Systems[0].Graph.Outputs))
	}
}

func TestStartWithoutEngineFails(t *testing.T) {
	sim, err := New(sampleDef(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sim.Start(nil); err == nil {
		t.Error("expected an error starting a simulation with no engine connection")
	}
}

func TestDescribeFormatsCounts(t *testing.T) {
	g := graphir.Graph{
		Inputs:  []*graphir.RetrieveNode{{Ref: graphir.AttributeRef{EntityID: 1, Component: "position", Attribute: "x"}}},
		Outputs: nil,
	}
	got := Describe(g)
	want := "graph with 1 input and 0 outputs"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestToStructAndApplyAssignedIDsRoundTrip(t *testing.T) {
	def := sampleDef()
	def.Entities[0].ID = 0

	payload, err := toStruct(def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.GetFields()["name"].GetStringValue() != "demo" {
		t.Errorf("expected name field to round-trip into the payload")
	}

	applyAssignedIDs(&def, payload)
	if def.Entities[0].ID != 0 {
		t.Errorf("expected unmodified id since payload echoed zero, got %d", def.Entities[0].ID)
	}
}
