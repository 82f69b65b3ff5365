package ecs

import (
	"testing"

	"github.com/bentobox-sdk/ecsgraph/internal/value"
)

func sampleSim() SimulationDef {
	return SimulationDef{
		Name: "demo",
		Components: []ComponentDef{
			{Name: "position", Schema: map[string]value.Type{"x": value.Scalar(value.INT32)}},
		},
		Entities: []EntityDef{
			{ID: 1, Components: []string{"position"}},
		},
	}
}

func TestValidateAcceptsWellFormedSimulation(t *testing.T) {
	if err := sampleSim().Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUndefinedComponentReference(t *testing.T) {
	sim := sampleSim()
	sim.Entities[0].Components = append(sim.Entities[0].Components, "velocity")
	if err := sim.Validate(); err == nil {
		t.Error("expected an error for an entity referencing an undefined component")
	}
}

func TestValidateRejectsDuplicateComponentNames(t *testing.T) {
	sim := sampleSim()
	sim.Components = append(sim.Components, ComponentDef{Name: "position"})
	if err := sim.Validate(); err == nil {
		t.Error("expected an error for duplicate component definitions")
	}
}

func TestEntityRegistrationsResolvesSchemas(t *testing.T) {
	regs, err := sampleSim().EntityRegistrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(regs) != 1 {
		t.Fatalf("expected exactly one registration, got %d", len(regs))
	}
	schema, ok := regs[0].Components["position"]
	if !ok {
		t.Fatal("expected position component to be present")
	}
	if _, ok := schema["x"]; !ok {
		t.Error("expected position.x in the resolved schema")
	}
}

func TestEntityRegistrationsRejectsUndefinedComponent(t *testing.T) {
	sim := sampleSim()
	sim.Entities[0].Components = []string{"velocity"}
	if _, err := sim.EntityRegistrations(); err == nil {
		t.Error("expected an error for an entity referencing an undefined component")
	}
}
