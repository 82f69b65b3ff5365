// Package ecs implements the simulation data-model contracts:
// ComponentDef, EntityDef, SystemDef, SimulationDef. The compiler core
// (internal/compiler) consumes these to build the plotter.EntityRegistration
// / pipeline.EntityBinding values it needs, and produces the graphir.Graph
// values SystemDef/SimulationDef embed.
package ecs

import (
	"fmt"
	"sort"

	"github.com/bentobox-sdk/ecsgraph/internal/graphir"
	"github.com/bentobox-sdk/ecsgraph/internal/pipeline"
	"github.com/bentobox-sdk/ecsgraph/internal/plotter"
	"github.com/bentobox-sdk/ecsgraph/internal/value"
)

// ComponentDef names a component and the typed schema of its attributes:
// a mapping from attribute name to a Primitive-or-Array type.
type ComponentDef struct {
	Name   string
	Schema map[string]value.Type
}

// EntityDef names one simulation entity's engine-assigned id and the set of
// component names attached to it.
type EntityDef struct {
	ID         uint64
	Components []string
}

// SystemDef is a per-tick update rule, compiled to a Graph and bound to the
// entity parameters its convert function declared.
type SystemDef struct {
	Name     string
	Graph    graphir.Graph
	Bindings []pipeline.EntityBinding
}

// SimulationDef collects every component/entity/system definition making up
// one simulation, plus an optional init_graph run once before stepping
// begins.
type SimulationDef struct {
	Name       string
	Components []ComponentDef
	Entities   []EntityDef
	Systems    []SystemDef
	InitGraph  *graphir.Graph
}

// ComponentSchemas indexes Components by name, for EntityRegistrations and
// for resolving a ComponentDef by name elsewhere.
func (s SimulationDef) ComponentSchemas() map[string]map[string]value.Type {
	out := make(map[string]map[string]value.Type, len(s.Components))
	for _, c := range s.Components {
		out[c.Name] = c.Schema
	}
	return out
}

// EntityRegistrations builds the plotter.EntityRegistration slice the
// compile driver needs to resolve `entity["component"]` reads/writes
// against this simulation's actual entities.
func (s SimulationDef) EntityRegistrations() ([]plotter.EntityRegistration, error) {
	schemas := s.ComponentSchemas()

	regs := make([]plotter.EntityRegistration, 0, len(s.Entities))
	for _, e := range s.Entities {
		comps := make(map[string]map[string]value.Type, len(e.Components))
		for _, name := range e.Components {
			schema, ok := schemas[name]
			if !ok {
				return nil, fmt.Errorf("entity %d references undefined component %q", e.ID, name)
			}
			comps[name] = schema
		}
		regs = append(regs, plotter.EntityRegistration{ID: e.ID, Components: comps})
	}
	return regs, nil
}

// Validate checks cross-referential invariants that aren't
// enforced at construction time: component names are unique, entity
// component sets only name declared components, and system names are
// unique.
func (s SimulationDef) Validate() error {
	seenComponents := make(map[string]bool, len(s.Components))
	for _, c := range s.Components {
		if seenComponents[c.Name] {
			return fmt.Errorf("duplicate component definition %q", c.Name)
		}
		seenComponents[c.Name] = true
	}

	for _, e := range s.Entities {
		for _, name := range e.Components {
			if !seenComponents[name] {
				return fmt.Errorf("entity %d references undefined component %q", e.ID, name)
			}
		}
	}

	seenSystems := make(map[string]bool, len(s.Systems))
	for _, sys := range s.Systems {
		if seenSystems[sys.Name] {
			return fmt.Errorf("duplicate system definition %q", sys.Name)
		}
		seenSystems[sys.Name] = true
	}

	return nil
}

// ComponentNames returns every declared component name, sorted, for
// diagnostics and deterministic iteration (CLI summaries, cache keys).
func (s SimulationDef) ComponentNames() []string {
	names := make([]string, len(s.Components))
	for i, c := range s.Components {
		names[i] = c.Name
	}
	sort.Strings(names)
	return names
}
