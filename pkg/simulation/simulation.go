// Package simulation implements the simulation lifecycle collaborator:
// it holds a SimulationDef, compiles its systems
// against internal/compiler, and drives a running engine instance through
// apply/step/drop via a pkg/engineclient.Client. None of this is part of
// the compiler core itself — the engine is a collaborator, not implemented
// here.
package simulation

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bentobox-sdk/ecsgraph/internal/compiler"
	"github.com/bentobox-sdk/ecsgraph/internal/graphir"
	"github.com/bentobox-sdk/ecsgraph/internal/pipeline"
	"github.com/bentobox-sdk/ecsgraph/pkg/ecs"
	"github.com/bentobox-sdk/ecsgraph/pkg/engineclient"
)

// Simulation binds one ecs.SimulationDef to an engine connection. SessionID
// is a random UUID assigned at construction; it's attached to every error
// a Simulation method returns so a caller juggling several simulations can
// tell which one failed. New's own validation error carries no SessionID.
type Simulation struct {
	SessionID uuid.UUID

	def    ecs.SimulationDef
	engine *engineclient.Client
}

// New validates def and binds it to an (optional) engine connection. engine
// may be nil for compile-only use (CompileSystem/Describe work without a
// running engine; Start/Step/Stop/GetAttribute require one).
func New(def ecs.SimulationDef, engine *engineclient.Client) (*Simulation, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &Simulation{SessionID: uuid.New(), def: def, engine: engine}, nil
}

// Def returns the simulation's current definition.
func (s *Simulation) Def() ecs.SimulationDef {
	return s.def
}

// CompileSystem compiles one convert-function source against this
// simulation's entities (via internal/compiler) and appends the
// resulting SystemDef to the held definition.
func (s *Simulation) CompileSystem(name, source string, bindings []pipeline.EntityBinding) error {
	regs, err := s.def.EntityRegistrations()
	if err != nil {
		return s.wrap(err)
	}

	graph, err := compiler.Compile(compiler.CompileRequest{
		SourceName: name,
		Source:     source,
		Entities:   regs,
		Bindings:   bindings,
	})
	if err != nil {
		return s.wrapf(err, "compiling system %q", name)
	}

	s.def.Systems = append(s.def.Systems, ecs.SystemDef{Name: name, Graph: graph, Bindings: bindings})
	return nil
}

// Start applies the current definition to the engine, assigning a
// provisional id (via uuid, truncated to fit the wire's uint64 entity id)
// to any entity that doesn't already have one, then overwrites those ids
// with whatever the engine actually assigned in its response.
func (s *Simulation) Start(ctx context.Context) error {
	if s.engine == nil {
		return s.wrap(fmt.Errorf("simulation has no engine connection"))
	}

	for i, e := range s.def.Entities {
		if e.ID == 0 {
			s.def.Entities[i].ID = provisionalEntityID()
		}
	}

	payload, err := toStruct(s.def)
	if err != nil {
		return s.wrap(err)
	}

	resp, err := s.engine.ApplySimulation(ctx, payload)
	if err != nil {
		return s.wrapf(err, "applying simulation %q", s.def.Name)
	}

	applyAssignedIDs(&s.def, resp)
	return nil
}

// Step advances the simulation by one tick on the engine.
func (s *Simulation) Step(ctx context.Context) error {
	if s.engine == nil {
		return s.wrap(fmt.Errorf("simulation has no engine connection"))
	}
	if err := s.engine.StepSimulation(ctx, s.def.Name); err != nil {
		return s.wrapf(err, "stepping simulation %q", s.def.Name)
	}
	return nil
}

// Stop drops the simulation from the engine.
func (s *Simulation) Stop(ctx context.Context) error {
	if s.engine == nil {
		return s.wrap(fmt.Errorf("simulation has no engine connection"))
	}
	if err := s.engine.DropSimulation(ctx, s.def.Name); err != nil {
		return s.wrapf(err, "dropping simulation %q", s.def.Name)
	}
	return nil
}

// GetAttribute reads one live attribute value from the engine.
func (s *Simulation) GetAttribute(ctx context.Context, ref graphir.AttributeRef) (any, error) {
	if s.engine == nil {
		return nil, s.wrap(fmt.Errorf("simulation has no engine connection"))
	}
	v, err := s.engine.GetAttribute(ctx, s.def.Name, ref)
	if err != nil {
		return nil, s.wrapf(err, "reading %s", ref)
	}
	if v.Type.IsArray {
		return v.Items, nil
	}
	return v.Scalar, nil
}

func (s *Simulation) wrap(err error) error {
	return fmt.Errorf("simulation session %s: %w", s.SessionID, err)
}

func (s *Simulation) wrapf(err error, format string, args ...any) error {
	return fmt.Errorf("simulation session %s: %s: %w", s.SessionID, fmt.Sprintf(format, args...), err)
}

// Describe renders a human-readable one-line summary of a compiled Graph,
// the Go SDK's supplement to the original's CLI ergonomics (not part of
// the wire protocol).
func Describe(g graphir.Graph) string {
	return fmt.Sprintf("graph with %s input%s and %s output%s",
		humanize.Comma(int64(len(g.Inputs))), plural(len(g.Inputs)),
		humanize.Comma(int64(len(g.Outputs))), plural(len(g.Outputs)))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// provisionalEntityID derives a non-zero uint64 from a fresh uuid so newly
// authored entities have a stable id before the engine assigns a real one.
func provisionalEntityID() uint64 {
	id := uuid.New()
	b := id[:]
	var n uint64
	for _, x := range b[:8] {
		n = n<<8 | uint64(x)
	}
	if n == 0 {
		n = 1
	}
	return n
}

func toStruct(def ecs.SimulationDef) (*structpb.Struct, error) {
	components := make([]*structpb.Value, len(def.Components))
	for i, c := range def.Components {
		attrs := make(map[string]*structpb.Value, len(c.Schema))
		for attr, t := range c.Schema {
			attrs[attr] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
				"kind":     structpb.NewStringValue(t.Primitive.String()),
				"is_array": structpb.NewBoolValue(t.IsArray),
			}})
		}
		components[i] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"name":       structpb.NewStringValue(c.Name),
			"attributes": structpb.NewStructValue(&structpb.Struct{Fields: attrs}),
		}})
	}

	entities := make([]*structpb.Value, len(def.Entities))
	for i, e := range def.Entities {
		comps := make([]*structpb.Value, len(e.Components))
		for j, name := range e.Components {
			comps[j] = structpb.NewStringValue(name)
		}
		entities[i] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"id":         structpb.NewNumberValue(float64(e.ID)),
			"components": structpb.NewListValue(&structpb.ListValue{Values: comps}),
		}})
	}

	systems := make([]*structpb.Value, len(def.Systems))
	for i, sys := range def.Systems {
		systems[i] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"name":  structpb.NewStringValue(sys.Name),
			"graph": structpb.NewStringValue(sys.Graph.Serialize()),
		}})
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"name":       structpb.NewStringValue(def.Name),
		"components": structpb.NewListValue(&structpb.ListValue{Values: components}),
		"entities":   structpb.NewListValue(&structpb.ListValue{Values: entities}),
		"systems":    structpb.NewListValue(&structpb.ListValue{Values: systems}),
	}}, nil
}

// applyAssignedIDs overwrites def.Entities[i].ID from the engine's response,
// matched positionally (the engine is expected to echo entities back in the
// order they were submitted).
func applyAssignedIDs(def *ecs.SimulationDef, resp *structpb.Struct) {
	entitiesField, ok := resp.GetFields()["entities"]
	if !ok {
		return
	}
	items := entitiesField.GetListValue().GetValues()
	for i := range def.Entities {
		if i >= len(items) {
			return
		}
		idField, ok := items[i].GetStructValue().GetFields()["id"]
		if !ok {
			continue
		}
		def.Entities[i].ID = uint64(idField.GetNumberValue())
	}
}
