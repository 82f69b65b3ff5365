package shims

import (
	"github.com/bentobox-sdk/ecsgraph/internal/compileerrors"
	"github.com/bentobox-sdk/ecsgraph/internal/graphir"
	"github.com/bentobox-sdk/ecsgraph/internal/value"
)

// inputEntry/outputEntry pair a recorded node with the source line it was
// recorded at.
type inputEntry struct {
	Node *graphir.RetrieveNode
	Line int
}

// OutputEntry pairs a recorded Mutate target with the node it was last
// written with and the source line of that write. Exported because
// internal/tracer reads these back out of a forked component's overlay
// when merging if/elif/else branches (see Fork/OverlayWrites below).
type OutputEntry struct {
	Ref  graphir.AttributeRef
	Node graphir.Node // the `to` expression, not a MutateNode
	Line int
}

// outputStore is the Get/Set surface GraphComponent needs from its output
// table. The root table is a plain *orderedMap[OutputEntry]; Fork layers a
// private overlay over it so a branch's writes are invisible outside the
// branch until internal/tracer explicitly merges them during
// if/elif/else lowering.
type outputStore interface {
	Get(key string) (OutputEntry, bool)
	Set(key string, e OutputEntry)
}

type layeredOutputStore struct {
	base outputStore
	over *orderedMap[OutputEntry]
}

func (l *layeredOutputStore) Get(key string) (OutputEntry, bool) {
	if e, ok := l.over.Get(key); ok {
		return e, true
	}
	return l.base.Get(key)
}

func (l *layeredOutputStore) Set(key string, e OutputEntry) {
	l.over.Set(key, e)
}

// SharedState is the Plotter-owned, insertion-ordered table of recorded
// reads/writes. A GraphEntity may need to share
// inputs_map/outputs_map across all its components so the Plotter can emit
// a single ordered view — this module always does so, because only a
// table shared across every component can reproduce the true
// global first-read order when a system reads attributes belonging to
// more than one component or entity.
type SharedState struct {
	inputs  *orderedMap[inputEntry]
	outputs *orderedMap[OutputEntry]
}

// NewSharedState builds an empty shared input/output table for one Plotter
// trace.
func NewSharedState() *SharedState {
	return &SharedState{inputs: newOrderedMap[inputEntry](), outputs: newOrderedMap[OutputEntry]()}
}

// Inputs returns every recorded Retrieve across all components, in
// first-read order.
func (s *SharedState) Inputs() []*graphir.RetrieveNode {
	entries := s.inputs.Values()
	out := make([]*graphir.RetrieveNode, len(entries))
	for i, e := range entries {
		out[i] = e.Node
	}
	return out
}

// Outputs returns every recorded Mutate across all components. Each
// attribute appears exactly once, at the position of its first write, with
// the expression of its last write: last-write semantics.
func (s *SharedState) Outputs() []*graphir.MutateNode {
	entries := s.outputs.Values()
	out := make([]*graphir.MutateNode, len(entries))
	for i, e := range entries {
		out[i] = &graphir.MutateNode{Target: e.Ref, To: e.Node}
	}
	return out
}

// GraphComponent records typed reads and writes for one component instance
// identified by (entity_id, component_name).
type GraphComponent struct {
	EntityID uint64
	Name     string
	Schema   map[string]value.Type

	shared         *SharedState
	outputOverride outputStore // non-nil only on a component returned by Fork
}

func (c *GraphComponent) outputs() outputStore {
	if c.outputOverride != nil {
		return c.outputOverride
	}
	return c.shared.outputs
}

// Fork returns a GraphComponent that shares this component's reads
// (inputs_map) but records writes into a private overlay, invisible to
// this component (and thus to the eventual Graph) until the caller merges
// them back explicitly. internal/tracer uses this to trace each branch of
// an if/elif/else independently before combining the branches' writes
// into Switch nodes.
func (c *GraphComponent) Fork() *GraphComponent {
	return &GraphComponent{
		EntityID:       c.EntityID,
		Name:           c.Name,
		Schema:         c.Schema,
		shared:         c.shared,
		outputOverride: &layeredOutputStore{base: c.outputs(), over: newOrderedMap[OutputEntry]()},
	}
}

// OverlayWrites returns the attribute writes recorded directly against a
// forked component (not those it inherited from its base), in write
// order. Returns nil for a component that was never Fork'd.
func (c *GraphComponent) OverlayWrites() []OutputEntry {
	l, ok := c.outputOverride.(*layeredOutputStore)
	if !ok {
		return nil
	}
	return l.over.Values()
}

// NewGraphComponent constructs a standalone GraphComponent with its own
// private input/output table — used directly in tests and by callers that
// don't need cross-component ordering.
func NewGraphComponent(entityID uint64, name string, schema map[string]value.Type) *GraphComponent {
	return NewGraphComponentShared(entityID, name, schema, NewSharedState())
}

// NewGraphComponentShared constructs a GraphComponent whose reads/writes
// are recorded into the given shared table, as used by Plotter-built
// entities.
func NewGraphComponentShared(entityID uint64, name string, schema map[string]value.Type, shared *SharedState) *GraphComponent {
	return &GraphComponent{EntityID: entityID, Name: name, Schema: schema, shared: shared}
}

func (c *GraphComponent) ref(attribute string) graphir.AttributeRef {
	return graphir.AttributeRef{EntityID: c.EntityID, Component: c.Name, Attribute: attribute}
}

// Get implements the read contract: a read that follows a
// write to the same attribute observes the written expression (SSA-like
// read-after-write); otherwise a Retrieve is synthesized (or reused if one
// was already recorded for this attribute) and recorded in source order.
func (c *GraphComponent) Get(attribute string, line int) (*GraphNode, error) {
	if _, ok := c.Schema[attribute]; !ok {
		return nil, &compileerrors.UnknownAttributeError{Component: c.Name, Attribute: attribute}
	}

	ref := c.ref(attribute)
	key := ref.String()

	if out, ok := c.outputs().Get(key); ok {
		return &GraphNode{Node: out.Node}, nil
	}
	if in, ok := c.shared.inputs.Get(key); ok {
		return &GraphNode{Node: in.Node}, nil
	}

	retrieve := &graphir.RetrieveNode{Ref: ref}
	c.shared.inputs.Set(key, inputEntry{Node: retrieve, Line: line})
	return &GraphNode{Node: retrieve}, nil
}

// Set implements the write contract, including the
// self-assignment ignore rule: assigning an attribute to a bare Retrieve
// of itself is ignored, and no mutate is recorded.
func (c *GraphComponent) Set(attribute string, v any, line int) error {
	if _, ok := c.Schema[attribute]; !ok {
		return &compileerrors.UnknownAttributeError{Component: c.Name, Attribute: attribute}
	}

	wrapped, err := Wrap(v)
	if err != nil {
		return err
	}

	ref := c.ref(attribute)

	if retr, ok := wrapped.Node.(*graphir.RetrieveNode); ok && retr.Ref.Equal(ref) {
		return nil
	}

	c.outputs().Set(ref.String(), OutputEntry{Ref: ref, Node: wrapped.Node, Line: line})
	return nil
}

// Inputs returns the recorded Retrieve nodes observed through this
// component specifically, in first-read order.
func (c *GraphComponent) Inputs() []*graphir.RetrieveNode {
	var out []*graphir.RetrieveNode
	for _, e := range c.shared.inputs.Values() {
		if e.Node.Ref.Component == c.Name && e.Node.Ref.EntityID == c.EntityID {
			out = append(out, e.Node)
		}
	}
	return out
}

// Outputs returns the recorded Mutate nodes for attributes of this
// component specifically, in first-write order with each carrying the
// last write's expression.
func (c *GraphComponent) Outputs() []*graphir.MutateNode {
	var out []*graphir.MutateNode
	for _, e := range c.shared.outputs.Values() {
		if e.Ref.Component == c.Name && e.Ref.EntityID == c.EntityID {
			out = append(out, &graphir.MutateNode{Target: e.Ref, To: e.Node})
		}
	}
	return out
}
