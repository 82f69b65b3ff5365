package shims

import (
	"github.com/bentobox-sdk/ecsgraph/internal/compileerrors"
	"github.com/bentobox-sdk/ecsgraph/internal/value"
)

// GraphEntity groups GraphComponents by component-name set.
type GraphEntity struct {
	EntityID   uint64
	components map[string]*GraphComponent
}

// NewGraphEntity builds a standalone GraphEntity (private input/output
// tables per component) whose components are named in schemas.
func NewGraphEntity(entityID uint64, schemas map[string]map[string]value.Type) *GraphEntity {
	return NewGraphEntityShared(entityID, schemas, NewSharedState())
}

// NewGraphEntityShared builds a GraphEntity whose components all record
// into the given shared table, so the owning Plotter can emit one globally
// ordered Graph.
func NewGraphEntityShared(entityID uint64, schemas map[string]map[string]value.Type, shared *SharedState) *GraphEntity {
	components := make(map[string]*GraphComponent, len(schemas))
	for name, schema := range schemas {
		components[name] = NewGraphComponentShared(entityID, name, schema, shared)
	}
	return &GraphEntity{EntityID: entityID, components: components}
}

// Component returns the named GraphComponent, or UnknownComponentError if
// this entity was not constructed with it.
func (e *GraphEntity) Component(name string) (*GraphComponent, error) {
	c, ok := e.components[name]
	if !ok {
		return nil, &compileerrors.UnknownComponentError{Component: name}
	}
	return c, nil
}

// Components returns all GraphComponents attached to this entity, keyed by
// name.
func (e *GraphEntity) Components() map[string]*GraphComponent {
	return e.components
}

// Fork returns a GraphEntity whose components are all Fork'd (see
// GraphComponent.Fork): reads still observe the live state, writes land in
// a private overlay until internal/tracer merges them back.
func (e *GraphEntity) Fork() *GraphEntity {
	forked := make(map[string]*GraphComponent, len(e.components))
	for name, c := range e.components {
		forked[name] = c.Fork()
	}
	return &GraphEntity{EntityID: e.EntityID, components: forked}
}
