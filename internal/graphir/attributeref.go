// Package graphir implements the language-neutral computation-graph IR:
// AttributeRef, Node (Const/Retrieve/Mutate/operators), and Graph.
package graphir

import "fmt"

// AttributeRef uniquely identifies a component field of an entity.
type AttributeRef struct {
	EntityID  uint64
	Component string
	Attribute string
}

// String returns the stable map-key form "<entity_id>/<component>/<attribute>".
func (r AttributeRef) String() string {
	return fmt.Sprintf("%d/%s/%s", r.EntityID, r.Component, r.Attribute)
}

func (r AttributeRef) Equal(o AttributeRef) bool {
	return r.EntityID == o.EntityID && r.Component == o.Component && r.Attribute == o.Attribute
}
