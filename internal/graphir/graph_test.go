package graphir

import (
	"testing"

	"github.com/bentobox-sdk/ecsgraph/internal/value"
)

func constI32(n int32) Node {
	return &ConstNode{Value: value.Value{Type: value.Scalar(value.INT32), Scalar: n}}
}

func TestGraphValidateCatchesUnreachableRetrieve(t *testing.T) {
	ref := AttributeRef{EntityID: 1, Component: "position", Attribute: "x"}
	g := Graph{
		Outputs: []*MutateNode{
			{Target: ref, To: &RetrieveNode{Ref: ref}},
		},
	}
	if err := g.Validate(); err == nil {
		t.Error("expected validation error: retrieve not present in inputs")
	}
}

func TestGraphValidatePassesWhenRetrieveDeclared(t *testing.T) {
	ref := AttributeRef{EntityID: 1, Component: "position", Attribute: "x"}
	g := Graph{
		Inputs:  []*RetrieveNode{{Ref: ref}},
		Outputs: []*MutateNode{{Target: ref, To: &RetrieveNode{Ref: ref}}},
	}
	if err := g.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestNodeEqualStructural(t *testing.T) {
	ref := AttributeRef{EntityID: 1, Component: "position", Attribute: "x"}
	a := &BinaryNode{Op: Add, X: &RetrieveNode{Ref: ref}, Y: constI32(20)}
	b := &BinaryNode{Op: Add, X: &RetrieveNode{Ref: ref}, Y: constI32(20)}
	if !Equal(a, b) {
		t.Error("expected structurally identical nodes to compare equal")
	}
}

func TestGraphEqualDeterministic(t *testing.T) {
	ref := AttributeRef{EntityID: 1, Component: "position", Attribute: "x"}
	g1 := Graph{Inputs: []*RetrieveNode{{Ref: ref}}, Outputs: []*MutateNode{{Target: ref, To: constI32(1)}}}
	g2 := Graph{Inputs: []*RetrieveNode{{Ref: ref}}, Outputs: []*MutateNode{{Target: ref, To: constI32(1)}}}
	if !Equal(g1, g2) {
		t.Error("expected identical graphs to serialize identically")
	}
}
