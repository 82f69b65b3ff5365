package plotter

import (
	"testing"

	"github.com/bentobox-sdk/ecsgraph/internal/value"
)

func schema() map[string]map[string]value.Type {
	return map[string]map[string]value.Type{
		"position": {"x": value.Scalar(value.INT32)},
		"velocity": {"x": value.Scalar(value.INT32)},
	}
}

func TestEntityUnknownComponentSet(t *testing.T) {
	p := New([]EntityRegistration{{ID: 1, Components: schema()}})
	if _, err := p.Entity("position", "clock"); err == nil {
		t.Error("expected UnknownEntityError for an unregistered component set")
	}
}

func TestEntityDuplicateComponents(t *testing.T) {
	p := New([]EntityRegistration{{ID: 1, Components: schema()}})
	if _, err := p.Entity("position", "position"); err == nil {
		t.Error("expected DuplicateComponentsError")
	}
}

func TestGraphOrdersReadsAcrossComponents(t *testing.T) {
	p := New([]EntityRegistration{{ID: 1, Components: schema()}})
	e, err := p.Entity("position", "velocity")
	if err != nil {
		t.Fatal(err)
	}

	vel, err := e.Component("velocity")
	if err != nil {
		t.Fatal(err)
	}
	pos, err := e.Component("position")
	if err != nil {
		t.Fatal(err)
	}

	vx, err := vel.Get("x", 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := pos.Set("x", vx, 2); err != nil {
		t.Fatal(err)
	}

	g := p.Graph()
	if len(g.Inputs) != 1 {
		t.Fatalf("expected exactly one Retrieve, got %d", len(g.Inputs))
	}
	if g.Inputs[0].Ref.Component != "velocity" {
		t.Errorf("expected the velocity read, got %s", g.Inputs[0].Ref.Component)
	}
	if len(g.Outputs) != 1 || g.Outputs[0].Target.Component != "position" {
		t.Fatalf("expected exactly one mutate on position, got %+v", g.Outputs)
	}
}

func TestSwitchCapturesBothBranches(t *testing.T) {
	p := New(nil)
	cond, err := p.Gt(int32(5), int32(3))
	if err != nil {
		t.Fatal(err)
	}
	sw, err := p.Switch(cond, int32(1), int32(0))
	if err != nil {
		t.Fatal(err)
	}
	want := "Switch(Gt(Const(5:INT32), Const(3:INT32)), Const(1:INT32), Const(0:INT32))"
	if got := sw.Node.Serialize(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestRandomProducesRandomNode(t *testing.T) {
	p := New(nil)
	r, err := p.Random(int32(0), int32(10))
	if err != nil {
		t.Fatal(err)
	}
	want := "Random(Const(0:INT32), Const(10:INT32))"
	if got := r.Node.Serialize(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
