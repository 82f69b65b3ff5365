package tracer

import (
	"strings"
	"testing"

	"github.com/bentobox-sdk/ecsgraph/internal/analyze"
	"github.com/bentobox-sdk/ecsgraph/internal/plotter"
	"github.com/bentobox-sdk/ecsgraph/internal/preprocess"
	"github.com/bentobox-sdk/ecsgraph/internal/shims"
	"github.com/bentobox-sdk/ecsgraph/internal/sourceast"
	"github.com/bentobox-sdk/ecsgraph/internal/transform"
	"github.com/bentobox-sdk/ecsgraph/internal/value"
)

func positionSchema() map[string]value.Type {
	return map[string]value.Type{"x": value.Scalar(value.INT32)}
}

// compile runs the full parse->preprocess->analyze->lint->transform->trace
// pipeline over source and returns the
// resulting graph's serialized outputs for assertions.
func compile(t *testing.T, source string, registrations []plotter.EntityRegistration, bindings map[string][]string) []string {
	t.Helper()

	f, err := sourceast.Parse("sample.go", source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	preprocess.DesugarAugAssign(f.Dst)

	info, err := analyze.ConvertFn(f)
	if err != nil {
		t.Fatalf("analyze error: %v", err)
	}
	if err := analyze.Lint(info); err != nil {
		t.Fatalf("lint error: %v", err)
	}

	transform.RenameToBuildGraph(info.Func)
	transform.LowerTernary(f.Dst, info.PlotterParam)

	pl := plotter.New(registrations)

	entities := make(map[string]*shims.GraphEntity, len(info.EntityParams))
	for _, p := range info.EntityParams {
		comps, ok := bindings[p]
		if !ok {
			t.Fatalf("no binding for entity parameter %q", p)
		}
		e, err := pl.Entity(comps...)
		if err != nil {
			t.Fatalf("entity resolution error: %v", err)
		}
		entities[p] = e
	}

	graph, err := Run(pl, info, entities)
	if err != nil {
		t.Fatalf("trace error: %v", err)
	}

	out := make([]string, len(graph.Outputs))
	for i, m := range graph.Outputs {
		out[i] = m.Serialize()
	}
	return out
}

func TestTraceSimpleAttributeArithmetic(t *testing.T) {
	src := `package convert

func Update(g Plotter, car Entity) {
	car["position"].x = car["position"].x + 1
}
`
	regs := []plotter.EntityRegistration{
		{ID: 1, Components: map[string]map[string]value.Type{"position": positionSchema()}},
	}
	out := compile(t, src, regs, map[string][]string{"car": {"position"}})

	if len(out) != 1 {
		t.Fatalf("expected exactly one mutate, got %d: %v", len(out), out)
	}
	want := "Mutate(1/position/x, Add(Retrieve(1/position/x), Const(1:INT32)))"
	if out[0] != want {
		t.Errorf("got %q, want %q", out[0], want)
	}
}

func TestTraceSelfAssignmentProducesNoMutate(t *testing.T) {
	src := `package convert

func Update(g Plotter, car Entity) {
	car["position"].x = car["position"].x
}
`
	regs := []plotter.EntityRegistration{
		{ID: 1, Components: map[string]map[string]value.Type{"position": positionSchema()}},
	}
	out := compile(t, src, regs, map[string][]string{"car": {"position"}})
	if len(out) != 0 {
		t.Errorf("expected no mutate for a self-assignment, got %v", out)
	}
}

func TestTraceIfElseLowersToSwitch(t *testing.T) {
	src := `package convert

func Update(g Plotter, car Entity) {
	if car["position"].x > 10 {
		car["position"].x = 0
	} else {
		car["position"].x = car["position"].x + 1
	}
}
`
	regs := []plotter.EntityRegistration{
		{ID: 1, Components: map[string]map[string]value.Type{"position": positionSchema()}},
	}
	out := compile(t, src, regs, map[string][]string{"car": {"position"}})
	if len(out) != 1 {
		t.Fatalf("expected exactly one mutate, got %d: %v", len(out), out)
	}
	want := "Mutate(1/position/x, Switch(Gt(Retrieve(1/position/x), Const(10:INT32)), Const(0:INT32), Add(Retrieve(1/position/x), Const(1:INT32))))"
	if out[0] != want {
		t.Errorf("got %q, want %q", out[0], want)
	}
}

func TestTraceIfWithNoElseDefaultsToCurrentValue(t *testing.T) {
	src := `package convert

func Update(g Plotter, car Entity) {
	if car["position"].x > 10 {
		car["position"].x = 0
	}
}
`
	regs := []plotter.EntityRegistration{
		{ID: 1, Components: map[string]map[string]value.Type{"position": positionSchema()}},
	}
	out := compile(t, src, regs, map[string][]string{"car": {"position"}})
	if len(out) != 1 {
		t.Fatalf("expected exactly one mutate, got %d: %v", len(out), out)
	}
	want := "Mutate(1/position/x, Switch(Gt(Retrieve(1/position/x), Const(10:INT32)), Const(0:INT32), Retrieve(1/position/x)))"
	if out[0] != want {
		t.Errorf("got %q, want %q", out[0], want)
	}
}

func TestTraceLocalVariableWithoutDefaultIsRejectedByLint(t *testing.T) {
	src := `package convert

func Update(g Plotter, car Entity) {
	if car["position"].x > 10 {
		delta := 1
		car["position"].x = car["position"].x + delta
	} else {
		car["position"].x = car["position"].x + delta
	}
}
`
	f, err := sourceast.Parse("sample.go", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	info, err := analyze.ConvertFn(f)
	if err != nil {
		t.Fatalf("analyze error: %v", err)
	}
	if err := analyze.Lint(info); err == nil {
		t.Error("expected lint to reject a local var read outside its conditional assignment")
	}
}

// TestTraceIfElseMergeOrderMatchesSourceOrder repeats the same compile many
// times: if the branch merge ever ranged a map to decide which attribute to
// Set first, this would flake across runs even though the source never
// changes.
func TestTraceIfElseMergeOrderMatchesSourceOrder(t *testing.T) {
	src := `package convert

func Update(g Plotter, car Entity) {
	if car["position"].x > 10 {
		car["position"].y = 1
		car["position"].x = 0
	} else {
		car["position"].y = 2
		car["position"].x = 3
	}
}
`
	schema := map[string]value.Type{
		"x": value.Scalar(value.INT32),
		"y": value.Scalar(value.INT32),
	}
	regs := []plotter.EntityRegistration{
		{ID: 1, Components: map[string]map[string]value.Type{"position": schema}},
	}

	for i := 0; i < 25; i++ {
		out := compile(t, src, regs, map[string][]string{"car": {"position"}})
		if len(out) != 2 {
			t.Fatalf("run %d: expected exactly two mutates, got %d: %v", i, len(out), out)
		}
		if !strings.Contains(out[0], "/position/y") {
			t.Fatalf("run %d: expected y (written first in both branches) before x, got %v", i, out)
		}
		if !strings.Contains(out[1], "/position/x") {
			t.Fatalf("run %d: expected x after y, got %v", i, out)
		}
	}
}
