package tracecache

import (
	"testing"

	"github.com/bentobox-sdk/ecsgraph/internal/compiler"
	"github.com/bentobox-sdk/ecsgraph/internal/pipeline"
	"github.com/bentobox-sdk/ecsgraph/internal/plotter"
	"github.com/bentobox-sdk/ecsgraph/internal/value"
)

func positionRegistration() []plotter.EntityRegistration {
	return []plotter.EntityRegistration{
		{ID: 1, Components: map[string]map[string]value.Type{
			"position": {"x": value.Scalar(value.INT32)},
		}},
	}
}

const updateSource = `package convert

func Update(g Plotter, car Entity) {
	car["position"].x = car["position"].x + 1
}
`

func TestKeyIsStableAndDistinguishesEntityIDs(t *testing.T) {
	entities := positionRegistration()
	bindings := []pipeline.EntityBinding{{Param: "car", Components: []string{"position"}}}

	k1 := Key(updateSource, entities, bindings)
	k2 := Key(updateSource, entities, bindings)
	if k1 != k2 {
		t.Errorf("expected identical keys for identical input, got %q and %q", k1, k2)
	}

	otherEntities := []plotter.EntityRegistration{
		{ID: 2, Components: map[string]map[string]value.Type{
			"position": {"x": value.Scalar(value.INT32)},
		}},
	}
	if Key(updateSource, otherEntities, bindings) == k1 {
		t.Error("expected a different key for a different entity id")
	}
}

func TestPutAndGetRoundTrip(t *testing.T) {
	cache, err := Open(":memory:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cache.Close()

	entities := positionRegistration()
	bindings := []pipeline.EntityBinding{{Param: "car", Components: []string{"position"}}}

	graph, err := compiler.Compile(compiler.CompileRequest{
		SourceName: "update.go",
		Source:     updateSource,
		Entities:   entities,
		Bindings:   bindings,
	})
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}

	key := Key(updateSource, entities, bindings)

	if _, ok := cache.Get(key); ok {
		t.Fatal("expected a cache miss before Put")
	}

	if err := cache.Put(key, graph); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := cache.Get(key)
	if !ok {
		t.Fatal("expected a cache hit after Put")
	}
	if got.Serialize() != graph.Serialize() {
		t.Errorf("got %q, want %q", got.Serialize(), graph.Serialize())
	}

	known, err := cache.Known(key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !known {
		t.Error("expected the durable ledger to know about this key")
	}
}

func TestKnownIsFalseForUnseenKey(t *testing.T) {
	cache, err := Open(":memory:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cache.Close()

	known, err := cache.Known("never-seen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if known {
		t.Error("expected an unseen key to be unknown")
	}
}
