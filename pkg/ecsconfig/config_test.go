package ecsconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSystemSource(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	src := `package convert

func Update(g Plotter, car Entity) {
	car["position"].x = car["position"].x + 1
}
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing system source: %v", err)
	}
	return name
}

func TestParseResolvesComponentsEntitiesAndSystems(t *testing.T) {
	dir := t.TempDir()
	sourceName := writeSystemSource(t, dir, "update.go")

	doc := `
name: demo
components:
  - name: position
    attributes:
      x:
        kind: INT32
entities:
  - id: 1
    components: [position]
systems:
  - name: move
    source: ` + sourceName + `
    bindings:
      car: [position]
`
	sim, err := Parse([]byte(doc), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sim.Name != "demo" {
		t.Errorf("got name %q, want demo", sim.Name)
	}
	if len(sim.Systems) != 1 {
		t.Fatalf("expected one system, got %d", len(sim.Systems))
	}
	if len(sim.Systems[0].Graph.Outputs) != 1 {
		t.Fatalf("expected one mutate in the compiled graph, got %d", len(sim.Systems[0].Graph.Outputs))
	}
}

func TestParseRejectsUnknownAttributeKind(t *testing.T) {
	doc := `
name: demo
components:
  - name: position
    attributes:
      x:
        kind: NOT_A_KIND
`
	if _, err := Parse([]byte(doc), ""); err == nil {
		t.Error("expected an error for an unknown attribute kind")
	}
}

func TestParseRejectsUndefinedComponentReference(t *testing.T) {
	doc := `
name: demo
entities:
  - id: 1
    components: [position]
`
	if _, err := Parse([]byte(doc), ""); err == nil {
		t.Error("expected an error for an entity referencing an undefined component")
	}
}

func TestLoadReadsFileFromDisk(t *testing.T) {
	dir := t.TempDir()
	sourceName := writeSystemSource(t, dir, "update.go")

	doc := `
name: demo
components:
  - name: position
    attributes:
      x:
        kind: INT32
entities:
  - id: 1
    components: [position]
systems:
  - name: move
    source: ` + sourceName + `
    bindings:
      car: [position]
`
	cfgPath := filepath.Join(dir, "demo.sim.yaml")
	if err := os.WriteFile(cfgPath, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	sim, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sim.Systems) != 1 {
		t.Fatalf("expected one system, got %d", len(sim.Systems))
	}
}
