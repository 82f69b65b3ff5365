// Package ecsconfig implements YAML-backed SimulationDef authoring:
// a `.sim.yaml` file names
// components, entities, and systems (each system a path to a convert
// function source file plus its entity-parameter bindings), and Load
// resolves the whole thing — compiling every system's Graph along the way —
// into an ecs.SimulationDef.
package ecsconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bentobox-sdk/ecsgraph/internal/compiler"
	"github.com/bentobox-sdk/ecsgraph/internal/pipeline"
	"github.com/bentobox-sdk/ecsgraph/internal/value"
	"github.com/bentobox-sdk/ecsgraph/pkg/ecs"
)

// Config is the top-level `.sim.yaml` document.
type Config struct {
	Name       string            `yaml:"name"`
	Components []ComponentConfig `yaml:"components"`
	Entities   []EntityConfig    `yaml:"entities"`
	Systems    []SystemConfig    `yaml:"systems"`
}

// ComponentConfig declares one component and its attribute schema.
type ComponentConfig struct {
	Name       string                `yaml:"name"`
	Attributes map[string]TypeConfig `yaml:"attributes"`
}

// TypeConfig is the YAML form of value.Type: a primitive kind name, with an
// optional dimensions list that marks it as an array type.
type TypeConfig struct {
	Kind       string `yaml:"kind"`
	Dimensions []int  `yaml:"dimensions,omitempty"`
}

func (t TypeConfig) resolve() (value.Type, error) {
	kind, ok := primitiveKinds[t.Kind]
	if !ok {
		return value.Type{}, fmt.Errorf("unknown attribute kind %q", t.Kind)
	}
	if len(t.Dimensions) == 0 {
		return value.Scalar(kind), nil
	}
	return value.Array(t.Dimensions, kind), nil
}

var primitiveKinds = map[string]value.PrimitiveKind{
	"INT32":   value.INT32,
	"INT64":   value.INT64,
	"FLOAT32": value.FLOAT32,
	"FLOAT64": value.FLOAT64,
	"BOOL":    value.BOOL,
	"STRING":  value.STRING,
}

// EntityConfig declares one entity's engine id and attached components.
type EntityConfig struct {
	ID         uint64   `yaml:"id"`
	Components []string `yaml:"components"`
}

// SystemConfig names a system, the convert-function source file it compiles
// from (resolved relative to the config file's directory), and the
// component set bound to each of that function's entity parameters.
type SystemConfig struct {
	Name     string              `yaml:"name"`
	Source   string              `yaml:"source"`
	Bindings map[string][]string `yaml:"bindings"`
}

// Load reads and parses a `.sim.yaml` file, compiling every declared
// system's Graph, and returns the assembled SimulationDef.
func Load(path string) (ecs.SimulationDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ecs.SimulationDef{}, fmt.Errorf("reading simulation config %s: %w", path, err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse parses `.sim.yaml` content from bytes. baseDir resolves each
// system's relative Source path (empty means the current working
// directory).
func Parse(data []byte, baseDir string) (ecs.SimulationDef, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ecs.SimulationDef{}, fmt.Errorf("parsing simulation config: %w", err)
	}
	return cfg.resolve(baseDir)
}

func (cfg Config) resolve(baseDir string) (ecs.SimulationDef, error) {
	sim := ecs.SimulationDef{Name: cfg.Name}

	for _, c := range cfg.Components {
		schema := make(map[string]value.Type, len(c.Attributes))
		for attr, t := range c.Attributes {
			resolved, err := t.resolve()
			if err != nil {
				return ecs.SimulationDef{}, fmt.Errorf("component %q attribute %q: %w", c.Name, attr, err)
			}
			schema[attr] = resolved
		}
		sim.Components = append(sim.Components, ecs.ComponentDef{Name: c.Name, Schema: schema})
	}

	for _, e := range cfg.Entities {
		sim.Entities = append(sim.Entities, ecs.EntityDef{ID: e.ID, Components: e.Components})
	}

	if err := sim.Validate(); err != nil {
		return ecs.SimulationDef{}, err
	}

	registrations, err := sim.EntityRegistrations()
	if err != nil {
		return ecs.SimulationDef{}, err
	}

	for _, s := range cfg.Systems {
		sourcePath := s.Source
		if !filepath.IsAbs(sourcePath) && baseDir != "" {
			sourcePath = filepath.Join(baseDir, sourcePath)
		}
		source, err := os.ReadFile(sourcePath)
		if err != nil {
			return ecs.SimulationDef{}, fmt.Errorf("reading system %q source %s: %w", s.Name, sourcePath, err)
		}

		var bindings []pipeline.EntityBinding
		for param, comps := range s.Bindings {
			bindings = append(bindings, pipeline.EntityBinding{Param: param, Components: comps})
		}

		graph, err := compiler.Compile(compiler.CompileRequest{
			SourceName: sourcePath,
			Source:     string(source),
			Entities:   registrations,
			Bindings:   bindings,
		})
		if err != nil {
			return ecs.SimulationDef{}, fmt.Errorf("compiling system %q: %w", s.Name, err)
		}

		sim.Systems = append(sim.Systems, ecs.SystemDef{Name: s.Name, Graph: graph, Bindings: bindings})
	}

	return sim, nil
}
