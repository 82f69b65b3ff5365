// Package tracer is the direct AST→IR-builder walking interpreter that
// materializes a convert function into its computation graph. Rather
// than re-executing rewritten Go source through the `go` toolchain — not
// possible at runtime — it walks the final (preprocessed, linted,
// transformed) dst tree itself, dispatching each expression and statement
// straight to a plotter.Plotter/shims call: a direct
// AST-node-to-IR-builder-call translation suited to statically typed
// hosts.
package tracer

import (
	"fmt"

	"github.com/bentobox-sdk/ecsgraph/internal/shims"
)

// scope is the variable/entity binding environment a statement executes
// against. The root scope is the convert function's own frame; if/elif/else
// lowering runs each branch against a forked child scope so
// that neither branch's writes are visible until mergeBranches combines
// them into Switch nodes.
type scope interface {
	getVar(name string) (*shims.GraphNode, bool)
	setVar(name string, n *shims.GraphNode)
	entity(name string) (*shims.GraphEntity, error)
}

// rootScope is the convert function's top-level frame: its entity
// bindings are the GraphEntitys resolved once at compile-driver setup,
// and writes here land directly in the live Plotter
// state.
type rootScope struct {
	vars     map[string]*shims.GraphNode
	entities map[string]*shims.GraphEntity
}

func newRootScope(entities map[string]*shims.GraphEntity) *rootScope {
	return &rootScope{vars: make(map[string]*shims.GraphNode), entities: entities}
}

func (s *rootScope) getVar(name string) (*shims.GraphNode, bool) {
	n, ok := s.vars[name]
	return n, ok
}

func (s *rootScope) setVar(name string, n *shims.GraphNode) {
	s.vars[name] = n
}

func (s *rootScope) entity(name string) (*shims.GraphEntity, error) {
	e, ok := s.entities[name]
	if !ok {
		return nil, fmt.Errorf("internal error: no entity bound to parameter %q", name)
	}
	return e, nil
}

// branchScope traces one branch of an if/elif/else. Reads of a name or
// entity not yet written in this branch fall through to the parent scope;
// writes are recorded only in this branch's own maps (and, for entities,
// in per-component overlays reached through a lazily Fork'd GraphEntity),
// so mergeBranches can see exactly what this branch touched.
type branchScope struct {
	parent   scope
	vars     map[string]*shims.GraphNode
	entities map[string]*shims.GraphEntity // lazily Fork'd on first touch
}

func newBranchScope(parent scope) *branchScope {
	return &branchScope{
		parent:   parent,
		vars:     make(map[string]*shims.GraphNode),
		entities: make(map[string]*shims.GraphEntity),
	}
}

func (s *branchScope) getVar(name string) (*shims.GraphNode, bool) {
	if n, ok := s.vars[name]; ok {
		return n, true
	}
	return s.parent.getVar(name)
}

func (s *branchScope) setVar(name string, n *shims.GraphNode) {
	s.vars[name] = n
}

func (s *branchScope) entity(name string) (*shims.GraphEntity, error) {
	if e, ok := s.entities[name]; ok {
		return e, nil
	}
	base, err := s.parent.entity(name)
	if err != nil {
		return nil, err
	}
	forked := base.Fork()
	s.entities[name] = forked
	return forked, nil
}
