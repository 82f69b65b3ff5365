package tracer

import (
	"fmt"

	"github.com/dave/dst"

	"github.com/bentobox-sdk/ecsgraph/internal/analyze"
	"github.com/bentobox-sdk/ecsgraph/internal/compileerrors"
	"github.com/bentobox-sdk/ecsgraph/internal/graphir"
	"github.com/bentobox-sdk/ecsgraph/internal/shims"
	"github.com/bentobox-sdk/ecsgraph/internal/sourceast"
)

// traceIf lowers an if/elif/else chain to Switch nodes, using
// the shims.GraphComponent.Fork overlay instead of a second AST rewrite
// pass (see internal/transform/buildgraph.go). Both
// branches trace unconditionally — this language has no early-return or
// side effects to order around — and traceIf then merges whatever each
// branch wrote into Switch(condition, thenValue, elseValue) assignments
// applied to s directly, so a parent if sees this chain's combined effect
// exactly like any other assignment.
func (tr *Tracer) traceIf(s scope, ifStmt *dst.IfStmt, line int) error {
	cond, err := tr.evalExpr(s, ifStmt.Cond)
	if err != nil {
		return err
	}

	thenScope := newBranchScope(s)
	if err := tr.traceStmts(thenScope, ifStmt.Body.List); err != nil {
		return err
	}

	elseScope := newBranchScope(s)
	var elseStmts []dst.Stmt
	switch e := ifStmt.Else.(type) {
	case nil:
		// no else/elif: elseScope stays empty, so merge reads the pre-if
		// value for every symbol this branch didn't touch.
	case *dst.BlockStmt:
		if err := tr.traceStmts(elseScope, e.List); err != nil {
			return err
		}
		elseStmts = e.List
	case *dst.IfStmt:
		if err := tr.traceIf(elseScope, e, line); err != nil {
			return err
		}
		elseStmts = []dst.Stmt{e}
	default:
		return &compileerrors.UnsupportedControlFlowError{Reason: "unsupported else clause", Pos: sourceast.Position(line)}
	}

	return tr.mergeBranches(s, cond, thenScope, elseScope, ifStmt.Body.List, elseStmts, line)
}

// mergeBranches combines whatever thenScope/elseScope wrote back into s,
// one Switch(cond, thenValue, elseValue) per symbol. The merge order is the
// union of the two branches' assignment targets, each taken in the source
// order it was first written in its own branch (then-branch targets before
// else-branch-only ones) — never a map range — so the resulting
// Switch/Set/Get call sequence, and therefore Graph.Inputs/Graph.Outputs,
// is identical across repeated compiles of the same source.
func (tr *Tracer) mergeBranches(s scope, cond *shims.GraphNode, thenScope, elseScope *branchScope, thenStmts, elseStmts []dst.Stmt, line int) error {
	for _, w := range mergedWrites(thenStmts, elseStmts) {
		if w.IsAttribute {
			if err := tr.mergeAttribute(s, cond, thenScope, elseScope, w.EntityParam, w.Component, w.Attribute, line); err != nil {
				return err
			}
			continue
		}
		if err := tr.mergeVar(s, cond, thenScope, elseScope, w.Var); err != nil {
			return err
		}
	}
	return nil
}

// mergedWrites unions the writes of both branches, preserving first-
// appearance order: every target thenStmts assigns, in its own source
// order, followed by any target only elseStmts assigns, in its order.
func mergedWrites(thenStmts, elseStmts []dst.Stmt) []analyze.Write {
	seen := make(map[string]bool)
	var out []analyze.Write
	add := func(ws []analyze.Write) {
		for _, w := range ws {
			key := "v\x00" + w.Var
			if w.IsAttribute {
				key = "a\x00" + w.EntityParam + "\x00" + w.Component + "\x00" + w.Attribute
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, w)
		}
	}
	add(analyze.OrderedWrites(thenStmts))
	add(analyze.OrderedWrites(elseStmts))
	return out
}

func (tr *Tracer) mergeVar(s scope, cond *shims.GraphNode, thenScope, elseScope *branchScope, name string) error {
	thenVal, ok := thenScope.vars[name]
	if !ok {
		v, exists := s.getVar(name)
		if !exists {
			return &compileerrors.UnsupportedControlFlowError{
				Reason: fmt.Sprintf("%q is not assigned on every branch", name),
			}
		}
		thenVal = v
	}
	elseVal, ok := elseScope.vars[name]
	if !ok {
		v, exists := s.getVar(name)
		if !exists {
			return &compileerrors.UnsupportedControlFlowError{
				Reason: fmt.Sprintf("%q is not assigned on every branch", name),
			}
		}
		elseVal = v
	}
	merged, err := tr.plotter.Switch(cond, thenVal, elseVal)
	if err != nil {
		return err
	}
	s.setVar(name, merged)
	return nil
}

func (tr *Tracer) mergeAttribute(s scope, cond *shims.GraphNode, thenScope, elseScope *branchScope, param, component, attribute string, line int) error {
	thenWrites := branchOverlay(thenScope, param, component)
	elseWrites := branchOverlay(elseScope, param, component)

	outerEntity, err := s.entity(param)
	if err != nil {
		return err
	}
	outerComp, err := outerEntity.Component(component)
	if err != nil {
		return err
	}

	thenNode, ok := thenWrites[attribute]
	if !ok {
		g, err := outerComp.Get(attribute, line)
		if err != nil {
			return err
		}
		thenNode = g.Node
	}
	elseNode, ok := elseWrites[attribute]
	if !ok {
		g, err := outerComp.Get(attribute, line)
		if err != nil {
			return err
		}
		elseNode = g.Node
	}
	merged, err := tr.plotter.Switch(cond, &shims.GraphNode{Node: thenNode}, &shims.GraphNode{Node: elseNode})
	if err != nil {
		return err
	}
	return outerComp.Set(attribute, merged, line)
}

// branchOverlay returns the attribute -> node map of a branch's own writes
// to one component, or nil if that branch never touched it. Lookups are by
// exact key, never ranged, so the map's randomized iteration order never
// reaches the merge.
func branchOverlay(s *branchScope, param, component string) map[string]graphir.Node {
	e, ok := s.entities[param]
	if !ok {
		return nil
	}
	c, err := e.Component(component)
	if err != nil {
		return nil
	}
	writes := c.OverlayWrites()
	if len(writes) == 0 {
		return nil
	}
	out := make(map[string]graphir.Node, len(writes))
	for _, w := range writes {
		out[w.Ref.Attribute] = w.Node
	}
	return out
}
