package analyze

import "github.com/dave/dst"

// Activity is the read/write annotation computed for a block: the symbols it
// reads before any write to them, and the symbols it writes anywhere
// within it (locals and "entity[component].attribute" expressions alike —
// this Go surface has no separate base-symbol projection pass since every
// symbol the compiler cares about is already produced in one of these two
// shapes by Symbol()). Nested blocks propagate their input/output sets
// into the enclosing block.
type Activity struct {
	InputSyms  []string
	OutputSyms []string
}

// ComputeActivity walks a statement list once, in source order.
func ComputeActivity(stmts []dst.Stmt) Activity {
	written := map[string]bool{}
	inputs := newOrderedSet()
	outputs := newOrderedSet()

	var walk func([]dst.Stmt)
	recordReads := func(expr dst.Expr) {
		reads := newOrderedSet()
		collectReads(expr, reads)
		for _, r := range reads.items {
			if !written[r] {
				inputs.add(r)
			}
		}
	}
	absorb := func(nested Activity) {
		for _, r := range nested.InputSyms {
			if !written[r] {
				inputs.add(r)
			}
		}
		for _, w := range nested.OutputSyms {
			outputs.add(w)
			written[w] = true
		}
	}

	walk = func(stmts []dst.Stmt) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *dst.AssignStmt:
				for _, rhs := range s.Rhs {
					recordReads(rhs)
				}
				for _, lhs := range s.Lhs {
					if sym, _, ok := Symbol(lhs); ok {
						outputs.add(sym)
						written[sym] = true
					}
				}
			case *dst.ExprStmt:
				recordReads(s.X)
			case *dst.ReturnStmt:
				for _, r := range s.Results {
					recordReads(r)
				}
			case *dst.IfStmt:
				recordReads(s.Cond)
				absorb(ComputeActivity(s.Body.List))
				switch e := s.Else.(type) {
				case *dst.BlockStmt:
					absorb(ComputeActivity(e.List))
				case *dst.IfStmt:
					walk([]dst.Stmt{e})
				}
			}
		}
	}
	walk(stmts)

	return Activity{InputSyms: inputs.items, OutputSyms: outputs.items}
}

// Write identifies one assignment target: either a local variable or an
// entity["component"].attribute reference.
type Write struct {
	IsAttribute bool
	Var         string
	EntityParam string
	Component   string
	Attribute   string
}

// OrderedWrites walks stmts once, in source order, recursing into if/elif/
// else chains the same way ComputeActivity does, and returns each distinct
// assignment target the first time it is written. Branch-merge code uses
// this instead of ranging a map so the merge order (and therefore
// Graph.Inputs/Graph.Outputs) is the same on every compile of the same
// source.
func OrderedWrites(stmts []dst.Stmt) []Write {
	seen := make(map[string]bool)
	var out []Write

	var walk func([]dst.Stmt)
	walk = func(stmts []dst.Stmt) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *dst.AssignStmt:
				for _, lhs := range s.Lhs {
					if param, component, attribute, ok := ComponentAttribute(lhs); ok {
						key := "a\x00" + param + "\x00" + component + "\x00" + attribute
						if seen[key] {
							continue
						}
						seen[key] = true
						out = append(out, Write{IsAttribute: true, EntityParam: param, Component: component, Attribute: attribute})
						continue
					}
					if name, _, ok := Symbol(lhs); ok {
						key := "v\x00" + name
						if seen[key] {
							continue
						}
						seen[key] = true
						out = append(out, Write{Var: name})
					}
				}
			case *dst.IfStmt:
				walk(s.Body.List)
				switch e := s.Else.(type) {
				case *dst.BlockStmt:
					walk(e.List)
				case *dst.IfStmt:
					walk([]dst.Stmt{e})
				}
			}
		}
	}
	walk(stmts)
	return out
}

func collectReads(expr dst.Expr, out *orderedSet) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *dst.Ident:
		if e.Name == "true" || e.Name == "false" || e.Name == "_" {
			return
		}
		out.add(e.Name)
	case *dst.BasicLit:
		return
	case *dst.SelectorExpr:
		if sym, _, ok := Symbol(e); ok {
			out.add(sym)
			return
		}
		collectReads(e.X, out)
	case *dst.IndexExpr:
		if sym, _, ok := Symbol(e); ok {
			out.add(sym)
			return
		}
		collectReads(e.X, out)
	case *dst.BinaryExpr:
		collectReads(e.X, out)
		collectReads(e.Y, out)
	case *dst.UnaryExpr:
		collectReads(e.X, out)
	case *dst.ParenExpr:
		collectReads(e.X, out)
	case *dst.CallExpr:
		for _, a := range e.Args {
			collectReads(a, out)
		}
	}
}

// orderedSet is a minimal insertion-ordered string set, local to the
// activity pass (internal/shims has its own ordered map for IR state;
// this one only ever needs membership + order, not values).
type orderedSet struct {
	items []string
	seen  map[string]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(v string) {
	if s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}
