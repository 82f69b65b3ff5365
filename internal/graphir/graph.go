package graphir

import (
	"fmt"
	"strings"
)

// Graph is the compiled computation graph: an ordered sequence
// of Retrieve inputs (first-read order) and an ordered sequence of Mutate
// outputs (last-write wins, but the output's position is fixed at first
// write — see plotter.Plotter.Graph).
type Graph struct {
	Inputs  []*RetrieveNode
	Outputs []*MutateNode
}

// Validate checks the reachability invariant: every Retrieve
// referenced anywhere inside an output's To expression must have its
// AttributeRef present in Inputs.
func (g Graph) Validate() error {
	known := make(map[string]bool, len(g.Inputs))
	for _, in := range g.Inputs {
		known[in.Ref.String()] = true
	}
	for _, out := range g.Outputs {
		if err := checkReachable(out.To, known); err != nil {
			return err
		}
	}
	return nil
}

func checkReachable(n Node, known map[string]bool) error {
	switch t := n.(type) {
	case *RetrieveNode:
		if !known[t.Ref.String()] {
			return fmt.Errorf("graph invariant violated: retrieve %s not present in inputs", t.Ref.String())
		}
	case *ConstNode:
		// leaf, nothing to check
	case *BinaryNode:
		if err := checkReachable(t.X, known); err != nil {
			return err
		}
		return checkReachable(t.Y, known)
	case *UnaryNode:
		return checkReachable(t.X, known)
	case *RandomNode:
		if err := checkReachable(t.Low, known); err != nil {
			return err
		}
		return checkReachable(t.High, known)
	case *SwitchNode:
		if err := checkReachable(t.Condition, known); err != nil {
			return err
		}
		if err := checkReachable(t.True, known); err != nil {
			return err
		}
		return checkReachable(t.False, known)
	case *MutateNode:
		return fmt.Errorf("graph invariant violated: mutate node nested inside an expression tree")
	}
	return nil
}

// Serialize returns the canonical, deterministic textual form of the whole
// graph used to test ordering-determinism: compiling the same
// source twice must yield byte-identical serialized Graphs.
func (g Graph) Serialize() string {
	var b strings.Builder
	b.WriteString("inputs:\n")
	for _, in := range g.Inputs {
		b.WriteString("  ")
		b.WriteString(in.Serialize())
		b.WriteByte('\n')
	}
	b.WriteString("outputs:\n")
	for _, out := range g.Outputs {
		b.WriteString("  ")
		b.WriteString(out.Serialize())
		b.WriteByte('\n')
	}
	return b.String()
}
