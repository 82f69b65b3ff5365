package graphir

import (
	"fmt"
	"strings"

	"github.com/bentobox-sdk/ecsgraph/internal/value"
)

// BinaryOp enumerates the two-operand pure operators.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Pow
	Max
	Min
	And
	Or
	Eq
	Gt
	Lt
	Ge
	Le
)

var binaryOpNames = map[BinaryOp]string{
	Add: "Add", Sub: "Sub", Mul: "Mul", Div: "Div", Mod: "Mod", Pow: "Pow",
	Max: "Max", Min: "Min", And: "And", Or: "Or", Eq: "Eq", Gt: "Gt",
	Lt: "Lt", Ge: "Ge", Le: "Le",
}

func (op BinaryOp) String() string { return binaryOpNames[op] }

// UnaryOp enumerates the single-operand pure operators.
type UnaryOp int

const (
	Abs UnaryOp = iota
	Floor
	Ceil
	Sin
	Cos
	Tan
	ArcSin
	ArcCos
	ArcTan
	Not
)

var unaryOpNames = map[UnaryOp]string{
	Abs: "Abs", Floor: "Floor", Ceil: "Ceil", Sin: "Sin", Cos: "Cos", Tan: "Tan",
	ArcSin: "ArcSin", ArcCos: "ArcCos", ArcTan: "ArcTan", Not: "Not",
}

func (op UnaryOp) String() string { return unaryOpNames[op] }

// Node is the base interface of the IR. It is implemented by the Const,
// Retrieve, Mutate and operator node types below. All variants are
// immutable once constructed, and two Nodes built from structurally
// identical leaves compare Equal, since every node is pure.
type Node interface {
	// Serialize returns a canonical, deterministic textual form used both
	// for structural-equality comparisons and for bit-exact Graph
	// serialization.
	Serialize() string
	isNode()
}

// ConstNode holds a literal Value.
type ConstNode struct {
	Value value.Value
}

func (n *ConstNode) isNode() {}
func (n *ConstNode) Serialize() string {
	return fmt.Sprintf("Const(%s:%s)", serializeScalarOrArray(n.Value), n.Value.Type.Primitive)
}

func serializeScalarOrArray(v value.Value) string {
	if !v.Type.IsArray {
		return fmt.Sprintf("%v", v.Scalar)
	}
	return fmt.Sprintf("%v", v.Items)
}

// RetrieveNode reads an attribute. Retrieve may only appear as a leaf
// feeding operators, or as the `To` expression inside a MutateNode.
type RetrieveNode struct {
	Ref AttributeRef
}

func (n *RetrieveNode) isNode() {}
func (n *RetrieveNode) Serialize() string {
	return fmt.Sprintf("Retrieve(%s)", n.Ref.String())
}

// MutateNode writes the value of To to Target. Mutate only ever appears at
// graph top level (as a Graph output), never nested inside an operator.
type MutateNode struct {
	Target AttributeRef
	To     Node
}

func (n *MutateNode) isNode() {}
func (n *MutateNode) Serialize() string {
	return fmt.Sprintf("Mutate(%s, %s)", n.Target.String(), n.To.Serialize())
}

// BinaryNode is a two-operand pure operator.
type BinaryNode struct {
	Op   BinaryOp
	X, Y Node
}

func (n *BinaryNode) isNode() {}
func (n *BinaryNode) Serialize() string {
	return fmt.Sprintf("%s(%s, %s)", n.Op, n.X.Serialize(), n.Y.Serialize())
}

// UnaryNode is a single-operand pure operator.
type UnaryNode struct {
	Op UnaryOp
	X  Node
}

func (n *UnaryNode) isNode() {}
func (n *UnaryNode) Serialize() string {
	return fmt.Sprintf("%s(%s)", n.Op, n.X.Serialize())
}

// RandomNode evaluates to a random value in [Low, High].
type RandomNode struct {
	Low, High Node
}

func (n *RandomNode) isNode() {}
func (n *RandomNode) Serialize() string {
	return fmt.Sprintf("Random(%s, %s)", n.Low.Serialize(), n.High.Serialize())
}

// SwitchNode selects between True and False based on Condition. Both
// branches are always captured as IR: there is no short-circuiting.
type SwitchNode struct {
	Condition, True, False Node
}

func (n *SwitchNode) isNode() {}
func (n *SwitchNode) Serialize() string {
	return fmt.Sprintf("Switch(%s, %s, %s)", n.Condition.Serialize(), n.True.Serialize(), n.False.Serialize())
}

// Equal reports whether two Nodes, or two Graphs, are structurally
// identical: equality is defined as bit-exact serialized form.
func Equal[T interface{ Serialize() string }](a, b T) bool {
	if any(a) == nil || any(b) == nil {
		return any(a) == nil && any(b) == nil
	}
	return a.Serialize() == b.Serialize()
}

// Indent prefixes s with two spaces per depth level, the same indentation
// Graph.Serialize uses for each of its entries.
func Indent(s string, depth int) string {
	return strings.Repeat("  ", depth) + s
}
