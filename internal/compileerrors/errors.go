// Package compileerrors defines the typed error kinds raised by the graph
// compiler pipeline. Each kind is its own struct rather than
// a shared error code so callers can type-switch on the failure and still
// get a source position where one is known.
package compileerrors

import "fmt"

// Position is a best-effort source location attached to a compile error.
// Line/Column are 1-indexed; a zero Position means "unknown".
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	if p.Line == 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// UnsupportedInputError is raised when the convert function fails a linter
// shape check (wrong arity, generator, not a plain function).
type UnsupportedInputError struct {
	Reason string
	Pos    Position
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("unsupported input at %s: %s", e.Pos, e.Reason)
}

// UnsupportedControlFlowError is raised when a rewrite pass encounters a
// pattern it cannot lower (e.g. asymmetric if/elif/else writes).
type UnsupportedControlFlowError struct {
	Reason string
	Pos    Position
}

func (e *UnsupportedControlFlowError) Error() string {
	return fmt.Sprintf("unsupported control flow at %s: %s", e.Pos, e.Reason)
}

// UnknownAttributeError is raised by shim-level lookups during tracing.
type UnknownAttributeError struct {
	Component string
	Attribute string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute %q on component %q", e.Attribute, e.Component)
}

// UnknownComponentError is raised when an entity is asked for a component
// name it was not constructed with.
type UnknownComponentError struct {
	Component string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("unknown component %q", e.Component)
}

// UnknownEntityError is raised when the plotter has no entity registered
// for the requested component set.
type UnknownEntityError struct {
	Components []string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("no entity bound for component set %v", e.Components)
}

// DuplicateComponentsError is raised when an entity() call names the same
// component twice.
type DuplicateComponentsError struct {
	Component string
}

func (e *DuplicateComponentsError) Error() string {
	return fmt.Sprintf("duplicate component %q in entity request", e.Component)
}

// TypeError is raised by the value wrapper when a host value cannot be
// lifted into a Value (nil, ragged arrays, unsupported kinds).
type TypeError struct {
	Reason string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error: %s", e.Reason)
}

// MaterializationFailureError is raised when the traced Graph fails its
// output-reachability check (graphir.Graph.Validate).
type MaterializationFailureError struct {
	Reason string
}

func (e *MaterializationFailureError) Error() string {
	return fmt.Sprintf("materialization failed: %s", e.Reason)
}

// EngineError wraps a status reported by the engine RPC collaborator.
type EngineError struct {
	Kind    string // Lookup, Value, Exists, NotImplemented, Timeout, Runtime
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine error (%s): %s", e.Kind, e.Message)
}
