// Package value implements the host-to-wire Value lift: tagged primitive
// or array payloads that can be carried inside a
// graphir.Const node and, ultimately, a structpb.Value on the wire.
package value

import (
	"fmt"
	"math"
	"reflect"

	"github.com/bentobox-sdk/ecsgraph/internal/compileerrors"
)

// PrimitiveKind enumerates the scalar kinds a Value payload can hold.
type PrimitiveKind int

const (
	INT32 PrimitiveKind = iota
	INT64
	FLOAT32
	FLOAT64
	BOOL
	STRING
)

func (k PrimitiveKind) String() string {
	switch k {
	case INT32:
		return "INT32"
	case INT64:
		return "INT64"
	case FLOAT32:
		return "FLOAT32"
	case FLOAT64:
		return "FLOAT64"
	case BOOL:
		return "BOOL"
	case STRING:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

// Type is a tagged union: either a bare Primitive kind, or an
// Array of a Primitive element type with a fixed dimension list.
type Type struct {
	IsArray    bool
	Primitive  PrimitiveKind // element kind when IsArray, scalar kind otherwise
	Dimensions []int         // only meaningful when IsArray
}

// Scalar builds a non-array Type of the given primitive kind.
func Scalar(k PrimitiveKind) Type { return Type{Primitive: k} }

// Array builds an array Type of the given dimensions and element kind.
func Array(dims []int, elem PrimitiveKind) Type {
	return Type{IsArray: true, Primitive: elem, Dimensions: append([]int(nil), dims...)}
}

func (t Type) Equal(o Type) bool {
	if t.IsArray != o.IsArray || t.Primitive != o.Primitive {
		return false
	}
	if len(t.Dimensions) != len(o.Dimensions) {
		return false
	}
	for i := range t.Dimensions {
		if t.Dimensions[i] != o.Dimensions[i] {
			return false
		}
	}
	return true
}

// Value is (Type, payload): exactly one of a scalar matching Type.Primitive,
// or a flattened ordered sequence of scalars whose length is the product of
// Type.Dimensions.
type Value struct {
	Type   Type
	Scalar any   // valid when !Type.IsArray
	Items  []any // valid when Type.IsArray, row-major flattened
}

// WrapPrimitive lifts a single host scalar into a Value, choosing INT32 over
// INT64 whenever the integer fits in signed 32 bits, matching the wire
// format's narrowest-representation convention.
func WrapPrimitive(v any) (Value, error) {
	switch x := v.(type) {
	case int32:
		return Value{Type: Scalar(INT32), Scalar: x}, nil
	case int64:
		if fitsInt32(x) {
			return Value{Type: Scalar(INT32), Scalar: int32(x)}, nil
		}
		return Value{Type: Scalar(INT64), Scalar: x}, nil
	case int:
		n := int64(x)
		if fitsInt32(n) {
			return Value{Type: Scalar(INT32), Scalar: int32(n)}, nil
		}
		return Value{Type: Scalar(INT64), Scalar: n}, nil
	case float32:
		return Value{Type: Scalar(FLOAT32), Scalar: x}, nil
	case float64:
		return Value{Type: Scalar(FLOAT64), Scalar: x}, nil
	case bool:
		return Value{Type: Scalar(BOOL), Scalar: x}, nil
	case string:
		return Value{Type: Scalar(STRING), Scalar: x}, nil
	default:
		return Value{}, &compileerrors.TypeError{
			Reason: fmt.Sprintf("%T is not a supported native primitive type", v),
		}
	}
}

func fitsInt32(n int64) bool {
	return n >= math.MinInt32 && n <= math.MaxInt32
}

// Wrap lifts a host value (primitive, Value, or a slice/array of
// primitives, possibly nested) into a Value. nil and ragged nested slices
// are rejected with a TypeError, matching the original wrap()'s behavior
// for None and non-rectangular collections.
func Wrap(v any) (Value, error) {
	if val, ok := v.(Value); ok {
		return val, nil
	}
	if v == nil {
		return Value{}, &compileerrors.TypeError{Reason: "wrapping nil as Value is not supported"}
	}
	if prim, err := WrapPrimitive(v); err == nil {
		return prim, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return Value{}, &compileerrors.TypeError{
			Reason: fmt.Sprintf("%T is not a supported native type to wrap as Value", v),
		}
	}

	dims, err := shapeOf(rv)
	if err != nil {
		return Value{}, err
	}

	var items []any
	var elemKind PrimitiveKind
	haveKind := false
	if err := flatten(rv, dims, &items, &elemKind, &haveKind); err != nil {
		return Value{}, err
	}
	if len(items) == 0 {
		return Value{}, &compileerrors.TypeError{Reason: "cannot infer element type of an empty array"}
	}

	return Value{Type: Array(dims, elemKind), Items: items}, nil
}

// shapeOf determines the rectangular dimensions of a (possibly nested)
// slice/array, returning a TypeError if rows at the same nesting level
// disagree in length (ragged).
func shapeOf(rv reflect.Value) ([]int, error) {
	n := rv.Len()
	dims := []int{n}
	if n == 0 {
		return dims, nil
	}

	first := rv.Index(0)
	if first.Kind() != reflect.Slice && first.Kind() != reflect.Array {
		return dims, nil
	}

	subDims, err := shapeOf(first)
	if err != nil {
		return nil, err
	}
	for i := 1; i < n; i++ {
		row := rv.Index(i)
		if row.Kind() != reflect.Slice && row.Kind() != reflect.Array {
			return nil, &compileerrors.TypeError{Reason: "ragged array: mixed element and row types"}
		}
		rowDims, err := shapeOf(row)
		if err != nil {
			return nil, err
		}
		if !equalInts(rowDims, subDims) {
			return nil, &compileerrors.TypeError{Reason: "ragged array: rows of differing shape"}
		}
	}
	return append(dims, subDims...), nil
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func flatten(rv reflect.Value, dims []int, out *[]any, elemKind *PrimitiveKind, haveKind *bool) error {
	if len(dims) == 1 {
		for i := 0; i < rv.Len(); i++ {
			leaf := rv.Index(i).Interface()
			pv, err := WrapPrimitive(leaf)
			if err != nil {
				return err
			}
			if !*haveKind {
				*elemKind = pv.Type.Primitive
				*haveKind = true
			} else if pv.Type.Primitive != *elemKind {
				return &compileerrors.TypeError{Reason: "array elements must share a single primitive kind"}
			}
			*out = append(*out, pv.Scalar)
		}
		return nil
	}
	for i := 0; i < rv.Len(); i++ {
		if err := flatten(rv.Index(i), dims[1:], out, elemKind, haveKind); err != nil {
			return err
		}
	}
	return nil
}
