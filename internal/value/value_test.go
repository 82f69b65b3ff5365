package value

import "testing"

func TestWrapPrimitiveIntWidth(t *testing.T) {
	v, err := Wrap(int64(1<<31 - 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type.Primitive != INT32 {
		t.Errorf("expected INT32 for 2^31-1, got %s", v.Type.Primitive)
	}

	v, err = Wrap(int64(1 << 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type.Primitive != INT64 {
		t.Errorf("expected INT64 for 2^31, got %s", v.Type.Primitive)
	}
}

func TestWrapNilRejected(t *testing.T) {
	if _, err := Wrap(nil); err == nil {
		t.Error("expected error wrapping nil")
	}
}

func TestWrapRaggedRejected(t *testing.T) {
	ragged := [][]float64{{1.0}, {1.0, 2.0}}
	if _, err := Wrap(ragged); err == nil {
		t.Error("expected error wrapping ragged nested array")
	}
}

func TestWrapFloatSlice(t *testing.T) {
	v, err := Wrap([]float64{1.0, 2.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Type.IsArray || v.Type.Primitive != FLOAT64 {
		t.Fatalf("expected FLOAT64 array, got %+v", v.Type)
	}
	if len(v.Type.Dimensions) != 1 || v.Type.Dimensions[0] != 2 {
		t.Errorf("expected shape (2,), got %v", v.Type.Dimensions)
	}
}

func TestWrapMixedKindsRejected(t *testing.T) {
	if _, err := Wrap([]any{1, "x"}); err == nil {
		t.Error("expected error mixing kinds in one array")
	}
}
