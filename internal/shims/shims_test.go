package shims

import (
	"testing"

	"github.com/bentobox-sdk/ecsgraph/internal/value"
)

func positionSchema() map[string]value.Type {
	return map[string]value.Type{"x": value.Scalar(value.INT32)}
}

func TestGraphComponentSelfAssignmentIgnored(t *testing.T) {
	c := NewGraphComponent(1, "position", positionSchema())

	x, err := c.Get("x", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Set("x", x, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(c.Outputs()) != 0 {
		t.Errorf("expected self-assignment to produce no mutate, got %d", len(c.Outputs()))
	}
	if len(c.Inputs()) != 1 {
		t.Errorf("expected the read to still be observed, got %d inputs", len(c.Inputs()))
	}
}

func TestGraphComponentReadAfterWrite(t *testing.T) {
	c := NewGraphComponent(1, "position", positionSchema())

	if err := c.Set("x", int32(20), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	x, err := c.Get("x", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ser, ok := x.Node.(interface{ Serialize() string }); ok && ser.Serialize() != "Const(20:INT32)" {
		t.Errorf("expected read-after-write to observe the written expression, got %s", ser.Serialize())
	}
	if len(c.Inputs()) != 0 {
		t.Errorf("expected no Retrieve recorded for a read-after-write, got %d", len(c.Inputs()))
	}
}

func TestGraphComponentUnknownAttribute(t *testing.T) {
	c := NewGraphComponent(1, "position", positionSchema())
	if _, err := c.Get("y", 1); err == nil {
		t.Error("expected UnknownAttributeError for undeclared attribute")
	}
}

func TestGraphEntityUnknownComponent(t *testing.T) {
	e := NewGraphEntity(1, map[string]map[string]value.Type{"position": positionSchema()})
	if _, err := e.Component("velocity"); err == nil {
		t.Error("expected UnknownComponentError")
	}
}

func TestGraphComponentLastWriteWinsOrderFixed(t *testing.T) {
	c := NewGraphComponent(1, "position", positionSchema())
	if err := c.Set("x", int32(1), 1); err != nil {
		t.Fatal(err)
	}
	if err := c.Set("x", int32(2), 2); err != nil {
		t.Fatal(err)
	}
	outs := c.Outputs()
	if len(outs) != 1 {
		t.Fatalf("expected exactly one mutate entry, got %d", len(outs))
	}
	cn, ok := outs[0].To.(interface{ Serialize() string })
	if !ok {
		t.Fatal("expected serializable node")
	}
	if cn.Serialize() != "Const(2:INT32)" {
		t.Errorf("expected last write's expression, got %s", cn.Serialize())
	}
}
