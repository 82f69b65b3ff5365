package engineclient

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bentobox-sdk/ecsgraph/internal/compileerrors"
	"github.com/bentobox-sdk/ecsgraph/internal/value"
)

func TestLoadServiceResolvesAllMethods(t *testing.T) {
	svc, err := loadService()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"GetVersion", "ApplySimulation", "GetSimulation", "ListSimulations",
		"DropSimulation", "StepSimulation", "GetAttribute", "SetAttribute",
	}
	for _, name := range want {
		if svc.FindMethodByName(name) == nil {
			t.Errorf("expected method %q in engine schema", name)
		}
	}
}

func TestValueStructRoundTripScalar(t *testing.T) {
	v, err := value.WrapPrimitive(int64(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := valueToStruct(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := structToValue(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Type.Equal(v.Type) {
		t.Errorf("got type %v, want %v", got.Type, v.Type)
	}
	if got.Scalar != v.Scalar {
		t.Errorf("got scalar %v, want %v", got.Scalar, v.Scalar)
	}
}

func TestValueStructRoundTripArray(t *testing.T) {
	v, err := value.Wrap([]float64{1.0, 2.0, 3.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := valueToStruct(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := structToValue(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got.Items))
	}
	if got.Items[1] != 2.0 {
		t.Errorf("got items[1] = %v, want 2.0", got.Items[1])
	}
}

func TestTranslateStatusMapsCodesToEngineErrorKinds(t *testing.T) {
	cases := []struct {
		code codes.Code
		want string
	}{
		{codes.NotFound, "Lookup"},
		{codes.InvalidArgument, "Value"},
		{codes.AlreadyExists, "Exists"},
		{codes.Unimplemented, "NotImplemented"},
		{codes.DeadlineExceeded, "Timeout"},
		{codes.Internal, "Runtime"},
	}
	for _, c := range cases {
		err := translateStatus(status.Error(c.code, "boom"))
		var engErr *compileerrors.EngineError
		if !errors.As(err, &engErr) {
			t.Fatalf("expected an *EngineError for code %v", c.code)
		}
		if engErr.Kind != c.want {
			t.Errorf("code %v: got kind %q, want %q", c.code, engErr.Kind, c.want)
		}
	}
}

func TestTranslateStatusHandlesNonStatusErrors(t *testing.T) {
	err := translateStatus(errors.New("connection refused"))
	var engErr *compileerrors.EngineError
	if !errors.As(err, &engErr) {
		t.Fatalf("expected an *EngineError")
	}
	if engErr.Kind != "Runtime" {
		t.Errorf("got kind %q, want Runtime", engErr.Kind)
	}
}
