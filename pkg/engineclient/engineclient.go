// Package engineclient implements the engine RPC collaborator:
// GetVersion, ApplySimulation, GetSimulation, ListSimulations,
// DropSimulation, StepSimulation, GetAttribute, SetAttribute. The wire
// schema is parsed at runtime from an embedded proto string via
// protoparse, and every request and
// response is built and read back as a dynamic.Message — there is no
// protoc-generated stub and never will be, since the engine's actual
// schema lives outside this module entirely.
package engineclient

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bentobox-sdk/ecsgraph/internal/compileerrors"
	"github.com/bentobox-sdk/ecsgraph/internal/graphir"
	"github.com/bentobox-sdk/ecsgraph/internal/value"
)

const engineProtoSource = `
syntax = "proto3";

package ecsengine;

import "google/protobuf/struct.proto";
import "google/protobuf/empty.proto";

message SimulationDef {
  google.protobuf.Struct definition = 1;
}

message SimulationName {
  string name = 1;
}

message SimulationList {
  repeated string names = 1;
}

message VersionInfo {
  string version = 1;
}

message AttributeRef {
  uint64 entity_id = 1;
  string component = 2;
  string attribute = 3;
}

message AttributeRequest {
  string simulation = 1;
  AttributeRef ref = 2;
}

message AttributeAssignment {
  string simulation = 1;
  AttributeRef ref = 2;
  google.protobuf.Struct value = 3;
}

message AttributeValue {
  google.protobuf.Struct value = 1;
}

service Engine {
  rpc GetVersion(google.protobuf.Empty) returns (VersionInfo);
  rpc ApplySimulation(SimulationDef) returns (SimulationDef);
  rpc GetSimulation(SimulationName) returns (SimulationDef);
  rpc ListSimulations(google.protobuf.Empty) returns (SimulationList);
  rpc DropSimulation(SimulationName) returns (google.protobuf.Empty);
  rpc StepSimulation(SimulationName) returns (google.protobuf.Empty);
  rpc GetAttribute(AttributeRequest) returns (AttributeValue);
  rpc SetAttribute(AttributeAssignment) returns (google.protobuf.Empty);
}
`

const serviceFullName = "ecsengine.Engine"

// Client is a connected handle to one engine instance.
type Client struct {
	conn    *grpc.ClientConn
	service *desc.ServiceDescriptor
}

// Dial connects to the engine at target and parses its RPC schema.
func Dial(target string) (*Client, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dialing engine at %s: %w", target, err)
	}

	svc, err := loadService()
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Client{conn: conn, service: svc}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func loadService() (*desc.ServiceDescriptor, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{"engine.proto": engineProtoSource}),
	}
	fds, err := parser.ParseFiles("engine.proto")
	if err != nil {
		return nil, fmt.Errorf("parsing engine schema: %w", err)
	}
	svc := fds[0].FindService(serviceFullName)
	if svc == nil {
		return nil, fmt.Errorf("engine schema has no service %q", serviceFullName)
	}
	return svc, nil
}

// GetVersion returns the engine's self-reported version string.
func (c *Client) GetVersion(ctx context.Context) (string, error) {
	resp, err := c.invoke(ctx, "GetVersion", nil)
	if err != nil {
		return "", err
	}
	v, err := resp.TryGetFieldByName("version")
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// ApplySimulation submits a simulation definition and returns the engine's
// copy with autogenerated ids filled in.
func (c *Client) ApplySimulation(ctx context.Context, def *structpb.Struct) (*structpb.Struct, error) {
	resp, err := c.invoke(ctx, "ApplySimulation", func(req *dynamic.Message) error {
		return setStructField(req, "definition", def)
	})
	if err != nil {
		return nil, err
	}
	return getStructField(resp, "definition")
}

// GetSimulation fetches a previously applied simulation by name.
func (c *Client) GetSimulation(ctx context.Context, name string) (*structpb.Struct, error) {
	resp, err := c.invoke(ctx, "GetSimulation", func(req *dynamic.Message) error {
		req.SetFieldByName("name", name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return getStructField(resp, "definition")
}

// ListSimulations returns the names of every simulation the engine holds.
func (c *Client) ListSimulations(ctx context.Context) ([]string, error) {
	resp, err := c.invoke(ctx, "ListSimulations", nil)
	if err != nil {
		return nil, err
	}
	raw, err := resp.TryGetFieldByName("names")
	if err != nil {
		return nil, err
	}
	items, _ := raw.([]interface{})
	names := make([]string, len(items))
	for i, it := range items {
		names[i], _ = it.(string)
	}
	return names, nil
}

// DropSimulation removes a simulation from the engine.
func (c *Client) DropSimulation(ctx context.Context, name string) error {
	_, err := c.invoke(ctx, "DropSimulation", func(req *dynamic.Message) error {
		req.SetFieldByName("name", name)
		return nil
	})
	return err
}

// StepSimulation advances a simulation by a single tick.
func (c *Client) StepSimulation(ctx context.Context, name string) error {
	_, err := c.invoke(ctx, "StepSimulation", func(req *dynamic.Message) error {
		req.SetFieldByName("name", name)
		return nil
	})
	return err
}

// GetAttribute reads one attribute of a running simulation.
func (c *Client) GetAttribute(ctx context.Context, simName string, ref graphir.AttributeRef) (value.Value, error) {
	resp, err := c.invoke(ctx, "GetAttribute", func(req *dynamic.Message) error {
		req.SetFieldByName("simulation", simName)
		refMD, err := fieldMessageType(req, "ref")
		if err != nil {
			return err
		}
		req.SetFieldByName("ref", buildAttributeRef(refMD, ref))
		return nil
	})
	if err != nil {
		return value.Value{}, err
	}
	s, err := getStructField(resp, "value")
	if err != nil {
		return value.Value{}, err
	}
	return structToValue(s)
}

// SetAttribute writes one attribute of a running simulation.
func (c *Client) SetAttribute(ctx context.Context, simName string, ref graphir.AttributeRef, v value.Value) error {
	s, err := valueToStruct(v)
	if err != nil {
		return err
	}
	_, err = c.invoke(ctx, "SetAttribute", func(req *dynamic.Message) error {
		req.SetFieldByName("simulation", simName)
		refMD, err := fieldMessageType(req, "ref")
		if err != nil {
			return err
		}
		req.SetFieldByName("ref", buildAttributeRef(refMD, ref))
		return setStructField(req, "value", s)
	})
	return err
}

func (c *Client) invoke(ctx context.Context, method string, build func(req *dynamic.Message) error) (*dynamic.Message, error) {
	md := c.service.FindMethodByName(method)
	if md == nil {
		return nil, fmt.Errorf("engine schema has no method %q", method)
	}

	req := dynamic.NewMessage(md.GetInputType())
	if build != nil {
		if err := build(req); err != nil {
			return nil, err
		}
	}

	resp := dynamic.NewMessage(md.GetOutputType())
	fullMethod := fmt.Sprintf("/%s/%s", md.GetService().GetFullyQualifiedName(), md.GetName())
	if err := c.conn.Invoke(ctx, fullMethod, req, resp); err != nil {
		return nil, translateStatus(err)
	}
	return resp, nil
}

func translateStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return &compileerrors.EngineError{Kind: "Runtime", Message: err.Error()}
	}
	kind := "Runtime"
	switch st.Code() {
	case codes.NotFound:
		kind = "Lookup"
	case codes.InvalidArgument:
		kind = "Value"
	case codes.AlreadyExists:
		kind = "Exists"
	case codes.Unimplemented:
		kind = "NotImplemented"
	case codes.DeadlineExceeded:
		kind = "Timeout"
	}
	return &compileerrors.EngineError{Kind: kind, Message: st.Message()}
}

func fieldMessageType(msg *dynamic.Message, field string) (*desc.MessageDescriptor, error) {
	fd := msg.GetMessageDescriptor().FindFieldByName(field)
	if fd == nil {
		return nil, fmt.Errorf("engine schema message %s has no field %q", msg.GetMessageDescriptor().GetName(), field)
	}
	return fd.GetMessageType(), nil
}

func buildAttributeRef(md *desc.MessageDescriptor, ref graphir.AttributeRef) *dynamic.Message {
	m := dynamic.NewMessage(md)
	m.SetFieldByName("entity_id", ref.EntityID)
	m.SetFieldByName("component", ref.Component)
	m.SetFieldByName("attribute", ref.Attribute)
	return m
}

func setStructField(msg *dynamic.Message, field string, s *structpb.Struct) error {
	md, err := fieldMessageType(msg, field)
	if err != nil {
		return err
	}
	sub := dynamic.NewMessage(md)
	if err := sub.ConvertFrom(s); err != nil {
		return fmt.Errorf("encoding %s: %w", field, err)
	}
	msg.SetFieldByName(field, sub)
	return nil
}

func getStructField(msg *dynamic.Message, field string) (*structpb.Struct, error) {
	raw, err := msg.TryGetFieldByName(field)
	if err != nil {
		return nil, err
	}
	sub, ok := raw.(*dynamic.Message)
	if !ok {
		return &structpb.Struct{}, nil
	}
	var out structpb.Struct
	if err := sub.ConvertTo(&out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", field, err)
	}
	return &out, nil
}

// valueToStruct encodes a value.Value as a structpb.Struct carrying its
// (Type, payload) pair verbatim, so it round-trips
// through GetAttribute/SetAttribute without losing the array/scalar
// distinction or the element kind.
func valueToStruct(v value.Value) (*structpb.Struct, error) {
	fields := map[string]*structpb.Value{
		"kind":     structpb.NewStringValue(v.Type.Primitive.String()),
		"is_array": structpb.NewBoolValue(v.Type.IsArray),
	}
	if v.Type.IsArray {
		dims := make([]*structpb.Value, len(v.Type.Dimensions))
		for i, d := range v.Type.Dimensions {
			dims[i] = structpb.NewNumberValue(float64(d))
		}
		fields["dimensions"] = structpb.NewListValue(&structpb.ListValue{Values: dims})

		items := make([]*structpb.Value, len(v.Items))
		for i, it := range v.Items {
			sv, err := scalarToStructValue(it)
			if err != nil {
				return nil, err
			}
			items[i] = sv
		}
		fields["items"] = structpb.NewListValue(&structpb.ListValue{Values: items})
	} else {
		sv, err := scalarToStructValue(v.Scalar)
		if err != nil {
			return nil, err
		}
		fields["scalar"] = sv
	}
	return &structpb.Struct{Fields: fields}, nil
}

func scalarToStructValue(x any) (*structpb.Value, error) {
	switch n := x.(type) {
	case int32:
		return structpb.NewNumberValue(float64(n)), nil
	case int64:
		return structpb.NewNumberValue(float64(n)), nil
	case float32:
		return structpb.NewNumberValue(float64(n)), nil
	case float64:
		return structpb.NewNumberValue(n), nil
	case bool:
		return structpb.NewBoolValue(n), nil
	case string:
		return structpb.NewStringValue(n), nil
	default:
		return nil, &compileerrors.TypeError{Reason: fmt.Sprintf("%T cannot be carried over the wire", x)}
	}
}

// structToValue is the inverse of valueToStruct.
func structToValue(s *structpb.Struct) (value.Value, error) {
	fields := s.GetFields()
	kindField, ok := fields["kind"]
	if !ok {
		return value.Value{}, &compileerrors.TypeError{Reason: "wire value missing kind field"}
	}
	kind, err := parsePrimitiveKind(kindField.GetStringValue())
	if err != nil {
		return value.Value{}, err
	}

	isArray := fields["is_array"].GetBoolValue()
	if !isArray {
		scalar, err := structScalarToGo(fields["scalar"], kind)
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Type: value.Scalar(kind), Scalar: scalar}, nil
	}

	dimVals := fields["dimensions"].GetListValue().GetValues()
	dims := make([]int, len(dimVals))
	for i, d := range dimVals {
		dims[i] = int(d.GetNumberValue())
	}

	itemVals := fields["items"].GetListValue().GetValues()
	items := make([]any, len(itemVals))
	for i, it := range itemVals {
		scalar, err := structScalarToGo(it, kind)
		if err != nil {
			return value.Value{}, err
		}
		items[i] = scalar
	}

	return value.Value{Type: value.Array(dims, kind), Items: items}, nil
}

func parsePrimitiveKind(name string) (value.PrimitiveKind, error) {
	switch name {
	case "INT32":
		return value.INT32, nil
	case "INT64":
		return value.INT64, nil
	case "FLOAT32":
		return value.FLOAT32, nil
	case "FLOAT64":
		return value.FLOAT64, nil
	case "BOOL":
		return value.BOOL, nil
	case "STRING":
		return value.STRING, nil
	default:
		return 0, &compileerrors.TypeError{Reason: fmt.Sprintf("unknown wire value kind %q", name)}
	}
}

func structScalarToGo(v *structpb.Value, kind value.PrimitiveKind) (any, error) {
	switch kind {
	case value.INT32:
		return int32(v.GetNumberValue()), nil
	case value.INT64:
		return int64(v.GetNumberValue()), nil
	case value.FLOAT32:
		return float32(v.GetNumberValue()), nil
	case value.FLOAT64:
		return v.GetNumberValue(), nil
	case value.BOOL:
		return v.GetBoolValue(), nil
	case value.STRING:
		return v.GetStringValue(), nil
	default:
		return nil, &compileerrors.TypeError{Reason: "unsupported wire value kind"}
	}
}
