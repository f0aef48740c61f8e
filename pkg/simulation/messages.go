package simulation

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// ErrUnexpectedMessage is returned when a message is not of the expected kind.
var ErrUnexpectedMessage = errors.New("unexpected message")

// Kind identifies the messages understood by the WorldActor.
type Kind int

const (
	KindUnknown Kind = iota
	KindTick
	KindSetPredator
	KindUpdateRule
	KindGetFrame
	KindFrame
	KindRecordingHeader
)

const wirePackage = "boids.v1"

var kindNames = map[Kind]string{
	KindTick:            "Tick",
	KindSetPredator:     "SetPredator",
	KindUpdateRule:      "UpdateRule",
	KindGetFrame:        "GetFrame",
	KindFrame:           "Frame",
	KindRecordingHeader: "RecordingHeader",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// The wire schema, equivalent to:
//
//	syntax = "proto3";
//	package boids.v1;
//	message Tick {}
//	message SetPredator { float x = 1; float y = 2; }
//	message UpdateRule { string name = 1; float value = 2; }
//	message GetFrame {}
//	message Frame { uint64 tick = 1; float width = 2; float height = 3; repeated float xy = 4; }
//	message RecordingHeader { string run_id = 1; float width = 2; float height = 3; uint32 boids = 4; int64 created_unix = 5; }
var wireFile = mustBuildWireFile()

func mustBuildWireFile() protoreflect.FileDescriptor {
	optional := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum()
	repeated := descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	field := func(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type, label *descriptorpb.FieldDescriptorProto_Label) *descriptorpb.FieldDescriptorProto {
		return &descriptorpb.FieldDescriptorProto{
			Name:   proto.String(name),
			Number: proto.Int32(number),
			Type:   typ.Enum(),
			Label:  label,
		}
	}
	message := func(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
		return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
	}

	fdp := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("boids/v1/boids.proto"),
		Package: proto.String(wirePackage),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			message("Tick"),
			message("SetPredator",
				field("x", 1, descriptorpb.FieldDescriptorProto_TYPE_FLOAT, optional),
				field("y", 2, descriptorpb.FieldDescriptorProto_TYPE_FLOAT, optional)),
			message("UpdateRule",
				field("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING, optional),
				field("value", 2, descriptorpb.FieldDescriptorProto_TYPE_FLOAT, optional)),
			message("GetFrame"),
			message("Frame",
				field("tick", 1, descriptorpb.FieldDescriptorProto_TYPE_UINT64, optional),
				field("width", 2, descriptorpb.FieldDescriptorProto_TYPE_FLOAT, optional),
				field("height", 3, descriptorpb.FieldDescriptorProto_TYPE_FLOAT, optional),
				field("xy", 4, descriptorpb.FieldDescriptorProto_TYPE_FLOAT, repeated)),
			message("RecordingHeader",
				field("run_id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING, optional),
				field("width", 2, descriptorpb.FieldDescriptorProto_TYPE_FLOAT, optional),
				field("height", 3, descriptorpb.FieldDescriptorProto_TYPE_FLOAT, optional),
				field("boids", 4, descriptorpb.FieldDescriptorProto_TYPE_UINT32, optional),
				field("created_unix", 5, descriptorpb.FieldDescriptorProto_TYPE_INT64, optional)),
		},
	}

	fd, err := protodesc.NewFile(fdp, new(protoregistry.Files))
	if err != nil {
		panic(fmt.Sprintf("invalid wire schema: %v", err))
	}
	return fd
}

func descriptorOf(k Kind) protoreflect.MessageDescriptor {
	return wireFile.Messages().ByName(protoreflect.Name(kindNames[k]))
}

func newMessage(k Kind) *dynamicpb.Message {
	return dynamicpb.NewMessage(descriptorOf(k))
}

func set(m *dynamicpb.Message, name string, v protoreflect.Value) {
	m.Set(m.Descriptor().Fields().ByName(protoreflect.Name(name)), v)
}

func get(m protoreflect.Message, name string) protoreflect.Value {
	return m.Get(m.Descriptor().Fields().ByName(protoreflect.Name(name)))
}

// KindOf returns the kind of a message received from the actor system.
func KindOf(msg any) Kind {
	m, ok := msg.(proto.Message)
	if !ok {
		return KindUnknown
	}
	desc := m.ProtoReflect().Descriptor()
	if desc.ParentFile() == nil || desc.ParentFile().Package() != wirePackage {
		return KindUnknown
	}
	for k, name := range kindNames {
		if desc.Name() == protoreflect.Name(name) {
			return k
		}
	}
	return KindUnknown
}

// reflectAs checks msg is of kind k and gives access to its fields.
func reflectAs(msg any, k Kind) (protoreflect.Message, error) {
	if got := KindOf(msg); got != k {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrUnexpectedMessage, got, k)
	}
	return msg.(proto.Message).ProtoReflect(), nil
}

// NewTick asks the world to advance by one step.
func NewTick() proto.Message { return newMessage(KindTick) }

// NewGetFrame asks the world for its current Frame.
func NewGetFrame() proto.Message { return newMessage(KindGetFrame) }

// NewSetPredator moves (or creates) the predator.
func NewSetPredator(x, y float32) proto.Message {
	m := newMessage(KindSetPredator)
	set(m, "x", protoreflect.ValueOfFloat32(x))
	set(m, "y", protoreflect.ValueOfFloat32(y))
	return m
}

// PredatorFromProto reads a SetPredator message.
func PredatorFromProto(msg any) (x, y float32, err error) {
	m, err := reflectAs(msg, KindSetPredator)
	if err != nil {
		return 0, 0, err
	}
	return float32(get(m, "x").Float()), float32(get(m, "y").Float()), nil
}

// NewUpdateRule changes one flocking rule, named as in flock.RuleNames.
func NewUpdateRule(name string, value float32) proto.Message {
	m := newMessage(KindUpdateRule)
	set(m, "name", protoreflect.ValueOfString(name))
	set(m, "value", protoreflect.ValueOfFloat32(value))
	return m
}

// RuleFromProto reads an UpdateRule message.
func RuleFromProto(msg any) (name string, value float32, err error) {
	m, err := reflectAs(msg, KindUpdateRule)
	if err != nil {
		return "", 0, err
	}
	return get(m, "name").String(), float32(get(m, "value").Float()), nil
}
