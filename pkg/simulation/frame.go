package simulation

import (
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/flock"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Frame is what a renderer needs to draw one step of the world.
type Frame struct {
	Tick          uint64
	Width, Height float32
	XY            []float32 // x0,y0,x1,y1,...
}

// FrameOf copies the current render buffer of w.
func FrameOf(w *flock.World) Frame {
	return Frame{
		Tick:   w.Ticks(),
		Width:  w.Width(),
		Height: w.Height(),
		XY:     append([]float32(nil), w.RenderXY()...),
	}
}

// Len returns the number of boids in the frame.
func (f Frame) Len() int { return len(f.XY) / 2 }

// ToProto converts the Frame into its wire message.
func (f Frame) ToProto() proto.Message {
	m := newMessage(KindFrame)
	set(m, "tick", protoreflect.ValueOfUint64(f.Tick))
	set(m, "width", protoreflect.ValueOfFloat32(f.Width))
	set(m, "height", protoreflect.ValueOfFloat32(f.Height))
	xy := m.Mutable(descriptorOf(KindFrame).Fields().ByName("xy")).List()
	for _, v := range f.XY {
		xy.Append(protoreflect.ValueOfFloat32(v))
	}
	return m
}

// FrameFromProto converts a Frame message back to a Frame.
func FrameFromProto(msg any) (Frame, error) {
	m, err := reflectAs(msg, KindFrame)
	if err != nil {
		return Frame{}, err
	}
	list := get(m, "xy").List()
	f := Frame{
		Tick:   get(m, "tick").Uint(),
		Width:  float32(get(m, "width").Float()),
		Height: float32(get(m, "height").Float()),
		XY:     make([]float32, list.Len()),
	}
	for i := range f.XY {
		f.XY[i] = float32(list.Get(i).Float())
	}
	return f, nil
}

// RecordingHeader describes a recording, it is written once before the frames.
type RecordingHeader struct {
	RunID         string
	Width, Height float32
	Boids         int
	CreatedUnix   int64
}

func (h RecordingHeader) ToProto() proto.Message {
	m := newMessage(KindRecordingHeader)
	set(m, "run_id", protoreflect.ValueOfString(h.RunID))
	set(m, "width", protoreflect.ValueOfFloat32(h.Width))
	set(m, "height", protoreflect.ValueOfFloat32(h.Height))
	set(m, "boids", protoreflect.ValueOfUint32(uint32(h.Boids)))
	set(m, "created_unix", protoreflect.ValueOfInt64(h.CreatedUnix))
	return m
}

func RecordingHeaderFromProto(msg any) (RecordingHeader, error) {
	m, err := reflectAs(msg, KindRecordingHeader)
	if err != nil {
		return RecordingHeader{}, err
	}
	return RecordingHeader{
		RunID:       get(m, "run_id").String(),
		Width:       float32(get(m, "width").Float()),
		Height:      float32(get(m, "height").Float()),
		Boids:       int(get(m, "boids").Uint()),
		CreatedUnix: get(m, "created_unix").Int(),
	}, nil
}
