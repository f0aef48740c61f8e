package simulation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protodelim"
)

// Recorder writes a header followed by length-delimited Frame messages,
// so a renderer can replay a headless run later.
type Recorder struct {
	w      io.Writer
	header RecordingHeader
	frames int
}

// NewRecorder writes the recording header to w.
func NewRecorder(w io.Writer, width, height float32, boids int) (*Recorder, error) {
	h := RecordingHeader{
		RunID:       uuid.NewString(),
		Width:       width,
		Height:      height,
		Boids:       boids,
		CreatedUnix: time.Now().Unix(),
	}
	if _, err := protodelim.MarshalTo(w, h.ToProto()); err != nil {
		return nil, fmt.Errorf("failed to write recording header: %w", err)
	}
	return &Recorder{w: w, header: h}, nil
}

// Header returns the header written at creation.
func (r *Recorder) Header() RecordingHeader { return r.header }

// Frames returns how many frames were written.
func (r *Recorder) Frames() int { return r.frames }

// Write appends one frame.
func (r *Recorder) Write(f Frame) error {
	if _, err := protodelim.MarshalTo(r.w, f.ToProto()); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", f.Tick, err)
	}
	r.frames++
	return nil
}

// Close closes the underlying writer when it is an io.Closer.
func (r *Recorder) Close() error {
	if c, ok := r.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Replay reads back what a Recorder wrote.
type Replay struct {
	r      *bufio.Reader
	header RecordingHeader
}

// NewReplay reads the recording header from r.
func NewReplay(r io.Reader) (*Replay, error) {
	br := bufio.NewReader(r)
	m := newMessage(KindRecordingHeader)
	if err := protodelim.UnmarshalFrom(br, m); err != nil {
		return nil, fmt.Errorf("failed to read recording header: %w", err)
	}
	h, err := RecordingHeaderFromProto(m)
	if err != nil {
		return nil, err
	}
	return &Replay{r: br, header: h}, nil
}

func (p *Replay) Header() RecordingHeader { return p.header }

// Next returns the next frame, or io.EOF after the last one.
func (p *Replay) Next() (Frame, error) {
	m := newMessage(KindFrame)
	if err := protodelim.UnmarshalFrom(p.r, m); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("failed to read frame: %w", err)
	}
	return FrameFromProto(m)
}
