package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-world/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	gerrors "github.com/tochemey/goakt/v3/errors"
	golog "github.com/tochemey/goakt/v3/log"
)

func TestOrbit(t *testing.T) {
	tests := []struct {
		step int
		x, y float32
	}{
		{0, 740, 400},
		{150, 500, 640},
		{300, 260, 400},
		{600, 740, 400},
	}
	for _, tt := range tests {
		x, y := orbit(1000, 800, tt.step)
		if math.Abs(float64(x-tt.x)) > 1e-3 || math.Abs(float64(y-tt.y)) > 1e-3 {
			t.Errorf("orbit(step %d) = (%v, %v); want (%v, %v)", tt.step, x, y, tt.x, tt.y)
		}
	}
}

func TestRun_Records(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.boids")
	cfg := simulation.DefaultConfig()
	cfg.NumBoids = 25
	cfg.Seed = 3
	cfg.Steps = 12
	cfg.TicksPerSecond = 0
	cfg.PredatorOrbit = true
	cfg.RecordPath = path

	if err := run(context.Background(), cfg, golog.DiscardLogger); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open recording: %v", err)
	}
	defer f.Close()
	replay, err := simulation.NewReplay(f)
	if err != nil {
		t.Fatalf("NewReplay: %v", err)
	}
	if h := replay.Header(); h.Boids != 25 || h.Width != 1000 || h.RunID == "" {
		t.Errorf("unexpected header %+v", h)
	}
	frames := 0
	for {
		_, err := replay.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		frames++
	}
	if frames != cfg.Steps {
		t.Errorf("recorded %d frames; want %d", frames, cfg.Steps)
	}
}

type closeTracker struct {
	bytes.Buffer
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestSpawnWorld_ClosesRecorderOnFailure(t *testing.T) {
	out := &closeTracker{}
	rec, err := simulation.NewRecorder(out, 100, 100, 1)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	// never started, so Spawn fails
	system, err := actor.NewActorSystem("Stopped", actor.WithLogger(golog.DiscardLogger))
	if err != nil {
		t.Fatalf("NewActorSystem: %v", err)
	}
	world := flock.New(100, 100, 1, flock.DefaultRules(), flock.WithSeed(1))

	pid, err := spawnWorld(context.Background(), system, world, rec)
	if !errors.Is(err, gerrors.ErrActorSystemNotStarted) {
		t.Errorf("spawnWorld() error = %v; want %v", err, gerrors.ErrActorSystemNotStarted)
	}
	if pid != nil {
		t.Error("spawnWorld() returned a PID on failure")
	}
	if !out.closed {
		t.Error("record file left open after a failed spawn")
	}
}

func TestSpawnWorld_NoRecorder(t *testing.T) {
	system, err := actor.NewActorSystem("Stopped", actor.WithLogger(golog.DiscardLogger))
	if err != nil {
		t.Fatalf("NewActorSystem: %v", err)
	}
	world := flock.New(100, 100, 1, flock.DefaultRules(), flock.WithSeed(1))
	if _, err := spawnWorld(context.Background(), system, world, nil); err == nil {
		t.Error("spawnWorld() on a stopped system should fail")
	}
}
