package simulation

import (
	"time"

	"github.com/lao-tseu-is-alive/go-boids-world/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/metrics"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
)

// WorldActor owns a flock.World. The mailbox handles one message at a time,
// which gives the World the exclusive access it requires.
type WorldActor struct {
	world *flock.World
	// Communication with UI, may be nil
	frameCh chan<- Frame
	// Optional frame recording, closed on PostStop
	recorder *Recorder

	// --- Stats ---
	ticksSinceLog int
	lastLogTime   time.Time
	logEvery      time.Duration
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor creates the world logic unit.
// frameCh receives a Frame after every tick when the reader keeps up, frames are dropped otherwise.
func NewWorldActor(world *flock.World, frameCh chan<- Frame, recorder *Recorder) *WorldActor {
	return &WorldActor{
		world:       world,
		frameCh:     frameCh,
		recorder:    recorder,
		lastLogTime: time.Now(),
		logEvery:    time.Second,
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World %vx%v is starting with %d boids",
		w.world.Width(), w.world.Height(), w.world.Len())
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	if _, ok := ctx.Message().(*goaktpb.PostStart); ok {
		ctx.Logger().Info("World Started.")
		return
	}

	switch KindOf(ctx.Message()) {

	// The Main Simulation Step (Driven by the caller's loop)
	case KindTick:
		w.world.Tick()
		w.ticksSinceLog++
		frame := FrameOf(w.world)
		w.record(ctx, frame)
		w.pushFrame(frame)
		w.logStats(ctx)

	case KindSetPredator:
		x, y, err := PredatorFromProto(ctx.Message())
		if err != nil {
			ctx.Logger().Errorf("bad SetPredator: %v", err)
			return
		}
		w.world.SetPredatorLocation(x, y)

	// Dynamic slider updates
	case KindUpdateRule:
		name, value, err := RuleFromProto(ctx.Message())
		if err == nil {
			err = w.world.SetRule(name, value)
		}
		if err != nil {
			ctx.Logger().Errorf("rule update rejected: %v", err)
			return
		}
		ctx.Logger().Debugf("rule %s set to %v", name, value)

	case KindGetFrame:
		ctx.Response(FrameOf(w.world).ToProto())

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) record(ctx *actor.ReceiveContext, f Frame) {
	if w.recorder == nil {
		return
	}
	if err := w.recorder.Write(f); err != nil {
		ctx.Logger().Errorf("recording stopped: %v", err)
		w.recorder = nil
	}
}

func (w *WorldActor) pushFrame(f Frame) {
	if w.frameCh == nil {
		return
	}
	select {
	case w.frameCh <- f:
	default:
		// UI busy, skip frame
	}
}

func (w *WorldActor) logStats(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) < w.logEvery {
		return
	}
	ctx.Logger().Infof("📊 tick %d | %d ticks/sec | %s",
		w.world.Ticks(), w.ticksSinceLog, metrics.Compute(w.world.Boids()))
	w.ticksSinceLog = 0
	w.lastLogTime = time.Now()
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	if w.recorder != nil {
		ctx.ActorSystem().Logger().Infof("World recorded %d frames (run %s)",
			w.recorder.Frames(), w.recorder.Header().RunID)
		if err := w.recorder.Close(); err != nil {
			return err
		}
	}
	ctx.ActorSystem().Logger().Info("World is shutdown...")
	return nil
}
