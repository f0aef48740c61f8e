package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-world/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/metrics"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

const askTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "JSON or TOML config file (defaults when empty)")
	steps := flag.Int("steps", -1, "number of ticks to run, overrides the config when >= 0")
	record := flag.String("record", "", "record frames to this file, overrides the config")
	quiet := flag.Bool("quiet", false, "discard actor system logs")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *steps >= 0 {
		cfg.Steps = *steps
	}
	if *record != "" {
		cfg.RecordPath = *record
	}

	logger := golog.DefaultLogger
	if *quiet {
		logger = golog.DiscardLogger
	}

	if err := run(context.Background(), cfg, logger); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *simulation.Config, logger golog.Logger) error {
	system, err := actor.NewActorSystem("FlockD", actor.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := system.Start(ctx); err != nil {
		return err
	}
	stopped := false
	defer func() {
		if !stopped {
			_ = system.Stop(ctx)
		}
	}()

	world := cfg.NewWorld()

	var recorder *simulation.Recorder
	if cfg.RecordPath != "" {
		f, err := os.Create(cfg.RecordPath)
		if err != nil {
			return err
		}
		if recorder, err = simulation.NewRecorder(f, world.Width(), world.Height(), world.Len()); err != nil {
			_ = f.Close()
			return err
		}
		logger.Infof("recording run %s to %s", recorder.Header().RunID, cfg.RecordPath)
	}

	pid, err := spawnWorld(ctx, system, world, recorder)
	if err != nil {
		return err
	}
	sender := system.NoSender()

	var tick <-chan time.Time
	if cfg.TicksPerSecond > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(cfg.TicksPerSecond))
		defer ticker.Stop()
		tick = ticker.C
	}

	start := time.Now()
	for i := 0; i < cfg.Steps; i++ {
		if tick != nil {
			<-tick
		}
		if cfg.PredatorOrbit {
			x, y := orbit(world.Width(), world.Height(), i)
			if err := sender.Tell(ctx, pid, simulation.NewSetPredator(x, y)); err != nil {
				return err
			}
		}
		if err := sender.Tell(ctx, pid, simulation.NewTick()); err != nil {
			return err
		}
	}

	// the mailbox is ordered, so this answer comes after the last tick
	resp, err := sender.Ask(ctx, pid, simulation.NewGetFrame(), askTimeout)
	if err != nil {
		return err
	}
	frame, err := simulation.FrameFromProto(resp)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	// no actor touches the world once the system is stopped
	stopped = true
	if err := system.Stop(ctx); err != nil {
		return err
	}
	logger.Infof("ran %d ticks in %v | %s", frame.Tick, elapsed, metrics.Compute(world.Boids()))
	return nil
}

// spawnWorld starts the WorldActor. The recorder, owned by the actor once it
// runs, is closed here when the spawn fails.
func spawnWorld(ctx context.Context, system actor.ActorSystem, world *flock.World, recorder *simulation.Recorder) (*actor.PID, error) {
	pid, err := system.Spawn(ctx, "world", simulation.NewWorldActor(world, nil, recorder))
	if err != nil {
		err = fmt.Errorf("failed to spawn world: %w", err)
		if recorder != nil {
			err = errors.Join(err, recorder.Close())
		}
		return nil, err
	}
	return pid, nil
}

// orbit moves the predator on a circle around the world center, one turn every 600 ticks.
func orbit(width, height float32, step int) (x, y float32) {
	angle := 2 * math.Pi * float64(step%600) / 600
	r := 0.3 * math.Min(float64(width), float64(height))
	return width/2 + float32(r*math.Cos(angle)), height/2 + float32(r*math.Sin(angle))
}
