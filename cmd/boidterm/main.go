package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/term"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

type app struct {
	ctx      context.Context
	system   actor.ActorSystem
	pid      *actor.PID
	screen   tcell.Screen
	renderer *term.Renderer
	frames   chan simulation.Frame

	frame    simulation.Frame
	predator *flock.Predator
	paused   bool
}

func main() {
	configPath := flag.String("config", "", "JSON or TOML config file (defaults when empty)")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	tps := cfg.TicksPerSecond
	if tps <= 0 {
		tps = 30
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	screen.EnableMouse()
	screen.HideCursor()

	// the terminal belongs to the renderer, so the actor system stays quiet
	ctx := context.Background()
	system, err := actor.NewActorSystem("BoidTerm", actor.WithLogger(golog.DiscardLogger))
	if err != nil {
		screen.Fini()
		log.Fatal(err)
	}
	if err := system.Start(ctx); err != nil {
		screen.Fini()
		log.Fatal(err)
	}

	world := cfg.NewWorld()
	frames := make(chan simulation.Frame, 1)
	pid, err := system.Spawn(ctx, "world", simulation.NewWorldActor(world, frames, nil))
	if err != nil {
		screen.Fini()
		log.Fatal(err)
	}

	a := &app{
		ctx:      ctx,
		system:   system,
		pid:      pid,
		screen:   screen,
		renderer: term.NewRenderer(screen),
		frames:   frames,
		frame:    simulation.FrameOf(world),
	}
	a.run(time.Second / time.Duration(tps))

	_ = system.Stop(ctx)
	screen.Fini()
}

func (a *app) run(interval time.Duration) {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go pumpEvents(a.screen, events, done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if !a.handle(ev) {
				return
			}
		case <-ticker.C:
			if !a.paused {
				_ = a.system.NoSender().Tell(a.ctx, a.pid, simulation.NewTick())
			}
		case f := <-a.frames:
			a.frame = f
		}
		a.renderer.Draw(a.frame, a.predator, a.status())
	}
}

// pumpEvents forwards screen events until the screen is finalized or done is closed.
func pumpEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// handle reacts to one terminal event and reports whether to keep running.
func (a *app) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
			return false
		case ev.Rune() == ' ':
			a.paused = !a.paused
		}
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			col, row := ev.Position()
			x, y := a.renderer.Unproject(col, row, a.frame.Width, a.frame.Height)
			a.predator = &flock.Predator{X: x, Y: y}
			_ = a.system.NoSender().Tell(a.ctx, a.pid, simulation.NewSetPredator(x, y))
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *app) status() string {
	s := fmt.Sprintf(" tick %d | %d boids | click: predator  space: pause  q: quit", a.frame.Tick, a.frame.Len())
	if a.paused {
		s += " | PAUSED"
	}
	return s
}
