package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/metrics"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/ui"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/ui/bind"
	golog "github.com/tochemey/goakt/v3/log"
)

const (
	panelWidth = 240
	statsEvery = 15
)

var ruleSliders = []struct {
	label    string
	min, max float64
	get      func(flock.Rules) float32
	set      func(*flock.World, float32)
}{
	{"Visible range", 0, 150, func(r flock.Rules) float32 { return r.VisibleRange }, (*flock.World).SetVisibleRange},
	{"Protected range", 0, 50, func(r flock.Rules) float32 { return r.ProtectedRange }, (*flock.World).SetProtectedRange},
	{"Avoid factor", 0, 0.5, func(r flock.Rules) float32 { return r.AvoidFactor }, (*flock.World).SetAvoidFactor},
	{"Matching factor", 0, 0.5, func(r flock.Rules) float32 { return r.MatchingFactor }, (*flock.World).SetMatchingFactor},
	{"Centering factor", 0, 0.01, func(r flock.Rules) float32 { return r.CenteringFactor }, (*flock.World).SetCenteringFactor},
	{"Turn factor", 0, 2, func(r flock.Rules) float32 { return r.TurnFactor }, (*flock.World).SetTurnFactor},
	{"Margin ratio", 0, 0.5, func(r flock.Rules) float32 { return r.MarginRatio }, (*flock.World).SetMarginRatio},
	{"Min speed", 0, 10, func(r flock.Rules) float32 { return r.MinSpeed }, (*flock.World).SetMinSpeed},
	{"Max speed", 0, 10, func(r flock.Rules) float32 { return r.MaxSpeed }, (*flock.World).SetMaxSpeed},
	{"Predator range", 0, 200, func(r flock.Rules) float32 { return r.PredatorRange }, (*flock.World).SetPredatorRange},
	{"Predator turn", 0, 2, func(r flock.Rules) float32 { return r.PredatorTurnFactor }, (*flock.World).SetPredatorTurnFactor},
}

type Game struct {
	cfg    *simulation.Config
	logger golog.Logger

	world  *flock.World
	replay *simulation.Replay
	frame  simulation.Frame // last replayed frame

	prevXY []float32
	panel  *ui.UIPanel
	paused *bind.Bool // shared by the checkbox and the space key

	showRange *bind.Bool
	frames    int
	stats     metrics.Flock
}

func NewGame(cfg *simulation.Config, replay *simulation.Replay, logger golog.Logger) *Game {
	g := &Game{
		cfg:       cfg,
		replay:    replay,
		logger:    logger,
		paused:    bind.NewBool(false, nil),
		showRange: bind.NewBool(false, nil),
	}
	if replay != nil {
		h := replay.Header()
		g.frame = simulation.Frame{Width: h.Width, Height: h.Height}
	} else {
		g.world = cfg.NewWorld()
	}
	g.panel = g.buildPanel()
	return g
}

func (g *Game) buildPanel() *ui.UIPanel {
	w, h := g.size()
	p := ui.NewUIPanel(float64(w), 0, panelWidth, float64(h))
	if g.world != nil {
		p.AddSection("Flocking")
		rules := g.world.Rules()
		for _, s := range ruleSliders {
			set := s.set
			p.AddSlider(s.label, s.min, s.max, float64(s.get(rules)), func(v float64) {
				set(g.world, float32(v))
			})
		}
	}
	p.AddSection("View")
	p.AddCheckbox("Paused", g.paused)
	p.AddCheckbox("Show predator range", g.showRange)
	if g.world != nil {
		p.AddButton("Reset flock", g.reset)
	}
	return p
}

func (g *Game) size() (int, int) {
	if g.world != nil {
		return int(g.world.Width()), int(g.world.Height())
	}
	return int(g.frame.Width), int(g.frame.Height)
}

// reset rebuilds the flock and keeps the rules currently set on the sliders.
func (g *Game) reset() {
	rules := g.world.Rules()
	g.world = g.cfg.NewWorld()
	g.world.SetRules(rules)
	g.prevXY = g.prevXY[:0]
	g.logger.Infof("flock reset with %d boids", g.world.Len())
}

func (g *Game) xy() []float32 {
	if g.world != nil {
		return g.world.RenderXY()
	}
	return g.frame.XY
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.panel.Hidden = !g.panel.Hidden
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && g.world != nil {
		g.reset()
	}

	// 1. Update widgets (sliders push their values into the world)
	g.panel.Update()

	if g.paused.Value() {
		return nil
	}

	// 2. Advance
	g.prevXY = append(g.prevXY[:0], g.xy()...)
	if g.world != nil {
		mx, my := ebiten.CursorPosition()
		w, h := g.size()
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && !g.panel.Contains(mx, my) && mx < w && my < h {
			g.world.SetPredatorLocation(float32(mx), float32(my))
		}
		g.world.Tick()
	} else if err := g.nextReplayFrame(); err != nil {
		return err
	}

	// 3. Stats
	g.frames++
	if g.world != nil && g.frames%statsEvery == 0 {
		g.stats = metrics.Compute(g.world.Boids())
	}
	return nil
}

func (g *Game) nextReplayFrame() error {
	f, err := g.replay.Next()
	if errors.Is(err, io.EOF) {
		g.paused.Set(true)
		g.logger.Infof("replay finished after %d frames", g.frames)
		return nil
	}
	if err != nil {
		return err
	}
	g.frame = f
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 10, G: 10, B: 30, A: 255})

	if g.world != nil {
		if p, ok := g.world.Predator(); ok {
			if g.showRange.Value() {
				vector.StrokeCircle(screen, p.X, p.Y, g.world.Rules().PredatorRange, 1,
					color.RGBA{R: 255, G: 80, B: 80, A: 120}, true)
			}
			vector.FillCircle(screen, p.X, p.Y, 6, color.RGBA{R: 255, G: 50, B: 50, A: 255}, true)
		}
	}
	drawFlock(screen, g.xy(), g.prevXY)

	g.panel.Draw(screen)

	var msg string
	if g.world != nil {
		msg = fmt.Sprintf("TPS: %0.1f  tick %d\n%s", ebiten.ActualTPS(), g.world.Ticks(), g.stats)
	} else {
		msg = fmt.Sprintf("TPS: %0.1f  replay tick %d  boids %d", ebiten.ActualTPS(), g.frame.Tick, g.frame.Len())
	}
	if g.paused.Value() {
		msg += "\nPAUSED"
	}
	ebitenutil.DebugPrint(screen, msg)
}

// drawFlock draws one triangle per boid in a single batch.
// The heading comes from the displacement since the previous buffer.
func drawFlock(screen *ebiten.Image, xy, prev []float32) {
	n := len(xy) / 2
	if n == 0 {
		return
	}
	vertices := make([]ebiten.Vertex, 0, n*3)
	indices := make([]uint16, 0, n*3)
	for i := 0; i < n; i++ {
		x, y := float64(xy[2*i]), float64(xy[2*i+1])
		angle := 0.0
		if len(prev) == len(xy) {
			dx, dy := x-float64(prev[2*i]), y-float64(prev[2*i+1])
			if dx != 0 || dy != 0 {
				angle = math.Atan2(dy, dx)
			}
		}
		// uint16 indices, start a new batch when full
		if len(vertices)+3 > math.MaxUint16 {
			screen.DrawTriangles(vertices, indices, whiteImage, &ebiten.DrawTrianglesOptions{})
			vertices, indices = vertices[:0], indices[:0]
		}
		base := uint16(len(vertices))
		vertices = append(vertices,
			vertex(x+math.Cos(angle)*6, y+math.Sin(angle)*6),
			vertex(x+math.Cos(angle+2.5)*5, y+math.Sin(angle+2.5)*5),
			vertex(x+math.Cos(angle-2.5)*5, y+math.Sin(angle-2.5)*5),
		)
		indices = append(indices, base, base+1, base+2)
	}
	screen.DrawTriangles(vertices, indices, whiteImage, &ebiten.DrawTrianglesOptions{})
}

func vertex(x, y float64) ebiten.Vertex {
	return ebiten.Vertex{
		DstX: float32(x), DstY: float32(y),
		SrcX: 1, SrcY: 1,
		ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	w, h := g.size()
	return w + panelWidth, h
}

var whiteImage = ebiten.NewImage(3, 3)

func init() {
	whiteImage.Fill(color.RGBA{R: 100, G: 200, B: 255, A: 255})
}

func main() {
	configPath := flag.String("config", "", "JSON or TOML config file (defaults when empty)")
	replayPath := flag.String("replay", "", "play back a recording made by flockd instead of simulating")
	flag.Parse()

	logger := golog.DefaultLogger

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}

	var replay *simulation.Replay
	if *replayPath != "" {
		f, err := os.Open(*replayPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		if replay, err = simulation.NewReplay(f); err != nil {
			log.Fatal(err)
		}
		h := replay.Header()
		logger.Infof("replaying run %s: %d boids in %vx%v", h.RunID, h.Boids, h.Width, h.Height)
	}

	g := NewGame(cfg, replay, logger)
	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Boids")
	if cfg.TicksPerSecond > 0 {
		ebiten.SetTPS(cfg.TicksPerSecond)
	}
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
