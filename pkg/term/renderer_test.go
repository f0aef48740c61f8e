package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/simulation"
)

func newScreen(t *testing.T, cols, rows int) tcell.Screen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)
	return screen
}

func runeAt(screen tcell.Screen, col, row int) rune {
	r, _, _, _ := screen.GetContent(col, row)
	return r
}

func TestRenderer_Project(t *testing.T) {
	// 80x25 screen leaves 80x24 cells for a 800x240 world: 10x10 units per cell
	r := NewRenderer(newScreen(t, 80, 25))

	tests := []struct {
		name     string
		x, y     float32
		col, row int
		ok       bool
	}{
		{"origin", 0, 0, 0, 0, true},
		{"inside", 55, 37, 5, 3, true},
		{"last cell", 799.9, 239.9, 79, 23, true},
		{"right edge excluded", 800, 10, 0, 0, false},
		{"negative", -1, 10, 0, 0, false},
		{"below", 10, 300, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row, ok := r.Project(tt.x, tt.y, 800, 240)
			if ok != tt.ok || col != tt.col || row != tt.row {
				t.Errorf("Project(%v, %v) = (%d, %d, %v); want (%d, %d, %v)",
					tt.x, tt.y, col, row, ok, tt.col, tt.row, tt.ok)
			}
		})
	}
}

func TestRenderer_UnprojectRoundTrip(t *testing.T) {
	r := NewRenderer(newScreen(t, 40, 21))
	for _, cell := range [][2]int{{0, 0}, {12, 7}, {39, 19}} {
		x, y := r.Unproject(cell[0], cell[1], 400, 200)
		col, row, ok := r.Project(x, y, 400, 200)
		if !ok || col != cell[0] || row != cell[1] {
			t.Errorf("cell %v -> (%v, %v) -> (%d, %d, %v)", cell, x, y, col, row, ok)
		}
	}
}

func TestRenderer_Draw(t *testing.T) {
	screen := newScreen(t, 80, 25)
	r := NewRenderer(screen)

	f := simulation.Frame{
		Width:  800,
		Height: 240,
		XY: []float32{
			15, 15, // single boid in cell (1,1)
			51, 51, 52, 52, 53, 53, // three in cell (5,5)
			-20, 10, // outside, not drawn
		},
	}
	r.Draw(f, &flock.Predator{X: 205, Y: 105}, "tick 3")

	if got := runeAt(screen, 1, 1); got != '.' {
		t.Errorf("cell (1,1) = %q; want '.'", got)
	}
	if got := runeAt(screen, 5, 5); got != 'o' {
		t.Errorf("cell (5,5) = %q; want 'o'", got)
	}
	if got := runeAt(screen, 20, 10); got != 'X' {
		t.Errorf("predator cell = %q; want 'X'", got)
	}
	if got := runeAt(screen, 0, 0); got != ' ' {
		t.Errorf("empty cell = %q; want blank", got)
	}
	status := ""
	for col := 0; col < 6; col++ {
		status += string(runeAt(screen, col, 24))
	}
	if status != "tick 3" {
		t.Errorf("status line = %q; want %q", status, "tick 3")
	}
}

func TestRenderer_DrawRedrawsClean(t *testing.T) {
	screen := newScreen(t, 20, 11)
	r := NewRenderer(screen)

	r.Draw(simulation.Frame{Width: 200, Height: 100, XY: []float32{5, 5}}, nil, "")
	r.Draw(simulation.Frame{Width: 200, Height: 100, XY: []float32{195, 95}}, nil, "")

	if got := runeAt(screen, 0, 0); got != ' ' {
		t.Errorf("stale boid left at (0,0): %q", got)
	}
	if got := runeAt(screen, 19, 9); got != '.' {
		t.Errorf("cell (19,9) = %q; want '.'", got)
	}
}

func TestRenderer_DensityCaps(t *testing.T) {
	screen := newScreen(t, 10, 6)
	r := NewRenderer(screen)
	xy := make([]float32, 0, 40)
	for i := 0; i < 20; i++ {
		xy = append(xy, 1, 1)
	}
	r.Draw(simulation.Frame{Width: 100, Height: 50, XY: xy}, nil, "")
	if got := runeAt(screen, 0, 0); got != '@' {
		t.Errorf("crowded cell = %q; want '@'", got)
	}
}

func BenchmarkRenderer_Draw(b *testing.B) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		b.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(160, 50)
	r := NewRenderer(screen)
	w := flock.New(1000, 800, 1000, flock.DefaultRules(), flock.WithSeed(1))
	f := simulation.FrameOf(w)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Draw(f, nil, "bench")
	}
}
