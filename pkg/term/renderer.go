// Package term draws flock frames on a terminal screen.
package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/simulation"
)

// density maps the number of boids in a cell to a glyph
var density = []rune{' ', '.', ':', 'o', 'O', '@'}

var (
	StyleBackground = tcell.StyleDefault.Background(tcell.ColorBlack)
	StyleBoid       = StyleBackground.Foreground(tcell.NewRGBColor(100, 200, 255))
	StylePredator   = StyleBackground.Foreground(tcell.ColorRed).Bold(true)
	StyleStatus     = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
)

// Renderer projects world coordinates onto the screen cells.
// The last row is kept for a status line.
type Renderer struct {
	screen tcell.Screen
	counts []int
}

func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// area returns the cells available for the world.
func (r *Renderer) area() (cols, rows int) {
	cols, rows = r.screen.Size()
	return cols, max(rows-1, 0)
}

// Project returns the cell of the world point (x, y).
// ok is false for points outside the world or when the screen has no room.
func (r *Renderer) Project(x, y, width, height float32) (col, row int, ok bool) {
	cols, rows := r.area()
	if cols == 0 || rows == 0 || width <= 0 || height <= 0 {
		return 0, 0, false
	}
	if x < 0 || y < 0 || x >= width || y >= height {
		return 0, 0, false
	}
	col = int(x / width * float32(cols))
	row = int(y / height * float32(rows))
	return min(col, cols-1), min(row, rows-1), true
}

// Unproject returns the world point at the center of a cell.
func (r *Renderer) Unproject(col, row int, width, height float32) (x, y float32) {
	cols, rows := r.area()
	if cols == 0 || rows == 0 {
		return 0, 0
	}
	x = (float32(col) + 0.5) * width / float32(cols)
	y = (float32(row) + 0.5) * height / float32(rows)
	return x, y
}

// Draw renders one frame, the predator when not nil, and the status line, then shows the screen.
func (r *Renderer) Draw(f simulation.Frame, predator *flock.Predator, status string) {
	r.screen.Clear()
	cols, rows := r.area()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			r.screen.SetContent(col, row, ' ', nil, StyleBackground)
		}
	}

	if n := cols * rows; cap(r.counts) < n {
		r.counts = make([]int, n)
	} else {
		r.counts = r.counts[:n]
		clear(r.counts)
	}
	for i := 0; i+1 < len(f.XY); i += 2 {
		col, row, ok := r.Project(f.XY[i], f.XY[i+1], f.Width, f.Height)
		if !ok {
			continue
		}
		r.counts[row*cols+col]++
	}
	for i, c := range r.counts {
		if c == 0 {
			continue
		}
		r.screen.SetContent(i%cols, i/cols, density[min(c, len(density)-1)], nil, StyleBoid)
	}

	if predator != nil {
		if col, row, ok := r.Project(predator.X, predator.Y, f.Width, f.Height); ok {
			r.screen.SetContent(col, row, 'X', nil, StylePredator)
		}
	}

	r.drawStatus(status, cols, rows)
	r.screen.Show()
}

func (r *Renderer) drawStatus(status string, cols, row int) {
	col := 0
	for _, ch := range status {
		if col >= cols {
			break
		}
		r.screen.SetContent(col, row, ch, nil, StyleStatus)
		col++
	}
	for ; col < cols; col++ {
		r.screen.SetContent(col, row, ' ', nil, StyleStatus)
	}
}
