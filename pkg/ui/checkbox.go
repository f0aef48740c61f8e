package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/ui/bind"
)

// Checkbox is a simple UI widget for boolean values.
// The value lives in a bind.Bool, so other controls can change it too.
type Checkbox struct {
	Label   string
	Value   *bind.Bool
	X, Y    float64
	Size    float64
	clicked bool // Track if already clicked this frame
}

// NewCheckbox creates a new checkbox instance
func NewCheckbox(x, y float64, label string, value *bind.Bool) *Checkbox {
	return &Checkbox{Label: label, Value: value, X: x, Y: y, Size: 14}
}

// Update toggles on click, once per press
func (c *Checkbox) Update() {
	mx, my := ebiten.CursorPosition()
	if contains(c.X, c.Y, c.Size, c.Size, mx, my) && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !c.clicked {
			c.Value.Toggle()
			c.clicked = true
		}
	} else {
		c.clicked = false
	}
}

// Draw renders the checkbox
func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen, float32(c.X), float32(c.Y), float32(c.Size), float32(c.Size), 2,
		color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
	if c.Value.Value() {
		vector.FillRect(screen, float32(c.X+3), float32(c.Y+3), float32(c.Size-6), float32(c.Size-6),
			color.RGBA{R: 100, G: 200, B: 100, A: 255}, true)
	}
	ebitenutil.DebugPrintAt(screen, c.Label, int(c.X+c.Size+6), int(c.Y))
}

func (c *Checkbox) Height() float64  { return c.Size + 8 }
func (c *Checkbox) MoveTo(y float64) { c.Y = y }
