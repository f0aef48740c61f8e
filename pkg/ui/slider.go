package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider edits a float value between Min and Max.
// OnChange, when set, is called with the new value each time a drag moves it.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	X, Y     float64
	W, H     float64
	OnChange func(v float64)
}

// NewSlider creates a slider, value is clamped into [min, max].
func NewSlider(x, y, w float64, label string, min, max, value float64, onChange func(float64)) *Slider {
	s := &Slider{Label: label, Min: min, Max: max, X: x, Y: y, W: w, H: 10, OnChange: onChange}
	s.Value = s.clamp(value)
	return s
}

func (s *Slider) clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// Update checks for mouse interaction
func (s *Slider) Update() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if !contains(s.X, s.Y, s.W, s.H, mx, my) {
		return
	}
	// Calculate value based on horizontal position
	p := (float64(mx) - s.X) / s.W
	v := s.clamp(s.Min + p*(s.Max-s.Min))
	if v == s.Value {
		return
	}
	s.Value = v
	if s.OnChange != nil {
		s.OnChange(v)
	}
}

// Draw renders the slider
func (s *Slider) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: %.4g", s.Label, s.Value), int(s.X), int(s.Y)-16)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)
	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), color.RGBA{R: 120, G: 190, B: 255, A: 255}, true)
}

func (s *Slider) Height() float64  { return s.H + 22 }
func (s *Slider) MoveTo(y float64) { s.Y = y + 16 }
