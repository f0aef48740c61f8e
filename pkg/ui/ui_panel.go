package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/ui/bind"
)

// UIWidget is an interface for all UI widgets
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	Height() float64
	MoveTo(y float64)
}

// PanelSection groups the widgets added between AddSection and the next one.
type PanelSection struct {
	Title   string
	Widgets []UIWidget
}

// UIPanel stacks widgets in titled sections and scrolls with the mouse wheel.
type UIPanel struct {
	X, Y          float64
	Width, Height float64
	ScrollOffset  float64
	Hidden        bool

	BGColor     color.RGBA
	BorderColor color.RGBA

	sections []*PanelSection
}

// NewUIPanel creates a new UI panel
func NewUIPanel(x, y, width, height float64) *UIPanel {
	return &UIPanel{
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 220},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new section, following widgets go into it.
func (p *UIPanel) AddSection(title string) {
	p.sections = append(p.sections, &PanelSection{Title: title})
}

func (p *UIPanel) add(w UIWidget) {
	if len(p.sections) == 0 {
		p.AddSection("")
	}
	s := p.sections[len(p.sections)-1]
	s.Widgets = append(s.Widgets, w)
}

// AddSlider adds a slider widget to the current section.
func (p *UIPanel) AddSlider(label string, min, max, value float64, onChange func(float64)) *Slider {
	s := NewSlider(p.X+10, 0, p.Width-20, label, min, max, value, onChange)
	p.add(s)
	return s
}

// AddCheckbox adds a checkbox widget to the current section.
func (p *UIPanel) AddCheckbox(label string, value *bind.Bool) *Checkbox {
	c := NewCheckbox(p.X+10, 0, label, value)
	p.add(c)
	return c
}

// AddButton adds a button to the current section.
func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, 0, p.Width-20, label, onClick)
	p.add(b)
	return b
}

// Contains reports whether the screen point is over the visible panel.
func (p *UIPanel) Contains(x, y int) bool {
	return !p.Hidden && contains(p.X, p.Y, p.Width, p.Height, x, y)
}

// layout positions every widget for the current scroll offset
// and calls visit for those inside the panel.
func (p *UIPanel) layout(visit func(y float64, title string, w UIWidget)) {
	y := p.Y + 24 - p.ScrollOffset
	for _, s := range p.sections {
		if s.Title != "" {
			visit(y, s.Title, nil)
			y += 24
		}
		for _, w := range s.Widgets {
			w.MoveTo(y)
			visit(y, "", w)
			y += w.Height()
		}
	}
}

func (p *UIPanel) contentHeight() float64 {
	h := 24.0
	for _, s := range p.sections {
		if s.Title != "" {
			h += 24
		}
		for _, w := range s.Widgets {
			h += w.Height()
		}
	}
	return h
}

func (p *UIPanel) visible(y, h float64) bool {
	return y >= p.Y+20 && y+h <= p.Y+p.Height
}

// Update handles scrolling and input for the visible widgets.
func (p *UIPanel) Update() {
	if p.Hidden {
		return
	}
	mx, my := ebiten.CursorPosition()
	if _, dy := ebiten.Wheel(); dy != 0 && p.Contains(mx, my) {
		maxScroll := max(p.contentHeight()-p.Height+10, 0)
		p.ScrollOffset = min(max(p.ScrollOffset-dy*20, 0), maxScroll)
	}
	p.layout(func(y float64, _ string, w UIWidget) {
		if w != nil && p.visible(y, w.Height()) {
			w.Update()
		}
	})
}

// Draw renders the panel and all widgets
func (p *UIPanel) Draw(screen *ebiten.Image) {
	if p.Hidden {
		return
	}
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), 2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, "Flock rules (H hides)", int(p.X+10), int(p.Y+5))

	p.layout(func(y float64, title string, w UIWidget) {
		if w == nil {
			if p.visible(y, 20) {
				vector.FillRect(screen, float32(p.X+5), float32(y), float32(p.Width-10), 20,
					color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
				ebitenutil.DebugPrintAt(screen, title, int(p.X+10), int(y+3))
			}
			return
		}
		if p.visible(y, w.Height()) {
			w.Draw(screen)
		}
	})
}

func contains(x, y, w, h float64, px, py int) bool {
	fx, fy := float64(px), float64(py)
	return fx >= x && fx <= x+w && fy >= y && fy <= y+h
}
