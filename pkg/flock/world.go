package flock

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// initialSpread bounds the random starting velocity on each axis: [-initialSpread, initialSpread).
const initialSpread = 10.0

// World owns the flock, the optional predator, the rules and the render buffer.
//
// A World is not safe for concurrent use. Tick, the setters and any read of
// RenderXY must be serialized by the caller.
type World struct {
	width, height float32
	boids         []Boid
	snapshot      []Boid // reused between ticks, keeps its capacity
	predator      *Predator
	rules         Rules
	renderXY      []float32
	ticks         uint64
}

// Option customizes New.
type Option func(*options)

type options struct {
	rng *rand.Rand
}

// WithSeed makes the initial flock reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand uses rng to place the initial flock.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// New creates a world of count boids placed uniformly in [0,width)x[0,height),
// each with a random velocity in [-10,10) on both axes.
// No validation is made: count <= 0 gives an empty world.
func New(width, height float32, count int, rules Rules, opts ...Option) *World {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		now := uint64(time.Now().UnixNano())
		o.rng = rand.New(rand.NewPCG(now, now>>1))
	}

	boids := make([]Boid, max(count, 0))
	for i := range boids {
		boids[i] = Boid{
			X:  o.rng.Float32() * width,
			Y:  o.rng.Float32() * height,
			Vx: o.rng.Float32()*2*initialSpread - initialSpread,
			Vy: o.rng.Float32()*2*initialSpread - initialSpread,
		}
	}
	return newWorld(width, height, boids, rules)
}

// NewWithBoids creates a world from an explicit initial flock. boids is copied.
func NewWithBoids(width, height float32, boids []Boid, rules Rules) *World {
	return newWorld(width, height, append([]Boid(nil), boids...), rules)
}

func newWorld(width, height float32, boids []Boid, rules Rules) *World {
	return &World{
		width:    width,
		height:   height,
		boids:    boids,
		snapshot: make([]Boid, 0, len(boids)),
		rules:    rules,
		renderXY: make([]float32, 2*len(boids)),
	}
}

// Tick advances the simulation by one step.
// Every boid reads the same copy of the flock taken before anyone moved,
// so the result does not depend on the update order.
func (w *World) Tick() {
	w.snapshot = append(w.snapshot[:0], w.boids...)
	rules := w.rules

	var predator *Predator
	if w.predator != nil {
		p := *w.predator
		predator = &p
	}

	for i := range w.boids {
		w.boids[i].update(w.snapshot, w.width, w.height, predator, &rules)
	}

	for i := range w.boids {
		w.renderXY[2*i] = w.boids[i].X
		w.renderXY[2*i+1] = w.boids[i].Y
	}
	w.ticks++
}

// SetPredatorLocation places the predator, creating it on the first call.
func (w *World) SetPredatorLocation(x, y float32) {
	if w.predator == nil {
		w.predator = &Predator{}
	}
	w.predator.X = x
	w.predator.Y = y
}

// Predator returns the predator and whether one was placed.
func (w *World) Predator() (Predator, bool) {
	if w.predator == nil {
		return Predator{}, false
	}
	return *w.predator, true
}

// ---------------------------------------------------------------------
// Rule setters. They take effect at the next Tick and do no validation.
// ---------------------------------------------------------------------

func (w *World) SetAvoidFactor(v float32)        { w.rules.AvoidFactor = v }
func (w *World) SetVisibleRange(v float32)       { w.rules.VisibleRange = v }
func (w *World) SetMatchingFactor(v float32)     { w.rules.MatchingFactor = v }
func (w *World) SetTurnFactor(v float32)         { w.rules.TurnFactor = v }
func (w *World) SetMaxSpeed(v float32)           { w.rules.MaxSpeed = v }
func (w *World) SetMinSpeed(v float32)           { w.rules.MinSpeed = v }
func (w *World) SetCenteringFactor(v float32)    { w.rules.CenteringFactor = v }
func (w *World) SetProtectedRange(v float32)     { w.rules.ProtectedRange = v }
func (w *World) SetPredatorTurnFactor(v float32) { w.rules.PredatorTurnFactor = v }
func (w *World) SetPredatorRange(v float32)      { w.rules.PredatorRange = v }
func (w *World) SetMarginRatio(v float32)        { w.rules.MarginRatio = v }

// SetRules replaces every rule at once.
func (w *World) SetRules(r Rules) { w.rules = r }

// SetRule sets a rule by its json name, e.g. "avoidFactor".
func (w *World) SetRule(name string, v float32) error {
	field, ok := w.rules.ruleFields()[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRule, name)
	}
	*field = v
	return nil
}

// Rules returns a copy of the current rules.
func (w *World) Rules() Rules { return w.rules }

// ---------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------

func (w *World) Width() float32  { return w.width }
func (w *World) Height() float32 { return w.height }

// Len returns the number of boids. It never changes.
func (w *World) Len() int { return len(w.boids) }

// Ticks returns how many times Tick ran.
func (w *World) Ticks() uint64 { return w.ticks }

// RenderXY returns the positions of the last Tick as x0,y0,x1,y1,...
// in boid order. The slice is the World's own buffer, not a copy: it must be
// treated as read-only and is only valid until the next Tick.
// Before the first Tick it is all zeros.
func (w *World) RenderXY() []float32 { return w.renderXY }

// RenderXYLen is always 2 * Len().
func (w *World) RenderXYLen() int { return len(w.renderXY) }

// Boids returns a copy of the flock.
func (w *World) Boids() []Boid {
	return append([]Boid(nil), w.boids...)
}
