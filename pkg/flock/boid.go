package flock

import (
	"fmt"
	"math"
)

// Boid represents a single entity in the flock.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// The name "boid" corresponds to a shortened version of "bird-oid object".
// https://en.wikipedia.org/wiki/Boids
// Fields are exported so renderers and tests can read them.
type Boid struct {
	X, Y   float32
	Vx, Vy float32
}

// Predator is a repulsion point. It never moves by itself.
type Predator struct {
	X, Y float32
}

// String implements the fmt.Stringer interface.
func (b Boid) String() string {
	return fmt.Sprintf("pos(%.2f, %.2f) vel(%.2f, %.2f)", b.X, b.Y, b.Vx, b.Vy)
}

// Speed returns the magnitude of the velocity.
func (b Boid) Speed() float32 {
	return float32(math.Sqrt(float64(b.Vx*b.Vx + b.Vy*b.Vy)))
}

// update calculates the next velocity and position of b.
// neighbors is the snapshot of the whole flock taken before the tick started,
// b's own entry included; it must not be modified while the tick runs.
// Every step works on the velocity left by the previous one, so their order
// is observable.
func (b *Boid) update(neighbors []Boid, width, height float32, predator *Predator, r *Rules) {
	// Initialize force accumulators
	var closeDx, closeDy float32
	var xVelAvg, yVelAvg float32
	var xPosAvg, yPosAvg float32
	neighboring := 0

	visibleSq := r.VisibleRange * r.VisibleRange
	protectedSq := r.ProtectedRange * r.ProtectedRange

	for i := range neighbors {
		other := &neighbors[i]
		dx := b.X - other.X
		dy := b.Y - other.Y
		// also skips our own snapshot entry
		if dx == 0 && dy == 0 {
			continue
		}
		if abs32(dx) >= r.VisibleRange || abs32(dy) >= r.VisibleRange {
			continue
		}

		distSq := dx*dx + dy*dy
		if distSq < protectedSq {
			// Separation
			closeDx += dx
			closeDy += dy
		} else if distSq < visibleSq {
			// Alignment + Cohesion pool
			xVelAvg += other.Vx
			yVelAvg += other.Vy
			xPosAvg += other.X
			yPosAvg += other.Y
			neighboring++
		}
	}

	// Predator: fixed push, sign only
	if predator != nil {
		pdx := b.X - predator.X
		pdy := b.Y - predator.Y
		if abs32(pdx) < r.PredatorRange && abs32(pdy) < r.PredatorRange &&
			pdx*pdx+pdy*pdy < r.PredatorRange*r.PredatorRange {
			if pdx > 0 {
				b.Vx += r.PredatorTurnFactor
			} else if pdx < 0 {
				b.Vx -= r.PredatorTurnFactor
			}
			if pdy > 0 {
				b.Vy += r.PredatorTurnFactor
			} else if pdy < 0 {
				b.Vy -= r.PredatorTurnFactor
			}
		}
	}

	// Apply Alignment and Cohesion
	if neighboring > 0 {
		n := float32(neighboring)
		xVelAvg /= n
		yVelAvg /= n
		xPosAvg /= n
		yPosAvg /= n
		b.Vx += (xVelAvg - b.Vx) * r.MatchingFactor
		b.Vy += (yVelAvg - b.Vy) * r.MatchingFactor
		b.Vx += (xPosAvg - b.X) * r.CenteringFactor
		b.Vy += (yPosAvg - b.Y) * r.CenteringFactor
	}

	// World edges (soft turn)
	marginX := width * r.MarginRatio
	marginY := height * r.MarginRatio
	if b.X < marginX {
		b.Vx += r.TurnFactor
	}
	if b.X > width-marginX {
		b.Vx -= r.TurnFactor
	}
	if b.Y < marginY {
		b.Vy += r.TurnFactor
	}
	if b.Y > height-marginY {
		b.Vy -= r.TurnFactor
	}

	// Apply Separation
	b.Vx += closeDx * r.AvoidFactor
	b.Vy += closeDy * r.AvoidFactor

	b.clampSpeed(r.MinSpeed, r.MaxSpeed)

	// Move
	b.X += b.Vx
	b.Y += b.Vy
}

// clampSpeed rescales the velocity into [minSpeed, maxSpeed].
// A boid at rest has no direction to rescale along and is left alone,
// otherwise the division would turn it into NaN for good.
func (b *Boid) clampSpeed(minSpeed, maxSpeed float32) {
	speed := b.Speed()
	if speed == 0 {
		return
	}
	if speed > maxSpeed {
		b.Vx = (b.Vx / speed) * maxSpeed
		b.Vy = (b.Vy / speed) * maxSpeed
	} else if speed < minSpeed {
		b.Vx = (b.Vx / speed) * minSpeed
		b.Vy = (b.Vy / speed) * minSpeed
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
