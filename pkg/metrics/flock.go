// Package metrics summarizes the state of a flock: how fast it moves,
// how aligned it is and how spread out it is.
package metrics

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-boids-world/pkg/flock"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// Flock holds aggregate measures of a flock at one instant.
type Flock struct {
	Count       int
	MeanSpeed   float64
	SpeedStdDev float64
	// Polarization is the length of the mean unit heading:
	// 1 when every boid flies the same way, close to 0 when headings cancel out.
	Polarization float64
	Centroid     r2.Vec
	// Spread is the mean distance to the centroid.
	Spread float64
}

// String implements the fmt.Stringer interface.
func (f Flock) String() string {
	return fmt.Sprintf("boids=%d speed=%.2f±%.2f polarization=%.2f centroid=(%.1f, %.1f) spread=%.1f",
		f.Count, f.MeanSpeed, f.SpeedStdDev, f.Polarization, f.Centroid.X, f.Centroid.Y, f.Spread)
}

// Compute measures boids. An empty flock gives the zero value.
func Compute(boids []flock.Boid) Flock {
	n := len(boids)
	if n == 0 {
		return Flock{}
	}

	speeds := make([]float64, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	var heading r2.Vec
	moving := 0
	for i, b := range boids {
		v := r2.Vec{X: float64(b.Vx), Y: float64(b.Vy)}
		speeds[i] = r2.Norm(v)
		xs[i] = float64(b.X)
		ys[i] = float64(b.Y)
		if speeds[i] > 0 {
			heading = r2.Add(heading, r2.Scale(1/speeds[i], v))
			moving++
		}
	}

	f := Flock{Count: n}
	if n > 1 {
		f.MeanSpeed, f.SpeedStdDev = stat.MeanStdDev(speeds, nil)
	} else {
		f.MeanSpeed = speeds[0]
	}
	if moving > 0 {
		f.Polarization = r2.Norm(heading) / float64(moving)
	}
	f.Centroid = r2.Vec{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}

	dists := make([]float64, n)
	for i := range boids {
		dists[i] = r2.Norm(r2.Sub(r2.Vec{X: xs[i], Y: ys[i]}, f.Centroid))
	}
	f.Spread = stat.Mean(dists, nil)
	return f
}
