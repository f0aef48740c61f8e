package metrics

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-world/pkg/flock"
)

const epsilon = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name             string
		boids            []flock.Boid
		wantCount        int
		wantMeanSpeed    float64
		wantStdDev       float64
		wantPolarization float64
		wantCentroidX    float64
		wantCentroidY    float64
		wantSpread       float64
	}{
		{"Empty flock", nil, 0, 0, 0, 0, 0, 0, 0},
		{
			"Single boid",
			[]flock.Boid{{X: 10, Y: 20, Vx: 3, Vy: 4}},
			1, 5, 0, 1, 10, 20, 0,
		},
		{
			"Aligned pair",
			[]flock.Boid{{X: 0, Y: 0, Vx: 1, Vy: 0}, {X: 10, Y: 0, Vx: 3, Vy: 0}},
			2, 2, math.Sqrt2, 1, 5, 0, 5,
		},
		{
			"Opposite pair",
			[]flock.Boid{{X: 0, Y: 0, Vx: 2, Vy: 0}, {X: 0, Y: 8, Vx: -2, Vy: 0}},
			2, 2, 0, 0, 0, 4, 4,
		},
		{
			"Resting boid ignored for heading",
			[]flock.Boid{{X: 0, Y: 0}, {X: 0, Y: 0, Vx: 0, Vy: 2}},
			2, 1, math.Sqrt2, 1, 0, 0, 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.boids)
			if got.Count != tt.wantCount {
				t.Errorf("Count = %d; want %d", got.Count, tt.wantCount)
			}
			if !floatEquals(got.MeanSpeed, tt.wantMeanSpeed) {
				t.Errorf("MeanSpeed = %v; want %v", got.MeanSpeed, tt.wantMeanSpeed)
			}
			if !floatEquals(got.SpeedStdDev, tt.wantStdDev) {
				t.Errorf("SpeedStdDev = %v; want %v", got.SpeedStdDev, tt.wantStdDev)
			}
			if !floatEquals(got.Polarization, tt.wantPolarization) {
				t.Errorf("Polarization = %v; want %v", got.Polarization, tt.wantPolarization)
			}
			if !floatEquals(got.Centroid.X, tt.wantCentroidX) || !floatEquals(got.Centroid.Y, tt.wantCentroidY) {
				t.Errorf("Centroid = %v; want (%v, %v)", got.Centroid, tt.wantCentroidX, tt.wantCentroidY)
			}
			if !floatEquals(got.Spread, tt.wantSpread) {
				t.Errorf("Spread = %v; want %v", got.Spread, tt.wantSpread)
			}
		})
	}
}

func TestCompute_SimulatedFlock(t *testing.T) {
	w := flock.New(400, 400, 80, flock.DefaultRules(), flock.WithSeed(5))
	for i := 0; i < 20; i++ {
		w.Tick()
	}
	got := Compute(w.Boids())
	rules := w.Rules()
	if got.MeanSpeed < float64(rules.MinSpeed)-1e-4 || got.MeanSpeed > float64(rules.MaxSpeed)+1e-4 {
		t.Errorf("MeanSpeed %v outside the speed limits", got.MeanSpeed)
	}
	if got.Polarization < 0 || got.Polarization > 1+epsilon {
		t.Errorf("Polarization %v outside [0, 1]", got.Polarization)
	}
}
