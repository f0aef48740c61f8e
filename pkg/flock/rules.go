package flock

import (
	"errors"
	"fmt"
)

// ErrUnknownRule is returned by World.SetRule when the name matches no rule.
var ErrUnknownRule = errors.New("unknown rule")

// Rules controls the steering constants for the simulation.
// A copy is taken at the start of every tick, so changes made between two
// ticks apply from the next one.
//
// ProtectedRange is expected to be smaller than VisibleRange. When it is not,
// neighbors are rejected on VisibleRange before the separation test ever sees
// them, and the protected disk swallows the alignment/cohesion ring.
// Nothing enforces it; Validate reports it.
type Rules struct {
	AvoidFactor     float32 `json:"avoidFactor"`    // Separation strength
	VisibleRange    float32 `json:"visibleRange"`   // How far can they see?
	MatchingFactor  float32 `json:"matchingFactor"` // Alignment strength
	TurnFactor      float32 `json:"turnFactor"`     // Edge turning strength
	MaxSpeed        float32 `json:"maxSpeed"`
	MinSpeed        float32 `json:"minSpeed"`
	CenteringFactor float32 `json:"centeringFactor"` // Cohesion strength
	ProtectedRange  float32 `json:"protectedRange"`  // Personal space radius

	PredatorTurnFactor float32 `json:"predatorTurnFactor"` // Fixed push away from the predator
	PredatorRange      float32 `json:"predatorRange"`      // How close the predator must be to matter

	// MarginRatio is the width (and height) fraction near each edge where
	// boids start turning back. 0 means they only turn once outside the world.
	MarginRatio float32 `json:"marginRatio"`
}

// DefaultRules returns the values the flock was tuned with.
func DefaultRules() Rules {
	return Rules{
		AvoidFactor:        0.05,
		VisibleRange:       40.0,
		MatchingFactor:     0.04,
		TurnFactor:         0.4,
		MaxSpeed:           4.0,
		MinSpeed:           0.8,
		CenteringFactor:    0.0008,
		ProtectedRange:     10.0,
		PredatorTurnFactor: 0.5,
		PredatorRange:      45.0,
		MarginRatio:        0.15,
	}
}

// Validate reports combinations that make a rule silently useless.
// The simulation itself never calls it and accepts any value.
func (r Rules) Validate() error {
	var errs []error
	if r.ProtectedRange > r.VisibleRange {
		errs = append(errs, fmt.Errorf("protectedRange %g is larger than visibleRange %g", r.ProtectedRange, r.VisibleRange))
	}
	if r.MinSpeed > r.MaxSpeed {
		errs = append(errs, fmt.Errorf("minSpeed %g is larger than maxSpeed %g", r.MinSpeed, r.MaxSpeed))
	}
	if r.MarginRatio < 0 || r.MarginRatio > 0.5 {
		errs = append(errs, fmt.Errorf("marginRatio %g is outside [0, 0.5]", r.MarginRatio))
	}
	return errors.Join(errs...)
}

// ruleFields maps the json name of every rule to its field.
func (r *Rules) ruleFields() map[string]*float32 {
	return map[string]*float32{
		"avoidFactor":        &r.AvoidFactor,
		"visibleRange":       &r.VisibleRange,
		"matchingFactor":     &r.MatchingFactor,
		"turnFactor":         &r.TurnFactor,
		"maxSpeed":           &r.MaxSpeed,
		"minSpeed":           &r.MinSpeed,
		"centeringFactor":    &r.CenteringFactor,
		"protectedRange":     &r.ProtectedRange,
		"predatorTurnFactor": &r.PredatorTurnFactor,
		"predatorRange":      &r.PredatorRange,
		"marginRatio":        &r.MarginRatio,
	}
}

// RuleNames lists the names accepted by World.SetRule.
func RuleNames() []string {
	return []string{
		"avoidFactor", "visibleRange", "matchingFactor", "turnFactor",
		"maxSpeed", "minSpeed", "centeringFactor", "protectedRange",
		"predatorTurnFactor", "predatorRange", "marginRatio",
	}
}
