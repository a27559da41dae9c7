// Package arc drives the story arc: completion, phase, tension, pacing,
// and when the story ends.
package arc

import (
	"github.com/nathoo/storyseed/engine/character"
	"github.com/nathoo/storyseed/engine/rules"
	"github.com/nathoo/storyseed/engine/state"
	"github.com/nathoo/storyseed/types"
)

const (
	ExpectedInteractions = 8
	InteractionCap       = 8
	ConsequenceCap       = 5
)

// thresholds are the completion levels at which each phase after setup begins.
var thresholds = []float64{5, 20, 40, 60, 80}

// Completion blends interactions, consequences, and character development
// into a 0..100 score. The turn being resolved counts as an interaction.
func Completion(s *types.Session) float64 {
	interactions := float64(state.Turn(s))
	score := 70*interactions/ExpectedInteractions +
		15*float64(len(s.Consequences))/ConsequenceCap +
		0.15*character.MeanDevelopment(s.Characters)
	return state.Clamp(score, 0, 100)
}

// PhaseFor returns the phase a completion score maps to.
func PhaseFor(completion float64) types.Phase {
	idx := 0
	for i, th := range thresholds {
		if completion >= th {
			idx = i + 1
		}
	}
	return types.Phases[idx]
}

// PacingFor classifies arc tension.
func PacingFor(tension float64) types.Pacing {
	switch {
	case tension > 70:
		return types.PacingFast
	case tension < 30:
		return types.PacingSlow
	default:
		return types.PacingMedium
	}
}

// Advance recomputes the arc after a resolution. Completion and phase never
// move backwards. Returns a phase_changed event when the phase moved.
func Advance(s *types.Session) []types.Event {
	var events []types.Event

	completion := Completion(s)
	if completion < s.Arc.Completion {
		completion = s.Arc.Completion
	}
	s.Arc.Completion = completion
	s.CompletionRate = completion

	prev := s.Arc.Phase
	next := PhaseFor(completion)
	if rules.PhaseIndex(next) > rules.PhaseIndex(prev) {
		s.Arc.Phase = next
		events = append(events, types.Event{
			Type: types.EventPhaseChanged,
			Data: map[string]any{"from": string(prev), "to": string(next)},
		})
	}

	idx := float64(rules.PhaseIndex(s.Arc.Phase))
	s.Arc.Tension = state.Clamp(0.8*s.World.Tension*100+0.2*idx*20, 0, 100)
	s.Arc.Pacing = PacingFor(s.Arc.Tension)

	return events
}

// ShouldEnd reports whether the story is over once the turn being resolved
// is counted.
func ShouldEnd(s *types.Session) bool {
	return state.Turn(s) >= InteractionCap ||
		s.World.Tension >= 1 ||
		len(s.Consequences) >= ConsequenceCap ||
		s.Arc.Completion >= 100
}
