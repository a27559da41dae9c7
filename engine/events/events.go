// Package events implements single-pass event dispatch.
// Dispatch produces additional effects but never applies them or recurses.
package events

import (
	"github.com/nathoo/storyseed/engine/effects"
	"github.com/nathoo/storyseed/engine/rules"
	"github.com/nathoo/storyseed/engine/state"
	"github.com/nathoo/storyseed/types"
)

// Dispatch checks every hidden consequence against the session after the
// emitted events and returns a reveal effect for each one whose condition now
// holds. Consequences created during the turn being resolved are skipped.
// No events means nothing changed, so nothing is checked.
func Dispatch(events []types.Event, s *types.Session) []types.Effect {
	if len(events) == 0 {
		return nil
	}

	turn := state.Turn(s)
	var result []types.Effect
	for _, cq := range s.Consequences {
		if cq.Revealed || cq.Turn == turn || cq.RevealCondition == nil {
			continue
		}
		if !rules.EvalCondition(*cq.RevealCondition, s) {
			continue
		}
		result = append(result, effects.Reveal(cq.ID))
	}
	return result
}
