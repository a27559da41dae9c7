// Package rules evaluates conditions against a session and selects the
// consequence trigger rule for a resolved choice.
package rules

import (
	"strings"

	"github.com/nathoo/storyseed/engine/state"
	"github.com/nathoo/storyseed/types"
)

// EvalCondition evaluates a single condition against the current session.
// Unknown subjects or fields evaluate to false.
func EvalCondition(c types.Condition, s *types.Session) bool {
	switch c.Subject {
	case types.SubjectMood:
		ch := state.Character(s, c.Target)
		if ch == nil {
			return false
		}
		switch c.Field {
		case "label":
			return compareText(ch.Mood.Label, c)
		case "intensity":
			return compareNumber(ch.Mood.Intensity, c)
		case "influences":
			return compareSet(ch.Mood.Influences, c)
		}

	case types.SubjectRelationship:
		ch := state.Character(s, c.Target)
		if ch == nil {
			return false
		}
		if c.Field == "*" {
			best := 0.0
			for _, rel := range ch.Relationships {
				if rel.Strength > best {
					best = rel.Strength
				}
			}
			return compareNumber(best, c)
		}
		rel, ok := ch.Relationships[c.Field]
		if !ok {
			return false
		}
		return compareNumber(rel.Strength, c)

	case types.SubjectConsequence:
		unrevealed := state.Unrevealed(s)
		switch c.Field {
		case "unrevealed":
			return compareNumber(float64(len(unrevealed)), c)
		case "count":
			return compareNumber(float64(len(s.Consequences)), c)
		case "rules":
			names := make([]string, 0, len(unrevealed))
			for _, cq := range unrevealed {
				names = append(names, string(cq.Rule))
			}
			return compareSet(names, c)
		case "choices":
			ids := make([]string, 0, len(s.Consequences))
			for _, cq := range s.Consequences {
				ids = append(ids, cq.ChoiceID)
			}
			return compareSet(ids, c)
		}

	case types.SubjectWorld:
		w := s.World
		switch c.Field {
		case "tension":
			return compareNumber(w.Tension, c)
		case "mystery":
			return compareNumber(w.Mystery, c)
		case "continuity":
			return compareNumber(float64(w.Continuity), c)
		case "foreshadow":
			return compareNumber(float64(w.Foreshadow), c)
		case "location":
			return compareText(w.Location, c)
		case "atmosphere":
			return compareText(w.Atmosphere, c)
		case "genre":
			return compareText(w.Genre, c)
		}

	case types.SubjectArc:
		switch c.Field {
		case "phase":
			return comparePhase(s.Arc.Phase, c)
		case "completion":
			return compareNumber(s.Arc.Completion, c)
		case "tension":
			return compareNumber(s.Arc.Tension, c)
		case "themes":
			return compareSet(s.Arc.Themes, c)
		}

	case types.SubjectHistory:
		switch c.Field {
		case "choices":
			return compareNumber(float64(s.ChoiceCount), c)
		case "choice_ids":
			ids := make([]string, 0, len(s.History))
			for _, h := range s.History {
				ids = append(ids, h.ChoiceID)
			}
			return compareSet(ids, c)
		}
	}
	return false
}

// EvalAllConditions returns true if all conditions pass (AND logic).
// An empty condition list is vacuously true.
func EvalAllConditions(conditions []types.Condition, s *types.Session) bool {
	for _, c := range conditions {
		if !EvalCondition(c, s) {
			return false
		}
	}
	return true
}

func compareNumber(v float64, c types.Condition) bool {
	switch c.Op {
	case types.OpEquals:
		return v == c.Number
	case types.OpGreater:
		return v > c.Number
	case types.OpLess:
		return v < c.Number
	default:
		return false
	}
}

func compareText(v string, c types.Condition) bool {
	switch c.Op {
	case types.OpEquals:
		return v == c.Text
	case types.OpContains:
		return strings.Contains(v, c.Text)
	default:
		return false
	}
}

func compareSet(vals []string, c types.Condition) bool {
	switch c.Op {
	case types.OpContains:
		for _, v := range vals {
			if v == c.Text {
				return true
			}
		}
		return false
	case types.OpEquals:
		return len(vals) == 1 && vals[0] == c.Text
	case types.OpGreater:
		return float64(len(vals)) > c.Number
	case types.OpLess:
		return float64(len(vals)) < c.Number
	default:
		return false
	}
}

// comparePhase orders phases by their position in the arc.
func comparePhase(p types.Phase, c types.Condition) bool {
	have, want := PhaseIndex(p), PhaseIndex(types.Phase(c.Text))
	if want < 0 {
		return false
	}
	switch c.Op {
	case types.OpEquals:
		return have == want
	case types.OpGreater:
		return have > want
	case types.OpLess:
		return have < want
	default:
		return false
	}
}

// PhaseIndex returns the position of p in the arc, or -1.
func PhaseIndex(p types.Phase) int {
	for i, ph := range types.Phases {
		if ph == p {
			return i
		}
	}
	return -1
}
