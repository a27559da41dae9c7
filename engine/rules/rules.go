package rules

import (
	"sort"

	"github.com/nathoo/storyseed/engine/state"
	"github.com/nathoo/storyseed/types"
)

// trigger is a consequence rule with its selection priority.
type trigger struct {
	Rule        types.ConsequenceRule
	Priority    int
	SourceOrder int
}

// triggers lists every consequence rule. Higher priority wins; ties go to
// the earlier entry.
var triggers = []trigger{
	{Rule: types.RuleFirstCompliance, Priority: 10, SourceOrder: 0},
	{Rule: types.RuleFirstDefiance, Priority: 10, SourceOrder: 1},
	{Rule: types.RuleGesture, Priority: 20, SourceOrder: 2},
	{Rule: types.RuleConfrontation, Priority: 30, SourceOrder: 3},
}

// Evaluate returns the rule that fires for a choice about to be resolved
// against s. At most one rule fires per choice.
func Evaluate(s *types.Session, choice types.Choice) (types.ConsequenceRule, bool) {
	ranked := append([]trigger{}, triggers...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Priority != ranked[j].Priority {
			return ranked[i].Priority > ranked[j].Priority
		}
		return ranked[i].SourceOrder < ranked[j].SourceOrder
	})
	for _, t := range ranked {
		if matches(t.Rule, s, choice) {
			return t.Rule, true
		}
	}
	return "", false
}

func matches(rule types.ConsequenceRule, s *types.Session, choice types.Choice) bool {
	switch rule {
	case types.RuleFirstCompliance:
		return s.ChoiceCount == 0 && choice.Tone == types.ToneCompliant
	case types.RuleFirstDefiance:
		return s.ChoiceCount == 0 && choice.Tone == types.ToneDefiant
	case types.RuleGesture:
		return choice.Type == types.ChoiceGesture
	case types.RuleConfrontation:
		return choice.Tone == types.ToneConfrontational && len(state.Unrevealed(s)) > 0
	default:
		return false
	}
}

// Build assembles the consequence a rule produces. The description is
// composed by the caller.
func Build(s *types.Session, choice types.Choice, rule types.ConsequenceRule, id, description string) types.Consequence {
	cq := types.Consequence{
		ID:          id,
		ChoiceID:    choice.ID,
		Rule:        rule,
		Description: description,
		Turn:        state.Turn(s),
	}

	switch rule {
	case types.RuleFirstCompliance:
		cq.Horizon = types.HorizonLong
		cq.Severity = types.SeverityModerate
		cq.Affected = castIDs(s)
		cq.Delta = types.WorldDelta{Mystery: 0.1, Foreshadow: 1}
		cq.RevealCondition = &types.Condition{
			Subject: types.SubjectArc, Field: "phase", Op: types.OpGreater, Text: string(types.PhaseRising),
		}

	case types.RuleFirstDefiance:
		cq.Horizon = types.HorizonShort
		cq.Severity = types.SeverityMajor
		cq.Affected = castIDs(s)
		cq.Delta = types.WorldDelta{Tension: 0.15}
		cq.RevealCondition = &types.Condition{
			Subject: types.SubjectHistory, Field: "choices", Op: types.OpGreater, Number: 2,
		}

	case types.RuleGesture:
		cq.Horizon = types.HorizonLong
		cq.Severity = types.SeverityMinor
		cq.Affected = focusOrCast(s, choice)
		cq.Delta = types.WorldDelta{Tension: -0.05, Mystery: 0.05}
		cq.RevealCondition = &types.Condition{
			Subject: types.SubjectRelationship, Target: choice.Focus, Field: types.PlayerID,
			Op: types.OpGreater, Number: 70,
		}

	case types.RuleConfrontation:
		cq.Horizon = types.HorizonShort
		cq.Severity = types.SeverityMajor
		cq.Affected = focusOrCast(s, choice)
		cq.Delta = types.WorldDelta{Tension: 0.1, Mystery: -0.1}
	}

	if cq.Affected == nil {
		cq.Affected = []string{}
	}
	return cq
}

func castIDs(s *types.Session) []string {
	ids := make([]string, 0, len(s.Characters))
	for _, ch := range s.Characters {
		ids = append(ids, ch.ID)
	}
	return ids
}

func focusOrCast(s *types.Session, choice types.Choice) []string {
	if choice.Focus != "" {
		return []string{choice.Focus}
	}
	return castIDs(s)
}
