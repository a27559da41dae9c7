package rules

import "github.com/nathoo/storyseed/types"

// toneDeltas shift the world by the emotional register of a choice.
var toneDeltas = map[types.Tone]types.WorldDelta{
	types.ToneCompliant:       {Tension: -0.05},
	types.ToneDefiant:         {Tension: 0.1},
	types.ToneCautious:        {Tension: -0.02, Mystery: 0.02},
	types.ToneEmpathetic:      {Tension: -0.08},
	types.ToneCurious:         {Mystery: -0.08, Foreshadow: 1},
	types.ToneConfrontational: {Tension: 0.15, Mystery: -0.05},
}

// WorldDelta returns the bounded world change for resolving a choice,
// keyed by its type and tone. The caller clamps when applying.
func WorldDelta(choice types.Choice) types.WorldDelta {
	d := toneDeltas[choice.Tone]

	switch choice.Type {
	case types.ChoiceBinary, types.ChoiceMultiple:
		d.Continuity++
	case types.ChoiceGesture:
		d.Tension -= 0.03
	case types.ChoiceTimed:
		d.Tension += 0.05
	case types.ChoiceConditional:
		d.Mystery -= 0.05
		d.Foreshadow++
	}
	return d
}

// Theme is the arc theme a consequence adds once it resurfaces.
func Theme(rule types.ConsequenceRule) string {
	switch rule {
	case types.RuleFirstCompliance:
		return "obligation"
	case types.RuleFirstDefiance:
		return "defiance"
	case types.RuleGesture:
		return "tenderness"
	case types.RuleConfrontation:
		return "reckoning"
	default:
		return ""
	}
}
