// Package effects implements centralized state mutation via the Apply function.
// Every effect kind is one atomic operation. No decisions are made here.
package effects

import (
	"sort"

	"github.com/nathoo/storyseed/engine/character"
	"github.com/nathoo/storyseed/engine/state"
	"github.com/nathoo/storyseed/types"
)

// Apply applies a list of effects to the session, mutating it.
// Returns the events emitted, in effect order.
func Apply(s *types.Session, effs []types.Effect) []types.Event {
	var events []types.Event

	for _, eff := range effs {
		switch eff.Kind {
		case types.EffectMood:
			ch := state.Character(s, eff.Character)
			if ch == nil {
				continue
			}
			prev := ch.Mood.Label
			changed := character.ApplyMood(ch, eff.Delta, eff.Intent)
			if changed {
				events = append(events, types.Event{
					Type: types.EventMoodChanged,
					Data: map[string]any{"character": ch.ID, "from": prev, "to": ch.Mood.Label},
				})
			}

		case types.EffectMemory:
			ch := state.Character(s, eff.Character)
			if ch == nil || eff.Memory == nil {
				continue
			}
			m := *eff.Memory
			m.Related = append([]string{}, m.Related...)
			evicted := character.Remember(ch, m)
			data := map[string]any{"character": ch.ID, "memory": m.ID}
			if evicted != "" {
				data["evicted"] = evicted
			}
			events = append(events, types.Event{Type: types.EventMemoryAdded, Data: data})

		case types.EffectRelationship:
			ch := state.Character(s, eff.Character)
			if ch == nil {
				continue
			}
			rel := character.Shift(ch, eff.Other, eff.Delta)
			events = append(events, types.Event{
				Type: types.EventRelationshipChanged,
				Data: map[string]any{"character": ch.ID, "other": eff.Other, "strength": rel.Strength},
			})

		case types.EffectWorld:
			if eff.World == (types.WorldDelta{}) {
				continue
			}
			state.ApplyWorldDelta(&s.World, eff.World)
			events = append(events, worldChanged(s))

		case types.EffectConsequence:
			if eff.Consequence == nil {
				continue
			}
			cq := *eff.Consequence
			cq.Affected = append([]string{}, cq.Affected...)
			if cq.RevealCondition != nil {
				rc := *cq.RevealCondition
				cq.RevealCondition = &rc
			}
			s.Consequences = append(s.Consequences, cq)
			events = append(events, types.Event{
				Type: types.EventConsequenceCreated,
				Data: map[string]any{"consequence": cq.ID, "rule": string(cq.Rule)},
			})
			// Consequences without a reveal condition surface immediately.
			if cq.RevealCondition == nil {
				events = append(events, reveal(s, cq.ID)...)
			}

		case types.EffectReveal:
			events = append(events, reveal(s, eff.Ref)...)

		case types.EffectTheme:
			if eff.Theme == "" || containsSorted(s.Arc.Themes, eff.Theme) {
				continue
			}
			s.Arc.Themes = append(s.Arc.Themes, eff.Theme)
			sort.Strings(s.Arc.Themes)
			events = append(events, types.Event{
				Type: types.EventThemeAdded,
				Data: map[string]any{"theme": eff.Theme},
			})
		}
	}

	return events
}

// Reveal builds the effect that surfaces a consequence by id.
func Reveal(id string) types.Effect {
	return types.Effect{Kind: types.EffectReveal, Ref: id}
}

// reveal flips a consequence to revealed and applies its world delta.
// Revealing twice is a no-op.
func reveal(s *types.Session, id string) []types.Event {
	cq := state.Consequence(s, id)
	if cq == nil || cq.Revealed {
		return nil
	}
	cq.Revealed = true
	events := []types.Event{{
		Type: types.EventConsequenceRevealed,
		Data: map[string]any{"consequence": cq.ID, "rule": string(cq.Rule), "description": cq.Description},
	}}
	if cq.Delta != (types.WorldDelta{}) {
		state.ApplyWorldDelta(&s.World, cq.Delta)
		events = append(events, worldChanged(s))
	}
	return events
}

func worldChanged(s *types.Session) types.Event {
	return types.Event{
		Type: types.EventWorldChanged,
		Data: map[string]any{
			"tension":    s.World.Tension,
			"mystery":    s.World.Mystery,
			"continuity": s.World.Continuity,
			"foreshadow": s.World.Foreshadow,
		},
	}
}

func containsSorted(list []string, v string) bool {
	i := sort.SearchStrings(list, v)
	return i < len(list) && list[i] == v
}
