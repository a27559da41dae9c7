// Package character implements how cast members change: mood buckets,
// bounded memory with importance-based eviction, and relationship drift.
package character

import (
	"math"
	"sort"

	"github.com/nathoo/storyseed/engine/state"
	"github.com/nathoo/storyseed/types"
)

// Mood bucket thresholds on the reaction delta.
const (
	PleasedThreshold   = 0.2
	IrritatedThreshold = -0.2
	IntriguedThreshold = 0.1
)

// MoodLabel maps a reaction delta to the resulting mood label. ok is false
// when the delta is too small to change the mood.
func MoodLabel(delta float64) (label string, ok bool) {
	switch {
	case delta > PleasedThreshold:
		return types.MoodPleased, true
	case delta < IrritatedThreshold:
		return types.MoodIrritated, true
	case math.Abs(delta) > IntriguedThreshold:
		return types.MoodIntrigued, true
	default:
		return "", false
	}
}

// ApplyMood updates a character's mood for a reaction delta. intent is
// recorded as the newest influence. Returns whether the label changed.
func ApplyMood(ch *types.Character, delta float64, intent string) bool {
	prev := ch.Mood.Label
	if label, ok := MoodLabel(delta); ok {
		ch.Mood.Label = label
	}
	ch.Mood.Intensity = state.Clamp(0.8*ch.Mood.Intensity+math.Abs(delta), 0, 1)
	if intent != "" {
		influences := append([]string{intent}, ch.Mood.Influences...)
		if len(influences) > state.MaxInfluences {
			influences = influences[:state.MaxInfluences]
		}
		ch.Mood.Influences = influences
	}
	return ch.Mood.Label != prev
}

// NewMemory builds a memory for a reaction. Gestures are remembered more
// strongly than words.
func NewMemory(id, content string, delta float64, gesture bool, turn int, related []string) types.Memory {
	weight := state.Clamp(2*delta, -1, 1)
	importance := math.Abs(weight)
	if gesture {
		importance = math.Min(1, importance+0.25)
	}
	if related == nil {
		related = []string{}
	}
	return types.Memory{
		ID:              id,
		Content:         content,
		EmotionalWeight: weight,
		Importance:      importance,
		Turn:            turn,
		Related:         related,
	}
}

// Remember appends a memory, evicting the least important one (oldest on
// ties) when over capacity. Returns the evicted memory id, if any.
func Remember(ch *types.Character, m types.Memory) string {
	ch.Memories = append(ch.Memories, m)
	if len(ch.Memories) <= state.MaxMemories {
		return ""
	}
	victim := 0
	for i, mem := range ch.Memories {
		if mem.Importance < ch.Memories[victim].Importance {
			victim = i
		}
	}
	evicted := ch.Memories[victim].ID
	ch.Memories = append(ch.Memories[:victim], ch.Memories[victim+1:]...)
	return evicted
}

// Shift nudges a relationship by impact (in [-1,1] units, scaled to the
// 0..100 range) and returns the new value.
func Shift(ch *types.Character, other string, impact float64) types.Relationship {
	if ch.Relationships == nil {
		ch.Relationships = map[string]types.Relationship{}
	}
	rel := ch.Relationships[other]
	rel.Strength = state.Clamp(rel.Strength+impact*20, 0, 100)
	rel.Trust = state.Clamp(rel.Trust+impact*10, 0, 100)
	rel.Affection = state.Clamp(rel.Affection+impact*25, -100, 100)
	ch.Relationships[other] = rel
	return rel
}

// Compatibility scores two characters in [0,1] from their trait differences.
func Compatibility(a, b types.Character) float64 {
	var sum float64
	var n int
	for _, name := range sortedKeys(a.Traits) {
		bv, ok := b.Traits[name]
		if !ok {
			continue
		}
		sum += math.Abs(a.Traits[name] - bv)
		n++
	}
	if n == 0 {
		return 0.5
	}
	return state.Clamp(1-sum/float64(n)/state.MaxTraitValue, 0, 1)
}

// Development scores how much a character has been shaped by the story, in [0,100].
func Development(ch types.Character) float64 {
	n := len(ch.Memories)
	if n > state.MaxMemories {
		n = state.MaxMemories
	}
	return float64(n) * 100 / state.MaxMemories
}

// MeanDevelopment averages Development over the cast.
func MeanDevelopment(chars []types.Character) float64 {
	if len(chars) == 0 {
		return 0
	}
	var sum float64
	for _, ch := range chars {
		sum += Development(ch)
	}
	return sum / float64(len(chars))
}

// MostCompatible returns the ids of the best-matched pair in the cast.
func MostCompatible(chars []types.Character) (string, string, bool) {
	best := -1.0
	var a, b string
	for i := range chars {
		for j := i + 1; j < len(chars); j++ {
			if c := Compatibility(chars[i], chars[j]); c > best {
				best, a, b = c, chars[i].ID, chars[j].ID
			}
		}
	}
	return a, b, best >= 0
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
