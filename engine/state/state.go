// Package state manages the narrative session: construction, deep copies
// for copy-on-write resolution, lookups, and range clamping.
package state

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nathoo/storyseed/types"
)

// Ranges of the bounded session fields.
const (
	MaxContinuity = 6
	MaxTraitValue = 100.0
	MaxMemories   = 10
	MaxInfluences = 3
)

// idSpace namespaces every derived id.
var idSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("storyseed:session"))

// NewSession creates a session around generated world content. Collections
// are never nil so that saved sessions round-trip exactly.
func NewSession(id, seed string, world types.World, chars []types.Character, arc types.StoryArc) *types.Session {
	if chars == nil {
		chars = []types.Character{}
	}
	if arc.Themes == nil {
		arc.Themes = []string{}
	}
	return &types.Session{
		ID:           id,
		Seed:         seed,
		World:        world,
		Characters:   chars,
		Arc:          arc,
		Consequences: []types.Consequence{},
		History:      []types.HistoryEntry{},
	}
}

// Clone returns a deep copy. Resolution mutates only the clone, so the
// caller's session stays valid for undo, replay, and concurrent reads.
func Clone(s *types.Session) *types.Session {
	c := *s
	c.Characters = make([]types.Character, len(s.Characters))
	for i, ch := range s.Characters {
		c.Characters[i] = CloneCharacter(ch)
	}
	c.Arc.Themes = append([]string{}, s.Arc.Themes...)
	c.Consequences = make([]types.Consequence, len(s.Consequences))
	for i, cq := range s.Consequences {
		c.Consequences[i] = cloneConsequence(cq)
	}
	c.History = append([]types.HistoryEntry{}, s.History...)
	return &c
}

// CloneCharacter deep-copies a character.
func CloneCharacter(ch types.Character) types.Character {
	out := ch
	out.Traits = make(map[string]float64, len(ch.Traits))
	for k, v := range ch.Traits {
		out.Traits[k] = v
	}
	out.Mood.Influences = append([]string{}, ch.Mood.Influences...)
	out.Memories = make([]types.Memory, len(ch.Memories))
	for i, m := range ch.Memories {
		m.Related = append([]string{}, m.Related...)
		out.Memories[i] = m
	}
	out.Relationships = make(map[string]types.Relationship, len(ch.Relationships))
	for k, v := range ch.Relationships {
		out.Relationships[k] = v
	}
	return out
}

func cloneConsequence(cq types.Consequence) types.Consequence {
	out := cq
	out.Affected = append([]string{}, cq.Affected...)
	if cq.RevealCondition != nil {
		cond := *cq.RevealCondition
		out.RevealCondition = &cond
	}
	return out
}

// Character returns a pointer into the session's cast, or nil.
func Character(s *types.Session, id string) *types.Character {
	for i := range s.Characters {
		if s.Characters[i].ID == id {
			return &s.Characters[i]
		}
	}
	return nil
}

// CharacterName returns the display name for a character id.
func CharacterName(s *types.Session, id string) string {
	if id == types.PlayerID {
		return "you"
	}
	if ch := Character(s, id); ch != nil {
		return ch.Name
	}
	return id
}

// Consequence returns a pointer to the consequence with the given id, or nil.
func Consequence(s *types.Session, id string) *types.Consequence {
	for i := range s.Consequences {
		if s.Consequences[i].ID == id {
			return &s.Consequences[i]
		}
	}
	return nil
}

// Unrevealed returns the consequences whose reveal is still pending.
func Unrevealed(s *types.Session) []types.Consequence {
	var out []types.Consequence
	for _, cq := range s.Consequences {
		if !cq.Revealed {
			out = append(out, cq)
		}
	}
	return out
}

// Turn is the logical clock: the number of the turn being resolved.
func Turn(s *types.Session) int {
	return s.ChoiceCount + 1
}

// DeriveID builds a deterministic id for session-owned records.
func DeriveID(s *types.Session, kind string, n int) string {
	name := fmt.Sprintf("%s|%s|%d|%d", s.Seed, kind, s.ChoiceCount, n)
	return uuid.NewSHA1(idSpace, []byte(name)).String()
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ApplyWorldDelta applies a delta to the world, clamping every field.
func ApplyWorldDelta(w *types.World, d types.WorldDelta) {
	w.Tension = Clamp(w.Tension+d.Tension, 0, 1)
	w.Mystery = Clamp(w.Mystery+d.Mystery, 0, 1)
	w.Continuity = ClampInt(w.Continuity+d.Continuity, 0, MaxContinuity)
	w.Foreshadow += d.Foreshadow
	if w.Foreshadow < 0 {
		w.Foreshadow = 0
	}
}
