// Package save implements JSON serialization and deserialization of sessions.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/nathoo/storyseed/engine/rules"
	"github.com/nathoo/storyseed/engine/state"
	"github.com/nathoo/storyseed/types"
)

// FormatVersion identifies the save layout.
const FormatVersion = "1"

// SaveData is the JSON-serializable save format. The generator accumulator
// and draw count are stored so a restored session continues bit-for-bit.
type SaveData struct {
	Version        string               `json:"version"`
	ID             string               `json:"id"`
	Seed           string               `json:"seed"`
	RNGState       uint32               `json:"rng_state"`
	RNGDraws       int64                `json:"rng_draws"`
	World          types.World          `json:"world"`
	Characters     []types.Character    `json:"characters"`
	Arc            types.StoryArc       `json:"arc"`
	Consequences   []types.Consequence  `json:"consequences"`
	History        []types.HistoryEntry `json:"history"`
	ChoiceCount    int                  `json:"choice_count"`
	CompletionRate float64              `json:"completion_rate"`
	Ended          bool                 `json:"ended"`
}

// SerializationError reports a payload that cannot be saved or restored.
// Callers recover by starting a fresh session.
type SerializationError struct {
	Reason string
	Err    error
}

func (e *SerializationError) Error() string {
	if e.Err == nil {
		return "save: " + e.Reason
	}
	return fmt.Sprintf("save: %s: %v", e.Reason, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Save serializes a session to JSON bytes.
func Save(s *types.Session) ([]byte, error) {
	data := SaveData{
		Version:        FormatVersion,
		ID:             s.ID,
		Seed:           s.Seed,
		RNGState:       s.RNG.State,
		RNGDraws:       s.RNG.Draws,
		World:          s.World,
		Characters:     s.Characters,
		Arc:            s.Arc,
		Consequences:   s.Consequences,
		History:        s.History,
		ChoiceCount:    s.ChoiceCount,
		CompletionRate: s.CompletionRate,
		Ended:          s.Ended,
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, &SerializationError{Reason: "encoding session", Err: err}
	}
	return out, nil
}

// Load deserializes JSON bytes into a session, repairing nil collections and
// rejecting payloads that are corrupt or out of range.
func Load(data []byte) (*types.Session, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, &SerializationError{Reason: "decoding session", Err: err}
	}
	if sd.Version != FormatVersion {
		return nil, &SerializationError{Reason: fmt.Sprintf("unsupported format version %q", sd.Version)}
	}

	s := &types.Session{
		ID:             sd.ID,
		Seed:           sd.Seed,
		RNG:            types.RNGState{State: sd.RNGState, Draws: sd.RNGDraws},
		World:          sd.World,
		Characters:     sd.Characters,
		Arc:            sd.Arc,
		Consequences:   sd.Consequences,
		History:        sd.History,
		ChoiceCount:    sd.ChoiceCount,
		CompletionRate: sd.CompletionRate,
		Ended:          sd.Ended,
	}
	repair(s)
	if err := validate(s); err != nil {
		return nil, &SerializationError{Reason: "invalid session", Err: err}
	}
	return s, nil
}

// repair ensures collections are never nil after load.
func repair(s *types.Session) {
	if s.Characters == nil {
		s.Characters = []types.Character{}
	}
	if s.Consequences == nil {
		s.Consequences = []types.Consequence{}
	}
	if s.History == nil {
		s.History = []types.HistoryEntry{}
	}
	if s.Arc.Themes == nil {
		s.Arc.Themes = []string{}
	}
	for i := range s.Characters {
		ch := &s.Characters[i]
		if ch.Traits == nil {
			ch.Traits = map[string]float64{}
		}
		if ch.Relationships == nil {
			ch.Relationships = map[string]types.Relationship{}
		}
		if ch.Memories == nil {
			ch.Memories = []types.Memory{}
		}
		if ch.Mood.Influences == nil {
			ch.Mood.Influences = []string{}
		}
		for j := range ch.Memories {
			if ch.Memories[j].Related == nil {
				ch.Memories[j].Related = []string{}
			}
		}
	}
	for i := range s.Consequences {
		if s.Consequences[i].Affected == nil {
			s.Consequences[i].Affected = []string{}
		}
	}
}

func validate(s *types.Session) error {
	el := errors.NewErrorList()

	if s.Seed == "" {
		el.Add(fmt.Errorf("seed is empty"))
	}
	if s.RNG.Draws < 0 {
		el.Add(fmt.Errorf("rng draws %d is negative", s.RNG.Draws))
	}
	if s.ChoiceCount != len(s.History) {
		el.Add(fmt.Errorf("choice count %d does not match %d history entries", s.ChoiceCount, len(s.History)))
	}

	w := s.World
	if w.Continuity < 0 || w.Continuity > state.MaxContinuity {
		el.Add(fmt.Errorf("world continuity %d out of range", w.Continuity))
	}
	if w.Foreshadow < 0 {
		el.Add(fmt.Errorf("world foreshadow %d is negative", w.Foreshadow))
	}
	if !inRange(w.Tension, 0, 1) || !inRange(w.Mystery, 0, 1) {
		el.Add(fmt.Errorf("world tension/mystery out of range"))
	}

	if rules.PhaseIndex(s.Arc.Phase) < 0 {
		el.Add(fmt.Errorf("unknown arc phase %q", s.Arc.Phase))
	}
	if !inRange(s.Arc.Completion, 0, 100) || !inRange(s.Arc.Tension, 0, 100) || !inRange(s.CompletionRate, 0, 100) {
		el.Add(fmt.Errorf("arc completion/tension out of range"))
	}

	seen := map[string]bool{}
	for _, ch := range s.Characters {
		switch {
		case ch.ID == "" || ch.ID == types.PlayerID:
			el.Add(fmt.Errorf("invalid character id %q", ch.ID))
		case seen[ch.ID]:
			el.Add(fmt.Errorf("duplicate character %q", ch.ID))
		}
		seen[ch.ID] = true
		if !inRange(ch.Mood.Intensity, 0, 1) {
			el.Add(fmt.Errorf("character %q mood intensity out of range", ch.ID))
		}
		if len(ch.Memories) > state.MaxMemories {
			el.Add(fmt.Errorf("character %q has %d memories", ch.ID, len(ch.Memories)))
		}
		for name, v := range ch.Traits {
			if !inRange(v, 0, state.MaxTraitValue) {
				el.Add(fmt.Errorf("character %q trait %q out of range", ch.ID, name))
			}
		}
	}

	ids := map[string]bool{}
	for _, cq := range s.Consequences {
		if cq.ID == "" || ids[cq.ID] {
			el.Add(fmt.Errorf("missing or duplicate consequence id %q", cq.ID))
		}
		ids[cq.ID] = true
	}

	return el.Err()
}

func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
