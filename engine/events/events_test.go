package events

import (
	"testing"

	"github.com/nathoo/storyseed/engine/state"
	"github.com/nathoo/storyseed/types"
)

func testSession() *types.Session {
	s := state.NewSession("id", "seed", types.World{Tension: 0.4}, []types.Character{{
		ID:            "mara",
		Relationships: map[string]types.Relationship{types.PlayerID: {Strength: 80}},
	}}, types.StoryArc{Phase: types.PhaseClimax})
	s.ChoiceCount = 3
	s.History = []types.HistoryEntry{{Turn: 1}, {Turn: 2}, {Turn: 3}}
	return s
}

var someEvent = []types.Event{{Type: types.EventMoodChanged}}

func TestDispatch_RevealsSatisfied(t *testing.T) {
	s := testSession()
	s.Consequences = []types.Consequence{
		{ID: "defiance", Turn: 1, RevealCondition: &types.Condition{
			Subject: types.SubjectHistory, Field: "choices", Op: types.OpGreater, Number: 2,
		}},
		{ID: "gesture", Turn: 2, RevealCondition: &types.Condition{
			Subject: types.SubjectRelationship, Target: "mara", Field: types.PlayerID, Op: types.OpGreater, Number: 90,
		}},
	}

	effs := Dispatch(someEvent, s)
	if len(effs) != 1 {
		t.Fatalf("expected 1 reveal, got %d", len(effs))
	}
	if effs[0].Kind != types.EffectReveal || effs[0].Ref != "defiance" {
		t.Errorf("unexpected effect %+v", effs[0])
	}
}

func TestDispatch_SkipsCurrentTurn(t *testing.T) {
	s := testSession()
	s.Consequences = []types.Consequence{
		{ID: "fresh", Turn: state.Turn(s), RevealCondition: &types.Condition{
			Subject: types.SubjectHistory, Field: "choices", Op: types.OpGreater, Number: 0,
		}},
	}
	if effs := Dispatch(someEvent, s); len(effs) != 0 {
		t.Errorf("expected consequence from this turn to stay hidden, got %v", effs)
	}
}

func TestDispatch_SkipsRevealed(t *testing.T) {
	s := testSession()
	s.Consequences = []types.Consequence{
		{ID: "old", Turn: 1, Revealed: true, RevealCondition: &types.Condition{
			Subject: types.SubjectArc, Field: "phase", Op: types.OpGreater, Text: "setup",
		}},
	}
	if effs := Dispatch(someEvent, s); len(effs) != 0 {
		t.Errorf("expected no effects for revealed consequence, got %v", effs)
	}
}

func TestDispatch_NoEvents(t *testing.T) {
	s := testSession()
	s.Consequences = []types.Consequence{
		{ID: "c", Turn: 1, RevealCondition: &types.Condition{
			Subject: types.SubjectArc, Field: "phase", Op: types.OpGreater, Text: "setup",
		}},
	}
	if effs := Dispatch(nil, s); len(effs) != 0 {
		t.Errorf("expected no effects without events, got %v", effs)
	}
}
