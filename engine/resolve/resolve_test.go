package resolve

import (
	"testing"

	"github.com/nathoo/storyseed/engine/parser"
	"github.com/nathoo/storyseed/engine/state"
	"github.com/nathoo/storyseed/types"
)

func testSession() *types.Session {
	return state.NewSession("id", "seed", types.World{}, []types.Character{
		{ID: "mara", Name: "Mara"},
		{ID: "june", Name: "June Abernathy"},
	}, types.StoryArc{Phase: types.PhaseClimax})
}

func testChoices() []types.Choice {
	return []types.Choice{
		{ID: "t5-comfort-mara", Key: "comfort", Focus: "mara", Text: "Rest a hand on Mara's shoulder."},
		{ID: "t5-comfort-june", Key: "comfort", Focus: "june", Text: "Step closer to June Abernathy without a word."},
		{ID: "t5-seize-june", Key: "seize", Focus: "june", Text: "Seize the quiet moment while June Abernathy is distracted."},
		{ID: "t5-observe", Key: "observe", Text: "Wait, watch, and say nothing yet."},
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1", "t5-comfort-mara"},
		{"4", "t5-observe"},
		{"t5-seize-june", "t5-seize-june"},
		{"T5-OBSERVE", "t5-observe"},
		{"seize", "t5-seize-june"},
		{"grab", "t5-seize-june"},
		{"wait", "t5-observe"},
		{"comfort mara", "t5-comfort-mara"},
		{"hug june", "t5-comfort-june"},
		{"comfort abernathy", "t5-comfort-june"},
		{"step closer", "t5-comfort-june"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Resolve(testSession(), testChoices(), parser.Parse(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.ID)
			}
		})
	}
}

func TestResolve_Ambiguous(t *testing.T) {
	_, err := Resolve(testSession(), testChoices(), parser.Parse("comfort"))
	if err == nil {
		t.Fatal("expected ambiguity error")
	}
	amb, ok := err.(*AmbiguityError)
	if !ok {
		t.Fatalf("expected AmbiguityError, got %T: %v", err, err)
	}
	if len(amb.Candidates) != 2 || amb.Candidates[0] != "comfort mara" {
		t.Errorf("unexpected candidates %v", amb.Candidates)
	}
}

func TestResolve_NotFound(t *testing.T) {
	for _, input := range []string{"0", "5", "-1", "dance", "comfort bastien", "/save"} {
		_, err := Resolve(testSession(), testChoices(), parser.Parse(input))
		if _, ok := err.(*NotFoundError); !ok {
			t.Errorf("%q: expected NotFoundError, got %T: %v", input, err, err)
		}
	}
}
