package character

import (
	"fmt"
	"testing"

	"github.com/nathoo/storyseed/engine/state"
	"github.com/nathoo/storyseed/types"
)

func testCharacter() types.Character {
	return types.Character{
		ID:   "mara",
		Name: "Mara",
		Traits: map[string]float64{
			"courage": 40, "empathy": 60, "trustworthiness": 70,
		},
		Mood:          types.Mood{Label: types.MoodNeutral, Intensity: 0.5, Influences: []string{}},
		Memories:      []types.Memory{},
		Relationships: map[string]types.Relationship{types.PlayerID: {Strength: 30, Trust: 35}},
	}
}

func TestMoodLabel_Buckets(t *testing.T) {
	tests := []struct {
		delta  float64
		want   string
		wantOK bool
	}{
		{0.3, types.MoodPleased, true},
		{0.21, types.MoodPleased, true},
		{0.2, types.MoodIntrigued, true},
		{0.15, types.MoodIntrigued, true},
		{-0.15, types.MoodIntrigued, true},
		{-0.2, types.MoodIntrigued, true},
		{-0.25, types.MoodIrritated, true},
		{0.1, "", false},
		{-0.05, "", false},
		{0, "", false},
	}
	for _, tt := range tests {
		got, ok := MoodLabel(tt.delta)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("MoodLabel(%v) = %q, %v; want %q, %v", tt.delta, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestApplyMood(t *testing.T) {
	ch := testCharacter()
	changed := ApplyMood(&ch, 0.3, "comply")
	if !changed || ch.Mood.Label != types.MoodPleased {
		t.Fatalf("expected pleased, got %q (changed=%v)", ch.Mood.Label, changed)
	}
	if ch.Mood.Intensity < 0.69 || ch.Mood.Intensity > 0.71 {
		t.Errorf("expected intensity ~0.7, got %v", ch.Mood.Intensity)
	}
	if len(ch.Mood.Influences) != 1 || ch.Mood.Influences[0] != "comply" {
		t.Errorf("unexpected influences %v", ch.Mood.Influences)
	}

	// Small delta keeps the label.
	if ApplyMood(&ch, 0.05, "observe") {
		t.Error("small delta should not change the label")
	}
	if ch.Mood.Label != types.MoodPleased {
		t.Errorf("expected label unchanged, got %q", ch.Mood.Label)
	}
}

func TestApplyMood_IntensityBounded(t *testing.T) {
	ch := testCharacter()
	for i := 0; i < 20; i++ {
		ApplyMood(&ch, 0.9, fmt.Sprintf("i%d", i))
		if ch.Mood.Intensity < 0 || ch.Mood.Intensity > 1 {
			t.Fatalf("intensity out of range: %v", ch.Mood.Intensity)
		}
	}
	if len(ch.Mood.Influences) != state.MaxInfluences {
		t.Errorf("expected %d influences, got %d", state.MaxInfluences, len(ch.Mood.Influences))
	}
	if ch.Mood.Influences[0] != "i19" {
		t.Errorf("newest influence should be first, got %v", ch.Mood.Influences)
	}
}

func TestNewMemory(t *testing.T) {
	m := NewMemory("id", "you resisted", -0.3, false, 2, nil)
	if m.EmotionalWeight != -0.6 {
		t.Errorf("expected weight -0.6, got %v", m.EmotionalWeight)
	}
	if m.Importance != 0.6 {
		t.Errorf("expected importance 0.6, got %v", m.Importance)
	}
	if m.Related == nil {
		t.Error("related should never be nil")
	}

	g := NewMemory("id", "a hand on the shoulder", 0.9, true, 2, []string{"player"})
	if g.EmotionalWeight != 1 || g.Importance != 1 {
		t.Errorf("expected clamped weight and importance, got %+v", g)
	}
}

func TestRemember_EvictsLeastImportant(t *testing.T) {
	ch := testCharacter()
	for i := 0; i < state.MaxMemories; i++ {
		imp := 0.5
		if i == 3 {
			imp = 0.1
		}
		ch.Memories = append(ch.Memories, types.Memory{ID: fmt.Sprintf("m%d", i), Importance: imp, Turn: i})
	}

	evicted := Remember(&ch, types.Memory{ID: "new", Importance: 0.4})
	if evicted != "m3" {
		t.Fatalf("expected m3 evicted, got %q", evicted)
	}
	if len(ch.Memories) != state.MaxMemories {
		t.Fatalf("expected %d memories, got %d", state.MaxMemories, len(ch.Memories))
	}
	if ch.Memories[len(ch.Memories)-1].ID != "new" {
		t.Error("new memory should be appended last")
	}
}

func TestRemember_TieEvictsOldest(t *testing.T) {
	ch := testCharacter()
	for i := 0; i < state.MaxMemories; i++ {
		ch.Memories = append(ch.Memories, types.Memory{ID: fmt.Sprintf("m%d", i), Importance: 0.5})
	}
	if evicted := Remember(&ch, types.Memory{ID: "new", Importance: 0.5}); evicted != "m0" {
		t.Fatalf("expected oldest m0 evicted on tie, got %q", evicted)
	}
}

func TestRemember_UnderCapacity(t *testing.T) {
	ch := testCharacter()
	if evicted := Remember(&ch, types.Memory{ID: "a"}); evicted != "" {
		t.Fatalf("nothing should be evicted, got %q", evicted)
	}
}

func TestShift_Bounded(t *testing.T) {
	ch := testCharacter()
	for i := 0; i < 10; i++ {
		Shift(&ch, types.PlayerID, 1)
	}
	rel := ch.Relationships[types.PlayerID]
	if rel.Strength != 100 || rel.Trust != 100 || rel.Affection != 100 {
		t.Errorf("expected saturated relationship, got %+v", rel)
	}
	for i := 0; i < 20; i++ {
		Shift(&ch, types.PlayerID, -1)
	}
	rel = ch.Relationships[types.PlayerID]
	if rel.Strength != 0 || rel.Trust != 0 || rel.Affection != -100 {
		t.Errorf("expected floored relationship, got %+v", rel)
	}
}

func TestCompatibility(t *testing.T) {
	a := testCharacter()
	b := testCharacter()
	if got := Compatibility(a, b); got != 1 {
		t.Errorf("identical traits should be fully compatible, got %v", got)
	}
	b.Traits = map[string]float64{"courage": 100, "empathy": 0, "trustworthiness": 10}
	got := Compatibility(a, b)
	// mean diff = (60+60+60)/3 = 60 → 0.4
	if got < 0.399 || got > 0.401 {
		t.Errorf("expected ~0.4, got %v", got)
	}
}

func TestDevelopment(t *testing.T) {
	ch := testCharacter()
	if Development(ch) != 0 {
		t.Error("no memories should mean no development")
	}
	for i := 0; i < 4; i++ {
		ch.Memories = append(ch.Memories, types.Memory{})
	}
	if Development(ch) != 40 {
		t.Errorf("expected 40, got %v", Development(ch))
	}
	if MeanDevelopment(nil) != 0 {
		t.Error("empty cast should have zero development")
	}
}

func TestMostCompatible(t *testing.T) {
	a, b, c := testCharacter(), testCharacter(), testCharacter()
	a.ID, b.ID, c.ID = "a", "b", "c"
	c.Traits = map[string]float64{"courage": 100, "empathy": 0, "trustworthiness": 0}
	x, y, ok := MostCompatible([]types.Character{a, b, c})
	if !ok || x != "a" || y != "b" {
		t.Fatalf("MostCompatible = %q, %q, %v", x, y, ok)
	}
	if _, _, ok := MostCompatible([]types.Character{a}); ok {
		t.Error("single character has no pair")
	}
}
