package save

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/nathoo/storyseed/engine"
	"github.com/nathoo/storyseed/engine/content"
	"github.com/nathoo/storyseed/engine/rng"
	"github.com/nathoo/storyseed/types"
)

// playedSession resolves n choices on a fresh session.
func playedSession(t *testing.T, e *engine.Engine, seed string, n int) *types.Session {
	t.Helper()
	s, err := e.CreateSession(seed)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n && !e.IsEnded(s); i++ {
		choices := e.ListChoices(s)
		res, err := e.ResolveChoice(context.Background(), s, choices[i%len(choices)].ID)
		if err != nil {
			t.Fatal(err)
		}
		s = res.Session
	}
	return s
}

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(content.Default())
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestRoundTrip(t *testing.T) {
	e := testEngine(t)
	for _, n := range []int{0, 1, 3, 6, 8} {
		s := playedSession(t, e, "test-seed", n)

		data, err := Save(s)
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		loaded, err := Load(data)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if !reflect.DeepEqual(s, loaded) {
			t.Errorf("after %d choices: round trip changed the session", n)
		}
	}
}

func TestRoundTrip_ResumesIdentically(t *testing.T) {
	e := testEngine(t)
	s := playedSession(t, e, "resume", 3)

	data, err := Save(s)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(data)
	if err != nil {
		t.Fatal(err)
	}

	id := e.ListChoices(s)[0].ID
	a, err := e.ResolveChoice(context.Background(), s, id)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.ResolveChoice(context.Background(), loaded, id)
	if err != nil {
		t.Fatal(err)
	}
	if a.Text != b.Text || a.Session.RNG != b.Session.RNG {
		t.Error("restored session diverged from the original")
	}
	if b.Session.RNG.State != rng.Restore(b.Session.RNG.State, b.Session.RNG.Draws).State() {
		t.Error("generator state not preserved")
	}
}

func TestSave_Fields(t *testing.T) {
	s := playedSession(t, testEngine(t), "fields", 2)
	data, err := Save(s)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"version", "seed", "rng_state", "rng_draws", "world", "characters", "arc", "history"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing %q in save data", key)
		}
	}
	if raw["version"] != FormatVersion {
		t.Errorf("unexpected version %v", raw["version"])
	}
}

func TestLoad_RepairsNilCollections(t *testing.T) {
	data := []byte(`{"version":"1","id":"x","seed":"s","arc":{"phase":"setup"},
		"characters":[{"id":"mara","mood":{"label":"neutral"}}]}`)
	s, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Consequences == nil || s.History == nil || s.Arc.Themes == nil {
		t.Error("expected session collections to be repaired")
	}
	ch := s.Characters[0]
	if ch.Traits == nil || ch.Relationships == nil || ch.Memories == nil || ch.Mood.Influences == nil {
		t.Error("expected character collections to be repaired")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"garbage", `{not json`, "decoding session"},
		{"wrong version", `{"version":"9","seed":"s"}`, "unsupported format version"},
		{"no seed", `{"version":"1","arc":{"phase":"setup"}}`, "seed is empty"},
		{"bad phase", `{"version":"1","seed":"s","arc":{"phase":"epilogue"}}`, "unknown arc phase"},
		{"tension out of range", `{"version":"1","seed":"s","arc":{"phase":"setup"},"world":{"tension":2}}`, "out of range"},
		{"continuity out of range", `{"version":"1","seed":"s","arc":{"phase":"setup"},"world":{"continuity":7}}`, "continuity"},
		{"history mismatch", `{"version":"1","seed":"s","arc":{"phase":"setup"},"choice_count":2}`, "does not match"},
		{"reserved character", `{"version":"1","seed":"s","arc":{"phase":"setup"},"characters":[{"id":"player"}]}`, "invalid character id"},
		{"duplicate character", `{"version":"1","seed":"s","arc":{"phase":"setup"},"characters":[{"id":"a"},{"id":"a"}]}`, "duplicate character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			var serr *SerializationError
			if !errors.As(err, &serr) {
				t.Fatalf("expected SerializationError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}
