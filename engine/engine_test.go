package engine

import (
	"bytes"
	"context"
	"errors"
	"log"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nathoo/storyseed/engine/content"
	"github.com/nathoo/storyseed/engine/rng"
	"github.com/nathoo/storyseed/engine/rules"
	"github.com/nathoo/storyseed/engine/state"
	"github.com/nathoo/storyseed/types"
)

func testEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(content.Default(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func newSession(t *testing.T, e *Engine, seed string) *types.Session {
	t.Helper()
	s, err := e.CreateSession(seed)
	if err != nil {
		t.Fatalf("CreateSession(%q): %v", seed, err)
	}
	return s
}

// playThrough resolves choices picked by pick until the story ends, and
// returns every intermediate session plus the narration.
func playThrough(t *testing.T, e *Engine, seed string, pick func(turn int, choices []types.Choice) types.Choice) ([]*types.Session, []string) {
	t.Helper()
	s := newSession(t, e, seed)
	sessions := []*types.Session{s}
	var texts []string
	for turn := 0; !e.IsEnded(s); turn++ {
		if turn > 20 {
			t.Fatalf("seed %q: story did not end", seed)
		}
		choices := e.ListChoices(s)
		if len(choices) == 0 {
			t.Fatalf("seed %q turn %d: empty catalog for a live session", seed, turn)
		}
		res, err := e.ResolveChoice(context.Background(), s, pick(turn, choices).ID)
		if err != nil {
			t.Fatalf("seed %q turn %d: %v", seed, turn, err)
		}
		s = res.Session
		sessions = append(sessions, s)
		texts = append(texts, res.Text)
	}
	return sessions, texts
}

func first(_ int, choices []types.Choice) types.Choice { return choices[0] }

func rotating(turn int, choices []types.Choice) types.Choice { return choices[turn%len(choices)] }

func TestCreateSession_Deterministic(t *testing.T) {
	e := testEngine(t)
	a := newSession(t, e, "test-seed")
	b := newSession(t, e, "test-seed")

	if a.World.Role == "" {
		t.Fatal("expected a role label")
	}
	if !reflect.DeepEqual(a.World, b.World) || !reflect.DeepEqual(a.Characters, b.Characters) || !reflect.DeepEqual(a.Arc, b.Arc) {
		t.Error("same seed produced different stories")
	}
	if a.RNG != b.RNG {
		t.Errorf("generator positions differ: %+v vs %+v", a.RNG, b.RNG)
	}
	if a.ID == b.ID {
		t.Error("expected distinct session ids")
	}
}

func TestCreateSession_RandomSeed(t *testing.T) {
	e := testEngine(t)
	s := newSession(t, e, "")
	if s.Seed == "" {
		t.Fatal("expected a generated seed")
	}
	if len(s.Characters) < 2 || len(s.Characters) > 5 {
		t.Errorf("unexpected cast size %d", len(s.Characters))
	}
}

func TestSeedHash_Example(t *testing.T) {
	if rng.HashSeed("abc") != rng.HashSeed("abc") {
		t.Error("hash is not stable")
	}
	if rng.HashSeed("abc") == rng.HashSeed("abd") {
		t.Error("expected different hashes for abc and abd")
	}
}

func TestResolveChoice_FirstBinaryIdentical(t *testing.T) {
	e := testEngine(t)
	var texts []string
	for i := 0; i < 2; i++ {
		s := newSession(t, e, "test-seed")
		choices := e.ListChoices(s)
		if choices[0].Type != types.ChoiceBinary {
			t.Fatalf("expected a binary first choice, got %q", choices[0].Type)
		}
		res, err := e.ResolveChoice(context.Background(), s, choices[0].ID)
		if err != nil {
			t.Fatalf("ResolveChoice: %v", err)
		}
		texts = append(texts, res.Text)
	}
	if texts[0] != texts[1] {
		t.Errorf("narration differs:\n%q\n%q", texts[0], texts[1])
	}
	if texts[0] == "" {
		t.Error("expected narration")
	}
}

func TestResolveChoice_Deterministic(t *testing.T) {
	e := testEngine(t)
	for _, seed := range []string{"test-seed", "abc", "lighthouse", "quiet", "x"} {
		s1, t1 := playThrough(t, e, seed, rotating)
		s2, t2 := playThrough(t, e, seed, rotating)
		if !reflect.DeepEqual(t1, t2) {
			t.Errorf("seed %q: narration differs between runs", seed)
		}
		a, b := s1[len(s1)-1], s2[len(s2)-1]
		if !reflect.DeepEqual(a.World, b.World) || !reflect.DeepEqual(a.Characters, b.Characters) ||
			!reflect.DeepEqual(a.Arc, b.Arc) || !reflect.DeepEqual(a.Consequences, b.Consequences) {
			t.Errorf("seed %q: final state differs between runs", seed)
		}
	}
}

func TestResolveChoice_Invariants(t *testing.T) {
	e := testEngine(t)
	for _, seed := range []string{"test-seed", "abc", "abd", "night", "ferry", "a1", "b2", "c3"} {
		for _, pick := range []func(int, []types.Choice) types.Choice{first, rotating} {
			sessions, _ := playThrough(t, e, seed, pick)
			for i, s := range sessions {
				if len(s.History) != i || s.ChoiceCount != i {
					t.Errorf("seed %q step %d: history %d, count %d", seed, i, len(s.History), s.ChoiceCount)
				}
				if i > 0 && rules.PhaseIndex(s.Arc.Phase) < rules.PhaseIndex(sessions[i-1].Arc.Phase) {
					t.Errorf("seed %q step %d: phase regressed", seed, i)
				}
				w := s.World
				if w.Continuity < 0 || w.Continuity > state.MaxContinuity || w.Tension < 0 || w.Tension > 1 ||
					w.Mystery < 0 || w.Mystery > 1 || w.Foreshadow < 0 {
					t.Errorf("seed %q step %d: world out of range %+v", seed, i, w)
				}
				if s.Arc.Completion < 0 || s.Arc.Completion > 100 || s.Arc.Tension < 0 || s.Arc.Tension > 100 {
					t.Errorf("seed %q step %d: arc out of range %+v", seed, i, s.Arc)
				}
				for _, ch := range s.Characters {
					if ch.Mood.Intensity < 0 || ch.Mood.Intensity > 1 || len(ch.Memories) > state.MaxMemories {
						t.Errorf("seed %q step %d: %s out of range", seed, i, ch.ID)
					}
				}
			}
			final := sessions[len(sessions)-1]
			if final.ChoiceCount > 8 {
				t.Errorf("seed %q: ended after %d choices", seed, final.ChoiceCount)
			}
			if !strings.HasSuffix(final.History[len(final.History)-1].Text, types.TerminalMarker) {
				t.Errorf("seed %q: last beat lacks the terminal marker", seed)
			}
			for _, h := range final.History[:len(final.History)-1] {
				if strings.Contains(h.Text, types.TerminalMarker) {
					t.Errorf("seed %q: terminal marker before the end", seed)
				}
			}
		}
	}
}

func TestResolveChoice_CopyOnWrite(t *testing.T) {
	e := testEngine(t)
	s := newSession(t, e, "test-seed")
	before := state.Clone(s)

	res, err := e.ResolveChoice(context.Background(), s, e.ListChoices(s)[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s, before) {
		t.Error("resolution mutated the input session")
	}
	if res.Session == s {
		t.Error("expected a new session value")
	}
}

func TestResolveChoice_FirstCompliance(t *testing.T) {
	e := testEngine(t)
	s := newSession(t, e, "test-seed")
	res, err := e.ResolveChoice(context.Background(), s, "t0-comply")
	if err != nil {
		t.Fatal(err)
	}
	cs := res.Session.Consequences
	if len(cs) != 1 || cs[0].Rule != types.RuleFirstCompliance || cs[0].ChoiceID != "t0-comply" {
		t.Fatalf("expected a first_compliance consequence, got %+v", cs)
	}
	if cs[0].Revealed {
		t.Error("compliance should stay hidden until later in the arc")
	}
	for _, ch := range res.Session.Characters {
		if len(ch.Memories) != 1 || ch.Memories[0].Turn != 1 {
			t.Errorf("%s: expected one memory from turn 1, got %+v", ch.ID, ch.Memories)
		}
	}
}

func TestResolveChoice_DefianceResurfaces(t *testing.T) {
	e := testEngine(t)
	s := newSession(t, e, "test-seed")
	ctx := context.Background()

	res, err := e.ResolveChoice(ctx, s, "t0-resist")
	if err != nil {
		t.Fatal(err)
	}
	revealedAt := 0
	for turn := 1; turn < 4 && !res.Session.Ended; turn++ {
		res, err = e.ResolveChoice(ctx, res.Session, e.ListChoices(res.Session)[0].ID)
		if err != nil {
			t.Fatal(err)
		}
		cq := state.Consequence(res.Session, res.Session.Consequences[0].ID)
		if cq.Revealed && revealedAt == 0 {
			revealedAt = turn + 1
		}
	}
	if revealedAt != 4 {
		t.Errorf("expected the defiance to resurface on turn 4, got %d", revealedAt)
	}
	found := false
	for _, th := range res.Session.Arc.Themes {
		if th == rules.Theme(types.RuleFirstDefiance) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the defiance theme in %v", res.Session.Arc.Themes)
	}
}

func TestResolveChoice_InvalidChoice(t *testing.T) {
	e := testEngine(t)
	s := newSession(t, e, "test-seed")

	_, err := e.ResolveChoice(context.Background(), s, "t3-press")
	var invalid *InvalidChoiceError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidChoiceError, got %v", err)
	}
	if !reflect.DeepEqual(invalid.Available, []string{"t0-comply", "t0-resist"}) {
		t.Errorf("unexpected available ids %v", invalid.Available)
	}
}

func TestResolveChoice_EndedSession(t *testing.T) {
	e := testEngine(t)
	sessions, _ := playThrough(t, e, "test-seed", first)
	final := sessions[len(sessions)-1]

	if len(e.ListChoices(final)) != 0 {
		t.Error("expected an empty catalog once ended")
	}
	_, err := e.ResolveChoice(context.Background(), final, "t0-comply")
	var invalid *InvalidChoiceError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidChoiceError, got %v", err)
	}
}

type blockingEnhancer struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingEnhancer) Enhance(ctx context.Context, base string, _ types.World) (string, error) {
	close(b.started)
	select {
	case <-b.release:
	case <-ctx.Done():
	}
	return base, nil
}

func TestResolveChoice_AlreadyResolving(t *testing.T) {
	enh := &blockingEnhancer{started: make(chan struct{}), release: make(chan struct{})}
	e := testEngine(t, WithEnhancer(enh), WithTimeout(5*time.Second))
	s := newSession(t, e, "test-seed")
	other := newSession(t, e, "test-seed")
	id := e.ListChoices(s)[0].ID

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = e.ResolveChoice(context.Background(), s, id)
	}()
	<-enh.started

	_, err := e.ResolveChoice(context.Background(), s, id)
	var busy *AlreadyResolvingError
	if !errors.As(err, &busy) || busy.SessionID != s.ID {
		t.Errorf("expected AlreadyResolvingError for %s, got %v", s.ID, err)
	}

	close(enh.release)
	wg.Wait()
	if firstErr != nil {
		t.Fatalf("first resolution failed: %v", firstErr)
	}

	// The guard is released and other sessions were never blocked by it.
	e.enhancer = nil
	if _, err := e.ResolveChoice(context.Background(), other, id); err != nil {
		t.Errorf("independent session: %v", err)
	}
	if _, err := e.ResolveChoice(context.Background(), s, id); err != nil {
		t.Errorf("retry after completion: %v", err)
	}
}

type slowEnhancer struct{}

func (slowEnhancer) Enhance(ctx context.Context, _ string, _ types.World) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type upperEnhancer struct{}

func (upperEnhancer) Enhance(_ context.Context, base string, _ types.World) (string, error) {
	return strings.ToUpper(base), nil
}

func TestResolveChoice_EnhancerFallback(t *testing.T) {
	var logs bytes.Buffer
	offline := testEngine(t)
	slow := testEngine(t, WithEnhancer(slowEnhancer{}), WithTimeout(10*time.Millisecond), WithLogger(log.New(&logs, "", 0)))

	s := newSession(t, offline, "test-seed")
	want, err := offline.ResolveChoice(context.Background(), s, "t0-comply")
	if err != nil {
		t.Fatal(err)
	}
	got, err := slow.ResolveChoice(context.Background(), s, "t0-comply")
	if err != nil {
		t.Fatalf("enhancer failure surfaced as an error: %v", err)
	}
	if got.Text != want.Text || got.Enhanced {
		t.Errorf("expected offline text, got %q", got.Text)
	}
	if !strings.Contains(logs.String(), "offline text") {
		t.Errorf("expected the downgrade to be logged, got %q", logs.String())
	}
}

func TestResolveChoice_EnhancerOnlyChangesText(t *testing.T) {
	offline := testEngine(t)
	upper := testEngine(t, WithEnhancer(upperEnhancer{}))

	s := newSession(t, offline, "test-seed")
	want, _ := offline.ResolveChoice(context.Background(), s, "t0-resist")
	got, err := upper.ResolveChoice(context.Background(), s, "t0-resist")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Enhanced || got.Text != strings.ToUpper(want.Text) {
		t.Errorf("expected enhanced text, got %q", got.Text)
	}
	if !reflect.DeepEqual(got.Session.World, want.Session.World) || !reflect.DeepEqual(got.Session.Characters, want.Session.Characters) {
		t.Error("enhancement changed story state")
	}
}

func TestResolveChoice_CancelledContext(t *testing.T) {
	e := testEngine(t, WithEnhancer(slowEnhancer{}))
	s := newSession(t, e, "test-seed")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.ResolveChoice(ctx, s, "t0-comply")
	if err != nil {
		t.Fatalf("cancellation must not fail the turn: %v", err)
	}
	if res.Session.ChoiceCount != 1 || res.Text == "" {
		t.Errorf("expected the offline turn to complete, got %+v", res)
	}
}

func TestNew_InvalidPack(t *testing.T) {
	pack := content.Default()
	pack.Roles = nil
	if _, err := New(pack); err == nil {
		t.Fatal("expected an error for an invalid pack")
	}
}
