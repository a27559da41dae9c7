// Package engine provides the Engine that wires generation, the choice
// catalog, resolution, consequences, and the story arc into sessions.
package engine

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nathoo/storyseed/engine/arc"
	"github.com/nathoo/storyseed/engine/catalog"
	"github.com/nathoo/storyseed/engine/character"
	"github.com/nathoo/storyseed/engine/content"
	"github.com/nathoo/storyseed/engine/effects"
	"github.com/nathoo/storyseed/engine/events"
	"github.com/nathoo/storyseed/engine/narrative"
	"github.com/nathoo/storyseed/engine/rng"
	"github.com/nathoo/storyseed/engine/rules"
	"github.com/nathoo/storyseed/engine/state"
	"github.com/nathoo/storyseed/engine/worldgen"
	"github.com/nathoo/storyseed/types"
)

// Engine holds immutable content and the enhancement collaborator. It is
// safe for concurrent use; sessions themselves are values owned by callers.
type Engine struct {
	pack     *content.Pack
	composer *narrative.Composer
	enhancer narrative.Enhancer
	timeout  time.Duration
	logger   *log.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithEnhancer sets the text-enhancement collaborator.
func WithEnhancer(e narrative.Enhancer) Option {
	return func(eng *Engine) { eng.enhancer = e }
}

// WithTimeout bounds each enhancement call.
func WithTimeout(d time.Duration) Option {
	return func(eng *Engine) { eng.timeout = d }
}

// WithLogger sets where enhancement downgrades and rejected resolutions
// are reported.
func WithLogger(l *log.Logger) Option {
	return func(eng *Engine) { eng.logger = l }
}

// New creates an engine over a content pack.
func New(pack *content.Pack, opts ...Option) (*Engine, error) {
	if err := pack.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content pack: %w", err)
	}
	composer, err := narrative.NewComposer(pack)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		pack:     pack,
		composer: composer,
		enhancer: narrative.Noop{},
		timeout:  narrative.DefaultTimeout,
		logger:   log.New(io.Discard, "", 0),
		inflight: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Result is the outcome of resolving one choice.
type Result struct {
	Session  *types.Session
	Text     string
	Ended    bool
	Events   []types.Event
	Enhanced bool
}

// NewSeed returns a random seed for a fresh story.
func NewSeed() (string, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return "", fmt.Errorf("read random seed: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

// CreateSession starts a story. An empty seed picks a random one.
func (e *Engine) CreateSession(seed string) (*types.Session, error) {
	if seed == "" {
		var err error
		if seed, err = NewSeed(); err != nil {
			return nil, err
		}
	}
	out, err := worldgen.Generate(seed, e.pack)
	if err != nil {
		return nil, err
	}
	s := state.NewSession(uuid.NewString(), seed, out.World, out.Characters, out.Arc)
	s.RNG = types.RNGState{State: out.RNG.State(), Draws: out.RNG.Draws()}
	return s, nil
}

// Intro returns the opening text of a session.
func (e *Engine) Intro(s *types.Session) string {
	return e.composer.Intro(s)
}

// ListChoices returns the catalog for the session's next turn. It never
// mutates the session and is empty only once the story has ended.
func (e *Engine) ListChoices(s *types.Session) []types.Choice {
	return catalog.List(s, e.composer)
}

// IsEnded reports whether the story is over.
func (e *Engine) IsEnded(s *types.Session) bool {
	return s.Ended
}

// ResolveChoice applies a choice to a copy of the session and returns the
// new session with the turn's narration. The input session is not modified.
func (e *Engine) ResolveChoice(ctx context.Context, s *types.Session, choiceID string) (*Result, error) {
	if err := e.begin(s.ID); err != nil {
		e.logger.Printf("resolve %s: %v", choiceID, err)
		return nil, err
	}
	defer e.end(s.ID)

	available := catalog.List(s, e.composer)
	choice, ok := catalog.Find(available, choiceID)
	if !ok {
		err := &InvalidChoiceError{ChoiceID: choiceID, Available: catalog.IDs(available)}
		e.logger.Printf("resolve: %v", err)
		return nil, err
	}

	next := state.Clone(s)
	r := rng.Restore(next.RNG.State, next.RNG.Draws)
	result := &Result{Session: next}

	// 1. Offline narration.
	beat := e.composer.Beat(r, next, choice)

	// 2-4. Reactions, world change, and at most one consequence.
	effs := reactionEffects(next, choice)
	effs = append(effs, types.Effect{Kind: types.EffectWorld, World: rules.WorldDelta(choice)})
	if rule, ok := rules.Evaluate(next, choice); ok {
		desc := e.composer.ConsequenceText(r, next, rule, choice)
		cq := rules.Build(next, choice, rule, state.DeriveID(next, "consequence", 0), desc)
		effs = append(effs, types.Effect{Kind: types.EffectConsequence, Consequence: &cq})
	}
	evts := effects.Apply(next, effs)

	// 5. Reveal pass. Reveals are applied once and never re-dispatched.
	if reveals := events.Dispatch(evts, next); len(reveals) > 0 {
		evts = append(evts, effects.Apply(next, reveals)...)
	}
	var lines []string
	var themes []types.Effect
	for _, ev := range evts {
		if ev.Type != types.EventConsequenceRevealed {
			continue
		}
		id, _ := ev.Data["consequence"].(string)
		if cq := state.Consequence(next, id); cq != nil {
			lines = append(lines, e.composer.RevealLine(r, next, *cq))
			themes = append(themes, types.Effect{Kind: types.EffectTheme, Theme: rules.Theme(cq.Rule)})
		}
	}
	evts = append(evts, effects.Apply(next, themes)...)

	// 6. Arc.
	evts = append(evts, arc.Advance(next)...)
	result.Ended = arc.ShouldEnd(next)

	// 7. Enhancement never changes state, only the words.
	text := narrative.Join(beat, strings.Join(lines, " "))
	enhanced, err := narrative.Enhance(ctx, e.enhancer, e.timeout, text, next.World)
	if err != nil {
		e.logger.Printf("enhancement unavailable, using offline text: %v", err)
	} else {
		result.Enhanced = enhanced != text
		text = enhanced
	}

	// 8. Terminal marker.
	if result.Ended {
		next.Ended = true
		text = narrative.Join(text, types.TerminalMarker)
		evts = append(evts, types.Event{
			Type: types.EventStoryEnded,
			Data: map[string]any{"completion": next.Arc.Completion, "phase": string(next.Arc.Phase)},
		})
	}

	// 9. History, generator position, and the clock.
	next.History = append(next.History, types.HistoryEntry{Text: text, ChoiceID: choice.ID, Turn: state.Turn(next)})
	next.RNG = types.RNGState{State: r.State(), Draws: r.Draws()}
	next.ChoiceCount++

	result.Text = text
	result.Events = evts
	return result, nil
}

// reactionEffects turns a choice's predicted reactions into mood, memory,
// and relationship effects, in cast order.
func reactionEffects(s *types.Session, choice types.Choice) []types.Effect {
	var effs []types.Effect
	turn := state.Turn(s)
	gesture := choice.Type == types.ChoiceGesture
	for i, ch := range s.Characters {
		react, ok := choice.Reactions[ch.ID]
		if !ok {
			continue
		}
		related := []string{types.PlayerID}
		if choice.Focus != "" && choice.Focus != ch.ID {
			related = append(related, choice.Focus)
		}
		mem := character.NewMemory(state.DeriveID(s, "memory", i), choice.Text, react.MoodChange, gesture, turn, related)
		effs = append(effs,
			types.Effect{Kind: types.EffectMood, Character: ch.ID, Delta: react.MoodChange, Intent: choice.Key},
			types.Effect{Kind: types.EffectMemory, Character: ch.ID, Memory: &mem},
			types.Effect{Kind: types.EffectRelationship, Character: ch.ID, Other: types.PlayerID, Delta: react.RelationshipImpact},
		)
	}
	return effs
}

func (e *Engine) begin(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inflight[id]; busy {
		return &AlreadyResolvingError{SessionID: id}
	}
	e.inflight[id] = struct{}{}
	return nil
}

func (e *Engine) end(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inflight, id)
}
