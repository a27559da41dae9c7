// Package play drives one player's story for the front-ends. It turns input
// lines into engine calls and meta commands, and reports what to show.
package play

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/storyseed/engine"
	"github.com/nathoo/storyseed/engine/parser"
	"github.com/nathoo/storyseed/engine/resolve"
	"github.com/nathoo/storyseed/engine/state"
	"github.com/nathoo/storyseed/store"
	"github.com/nathoo/storyseed/transcript"
	"github.com/nathoo/storyseed/types"
)

// Kind classifies an output line for display.
type Kind int

const (
	KindNarration Kind = iota
	KindChoice
	KindInfo   // plain listings: help, state, saves
	KindSystem // short confirmations, shown bracketed
	KindError
	KindTrace
)

// Line is one line of output.
type Line struct {
	Text string
	Kind Kind
}

// Output is what one input produced.
type Output struct {
	Lines []Line
	Quit  bool
}

func (o *Output) add(kind Kind, text string) {
	o.Lines = append(o.Lines, Line{Text: text, Kind: kind})
}

func (o *Output) addf(kind Kind, format string, args ...any) {
	o.add(kind, fmt.Sprintf(format, args...))
}

// paragraphs adds text split on blank lines, separated by empty lines.
func (o *Output) paragraphs(text string) {
	for i, p := range strings.Split(text, "\n\n") {
		if i > 0 {
			o.add(KindNarration, "")
		}
		o.add(KindNarration, p)
	}
}

// DefaultSlot is used by /save and /load without a name.
const DefaultSlot = "quicksave"

const endedHint = "The story has ended. Type /restart to begin a new story."

// Game holds the current session. Its methods are safe to call from the
// TUI's command goroutines.
type Game struct {
	Engine    *engine.Engine
	Store     store.Store // nil disables /save, /load, /saves, /delete
	ExportDir string
	Trace     bool

	mu      sync.Mutex
	session *types.Session
	choices []types.Choice
}

// New creates a game with no session; call Start.
func New(eng *engine.Engine, st store.Store) *Game {
	return &Game{Engine: eng, Store: st, ExportDir: "."}
}

// Session returns the current session, or nil before Start.
func (g *Game) Session() *types.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Choices returns the catalog currently on offer.
func (g *Game) Choices() []types.Choice {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.choices
}

// Start begins a new story. An empty seed picks a random one.
func (g *Game) Start(seed string) (Output, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.start(seed)
}

func (g *Game) start(seed string) (Output, error) {
	s, err := g.Engine.CreateSession(seed)
	if err != nil {
		return Output{}, err
	}
	g.setSession(s)

	var out Output
	out.add(KindSystem, fmt.Sprintf("%s (seed %s)", transcript.Title(s), s.Seed))
	out.add(KindNarration, "")
	out.paragraphs(g.Engine.Intro(s))
	g.listChoices(&out)
	return out, nil
}

func (g *Game) setSession(s *types.Session) {
	g.session = s
	g.choices = g.Engine.ListChoices(s)
}

// Handle processes one line of player input.
func (g *Game) Handle(ctx context.Context, input string) Output {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent := parser.Parse(input)
	switch intent.Kind {
	case parser.Empty:
		return Output{}
	case parser.Meta:
		return g.meta(ctx, intent)
	}

	var out Output
	if g.session == nil {
		out.add(KindError, "No story is running. Type /restart to begin.")
		return out
	}
	if g.session.Ended {
		out.add(KindError, endedHint)
		return out
	}

	choice, err := resolve.Resolve(g.session, g.choices, intent)
	if err != nil {
		out.add(KindError, describeError(err))
		return out
	}
	res, err := g.Engine.ResolveChoice(ctx, g.session, choice.ID)
	if err != nil {
		out.add(KindError, describeError(err))
		return out
	}
	g.setSession(res.Session)

	out.paragraphs(res.Text)
	if g.Trace {
		traceLines(&out, res)
	}
	if res.Ended {
		out.add(KindNarration, "")
		out.addf(KindSystem, "Story complete after %d turns. Type /export to keep a transcript.", res.Session.ChoiceCount)
		return out
	}
	g.listChoices(&out)
	return out
}

func describeError(err error) string {
	var amb *resolve.AmbiguityError
	var nf *resolve.NotFoundError
	var inv *engine.InvalidChoiceError
	var busy *engine.AlreadyResolvingError
	switch {
	case errors.As(err, &amb):
		return "Be more specific: " + amb.Error()
	case errors.As(err, &nf):
		return nf.Error() + ". Pick a number from the list."
	case errors.As(err, &inv):
		return "That choice is no longer available."
	case errors.As(err, &busy):
		return "Still telling the last part of the story."
	default:
		return err.Error()
	}
}

func (g *Game) listChoices(out *Output) {
	if g.session.Ended {
		out.add(KindSystem, endedHint)
		return
	}
	out.add(KindNarration, "")
	for i, ch := range g.choices {
		out.addf(KindChoice, "%d. %s%s", i+1, ch.Text, choiceTag(ch))
	}
}

func choiceTag(ch types.Choice) string {
	switch ch.Type {
	case types.ChoiceBinary, types.ChoiceMultiple:
		return ""
	case types.ChoiceTimed:
		return fmt.Sprintf(" [timed, %ds]", ch.TimeLimit)
	default:
		return " [" + string(ch.Type) + "]"
	}
}

func traceLines(out *Output, res *engine.Result) {
	out.addf(KindTrace, "[trace] Events: %d (enhanced: %t)", len(res.Events), res.Enhanced)
	for _, ev := range res.Events {
		keys := make([]string, 0, len(ev.Data))
		for k := range ev.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, ev.Data[k]))
		}
		out.addf(KindTrace, "[trace]   %s %s", ev.Type, strings.Join(parts, " "))
	}
	s := res.Session
	out.addf(KindTrace, "[trace] Arc: %s %.0f%% tension %.0f, world tension %.2f mystery %.2f",
		s.Arc.Phase, s.Arc.Completion, s.Arc.Tension, s.World.Tension, s.World.Mystery)
}

var titleCase = cases.Title(language.English)

// StateLines describes a session for /state.
func StateLines(s *types.Session) []string {
	lines := []string{
		fmt.Sprintf("Seed: %s", s.Seed),
		fmt.Sprintf("Turn: %d", state.Turn(s)),
		fmt.Sprintf("Phase: %s (%.0f%% complete, pacing %s)", titleCase.String(string(s.Arc.Phase)), s.Arc.Completion, s.Arc.Pacing),
		fmt.Sprintf("Tension: arc %.0f, world %.2f; mystery %.2f", s.Arc.Tension, s.World.Tension, s.World.Mystery),
		fmt.Sprintf("Continuity: %d, foreshadowing: %d", s.World.Continuity, s.World.Foreshadow),
		fmt.Sprintf("Themes: %s", strings.Join(s.Arc.Themes, ", ")),
		fmt.Sprintf("Consequences: %d (%d hidden)", len(s.Consequences), len(state.Unrevealed(s))),
		"Cast:",
	}
	for _, ch := range s.Characters {
		rel := ch.Relationships[types.PlayerID]
		lines = append(lines, fmt.Sprintf("  %s, %s: %s %.2f, trust %.0f, %d memories",
			ch.Name, ch.Archetype, ch.Mood.Label, ch.Mood.Intensity, rel.Trust, len(ch.Memories)))
	}
	return lines
}
