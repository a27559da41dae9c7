// Package narrative composes the offline text of a story: beats, choice
// labels, consequence descriptions, and resurfacing lines. Every template
// in a content pack is parsed once with the sprig function map.
package narrative

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/nathoo/storyseed/engine/character"
	"github.com/nathoo/storyseed/engine/content"
	"github.com/nathoo/storyseed/engine/rng"
	"github.com/nathoo/storyseed/engine/state"
	"github.com/nathoo/storyseed/types"
)

// EndingChance is the probability a binary beat closes with an ending line.
const EndingChance = 0.06

var templateFuncs = sprig.TxtFuncMap()

// Data is what templates see.
type Data struct {
	World     types.World
	Name      string
	Mood      string
	Archetype string
	Choice    string
	Phase     types.Phase
}

// Composer renders text from a content pack. It is immutable and safe for
// concurrent use.
type Composer struct {
	pack *content.Pack
	root *template.Template
}

// NewComposer parses every template in the pack and dry-runs it against
// sample data, so rendering never fails later.
func NewComposer(pack *content.Pack) (*Composer, error) {
	c := &Composer{pack: pack, root: template.New("").Funcs(templateFuncs)}

	sample := Data{
		World:  types.World{Role: "role", Destination: "destination", Location: "location", TimeOfDay: "dusk"},
		Name:   "Name",
		Mood:   types.MoodNeutral,
		Choice: "choice",
		Phase:  types.PhaseSetup,
	}
	add := func(name string, texts []string) error {
		for i, text := range texts {
			id := fmt.Sprintf("%s/%d", name, i)
			if _, err := c.root.New(id).Parse(text); err != nil {
				return fmt.Errorf("parsing template %s: %w", id, err)
			}
			if _, err := c.exec(id, sample); err != nil {
				return err
			}
		}
		return nil
	}

	if err := add("sensory", pack.Sensory); err != nil {
		return nil, err
	}
	if err := add("hooks", pack.Hooks); err != nil {
		return nil, err
	}
	if err := add("endings", pack.Endings); err != nil {
		return nil, err
	}
	if err := add("reveals", pack.Reveals); err != nil {
		return nil, err
	}
	for ct, texts := range pack.Narration {
		if err := add("narration/"+string(ct), texts); err != nil {
			return nil, err
		}
	}
	for key, texts := range pack.Choices {
		if err := add("choice/"+key, texts); err != nil {
			return nil, err
		}
	}
	for rule, texts := range pack.Consequences {
		if err := add("consequence/"+string(rule), texts); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Composer) exec(id string, data Data) (string, error) {
	var buf bytes.Buffer
	if err := c.root.ExecuteTemplate(&buf, id, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", id, err)
	}
	return buf.String(), nil
}

// render picks one template of a family and executes it. An empty family
// renders as the empty string without drawing.
func (c *Composer) render(r *rng.RNG, name string, n int, data Data) string {
	if n == 0 {
		return ""
	}
	id := fmt.Sprintf("%s/%d", name, r.Intn(n))
	out, err := c.exec(id, data)
	if err != nil {
		return ""
	}
	return out
}

// Beat composes the offline narration for a resolved choice. It draws on r,
// which is the session generator during resolution.
func (c *Composer) Beat(r *rng.RNG, s *types.Session, choice types.Choice) string {
	data := c.DataFor(s, "")
	data.Choice = choice.Text

	switch choice.Type {
	case types.ChoiceBinary:
		parts := []string{
			c.render(r, "sensory", len(c.pack.Sensory), data),
			c.render(r, "hooks", len(c.pack.Hooks), data),
		}
		if r.Chance(EndingChance) {
			parts = append(parts, c.render(r, "endings", len(c.pack.Endings), data))
		}
		return join(parts...)

	case types.ChoiceMultiple, types.ChoiceGesture, types.ChoiceTimed, types.ChoiceConditional:
		who := Subject(s, choice)
		data = c.DataFor(s, who)
		data.Choice = choice.Text
		if ch := state.Character(s, who); ch != nil {
			if label, ok := character.MoodLabel(choice.Reactions[who].MoodChange); ok {
				data.Mood = label
			}
		}
		name := "narration/" + string(choice.Type)
		return c.render(r, name, len(c.pack.Narration[choice.Type]), data)

	default:
		return ""
	}
}

// Intro is the opening text of a story. It draws nothing.
func (c *Composer) Intro(s *types.Session) string {
	w := s.World
	names := make([]string, 0, len(s.Characters))
	for _, ch := range s.Characters {
		names = append(names, fmt.Sprintf("%s, %s", ch.Name, ch.Archetype))
	}
	opening := fmt.Sprintf("You are a %s bound for %s. It is %s in %s, and the air feels %s.",
		w.Role, w.Destination, w.TimeOfDay, w.Location, w.Atmosphere)
	cast := ""
	if len(names) > 0 {
		cast = "With you: " + strings.Join(names, "; ") + "."
	}
	premise := fmt.Sprintf("This is a %s about %s.", w.Genre, s.Arc.CentralConflict)
	return Join(opening, premise, cast)
}

// ChoiceText renders the label for a catalog entry about character who
// (empty for none).
func (c *Composer) ChoiceText(r *rng.RNG, s *types.Session, key, who string) string {
	return c.render(r, "choice/"+key, len(c.pack.Choices[key]), c.DataFor(s, who))
}

// ConsequenceText renders the description of a new consequence.
func (c *Composer) ConsequenceText(r *rng.RNG, s *types.Session, rule types.ConsequenceRule, choice types.Choice) string {
	data := c.DataFor(s, Subject(s, choice))
	data.Choice = choice.Text
	return c.render(r, "consequence/"+string(rule), len(c.pack.Consequences[rule]), data)
}

// RevealLine renders the line appended when a consequence resurfaces.
func (c *Composer) RevealLine(r *rng.RNG, s *types.Session, cq types.Consequence) string {
	data := c.DataFor(s, "")
	data.Choice = cq.Description
	return c.render(r, "reveals", len(c.pack.Reveals), data)
}

// DataFor builds template data about character who.
func (c *Composer) DataFor(s *types.Session, who string) Data {
	data := Data{World: s.World, Phase: s.Arc.Phase, Mood: types.MoodNeutral}
	if ch := state.Character(s, who); ch != nil {
		data.Name = ch.Name
		data.Archetype = ch.Archetype
		data.Mood = ch.Mood.Label
	}
	return data
}

// Subject returns the character a choice is mostly about: its focus, or the
// character with the strongest predicted reaction (first in cast order on
// ties). Empty when nobody reacts.
func Subject(s *types.Session, choice types.Choice) string {
	if choice.Focus != "" {
		return choice.Focus
	}
	best, who := -1.0, ""
	for _, ch := range s.Characters {
		r, ok := choice.Reactions[ch.ID]
		if !ok {
			continue
		}
		if m := math.Abs(r.MoodChange); m > best {
			best, who = m, ch.ID
		}
	}
	return who
}

func join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// Join concatenates non-empty paragraphs with a blank line between them.
func Join(paragraphs ...string) string {
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
