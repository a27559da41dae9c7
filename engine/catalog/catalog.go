// Package catalog builds the choices offered for the next turn. The catalog
// is a pure function of the session: it never draws on the session generator,
// so listing twice gives the same ids and resolution can re-derive it.
package catalog

import (
	"fmt"
	"sort"

	"github.com/nathoo/storyseed/engine/character"
	"github.com/nathoo/storyseed/engine/content"
	"github.com/nathoo/storyseed/engine/narrative"
	"github.com/nathoo/storyseed/engine/rng"
	"github.com/nathoo/storyseed/engine/rules"
	"github.com/nathoo/storyseed/types"
)

// Stage boundaries on the choice count.
const (
	MidStage  = 2
	LateStage = 5
)

const (
	// MaxLateOptions caps the condition-gated options offered late in a story.
	MaxLateOptions = 3
	// TimeLimit is the window of a timed choice, in seconds.
	TimeLimit = 10
	// MidOptions is how many contextual options the mid stage offers.
	MidOptions = 2
)

// List returns the choices available for the session's next turn.
func List(s *types.Session, c *narrative.Composer) []types.Choice {
	if s.Ended {
		return []types.Choice{}
	}
	if len(s.Characters) == 0 {
		return Fallback(s, c)
	}

	b := &builder{s: s, c: c, r: Generator(s)}
	switch {
	case s.ChoiceCount < MidStage:
		return b.early()
	case s.ChoiceCount < LateStage:
		return b.mid()
	default:
		if choices := b.late(); len(choices) > 0 {
			return choices
		}
		return b.mid()
	}
}

// Find returns the catalog entry with the given id.
func Find(choices []types.Choice, id string) (types.Choice, bool) {
	for _, ch := range choices {
		if ch.ID == id {
			return ch, true
		}
	}
	return types.Choice{}, false
}

// IDs lists the ids of a catalog in order.
func IDs(choices []types.Choice) []string {
	ids := make([]string, len(choices))
	for i, ch := range choices {
		ids[i] = ch.ID
	}
	return ids
}

// Generator returns the derived generator for the session's current turn.
func Generator(s *types.Session) *rng.RNG {
	return rng.FromSeed(fmt.Sprintf("%s#catalog#%d", s.Seed, s.ChoiceCount))
}

// ChoiceID formats a catalog id: t<count>-<key>[-<character>].
func ChoiceID(count int, key, who string) string {
	if who == "" {
		return fmt.Sprintf("t%d-%s", count, key)
	}
	return fmt.Sprintf("t%d-%s-%s", count, key, who)
}

// Fallback is the safe two-choice binary catalog used when the session
// cannot support anything richer.
func Fallback(s *types.Session, c *narrative.Composer) []types.Choice {
	b := &builder{s: s, c: c, r: Generator(s)}
	return []types.Choice{
		b.choice(content.KeyComply, "", types.ChoiceBinary, types.ToneCompliant, types.DifficultyEasy),
		b.choice(content.KeyResist, "", types.ChoiceBinary, types.ToneDefiant, types.DifficultyMedium),
	}
}

type builder struct {
	s *types.Session
	c *narrative.Composer
	r *rng.RNG
}

func (b *builder) choice(key, who string, ct types.ChoiceType, tone types.Tone, diff types.Difficulty) types.Choice {
	return types.Choice{
		ID:         ChoiceID(b.s.ChoiceCount, key, who),
		Key:        key,
		Text:       b.c.ChoiceText(b.r, b.s, key, who),
		Type:       ct,
		Difficulty: diff,
		Tone:       tone,
		Focus:      who,
		Reactions:  map[string]types.Reaction{},
	}
}

// react fills reactions for the whole cast from one trait: (trait-50)/100*scale.
func (b *builder) react(ch *types.Choice, trait string, scale float64) {
	for _, c := range b.s.Characters {
		ch.Reactions[c.ID] = reaction((c.Traits[trait] - 50) / 100 * scale)
	}
}

func reaction(delta float64) types.Reaction {
	return types.Reaction{MoodChange: delta, RelationshipImpact: delta / 2}
}

func (b *builder) early() []types.Choice {
	comply := b.choice(content.KeyComply, "", types.ChoiceBinary, types.ToneCompliant, types.DifficultyEasy)
	b.react(&comply, content.TraitTrustworthiness, 0.6)
	resist := b.choice(content.KeyResist, "", types.ChoiceBinary, types.ToneDefiant, types.DifficultyMedium)
	b.react(&resist, content.TraitCourage, 0.6)
	return []types.Choice{comply, resist}
}

func (b *builder) mid() []types.Choice {
	w := b.s.World
	var out []types.Choice

	if w.Tension > 0.7 {
		ch := b.choice(content.KeyDefuse, "", types.ChoiceMultiple, types.ToneEmpathetic, types.DifficultyMedium)
		ch.Conditions = []types.Condition{{Subject: types.SubjectWorld, Field: "tension", Op: types.OpGreater, Number: 0.7}}
		b.react(&ch, content.TraitEmpathy, 0.6)
		out = append(out, ch)
	}
	if w.Mystery > 0.5 && len(out) < MidOptions {
		ch := b.choice(content.KeyInvestigate, "", types.ChoiceMultiple, types.ToneCurious, types.DifficultyMedium)
		ch.Conditions = []types.Condition{{Subject: types.SubjectWorld, Field: "mystery", Op: types.OpGreater, Number: 0.5}}
		b.react(&ch, content.TraitCuriosity, 0.6)
		out = append(out, ch)
	}
	if w.Tension <= 0.7 && len(out) < MidOptions {
		ch := b.choice(content.KeyConfront, b.mostVolatile(), types.ChoiceMultiple, types.ToneConfrontational, types.DifficultyHard)
		b.react(&ch, content.TraitCourage, 0.6)
		ch.Reactions[ch.Focus] = reaction(-0.3)
		out = append(out, ch)
	}
	if a, other, ok := character.MostCompatible(b.s.Characters); ok && len(out) < MidOptions {
		ch := b.choice(content.KeyAlly, a, types.ChoiceMultiple, types.ToneEmpathetic, types.DifficultyMedium)
		ch.Reactions[a] = reaction(0.3)
		ch.Reactions[other] = reaction(0.15)
		out = append(out, ch)
	}
	if len(out) < MidOptions {
		ch := b.choice(content.KeyPress, "", types.ChoiceMultiple, types.ToneDefiant, types.DifficultyEasy)
		b.react(&ch, content.TraitCourage, 0.6)
		out = append(out, ch)
	}

	return append(out, b.observe())
}

func (b *builder) observe() types.Choice {
	ch := b.choice(content.KeyObserve, "", types.ChoiceMultiple, types.ToneCautious, types.DifficultyEasy)
	ch.Repeatable = true
	b.react(&ch, content.TraitCuriosity, 0.2)
	return ch
}

// late offers per-character options gated by structured conditions.
func (b *builder) late() []types.Choice {
	var unlocked []types.Choice
	for _, c := range b.s.Characters {
		if !c.Active {
			continue
		}
		for _, ch := range b.candidates(c) {
			if rules.EvalAllConditions(ch.Conditions, b.s) {
				unlocked = append(unlocked, ch)
			}
		}
	}
	if len(unlocked) == 0 {
		return nil
	}
	if len(unlocked) > MaxLateOptions {
		keep := b.r.Shuffle(len(unlocked))[:MaxLateOptions]
		sort.Ints(keep)
		picked := make([]types.Choice, 0, MaxLateOptions)
		for _, i := range keep {
			picked = append(picked, unlocked[i])
		}
		unlocked = picked
	}
	return append(unlocked, b.observe())
}

func (b *builder) candidates(c types.Character) []types.Choice {
	trait := func(name string) float64 { return c.Traits[name] / 100 }

	comfort := b.choice(content.KeyComfort, c.ID, types.ChoiceGesture, types.ToneEmpathetic, types.DifficultyEasy)
	comfort.Conditions = []types.Condition{{Subject: types.SubjectMood, Target: c.ID, Field: "label", Op: types.OpEquals, Text: types.MoodIrritated}}
	comfort.Reactions[c.ID] = reaction(0.35)

	acknowledge := b.choice(content.KeyAcknowledge, c.ID, types.ChoiceGesture, types.ToneEmpathetic, types.DifficultyEasy)
	acknowledge.Conditions = []types.Condition{{Subject: types.SubjectMood, Target: c.ID, Field: "label", Op: types.OpEquals, Text: types.MoodPleased}}
	acknowledge.Reactions[c.ID] = reaction(0.25)

	confide := b.choice(content.KeyConfide, c.ID, types.ChoiceConditional, types.ToneEmpathetic, types.DifficultyMedium)
	confide.Conditions = []types.Condition{{Subject: types.SubjectRelationship, Target: c.ID, Field: types.PlayerID, Op: types.OpGreater, Number: 60}}
	confide.Reactions[c.ID] = reaction(0.2 + 0.2*trait(content.TraitEmpathy))

	confrontPast := b.choice(content.KeyConfrontPast, c.ID, types.ChoiceConditional, types.ToneConfrontational, types.DifficultyHard)
	confrontPast.Conditions = []types.Condition{{Subject: types.SubjectConsequence, Field: "unrevealed", Op: types.OpGreater, Number: 0}}
	confrontPast.Reactions[c.ID] = reaction(-0.1 - 0.4*trait(content.TraitVolatility))

	intervene := b.choice(content.KeyIntervene, c.ID, types.ChoiceTimed, types.ToneDefiant, types.DifficultyHard)
	intervene.Conditions = []types.Condition{{Subject: types.SubjectWorld, Field: "tension", Op: types.OpGreater, Number: 0.6}}
	intervene.TimeLimit = TimeLimit
	intervene.Reactions[c.ID] = reaction((trait(content.TraitTrustworthiness) - 0.5) * 0.6)

	seize := b.choice(content.KeySeize, c.ID, types.ChoiceTimed, types.ToneCurious, types.DifficultyHard)
	seize.Conditions = []types.Condition{{Subject: types.SubjectWorld, Field: "mystery", Op: types.OpLess, Number: 0.3}}
	seize.TimeLimit = TimeLimit
	seize.Reactions[c.ID] = reaction(-0.4 * trait(content.TraitCuriosity))

	return []types.Choice{comfort, acknowledge, confide, confrontPast, intervene, seize}
}

func (b *builder) mostVolatile() string {
	best, who := -1.0, ""
	for _, c := range b.s.Characters {
		if v := c.Traits[content.TraitVolatility]; v > best {
			best, who = v, c.ID
		}
	}
	return who
}
