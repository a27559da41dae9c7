// Package content holds the fixed pools a story is generated from: labels,
// character templates, and the text templates beats and choices are built
// with. A Pack is immutable once handed to the engine.
package content

import (
	"fmt"
	"sort"

	"github.com/pixil98/go-errors"

	"github.com/nathoo/storyseed/types"
)

// Trait names every character template is expected to define.
const (
	TraitTrustworthiness = "trustworthiness"
	TraitCourage         = "courage"
	TraitEmpathy         = "empathy"
	TraitCuriosity       = "curiosity"
	TraitVolatility      = "volatility"
)

// TraitNames lists the standard traits in sorted order.
var TraitNames = []string{TraitCourage, TraitCuriosity, TraitEmpathy, TraitTrustworthiness, TraitVolatility}

// MaxCast is the largest cast a seed can produce.
const MaxCast = 5

// Choice keys with text pools.
const (
	KeyComply       = "comply"
	KeyResist       = "resist"
	KeyDefuse       = "defuse"
	KeyInvestigate  = "investigate"
	KeyConfront     = "confront"
	KeyAlly         = "ally"
	KeyPress        = "press"
	KeyObserve      = "observe"
	KeyComfort      = "comfort"
	KeyAcknowledge  = "acknowledge"
	KeyConfide      = "confide"
	KeyConfrontPast = "confront-past"
	KeyIntervene    = "intervene"
	KeySeize        = "seize"
)

// ChoiceKeys lists every key the catalog can emit.
var ChoiceKeys = []string{
	KeyComply, KeyResist, KeyDefuse, KeyInvestigate, KeyConfront, KeyAlly, KeyPress, KeyObserve,
	KeyComfort, KeyAcknowledge, KeyConfide, KeyConfrontPast, KeyIntervene, KeySeize,
}

// TraitRange generates a trait as base + draw*range.
type TraitRange struct {
	Base  float64
	Range float64
}

// CharacterTemplate is a cast member before generation.
type CharacterTemplate struct {
	ID        string
	Name      string
	Archetype string
	Traits    map[string]TraitRange
}

// Pack is the complete set of content pools.
type Pack struct {
	Name   string
	Author string

	Roles        []string
	Destinations []string
	Genres       []string
	Locations    []string
	TimesOfDay   []string
	Atmospheres  []string
	Themes       []string
	Conflicts    []string

	// Beat pools for the binary/offline path.
	Sensory []string
	Hooks   []string
	Endings []string

	// Reveals are templates for a resurfacing consequence.
	Reveals []string

	// Narration holds beat templates per non-binary choice type.
	Narration map[types.ChoiceType][]string

	// Choices holds display text templates per choice key.
	Choices map[string][]string

	// Consequences holds description templates per trigger rule.
	Consequences map[types.ConsequenceRule][]string

	Templates []CharacterTemplate
}

// Pools returns the named string pools, keyed the way content packs name them.
func (p *Pack) Pools() map[string]*[]string {
	return map[string]*[]string{
		"roles":        &p.Roles,
		"destinations": &p.Destinations,
		"genres":       &p.Genres,
		"locations":    &p.Locations,
		"times_of_day": &p.TimesOfDay,
		"atmospheres":  &p.Atmospheres,
		"themes":       &p.Themes,
		"conflicts":    &p.Conflicts,
		"sensory":      &p.Sensory,
		"hooks":        &p.Hooks,
		"endings":      &p.Endings,
		"reveals":      &p.Reveals,
	}
}

// Template returns the character template with the given id.
func (p *Pack) Template(id string) (CharacterTemplate, bool) {
	for _, t := range p.Templates {
		if t.ID == id {
			return t, true
		}
	}
	return CharacterTemplate{}, false
}

// Validate checks that every pool the generators draw from is usable.
func (p *Pack) Validate() error {
	el := errors.NewErrorList()

	pools := p.Pools()
	names := make([]string, 0, len(pools))
	for name := range pools {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if len(*pools[name]) == 0 {
			el.Add(fmt.Errorf("pool %q is empty", name))
		}
	}
	if len(p.Themes) < 2 {
		el.Add(fmt.Errorf("pool \"themes\" needs at least 2 entries, has %d", len(p.Themes)))
	}

	for _, ct := range types.ChoiceTypes {
		if ct == types.ChoiceBinary {
			continue
		}
		if len(p.Narration[ct]) == 0 {
			el.Add(fmt.Errorf("narration for %q is empty", ct))
		}
	}
	for _, key := range ChoiceKeys {
		if len(p.Choices[key]) == 0 {
			el.Add(fmt.Errorf("choice text for %q is empty", key))
		}
	}
	for _, rule := range []types.ConsequenceRule{
		types.RuleFirstCompliance, types.RuleFirstDefiance, types.RuleGesture, types.RuleConfrontation,
	} {
		if len(p.Consequences[rule]) == 0 {
			el.Add(fmt.Errorf("consequence text for %q is empty", rule))
		}
	}

	if len(p.Templates) < MaxCast {
		el.Add(fmt.Errorf("need at least %d character templates, have %d", MaxCast, len(p.Templates)))
	}
	seen := map[string]bool{}
	for _, t := range p.Templates {
		switch {
		case t.ID == "":
			el.Add(fmt.Errorf("character template %q has no id", t.Name))
		case t.ID == types.PlayerID:
			el.Add(fmt.Errorf("character template id %q is reserved", t.ID))
		case seen[t.ID]:
			el.Add(fmt.Errorf("duplicate character template %q", t.ID))
		}
		seen[t.ID] = true
		if t.Name == "" {
			el.Add(fmt.Errorf("character template %q has no name", t.ID))
		}
		for _, trait := range TraitNames {
			tr, ok := t.Traits[trait]
			if !ok {
				el.Add(fmt.Errorf("character template %q is missing trait %q", t.ID, trait))
				continue
			}
			if tr.Range < 0 || tr.Base < 0 || tr.Base > 100 {
				el.Add(fmt.Errorf("character template %q trait %q out of range", t.ID, trait))
			}
		}
	}

	return el.Err()
}
