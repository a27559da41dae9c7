// Package worldgen expands a seed into the opening state of a story: the
// world, a cast of two to five characters, their relationships, and the arc.
package worldgen

import (
	"fmt"
	"sort"

	"github.com/nathoo/storyseed/engine/character"
	"github.com/nathoo/storyseed/engine/content"
	"github.com/nathoo/storyseed/engine/rng"
	"github.com/nathoo/storyseed/engine/state"
	"github.com/nathoo/storyseed/types"
)

// Output is everything generated from a seed.
type Output struct {
	World      types.World
	Characters []types.Character
	Arc        types.StoryArc
	RNG        *rng.RNG
}

// CastSize returns how many characters a seed produces: 2 + hash mod 4.
func CastSize(seed string) int {
	return 2 + int(rng.HashSeed(seed)%4)
}

// Generate derives the opening state from a seed. The generator is consumed
// in a fixed order, so equal seeds give identical output.
func Generate(seed string, pack *content.Pack) (*Output, error) {
	r := rng.FromSeed(seed)

	world, err := generateWorld(seed, pack, r)
	if err != nil {
		return nil, err
	}

	chars, err := generateCast(seed, pack, r)
	if err != nil {
		return nil, err
	}
	relate(chars)

	arc, err := generateArc(world, pack, r)
	if err != nil {
		return nil, err
	}

	return &Output{World: world, Characters: chars, Arc: arc, RNG: r}, nil
}

func generateWorld(seed string, pack *content.Pack, r *rng.RNG) (types.World, error) {
	w := types.World{Seed: seed}
	picks := []struct {
		pool string
		from []string
		into *string
	}{
		{"roles", pack.Roles, &w.Role},
		{"destinations", pack.Destinations, &w.Destination},
		{"genres", pack.Genres, &w.Genre},
		{"locations", pack.Locations, &w.Location},
		{"times_of_day", pack.TimesOfDay, &w.TimeOfDay},
		{"atmospheres", pack.Atmospheres, &w.Atmosphere},
	}
	for _, p := range picks {
		v, err := rng.PickNamed(r, p.pool, p.from)
		if err != nil {
			return w, fmt.Errorf("generating world: %w", err)
		}
		*p.into = v
	}
	w.Tension = 0.15 + r.Float()*0.25
	w.Mystery = 0.3 + r.Float()*0.3
	return w, nil
}

func generateCast(seed string, pack *content.Pack, r *rng.RNG) ([]types.Character, error) {
	n := CastSize(seed)
	if len(pack.Templates) < n {
		return nil, fmt.Errorf("generating cast: need %d templates, have %d", n, len(pack.Templates))
	}

	order := r.Shuffle(len(pack.Templates))
	chars := make([]types.Character, 0, n)
	for _, idx := range order[:n] {
		tmpl := pack.Templates[idx]
		ch := types.Character{
			ID:            tmpl.ID,
			Name:          tmpl.Name,
			Archetype:     tmpl.Archetype,
			Traits:        map[string]float64{},
			Mood:          types.Mood{Label: types.MoodNeutral, Intensity: 0.5, Influences: []string{}},
			Memories:      []types.Memory{},
			Relationships: map[string]types.Relationship{},
			Active:        true,
		}
		names := make([]string, 0, len(tmpl.Traits))
		for name := range tmpl.Traits {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			tr := tmpl.Traits[name]
			ch.Traits[name] = state.Clamp(tr.Base+r.Float()*tr.Range, 0, state.MaxTraitValue)
		}
		chars = append(chars, ch)
	}
	return chars, nil
}

// relate seeds symmetric relationships between every pair, proportional to
// their compatibility, plus each character's starting view of the player.
func relate(chars []types.Character) {
	for i := range chars {
		chars[i].Relationships[types.PlayerID] = types.Relationship{
			Strength: 30,
			Trust:    chars[i].Traits[content.TraitTrustworthiness] / 2,
		}
	}
	for i := range chars {
		for j := i + 1; j < len(chars); j++ {
			compat := character.Compatibility(chars[i], chars[j])
			trust := compat * (chars[i].Traits[content.TraitTrustworthiness] + chars[j].Traits[content.TraitTrustworthiness]) / 2
			rel := types.Relationship{
				Strength:  20 + 60*compat,
				Trust:     state.Clamp(trust, 0, 100),
				Affection: 100*compat - 50,
			}
			chars[i].Relationships[chars[j].ID] = rel
			chars[j].Relationships[chars[i].ID] = rel
		}
	}
}

func generateArc(world types.World, pack *content.Pack, r *rng.RNG) (types.StoryArc, error) {
	arc := types.StoryArc{
		Phase:   types.PhaseSetup,
		Tension: world.Tension * 100,
		Pacing:  types.PacingMedium,
	}
	if len(pack.Themes) < 2 {
		return arc, fmt.Errorf("generating arc: %w", &rng.EmptyCollectionError{Pool: "themes"})
	}
	order := r.Shuffle(len(pack.Themes))
	arc.Themes = []string{pack.Themes[order[0]], pack.Themes[order[1]]}
	sort.Strings(arc.Themes)

	conflict, err := rng.PickNamed(r, "conflicts", pack.Conflicts)
	if err != nil {
		return arc, fmt.Errorf("generating arc: %w", err)
	}
	arc.CentralConflict = conflict
	return arc, nil
}
