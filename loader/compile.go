package loader

import (
	"fmt"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/storyseed/engine/content"
	"github.com/nathoo/storyseed/types"
)

// rawPool holds a Pool or Extend table before compilation.
type rawPool struct {
	name   string
	extend bool
	table  *lua.LTable
}

// rawCharacter holds a Character table before compilation.
type rawCharacter struct {
	id    string
	table *lua.LTable
}

// rawText holds a Narration, ChoiceText, or ConsequenceText table.
type rawText struct {
	kind  string
	key   string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// stringList reads the array part of a table as strings.
func stringList(tbl *lua.LTable) ([]string, error) {
	n := tbl.MaxN()
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		s, ok := tbl.RawGetInt(i).(lua.LString)
		if !ok {
			return nil, fmt.Errorf("entry %d is %s, not a string", i, tbl.RawGetInt(i).Type())
		}
		out = append(out, string(s))
	}
	return out, nil
}

// compile applies the collected definitions to base and returns it.
func compile(coll *collector, base *content.Pack) (*content.Pack, error) {
	if coll.meta != nil {
		if name := getString(coll.meta, "name"); name != "" {
			base.Name = name
		}
		base.Author = getString(coll.meta, "author")
		if getBool(coll.meta, "replace_cast", false) {
			base.Templates = nil
		}
	}

	pools := base.Pools()
	for _, raw := range coll.pools {
		pool, ok := pools[raw.name]
		if !ok {
			return nil, fmt.Errorf("unknown pool %q (known: %s)", raw.name, strings.Join(poolNames(), ", "))
		}
		items, err := stringList(raw.table)
		if err != nil {
			return nil, fmt.Errorf("pool %s: %w", raw.name, err)
		}
		if raw.extend {
			*pool = append(*pool, items...)
		} else {
			*pool = items
		}
	}

	for _, raw := range coll.characters {
		tmpl, err := compileCharacter(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling character %s: %w", raw.id, err)
		}
		base.Templates = upsertTemplate(base.Templates, tmpl)
	}

	for _, raw := range coll.texts {
		items, err := stringList(raw.table)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", raw.kind, raw.key, err)
		}
		if err := setText(base, raw.kind, raw.key, items); err != nil {
			return nil, err
		}
	}

	return base, nil
}

func compileCharacter(raw rawCharacter) (content.CharacterTemplate, error) {
	tbl := raw.table
	tmpl := content.CharacterTemplate{
		ID:        raw.id,
		Name:      getString(tbl, "name"),
		Archetype: getString(tbl, "archetype"),
		Traits:    map[string]content.TraitRange{},
	}
	traits := getTable(tbl, "traits")
	if traits == nil {
		return tmpl, nil
	}
	var err error
	traits.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		name, ok := k.(lua.LString)
		if !ok {
			err = fmt.Errorf("trait key %v is not a string", k)
			return
		}
		pair, ok := v.(*lua.LTable)
		if !ok {
			err = fmt.Errorf("trait %s must be {base, range}", name)
			return
		}
		var tr content.TraitRange
		tr, err = compileTrait(string(name), pair)
		tmpl.Traits[string(name)] = tr
	})
	return tmpl, err
}

// compileTrait accepts {base, range} or {base = .., range = ..}.
func compileTrait(name string, t *lua.LTable) (content.TraitRange, error) {
	base, okBase := t.RawGetInt(1).(lua.LNumber)
	rng, okRange := t.RawGetInt(2).(lua.LNumber)
	if !okBase {
		base, okBase = t.RawGetString("base").(lua.LNumber)
	}
	if !okRange {
		rng, okRange = t.RawGetString("range").(lua.LNumber)
	}
	if !okBase || !okRange {
		return content.TraitRange{}, fmt.Errorf("trait %s must be {base, range}", name)
	}
	return content.TraitRange{Base: float64(base), Range: float64(rng)}, nil
}

// upsertTemplate replaces a template with the same id or appends it.
func upsertTemplate(list []content.CharacterTemplate, tmpl content.CharacterTemplate) []content.CharacterTemplate {
	for i := range list {
		if list[i].ID == tmpl.ID {
			list[i] = tmpl
			return list
		}
	}
	return append(list, tmpl)
}

func setText(p *content.Pack, kind, key string, items []string) error {
	switch kind {
	case textNarration:
		ct := types.ChoiceType(key)
		if !knownChoiceType(ct) || ct == types.ChoiceBinary {
			return fmt.Errorf("unknown narration type %q", key)
		}
		p.Narration[ct] = items
	case textChoice:
		if !knownChoiceKey(key) {
			return fmt.Errorf("unknown choice key %q", key)
		}
		p.Choices[key] = items
	case textConsequence:
		rule := types.ConsequenceRule(key)
		if _, ok := p.Consequences[rule]; !ok {
			return fmt.Errorf("unknown consequence rule %q", key)
		}
		p.Consequences[rule] = items
	}
	return nil
}

func knownChoiceType(ct types.ChoiceType) bool {
	for _, t := range types.ChoiceTypes {
		if t == ct {
			return true
		}
	}
	return false
}

func knownChoiceKey(key string) bool {
	for _, k := range content.ChoiceKeys {
		if k == key {
			return true
		}
	}
	return false
}

// poolNames lists the pools a pack may define, sorted.
func poolNames() []string {
	pools := (&content.Pack{}).Pools()
	names := make([]string, 0, len(pools))
	for name := range pools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
