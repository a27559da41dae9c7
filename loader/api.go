package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// Text kinds a TextSet can target.
const (
	textNarration   = "narration"
	textChoice      = "choice"
	textConsequence = "consequence"
)

// registerAPI registers the content constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Pack { name = "...", author = "...", replace_cast = false }
	L.SetGlobal("Pack", L.NewFunction(func(L *lua.LState) int {
		coll.meta = L.CheckTable(1)
		return 0
	}))

	// Pool "roles" { "a", "b" } replaces a pool.
	L.SetGlobal("Pool", L.NewFunction(curried(func(name string, tbl *lua.LTable) {
		coll.pools = append(coll.pools, rawPool{name: name, table: tbl})
	})))

	// Extend "themes" { "c" } appends to a pool.
	L.SetGlobal("Extend", L.NewFunction(curried(func(name string, tbl *lua.LTable) {
		coll.pools = append(coll.pools, rawPool{name: name, extend: true, table: tbl})
	})))

	// Character "id" { name = "...", archetype = "...", traits = { courage = {50, 30} } }
	L.SetGlobal("Character", L.NewFunction(curried(func(id string, tbl *lua.LTable) {
		coll.characters = append(coll.characters, rawCharacter{id: id, table: tbl})
	})))

	// Narration "gesture" { "template", ... }
	L.SetGlobal("Narration", L.NewFunction(curried(func(key string, tbl *lua.LTable) {
		coll.texts = append(coll.texts, rawText{kind: textNarration, key: key, table: tbl})
	})))

	// ChoiceText "comfort" { "template", ... }
	L.SetGlobal("ChoiceText", L.NewFunction(curried(func(key string, tbl *lua.LTable) {
		coll.texts = append(coll.texts, rawText{kind: textChoice, key: key, table: tbl})
	})))

	// ConsequenceText "gesture" { "template", ... }
	L.SetGlobal("ConsequenceText", L.NewFunction(curried(func(key string, tbl *lua.LTable) {
		coll.texts = append(coll.texts, rawText{kind: textConsequence, key: key, table: tbl})
	})))
}

// curried builds a Name "id" { ... } constructor: the first call takes the
// id and returns a function taking the table.
func curried(fn func(string, *lua.LTable)) lua.LGFunction {
	return func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			fn(id, L.CheckTable(1))
			return 0
		}))
		return 1
	}
}
