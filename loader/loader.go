// Package loader loads Lua content packs into a content.Pack. Packs are
// merged over the built-in content, so a pack only needs to define what it
// changes. The Lua VM is discarded after loading; stories never run Lua.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/storyseed/engine/content"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	meta       *lua.LTable
	pools      []rawPool
	characters []rawCharacter
	texts      []rawText
}

// Load reads all .lua files from dir, compiles them over content.Default,
// validates the result, and returns the pack.
func Load(dir string) (*content.Pack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	luaFiles = sortedLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	pack, err := compile(coll, content.Default())
	if err != nil {
		return nil, fmt.Errorf("compiling content: %w", err)
	}
	if err := validate(pack); err != nil {
		return nil, err
	}
	return pack, nil
}

// sortedLuaFiles puts pack.lua first and the rest alphabetically, so pack
// metadata is always read before the pools that depend on it.
func sortedLuaFiles(files []string) []string {
	sorted := make([]string, 0, len(files))
	var rest []string
	for _, f := range files {
		if f == "pack.lua" {
			sorted = append(sorted, f)
		} else {
			rest = append(rest, f)
		}
	}
	sort.Strings(rest)
	return append(sorted, rest...)
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the VM or break determinism.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	if mathTbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		mathTbl.RawSetString("random", lua.LNil)
		mathTbl.RawSetString("randomseed", lua.LNil)
	}
}
