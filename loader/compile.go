package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"
)

// rawDef holds an id-tagged table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// collector accumulates Lua definitions during file execution.
type collector struct {
	scenario  *lua.LTable
	events    []rawDef
	actions   []rawDef
	relevance []rawDef
}

// runLua executes the Lua sources in order in a sandboxed VM and compiles
// what they declared into a JSON scenario document. The VM is discarded
// afterwards.
func runLua(sources map[string][]byte, order []string) ([]byte, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, name := range order {
		fn, err := L.Load(bytes.NewReader(sources[name]), name)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		L.Push(fn)
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			return nil, fmt.Errorf("executing %s: %w", name, err)
		}
	}

	doc, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling scenario: %w", err)
	}
	return json.Marshal(doc)
}

// compile turns collected tables into the generic scenario document shape.
func compile(coll *collector) (map[string]any, error) {
	if coll.scenario == nil {
		return nil, fmt.Errorf("no Scenario {} block found")
	}
	doc, ok := toGoValue(coll.scenario).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("Scenario {} must be a table of fields")
	}

	events := make([]any, 0, len(coll.events))
	for _, raw := range coll.events {
		m, err := compileDef("Event", raw)
		if err != nil {
			return nil, err
		}
		events = append(events, m)
	}
	actions := make([]any, 0, len(coll.actions))
	for _, raw := range coll.actions {
		m, err := compileDef("Action", raw)
		if err != nil {
			return nil, err
		}
		actions = append(actions, m)
	}
	doc["events"] = events
	doc["actions"] = actions

	if len(coll.relevance) > 0 {
		rel, _ := doc["relevance"].(map[string]any)
		if rel == nil {
			rel = map[string]any{}
		}
		for _, raw := range coll.relevance {
			cats, ok := toGoValue(raw.table).([]any)
			if !ok {
				return nil, fmt.Errorf("Relevance %q must be a list of categories", raw.id)
			}
			rel[raw.id] = cats
		}
		doc["relevance"] = rel
	}
	return doc, nil
}

func compileDef(kind string, raw rawDef) (map[string]any, error) {
	m, ok := toGoValue(raw.table).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s %q must be a table of fields", kind, raw.id)
	}
	m["id"] = raw.id
	return m, nil
}

// toGoValue converts a Lua value to a Go value recursively.
// Empty tables become empty maps.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Check if it's an array (sequential integer keys starting at 1).
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		// Otherwise treat as map.
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the VM.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "print",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Content may not reseed or draw from the shared generator.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
			tbl.RawSetString("random", lua.LNil)
		}
	}
}

// sortedLuaFiles puts scenario.lua first, the rest alphabetical.
func sortedLuaFiles(files []string) []string {
	var entry string
	var others []string
	for _, f := range files {
		if f == luaEntry {
			entry = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if entry != "" {
		return append([]string{entry}, others...)
	}
	return others
}
