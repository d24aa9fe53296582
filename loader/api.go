package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the scenario constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Scenario { initialState = {...}, winCondition = {...}, i18n = {...}, ... }
	L.SetGlobal("Scenario", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		if coll.scenario != nil {
			L.RaiseError("Scenario defined more than once")
		}
		coll.scenario = tbl
		return 0
	}))

	// Event "id" { ... }: curried, Event("id") returns a function that takes a table.
	L.SetGlobal("Event", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.events = append(coll.events, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Action "id" { ... }, curried.
	L.SetGlobal("Action", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.actions = append(coll.actions, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Relevance "event_id" { "prepare", "defend" }, curried.
	L.SetGlobal("Relevance", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.relevance = append(coll.relevance, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Text { en = "...", vi = "..." }: pass-through, returns the table.
	L.SetGlobal("Text", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		L.Push(tbl)
		return 1
	}))

	// Quiz { question = Text{...}, options = { Text{...}, ... }, answer = 2 }
	// answer is 1-based like Lua arrays; it is stored 0-based.
	L.SetGlobal("Quiz", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		if n, ok := tbl.RawGetString("answer").(lua.LNumber); ok {
			tbl.RawSetString("correctAnswer", n-1)
			tbl.RawSetString("answer", lua.LNil)
		}
		L.Push(tbl)
		return 1
	}))
}
