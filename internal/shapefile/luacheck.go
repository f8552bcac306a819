package shapefile

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// luaCheckInstructionLimit caps how many opcodes the verification VM may
// execute. Evaluating a data literal is cheap; anything that runs longer is
// not a shape file.
const luaCheckInstructionLimit = 1_000_000

// CheckLua verifies that text is loadable by a real Lua VM as a single table
// expression. The restricted parser accepts only the shape-file subset, so
// this is a diagnostic aid: when Parse rejects a file, CheckLua distinguishes
// "valid Lua this tool does not support" from "not Lua at all".
//
// Postcondition: returns nil when "return <text>" evaluates to a table.
func CheckLua(text string) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	ctx, cancel := newCountingContext(luaCheckInstructionLimit)
	defer cancel()
	L.SetContext(ctx)

	if err := L.DoString("return " + text); err != nil {
		return fmt.Errorf("lua check: %w", err)
	}
	ret := L.Get(-1)
	if _, ok := ret.(*lua.LTable); !ok {
		return fmt.Errorf("lua check: document evaluates to %s, not a table", ret.Type())
	}
	return nil
}
