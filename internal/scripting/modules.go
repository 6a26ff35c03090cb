package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers all engine.* Lua tables into L.
//
// Modules:
//   - engine.log.{debug,info,warn,error}(msg)
//   - engine.dice.roll(expr) -> {total, dice, modifier}
//   - engine.combat.{get_hp,get_max_hp,get_name}(uid)
//   - engine.combat.{damage,heal}(uid, amount) -> ok
//   - engine.announce(msg)
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()

	engine.RawSetString("log", m.logModule(L))
	engine.RawSetString("dice", m.diceModule(L))
	engine.RawSetString("combat", m.combatModule(L))
	engine.RawSetString("announce", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		if m.Announce != nil {
			m.Announce(msg)
		}
		return 0
	}))

	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	tbl := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, logFn := range levels {
		fn := logFn
		tbl.RawSetString(name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return tbl
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("roll", L.NewFunction(func(L *lua.LState) int {
		expr := L.CheckString(1)
		result, err := m.roller.RollExpr(expr)
		if err != nil {
			L.RaiseError("dice.roll: %s", err.Error())
			return 0
		}
		faces := 0
		for _, d := range result.Dice {
			faces += d
		}
		ret := L.NewTable()
		ret.RawSetString("total", lua.LNumber(result.Total()))
		ret.RawSetString("dice", lua.LNumber(faces))
		ret.RawSetString("modifier", lua.LNumber(result.Modifier))
		L.Push(ret)
		return 1
	}))
	return tbl
}

func (m *Manager) combatModule(L *lua.LState) *lua.LTable {
	tbl := L.NewTable()

	lookup := func(uid string) *CombatantInfo {
		if m.GetCombatant == nil {
			return nil
		}
		return m.GetCombatant(uid)
	}

	tbl.RawSetString("get_hp", L.NewFunction(func(L *lua.LState) int {
		if info := lookup(L.CheckString(1)); info != nil {
			L.Push(lua.LNumber(info.HP))
		} else {
			L.Push(lua.LNil)
		}
		return 1
	}))
	tbl.RawSetString("get_max_hp", L.NewFunction(func(L *lua.LState) int {
		if info := lookup(L.CheckString(1)); info != nil {
			L.Push(lua.LNumber(info.MaxHP))
		} else {
			L.Push(lua.LNil)
		}
		return 1
	}))
	tbl.RawSetString("get_name", L.NewFunction(func(L *lua.LState) int {
		if info := lookup(L.CheckString(1)); info != nil {
			L.Push(lua.LString(info.Name))
		} else {
			L.Push(lua.LNil)
		}
		return 1
	}))
	tbl.RawSetString("damage", L.NewFunction(func(L *lua.LState) int {
		uid := L.CheckString(1)
		amount := L.CheckInt(2)
		if m.ApplyDamage == nil {
			L.Push(lua.LFalse)
			return 1
		}
		if err := m.ApplyDamage(uid, amount); err != nil {
			m.logger.Warn("scripting: damage callback failed",
				zap.String("uid", uid), zap.Error(err))
			L.Push(lua.LFalse)
			return 1
		}
		L.Push(lua.LTrue)
		return 1
	}))
	tbl.RawSetString("heal", L.NewFunction(func(L *lua.LState) int {
		uid := L.CheckString(1)
		amount := L.CheckInt(2)
		if m.ApplyHealing == nil {
			L.Push(lua.LFalse)
			return 1
		}
		if err := m.ApplyHealing(uid, amount); err != nil {
			m.logger.Warn("scripting: heal callback failed",
				zap.String("uid", uid), zap.Error(err))
			L.Push(lua.LFalse)
			return 1
		}
		L.Push(lua.LTrue)
		return 1
	}))

	return tbl
}
