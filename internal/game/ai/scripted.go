package ai

import (
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/entity"
	"github.com/cory-johannsen/arena/internal/game/spell"
	"github.com/cory-johannsen/arena/internal/game/stat"
)

// DecideHook is the Lua global a behaviour script must define.
const DecideHook = "decide"

// ScriptCaller evaluates a hook in a named Lua script.
// *scripting.Manager satisfies it.
type ScriptCaller interface {
	// Call returns (LNil, nil) when the hook is undefined or fails at runtime.
	Call(script, hook string, args ...lua.LValue) (lua.LValue, error)
}

// ScriptedPolicy asks a Lua script for the enemy's action.
//
// The script's decide(state) receives a table with self and opponent entries
// (see EntityTable) and returns one of:
//
//	"attack"    basic attack on the opponent
//	"flee"      attempt to escape
//	"spell:N"   cast the spell in slot N (1-based); damage and debuff spells
//	            target the opponent, heal and buff spells target self
//	"item:N"    use the consumable in slot N (1-based)
//
// Anything else, including an unready spell or an empty slot, becomes a basic attack.
type ScriptedPolicy struct {
	caller ScriptCaller
	script string
	logger *zap.Logger
}

// NewScriptedPolicy binds script to caller.
//
// Precondition: caller must be non-nil.
func NewScriptedPolicy(caller ScriptCaller, script string, logger *zap.Logger) *ScriptedPolicy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScriptedPolicy{caller: caller, script: script, logger: logger}
}

// Decide implements combat.EnemyPolicy.
func (s *ScriptedPolicy) Decide(self, opponent *entity.Entity) combat.Action {
	state := newTable()
	state.RawSetString("self", EntityTable(self))
	state.RawSetString("opponent", EntityTable(opponent))

	ret, err := s.caller.Call(s.script, DecideHook, state)
	if err != nil {
		s.logger.Warn("scripted policy call failed", zap.String("script", s.script), zap.Error(err))
		return combat.AttackAction(self, opponent)
	}
	choice := lua.LVAsString(ret)
	a, ok := ParseChoice(choice, self, opponent)
	if !ok {
		s.logger.Debug("scripted policy fell back to attack",
			zap.String("script", s.script),
			zap.String("choice", choice),
		)
	}
	return a
}

// ParseChoice converts a script's choice string into a legal action for self.
// ok is false when the choice was unusable and a basic attack was substituted.
func ParseChoice(choice string, self, opponent *entity.Entity) (a combat.Action, ok bool) {
	fallback := combat.AttackAction(self, opponent)
	kind, arg, _ := strings.Cut(strings.TrimSpace(strings.ToLower(choice)), ":")
	switch kind {
	case "attack":
		return fallback, true
	case "flee":
		return combat.FleeAction(self), true
	case "spell":
		slot, err := strconv.Atoi(arg)
		if err != nil {
			return fallback, false
		}
		inst := self.Spell(slot - 1)
		if inst == nil || !inst.Ready() {
			return fallback, false
		}
		target := opponent
		switch inst.Definition().Kind() {
		case spell.EffectHeal, spell.EffectBuff:
			target = self
		}
		return combat.CastAction(self, inst, target), true
	case "item":
		slot, err := strconv.Atoi(arg)
		if err != nil {
			return fallback, false
		}
		c := self.Consumable(slot - 1)
		if c == nil {
			return fallback, false
		}
		return combat.UseItemAction(self, c), true
	default:
		return fallback, false
	}
}

// EntityTable renders e as a Lua table:
//
//	name, weakness, hp_percent, and every stat by name (hp, max_hp, strength, ...)
//	spells[1..3]  {id, name, effect, element, ready, remaining} or false for an empty slot
//	items[1..3]   {id, name} or false for an empty slot
func EntityTable(e *entity.Entity) *lua.LTable {
	t := newTable()
	t.RawSetString("name", lua.LString(e.Name()))
	t.RawSetString("weakness", lua.LString(string(e.Weakness())))
	t.RawSetString("hp_percent", lua.LNumber(e.HPPercent()))
	for _, s := range stat.All() {
		t.RawSetString(s.String(), lua.LNumber(e.Stat(s)))
	}

	spells := newTable()
	for i, inst := range e.Spells() {
		if inst == nil {
			spells.RawSetInt(i+1, lua.LFalse)
			continue
		}
		def := inst.Definition()
		st := newTable()
		st.RawSetString("id", lua.LString(def.ID))
		st.RawSetString("name", lua.LString(def.Name))
		st.RawSetString("effect", lua.LString(string(def.Kind())))
		st.RawSetString("element", lua.LString(string(def.Element)))
		st.RawSetString("ready", lua.LBool(inst.Ready()))
		st.RawSetString("remaining", lua.LNumber(inst.Remaining()))
		spells.RawSetInt(i+1, st)
	}
	t.RawSetString("spells", spells)

	items := newTable()
	for i, c := range e.Consumables() {
		if c == nil {
			items.RawSetInt(i+1, lua.LFalse)
			continue
		}
		it := newTable()
		it.RawSetString("id", lua.LString(c.ID()))
		it.RawSetString("name", lua.LString(c.Name()))
		items.RawSetInt(i+1, it)
	}
	t.RawSetString("items", items)
	return t
}

// newTable returns an empty table usable outside any LState.
func newTable() *lua.LTable {
	return &lua.LTable{Metatable: lua.LNil}
}
