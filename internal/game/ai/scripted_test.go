package ai_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/ai"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/item"
	"github.com/cory-johannsen/arena/internal/game/stat"
	"github.com/cory-johannsen/arena/internal/scripting"
)

func newScripts(t *testing.T, name, src string) *scripting.Manager {
	t.Helper()
	mgr := scripting.NewManager(nil, 0, zap.NewNop())
	require.NoError(t, mgr.LoadString(name, src))
	t.Cleanup(mgr.Close)
	return mgr
}

func TestScriptedPolicy_ReadsState(t *testing.T) {
	mgr := newScripts(t, "duelist", `
		function decide(state)
			if state.self.hp_percent < 50 and state.self.items[2] then
				return "item:2"
			end
			if state.self.spells[1] and state.self.spells[1].ready and state.opponent.weakness == "lightning" then
				return "spell:1"
			end
			return "attack"
		end
	`)
	self := newEntity("Duelist", 100, 100)
	foe := newEntity("Hero", 50, 50)
	require.NoError(t, self.EquipSpell(0, bolt))
	potion := item.NewPotion("potion", "Potion", 20)
	require.NoError(t, self.EquipConsumable(1, potion))
	p := ai.NewScriptedPolicy(mgr, "duelist", nil)

	assert.Equal(t, combat.ActionAttack, p.Decide(self, foe).Kind())

	foe.SetWeakness("lightning")
	a := p.Decide(self, foe)
	require.Equal(t, combat.ActionCastSpell, a.Kind())
	assert.Same(t, foe, a.Target())

	self.SetStat(stat.HP, 40)
	a = p.Decide(self, foe)
	require.Equal(t, combat.ActionUseItem, a.Kind())
	assert.Same(t, potion, a.Item())
}

func TestScriptedPolicy_FallsBackToAttack(t *testing.T) {
	cases := map[string]string{
		"nonsense":     `function decide() return "dance" end`,
		"empty slot":   `function decide() return "spell:3" end`,
		"bad slot":     `function decide() return "item:x" end`,
		"runtime":      `function decide() error("boom") end`,
		"no hook":      `-- nothing here`,
		"wrong type":   `function decide() return {} end`,
		"out of range": `function decide() return "spell:9" end`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			mgr := newScripts(t, "s", src)
			self := newEntity("Enemy", 10, 10)
			foe := newEntity("Hero", 10, 10)
			a := ai.NewScriptedPolicy(mgr, "s", nil).Decide(self, foe)
			assert.Equal(t, combat.ActionAttack, a.Kind())
			assert.Same(t, foe, a.Target())
		})
	}
}

func TestScriptedPolicy_UnreadySpellFallsBack(t *testing.T) {
	mgr := newScripts(t, "s", `function decide() return "spell:1" end`)
	self := newEntity("Enemy", 10, 10)
	require.NoError(t, self.EquipSpell(0, bolt))
	require.NoError(t, self.Spell(0).Trigger())
	a := ai.NewScriptedPolicy(mgr, "s", nil).Decide(self, newEntity("Hero", 10, 10))
	assert.Equal(t, combat.ActionAttack, a.Kind())
}

func TestParseChoice_SelfTargetedSpells(t *testing.T) {
	self := newEntity("Enemy", 10, 10)
	foe := newEntity("Hero", 10, 10)
	require.NoError(t, self.EquipSpell(0, mend))
	require.NoError(t, self.EquipSpell(1, rage))
	require.NoError(t, self.EquipSpell(2, hex))

	for slot, want := range map[string]any{"spell:1": self, "spell:2": self, "spell:3": foe} {
		a, ok := ai.ParseChoice(slot, self, foe)
		require.True(t, ok, slot)
		assert.Same(t, want, a.Target(), slot)
	}
	a, ok := ai.ParseChoice(" FLEE ", self, foe)
	assert.True(t, ok)
	assert.Equal(t, combat.ActionFlee, a.Kind())
}

type failingCaller struct{}

func (failingCaller) Call(string, string, ...lua.LValue) (lua.LValue, error) {
	return lua.LNil, errors.New("unavailable")
}

func TestScriptedPolicy_CallerError(t *testing.T) {
	self := newEntity("Enemy", 10, 10)
	a := ai.NewScriptedPolicy(failingCaller{}, "missing", nil).Decide(self, newEntity("Hero", 10, 10))
	assert.Equal(t, combat.ActionAttack, a.Kind())
}

func TestEntityTable(t *testing.T) {
	e := newEntity("Enemy", 10, 20)
	require.NoError(t, e.EquipSpell(1, bolt))
	tbl := ai.EntityTable(e)
	assert.Equal(t, lua.LString("Enemy"), tbl.RawGetString("name"))
	assert.Equal(t, lua.LNumber(50), tbl.RawGetString("hp_percent"))
	assert.Equal(t, lua.LNumber(5), tbl.RawGetString("strength"))
	spells := tbl.RawGetString("spells").(*lua.LTable)
	assert.Equal(t, lua.LFalse, spells.RawGetInt(1))
	bt := spells.RawGetInt(2).(*lua.LTable)
	assert.Equal(t, lua.LString("bolt"), bt.RawGetString("id"))
	assert.Equal(t, lua.LTrue, bt.RawGetString("ready"))
}

func TestScriptedPolicy_StateTablesSupportLuaOperators(t *testing.T) {
	mgr := newScripts(t, "s", `
		function decide(state)
			local slots = 0
			for _, s in ipairs(state.self.spells) do slots = slots + 1 end
			if #state.self.items == 3 and slots == 3 and state.self.missing == nil and state.self.items[3] == false then
				return "flee"
			end
			return "attack"
		end
	`)
	a := ai.NewScriptedPolicy(mgr, "s", nil).Decide(newEntity("Enemy", 10, 10), newEntity("Hero", 10, 10))
	assert.Equal(t, combat.ActionFlee, a.Kind())
}
