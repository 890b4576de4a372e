package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/entity"
	"github.com/cory-johannsen/arena/internal/game/spell"
	"github.com/cory-johannsen/arena/internal/game/stat"
)

// fixedRoller returns scripted outcomes and counts calls.
type fixedRoller struct {
	chance bool
	coin   bool
	calls  int
}

func (r *fixedRoller) Chance(string, int) bool {
	r.calls++
	return r.chance
}

func (r *fixedRoller) Coin(string) bool {
	r.calls++
	return r.coin
}

func fighter(name string, hp, str, intel, def, spd int) *entity.Entity {
	return entity.New(name, stat.Block{
		stat.HP:           hp,
		stat.Strength:     str,
		stat.Intelligence: intel,
		stat.Defense:      def,
		stat.Speed:        spd,
	})
}

func TestAttack_Formula(t *testing.T) {
	a := fighter("Knight", 30, 6, 0, 0, 3)
	a.Equip(entity.Weapon{Name: "Sword", Damage: 8, Scaling: stat.Strength})
	d := fighter("Goblin", 20, 0, 0, 2, 3)
	d.EquipArmor(entity.Armor{Name: "Hide", Defense: 3})

	res := combat.Attack(a, d)
	assert.Equal(t, 14, res.Raw)
	assert.Equal(t, 5, res.Mitigation)
	assert.Equal(t, 9, res.Damage)
	assert.Equal(t, 20, res.HPBefore)
	assert.Equal(t, 11, res.HPAfter)
	assert.False(t, res.Killed)
}

func TestAttack_NegativeDamageHeals(t *testing.T) {
	a := fighter("Rat", 5, 1, 0, 0, 1)
	d := fighter("Golem", 40, 0, 0, 10, 1)
	d.SetStat(stat.HP, 30)

	res := combat.Attack(a, d)
	assert.Equal(t, -9, res.Damage)
	assert.Equal(t, 39, d.Stat(stat.HP))
}

func TestAttack_KillsAtZero(t *testing.T) {
	a := fighter("Knight", 30, 5, 0, 0, 3)
	d := fighter("Goblin", 5, 0, 0, 0, 3)
	res := combat.Attack(a, d)
	assert.True(t, res.Killed)
	assert.Equal(t, 0, d.Stat(stat.HP))
	assert.False(t, d.Alive())
}

func TestAttack_Property_DamageMatchesFormula(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		scaling := rapid.SampledFrom([]stat.Stat{stat.Strength, stat.Intelligence, stat.Speed}).Draw(rt, "scaling")
		a := fighter("A", 50,
			rapid.IntRange(0, 30).Draw(rt, "str"),
			rapid.IntRange(0, 30).Draw(rt, "int"),
			0,
			rapid.IntRange(0, 30).Draw(rt, "spd"),
		)
		a.Equip(entity.Weapon{Name: "W", Damage: rapid.IntRange(0, 30).Draw(rt, "dmg"), Scaling: scaling})
		hp := rapid.IntRange(1, 100).Draw(rt, "hp")
		d := fighter("D", hp, 0, 0, rapid.IntRange(0, 30).Draw(rt, "def"), 0)
		d.EquipArmor(entity.Armor{Name: "A", Defense: rapid.IntRange(0, 10).Draw(rt, "armor")})

		want := a.Weapon().Damage + a.Stat(scaling) - d.EffectiveDefense()
		res := combat.Attack(a, d)
		assert.Equal(rt, want, res.Damage)
		assert.Equal(rt, hp-want, d.Stat(stat.HP))
		assert.Equal(rt, hp-want <= 0, res.Killed)
	})
}

func TestCastSpell_DamageAddsIntelligence(t *testing.T) {
	mage := fighter("Mage", 20, 0, 4, 0, 2)
	target := fighter("Troll", 50, 0, 0, 20, 2)
	def := &spell.Definition{ID: "bolt", Name: "Bolt", Element: spell.ElementLightning, BaseDamage: 7, Cooldown: 2}
	require.NoError(t, mage.EquipSpell(0, def))

	res, err := combat.CastSpell(mage, mage.Spell(0), target)
	require.NoError(t, err)
	assert.Equal(t, 11, res.Damage, "spells ignore defense")
	assert.False(t, res.Weakness)
	assert.Equal(t, 39, target.Stat(stat.HP))
	assert.Equal(t, 2, mage.Spell(0).Remaining())
	assert.False(t, mage.Spell(0).Ready())
}

func TestCastSpell_WeaknessTruncates(t *testing.T) {
	mage := fighter("Mage", 20, 0, 4, 0, 2)
	target := fighter("Slime", 50, 0, 0, 0, 2)
	target.SetWeakness(spell.ElementFire)
	require.NoError(t, mage.EquipSpell(0, &spell.Definition{ID: "fire", Name: "Fire", Element: spell.ElementFire, BaseDamage: 7, Cooldown: 1}))

	res, err := combat.CastSpell(mage, mage.Spell(0), target)
	require.NoError(t, err)
	assert.True(t, res.Weakness)
	assert.Equal(t, 13, res.Damage, "11 * 1.25 = 13.75 truncates to 13")
	assert.Equal(t, 37, target.Stat(stat.HP))
}

func TestCastSpell_OnCooldownHasNoEffect(t *testing.T) {
	mage := fighter("Mage", 20, 0, 4, 0, 2)
	target := fighter("Troll", 50, 0, 0, 0, 2)
	require.NoError(t, mage.EquipSpell(0, &spell.Definition{ID: "bolt", Name: "Bolt", BaseDamage: 3, Cooldown: 3}))
	_, err := combat.CastSpell(mage, mage.Spell(0), target)
	require.NoError(t, err)
	hp := target.Stat(stat.HP)

	_, err = combat.CastSpell(mage, mage.Spell(0), target)
	assert.ErrorIs(t, err, spell.ErrOnCooldown)
	assert.Equal(t, hp, target.Stat(stat.HP))
	assert.Equal(t, 3, mage.Spell(0).Remaining())
}

func TestCastSpell_HealCapsAndIgnoresWeakness(t *testing.T) {
	cleric := entity.New("Cleric", stat.Block{stat.HP: 10, stat.MaxHP: 30, stat.Intelligence: 5})
	cleric.SetWeakness(spell.ElementHoly)
	require.NoError(t, cleric.EquipSpell(1, &spell.Definition{
		ID: "mend", Name: "Mend", Element: spell.ElementHoly, Effect: spell.EffectHeal, BaseDamage: 30,
	}))

	res, err := combat.CastSpell(cleric, cleric.Spell(1), cleric)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Healed)
	assert.False(t, res.Weakness)
	assert.Equal(t, 30, cleric.Stat(stat.HP))
	assert.True(t, cleric.Spell(1).Ready(), "zero cooldown is ready again immediately")
}

func TestCastSpell_DebuffRegistersBoostOnTarget(t *testing.T) {
	hexer := fighter("Hexer", 20, 0, 4, 0, 2)
	target := fighter("Brute", 50, 9, 0, 0, 2)
	require.NoError(t, hexer.EquipSpell(2, &spell.Definition{
		ID: "weaken", Name: "Weaken", Effect: spell.EffectDebuff, Stat: stat.Strength, Magnitude: -4, Duration: 2, Cooldown: 3,
	}))

	res, err := combat.CastSpell(hexer, hexer.Spell(2), target)
	require.NoError(t, err)
	require.NotNil(t, res.Boost)
	assert.Equal(t, 5, target.Stat(stat.Strength))
	assert.Len(t, target.Boosts(), 1)
	assert.Empty(t, hexer.Boosts())
}
