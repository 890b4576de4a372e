package combat

import (
	"github.com/cory-johannsen/arena/internal/game/entity"
	"github.com/cory-johannsen/arena/internal/game/spell"
	"github.com/cory-johannsen/arena/internal/game/stat"
)

// AttackResult holds the outcome of a basic attack.
type AttackResult struct {
	Attacker   string
	Target     string
	Raw        int // weapon damage plus the attacker's scaling stat
	Mitigation int // target DEFENSE plus armor defense
	Damage     int // Raw - Mitigation; negative heals the target
	HPBefore   int
	HPAfter    int
	Killed     bool
}

// Attack resolves a basic weapon attack and applies it to target.
//
// damage = weapon.Damage + attacker[weapon.Scaling] - (target[DEFENSE] + armor.Defense)
//
// The result is applied with no floor: a negative result heals the target.
//
// Precondition: attacker and target must be non-nil.
// Postcondition: target HP decreased by Damage; Killed iff target HP <= 0 afterwards.
func Attack(attacker, target *entity.Entity) AttackResult {
	w := attacker.Weapon()
	raw := w.Damage + attacker.Stat(w.Scaling)
	mitigation := target.EffectiveDefense()
	dmg := raw - mitigation

	before := target.Stat(stat.HP)
	target.ApplyDamage(dmg)
	return AttackResult{
		Attacker:   attacker.Name(),
		Target:     target.Name(),
		Raw:        raw,
		Mitigation: mitigation,
		Damage:     dmg,
		HPBefore:   before,
		HPAfter:    target.Stat(stat.HP),
		Killed:     !target.Alive(),
	}
}

// SpellResult holds the outcome of a successful cast.
type SpellResult struct {
	Caster string
	Target string
	Spell  string
	Effect spell.Effect

	// Power is BaseDamage + caster INTELLIGENCE, after any weakness bonus.
	// For buffs and debuffs it is the boost magnitude.
	Power int

	Weakness bool
	Damage   int
	Healed   int
	Boost    *entity.Boost
	HPBefore int
	HPAfter  int
	Killed   bool
	Cooldown int
}

// weaknessPower applies the 1.25 weakness multiplier with integer semantics.
// 5*p/4 equals 1.25*p exactly and Go integer division truncates toward zero.
func weaknessPower(p int) int {
	return p * 5 / 4
}

// CastSpell resolves inst cast by caster at target.
//
// If inst is on cooldown, CastSpell returns spell.ErrOnCooldown and nothing changes.
// Otherwise the spell's effect is applied and its cooldown counter is set to its max:
//   - damage: power = BaseDamage + caster[INTELLIGENCE], x1.25 (truncated) when the
//     spell's element equals target's weakness; applied like Attack damage.
//   - heal: target heals by power, capped at MaxHP.
//   - buff/debuff: a Boost of Magnitude on Stat for Duration turns is registered on target.
//
// Precondition: caster, inst and target must be non-nil.
// Postcondition: on error, target HP and inst.Remaining() are unchanged.
func CastSpell(caster *entity.Entity, inst *spell.Instance, target *entity.Entity) (SpellResult, error) {
	if !inst.Ready() {
		return SpellResult{}, spell.ErrOnCooldown
	}
	def := inst.Definition()
	res := SpellResult{
		Caster:   caster.Name(),
		Target:   target.Name(),
		Spell:    def.Name,
		Effect:   def.Kind(),
		HPBefore: target.Stat(stat.HP),
	}

	switch def.Kind() {
	case spell.EffectDamage:
		power := def.BaseDamage + caster.Stat(stat.Intelligence)
		if def.Element != "" && def.Element != spell.ElementNone && def.Element == target.Weakness() {
			power = weaknessPower(power)
			res.Weakness = true
		}
		res.Power = power
		res.Damage = power
		target.ApplyDamage(power)
	case spell.EffectHeal:
		power := def.BaseDamage + caster.Stat(stat.Intelligence)
		res.Power = power
		res.Healed = target.Heal(power)
	case spell.EffectBuff, spell.EffectDebuff:
		res.Power = def.Magnitude
		res.Boost = target.AddBoost(def.Stat, def.Magnitude, def.Duration)
	}

	// Ready() was checked above, so Trigger cannot fail here.
	_ = inst.Trigger()
	res.Cooldown = inst.Remaining()
	res.HPAfter = target.Stat(stat.HP)
	res.Killed = !target.Alive()
	return res, nil
}
