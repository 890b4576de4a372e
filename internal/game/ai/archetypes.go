package ai

import (
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/entity"
	"github.com/cory-johannsen/arena/internal/game/spell"
)

// firstSpell returns the lowest-slot spell of effect held by e, or nil.
func firstSpell(e *entity.Entity, effect spell.Effect) *spell.Instance {
	for _, inst := range e.Spells() {
		if inst != nil && inst.Definition().Kind() == effect {
			return inst
		}
	}
	return nil
}

// firstReadySpell returns the lowest-slot ready spell of effect held by e, or nil.
func firstReadySpell(e *entity.Entity, effect spell.Effect) *spell.Instance {
	for _, inst := range e.Spells() {
		if inst != nil && inst.Ready() && inst.Definition().Kind() == effect {
			return inst
		}
	}
	return nil
}

func lowHealth(e *entity.Entity, p Params) bool {
	return e.HPPercent() < float64(p.LowHealthPercent)
}

// offense returns e's current value of its weapon's scaling stat.
func offense(e *entity.Entity) int {
	return e.Stat(e.Weapon().Scaling)
}

// AggressivePolicy attacks, except when below the low-health threshold with a
// ready buff spell, in which case it buffs itself.
func AggressivePolicy(self, opponent *entity.Entity, p Params) combat.Action {
	if lowHealth(self, p) {
		if inst := firstReadySpell(self, spell.EffectBuff); inst != nil {
			return combat.CastAction(self, inst, self)
		}
	}
	return combat.AttackAction(self, opponent)
}

// CasterPolicy casts its primary offensive spell, the lowest-slot damage spell,
// at the opponent whenever it is ready, and attacks otherwise.
func CasterPolicy(self, opponent *entity.Entity, _ Params) combat.Action {
	if inst := firstSpell(self, spell.EffectDamage); inst != nil && inst.Ready() {
		return combat.CastAction(self, inst, opponent)
	}
	return combat.AttackAction(self, opponent)
}

// SupportPolicy heals itself below the low-health threshold when a heal spell
// is ready, and attacks otherwise.
func SupportPolicy(self, opponent *entity.Entity, p Params) combat.Action {
	if lowHealth(self, p) {
		if inst := firstReadySpell(self, spell.EffectHeal); inst != nil {
			return combat.CastAction(self, inst, self)
		}
	}
	return combat.AttackAction(self, opponent)
}

// TacticianPolicy debuffs the opponent when the opponent's offensive stat
// exceeds its own and a debuff spell is ready, and attacks otherwise.
// A stat tie attacks.
func TacticianPolicy(self, opponent *entity.Entity, _ Params) combat.Action {
	if offense(opponent) > offense(self) {
		if inst := firstReadySpell(self, spell.EffectDebuff); inst != nil {
			return combat.CastAction(self, inst, opponent)
		}
	}
	return combat.AttackAction(self, opponent)
}
