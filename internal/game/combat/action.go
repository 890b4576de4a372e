package combat

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/entity"
	"github.com/cory-johannsen/arena/internal/game/spell"
)

// ActionKind identifies what a combatant intends to do on their turn.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionKind int

const (
	ActionUnknown   ActionKind = iota // zero value; intentionally invalid
	ActionAttack                      // basic weapon attack
	ActionCastSpell                   // cast an equipped spell instance
	ActionUseItem                     // consume an equipped item
	ActionFlee                        // attempt to escape the encounter
)

// String returns the human-readable name of the ActionKind.
// Postcondition: returns "attack", "cast", "use", "flee", or "unknown".
func (k ActionKind) String() string {
	switch k {
	case ActionAttack:
		return "attack"
	case ActionCastSpell:
		return "cast"
	case ActionUseItem:
		return "use"
	case ActionFlee:
		return "flee"
	default:
		return "unknown"
	}
}

// Action is one combatant's intent for a turn. Actions are immutable once
// constructed and are built only through AttackAction, CastAction, UseItemAction and FleeAction.
type Action struct {
	kind   ActionKind
	actor  *entity.Entity
	target *entity.Entity
	spell  *spell.Instance
	item   entity.Consumable
}

// AttackAction builds a basic attack by actor against target.
func AttackAction(actor, target *entity.Entity) Action {
	return Action{kind: ActionAttack, actor: actor, target: target}
}

// CastAction builds a spell cast of inst by caster at target.
func CastAction(caster *entity.Entity, inst *spell.Instance, target *entity.Entity) Action {
	return Action{kind: ActionCastSpell, actor: caster, target: target, spell: inst}
}

// UseItemAction builds the consumption of item by user.
func UseItemAction(user *entity.Entity, item entity.Consumable) Action {
	return Action{kind: ActionUseItem, actor: user, target: user, item: item}
}

// FleeAction builds an escape attempt by actor.
func FleeAction(actor *entity.Entity) Action {
	return Action{kind: ActionFlee, actor: actor}
}

// Kind returns what the action does.
func (a Action) Kind() ActionKind { return a.kind }

// Actor returns the combatant performing the action.
func (a Action) Actor() *entity.Entity { return a.actor }

// Target returns the combatant the action affects. Nil for a flee.
func (a Action) Target() *entity.Entity { return a.target }

// Spell returns the spell instance being cast, or nil.
func (a Action) Spell() *spell.Instance { return a.spell }

// Item returns the consumable being used, or nil.
func (a Action) Item() entity.Consumable { return a.item }

// IsZero reports whether a is the zero Action.
func (a Action) IsZero() bool { return a.kind == ActionUnknown }

// String renders a short description for logs.
func (a Action) String() string {
	name := func(e *entity.Entity) string {
		if e == nil {
			return "<nil>"
		}
		return e.Name()
	}
	switch a.kind {
	case ActionAttack:
		return fmt.Sprintf("%s attacks %s", name(a.actor), name(a.target))
	case ActionCastSpell:
		sp := "<nil>"
		if a.spell != nil {
			sp = a.spell.Name()
		}
		return fmt.Sprintf("%s casts %s at %s", name(a.actor), sp, name(a.target))
	case ActionUseItem:
		it := "<nil>"
		if a.item != nil {
			it = a.item.Name()
		}
		return fmt.Sprintf("%s uses %s", name(a.actor), it)
	case ActionFlee:
		return fmt.Sprintf("%s tries to flee", name(a.actor))
	default:
		return "unknown action"
	}
}

// Execute resolves a against the live entities and returns what happened.
//
// A cast of a spell the caster does not hold, or one still on cooldown, is a
// no-op. So is use of an item not present in the user's slots. A no-op still
// consumes the actor's action for the turn.
//
// Precondition: a was built by one of the Action constructors; roller must be non-nil.
// Postcondition: Event.NoOp is true iff no game state changed.
func Execute(a Action, roller Roller, rules Rules) Event {
	ev := Event{Kind: a.kind}
	if a.actor != nil {
		ev.Actor = a.actor.Name()
	}
	if a.target != nil {
		ev.Target = a.target.Name()
	}

	switch a.kind {
	case ActionAttack:
		if a.actor == nil || a.target == nil {
			return noOp(ev, "the attack has no target")
		}
		res := Attack(a.actor, a.target)
		ev.Attack = &res
		ev.Damage = res.Damage
		ev.Killed = res.Killed
		if res.Damage < 0 {
			ev.Narrative = fmt.Sprintf("%s's blow glances off %s and somehow mends %d HP.", res.Attacker, res.Target, -res.Damage)
		} else {
			ev.Narrative = fmt.Sprintf("%s hits %s for %d damage.", res.Attacker, res.Target, res.Damage)
		}
	case ActionCastSpell:
		if a.actor == nil || a.target == nil || a.spell == nil || !a.actor.HasSpell(a.spell) {
			return noOp(ev, fmt.Sprintf("%s fumbles a spell they do not know.", ev.Actor))
		}
		res, err := CastSpell(a.actor, a.spell, a.target)
		if err != nil {
			return noOp(ev, fmt.Sprintf("%s tries to cast %s, but it is still recharging (%d).", ev.Actor, a.spell.Name(), a.spell.Remaining()))
		}
		ev.Spell = &res
		ev.Damage = res.Damage
		ev.Healed = res.Healed
		ev.Killed = res.Killed
		ev.Narrative = spellNarrative(res)
	case ActionUseItem:
		if a.actor == nil || a.item == nil || !a.actor.HasConsumable(a.item) {
			return noOp(ev, fmt.Sprintf("%s rummages for an item they do not have.", ev.Actor))
		}
		ev.Narrative = a.item.Use(a.actor)
		a.actor.ClearConsumable(a.item)
		ev.Killed = !a.actor.Alive()
	case ActionFlee:
		if a.actor == nil {
			return noOp(ev, "nobody tries to flee")
		}
		ev.Fled = roller.Chance("flee", rules.FleeChance)
		if ev.Fled {
			ev.Narrative = fmt.Sprintf("%s escapes!", ev.Actor)
		} else {
			ev.Narrative = fmt.Sprintf("%s tries to flee but is cut off.", ev.Actor)
		}
	default:
		return noOp(ev, "nothing happens")
	}
	return ev
}

func noOp(ev Event, narrative string) Event {
	ev.NoOp = true
	ev.Narrative = narrative
	return ev
}

func spellNarrative(r SpellResult) string {
	switch r.Effect {
	case spell.EffectHeal:
		return fmt.Sprintf("%s casts %s on %s, restoring %d HP.", r.Caster, r.Spell, r.Target, r.Healed)
	case spell.EffectBuff, spell.EffectDebuff:
		b := r.Boost
		return fmt.Sprintf("%s casts %s on %s: %s %+d for %d turns.", r.Caster, r.Spell, r.Target, b.Stat(), b.Magnitude(), b.Remaining())
	default:
		suffix := ""
		if r.Weakness {
			suffix = " It's super effective!"
		}
		return fmt.Sprintf("%s casts %s at %s for %d damage.%s", r.Caster, r.Spell, r.Target, r.Damage, suffix)
	}
}
