// Package entity implements the mutable per-combatant state used by the encounter engine:
// stats, equipment, spell and consumable slots, and temporary stat boosts.
package entity

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/spell"
	"github.com/cory-johannsen/arena/internal/game/stat"
)

// Slots is the number of spell slots and the number of consumable slots.
const Slots = 3

// ErrSlotOutOfRange is returned for a slot index outside [0, Slots).
var ErrSlotOutOfRange = errors.New("slot out of range")

// Entity is one combat participant. Entities outlive a single encounter.
//
// Entity is not safe for concurrent use. During an encounter it is mutated only
// by the encounter worker; other goroutines may only read it between turns.
type Entity struct {
	name        string
	stats       stat.Block
	weakness    spell.Element
	weapon      Weapon
	armor       Armor
	spells      [Slots]*spell.Instance
	consumables [Slots]Consumable
	boosts      []*Boost
}

// New creates an Entity with the given stats. Missing stats default to zero;
// a missing MaxHP defaults to the initial HP.
//
// Postcondition: Name() == name; Weapon() == Unarmed.
func New(name string, stats stat.Block) *Entity {
	b := make(stat.Block, len(stat.All()))
	for _, s := range stat.All() {
		b[s] = stats[s]
	}
	if _, ok := stats[stat.MaxHP]; !ok {
		b[stat.MaxHP] = b[stat.HP]
	}
	return &Entity{name: name, stats: b, weapon: Unarmed, weakness: spell.ElementNone}
}

// Name returns the immutable entity name.
func (e *Entity) Name() string { return e.name }

// Stat returns the current value of s, including active boosts.
func (e *Entity) Stat(s stat.Stat) int { return e.stats.Get(s) }

// SetStat assigns v to s.
func (e *Entity) SetStat(s stat.Stat, v int) { e.stats.Set(s, v) }

// AddStat adds delta to s and returns the new value.
func (e *Entity) AddStat(s stat.Stat, delta int) int { return e.stats.Add(s, delta) }

// Stats returns a copy of the stat block.
func (e *Entity) Stats() stat.Block { return e.stats.Clone() }

// Alive reports whether HP > 0. It is always derived from the stat block.
func (e *Entity) Alive() bool { return e.stats.Get(stat.HP) > 0 }

// HPPercent returns current HP as a percentage of MaxHP; 0 if MaxHP <= 0.
func (e *Entity) HPPercent() float64 {
	maxHP := e.stats.Get(stat.MaxHP)
	if maxHP <= 0 {
		return 0
	}
	return float64(e.stats.Get(stat.HP)) / float64(maxHP) * 100
}

// ApplyDamage subtracts amount from HP with no floor. A negative amount heals
// and is not capped by MaxHP.
//
// Postcondition: Stat(HP) decreased by amount.
func (e *Entity) ApplyDamage(amount int) {
	e.stats.Add(stat.HP, -amount)
}

// Heal restores up to amount HP without exceeding MaxHP and returns the HP gained.
//
// Postcondition: Stat(HP) <= Stat(MaxHP) unless it already exceeded it; returns >= 0.
func (e *Entity) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	hp, maxHP := e.stats.Get(stat.HP), e.stats.Get(stat.MaxHP)
	target := hp + amount
	if target > maxHP {
		target = maxHP
	}
	if target <= hp {
		return 0
	}
	e.stats.Set(stat.HP, target)
	return target - hp
}

// Weakness returns the element this entity takes bonus damage from.
func (e *Entity) Weakness() spell.Element { return e.weakness }

// SetWeakness assigns the entity's elemental weakness.
func (e *Entity) SetWeakness(el spell.Element) { e.weakness = el }

// Weapon returns the equipped weapon.
func (e *Entity) Weapon() Weapon { return e.weapon }

// Equip replaces the equipped weapon.
func (e *Entity) Equip(w Weapon) { e.weapon = w }

// Armor returns the equipped armor; the zero Armor contributes nothing.
func (e *Entity) Armor() Armor { return e.armor }

// EquipArmor replaces the equipped armor.
func (e *Entity) EquipArmor(a Armor) { e.armor = a }

// EffectiveDefense returns the DEFENSE stat plus the armor contribution.
func (e *Entity) EffectiveDefense() int {
	return e.stats.Get(stat.Defense) + e.armor.Defense
}

func checkSlot(slot int) error {
	if slot < 0 || slot >= Slots {
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, slot)
	}
	return nil
}

// EquipSpell places a fresh Instance of def into slot, replacing any previous spell.
// Instances are never shared between slots or entities.
//
// Precondition: def must not be nil.
// Postcondition: Spell(slot) is a new ready Instance of def.
func (e *Entity) EquipSpell(slot int, def *spell.Definition) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if def == nil {
		return errors.New("entity: EquipSpell with nil definition")
	}
	e.spells[slot] = def.Instantiate()
	return nil
}

// Spell returns the Instance in slot, or nil when empty or out of range.
func (e *Entity) Spell(slot int) *spell.Instance {
	if checkSlot(slot) != nil {
		return nil
	}
	return e.spells[slot]
}

// Spells returns the spell slots; empty slots are nil.
func (e *Entity) Spells() [Slots]*spell.Instance { return e.spells }

// HasSpell reports whether inst currently occupies one of this entity's slots.
func (e *Entity) HasSpell(inst *spell.Instance) bool {
	if inst == nil {
		return false
	}
	for _, s := range e.spells {
		if s == inst {
			return true
		}
	}
	return false
}

// ClearSpell empties slot.
func (e *Entity) ClearSpell(slot int) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	e.spells[slot] = nil
	return nil
}

// TickCooldowns advances every equipped spell's cooldown by one turn.
func (e *Entity) TickCooldowns() {
	for _, s := range e.spells {
		if s != nil {
			s.Tick()
		}
	}
}

// EquipConsumable places c into slot, replacing any previous item.
func (e *Entity) EquipConsumable(slot int, c Consumable) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	e.consumables[slot] = c
	return nil
}

// Consumable returns the item in slot, or nil when empty or out of range.
func (e *Entity) Consumable(slot int) Consumable {
	if checkSlot(slot) != nil {
		return nil
	}
	return e.consumables[slot]
}

// Consumables returns the consumable slots; empty slots are nil.
func (e *Entity) Consumables() [Slots]Consumable { return e.consumables }

// HasConsumable reports whether c occupies any consumable slot.
func (e *Entity) HasConsumable(c Consumable) bool {
	if c == nil {
		return false
	}
	for _, held := range e.consumables {
		if held == c {
			return true
		}
	}
	return false
}

// ClearConsumable empties the first slot holding c.
//
// Postcondition: at most one slot is cleared; returns false if c was not equipped.
func (e *Entity) ClearConsumable(c Consumable) bool {
	if c == nil {
		return false
	}
	for i, held := range e.consumables {
		if held == c {
			e.consumables[i] = nil
			return true
		}
	}
	return false
}
