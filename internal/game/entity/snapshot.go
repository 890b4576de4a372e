package entity

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/spell"
	"github.com/cory-johannsen/arena/internal/game/stat"
)

// SpellSource resolves a spell archetype ID to its Definition.
type SpellSource interface {
	Definition(id string) (*spell.Definition, error)
}

// ConsumableSource builds a fresh Consumable from a stable item ID.
type ConsumableSource interface {
	New(id string) (Consumable, error)
}

// Snapshot is the between-encounter state of an Entity expressed with stable
// identifiers only. Empty slots are recorded as "".
// Active boosts and cooldown counters are not captured.
type Snapshot struct {
	Name        string         `yaml:"name"`
	Stats       map[string]int `yaml:"stats"`
	Weakness    spell.Element  `yaml:"weakness,omitempty"`
	Weapon      Weapon         `yaml:"weapon"`
	Armor       Armor          `yaml:"armor"`
	Spells      [Slots]string  `yaml:"spells"`
	Consumables [Slots]string  `yaml:"consumables"`
}

// Snapshot captures e's equipped ids and stats. Stats are recorded with active
// boosts removed so that a restore does not bake temporary modifiers in.
func (e *Entity) Snapshot() Snapshot {
	base := e.stats.Clone()
	for _, b := range e.boosts {
		if !b.expired {
			base.Add(b.stat, -b.magnitude)
		}
	}
	s := Snapshot{
		Name:     e.name,
		Stats:    make(map[string]int, len(base)),
		Weakness: e.weakness,
		Weapon:   e.weapon,
		Armor:    e.armor,
	}
	for k, v := range base {
		s.Stats[k.String()] = v
	}
	for i, inst := range e.spells {
		if inst != nil {
			s.Spells[i] = inst.ID()
		}
	}
	for i, c := range e.consumables {
		if c != nil {
			s.Consumables[i] = c.ID()
		}
	}
	return s
}

// Restore rebuilds an Entity from a Snapshot, instantiating fresh spell and
// consumable instances from their catalogs.
//
// Precondition: spells and items must not be nil.
// Postcondition: every equipped spell is ready; no boosts are active.
func Restore(s Snapshot, spells SpellSource, items ConsumableSource) (*Entity, error) {
	block := make(stat.Block, len(s.Stats))
	for name, v := range s.Stats {
		st, err := stat.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("restoring %q: %w", s.Name, err)
		}
		block[st] = v
	}
	e := New(s.Name, block)
	if s.Weakness != "" {
		e.SetWeakness(s.Weakness)
	}
	if s.Weapon.Name != "" {
		e.Equip(s.Weapon)
	}
	e.EquipArmor(s.Armor)
	for i, id := range s.Spells {
		if id == "" {
			continue
		}
		def, err := spells.Definition(id)
		if err != nil {
			return nil, fmt.Errorf("restoring %q spell slot %d: %w", s.Name, i, err)
		}
		if err := e.EquipSpell(i, def); err != nil {
			return nil, err
		}
	}
	for i, id := range s.Consumables {
		if id == "" {
			continue
		}
		c, err := items.New(id)
		if err != nil {
			return nil, fmt.Errorf("restoring %q consumable slot %d: %w", s.Name, i, err)
		}
		if err := e.EquipConsumable(i, c); err != nil {
			return nil, err
		}
	}
	return e, nil
}
