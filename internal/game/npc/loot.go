package npc

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/entity"
)

// Chancer rolls percentile checks. *dice.Roller satisfies it.
type Chancer interface {
	Chance(purpose string, percent int) bool
}

// ItemDrop is one consumable an enemy may leave behind when defeated.
type ItemDrop struct {
	ItemID string `yaml:"item"`
	Chance int    `yaml:"chance"` // percent, 1-100
}

// LootTable lists the possible drops for an enemy template.
type LootTable struct {
	Items []ItemDrop `yaml:"items"`
}

// Validate checks that the loot table satisfies its invariants.
//
// Precondition: lt must not be nil.
// Postcondition: Returns nil iff every drop has an item id and a chance in [1, 100].
// An empty loot table is valid.
func (lt *LootTable) Validate() error {
	for i, d := range lt.Items {
		if d.ItemID == "" {
			return fmt.Errorf("loot table: item[%d] must have a non-empty item id", i)
		}
		if d.Chance < 1 || d.Chance > 100 {
			return fmt.Errorf("loot table: item[%d] chance must be in [1, 100], got %d", i, d.Chance)
		}
	}
	return nil
}

// Roll returns the item IDs that pass their chance roll, in table order.
//
// Postcondition: exactly one roll is made per drop entry.
func (lt *LootTable) Roll(r Chancer) []string {
	var out []string
	for _, d := range lt.Items {
		if r.Chance("loot:"+d.ItemID, d.Chance) {
			out = append(out, d.ItemID)
		}
	}
	return out
}

// Award equips each dropped item into the first empty consumable slot of e.
// Drops that do not fit are skipped.
//
// Postcondition: Returns the names of the items equipped, or an error if an ID
// cannot be resolved.
func Award(e *entity.Entity, ids []string, items entity.ConsumableSource) ([]string, error) {
	var got []string
	for _, id := range ids {
		slot := -1
		for i, c := range e.Consumables() {
			if c == nil {
				slot = i
				break
			}
		}
		if slot < 0 {
			break
		}
		c, err := items.New(id)
		if err != nil {
			return got, fmt.Errorf("awarding loot: %w", err)
		}
		if err := e.EquipConsumable(slot, c); err != nil {
			return got, err
		}
		got = append(got, c.Name())
	}
	return got, nil
}
