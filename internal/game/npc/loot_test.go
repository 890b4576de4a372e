package npc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/entity"
	"github.com/cory-johannsen/arena/internal/game/item"
	"github.com/cory-johannsen/arena/internal/game/npc"
	"github.com/cory-johannsen/arena/internal/game/stat"
)

type scriptedChancer struct{ results []bool }

func (s *scriptedChancer) Chance(string, int) bool {
	r := s.results[0]
	s.results = s.results[1:]
	return r
}

func TestLootTable_Roll(t *testing.T) {
	lt := npc.LootTable{Items: []npc.ItemDrop{
		{ItemID: "potion", Chance: 60},
		{ItemID: "ether", Chance: 10},
		{ItemID: "tonic", Chance: 100},
	}}
	got := lt.Roll(&scriptedChancer{results: []bool{true, false, true}})
	assert.Equal(t, []string{"potion", "tonic"}, got)
}

func TestLootTable_Roll_CertainDropsAlwaysLand(t *testing.T) {
	lt := npc.LootTable{Items: []npc.ItemDrop{{ItemID: "potion", Chance: 100}}}
	r := dice.NewRoller(dice.NewSeededSource(3), nil)
	for i := 0; i < 200; i++ {
		require.Equal(t, []string{"potion"}, lt.Roll(r))
	}
}

func TestAward_FillsEmptySlots(t *testing.T) {
	_, items := catalogs(t)
	hero := entity.New("Hero", stat.Block{stat.HP: 10})
	require.NoError(t, hero.EquipConsumable(0, item.NewPotion("potion", "Potion", 10)))

	got, err := npc.Award(hero, []string{"potion", "potion", "potion"}, items)
	require.NoError(t, err)
	assert.Equal(t, []string{"Potion", "Potion"}, got, "only two slots were free")
	for i := 0; i < entity.Slots; i++ {
		assert.NotNil(t, hero.Consumable(i))
	}
}

func TestAward_UnknownItem(t *testing.T) {
	_, items := catalogs(t)
	hero := entity.New("Hero", stat.Block{stat.HP: 10})
	_, err := npc.Award(hero, []string{"elixir"}, items)
	assert.ErrorIs(t, err, item.ErrUnknownItem)
}
