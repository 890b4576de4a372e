package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/entity"
	"github.com/cory-johannsen/arena/internal/game/stat"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	names := make([]string, 0)
	for _, c := range r.Commands() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"attack", "cast", "flee", "help", "quit", "status", "use"}, names)
}

func TestResolve_CanonicalAndAlias(t *testing.T) {
	r := DefaultRegistry()
	for input, want := range map[string]string{
		"attack": "attack", "a": "attack", "c": "cast", "run": "flee", "?": "help", "exit": "quit",
	} {
		cmd, ok := r.Resolve(input)
		require.True(t, ok, input)
		assert.Equal(t, want, cmd.Name, input)
	}
	_, ok := r.Resolve("dance")
	assert.False(t, ok)
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry([]Command{{Name: "attack"}, {Name: "attack"}})
	assert.Error(t, err)
}

func TestNewRegistry_AliasCollision(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "attack", Aliases: []string{"a"}},
		{Name: "advance", Aliases: []string{"a"}},
	})
	assert.ErrorIs(t, err, ErrCommandCollision)

	_, err = NewRegistry([]Command{
		{Name: "attack", Aliases: []string{"flee"}},
		{Name: "flee"},
	})
	assert.ErrorIs(t, err, ErrCommandCollision)
}

func TestNewRegistry_CombatCommandNeedsBuilder(t *testing.T) {
	_, err := NewRegistry([]Command{{Name: "attack", Category: CategoryCombat}})
	assert.ErrorContains(t, err, "no action builder")

	_, err = NewRegistry([]Command{{Category: CategorySystem}})
	assert.Error(t, err)
}

func TestNewRegistry_CustomBuilder(t *testing.T) {
	var gotArgs []string
	r, err := NewRegistry([]Command{{
		Name:     "lunge",
		Category: CategoryCombat,
		Build: func(args []string, player, enemy *entity.Entity) (combat.Action, error) {
			gotArgs = args
			return combat.AttackAction(player, enemy), nil
		},
	}})
	require.NoError(t, err)
	hero := entity.New("Hero", stat.Block{stat.HP: 10})
	rat := entity.New("Rat", stat.Block{stat.HP: 5})

	a, err := r.ToAction(Parse("lunge hard"), hero, rat)
	require.NoError(t, err)
	assert.Equal(t, combat.ActionAttack, a.Kind())
	assert.Equal(t, []string{"hard"}, gotArgs)
}

func TestCommands_ReturnsCopy(t *testing.T) {
	r := DefaultRegistry()
	cmds := r.Commands()
	cmds[0] = nil
	assert.NotNil(t, r.Commands()[0])
}

func TestTakesTurn(t *testing.T) {
	for _, c := range BuiltinCommands() {
		want := c.Category == CategoryCombat
		assert.Equal(t, want, c.TakesTurn(), c.Name)
	}
}
