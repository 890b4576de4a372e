package combat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/combat"
)

func TestManager_StartSubmitFinish(t *testing.T) {
	m := combat.NewManager(&fixedRoller{}, combat.DefaultRules(), zap.NewNop())
	hero := fighter("Hero", 30, 50, 0, 0, 5)
	rat := fighter("Rat", 10, 1, 0, 0, 1)

	prompts := make(chan int, 4)
	results := make(chan combat.Result, 1)
	id, err := m.Start(context.Background(), hero, rat, alwaysAttack, combat.Hooks{
		Prompt: func(turn int) { prompts <- turn },
		Result: func(r combat.Result) { results <- r },
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count())
	enc, ok := m.Get(id)
	require.True(t, ok)

	<-prompts
	accepted, err := m.Submit(id, combat.AttackAction(hero, rat))
	require.NoError(t, err)
	assert.True(t, accepted)

	assert.Equal(t, combat.Victory, <-results)
	<-enc.Done()
	require.Eventually(t, func() bool { return m.Count() == 0 }, time.Second, 5*time.Millisecond)

	_, err = m.Submit(id, combat.AttackAction(hero, rat))
	assert.ErrorIs(t, err, combat.ErrEncounterNotFound)
}

func TestManager_EntityBusy(t *testing.T) {
	m := combat.NewManager(&fixedRoller{}, combat.DefaultRules(), zap.NewNop())
	hero := fighter("Hero", 30, 1, 0, 0, 5)
	rat := fighter("Rat", 10, 1, 0, 0, 1)
	bat := fighter("Bat", 10, 1, 0, 0, 1)
	hooks := combat.Hooks{Result: func(combat.Result) {}}

	id, err := m.Start(context.Background(), hero, rat, alwaysAttack, hooks)
	require.NoError(t, err)
	_, err = m.Start(context.Background(), hero, bat, alwaysAttack, hooks)
	assert.ErrorIs(t, err, combat.ErrEntityBusy)
	_, err = m.Start(context.Background(), bat, bat, alwaysAttack, hooks)
	assert.Error(t, err)

	enc, _ := m.Get(id)
	require.NoError(t, m.End(id))
	<-enc.Done()
	require.Eventually(t, func() bool { return m.Count() == 0 }, time.Second, 5*time.Millisecond)

	id, err = m.Start(context.Background(), hero, bat, alwaysAttack, hooks)
	require.NoError(t, err, "entities are released once their encounter ends")
	require.NoError(t, m.End(id))
	assert.ErrorIs(t, m.End("nope"), combat.ErrEncounterNotFound)
}

func TestManager_StartRejectsMissingResultHook(t *testing.T) {
	m := combat.NewManager(&fixedRoller{}, combat.DefaultRules(), nil)
	_, err := m.Start(context.Background(), fighter("A", 1, 0, 0, 0, 0), fighter("B", 1, 0, 0, 0, 0), alwaysAttack, combat.Hooks{})
	assert.Error(t, err)
	assert.Zero(t, m.Count())
}
