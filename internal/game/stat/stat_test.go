package stat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/stat"
)

func TestParse_RoundTripsEveryStat(t *testing.T) {
	for _, s := range stat.All() {
		got, err := stat.Parse(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestParse_CaseInsensitive(t *testing.T) {
	got, err := stat.Parse("  INTELLIGENCE ")
	require.NoError(t, err)
	assert.Equal(t, stat.Intelligence, got)
}

func TestParse_Unknown(t *testing.T) {
	_, err := stat.Parse("charisma")
	assert.Error(t, err)
}

func TestStat_YAMLKey(t *testing.T) {
	var doc struct {
		Scaling stat.Stat `yaml:"scaling"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("scaling: strength\n"), &doc))
	assert.Equal(t, stat.Strength, doc.Scaling)
}

func TestBlock_AddAndClone(t *testing.T) {
	b := stat.Block{stat.HP: 10}
	assert.Equal(t, 7, b.Add(stat.HP, -3))
	c := b.Clone()
	c.Set(stat.HP, 99)
	assert.Equal(t, 7, b.Get(stat.HP))
	assert.Equal(t, 0, b.Get(stat.Speed))
}

func TestBlock_Property_AddIsInvertible(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		start := rapid.IntRange(-1000, 1000).Draw(rt, "start")
		delta := rapid.IntRange(-1000, 1000).Draw(rt, "delta")
		b := stat.Block{stat.Defense: start}
		b.Add(stat.Defense, delta)
		b.Add(stat.Defense, -delta)
		assert.Equal(rt, start, b.Get(stat.Defense))
	})
}
