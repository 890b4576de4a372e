package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Encounter: EncounterConfig{
			FleeChance:       50,
			RandomSource:     RandomCrypto,
			LowHealthPercent: 30,
		},
		Content: ContentConfig{
			SpellsDir:  "content/spells",
			ItemsDir:   "content/items",
			EnemiesDir: "content/enemies",
			ScriptsDir: "content/scripts",
			PlayerFile: "content/player.yaml",
		},
		Scripting: ScriptingConfig{InstructionLimit: 1000},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDefaultsAreValid(t *testing.T) {
	cfg, err := LoadFromViper(Defaults())
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Encounter.FleeChance)
	assert.Equal(t, RandomCrypto, cfg.Encounter.RandomSource)
	assert.Equal(t, 30, cfg.Encounter.LowHealthPercent)
	assert.Equal(t, "content/scripts", cfg.Content.ScriptsDir)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
encounter:
  flee_chance: 35
  random_source: seeded
  seed: 1234
content:
  spells_dir: /srv/arena/spells
  scripts_dir: ""
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 35, cfg.Encounter.FleeChance)
	assert.Equal(t, RandomSeeded, cfg.Encounter.RandomSource)
	assert.Equal(t, int64(1234), cfg.Encounter.Seed)
	assert.Equal(t, 30, cfg.Encounter.LowHealthPercent, "unset keys keep defaults")
	assert.Equal(t, "/srv/arena/spells", cfg.Content.SpellsDir)
	assert.Equal(t, "content/items", cfg.Content.ItemsDir)
	assert.Equal(t, "", cfg.Content.ScriptsDir)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0644))
	t.Setenv("ARENA_ENCOUNTER_FLEE_CHANCE", "80")
	t.Setenv("ARENA_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Encounter.FleeChance)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("encounter:\n  flee_chance: 150\n"), 0644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "encounter.flee_chance")
}

func TestValidateLoggingLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestValidateLoggingFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.ErrorContains(t, cfg.Validate(), "logging.format")
}

func TestValidateRandomSource(t *testing.T) {
	cfg := validConfig()
	cfg.Encounter.RandomSource = "dice"
	assert.ErrorContains(t, cfg.Validate(), "encounter.random_source")
}

func TestValidateContentRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Content = ContentConfig{}
	err := cfg.Validate()
	require.Error(t, err)
	for _, key := range []string{"spells_dir", "items_dir", "enemies_dir", "player_file"} {
		assert.Contains(t, err.Error(), key)
	}
	assert.NotContains(t, err.Error(), "scripts_dir", "scripts are optional")
}

func TestValidateAggregatesViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "loud"
	cfg.Encounter.LowHealthPercent = 0
	cfg.Scripting.InstructionLimit = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "encounter.low_health_percent")
	assert.Contains(t, err.Error(), "scripting.instruction_limit")
}

func TestPropertyFleeChanceRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chance := rapid.IntRange(-200, 300).Draw(t, "flee_chance")
		cfg := validConfig()
		cfg.Encounter.FleeChance = chance
		err := cfg.Validate()
		if chance >= 0 && chance <= 100 {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err)
		}
	})
}

func TestPropertyLowHealthPercentRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pct := rapid.IntRange(-50, 150).Draw(t, "low_health_percent")
		cfg := validConfig()
		cfg.Encounter.LowHealthPercent = pct
		err := cfg.Validate()
		if pct >= 1 && pct <= 99 {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err)
		}
	})
}
