// Package config provides Viper-based configuration loading for the arena.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Random source kinds.
const (
	RandomCrypto = "crypto"
	RandomSeeded = "seeded"
)

// EncounterConfig holds the turn engine and enemy policy tunables.
type EncounterConfig struct {
	// FleeChance is the percent chance a flee attempt succeeds.
	FleeChance int `mapstructure:"flee_chance"`
	// RandomSource selects "crypto" (production) or "seeded" (reproducible runs).
	RandomSource string `mapstructure:"random_source"`
	// Seed is used only when RandomSource is "seeded".
	Seed int64 `mapstructure:"seed"`
	// LowHealthPercent is the HP percentage below which enemies turn defensive.
	LowHealthPercent int `mapstructure:"low_health_percent"`
}

// ContentConfig locates the YAML and Lua content directories.
type ContentConfig struct {
	SpellsDir  string `mapstructure:"spells_dir"`
	ItemsDir   string `mapstructure:"items_dir"`
	EnemiesDir string `mapstructure:"enemies_dir"`
	// ScriptsDir holds Lua behaviour scripts. Empty disables scripted enemies.
	ScriptsDir string `mapstructure:"scripts_dir"`
	// PlayerFile is the player's entity snapshot.
	PlayerFile string `mapstructure:"player_file"`
}

// ScriptingConfig holds Lua sandbox limits.
type ScriptingConfig struct {
	// InstructionLimit is the opcode budget per script load or hook call.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Encounter EncounterConfig `mapstructure:"encounter"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateLogging(c.Logging),
		validateEncounter(c.Encounter),
		validateContent(c.Content),
		validateScripting(c.Scripting),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateEncounter(e EncounterConfig) error {
	var errs []string
	if e.FleeChance < 0 || e.FleeChance > 100 {
		errs = append(errs, fmt.Sprintf("encounter.flee_chance must be 0-100, got %d", e.FleeChance))
	}
	if e.RandomSource != RandomCrypto && e.RandomSource != RandomSeeded {
		errs = append(errs, fmt.Sprintf("encounter.random_source must be one of [crypto, seeded], got %q", e.RandomSource))
	}
	if e.LowHealthPercent < 1 || e.LowHealthPercent > 99 {
		errs = append(errs, fmt.Sprintf("encounter.low_health_percent must be 1-99, got %d", e.LowHealthPercent))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.SpellsDir == "" {
		errs = append(errs, "content.spells_dir must not be empty")
	}
	if c.ItemsDir == "" {
		errs = append(errs, "content.items_dir must not be empty")
	}
	if c.EnemiesDir == "" {
		errs = append(errs, "content.enemies_dir must not be empty")
	}
	if c.PlayerFile == "" {
		errs = append(errs, "content.player_file must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ARENA_ prefix
	v.SetEnvPrefix("ARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a viper instance holding only the default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("encounter.flee_chance", 50)
	v.SetDefault("encounter.random_source", RandomCrypto)
	v.SetDefault("encounter.seed", 0)
	v.SetDefault("encounter.low_health_percent", 30)

	v.SetDefault("content.spells_dir", "content/spells")
	v.SetDefault("content.items_dir", "content/items")
	v.SetDefault("content.enemies_dir", "content/enemies")
	v.SetDefault("content.scripts_dir", "content/scripts")
	v.SetDefault("content.player_file", "content/player.yaml")

	v.SetDefault("scripting.instruction_limit", 100000)
}
