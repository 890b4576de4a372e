// Package npc provides enemy templates: YAML descriptions of an opponent's
// stats, equipment, spells, consumables, behaviour and loot.
package npc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arena/internal/game/entity"
	"github.com/cory-johannsen/arena/internal/game/spell"
	"github.com/cory-johannsen/arena/internal/game/stat"
)

// ErrUnknownTemplate is returned when a Registry lookup misses.
var ErrUnknownTemplate = errors.New("unknown enemy template")

// Template defines a reusable enemy loaded from YAML.
type Template struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Archetype   string         `yaml:"archetype"` // built-in ai archetype; ignored when Script is set
	Script      string         `yaml:"script"`    // Lua behaviour script name; empty = Archetype
	Weakness    spell.Element  `yaml:"weakness"`
	Stats       map[string]int `yaml:"stats"`
	Weapon      *entity.Weapon `yaml:"weapon"`
	Armor       entity.Armor   `yaml:"armor"`
	Spells      []string       `yaml:"spells"`
	Consumables []string       `yaml:"consumables"`
	Loot        *LootTable     `yaml:"loot"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, exactly one of
// Archetype and Script is set, hp >= 1, every stat name is known, the weakness
// is a valid element, and at most entity.Slots spells and consumables are listed.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if (t.Archetype == "") == (t.Script == "") {
		return fmt.Errorf("npc template %q: exactly one of archetype or script must be set", t.ID)
	}
	for name := range t.Stats {
		if _, err := stat.Parse(name); err != nil {
			return fmt.Errorf("npc template %q: %w", t.ID, err)
		}
	}
	if t.Stats[stat.HP.String()] < 1 {
		return fmt.Errorf("npc template %q: stats.hp must be >= 1", t.ID)
	}
	if !t.Weakness.Valid() {
		return fmt.Errorf("npc template %q: weakness %q is not a valid element", t.ID, t.Weakness)
	}
	if len(t.Spells) > entity.Slots {
		return fmt.Errorf("npc template %q: at most %d spells, got %d", t.ID, entity.Slots, len(t.Spells))
	}
	if len(t.Consumables) > entity.Slots {
		return fmt.Errorf("npc template %q: at most %d consumables, got %d", t.ID, entity.Slots, len(t.Consumables))
	}
	if t.Loot != nil {
		if err := t.Loot.Validate(); err != nil {
			return fmt.Errorf("npc template %q: %w", t.ID, err)
		}
	}
	return nil
}

// Snapshot returns the template as an entity snapshot with spells and
// consumables filling slots from 0.
func (t *Template) Snapshot() entity.Snapshot {
	s := entity.Snapshot{
		Name:     t.Name,
		Stats:    make(map[string]int, len(t.Stats)),
		Weakness: t.Weakness,
		Weapon:   entity.Unarmed,
		Armor:    t.Armor,
	}
	for k, v := range t.Stats {
		s.Stats[k] = v
	}
	if t.Weapon != nil {
		s.Weapon = *t.Weapon
	}
	copy(s.Spells[:], t.Spells)
	copy(s.Consumables[:], t.Consumables)
	return s
}

// Spawn builds a fresh enemy entity from the template. Every call returns an
// independent entity with its own spell instances and consumables.
//
// Precondition: t must have passed Validate.
// Postcondition: Returns an error if a spell or consumable ID cannot be resolved.
func (t *Template) Spawn(spells entity.SpellSource, items entity.ConsumableSource) (*entity.Entity, error) {
	e, err := entity.Restore(t.Snapshot(), spells, items)
	if err != nil {
		return nil, fmt.Errorf("spawning %q: %w", t.ID, err)
	}
	return e, nil
}

// LoadTemplateFromBytes parses and validates a single template.
// Unknown YAML fields are rejected.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
