// Package arena wires content, enemy behaviour and the combat manager into
// playable duels.
package arena

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/game/entity"
	"github.com/cory-johannsen/arena/internal/game/item"
	"github.com/cory-johannsen/arena/internal/game/npc"
	"github.com/cory-johannsen/arena/internal/game/spell"
)

// Content is the static data a duel draws on.
type Content struct {
	Spells  *spell.Catalog
	Items   *item.Catalog
	Enemies *npc.Registry
	Player  entity.Snapshot
}

// LoadContent reads every content directory named by cfg.
//
// Precondition: cfg must have passed config validation.
// Postcondition: Returns fully populated Content, or an error naming the
// first directory or file that failed. Spell and item references in enemy
// templates and the player snapshot are checked here.
func LoadContent(cfg config.ContentConfig) (*Content, error) {
	spells, err := spell.LoadDirectory(cfg.SpellsDir)
	if err != nil {
		return nil, fmt.Errorf("loading spells: %w", err)
	}
	items, err := item.LoadDirectory(cfg.ItemsDir)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	enemies, err := npc.LoadRegistry(cfg.EnemiesDir)
	if err != nil {
		return nil, fmt.Errorf("loading enemies: %w", err)
	}
	player, err := LoadPlayer(cfg.PlayerFile)
	if err != nil {
		return nil, err
	}
	c := &Content{Spells: spells, Items: items, Enemies: enemies, Player: player}
	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

// check spawns every template and the player once so broken references fail at load.
func (c *Content) check() error {
	for _, id := range c.Enemies.IDs() {
		tmpl, err := c.Enemies.Get(id)
		if err != nil {
			return err
		}
		if _, err := tmpl.Spawn(c.Spells, c.Items); err != nil {
			return fmt.Errorf("checking enemies: %w", err)
		}
	}
	if _, err := entity.Restore(c.Player, c.Spells, c.Items); err != nil {
		return fmt.Errorf("checking player: %w", err)
	}
	return nil
}

// LoadPlayer parses a player snapshot YAML file. Unknown fields are rejected.
func LoadPlayer(path string) (entity.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("reading player file %q: %w", path, err)
	}
	var snap entity.Snapshot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil {
		return entity.Snapshot{}, fmt.Errorf("parsing player file %q: %w", path, err)
	}
	if snap.Name == "" {
		return entity.Snapshot{}, fmt.Errorf("player file %q: name must not be empty", path)
	}
	return snap, nil
}
