package entity

import "github.com/cory-johannsen/arena/internal/game/stat"

// Weapon is immutable value data: a flat damage plus one scaling stat.
type Weapon struct {
	Name    string    `yaml:"name"`
	Damage  int       `yaml:"damage"`
	Scaling stat.Stat `yaml:"scaling"`
}

// Armor is immutable value data contributing flat defense.
type Armor struct {
	Name    string `yaml:"name"`
	Defense int    `yaml:"defense"`
}

// Unarmed is the weapon an entity fights with when nothing is equipped.
var Unarmed = Weapon{Name: "fists", Damage: 0, Scaling: stat.Strength}

// Consumable is a single-use item that can occupy a consumable slot.
type Consumable interface {
	// ID is the stable catalog identifier used to rebuild the item after reload.
	ID() string
	// Name is the display name.
	Name() string
	// Use applies the item's effect to user and returns a narrative line.
	Use(user *Entity) string
}
