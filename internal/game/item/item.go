// Package item provides the single-use consumables an entity can equip:
// potions that heal to the MaxHP cap and enhancers that register a timed stat boost.
package item

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arena/internal/game/entity"
	"github.com/cory-johannsen/arena/internal/game/stat"
)

// ErrUnknownItem is returned when a catalog lookup misses.
var ErrUnknownItem = errors.New("unknown item")

// Kind distinguishes consumable families.
type Kind string

const (
	KindPotion   Kind = "potion"
	KindEnhancer Kind = "enhancer"
)

// Definition is the static description of a consumable, loaded from YAML.
type Definition struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Kind      Kind      `yaml:"kind"`
	Heal      int       `yaml:"heal"`      // potion
	Stat      stat.Stat `yaml:"stat"`      // enhancer
	Magnitude int       `yaml:"magnitude"` // enhancer; signed
	Duration  int       `yaml:"duration"`  // enhancer; turns
}

// Validate checks the definition's invariants.
func (d *Definition) Validate() error {
	var errs []string
	if d.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	switch d.Kind {
	case KindPotion:
		if d.Heal <= 0 {
			errs = append(errs, "potion heal must be > 0")
		}
	case KindEnhancer:
		if d.Magnitude == 0 {
			errs = append(errs, "enhancer magnitude must not be 0")
		}
		if d.Duration < 1 {
			errs = append(errs, "enhancer duration must be >= 1")
		}
	default:
		errs = append(errs, fmt.Sprintf("kind %q must be potion or enhancer", d.Kind))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q: %s", d.ID, strings.Join(errs, "; "))
	}
	return nil
}

// Potion restores HP up to the user's MaxHP.
type Potion struct {
	id     string
	name   string
	Amount int
}

// NewPotion creates a Potion.
func NewPotion(id, name string, amount int) *Potion {
	return &Potion{id: id, name: name, Amount: amount}
}

// ID returns the catalog identifier the potion was built from.
func (p *Potion) ID() string { return p.id }

// Name returns the display name.
func (p *Potion) Name() string { return p.name }

// Use heals the user, capped at MaxHP.
func (p *Potion) Use(user *entity.Entity) string {
	gained := user.Heal(p.Amount)
	return fmt.Sprintf("%s drinks %s and recovers %d HP.", user.Name(), p.name, gained)
}

// Enhancer applies a temporary stat boost to its user.
type Enhancer struct {
	id        string
	name      string
	Stat      stat.Stat
	Magnitude int
	Duration  int
}

// NewEnhancer creates an Enhancer.
func NewEnhancer(id, name string, s stat.Stat, magnitude, duration int) *Enhancer {
	return &Enhancer{id: id, name: name, Stat: s, Magnitude: magnitude, Duration: duration}
}

// ID returns the catalog identifier the enhancer was built from.
func (e *Enhancer) ID() string { return e.id }

// Name returns the display name.
func (e *Enhancer) Name() string { return e.name }

// Use registers a Boost on the user.
func (e *Enhancer) Use(user *entity.Entity) string {
	user.AddBoost(e.Stat, e.Magnitude, e.Duration)
	return fmt.Sprintf("%s uses %s: %s %+d for %d turns.", user.Name(), e.name, e.Stat, e.Magnitude, e.Duration)
}

// Catalog indexes consumable Definitions by ID.
type Catalog struct {
	defs map[string]*Definition
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{defs: make(map[string]*Definition)}
}

// Register validates and stores def, replacing any entry with the same ID.
func (c *Catalog) Register(def *Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	c.defs[def.ID] = def
	return nil
}

// Get returns the Definition for id.
func (c *Catalog) Get(id string) (*Definition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// All returns every Definition sorted by ID.
func (c *Catalog) All() []*Definition {
	out := make([]*Definition, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// New builds a fresh consumable for id. Each call returns a distinct value,
// so two equipped copies of the same item are cleared independently.
//
// Postcondition: Returns ErrUnknownItem when id is not registered.
func (c *Catalog) New(id string) (entity.Consumable, error) {
	d, ok := c.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	switch d.Kind {
	case KindPotion:
		return NewPotion(d.ID, d.Name, d.Heal), nil
	case KindEnhancer:
		return NewEnhancer(d.ID, d.Name, d.Stat, d.Magnitude, d.Duration), nil
	default:
		return nil, fmt.Errorf("item %q: unsupported kind %q", id, d.Kind)
	}
}

// LoadDirectory reads every *.yaml file in dir as a Definition.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a populated Catalog, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading item dir %q: %w", dir, err)
	}
	cat := NewCatalog()
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Definition
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := cat.Register(&def); err != nil {
			return nil, fmt.Errorf("registering %q: %w", path, err)
		}
	}
	return cat, nil
}
