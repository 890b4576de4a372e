// Package spell holds immutable spell templates and the live per-holder instances
// cloned from them.
package spell

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arena/internal/game/stat"
)

// ErrUnknownSpell is returned when a catalog lookup misses.
var ErrUnknownSpell = errors.New("unknown spell")

// Element is the elemental tag of a spell and the weakness tag of an entity.
type Element string

const (
	ElementNone      Element = "none"
	ElementFire      Element = "fire"
	ElementIce       Element = "ice"
	ElementLightning Element = "lightning"
	ElementEarth     Element = "earth"
	ElementHoly      Element = "holy"
	ElementShadow    Element = "shadow"
)

var validElements = map[Element]bool{
	ElementNone: true, ElementFire: true, ElementIce: true, ElementLightning: true,
	ElementEarth: true, ElementHoly: true, ElementShadow: true,
}

// Valid reports whether e is a known element. The empty string is treated as none.
func (e Element) Valid() bool { return e == "" || validElements[e] }

// Effect selects what a spell does when it resolves.
type Effect string

const (
	EffectDamage Effect = "damage"
	EffectHeal   Effect = "heal"
	EffectBuff   Effect = "buff"
	EffectDebuff Effect = "debuff"
)

// Definition is the static template for a spell, loaded from YAML.
type Definition struct {
	ID         string    `yaml:"id"`
	Name       string    `yaml:"name"`
	Element    Element   `yaml:"element"`
	BaseDamage int       `yaml:"base_damage"`
	Cooldown   int       `yaml:"cooldown"`
	Effect     Effect    `yaml:"effect"`    // empty = damage
	Stat       stat.Stat `yaml:"stat"`      // buff/debuff only
	Magnitude  int       `yaml:"magnitude"` // buff/debuff only; signed
	Duration   int       `yaml:"duration"`  // buff/debuff only; turns
}

// Kind returns the effect, defaulting to EffectDamage.
func (d *Definition) Kind() Effect {
	if d.Effect == "" {
		return EffectDamage
	}
	return d.Effect
}

// Validate checks the definition's invariants.
//
// Postcondition: Returns nil iff all fields are well-formed.
func (d *Definition) Validate() error {
	var errs []string
	if d.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if !d.Element.Valid() {
		errs = append(errs, fmt.Sprintf("element %q is not valid", d.Element))
	}
	if d.Cooldown < 0 {
		errs = append(errs, "cooldown must be >= 0")
	}
	switch d.Kind() {
	case EffectDamage, EffectHeal:
	case EffectBuff, EffectDebuff:
		if d.Magnitude == 0 {
			errs = append(errs, "buff/debuff magnitude must not be 0")
		}
		if d.Duration < 1 {
			errs = append(errs, "buff/debuff duration must be >= 1")
		}
	default:
		errs = append(errs, fmt.Sprintf("effect %q is not valid", d.Effect))
	}
	if len(errs) > 0 {
		return fmt.Errorf("spell %q: %s", d.ID, strings.Join(errs, "; "))
	}
	return nil
}

// Instantiate returns a fresh live Instance of d with a zero cooldown counter.
//
// Postcondition: Ready() is true on the returned instance.
func (d *Definition) Instantiate() *Instance {
	return &Instance{def: d}
}

// Catalog holds all known spell Definitions keyed by ID.
type Catalog struct {
	defs map[string]*Definition
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{defs: make(map[string]*Definition)}
}

// Register adds def, overwriting any existing entry with the same ID.
//
// Precondition: def must not be nil.
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

// Definition returns the Definition for id or ErrUnknownSpell.
func (c *Catalog) Definition(id string) (*Definition, error) {
	d, ok := c.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpell, id)
	}
	return d, nil
}

// Instantiate clones a fresh Instance of the spell id.
func (c *Catalog) Instantiate(id string) (*Instance, error) {
	d, err := c.Definition(id)
	if err != nil {
		return nil, err
	}
	return d.Instantiate(), nil
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

// LoadDirectory reads every *.yaml file in dir as a Definition.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a populated Catalog, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading spell dir %q: %w", dir, err)
	}
	cat := NewCatalog()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
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
