// Package ai implements the enemy decision policies. A policy reads both
// entities and returns the enemy's action for the turn; it never mutates state.
package ai

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/entity"
)

// ErrUnknownArchetype is returned when a Table has no policy for an archetype.
var ErrUnknownArchetype = errors.New("ai: unknown archetype")

// Archetype names an enemy behaviour.
type Archetype string

const (
	Aggressive Archetype = "aggressive"
	Caster     Archetype = "caster"
	Support    Archetype = "support"
	Tactician  Archetype = "tactician"
)

// Params tunes the built-in policies.
type Params struct {
	// LowHealthPercent is the HP percentage below which aggressive and support
	// enemies switch to self-preservation.
	LowHealthPercent int
}

// DefaultParams returns a 30% low-health threshold.
func DefaultParams() Params {
	return Params{LowHealthPercent: 30}
}

// PolicyFunc decides self's action against opponent.
type PolicyFunc func(self, opponent *entity.Entity, p Params) combat.Action

// Table indexes PolicyFuncs by Archetype.
//
// Invariant: each archetype is registered at most once.
type Table struct {
	funcs map[Archetype]PolicyFunc
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{funcs: make(map[Archetype]PolicyFunc)}
}

// DefaultTable returns a Table holding the four built-in archetypes.
func DefaultTable() *Table {
	t := NewTable()
	// The built-in names are distinct, so Register cannot fail here.
	_ = t.Register(Aggressive, AggressivePolicy)
	_ = t.Register(Caster, CasterPolicy)
	_ = t.Register(Support, SupportPolicy)
	_ = t.Register(Tactician, TacticianPolicy)
	return t
}

// Register stores fn for archetype.
//
// Precondition: archetype must be non-empty and fn non-nil.
// Postcondition: returns error on archetype collision.
func (t *Table) Register(archetype Archetype, fn PolicyFunc) error {
	if archetype == "" || fn == nil {
		return fmt.Errorf("ai.Table: archetype and policy must be set")
	}
	if _, exists := t.funcs[archetype]; exists {
		return fmt.Errorf("ai.Table: archetype %q already registered", archetype)
	}
	t.funcs[archetype] = fn
	return nil
}

// Lookup returns the PolicyFunc for archetype, or false if not registered.
func (t *Table) Lookup(archetype Archetype) (PolicyFunc, bool) {
	fn, ok := t.funcs[archetype]
	return fn, ok
}

// Archetypes returns every registered archetype in sorted order.
func (t *Table) Archetypes() []Archetype {
	out := make([]Archetype, 0, len(t.funcs))
	for a := range t.funcs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Policy binds archetype to an EnemyPolicy using params.
//
// Postcondition: Returns ErrUnknownArchetype when archetype is not registered.
func (t *Table) Policy(archetype Archetype, params Params) (*Policy, error) {
	fn, ok := t.funcs[archetype]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArchetype, archetype)
	}
	return &Policy{archetype: archetype, fn: fn, params: params}, nil
}

// Policy is a combat.EnemyPolicy backed by a PolicyFunc.
type Policy struct {
	archetype Archetype
	fn        PolicyFunc
	params    Params
}

// Archetype returns the bound archetype.
func (p *Policy) Archetype() Archetype { return p.archetype }

// Decide runs the bound PolicyFunc and replaces anything self could not
// legally execute with a basic attack.
func (p *Policy) Decide(self, opponent *entity.Entity) combat.Action {
	return Legalize(p.fn(self, opponent, p.params), self, opponent)
}

// Legalize returns a unless it would be a no-op or belongs to another actor,
// in which case it returns a basic attack by self on opponent.
//
// Postcondition: the returned action's actor is self.
func Legalize(a combat.Action, self, opponent *entity.Entity) combat.Action {
	fallback := combat.AttackAction(self, opponent)
	if a.Actor() != self {
		return fallback
	}
	switch a.Kind() {
	case combat.ActionAttack:
		if a.Target() == nil {
			return fallback
		}
	case combat.ActionCastSpell:
		inst := a.Spell()
		if inst == nil || a.Target() == nil || !self.HasSpell(inst) || !inst.Ready() {
			return fallback
		}
	case combat.ActionUseItem:
		if a.Item() == nil || !self.HasConsumable(a.Item()) {
			return fallback
		}
	case combat.ActionFlee:
	default:
		return fallback
	}
	return a
}
