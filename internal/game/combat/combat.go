// Package combat implements the two-combatant duel engine: the combat resolver,
// the Action command type, and the turn engine that drives one encounter.
package combat

import (
	"errors"

	"github.com/cory-johannsen/arena/internal/game/entity"
)

var (
	// ErrEncounterStarted is returned when Start is called on an encounter more than once.
	ErrEncounterStarted = errors.New("encounter already started")
	// ErrEncounterNotFound is returned by Manager lookups for unknown or finished encounters.
	ErrEncounterNotFound = errors.New("encounter not found")
	// ErrEntityBusy is returned when an entity is already fighting in another encounter.
	ErrEntityBusy = errors.New("entity is already in an encounter")
)

// Result is the terminal outcome of an encounter, decided exactly once.
type Result int

const (
	Victory Result = iota
	Defeat
	Fled
)

// String returns a human-readable result label.
func (r Result) String() string {
	switch r {
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	case Fled:
		return "fled"
	default:
		return "unknown"
	}
}

// Roller is the subset of dice.Roller used by the engine.
// Using a local interface keeps the engine testable with scripted outcomes.
type Roller interface {
	// Chance reports whether a percentile roll lands at or below percent.
	Chance(purpose string, percent int) bool
	// Coin reports the outcome of a fair coin flip.
	Coin(purpose string) bool
}

// Rules holds the tunable constants of the engine.
type Rules struct {
	// FleeChance is the percent chance that a Flee action succeeds.
	FleeChance int
}

// DefaultRules returns the standard rules: fleeing succeeds half the time.
func DefaultRules() Rules {
	return Rules{FleeChance: 50}
}

// EnemyPolicy selects the enemy's action for the current turn.
// Implementations must be pure functions of the two entities and must never
// return an action the enemy cannot legally execute.
type EnemyPolicy interface {
	Decide(self, opponent *entity.Entity) Action
}

// EnemyPolicyFunc adapts a plain function into an EnemyPolicy.
type EnemyPolicyFunc func(self, opponent *entity.Entity) Action

// Decide calls f.
func (f EnemyPolicyFunc) Decide(self, opponent *entity.Entity) Action { return f(self, opponent) }

// Event records what happened when one action was resolved.
type Event struct {
	Turn      int
	Kind      ActionKind
	Actor     string
	Target    string
	Damage    int // HP removed from the target; negative when the "damage" healed
	Healed    int // HP restored by a heal effect
	NoOp      bool
	Fled      bool
	Killed    bool
	Narrative string
	Attack    *AttackResult // nil unless Kind == ActionAttack
	Spell     *SpellResult  // nil unless a spell resolved
}

// Ended reports whether this event finished the encounter, so the second
// action of the turn must be skipped.
func (e Event) Ended() bool { return e.Killed || e.Fled }
