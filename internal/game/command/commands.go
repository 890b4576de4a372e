// Package command provides the duel command registry, the line parser, and
// the translation of parsed player commands into combat actions.
package command

import (
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/entity"
)

// Categories for organizing commands.
const (
	CategoryCombat = "combat"
	CategorySystem = "system"
)

// Handler identifiers mapping commands to their effect.
const (
	HandlerAttack = "attack"
	HandlerCast   = "cast"
	HandlerUse    = "use"
	HandlerFlee   = "flee"
	HandlerStatus = "status"
	HandlerHelp   = "help"
	HandlerQuit   = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument shape, e.g. "cast <slot>".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command.
	Category string
	// Handler names the effect the command has.
	Handler string
	// Build turns the command's arguments into the player's action. Nil for
	// commands that do not take a turn.
	Build ActionBuilder
}

// ActionBuilder produces the combat action a turn-taking command submits.
type ActionBuilder func(args []string, player, enemy *entity.Entity) (combat.Action, error)

// TakesTurn reports whether running c consumes the player's turn.
func (c *Command) TakesTurn() bool { return c.Build != nil }

// BuiltinCommands returns all built-in duel commands.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "attack", Aliases: []string{"a", "att"}, Usage: "attack", Help: "Strike the enemy with your weapon", Category: CategoryCombat, Handler: HandlerAttack, Build: buildAttack},
		{Name: "cast", Aliases: []string{"c"}, Usage: "cast <slot>", Help: "Cast the spell in slot 1-3", Category: CategoryCombat, Handler: HandlerCast, Build: buildCast},
		{Name: "use", Aliases: []string{"u"}, Usage: "use <slot>", Help: "Use the consumable in slot 1-3", Category: CategoryCombat, Handler: HandlerUse, Build: buildUse},
		{Name: "flee", Aliases: []string{"run"}, Usage: "flee", Help: "Attempt to escape the fight", Category: CategoryCombat, Handler: HandlerFlee, Build: buildFlee},
		{Name: "status", Aliases: []string{"st"}, Usage: "status", Help: "Show both combatants", Category: CategorySystem, Handler: HandlerStatus},
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit"}, Usage: "quit", Help: "Abandon the duel without a result", Category: CategorySystem, Handler: HandlerQuit},
	}
}
