package command

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/entity"
	"github.com/cory-johannsen/arena/internal/game/spell"
)

var (
	// ErrUnknownCommand is returned for input that resolves to no command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNotAnAction is returned when a resolved command does not consume a turn.
	ErrNotAnAction = errors.New("command does not take a turn")
	// ErrBadSlot is returned when a slot argument is missing, malformed, or empty.
	ErrBadSlot = errors.New("bad slot")
)

// ToAction resolves a parsed line into the player's combat action.
// Slots are 1-based on input. Heal and buff spells target the player; every
// other spell targets the enemy.
//
// The action is not checked for readiness: an unready spell is submitted as is
// and becomes a no-op when the turn resolves.
//
// Precondition: player and enemy must be non-nil.
// Postcondition: Returns a non-zero Action or an error wrapping one of the
// package sentinels.
func (r *Registry) ToAction(res ParseResult, player, enemy *entity.Entity) (combat.Action, error) {
	cmd, ok := r.Resolve(res.Command)
	if !ok {
		return combat.Action{}, fmt.Errorf("%w: %q", ErrUnknownCommand, res.Command)
	}
	if !cmd.TakesTurn() {
		return combat.Action{}, fmt.Errorf("%w: %s", ErrNotAnAction, cmd.Name)
	}
	return cmd.Build(res.Args, player, enemy)
}

func buildAttack(_ []string, player, enemy *entity.Entity) (combat.Action, error) {
	return combat.AttackAction(player, enemy), nil
}

func buildFlee(_ []string, player, _ *entity.Entity) (combat.Action, error) {
	return combat.FleeAction(player), nil
}

func buildCast(args []string, player, enemy *entity.Entity) (combat.Action, error) {
	slot, err := slotArg(args)
	if err != nil {
		return combat.Action{}, err
	}
	inst := player.Spell(slot)
	if inst == nil {
		return combat.Action{}, fmt.Errorf("%w: no spell in slot %d", ErrBadSlot, slot+1)
	}
	target := enemy
	if k := inst.Definition().Kind(); k == spell.EffectHeal || k == spell.EffectBuff {
		target = player
	}
	return combat.CastAction(player, inst, target), nil
}

func buildUse(args []string, player, _ *entity.Entity) (combat.Action, error) {
	slot, err := slotArg(args)
	if err != nil {
		return combat.Action{}, err
	}
	c := player.Consumable(slot)
	if c == nil {
		return combat.Action{}, fmt.Errorf("%w: no item in slot %d", ErrBadSlot, slot+1)
	}
	return combat.UseItemAction(player, c), nil
}

// slotArg parses a 1-based slot argument into a 0-based index.
func slotArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: missing slot number", ErrBadSlot)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > entity.Slots {
		return 0, fmt.Errorf("%w: %q is not 1-%d", ErrBadSlot, args[0], entity.Slots)
	}
	return n - 1, nil
}
