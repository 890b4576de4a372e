package spell

import "errors"

// ErrOnCooldown is returned when casting an Instance whose counter is not zero.
var ErrOnCooldown = errors.New("spell is still on cooldown")

// Instance is one holder's live copy of a Definition.
// It is not safe for concurrent use; the encounter worker owns it during combat.
//
// Invariant: 0 <= remaining <= Definition().Cooldown.
type Instance struct {
	def       *Definition
	remaining int
	// fresh is set by Trigger and cleared by the next Tick, so the turn a spell
	// is cast does not count toward its own cooldown.
	fresh bool
}

// Definition returns the immutable template.
func (i *Instance) Definition() *Definition { return i.def }

// ID returns the template ID.
func (i *Instance) ID() string { return i.def.ID }

// Name returns the template name.
func (i *Instance) Name() string { return i.def.Name }

// Ready reports whether the cooldown counter is zero.
func (i *Instance) Ready() bool { return i.remaining == 0 }

// Remaining returns the cooldown counter.
func (i *Instance) Remaining() int { return i.remaining }

// Trigger starts the cooldown after a successful cast.
//
// Precondition: Ready() is true.
// Postcondition: Remaining() == Definition().Cooldown.
func (i *Instance) Trigger() error {
	if !i.Ready() {
		return ErrOnCooldown
	}
	i.remaining = i.def.Cooldown
	i.fresh = i.remaining > 0
	return nil
}

// Tick advances the cooldown by one turn. The first tick after Trigger is absorbed.
//
// Postcondition: Remaining() never goes below zero.
func (i *Instance) Tick() {
	if i.fresh {
		i.fresh = false
		return
	}
	if i.remaining > 0 {
		i.remaining--
	}
}
