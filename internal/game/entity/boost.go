package entity

import "github.com/cory-johannsen/arena/internal/game/stat"

// Boost is a timed modifier bound to one entity and one stat.
// Creating it applies the magnitude; expiry subtracts exactly the same magnitude.
//
// Invariant: over its full lifetime a Boost's net effect on its stat is zero.
type Boost struct {
	owner     *Entity
	stat      stat.Stat
	magnitude int
	remaining int
	expired   bool
}

// Stat returns the boosted stat.
func (b *Boost) Stat() stat.Stat { return b.stat }

// Magnitude returns the signed modifier.
func (b *Boost) Magnitude() int { return b.magnitude }

// Remaining returns the turns left before expiry.
func (b *Boost) Remaining() int { return b.remaining }

// Expired reports whether the boost has been reverted.
func (b *Boost) Expired() bool { return b.expired }

// tick decrements the counter; at zero the magnitude is reverted.
// Returns true when the boost expired on this tick.
func (b *Boost) tick() bool {
	if b.expired {
		return false
	}
	b.remaining--
	if b.remaining > 0 {
		return false
	}
	b.owner.stats.Add(b.stat, -b.magnitude)
	b.expired = true
	return true
}

// AddBoost applies magnitude to s immediately and registers a Boost lasting turns ticks.
// A boost with turns <= 0 expires on its first tick.
//
// Postcondition: Stat(s) increased by magnitude; the boost is in Boosts().
func (e *Entity) AddBoost(s stat.Stat, magnitude, turns int) *Boost {
	b := &Boost{owner: e, stat: s, magnitude: magnitude, remaining: turns}
	e.stats.Add(s, magnitude)
	e.boosts = append(e.boosts, b)
	return b
}

// Boosts returns a copy of the active boost list.
func (e *Entity) Boosts() []*Boost {
	out := make([]*Boost, len(e.boosts))
	copy(out, e.boosts)
	return out
}

// TickBoosts advances every active boost by one turn and removes expired ones.
//
// Postcondition: every returned boost is Expired and no longer in Boosts().
func (e *Entity) TickBoosts() []*Boost {
	var expired []*Boost
	kept := e.boosts[:0]
	for _, b := range e.boosts {
		if b.tick() {
			expired = append(expired, b)
			continue
		}
		kept = append(kept, b)
	}
	for i := len(kept); i < len(e.boosts); i++ {
		e.boosts[i] = nil
	}
	e.boosts = kept
	return expired
}

// ClearBoosts reverts every active boost immediately, e.g. when an encounter is discarded.
func (e *Entity) ClearBoosts() {
	for _, b := range e.boosts {
		if !b.expired {
			e.stats.Add(b.stat, -b.magnitude)
			b.expired = true
		}
	}
	e.boosts = nil
}
