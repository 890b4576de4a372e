package combat

import "context"

// Mailbox is a single-slot handoff from the input side to the encounter worker.
// At most one Action is pending at any time. All methods are safe for concurrent use.
type Mailbox struct {
	slot chan Action
}

// NewMailbox creates an empty Mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{slot: make(chan Action, 1)}
}

// Submit deposits a without blocking.
//
// Postcondition: Returns false and leaves the pending action untouched if the slot is occupied.
func (m *Mailbox) Submit(a Action) bool {
	select {
	case m.slot <- a:
		return true
	default:
		return false
	}
}

// Receive blocks until an action is available or ctx is done.
//
// Postcondition: Returns ctx.Err() if ctx was already cancelled, even when an action is pending.
func (m *Mailbox) Receive(ctx context.Context) (Action, error) {
	if err := ctx.Err(); err != nil {
		return Action{}, err
	}
	select {
	case a := <-m.slot:
		return a, nil
	case <-ctx.Done():
		return Action{}, ctx.Err()
	}
}

// Drain discards any pending action and reports whether one was discarded.
func (m *Mailbox) Drain() bool {
	select {
	case <-m.slot:
		return true
	default:
		return false
	}
}

// Pending reports whether an action is waiting in the slot.
func (m *Mailbox) Pending() bool {
	return len(m.slot) > 0
}
