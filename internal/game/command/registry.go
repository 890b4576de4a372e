package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrCommandCollision is returned when two commands claim the same word.
var ErrCommandCollision = errors.New("command word already registered")

// Registry indexes duel commands by every word that invokes them.
type Registry struct {
	byWord  map[string]*Command
	ordered []*Command
}

// NewRegistry indexes cmds by name and alias.
//
// Precondition: every command has a non-empty Name, and combat commands carry a Build func.
// Postcondition: Returns a Registry, or an error wrapping ErrCommandCollision when a
// name or alias is claimed twice.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		byWord:  make(map[string]*Command, len(cmds)*2),
		ordered: make([]*Command, 0, len(cmds)),
	}
	for i := range cmds {
		cmd := &cmds[i]
		if cmd.Name == "" {
			return nil, fmt.Errorf("command %d has no name", i)
		}
		if cmd.Category == CategoryCombat && cmd.Build == nil {
			return nil, fmt.Errorf("combat command %q has no action builder", cmd.Name)
		}
		words := append([]string{cmd.Name}, cmd.Aliases...)
		for _, w := range words {
			if prev, taken := r.byWord[w]; taken {
				return nil, fmt.Errorf("%w: %q is used by %q and %q", ErrCommandCollision, w, prev.Name, cmd.Name)
			}
			r.byWord[w] = cmd
		}
		r.ordered = append(r.ordered, cmd)
	}
	slices.SortFunc(r.ordered, func(a, b *Command) int { return strings.Compare(a.Name, b.Name) })
	return r, nil
}

// DefaultRegistry creates a Registry with all built-in commands.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve finds the command invoked by word, which may be a name or an alias.
func (r *Registry) Resolve(word string) (*Command, bool) {
	cmd, ok := r.byWord[word]
	return cmd, ok
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []*Command {
	return slices.Clone(r.ordered)
}
