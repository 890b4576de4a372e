package npc

import (
	"fmt"
	"sort"
)

// Registry indexes Templates by ID.
//
// Invariant: each template ID is registered at most once.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// LoadRegistry reads every template in dir into a new Registry.
//
// Postcondition: Returns an error on any load failure or duplicate ID.
func LoadRegistry(dir string) (*Registry, error) {
	templates, err := LoadTemplates(dir)
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	for _, t := range templates {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register stores t.
//
// Precondition: t must have passed Validate.
// Postcondition: returns error on ID collision.
func (r *Registry) Register(t *Template) error {
	if _, exists := r.templates[t.ID]; exists {
		return fmt.Errorf("npc.Registry: template %q already registered", t.ID)
	}
	r.templates[t.ID] = t
	return nil
}

// Get returns the template for id.
//
// Postcondition: Returns ErrUnknownTemplate if id is not registered.
func (r *Registry) Get(id string) (*Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return t, nil
}

// IDs returns every registered template ID in sorted order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.templates))
	for id := range r.templates {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
