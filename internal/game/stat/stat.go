// Package stat defines the combat attributes shared by every entity in an encounter.
package stat

import (
	"fmt"
	"strings"
)

// Stat identifies one integer attribute of a combat entity.
type Stat int

const (
	HP Stat = iota
	MaxHP
	Strength
	Intelligence
	Defense
	Speed
)

var names = map[Stat]string{
	HP:           "hp",
	MaxHP:        "max_hp",
	Strength:     "strength",
	Intelligence: "intelligence",
	Defense:      "defense",
	Speed:        "speed",
}

// All returns every Stat in declaration order.
func All() []Stat {
	return []Stat{HP, MaxHP, Strength, Intelligence, Defense, Speed}
}

// String returns the snake_case name used in content files.
func (s Stat) String() string {
	if n, ok := names[s]; ok {
		return n
	}
	return "unknown"
}

// Parse maps a content-file name to its Stat.
//
// Postcondition: Returns an error for any name not produced by Stat.String.
func Parse(name string) (Stat, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for s, n := range names {
		if n == key {
			return s, nil
		}
	}
	return 0, fmt.Errorf("stat: unknown stat %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Stat) MarshalText() ([]byte, error) {
	if _, ok := names[s]; !ok {
		return nil, fmt.Errorf("stat: cannot marshal unknown stat %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stat) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Block holds one value per Stat. Values are unbounded; only healing consults MaxHP.
type Block map[Stat]int

// Get returns the value of s, or 0 when unset.
func (b Block) Get(s Stat) int { return b[s] }

// Set assigns v to s.
func (b Block) Set(s Stat, v int) { b[s] = v }

// Add adds delta to s and returns the new value.
func (b Block) Add(s Stat, delta int) int {
	b[s] += delta
	return b[s]
}

// Clone returns an independent copy of b.
func (b Block) Clone() Block {
	out := make(Block, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
