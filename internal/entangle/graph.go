// Package entangle maintains depth-bounded entanglement links between memories.
package entangle

import (
	"fmt"
	"time"

	"github.com/rcliao/ethical-memory/internal/model"
)

// MaxDepth is the deepest relationship chain an entanglement may create.
const MaxDepth = 5

// Lookup resolves a memory id to the live record owned by the caller.
type Lookup func(id string) (*model.Memory, bool)

// Pair is a recorded entanglement between two memories.
type Pair struct {
	A         string    `json:"a"`
	B         string    `json:"b"`
	Condition string    `json:"collapse_condition"`
	CreatedAt time.Time `json:"created_at"`
}

// Graph tracks entangled pairs over memories resolved through a Lookup.
// It does not synchronize; the owner serializes access.
type Graph struct {
	lookup Lookup
	pairs  []Pair
}

// NewGraph returns a Graph resolving memories through lookup.
func NewGraph(lookup Lookup) *Graph {
	return &Graph{lookup: lookup}
}

// Depth returns the length of the longest peer chain starting at id, or 0
// for a memory without peers. Each chain visits a memory at most once, so
// cycles terminate. The walk stops descending once MaxDepth is exceeded.
func (g *Graph) Depth(id string) int {
	return g.depth(id, map[string]bool{}, 0)
}

func (g *Graph) depth(id string, onPath map[string]bool, level int) int {
	m, ok := g.lookup(id)
	if !ok {
		return 0
	}
	if level > MaxDepth {
		return 0
	}
	onPath[id] = true
	defer delete(onPath, id)

	best := 0
	for _, peer := range m.Quantum.EntangledWith {
		if onPath[peer] {
			continue
		}
		if _, ok := g.lookup(peer); !ok {
			continue
		}
		if d := 1 + g.depth(peer, onPath, level+1); d > best {
			best = d
		}
		if best > MaxDepth {
			break
		}
	}
	return best
}

// Entangle links a and b under condition. It returns ErrNotFound when
// either memory is missing, ErrInvalidInput when a and b are the same
// memory and false when the link would create a chain deeper than MaxDepth.
func (g *Graph) Entangle(a, b, condition string, at time.Time) (bool, error) {
	ma, ok := g.lookup(a)
	if !ok {
		return false, fmt.Errorf("%w: %s", model.ErrNotFound, a)
	}
	mb, ok := g.lookup(b)
	if !ok {
		return false, fmt.Errorf("%w: %s", model.ErrNotFound, b)
	}
	if a == b {
		return false, fmt.Errorf("%w: cannot entangle %s with itself", model.ErrInvalidInput, a)
	}

	if g.Depth(a)+1+g.Depth(b) > MaxDepth {
		return false, nil
	}

	ma.Quantum.EntangleWith(b, condition)
	mb.Quantum.EntangleWith(a, condition)
	g.pairs = append(g.pairs, Pair{A: a, B: b, Condition: condition, CreatedAt: at})
	return true, nil
}

// EnterSuperposition puts id into superposition over the candidate states.
func (g *Graph) EnterSuperposition(id string, states []string) error {
	m, ok := g.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	m.Quantum.EnterSuperposition(states)
	return nil
}

// Collapse resolves id to chosen, stamping the measurement time.
func (g *Graph) Collapse(id, chosen string, at time.Time) (string, error) {
	m, ok := g.lookup(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	return m.Quantum.Collapse(chosen, at), nil
}

// Pairs returns the recorded pairs in insertion order.
func (g *Graph) Pairs() []Pair {
	return append([]Pair(nil), g.pairs...)
}

// PairCount returns the number of recorded pairs, duplicates included.
func (g *Graph) PairCount() int {
	return len(g.pairs)
}
