package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/ethical-memory/internal/audit"
	"github.com/rcliao/ethical-memory/internal/entangle"
)

// Entangle links two memories under a shared collapse condition.
func (s *MemoryStore) Entangle(ctx context.Context, a, b, condition string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.graph.Entangle(a, b, condition, s.now())
	if err != nil {
		return false, err
	}
	s.metrics.Entanglement(ok)

	if !ok {
		s.record(ctx, audit.Entry{
			Kind:     audit.KindEntangleLimit,
			MemoryID: a,
			Line:     fmt.Sprintf("Cannot entangle %s <-> %s - max depth %d reached", a, b, entangle.MaxDepth),
		})
		s.logger.Info("entanglement rejected", "a", a, "b", b, "max_depth", entangle.MaxDepth)
		return false, nil
	}

	s.record(ctx, audit.Entry{
		Kind:     audit.KindEntangled,
		MemoryID: a,
		Line:     fmt.Sprintf("Quantum entanglement created: %s <-> %s | Collapse condition: %s", a, b, condition),
	})
	s.logger.Info("entanglement created", "a", a, "b", b)
	return true, nil
}

// EnterSuperposition puts the memory into superposition over states.
func (s *MemoryStore) EnterSuperposition(ctx context.Context, id string, states []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.graph.EnterSuperposition(id, states); err != nil {
		return err
	}
	s.record(ctx, audit.Entry{
		Kind:     audit.KindSuperposition,
		MemoryID: id,
		Line:     fmt.Sprintf("Superposition entered: %s | States: %s", id, strings.Join(states, ", ")),
	})
	return nil
}

// Collapse resolves the memory to chosen and returns it.
func (s *MemoryStore) Collapse(ctx context.Context, id, chosen string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	got, err := s.graph.Collapse(id, chosen, s.now())
	if err != nil {
		return "", err
	}
	s.record(ctx, audit.Entry{
		Kind:     audit.KindCollapsed,
		MemoryID: id,
		Line:     fmt.Sprintf("Collapsed: %s -> %s", id, got),
	})
	return got, nil
}

// Depth returns the entanglement depth of id.
func (s *MemoryStore) Depth(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.Depth(id)
}

// Pairs returns the entangled pairs in insertion order.
func (s *MemoryStore) Pairs() []Pair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.Pairs()
}
