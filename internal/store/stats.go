package store

import "github.com/rcliao/ethical-memory/internal/model"

// QuantumStatus counts memories per quantum state. The per-state counts
// always sum to TotalMemories.
func (s *MemoryStore) QuantumStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		States:         make(map[model.QuantumState]int, len(model.QuantumStates)),
		EntangledPairs: s.graph.PairCount(),
		TotalMemories:  len(s.memories),
	}
	for _, state := range model.QuantumStates {
		st.States[state] = 0
	}
	for _, m := range s.memories {
		st.States[m.Quantum.State]++
	}

	counts := make(map[string]int, len(st.States))
	for state, n := range st.States {
		counts[string(state)] = n
	}
	s.metrics.States(counts)

	return st
}
