package store

import "github.com/rcliao/ethical-memory/internal/model"

// Export returns independent snapshots of all memories in insertion order.
func (s *MemoryStore) Export() []model.Memory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	memories := make([]model.Memory, 0, len(s.order))
	for _, id := range s.order {
		memories = append(memories, *s.memories[id].Clone())
	}
	return memories
}
