// Package store provides the memory store that routes scoring, healing,
// reflection and entanglement, and keeps the guardian log.
package store

import (
	"context"
	"time"

	"github.com/rcliao/ethical-memory/internal/entangle"
	"github.com/rcliao/ethical-memory/internal/model"
)

var (
	ErrNotFound     = model.ErrNotFound
	ErrInvalidInput = model.ErrInvalidInput
)

// StoreParams holds parameters for ingesting a memory.
type StoreParams struct {
	Content   string
	Emotion   string
	Intensity float64   // 0.0 to 1.0
	CreatedAt time.Time // zero means now
	TTL       *time.Duration
}

// HealParams holds parameters for a semantic healing request.
type HealParams struct {
	ID         string
	Narrative  string
	Steps      []string
	GuardianID string
}

// ReflectParams holds parameters for a reflection request.
type ReflectParams struct {
	ID          string
	Perspective string
	Type        model.ReflectionType
	GuardianID  string
	Wisdom      string
}

// Status summarizes quantum states across the store.
type Status struct {
	States         map[model.QuantumState]int `json:"quantum_statistics"`
	EntangledPairs int                        `json:"entangled_pairs"`
	TotalMemories  int                        `json:"total_memories"`
}

// Store defines the memory store interface.
type Store interface {
	// Store ingests a memory and returns its id.
	Store(ctx context.Context, p StoreParams) (string, error)

	// HealMemory applies a semantic healing. It reports false when the
	// narrative is rejected; the error is reserved for unknown ids.
	HealMemory(ctx context.Context, p HealParams) (bool, error)

	// ReflectOnMemory creates a reflected copy and returns its id.
	ReflectOnMemory(ctx context.Context, p ReflectParams) (string, error)

	// Entangle links two memories. It reports false when the depth limit
	// would be exceeded.
	Entangle(ctx context.Context, a, b, condition string) (bool, error)

	// Get returns an independent snapshot of a memory.
	Get(id string) (*model.Memory, error)

	// QuantumStatus counts memories per quantum state.
	QuantumStatus() Status

	// AuditLog returns a snapshot of the guardian log.
	AuditLog() []string
}

var _ Store = (*MemoryStore)(nil)

// Pair is a recorded entanglement.
type Pair = entangle.Pair
