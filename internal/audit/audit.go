// Package audit archives guardian log entries.
//
// The archive is write-mostly: entries are appended as the store records
// them and read back only for inspection. Store state is never rebuilt
// from it.
package audit

import (
	"context"
	"time"
)

// Kind classifies a guardian log entry.
type Kind string

const (
	KindStored        Kind = "stored"
	KindEscalated     Kind = "escalated"
	KindHealed        Kind = "healed"
	KindHealRejected  Kind = "heal_rejected"
	KindReflected     Kind = "reflected"
	KindAnnotated     Kind = "annotated"
	KindEntangled     Kind = "entangled"
	KindEntangleLimit Kind = "entangle_rejected"
	KindSuperposition Kind = "superposition"
	KindCollapsed     Kind = "collapsed"
	KindPotential     Kind = "potential"
	KindProtected     Kind = "protected"
)

// Entry is one archived guardian log line.
type Entry struct {
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
	Kind       Kind      `json:"kind"`
	MemoryID   string    `json:"memory_id,omitempty"`
	GuardianID string    `json:"guardian_id,omitempty"`
	Line       string    `json:"line"`
}

// ListParams holds parameters for listing archived entries.
type ListParams struct {
	MemoryID string
	Kind     Kind
	Limit    int
}

// Sink receives guardian log entries as they are recorded.
type Sink interface {
	// Append archives one entry. The entry ID is assigned by the sink when empty.
	Append(ctx context.Context, e Entry) error
}
