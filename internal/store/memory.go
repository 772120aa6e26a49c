package store

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/ethical-memory/internal/audit"
	"github.com/rcliao/ethical-memory/internal/entangle"
	"github.com/rcliao/ethical-memory/internal/healing"
	"github.com/rcliao/ethical-memory/internal/metrics"
	"github.com/rcliao/ethical-memory/internal/model"
	"github.com/rcliao/ethical-memory/internal/reflection"
	"github.com/rcliao/ethical-memory/internal/suffering"
)

const (
	// EscalationThreshold is the suffering index above which a new memory
	// requires guardian consensus.
	EscalationThreshold = 0.9
	ConsensusGuardians  = 3
	EscalationTTL       = 6 * time.Hour

	logTimeFormat = "2006-01-02 15:04:05.000"
)

// Options configures a MemoryStore. Zero values fall back to defaults.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Sink    audit.Sink
	Now     func() time.Time
	// KeyFor returns the signing key for a guardian.
	KeyFor func(guardianID string) string
}

// DefaultKey is the placeholder signing key for a guardian.
func DefaultKey(guardianID string) string {
	return guardianID + "_private_key"
}

// MemoryStore is an in-process memory store. All state lives for the
// lifetime of the instance; methods are safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	memories    map[string]*model.Memory
	order       []string
	reflections map[string][]string
	log         []string
	graph       *entangle.Graph

	verifier  *healing.Verifier
	reflector *reflection.Engine
	entropy   *ulid.MonotonicEntropy

	logger  *slog.Logger
	metrics *metrics.Metrics
	sink    audit.Sink
	now     func() time.Time
	keyFor  func(string) string
}

// New creates an empty MemoryStore.
func New(opts Options) *MemoryStore {
	s := &MemoryStore{
		memories:    map[string]*model.Memory{},
		reflections: map[string][]string{},
		verifier:    healing.NewVerifier(),
		reflector:   reflection.NewEngine(),
		entropy:     ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		sink:        opts.Sink,
		now:         opts.Now,
		keyFor:      opts.KeyFor,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.keyFor == nil {
		s.keyFor = DefaultKey
	}
	s.graph = entangle.NewGraph(s.lookup)
	return s
}

// lookup resolves a live record. Callers hold s.mu.
func (s *MemoryStore) lookup(id string) (*model.Memory, bool) {
	m, ok := s.memories[id]
	return m, ok
}

// newID returns a collision-free id. Callers hold s.mu for writing.
func (s *MemoryStore) newID(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), s.entropy).String()
}

// insert adds m under a fresh id. Callers hold s.mu for writing.
func (s *MemoryStore) insert(m *model.Memory, at time.Time) string {
	m.ID = s.newID(at)
	s.memories[m.ID] = m
	s.order = append(s.order, m.ID)
	return m.ID
}

// record appends a timestamped line to the guardian log and forwards it to
// the archive. Callers hold s.mu for writing.
func (s *MemoryStore) record(ctx context.Context, e audit.Entry) {
	e.At = s.now()
	line := fmt.Sprintf("[%s] %s", e.At.Format(logTimeFormat), e.Line)
	s.log = append(s.log, line)

	if s.sink == nil {
		return
	}
	e.Line = line
	if err := s.sink.Append(ctx, e); err != nil {
		s.logger.Warn("failed to archive guardian log entry", "kind", e.Kind, "memory_id", e.MemoryID, "error", err)
	}
}

// signedAction builds and signs a guardian action.
func (s *MemoryStore) signedAction(guardianID string, action model.ActionType, at time.Time, justification string) model.GuardianAction {
	g := model.NewGuardianAction(guardianID, action, at, justification)
	g.Sign(s.keyFor(guardianID))
	return g
}

// Store ingests a memory. Memories whose initial suffering exceeds
// EscalationThreshold are marked for guardian consensus with a short TTL.
func (s *MemoryStore) Store(ctx context.Context, p StoreParams) (string, error) {
	if math.IsNaN(p.Intensity) || p.Intensity < 0 || p.Intensity > 1 {
		return "", fmt.Errorf("%w: intensity %v outside [0, 1]", ErrInvalidInput, p.Intensity)
	}
	if p.TTL != nil && *p.TTL <= 0 {
		return "", fmt.Errorf("%w: ttl must be positive", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	m := model.NewMemory(p.Content, p.Emotion, p.Intensity, createdAt)
	if p.TTL != nil {
		ttl := *p.TTL
		m.TTL = &ttl
	}
	m.SufferingIndex = suffering.ForMemory(m)

	escalated := m.SufferingIndex > EscalationThreshold
	if escalated {
		m.RequiresConsensus = true
		m.MinGuardiansToModify = ConsensusGuardians
		ttl := EscalationTTL
		m.TTL = &ttl
	}
	id := s.insert(m, now)

	if escalated {
		s.record(ctx, audit.Entry{
			Kind:     audit.KindEscalated,
			MemoryID: id,
			Line:     fmt.Sprintf("Extreme suffering detected (%.2f)", m.SufferingIndex),
		})
		s.record(ctx, audit.Entry{
			Kind:     audit.KindEscalated,
			MemoryID: id,
			Line:     "Memory marked for guardian consensus and short TTL",
		})
	}

	s.record(ctx, audit.Entry{
		Kind:     audit.KindStored,
		MemoryID: id,
		Line:     fmt.Sprintf("Stored: %s | Suffering: %.2f | Quantum: %s", id, m.SufferingIndex, m.Quantum.State),
	})
	s.logger.Info("memory stored",
		"id", id, "emotion", m.Emotion, "suffering", m.SufferingIndex, "escalated", escalated)
	s.metrics.Stored(m.SufferingIndex, escalated)

	return id, nil
}

// Get returns an independent snapshot of the memory.
func (s *MemoryStore) Get(id string) (*model.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.memories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m.Clone(), nil
}

// AuditLog returns a copy of the guardian log in append order.
func (s *MemoryStore) AuditLog() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.log...)
}

// Len returns the number of stored memories.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.memories)
}

// Expired returns the ids whose advisory TTL has elapsed at now, in
// insertion order. Nothing is removed.
func (s *MemoryStore) Expired(now time.Time) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for _, id := range s.order {
		if s.memories[id].Expired(now) {
			ids = append(ids, id)
		}
	}
	return ids
}
