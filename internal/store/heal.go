package store

import (
	"context"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/rcliao/ethical-memory/internal/audit"
	"github.com/rcliao/ethical-memory/internal/model"
	"github.com/rcliao/ethical-memory/internal/suffering"
)

const maxJustification = 100

// HealMemory signs a heal action and submits the narrative to the verifier.
// An accepted healing is attached with its action and suffering is
// recomputed. A rejected healing leaves the memory untouched.
func (s *MemoryStore) HealMemory(ctx context.Context, p HealParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.memories[p.ID]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}

	now := s.now()
	guardian := s.signedAction(p.GuardianID, model.ActionHeal, now, truncate(p.Narrative, maxJustification))

	h, accepted := s.verifier.Heal(p.Narrative, p.Steps, guardian, now)
	// A narrative that only restates the memory is not a change.
	accepted = accepted && h.VerifySemanticChange(m.Content, p.Narrative)
	s.metrics.Healing(accepted)
	if !accepted {
		s.record(ctx, audit.Entry{
			Kind:       audit.KindHealRejected,
			MemoryID:   p.ID,
			GuardianID: p.GuardianID,
			Line:       fmt.Sprintf("Semantic healing rejected for %s - low authenticity (%.2f)", p.ID, h.AuthenticityScore),
		})
		s.logger.Info("healing rejected", "id", p.ID, "guardian", p.GuardianID, "authenticity", h.AuthenticityScore)
		return false, nil
	}

	m.SemanticHealings = append(m.SemanticHealings, h)
	m.GuardianActions = append(m.GuardianActions, guardian)
	m.SufferingIndex = suffering.ForMemory(m)

	s.record(ctx, audit.Entry{
		Kind:       audit.KindHealed,
		MemoryID:   p.ID,
		GuardianID: p.GuardianID,
		Line: fmt.Sprintf("Semantic healing applied to %s | Authenticity: %.2f | New suffering: %.2f",
			p.ID, h.AuthenticityScore, m.SufferingIndex),
	})
	s.logger.Info("healing applied",
		"id", p.ID, "guardian", p.GuardianID, "authenticity", h.AuthenticityScore, "suffering", m.SufferingIndex)
	return true, nil
}

// AdjustHealingPotential sets the externally supplied healing potential,
// clamped to [0, 1], under a signed transform action.
func (s *MemoryStore) AdjustHealingPotential(ctx context.Context, id string, potential float64, guardianID, justification string) error {
	if math.IsNaN(potential) {
		return fmt.Errorf("%w: healing potential is NaN", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.memories[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	now := s.now()
	m.GuardianActions = append(m.GuardianActions, s.signedAction(guardianID, model.ActionTransform, now, justification))
	m.HealingPotential = max(0, min(1, potential))
	m.SufferingIndex = suffering.ForMemory(m)

	s.record(ctx, audit.Entry{
		Kind:       audit.KindPotential,
		MemoryID:   id,
		GuardianID: guardianID,
		Line:       fmt.Sprintf("Healing potential for %s set to %.2f | New suffering: %.2f", id, m.HealingPotential, m.SufferingIndex),
	})
	return nil
}

// Protect records a signed protect action and marks the memory as not forgettable.
func (s *MemoryStore) Protect(ctx context.Context, id, guardianID, justification string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.memories[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	m.GuardianActions = append(m.GuardianActions, s.signedAction(guardianID, model.ActionProtect, s.now(), justification))
	m.CanForget = false

	s.record(ctx, audit.Entry{
		Kind:       audit.KindProtected,
		MemoryID:   id,
		GuardianID: guardianID,
		Line:       fmt.Sprintf("Memory %s protected by %s", id, guardianID),
	})
	return nil
}

// VerifyActions reports whether every guardian action on the memory
// carries a signature matching its guardian's key.
func (s *MemoryStore) VerifyActions(id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.memories[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	for _, g := range m.GuardianActions {
		if !g.Verify(s.keyFor(g.GuardianID)) {
			return false, nil
		}
	}
	return true, nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
