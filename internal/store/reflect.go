package store

import (
	"context"
	"fmt"

	"github.com/rcliao/ethical-memory/internal/audit"
	"github.com/rcliao/ethical-memory/internal/model"
	"github.com/rcliao/ethical-memory/internal/reflection"
)

// ReflectOnMemory stores a reflected copy of the memory under a new id and
// indexes it against its source. The source memory is not modified. The
// type is a named reflection type or its symbol; anything else is
// ErrInvalidInput.
func (s *MemoryStore) ReflectOnMemory(ctx context.Context, p ReflectParams) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.memories[p.ID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	typ, err := model.ParseReflectionType(string(p.Type))
	if err != nil {
		return "", err
	}

	now := s.now()
	guardian := s.signedAction(p.GuardianID, model.ActionReflect, now, "Reframing for wisdom: "+p.Wisdom)

	reflected := s.reflector.Reflect(src, p.Perspective, typ, guardian, p.Wisdom)
	id := s.insert(reflected, now)
	s.reflections[p.ID] = append(s.reflections[p.ID], id)

	s.record(ctx, audit.Entry{
		Kind:       audit.KindReflected,
		MemoryID:   id,
		GuardianID: p.GuardianID,
		Line: fmt.Sprintf("Created reflection: %s from %s | Type: %s | Wisdom: %.2f",
			id, p.ID, typ, reflected.WisdomScore),
	})
	s.logger.Info("reflection created", "id", id, "source", p.ID, "type", typ, "guardian", p.GuardianID)
	s.metrics.Reflection()

	return id, nil
}

// AnnotateMemory attaches a reflection to the memory in place, recomputing
// its suffering with the added reflection credit.
func (s *MemoryStore) AnnotateMemory(ctx context.Context, p ReflectParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.memories[p.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	typ, err := model.ParseReflectionType(string(p.Type))
	if err != nil {
		return err
	}

	guardian := s.signedAction(p.GuardianID, model.ActionReflect, s.now(), "Reframing for wisdom: "+p.Wisdom)
	s.reflector.Annotate(m, reflection.NewReflection(m, p.Perspective, typ, guardian, p.Wisdom))

	s.record(ctx, audit.Entry{
		Kind:       audit.KindAnnotated,
		MemoryID:   p.ID,
		GuardianID: p.GuardianID,
		Line: fmt.Sprintf("Annotated %s | Type: %s | Wisdom: %.2f | New suffering: %.2f",
			p.ID, typ, m.WisdomScore, m.SufferingIndex),
	})
	s.metrics.Reflection()
	return nil
}

// Reflections returns the ids of memories reflected from id, oldest first.
func (s *MemoryStore) Reflections(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.reflections[id]...)
}
