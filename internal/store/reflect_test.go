package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/ethical-memory/internal/model"
)

func TestReflectOnMemoryLeavesSourceUntouched(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	src := mustStore(t, s, "shame", 0.9)
	before, _ := s.Get(src)

	id, err := s.ReflectOnMemory(ctx, ReflectParams{
		ID:          src,
		Perspective: "Every expert was once a beginner who failed many times",
		Type:        model.ReflectElevation,
		GuardianID:  "guardian_002",
		Wisdom:      "Failure is a teacher, not a verdict",
	})
	require.NoError(t, err)
	require.NotEqual(t, src, id)

	after, _ := s.Get(src)
	assert.Equal(t, before.Content, after.Content)
	assert.Equal(t, before.SufferingIndex, after.SufferingIndex)
	assert.Equal(t, before.Reflections, after.Reflections)
	assert.Equal(t, before, after)

	reflected, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, reflected.ID)
	assert.Equal(t, before.Content+"\n[Reflected: Every expert was once a beginner who failed many times]", reflected.Content)
	assert.InDelta(t, before.SufferingIndex*0.7, reflected.SufferingIndex, 1e-9)
	assert.InDelta(t, 0.2, reflected.WisdomScore, 1e-9)
	require.Len(t, reflected.Reflections, 1)
	assert.Equal(t, before.Content+"...", reflected.Reflections[0].OriginalPerspective)
	assert.Equal(t, "Reframing for wisdom: Failure is a teacher, not a verdict", reflected.Reflections[0].Guardian.Justification)

	assert.Equal(t, []string{id}, s.Reflections(src))
	assert.Equal(t, 2, s.Len())

	log := s.AuditLog()
	assert.Contains(t, log[len(log)-1], "Created reflection: "+id)
}

func TestReflectOnMemoryTwiceIndexesBoth(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	src := mustStore(t, s, "regret", 0.6)

	a, err := s.ReflectOnMemory(ctx, ReflectParams{ID: src, Perspective: "one", Type: model.ReflectReturn, GuardianID: "g"})
	require.NoError(t, err)
	b, err := s.ReflectOnMemory(ctx, ReflectParams{ID: src, Perspective: "two", Type: model.ReflectDescent, GuardianID: "g"})
	require.NoError(t, err)

	assert.Equal(t, []string{a, b}, s.Reflections(src))
	assert.Empty(t, s.Reflections(a))
}

func TestReflectOnMemoryNotFound(t *testing.T) {
	s := newTestStore(t)
	id, err := s.ReflectOnMemory(context.Background(), ReflectParams{ID: "missing"})
	assert.Empty(t, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, s.AuditLog())
}

func TestReflectedMemoryDoesNotShareEntanglement(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a := mustStore(t, s, "fear", 0.5)
	b := mustStore(t, s, "hope", 0.5)
	_, err := s.Entangle(ctx, a, b, "c")
	require.NoError(t, err)

	r, err := s.ReflectOnMemory(ctx, ReflectParams{ID: a, Perspective: "p", Type: model.ReflectExpansion, GuardianID: "g"})
	require.NoError(t, err)

	require.NoError(t, s.EnterSuperposition(ctx, r, []string{"x"}))
	orig, _ := s.Get(a)
	assert.Equal(t, model.Entangled, orig.Quantum.State)
}

func TestAnnotateMemory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id := mustStore(t, s, "pain", 1.0)

	require.NoError(t, s.AnnotateMemory(ctx, ReflectParams{ID: id, Perspective: "softer", Type: model.ReflectReturn, GuardianID: "g", Wisdom: "w"}))

	m, _ := s.Get(id)
	assert.Len(t, m.Reflections, 1)
	assert.InDelta(t, 0.8, m.SufferingIndex, 1e-9)
	assert.InDelta(t, 0.15, m.WisdomScore, 1e-9)
	assert.Equal(t, 1, s.Len())
	assert.Empty(t, s.Reflections(id))

	assert.ErrorIs(t, s.AnnotateMemory(ctx, ReflectParams{ID: "missing"}), ErrNotFound)
}

func TestReflectRejectsUnknownType(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id := mustStore(t, s, "grief", 0.5)
	logLen := len(s.AuditLog())

	_, err := s.ReflectOnMemory(ctx, ReflectParams{ID: id, Perspective: "p", Type: "sideways", GuardianID: "g"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, s.AnnotateMemory(ctx, ReflectParams{ID: id, Perspective: "p", GuardianID: "g"}), ErrInvalidInput)

	m, _ := s.Get(id)
	assert.Empty(t, m.Reflections)
	assert.Empty(t, m.GuardianActions)
	assert.Equal(t, 1, s.Len())
	assert.Len(t, s.AuditLog(), logLen)
}

func TestReflectAcceptsTypeSymbol(t *testing.T) {
	s := newTestStore(t)
	src := mustStore(t, s, "fear", 0.5)

	id, err := s.ReflectOnMemory(context.Background(), ReflectParams{ID: src, Perspective: "p", Type: "^", GuardianID: "g"})
	require.NoError(t, err)

	m, _ := s.Get(id)
	assert.Equal(t, model.ReflectElevation, m.Reflections[0].Type)
}
