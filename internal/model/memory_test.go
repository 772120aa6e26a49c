package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemoryDefaults(t *testing.T) {
	m := NewMemory("content", "fear", 0.5, time.Now())

	assert.Equal(t, Classical, m.Quantum.State)
	assert.Equal(t, 1.0, m.Authenticity)
	assert.True(t, m.CanForget)
	assert.False(t, m.RequiresConsensus)
	assert.Equal(t, 1, m.MinGuardiansToModify)
	assert.Nil(t, m.ExpiresAt())
}

func TestCloneIsIndependent(t *testing.T) {
	ttl := time.Hour
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := NewMemory("original", "pain", 0.9, at)
	m.TTL = &ttl
	m.SemanticHealings = []SemanticHealing{{Narrative: "n", TransformationPath: []string{"a", "b"}}}
	m.GuardianActions = []GuardianAction{NewGuardianAction("g1", ActionHeal, at, "j")}
	m.Reflections = []Reflection{{NewPerspective: "p"}}
	m.Quantum.EntangleWith("peer", "cond")
	m.Quantum.Collapse("x", at)

	c := m.Clone()
	*c.TTL = time.Minute
	c.SemanticHealings[0].TransformationPath[0] = "changed"
	c.SemanticHealings = append(c.SemanticHealings, SemanticHealing{})
	c.GuardianActions[0].GuardianID = "other"
	c.Reflections[0].NewPerspective = "changed"
	c.Quantum.EntangledWith[0] = "changed"
	*c.Quantum.MeasurementTime = at.Add(time.Hour)

	assert.Equal(t, time.Hour, *m.TTL)
	assert.Equal(t, "a", m.SemanticHealings[0].TransformationPath[0])
	assert.Len(t, m.SemanticHealings, 1)
	assert.Equal(t, "g1", m.GuardianActions[0].GuardianID)
	assert.Equal(t, "p", m.Reflections[0].NewPerspective)
	assert.Equal(t, "peer", m.Quantum.EntangledWith[0])
	assert.Equal(t, at, *m.Quantum.MeasurementTime)
}

func TestExpired(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ttl := 6 * time.Hour
	m := NewMemory("c", "trauma", 1, at)
	m.TTL = &ttl

	assert.False(t, m.Expired(at.Add(5*time.Hour)))
	assert.True(t, m.Expired(at.Add(6*time.Hour)))
}

func TestGuardianSignAndVerify(t *testing.T) {
	g := NewGuardianAction("guardian_001", ActionHeal, time.Now(), "helping")
	sig := g.Sign("key")

	require.Len(t, sig, 64)
	assert.True(t, g.Verify("key"))
	assert.False(t, g.Verify("wrong"))

	// Signing is set-once.
	assert.Equal(t, sig, g.Sign("other-key"))

	tampered := g
	tampered.Justification = "something else"
	assert.False(t, tampered.Verify("key"))
}

func TestGuardianSignatureDeterministic(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := NewGuardianAction("g", ActionReflect, at, "j")
	b := NewGuardianAction("g", ActionReflect, at, "j")
	assert.Equal(t, a.Sign("k"), b.Sign("k"))
}

func TestUnsignedActionDoesNotVerify(t *testing.T) {
	g := NewGuardianAction("g", ActionProtect, time.Now(), "j")
	assert.False(t, g.Verify(""))
}

func TestUnknownActionTypeDoesNotVerify(t *testing.T) {
	g := NewGuardianAction("g", ActionType("erase"), time.Now(), "j")
	g.Sign("k")
	assert.False(t, g.Verify("k"))
}

func TestParseReflectionType(t *testing.T) {
	tests := []struct {
		in   string
		want ReflectionType
	}{
		{"return", ReflectReturn},
		{"↺", ReflectReturn},
		{"^", ReflectElevation},
		{"Elevation", ReflectElevation},
		{"v", ReflectDescent},
		{"∞", ReflectExpansion},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReflectionType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"sideways", ""} {
		_, err := ParseReflectionType(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestPerspectiveSnapshot(t *testing.T) {
	assert.Equal(t, "short...", PerspectiveSnapshot("short"))

	long := strings.Repeat("é", 150)
	snap := PerspectiveSnapshot(long)
	assert.Equal(t, strings.Repeat("é", 100)+"...", snap)
}

func TestVerifySemanticChange(t *testing.T) {
	h := SemanticHealing{TransformationPath: []string{"step"}, AuthenticityScore: 0.6}
	assert.True(t, h.VerifySemanticChange("before", "after"))
	assert.False(t, h.VerifySemanticChange("same", "same"))

	h.AuthenticityScore = 0.5
	assert.False(t, h.VerifySemanticChange("before", "after"))
}

func TestQuantumTransitionsAreNotMonotonic(t *testing.T) {
	var q QuantumSignature
	q.EnterSuperposition([]string{"a", "b"})
	assert.Equal(t, Superposition, q.State)

	got := q.Collapse("a", time.Now())
	assert.Equal(t, "a", got)
	assert.Equal(t, Collapsed, q.State)
	require.NotNil(t, q.MeasurementTime)

	q.EntangleWith("peer", "cond")
	assert.Equal(t, Entangled, q.State)
}
