package healing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/ethical-memory/internal/model"
)

const growthNarrative = "After failing the exam I learned to plan study sessions in small blocks, " +
	"grew patient with my own pace, and understood that one result does not define my worth " +
	"as a student or as a person today."

var fourSteps = []string{
	"Recognized the pain",
	"Identified the learning opportunity",
	"Developed new study habits",
	"Practiced self-compassion",
}

func TestAcceptsSpecificGrowthNarrative(t *testing.T) {
	v := NewVerifier()
	vd := v.Evaluate(growthNarrative, fourSteps)

	assert.Equal(t, 3, vd.GrowthHits)
	assert.Equal(t, 0, vd.GenericHits)
	assert.Zero(t, vd.Repetition)
	assert.InDelta(t, 0.8, vd.Score, 1e-9)
	assert.True(t, vd.Accepted)
	assert.True(t, v.Accept(growthNarrative, fourSteps))
}

func TestRejectsLoveBombing(t *testing.T) {
	v := NewVerifier()
	narrative := strings.TrimSpace(strings.Repeat("love ", 20))
	vd := v.Evaluate(narrative, nil)

	assert.InDelta(t, 0.05, vd.UniqueRatio, 1e-9)
	assert.Equal(t, -0.2, vd.Repetition)
	assert.Equal(t, 1, vd.GenericHits)
	assert.Zero(t, vd.Score)
	assert.False(t, v.Accept(narrative, nil))
}

func TestShortNarrativeNeverAccepted(t *testing.T) {
	v := NewVerifier()
	inputs := []struct {
		narrative string
		path      []string
	}{
		{"learned grew understood accepted forgave", []string{"a", "b"}},
		{"I learned. I grew. I understood. I forgave.", nil},
		{"transformed", []string{"one"}},
		{"", nil},
	}
	for _, in := range inputs {
		require.Less(t, len([]rune(in.narrative)), 50)
		assert.LessOrEqual(t, v.Score(in.narrative, in.path), AcceptThreshold, in.narrative)
		assert.False(t, v.Accept(in.narrative, in.path))
	}
}

func TestLengthBonus(t *testing.T) {
	v := NewVerifier()
	tests := []struct {
		name string
		n    int
		want float64
	}{
		{"below minimum", 49, 0},
		{"at minimum", 50, 0.2},
		{"upper bound", 999, 0.2},
		{"very long", 1000, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vd := v.Evaluate(distinctWords(tt.n), nil)
			assert.Equal(t, tt.n, vd.NarrativeLen)
			assert.Equal(t, tt.want, vd.Length)
		})
	}
}

func TestKeywordCaps(t *testing.T) {
	v := NewVerifier()
	vd := v.Evaluate("LEARNED grew understood accepted forgave transformed love heal better good nice", nil)

	assert.Equal(t, 6, vd.GrowthHits)
	assert.Equal(t, 5, vd.GenericHits)
	assert.Equal(t, 0.3, vd.Growth)
	assert.Equal(t, -0.2, vd.Generic)
}

func TestScoreClamped(t *testing.T) {
	v := NewVerifier()
	assert.Equal(t, 0.0, v.Score("nice nice nice nice", nil))
}

func TestHealCarriesSignature(t *testing.T) {
	v := NewVerifier()
	at := time.Now()

	g := model.NewGuardianAction("g1", model.ActionHeal, at, "j")
	g.Sign("key")
	h, ok := v.Heal(growthNarrative, fourSteps, g, at)
	require.True(t, ok)
	assert.Equal(t, g.Signature, h.GuardianSignature)
	assert.InDelta(t, 0.8, h.AuthenticityScore, 1e-9)

	unsigned := model.NewGuardianAction("g2", model.ActionHeal, at, "j")
	h, ok = v.Heal("short", nil, unsigned, at)
	assert.False(t, ok)
	assert.Equal(t, "unsigned", h.GuardianSignature)
}

// distinctWords builds a narrative of exactly n runes with no repeated words.
func distinctWords(n int) string {
	var b strings.Builder
	for i := 0; b.Len() < n; i++ {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("w")
		b.WriteString(strings.Repeat("x", i%7))
		b.WriteString(string(rune('a' + i%26)))
		b.WriteString(string(rune('a' + (i/26)%26)))
	}
	return b.String()[:n]
}
