// Package healing scores semantic healing narratives for authenticity.
//
// The score is a deterministic heuristic over surface features of the text
// and the transformation path. It does not attempt to understand language.
package healing

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rcliao/ethical-memory/internal/model"
)

// AcceptThreshold is the score a healing must exceed to be attached.
const AcceptThreshold = 0.5

const (
	minNarrativeLen = 50
	maxNarrativeLen = 1000
	minPathSteps    = 3

	lengthBonus     = 0.2
	longLengthBonus = 0.1
	pathBonus       = 0.3
	growthHit       = 0.1
	growthCap       = 0.3
	genericHit      = 0.05
	genericCap      = 0.2
	repetitionCut   = 0.2
	minUniqueRatio  = 0.5
)

// Words that signal specific, process-oriented growth.
var growthKeywords = []string{"learned", "grew", "understood", "accepted", "forgave", "transformed"}

// Words that are too generic to count as evidence of change.
var genericKeywords = []string{"love", "heal", "better", "good", "nice"}

// Verdict is a scored narrative with the contribution of each signal.
type Verdict struct {
	Score        float64 `json:"score"`
	Accepted     bool    `json:"accepted"`
	Length       float64 `json:"length"`
	Process      float64 `json:"process"`
	Growth       float64 `json:"growth"`
	Generic      float64 `json:"generic"`
	Repetition   float64 `json:"repetition"`
	UniqueRatio  float64 `json:"unique_ratio"`
	GrowthHits   int     `json:"growth_hits"`
	GenericHits  int     `json:"generic_hits"`
	NarrativeLen int     `json:"narrative_len"`
}

// Verifier is the accept/reject gate for semantic healings.
type Verifier struct{}

// NewVerifier returns a Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Score returns the authenticity score in [0, 1].
func (v *Verifier) Score(narrative string, path []string) float64 {
	return v.Evaluate(narrative, path).Score
}

// Accept reports whether the narrative scores above AcceptThreshold.
func (v *Verifier) Accept(narrative string, path []string) bool {
	return v.Score(narrative, path) > AcceptThreshold
}

// Evaluate scores the narrative and reports each signal separately.
func (v *Verifier) Evaluate(narrative string, path []string) Verdict {
	var vd Verdict
	lower := strings.ToLower(narrative)

	vd.NarrativeLen = utf8.RuneCountInString(narrative)
	switch {
	case vd.NarrativeLen >= maxNarrativeLen:
		vd.Length = longLengthBonus
	case vd.NarrativeLen >= minNarrativeLen:
		vd.Length = lengthBonus
	}

	if len(path) >= minPathSteps {
		vd.Process = pathBonus
	}

	vd.GrowthHits = countKeywords(lower, growthKeywords)
	vd.GenericHits = countKeywords(lower, genericKeywords)
	vd.Growth = min(growthCap, float64(vd.GrowthHits)*growthHit)
	vd.Generic = -min(genericCap, float64(vd.GenericHits)*genericHit)

	vd.UniqueRatio = uniqueRatio(lower)
	if vd.UniqueRatio < minUniqueRatio {
		vd.Repetition = -repetitionCut
	}

	vd.Score = clamp(vd.Length + vd.Process + vd.Growth + vd.Generic + vd.Repetition)
	vd.Accepted = vd.Score > AcceptThreshold
	return vd
}

// Heal scores the narrative and builds the healing record carrying the
// guardian's signature. The bool reports acceptance; a rejected healing
// must not be attached to a memory.
func (v *Verifier) Heal(narrative string, path []string, guardian model.GuardianAction, at time.Time) (model.SemanticHealing, bool) {
	sig := guardian.Signature
	if sig == "" {
		sig = "unsigned"
	}
	score := v.Score(narrative, path)
	return model.SemanticHealing{
		Narrative:          narrative,
		TransformationPath: append([]string(nil), path...),
		GuardianSignature:  sig,
		Timestamp:          at,
		AuthenticityScore:  score,
	}, score > AcceptThreshold
}

func countKeywords(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}

// uniqueRatio is distinct words over total words. Empty text counts as fully unique.
func uniqueRatio(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 1
	}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	return float64(len(seen)) / float64(len(words))
}

func clamp(v float64) float64 {
	return max(0, min(1, v))
}
