// Package suffering computes the normalized distress score of a memory.
package suffering

import "github.com/rcliao/ethical-memory/internal/model"

const (
	healingWeight    = 0.3
	reflectionWeight = 0.1
)

var negativeEmotions = map[string]float64{
	"pain":    0.9,
	"trauma":  1.0,
	"fear":    0.8,
	"anger":   0.7,
	"sadness": 0.6,
	"regret":  0.7,
	"shame":   0.8,
	"guilt":   0.75,
	"despair": 0.95,
}

var healingEmotions = map[string]float64{
	"joy":         -0.3,
	"love":        -0.5,
	"peace":       -0.4,
	"gratitude":   -0.4,
	"hope":        -0.3,
	"wisdom":      -0.6,
	"acceptance":  -0.5,
	"forgiveness": -0.7,
}

// BaseWeight returns the signed table weight for emotion. Unknown labels weigh 0.
func BaseWeight(emotion string) float64 {
	return negativeEmotions[emotion] + healingEmotions[emotion]
}

// Compute derives the suffering index in [0, 1]. It is a pure function of
// its inputs and is recomputed from scratch after every structural change.
func Compute(emotion string, intensity float64, healings []model.SemanticHealing, reflectionCount int, healingPotential float64) float64 {
	raw := BaseWeight(emotion) * intensity

	var healed float64
	for _, h := range healings {
		healed += h.AuthenticityScore * healingWeight
	}

	return clamp(raw - healed - float64(reflectionCount)*reflectionWeight - healingPotential)
}

// ForMemory recomputes the suffering index from the memory's current fields.
func ForMemory(m *model.Memory) float64 {
	return Compute(m.Emotion, m.Intensity, m.SemanticHealings, len(m.Reflections), m.HealingPotential)
}

// clamp maps v into [0, 1]. NaN maps to 0.
func clamp(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
