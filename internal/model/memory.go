// Package model defines the core memory data types.
package model

import "time"

// Memory represents a stored, emotionally weighted memory entry.
type Memory struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Emotion   string         `json:"emotion"`
	Intensity float64        `json:"intensity"`
	CreatedAt time.Time      `json:"created_at"`
	TTL       *time.Duration `json:"ttl,omitempty"`

	SemanticHealings []SemanticHealing `json:"semantic_healings,omitempty"`
	Quantum          QuantumSignature  `json:"quantum_signature"`
	GuardianActions  []GuardianAction  `json:"guardian_actions,omitempty"`
	Reflections      []Reflection      `json:"reflections,omitempty"`

	SufferingIndex   float64 `json:"suffering_index"`
	HealingPotential float64 `json:"healing_potential"`
	WisdomScore      float64 `json:"wisdom_score"`
	Authenticity     float64 `json:"authenticity"`

	CanForget            bool `json:"can_forget"`
	RequiresConsensus    bool `json:"requires_consensus"`
	MinGuardiansToModify int  `json:"min_guardians_to_modify"`
}

// NewMemory returns a memory with the default policy and metric values.
// The suffering index is left at zero; the store computes it on ingestion.
func NewMemory(content, emotion string, intensity float64, createdAt time.Time) *Memory {
	return &Memory{
		Content:              content,
		Emotion:              emotion,
		Intensity:            intensity,
		CreatedAt:            createdAt,
		Quantum:              QuantumSignature{State: Classical},
		Authenticity:         1.0,
		CanForget:            true,
		MinGuardiansToModify: 1,
	}
}

// ExpiresAt returns the advisory expiry time, or nil when the memory has no TTL.
func (m *Memory) ExpiresAt() *time.Time {
	if m.TTL == nil {
		return nil
	}
	t := m.CreatedAt.Add(*m.TTL)
	return &t
}

// Expired reports whether the TTL has elapsed at now.
func (m *Memory) Expired(now time.Time) bool {
	exp := m.ExpiresAt()
	return exp != nil && !now.Before(*exp)
}

// Clone returns a structurally independent copy. Every owned slice and
// pointer is rebuilt so mutating the copy never reaches the original.
func (m *Memory) Clone() *Memory {
	c := *m

	if m.TTL != nil {
		ttl := *m.TTL
		c.TTL = &ttl
	}
	if m.SemanticHealings != nil {
		c.SemanticHealings = make([]SemanticHealing, len(m.SemanticHealings))
		for i, h := range m.SemanticHealings {
			c.SemanticHealings[i] = h.clone()
		}
	}
	if m.GuardianActions != nil {
		c.GuardianActions = make([]GuardianAction, len(m.GuardianActions))
		copy(c.GuardianActions, m.GuardianActions)
	}
	if m.Reflections != nil {
		c.Reflections = make([]Reflection, len(m.Reflections))
		copy(c.Reflections, m.Reflections)
	}
	c.Quantum = m.Quantum.clone()

	return &c
}

// SemanticHealing is a verified narrative transformation attached to a memory.
type SemanticHealing struct {
	Narrative          string    `json:"narrative"`
	TransformationPath []string  `json:"transformation_path"`
	GuardianSignature  string    `json:"guardian_signature"`
	Timestamp          time.Time `json:"timestamp"`
	AuthenticityScore  float64   `json:"authenticity_score"`
}

// VerifySemanticChange reports whether the healing reflects a real change
// between the original and healed text rather than a numeric adjustment.
func (h SemanticHealing) VerifySemanticChange(original, healed string) bool {
	return original != healed &&
		len(h.TransformationPath) > 0 &&
		h.AuthenticityScore > 0.5
}

func (h SemanticHealing) clone() SemanticHealing {
	if h.TransformationPath != nil {
		path := make([]string, len(h.TransformationPath))
		copy(path, h.TransformationPath)
		h.TransformationPath = path
	}
	return h
}

// Reflection is a soft reframing of a memory. OriginalPerspective is a
// truncated snapshot taken at reflection time.
type Reflection struct {
	OriginalPerspective string         `json:"original_perspective"`
	NewPerspective      string         `json:"new_perspective"`
	Type                ReflectionType `json:"reflection_type"`
	Guardian            GuardianAction `json:"guardian"`
	WisdomGained        string         `json:"wisdom_gained"`
}

// PerspectiveSnapshot truncates content to the first 100 runes followed by "...".
func PerspectiveSnapshot(content string) string {
	r := []rune(content)
	if len(r) > 100 {
		r = r[:100]
	}
	return string(r) + "..."
}
