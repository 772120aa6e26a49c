// Package reflection produces softened perspectives on memories.
package reflection

import (
	"fmt"

	"github.com/rcliao/ethical-memory/internal/model"
	"github.com/rcliao/ethical-memory/internal/suffering"
)

const (
	dampening         = 0.7
	reflectWisdom     = 0.2
	annotateWisdom    = 0.15
	reflectedTemplate = "%s\n[Reflected: %s]"
)

// Engine creates reflections.
type Engine struct{}

// NewEngine returns an Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// NewReflection builds the reflection record, snapshotting the source content.
func NewReflection(src *model.Memory, perspective string, typ model.ReflectionType, guardian model.GuardianAction, wisdom string) model.Reflection {
	return model.Reflection{
		OriginalPerspective: model.PerspectiveSnapshot(src.Content),
		NewPerspective:      perspective,
		Type:                typ,
		Guardian:            guardian,
		WisdomGained:        wisdom,
	}
}

// Reflect returns a new memory derived from src carrying the reflection.
// src is never modified. The copy's suffering is dampened directly rather
// than recomputed, and its wisdom rises by 0.2 up to 1.0.
func (e *Engine) Reflect(src *model.Memory, perspective string, typ model.ReflectionType, guardian model.GuardianAction, wisdom string) *model.Memory {
	r := NewReflection(src, perspective, typ, guardian, wisdom)

	out := src.Clone()
	out.ID = ""
	out.Reflections = append(out.Reflections, r)
	out.GuardianActions = append(out.GuardianActions, guardian)
	out.Content = fmt.Sprintf(reflectedTemplate, src.Content, perspective)
	out.SufferingIndex *= dampening
	out.WisdomScore = min(1.0, out.WisdomScore+reflectWisdom)
	return out
}

// Annotate attaches r to m in place. Suffering is recomputed with the extra
// reflection credit and wisdom rises by 0.15 up to 1.0.
func (e *Engine) Annotate(m *model.Memory, r model.Reflection) {
	m.Reflections = append(m.Reflections, r)
	m.GuardianActions = append(m.GuardianActions, r.Guardian)
	m.WisdomScore = min(1.0, m.WisdomScore+annotateWisdom)
	m.SufferingIndex = suffering.ForMemory(m)
}
