package model

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"
)

// ActionType is the kind of guardian intervention.
type ActionType string

const (
	ActionHeal      ActionType = "heal"
	ActionReflect   ActionType = "reflect"
	ActionTransform ActionType = "transform"
	ActionProtect   ActionType = "protect"
)

// ValidActionTypes are the allowed guardian action types.
var ValidActionTypes = map[ActionType]bool{
	ActionHeal:      true,
	ActionReflect:   true,
	ActionTransform: true,
	ActionProtect:   true,
}

// ReflectionType is the direction of a reflection.
type ReflectionType string

const (
	ReflectReturn    ReflectionType = "return"
	ReflectElevation ReflectionType = "elevation"
	ReflectDescent   ReflectionType = "descent"
	ReflectExpansion ReflectionType = "expansion"
)

// ValidReflectionTypes are the allowed reflection types.
var ValidReflectionTypes = map[ReflectionType]bool{
	ReflectReturn:    true,
	ReflectElevation: true,
	ReflectDescent:   true,
	ReflectExpansion: true,
}

var reflectionSymbols = map[string]ReflectionType{
	"↺": ReflectReturn,
	"^": ReflectElevation,
	"v": ReflectDescent,
	"∞": ReflectExpansion,
}

// ParseReflectionType accepts the named form or its symbol (↺ ^ v ∞).
func ParseReflectionType(s string) (ReflectionType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if t := ReflectionType(norm); ValidReflectionTypes[t] {
		return t, nil
	}
	if t, ok := reflectionSymbols[norm]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: reflection type %q (valid: return, elevation, descent, expansion)", ErrInvalidInput, s)
}

// GuardianAction is an append-only record of an intervention. The signature
// is an accountability tag over the action fields, not an authentication
// mechanism.
type GuardianAction struct {
	GuardianID    string     `json:"guardian_id"`
	ActionType    ActionType `json:"action_type"`
	Timestamp     time.Time  `json:"timestamp"`
	Justification string     `json:"justification"`
	Signature     string     `json:"signature,omitempty"`
}

// NewGuardianAction builds an unsigned action.
func NewGuardianAction(guardianID string, action ActionType, at time.Time, justification string) GuardianAction {
	return GuardianAction{
		GuardianID:    guardianID,
		ActionType:    action,
		Timestamp:     at,
		Justification: justification,
	}
}

// Sign computes the signature with key. An already signed action keeps its
// original signature.
func (g *GuardianAction) Sign(key string) string {
	if g.Signature == "" {
		g.Signature = g.digest(key)
	}
	return g.Signature
}

// Verify reports whether the stored signature matches the fields and key.
// Actions of an unknown type never verify.
func (g GuardianAction) Verify(key string) bool {
	if g.Signature == "" || !ValidActionTypes[g.ActionType] {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(g.Signature), []byte(g.digest(key))) == 1
}

func (g GuardianAction) digest(key string) string {
	content := fmt.Sprintf("%s:%s:%s:%s:%s",
		g.GuardianID, g.ActionType, g.Timestamp.UTC().Format(time.RFC3339Nano), g.Justification, key)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
}
