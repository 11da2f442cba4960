package challenge

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type is the cadence of a challenge.
type Type string

const (
	TypeDaily  Type = "daily"
	TypeWeekly Type = "weekly"
)

// ParseType validates a raw type string.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeDaily, TypeWeekly:
		return Type(s), nil
	default:
		return "", fmt.Errorf("invalid challenge type %q: must be %q or %q", s, TypeDaily, TypeWeekly)
	}
}

// Valid reports whether t is a known challenge type.
func (t Type) Valid() bool {
	return t == TypeDaily || t == TypeWeekly
}

// Kind discriminates the two challenge shapes.
type Kind string

const (
	// KindStandard challenges target a catalog skill and carry rules and an extra tip.
	KindStandard Kind = "standard"

	// KindCustom challenges target a user-defined skill and carry objectives and metrics.
	KindCustom Kind = "custom"
)

// Source records where a challenge came from.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Challenge is a generated task tied to a skill and a level.
// Kind selects which of the variant fields are meaningful.
type Challenge struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        Type      `json:"type"`
	Level       string    `json:"level,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Source      Source    `json:"source,omitempty"`

	// Standard variant.
	Skill    string   `json:"skill,omitempty"`
	Rules    []string `json:"rules,omitempty"`
	ExtraTip string   `json:"extraTip,omitempty"`

	// Custom variant.
	SkillName  string   `json:"skillName,omitempty"`
	Objectives []string `json:"objectives,omitempty"`
	Metrics    []string `json:"metrics,omitempty"`
}

// SkillIdentity returns the skill the challenge belongs to, regardless of kind.
func (c *Challenge) SkillIdentity() string {
	if c.Kind == KindCustom {
		return c.SkillName
	}
	return c.Skill
}

// UnmarshalJSON decodes a challenge and infers Kind for records written
// before the discriminant existed.
func (c *Challenge) UnmarshalJSON(data []byte) error {
	type plain Challenge
	var aux struct {
		plain
		CreatedAt string `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Challenge(aux.plain)

	if aux.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, aux.CreatedAt)
		if err != nil {
			return fmt.Errorf("parse createdAt %q: %w", aux.CreatedAt, err)
		}
		c.CreatedAt = t
	}

	if c.Kind == "" {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		c.Kind = InferKind(fields)
	}
	return nil
}

// InferKind classifies a record by which keys are present. It returns ""
// when the record matches neither shape.
func InferKind(fields map[string]json.RawMessage) Kind {
	_, hasRules := fields["rules"]
	_, hasTip := fields["extraTip"]
	_, hasObjectives := fields["objectives"]
	_, hasMetrics := fields["metrics"]

	switch {
	case hasObjectives && hasMetrics && !hasRules:
		return KindCustom
	case hasRules && hasTip && !hasObjectives:
		return KindStandard
	default:
		return ""
	}
}
