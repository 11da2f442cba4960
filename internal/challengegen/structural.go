package challengegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/EthanGF7/SkillsTracker/internal/challenge"
)

// StructuralValidator checks that the fields required by the challenge's
// kind are present and non-empty.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(_ context.Context, c *challenge.Challenge) *ValidationError {
	if !c.Type.Valid() {
		return v.fail(fmt.Sprintf("type must be %q or %q", challenge.TypeDaily, challenge.TypeWeekly))
	}

	var required []field
	switch c.Kind {
	case challenge.KindStandard:
		required = []field{
			{"title", c.Title},
			{"description", c.Description},
			{"skill", c.Skill},
			{"level", c.Level},
			{"extraTip", c.ExtraTip},
		}
		if !nonEmptyList(c.Rules) {
			return v.fail("rules must be a non-empty list of strings")
		}
	case challenge.KindCustom:
		required = []field{
			{"title", c.Title},
			{"description", c.Description},
			{"skillName", c.SkillName},
		}
		if !nonEmptyList(c.Objectives) {
			return v.fail("objectives must be a non-empty list of strings")
		}
		if !nonEmptyList(c.Metrics) {
			return v.fail("metrics must be a non-empty list of strings")
		}
	default:
		return v.fail("invalid format: neither a standard nor a custom challenge")
	}

	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return v.fail(f.name + " is empty")
		}
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg}
}

type field struct {
	name  string
	value string
}

func nonEmptyList(items []string) bool {
	if len(items) == 0 {
		return false
	}
	for _, s := range items {
		if strings.TrimSpace(s) == "" {
			return false
		}
	}
	return true
}
