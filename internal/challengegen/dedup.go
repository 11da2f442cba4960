package challengegen

import (
	"context"
	"strings"
	"time"

	"github.com/EthanGF7/SkillsTracker/internal/challenge"
)

// DuplicateWindow is how far back the duplicate-title rule looks.
const DuplicateWindow = 30 * 24 * time.Hour

// IsDuplicateTitle reports whether history holds a challenge of the same
// kind, skill and type, created within DuplicateWindow of now, whose title
// equals the candidate's ignoring case. Whitespace is significant.
func IsDuplicateTitle(candidate *challenge.Challenge, history []challenge.Challenge, now time.Time) bool {
	cutoff := now.Add(-DuplicateWindow)
	skill := candidate.SkillIdentity()

	for i := range history {
		h := &history[i]
		if h.Kind != candidate.Kind || h.Type != candidate.Type {
			continue
		}
		if h.SkillIdentity() != skill {
			continue
		}
		if !h.CreatedAt.After(cutoff) {
			continue
		}
		if strings.EqualFold(h.Title, candidate.Title) {
			return true
		}
	}
	return false
}

// DuplicateTitleValidator rejects titles already used recently for the same
// skill and type.
type DuplicateTitleValidator struct {
	History HistoryStore
	Now     func() time.Time
}

func (v *DuplicateTitleValidator) Name() string { return "duplicate-title" }

func (v *DuplicateTitleValidator) Validate(ctx context.Context, c *challenge.Challenge) *ValidationError {
	if !c.Type.Valid() {
		// Structural validation reports this.
		return nil
	}
	history, err := v.History.Load(ctx, c.Type)
	if err != nil {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "could not load history: " + err.Error(),
		}
	}
	now := time.Now()
	if v.Now != nil {
		now = v.Now()
	}
	if IsDuplicateTitle(c, history, now) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "duplicate title: " + c.Title,
			Retryable: true,
		}
	}
	return nil
}
