package challengegen

import (
	"context"
	"errors"

	"github.com/EthanGF7/SkillsTracker/internal/challenge"
	"github.com/EthanGF7/SkillsTracker/internal/customskill"
)

var (
	// ErrSkillNotFound means the skill is neither in the catalog nor in the
	// custom skill store.
	ErrSkillNotFound = errors.New("skill not found")

	// ErrMalformedResponse means the model output was not the expected JSON
	// object.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrExhausted means every attempt produced a duplicate or otherwise
	// rejected challenge.
	ErrExhausted = errors.New("could not generate a unique challenge, please retry")
)

// GenerateInput identifies what to generate.
type GenerateInput struct {
	// Skill is a catalog skill name or a custom skill name.
	Skill string

	// Level is the free-form self-assessed proficiency label.
	Level string

	// Type selects a daily or weekly challenge.
	Type challenge.Type

	// Kind forces the variant. Empty means catalog skills produce standard
	// challenges and custom skills produce custom ones. KindCustom accepts
	// skills that are not registered in the custom skill store.
	Kind challenge.Kind
}

// HistoryStore is the subset of the history store the generator needs.
type HistoryStore interface {
	Load(ctx context.Context, t challenge.Type) ([]challenge.Challenge, error)
	Save(ctx context.Context, c challenge.Challenge, t challenge.Type) error
}

// SkillSource resolves user-defined skills.
type SkillSource interface {
	Get(ctx context.Context, name string) (customskill.Skill, error)
}

// Generator produces challenges.
type Generator interface {
	// Generate returns a validated challenge that has already been
	// persisted to history, or an error.
	Generate(ctx context.Context, input GenerateInput) (*challenge.Challenge, error)
}
