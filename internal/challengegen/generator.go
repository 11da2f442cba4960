package challengegen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/EthanGF7/SkillsTracker/internal/catalog"
	"github.com/EthanGF7/SkillsTracker/internal/challenge"
	"github.com/EthanGF7/SkillsTracker/internal/customskill"
	"github.com/EthanGF7/SkillsTracker/internal/llm"
)

// ErrInvalidInput wraps problems with the caller's GenerateInput.
var ErrInvalidInput = errors.New("invalid input")

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	history  HistoryStore
	skills   SkillSource
	config   Config
	chain    Chain
	metrics  *Metrics
	now      func() time.Time
	newID    func() string
}

// Option configures an LLMGenerator.
type Option func(*LLMGenerator)

// WithClock overrides the time source for timestamps and duplicate checks.
func WithClock(now func() time.Time) Option {
	return func(g *LLMGenerator) { g.now = now }
}

// WithMetrics records attempt outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(g *LLMGenerator) { g.metrics = m }
}

// WithChain replaces the default validator chain.
func WithChain(c Chain) Option {
	return func(g *LLMGenerator) { g.chain = c }
}

// New creates an LLMGenerator. skills may be nil, in which case only
// catalog skills and forced custom challenges can be generated.
func New(provider llm.Provider, history HistoryStore, skills SkillSource, cfg Config, opts ...Option) *LLMGenerator {
	g := &LLMGenerator{
		provider: provider,
		history:  history,
		skills:   skills,
		config:   cfg,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.config.MaxAttempts < 1 {
		g.config.MaxAttempts = 1
	}
	if g.chain == nil {
		g.chain = NewChain(history, g.now)
	}
	return g
}

// Generate produces, validates and persists one challenge.
//
// Duplicate titles are soft failures and trigger another attempt after
// SoftRetryDelay. Upstream, parse and other validation failures are hard
// failures and wait HardRetryDelay. When the last attempt was a duplicate
// the result is ErrExhausted; when it was a hard failure that error is
// returned as is.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*challenge.Challenge, error) {
	pc, err := g.resolve(ctx, input)
	if err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeChallenge)
	req := llm.Request{
		System:      buildSystemPrompt(pc),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(pc)}},
		Schema:      schemaFor(pc.Kind),
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		last := attempt == g.config.MaxAttempts

		c, err := g.attempt(ctx, pc, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			malformed := errors.Is(err, ErrMalformedResponse)
			if malformed {
				g.metrics.observe(pc.Kind, OutcomeMalformed)
			} else {
				g.metrics.observe(pc.Kind, OutcomeUpstream)
			}
			if last {
				if g.config.Fallback && !malformed {
					return g.fallback(pc), nil
				}
				return nil, err
			}
			if err := sleepCtx(ctx, g.config.HardRetryDelay); err != nil {
				return nil, err
			}
			continue
		}

		res := g.chain.Validate(ctx, c)
		if res.IsValid {
			if err := g.history.Save(ctx, *c, c.Type); err != nil {
				g.metrics.observe(pc.Kind, OutcomeStorageError)
				return nil, err
			}
			g.metrics.observe(pc.Kind, OutcomeSuccess)
			return c, nil
		}

		if !res.Error.Retryable {
			g.metrics.observe(pc.Kind, OutcomeRejected)
			if last {
				return nil, res.Error
			}
			if err := sleepCtx(ctx, g.config.HardRetryDelay); err != nil {
				return nil, err
			}
			continue
		}
		g.metrics.observe(pc.Kind, OutcomeDuplicate)
		if last {
			return nil, fmt.Errorf("%w: %s", ErrExhausted, res.Error.Message)
		}
		if err := sleepCtx(ctx, g.config.SoftRetryDelay); err != nil {
			return nil, err
		}
	}

	// Unreachable: the loop always returns on its last iteration.
	return nil, ErrExhausted
}

// resolve validates the input and gathers prompt material for it.
func (g *LLMGenerator) resolve(ctx context.Context, in GenerateInput) (promptContext, error) {
	skill := strings.TrimSpace(in.Skill)
	if skill == "" {
		return promptContext{}, fmt.Errorf("%w: skill is required", ErrInvalidInput)
	}
	if !in.Type.Valid() {
		return promptContext{}, fmt.Errorf("%w: type must be %q or %q", ErrInvalidInput, challenge.TypeDaily, challenge.TypeWeekly)
	}

	pc := promptContext{Skill: skill, Level: strings.TrimSpace(in.Level), Type: in.Type}

	if in.Kind != challenge.KindCustom {
		if s, ok := catalog.Lookup(skill); ok {
			if pc.Level == "" {
				return promptContext{}, fmt.Errorf("%w: level is required", ErrInvalidInput)
			}
			pc.Kind = challenge.KindStandard
			pc.Skill = s.Name
			pc.Context = s.Context
			pc.Examples = s.Examples(in.Type)
			return pc, nil
		}
		if in.Kind == challenge.KindStandard {
			return promptContext{}, fmt.Errorf("%w: %q", ErrSkillNotFound, skill)
		}
	}

	pc.Kind = challenge.KindCustom
	pc.Context = customContext(skill)

	found := false
	if g.skills != nil {
		sk, err := g.skills.Get(ctx, skill)
		switch {
		case err == nil:
			found = true
			pc.Description = sk.Description
			pc.KeyPoints = sk.KeyPoints
			if len(sk.Examples) > 0 {
				pc.Examples = sk.Examples
			}
		case errors.Is(err, customskill.ErrNotFound):
		default:
			return promptContext{}, fmt.Errorf("look up custom skill: %w", err)
		}
	}
	if !found && in.Kind != challenge.KindCustom {
		return promptContext{}, fmt.Errorf("%w: %q", ErrSkillNotFound, skill)
	}
	if len(pc.Examples) == 0 {
		pc.Examples = genericExamples(skill, in.Type)
	}
	return pc, nil
}

// attempt performs one LLM round-trip and builds a candidate challenge.
func (g *LLMGenerator) attempt(ctx context.Context, pc promptContext, req llm.Request) (*challenge.Challenge, error) {
	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		var inv *llm.ErrInvalidResponse
		if errors.As(err, &inv) {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	c := challenge.Challenge{
		ID:        g.newID(),
		Kind:      pc.Kind,
		Type:      pc.Type,
		Level:     pc.Level,
		CreatedAt: g.now().UTC(),
		Source:    challenge.SourceAI,
	}

	if pc.Kind == challenge.KindCustom {
		var out struct {
			Title       string   `json:"title"`
			Description string   `json:"description"`
			Objectives  []string `json:"objectives"`
			Metrics     []string `json:"metrics"`
		}
		if err := json.Unmarshal(resp.Content, &out); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if out.Title == "" || out.Description == "" || !nonEmptyList(out.Objectives) || !nonEmptyList(out.Metrics) {
			return nil, fmt.Errorf("%w: missing title, description, objectives or metrics", ErrMalformedResponse)
		}
		c.Title, c.Description = out.Title, out.Description
		c.Objectives, c.Metrics = out.Objectives, out.Metrics
		c.SkillName = pc.Skill
		return &c, nil
	}

	var out struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Rules       []string `json:"rules"`
		ExtraTip    string   `json:"extraTip"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if out.Title == "" || out.Description == "" || !nonEmptyList(out.Rules) || out.ExtraTip == "" {
		return nil, fmt.Errorf("%w: missing title, description, rules or extraTip", ErrMalformedResponse)
	}
	c.Title, c.Description = out.Title, out.Description
	c.Rules, c.ExtraTip = out.Rules, out.ExtraTip
	c.Skill = pc.Skill
	return &c, nil
}

func (g *LLMGenerator) fallback(pc promptContext) *challenge.Challenge {
	c := fallbackChallenge(pc)
	c.ID = g.newID()
	c.CreatedAt = g.now().UTC()
	g.metrics.observe(pc.Kind, OutcomeFallback)
	return &c
}

func schemaFor(k challenge.Kind) *llm.Schema {
	if k == challenge.KindCustom {
		return CustomSchema
	}
	return StandardSchema
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
