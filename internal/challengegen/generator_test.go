package challengegen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EthanGF7/SkillsTracker/internal/challenge"
	"github.com/EthanGF7/SkillsTracker/internal/customskill"
	"github.com/EthanGF7/SkillsTracker/internal/history"
	"github.com/EthanGF7/SkillsTracker/internal/llm"
)

var testNow = time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SoftRetryDelay = 0
	cfg.HardRetryDelay = 0
	return cfg
}

func clock() time.Time { return testNow }

func standardJSON(title string) llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(fmt.Sprintf(`{
		"title": %q,
		"description": "Durante una conversación, repite con tus palabras lo que te dicen antes de responder.",
		"rules": ["Elige una conversación de al menos 10 minutos", "Parafrasea al menos tres veces"],
		"extraTip": "Fíjate también en el lenguaje no verbal."
	}`, title))}
}

func customJSON(title string) llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(fmt.Sprintf(`{
		"title": %q,
		"description": "Expresa una opinión propia en una reunión.",
		"objectives": ["Expresar una opinión", "Mantener un tono respetuoso"],
		"metrics": ["Número de opiniones expresadas"]
	}`, title))}
}

type fixture struct {
	mock    *llm.MockProvider
	history *history.Store
	skills  *customskill.Store
	gen     *LLMGenerator
	metrics *Metrics
}

func newFixture(t *testing.T, cfg Config, responses ...llm.MockResponse) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		mock:    llm.NewMockProvider(responses...),
		history: history.New(dir, history.WithClock(clock)),
		skills:  customskill.New(dir),
		metrics: NewMetrics(prometheus.NewRegistry()),
	}
	f.gen = New(f.mock, f.history, f.skills, cfg, WithClock(clock), WithMetrics(f.metrics))
	return f
}

func (f *fixture) outcome(kind challenge.Kind, outcome string) float64 {
	return testutil.ToFloat64(f.metrics.Attempts().WithLabelValues(string(kind), outcome))
}

func TestGenerate_StandardDailySavesToHistory(t *testing.T) {
	f := newFixture(t, testConfig(), standardJSON("Escucha activa en el almuerzo"))
	ctx := context.Background()

	c, err := f.gen.Generate(ctx, GenerateInput{Skill: "Empatía", Level: "Aprendiz", Type: challenge.TypeDaily})
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, challenge.KindStandard, c.Kind)
	assert.Equal(t, "Empatía", c.Skill)
	assert.Equal(t, "Aprendiz", c.Level)
	assert.Equal(t, challenge.TypeDaily, c.Type)
	assert.Equal(t, challenge.SourceAI, c.Source)
	assert.Equal(t, testNow, c.CreatedAt)
	assert.Len(t, c.Rules, 2)

	saved, err := f.history.Load(ctx, challenge.TypeDaily)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, c.ID, saved[0].ID)

	req := f.mock.Calls[0]
	assert.Equal(t, StandardSchema, req.Schema)
	assert.Equal(t, 1000, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	assert.Contains(t, req.System, "Empatía")
	assert.Contains(t, req.System, "Aprendiz")

	assert.Equal(t, 1.0, f.outcome(challenge.KindStandard, OutcomeSuccess))
}

func TestGenerate_DuplicateTitleIsRetried(t *testing.T) {
	f := newFixture(t, testConfig(),
		standardJSON("Escucha activa en el almuerzo"),
		standardJSON("ESCUCHA ACTIVA EN EL ALMUERZO"),
		standardJSON("Tres preguntas abiertas"),
	)
	ctx := context.Background()
	in := GenerateInput{Skill: "Empatía", Level: "Aprendiz", Type: challenge.TypeDaily}

	first, err := f.gen.Generate(ctx, in)
	require.NoError(t, err)
	second, err := f.gen.Generate(ctx, in)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "Tres preguntas abiertas", second.Title)
	assert.Equal(t, 3, f.mock.CallCount())

	saved, err := f.history.Load(ctx, challenge.TypeDaily)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, second.ID, saved[0].ID)
	assert.Equal(t, 1.0, f.outcome(challenge.KindStandard, OutcomeDuplicate))
}

func TestGenerate_DuplicateOutsideWindowIsAccepted(t *testing.T) {
	f := newFixture(t, testConfig(), standardJSON("Escucha activa"))
	ctx := context.Background()

	old := challenge.Challenge{
		ID: "old", Kind: challenge.KindStandard, Title: "Escucha activa", Type: challenge.TypeDaily,
		Skill: "Empatía", Level: "Aprendiz", Rules: []string{"r"}, ExtraTip: "t",
		CreatedAt: testNow.Add(-31 * 24 * time.Hour),
	}
	require.NoError(t, f.history.Save(ctx, old, challenge.TypeDaily))

	_, err := f.gen.Generate(ctx, GenerateInput{Skill: "Empatía", Level: "Aprendiz", Type: challenge.TypeDaily})
	require.NoError(t, err)
}

func TestGenerate_DefaultChainUsesInjectedClock(t *testing.T) {
	// Recent by the wall clock, but 60 days old by the generator's clock.
	prev := challenge.Challenge{
		ID: "prev", Kind: challenge.KindStandard, Title: "Escucha activa", Type: challenge.TypeDaily,
		Skill: "Empatía", Level: "Aprendiz", Rules: []string{"r"}, ExtraTip: "t",
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}
	later := time.Now().Add(60 * 24 * time.Hour)
	mock := llm.NewMockProvider(standardJSON("Escucha activa"))
	gen := New(mock, &staticHistory{items: []challenge.Challenge{prev}}, nil, testConfig(),
		WithClock(func() time.Time { return later }))

	c, err := gen.Generate(context.Background(), GenerateInput{Skill: "Empatía", Level: "Aprendiz", Type: challenge.TypeDaily})
	require.NoError(t, err)
	assert.Equal(t, "Escucha activa", c.Title)
	assert.Equal(t, 1, mock.CallCount())
}

func TestGenerate_ExhaustedOnRepeatedDuplicates(t *testing.T) {
	f := newFixture(t, testConfig(),
		standardJSON("Mismo título"),
		standardJSON("Mismo título"),
		standardJSON("Mismo título"),
		standardJSON("Mismo título"),
	)
	ctx := context.Background()
	in := GenerateInput{Skill: "Empatía", Level: "Aprendiz", Type: challenge.TypeDaily}

	_, err := f.gen.Generate(ctx, in)
	require.NoError(t, err)

	_, err = f.gen.Generate(ctx, in)
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 4, f.mock.CallCount())

	saved, err := f.history.Load(ctx, challenge.TypeDaily)
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestGenerate_UpstreamFailuresExhaustAttempts(t *testing.T) {
	down := llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}}
	f := newFixture(t, testConfig(), down, down, down)

	_, err := f.gen.Generate(context.Background(), GenerateInput{Skill: "Empatía", Level: "Aprendiz", Type: challenge.TypeWeekly})
	var unavail *llm.ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)
	assert.Equal(t, 3, f.mock.CallCount())
	assert.Equal(t, 3.0, f.outcome(challenge.KindStandard, OutcomeUpstream))

	saved, err := f.history.Load(context.Background(), challenge.TypeWeekly)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestGenerate_RecoversAfterUpstreamFailure(t *testing.T) {
	f := newFixture(t, testConfig(),
		llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}},
		standardJSON("Diario de emociones"),
	)
	c, err := f.gen.Generate(context.Background(), GenerateInput{Skill: "Empatía", Level: "Aprendiz", Type: challenge.TypeDaily})
	require.NoError(t, err)
	assert.Equal(t, "Diario de emociones", c.Title)
}

func TestGenerate_MalformedOutput(t *testing.T) {
	bad := llm.MockResponse{Content: json.RawMessage(`{"title": "sin reglas"}`)}
	f := newFixture(t, testConfig(), bad, bad, bad)

	_, err := f.gen.Generate(context.Background(), GenerateInput{Skill: "Empatía", Level: "Aprendiz", Type: challenge.TypeDaily})
	require.ErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, 3.0, f.outcome(challenge.KindStandard, OutcomeMalformed))
}

func TestGenerate_SchemaViolationIsMalformed(t *testing.T) {
	bad := llm.MockResponse{Err: &llm.ErrInvalidResponse{Err: errors.New("missing rules")}}
	cfg := testConfig()
	cfg.MaxAttempts = 1
	f := newFixture(t, cfg, bad)

	_, err := f.gen.Generate(context.Background(), GenerateInput{Skill: "Empatía", Level: "Aprendiz", Type: challenge.TypeDaily})
	require.ErrorIs(t, err, ErrMalformedResponse)
	var inv *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestGenerate_FallbackWhenEnabled(t *testing.T) {
	down := llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}
	cfg := testConfig()
	cfg.Fallback = true
	f := newFixture(t, cfg, down, down, down)
	ctx := context.Background()

	c, err := f.gen.Generate(ctx, GenerateInput{Skill: "Liderazgo", Level: "Maestro", Type: challenge.TypeDaily})
	require.NoError(t, err)
	assert.Equal(t, challenge.SourceFallback, c.Source)
	assert.Equal(t, "Reto de Práctica Básica", c.Title)
	assert.Equal(t, "Liderazgo", c.Skill)
	assert.NotEmpty(t, c.ID)

	saved, err := f.history.Load(ctx, challenge.TypeDaily)
	require.NoError(t, err)
	assert.Empty(t, saved, "fallback challenges are not persisted")
	assert.Equal(t, 1.0, f.outcome(challenge.KindStandard, OutcomeFallback))
}

func TestGenerate_CustomSkill(t *testing.T) {
	f := newFixture(t, testConfig(), customJSON("Di que no una vez"))
	ctx := context.Background()

	_, err := f.skills.Put(ctx, customskill.Skill{
		Name:        "Asertividad",
		Description: "Expresar opiniones con respeto",
		KeyPoints:   []string{"Hablar en primera persona"},
		Examples:    []string{"Rechaza una petición sin justificarte en exceso"},
	})
	require.NoError(t, err)

	c, err := f.gen.Generate(ctx, GenerateInput{Skill: "Asertividad", Type: challenge.TypeWeekly})
	require.NoError(t, err)
	assert.Equal(t, challenge.KindCustom, c.Kind)
	assert.Equal(t, "Asertividad", c.SkillName)
	assert.NotEmpty(t, c.Objectives)

	req := f.mock.Calls[0]
	assert.Equal(t, CustomSchema, req.Schema)
	assert.Contains(t, req.System, "Expresar opiniones con respeto")
	assert.Contains(t, req.System, "Rechaza una petición sin justificarte en exceso")

	saved, err := f.history.Load(ctx, challenge.TypeWeekly)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Asertividad", saved[0].SkillIdentity())
}

func TestGenerate_ForcedCustomKindOnUnknownSkill(t *testing.T) {
	f := newFixture(t, testConfig(), customJSON("Ordena tu escritorio"))

	c, err := f.gen.Generate(context.Background(), GenerateInput{Skill: "Organización", Type: challenge.TypeDaily, Kind: challenge.KindCustom})
	require.NoError(t, err)
	assert.Equal(t, "Organización", c.SkillName)
	assert.Contains(t, f.mock.Calls[0].System, "Practica Organización en al menos dos situaciones diferentes hoy")
}

func TestGenerate_UnknownSkill(t *testing.T) {
	f := newFixture(t, testConfig())

	_, err := f.gen.Generate(context.Background(), GenerateInput{Skill: "Malabares", Level: "Aprendiz", Type: challenge.TypeDaily})
	require.ErrorIs(t, err, ErrSkillNotFound)

	_, err = f.gen.Generate(context.Background(), GenerateInput{Skill: "Asertividad", Level: "Aprendiz", Type: challenge.TypeDaily, Kind: challenge.KindStandard})
	require.ErrorIs(t, err, ErrSkillNotFound)
	assert.Zero(t, f.mock.CallCount())
}

func TestGenerate_InvalidInput(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()

	tests := []struct {
		name  string
		input GenerateInput
	}{
		{"empty skill", GenerateInput{Skill: "  ", Level: "Aprendiz", Type: challenge.TypeDaily}},
		{"bad type", GenerateInput{Skill: "Empatía", Level: "Aprendiz", Type: "monthly"}},
		{"missing level", GenerateInput{Skill: "Empatía", Type: challenge.TypeDaily}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.gen.Generate(ctx, tt.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Zero(t, f.mock.CallCount())
}

func TestGenerate_CanceledContext(t *testing.T) {
	cfg := testConfig()
	cfg.HardRetryDelay = time.Hour
	f := newFixture(t, cfg, llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := f.gen.Generate(ctx, GenerateInput{Skill: "Empatía", Level: "Aprendiz", Type: challenge.TypeDaily})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.mock.CallCount())
}

// rejectingValidator fails every challenge as a hard failure.
type rejectingValidator struct{}

func (rejectingValidator) Name() string { return "reject" }

func (rejectingValidator) Validate(context.Context, *challenge.Challenge) *ValidationError {
	return &ValidationError{Validator: "reject", Message: "no"}
}

func TestGenerate_RejectedOnEveryAttempt(t *testing.T) {
	f := newFixture(t, testConfig(), standardJSON("a"), standardJSON("b"), standardJSON("c"))
	gen := New(f.mock, f.history, f.skills, testConfig(), WithChain(Chain{rejectingValidator{}}), WithMetrics(f.metrics))

	_, err := gen.Generate(context.Background(), GenerateInput{Skill: "Empatía", Level: "Aprendiz", Type: challenge.TypeDaily})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "reject", verr.Validator)
	assert.Equal(t, 3, f.mock.CallCount())
	assert.Equal(t, 3.0, f.outcome(challenge.KindStandard, OutcomeRejected))
}

func TestFallbackChallenge_CustomCadence(t *testing.T) {
	daily := fallbackChallenge(promptContext{Kind: challenge.KindCustom, Skill: "Asertividad", Type: challenge.TypeDaily})
	assert.Equal(t, "Desarrollo diario de Asertividad", daily.Title)
	assert.Len(t, daily.Objectives, 3)
	assert.Len(t, daily.Metrics, 2)

	weekly := fallbackChallenge(promptContext{Kind: challenge.KindCustom, Skill: "Asertividad", Type: challenge.TypeWeekly})
	assert.Equal(t, "Proyecto semanal de Asertividad", weekly.Title)
	assert.Len(t, weekly.Objectives, 4)
	assert.Len(t, weekly.Metrics, 3)

	sv := &StructuralValidator{}
	assert.Nil(t, sv.Validate(context.Background(), &weekly))
}
