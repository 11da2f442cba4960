package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EthanGF7/SkillsTracker/internal/challenge"
	"github.com/EthanGF7/SkillsTracker/internal/challengegen"
	"github.com/EthanGF7/SkillsTracker/internal/config"
	"github.com/EthanGF7/SkillsTracker/internal/llm"
)

func testConfig(t *testing.T, provider string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.LLM = llm.DefaultConfig()
	cfg.LLM.Provider = provider
	cfg.LLM.DeepSeek.APIKey = ""
	cfg.Generation.MaxAttempts = 1
	cfg.Generation.HardRetryDelay = 0
	return cfg
}

func TestOpen_MockProvider(t *testing.T) {
	cfg := testConfig(t, "mock")
	reg := prometheus.NewRegistry()

	a, err := Open(context.Background(), cfg, Options{Registry: reg})
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.LLMEnabled())
	assert.Equal(t, "mock", a.Provider.ModelID())
	assert.FileExists(t, filepath.Join(cfg.DataDir, "skillstracker.db"))
	assert.NotNil(t, a.LTI)
}

func TestOpen_UnconfiguredProviderFallsBack(t *testing.T) {
	cfg := testConfig(t, "deepseek")
	cfg.Generation.Fallback = true
	var stderr bytes.Buffer

	a, err := Open(context.Background(), cfg, Options{
		DBPath: filepath.Join(t.TempDir(), "events.db"),
		Stderr: &stderr,
	})
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.LLMEnabled())
	assert.Contains(t, stderr.String(), "LLM provider not configured")

	_, err = a.Provider.Generate(context.Background(), llm.Request{})
	var unavail *llm.ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavail))

	c, err := a.Generator.Generate(context.Background(), challengegen.GenerateInput{
		Skill: "Empatía", Level: "Aprendiz", Type: challenge.TypeDaily,
	})
	require.NoError(t, err)
	assert.Equal(t, challenge.SourceFallback, c.Source)

	d, err := a.Describer.Describe(context.Background(), "Asertividad")
	require.NoError(t, err)
	assert.True(t, d.Fallback)
}

func TestOpen_UnknownProvider(t *testing.T) {
	cfg := testConfig(t, "carrier-pigeon")
	a, err := Open(context.Background(), cfg, Options{Stderr: &bytes.Buffer{}})
	require.NoError(t, err, "an invalid provider is reported, not fatal")
	defer a.Close()
	assert.False(t, a.LLMEnabled())
}
