// Package app assembles the stores and services shared by the CLI
// commands and the HTTP server.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/EthanGF7/SkillsTracker/internal/challengegen"
	"github.com/EthanGF7/SkillsTracker/internal/config"
	"github.com/EthanGF7/SkillsTracker/internal/customskill"
	"github.com/EthanGF7/SkillsTracker/internal/history"
	"github.com/EthanGF7/SkillsTracker/internal/llm"
	"github.com/EthanGF7/SkillsTracker/internal/lti"
	"github.com/EthanGF7/SkillsTracker/internal/skilldesc"
	"github.com/EthanGF7/SkillsTracker/internal/store"
)

// Options controls how Open builds an App.
type Options struct {
	// DBPath is the SQLite event log. Empty means <DataDir>/skillstracker.db.
	DBPath string

	// Registry receives generation metrics. Nil disables them.
	Registry *prometheus.Registry

	// Stderr receives warnings. Nil means os.Stderr.
	Stderr io.Writer
}

// App holds the wired dependencies. Close releases the event store.
type App struct {
	Config    config.Config
	Store     *store.Store
	Provider  llm.Provider
	History   *history.Store
	Skills    *customskill.Store
	Generator *challengegen.LLMGenerator
	Describer *skilldesc.Service
	LTI       *lti.Service
	Registry  *prometheus.Registry

	llmEnabled bool
}

// Open opens the event store and builds every service from cfg. When the
// LLM provider is not configured, Open still succeeds: AI calls fail with
// ErrProviderUnavailable so that fallbacks take over.
func Open(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = filepath.Join(cfg.DataDir, "skillstracker.db")
	}
	if err := store.EnsureDir(dbPath); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &App{
		Config:   cfg,
		Store:    st,
		History:  history.New(cfg.DataDir),
		Skills:   customskill.New(cfg.DataDir),
		Registry: opts.Registry,
		LTI:      lti.NewService(cfg.LTI, lti.NewStateStore(lti.StateTTL, nil), nil),
	}

	describeCfg := skilldesc.DefaultConfig()
	if err := cfg.LLM.Validate(); err != nil {
		fmt.Fprintln(stderr, "LLM provider not configured:", err)
		fmt.Fprintln(stderr, "AI features will be unavailable.")
		a.Provider = unavailable{cause: err}
		describeCfg.Retry = llm.RetryConfig{MaxAttempts: 1}
	} else {
		p, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo())
		if err != nil {
			st.Close()
			return nil, err
		}
		a.Provider = p
		a.llmEnabled = true
	}

	genOpts := []challengegen.Option{}
	if opts.Registry != nil {
		genOpts = append(genOpts, challengegen.WithMetrics(challengegen.NewMetrics(opts.Registry)))
	}
	a.Generator = challengegen.New(a.Provider, a.History, a.Skills, cfg.Generation, genOpts...)
	a.Describer = skilldesc.New(a.Provider, describeCfg)
	return a, nil
}

// LLMEnabled reports whether a real provider is configured.
func (a *App) LLMEnabled() bool { return a.llmEnabled }

// Close closes the event store.
func (a *App) Close() error {
	return a.Store.Close()
}

// unavailable stands in for an unconfigured provider.
type unavailable struct{ cause error }

func (u unavailable) Generate(context.Context, llm.Request) (*llm.Response, error) {
	return nil, &llm.ErrProviderUnavailable{Err: u.cause}
}

func (unavailable) ModelID() string { return "none" }
