// Package server exposes challenge generation, history, custom skills and
// the LTI handshake over HTTP.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/EthanGF7/SkillsTracker/internal/challengegen"
	"github.com/EthanGF7/SkillsTracker/internal/config"
	"github.com/EthanGF7/SkillsTracker/internal/customskill"
	"github.com/EthanGF7/SkillsTracker/internal/history"
	"github.com/EthanGF7/SkillsTracker/internal/llm"
	"github.com/EthanGF7/SkillsTracker/internal/lti"
	"github.com/EthanGF7/SkillsTracker/internal/skilldesc"
)

// Deps are the services the HTTP layer delegates to.
type Deps struct {
	Generator  challengegen.Generator
	History    *history.Store
	Skills     *customskill.Store
	Describer  *skilldesc.Service
	LTI        *lti.Service
	Provider   llm.Provider
	Registry   *prometheus.Registry
	Version    string
	LLMEnabled bool
}

// Server is the HTTP front end.
type Server struct {
	cfg     config.ServerConfig
	deps    Deps
	limiter *rateLimiter
	metrics *httpMetrics
	handler http.Handler
	now     func() time.Time
}

// New builds the router. deps.Registry receives the HTTP metrics and is
// served on /metrics; a nil registry gets a fresh one.
func New(cfg config.ServerConfig, deps Deps) *Server {
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	s := &Server{
		cfg:     cfg,
		deps:    deps,
		limiter: newRateLimiter(cfg.RateLimit, cfg.RateBurst),
		metrics: newHTTPMetrics(deps.Registry),
		now:     time.Now,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler including CORS.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.metrics.middleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.deps.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	if s.cfg.RateLimit > 0 {
		api.Use(s.limiter.middleware)
	}

	api.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)
	api.HandleFunc("/llm/check", s.handleLLMCheck).Methods(http.MethodGet)
	api.HandleFunc("/skills", s.handleListSkills).Methods(http.MethodGet)
	api.HandleFunc("/skills/describe", s.handleDescribeSkill).Methods(http.MethodPost)
	api.HandleFunc("/custom-skills", s.handleSaveCustomSkill).Methods(http.MethodPost)

	api.HandleFunc("/challenges/generate", s.handleGenerate).Methods(http.MethodPost)
	api.HandleFunc("/challenges/generate-custom", s.handleGenerateCustom).Methods(http.MethodPost)
	api.HandleFunc("/challenge-history", s.handleGetHistory).Methods(http.MethodGet)
	api.HandleFunc("/challenge-history", s.handleAppendHistory).Methods(http.MethodPost)

	api.HandleFunc("/lti/config", s.handleLTIConfig).Methods(http.MethodGet)
	api.HandleFunc("/lti/auth", s.handleLTIAuth).Methods(http.MethodPost)
	api.HandleFunc("/lti/launch", s.handleLTILaunch).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusNotFound, errorBody{Error: "not found", Code: "NOT_FOUND"})
	})

	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(s.cfg.CORSOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", RequestIDHeader}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length", RequestIDHeader}),
	)
	return cors(r)
}

// Run serves on cfg.Addr until ctx is canceled, then shuts down
// gracefully. Background sweepers for rate-limit visitors and LTI states
// run for the lifetime of the server.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.limiter.run(ctx, time.Minute)
	if s.deps.LTI != nil {
		go s.deps.LTI.States().Run(ctx, lti.StateTTL)
	}

	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
