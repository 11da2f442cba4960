package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/EthanGF7/SkillsTracker/internal/apperr"
	"github.com/EthanGF7/SkillsTracker/internal/catalog"
	"github.com/EthanGF7/SkillsTracker/internal/challenge"
	"github.com/EthanGF7/SkillsTracker/internal/challengegen"
	"github.com/EthanGF7/SkillsTracker/internal/customskill"
	"github.com/EthanGF7/SkillsTracker/internal/llm"
	"github.com/EthanGF7/SkillsTracker/internal/lti"
	"github.com/EthanGF7/SkillsTracker/internal/version"
)

var errNoProvider = errors.New("no LLM provider configured")

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"service":       "skillstracker",
		"llmConfigured": s.deps.LLMEnabled,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"version": s.deps.Version}
	if client := r.URL.Query().Get("client"); client != "" {
		ok, err := version.Compatible(s.deps.Version, client)
		if err != nil {
			respondWithError(w, apperr.InvalidRequest(err.Error()))
			return
		}
		resp["client"] = client
		resp["compatible"] = ok
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// handleLLMCheck makes one live call to the configured backend.
func (s *Server) handleLLMCheck(w http.ResponseWriter, r *http.Request) {
	if s.deps.Provider == nil {
		fail(w, r, &llm.ErrProviderUnavailable{Err: errNoProvider})
		return
	}
	res, err := llm.Check(r.Context(), s.deps.Provider)
	if err != nil {
		fail(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	respondWithJSON(w, http.StatusOK, map[string]any{"valid": true, "details": res})
}

type skillView struct {
	Name        string   `json:"name"`
	Predefined  bool     `json:"predefined"`
	Description string   `json:"description,omitempty"`
	KeyPoints   []string `json:"keyPoints,omitempty"`
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	var out []skillView
	for _, name := range catalog.Names() {
		out = append(out, skillView{Name: name, Predefined: true})
	}
	custom, err := s.deps.Skills.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	for _, sk := range custom {
		out = append(out, skillView{Name: sk.Name, Description: sk.Description, KeyPoints: sk.KeyPoints})
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"levels": catalog.Levels(),
		"skills": out,
	})
}

type describeRequest struct {
	SkillName string `json:"skillName"`
}

func (s *Server) handleDescribeSkill(w http.ResponseWriter, r *http.Request) {
	var req describeRequest
	if e := decodeJSON(w, r, &req); e != nil {
		respondWithError(w, e)
		return
	}
	if strings.TrimSpace(req.SkillName) == "" {
		respondWithError(w, apperr.InvalidRequest("skillName is required"))
		return
	}
	d, err := s.deps.Describer.Describe(r.Context(), req.SkillName)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, d)
}

func (s *Server) handleSaveCustomSkill(w http.ResponseWriter, r *http.Request) {
	var sk customskill.Skill
	if e := decodeJSON(w, r, &sk); e != nil {
		respondWithError(w, e)
		return
	}
	saved, err := s.deps.Skills.Put(r.Context(), sk)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, saved)
}

type generateRequest struct {
	Skill     string `json:"skill"`
	SkillName string `json:"skillName"`
	Level     string `json:"level"`
	Type      string `json:"type"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if e := decodeJSON(w, r, &req); e != nil {
		respondWithError(w, e)
		return
	}
	if req.Skill == "" || req.Level == "" || req.Type == "" {
		respondWithError(w, apperr.InvalidRequest("skill, level and type are required"))
		return
	}
	s.generate(w, r, challengegen.GenerateInput{Skill: req.Skill, Level: req.Level, Type: challenge.Type(req.Type)})
}

func (s *Server) handleGenerateCustom(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if e := decodeJSON(w, r, &req); e != nil {
		respondWithError(w, e)
		return
	}
	if req.SkillName == "" || req.Type == "" {
		respondWithError(w, apperr.InvalidRequest("skillName and type are required"))
		return
	}
	s.generate(w, r, challengegen.GenerateInput{
		Skill: req.SkillName,
		Level: req.Level,
		Type:  challenge.Type(req.Type),
		Kind:  challenge.KindCustom,
	})
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request, in challengegen.GenerateInput) {
	if _, err := challenge.ParseType(string(in.Type)); err != nil {
		respondWithError(w, apperr.InvalidRequest(`type must be "daily" or "weekly"`))
		return
	}
	c, err := s.deps.Generator.Generate(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, c)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	t, err := challenge.ParseType(r.URL.Query().Get("type"))
	if err != nil {
		e := apperr.InvalidRequest("invalid challenge type")
		e.Details = `the type parameter must be "daily" or "weekly"`
		respondWithError(w, e)
		return
	}
	items, err := s.deps.History.Load(r.Context(), t)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"type":       t,
		"count":      len(items),
		"challenges": items,
	})
}

func (s *Server) handleAppendHistory(w http.ResponseWriter, r *http.Request) {
	var c challenge.Challenge
	if e := decodeJSON(w, r, &c); e != nil {
		respondWithError(w, e)
		return
	}
	if !c.Type.Valid() {
		e := apperr.InvalidRequest("invalid challenge type")
		e.Details = `the challenge must have type "daily" or "weekly"`
		respondWithError(w, e)
		return
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
	}
	if verr := (&challengegen.StructuralValidator{}).Validate(r.Context(), &c); verr != nil {
		e := apperr.InvalidRequest("incomplete challenge")
		e.Details = verr.Message
		respondWithError(w, e)
		return
	}
	if err := s.deps.History.Save(r.Context(), c, c.Type); err != nil {
		fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"message":   "challenge saved",
		"challenge": c,
	})
}

func (s *Server) handleLTIConfig(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, s.deps.LTI.ToolConfig(strings.TrimRight(s.cfg.BaseURL, "/")))
}

func (s *Server) handleLTIAuth(w http.ResponseWriter, r *http.Request) {
	var req lti.LoginRequest
	if e := decodeJSON(w, r, &req); e != nil {
		respondWithError(w, e)
		return
	}
	u, err := s.deps.LTI.Login(req)
	if err != nil {
		s.ltiFail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"url": u})
}

func (s *Server) handleLTILaunch(w http.ResponseWriter, r *http.Request) {
	var req lti.LaunchRequest
	if e := decodeJSON(w, r, &req); e != nil {
		respondWithError(w, e)
		return
	}
	res, err := s.deps.LTI.Launch(req)
	if err != nil {
		s.ltiFail(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    res.SessionToken,
		Path:     "/",
		MaxAge:   int(lti.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   strings.HasPrefix(s.cfg.BaseURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	})
	respondWithJSON(w, http.StatusOK, res)
}

func (s *Server) ltiFail(w http.ResponseWriter, r *http.Request, err error) {
	var le *lti.Error
	if errors.As(err, &le) {
		respondWithJSON(w, http.StatusBadRequest, errorBody{Error: le.Code, Details: le.Details})
		return
	}
	fail(w, r, err)
}
