// Package lti implements the minimal LTI 1.3 handshake: OIDC login
// initiation, resource link launch and the tool registration document.
//
// Launch tokens are decoded without verifying their signature; platform
// key retrieval is not implemented.
package lti

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claim names defined by LTI 1.3.
const (
	ClaimMessageType  = "https://purl.imsglobal.org/spec/lti/claim/message_type"
	ClaimVersion      = "https://purl.imsglobal.org/spec/lti/claim/version"
	ClaimDeploymentID = "https://purl.imsglobal.org/spec/lti/claim/deployment_id"
	ClaimTargetLink   = "https://purl.imsglobal.org/spec/lti/claim/target_link_uri"
	ClaimRoles        = "https://purl.imsglobal.org/spec/lti/claim/roles"
	ClaimContext      = "https://purl.imsglobal.org/spec/lti/claim/context"
	ClaimCustom       = "https://purl.imsglobal.org/spec/lti/claim/custom"
)

// SessionTTL is the lifetime of the session token issued on launch.
const SessionTTL = 24 * time.Hour

var requiredClaims = []string{
	"iss", "sub", "aud", "exp", "iat", "nonce",
	ClaimMessageType, ClaimVersion, ClaimDeploymentID,
}

var roleMap = map[string]string{
	"http://purl.imsglobal.org/vocab/lis/v2/institution/person#Administrator": "admin",
	"http://purl.imsglobal.org/vocab/lis/v2/institution/person#Instructor":    "instructor",
	"http://purl.imsglobal.org/vocab/lis/v2/institution/person#Student":       "student",
}

// Platform is a registered LMS.
type Platform struct {
	AuthEndpoint string `json:"authEndpoint"`
	ClientID     string `json:"clientId,omitempty"`
}

// Config holds tool-side LTI settings.
type Config struct {
	// Platforms maps issuer to platform settings. Unknown issuers are rejected.
	Platforms     map[string]Platform
	ClientID      string
	RedirectURI   string
	SessionSecret string
	PublicKeyN    string
}

// LoginRequest is the OIDC third-party login initiation payload.
type LoginRequest struct {
	Issuer         string `json:"iss"`
	LoginHint      string `json:"login_hint"`
	TargetLinkURI  string `json:"target_link_uri"`
	LTIMessageHint string `json:"lti_message_hint,omitempty"`
	ClientID       string `json:"client_id,omitempty"`
}

// LaunchRequest carries the platform's id_token and the login state.
type LaunchRequest struct {
	IDToken string `json:"id_token"`
	State   string `json:"state"`
}

// User is the launching user.
type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"name,omitempty"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles"`
}

// Session describes an authenticated launch.
type Session struct {
	User         User           `json:"user"`
	Context      map[string]any `json:"context,omitempty"`
	Platform     string         `json:"platform"`
	DeploymentID string         `json:"deploymentId"`
}

// LaunchResult is returned to the browser after a successful launch.
type LaunchResult struct {
	Success      bool     `json:"success"`
	Redirect     string   `json:"redirect"`
	SessionToken string   `json:"-"`
	Session      *Session `json:"-"`
}

type sessionClaims struct {
	Session
	jwt.RegisteredClaims
}

// Service runs the handshake.
type Service struct {
	cfg    Config
	states *StateStore
	now    func() time.Time
}

// NewService creates a Service backed by states.
func NewService(cfg Config, states *StateStore, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{cfg: cfg, states: states, now: now}
}

// States returns the pending-state store.
func (s *Service) States() *StateStore { return s.states }

// Login validates an initiation request, records a fresh state and nonce
// and returns the platform authorization URL.
func (s *Service) Login(req LoginRequest) (string, error) {
	if req.Issuer == "" || req.LoginHint == "" || req.TargetLinkURI == "" {
		return "", newError(CodeMissingParams, map[string]any{
			"required": []string{"iss", "login_hint", "target_link_uri"},
			"received": receivedParams(req),
		})
	}
	platform, ok := s.cfg.Platforms[req.Issuer]
	if !ok {
		return "", newError(CodeInvalidIssuer, map[string]any{"iss": req.Issuer})
	}

	authURL, err := url.Parse(platform.AuthEndpoint)
	if err != nil || authURL.Scheme == "" {
		return "", newError(CodeInvalidIssuer, map[string]any{"iss": req.Issuer, "authEndpoint": platform.AuthEndpoint})
	}

	state, err := randomHex()
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomHex()
	if err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	s.states.Put(state, StateEntry{Nonce: nonce, Issuer: req.Issuer, TargetURI: req.TargetLinkURI})

	clientID := req.ClientID
	if clientID == "" {
		clientID = platform.ClientID
	}
	if clientID == "" {
		clientID = s.cfg.ClientID
	}

	q := authURL.Query()
	q.Set("scope", "openid")
	q.Set("response_type", "id_token")
	q.Set("client_id", clientID)
	q.Set("redirect_uri", s.cfg.RedirectURI)
	q.Set("login_hint", req.LoginHint)
	q.Set("state", state)
	q.Set("nonce", nonce)
	q.Set("prompt", "none")
	if req.LTIMessageHint != "" {
		q.Set("lti_message_hint", req.LTIMessageHint)
	}
	authURL.RawQuery = q.Encode()
	return authURL.String(), nil
}

// Launch completes the handshake for a resource link request.
func (s *Service) Launch(req LaunchRequest) (*LaunchResult, error) {
	if req.IDToken == "" || req.State == "" {
		return nil, newError(CodeTokenMissing, map[string]any{"message": "id_token and state are required"})
	}

	entry, ok := s.states.Consume(req.State)
	if !ok {
		return nil, newError(CodeStateInvalid, map[string]any{"message": "unknown or expired state"})
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(req.IDToken, claims); err != nil {
		return nil, newError(CodeTokenInvalid, map[string]any{"message": err.Error()})
	}

	var missing []string
	for _, c := range requiredClaims {
		if _, ok := claims[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, newError(CodeInvalidRequest, map[string]any{"missing": missing})
	}

	if nonce, _ := claims["nonce"].(string); nonce != entry.Nonce {
		return nil, newError(CodeNonceMismatch, nil)
	}
	if iss, _ := claims["iss"].(string); iss != entry.Issuer {
		return nil, newError(CodeInvalidRequest, map[string]any{"message": "issuer does not match login", "iss": iss})
	}

	msgType, _ := claims[ClaimMessageType].(string)
	version, _ := claims[ClaimVersion].(string)
	if msgType != "LtiResourceLinkRequest" || version != "1.3.0" {
		return nil, newError(CodeUnsupportedVersion, map[string]any{"messageType": msgType, "version": version})
	}

	sess := &Session{
		User: User{
			ID:    stringClaim(claims, "sub"),
			Name:  stringClaim(claims, "name"),
			Email: stringClaim(claims, "email"),
			Roles: MapRoles(stringsClaim(claims, ClaimRoles)),
		},
		Platform:     entry.Issuer,
		DeploymentID: stringClaim(claims, ClaimDeploymentID),
	}
	if ctx, ok := claims[ClaimContext].(map[string]any); ok {
		sess.Context = ctx
	}

	token, err := s.SessionToken(sess)
	if err != nil {
		return nil, err
	}

	redirect := "/dashboard"
	if slices.Contains(sess.User.Roles, "instructor") {
		redirect = "/instructor/dashboard"
	}
	return &LaunchResult{Success: true, Redirect: redirect, SessionToken: token, Session: sess}, nil
}

// SessionToken signs sess as an HS256 JWT valid for SessionTTL.
func (s *Service) SessionToken(sess *Session) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Session: *sess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.User.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SessionSecret))
	if err != nil {
		return "", newError(CodeTokenCreation, map[string]any{"cause": err.Error()})
	}
	return signed, nil
}

// ParseSessionToken verifies a token produced by SessionToken.
func (s *Service) ParseSessionToken(token string) (*Session, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.SessionSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	return &claims.Session, nil
}

// MapRoles converts LIS institution roles to application roles.
func MapRoles(roles []string) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		if m, ok := roleMap[r]; ok {
			out[i] = m
		} else {
			out[i] = "user"
		}
	}
	return out
}

// ToolConfig returns the tool registration document for baseURL.
func (s *Service) ToolConfig(baseURL string) map[string]any {
	launch := baseURL + "/api/lti/launch"
	return map[string]any{
		"title":               "SkillsTracker",
		"description":         "Plataforma de seguimiento y desarrollo de habilidades",
		"oidc_initiation_url": baseURL + "/api/lti/auth",
		"target_link_uri":     launch,
		"custom_fields": map[string]string{
			"context_memberships_url": "$ToolProxy.custom.context_memberships_url",
		},
		"claims": []string{
			"iss", "sub", "name", "given_name", "family_name", "email", "locale",
			ClaimRoles, ClaimContext, ClaimCustom,
		},
		"messages": []map[string]string{{
			"type":            "LtiResourceLinkRequest",
			"target_link_uri": launch,
			"label":           "SkillsTracker",
			"icon_uri":        baseURL + "/logo.png",
		}},
		"public_key_jwk": map[string]string{
			"kty": "RSA",
			"e":   "AQAB",
			"kid": "skillstracker-key-1",
			"alg": "RS256",
			"n":   s.cfg.PublicKeyN,
		},
	}
}

func randomHex() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func receivedParams(req LoginRequest) []string {
	var out []string
	for _, p := range []struct {
		name, value string
	}{
		{"iss", req.Issuer},
		{"login_hint", req.LoginHint},
		{"target_link_uri", req.TargetLinkURI},
		{"lti_message_hint", req.LTIMessageHint},
		{"client_id", req.ClientID},
	} {
		if p.value != "" {
			out = append(out, p.name)
		}
	}
	return out
}

func stringClaim(c jwt.MapClaims, key string) string {
	s, _ := c[key].(string)
	return s
}

func stringsClaim(c jwt.MapClaims, key string) []string {
	raw, ok := c[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
