// Package config assembles runtime settings from defaults, a TOML file,
// a .env file and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/EthanGF7/SkillsTracker/internal/challengegen"
	"github.com/EthanGF7/SkillsTracker/internal/llm"
	"github.com/EthanGF7/SkillsTracker/internal/lti"
)

// Config is the fully resolved configuration.
type Config struct {
	DataDir    string
	Server     ServerConfig
	Generation challengegen.Config
	LLM        llm.Config
	LTI        lti.Config
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr         string
	BaseURL      string
	RateLimit    float64 // requests per second per client
	RateBurst    int
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Options selects the sources Load reads.
type Options struct {
	// ConfigPath is the TOML file. Empty means DefaultConfigPath.
	ConfigPath string

	// EnvFile is loaded into the process environment when present.
	// Empty means ".env". Variables already set are not overridden.
	EnvFile string
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		DataDir: DefaultDataDir(),
		Server: ServerConfig{
			Addr:         ":8080",
			BaseURL:      "http://localhost:8080",
			RateLimit:    2,
			RateBurst:    10,
			CORSOrigins:  []string{"*"},
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 90 * time.Second,
		},
		Generation: challengegen.DefaultConfig(),
		LLM:        llm.DefaultConfig(),
		LTI: lti.Config{
			SessionSecret: "temporary-secret",
			Platforms:     map[string]lti.Platform{},
		},
	}
}

// Load resolves the configuration: defaults, then the TOML file, then the
// .env file and environment variables.
func Load(opts Options) (Config, error) {
	cfg := Default()

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	path := opts.ConfigPath
	if path == "" {
		path = DefaultConfigPath()
	}
	fc, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyFile(fc); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(fc FileConfig) error {
	if fc.DataDir != nil {
		c.DataDir = *fc.DataDir
	}

	s := fc.Server
	if s.Addr != nil {
		c.Server.Addr = *s.Addr
	}
	if s.BaseURL != nil {
		c.Server.BaseURL = *s.BaseURL
	}
	if s.RateLimit != nil {
		c.Server.RateLimit = *s.RateLimit
	}
	if s.RateBurst != nil {
		c.Server.RateBurst = *s.RateBurst
	}
	if s.CORSOrigins != nil {
		c.Server.CORSOrigins = *s.CORSOrigins
	}
	if err := setDuration(&c.Server.ReadTimeout, s.ReadTimeout, "server.read-timeout"); err != nil {
		return err
	}
	if err := setDuration(&c.Server.WriteTimeout, s.WriteTimeout, "server.write-timeout"); err != nil {
		return err
	}

	g := fc.Generation
	if g.MaxAttempts != nil {
		c.Generation.MaxAttempts = *g.MaxAttempts
	}
	if g.Fallback != nil {
		c.Generation.Fallback = *g.Fallback
	}
	if err := setDuration(&c.Generation.SoftRetryDelay, g.SoftRetryDelay, "generation.soft-retry-delay"); err != nil {
		return err
	}
	if err := setDuration(&c.Generation.HardRetryDelay, g.HardRetryDelay, "generation.hard-retry-delay"); err != nil {
		return err
	}

	if fc.LLM.Provider != nil {
		c.LLM.Provider = *fc.LLM.Provider
	}
	if fc.LLM.Model != nil {
		c.SetModel(*fc.LLM.Model)
	}
	if err := setDuration(&c.LLM.Timeout, fc.LLM.Timeout, "llm.timeout"); err != nil {
		return err
	}

	if fc.LTI.ClientID != nil {
		c.LTI.ClientID = *fc.LTI.ClientID
	}
	if fc.LTI.RedirectURI != nil {
		c.LTI.RedirectURI = *fc.LTI.RedirectURI
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.DataDir, "SKILLSTRACKER_DATA_DIR")
	setString(&c.Server.Addr, "SKILLSTRACKER_ADDR")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SKILLSTRACKER_ADDR") == "" {
		c.Server.Addr = ":" + port
	}
	setString(&c.Server.BaseURL, "BASE_URL")
	if v := os.Getenv("SKILLSTRACKER_CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("SKILLSTRACKER_FALLBACK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SKILLSTRACKER_FALLBACK: %w", err)
		}
		c.Generation.Fallback = b
	}

	llm.ApplyEnv(&c.LLM)

	setString(&c.LTI.ClientID, "LTI_CLIENT_ID")
	setString(&c.LTI.RedirectURI, "LTI_REDIRECT_URI")
	setString(&c.LTI.SessionSecret, "SESSION_SECRET")
	setString(&c.LTI.PublicKeyN, "PUBLIC_KEY_N")
	if v := os.Getenv("ALLOWED_PLATFORMS"); v != "" {
		platforms := map[string]lti.Platform{}
		if err := json.Unmarshal([]byte(v), &platforms); err != nil {
			return fmt.Errorf("ALLOWED_PLATFORMS: %w", err)
		}
		c.LTI.Platforms = platforms
	}
	return nil
}

// SetModel sets the model of the selected LLM provider.
func (c *Config) SetModel(model string) {
	c.LLM.SetModel(model)
}

func setDuration(dst *time.Duration, v *string, key string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
