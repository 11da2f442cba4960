package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig is the TOML configuration file. Unset keys leave the
// defaults alone.
type FileConfig struct {
	DataDir    *string        `toml:"data-dir"`
	Server     ServerFile     `toml:"server"`
	Generation GenerationFile `toml:"generation"`
	LLM        LLMFile        `toml:"llm"`
	LTI        LTIFile        `toml:"lti"`
}

// ServerFile maps [server].
type ServerFile struct {
	Addr         *string   `toml:"addr"`
	BaseURL      *string   `toml:"base-url"`
	RateLimit    *float64  `toml:"rate-limit"`
	RateBurst    *int      `toml:"rate-burst"`
	CORSOrigins  *[]string `toml:"cors-origins"`
	ReadTimeout  *string   `toml:"read-timeout"`
	WriteTimeout *string   `toml:"write-timeout"`
}

// GenerationFile maps [generation].
type GenerationFile struct {
	MaxAttempts    *int    `toml:"max-attempts"`
	Fallback       *bool   `toml:"fallback"`
	SoftRetryDelay *string `toml:"soft-retry-delay"`
	HardRetryDelay *string `toml:"hard-retry-delay"`
}

// LLMFile maps [llm].
type LLMFile struct {
	Provider *string `toml:"provider"`
	Model    *string `toml:"model"`
	Timeout  *string `toml:"timeout"`
}

// LTIFile maps [lti].
type LTIFile struct {
	ClientID    *string `toml:"client-id"`
	RedirectURI *string `toml:"redirect-uri"`
}

// LoadFile reads a TOML config from path. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var fc FileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		fmt.Fprintf(os.Stderr, "warning: %s: unknown keys %v\n", path, undecoded)
	}
	return fc, nil
}
