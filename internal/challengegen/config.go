package challengegen

import "time"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxAttempts is the total number of LLM round-trips per Generate call.
	MaxAttempts int

	// SoftRetryDelay separates attempts after a retryable validation
	// failure such as a duplicate title.
	SoftRetryDelay time.Duration

	// HardRetryDelay separates attempts after an upstream or parse failure.
	HardRetryDelay time.Duration

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// Fallback returns a canned challenge when the final attempt fails
	// upstream. Fallback challenges are tagged and never persisted.
	Fallback bool
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		SoftRetryDelay: 2 * time.Second,
		HardRetryDelay: 3 * time.Second,
		MaxTokens:      1000,
		Temperature:    0.7,
	}
}
