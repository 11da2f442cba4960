package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

const checkPrompt = "Responde solo con 'OK'"

// CheckResult describes one successful round trip to the backend.
type CheckResult struct {
	Model     string `json:"model"`
	Response  string `json:"response"`
	LatencyMs int64  `json:"latencyMs"`
}

// Check sends a minimal prompt through p to confirm that the key, model
// and endpoint work. The call is labelled PurposeCheck. A reply cut off by
// the token budget still counts as a working backend.
func Check(ctx context.Context, p Provider) (*CheckResult, error) {
	start := time.Now()
	resp, err := p.Generate(WithPurpose(ctx, PurposeCheck), Request{
		Messages:    []Message{{Role: RoleUser, Content: checkPrompt}},
		MaxTokens:   10,
		Temperature: 0.1,
	})
	res := &CheckResult{Model: p.ModelID(), LatencyMs: time.Since(start).Milliseconds()}

	var trunc *ErrMaxTokensExceeded
	switch {
	case errors.As(err, &trunc):
		res.Response = strings.TrimSpace(string(trunc.Content))
	case err != nil:
		return nil, err
	default:
		res.Response = strings.TrimSpace(string(resp.Content))
		if resp.Model != "" {
			res.Model = resp.Model
		}
	}
	return res, nil
}
