package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNoContent = errors.New("backend returned no text")

// decodeContent turns the text a backend produced for req into Response
// content. Truncation is reported before validation so that a cut-off
// document is never mistaken for a schema violation.
func decodeContent(req Request, text string, truncated bool) (json.RawMessage, error) {
	if req.Schema != nil {
		text = stripCodeFence(text)
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ErrInvalidResponse{Err: errNoContent}
	}
	content := json.RawMessage(text)
	if truncated {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	return content, nil
}

// stripCodeFence unwraps a ```json block. Chat models add one even when
// told to answer with bare JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	rest, ok := strings.CutPrefix(s, "```")
	if !ok {
		return s
	}
	rest = strings.TrimPrefix(rest, "json")
	rest = strings.TrimSuffix(strings.TrimSpace(rest), "```")
	return strings.TrimSpace(rest)
}

func stopReason(truncated bool) string {
	if truncated {
		return StopMaxTokens
	}
	return StopEnd
}
