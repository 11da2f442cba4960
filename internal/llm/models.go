package llm

import "strings"

// Short names accepted in configuration, per backend. Anything else is
// passed to the backend unchanged.
var (
	anthropicModels = map[string]string{
		"claude-sonnet": "claude-sonnet-4-20250514",
		"claude-haiku":  "claude-haiku-4-5-20251001",
	}
	openaiModels = map[string]string{
		"gpt-4o":      "gpt-4o",
		"gpt-4o-mini": "gpt-4o-mini",
	}
	geminiModels = map[string]string{
		"gemini-flash": "gemini-2.0-flash",
		"gemini-pro":   "gemini-2.0-pro",
	}
)

func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

// ModelCost is the list price of a model in USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD price of one call.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

// LookupCost returns the price of modelID, or nil when it is unknown.
// Routed ids such as "deepseek/deepseek-chat" are matched on the part after
// the slash, and dated snapshots fall back to their family, so
// "gpt-4o-2024-11-20" is priced as "gpt-4o".
func LookupCost(modelID string) *ModelCost {
	id := modelID
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}
	if c, ok := modelCosts[id]; ok {
		return &c
	}
	var best string
	for family := range modelCosts {
		if strings.HasPrefix(id, family+"-") && len(family) > len(best) {
			best = family
		}
	}
	if best == "" {
		return nil
	}
	c := modelCosts[best]
	return &c
}

// Prices as published by each vendor, February 2026.
var modelCosts = map[string]ModelCost{
	"deepseek-chat":     {0.27, 1.1},
	"deepseek-reasoner": {0.55, 2.19},

	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4":   {3, 15},
	"claude-sonnet-4-5": {3, 15},
	"claude-opus-4-5":   {5, 25},
	"claude-3-5-haiku":  {0.8, 4},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"o4-mini":      {1.1, 4.4},

	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-pro":        {1.25, 10},
}
