package llm

import "strings"

// ModelCost holds per-million-token pricing for a model in USD.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
// Azure reports dated model IDs ("gpt-4o-2024-08-06") and OpenRouter
// prefixes a vendor ("openai/gpt-4o-mini"); both are reduced to the
// table key before giving up.
func LookupCost(modelID string) *ModelCost {
	for _, id := range costKeys(modelID) {
		if c, ok := modelCosts[id]; ok {
			return &c
		}
	}
	return nil
}

func costKeys(modelID string) []string {
	keys := []string{modelID}
	if i := strings.LastIndexByte(modelID, '/'); i >= 0 {
		modelID = modelID[i+1:]
		keys = append(keys, modelID)
	}
	// Strip a trailing -YYYY-MM-DD snapshot date.
	if n := len(modelID); n > 11 && modelID[n-11] == '-' && modelID[n-6] == '-' && modelID[n-3] == '-' {
		keys = append(keys, modelID[:n-11])
	}
	return keys
}

// modelCosts is the embedded pricing table. Last updated: 2026-02-15.
var modelCosts = map[string]ModelCost{
	// Anthropic
	"claude-3-5-haiku-20241022":  {0.8, 4},
	"claude-haiku-4-5":           {1, 5},
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-sonnet-4-20250514":   {3, 15},
	"claude-sonnet-4-5":          {3, 15},
	"claude-sonnet-4-5-20250929": {3, 15},

	// OpenAI / Azure OpenAI
	"gpt-35-turbo": {0.5, 1.5},
	"gpt-4":        {30, 60},
	"gpt-4-turbo":  {10, 30},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},
	"o3-mini":      {1.1, 4.4},
	"o4-mini":      {1.1, 4.4},

	// Google (Gemini)
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}
