// Package pricing converts token usage into monetary cost estimates.
package pricing

import (
	"strings"

	"github.com/snapmeta/snapmeta/internal/llm"
)

// USD per million tokens (prompt and completion combined), keyed by model id.
var ratePerMillion = map[string]float64{
	"o3-mini": 1.1,
	"o3":      10.0,
	"o1":      15.0,

	"gpt-4o":      10.0,
	"gpt-4o-mini": 0.375,

	"claude-sonnet-4-20250514": 9.0,
	"claude-3-5-haiku-latest":  2.4,

	"gemini-2.0-flash": 0.25,
}

// defaultRate is used when a model has no table entry and no fallback match.
const defaultRate = 1.1

// RatePerMillionTokens resolves the flat per-million-token rate for a model.
// Exact matches win; otherwise a rough family match is applied, and unknown
// or free models fall back conservatively.
func RatePerMillionTokens(model string) float64 {
	if rate, ok := ratePerMillion[model]; ok {
		return rate
	}

	m := strings.ToLower(model)
	switch {
	case strings.Contains(m, ":free"), strings.Contains(m, "llama"),
		strings.Contains(m, "mistral"), strings.Contains(m, "gemma"):
		// Locally served models cost nothing per token.
		return 0
	case strings.Contains(m, "o3-mini"), strings.Contains(m, "mini"):
		return ratePerMillion["o3-mini"]
	case strings.Contains(m, "o1"):
		return ratePerMillion["o1"]
	case strings.Contains(m, "o3"):
		return ratePerMillion["o3"]
	case strings.Contains(m, "opus"):
		return 45.0
	case strings.Contains(m, "sonnet"), strings.Contains(m, "gpt-4"):
		return 10.0
	case strings.Contains(m, "haiku"), strings.Contains(m, "flash"):
		return 1.0
	}
	return defaultRate
}

// Estimate computes the cost in USD for one request:
// (prompt + completion tokens) / 1,000,000 * rate for the invoked model.
// Zero usage yields zero cost.
func Estimate(model string, usage llm.Usage) float64 {
	return float64(usage.Total()) / 1_000_000.0 * RatePerMillionTokens(model)
}
