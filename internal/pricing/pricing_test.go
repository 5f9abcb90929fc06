package pricing

import (
	"fmt"
	"math"
	"testing"

	"github.com/snapmeta/snapmeta/internal/llm"
)

func TestEstimate_DocumentedRates(t *testing.T) {
	usage := llm.Usage{PromptTokens: 1000, CompletionTokens: 500}

	tests := []struct {
		model string
		want  float64
	}{
		{"o3-mini", 0.00165},
		{"o3", 0.015},
		{"o1", 0.0225},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got := Estimate(tt.model, usage)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Estimate(%s) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func TestEstimate_FormatsToSixDecimals(t *testing.T) {
	cost := Estimate("o3-mini", llm.Usage{PromptTokens: 1000, CompletionTokens: 500})
	if got := fmt.Sprintf("$%.6f", cost); got != "$0.001650" {
		t.Errorf("formatted cost = %q, want $0.001650", got)
	}
}

func TestEstimate_ZeroUsageIsFree(t *testing.T) {
	if got := Estimate("o1", llm.Usage{}); got != 0 {
		t.Errorf("Estimate with zero usage = %v, want 0", got)
	}
}

func TestRatePerMillionTokens_Fallbacks(t *testing.T) {
	tests := []struct {
		model string
		want  float64
	}{
		{"o3-mini-2025-01-31", 1.1},      // family match
		{"llama3.2", 0},                  // local model
		{"xiaomi/mimo-v2-flash:free", 0}, // free tier
		{"claude-opus-4-20250514", 45.0}, // opus family
		{"some-unheard-of-model", 1.1},   // conservative default
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := RatePerMillionTokens(tt.model); got != tt.want {
				t.Errorf("RatePerMillionTokens(%s) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}
