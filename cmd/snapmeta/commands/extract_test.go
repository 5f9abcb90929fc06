package commands

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
)

// setFlag sets a command flag for the test and restores it afterwards.
func setFlag(t *testing.T, cmd *cobra.Command, name, value string) {
	t.Helper()
	if err := cmd.Flags().Set(name, value); err != nil {
		t.Fatalf("failed to set --%s: %v", name, err)
	}
	t.Cleanup(func() { _ = cmd.Flags().Set(name, "") })
}

// --- Provider Resolution Tests ---

func TestResolveProviderConfig_UsesCommandFlags(t *testing.T) {
	setFlag(t, extractCmd, "provider", "ollama")
	setFlag(t, extractCmd, "model", "llama3.2:70b")
	setFlag(t, extractCmd, "base-url", "http://inference.local:11434")

	name, cfg := resolveProviderConfig(extractCmd)

	if name != "ollama" {
		t.Errorf("provider = %q, want ollama", name)
	}
	if cfg.Model != "llama3.2:70b" {
		t.Errorf("model = %q, want llama3.2:70b", cfg.Model)
	}
	if cfg.BaseURL != "http://inference.local:11434" {
		t.Errorf("base URL = %q, want http://inference.local:11434", cfg.BaseURL)
	}
}

// Each inference command carries its own flag set; flags set on one command
// must neither leak into nor shadow another command's resolution.
func TestResolveProviderConfig_PerCommandFlagsAreIndependent(t *testing.T) {
	setFlag(t, refineCmd, "provider", "gemini")
	setFlag(t, extractCmd, "provider", "ollama")

	name, _ := resolveProviderConfig(extractCmd)
	if name != "ollama" {
		t.Errorf("extract resolved provider %q, want ollama", name)
	}

	name, _ = resolveProviderConfig(refineCmd)
	if name != "gemini" {
		t.Errorf("refine resolved provider %q, want gemini", name)
	}
}

func TestResolveProviderConfig_PairsKeyWithSelectedProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("ANTHROPIC_API_KEY", "sk-anthropic")

	setFlag(t, extractCmd, "provider", "anthropic")

	_, cfg := resolveProviderConfig(extractCmd)
	if cfg.APIKey != "sk-anthropic" {
		t.Errorf("API key = %q, want the anthropic key", cfg.APIKey)
	}
}

func TestResolveProviderConfig_ExplicitKeyWins(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-env")

	setFlag(t, extractCmd, "provider", "anthropic")
	setFlag(t, extractCmd, "api-key", "sk-flag")

	_, cfg := resolveProviderConfig(extractCmd)
	if cfg.APIKey != "sk-flag" {
		t.Errorf("API key = %q, want the flag value", cfg.APIKey)
	}
}

func TestResolveProviderConfig_AutoDetectsFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "sk-gemini")

	name, cfg := resolveProviderConfig(extractCmd)
	if name != "gemini" {
		t.Errorf("detected provider = %q, want gemini", name)
	}
	if cfg.APIKey != "sk-gemini" {
		t.Errorf("API key = %q, want the gemini key", cfg.APIKey)
	}
}

func TestResolveProviderConfig_TimeoutFlag(t *testing.T) {
	setFlag(t, extractCmd, "provider", "ollama")
	setFlag(t, extractCmd, "timeout", "15s")
	t.Cleanup(func() { _ = extractCmd.Flags().Set("timeout", "60s") })

	_, cfg := resolveProviderConfig(extractCmd)
	if cfg.Timeout != 15*time.Second {
		t.Errorf("timeout = %v, want 15s", cfg.Timeout)
	}
}
