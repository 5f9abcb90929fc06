package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/snapmeta/snapmeta/internal/extractor"
	"github.com/snapmeta/snapmeta/internal/llm"
	"github.com/snapmeta/snapmeta/internal/logger"
	"github.com/snapmeta/snapmeta/internal/output"
)

var extractCmd = &cobra.Command{
	Use:   "extract [QUERY]",
	Short: "Extract a metadata record from a free-text description",
	Long: `Extract builds a fresh photo-metadata record from a free-text
description. With no QUERY argument, the description is read
interactively from stdin.

The result is a single JSON envelope on stdout:
  {"message": "Extracted metadata from GPT (cost: $...)", "metadata": {...}}

On a malformed model response, metadata carries an error payload instead
of the record, and the invocation still succeeds.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	addInferenceFlags(extractCmd)
}

// addInferenceFlags registers the provider/model/output flags shared by
// extract and refine.
func addInferenceFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringP("provider", "p", "", "LLM provider: openai, anthropic, gemini, ollama (auto-detects from env vars)")
	flags.StringP("model", "m", "", "model name (provider-specific)")
	flags.StringP("api-key", "k", "", "API key (or use env var)")
	flags.String("base-url", "", "custom API base URL")
	flags.Duration("timeout", 60*time.Second, "provider request timeout")
	flags.Int("max-tokens", 4096, "max completion tokens")
	flags.Float64("temperature", 0, "sampling temperature")

	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "output format: json, jsonl, yaml")
}

// flagOrConfig resolves a string setting: an explicitly set command flag
// wins, otherwise the viper key (config file or SNAPMETA_ env) applies.
// Binding these keys through viper.BindPFlag would tie each key to a single
// command's flag instance, silently ignoring the same flag on the others.
func flagOrConfig(cmd *cobra.Command, flag, key string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return viper.GetString(key)
}

// providerKeyEnv names the API key environment variable for each hosted
// provider, so an explicitly selected provider gets its own key even when
// several are set.
var providerKeyEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// resolveProviderConfig turns the command's flags, config and environment
// into a provider name and its configuration. Key resolution order:
// --api-key flag, the selected provider's own env var, then config.
func resolveProviderConfig(cmd *cobra.Command) (string, llm.ProviderConfig) {
	providerName := flagOrConfig(cmd, "provider", "provider")
	apiKey, _ := cmd.Flags().GetString("api-key")

	if providerName == "" {
		detected, detectedKey := llm.DetectProvider()
		providerName = detected
		if apiKey == "" {
			apiKey = detectedKey
		}
		logger.Debug("auto-detected provider", "provider", providerName)
	}
	if apiKey == "" {
		apiKey = os.Getenv(providerKeyEnv[providerName])
	}
	if apiKey == "" {
		apiKey = viper.GetString("api_key")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg := llm.DefaultProviderConfig()
	cfg.APIKey = apiKey
	cfg.BaseURL = flagOrConfig(cmd, "base-url", "base_url")
	cfg.Model = flagOrConfig(cmd, "model", "model")
	cfg.Timeout = timeout
	return providerName, cfg
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	query, err := resolveQuery(args)
	if err != nil {
		return err
	}

	ext, err := buildExtractor(cmd)
	if err != nil {
		return err
	}

	envelope, inferErr := ext.ExtractFresh(ctx, query)
	if writeErr := emitEnvelope(cmd, envelope); writeErr != nil {
		return writeErr
	}
	return inferErr
}

// resolveQuery returns the positional query, or collects one interactively.
// The prompt goes to stderr so stdout stays reserved for the envelope.
func resolveQuery(args []string) (string, error) {
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}

	fmt.Fprint(os.Stderr, "Please enter your search query: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read query from stdin: %w", err)
	}
	query := strings.TrimSpace(line)
	if query == "" {
		return "", fmt.Errorf("empty query")
	}
	return query, nil
}

// buildExtractor resolves provider configuration from flags, config and
// environment, and constructs the extractor.
func buildExtractor(cmd *cobra.Command) (*extractor.Extractor, error) {
	providerName, cfg := resolveProviderConfig(cmd)

	provider, err := llm.NewProvider(providerName, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("provider ready", "provider", provider.Name(), "model", provider.Model())

	maxTokens, _ := cmd.Flags().GetInt("max-tokens")
	temperature, _ := cmd.Flags().GetFloat64("temperature")

	return extractor.New(provider,
		extractor.WithMaxTokens(maxTokens),
		extractor.WithTemperature(temperature),
		extractor.WithTimeout(cfg.Timeout),
	), nil
}

// emitEnvelope writes the result envelope as the invocation's single
// structured output.
func emitEnvelope(cmd *cobra.Command, envelope extractor.Envelope) error {
	out := os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			logger.Error("failed to create output file", "path", outPath, "error", err)
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	formatStr, _ := cmd.Flags().GetString("format")
	writer, err := output.NewWriter(out, output.Format(formatStr))
	if err != nil {
		logger.Error("failed to create output writer", "format", formatStr, "error", err)
		return err
	}

	if err := writer.Write(envelope); err != nil {
		return err
	}
	return writer.Close()
}
