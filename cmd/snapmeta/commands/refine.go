package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/snapmeta/snapmeta/internal/logger"
	"github.com/snapmeta/snapmeta/pkg/photometa"
)

var refineCmd = &cobra.Command{
	Use:   "refine CORRECTION",
	Short: "Refine a previously extracted record with a correction",
	Long: `Refine updates a previously extracted metadata record using a
natural-language correction; fields the correction does not touch keep
their previous values, and fields it implies are unknown are cleared.

The previous record file may be a bare metadata record or a full envelope
as produced by 'snapmeta extract'.

Example:
  snapmeta extract "Paris in 2019" -o record.json
  snapmeta refine --previous record.json "actually it was taken in Lyon"`,
	Args: cobra.ExactArgs(1),
	RunE: runRefine,
}

func init() {
	rootCmd.AddCommand(refineCmd)
	addInferenceFlags(refineCmd)

	refineCmd.Flags().String("previous", "", "path to the previous record or envelope (required)")
	_ = refineCmd.MarkFlagRequired("previous")
}

func runRefine(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	prevPath, _ := cmd.Flags().GetString("previous")
	prev, err := loadRecord(prevPath)
	if err != nil {
		return err
	}
	logger.Debug("previous record loaded", "path", prevPath)

	ext, err := buildExtractor(cmd)
	if err != nil {
		return err
	}

	envelope, inferErr := ext.Refine(ctx, prev, args[0])
	if writeErr := emitEnvelope(cmd, envelope); writeErr != nil {
		return writeErr
	}
	return inferErr
}

// loadRecord reads a metadata record from a JSON file. Both a bare record
// and an extract envelope ({"message": ..., "metadata": {...}}) are
// accepted, so extract output can be threaded straight back in.
func loadRecord(path string) (photometa.Record, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- CLI tool reads a user-specified record file
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse record file %s: %w", path, err)
	}

	if inner, ok := raw["metadata"].(map[string]any); ok {
		if _, hasMessage := raw["message"]; hasMessage {
			raw = inner
		}
	}

	rec := photometa.Record(raw)
	known := 0
	for key := range rec {
		if _, ok := photometa.Lookup(key); ok {
			known++
		}
	}
	if known == 0 {
		// Catches error-payload envelopes from a failed extraction, whose
		// metadata is {"error": ..., "raw_text": ...} rather than a record.
		return nil, fmt.Errorf("record file %s contains no metadata fields", path)
	}
	return rec, nil
}
