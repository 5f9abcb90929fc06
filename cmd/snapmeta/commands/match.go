package commands

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/snapmeta/snapmeta/internal/library"
	"github.com/snapmeta/snapmeta/internal/logger"
	"github.com/snapmeta/snapmeta/internal/output"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Filter a local photo library using an extracted record",
	Long: `Match loads a local photo-metadata corpus and returns the entries
matching a previously extracted record: country (canonicalized), city,
coordinate proximity, photographer, camera and description keywords.

Examples:
  # Directory of per-photo .json files
  snapmeta match --library ./metadata --record record.json

  # Single JSONL corpus file
  snapmeta match --jsonl photos.jsonl --record record.json`,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	flags := matchCmd.Flags()
	flags.String("library", "", "directory of per-photo .json metadata files")
	flags.String("jsonl", "", "JSONL corpus file (one photo per line)")
	flags.String("record", "", "path to the extracted record or envelope (required)")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "jsonl", "output format: json, jsonl, yaml")

	_ = matchCmd.MarkFlagRequired("record")
	matchCmd.MarkFlagsOneRequired("library", "jsonl")
	matchCmd.MarkFlagsMutuallyExclusive("library", "jsonl")
}

func runMatch(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	recordPath, _ := cmd.Flags().GetString("record")
	rec, err := loadRecord(recordPath)
	if err != nil {
		return err
	}

	var entries []library.PhotoEntry
	if dir, _ := cmd.Flags().GetString("library"); dir != "" {
		entries, err = library.LoadDir(dir)
	} else {
		jsonlPath, _ := cmd.Flags().GetString("jsonl")
		entries, err = library.LoadJSONL(jsonlPath)
	}
	if err != nil {
		return err
	}
	logger.Info("library loaded", "entries", humanize.Comma(int64(len(entries))))

	matched := library.Filter(rec, entries)
	logger.Info("filter complete", "matched", humanize.Comma(int64(len(matched))))

	out := os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	formatStr, _ := cmd.Flags().GetString("format")
	writer, err := output.NewWriter(out, output.Format(formatStr))
	if err != nil {
		return err
	}
	for _, entry := range matched {
		if err := writer.Write(entry); err != nil {
			return err
		}
	}
	return writer.Close()
}
