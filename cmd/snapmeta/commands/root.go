// Package commands implements the CLI commands for snapmeta.
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "snapmeta",
	Short: "LLM-powered photo metadata extraction from free-text descriptions",
	Long: `Snapmeta turns free-text photo descriptions into a structured
metadata record using an LLM, and refines a previous record with
natural-language corrections.

Examples:
  # Extract metadata from a description
  snapmeta extract "photo taken in Paris, France in 2019 by John Smith"

  # Prompt interactively for the description
  snapmeta extract

  # Refine a previously extracted record
  snapmeta refine --previous record.json "actually I forgot the year"

  # Filter a local photo library with an extracted record
  snapmeta match --library ./metadata --record record.json

  # Use a specific provider and model
  snapmeta extract -p anthropic -m claude-sonnet-4-20250514 "sunset over Lisbon"`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.snapmeta.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".snapmeta")
		viper.SetConfigType("yaml")
	}

	// Environment variables. Provider API keys (OPENAI_API_KEY etc.) are
	// resolved per selected provider, not bound here, so the right key is
	// paired with the right backend when several are set.
	viper.SetEnvPrefix("SNAPMETA")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
