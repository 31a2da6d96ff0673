package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddModelFlags adds flags shared by commands that call the language model.
func AddModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "OpenRouter model to use for summaries")
	cmd.Flags().StringP("template", "t", "", "Prompt template name (auto-detected when omitted)")
}

// HandleModelFlag applies an explicit --model override to the config.
func HandleModelFlag(cmd *cobra.Command, config *Config) error {
	model, err := cmd.Flags().GetString("model")
	if err != nil {
		return fmt.Errorf("failed to get model flag: %w", err)
	}
	if model != "" {
		config.Model = model
	}
	return nil
}

// HandleOutputFlags processes the --verbose and --quiet flags to update config
func HandleOutputFlags(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	config.Verbose = verbose
	config.Quiet = quiet
	return nil
}
