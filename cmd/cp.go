package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/ScientiaCapital/videodistiller/internal"
)

// cpCmd copies a stored transcript or summary to the system clipboard.
var cpCmd = &cobra.Command{
	Use:   "cp [YouTube URL or ID]",
	Short: "Copy a stored transcript to the clipboard",
	Example: `  # Copy a stored transcript
  videodistiller cp tAP1eZYEuKA

  # Copy the summary instead
  videodistiller cp tAP1eZYEuKA --summary`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		videoID, err := internal.ParseVideoArg(args[0])
		if err != nil {
			return err
		}

		app, err := newApp()
		if err != nil {
			return err
		}

		copySummary, _ := cmd.Flags().GetBool("summary")
		var text, what string
		if copySummary {
			summary, err := app.Storage().GetSummary(videoID)
			if err != nil {
				return fmt.Errorf("no summary for %s: %w", videoID, err)
			}
			text, what = summary.SummaryText, "Summary"
		} else {
			text, err = app.Storage().ReadTranscriptText(videoID)
			if err != nil {
				return fmt.Errorf("no transcript for %s - extract the video first: %w", videoID, err)
			}
			what = "Transcript"
		}

		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}

		app.UI().Printf("%s copied to clipboard\n", what)

		return nil
	},
}

func init() {
	cpCmd.Flags().Bool("summary", false, "Copy the stored summary instead of the transcript")
	rootCmd.AddCommand(cpCmd)
}
