package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ScientiaCapital/videodistiller/internal"
)

// showCmd renders a stored summary in the terminal.
var showCmd = &cobra.Command{
	Use:   "show [YouTube URL or ID]",
	Short: "Render a stored summary in the terminal",
	Example: `  # Render a previously generated summary
  videodistiller show tAP1eZYEuKA

  # Print the raw summary text without rendering
  videodistiller show tAP1eZYEuKA --raw`,
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
		summary, err := app.Storage().GetSummary(videoID)
		if err != nil {
			return fmt.Errorf("no summary for %s - generate one with 'videodistiller summarize %s': %w", videoID, videoID, err)
		}

		raw, _ := cmd.Flags().GetBool("raw")
		if raw {
			fmt.Println(summary.SummaryText)
			return nil
		}

		header := fmt.Sprintf("# %s\n\n*%s | %s template, $%.4f, %d tokens*\n\n",
			summary.Title, summary.ChannelTitle, summary.TemplateUsed, summary.Cost, summary.TokensUsed)
		rendered, err := internal.RenderMarkdown(header + summary.SummaryText)
		if err != nil {
			return err
		}
		fmt.Println(rendered)
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("raw", false, "Print raw summary text without terminal rendering")
	rootCmd.AddCommand(showCmd)
}
