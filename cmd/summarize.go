package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ScientiaCapital/videodistiller/internal"
)

// summarizeCmd generates summaries for extracted videos.
var summarizeCmd = &cobra.Command{
	Use:   "summarize [YouTube URL or ID...]",
	Short: "Generate kid-friendly summaries for extracted videos",
	Long: `Summarize generates a summary for each given video using a language
model through OpenRouter. Videos must be extracted first.

The prompt template is auto-detected from the video's content unless
one is named with --template. Spend is recorded against the monthly
budget; once the ceiling is reached further calls fail until the next
month.`,
	Example: `  # Summarize one extracted video
  videodistiller summarize tAP1eZYEuKA

  # Pick a template explicitly
  videodistiller summarize tAP1eZYEuKA --template science

  # Summarize everything that has a transcript, skipping existing summaries
  videodistiller summarize --all --skip-existing

  # Render the summary in the terminal after generating it
  videodistiller summarize tAP1eZYEuKA --show`,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		skipExisting, _ := cmd.Flags().GetBool("skip-existing")
		show, _ := cmd.Flags().GetBool("show")
		templateName, _ := cmd.Flags().GetString("template")

		if !all && len(args) == 0 {
			return fmt.Errorf("provide video ids or --all")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		if err := internal.HandleModelFlag(cmd, app.Config()); err != nil {
			return err
		}
		analyzer, err := app.Analyzer()
		if err != nil {
			return err
		}
		ui := app.UI()

		var videoIDs []string
		if all {
			videos, err := app.Storage().ListAll()
			if err != nil {
				return err
			}
			for _, v := range videos {
				videoIDs = append(videoIDs, v.ID)
			}
		} else {
			for _, arg := range args {
				videoID, err := internal.ParseVideoArg(arg)
				if err != nil {
					return err
				}
				videoIDs = append(videoIDs, videoID)
			}
		}

		autoDetect := templateName == ""

		if len(videoIDs) == 1 && !all {
			summary, err := analyzer.SummarizeVideo(cmd.Context(), videoIDs[0], templateName, autoDetect)
			if err != nil {
				return err
			}
			ui.Printf("Summarized %s with template %s ($%.4f, %d tokens)\n",
				summary.VideoID, summary.TemplateUsed, summary.Cost, summary.TokensUsed)
			if show {
				rendered, err := internal.RenderMarkdown(summary.SummaryText)
				if err != nil {
					return err
				}
				fmt.Println(rendered)
			}
			printBudget(ui, app.CostTracker())
			return nil
		}

		summaries := analyzer.SummarizeBatch(cmd.Context(), videoIDs, templateName, autoDetect, skipExisting)
		ui.Printf("Summarized %d of %d videos\n", len(summaries), len(videoIDs))
		printBudget(ui, app.CostTracker())
		return nil
	},
}

func printBudget(ui internal.UIManager, tracker *internal.CostTracker) {
	s := tracker.Summary()
	ui.Printf("Budget %s: $%.4f spent, $%.4f remaining (%.1f%% used)\n",
		s.Month, s.TotalCost, s.RemainingBudget, s.BudgetUsedPercent)
}

func init() {
	internal.AddModelFlags(summarizeCmd)
	summarizeCmd.Flags().Bool("all", false, "Summarize every extracted video")
	summarizeCmd.Flags().Bool("skip-existing", false, "Skip videos that already have a summary")
	summarizeCmd.Flags().Bool("show", false, "Render the summary in the terminal")
	rootCmd.AddCommand(summarizeCmd)
}
