package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd lists extracted videos from the local index.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List extracted videos, newest first",
	Example: `  # List all extracted videos
  videodistiller list

  # Include summary status
  videodistiller list --summaries`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		withSummaries, _ := cmd.Flags().GetBool("summaries")

		app, err := newApp()
		if err != nil {
			return err
		}
		entries, err := app.Storage().Index()
		if err != nil {
			return err
		}
		ui := app.UI()

		if len(entries) == 0 {
			ui.Println("No videos extracted yet. Run 'videodistiller extract' first.")
			return nil
		}

		for _, e := range entries {
			if withSummaries {
				status := " "
				if app.Storage().SummaryExists(e.ID) {
					status = "*"
				}
				ui.Printf("%s %s  %s  %s (%s)\n", status, e.ID, e.PublishedAt, e.Title, e.Channel)
			} else {
				ui.Printf("%s  %s  %s (%s)\n", e.ID, e.PublishedAt, e.Title, e.Channel)
			}
		}
		ui.Printf("\n%d videos\n", len(entries))
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("summaries", false, "Mark videos that already have a summary")
	rootCmd.AddCommand(listCmd)
}
