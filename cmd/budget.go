package cmd

import (
	"github.com/spf13/cobra"
)

// budgetCmd reports the current month's model spend.
var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show this month's model spend and remaining budget",
	Example: `  # Show the current budget status
  videodistiller budget`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		s := app.CostTracker().Summary()
		ui := app.UI()

		ui.Printf("Month:            %s\n", s.Month)
		ui.Printf("Requests:         %d\n", s.TotalRequests)
		ui.Printf("Tokens:           %d\n", s.TotalTokens)
		ui.Printf("Cost:             $%.4f\n", s.TotalCost)
		ui.Printf("Remaining budget: $%.4f\n", s.RemainingBudget)
		ui.Printf("Budget used:      %.1f%%\n", s.BudgetUsedPercent)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}
