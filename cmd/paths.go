package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show paths used by the application",
	Example: `  # Show all application paths
  videodistiller paths`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Config directory: %s\n", config.ConfigDir)
		fmt.Printf("Data directory: %s\n", config.DataDir)
		fmt.Printf("Cache directory: %s\n", config.CacheDir)
		fmt.Printf("Metadata directory: %s\n", filepath.Join(config.DataDir, "metadata"))
		fmt.Printf("Transcripts directory: %s\n", filepath.Join(config.DataDir, "transcripts"))
		fmt.Printf("Summaries directory: %s\n", filepath.Join(config.DataDir, "summaries"))
		fmt.Printf("Cost ledger: %s\n", filepath.Join(config.DataDir, "llm_costs.json"))
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
