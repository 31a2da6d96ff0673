package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ScientiaCapital/videodistiller/internal"
)

// metadataCmd prints the stored metadata of an extracted video.
var metadataCmd = &cobra.Command{
	Use:   "metadata [YouTube URL or ID]",
	Short: "Print stored metadata for an extracted video",
	Example: `  # Print stored metadata
  videodistiller metadata tAP1eZYEuKA

  # Save metadata to file
  videodistiller metadata tAP1eZYEuKA -o metadata.json

  # Format output as pretty JSON
  videodistiller metadata tAP1eZYEuKA --pretty`,
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
		video, err := app.Storage().FindByID(videoID)
		if err != nil {
			return fmt.Errorf("video %s is not extracted yet: %w", videoID, err)
		}

		var jsonData []byte
		pretty, _ := cmd.Flags().GetBool("pretty")
		if pretty {
			jsonData, err = json.MarshalIndent(video, "", "  ")
		} else {
			jsonData, err = json.Marshal(video)
		}
		if err != nil {
			return fmt.Errorf("error converting metadata to JSON: %w", err)
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, jsonData, 0644)
		}

		fmt.Println(string(jsonData))

		return nil
	},
}

func init() {
	metadataCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	metadataCmd.Flags().Bool("pretty", false, "Format output as pretty JSON")
	rootCmd.AddCommand(metadataCmd)
}
