package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ScientiaCapital/videodistiller/internal"
)

// extractCmd fetches metadata and transcripts into local storage.
var extractCmd = &cobra.Command{
	Use:   "extract [YouTube URL or ID...]",
	Short: "Fetch video metadata and transcripts into local storage",
	Long: `Extract fetches metadata and transcripts for videos, playlists, or
channels and stores them as flat files under the data directory.

Videos without captions are stored with metadata only; a missing
transcript is not an error.`,
	Example: `  # Extract a single video
  videodistiller extract tAP1eZYEuKA
  videodistiller extract "https://www.youtube.com/watch?v=tAP1eZYEuKA"

  # Extract every video in a playlist
  videodistiller extract --playlist PLXDU_eVOJTx5bx2gaiKyjLjb8BeRqWPbb

  # Extract the 10 most recent videos of a channel
  videodistiller extract --channel UCsBjURrPoezykLs9EqgamOA --limit 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		playlistArg, _ := cmd.Flags().GetString("playlist")
		channelArg, _ := cmd.Flags().GetString("channel")
		limit, _ := cmd.Flags().GetInt("limit")

		if playlistArg == "" && channelArg == "" && len(args) == 0 {
			return fmt.Errorf("provide video ids, --playlist, or --channel")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		pipeline, err := app.Pipeline(cmd.Context())
		if err != nil {
			return err
		}
		ui := app.UI()

		if playlistArg != "" {
			playlistID, err := internal.ParsePlaylistArg(playlistArg)
			if err != nil {
				return err
			}
			videos, err := pipeline.ProcessPlaylist(cmd.Context(), playlistID)
			if err != nil {
				return err
			}
			ui.Printf("Extracted %d videos from playlist %s\n", len(videos), playlistID)
			return nil
		}

		if channelArg != "" {
			videos, err := pipeline.ProcessChannel(cmd.Context(), channelArg, limit)
			if err != nil {
				return err
			}
			ui.Printf("Extracted %d videos from channel %s\n", len(videos), channelArg)
			return nil
		}

		bar := ui.NewProgressBar(len(args), "Extracting videos")
		extracted := 0
		for i, arg := range args {
			bar.Set(i)
			videoID, err := internal.ParseVideoArg(arg)
			if err != nil {
				return err
			}
			video, err := pipeline.ProcessVideo(cmd.Context(), videoID)
			if err != nil {
				app.Logger().Error("extraction failed",
					zap.String("video_id", videoID), zap.Error(err))
				continue
			}
			extracted++
			ui.Printf("Extracted: %s (%s)\n", video.Title, video.ID)
		}
		bar.Finish()
		if extracted < len(args) {
			ui.Printf("Extracted %d of %d videos\n", extracted, len(args))
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().StringP("playlist", "p", "", "Extract all videos of a playlist (URL or id)")
	extractCmd.Flags().StringP("channel", "c", "", "Extract recent videos of a channel (channel id)")
	extractCmd.Flags().IntP("limit", "l", 10, "Maximum videos to extract from a channel")
	rootCmd.AddCommand(extractCmd)
}
