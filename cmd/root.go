package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ScientiaCapital/videodistiller/internal"
)

var (
	config *internal.Config
	logger *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "videodistiller",
	Short: "Extract and summarize YouTube videos for young readers",
	Long: `VideoDistiller fetches YouTube video metadata and transcripts,
stores them as flat files, and generates kid-friendly summaries
using language models through OpenRouter.

Monthly model spend is tracked against a configurable budget so a
batch run can never silently overspend.`,
	Example: `  # Extract a video's metadata and transcript
  videodistiller extract tAP1eZYEuKA

  # Extract every video in a playlist
  videodistiller extract --playlist PLXDU_eVOJTx5bx2gaiKyjLjb8BeRqWPbb

  # Summarize an extracted video
  videodistiller summarize tAP1eZYEuKA

  # Check this month's model spend
  videodistiller budget`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return internal.HandleOutputFlags(cmd, config)
	},
	SilenceUsage: true,
}

// newApp builds the application with a logger honoring the current flags.
func newApp() (*internal.App, error) {
	var err error
	logger, err = internal.NewLogger(config.Verbose, config.Quiet)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return internal.NewApp(config, logger)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config = internal.InitConfig()

	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	// Interruption cancels in-flight work; files already written stay
	// intact because every write goes through a temp-file rename.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	rootCmd.SetContext(ctx)

	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress status output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/videodistiller/config.toml)")
}
