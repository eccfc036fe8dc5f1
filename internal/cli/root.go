package cli

import (
	"fmt"

	"github.com/mgpai22/captionit/internal/config"
	"github.com/mgpai22/captionit/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	envFile string
	logger  *logging.Logger
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "captionit",
	Short: "Author captions for a video and preview them as WebVTT",
	Long: `Captionit compiles time-stamped caption documents into WebVTT
subtitle tracks and previews them on top of a video in the browser.

Caption documents are JSON arrays of {"text", "startTime", "endTime"}
objects with times in seconds.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		loaded, err := config.Load(files...)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&envFile, "env-file", "", "Dotenv file to load (default .env when present)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language of the captions (e.g., en, english)")
}
