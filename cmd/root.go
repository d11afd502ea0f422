package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "rumiai",
	Short: "Generate temporal marker context for short-form video analysis",
	Long: `RumiAI converts per-analyzer video annotations (OCR text, object tracking,
pose/gesture timelines) into a compact temporal marker document describing the
hook window (first 5 seconds) and the CTA window (final 15%) of a video, then
injects it as structured context into LLM analysis prompts.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Best effort: the API key may come from the shell instead.
		_ = godotenv.Load()
		setupLogging()
	},
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
}
