package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TumiLabsJN/RumiAIv3/internal/prompt"
	"github.com/TumiLabsJN/RumiAIv3/internal/worker"
)

var formatCmd = &cobra.Command{
	Use:   "format <video-id>",
	Short: "Render a cached marker document as a prompt text block",
	Args:  cobra.ExactArgs(1),
	RunE:  runFormat,
}

var (
	fmtBaseDir string
	fmtCompact bool
)

func init() {
	formatCmd.Flags().StringVarP(&fmtBaseDir, "base-dir", "d", ".", "base directory holding analyzer outputs")
	formatCmd.Flags().BoolVar(&fmtCompact, "compact", false, "compact formatting")

	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	videoID := args[0]

	doc, err := worker.LoadDocument(fmtBaseDir, videoID)
	if err != nil {
		return fmt.Errorf("no cached markers for %s (run generate first): %w", videoID, err)
	}

	fmt.Println(prompt.Format(doc, fmtCompact))
	return nil
}
