package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/TumiLabsJN/RumiAIv3/internal/config"
	"github.com/TumiLabsJN/RumiAIv3/internal/markers"
	"github.com/TumiLabsJN/RumiAIv3/internal/prompt"
	"github.com/TumiLabsJN/RumiAIv3/internal/worker"
)

var generateCmd = &cobra.Command{
	Use:   "generate <video-id>...",
	Short: "Generate temporal marker documents from analyzer outputs",
	Long: `Generate reads each video's raw analyzer outputs (OCR creative analysis,
object tracking, enhanced human analysis) from the base directory, builds the
unified temporal marker document and caches it under temporal_markers/.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

var (
	genBaseDir       string
	genForce         bool
	genExtractionFPS float64
	genConcurrent    int
	genShow          bool
	genCompact       bool
)

func init() {
	defaults := config.Default()

	generateCmd.Flags().StringVarP(&genBaseDir, "base-dir", "d", ".", "base directory holding analyzer outputs")
	generateCmd.Flags().BoolVarP(&genForce, "force", "f", false, "regenerate even if cached markers exist")
	generateCmd.Flags().Float64Var(&genExtractionFPS, "extraction-fps", defaults.ExtractionFPS, "frame extraction FPS used by the analyzers")
	generateCmd.Flags().IntVarP(&genConcurrent, "max-concurrent", "j", defaults.MaxConcurrent, "max videos processed in parallel")
	generateCmd.Flags().BoolVar(&genShow, "show", false, "print the formatted prompt block for each video")
	generateCmd.Flags().BoolVar(&genCompact, "compact", false, "compact formatting with --show")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limits := config.Default().Limits

	// Videos share no mutable state, so they can run fully in parallel.
	var (
		mu   sync.Mutex
		docs = make(map[string]*markers.Document, len(args))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(genConcurrent)

	for _, videoID := range args {
		videoID := videoID
		g.Go(func() error {
			doc, err := worker.Run(gctx, worker.Options{
				VideoID:       videoID,
				BaseDir:       genBaseDir,
				ExtractionFPS: genExtractionFPS,
				Force:         genForce,
				Limits:        limits,
			})
			if err != nil {
				return fmt.Errorf("generate markers for %s: %w", videoID, err)
			}
			mu.Lock()
			docs[videoID] = doc
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if genShow {
		for _, videoID := range args {
			if doc := docs[videoID]; doc != nil {
				fmt.Println(prompt.Format(doc, genCompact))
				fmt.Println()
			}
		}
	}

	return nil
}
