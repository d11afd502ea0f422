package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/TumiLabsJN/RumiAIv3/internal/config"
	"github.com/TumiLabsJN/RumiAIv3/internal/llm"
	"github.com/TumiLabsJN/RumiAIv3/internal/prompt"
	"github.com/TumiLabsJN/RumiAIv3/internal/worker"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <video-id>...",
	Short: "Send marker-enriched analysis prompts to the LLM",
	Long: `Analyze builds the prompt context for each video (existing context data plus
the formatted temporal marker block, gated by the rollout configuration) and
sends it to the chat API, writing each response under insights/.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var (
	anBaseDir       string
	anPromptText    string
	anPromptFile    string
	anModel         string
	anRolloutConfig string
	anCompact       bool
	anConcurrent    int
	anMaxRetries    int
	anRateLimit     int
)

func init() {
	defaults := config.Default()

	analyzeCmd.Flags().StringVarP(&anBaseDir, "base-dir", "d", ".", "base directory holding analyzer outputs")
	analyzeCmd.Flags().StringVarP(&anPromptText, "prompt", "p", "Analyze this video's hook strength and call-to-action effectiveness.", "analysis prompt")
	analyzeCmd.Flags().StringVar(&anPromptFile, "prompt-file", "", "read the analysis prompt from a file")
	analyzeCmd.Flags().StringVarP(&anModel, "model", "m", "gpt-4o-mini", "chat model")
	analyzeCmd.Flags().StringVar(&anRolloutConfig, "rollout-config", filepath.Join("config", "temporal_markers.json"), "rollout config path")
	analyzeCmd.Flags().BoolVar(&anCompact, "compact", false, "compact marker formatting")
	analyzeCmd.Flags().IntVarP(&anConcurrent, "max-concurrent", "j", defaults.MaxConcurrent, "max concurrent API calls")
	analyzeCmd.Flags().IntVar(&anMaxRetries, "max-retries", defaults.MaxRetries, "max retries per video")
	analyzeCmd.Flags().IntVar(&anRateLimit, "rate-limit", defaults.APIRateLimitPerMin, "API requests per minute")

	rootCmd.AddCommand(analyzeCmd)
}

type analysisResult struct {
	VideoID     string `json:"video_id"`
	Model       string `json:"model"`
	Response    string `json:"response"`
	GeneratedAt string `json:"generated_at"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if anMaxRetries < 1 {
		return fmt.Errorf("max-retries must be at least 1")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}

	promptText := anPromptText
	if anPromptFile != "" {
		data, err := os.ReadFile(anPromptFile)
		if err != nil {
			return fmt.Errorf("read prompt file: %w", err)
		}
		promptText = string(data)
	}

	rollout, err := config.LoadRollout(anRolloutConfig)
	if err != nil {
		slog.Warn("failed to load rollout config, using defaults", "err", err)
	}
	slog.Info("rollout configuration",
		"enabled", rollout.Enabled, "percentage", rollout.Percentage)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := llm.New(apiKey, anModel)
	limiter := rate.NewLimiter(rate.Limit(float64(anRateLimit)/60.0), 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(anConcurrent)

	for _, videoID := range args {
		videoID := videoID
		g.Go(func() error {
			return analyzeVideo(gctx, client, limiter, rollout, videoID, promptText)
		})
	}

	return g.Wait()
}

func analyzeVideo(ctx context.Context, client *llm.Client, limiter *rate.Limiter, rollout config.Rollout, videoID, promptText string) error {
	doc, err := worker.LoadDocument(anBaseDir, videoID)
	if err != nil {
		slog.Warn("no cached markers, analyzing without temporal context", "video_id", videoID)
		doc = nil
	}

	existing := loadExistingContext(videoID)
	contextBlock := prompt.BuildContext(existing, doc, videoID, rollout, anCompact)

	for _, warning := range prompt.EstimateSize(contextBlock, promptText) {
		slog.Warn("prompt size", "video_id", videoID, "warning", warning)
	}

	var response string
	var lastErr error

	// Retry with exponential backoff; the limiter spaces out attempts
	// across all videos.
	for attempt := 0; attempt < anMaxRetries; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		response, lastErr = client.Analyze(ctx, contextBlock, promptText)
		if lastErr == nil {
			break
		}

		if attempt < anMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			slog.Warn("analysis failed, retrying",
				"video_id", videoID, "attempt", attempt+1, "backoff", backoff, "err", lastErr)

			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	if lastErr != nil {
		return fmt.Errorf("analyze %s after %d attempts: %w", videoID, anMaxRetries, lastErr)
	}

	return saveAnalysis(videoID, response)
}

// loadExistingContext reads the unrelated per-video context data that the
// marker block is concatenated with, if any exists.
func loadExistingContext(videoID string) string {
	path := filepath.Join(anBaseDir, "downloads", "analysis", videoID, "unified_analysis.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return "CONTEXT DATA:\n" + string(data)
}

func saveAnalysis(videoID, response string) error {
	dir := filepath.Join(anBaseDir, "insights")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create insights dir: %w", err)
	}

	result := analysisResult{
		VideoID:     videoID,
		Model:       anModel,
		Response:    response,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}

	path := filepath.Join(dir, videoID+"_analysis.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write analysis: %w", err)
	}
	slog.Info("saved analysis", "video_id", videoID, "path", path)
	return nil
}
