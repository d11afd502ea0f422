// Package worker orchestrates one video's marker generation run: metadata
// probing, raw analyzer input loading, concurrent extraction, integration
// and the on-disk document cache.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/TumiLabsJN/RumiAIv3/internal/config"
	"github.com/TumiLabsJN/RumiAIv3/internal/ffprobe"
	"github.com/TumiLabsJN/RumiAIv3/internal/markers"
)

// Options configures one marker generation run.
type Options struct {
	VideoID       string
	BaseDir       string
	ExtractionFPS float64
	Force         bool
	Limits        config.Limits
}

// Run generates the temporal marker document for one video. A cached
// document is returned as-is unless Force is set. Missing analyzer outputs
// degrade to empty contributions; only unusable video metadata plus a
// failed write are fatal.
func Run(ctx context.Context, opts Options) (*markers.Document, error) {
	if !opts.Force {
		if doc, err := LoadDocument(opts.BaseDir, opts.VideoID); err == nil {
			slog.Info("using cached temporal markers", "video_id", opts.VideoID)
			return doc, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("cached markers unreadable, regenerating", "video_id", opts.VideoID, "err", err)
		}
	}

	meta := loadMetadata(ctx, opts)
	slog.Info("video metadata resolved",
		"video_id", opts.VideoID,
		"fps", meta.FPS,
		"extraction_fps", meta.ExtractionFPS,
		"duration", meta.Duration)

	ocrFrames := loadOCRFrames(opts)
	tracking := loadTracking(opts)
	pose := loadPoseTimeline(opts)

	ocrExtractor, err := markers.NewOCRExtractor(meta, opts.Limits)
	if err != nil {
		return nil, fmt.Errorf("ocr extractor: %w", err)
	}
	objExtractor, err := markers.NewObjectExtractor(meta, opts.Limits)
	if err != nil {
		return nil, fmt.Errorf("object extractor: %w", err)
	}
	gesExtractor, err := markers.NewGestureExtractor(meta, opts.Limits)
	if err != nil {
		return nil, fmt.Errorf("gesture extractor: %w", err)
	}

	// The three extractions are independent of one another; run them
	// concurrently and join before integration. A missing source yields a
	// nil contribution, which the integrator treats as empty.
	var (
		ocrMarkers *markers.OCRMarkers
		objMarkers *markers.ObjectMarkers
		gesMarkers *markers.GestureMarkers
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		if ocrFrames != nil {
			ocrMarkers = ocrExtractor.Extract(ocrFrames)
		}
		return nil
	})
	g.Go(func() error {
		if tracking != nil {
			objMarkers = objExtractor.Extract(tracking)
		}
		return nil
	})
	g.Go(func() error {
		if pose != nil {
			gesMarkers = gesExtractor.Extract(pose)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extract markers: %w", err)
	}

	integrator := markers.NewIntegrator(meta, opts.Limits)
	doc := integrator.Integrate(opts.VideoID, ocrMarkers, objMarkers, gesMarkers)

	if err := saveDocument(opts.BaseDir, opts.VideoID, doc); err != nil {
		return nil, err
	}

	logSummary(doc)
	return doc, nil
}

// DocumentPath returns the cache location for a video's marker document.
func DocumentPath(baseDir, videoID string) string {
	return filepath.Join(baseDir, "temporal_markers", videoID+"_temporal_markers.json")
}

// LoadDocument reads a cached marker document.
func LoadDocument(baseDir, videoID string) (*markers.Document, error) {
	data, err := os.ReadFile(DocumentPath(baseDir, videoID))
	if err != nil {
		return nil, err
	}
	var doc markers.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse cached markers: %w", err)
	}
	return &doc, nil
}

func saveDocument(baseDir, videoID string, doc *markers.Document) error {
	path := DocumentPath(baseDir, videoID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create markers dir: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal markers: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write markers: %w", err)
	}
	slog.Info("saved temporal markers", "video_id", videoID, "path", path, "size_bytes", len(data))
	return nil
}

// loadMetadata resolves video metadata from the frame-output metadata file,
// then ffprobe on the downloaded video, then hardcoded defaults.
func loadMetadata(ctx context.Context, opts Options) markers.VideoMetadata {
	extractionFPS := opts.ExtractionFPS
	if extractionFPS <= 0 {
		extractionFPS = config.Default().ExtractionFPS
	}

	metaPath := filepath.Join(opts.BaseDir, "frame_outputs", opts.VideoID, "metadata.json")
	if data, err := os.ReadFile(metaPath); err == nil {
		var meta markers.VideoMetadata
		if err := json.Unmarshal(data, &meta); err == nil && meta.FPS > 0 {
			if meta.ExtractionFPS <= 0 {
				meta.ExtractionFPS = extractionFPS
			}
			return meta
		}
		slog.Warn("frame metadata unusable", "path", metaPath, "err", err)
	}

	videoPath := filepath.Join(opts.BaseDir, "downloads", "videos", opts.VideoID+".mp4")
	if _, err := os.Stat(videoPath); err == nil && ffprobe.Available() {
		if info, err := ffprobe.Probe(ctx, videoPath); err == nil && info.FPS > 0 {
			return markers.VideoMetadata{
				FPS:           info.FPS,
				ExtractionFPS: extractionFPS,
				FrameCount:    info.FrameCount,
				Duration:      info.Duration,
			}
		} else if err != nil {
			slog.Warn("ffprobe failed", "path", videoPath, "err", err)
		}
	}

	slog.Warn("could not determine video metadata, using defaults", "video_id", opts.VideoID)
	return markers.VideoMetadata{
		FPS:           30.0,
		ExtractionFPS: extractionFPS,
		FrameCount:    1800,
		Duration:      60.0,
	}
}

type creativeAnalysis struct {
	FrameDetails []markers.OCRFrame `json:"frame_details"`
}

func loadOCRFrames(opts Options) []markers.OCRFrame {
	paths := []string{
		filepath.Join(opts.BaseDir, "creative_analysis_outputs", opts.VideoID, opts.VideoID+"_creative_analysis.json"),
		filepath.Join(opts.BaseDir, "downloads", "analysis", opts.VideoID, "creative_analysis.json"),
	}
	var analysis creativeAnalysis
	if !loadFirst(paths, &analysis, "ocr") {
		return nil
	}
	return analysis.FrameDetails
}

func loadTracking(opts Options) *markers.TrackingData {
	paths := []string{
		filepath.Join(opts.BaseDir, "downloads", "videos", opts.VideoID+"_tracking.json"),
		filepath.Join(opts.BaseDir, "downloads", "analysis", opts.VideoID, "object_tracking.json"),
	}
	var tracking markers.TrackingData
	if !loadFirst(paths, &tracking, "object tracking") {
		return nil
	}
	return &tracking
}

type humanAnalysis struct {
	Timeline markers.PoseTimeline `json:"timeline"`
}

func loadPoseTimeline(opts Options) *markers.PoseTimeline {
	paths := []string{
		filepath.Join(opts.BaseDir, "enhanced_human_analysis_outputs", opts.VideoID, opts.VideoID+"_enhanced_human_analysis.json"),
		filepath.Join(opts.BaseDir, "downloads", "analysis", opts.VideoID, "enhanced_human_analysis.json"),
	}
	var analysis humanAnalysis
	if !loadFirst(paths, &analysis, "pose") {
		return nil
	}
	return &analysis.Timeline
}

// loadFirst decodes the first readable path into out. A missing source is
// expected and only logged; the run proceeds with remaining sources.
func loadFirst(paths []string, out any, source string) bool {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := json.Unmarshal(data, out); err != nil {
			slog.Warn("analyzer output unreadable, skipping source", "source", source, "path", path, "err", err)
			return false
		}
		slog.Debug("loaded analyzer output", "source", source, "path", path)
		return true
	}
	slog.Warn("no analyzer output found", "source", source)
	return false
}

func logSummary(doc *markers.Document) {
	total := 0
	for _, d := range doc.HookWindow.DensityProgression {
		total += d
	}
	slog.Info("marker summary",
		"video_id", doc.Metadata.VideoID,
		"duration", doc.Metadata.VideoDuration,
		"text_moments", len(doc.HookWindow.TextMoments),
		"avg_density", float64(total)/5,
		"gestures", len(doc.HookWindow.GestureMoments),
		"object_appearances", len(doc.HookWindow.ObjectAppearances),
		"cta_window", doc.CTAWindow.TimeRange,
		"ctas", len(doc.CTAWindow.CTAAppearances),
		"gesture_sync", len(doc.CTAWindow.GestureSync),
		"size_bytes", markers.DocumentSize(doc))
}
