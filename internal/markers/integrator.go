package markers

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/TumiLabsJN/RumiAIv3/internal/config"
)

// densityCap is the per-second ceiling on summed event counts.
const densityCap = 10

// Integrator merges per-source windowed markers into one unified document.
type Integrator struct {
	meta   VideoMetadata
	limits config.Limits
}

// NewIntegrator builds an integrator for one video.
func NewIntegrator(meta VideoMetadata, limits config.Limits) *Integrator {
	return &Integrator{meta: meta, limits: limits}
}

// Integrate merges whichever sources are present. A nil source leaves its
// owned fields at their empty defaults; integration never fails.
//
// Merge rules:
//   - density_progression: element-wise sum across present sources, each
//     index capped at densityCap.
//   - text/object/cta/focus lists: taken verbatim from the owning source.
//   - emotion_sequence: replaced wholesale from the gesture source if
//     present, never blended.
//
// After merging, the document is shrunk to the soft size target and
// structurally validated; validation findings are logged, not raised.
func (it *Integrator) Integrate(videoID string, ocr *OCRMarkers, obj *ObjectMarkers, ges *GestureMarkers) *Document {
	norm, _ := NewNormalizer(it.meta)
	ctaStart := ctaWindowStart(it.meta.Duration)

	doc := &Document{
		HookWindow: HookWindow{
			TextMoments:       []TextMoment{},
			EmotionSequence:   NeutralEmotionSequence(),
			GestureMoments:    []GestureMoment{},
			ObjectAppearances: []ObjectAppearance{},
		},
		CTAWindow: CTAWindow{
			TimeRange:      norm.TimeRange(ctaStart, it.meta.Duration),
			CTAAppearances: []CTAAppearance{},
			GestureSync:    []GestureSync{},
			ObjectFocus:    []ObjectFocus{},
		},
		Metadata: DocumentMeta{
			VideoID:       videoID,
			VideoDuration: it.meta.Duration,
			ExtractionFPS: it.meta.ExtractionFPS,
			GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
			GenerationID:  uuid.NewString(),
			Version:       MarkersVersion,
		},
	}

	if ocr != nil {
		doc.HookWindow.TextMoments = ocr.TextMoments
		doc.CTAWindow.CTAAppearances = ocr.CTAAppearances
		for i := range doc.HookWindow.DensityProgression {
			doc.HookWindow.DensityProgression[i] += ocr.Density[i]
		}
	}

	if obj != nil {
		doc.HookWindow.ObjectAppearances = obj.ObjectAppearances
		doc.CTAWindow.ObjectFocus = obj.ObjectFocus
		for i := range doc.HookWindow.DensityProgression {
			doc.HookWindow.DensityProgression[i] += obj.Density[i]
		}
	}

	if ges != nil {
		doc.HookWindow.EmotionSequence = ges.EmotionSequence
		doc.HookWindow.GestureMoments = ges.GestureMoments
		doc.CTAWindow.GestureSync = ges.GestureSync
	}

	for i, d := range doc.HookWindow.DensityProgression {
		doc.HookWindow.DensityProgression[i] = min(d, densityCap)
	}

	size, fits := Reduce(doc, it.limits, it.limits.SoftLimitBytes)
	if !fits {
		slog.Warn("marker document exceeds size target after full reduction",
			"video_id", videoID, "size_bytes", size, "target_bytes", it.limits.SoftLimitBytes)
	}

	if warnings := ValidateDocument(doc, it.limits); len(warnings) > 0 {
		slog.Warn("marker document validation warnings",
			"video_id", videoID, "warnings", warnings)
	}

	return doc
}
