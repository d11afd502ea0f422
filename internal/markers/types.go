package markers

import "math"

// VideoMetadata describes the timing context of one video. It is supplied
// once per run and every timestamp normalization is relative to it.
type VideoMetadata struct {
	FPS           float64 `json:"fps"`
	ExtractionFPS float64 `json:"extraction_fps"`
	FrameCount    int     `json:"frame_count"`
	Duration      float64 `json:"duration"`
}

// TextMoment is one on-screen text observation inside the hook window.
type TextMoment struct {
	Time       float64 `json:"time"`
	Text       string  `json:"text"`
	Size       string  `json:"size,omitempty"`
	Position   string  `json:"position,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	IsCTA      bool    `json:"is_cta,omitempty"`
}

// GestureMoment is one gesture observation inside the hook window.
type GestureMoment struct {
	Time       float64 `json:"time"`
	Gesture    string  `json:"gesture"`
	Confidence float64 `json:"confidence,omitempty"`
	Target     string  `json:"target,omitempty"`
}

// ObjectAppearance groups the objects visible at one normalized timestamp.
type ObjectAppearance struct {
	Time        float64   `json:"time"`
	Objects     []string  `json:"objects"`
	Confidences []float64 `json:"confidence,omitempty"`
}

// CTAAppearance is a call-to-action text detection inside the CTA window.
type CTAAppearance struct {
	Time       float64 `json:"time"`
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	Size       string  `json:"size,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// GestureSync is a gesture that lands inside the CTA window.
type GestureSync struct {
	Time          float64 `json:"time"`
	Gesture       string  `json:"gesture"`
	AlignsWithCTA bool    `json:"aligns_with_cta,omitempty"`
	Confidence    float64 `json:"confidence,omitempty"`
}

// ObjectFocus is an emphasis-worthy object detection inside the CTA window.
type ObjectFocus struct {
	Time       float64 `json:"time"`
	Object     string  `json:"object"`
	Confidence float64 `json:"confidence,omitempty"`
}

// HookWindow summarizes the first 5 seconds of the video.
type HookWindow struct {
	DensityProgression [5]int             `json:"density_progression"`
	TextMoments        []TextMoment       `json:"text_moments"`
	EmotionSequence    []string           `json:"emotion_sequence"`
	GestureMoments     []GestureMoment    `json:"gesture_moments"`
	ObjectAppearances  []ObjectAppearance `json:"object_appearances"`
}

// CTAWindow summarizes the final 15% of the video.
type CTAWindow struct {
	TimeRange      string          `json:"time_range"`
	CTAAppearances []CTAAppearance `json:"cta_appearances"`
	GestureSync    []GestureSync   `json:"gesture_sync,omitempty"`
	ObjectFocus    []ObjectFocus   `json:"object_focus"`
}

// DocumentMeta identifies one generation run of a marker document.
type DocumentMeta struct {
	VideoID       string  `json:"video_id"`
	VideoDuration float64 `json:"video_duration"`
	ExtractionFPS float64 `json:"extraction_fps"`
	GeneratedAt   string  `json:"generated_at"`
	GenerationID  string  `json:"generation_id"`
	Version       string  `json:"markers_version"`
}

// Document is the unified, size-bounded temporal marker document. It is built
// fresh per run by the Integrator and only ever shrunk afterwards.
type Document struct {
	HookWindow HookWindow   `json:"hook_window"`
	CTAWindow  CTAWindow    `json:"cta_window"`
	Metadata   DocumentMeta `json:"metadata"`
}

// MarkersVersion is the schema version stamped into document metadata.
const MarkersVersion = "1.0"

// hookWindowEnd is the exclusive upper bound of the hook window in seconds.
const hookWindowEnd = 5.0

// ctaWindowStart returns the start of the CTA window for a video duration.
func ctaWindowStart(duration float64) float64 {
	return math.Max(0, duration*0.85)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
