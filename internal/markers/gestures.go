package markers

import (
	"sort"

	"github.com/TumiLabsJN/RumiAIv3/internal/config"
)

// ExpressionEvent is one facial-expression observation. The frame index is
// at the extraction FPS.
type ExpressionEvent struct {
	Frame      float64 `json:"frame"`
	Expression string  `json:"expression"`
}

// GestureEvent is one hand/body gesture observation, optionally with the
// object the gesture points at.
type GestureEvent struct {
	Frame      float64 `json:"frame"`
	Gesture    string  `json:"gesture"`
	Confidence float64 `json:"confidence"`
	Target     string  `json:"target"`
}

// PoseTimeline is the pose analyzer's per-frame timeline output.
type PoseTimeline struct {
	Expressions []ExpressionEvent `json:"expressions"`
	Gestures    []GestureEvent    `json:"gestures"`
}

// GestureMarkers is the pose/gesture extractor's windowed contribution.
type GestureMarkers struct {
	EmotionSequence []string
	GestureMoments  []GestureMoment
	GestureSync     []GestureSync
}

// GestureExtractor extracts emotion and gesture markers from a pose timeline.
type GestureExtractor struct {
	norm     *Normalizer
	duration float64
	limits   config.Limits
}

// NewGestureExtractor builds an extractor for one video.
func NewGestureExtractor(meta VideoMetadata, limits config.Limits) (*GestureExtractor, error) {
	norm, err := NewNormalizer(meta)
	if err != nil {
		return nil, err
	}
	return &GestureExtractor{norm: norm, duration: meta.Duration, limits: limits}, nil
}

// Extract assigns one canonical emotion per elapsed hook second
// (last-writer-wins) and collects gesture observations for both windows.
func (e *GestureExtractor) Extract(timeline *PoseTimeline) *GestureMarkers {
	m := &GestureMarkers{
		EmotionSequence: NeutralEmotionSequence(),
		GestureMoments:  []GestureMoment{},
		GestureSync:     []GestureSync{},
	}

	for _, expr := range timeline.Expressions {
		ts, ok := e.norm.Normalize(expr.Frame, SourceExtractedFrame)
		if !ok || !e.norm.ValidTimestamp(ts) || ts > hookWindowEnd {
			continue
		}
		if sec := int(ts); sec >= 0 && sec < 5 {
			m.EmotionSequence[sec] = CanonicalEmotion(expr.Expression)
		}
	}

	ctaStart := ctaWindowStart(e.duration)

	for _, g := range timeline.Gestures {
		ts, ok := e.norm.Normalize(g.Frame, SourceExtractedFrame)
		if !ok || !e.norm.ValidTimestamp(ts) {
			continue
		}

		gesture := CanonicalGesture(g.Gesture)
		confidence := round2(confidenceOrDefault(g.Confidence, 0.8))

		switch {
		case ts <= hookWindowEnd:
			m.GestureMoments = append(m.GestureMoments, GestureMoment{
				Time:       round2(ts),
				Gesture:    gesture,
				Confidence: confidence,
				Target:     g.Target,
			})
		case ts >= ctaStart && gesture != "unknown":
			m.GestureSync = append(m.GestureSync, GestureSync{
				Time:          round2(ts),
				Gesture:       gesture,
				AlignsWithCTA: true,
				Confidence:    confidence,
			})
		}
	}

	sort.SliceStable(m.GestureMoments, func(i, j int) bool {
		return m.GestureMoments[i].Time < m.GestureMoments[j].Time
	})
	sort.SliceStable(m.GestureSync, func(i, j int) bool {
		return m.GestureSync[i].Time < m.GestureSync[j].Time
	})

	m.GestureMoments = m.GestureMoments[:min(len(m.GestureMoments), e.limits.MaxGestureEvents)]
	m.GestureSync = m.GestureSync[:min(len(m.GestureSync), e.limits.MaxGestureSync)]

	return m
}

// NeutralEmotionSequence returns the default 5-slot emotion sequence.
func NeutralEmotionSequence() []string {
	return []string{"neutral", "neutral", "neutral", "neutral", "neutral"}
}
