package markers

import (
	"sort"

	"github.com/TumiLabsJN/RumiAIv3/internal/config"
)

// TrackedDetection is one per-frame detection inside an object track. The
// frame index is at the original video FPS.
type TrackedDetection struct {
	Frame      float64 `json:"frame"`
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// Track is one object track from the tracking analyzer.
type Track struct {
	TrackID    string             `json:"track_id"`
	Detections []TrackedDetection `json:"detections"`
}

// TrackingData is the object-tracking analyzer's top-level output.
type TrackingData struct {
	Tracks []Track `json:"tracks"`
}

// ObjectMarkers is the object extractor's windowed contribution.
type ObjectMarkers struct {
	ObjectAppearances []ObjectAppearance
	Density           [5]int
	ObjectFocus       []ObjectFocus
}

// focusClasses are the emphasis-worthy classes recorded in the CTA window.
var focusClasses = map[string]bool{
	"person":  true,
	"hand":    true,
	"product": true,
}

// maxObjectsPerAppearance caps the labels recorded at a single timestamp.
const maxObjectsPerAppearance = 5

// ObjectExtractor extracts object-appearance markers from tracking data.
type ObjectExtractor struct {
	norm     *Normalizer
	duration float64
	limits   config.Limits
}

// NewObjectExtractor builds an extractor for one video.
func NewObjectExtractor(meta VideoMetadata, limits config.Limits) (*ObjectExtractor, error) {
	norm, err := NewNormalizer(meta)
	if err != nil {
		return nil, err
	}
	return &ObjectExtractor{norm: norm, duration: meta.Duration, limits: limits}, nil
}

type timedDetection struct {
	class      string
	confidence float64
}

// Extract groups per-frame detections by normalized timestamp and produces
// hook-window appearances and CTA-window focus entries.
func (e *ObjectExtractor) Extract(data *TrackingData) *ObjectMarkers {
	m := &ObjectMarkers{
		ObjectAppearances: []ObjectAppearance{},
		ObjectFocus:       []ObjectFocus{},
	}

	byTime := map[float64][]timedDetection{}
	var times []float64
	for _, track := range data.Tracks {
		for _, det := range track.Detections {
			ts, ok := e.norm.Normalize(det.Frame, SourceFrameIndex)
			if !ok || !e.norm.ValidTimestamp(ts) {
				continue
			}
			ts = round2(ts)
			if _, seen := byTime[ts]; !seen {
				times = append(times, ts)
			}
			byTime[ts] = append(byTime[ts], timedDetection{
				class:      det.Class,
				confidence: confidenceOrDefault(det.Confidence, 0.5),
			})
		}
	}
	sort.Float64s(times)

	ctaStart := ctaWindowStart(e.duration)

	for _, ts := range times {
		dets := byTime[ts]

		if ts <= hookWindowEnd {
			var objects []string
			var confidences []float64
			seen := map[string]bool{}
			for _, det := range dets {
				if seen[det.class] {
					continue
				}
				seen[det.class] = true
				objects = append(objects, det.class)
				confidences = append(confidences, round2(det.confidence))
			}
			if len(objects) > 0 {
				m.ObjectAppearances = append(m.ObjectAppearances, ObjectAppearance{
					Time:        ts,
					Objects:     objects[:min(len(objects), maxObjectsPerAppearance)],
					Confidences: confidences[:min(len(confidences), maxObjectsPerAppearance)],
				})
				if sec := int(ts); sec >= 0 && sec < 5 {
					m.Density[sec] += len(objects)
				}
			}
		}

		if ts >= ctaStart {
			for _, det := range dets {
				if !focusClasses[det.class] {
					continue
				}
				m.ObjectFocus = append(m.ObjectFocus, ObjectFocus{
					Time:       ts,
					Object:     det.class,
					Confidence: round2(det.confidence),
				})
			}
		}
	}

	m.ObjectAppearances = m.ObjectAppearances[:min(len(m.ObjectAppearances), e.limits.MaxObjectAppearances)]
	m.ObjectFocus = m.ObjectFocus[:min(len(m.ObjectFocus), e.limits.MaxObjectFocus)]

	return m
}
