package markers

import (
	"sort"

	"github.com/TumiLabsJN/RumiAIv3/internal/config"
)

// TextElement is one detected text region in an OCR frame result.
type TextElement struct {
	Text       string      `json:"text"`
	BBox       BoundingBox `json:"bbox"`
	Confidence float64     `json:"confidence"`
}

// OCRFrame is one frame's OCR output. The frame filename carries the
// timestamp ("frame_0015_t0.50.jpg").
type OCRFrame struct {
	Frame        string        `json:"frame"`
	TextElements []TextElement `json:"text_elements"`
}

// OCRMarkers is the OCR extractor's windowed contribution to the document.
type OCRMarkers struct {
	TextMoments    []TextMoment
	Density        [5]int
	CTAAppearances []CTAAppearance
}

// OCRExtractor extracts text-timing markers from OCR frame results.
type OCRExtractor struct {
	norm     *Normalizer
	duration float64
	limits   config.Limits
}

// NewOCRExtractor builds an extractor for one video.
func NewOCRExtractor(meta VideoMetadata, limits config.Limits) (*OCRExtractor, error) {
	norm, err := NewNormalizer(meta)
	if err != nil {
		return nil, err
	}
	return &OCRExtractor{norm: norm, duration: meta.Duration, limits: limits}, nil
}

// Extract produces hook-window text moments and CTA-window appearances.
// Frames with unparseable or out-of-bounds timestamps are skipped.
func (e *OCRExtractor) Extract(frames []OCRFrame) *OCRMarkers {
	m := &OCRMarkers{
		TextMoments:    []TextMoment{},
		CTAAppearances: []CTAAppearance{},
	}

	ctaStart := ctaWindowStart(e.duration)

	for _, fr := range frames {
		ts, ok := e.norm.Normalize(fr.Frame, SourceFrameFilename)
		if !ok || !e.norm.ValidTimestamp(ts) {
			continue
		}

		if ts < hookWindowEnd {
			for _, el := range fr.TextElements {
				moment, ok := e.textMoment(el, ts)
				if !ok {
					continue
				}
				m.TextMoments = append(m.TextMoments, moment)
				if sec := int(ts); sec >= 0 && sec < 5 {
					m.Density[sec]++
				}
			}
		}

		if ts >= ctaStart {
			for _, el := range fr.TextElements {
				app, ok := e.ctaAppearance(el, ts)
				if !ok {
					continue
				}
				m.CTAAppearances = append(m.CTAAppearances, app)
			}
		}
	}

	sort.SliceStable(m.TextMoments, func(i, j int) bool {
		return m.TextMoments[i].Time < m.TextMoments[j].Time
	})
	sort.SliceStable(m.CTAAppearances, func(i, j int) bool {
		return m.CTAAppearances[i].Time < m.CTAAppearances[j].Time
	})

	m.TextMoments = m.TextMoments[:min(len(m.TextMoments), e.limits.MaxTextEvents)]
	m.CTAAppearances = m.CTAAppearances[:min(len(m.CTAAppearances), e.limits.MaxCTAEvents)]

	return m
}

func (e *OCRExtractor) textMoment(el TextElement, ts float64) (TextMoment, bool) {
	text := TruncateText(el.Text)
	if text == "" {
		return TextMoment{}, false
	}
	return TextMoment{
		Time:       round2(ts),
		Text:       text,
		Size:       ClassifyTextSize(el.BBox),
		Position:   textPosition(el.BBox),
		Confidence: round2(confidenceOrDefault(el.Confidence, 0.5)),
		IsCTA:      ContainsCTAKeyword(text),
	}, true
}

// ctaAppearance emits an entry only for text containing a CTA keyword.
func (e *OCRExtractor) ctaAppearance(el TextElement, ts float64) (CTAAppearance, bool) {
	text := TruncateText(el.Text)
	if text == "" || !ContainsCTAKeyword(text) {
		return CTAAppearance{}, false
	}

	ctaType := "text_overlay"
	if textPosition(el.BBox) == "bottom" {
		ctaType = "caption"
	}

	return CTAAppearance{
		Time:       round2(ts),
		Text:       text,
		Type:       ctaType,
		Size:       ClassifyTextSize(el.BBox),
		Confidence: round2(confidenceOrDefault(el.Confidence, 0.5)),
	}, true
}

// textPosition buckets a region into top/center/bottom by its vertical
// center. Thresholds assume portrait frame coordinates.
func textPosition(b BoundingBox) string {
	if b.Y1 == 0 && b.Y2 == 0 {
		return "center"
	}
	yCenter := (b.Y1 + b.Y2) / 2
	switch {
	case yCenter < 200:
		return "top"
	case yCenter > 600:
		return "bottom"
	default:
		return "center"
	}
}

func confidenceOrDefault(c, def float64) float64 {
	if c <= 0 {
		return def
	}
	return c
}
