package markers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SourceType identifies the timestamp encoding an analyzer uses.
//
// The analyzers emit incompatible timestamp formats:
//   - OCR: frame filenames like "frame_0015_t0.50.jpg"
//   - object tracking: frame indices at the original video FPS
//   - pose analysis: frame indices at the extraction FPS
//   - unified timelines: range strings like "0-1s"
//   - some sources: plain float seconds
type SourceType string

const (
	SourceFrameIndex     SourceType = "frame_index"
	SourceExtractedFrame SourceType = "extracted_frame_index"
	SourceFrameFilename  SourceType = "frame_filename"
	SourceTimelineString SourceType = "timeline_string"
	SourceSeconds        SourceType = "float_seconds"
)

var (
	timestampTokenRe = regexp.MustCompile(`t(\d+\.?\d*)`)
	frameNumberRe    = regexp.MustCompile(`frame_(\d+)`)
)

// Normalizer converts analyzer timestamps to float seconds.
type Normalizer struct {
	fps           float64
	extractionFPS float64
	frameCount    int
	duration      float64
}

// NewNormalizer validates the metadata and builds a Normalizer.
func NewNormalizer(meta VideoMetadata) (*Normalizer, error) {
	if meta.FPS <= 0 {
		return nil, fmt.Errorf("invalid fps: %v", meta.FPS)
	}
	if meta.ExtractionFPS <= 0 {
		return nil, fmt.Errorf("invalid extraction fps: %v", meta.ExtractionFPS)
	}
	return &Normalizer{
		fps:           meta.FPS,
		extractionFPS: meta.ExtractionFPS,
		frameCount:    meta.FrameCount,
		duration:      meta.Duration,
	}, nil
}

// Normalize converts value to seconds according to its source encoding.
// Parse failures are per-observation and recoverable: the second return is
// false and the caller skips that observation.
func (n *Normalizer) Normalize(value any, source SourceType) (float64, bool) {
	switch source {
	case SourceFrameIndex:
		f, ok := toFloat(value)
		if !ok {
			return 0, false
		}
		return f / n.fps, true
	case SourceExtractedFrame:
		f, ok := toFloat(value)
		if !ok {
			return 0, false
		}
		return f / n.extractionFPS, true
	case SourceFrameFilename:
		s, ok := value.(string)
		if !ok {
			return 0, false
		}
		return n.parseFrameFilename(s)
	case SourceTimelineString:
		s, ok := value.(string)
		if !ok {
			return 0, false
		}
		return parseTimelineString(s)
	case SourceSeconds:
		return toFloat(value)
	default:
		return 0, false
	}
}

// parseFrameFilename extracts the timestamp token from a frame filename like
// "frame_0015_t0.50.jpg". Filenames without a timestamp token fall back to
// the embedded frame number, interpreted at the extraction FPS.
func (n *Normalizer) parseFrameFilename(name string) (float64, bool) {
	if m := timestampTokenRe.FindStringSubmatch(name); m != nil {
		ts, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return ts, true
		}
	}
	if m := frameNumberRe.FindStringSubmatch(name); m != nil {
		idx, err := strconv.Atoi(m[1])
		if err == nil {
			return float64(idx) / n.extractionFPS, true
		}
	}
	return 0, false
}

// parseTimelineString parses a range like "0-1s" or "15.5-16s" and returns
// the start of the range.
func parseTimelineString(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "s", ""))
	start, _, _ := strings.Cut(s, "-")
	ts, err := strconv.ParseFloat(start, 64)
	if err != nil {
		return 0, false
	}
	return ts, true
}

// ValidTimestamp reports whether a timestamp lies within the video bounds,
// tolerating 0.1s of rounding slack at either end.
func (n *Normalizer) ValidTimestamp(sec float64) bool {
	if sec < -0.1 {
		return false
	}
	if n.duration > 0 && sec > n.duration+0.1 {
		return false
	}
	return true
}

// TimeRange formats a time span like "51.0-60.0s".
func (n *Normalizer) TimeRange(start, end float64) string {
	return fmt.Sprintf("%.1f-%.1fs", start, end)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
