package markers

import "strings"

// Canonical vocabularies. Every raw analyzer label is mapped onto these
// closed sets before being stored; downstream insight heuristics rely on
// never seeing a raw label.

var gestureVocab = map[string]string{
	// Pointing variations
	"pointing":          "pointing",
	"pointing_up":       "pointing",
	"pointing_down":     "pointing",
	"finger_point":      "pointing",
	"finger_point_up":   "pointing",
	"finger_point_down": "pointing",
	"point":             "pointing",

	// Wave variations
	"wave":      "wave",
	"hand_wave": "wave",
	"waving":    "wave",
	"wave_hand": "wave",

	// Approval gestures
	"approval":  "approval",
	"thumbs_up": "approval",
	"thumb_up":  "approval",
	"ok_sign":   "approval",
	"okay":      "approval",

	// Peace/victory
	"peace_sign": "peace",
	"peace":      "peace",
	"victory":    "peace",
	"v_sign":     "peace",

	// Open hand
	"open_palm": "open_hand",
	"open_hand": "open_hand",
	"stop_sign": "open_hand",
	"high_five": "open_hand",

	// Clapping
	"clapping": "clap",
	"clap":     "clap",
	"applause": "clap",
	"hands_up": "hands_up",

	// Other common gestures
	"fist":          "fist",
	"fist_bump":     "fist",
	"heart":         "heart",
	"heart_hands":   "heart",
	"crossed_arms":  "crossed_arms",
	"arms_crossed":  "crossed_arms",

	"unknown": "unknown",
	"none":    "unknown",
}

var emotionVocab = map[string]string{
	"happy":     "happy",
	"happiness": "happy",
	"joy":       "happy",
	"joyful":    "happy",
	"smile":     "happy",
	"smiling":   "happy",

	"surprise":  "surprise",
	"surprised": "surprise",
	"shock":     "surprise",
	"shocked":   "surprise",
	"amazed":    "surprise",

	"neutral": "neutral",
	"calm":    "neutral",
	"normal":  "neutral",
	"default": "neutral",

	"sad":     "sad",
	"sadness": "sad",
	"unhappy": "sad",
	"angry":   "angry",
	"anger":   "angry",
	"mad":     "angry",
	"fear":    "fear",
	"scared":  "fear",
	"afraid":  "fear",

	"unknown": "unknown",
	"none":    "unknown",
}

// ctaKeywords is the closed set of words that mark on-screen text as a
// call-to-action.
var ctaKeywords = []string{
	"follow", "like", "subscribe", "comment", "share", "click", "tap",
	"link", "bio", "save", "check", "swipe", "dm",
}

// CanonicalGesture maps a raw gesture label onto the standard vocabulary.
// Unmapped or empty input resolves to "unknown".
func CanonicalGesture(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "unknown"
	}
	if g, ok := gestureVocab[key]; ok {
		return g
	}
	return "unknown"
}

// CanonicalEmotion maps a raw emotion label onto the standard vocabulary.
func CanonicalEmotion(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "unknown"
	}
	if e, ok := emotionVocab[key]; ok {
		return e
	}
	return "unknown"
}

// ContainsCTAKeyword reports whether text contains any call-to-action keyword.
func ContainsCTAKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range ctaKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// maxTextLength is the cap applied to stored text snippets.
const maxTextLength = 50

// TruncateText collapses whitespace and truncates to 50 characters with an
// ellipsis. The limit counts runes, not bytes, so multi-byte text is never
// split mid-character.
func TruncateText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > maxTextLength {
		return string(runes[:maxTextLength-3]) + "..."
	}
	return text
}

// BoundingBox is a text region in frame pixel coordinates.
type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (b BoundingBox) area() float64 {
	w := b.X2 - b.X1
	if w < 0 {
		w = -w
	}
	h := b.Y2 - b.Y1
	if h < 0 {
		h = -h
	}
	return w * h
}

// ClassifyTextSize buckets a text region into S/M/L by bounding-box area.
// A zero box classifies as M.
func ClassifyTextSize(b BoundingBox) string {
	area := b.area()
	switch {
	case area > 10000:
		return "L"
	case area > 1000:
		return "M"
	case area > 0:
		return "S"
	default:
		return "M"
	}
}
