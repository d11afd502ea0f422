package markers

import (
	"fmt"

	"github.com/TumiLabsJN/RumiAIv3/internal/config"
)

// ValidateDocument checks structural invariants and returns human-readable
// warnings. It never fails: findings are for observability only.
func ValidateDocument(doc *Document, limits config.Limits) []string {
	var warnings []string

	if n := len(doc.HookWindow.EmotionSequence); n != 5 {
		warnings = append(warnings, fmt.Sprintf("emotion sequence should have 5 items, got %d", n))
	}

	for i, tm := range doc.HookWindow.TextMoments {
		if tm.Time < 0 || tm.Time > hookWindowEnd {
			warnings = append(warnings, fmt.Sprintf("text moment %d time %.2f outside hook window", i, tm.Time))
		}
		if tm.Text == "" {
			warnings = append(warnings, fmt.Sprintf("text moment %d missing text", i))
		}
	}
	for i, gm := range doc.HookWindow.GestureMoments {
		if gm.Time < 0 || gm.Time > hookWindowEnd {
			warnings = append(warnings, fmt.Sprintf("gesture moment %d time %.2f outside hook window", i, gm.Time))
		}
	}
	for i, oa := range doc.HookWindow.ObjectAppearances {
		if oa.Time < 0 || oa.Time > hookWindowEnd {
			warnings = append(warnings, fmt.Sprintf("object appearance %d time %.2f outside hook window", i, oa.Time))
		}
	}

	if doc.CTAWindow.TimeRange == "" {
		warnings = append(warnings, "cta window missing time_range")
	}
	for i, ca := range doc.CTAWindow.CTAAppearances {
		if ca.Text == "" {
			warnings = append(warnings, fmt.Sprintf("cta appearance %d missing text", i))
		}
		if ca.Time < 0 {
			warnings = append(warnings, fmt.Sprintf("cta appearance %d has negative time", i))
		}
	}

	if size := DocumentSize(doc); size > limits.SoftLimitBytes {
		warnings = append(warnings, fmt.Sprintf("document size %d bytes exceeds %d byte target", size, limits.SoftLimitBytes))
	}

	return warnings
}
