package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/TumiLabsJN/RumiAIv3/internal/markers"
)

// Per-section listing caps. Compact mode uses the smaller set; neither mode
// changes the underlying document.
const (
	fullTextListed    = 5
	fullGestureListed = 3
	fullSyncListed    = 2
	fullFocusListed   = 3

	compactTextListed    = 3
	compactGestureListed = 2
	compactSyncListed    = 1
	compactFocusListed   = 2
)

// Format renders a marker document as the text block injected into LLM
// prompts: header, hook-window section, CTA-window section, and derived
// insights.
func Format(doc *markers.Document, compact bool) string {
	if doc == nil {
		return ""
	}

	var lines []string
	lines = append(lines,
		"TEMPORAL PATTERN DATA:",
		"This data captures WHEN events happen in the video and their patterns over time.",
		"")
	lines = append(lines, formatHookWindow(doc, compact)...)
	lines = append(lines, "")
	lines = append(lines, formatCTAWindow(doc, compact)...)
	lines = append(lines, "")
	lines = append(lines, "KEY TEMPORAL INSIGHTS:")
	lines = append(lines, Insights(doc)...)

	return strings.Join(lines, "\n")
}

func formatHookWindow(doc *markers.Document, compact bool) []string {
	hook := doc.HookWindow
	lines := []string{"=== FIRST 5 SECONDS (Hook Window) ==="}

	density := hook.DensityProgression
	if compact {
		lines = append(lines, fmt.Sprintf("Activity Density: %v", density[:]))
	} else {
		lines = append(lines, "Activity Density by Second:")
		for i, d := range density {
			lines = append(lines, fmt.Sprintf("  Second %d: %s (%d events)", i, strings.Repeat("█", d), d))
		}
	}

	textCap, gestureCap := fullTextListed, fullGestureListed
	if compact {
		textCap, gestureCap = compactTextListed, compactGestureListed
	}

	if len(hook.TextMoments) > 0 {
		lines = append(lines, "", "Text Overlays:")
		for _, tm := range hook.TextMoments[:min(len(hook.TextMoments), textCap)] {
			if compact {
				lines = append(lines, fmt.Sprintf("  %gs: %q", tm.Time, tm.Text))
			} else {
				lines = append(lines, fmt.Sprintf("  %gs: %q (size: %s, pos: %s)", tm.Time, tm.Text, orDefault(tm.Size, "M"), orDefault(tm.Position, "center")))
			}
		}
	}

	lines = append(lines, "", fmt.Sprintf("Emotion Flow: %s", strings.Join(hook.EmotionSequence, " → ")))

	if len(hook.GestureMoments) > 0 {
		lines = append(lines, "", fmt.Sprintf("Key Gestures: %d detected", len(hook.GestureMoments)))
		for _, gm := range hook.GestureMoments[:min(len(hook.GestureMoments), gestureCap)] {
			target := ""
			if gm.Target != "" {
				target = " at " + gm.Target
			}
			lines = append(lines, fmt.Sprintf("  %gs: %s%s", gm.Time, gm.Gesture, target))
		}
	}

	if len(hook.ObjectAppearances) > 0 {
		unique := map[string]bool{}
		for _, oa := range hook.ObjectAppearances {
			for _, obj := range oa.Objects {
				unique[obj] = true
			}
		}
		names := make([]string, 0, len(unique))
		for obj := range unique {
			names = append(names, obj)
		}
		sort.Strings(names)
		lines = append(lines, "", "Objects Shown: "+strings.Join(names, ", "))
	}

	return lines
}

func formatCTAWindow(doc *markers.Document, compact bool) []string {
	cta := doc.CTAWindow
	lines := []string{fmt.Sprintf("=== CTA WINDOW (%s) ===", orDefault(cta.TimeRange, "last 15%"))}

	syncCap, focusCap := fullSyncListed, fullFocusListed
	if compact {
		syncCap, focusCap = compactSyncListed, compactFocusListed
	}

	if len(cta.CTAAppearances) > 0 {
		lines = append(lines, "", fmt.Sprintf("Call-to-Actions: %d detected", len(cta.CTAAppearances)))
		for _, app := range cta.CTAAppearances {
			if compact {
				lines = append(lines, fmt.Sprintf("  %gs: %q", app.Time, app.Text))
			} else {
				lines = append(lines, fmt.Sprintf("  %gs: %q (type: %s)", app.Time, app.Text, orDefault(app.Type, "overlay")))
			}
		}
	}

	if len(cta.GestureSync) > 0 {
		lines = append(lines, "", fmt.Sprintf("Gesture-CTA Sync: %d aligned gestures", len(cta.GestureSync)))
		for _, gs := range cta.GestureSync[:min(len(cta.GestureSync), syncCap)] {
			lines = append(lines, fmt.Sprintf("  %gs: %s gesture", gs.Time, gs.Gesture))
		}
	}

	if len(cta.ObjectFocus) > 0 {
		var focus []string
		seen := map[string]bool{}
		for _, of := range cta.ObjectFocus {
			if seen[of.Object] {
				continue
			}
			seen[of.Object] = true
			focus = append(focus, of.Object)
		}
		lines = append(lines, "", "Focus Objects: "+strings.Join(focus[:min(len(focus), focusCap)], ", "))
	}

	return lines
}

// Insights derives heuristic bullet lines from the document's temporal
// patterns using fixed thresholds.
func Insights(doc *markers.Document) []string {
	var insights []string

	hook := doc.HookWindow

	total := 0
	for _, d := range hook.DensityProgression {
		total += d
	}
	avg := float64(total) / float64(len(hook.DensityProgression))
	switch {
	case avg > 3:
		insights = append(insights, "- HIGH HOOK DENSITY: First 5s packed with activity (viral pattern)")
	case avg >= 2:
		insights = append(insights, "- MODERATE HOOK DENSITY: Good activity level in opening")
	case avg < 1:
		insights = append(insights, "- LOW HOOK DENSITY: Minimal activity in first 5s")
	}

	for _, tm := range hook.TextMoments {
		if tm.IsCTA || markers.ContainsCTAKeyword(tm.Text) {
			insights = append(insights, "- EARLY CTA: Call-to-action in first 5 seconds (urgency pattern)")
			break
		}
	}

	distinct := map[string]bool{}
	for _, e := range hook.EmotionSequence {
		distinct[e] = true
	}
	if len(distinct) >= 3 {
		insights = append(insights, fmt.Sprintf("- EMOTIONAL JOURNEY: %d distinct emotions in first 5s", len(distinct)))
	}

	if n := len(doc.CTAWindow.CTAAppearances); n > 2 {
		insights = append(insights, fmt.Sprintf("- MULTIPLE CTAS: %d CTAs in closing (high conversion focus)", n))
	}
	if len(doc.CTAWindow.GestureSync) > 0 {
		insights = append(insights, "- GESTURE-CTA SYNC: Physical gestures aligned with CTAs")
	}

	if len(insights) == 0 {
		insights = append(insights, "- No significant temporal patterns detected")
	}

	return insights
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
