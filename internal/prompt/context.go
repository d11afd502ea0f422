package prompt

import (
	"fmt"

	"github.com/TumiLabsJN/RumiAIv3/internal/config"
	"github.com/TumiLabsJN/RumiAIv3/internal/markers"
)

// BuildContext assembles the full context block sent ahead of the analysis
// prompt. The marker section is attached only when the rollout decision
// includes this video; otherwise the existing context passes through
// unchanged.
func BuildContext(existing string, doc *markers.Document, videoID string, rollout config.Rollout, compact bool) string {
	if doc == nil || !markers.ShouldInclude(videoID, rollout.Enabled, rollout.Percentage) {
		return existing
	}

	temporal := Format(doc, compact)
	if temporal == "" {
		return existing
	}
	if existing == "" {
		return temporal
	}
	return existing + "\n\n" + temporal
}

// EstimateSize returns warnings for prompts approaching the API payload
// limit.
func EstimateSize(context, promptText string) []string {
	sizeKB := float64(len(context)+len(promptText)) / 1024

	var warnings []string
	switch {
	case sizeKB > 180:
		warnings = append(warnings, fmt.Sprintf("prompt is %.1fKB, exceeds 180KB and may cause API errors", sizeKB))
	case sizeKB > 150:
		warnings = append(warnings, fmt.Sprintf("prompt is %.1fKB, consider compact mode", sizeKB))
	}
	return warnings
}
