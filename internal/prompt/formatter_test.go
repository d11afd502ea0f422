package prompt

import (
	"strings"
	"testing"

	"github.com/TumiLabsJN/RumiAIv3/internal/markers"
)

func sampleDocument() *markers.Document {
	doc := &markers.Document{}
	doc.HookWindow.DensityProgression = [5]int{3, 2, 1, 0, 1}
	doc.HookWindow.EmotionSequence = []string{"happy", "happy", "surprise", "neutral", "neutral"}
	doc.HookWindow.TextMoments = []markers.TextMoment{
		{Time: 0.5, Text: "WAIT FOR IT", Size: "L", Position: "top"},
		{Time: 2.0, Text: "almost there"},
	}
	doc.HookWindow.GestureMoments = []markers.GestureMoment{
		{Time: 1.0, Gesture: "pointing", Target: "product"},
	}
	doc.HookWindow.ObjectAppearances = []markers.ObjectAppearance{
		{Time: 0.5, Objects: []string{"person", "product"}},
		{Time: 2.0, Objects: []string{"person"}},
	}
	doc.CTAWindow.TimeRange = "51.0-60.0s"
	doc.CTAWindow.CTAAppearances = []markers.CTAAppearance{
		{Time: 52.0, Text: "follow for more", Type: "caption"},
	}
	doc.CTAWindow.GestureSync = []markers.GestureSync{
		{Time: 53.0, Gesture: "pointing", AlignsWithCTA: true},
	}
	doc.CTAWindow.ObjectFocus = []markers.ObjectFocus{
		{Time: 52.0, Object: "product"},
		{Time: 54.0, Object: "product"},
		{Time: 55.0, Object: "person"},
	}
	return doc
}

func TestFormat_NilDocument(t *testing.T) {
	if out := Format(nil, false); out != "" {
		t.Errorf("nil document should format to empty string, got %q", out)
	}
}

func TestFormat_Sections(t *testing.T) {
	out := Format(sampleDocument(), false)

	for _, want := range []string{
		"TEMPORAL PATTERN DATA:",
		"=== FIRST 5 SECONDS (Hook Window) ===",
		"Second 0: ███ (3 events)",
		`0.5s: "WAIT FOR IT" (size: L, pos: top)`,
		`2s: "almost there" (size: M, pos: center)`,
		"Emotion Flow: happy → happy → surprise → neutral → neutral",
		"1s: pointing at product",
		"Objects Shown: person, product",
		"=== CTA WINDOW (51.0-60.0s) ===",
		`52s: "follow for more" (type: caption)`,
		"Gesture-CTA Sync: 1 aligned gestures",
		"Focus Objects: product, person",
		"KEY TEMPORAL INSIGHTS:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n---\n%s", want, out)
		}
	}
}

func TestFormat_CompactListsFewer(t *testing.T) {
	doc := sampleDocument()
	for i := 0; i < 6; i++ {
		doc.HookWindow.TextMoments = append(doc.HookWindow.TextMoments, markers.TextMoment{
			Time: 3.0, Text: "extra",
		})
	}

	full := Format(doc, false)
	compact := Format(doc, true)

	if strings.Count(compact, "extra") >= strings.Count(full, "extra") {
		t.Error("compact mode should list fewer text overlays than full mode")
	}
	if !strings.Contains(compact, "Activity Density: [3 2 1 0 1]") {
		t.Errorf("compact density line missing:\n%s", compact)
	}
	if strings.Contains(compact, "(size:") {
		t.Error("compact mode should omit size/position detail")
	}
}

func TestInsights_Thresholds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*markers.Document)
		want   string
	}{
		{
			"high density",
			func(d *markers.Document) { d.HookWindow.DensityProgression = [5]int{5, 4, 4, 3, 4} },
			"HIGH HOOK DENSITY",
		},
		{
			"moderate density",
			func(d *markers.Document) { d.HookWindow.DensityProgression = [5]int{2, 2, 2, 2, 2} },
			"MODERATE HOOK DENSITY",
		},
		{
			"low density",
			func(d *markers.Document) { d.HookWindow.DensityProgression = [5]int{1, 0, 0, 0, 0} },
			"LOW HOOK DENSITY",
		},
		{
			"early cta flag",
			func(d *markers.Document) { d.HookWindow.TextMoments[0].IsCTA = true },
			"EARLY CTA",
		},
		{
			"early cta keyword",
			func(d *markers.Document) { d.HookWindow.TextMoments[0].Text = "check the link" },
			"EARLY CTA",
		},
		{
			"emotional journey",
			func(d *markers.Document) {
				d.HookWindow.EmotionSequence = []string{"happy", "surprise", "sad", "neutral", "neutral"}
			},
			"EMOTIONAL JOURNEY: 4 distinct emotions",
		},
		{
			"multiple ctas",
			func(d *markers.Document) {
				d.CTAWindow.CTAAppearances = []markers.CTAAppearance{
					{Time: 52, Text: "follow"}, {Time: 53, Text: "like"}, {Time: 54, Text: "share"},
				}
			},
			"MULTIPLE CTAS: 3 CTAs",
		},
		{
			"gesture sync",
			func(d *markers.Document) {
				d.CTAWindow.GestureSync = []markers.GestureSync{{Time: 53, Gesture: "pointing"}}
			},
			"GESTURE-CTA SYNC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDocument()
			// Quiet baseline so only the mutation's insight can fire.
			doc.HookWindow.DensityProgression = [5]int{1, 1, 1, 1, 1}
			doc.HookWindow.EmotionSequence = []string{"neutral", "neutral", "neutral", "neutral", "neutral"}
			doc.HookWindow.TextMoments = []markers.TextMoment{{Time: 0.5, Text: "a sunset"}}
			doc.CTAWindow.CTAAppearances = nil
			doc.CTAWindow.GestureSync = nil
			tt.mutate(doc)

			joined := strings.Join(Insights(doc), "\n")
			if !strings.Contains(joined, tt.want) {
				t.Errorf("insights missing %q:\n%s", tt.want, joined)
			}
		})
	}
}

func TestInsights_Fallback(t *testing.T) {
	doc := &markers.Document{}
	doc.HookWindow.DensityProgression = [5]int{1, 1, 1, 1, 1}
	doc.HookWindow.EmotionSequence = []string{"neutral", "neutral", "neutral", "neutral", "neutral"}

	insights := Insights(doc)
	if len(insights) != 1 || insights[0] != "- No significant temporal patterns detected" {
		t.Errorf("insights = %v, want fallback line only", insights)
	}
}
