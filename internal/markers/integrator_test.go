package markers

import (
	"testing"

	"github.com/TumiLabsJN/RumiAIv3/internal/config"
)

func newTestIntegrator() *Integrator {
	return NewIntegrator(testMeta(), config.Default().Limits)
}

func TestIntegrate_AllSourcesMissing(t *testing.T) {
	doc := newTestIntegrator().Integrate("vid1", nil, nil, nil)

	if len(doc.HookWindow.EmotionSequence) != 5 {
		t.Errorf("emotion sequence length = %d, want 5", len(doc.HookWindow.EmotionSequence))
	}
	for _, emo := range doc.HookWindow.EmotionSequence {
		if emo != "neutral" {
			t.Errorf("expected all-neutral default, got %v", doc.HookWindow.EmotionSequence)
		}
	}
	if doc.HookWindow.DensityProgression != [5]int{} {
		t.Errorf("density = %v, want zeros", doc.HookWindow.DensityProgression)
	}
	if doc.CTAWindow.TimeRange != "51.0-60.0s" {
		t.Errorf("time range = %q, want \"51.0-60.0s\"", doc.CTAWindow.TimeRange)
	}
	if len(doc.HookWindow.TextMoments) != 0 || len(doc.CTAWindow.CTAAppearances) != 0 {
		t.Error("missing sources should leave owned fields empty")
	}
}

func TestIntegrate_DensitySummedAndCapped(t *testing.T) {
	ocr := &OCRMarkers{Density: [5]int{7, 1, 0, 2, 0}}
	obj := &ObjectMarkers{Density: [5]int{6, 1, 0, 3, 0}}

	doc := newTestIntegrator().Integrate("vid1", ocr, obj, nil)

	want := [5]int{10, 2, 0, 5, 0}
	if doc.HookWindow.DensityProgression != want {
		t.Errorf("density = %v, want %v", doc.HookWindow.DensityProgression, want)
	}
}

func TestIntegrate_FieldOwnership(t *testing.T) {
	ocr := &OCRMarkers{
		TextMoments:    []TextMoment{{Time: 1.0, Text: "hi"}},
		CTAAppearances: []CTAAppearance{{Time: 55.0, Text: "follow", Type: "text_overlay"}},
	}
	obj := &ObjectMarkers{
		ObjectAppearances: []ObjectAppearance{{Time: 0.5, Objects: []string{"person"}}},
		ObjectFocus:       []ObjectFocus{{Time: 52.0, Object: "person"}},
	}
	ges := &GestureMarkers{
		EmotionSequence: []string{"happy", "happy", "surprise", "neutral", "neutral"},
		GestureMoments:  []GestureMoment{{Time: 2.0, Gesture: "wave"}},
		GestureSync:     []GestureSync{{Time: 53.0, Gesture: "pointing", AlignsWithCTA: true}},
	}

	doc := newTestIntegrator().Integrate("vid1", ocr, obj, ges)

	if len(doc.HookWindow.TextMoments) != 1 || doc.HookWindow.TextMoments[0].Text != "hi" {
		t.Error("text moments not taken from OCR source")
	}
	if len(doc.HookWindow.ObjectAppearances) != 1 {
		t.Error("object appearances not taken from object source")
	}
	if len(doc.HookWindow.GestureMoments) != 1 {
		t.Error("gesture moments not taken from gesture source")
	}
	if doc.HookWindow.EmotionSequence[0] != "happy" {
		t.Error("emotion sequence not replaced from gesture source")
	}
	if len(doc.CTAWindow.CTAAppearances) != 1 || len(doc.CTAWindow.GestureSync) != 1 || len(doc.CTAWindow.ObjectFocus) != 1 {
		t.Error("cta window fields not assigned from owning sources")
	}
}

func TestIntegrate_EmotionReplacedNotMerged(t *testing.T) {
	ges := &GestureMarkers{
		EmotionSequence: []string{"sad", "sad", "sad", "sad", "sad"},
		GestureMoments:  []GestureMoment{},
		GestureSync:     []GestureSync{},
	}

	doc := newTestIntegrator().Integrate("vid1", nil, nil, ges)
	for i, emo := range doc.HookWindow.EmotionSequence {
		if emo != "sad" {
			t.Errorf("emotion[%d] = %q, want sad (wholesale replace)", i, emo)
		}
	}
}

func TestIntegrate_Metadata(t *testing.T) {
	doc := newTestIntegrator().Integrate("video123", nil, nil, nil)

	meta := doc.Metadata
	if meta.VideoID != "video123" {
		t.Errorf("video id = %q", meta.VideoID)
	}
	if meta.VideoDuration != 60.0 {
		t.Errorf("duration = %f", meta.VideoDuration)
	}
	if meta.Version != MarkersVersion {
		t.Errorf("version = %q", meta.Version)
	}
	if meta.GeneratedAt == "" || meta.GenerationID == "" {
		t.Error("generation metadata missing")
	}
}
