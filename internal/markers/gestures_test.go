package markers

import (
	"testing"

	"github.com/TumiLabsJN/RumiAIv3/internal/config"
)

func newTestGestureExtractor(t *testing.T) *GestureExtractor {
	t.Helper()
	e, err := NewGestureExtractor(testMeta(), config.Default().Limits)
	if err != nil {
		t.Fatalf("NewGestureExtractor: %v", err)
	}
	return e
}

func TestGestureExtract_EmotionSequenceAlwaysFive(t *testing.T) {
	e := newTestGestureExtractor(t)

	m := e.Extract(&PoseTimeline{})
	if len(m.EmotionSequence) != 5 {
		t.Fatalf("emotion sequence length = %d, want 5", len(m.EmotionSequence))
	}
	for i, emo := range m.EmotionSequence {
		if emo != "neutral" {
			t.Errorf("slot %d = %q, want neutral for no observations", i, emo)
		}
	}
}

func TestGestureExtract_EmotionPerSecondLastWriterWins(t *testing.T) {
	e := newTestGestureExtractor(t)

	// Extraction fps is 2: frame 4 = 2.0s, frame 5 = 2.5s (same second).
	timeline := &PoseTimeline{
		Expressions: []ExpressionEvent{
			{Frame: 0, Expression: "joy"},
			{Frame: 4, Expression: "shocked"},
			{Frame: 5, Expression: "mad"},
			{Frame: 8, Expression: "unrecognizable"},
		},
	}

	m := e.Extract(timeline)
	want := []string{"happy", "neutral", "angry", "neutral", "unknown"}
	for i := range want {
		if m.EmotionSequence[i] != want[i] {
			t.Errorf("emotion[%d] = %q, want %q", i, m.EmotionSequence[i], want[i])
		}
	}
}

func TestGestureExtract_HookGestures(t *testing.T) {
	e := newTestGestureExtractor(t)

	timeline := &PoseTimeline{
		Gestures: []GestureEvent{
			{Frame: 6, Gesture: "thumbs_up", Confidence: 0.9, Target: "product"},
			{Frame: 2, Gesture: "made_up_move"},
		},
	}

	m := e.Extract(timeline)
	if len(m.GestureMoments) != 2 {
		t.Fatalf("expected 2 gesture moments, got %d", len(m.GestureMoments))
	}
	// Sorted ascending by time: frame 2 (1.0s) first.
	if m.GestureMoments[0].Time != 1.0 || m.GestureMoments[0].Gesture != "unknown" {
		t.Errorf("first moment = %+v", m.GestureMoments[0])
	}
	if m.GestureMoments[0].Confidence != 0.8 {
		t.Errorf("default confidence = %f, want 0.8", m.GestureMoments[0].Confidence)
	}
	if m.GestureMoments[1].Gesture != "approval" || m.GestureMoments[1].Target != "product" {
		t.Errorf("second moment = %+v", m.GestureMoments[1])
	}
}

func TestGestureExtract_CTASyncExcludesUnknown(t *testing.T) {
	e := newTestGestureExtractor(t)

	// Frame 110 at extraction fps 2 = 55.0s, inside the CTA window.
	timeline := &PoseTimeline{
		Gestures: []GestureEvent{
			{Frame: 110, Gesture: "pointing", Confidence: 0.85},
			{Frame: 112, Gesture: "interpretive_dance"},
			{Frame: 80, Gesture: "wave"}, // 40s: between windows, dropped
		},
	}

	m := e.Extract(timeline)
	if len(m.GestureSync) != 1 {
		t.Fatalf("expected 1 gesture sync, got %d", len(m.GestureSync))
	}
	gs := m.GestureSync[0]
	if gs.Gesture != "pointing" || gs.Time != 55.0 || !gs.AlignsWithCTA {
		t.Errorf("gesture sync = %+v", gs)
	}
}

func TestGestureExtract_Caps(t *testing.T) {
	e := newTestGestureExtractor(t)

	var gestures []GestureEvent
	for i := 0; i < 12; i++ {
		// Frames 0..11 at extraction fps 2: 0.0s..5.5s — 11 fall in the hook.
		gestures = append(gestures, GestureEvent{Frame: float64(i), Gesture: "wave", Confidence: 0.9})
	}
	for i := 0; i < 9; i++ {
		gestures = append(gestures, GestureEvent{Frame: float64(104 + i), Gesture: "pointing", Confidence: 0.9})
	}

	m := e.Extract(&PoseTimeline{Gestures: gestures})
	if len(m.GestureMoments) != 8 {
		t.Errorf("hook gestures = %d, want cap of 8", len(m.GestureMoments))
	}
	if len(m.GestureSync) != 5 {
		t.Errorf("gesture sync = %d, want cap of 5", len(m.GestureSync))
	}
}
