package markers

import (
	"encoding/json"
	"log/slog"

	"github.com/TumiLabsJN/RumiAIv3/internal/config"
)

// Aggressive-step caps. Applied only when the earlier steps were not enough.
const (
	aggressiveTextEvents        = 5
	aggressiveGestureEvents     = 3
	aggressiveObjectAppearances = 5
	aggressiveCTAEvents         = 3
)

// DocumentSize returns the serialized size of the document in bytes.
func DocumentSize(doc *Document) int {
	data, err := json.Marshal(doc)
	if err != nil {
		return 0
	}
	return len(data)
}

// Reduce shrinks doc in place until its serialized size is at or below
// targetBytes, applying lossy steps in fixed order:
//
//  1. truncate text moments
//  2. truncate gesture moments
//  3. truncate CTA appearances
//  4. strip optional fields from every entry
//  5. aggressive truncation, dropping gesture sync entirely
//
// Every step is idempotent and monotonically non-increasing in size; a
// document is never re-expanded. Returns the final size and whether it fits.
// An oversized result is not an error: the caller logs it and ships the
// maximally-reduced document anyway.
func Reduce(doc *Document, limits config.Limits, targetBytes int) (int, bool) {
	size := DocumentSize(doc)
	if size <= targetBytes {
		return size, true
	}

	steps := []func(*Document, config.Limits){
		reduceTextEvents,
		reduceGestureEvents,
		reduceCTAEvents,
		stripOptionalFields,
		aggressiveReduction,
	}

	for _, step := range steps {
		step(doc, limits)
		size = DocumentSize(doc)
		if size <= targetBytes {
			return size, true
		}
	}

	return size, false
}

func reduceTextEvents(doc *Document, limits config.Limits) {
	tm := doc.HookWindow.TextMoments
	doc.HookWindow.TextMoments = tm[:min(len(tm), limits.MaxTextEvents)]
}

func reduceGestureEvents(doc *Document, limits config.Limits) {
	gm := doc.HookWindow.GestureMoments
	doc.HookWindow.GestureMoments = gm[:min(len(gm), limits.MaxGestureEvents)]
}

func reduceCTAEvents(doc *Document, limits config.Limits) {
	ca := doc.CTAWindow.CTAAppearances
	doc.CTAWindow.CTAAppearances = ca[:min(len(ca), limits.MaxCTAEvents)]
}

// stripOptionalFields zeroes the optional field of every entry type. The
// fields carry omitempty tags, so zeroing removes them from the serialized
// form. Stripping is defined per entity, not by generic traversal.
func stripOptionalFields(doc *Document, _ config.Limits) {
	for i := range doc.HookWindow.TextMoments {
		doc.HookWindow.TextMoments[i].Confidence = 0
		doc.HookWindow.TextMoments[i].Position = ""
	}
	for i := range doc.HookWindow.GestureMoments {
		doc.HookWindow.GestureMoments[i].Confidence = 0
		doc.HookWindow.GestureMoments[i].Target = ""
	}
	for i := range doc.HookWindow.ObjectAppearances {
		doc.HookWindow.ObjectAppearances[i].Confidences = nil
	}
	for i := range doc.CTAWindow.CTAAppearances {
		doc.CTAWindow.CTAAppearances[i].Confidence = 0
	}
	for i := range doc.CTAWindow.GestureSync {
		doc.CTAWindow.GestureSync[i].Confidence = 0
	}
	for i := range doc.CTAWindow.ObjectFocus {
		doc.CTAWindow.ObjectFocus[i].Confidence = 0
	}
}

func aggressiveReduction(doc *Document, _ config.Limits) {
	slog.Warn("applying aggressive marker reduction")

	tm := doc.HookWindow.TextMoments
	doc.HookWindow.TextMoments = tm[:min(len(tm), aggressiveTextEvents)]

	gm := doc.HookWindow.GestureMoments
	doc.HookWindow.GestureMoments = gm[:min(len(gm), aggressiveGestureEvents)]

	oa := doc.HookWindow.ObjectAppearances
	doc.HookWindow.ObjectAppearances = oa[:min(len(oa), aggressiveObjectAppearances)]

	ca := doc.CTAWindow.CTAAppearances
	doc.CTAWindow.CTAAppearances = ca[:min(len(ca), aggressiveCTAEvents)]

	doc.CTAWindow.GestureSync = nil
}
