package chroma

import (
	"math"
	"testing"
)

func TestDetectorMatchExactTemplates(t *testing.T) {
	d := NewDetector(0.4)

	tests := []struct {
		name string
		bins []int
	}{
		{"C", []int{0, 4, 7}},
		{"Am", []int{9, 0, 4}},
		{"E", []int{4, 8, 11}},
		{"G7", []int{7, 11, 2, 5}},
	}

	for _, tt := range tests {
		vector := make([]float64, ChromaBins)
		for _, bin := range tt.bins {
			vector[bin] = 1.0 / float64(len(tt.bins))
		}

		template, score := d.Match(vector)
		if template.Name != tt.name {
			t.Errorf("vector for %s matched %s (score %f)", tt.name, template.Name, score)
		}
		if math.Abs(score-1.0) > 1e-9 {
			t.Errorf("%s: exact pattern score = %f, want 1.0", tt.name, score)
		}
	}
}

func TestDetectorMatchSilence(t *testing.T) {
	d := NewDetector(0.4)
	_, score := d.Match(make([]float64, ChromaBins))
	if score != 0 {
		t.Errorf("silent vector score = %f, want 0", score)
	}
}

func TestDetectDropsLowConfidence(t *testing.T) {
	d := NewDetector(0.4)

	segments := []Segment{
		{Vector: make([]float64, ChromaBins), Start: 0, End: 1},
	}

	detections := d.Detect(segments)
	if len(detections) != 0 {
		t.Errorf("silent segment yielded %d detections, want 0", len(detections))
	}
}

func TestMergeDetectionsAdjacentSameLabel(t *testing.T) {
	detections := []Detection{
		{Chord: "C", Start: 0, End: 1, Confidence: 0.8},
		{Chord: "C", Start: 1, End: 2, Confidence: 0.6},
		{Chord: "G", Start: 2, End: 3, Confidence: 0.9},
	}

	merged := MergeDetections(detections)
	if len(merged) != 2 {
		t.Fatalf("got %d detections after merge, want 2", len(merged))
	}
	if merged[0].Chord != "C" || merged[0].Start != 0 || merged[0].End != 2 {
		t.Errorf("merged C span = [%f, %f], want [0, 2]", merged[0].Start, merged[0].End)
	}
	if math.Abs(merged[0].Confidence-0.7) > 1e-9 {
		t.Errorf("merged confidence = %f, want 0.7 (average)", merged[0].Confidence)
	}
	if merged[1].Chord != "G" {
		t.Errorf("second detection = %s, want G", merged[1].Chord)
	}
}

func TestMergeDetectionsKeepsGapSeparate(t *testing.T) {
	// A dropped low-confidence segment left [1, 2) unlabeled; the two C
	// detections must not be fused across it
	detections := []Detection{
		{Chord: "C", Start: 0, End: 1, Confidence: 0.9},
		{Chord: "C", Start: 2, End: 3, Confidence: 0.8},
	}

	merged := MergeDetections(detections)
	if len(merged) != 2 {
		t.Fatalf("got %d detections after merge, want 2", len(merged))
	}
	if merged[0].End != 1 || merged[1].Start != 2 {
		t.Errorf("spans changed across a gap: [%f, %f] and [%f, %f]",
			merged[0].Start, merged[0].End, merged[1].Start, merged[1].End)
	}
	if merged[0].Confidence != 0.9 || merged[1].Confidence != 0.8 {
		t.Errorf("confidences changed across a gap: %f, %f",
			merged[0].Confidence, merged[1].Confidence)
	}
}

func TestMergeDetectionsIdempotent(t *testing.T) {
	detections := []Detection{
		{Chord: "C", Start: 0, End: 2, Confidence: 0.7},
		{Chord: "G", Start: 2, End: 3, Confidence: 0.9},
	}

	once := MergeDetections(detections)
	twice := MergeDetections(once)
	if len(once) != len(twice) {
		t.Fatalf("merge is not idempotent: %d != %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("detection %d changed on second merge: %+v != %+v", i, once[i], twice[i])
		}
	}
}
