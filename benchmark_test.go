package main

import (
	"math"
	"testing"
)

func TestWordShareFeature(t *testing.T) {
	got := WordShareFeature([]int{1, 2, 3}, []int{2, 3})
	want := 2.0 / 3.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("feature([1,2,3],[2,3]) = %g, want %g", got, want)
	}
}

func TestWordShareFeatureDirectional(t *testing.T) {
	ab := WordShareFeature([]int{1, 2, 3, 4}, []int{1, 2})
	ba := WordShareFeature([]int{1, 2}, []int{1, 2, 3, 4})

	if ab == ba {
		t.Log("directional features happen to coincide for this input")
	}
	for _, f := range []float64{ab, ba} {
		if f < 0 || f > 1 {
			t.Errorf("feature %g outside [0,1]", f)
		}
	}
}

func TestWordShareFeatureEmptyIsMissing(t *testing.T) {
	if got := WordShareFeature(nil, []int{1, 2}); !math.IsNaN(got) {
		t.Errorf("empty seqA should yield NaN sentinel, got %g", got)
	}
	// Empty seqB is not missing: no token of A occurs in B.
	if got := WordShareFeature([]int{1}, nil); got != 0 {
		t.Errorf("feature with empty seqB = %g, want 0", got)
	}
}

func TestBaselineFeaturesDropsMissingRows(t *testing.T) {
	vocab, err := FitVocabulary([]string{"alpha beta gamma delta"}, 10)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	records := []QuestionPairRecord{
		{Question1: "alpha beta", Question2: "alpha gamma", IsDuplicate: true},
		{Question1: "???", Question2: "alpha", IsDuplicate: false}, // empty after normalization
		{Question1: "delta", Question2: "beta", IsDuplicate: false},
	}

	examples, dropped := BaselineFeatures(records, vocab)
	if dropped != 1 {
		t.Errorf("expected 1 dropped row, got %d", dropped)
	}
	if len(examples) != 2 {
		t.Errorf("expected 2 usable rows, got %d", len(examples))
	}
	for _, ex := range examples {
		if math.IsNaN(ex.ShareAB) || math.IsNaN(ex.ShareBA) {
			t.Error("kept example contains a missing feature")
		}
	}
}

func TestFitLogisticBaselineSeparable(t *testing.T) {
	// Duplicates share every token, non-duplicates share none.
	var examples []BaselineExample
	for i := 0; i < 20; i++ {
		examples = append(examples,
			BaselineExample{ShareAB: 1, ShareBA: 1, Label: 1},
			BaselineExample{ShareAB: 0, ShareBA: 0, Label: 0},
		)
	}

	baseline, err := FitLogisticBaseline(examples, 0.5, 500, 1)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	_, acc, err := baseline.Evaluate(examples)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if acc != 1.0 {
		t.Errorf("separable data should reach accuracy 1.0, got %g", acc)
	}

	if p := baseline.Predict(1, 1); p <= 0.5 {
		t.Errorf("full-overlap pair scored %g, want > 0.5", p)
	}
	if p := baseline.Predict(0, 0); p >= 0.5 {
		t.Errorf("no-overlap pair scored %g, want < 0.5", p)
	}
}

func TestFitLogisticBaselineNoData(t *testing.T) {
	if _, err := FitLogisticBaseline(nil, 0.1, 10, 1); err == nil {
		t.Error("expected error for empty example set")
	}
}
