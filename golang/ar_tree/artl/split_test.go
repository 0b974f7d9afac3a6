package artl

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestGetSplitLinearData(t *testing.T) {
	hp := mustHyperParams(t, 1)
	am := GenerateLinearData()
	bestSplit, err := GetSplit(hp, am)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if bestSplit == nil {
		t.Fatalf("expected a split")
	}
	if bestSplit.FeatureIndex() != 0 {
		t.Fatalf("feature %d", bestSplit.FeatureIndex())
	}
	if !closeTo(bestSplit.Threshold(), 0.31723271547465925, 1e-9) {
		t.Fatalf("threshold %.12g", bestSplit.Threshold())
	}
	if !closeTo(bestSplit.Score(), 1.379203669136418, 1e-9) {
		t.Fatalf("score %.12g", bestSplit.Score())
	}
	if !closeTo(bestSplit.BaselineScore(), 0.9999898096641537, 1e-9) {
		t.Fatalf("baseline %.12g", bestSplit.BaselineScore())
	}
	if !(bestSplit.Score() > bestSplit.BaselineScore()) {
		t.Fatalf("accepted split does not improve the baseline")
	}

	left, right := bestSplit.Groups()
	if left.Height() != 1 || right.Height() != 4 {
		t.Fatalf("groups of %d and %d", left.Height(), right.Height())
	}
	assertDisjointCover(t, am, left, right)
}

func TestGetSplitTieKeepsEarliestThreshold(t *testing.T) {
	hp := mustHyperParams(t, 1)
	bestSplit, err := GetSplit(hp, GenerateSmallFour())
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if bestSplit == nil {
		t.Fatalf("expected a split")
	}
	// offsets 5, 6 and 7 give the same partition, the fifth one wins
	if !closeTo(bestSplit.Threshold(), 0.21514246813695712, 1e-9) {
		t.Fatalf("threshold %.12g", bestSplit.Threshold())
	}
	if !closeTo(bestSplit.Score(), 1.4039881363773707, 1e-9) {
		t.Fatalf("score %.12g", bestSplit.Score())
	}
	left, right := bestSplit.Groups()
	if left.Height() != 3 || right.Height() != 1 {
		t.Fatalf("groups of %d and %d", left.Height(), right.Height())
	}
}

func TestGetSplitNeverUsesConstantFeature(t *testing.T) {
	hp := mustHyperParams(t, 1)
	constant := NewARMatrix(mat.NewDense(4, 2, []float64{2, 1, 2, 5, 2, -3, 2, 0}))
	bestSplit, err := GetSplit(hp, constant)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if bestSplit != nil {
		t.Fatalf("constant lag was split at %g", bestSplit.Threshold())
	}

	hp = mustHyperParams(t, 2)
	am := NewARMatrix(mat.NewDense(5, 3, []float64{
		1.5, 0.5, 0.6,
		1.5, 0.9, 0.5,
		1.5, 0.8, -0.9,
		1.5, -0.1, 0.9,
		1.5, 0.3, 0.8,
	}))
	bestSplit, err = GetSplit(hp, am)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if bestSplit == nil {
		t.Fatalf("expected a split on the second lag")
	}
	if bestSplit.FeatureIndex() != 1 {
		t.Fatalf("split on constant feature %d", bestSplit.FeatureIndex())
	}
	if !closeTo(bestSplit.Threshold(), 0.5611123398043841, 1e-9) {
		t.Fatalf("threshold %.12g", bestSplit.Threshold())
	}
	left, right := bestSplit.Groups()
	assertDisjointCover(t, am, left, right)
}

func TestGetSplitRepeatedObservation(t *testing.T) {
	hp := mustHyperParams(t, 1)
	am := NewARMatrix(mat.NewDense(3, 2, []float64{5, 5, 5, 5, 5, 5}))
	bestSplit, err := GetSplit(hp, am)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if bestSplit != nil {
		t.Fatalf("identical observations were split")
	}
}

func TestEmptySideContributesNoFactor(t *testing.T) {
	hp := mustHyperParams(t, 1)
	am := GenerateLinearData()
	whole, err := hp.LeafScore(am)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	score, err := hp.splitScore(ARMatrix{}, am)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score != whole {
		t.Fatalf("split score %g with an empty side, want %g", score, whole)
	}
}

func assertDisjointCover(t *testing.T, am, left, right ARMatrix) {
	t.Helper()
	if left.Height()+right.Height() != am.Height() {
		t.Fatalf("%d + %d observations, want %d", left.Height(), right.Height(), am.Height())
	}
	seen := make(map[int]bool)
	for _, group := range []ARMatrix{left, right} {
		for _, id := range group.RecordIds {
			if seen[id] {
				t.Fatalf("record %d is on both sides", id)
			}
			seen[id] = true
		}
	}
	for _, id := range am.RecordIds {
		if !seen[id] {
			t.Fatalf("record %d is lost", id)
		}
	}
}
