package artl

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestFitLeafLinearData(t *testing.T) {
	hp := mustHyperParams(t, 1)
	leaf, err := FitLeaf(hp, GenerateLinearData())
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	assertLeaf(t, leaf, 0.331029185867898, []float64{0.9861751152073732}, 5.296466973886329)
	if leaf.NumberOfObjects != 5 {
		t.Fatalf("leaf counts %d objects", leaf.NumberOfObjects)
	}
}

func TestFitLeafRepeatedObservation(t *testing.T) {
	hp := mustHyperParams(t, 1)
	data := make([]float64, 0, 12)
	for ind := 0; ind < 6; ind++ {
		data = append(data, 5, 5)
	}
	am := NewARMatrix(mat.NewDense(6, 2, data))

	leaf, err := FitLeaf(hp, am)
	if err != nil {
		t.Fatalf("zero scatter should be regularized by the prior: %v", err)
	}
	assertLeaf(t, leaf, 0.27934485896269345, []float64{0.9554140127388536}, 8.380345768880801)

	again, err := FitLeaf(hp, am)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if again.Variance != leaf.Variance || again.Intercept != leaf.Intercept {
		t.Fatalf("fit is not deterministic")
	}
}

func TestFitLeafSingleObservationAtPriorMean(t *testing.T) {
	hp := mustHyperParams(t, 1)
	leaf, err := FitLeaf(hp, NewARMatrix(mat.NewDense(1, 2, []float64{0, 0})))
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	assertLeaf(t, leaf, 0.5, []float64{0}, 0)
}

func TestFitLeafOrderTwo(t *testing.T) {
	hp := mustHyperParams(t, 2)
	leaf, err := FitLeaf(hp, GenerateOrderTwo())
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	assertLeaf(t, leaf, 0.10378149988539631, []float64{0.29701467363805034, 0.5003092145949288}, 6.824072031864239)
	if math.IsNaN(leaf.Variance) || leaf.Variance <= 0 {
		t.Fatalf("variance %g", leaf.Variance)
	}
}

func TestFitLeafErrors(t *testing.T) {
	hp := mustHyperParams(t, 1)
	if _, err := FitLeaf(hp, ARMatrix{}); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
	if _, err := FitLeaf(hp, GenerateOrderTwo()); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

//smallScaleSeries returns an AR(1) series with coefficient 0.5 and noise of standard deviation 0.01.
func smallScaleSeries(n int) []float64 {
	rng := rand.New(rand.NewSource(7))
	series := make([]float64, n)
	for t := 1; t < n; t++ {
		series[t] = 0.5*series[t-1] + 0.01*rng.NormFloat64()
	}
	return series
}

func TestFitLeafSmallScaleSeries(t *testing.T) {
	hp := mustHyperParams(t, 3)
	am, err := EmbedSeries(smallScaleSeries(2000), 3)
	if err != nil {
		t.Fatalf("embed: %v", err)
	}

	leaf, err := FitLeaf(hp, am)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if !(leaf.Variance > 0) || math.IsInf(leaf.Variance, 0) || len(leaf.Coefficients) != 3 {
		t.Fatalf("leaf %+v", leaf)
	}

	root, err := BuildTree(hp, am, 2, 10)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(Leaves(root)) == 0 {
		t.Fatalf("no leaves")
	}
}
