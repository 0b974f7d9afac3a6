package artl

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

//GenerateLinearData returns the perfectly linear order one set used by several tests.
func GenerateLinearData() ARMatrix {
	return NewARMatrix(mat.NewDense(5, 2, []float64{
		0, 0,
		1, 1,
		2, 2,
		3, 3,
		10, 10,
	}))
}

//GenerateTwoRegimes returns an order one set whose response follows y = 2x below x = 5 and y = 30 - x above.
func GenerateTwoRegimes() ARMatrix {
	data := make([]float64, 0, 40)
	for ind := 0; ind < 10; ind++ {
		x := float64(ind) * 0.5
		data = append(data, x, 2*x+0.01*float64(ind%3))
	}
	for ind := 0; ind < 10; ind++ {
		x := 5 + float64(ind)*0.5
		data = append(data, x, 30-x+0.01*float64(ind%2))
	}
	return NewARMatrix(mat.NewDense(20, 2, data))
}

//GenerateOrderTwo returns an order two set with a constant first lag.
func GenerateOrderTwo() ARMatrix {
	data := make([]float64, 0, 36)
	for ind := 0; ind < 12; ind++ {
		x := float64(ind)
		data = append(data, 3, x, 0.5*x+1)
	}
	return NewARMatrix(mat.NewDense(12, 3, data))
}

func mustHyperParams(t *testing.T, p int) *HyperParams {
	t.Helper()
	hp, err := NewHyperParams(p, nil, DefaultAlphaU)
	if err != nil {
		t.Fatalf("hyperparams: %v", err)
	}
	return hp
}

//reversed returns the observations in the opposite order.
func reversed(am ARMatrix) ARMatrix {
	h, w := am.Observations.Dims()
	out := mat.NewDense(h, w, nil)
	for p := 0; p < h; p++ {
		out.SetRow(p, am.Observations.RawRowView(h-1-p))
	}
	return NewARMatrix(out)
}

func closeTo(a, b, tol float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

//GenerateSmallFour returns four order one observations that grow a tree of depth two.
func GenerateSmallFour() ARMatrix {
	return NewARMatrix(mat.NewDense(4, 2, []float64{
		0.2, 0.2,
		-0.7, -0.1,
		-0.2, 0.4,
		1.0, 0.9,
	}))
}

func assertLeaf(t *testing.T, leaf *LeafNode, variance float64, coefficients []float64, intercept float64) {
	t.Helper()
	if !closeTo(leaf.Variance, variance, 1e-9) {
		t.Errorf("variance = %.12g, want %.12g", leaf.Variance, variance)
	}
	if len(leaf.Coefficients) != len(coefficients) {
		t.Fatalf("%d coefficients, want %d", len(leaf.Coefficients), len(coefficients))
	}
	for ind := range coefficients {
		if !closeTo(leaf.Coefficients[ind], coefficients[ind], 1e-9) {
			t.Errorf("b[%d] = %.12g, want %.12g", ind, leaf.Coefficients[ind], coefficients[ind])
		}
	}
	if !closeTo(leaf.Intercept, intercept, 1e-9) {
		t.Errorf("intercept = %.12g, want %.12g", leaf.Intercept, intercept)
	}
}
