package artl

import (
	"errors"
	"math"
	"testing"
)

func TestNewHyperParamsDefaults(t *testing.T) {
	hp, err := NewHyperParams(3, nil, DefaultAlphaU)
	if err != nil {
		t.Fatalf("hyperparams: %v", err)
	}
	if hp.Order() != 3 || hp.Width() != 4 {
		t.Fatalf("order %d width %d", hp.Order(), hp.Width())
	}
	if hp.AlphaW() != 5 {
		t.Fatalf("alpha_W = %g, want 5", hp.AlphaW())
	}
	for ind, v := range hp.PriorMean() {
		if v != 0 {
			t.Fatalf("u0[%d] = %g, want 0", ind, v)
		}
	}

	offsets := hp.Offsets()
	if len(offsets) != 7 {
		t.Fatalf("expected 7 offsets, got %d", len(offsets))
	}
	if offsets[3] != 0 {
		t.Fatalf("middle offset %g, want 0", offsets[3])
	}
	for ind := 1; ind < len(offsets); ind++ {
		if !(offsets[ind] > offsets[ind-1]) {
			t.Fatalf("offsets are not ascending: %v", offsets)
		}
		if math.Abs(offsets[ind]+offsets[len(offsets)-1-ind]) > 1e-12 {
			t.Fatalf("offsets are not symmetric: %v", offsets)
		}
	}
	if math.Abs(math.Erf(offsets[0])+0.75) > 1e-12 {
		t.Fatalf("first offset %g is not erfinv(-0.75)", offsets[0])
	}
}

func TestNewHyperParamsPriorMean(t *testing.T) {
	hp, err := NewHyperParams(2, []float64{1.5}, 2)
	if err != nil {
		t.Fatalf("hyperparams: %v", err)
	}
	for ind, v := range hp.PriorMean() {
		if v != 1.5 {
			t.Fatalf("u0[%d] = %g, want broadcast 1.5", ind, v)
		}
	}

	hp, err = NewHyperParams(2, []float64{1, 2, 3}, 2)
	if err != nil {
		t.Fatalf("hyperparams: %v", err)
	}
	if u0 := hp.PriorMean(); u0[0] != 1 || u0[1] != 2 || u0[2] != 3 {
		t.Fatalf("u0 = %v", u0)
	}

	if _, err := NewHyperParams(2, []float64{1, 2}, 2); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestInvalidHyperparameters(t *testing.T) {
	if _, err := NewHyperParams(0, nil, 1); !errors.Is(err, ErrInvalidHyperparameter) {
		t.Fatalf("p = 0: expected ErrInvalidHyperparameter, got %v", err)
	}
	if _, err := NewHyperParams(1, nil, 0); !errors.Is(err, ErrInvalidHyperparameter) {
		t.Fatalf("alpha_u = 0: expected ErrInvalidHyperparameter, got %v", err)
	}
	if _, err := NewHyperParams(1, nil, math.NaN()); !errors.Is(err, ErrInvalidHyperparameter) {
		t.Fatalf("alpha_u = NaN: expected ErrInvalidHyperparameter, got %v", err)
	}
	if err := (TreeParams{MaxDepth: 0, MinSize: 1}).Validate(); !errors.Is(err, ErrInvalidHyperparameter) {
		t.Fatalf("max depth 0: expected ErrInvalidHyperparameter, got %v", err)
	}
	if err := (TreeParams{MaxDepth: 1, MinSize: -1}).Validate(); !errors.Is(err, ErrInvalidHyperparameter) {
		t.Fatalf("min size -1: expected ErrInvalidHyperparameter, got %v", err)
	}
	if err := (TreeParams{MaxDepth: 1, MinSize: 0}).Validate(); err != nil {
		t.Fatalf("valid params rejected: %v", err)
	}
}
