package artl

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//DefaultAlphaU is the default pseudo-count of the prior mean.
const DefaultAlphaU = 1.0

//numberOfOffsets is the number of candidate thresholds tried per feature.
const numberOfOffsets = 7

//HyperParams holds the conjugate prior of one tree fit. It is immutable once created
//and is passed down through the whole recursion.
type HyperParams struct {
	order   int
	u0      []float64
	alphaU  float64
	alphaW  float64
	offsets []float64
}

//NewHyperParams validates the prior and precomputes the threshold offsets.
//The prior mean u0 may be empty (zero vector), a single broadcast value or a vector of length p+1.
func NewHyperParams(p int, u0 []float64, alphaU float64) (*HyperParams, error) {
	if p < 1 {
		return nil, fmt.Errorf("%w: autoregressive order %d, should be at least 1", ErrInvalidHyperparameter, p)
	}
	if !(alphaU > 0) || math.IsInf(alphaU, 1) {
		return nil, fmt.Errorf("%w: alpha_u = %g, should be positive", ErrInvalidHyperparameter, alphaU)
	}

	hp := &HyperParams{
		order:   p,
		u0:      make([]float64, p+1),
		alphaU:  alphaU,
		alphaW:  float64(p + 2),
		offsets: make([]float64, numberOfOffsets),
	}

	switch len(u0) {
	case 0:
	case 1:
		for ind := range hp.u0 {
			hp.u0[ind] = u0[0]
		}
	case p + 1:
		copy(hp.u0, u0)
	default:
		return nil, fmt.Errorf("%w: prior mean of length %d for order %d", ErrDimensionMismatch, len(u0), p)
	}

	for k := 1; k <= numberOfOffsets; k++ {
		hp.offsets[k-1] = math.Erfinv(float64(k)/4 - 1)
	}

	return hp, nil
}

//Order returns the autoregressive order p.
func (hp *HyperParams) Order() int {
	return hp.order
}

//Width returns the dimension of one observation, p+1.
func (hp *HyperParams) Width() int {
	return hp.order + 1
}

//AlphaU returns the pseudo-count of the prior mean.
func (hp *HyperParams) AlphaU() float64 {
	return hp.alphaU
}

//AlphaW returns the degrees of freedom of the prior scatter.
func (hp *HyperParams) AlphaW() float64 {
	return hp.alphaW
}

//PriorMean returns a copy of the prior mean vector u0.
func (hp *HyperParams) PriorMean() []float64 {
	return append([]float64(nil), hp.u0...)
}

//Offsets returns a copy of the threshold offsets in ascending order.
func (hp *HyperParams) Offsets() []float64 {
	return append([]float64(nil), hp.offsets...)
}

//priorScatter returns W0, the identity of the observation dimension.
func (hp *HyperParams) priorScatter() *mat.SymDense {
	d := hp.Width()
	w0 := mat.NewSymDense(d, nil)
	for ind := 0; ind < d; ind++ {
		w0.SetSym(ind, ind, 1)
	}
	return w0
}

//TreeParams contains the stopping rules of the tree construction.
type TreeParams struct {
	MaxDepth int
	MinSize  int
}

//Validate checks the stopping rules.
func (tp TreeParams) Validate() error {
	if tp.MaxDepth < 1 {
		return fmt.Errorf("%w: max depth %d, should be at least 1", ErrInvalidHyperparameter, tp.MaxDepth)
	}
	if tp.MinSize < 0 {
		return fmt.Errorf("%w: min size %d, should be non-negative", ErrInvalidHyperparameter, tp.MinSize)
	}
	return nil
}
