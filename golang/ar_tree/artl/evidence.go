package artl

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//MaxConditionNumber is the largest 1-norm condition number accepted before an inversion.
//The test does not depend on the scale of the data.
const MaxConditionNumber = 1e12

//invert inverts a square matrix and refuses ill conditioned input.
func invert(a mat.Matrix, what string) (*mat.Dense, error) {
	cond := mat.Cond(a, 1)
	if math.IsNaN(cond) || cond > MaxConditionNumber {
		return nil, fmt.Errorf("%w: cond(%s) = %g", ErrSingularMatrix, what, cond)
	}
	var inverse mat.Dense
	if err := inverse.Inverse(a); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSingularMatrix, what, err)
	}
	return &inverse, nil
}

//leadingBlock copies the upper left p x p block of a matrix.
func leadingBlock(a mat.Matrix, p int) *mat.Dense {
	block := mat.NewDense(p, p, nil)
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			block.Set(i, j, a.At(i, j))
		}
	}
	return block
}

//PosteriorScatter performs the conjugate update of the scatter matrix:
//WN = W0 + SN + alpha_u*N/(alpha_u+N) * (u0-uN)(u0-uN)^T.
func PosteriorScatter(alphaU float64, u0 []float64, w0 mat.Symmetric, mean []float64, scatter mat.Symmetric, n int) *mat.SymDense {
	d, _ := w0.Dims()
	diff := mat.NewVecDense(d, nil)
	for ind := 0; ind < d; ind++ {
		diff.SetVec(ind, u0[ind]-mean[ind])
	}
	nf := float64(n)

	wn := mat.NewSymDense(d, nil)
	wn.AddSym(w0, scatter)
	wn.SymRankOne(wn, alphaU*nf/(alphaU+nf), diff)
	return wn
}

//logC is the logarithm of c(l, alpha) = Gamma((alpha+1-1)/2) * ... * Gamma((alpha+1-l)/2).
func logC(l int, alpha float64) float64 {
	s := 0.0
	for i := 1; i <= l; i++ {
		lg, _ := math.Lgamma((alpha + 1 - float64(i)) / 2)
		s += lg
	}
	return s
}

//logDet returns the logarithm of the determinant of a positive definite matrix.
func logDet(a mat.Matrix, what string) (float64, error) {
	ld, sign := mat.LogDet(a)
	if sign <= 0 || math.IsNaN(ld) {
		return 0, fmt.Errorf("%w: det(%s) is not positive", ErrSingularMatrix, what)
	}
	return ld, nil
}

//evidence sums the power of pi term, the prior weight term and the gamma-determinant term.
//The determinant term is evaluated through logarithms and exponentiated at the end.
func (hp *HyperParams) evidence(n int, alpha float64, w0, wn mat.Matrix) (float64, error) {
	nf := float64(n)
	l := hp.order + 1
	lf := float64(l)

	ldW0, err := logDet(w0, "W0")
	if err != nil {
		return 0, err
	}
	ldWN, err := logDet(wn, "WN")
	if err != nil {
		return 0, err
	}

	piTerm := math.Pow(math.Pi, -lf*nf/2)
	weightTerm := math.Pow(hp.alphaU/(hp.alphaU+nf), lf/2)
	gammaTerm := math.Exp(logC(l, alpha+nf) - logC(l, alpha) + alpha/2*ldW0 - (alpha+nf)/2*ldWN)

	return piTerm + weightTerm + gammaTerm, nil
}

//JointEvidence scores N observations over lags and response.
func (hp *HyperParams) JointEvidence(n int, w0, wn mat.Matrix) (float64, error) {
	return hp.evidence(n, hp.alphaW, w0, wn)
}

//MarginalEvidence scores N observations over the lags only, with one degree of freedom less.
func (hp *HyperParams) MarginalEvidence(n int, w0, wn mat.Matrix) (float64, error) {
	return hp.evidence(n, hp.alphaW-1, w0, wn)
}

//posterior collects the sufficient statistics of a set and their conjugate update.
type posterior struct {
	n       int
	mean    []float64
	scatter *mat.SymDense
	w0      *mat.SymDense
	wn      *mat.SymDense
}

//newPosterior computes N, uN, SN, W0 = I and WN for a set of observations.
func (hp *HyperParams) newPosterior(am ARMatrix) (*posterior, error) {
	if err := am.validateWidth(hp); err != nil {
		return nil, err
	}
	mean, err := SampleMean(am)
	if err != nil {
		return nil, err
	}
	scatter, err := ScatterMatrix(am, mean)
	if err != nil {
		return nil, err
	}
	n := am.Height()
	w0 := hp.priorScatter()
	wn := PosteriorScatter(hp.alphaU, hp.u0, w0, mean, scatter, n)
	return &posterior{n: n, mean: mean, scatter: scatter, w0: w0, wn: wn}, nil
}

//posteriorMean returns ut = (alpha_u*u0 + N*uN) / (alpha_u + N).
func (hp *HyperParams) posteriorMean(post *posterior) []float64 {
	nf := float64(post.n)
	ut := make([]float64, len(post.mean))
	for ind := range ut {
		ut[ind] = (hp.alphaU*hp.u0[ind] + nf*post.mean[ind]) / (hp.alphaU + nf)
	}
	return ut
}

//marginalPriorScatter restricts the prior scatter to the lags: W0' = inv(inv(W0)[:p, :p]).
func (hp *HyperParams) marginalPriorScatter(w0 mat.Matrix) (*mat.SymDense, error) {
	w0Inv, err := invert(w0, "W0")
	if err != nil {
		return nil, err
	}
	restricted, err := invert(leadingBlock(w0Inv, hp.order), "inv(W0)[:p, :p]")
	if err != nil {
		return nil, err
	}
	p := hp.order
	w0p := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			w0p.SetSym(i, j, (restricted.At(i, j)+restricted.At(j, i))/2)
		}
	}
	return w0p, nil
}

//LeafScore is the Bayes factor of the joint evidence over the evidence of the lags alone.
func (hp *HyperParams) LeafScore(am ARMatrix) (float64, error) {
	post, err := hp.newPosterior(am)
	if err != nil {
		return 0, err
	}
	joint, err := hp.JointEvidence(post.n, post.w0, post.wn)
	if err != nil {
		return 0, err
	}

	//the lag columns share their mean and scatter with the leading block of the joint statistics
	p := hp.order
	meanP := post.mean[:p]
	scatterP := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			scatterP.SetSym(i, j, post.scatter.At(i, j))
		}
	}
	u0p := hp.posteriorMean(post)[:p]
	w0p, err := hp.marginalPriorScatter(post.w0)
	if err != nil {
		return 0, err
	}
	wnp := PosteriorScatter(hp.alphaU, u0p, w0p, meanP, scatterP, post.n)

	marginal, err := hp.MarginalEvidence(post.n, w0p, wnp)
	if err != nil {
		return 0, err
	}
	return joint / marginal, nil
}
