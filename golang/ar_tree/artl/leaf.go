package artl

import "gonum.org/v1/gonum/mat"

//FitLeaf estimates the local autoregressive model of a set of observations from
//the MAP parameters of the Normal-Inverse-Wishart posterior.
func FitLeaf(hp *HyperParams, am ARMatrix) (*LeafNode, error) {
	post, err := hp.newPosterior(am)
	if err != nil {
		return nil, err
	}
	p := hp.order
	nf := float64(post.n)

	ut := hp.posteriorMean(post)
	wtInv := mat.NewSymDense(p+1, nil)
	wtInv.ScaleSym(1/(hp.alphaW+nf-float64(p+1)), post.wn)

	w, err := invert(wtInv, "Wt_inv")
	if err != nil {
		return nil, err
	}
	wpp, err := invert(leadingBlock(wtInv, p), "Wt_inv[:p, :p]")
	if err != nil {
		return nil, err
	}

	leaf := &LeafNode{
		Variance:        1 / w.At(p, p),
		Coefficients:    make([]float64, p),
		NumberOfObjects: post.n,
	}
	for j := 0; j < p; j++ {
		for i := 0; i < p; i++ {
			leaf.Coefficients[j] += wtInv.At(p, i) * wpp.At(i, j)
		}
	}

	leaf.Intercept = ut[p]
	for i := 0; i < p; i++ {
		leaf.Intercept += leaf.Coefficients[i] * ut[i]
	}

	return leaf, nil
}
