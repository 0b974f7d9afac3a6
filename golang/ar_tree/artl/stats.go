package artl

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gorgonia.org/tensor"
)

//SampleMean returns the elementwise average of the observations.
func SampleMean(am ARMatrix) ([]float64, error) {
	h, w := am.Height(), am.Width()
	if h == 0 {
		return nil, ErrEmptyDataset
	}
	mean := make([]float64, w)
	column := make([]float64, h)
	for q := 0; q < w; q++ {
		mat.Col(column, q, am.Observations)
		mean[q] = stat.Mean(column, nil)
	}
	return mean, nil
}

//FeatureMeanStd returns the mean and the population standard deviation of one column.
func FeatureMeanStd(am ARMatrix, featureIndex int) (avg, sigma float64, err error) {
	h := am.Height()
	if h == 0 {
		return 0, 0, ErrEmptyDataset
	}
	avg, sigma = stat.PopMeanStdDev(mat.Col(nil, featureIndex, am.Observations), nil)
	return avg, sigma, nil
}

//ScatterMatrix returns the sum of outer products of the observations centered at mean.
//It materializes an h x w x w tensor, so memory grows with the number of observations;
//LeafScore calls it once per set and takes the lag statistics from its leading block.
func ScatterMatrix(am ARMatrix, mean []float64) (*mat.SymDense, error) {
	h, w := am.Height(), am.Width()
	if h == 0 {
		return nil, ErrEmptyDataset
	}
	outer, err := centeredOuterProducts(am, mean)
	if err != nil {
		return nil, err
	}

	scatter := mat.NewSymDense(w, nil)
	for p := 0; p < h; p++ {
		for q := 0; q < w; q++ {
			for r := q; r < w; r++ {
				element, err := outer.At(p, q, r)
				if err != nil {
					return nil, err
				}
				scatter.SetSym(q, r, scatter.At(q, r)+element.(float64))
			}
		}
	}
	return scatter, nil
}

//centeredOuterProducts allocates an h x w x w tensor whose p-th slice is the outer product
//of the p-th centered observation with itself.
func centeredOuterProducts(am ARMatrix, mean []float64) (*tensor.Dense, error) {
	h, w := am.Height(), am.Width()
	if len(mean) != w {
		return nil, ErrDimensionMismatch
	}

	outer := tensor.New(tensor.WithShape(h, w, w), tensor.Of(tensor.Float64))
	centered := make([]float64, w)
	for p := 0; p < h; p++ {
		for q := 0; q < w; q++ {
			centered[q] = am.Observations.At(p, q) - mean[q]
		}
		for q := 0; q < w; q++ {
			for r := 0; r < w; r++ {
				if err := outer.SetAt(centered[q]*centered[r], p, q, r); err != nil {
					return nil, err
				}
			}
		}
	}
	return outer, nil
}
