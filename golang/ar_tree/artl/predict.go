package artl

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

//Predict walks from the root with the rule features[index] < threshold and returns the first leaf reached.
func Predict(root Node, features []float64) (*LeafNode, error) {
	current := root
	for {
		switch node := current.(type) {
		case *LeafNode:
			if len(features) < len(node.Coefficients) {
				return nil, fmt.Errorf("%w: %d features for %d coefficients", ErrDimensionMismatch, len(features), len(node.Coefficients))
			}
			return node, nil
		case *DecisionNode:
			if node.FeatureIndex < 0 || node.FeatureIndex >= len(features) {
				return nil, fmt.Errorf("%w: feature %d of a %d dimensional vector", ErrDimensionMismatch, node.FeatureIndex, len(features))
			}
			if features[node.FeatureIndex] < node.Threshold {
				current = node.Left
			} else {
				current = node.Right
			}
		default:
			return nil, errors.New("nil tree")
		}
	}
}

//PredictBatch predicts every row of features and returns a table with one row
//[variance, b_0, ..., b_{p-1}, intercept] per input row. Extra columns of features,
//such as a trailing response, are ignored.
func PredictBatch(root Node, features *mat.Dense) (*mat.Dense, error) {
	leaves := Leaves(root)
	if len(leaves) == 0 {
		return nil, errors.New("nil tree")
	}
	p := len(leaves[0].Coefficients)

	h, _ := features.Dims()
	if h == 0 {
		return nil, ErrEmptyDataset
	}
	prediction := mat.NewDense(h, p+2, nil)
	for row := 0; row < h; row++ {
		leaf, err := Predict(root, features.RawRowView(row))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		prediction.Set(row, 0, leaf.Variance)
		for q, b := range leaf.Coefficients {
			prediction.Set(row, q+1, b)
		}
		prediction.Set(row, p+1, leaf.Intercept)
	}
	return prediction, nil
}
