package artl

//BestSplit contains results of the split selection algorithm. It lives only while a tree is built:
//left and right hold the pending partitions of the node.
type BestSplit struct {
	featureIndex    int
	threshold       float64
	bestValue       float64
	currentValue    float64
	numberOfObjects int
	left, right     ARMatrix
}

//FeatureIndex returns the lag compared by the split.
func (bs *BestSplit) FeatureIndex() int {
	return bs.featureIndex
}

//Threshold returns the split threshold. Observations with a smaller feature go to the left.
func (bs *BestSplit) Threshold() float64 {
	return bs.threshold
}

//Score returns the product of the leaf scores of the non-empty sides.
func (bs *BestSplit) Score() float64 {
	return bs.bestValue
}

//BaselineScore returns the leaf score of the unsplit node.
func (bs *BestSplit) BaselineScore() float64 {
	return bs.currentValue
}

//Groups returns the left and the right partitions.
func (bs *BestSplit) Groups() (left, right ARMatrix) {
	return bs.left, bs.right
}

//splitScore multiplies the leaf scores of the sides. An empty side contributes no factor.
func (hp *HyperParams) splitScore(groups ...ARMatrix) (float64, error) {
	score := 1.0
	for _, group := range groups {
		if group.Height() == 0 {
			continue
		}
		groupScore, err := hp.LeafScore(group)
		if err != nil {
			return 0, err
		}
		score *= groupScore
	}
	return score, nil
}

//GetSplit tries avg + sigma*offset thresholds for every lag and returns the split that strictly
//improves the leaf score of the whole set. It returns nil when no candidate does.
func GetSplit(hp *HyperParams, am ARMatrix) (*BestSplit, error) {
	currentValue, err := hp.LeafScore(am)
	if err != nil {
		return nil, err
	}

	var bestSplit *BestSplit
	bestValue := currentValue

	for q := 0; q < hp.order; q++ {
		avg, sigma, err := FeatureMeanStd(am, q)
		if err != nil {
			return nil, err
		}
		for _, offset := range hp.offsets {
			threshold := avg + sigma*offset
			left, right := am.Split(q, threshold)
			score, err := hp.splitScore(left, right)
			if err != nil {
				return nil, err
			}
			if score > bestValue {
				bestValue = score
				bestSplit = &BestSplit{
					featureIndex:    q,
					threshold:       threshold,
					bestValue:       score,
					currentValue:    currentValue,
					numberOfObjects: am.Height(),
					left:            left,
					right:           right,
				}
			}
		}
	}

	return bestSplit, nil
}
