package artl

import (
	"log"
)

//Node is a node of a finished tree: either a *DecisionNode or a *LeafNode.
type Node interface {
	IsLeaf() bool
	node()
}

//DecisionNode routes an observation to Left when features[FeatureIndex] < Threshold and to Right otherwise.
type DecisionNode struct {
	FeatureIndex    int
	Threshold       float64
	Left, Right     Node
	NumberOfObjects int
	Score           float64
	BaselineScore   float64
}

//IsLeaf returns false for decision nodes.
func (node *DecisionNode) IsLeaf() bool {
	return false
}

func (node *DecisionNode) node() {}

//newDecisionNode creates a decision node and extracts a feature index and a split threshold
//from a BestSplit object.
func newDecisionNode(splitInfo *BestSplit) *DecisionNode {
	return &DecisionNode{
		FeatureIndex:    splitInfo.featureIndex,
		Threshold:       splitInfo.threshold,
		NumberOfObjects: splitInfo.numberOfObjects,
		Score:           splitInfo.bestValue,
		BaselineScore:   splitInfo.currentValue,
	}
}

//LeafNode stores the local autoregressive model: the response variance, the lag coefficients
//and the intercept.
type LeafNode struct {
	Variance        float64
	Coefficients    []float64
	Intercept       float64
	NumberOfObjects int
}

//IsLeaf returns true for leaf nodes.
func (leaf *LeafNode) IsLeaf() bool {
	return true
}

func (leaf *LeafNode) node() {}

//clone returns a deep copy of the leaf.
func (leaf *LeafNode) clone() *LeafNode {
	c := *leaf
	c.Coefficients = append([]float64(nil), leaf.Coefficients...)
	return &c
}

//treeBuilder carries the configuration of one tree fit through the recursion.
type treeBuilder struct {
	hp     *HyperParams
	params TreeParams
}

//BuildTree grows a tree over the training observations. The root is a single leaf
//when no split improves the leaf score of the whole set.
func BuildTree(hp *HyperParams, train ARMatrix, maxDepth, minSize int) (Node, error) {
	builder := treeBuilder{hp: hp, params: TreeParams{MaxDepth: maxDepth, MinSize: minSize}}
	if err := builder.params.Validate(); err != nil {
		return nil, err
	}
	if err := train.validateWidth(hp); err != nil {
		return nil, err
	}
	log.Printf("build a tree of order %d over %d observations\n", hp.order, train.Height())

	bestSplit, err := GetSplit(hp, train)
	if err != nil {
		return nil, err
	}
	if bestSplit == nil {
		return leafNode(builder.toTerminal(train))
	}
	return decisionNode(builder.split(bestSplit, 1))
}

//toTerminal fits the leaf model of a set of observations.
func (b treeBuilder) toTerminal(group ARMatrix) (*LeafNode, error) {
	return FitLeaf(b.hp, group)
}

//split turns a pending split into a decision node and grows both of its subtrees.
func (b treeBuilder) split(bestSplit *BestSplit, depth int) (*DecisionNode, error) {
	left, right := bestSplit.Groups()
	node := newDecisionNode(bestSplit)
	log.Printf("depth %d: x%d < %.5g splits %d into %d and %d\n",
		depth, node.FeatureIndex, node.Threshold, node.NumberOfObjects, left.Height(), right.Height())

	if left.Height() == 0 || right.Height() == 0 {
		leaf, err := b.toTerminal(left.Union(right))
		if err != nil {
			return nil, err
		}
		node.Left, node.Right = leaf, leaf.clone()
		return node, nil
	}

	if depth >= b.params.MaxDepth {
		leftLeaf, err := b.toTerminal(left)
		if err != nil {
			return nil, err
		}
		rightLeaf, err := b.toTerminal(right)
		if err != nil {
			return nil, err
		}
		node.Left, node.Right = leftLeaf, rightLeaf
		return node, nil
	}

	var err error
	if node.Left, err = b.child(left, depth); err != nil {
		return nil, err
	}
	if node.Right, err = b.child(right, depth); err != nil {
		return nil, err
	}
	return node, nil
}

//child grows one side of a decision node at the given depth.
func (b treeBuilder) child(group ARMatrix, depth int) (Node, error) {
	if group.Height() <= b.params.MinSize {
		return leafNode(b.toTerminal(group))
	}
	bestSplit, err := GetSplit(b.hp, group)
	if err != nil {
		return nil, err
	}
	if bestSplit == nil {
		return leafNode(b.toTerminal(group))
	}
	return decisionNode(b.split(bestSplit, depth+1))
}

//leafNode keeps a failed leaf fit from turning into a typed nil Node.
func leafNode(leaf *LeafNode, err error) (Node, error) {
	if err != nil {
		return nil, err
	}
	return leaf, nil
}

//decisionNode keeps a failed subtree from turning into a typed nil Node.
func decisionNode(node *DecisionNode, err error) (Node, error) {
	if err != nil {
		return nil, err
	}
	return node, nil
}

//Depth returns the number of decision nodes on the longest path from the root to a leaf.
func Depth(root Node) int {
	decision, ok := root.(*DecisionNode)
	if !ok {
		return 0
	}
	left, right := Depth(decision.Left), Depth(decision.Right)
	if left > right {
		return left + 1
	}
	return right + 1
}

//Leaves returns the leaves of a tree from the left to the right.
func Leaves(root Node) []*LeafNode {
	switch node := root.(type) {
	case *LeafNode:
		return []*LeafNode{node}
	case *DecisionNode:
		return append(Leaves(node.Left), Leaves(node.Right)...)
	}
	return nil
}
