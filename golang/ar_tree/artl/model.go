package artl

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

//TreeNode is a node of a stored tree. Tree is stored in an array. LeftIndex and RightIndex are equal to -1
//when the current node is a leaf otherwise they contain array indices of children.
//A leaf node contains LeafIndex that is an index of the LeafNodes array.
type TreeNode struct {
	TreeNodeId            int
	FeatureNumber         int
	Threshold             float64
	LeftIndex, RightIndex int // -1, -1 if it is a leaf
	LeafIndex             int // -1 if it is a non-leaf tree node
	NumberOfObjects       int
	Score                 float64
}

//NewTreeNode returns a stored node with no children and no leaf.
func NewTreeNode() TreeNode {
	return TreeNode{FeatureNumber: -1, LeftIndex: -1, RightIndex: -1, LeafIndex: -1}
}

//IsLeaf returns whether this node refers to a LeafNode.
func (node TreeNode) IsLeaf() bool {
	return node.LeafIndex != -1
}

//ARTree is the flat form of a tree used for storage. The root is TreeNodes[0].
type ARTree struct {
	Order     int
	TreeNodes []TreeNode
	LeafNodes []LeafNode
}

//Flatten stores a tree in arrays in the depth first order.
func Flatten(root Node, order int) ARTree {
	tree := ARTree{Order: order, TreeNodes: make([]TreeNode, 0), LeafNodes: make([]LeafNode, 0)}
	tree.appendNode(root)
	return tree
}

//appendNode recurrently appends a node and its subtree and returns the node index.
func (tree *ARTree) appendNode(node Node) int {
	treeNodeId := len(tree.TreeNodes)
	current := NewTreeNode()
	current.TreeNodeId = treeNodeId
	tree.TreeNodes = append(tree.TreeNodes, current)

	switch n := node.(type) {
	case *LeafNode:
		tree.TreeNodes[treeNodeId].LeafIndex = len(tree.LeafNodes)
		tree.TreeNodes[treeNodeId].NumberOfObjects = n.NumberOfObjects
		tree.LeafNodes = append(tree.LeafNodes, *n.clone())
	case *DecisionNode:
		tree.TreeNodes[treeNodeId].FeatureNumber = n.FeatureIndex
		tree.TreeNodes[treeNodeId].Threshold = n.Threshold
		tree.TreeNodes[treeNodeId].NumberOfObjects = n.NumberOfObjects
		tree.TreeNodes[treeNodeId].Score = n.Score
		leftIndex := tree.appendNode(n.Left)
		tree.TreeNodes[treeNodeId].LeftIndex = leftIndex
		rightIndex := tree.appendNode(n.Right)
		tree.TreeNodes[treeNodeId].RightIndex = rightIndex
	}
	return treeNodeId
}

//Root rebuilds the linked tree. Children must follow their parent in the array.
func (tree ARTree) Root() (Node, error) {
	if len(tree.TreeNodes) == 0 {
		return nil, fmt.Errorf("%w: empty tree", ErrUnknownNode)
	}
	return tree.node(0)
}

func (tree ARTree) node(ind int) (Node, error) {
	stored := tree.TreeNodes[ind]
	if stored.IsLeaf() {
		if stored.LeafIndex < 0 || stored.LeafIndex >= len(tree.LeafNodes) {
			return nil, fmt.Errorf("%w: leaf %d", ErrUnknownNode, stored.LeafIndex)
		}
		leaf := tree.LeafNodes[stored.LeafIndex]
		if len(leaf.Coefficients) != tree.Order {
			return nil, fmt.Errorf("%w: %d coefficients in a tree of order %d", ErrDimensionMismatch, len(leaf.Coefficients), tree.Order)
		}
		return leaf.clone(), nil
	}

	for _, child := range []int{stored.LeftIndex, stored.RightIndex} {
		if child <= ind || child >= len(tree.TreeNodes) {
			return nil, fmt.Errorf("%w: child %d of node %d", ErrUnknownNode, child, ind)
		}
	}
	if stored.FeatureNumber < 0 || stored.FeatureNumber >= tree.Order {
		return nil, fmt.Errorf("%w: feature %d in a tree of order %d", ErrDimensionMismatch, stored.FeatureNumber, tree.Order)
	}

	left, err := tree.node(stored.LeftIndex)
	if err != nil {
		return nil, err
	}
	right, err := tree.node(stored.RightIndex)
	if err != nil {
		return nil, err
	}
	return &DecisionNode{
		FeatureIndex:    stored.FeatureNumber,
		Threshold:       stored.Threshold,
		Left:            left,
		Right:           right,
		NumberOfObjects: stored.NumberOfObjects,
		Score:           stored.Score,
	}, nil
}

//Save writes the tree as indented JSON.
func (tree ARTree) Save(filename string) error {
	dest, err := os.Create(filename)
	if err != nil {
		log.Print("can't open file ", filename, " to write")
		return err
	}

	modelByteRepr, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		_ = dest.Close()
		return err
	}

	if _, err = dest.Write(modelByteRepr); err != nil {
		_ = dest.Close()
		return err
	}
	return dest.Close()
}

//LoadModel reads a tree written by Save.
func LoadModel(filename string) (tree ARTree, err error) {
	source, err := os.Open(filename)
	if err != nil {
		return tree, err
	}
	defer func() { HandleError(source.Close()) }()

	decoder := json.NewDecoder(source)
	err = decoder.Decode(&tree)
	return
}
