package artl

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

//GraphDescription returns the description of a tree node for tree rendering as a graph
func (node TreeNode) GraphDescription() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln("#", node.NumberOfObjects))
	sb.WriteString(fmt.Sprintln("id: ", node.TreeNodeId))
	sb.WriteString(fmt.Sprintln("score: ", node.Score))
	sb.WriteString(fmt.Sprintf("X%d < %6.5f", node.FeatureNumber+1, node.Threshold))
	return sb.String()
}

//GraphDescription returns the description of a leaf node for tree rendering as a graph
func (leaf LeafNode) GraphDescription() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("var: %6.4f\n", leaf.Variance))
	sb.WriteString("b: [")
	for ind, val := range leaf.Coefficients {
		if ind > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%6.4f", val))
	}
	sb.WriteString("]\n")
	sb.WriteString(fmt.Sprintf("m: %6.4f\n", leaf.Intercept))
	sb.WriteString(fmt.Sprintln("#", leaf.NumberOfObjects))
	return sb.String()
}

func recurrentDraw(g *cgraph.Graph, tree ARTree, nodeNumber int, parentNode *cgraph.Node) error {
	currentNode, err := g.CreateNode(fmt.Sprint(tree.TreeNodes[nodeNumber].TreeNodeId))
	if err != nil {
		return err
	}

	if parentNode != nil {
		if _, err := g.CreateEdge("", parentNode, currentNode); err != nil {
			return err
		}
	}

	stored := tree.TreeNodes[nodeNumber]
	if stored.IsLeaf() {
		currentNode.Set("label", tree.LeafNodes[stored.LeafIndex].GraphDescription())
		currentNode.Set("shape", "box")
		return nil
	}
	currentNode.Set("label", stored.GraphDescription())
	if err := recurrentDraw(g, tree, stored.LeftIndex, currentNode); err != nil {
		return err
	}
	return recurrentDraw(g, tree, stored.RightIndex, currentNode)
}

//DrawGraph builds a graphviz graph of a stored tree. The tree is validated by Root first.
func (tree ARTree) DrawGraph() (*graphviz.Graphviz, *cgraph.Graph, error) {
	if _, err := tree.Root(); err != nil {
		return nil, nil, err
	}
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	if err != nil {
		return nil, nil, err
	}

	if err := recurrentDraw(graph, tree, 0, nil); err != nil {
		return nil, nil, err
	}
	return graphViz, graph, nil
}

//RenderTree draws a stored tree into a png, svg or jpg file.
func (tree ARTree) RenderTree(figureType, filename string) error {
	graphvizType, ok := map[string]graphviz.Format{
		"png": graphviz.PNG,
		"svg": graphviz.SVG,
		"jpg": graphviz.JPG,
	}[figureType]
	if !ok {
		return fmt.Errorf("unknown figure type %q", figureType)
	}

	graphViz, graph, err := tree.DrawGraph()
	if err != nil {
		return err
	}
	defer func() {
		HandleError(graph.Close())
		HandleError(graphViz.Close())
	}()
	return graphViz.RenderFilename(graph, graphvizType, filename)
}

//WriteTree prints a tree one node per line, indented by depth:
//decision nodes as [X1 < 3.000] with one based lag numbers, leaves as [variance coefficients intercept].
func WriteTree(w io.Writer, root Node) error {
	return writeNode(w, root, 0)
}

func writeNode(w io.Writer, node Node, depth int) error {
	indent := strings.Repeat(" ", depth)
	switch n := node.(type) {
	case *DecisionNode:
		if _, err := fmt.Fprintf(w, "%s[X%d < %.3f]\n", indent, n.FeatureIndex+1, n.Threshold); err != nil {
			return err
		}
		if err := writeNode(w, n.Left, depth+1); err != nil {
			return err
		}
		return writeNode(w, n.Right, depth+1)
	case *LeafNode:
		_, err := fmt.Fprintf(w, "%s[%g %v %g]\n", indent, n.Variance, n.Coefficients, n.Intercept)
		return err
	}
	return fmt.Errorf("%w: %T", ErrUnknownNode, node)
}
