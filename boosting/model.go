// Package boosting implements gradient-boosted regression trees.
//
// The trainer grows one least-squares regression tree per boosting round on
// the gradient/hessian statistics of the current ensemble prediction, using
// the standard split gain
//
//	gain = 1/2 * (GL²/(HL+λ) + GR²/(HR+λ) - G²/(H+λ))
//
// and shrinks each tree's contribution by the learning rate.
package boosting

import (
	"gonum.org/v1/gonum/mat"

	"github.com/agroml/yieldcast/pkg/errors"
)

// NodeType distinguishes internal splits from leaves.
type NodeType int

const (
	// NumericalNode splits on a feature threshold.
	NumericalNode NodeType = iota
	// LeafNode carries a prediction value.
	LeafNode
)

// Node is a single tree node. Children reference node indices within the
// owning tree; leaves use -1.
type Node struct {
	NodeID       int
	ParentID     int
	NodeType     NodeType
	SplitFeature int
	Threshold    float64
	LeftChild    int
	RightChild   int
	LeafValue    float64
	Gain         float64
}

// Tree is one regression tree of the ensemble.
type Tree struct {
	TreeIndex     int
	ShrinkageRate float64
	Nodes         []Node
	NumLeaves     int
}

// predictRow navigates the tree for a single feature row.
func (t *Tree) predictRow(x []float64) float64 {
	nodeIdx := 0
	for nodeIdx >= 0 && nodeIdx < len(t.Nodes) {
		node := &t.Nodes[nodeIdx]
		if node.NodeType == LeafNode {
			return node.LeafValue
		}
		if x[node.SplitFeature] <= node.Threshold {
			nodeIdx = node.LeftChild
		} else {
			nodeIdx = node.RightChild
		}
	}
	return 0.0
}

// Model is a trained gradient-boosted tree ensemble.
type Model struct {
	Trees       []Tree
	InitScore   float64
	NumFeatures int
}

// Predict produces one real-valued prediction per input row.
func (m *Model) Predict(X mat.Matrix) (*mat.Dense, error) {
	rows, cols := X.Dims()
	if cols != m.NumFeatures {
		return nil, errors.NewDimensionError("Model.Predict", m.NumFeatures, cols, 1)
	}

	out := mat.NewDense(rows, 1, nil)
	x := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x[j] = X.At(i, j)
		}
		pred := m.InitScore
		for ti := range m.Trees {
			pred += m.Trees[ti].predictRow(x) * m.Trees[ti].ShrinkageRate
		}
		out.Set(i, 0, pred)
	}
	return out, nil
}
