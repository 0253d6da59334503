package boosting

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/agroml/yieldcast/pkg/errors"
	"github.com/agroml/yieldcast/pkg/log"
)

// Trainer implements the boosting training loop.
type Trainer struct {
	params TrainingParams

	// Data
	X *mat.Dense
	y *mat.Dense

	// Gradient statistics for the L2 objective
	gradients []float64
	hessians  []float64

	// Current ensemble prediction per sample
	predictions []float64

	// Trees built so far
	trees []Tree

	iteration int
	initScore float64
}

// NewTrainer creates a trainer, filling unset parameters with defaults.
func NewTrainer(params TrainingParams) *Trainer {
	if params.NumIterations == 0 {
		params.NumIterations = 100
	}
	if params.LearningRate == 0 {
		params.LearningRate = 0.1
	}
	if params.NumLeaves == 0 {
		params.NumLeaves = 31
	}
	if params.MinDataInLeaf == 0 {
		params.MinDataInLeaf = 20
	}
	return &Trainer{params: params}
}

// Fit trains the ensemble on (X, y) with the squared-error objective.
func (t *Trainer) Fit(X, y mat.Matrix) error {
	t.X = denseOf(X)
	t.y = denseOf(y)

	rows, _ := t.X.Dims()
	yRows, yCols := t.y.Dims()
	if yRows != rows {
		return errors.NewDimensionError("Trainer.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("Trainer.Fit", 1, yCols, 1)
	}
	if rows == 0 {
		return errors.NewModelError("Trainer.Fit", "empty data", errors.ErrEmptyData)
	}

	t.gradients = make([]float64, rows)
	t.hessians = make([]float64, rows)

	// The L2 init score is the target mean.
	sum := 0.0
	for i := 0; i < rows; i++ {
		sum += t.y.At(i, 0)
	}
	t.initScore = sum / float64(rows)

	t.predictions = make([]float64, rows)
	for i := range t.predictions {
		t.predictions[i] = t.initScore
	}

	for iter := 0; iter < t.params.NumIterations; iter++ {
		t.iteration = iter

		t.calculateGradients()

		tree := t.buildTree()
		t.trees = append(t.trees, tree)
		t.updatePredictions(tree)

		if t.params.Verbosity > 0 && iter%10 == 0 {
			logger := log.GetLoggerWithName("boosting.trainer")
			logger.Debug("Training progress",
				"iteration", iter,
				"loss", t.calculateLoss())
		}
	}

	return nil
}

// GetModel returns the trained ensemble.
func (t *Trainer) GetModel() *Model {
	_, cols := t.X.Dims()
	trees := make([]Tree, len(t.trees))
	copy(trees, t.trees)
	return &Model{
		Trees:       trees,
		InitScore:   t.initScore,
		NumFeatures: cols,
	}
}

func denseOf(m mat.Matrix) *mat.Dense {
	if d, ok := m.(*mat.Dense); ok {
		return d
	}
	rows, cols := m.Dims()
	d := mat.NewDense(rows, cols, nil)
	d.Copy(m)
	return d
}

// calculateGradients computes gradients and hessians of the squared error
// for the current predictions.
func (t *Trainer) calculateGradients() {
	rows, _ := t.y.Dims()
	for i := 0; i < rows; i++ {
		t.gradients[i] = t.predictions[i] - t.y.At(i, 0)
		t.hessians[i] = 1.0
	}
}

// buildTree constructs a single regression tree on the current gradients.
func (t *Trainer) buildTree() Tree {
	tree := Tree{
		TreeIndex:     t.iteration,
		ShrinkageRate: t.params.LearningRate,
	}

	rows, _ := t.X.Dims()
	rootIndices := make([]int, rows)
	for i := 0; i < rows; i++ {
		rootIndices[i] = i
	}

	t.buildNode(&tree, rootIndices, 0, 0)
	tree.NumLeaves = countLeaves(&tree)
	return tree
}

// buildNode recursively builds tree nodes and returns the new node's index.
func (t *Trainer) buildNode(tree *Tree, indices []int, parentIdx, depth int) int {
	nodeIdx := len(tree.Nodes)

	numLeaves := countLeaves(tree)
	if (t.params.MaxDepth > 0 && depth >= t.params.MaxDepth) ||
		len(indices) < t.params.MinDataInLeaf ||
		(t.params.NumLeaves > 0 && numLeaves >= t.params.NumLeaves-1) {
		return t.appendLeaf(tree, indices, parentIdx)
	}

	bestSplit := t.findBestSplit(indices)
	if bestSplit.Gain < t.params.MinGainToSplit {
		return t.appendLeaf(tree, indices, parentIdx)
	}

	tree.Nodes = append(tree.Nodes, Node{
		NodeID:       nodeIdx,
		ParentID:     parentIdx,
		NodeType:     NumericalNode,
		SplitFeature: bestSplit.Feature,
		Threshold:    bestSplit.Threshold,
		Gain:         bestSplit.Gain,
		LeftChild:    -1,
		RightChild:   -1,
	})

	leftIndices, rightIndices := t.splitData(indices, bestSplit)

	leftChild := t.buildNode(tree, leftIndices, nodeIdx, depth+1)
	rightChild := t.buildNode(tree, rightIndices, nodeIdx, depth+1)

	tree.Nodes[nodeIdx].LeftChild = leftChild
	tree.Nodes[nodeIdx].RightChild = rightChild
	return nodeIdx
}

func (t *Trainer) appendLeaf(tree *Tree, indices []int, parentIdx int) int {
	nodeIdx := len(tree.Nodes)
	tree.Nodes = append(tree.Nodes, Node{
		NodeID:     nodeIdx,
		ParentID:   parentIdx,
		NodeType:   LeafNode,
		LeafValue:  t.calculateLeafValue(indices),
		LeftChild:  -1,
		RightChild: -1,
	})
	return nodeIdx
}

// splitInfo describes a candidate split.
type splitInfo struct {
	Feature    int
	Threshold  float64
	Gain       float64
	LeftCount  int
	RightCount int
}

// findBestSplit scans every feature for the highest-gain split.
func (t *Trainer) findBestSplit(indices []int) splitInfo {
	_, cols := t.X.Dims()
	bestSplit := splitInfo{Gain: -math.MaxFloat64}

	for j := 0; j < cols; j++ {
		split := t.findBestSplitForFeature(indices, j)
		if split.Gain > bestSplit.Gain {
			bestSplit = split
		}
	}
	return bestSplit
}

// findBestSplitForFeature finds the best threshold for one feature by a
// sorted sweep over the candidate rows.
func (t *Trainer) findBestSplitForFeature(indices []int, feature int) splitInfo {
	values := make([]struct {
		value float64
		idx   int
	}, len(indices))
	for i, idx := range indices {
		values[i].value = t.X.At(idx, feature)
		values[i].idx = idx
	}
	sort.Slice(values, func(i, j int) bool {
		return values[i].value < values[j].value
	})

	totalGrad := 0.0
	totalHess := 0.0
	for _, idx := range indices {
		totalGrad += t.gradients[idx]
		totalHess += t.hessians[idx]
	}

	bestSplit := splitInfo{
		Feature: feature,
		Gain:    -math.MaxFloat64,
	}

	leftGrad := 0.0
	leftHess := 0.0
	leftCount := 0

	for i := 0; i < len(values)-1; i++ {
		idx := values[i].idx
		leftGrad += t.gradients[idx]
		leftHess += t.hessians[idx]
		leftCount++

		// No split point between equal values.
		if values[i].value == values[i+1].value {
			continue
		}

		rightCount := len(indices) - leftCount
		if leftCount < t.params.MinDataInLeaf || rightCount < t.params.MinDataInLeaf {
			continue
		}

		rightGrad := totalGrad - leftGrad
		rightHess := totalHess - leftHess

		gain := t.calculateSplitGain(leftGrad, leftHess, rightGrad, rightHess, totalGrad, totalHess)
		if gain > bestSplit.Gain {
			bestSplit.Gain = gain
			bestSplit.Threshold = (values[i].value + values[i+1].value) / 2
			bestSplit.LeftCount = leftCount
			bestSplit.RightCount = rightCount
		}
	}
	return bestSplit
}

// calculateSplitGain applies the standard GBDT split gain formula.
func (t *Trainer) calculateSplitGain(leftGrad, leftHess, rightGrad, rightHess, totalGrad, totalHess float64) float64 {
	lambda := t.params.Lambda

	leftScore := (leftGrad * leftGrad) / (leftHess + lambda)
	rightScore := (rightGrad * rightGrad) / (rightHess + lambda)
	totalScore := (totalGrad * totalGrad) / (totalHess + lambda)

	return 0.5 * (leftScore + rightScore - totalScore)
}

// splitData partitions indices by the split threshold.
func (t *Trainer) splitData(indices []int, split splitInfo) ([]int, []int) {
	var leftIndices, rightIndices []int
	for _, idx := range indices {
		if t.X.At(idx, split.Feature) <= split.Threshold {
			leftIndices = append(leftIndices, idx)
		} else {
			rightIndices = append(rightIndices, idx)
		}
	}
	return leftIndices, rightIndices
}

// calculateLeafValue returns the optimal leaf output -G/(H+λ).
func (t *Trainer) calculateLeafValue(indices []int) float64 {
	sumGrad := 0.0
	sumHess := 0.0
	for _, idx := range indices {
		sumGrad += t.gradients[idx]
		sumHess += t.hessians[idx]
	}
	if sumHess+t.params.Lambda == 0 {
		return 0.0
	}
	return -sumGrad / (sumHess + t.params.Lambda)
}

// updatePredictions adds the new tree's shrunk contribution per sample.
func (t *Trainer) updatePredictions(tree Tree) {
	rows, cols := t.X.Dims()
	x := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x[j] = t.X.At(i, j)
		}
		t.predictions[i] += tree.predictRow(x) * t.params.LearningRate
	}
}

// calculateLoss computes the current training MSE.
func (t *Trainer) calculateLoss() float64 {
	rows, _ := t.y.Dims()
	sum := 0.0
	for i := 0; i < rows; i++ {
		diff := t.predictions[i] - t.y.At(i, 0)
		sum += diff * diff
	}
	return sum / float64(rows)
}

func countLeaves(tree *Tree) int {
	count := 0
	for i := range tree.Nodes {
		if tree.Nodes[i].NodeType == LeafNode {
			count++
		}
	}
	return count
}
