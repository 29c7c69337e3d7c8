package scoring

import "math"

// Model labels
const (
	LabelAnomalous = -1
	LabelNormal    = 1
)

// eulerGamma is the Euler–Mascheroni constant used by the isolation forest path length
const eulerGamma = 0.5772156649015329

// Model is a fitted binary anomaly classifier
type Model interface {
	NumFeatures() int
	// DecisionFunction returns the raw decision value; negative means anomalous.
	DecisionFunction(x []float64) float64
	// Predict returns LabelNormal or LabelAnomalous.
	Predict(x []float64) int
}

// TreeNode is one node of an isolation tree. Leaves have Left and Right set to -1.
// Feature indexes the full feature vector.
type TreeNode struct {
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Samples   int     `json:"samples"`
}

// IsolationTree is a flattened tree; node 0 is the root
type IsolationTree struct {
	Nodes []TreeNode `json:"nodes"`
}

// IsolationForest evaluates a fitted isolation forest
type IsolationForest struct {
	Features   int
	MaxSamples int
	Offset     float64
	Trees      []IsolationTree
}

// NumFeatures returns the width of the input vector
func (f *IsolationForest) NumFeatures() int { return f.Features }

// ScoreSamples returns the opposite of the anomaly score; lower is more abnormal
func (f *IsolationForest) ScoreSamples(x []float64) float64 {
	if len(f.Trees) == 0 {
		return -0.5
	}
	depths := 0.0
	for _, tree := range f.Trees {
		depths += tree.pathLength(x)
	}
	mean := depths / float64(len(f.Trees))
	return -math.Pow(2, -mean/averagePathLength(f.MaxSamples))
}

// DecisionFunction shifts ScoreSamples by the fitted offset so that 0 is the inlier threshold
func (f *IsolationForest) DecisionFunction(x []float64) float64 {
	return f.ScoreSamples(x) - f.Offset
}

// Predict labels x; a decision value of exactly zero counts as normal
func (f *IsolationForest) Predict(x []float64) int {
	if f.DecisionFunction(x) < 0 {
		return LabelAnomalous
	}
	return LabelNormal
}

// pathLength walks x down the tree: number of edges plus the expected
// remaining depth of the samples isolated in the reached leaf
func (t IsolationTree) pathLength(x []float64) float64 {
	node, depth := 0, 0
	for {
		n := t.Nodes[node]
		if n.Left < 0 || n.Right < 0 {
			return float64(depth) + averagePathLength(n.Samples)
		}
		if x[n.Feature] <= n.Threshold {
			node = n.Left
		} else {
			node = n.Right
		}
		depth++
	}
}

// averagePathLength is the average path length of an unsuccessful BST search over n points
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	fn := float64(n)
	return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
}

// OneClassSVM evaluates a fitted RBF one-class SVM
type OneClassSVM struct {
	Gamma          float64
	SupportVectors [][]float64
	DualCoef       []float64
	Intercept      float64
}

// NumFeatures returns the width of the input vector
func (m *OneClassSVM) NumFeatures() int {
	if len(m.SupportVectors) == 0 {
		return 0
	}
	return len(m.SupportVectors[0])
}

// DecisionFunction returns the signed distance to the separating hyperplane
func (m *OneClassSVM) DecisionFunction(x []float64) float64 {
	sum := m.Intercept
	for i, sv := range m.SupportVectors {
		d := 0.0
		for j, v := range sv {
			diff := x[j] - v
			d += diff * diff
		}
		sum += m.DualCoef[i] * math.Exp(-m.Gamma*d)
	}
	return sum
}

// Predict labels x; only strictly positive decision values are normal
func (m *OneClassSVM) Predict(x []float64) int {
	if m.DecisionFunction(x) > 0 {
		return LabelNormal
	}
	return LabelAnomalous
}
