package regress

import (
	"math"
	"math/rand/v2"
)

// treeNode is one node of a regression tree. Leaves carry the mean outcome
// of their training rows; internal nodes route on feature < threshold.
type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// regTree is a CART-style regression tree grown by greedy variance
// reduction. It is the base learner of RandomForest and is not exported;
// the forest owns randomization and aggregation.
type regTree struct {
	root        *treeNode
	maxFeatures int
	minLeaf     int
	maxDepth    int
}

// fit grows the tree on the rows at idx. rng drives the per-node feature
// subsampling; the caller seeds it, so identical seeds grow identical
// trees.
func (t *regTree) fit(rows [][]float64, y []float64, idx []int, rng *rand.Rand) {
	t.root = t.grow(rows, y, idx, 0, rng)
}

func (t *regTree) grow(rows [][]float64, y []float64, idx []int, depth int, rng *rand.Rand) *treeNode {
	node := &treeNode{leaf: true, value: meanAt(y, idx)}

	if len(idx) < 2*t.minLeaf {
		return node
	}
	if t.maxDepth > 0 && depth >= t.maxDepth {
		return node
	}

	feature, threshold, ok := t.bestSplit(rows, y, idx, rng)
	if !ok {
		return node
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if rows[i][feature] < threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	if len(leftIdx) < t.minLeaf || len(rightIdx) < t.minLeaf {
		return node
	}

	node.leaf = false
	node.feature = feature
	node.threshold = threshold
	node.left = t.grow(rows, y, leftIdx, depth+1, rng)
	node.right = t.grow(rows, y, rightIdx, depth+1, rng)
	return node
}

// bestSplit searches a random subset of maxFeatures features for the
// (feature, threshold) pair with the lowest total sum of squared errors.
func (t *regTree) bestSplit(rows [][]float64, y []float64, idx []int, rng *rand.Rand) (int, float64, bool) {
	p := len(rows[0])
	features := samplePerm(p, t.maxFeatures, rng)

	bestSSE := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	// Sorted scan per feature: running left-side sums give each candidate
	// split's SSE in O(1).
	vals := make([]float64, len(idx))
	order := make([]int, len(idx))
	for _, f := range features {
		for k, i := range idx {
			vals[k] = rows[i][f]
			order[k] = i
		}
		sortByValue(order, vals)

		var totalSum, totalSq float64
		for _, i := range order {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}

		var leftSum, leftSq float64
		n := float64(len(order))
		for k := 0; k < len(order)-1; k++ {
			yi := y[order[k]]
			leftSum += yi
			leftSq += yi * yi

			if vals[k+1] == vals[k] {
				continue
			}
			nl := float64(k + 1)
			nr := n - nl
			if int(nl) < t.minLeaf || int(nr) < t.minLeaf {
				continue
			}

			sse := (leftSq - leftSum*leftSum/nl) +
				((totalSq - leftSq) - (totalSum-leftSum)*(totalSum-leftSum)/nr)
			if sse < bestSSE {
				bestSSE = sse
				bestFeature = f
				bestThreshold = (vals[k] + vals[k+1]) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

// predict routes one row to its leaf mean.
func (t *regTree) predict(row []float64) float64 {
	node := t.root
	for !node.leaf {
		if row[node.feature] < node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

func meanAt(y []float64, idx []int) float64 {
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

// samplePerm draws k distinct values from [0, p) via a partial
// Fisher-Yates shuffle.
func samplePerm(p, k int, rng *rand.Rand) []int {
	if k >= p {
		all := make([]int, p)
		for i := range all {
			all[i] = i
		}
		return all
	}

	pool := make([]int, p)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.IntN(p-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// sortByValue sorts order and vals together by ascending vals, breaking
// ties on the row index so the scan order is deterministic.
func sortByValue(order []int, vals []float64) {
	// Insertion sort keeps the hot path allocation-free; node subsets are
	// small once the tree is a few levels deep.
	for i := 1; i < len(vals); i++ {
		v, o := vals[i], order[i]
		j := i - 1
		for j >= 0 && (vals[j] > v || (vals[j] == v && order[j] > o)) {
			vals[j+1], order[j+1] = vals[j], order[j]
			j--
		}
		vals[j+1], order[j+1] = v, o
	}
}
