package regress

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/airbench/core/model"
	"github.com/YuminosukeSato/airbench/core/parallel"
	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
	"github.com/YuminosukeSato/airbench/pkg/log"
)

// ForestName identifies the random forest in rankings and error reports.
const ForestName = "Random Forest"

// RandomForest averages bootstrap-aggregated regression trees. Each tree
// draws its own PCG stream derived from (Seed, tree index), so the forest
// is reproducible regardless of how many goroutines grow it.
type RandomForest struct {
	state model.StateManager

	// NTrees is the ensemble size.
	NTrees int

	// MaxFeatures is the number of features considered at each split;
	// 0 means ⌈p/3⌉, the regression default.
	MaxFeatures int

	// MinLeaf is the minimum number of training rows in a leaf.
	MinLeaf int

	// Seed drives bootstrap sampling and feature subsampling.
	Seed int64

	trees []*regTree
}

// NewRandomForest creates an unfitted forest with nTrees trees and the
// given seed.
func NewRandomForest(nTrees int, seed int64, opts ...ForestOption) *RandomForest {
	rf := &RandomForest{
		NTrees:  nTrees,
		MinLeaf: 5,
		Seed:    seed,
	}
	for _, opt := range opts {
		opt(rf)
	}
	return rf
}

// Name returns the model's display name.
func (rf *RandomForest) Name() string { return ForestName }

// Fit grows the ensemble. Trees are independent and grown in parallel.
//
// Errors:
//   - FitError: empty or mismatched inputs, or a non-positive tree count
func (rf *RandomForest) Fit(X, y mat.Matrix) (err error) {
	defer airErrors.Recover(&err, "RandomForest.Fit")

	r, c, err := validateFitInputs("RandomForest.Fit", X, y)
	if err != nil {
		return airErrors.NewFitError(ForestName, err.Error())
	}
	if rf.NTrees <= 0 {
		return airErrors.NewFitError(ForestName, "tree count must be positive")
	}

	maxFeatures := rf.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Ceil(float64(c) / 3))
	}
	if maxFeatures > c {
		maxFeatures = c
	}
	minLeaf := rf.MinLeaf
	if minLeaf <= 0 {
		minLeaf = 1
	}

	rows := matrixRows(X)
	target := make([]float64, r)
	for i := 0; i < r; i++ {
		target[i] = y.At(i, 0)
	}

	rf.trees = make([]*regTree, rf.NTrees)
	parallel.Parallelize(rf.NTrees, func(start, end int) {
		for k := start; k < end; k++ {
			rng := rand.New(rand.NewPCG(uint64(rf.Seed), uint64(k)))

			// Bootstrap sample: n draws with replacement.
			idx := make([]int, r)
			for i := range idx {
				idx[i] = rng.IntN(r)
			}

			tree := &regTree{maxFeatures: maxFeatures, minLeaf: minLeaf}
			tree.fit(rows, target, idx, rng)
			rf.trees[k] = tree
		}
	})

	rf.state.SetDimensions(c, r)
	rf.state.SetFitted()

	log.GetLoggerWithName("regress").Debug("model fitted",
		log.ModelNameKey, ForestName,
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		"forest.trees", rf.NTrees,
		"forest.max_features", maxFeatures,
	)
	return nil
}

// Predict returns the per-row mean of the tree predictions.
func (rf *RandomForest) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := rf.state.RequireFitted(ForestName, "Predict"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if nFeatures, _ := rf.state.GetDimensions(); c != nFeatures {
		return nil, airErrors.NewDimensionError("RandomForest.Predict", nFeatures, c, 1)
	}

	rows := matrixRows(X)
	predictions := mat.NewDense(r, 1, nil)
	parallel.ParallelizeWithThreshold(r, 256, func(start, end int) {
		for i := start; i < end; i++ {
			var sum float64
			for _, tree := range rf.trees {
				sum += tree.predict(rows[i])
			}
			predictions.Set(i, 0, sum/float64(len(rf.trees)))
		}
	})

	return predictions, nil
}
