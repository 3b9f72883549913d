package regress

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/airbench/core/model"
	"github.com/YuminosukeSato/airbench/metrics"
	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
	"github.com/YuminosukeSato/airbench/pkg/log"
)

// Fold is one train/validation assignment of row indices.
type Fold struct {
	TrainIdx []int
	TestIdx  []int
}

// KFold produces k disjoint validation folds over n rows. With Shuffle set,
// rows are permuted with a PCG stream seeded from Seed, so the same
// (n, k, seed) always yields the same folds.
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    int64
}

// NewKFold returns a shuffled KFold with the given fold count and seed.
func NewKFold(nSplits int, seed int64) *KFold {
	return &KFold{NSplits: nSplits, Shuffle: true, Seed: seed}
}

// Split assigns n rows to NSplits folds. Fold sizes differ by at most one.
func (k *KFold) Split(n int) ([]Fold, error) {
	if k.NSplits < 2 {
		return nil, airErrors.NewValueError("KFold.Split", "need at least 2 folds")
	}
	if n < k.NSplits {
		return nil, airErrors.NewValueError("KFold.Split",
			fmt.Sprintf("cannot split %d rows into %d folds", n, k.NSplits))
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if k.Shuffle {
		rng := rand.New(rand.NewPCG(uint64(k.Seed), uint64(k.Seed)))
		rng.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, k.NSplits)
	foldSize := n / k.NSplits
	remainder := n % k.NSplits

	start := 0
	for f := 0; f < k.NSplits; f++ {
		size := foldSize
		if f < remainder {
			size++
		}
		testIdx := indices[start : start+size]

		trainIdx := make([]int, 0, n-size)
		trainIdx = append(trainIdx, indices[:start]...)
		trainIdx = append(trainIdx, indices[start+size:]...)

		folds[f] = Fold{
			TrainIdx: append([]int(nil), trainIdx...),
			TestIdx:  append([]int(nil), testIdx...),
		}
		start += size
	}

	return folds, nil
}

// CrossValRMSE estimates a model's RMSE by k-fold cross-validation: for
// each fold, a fresh model from factory is fitted on the fold's training
// rows and scored on its validation rows; the mean of the fold RMSEs is
// returned. Folds run concurrently — factories must return independent
// model instances.
//
// Errors:
//   - FitError: too few rows for the fold count, or any fold fit fails
func CrossValRMSE(name string, factory func() model.Regressor, X, y mat.Matrix, kf *KFold) (float64, error) {
	n, _ := X.Dims()
	if n < kf.NSplits {
		return 0, airErrors.NewFitError(name,
			fmt.Sprintf("need at least %d rows for %d-fold cross-validation, got %d",
				kf.NSplits, kf.NSplits, n))
	}

	folds, err := kf.Split(n)
	if err != nil {
		return 0, airErrors.NewFitError(name, err.Error())
	}

	logger := log.GetLoggerWithName("regress").With(
		log.ModelNameKey, name,
		log.OperationKey, log.OperationCrossValidate,
		log.FoldsKey, kf.NSplits,
	)

	rmses := make([]float64, len(folds))
	errs := make([]error, len(folds))

	var wg sync.WaitGroup
	for f, fold := range folds {
		wg.Add(1)
		go func(f int, fold Fold) {
			defer wg.Done()
			rmses[f], errs[f] = foldRMSE(factory(), X, y, fold)
		}(f, fold)
	}
	wg.Wait()

	var sum float64
	for f, err := range errs {
		if err != nil {
			return 0, airErrors.NewFitError(name,
				fmt.Sprintf("fold %d: %v", f, err))
		}
		sum += rmses[f]
	}
	mean := sum / float64(len(folds))

	logger.Info("cross-validation complete", log.CVRMSEKey, mean)
	return mean, nil
}

func foldRMSE(m model.Regressor, X, y mat.Matrix, fold Fold) (float64, error) {
	trainX, trainY := subsetXY(X, y, fold.TrainIdx)
	testX, testY := subsetXY(X, y, fold.TestIdx)

	if err := m.Fit(trainX, trainY); err != nil {
		return 0, err
	}

	pred, err := m.Predict(testX)
	if err != nil {
		return 0, err
	}
	return metrics.RMSEMatrix(testY, pred)
}

// subsetXY extracts the indexed rows of X and y.
func subsetXY(X, y mat.Matrix, idx []int) (*mat.Dense, *mat.Dense) {
	_, c := X.Dims()
	subX := mat.NewDense(len(idx), c, nil)
	subY := mat.NewDense(len(idx), 1, nil)
	for i, row := range idx {
		for j := 0; j < c; j++ {
			subX.Set(i, j, X.At(row, j))
		}
		subY.Set(i, 0, y.At(row, 0))
	}
	return subX, subY
}
