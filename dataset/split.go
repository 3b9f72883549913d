package dataset

import (
	"math"
	"math/rand/v2"
	"sort"

	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
	"github.com/YuminosukeSato/airbench/pkg/log"
)

// splitBins is the number of outcome-quantile strata used by Split. Four
// bins keeps the outcome distribution loosely balanced between train and
// test without demanding large per-stratum counts.
const splitBins = 4

// Split partitions the dataset into disjoint train and test subsets where
// the train set holds approximately fraction p of the rows. The split is
// stratified on outcome quantile bins: rows are ordered by outcome, chopped
// into equal strata, and each stratum is shuffled and divided independently,
// so both subsets see the full outcome range.
//
// The same (dataset, p, seed) always yields the same partition.
//
// Errors:
//   - PartitionError: p outside (0, 1), or too few rows to populate both
//     subsets
func (d *Dataset) Split(p float64, seed int64) (train, test *Dataset, err error) {
	n := d.NumRows()

	if p <= 0 || p >= 1 {
		return nil, nil, airErrors.NewPartitionError(p, n, "train fraction must be in (0, 1)")
	}
	if n < 2 {
		return nil, nil, airErrors.NewPartitionError(p, n, "need at least 2 rows to split")
	}

	// Order row indices by outcome so consecutive runs form quantile bins.
	// Ties break on index to keep the ordering deterministic.
	outcome := d.Outcome()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return outcome.AtVec(order[a]) < outcome.AtVec(order[b])
	})

	bins := splitBins
	if bins > n {
		bins = 1
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	var trainIdx, testIdx []int
	binSize := (n + bins - 1) / bins
	for start := 0; start < n; start += binSize {
		end := start + binSize
		if end > n {
			end = n
		}
		bin := append([]int(nil), order[start:end]...)

		rng.Shuffle(len(bin), func(i, j int) {
			bin[i], bin[j] = bin[j], bin[i]
		})

		nTrain := int(math.Round(p * float64(len(bin))))
		trainIdx = append(trainIdx, bin[:nTrain]...)
		testIdx = append(testIdx, bin[nTrain:]...)
	}

	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return nil, nil, airErrors.NewPartitionError(p, n, "split left one subset empty")
	}

	// Subsets keep the original row order; the randomness lives in the
	// assignment, not the sequence.
	sort.Ints(trainIdx)
	sort.Ints(testIdx)

	log.GetLoggerWithName("dataset").Info("dataset split",
		log.SplitFractionKey, p,
		log.SeedKey, seed,
		log.SamplesKey, n,
		"split.train", len(trainIdx),
		"split.test", len(testIdx),
	)

	return d.Subset(trainIdx), d.Subset(testIdx), nil
}
