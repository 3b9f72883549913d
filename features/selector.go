package features

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/airbench/dataset"
	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
	"github.com/YuminosukeSato/airbench/pkg/log"
)

// Selection is the outcome of predictor screening on the training set.
type Selection struct {
	// Predictors holds the chosen predictor names: the primary predictor
	// (strongest absolute outcome correlation) first, then the remaining
	// picks ordered by absolute loading on the first principal component.
	Predictors []string

	// Correlations maps every candidate predictor to its Pearson
	// correlation with the outcome.
	Correlations map[string]float64

	// Loadings maps every candidate predictor to its loading on the first
	// principal component of the standardized predictor matrix.
	Loadings map[string]float64
}

// SelectPredictors screens the training set's candidate predictors down to
// k picks. The primary pick is the candidate with the largest absolute
// Pearson correlation against the outcome; the rest are ranked by absolute
// PC1 loading, computed from the standardized candidates. Ties break
// alphabetically so the same inputs always give the same selection.
//
// Both statistics use the training set only; the test set never influences
// the selection.
//
// Errors:
//   - SelectionError: fewer than two candidates, a zero-variance candidate,
//     or a failed principal component decomposition
func SelectPredictors(train *dataset.Dataset, k int) (*Selection, error) {
	candidates := train.Schema().Predictors
	if len(candidates) < 2 {
		return nil, airErrors.NewSelectionError("", "need at least two candidate predictors")
	}
	if k <= 0 || k > len(candidates) {
		k = len(candidates)
	}

	yCol, err := train.Column(train.Schema().Outcome)
	if err != nil {
		return nil, err
	}

	correlations := make(map[string]float64, len(candidates))
	for _, name := range candidates {
		col, err := train.Column(name)
		if err != nil {
			return nil, err
		}
		if stat.Variance(col, nil) < 1e-12 {
			return nil, airErrors.NewSelectionError(name, "zero variance in training set")
		}
		correlations[name] = stat.Correlation(col, yCol, nil)
	}

	loadings, err := pc1Loadings(train, candidates)
	if err != nil {
		return nil, err
	}

	primary := rankBy(candidates, correlations)[0]

	rest := make([]string, 0, len(candidates)-1)
	for _, name := range rankBy(candidates, loadings) {
		if name != primary {
			rest = append(rest, name)
		}
	}

	selected := append([]string{primary}, rest...)[:k]

	log.GetLoggerWithName("features").Info("predictors selected",
		log.PredictorsKey, selected,
		"select.primary", primary,
		"select.candidates", len(candidates),
	)

	return &Selection{
		Predictors:   selected,
		Correlations: correlations,
		Loadings:     loadings,
	}, nil
}

// pc1Loadings standardizes the candidate columns and returns each
// candidate's loading on the first principal component.
func pc1Loadings(train *dataset.Dataset, candidates []string) (map[string]float64, error) {
	X, err := train.Matrix(candidates)
	if err != nil {
		return nil, err
	}

	scaled, err := NewStandardScaler().FitTransform(X)
	if err != nil {
		return nil, err
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(scaled, nil); !ok {
		return nil, airErrors.NewSelectionError("", "principal component decomposition failed")
	}

	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	loadings := make(map[string]float64, len(candidates))
	for j, name := range candidates {
		loadings[name] = vectors.At(j, 0)
	}
	return loadings, nil
}

// rankBy orders names by descending absolute score, ties alphabetical.
func rankBy(names []string, scores map[string]float64) []string {
	ranked := append([]string(nil), names...)
	sort.SliceStable(ranked, func(a, b int) bool {
		sa, sb := math.Abs(scores[ranked[a]]), math.Abs(scores[ranked[b]])
		if sa != sb {
			return sa > sb
		}
		return ranked[a] < ranked[b]
	})
	return ranked
}
