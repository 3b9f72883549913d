package regress

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/airbench/core/model"
	"github.com/YuminosukeSato/airbench/metrics"
	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
	"github.com/YuminosukeSato/airbench/pkg/log"
)

// MARSName identifies the MARS model in rankings and error reports.
const MARSName = "MARS"

// hinge is one factor of a basis term: max(0, x-knot) when positive, else
// max(0, knot-x).
type hinge struct {
	feature  int
	knot     float64
	positive bool
}

// basisTerm is a product of hinges. The empty term is the intercept.
type basisTerm []hinge

func (b basisTerm) eval(row []float64) float64 {
	v := 1.0
	for _, h := range b {
		var f float64
		if h.positive {
			f = row[h.feature] - h.knot
		} else {
			f = h.knot - row[h.feature]
		}
		if f <= 0 {
			return 0
		}
		v *= f
	}
	return v
}

func (b basisTerm) usesFeature(f int) bool {
	for _, h := range b {
		if h.feature == f {
			return true
		}
	}
	return false
}

// MARS is a multivariate adaptive regression splines model. Fit sweeps the
// hyperparameter grid Degrees × NPrunes by internal cross-validation on its
// training data, keeps the combination with the lowest mean fold RMSE, and
// refits it on the full training set.
type MARS struct {
	state model.StateManager

	// Degrees holds the candidate interaction degrees (default 1 and 2).
	Degrees []int

	// NPrunes holds the candidate pruned model sizes, counted in basis
	// terms including the intercept (default 2 through 5).
	NPrunes []int

	// Folds is the internal cross-validation fold count.
	Folds int

	// Seed drives the internal fold assignment.
	Seed int64

	// Degree and NPrune are the hyperparameters chosen by the last Fit.
	Degree int
	NPrune int

	cvScore float64
	terms   []basisTerm
	coef    *mat.VecDense
}

// NewMARS creates an unfitted MARS model with the default hyperparameter
// grid and the given seed.
func NewMARS(folds int, seed int64, opts ...MARSOption) *MARS {
	m := &MARS{
		Degrees: []int{1, 2},
		NPrunes: []int{2, 3, 4, 5},
		Folds:   folds,
		Seed:    seed,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the model's display name.
func (m *MARS) Name() string { return MARSName }

// CVScore returns the mean fold RMSE of the hyperparameters chosen by the
// last Fit.
func (m *MARS) CVScore() float64 { return m.cvScore }

// Fit selects (degree, nprune) by cross-validation and refits the winner.
// Ties in mean fold RMSE break toward the simpler model: lower degree
// first, then fewer terms.
//
// Errors:
//   - FitError: empty or mismatched inputs, fewer rows than folds, or no
//     grid combination that produced a solvable model
func (m *MARS) Fit(X, y mat.Matrix) (err error) {
	defer airErrors.Recover(&err, "MARS.Fit")

	r, c, err := validateFitInputs("MARS.Fit", X, y)
	if err != nil {
		return airErrors.NewFitError(MARSName, err.Error())
	}
	if r < m.Folds {
		return airErrors.NewFitError(MARSName,
			fmt.Sprintf("need at least %d rows for %d-fold cross-validation, got %d",
				m.Folds, m.Folds, r))
	}

	rows := matrixRows(X)
	target := make([]float64, r)
	for i := 0; i < r; i++ {
		target[i] = y.At(i, 0)
	}

	kf := NewKFold(m.Folds, m.Seed)
	folds, ferr := kf.Split(r)
	if ferr != nil {
		return airErrors.NewFitError(MARSName, ferr.Error())
	}

	maxTerms := maxInt(m.NPrunes) + 2

	type combo struct {
		degree, nprune int
	}
	scores := make(map[combo]float64)
	counts := make(map[combo]int)

	for _, degree := range m.Degrees {
		for _, fold := range folds {
			foldRows, foldY := rowsAt(rows, target, fold.TrainIdx)
			valRows, valY := rowsAt(rows, target, fold.TestIdx)

			full := forwardPass(foldRows, foldY, degree, maxTerms)
			bySize := backwardPrune(foldRows, foldY, full)

			for _, nprune := range m.NPrunes {
				terms := termsForSize(bySize, full, nprune)
				coef, err := fitBasis(foldRows, foldY, terms)
				if err != nil {
					continue
				}
				rmse := basisRMSE(valRows, valY, terms, coef)
				key := combo{degree, nprune}
				scores[key] += rmse
				counts[key]++
			}
		}
	}

	best := combo{}
	bestScore := math.Inf(1)
	for _, degree := range m.Degrees {
		for _, nprune := range m.NPrunes {
			key := combo{degree, nprune}
			if counts[key] < len(folds) {
				continue
			}
			mean := scores[key] / float64(counts[key])
			if mean < bestScore {
				bestScore = mean
				best = key
			}
		}
	}
	if math.IsInf(bestScore, 1) {
		return airErrors.NewFitError(MARSName, "no hyperparameter combination produced a solvable model")
	}

	// Refit the winning combination on the full training set.
	full := forwardPass(rows, target, best.degree, maxTerms)
	bySize := backwardPrune(rows, target, full)
	terms := termsForSize(bySize, full, best.nprune)
	coef, cerr := fitBasis(rows, target, terms)
	if cerr != nil {
		return airErrors.NewFitError(MARSName, "singular basis matrix on final refit")
	}

	m.Degree = best.degree
	m.NPrune = best.nprune
	m.cvScore = bestScore
	m.terms = terms
	m.coef = coef

	m.state.SetDimensions(c, r)
	m.state.SetFitted()

	log.GetLoggerWithName("regress").Debug("model fitted",
		log.ModelNameKey, MARSName,
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		"mars.degree", best.degree,
		"mars.nprune", best.nprune,
		log.CVRMSEKey, bestScore,
	)
	return nil
}

// Predict evaluates the pruned basis expansion on X.
func (m *MARS) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := m.state.RequireFitted(MARSName, "Predict"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if nFeatures, _ := m.state.GetDimensions(); c != nFeatures {
		return nil, airErrors.NewDimensionError("MARS.Predict", nFeatures, c, 1)
	}

	rows := matrixRows(X)
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		var pred float64
		for t, term := range m.terms {
			pred += m.coef.AtVec(t) * term.eval(rows[i])
		}
		predictions.Set(i, 0, pred)
	}
	return predictions, nil
}

// forwardPass grows the basis from the bare intercept by repeatedly adding
// the reflected hinge pair that most reduces the training RSS. Knots are
// the training deciles of each feature; a parent term never reuses a
// feature it already hinges on.
func forwardPass(rows [][]float64, y []float64, degree, maxTerms int) []basisTerm {
	terms := []basisTerm{{}}
	p := len(rows[0])

	knots := make([][]float64, p)
	for f := 0; f < p; f++ {
		knots[f] = decileKnots(rows, f)
	}

	currentRSS, err := basisRSS(rows, y, terms)
	if err != nil {
		return terms
	}

	for len(terms)+2 <= maxTerms {
		bestRSS := currentRSS
		var bestPair [2]basisTerm
		found := false

		for _, parent := range terms {
			if len(parent) >= degree {
				continue
			}
			for f := 0; f < p; f++ {
				if parent.usesFeature(f) {
					continue
				}
				for _, knot := range knots[f] {
					pos := append(append(basisTerm{}, parent...), hinge{feature: f, knot: knot, positive: true})
					neg := append(append(basisTerm{}, parent...), hinge{feature: f, knot: knot, positive: false})

					candidate := append(append([]basisTerm{}, terms...), pos, neg)
					rss, err := basisRSS(rows, y, candidate)
					if err != nil {
						continue
					}
					if rss < bestRSS-1e-12 {
						bestRSS = rss
						bestPair = [2]basisTerm{pos, neg}
						found = true
					}
				}
			}
		}

		if !found {
			break
		}
		terms = append(terms, bestPair[0], bestPair[1])
		currentRSS = bestRSS
	}

	return terms
}

// backwardPrune greedily deletes the non-intercept term whose removal
// hurts the training RSS least, recording the surviving term set at every
// size. The returned map is keyed by term count.
func backwardPrune(rows [][]float64, y []float64, full []basisTerm) map[int][]basisTerm {
	bySize := map[int][]basisTerm{
		len(full): append([]basisTerm(nil), full...),
	}

	current := append([]basisTerm(nil), full...)
	for len(current) > 1 {
		bestRSS := math.Inf(1)
		bestDrop := -1

		for drop := 1; drop < len(current); drop++ {
			reduced := make([]basisTerm, 0, len(current)-1)
			reduced = append(reduced, current[:drop]...)
			reduced = append(reduced, current[drop+1:]...)

			rss, err := basisRSS(rows, y, reduced)
			if err != nil {
				continue
			}
			if rss < bestRSS {
				bestRSS = rss
				bestDrop = drop
			}
		}
		if bestDrop < 0 {
			break
		}

		current = append(current[:bestDrop], current[bestDrop+1:]...)
		bySize[len(current)] = append([]basisTerm(nil), current...)
	}

	return bySize
}

// termsForSize returns the recorded model of the requested size, falling
// back to the full forward model when the forward pass stopped short.
func termsForSize(bySize map[int][]basisTerm, full []basisTerm, size int) []basisTerm {
	if terms, ok := bySize[size]; ok {
		return terms
	}
	if size >= len(full) {
		return full
	}
	// Sizes skipped by pruning fall back to the next smaller recorded set.
	for s := size - 1; s >= 1; s-- {
		if terms, ok := bySize[s]; ok {
			return terms
		}
	}
	return full
}

// fitBasis solves the OLS coefficients for the given basis terms.
func fitBasis(rows [][]float64, y []float64, terms []basisTerm) (*mat.VecDense, error) {
	B := mat.NewDense(len(rows), len(terms), nil)
	for i, row := range rows {
		for t, term := range terms {
			B.Set(i, t, term.eval(row))
		}
	}
	return solveOLS("MARS.fitBasis", B, mat.NewVecDense(len(y), append([]float64(nil), y...)))
}

func basisRSS(rows [][]float64, y []float64, terms []basisTerm) (float64, error) {
	coef, err := fitBasis(rows, y, terms)
	if err != nil {
		return 0, err
	}

	var rss float64
	for i, row := range rows {
		var pred float64
		for t, term := range terms {
			pred += coef.AtVec(t) * term.eval(row)
		}
		d := y[i] - pred
		rss += d * d
	}
	return rss, nil
}

func basisRMSE(rows [][]float64, y []float64, terms []basisTerm, coef *mat.VecDense) float64 {
	yTrue := mat.NewVecDense(len(y), append([]float64(nil), y...))
	yPred := mat.NewVecDense(len(y), nil)
	for i, row := range rows {
		var pred float64
		for t, term := range terms {
			pred += coef.AtVec(t) * term.eval(row)
		}
		yPred.SetVec(i, pred)
	}
	rmse, err := metrics.RMSE(yTrue, yPred)
	if err != nil {
		return math.Inf(1)
	}
	return rmse
}

// decileKnots returns the distinct interior deciles of feature f.
func decileKnots(rows [][]float64, f int) []float64 {
	vals := make([]float64, len(rows))
	for i, row := range rows {
		vals[i] = row[f]
	}
	sort.Float64s(vals)

	var knots []float64
	for q := 1; q <= 9; q++ {
		k := vals[(q*len(vals))/10]
		if len(knots) == 0 || k != knots[len(knots)-1] {
			knots = append(knots, k)
		}
	}
	return knots
}

// rowsAt extracts the indexed rows and targets.
func rowsAt(rows [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	outRows := make([][]float64, len(idx))
	outY := make([]float64, len(idx))
	for i, j := range idx {
		outRows[i] = rows[j]
		outY[i] = y[j]
	}
	return outRows, outY
}

func maxInt(vals []int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
