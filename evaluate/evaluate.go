// Package evaluate scores fitted models on held-out data and ranks them by
// test RMSE.
package evaluate

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/airbench/core/model"
	"github.com/YuminosukeSato/airbench/metrics"
	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
	"github.com/YuminosukeSato/airbench/pkg/log"
)

// Result is one model's test-set evaluation.
type Result struct {
	// Model is the display name used for ranking and reporting.
	Model string

	// RMSE is the test-set root mean squared error.
	RMSE float64

	// CVRMSE is the training-set cross-validation RMSE, when the caller
	// supplied one (NaN-free; zero means not computed).
	CVRMSE float64

	// Actual and Predicted hold the aligned test-set outcome and
	// prediction pairs, for plotting.
	Actual    []float64
	Predicted []float64
}

// Named couples a fitted model with its display name.
type Named struct {
	Name  string
	Model model.Regressor

	// CVRMSE is the model's training cross-validation score, carried
	// through to the Result.
	CVRMSE float64
}

// Evaluate scores each fitted model on the test features and outcome and
// returns results ranked by ascending RMSE, ties broken alphabetically by
// model name. Models implementing RoundedRegressor are scored on their
// rounded predictions, matching the scale they were fitted on.
func Evaluate(models []Named, X mat.Matrix, y mat.Matrix) ([]Result, error) {
	if len(models) == 0 {
		return nil, airErrors.NewValueError("Evaluate", "no models to evaluate")
	}

	logger := log.GetLoggerWithName("evaluate")

	yVec := colToSlice(y)
	results := make([]Result, 0, len(models))

	for _, nm := range models {
		pred, err := predict(nm.Model, X)
		if err != nil {
			return nil, err
		}

		rmse, err := metrics.RMSEMatrix(y, pred)
		if err != nil {
			return nil, err
		}

		logger.Info("model evaluated",
			log.ModelNameKey, nm.Name,
			log.OperationKey, log.OperationEvaluate,
			log.RMSEKey, rmse,
		)

		results = append(results, Result{
			Model:     nm.Name,
			RMSE:      rmse,
			CVRMSE:    nm.CVRMSE,
			Actual:    yVec,
			Predicted: colToSlice(pred),
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].RMSE != results[b].RMSE {
			return results[a].RMSE < results[b].RMSE
		}
		return results[a].Model < results[b].Model
	})

	return results, nil
}

// predict prefers the rounded prediction path for count-scale models.
func predict(m model.Regressor, X mat.Matrix) (mat.Matrix, error) {
	if rounded, ok := m.(model.RoundedRegressor); ok {
		return rounded.RoundedPredict(X)
	}
	return m.Predict(X)
}

func colToSlice(m mat.Matrix) []float64 {
	r, _ := m.Dims()
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		out[i] = m.At(i, 0)
	}
	return out
}
