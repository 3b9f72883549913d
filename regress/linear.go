package regress

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/airbench/core/model"
	"github.com/YuminosukeSato/airbench/core/parallel"
	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
	"github.com/YuminosukeSato/airbench/pkg/log"
)

// LinearName identifies the OLS model in rankings and error reports.
const LinearName = "Linear Model"

// Linear is an ordinary least squares regressor fitted by the normal
// equations.
type Linear struct {
	state model.StateManager

	Weights   *mat.VecDense
	Intercept float64
}

// NewLinear creates an unfitted Linear model.
func NewLinear() *Linear {
	return &Linear{}
}

// Name returns the model's display name.
func (lr *Linear) Name() string { return LinearName }

// Fit solves w = (XᵀX)⁻¹ Xᵀy on an intercept-augmented design matrix.
//
// Errors:
//   - FitError: empty or mismatched inputs, or a singular design matrix
func (lr *Linear) Fit(X, y mat.Matrix) (err error) {
	defer airErrors.Recover(&err, "Linear.Fit")

	r, c, err := validateFitInputs("Linear.Fit", X, y)
	if err != nil {
		return airErrors.NewFitError(LinearName, err.Error())
	}

	design := mat.NewDense(r, c+1, nil)
	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			design.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				design.Set(i, j+1, X.At(i, j))
			}
		}
	})

	weights, err := solveOLS("Linear.Fit", design, colToVec(y))
	if err != nil {
		return airErrors.NewFitError(LinearName, "singular design matrix")
	}

	lr.Intercept = weights.AtVec(0)
	lr.Weights = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		lr.Weights.SetVec(j, weights.AtVec(j+1))
	}

	lr.state.SetDimensions(c, r)
	lr.state.SetFitted()

	log.GetLoggerWithName("regress").Debug("model fitted",
		log.ModelNameKey, LinearName,
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)
	return nil
}

// Predict returns ŷ = Xw + b as an (n, 1) column.
func (lr *Linear) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted(LinearName, "Predict"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if nFeatures, _ := lr.state.GetDimensions(); c != nFeatures {
		return nil, airErrors.NewDimensionError("Linear.Predict", nFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := lr.Intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * lr.Weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}
	return predictions, nil
}
