package regress

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/airbench/core/model"
	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
	"github.com/YuminosukeSato/airbench/pkg/log"
)

// PoissonName identifies the Poisson GLM in rankings and error reports.
const PoissonName = "Poisson Model"

// Poisson is a Poisson GLM with log link, fitted by iteratively reweighted
// least squares. The outcome is rounded to counts before fitting, so the
// model treats the measured concentrations as count data.
type Poisson struct {
	state model.StateManager

	// MaxIter and Tol control the IRLS loop.
	MaxIter int
	Tol     float64

	Weights   *mat.VecDense
	Intercept float64

	// Converged reports whether the last Fit reached Tol within MaxIter.
	Converged bool
}

// linkClip bounds the linear predictor so exp never overflows.
const linkClip = 30.0

// NewPoisson creates an unfitted Poisson model with default IRLS settings.
func NewPoisson(opts ...PoissonOption) *Poisson {
	p := &Poisson{
		MaxIter: 25,
		Tol:     1e-8,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the model's display name.
func (p *Poisson) Name() string { return PoissonName }

// Fit rounds y to counts and runs IRLS for the log-link Poisson likelihood.
// Non-convergence is reported as a ConvergenceWarning, not an error; the
// coefficients from the last iteration are kept.
//
// Errors:
//   - FitError: empty or mismatched inputs, a negative outcome after
//     rounding, or a singular weighted design matrix
func (p *Poisson) Fit(X, y mat.Matrix) (err error) {
	defer airErrors.Recover(&err, "Poisson.Fit")

	r, c, err := validateFitInputs("Poisson.Fit", X, y)
	if err != nil {
		return airErrors.NewFitError(PoissonName, err.Error())
	}

	// Round the outcome to the count scale the likelihood assumes.
	counts := make([]float64, r)
	var mean float64
	for i := 0; i < r; i++ {
		v := math.Round(y.At(i, 0))
		if v < 0 {
			return airErrors.NewFitError(PoissonName,
				fmt.Sprintf("outcome at row %d rounds to %g; counts must be non-negative", i, v))
		}
		counts[i] = v
		mean += v
	}
	mean /= float64(r)

	design := designMatrix(X)

	// Start from the intercept-only model.
	beta := mat.NewVecDense(c+1, nil)
	beta.SetVec(0, math.Log(mean+1e-8))

	p.Converged = false
	for iter := 0; iter < p.MaxIter; iter++ {
		eta := make([]float64, r)
		mu := make([]float64, r)
		for i := 0; i < r; i++ {
			var e float64
			for j := 0; j <= c; j++ {
				e += design.At(i, j) * beta.AtVec(j)
			}
			eta[i] = clip(e, -linkClip, linkClip)
			mu[i] = math.Exp(eta[i])
		}

		// Working response z = η + (y - μ)/μ with weights W = μ. Solve the
		// weighted normal equations (XᵀWX)β = XᵀWz via √W scaling.
		scaledX := mat.NewDense(r, c+1, nil)
		scaledZ := mat.NewVecDense(r, nil)
		for i := 0; i < r; i++ {
			w := math.Sqrt(mu[i])
			z := eta[i] + (counts[i]-mu[i])/mu[i]
			for j := 0; j <= c; j++ {
				scaledX.Set(i, j, w*design.At(i, j))
			}
			scaledZ.SetVec(i, w*z)
		}

		next, err := solveOLS("Poisson.Fit", scaledX, scaledZ)
		if err != nil {
			return airErrors.NewFitError(PoissonName, "singular weighted design matrix")
		}

		var maxDelta float64
		for j := 0; j <= c; j++ {
			d := math.Abs(next.AtVec(j) - beta.AtVec(j))
			if d > maxDelta {
				maxDelta = d
			}
		}
		beta = next

		if maxDelta < p.Tol {
			p.Converged = true
			break
		}
	}

	if !p.Converged {
		airErrors.Warn(airErrors.NewConvergenceWarning("Poisson.Fit", p.MaxIter,
			fmt.Sprintf("tolerance %g not reached", p.Tol)))
	}

	p.Intercept = beta.AtVec(0)
	p.Weights = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		p.Weights.SetVec(j, beta.AtVec(j+1))
	}

	p.state.SetDimensions(c, r)
	p.state.SetFitted()

	log.GetLoggerWithName("regress").Debug("model fitted",
		log.ModelNameKey, PoissonName,
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		"fit.converged", p.Converged,
	)
	return nil
}

// Predict returns the expected counts μ = exp(Xw + b) on the continuous
// scale.
func (p *Poisson) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := p.state.RequireFitted(PoissonName, "Predict"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if nFeatures, _ := p.state.GetDimensions(); c != nFeatures {
		return nil, airErrors.NewDimensionError("Poisson.Predict", nFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		eta := p.Intercept
		for j := 0; j < c; j++ {
			eta += X.At(i, j) * p.Weights.AtVec(j)
		}
		predictions.Set(i, 0, math.Exp(clip(eta, -linkClip, linkClip)))
	}
	return predictions, nil
}

// RoundedPredict returns Predict's expected counts rounded to non-negative
// integers, the scale the model was fitted on.
func (p *Poisson) RoundedPredict(X mat.Matrix) (mat.Matrix, error) {
	pred, err := p.Predict(X)
	if err != nil {
		return nil, err
	}

	r, _ := pred.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		v := math.Round(pred.At(i, 0))
		if v < 0 {
			v = 0
		}
		out.Set(i, 0, v)
	}
	return out, nil
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
