package regress

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
)

func TestPoissonRecoversLogLinearRate(t *testing.T) {
	// Counts follow μ = exp(1 + 0.3x) exactly (rounded); IRLS should land
	// close to the generating coefficients.
	rng := rand.New(rand.NewPCG(5, 5))
	n := 200
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x := rng.Float64() * 8
		X.Set(i, 0, x)
		y.Set(i, 0, math.Round(math.Exp(1+0.3*x)))
	}

	p := NewPoisson()
	require.NoError(t, p.Fit(X, y))
	assert.True(t, p.Converged)

	assert.InDelta(t, 0.3, p.Weights.AtVec(0), 0.05)
	assert.InDelta(t, 1.0, p.Intercept, 0.15)
}

func TestPoissonRoundedPredict(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	n := 100
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x := rng.Float64() * 5
		X.Set(i, 0, x)
		y.Set(i, 0, math.Round(math.Exp(0.5+0.2*x)))
	}

	p := NewPoisson()
	require.NoError(t, p.Fit(X, y))

	rounded, err := p.RoundedPredict(X)
	require.NoError(t, err)

	continuous, err := p.Predict(X)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		v := rounded.At(i, 0)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Equal(t, math.Round(v), v, "rounded prediction must be an integer")
		assert.InDelta(t, continuous.At(i, 0), v, 0.5+1e-9)
	}
}

func TestPoissonRejectsNegativeOutcome(t *testing.T) {
	X := mat.NewDense(12, 1, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
	y := mat.NewDense(12, 1, []float64{1, 2, 3, -4, 5, 6, 7, 8, 9, 10, 11, 12})

	err := NewPoisson().Fit(X, y)

	var fitErr *airErrors.FitError
	require.ErrorAs(t, err, &fitErr)
	assert.Equal(t, PoissonName, fitErr.Model)
}

func TestPoissonNotFitted(t *testing.T) {
	_, err := NewPoisson().RoundedPredict(mat.NewDense(2, 1, nil))

	var notFitted *airErrors.NotFittedError
	require.ErrorAs(t, err, &notFitted)
}
