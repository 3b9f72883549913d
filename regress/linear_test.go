package regress

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
)

func TestLinearRecoversCoefficients(t *testing.T) {
	// y = 2x₁ + 0.5x₂ + 3 with no noise.
	rng := rand.New(rand.NewPCG(1, 1))
	n := 60
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x1 := rng.Float64() * 10
		x2 := rng.Float64() * 40
		X.Set(i, 0, x1)
		X.Set(i, 1, x2)
		y.Set(i, 0, 2*x1+0.5*x2+3)
	}

	lr := NewLinear()
	require.NoError(t, lr.Fit(X, y))

	assert.InDelta(t, 2.0, lr.Weights.AtVec(0), 1e-8)
	assert.InDelta(t, 0.5, lr.Weights.AtVec(1), 1e-8)
	assert.InDelta(t, 3.0, lr.Intercept, 1e-7)

	pred, err := lr.Predict(X)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		assert.InDelta(t, y.At(i, 0), pred.At(i, 0), 1e-6)
	}
}

func TestLinearNotFitted(t *testing.T) {
	_, err := NewLinear().Predict(mat.NewDense(2, 2, nil))

	var notFitted *airErrors.NotFittedError
	require.ErrorAs(t, err, &notFitted)
}

func TestLinearFitErrors(t *testing.T) {
	tests := []struct {
		name string
		X    *mat.Dense
		y    *mat.Dense
	}{
		{
			name: "row count mismatch",
			X:    mat.NewDense(3, 1, []float64{1, 2, 3}),
			y:    mat.NewDense(2, 1, []float64{1, 2}),
		},
		{
			name: "y not a column",
			X:    mat.NewDense(2, 1, []float64{1, 2}),
			y:    mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
		},
		{
			name: "singular design",
			X:    mat.NewDense(3, 2, []float64{1, 2, 2, 4, 3, 6}),
			y:    mat.NewDense(3, 1, []float64{1, 2, 3}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewLinear().Fit(tt.X, tt.y)

			var fitErr *airErrors.FitError
			require.ErrorAs(t, err, &fitErr)
			assert.Equal(t, LinearName, fitErr.Model)
		})
	}
}

func TestLinearPredictDimensionMismatch(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	lr := NewLinear()
	require.NoError(t, lr.Fit(X, y))

	_, err := lr.Predict(mat.NewDense(2, 3, nil))

	var dimErr *airErrors.DimensionError
	require.ErrorAs(t, err, &dimErr)
}
