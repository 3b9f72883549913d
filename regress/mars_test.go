package regress

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/airbench/metrics"
	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
)

// hingeData follows a piecewise-linear response with a kink at x=5, the
// shape a single reflected hinge pair captures exactly.
func hingeData(n int, seed uint64) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(seed, seed))
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x1 := rng.Float64() * 10
		x2 := rng.Float64() * 10
		X.Set(i, 0, x1)
		X.Set(i, 1, x2)
		y.Set(i, 0, 3+2*math.Max(0, x1-5)+0.05*rng.NormFloat64())
	}
	return X, y
}

func TestMARSFitsHingeResponse(t *testing.T) {
	X, y := hingeData(250, 31)

	m := NewMARS(10, 42)
	require.NoError(t, m.Fit(X, y))

	pred, err := m.Predict(X)
	require.NoError(t, err)

	rmse, err := metrics.RMSEMatrix(y, pred)
	require.NoError(t, err)
	assert.Less(t, rmse, 0.5)
}

func TestMARSSweepChoosesFromGrid(t *testing.T) {
	X, y := hingeData(200, 3)

	m := NewMARS(5, 11)
	require.NoError(t, m.Fit(X, y))

	assert.Contains(t, m.Degrees, m.Degree)
	assert.Contains(t, m.NPrunes, m.NPrune)
	assert.Greater(t, m.CVScore(), 0.0)
	assert.False(t, math.IsInf(m.CVScore(), 1))
}

func TestMARSDeterministic(t *testing.T) {
	X, y := hingeData(150, 13)

	m1 := NewMARS(5, 21)
	require.NoError(t, m1.Fit(X, y))
	m2 := NewMARS(5, 21)
	require.NoError(t, m2.Fit(X, y))

	assert.Equal(t, m1.Degree, m2.Degree)
	assert.Equal(t, m1.NPrune, m2.NPrune)
	assert.Equal(t, m1.CVScore(), m2.CVScore())
}

func TestMARSTooFewRows(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	err := NewMARS(10, 1).Fit(X, y)

	var fitErr *airErrors.FitError
	require.ErrorAs(t, err, &fitErr)
	assert.Equal(t, MARSName, fitErr.Model)
}

func TestMARSNotFitted(t *testing.T) {
	_, err := NewMARS(10, 1).Predict(mat.NewDense(2, 2, nil))

	var notFitted *airErrors.NotFittedError
	require.ErrorAs(t, err, &notFitted)
}
