package regress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/airbench/core/model"
	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
)

func TestKFoldSplitPartitionsAllRows(t *testing.T) {
	kf := NewKFold(5, 42)

	folds, err := kf.Split(23)
	require.NoError(t, err)
	require.Len(t, folds, 5)

	seen := make(map[int]int)
	for _, fold := range folds {
		assert.Equal(t, 23, len(fold.TrainIdx)+len(fold.TestIdx))
		for _, i := range fold.TestIdx {
			seen[i]++
		}
	}

	// Every row appears in exactly one validation fold.
	require.Len(t, seen, 23)
	for i, count := range seen {
		assert.Equalf(t, 1, count, "row %d in %d folds", i, count)
	}
}

func TestKFoldSplitDeterministic(t *testing.T) {
	folds1, err := NewKFold(10, 7).Split(100)
	require.NoError(t, err)
	folds2, err := NewKFold(10, 7).Split(100)
	require.NoError(t, err)

	assert.Equal(t, folds1, folds2)

	folds3, err := NewKFold(10, 8).Split(100)
	require.NoError(t, err)
	assert.NotEqual(t, folds1, folds3)
}

func TestKFoldSplitErrors(t *testing.T) {
	_, err := NewKFold(10, 1).Split(5)
	assert.Error(t, err)

	_, err = NewKFold(1, 1).Split(50)
	assert.Error(t, err)
}

func TestCrossValRMSE(t *testing.T) {
	// y = 3x + 1 exactly; OLS recovers it, so every fold RMSE is ~0.
	n := 50
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x := float64(i)
		X.Set(i, 0, x)
		y.Set(i, 0, 3*x+1)
	}

	rmse, err := CrossValRMSE(LinearName, func() model.Regressor { return NewLinear() },
		X, y, NewKFold(10, 99))
	require.NoError(t, err)
	assert.InDelta(t, 0, rmse, 1e-6)
}

func TestCrossValRMSETooFewRows(t *testing.T) {
	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})

	_, err := CrossValRMSE(LinearName, func() model.Regressor { return NewLinear() },
		X, y, NewKFold(10, 1))

	var fitErr *airErrors.FitError
	require.ErrorAs(t, err, &fitErr)
	assert.Equal(t, LinearName, fitErr.Model)
}
