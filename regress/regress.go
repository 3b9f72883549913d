// Package regress implements the four benchmark regressors — ordinary
// least squares, a Poisson GLM, a random forest, and MARS — together with
// the k-fold cross-validation used to score them on the training set.
//
// All models satisfy model.Regressor: Fit takes an (n, p) feature matrix
// and an (n, 1) target, Predict returns an (n, 1) column of predictions.
// Seeded models take their seed explicitly; nothing reads global random
// state.
package regress

import (
	"gonum.org/v1/gonum/mat"

	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
)

// validateFitInputs checks the common Fit preconditions and returns the
// input dimensions.
func validateFitInputs(op string, X, y mat.Matrix) (rows, cols int, err error) {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return 0, 0, airErrors.NewValueError(op, "empty data")
	}
	if ry != r {
		return 0, 0, airErrors.NewDimensionError(op, r, ry, 0)
	}
	if cy != 1 {
		return 0, 0, airErrors.NewValueError(op, "y must be a column vector")
	}
	return r, c, nil
}

// designMatrix prepends an all-ones intercept column to X.
func designMatrix(X mat.Matrix) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, 1.0)
		for j := 0; j < c; j++ {
			out.Set(i, j+1, X.At(i, j))
		}
	}
	return out
}

// colToVec copies an (n, 1) matrix into a vector.
func colToVec(y mat.Matrix) *mat.VecDense {
	r, _ := y.Dims()
	vec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		vec.SetVec(i, y.At(i, 0))
	}
	return vec
}

// solveOLS solves the normal equations w = (XᵀX)⁻¹ Xᵀy for a design
// matrix X that already includes any intercept column.
func solveOLS(op string, X *mat.Dense, y *mat.VecDense) (*mat.VecDense, error) {
	var xt mat.Dense
	xt.CloneFrom(X.T())

	var xtx mat.Dense
	xtx.Mul(&xt, X)

	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, airErrors.Wrap(airErrors.ErrSingularMatrix, op)
	}

	var xty mat.VecDense
	xty.MulVec(&xt, y)

	_, p := X.Dims()
	w := mat.NewVecDense(p, nil)
	w.MulVec(&inv, &xty)
	return w, nil
}

// matrixRows copies X into a row-major [][]float64. The tree models index
// rows heavily, and slice access beats mat.Matrix.At in the split search.
func matrixRows(X mat.Matrix) [][]float64 {
	r, c := X.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = X.At(i, j)
		}
		rows[i] = row
	}
	return rows
}
