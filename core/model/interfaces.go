package model

import (
	"gonum.org/v1/gonum/mat"
)

// Regressor is the common contract of the four model trainers. Fit consumes
// a feature matrix of shape (n_samples, n_features) and a column-vector
// target of shape (n_samples, 1); Predict returns a column vector of
// predictions aligned 1:1 with the input rows.
type Regressor interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// RoundedRegressor is implemented by models whose response scale is
// discrete. RoundedPredict returns predictions rounded to that scale; the
// evaluator prefers it over Predict when computing errors so that count
// models are scored on counts.
type RoundedRegressor interface {
	Regressor
	RoundedPredict(X mat.Matrix) (mat.Matrix, error)
}

// CrossValidated is implemented by trainers that compute an internal
// cross-validation score during fitting.
type CrossValidated interface {
	// CVScore returns the mean RMSE over the internal cross-validation
	// folds from the most recent Fit.
	CVScore() float64
}
