// Package features implements the predictor-selection stage: training-set
// standardization, outcome correlation screening, and principal component
// loadings for ranking the secondary predictors.
package features

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/airbench/core/model"
	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
)

// StandardScaler centers each column to mean 0 and scales it to unit
// standard deviation. Statistics come from Fit's input only, so a scaler
// fitted on training data applies the training statistics to any later
// matrix.
type StandardScaler struct {
	state model.StateManager

	// Mean and Scale hold the per-column statistics from Fit.
	Mean  []float64
	Scale []float64
}

// NewStandardScaler creates an unfitted StandardScaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit computes per-column mean and standard deviation.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return airErrors.NewValueError("StandardScaler.Fit", "empty data")
	}

	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		var sum float64
		for i := 0; i < r; i++ {
			sum += X.At(i, j)
		}
		s.Mean[j] = sum / float64(r)

		var sumSq float64
		for i := 0; i < r; i++ {
			d := X.At(i, j) - s.Mean[j]
			sumSq += d * d
		}
		s.Scale[j] = math.Sqrt(sumSq / float64(r))

		// Constant columns pass through unscaled rather than dividing by
		// zero.
		if s.Scale[j] < 1e-8 {
			s.Scale[j] = 1.0
		}
	}

	s.state.SetDimensions(c, r)
	s.state.SetFitted()
	return nil
}

// Transform standardizes X with the fitted statistics.
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.state.RequireFitted("StandardScaler", "Transform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != len(s.Mean) {
		return nil, airErrors.NewDimensionError("StandardScaler.Transform", len(s.Mean), c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}
	return out, nil
}

// FitTransform fits the scaler on X and returns the standardized X.
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
