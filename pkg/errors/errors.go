// Package errors provides the error handling and warning system for the
// airbench pipeline. Every stage of a run (load, split, select, train,
// evaluate) fails with one of the structured error types defined here so
// that a failure can be attributed to its stage and logged with context.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// Default handler logs to standard error.
		log.Printf("airbench-warning: %v\n", w)
	}
	// zerolog-backed warning sink, injected lazily to avoid a circular import
	// with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the process-wide warning handler. Warnings such as
// ConvergenceWarning are advisory and never abort a run.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // drop warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc injects a zerolog warning sink (avoids circular import).
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning. When a zerolog sink is installed it takes precedence
// over the plain handler.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Pipeline stage errors
//
// ===========================================================================

// RetrievalError indicates that the dataset source (file path or URL) could
// not be opened or fetched. A single attempt is made; there is no retry.
type RetrievalError struct {
	Source string
	Err    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("airbench: failed to retrieve dataset from %q: %v", e.Source, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds structured retrieval context to a zerolog event.
func (e *RetrievalError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).
		AnErr("cause", e.Err).
		Str("type", "RetrievalError")
}

// NewRetrievalError creates a RetrievalError with a stack trace attached.
func NewRetrievalError(source string, err error) error {
	return errors.WithStack(&RetrievalError{Source: source, Err: err})
}

// SchemaError indicates that the retrieved table does not match the expected
// schema: a required column is missing, or a cell cannot be parsed as a
// number. Row is 1-based over data rows; -1 means the header.
type SchemaError struct {
	Source string
	Column string
	Row    int
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("airbench: schema mismatch in %q: column %q: %s", e.Source, e.Column, e.Reason)
	}
	return fmt.Sprintf("airbench: schema mismatch in %q: column %q, row %d: %s", e.Source, e.Column, e.Row, e.Reason)
}

// MarshalZerologObject adds structured schema context to a zerolog event.
func (e *SchemaError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).
		Str("column", e.Column).
		Int("row", e.Row).
		Str("reason", e.Reason).
		Str("type", "SchemaError")
}

// NewSchemaError creates a SchemaError with a stack trace attached.
func NewSchemaError(source, column string, row int, reason string) error {
	return errors.WithStack(&SchemaError{Source: source, Column: column, Row: row, Reason: reason})
}

// PartitionError indicates an invalid train/test split request: a fraction
// outside (0,1) or an empty dataset.
type PartitionError struct {
	Fraction float64
	Rows     int
	Reason   string
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("airbench: cannot partition %d rows with fraction %g: %s", e.Rows, e.Fraction, e.Reason)
}

// MarshalZerologObject adds structured partition context to a zerolog event.
func (e *PartitionError) MarshalZerologObject(event *zerolog.Event) {
	event.Float64("fraction", e.Fraction).
		Int("rows", e.Rows).
		Str("reason", e.Reason).
		Str("type", "PartitionError")
}

// NewPartitionError creates a PartitionError with a stack trace attached.
func NewPartitionError(fraction float64, rows int, reason string) error {
	return errors.WithStack(&PartitionError{Fraction: fraction, Rows: rows, Reason: reason})
}

// SelectionError indicates that predictor selection cannot proceed: fewer
// than two numeric predictors, or a predictor with zero variance for which
// standardization is undefined.
type SelectionError struct {
	Predictor string
	Reason    string
}

func (e *SelectionError) Error() string {
	if e.Predictor == "" {
		return fmt.Sprintf("airbench: predictor selection failed: %s", e.Reason)
	}
	return fmt.Sprintf("airbench: predictor selection failed for %q: %s", e.Predictor, e.Reason)
}

// MarshalZerologObject adds structured selection context to a zerolog event.
func (e *SelectionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("predictor", e.Predictor).
		Str("reason", e.Reason).
		Str("type", "SelectionError")
}

// NewSelectionError creates a SelectionError with a stack trace attached.
func NewSelectionError(predictor, reason string) error {
	return errors.WithStack(&SelectionError{Predictor: predictor, Reason: reason})
}

// FitError indicates that a model cannot be trained: too few rows for the
// requested fold count, or a predictor column absent from the training set.
type FitError struct {
	Model  string
	Reason string
}

func (e *FitError) Error() string {
	return fmt.Sprintf("airbench: %s: cannot fit: %s", e.Model, e.Reason)
}

// MarshalZerologObject adds structured fit context to a zerolog event.
func (e *FitError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model", e.Model).
		Str("reason", e.Reason).
		Str("type", "FitError")
}

// NewFitError creates a FitError with a stack trace attached.
func NewFitError(model, reason string) error {
	return errors.WithStack(&FitError{Model: model, Reason: reason})
}

// ===========================================================================
//
//	Estimator errors
//
// ===========================================================================

// NotFittedError indicates Predict was called on an untrained model.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("airbench: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured model context to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError indicates input data whose shape differs from what the
// operation expects.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("airbench: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured dimension context to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValueError indicates an argument whose value is invalid for the operation,
// for example a negative tree count or an empty vector.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("airbench: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ===========================================================================
//
//	Warnings
//
// ===========================================================================

// ConvergenceWarning is raised when an iterative fit (IRLS for the Poisson
// model) stops at its iteration cap before meeting its tolerance.
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing max_iter or adjusting parameters.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject adds structured warning context to a zerolog event.
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning creates a new ConvergenceWarning.
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates an error with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error values
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation receives no rows.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a normal-equation solve fails.
	ErrSingularMatrix = New("singular matrix")
)
