// Package log defines standard attribute keys for pipeline operations.
//
// Using these keys consistently keeps the run log filterable: every stage
// of a benchmark run tags its records with the stage name, data shape, and
// the metrics it produced.

package log

// Pipeline and operation context.
const (
	// StageKey identifies the pipeline stage emitting the record.
	// Standard values: "load", "split", "select", "train", "evaluate", "report".
	StageKey = "pipeline.stage"

	// ModelNameKey identifies the model family.
	// Examples: "LinearRegression", "PoissonRegression", "RandomForestRegressor", "MARS"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "cross_validate", "evaluate"
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	// Examples: "dataset", "features", "regress", "evaluate"
	ComponentKey = "ml.component"
)

// Data shape and configuration.
const (
	// SamplesKey is the number of rows being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of predictor columns.
	FeaturesKey = "data.features"

	// SourceKey is the dataset source location (path or URL).
	SourceKey = "data.source"

	// SplitFractionKey is the training fraction of a partition.
	SplitFractionKey = "split.fraction"

	// SeedKey is the random seed threaded through splitter and trainers.
	SeedKey = "config.seed"

	// FoldsKey is the cross-validation fold count.
	FoldsKey = "cv.folds"

	// FoldKey is the index of a single cross-validation fold.
	FoldKey = "cv.fold"

	// PredictorsKey is the ordered predictor set chosen by the selector.
	PredictorsKey = "select.predictors"
)

// Metrics and timing.
const (
	// RMSEKey is a root-mean-squared error value.
	RMSEKey = "metrics.rmse"

	// CVRMSEKey is a cross-validated RMSE averaged over folds.
	CVRMSEKey = "metrics.cv_rmse"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// PredsKey is the number of predictions produced.
	PredsKey = "preds.count"
)

// Standard attribute values.
const (
	OperationFit           = "fit"
	OperationPredict       = "predict"
	OperationCrossValidate = "cross_validate"
	OperationEvaluate      = "evaluate"

	StageLoad     = "load"
	StageSplit    = "split"
	StageSelect   = "select"
	StageTrain    = "train"
	StageEvaluate = "evaluate"
	StageReport   = "report"
)
