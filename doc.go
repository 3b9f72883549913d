// Package airbench implements a reproducible air-quality regression
// benchmark: it loads a PM2.5 monitoring dataset, splits it into train and
// test sets with a seeded stratified shuffle, screens predictors by
// outcome correlation and principal component loadings, fits four model
// families (ordinary least squares, a Poisson GLM, a random forest, and
// MARS) with 10-fold cross-validation, and ranks them by held-out RMSE.
//
// The packages compose in pipeline order:
//
//	dataset  → load + split
//	features → predictor selection
//	regress  → the four trainers and k-fold CV
//	evaluate → test-set scoring and ranking
//	report   → ranked table and scatter plots
//	pipeline → the orchestration of the above
//
// with pkg/errors, pkg/log, core/model and core/parallel providing the
// shared error taxonomy, structured logging, fitted-state management and
// worker helpers.
//
// Every randomized step takes its seed explicitly, so a (dataset, config,
// seed) triple always reproduces the same ranking:
//
//	rep, err := pipeline.Run(pipeline.Config{
//	    Source: "pm25.csv",
//	    Seed:   123,
//	})
package airbench
