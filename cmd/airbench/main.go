// Command airbench runs the air-quality regression benchmark: it loads a
// monitoring dataset, fits the four model families, and prints the models
// ranked by test RMSE.
//
// Usage:
//
//	airbench -data pm25.csv [-seed 123] [-split 0.7] [-predictors 3]
//	         [-folds 10] [-trees 100] [-plots out/] [-concurrent]
//	         [-loglevel info]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/YuminosukeSato/airbench/pipeline"
	"github.com/YuminosukeSato/airbench/pkg/log"
	"github.com/YuminosukeSato/airbench/report"
)

func main() {
	var (
		data       = flag.String("data", "", "dataset CSV path or http(s) URL (required)")
		seed       = flag.Int64("seed", 1, "seed for splitting, cross-validation and the forest")
		split      = flag.Float64("split", 0.70, "train fraction in (0,1)")
		predictors = flag.Int("predictors", 3, "number of predictors to select")
		folds      = flag.Int("folds", 10, "cross-validation folds")
		trees      = flag.Int("trees", 100, "random forest size")
		plots      = flag.String("plots", "", "directory for predicted-vs-actual PNGs (optional)")
		concurrent = flag.Bool("concurrent", false, "fit the four models concurrently")
		logLevel   = flag.String("loglevel", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	if *data == "" {
		fmt.Fprintln(os.Stderr, "airbench: -data is required")
		flag.Usage()
		os.Exit(2)
	}

	log.Setup(log.ToLogLevel(*logLevel))

	rep, err := pipeline.Run(pipeline.Config{
		Source:        *data,
		SplitFraction: *split,
		Seed:          *seed,
		Predictors:    *predictors,
		Folds:         *folds,
		TreeCount:     *trees,
		Concurrent:    *concurrent,
		PlotDir:       *plots,
	})
	if err != nil {
		log.GetLogger().Error("benchmark failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Selected predictors: %v\n\n", rep.Selection.Predictors)
	if err := report.WriteTable(os.Stdout, rep.Results); err != nil {
		log.GetLogger().Error("writing results table failed", "error", err)
		os.Exit(1)
	}

	if len(rep.PlotPaths) > 0 {
		fmt.Printf("\nPlots written to %s\n", *plots)
	}
}
