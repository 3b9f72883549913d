package pipeline

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/airbench/regress"

	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
	"github.com/YuminosukeSato/airbench/pkg/log"
)

// writeSyntheticCSV writes n monitoring rows where
// value = 2·CMAQ + 0.5·imp_a5000 + ε, ε ~ N(0, 0.5). The linear model is
// the true data-generating process, so it should beat the count model.
func writeSyntheticCSV(t *testing.T, n int, seed uint64) string {
	t.Helper()

	rng := rand.New(rand.NewPCG(seed, seed))
	var sb strings.Builder
	sb.WriteString("value,CMAQ,imp_a5000,log_pri_length_15000,aod\n")
	for i := 0; i < n; i++ {
		// CMAQ carries most of the outcome variance, so it is the
		// selector's primary predictor.
		cmaq := 5 + 10*rng.Float64()
		imp := 10 * rng.Float64()
		logPri := 8 * rng.Float64()
		aod := 20 + 40*rng.Float64()
		value := 2*cmaq + 0.5*imp + 0.5*rng.NormFloat64()
		fmt.Fprintf(&sb, "%.6f,%.6f,%.6f,%.6f,%.6f\n", value, cmaq, imp, logPri, aod)
	}

	path := filepath.Join(t.TempDir(), "synthetic.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func fastConfig(source string) Config {
	return Config{
		Source:     source,
		Seed:       123,
		Predictors: 4,
		TreeCount:  30,
	}
}

func TestRunEndToEnd(t *testing.T) {
	source := writeSyntheticCSV(t, 100, 123)

	cfg := fastConfig(source)
	cfg.PlotDir = filepath.Join(t.TempDir(), "plots")

	rep, err := Run(cfg)
	require.NoError(t, err)

	require.Len(t, rep.Results, 4)

	// Ranking is ascending; equal scores order alphabetically.
	for i := 1; i < len(rep.Results); i++ {
		prev, cur := rep.Results[i-1], rep.Results[i]
		assert.LessOrEqual(t, prev.RMSE, cur.RMSE)
		if prev.RMSE == cur.RMSE {
			assert.Less(t, prev.Model, cur.Model)
		}
	}

	byName := make(map[string]float64, 4)
	for _, res := range rep.Results {
		byName[res.Model] = res.RMSE

		// Roughly 30% of the 100 rows land in the test set.
		assert.InDelta(t, 30, len(res.Actual), 5)
		assert.Equal(t, len(res.Actual), len(res.Predicted))
	}
	require.Contains(t, byName, regress.LinearName)
	require.Contains(t, byName, regress.PoissonName)
	require.Contains(t, byName, regress.ForestName)
	require.Contains(t, byName, regress.MARSName)

	// The outcome is linear in the predictors, so OLS must beat the
	// misspecified, integer-rounded count model.
	assert.Less(t, byName[regress.LinearName], byName[regress.PoissonName])

	// The selector saw the CMAQ-dominated signal.
	assert.Equal(t, "CMAQ", rep.Selection.Predictors[0])

	require.Len(t, rep.PlotPaths, 4)
	for _, path := range rep.PlotPaths {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestRunDeterministic(t *testing.T) {
	source := writeSyntheticCSV(t, 100, 7)
	cfg := fastConfig(source)

	rep1, err := Run(cfg)
	require.NoError(t, err)
	rep2, err := Run(cfg)
	require.NoError(t, err)

	require.Len(t, rep2.Results, len(rep1.Results))
	for i := range rep1.Results {
		assert.Equal(t, rep1.Results[i].Model, rep2.Results[i].Model)
		assert.Equal(t, rep1.Results[i].RMSE, rep2.Results[i].RMSE)
	}
}

func TestRunConcurrentMatchesSequential(t *testing.T) {
	source := writeSyntheticCSV(t, 100, 9)

	seq := fastConfig(source)
	rep1, err := Run(seq)
	require.NoError(t, err)

	conc := fastConfig(source)
	conc.Concurrent = true
	rep2, err := Run(conc)
	require.NoError(t, err)

	for i := range rep1.Results {
		assert.Equal(t, rep1.Results[i].Model, rep2.Results[i].Model)
		assert.Equal(t, rep1.Results[i].RMSE, rep2.Results[i].RMSE)
	}
}

func TestRunLogsStages(t *testing.T) {
	provider, _ := log.NewTestLoggerProvider(log.LevelInfo)
	log.SetProvider(provider)
	defer log.SetProvider(log.NewZerologProvider(log.LevelInfo))

	source := writeSyntheticCSV(t, 100, 5)
	_, err := Run(fastConfig(source))
	require.NoError(t, err)

	logger := provider.GetLogger().(*log.TestLogger)
	for _, stage := range []string{
		log.StageLoad, log.StageSplit, log.StageSelect, log.StageTrain, log.StageEvaluate,
	} {
		assert.Truef(t, logger.ContainsField(log.StageKey, stage), "stage %q not logged", stage)
	}
	assert.True(t, logger.ContainsField(log.SeedKey, float64(123)))
}

func TestRunStageErrors(t *testing.T) {
	t.Run("load failure", func(t *testing.T) {
		cfg := fastConfig(filepath.Join(t.TempDir(), "absent.csv"))
		_, err := Run(cfg)

		var retErr *airErrors.RetrievalError
		require.ErrorAs(t, err, &retErr)
		assert.Contains(t, err.Error(), "stage load")
	})

	t.Run("bad split fraction", func(t *testing.T) {
		cfg := fastConfig(writeSyntheticCSV(t, 30, 1))
		cfg.SplitFraction = 1.5
		_, err := Run(cfg)

		var partErr *airErrors.PartitionError
		require.ErrorAs(t, err, &partErr)
		assert.Contains(t, err.Error(), "stage split")
	})

	t.Run("too few rows for cross-validation", func(t *testing.T) {
		cfg := fastConfig(writeSyntheticCSV(t, 12, 2))
		_, err := Run(cfg)

		var fitErr *airErrors.FitError
		require.ErrorAs(t, err, &fitErr)
		assert.Contains(t, err.Error(), "stage train")
	})
}
