package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/airbench/evaluate"
)

func sampleResults() []evaluate.Result {
	return []evaluate.Result{
		{
			Model:     "Random Forest",
			RMSE:      1.842,
			CVRMSE:    2.013,
			Actual:    []float64{10.2, 11.7, 9.4},
			Predicted: []float64{10.5, 11.2, 9.9},
		},
		{
			Model:     "Linear Model",
			RMSE:      2.101,
			CVRMSE:    2.310,
			Actual:    []float64{10.2, 11.7, 9.4},
			Predicted: []float64{11.0, 10.8, 10.3},
		},
	}
}

func TestWriteTable(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteTable(&sb, sampleResults()))

	out := sb.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "Model")
	assert.Contains(t, lines[0], "Test RMSE")
	assert.Contains(t, lines[1], "Random Forest")
	assert.Contains(t, lines[1], "1.842")
	assert.Contains(t, lines[2], "Linear Model")

	// Rank column counts up from 1 in result order.
	assert.True(t, strings.HasPrefix(lines[1], "1"))
	assert.True(t, strings.HasPrefix(lines[2], "2"))
}

func TestWriteTableMissingCV(t *testing.T) {
	results := sampleResults()
	results[0].CVRMSE = 0

	var sb strings.Builder
	require.NoError(t, WriteTable(&sb, results))
	assert.Contains(t, sb.String(), "-")
}

func TestSavePlots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")

	paths, err := SavePlots(sampleResults(), dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, filepath.Join(dir, "random_forest.png"), paths[0])
	assert.Equal(t, filepath.Join(dir, "linear_model.png"), paths[1])

	for _, path := range paths {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestSavePlotsEmptyResult(t *testing.T) {
	_, err := SavePlots([]evaluate.Result{{Model: "Empty"}}, t.TempDir())
	assert.Error(t, err)
}
