package dataset

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
)

const sampleCSV = `id,value,CMAQ,imp_a5000,log_pri_length_15000,aod
1,11.7,12.1,30.2,6.1,40
2,9.4,8.7,10.5,5.2,35
3,10.2,10.9,22.8,6.8,38
`

func testSchema() Schema {
	return Schema{
		Outcome:    "value",
		Predictors: []string{"CMAQ", "imp_a5000", "log_pri_length_15000", "aod"},
	}
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	d, err := Load(writeTempCSV(t, sampleCSV), testSchema())
	require.NoError(t, err)

	assert.Equal(t, 3, d.NumRows())
	assert.Equal(t, []string{"value", "CMAQ", "imp_a5000", "log_pri_length_15000", "aod"}, d.Columns())

	// Columns unrelated to the schema are ignored.
	_, err = d.Column("id")
	assert.Error(t, err)

	cmaq, err := d.Column("CMAQ")
	require.NoError(t, err)
	assert.InDelta(t, 8.7, cmaq[1], 1e-12)

	y := d.Outcome()
	assert.InDelta(t, 11.7, y.AtVec(0), 1e-12)
}

func TestLoadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	d, err := Load(srv.URL, testSchema())
	require.NoError(t, err)
	assert.Equal(t, 3, d.NumRows())
}

func TestLoadRetrievalErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.csv"), testSchema())
		var retErr *airErrors.RetrievalError
		require.ErrorAs(t, err, &retErr)
	})

	t.Run("http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := Load(srv.URL, testSchema())
		var retErr *airErrors.RetrievalError
		require.ErrorAs(t, err, &retErr)
	})
}

func TestLoadSchemaErrors(t *testing.T) {
	tests := []struct {
		name       string
		csv        string
		wantColumn string
		wantRow    int
	}{
		{
			name:       "missing column",
			csv:        "value,CMAQ\n10.2,12.1\n",
			wantColumn: "imp_a5000",
			wantRow:    -1,
		},
		{
			name:       "non-numeric cell",
			csv:        "value,CMAQ,imp_a5000,log_pri_length_15000,aod\n10.2,12.1,30.2,6.1,40\n9.4,NA,10.5,5.2,35\n",
			wantColumn: "CMAQ",
			wantRow:    1,
		},
		{
			name:       "header only",
			csv:        "value,CMAQ,imp_a5000,log_pri_length_15000,aod\n",
			wantColumn: "value",
			wantRow:    -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTempCSV(t, tt.csv), testSchema())

			var schemaErr *airErrors.SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.wantColumn, schemaErr.Column)
			assert.Equal(t, tt.wantRow, schemaErr.Row)
		})
	}
}
