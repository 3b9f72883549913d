package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
	"github.com/YuminosukeSato/airbench/pkg/log"
)

// Load reads the dataset at source, which is either a local file path or an
// http(s) URL, and validates it against the schema. The fetch is a single
// attempt with no retry.
//
// Errors:
//   - RetrievalError: the source cannot be opened or fetched
//   - SchemaError: a required column is missing or a cell is not numeric
func Load(source string, schema Schema) (*Dataset, error) {
	logger := log.GetLoggerWithName("dataset")

	r, err := openSource(source)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	d, err := parseCSV(r, source, schema)
	if err != nil {
		return nil, err
	}

	logger.Info("dataset loaded",
		log.SourceKey, source,
		log.SamplesKey, d.NumRows(),
		log.FeaturesKey, len(schema.Predictors),
	)
	return d, nil
}

func openSource(source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return nil, airErrors.NewRetrievalError(source, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, airErrors.NewRetrievalError(source,
				fmt.Errorf("unexpected status %s", resp.Status))
		}
		return resp.Body, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, airErrors.NewRetrievalError(source, err)
	}
	return f, nil
}

func parseCSV(r io.Reader, source string, schema Schema) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, airErrors.NewRetrievalError(source, err)
	}

	// Map each required column to its position in the file. Row -1 marks
	// header-level problems.
	required := append([]string{schema.Outcome}, schema.Predictors...)
	positions := make([]int, len(required))
	for i, name := range required {
		positions[i] = -1
		for j, h := range header {
			if strings.TrimSpace(h) == name {
				positions[i] = j
				break
			}
		}
		if positions[i] < 0 {
			return nil, airErrors.NewSchemaError(source, name, -1, "column missing from header")
		}
	}

	var rows [][]float64
	for rowNum := 0; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, airErrors.NewRetrievalError(source, err)
		}

		row := make([]float64, len(required))
		for i, pos := range positions {
			if pos >= len(record) {
				return nil, airErrors.NewSchemaError(source, required[i], rowNum, "row has too few fields")
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[pos]), 64)
			if err != nil {
				return nil, airErrors.NewSchemaError(source, required[i], rowNum,
					fmt.Sprintf("non-numeric value %q", record[pos]))
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, airErrors.NewSchemaError(source, schema.Outcome, -1, "no data rows")
	}

	return New(schema, rows)
}
