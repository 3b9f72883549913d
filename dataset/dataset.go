// Package dataset provides the tabular data model for the benchmark: an
// immutable, schema-checked table of monitoring-site observations, a CSV
// loader accepting file paths and URLs, and a seeded stratified train/test
// splitter.
package dataset

import (
	"gonum.org/v1/gonum/mat"

	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
)

// Schema names the outcome column and the numeric predictor columns a
// dataset must provide.
type Schema struct {
	Outcome    string
	Predictors []string
}

// AirQuality returns the schema of the annual PM2.5 monitoring table used
// by the benchmark: the measured concentration plus the modeled and
// land-use predictors.
func AirQuality() Schema {
	return Schema{
		Outcome: "value",
		Predictors: []string{
			"CMAQ",
			"imp_a5000",
			"log_pri_length_15000",
			"aod",
		},
	}
}

// Dataset is an ordered sequence of observations sharing one schema.
// Storage is a dense row-major matrix with the outcome in column 0 followed
// by the predictors in schema order. Datasets are never mutated in place;
// derived subsets are new Datasets.
type Dataset struct {
	schema  Schema
	columns []string
	index   map[string]int
	data    *mat.Dense
}

// New builds a Dataset from rows ordered outcome-first, predictors in
// schema order.
func New(schema Schema, rows [][]float64) (*Dataset, error) {
	columns := append([]string{schema.Outcome}, schema.Predictors...)

	index := make(map[string]int, len(columns))
	for i, name := range columns {
		index[name] = i
	}

	if len(rows) == 0 {
		return nil, airErrors.NewValueError("dataset.New", "no rows")
	}

	data := mat.NewDense(len(rows), len(columns), nil)
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, airErrors.NewDimensionError("dataset.New", len(columns), len(row), 1)
		}
		data.SetRow(i, row)
	}

	return &Dataset{
		schema:  schema,
		columns: columns,
		index:   index,
		data:    data,
	}, nil
}

// Schema returns the dataset's schema.
func (d *Dataset) Schema() Schema {
	return d.schema
}

// NumRows returns the number of observations.
func (d *Dataset) NumRows() int {
	r, _ := d.data.Dims()
	return r
}

// Columns returns the ordered column names (outcome first).
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Column returns a copy of the named column's values.
func (d *Dataset) Column(name string) ([]float64, error) {
	j, ok := d.index[name]
	if !ok {
		return nil, airErrors.NewSchemaError("dataset", name, -1, "column not present")
	}

	n := d.NumRows()
	col := make([]float64, n)
	for i := 0; i < n; i++ {
		col[i] = d.data.At(i, j)
	}
	return col, nil
}

// Outcome returns the outcome column as a vector. The result satisfies
// mat.Matrix with shape (n, 1), so it can be passed directly to a
// Regressor's Fit.
func (d *Dataset) Outcome() *mat.VecDense {
	j := d.index[d.schema.Outcome]
	n := d.NumRows()

	vec := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		vec.SetVec(i, d.data.At(i, j))
	}
	return vec
}

// Matrix returns a feature matrix holding the named columns in the given
// order, shape (n_rows, len(cols)).
func (d *Dataset) Matrix(cols []string) (*mat.Dense, error) {
	if len(cols) == 0 {
		return nil, airErrors.NewValueError("Dataset.Matrix", "no columns requested")
	}

	n := d.NumRows()
	out := mat.NewDense(n, len(cols), nil)
	for k, name := range cols {
		j, ok := d.index[name]
		if !ok {
			return nil, airErrors.NewSchemaError("dataset", name, -1, "column not present")
		}
		for i := 0; i < n; i++ {
			out.Set(i, k, d.data.At(i, j))
		}
	}
	return out, nil
}

// Subset returns a new Dataset holding the rows at the given indices, in
// the given order.
func (d *Dataset) Subset(indices []int) *Dataset {
	nCols := len(d.columns)
	data := mat.NewDense(len(indices), nCols, nil)
	for i, idx := range indices {
		for j := 0; j < nCols; j++ {
			data.Set(i, j, d.data.At(idx, j))
		}
	}

	return &Dataset{
		schema:  d.schema,
		columns: d.columns,
		index:   d.index,
		data:    data,
	}
}
