package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/YuminosukeSato/airbench/evaluate"
)

// WriteTable renders the ranked results as an aligned text table.
//
//	Rank  Model          Test RMSE  CV RMSE
//	1     Random Forest      1.842    2.013
func WriteTable(w io.Writer, results []evaluate.Result) error {
	nameWidth := len("Model")
	for _, res := range results {
		if len(res.Model) > nameWidth {
			nameWidth = len(res.Model)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rank  %-*s  %9s  %9s\n", nameWidth, "Model", "Test RMSE", "CV RMSE")
	for rank, res := range results {
		cv := fmt.Sprintf("%9.3f", res.CVRMSE)
		if res.CVRMSE == 0 {
			cv = fmt.Sprintf("%9s", "-")
		}
		fmt.Fprintf(&b, "%-4d  %-*s  %9.3f  %s\n", rank+1, nameWidth, res.Model, res.RMSE, cv)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
