// Package report renders benchmark results: a ranked text table for the
// terminal and predicted-vs-actual scatter plots as PNG artifacts.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/airbench/evaluate"
	airErrors "github.com/YuminosukeSato/airbench/pkg/errors"
	"github.com/YuminosukeSato/airbench/pkg/log"
)

// SavePlots writes one predicted-vs-actual scatter per result into dir,
// with a dashed y = x reference line. File names derive from the model
// name ("Random Forest" becomes random_forest.png). Returns the written
// paths in result order.
func SavePlots(results []evaluate.Result, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, airErrors.Wrap(err, "report: create plot directory")
	}

	logger := log.GetLoggerWithName("report")

	paths := make([]string, 0, len(results))
	for _, res := range results {
		path := filepath.Join(dir, plotFileName(res.Model))
		if err := savePlot(res, path); err != nil {
			return nil, err
		}

		logger.Info("plot saved", log.ModelNameKey, res.Model, "report.path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

func savePlot(res evaluate.Result, path string) error {
	if len(res.Actual) == 0 {
		return airErrors.NewValueError("report.savePlot", "no test points to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: Predicted vs Actual (RMSE %.3f)", res.Model, res.RMSE)
	p.X.Label.Text = "Actual"
	p.Y.Label.Text = "Predicted"

	pts := make(plotter.XYs, len(res.Actual))
	lo, hi := res.Actual[0], res.Actual[0]
	for i := range res.Actual {
		pts[i].X = res.Actual[i]
		pts[i].Y = res.Predicted[i]
		lo = min(lo, min(res.Actual[i], res.Predicted[i]))
		hi = max(hi, max(res.Actual[i], res.Predicted[i]))
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return airErrors.Wrap(err, "report: scatter")
	}
	scatter.Color = plotter.DefaultLineStyle.Color
	p.Add(scatter)
	p.Legend.Add("Test sites", scatter)

	// Perfect predictions sit on y = x.
	ident, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return airErrors.Wrap(err, "report: reference line")
	}
	ident.Width = vg.Points(1)
	ident.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(ident)
	p.Legend.Add("y = x", ident)

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return airErrors.Wrap(err, "report: save plot")
	}
	return nil
}

func plotFileName(model string) string {
	name := strings.ToLower(model)
	name = strings.ReplaceAll(name, " ", "_")
	return name + ".png"
}
