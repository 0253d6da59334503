package analysis

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/agroml/yieldcast/metrics"
	"github.com/agroml/yieldcast/pkg/errors"
)

// Evaluate computes the six regression metrics over the preserved ground
// truth and the predictions, logs them, and renders the predicted-vs-actual
// scatter when a plot path is configured. It is only called when the
// evaluation block is enabled.
func (a *Analyzer) Evaluate(yTrue, yPred []float64) (metrics.Report, error) {
	if len(yTrue) != len(yPred) {
		return metrics.Report{}, errors.NewDimensionError("Analyzer.Evaluate", len(yTrue), len(yPred), 0)
	}
	if len(yTrue) == 0 {
		return metrics.Report{}, errors.Wrapf(errors.ErrEmptyData, "Analyzer.Evaluate")
	}

	trueVec := mat.NewVecDense(len(yTrue), append([]float64(nil), yTrue...))
	predVec := mat.NewVecDense(len(yPred), append([]float64(nil), yPred...))

	report, err := metrics.NewReport(trueVec, predVec)
	if err != nil {
		return metrics.Report{}, err
	}

	a.logger.Info("Regression metrics",
		"mae", report.MAE,
		"mse", report.MSE,
		"rmse", report.RMSE,
		"r2", report.R2,
		"mape_pct", report.MAPE,
		"wmape_pct", report.WMAPE)

	if a.cfg.Evaluation != nil && a.cfg.Evaluation.PlotPath != "" {
		if err := scatterPlot(yTrue, yPred, a.cfg.Evaluation.PlotPath); err != nil {
			return metrics.Report{}, err
		}
		a.logger.Info("Evaluation plot saved", "path", a.cfg.Evaluation.PlotPath)
	}

	return report, nil
}

// scatterPlot renders predicted-vs-actual points with the identity line.
func scatterPlot(yTrue, yPred []float64, path string) error {
	if len(yTrue) == 0 {
		return errors.Wrapf(errors.ErrEmptyData, "scatter plot")
	}

	p := plot.New()
	p.Title.Text = "Predicted vs actual"
	p.X.Label.Text = "actual"
	p.Y.Label.Text = "predicted"

	points := make(plotter.XYs, len(yTrue))
	lo, hi := yTrue[0], yTrue[0]
	for i := range yTrue {
		points[i].X = yTrue[i]
		points[i].Y = yPred[i]
		if yTrue[i] < lo {
			lo = yTrue[i]
		}
		if yTrue[i] > hi {
			hi = yTrue[i]
		}
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return errors.Wrap(err, "build scatter")
	}
	p.Add(scatter)

	identity := plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}}
	line, err := plotter.NewLine(identity)
	if err != nil {
		return errors.Wrap(err, "build identity line")
	}
	p.Add(line)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save plot %q", path)
	}
	return nil
}
