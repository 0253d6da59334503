// Package modeling bridges cleaned tables and the boosting regressor.
//
// The split parameters name the target column and the columns excluded from
// the feature matrix besides the target itself; every remaining column feeds
// the model. Predictions are written back into the target column's name,
// overwriting any ground-truth values present there. Callers needing both
// must copy the truth before predicting.
package modeling

import (
	"gonum.org/v1/gonum/mat"

	"github.com/agroml/yieldcast/boosting"
	"github.com/agroml/yieldcast/config"
	"github.com/agroml/yieldcast/core/model"
	"github.com/agroml/yieldcast/dataset"
	"github.com/agroml/yieldcast/pkg/errors"
	"github.com/agroml/yieldcast/pkg/log"
)

// Modeler trains the regressor and produces predictions. It holds the
// trained model for exactly one pipeline run.
type Modeler struct {
	cfg       config.Modeling
	state     *model.StateManager
	regressor *boosting.Regressor
	features  []string
	logger    log.Logger
}

// NewModeler creates a modeler for one pipeline run.
func NewModeler(cfg config.Modeling) *Modeler {
	return &Modeler{
		cfg:    cfg,
		state:  model.NewStateManager(),
		logger: log.GetLoggerWithName("modeling"),
	}
}

// SplitFeatures extracts the feature matrix and target vector from a table.
// Features are all columns except the target and the ignored columns, in
// table order. An ignored or target column absent from the table is an
// error.
func SplitFeatures(t *dataset.Table, target string, ignore []string) (*mat.Dense, *mat.Dense, []string, error) {
	if !t.HasColumn(target) {
		return nil, nil, nil, errors.NewSchemaError("SplitFeatures", target, "target column not present")
	}
	excluded := map[string]bool{target: true}
	for _, name := range ignore {
		if !t.HasColumn(name) {
			return nil, nil, nil, errors.NewSchemaError("SplitFeatures", name, "ignore column not present")
		}
		excluded[name] = true
	}

	var features []string
	for _, name := range t.Columns() {
		if !excluded[name] {
			features = append(features, name)
		}
	}
	if len(features) == 0 {
		return nil, nil, nil, errors.NewValueError("SplitFeatures", "no feature columns remain")
	}

	X, err := t.Matrix(features)
	if err != nil {
		return nil, nil, nil, err
	}

	targetValues, err := t.NumericValues(target)
	if err != nil {
		return nil, nil, nil, err
	}
	y := mat.NewDense(len(targetValues), 1, targetValues)

	return X, y, features, nil
}

// Fit trains the gradient-boosted regressor on the cleaned training table
// with the configured hyperparameters.
func (m *Modeler) Fit(train *dataset.Table) error {
	split := m.cfg.SplitParameters
	X, y, features, err := SplitFeatures(train, split.TargetVariable, split.IgnoreColumns)
	if err != nil {
		return err
	}

	params, err := boosting.ParamsFromMap(m.cfg.ModelParameters)
	if err != nil {
		return err
	}

	regressor := boosting.NewRegressor(params)
	if err := regressor.Fit(X, y); err != nil {
		return err
	}

	m.regressor = regressor
	m.features = features

	rows, cols := X.Dims()
	m.state.SetDimensions(cols, rows)
	m.state.SetFitted()
	m.logger.Info("Model fitted",
		"samples", rows,
		"features", cols,
		"target", split.TargetVariable)
	return nil
}

// Predict produces one prediction per test row and writes the predictions
// into the target column of the returned table. It fails when called before
// Fit.
func (m *Modeler) Predict(test *dataset.Table) (*dataset.Table, error) {
	if !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("Modeler", "Predict")
	}

	X, err := test.Matrix(m.features)
	if err != nil {
		return nil, err
	}

	predictions, err := m.regressor.Predict(X)
	if err != nil {
		return nil, err
	}

	rows, _ := predictions.Dims()
	values := make([]float64, rows)
	for i := 0; i < rows; i++ {
		values[i] = predictions.At(i, 0)
	}

	out := test.Copy()
	if err := out.SetNumericColumn(m.cfg.SplitParameters.TargetVariable, values); err != nil {
		return nil, err
	}

	m.logger.Info("Predictions written",
		"rows", rows,
		"target", m.cfg.SplitParameters.TargetVariable)
	return out, nil
}
