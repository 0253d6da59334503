package boosting

import (
	"gonum.org/v1/gonum/mat"

	"github.com/agroml/yieldcast/core/model"
	"github.com/agroml/yieldcast/metrics"
	ycErrors "github.com/agroml/yieldcast/pkg/errors"
	"github.com/agroml/yieldcast/pkg/log"
)

var _ model.Regressor = (*Regressor)(nil)

// Regressor is a gradient-boosted tree regressor with a scikit-learn style
// Fit/Predict API.
type Regressor struct {
	model.BaseEstimator

	Params TrainingParams
	Model  *Model

	nFeatures int
	nSamples  int
}

// NewRegressor creates a regressor with the given hyperparameters.
func NewRegressor(params TrainingParams) *Regressor {
	return &Regressor{Params: params}
}

// Fit trains the regressor on a purely numeric feature matrix and a single
// target column.
func (r *Regressor) Fit(X, y mat.Matrix) (err error) {
	defer ycErrors.Recover(&err, "Regressor.Fit")

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	if rows != yRows {
		return ycErrors.NewDimensionError("Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return ycErrors.NewDimensionError("Fit", 1, yCols, 1)
	}

	r.nFeatures = cols
	r.nSamples = rows

	if r.Params.Verbosity > 0 {
		logger := log.GetLoggerWithName("boosting.regressor")
		logger.Info("Training regressor",
			"samples", rows,
			"features", cols,
			"iterations", r.Params.NumIterations,
			"learning_rate", r.Params.LearningRate)
	}

	trainer := NewTrainer(r.Params)
	if err := trainer.Fit(X, y); err != nil {
		return ycErrors.Wrap(err, "training failed")
	}

	r.Model = trainer.GetModel()
	r.SetFitted()
	return nil
}

// Predict makes predictions for input samples. It fails when called before
// Fit.
func (r *Regressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !r.IsFitted() {
		return nil, ycErrors.NewNotFittedError("Regressor", "Predict")
	}

	_, cols := X.Dims()
	if cols != r.nFeatures {
		return nil, ycErrors.NewDimensionError("Predict", r.nFeatures, cols, 1)
	}

	return r.Model.Predict(X)
}

// Score returns the coefficient of determination R² of the prediction.
func (r *Regressor) Score(X, y mat.Matrix) (float64, error) {
	if !r.IsFitted() {
		return 0, ycErrors.NewNotFittedError("Regressor", "Score")
	}

	predictions, err := r.Predict(X)
	if err != nil {
		return 0, err
	}

	rows, _ := y.Dims()
	yVec := mat.NewVecDense(rows, nil)
	predVec := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		yVec.SetVec(i, y.At(i, 0))
		predVec.SetVec(i, predictions.At(i, 0))
	}
	return metrics.R2Score(yVec, predVec)
}
