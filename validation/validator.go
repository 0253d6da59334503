// Package validation implements the cleaning stage of the pipeline.
//
// The validator transforms the raw train and test tables into clean,
// schema-consistent tables ready for modeling: column renames, ordered
// column-name pattern replacement, categorical dtype coercion, duplicate
// removal, k-nearest-neighbor imputation and column filtering, each applied
// identically to both tables. The imputer is fitted exactly once, on the
// training table, and reused in transform-only mode for the test table.
package validation

import (
	"gonum.org/v1/gonum/mat"

	"github.com/agroml/yieldcast/config"
	"github.com/agroml/yieldcast/dataset"
	"github.com/agroml/yieldcast/pkg/errors"
	"github.com/agroml/yieldcast/pkg/log"
	"github.com/agroml/yieldcast/preprocessing"
)

// Validator cleans the raw input tables. The zero value is not usable; use
// NewValidator.
type Validator struct {
	cfg     config.DataValidation
	imputer *preprocessing.KNNImputer
	logger  log.Logger
}

// NewValidator creates a validator for one pipeline run. The validator owns
// the imputer state shared across its train and test calls and must not be
// reused across runs.
func NewValidator(cfg config.DataValidation) *Validator {
	return &Validator{
		cfg:    cfg,
		logger: log.GetLoggerWithName("validation"),
	}
}

// Run reads both input files and returns the cleaned train and test tables.
func (v *Validator) Run() (*dataset.Table, *dataset.Table, error) {
	trainData, err := dataset.ReadCSV(v.cfg.ReadPath.TrainData)
	if err != nil {
		return nil, nil, err
	}
	testData, err := dataset.ReadCSV(v.cfg.ReadPath.TestData)
	if err != nil {
		return nil, nil, err
	}

	cleanTrain, err := v.Clean(trainData, true)
	if err != nil {
		return nil, nil, errors.Wrap(err, "clean train data")
	}
	cleanTest, err := v.Clean(testData, false)
	if err != nil {
		return nil, nil, errors.Wrap(err, "clean test data")
	}

	v.logger.Info("Validation completed",
		"train_rows", cleanTrain.NumRows(),
		"test_rows", cleanTest.NumRows(),
		"columns", cleanTrain.NumCols())

	return cleanTrain, cleanTest, nil
}

// Clean applies the full validation sequence to one table. fitImputer
// selects fit_transform mode (training table) versus transform-only mode
// (test table); the fitted neighbor statistics are shared between the two
// calls of one run.
func (v *Validator) Clean(t *dataset.Table, fitImputer bool) (*dataset.Table, error) {
	t = t.Copy()

	if err := t.RenameColumns(v.cfg.ColumnMapping); err != nil {
		return nil, err
	}

	pairs := make([][2]string, len(v.cfg.ReplacementPairs))
	for i, rep := range v.cfg.ReplacementPairs {
		pairs[i] = [2]string{rep.Pattern, rep.Replacement}
	}
	if err := t.ReplaceInColumnNames(pairs); err != nil {
		return nil, err
	}

	if err := t.AsCategorical(v.cfg.CategoricalColumns); err != nil {
		return nil, err
	}

	before := t.NumRows()
	t = t.DropDuplicates()
	if dropped := before - t.NumRows(); dropped > 0 {
		v.logger.Debug("Dropped duplicate rows", "count", dropped)
	}

	if err := v.impute(t, fitImputer); err != nil {
		return nil, err
	}

	return t.Select(v.cfg.ColumnsToInclude)
}

// impute fills missing values in the configured numeric columns. The imputer
// operates on exactly those columns; configuring a non-numeric column is a
// schema error.
func (v *Validator) impute(t *dataset.Table, fit bool) error {
	cols := v.cfg.Imputation.ColumnsToImpute
	if len(cols) == 0 {
		return nil
	}

	n := t.NumRows()
	if n == 0 {
		return errors.Wrapf(errors.ErrEmptyData, "impute columns %v", cols)
	}
	X := mat.NewDense(n, len(cols), nil)
	for j, name := range cols {
		values, err := t.NumericValues(name)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			X.Set(i, j, values[i])
		}
	}

	if v.imputer == nil {
		v.imputer = preprocessing.NewKNNImputer(v.cfg.Imputation.NNeighbors)
	}

	var (
		imputed mat.Matrix
		err     error
	)
	if fit {
		imputed, err = v.imputer.FitTransform(X)
	} else {
		imputed, err = v.imputer.Transform(X)
	}
	if err != nil {
		return err
	}

	return t.SetMatrixColumns(cols, imputed)
}
