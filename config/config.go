// Package config loads and validates the pipeline configuration.
//
// The configuration is a YAML document with one section per pipeline stage.
// It is decoded into typed structs and validated eagerly at load time, so a
// missing key fails at startup with the offending key path named instead of
// surfacing at the first stage that reads it. The loaded Config is read-only
// and shared by reference across all stages.
package config

import (
	"bytes"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/agroml/yieldcast/pkg/errors"
)

// Config holds the settings for every pipeline stage.
type Config struct {
	DataValidation DataValidation `yaml:"data_validation"`
	Modeling       Modeling       `yaml:"modeling"`
	OutputAnalysis OutputAnalysis `yaml:"output_analysis"`
}

// DataValidation configures the cleaning stage.
type DataValidation struct {
	ReadPath           ReadPath          `yaml:"read_path"`
	ColumnMapping      map[string]string `yaml:"column_mapping"`
	ReplacementPairs   []Replacement     `yaml:"replacement_dict"`
	CategoricalColumns []string          `yaml:"categorical_columns"`
	Imputation         Imputation        `yaml:"imputation"`
	ColumnsToInclude   []string          `yaml:"columns_to_include"`
}

// ReadPath names the two tabular input files.
type ReadPath struct {
	TrainData string `yaml:"train_data"`
	TestData  string `yaml:"test_data"`
}

// Replacement is one ordered (pattern, replacement) pair applied to column
// names. A YAML sequence is used instead of a mapping because the pairs are
// order-sensitive: later replacements operate on the output of earlier ones.
type Replacement struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// Imputation configures k-nearest-neighbor imputation of missing values.
type Imputation struct {
	ColumnsToImpute []string `yaml:"columns_to_impute"`
	NNeighbors      int      `yaml:"n_neighbors"`
}

// Modeling configures the training stage.
type Modeling struct {
	SplitParameters SplitParameters `yaml:"split_parameters"`
	// ModelParameters is passed through opaquely to the regressor.
	ModelParameters map[string]interface{} `yaml:"model_parameters"`
}

// SplitParameters names the target column and the columns excluded from the
// feature matrix besides the target itself.
type SplitParameters struct {
	TargetVariable string   `yaml:"target_variable"`
	IgnoreColumns  []string `yaml:"ignore_columns"`
}

// OutputAnalysis configures the aggregation stage.
type OutputAnalysis struct {
	WCAParameters WCAParameters `yaml:"wca_parameters"`
	OutputPath    string        `yaml:"output_path"`
	SaveResults   bool          `yaml:"save_results"`
	Evaluation    *Evaluation   `yaml:"evaluation"`
}

// WCAParameters names the weight and value columns of the weighted cluster
// average.
type WCAParameters struct {
	Area  string `yaml:"area"`
	Yield string `yaml:"yield"`
}

// Evaluation optionally enables the regression metric report on the test
// set's ground truth, with an optional predicted-vs-actual scatter plot.
type Evaluation struct {
	Enabled  bool   `yaml:"enabled"`
	PlotPath string `yaml:"plot_path"`
}

// Load reads, decodes and validates the configuration at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %q", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %q", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every key referenced by a stage is present. A missing
// key is a fatal configuration error.
func (c *Config) Validate() error {
	if c.DataValidation.ReadPath.TrainData == "" {
		return errors.NewConfigError("data_validation.read_path.train_data", "missing")
	}
	if c.DataValidation.ReadPath.TestData == "" {
		return errors.NewConfigError("data_validation.read_path.test_data", "missing")
	}
	for i, rep := range c.DataValidation.ReplacementPairs {
		if rep.Pattern == "" {
			return errors.NewConfigError("data_validation.replacement_dict", "empty pattern in pair "+strconv.Itoa(i))
		}
	}
	if len(c.DataValidation.Imputation.ColumnsToImpute) > 0 && c.DataValidation.Imputation.NNeighbors <= 0 {
		return errors.NewConfigError("data_validation.imputation.n_neighbors", "must be positive")
	}
	if len(c.DataValidation.ColumnsToInclude) == 0 {
		return errors.NewConfigError("data_validation.columns_to_include", "missing")
	}
	if c.Modeling.SplitParameters.TargetVariable == "" {
		return errors.NewConfigError("modeling.split_parameters.target_variable", "missing")
	}
	if c.OutputAnalysis.WCAParameters.Area == "" {
		return errors.NewConfigError("output_analysis.wca_parameters.area", "missing")
	}
	if c.OutputAnalysis.WCAParameters.Yield == "" {
		return errors.NewConfigError("output_analysis.wca_parameters.yield", "missing")
	}
	if c.OutputAnalysis.SaveResults && c.OutputAnalysis.OutputPath == "" {
		return errors.NewConfigError("output_analysis.output_path", "missing while save_results is enabled")
	}
	return nil
}
