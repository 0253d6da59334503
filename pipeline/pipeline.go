// Package pipeline orchestrates the four stages of a run: validation, model
// fitting, prediction and output analysis, strictly in that order. Each stage
// receives the shared read-only configuration and the output of the prior
// stage; any stage failure aborts the run.
package pipeline

import (
	"time"

	"github.com/agroml/yieldcast/analysis"
	"github.com/agroml/yieldcast/config"
	"github.com/agroml/yieldcast/modeling"
	"github.com/agroml/yieldcast/pkg/log"
	"github.com/agroml/yieldcast/validation"
)

// Pipeline is one batch run over the configured inputs.
type Pipeline struct {
	cfg    *config.Config
	logger log.Logger
}

// New creates a pipeline for the given configuration.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		logger: log.GetLoggerWithName("pipeline"),
	}
}

// Run executes all stages and returns the first error encountered.
func (p *Pipeline) Run() error {
	validator := validation.NewValidator(p.cfg.DataValidation)
	done := p.stage("DataValidation.Run")
	trainData, testData, err := validator.Run()
	done()
	if err != nil {
		return err
	}

	// The prediction step overwrites the target column, so ground truth for
	// the evaluation report must be preserved before predicting.
	target := p.cfg.Modeling.SplitParameters.TargetVariable
	var truth []float64
	if eval := p.cfg.OutputAnalysis.Evaluation; eval != nil && eval.Enabled {
		truth, err = testData.NumericValues(target)
		if err != nil {
			p.logger.Warn("Evaluation disabled: test table has no usable ground truth",
				"target", target,
				"reason", err.Error())
			truth = nil
		}
	}

	modeler := modeling.NewModeler(p.cfg.Modeling)
	done = p.stage("Modeling.Fit")
	err = modeler.Fit(trainData)
	done()
	if err != nil {
		return err
	}

	done = p.stage("Modeling.Predict")
	testData, err = modeler.Predict(testData)
	done()
	if err != nil {
		return err
	}

	analyzer := analysis.NewAnalyzer(p.cfg.OutputAnalysis)
	done = p.stage("OutputAnalysis.Run")
	result, err := analyzer.Run(testData)
	done()
	if err != nil {
		return err
	}

	if truth != nil {
		predicted, err := testData.NumericValues(target)
		if err != nil {
			return err
		}
		if _, err := analyzer.Evaluate(truth, predicted); err != nil {
			return err
		}
	}

	p.logger.Info("Pipeline completed",
		"rows", result.NumRows(),
		"columns", result.NumCols())
	return nil
}

// stage logs a start marker and returns a func logging elapsed wall-clock
// time on completion. Purely observational; it never affects control flow.
func (p *Pipeline) stage(name string) func() {
	start := time.Now()
	p.logger.Info(name + " started")
	return func() {
		p.logger.Info(name+" finished",
			"elapsed_seconds", time.Since(start).Seconds())
	}
}
