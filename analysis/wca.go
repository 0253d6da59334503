// Package analysis implements the output stage: the weighted cluster average
// aggregation and the optional regression evaluation report.
package analysis

import (
	"math"

	"github.com/agroml/yieldcast/config"
	"github.com/agroml/yieldcast/dataset"
	"github.com/agroml/yieldcast/pkg/log"
)

// clusterColumn is the fixed grouping column of the output stage.
const clusterColumn = "cluster"

// WCAColumn is the name of the derived weighted-cluster-average column.
const WCAColumn = "wca"

// GroupAverage is one cluster's weighted average, in first-appearance order.
type GroupAverage struct {
	Key  string
	WCA  float64
	Rows int
}

// WeightedClusterAverage partitions rows by groupCol and computes, per group,
//
//	wca(g) = Σ weight·value / Σ weight
//
// broadcasting the result back onto every row of the group as a new "wca"
// column. Row order and all existing columns are preserved. A group whose
// total weight is zero yields NaN rather than a silently wrong finite number,
// and NaN weights or values propagate into their group's average.
func WeightedClusterAverage(t *dataset.Table, groupCol, weightCol, valueCol string) (*dataset.Table, []GroupAverage, error) {
	keys, err := t.GroupKeys(groupCol)
	if err != nil {
		return nil, nil, err
	}
	weights, err := t.NumericValues(weightCol)
	if err != nil {
		return nil, nil, err
	}
	values, err := t.NumericValues(valueCol)
	if err != nil {
		return nil, nil, err
	}

	type groupSums struct {
		weighted float64
		weight   float64
		rows     int
	}
	sums := make(map[string]*groupSums)
	var order []string
	for i, key := range keys {
		g, ok := sums[key]
		if !ok {
			g = &groupSums{}
			sums[key] = g
			order = append(order, key)
		}
		g.weighted += weights[i] * values[i]
		g.weight += weights[i]
		g.rows++
	}

	averages := make([]GroupAverage, len(order))
	wcaByKey := make(map[string]float64, len(order))
	for i, key := range order {
		g := sums[key]
		wca := math.NaN()
		if g.weight != 0 {
			wca = g.weighted / g.weight
		}
		averages[i] = GroupAverage{Key: key, WCA: wca, Rows: g.rows}
		wcaByKey[key] = wca
	}

	column := make([]float64, len(keys))
	for i, key := range keys {
		column[i] = wcaByKey[key]
	}

	out := t.Copy()
	if err := out.SetNumericColumn(WCAColumn, column); err != nil {
		return nil, nil, err
	}
	return out, averages, nil
}

// Analyzer runs the configured output analysis.
type Analyzer struct {
	cfg    config.OutputAnalysis
	logger log.Logger
}

// NewAnalyzer creates an analyzer for one pipeline run.
func NewAnalyzer(cfg config.OutputAnalysis) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		logger: log.GetLoggerWithName("analysis"),
	}
}

// Run computes the weighted cluster average over the predicted table and,
// when the save flag is set, writes the result table to the configured
// destination.
func (a *Analyzer) Run(t *dataset.Table) (*dataset.Table, error) {
	result, averages, err := WeightedClusterAverage(
		t, clusterColumn, a.cfg.WCAParameters.Area, a.cfg.WCAParameters.Yield)
	if err != nil {
		return nil, err
	}

	for _, avg := range averages {
		a.logger.Info("Cluster average",
			"cluster", avg.Key,
			"wca", avg.WCA,
			"rows", avg.Rows)
	}

	if a.cfg.SaveResults {
		if err := dataset.WriteCSV(a.cfg.OutputPath, result); err != nil {
			return nil, err
		}
		a.logger.Info("Results saved",
			"path", a.cfg.OutputPath,
			"rows", result.NumRows())
	}

	return result, nil
}
