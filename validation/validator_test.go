package validation

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroml/yieldcast/config"
	"github.com/agroml/yieldcast/dataset"
	"github.com/agroml/yieldcast/pkg/errors"
)

func testConfig(trainPath, testPath string) config.DataValidation {
	return config.DataValidation{
		ReadPath: config.ReadPath{TrainData: trainPath, TestData: testPath},
		ColumnMapping: map[string]string{
			"Clstr": "cluster",
		},
		ReplacementPairs: []config.Replacement{
			{Pattern: " ", Replacement: "_"},
			{Pattern: "-", Replacement: "_"},
		},
		CategoricalColumns: []string{"cluster"},
		Imputation: config.Imputation{
			ColumnsToImpute: []string{"soil_ph"},
			NNeighbors:      2,
		},
		ColumnsToInclude: []string{"cluster", "field_area", "soil_ph", "yield"},
	}
}

func writeCSVFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidatorRun(t *testing.T) {
	dir := t.TempDir()
	trainPath := writeCSVFile(t, dir, "train.csv",
		"Clstr,Field Area,Soil-PH,yield\n"+
			"A,1,6.0,10\n"+
			"B,2,7.0,20\n"+
			"A,1,6.0,10\n"+ // exact duplicate of row 1
			"B,3,,30\n"+
			"A,4,5.0,40\n")
	testPath := writeCSVFile(t, dir, "test.csv",
		"Clstr,Field Area,Soil-PH,yield\n"+
			"B,2,,20\n"+
			"A,1,6.5,15\n")

	v := NewValidator(testConfig(trainPath, testPath))
	trainData, testData, err := v.Run()
	require.NoError(t, err)

	// Duplicate row dropped, first occurrence kept.
	assert.Equal(t, 4, trainData.NumRows())
	assert.Equal(t, 2, testData.NumRows())

	// Output columns are exactly the include list, renamed and
	// normalized, in the configured order.
	want := []string{"cluster", "field_area", "soil_ph", "yield"}
	assert.Equal(t, want, trainData.Columns())
	assert.Equal(t, want, testData.Columns())

	// The missing train cell is imputed from the training data; with a
	// single imputation column there are no shared coordinates after the
	// masking, so the column-mean fallback (6+7+5)/3 applies.
	trainPH, err := trainData.NumericValues("soil_ph")
	require.NoError(t, err)
	assert.InDelta(t, 6.0, trainPH[2], 1e-10)

	// The test cell is filled from the statistics fitted on the training
	// table, not from the test table itself.
	testPH, err := testData.NumericValues("soil_ph")
	require.NoError(t, err)
	assert.InDelta(t, 6.0, testPH[0], 1e-10)

	// No NaN survives the imputed columns.
	for i, v := range trainPH {
		assert.Falsef(t, math.IsNaN(v), "train soil_ph[%d] is NaN", i)
	}
}

func TestValidatorMissingIncludeColumn(t *testing.T) {
	dir := t.TempDir()
	trainPath := writeCSVFile(t, dir, "train.csv",
		"Clstr,Field Area,Soil-PH,yield\nA,1,6.0,10\n")

	cfg := testConfig(trainPath, trainPath)
	cfg.ColumnsToInclude = append(cfg.ColumnsToInclude, "rainfall")

	v := NewValidator(cfg)
	_, _, err := v.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rainfall")
}

func TestValidatorHeaderOnlyInput(t *testing.T) {
	dir := t.TempDir()
	headerOnly := writeCSVFile(t, dir, "empty.csv",
		"Clstr,Field Area,Soil-PH,yield\n")

	// A zero-row table must surface as an error return, never a panic.
	v := NewValidator(testConfig(headerOnly, headerOnly))
	_, _, err := v.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestValidatorCleanWithoutImputation(t *testing.T) {
	tbl := dataset.New()
	require.NoError(t, tbl.AddStringColumn("Clstr", []string{"A", "B"}))
	require.NoError(t, tbl.AddNumericColumn("yield", []float64{1, 2}))

	cfg := config.DataValidation{
		ColumnMapping:      map[string]string{"Clstr": "cluster"},
		CategoricalColumns: []string{"cluster"},
		ColumnsToInclude:   []string{"cluster", "yield"},
	}

	v := NewValidator(cfg)
	out, err := v.Clean(tbl, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"cluster", "yield"}, out.Columns())

	// The source table is untouched.
	assert.Equal(t, []string{"Clstr", "yield"}, tbl.Columns())
}
