package dataset

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/agroml/yieldcast/pkg/errors"
)

func buildTable(t *testing.T) *Table {
	t.Helper()
	tbl := New()
	if err := tbl.AddStringColumn("Crop Variety", []string{"a", "b", "a"}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddNumericColumn("Field-Area", []float64{1.0, 2.0, 3.0}); err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestRenameColumns(t *testing.T) {
	tbl := buildTable(t)

	err := tbl.RenameColumns(map[string]string{"Field-Area": "area", "missing": "other"})
	if err != nil {
		t.Fatalf("RenameColumns() error = %v", err)
	}

	want := []string{"Crop Variety", "area"}
	if diff := cmp.Diff(want, tbl.Columns()); diff != "" {
		t.Errorf("Columns() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenameColumnsCollision(t *testing.T) {
	tbl := buildTable(t)

	err := tbl.RenameColumns(map[string]string{"Field-Area": "Crop Variety"})
	if err == nil {
		t.Fatal("RenameColumns() expected error for duplicate target")
	}
	var schemaErr *errors.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Errorf("RenameColumns() error = %T, want *SchemaError", err)
	}
}

func TestReplaceInColumnNames(t *testing.T) {
	tbl := buildTable(t)

	pairs := [][2]string{{" ", "_"}, {"-", "_"}}
	if err := tbl.ReplaceInColumnNames(pairs); err != nil {
		t.Fatalf("ReplaceInColumnNames() error = %v", err)
	}

	want := []string{"crop_variety", "field_area"}
	if diff := cmp.Diff(want, tbl.Columns()); diff != "" {
		t.Errorf("Columns() mismatch (-want +got):\n%s", diff)
	}
}

func TestAsCategorical(t *testing.T) {
	tbl := buildTable(t)

	if err := tbl.AsCategorical([]string{"Crop Variety"}); err != nil {
		t.Fatalf("AsCategorical() error = %v", err)
	}

	s, err := tbl.Column("Crop Variety")
	if err != nil {
		t.Fatal(err)
	}
	if s.Kind != Categorical {
		t.Fatalf("Kind = %v, want Categorical", s.Kind)
	}
	// Codes follow first appearance: a=0, b=1, a=0.
	if diff := cmp.Diff([]float64{0, 1, 0}, s.Floats); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, s.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestAsCategoricalMissingColumn(t *testing.T) {
	tbl := buildTable(t)
	if err := tbl.AsCategorical([]string{"nope"}); err == nil {
		t.Fatal("AsCategorical() expected error for absent column")
	}
}

func TestDropDuplicates(t *testing.T) {
	tbl := New()
	nan := math.NaN()
	if err := tbl.AddStringColumn("cluster", []string{"A", "B", "A", "A", "B"}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddNumericColumn("yield", []float64{1.0, nan, 1.0, 2.0, nan}); err != nil {
		t.Fatal(err)
	}

	out := tbl.DropDuplicates()

	// Rows 2 and 4 duplicate rows 0 and 1; NaN compares equal to NaN.
	if out.NumRows() != 3 {
		t.Fatalf("NumRows() = %d, want 3", out.NumRows())
	}

	cluster, err := out.Column("cluster")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"A", "B", "A"}, cluster.Strings); diff != "" {
		t.Errorf("kept rows mismatch (-want +got):\n%s", diff)
	}

	yield, err := out.NumericValues("yield")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{1.0, nan, 2.0}, yield, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("yield mismatch (-want +got):\n%s", diff)
	}
}

func TestSelect(t *testing.T) {
	tbl := buildTable(t)

	out, err := tbl.Select([]string{"Field-Area"})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Field-Area"}, out.Columns()); diff != "" {
		t.Errorf("Columns() mismatch (-want +got):\n%s", diff)
	}

	// Mutating the selection must not touch the source.
	if err := out.SetNumericColumn("Field-Area", []float64{9, 9, 9}); err != nil {
		t.Fatal(err)
	}
	src, err := tbl.NumericValues("Field-Area")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{1.0, 2.0, 3.0}, src); diff != "" {
		t.Errorf("source mutated (-want +got):\n%s", diff)
	}
}

func TestSelectMissingColumnFails(t *testing.T) {
	tbl := buildTable(t)

	_, err := tbl.Select([]string{"Field-Area", "soil_ph"})
	if err == nil {
		t.Fatal("Select() expected error for absent column, got nil")
	}
	var schemaErr *errors.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Select() error = %T, want *SchemaError", err)
	}
	if schemaErr.Column != "soil_ph" {
		t.Errorf("SchemaError.Column = %q, want %q", schemaErr.Column, "soil_ph")
	}
}

func TestMatrix(t *testing.T) {
	tbl := buildTable(t)
	if err := tbl.AsCategorical([]string{"Crop Variety"}); err != nil {
		t.Fatal(err)
	}

	m, err := tbl.Matrix([]string{"Crop Variety", "Field-Area"})
	if err != nil {
		t.Fatalf("Matrix() error = %v", err)
	}
	r, c := m.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("Dims() = (%d, %d), want (3, 2)", r, c)
	}
	// Categorical column contributes its codes.
	if m.At(1, 0) != 1.0 || m.At(2, 1) != 3.0 {
		t.Errorf("unexpected matrix values: %v, %v", m.At(1, 0), m.At(2, 1))
	}
}

func TestMatrixEmptyTable(t *testing.T) {
	tbl := New()
	if err := tbl.AddNumericColumn("x", nil); err != nil {
		t.Fatal(err)
	}

	_, err := tbl.Matrix([]string{"x"})
	if err == nil {
		t.Fatal("Matrix() expected error for zero-row table")
	}
	if !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("Matrix() error = %v, want ErrEmptyData", err)
	}
}

func TestMatrixRejectsStringColumn(t *testing.T) {
	tbl := buildTable(t)
	if _, err := tbl.Matrix([]string{"Crop Variety"}); err == nil {
		t.Fatal("Matrix() expected error for string column")
	}
}

func TestSetNumericColumn(t *testing.T) {
	tbl := buildTable(t)

	// Replace keeps the column position.
	if err := tbl.SetNumericColumn("Field-Area", []float64{4, 5, 6}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Crop Variety", "Field-Area"}, tbl.Columns()); diff != "" {
		t.Errorf("Columns() after replace mismatch (-want +got):\n%s", diff)
	}

	// Append adds at the end.
	if err := tbl.SetNumericColumn("wca", []float64{7, 8, 9}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Crop Variety", "Field-Area", "wca"}, tbl.Columns()); diff != "" {
		t.Errorf("Columns() after append mismatch (-want +got):\n%s", diff)
	}

	// Row count mismatch is an error.
	if err := tbl.SetNumericColumn("bad", []float64{1}); err == nil {
		t.Error("SetNumericColumn() expected dimension error")
	}
}
