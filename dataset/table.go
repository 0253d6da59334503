// Package dataset implements the ordered, column-typed table that flows
// between pipeline stages, together with CSV reading and writing.
//
// A Table holds an ordered sequence of named columns. Each column is either
// numeric (float64 with NaN for missing values), categorical (integer codes
// over a label dictionary) or free-form string. All schema-changing
// operations return an error when a referenced column is absent; nothing is
// silently skipped.
package dataset

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/agroml/yieldcast/pkg/errors"
)

// Kind classifies a column's dtype.
type Kind int

const (
	// Numeric columns hold float64 values with NaN marking missing cells.
	Numeric Kind = iota
	// Categorical columns hold integer codes into a finite label dictionary.
	Categorical
	// String columns hold free-form text.
	String
)

// String returns the dtype name.
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Series is a single column of a Table.
type Series struct {
	Kind Kind

	// Floats holds the values of Numeric columns and the codes of
	// Categorical columns.
	Floats []float64

	// Strings holds the values of String columns.
	Strings []string

	// Labels is the Categorical dictionary in first-appearance order.
	Labels []string
}

// Len returns the number of rows in the series.
func (s *Series) Len() int {
	if s.Kind == String {
		return len(s.Strings)
	}
	return len(s.Floats)
}

// cell returns the canonical string form of row i, used for duplicate
// detection, group keys and CSV output. NaN renders as the empty string.
func (s *Series) cell(i int) string {
	switch s.Kind {
	case String:
		return s.Strings[i]
	case Categorical:
		code := int(s.Floats[i])
		if code < 0 || code >= len(s.Labels) {
			return ""
		}
		return s.Labels[code]
	default:
		v := s.Floats[i]
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}

func (s *Series) copySeries() *Series {
	out := &Series{Kind: s.Kind}
	if s.Floats != nil {
		out.Floats = append([]float64(nil), s.Floats...)
	}
	if s.Strings != nil {
		out.Strings = append([]string(nil), s.Strings...)
	}
	if s.Labels != nil {
		out.Labels = append([]string(nil), s.Labels...)
	}
	return out
}

// Table is an ordered collection of named columns with equal row counts.
type Table struct {
	cols   []string
	series map[string]*Series
}

// New creates an empty table.
func New() *Table {
	return &Table{series: make(map[string]*Series)}
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.series[t.cols[0]].Len()
}

// NumCols returns the column count.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.series[name]
	return ok
}

// Column returns the named series.
func (t *Table) Column(name string) (*Series, error) {
	s, ok := t.series[name]
	if !ok {
		return nil, errors.NewSchemaError("Table.Column", name, "not present")
	}
	return s, nil
}

// AddNumericColumn appends a numeric column.
func (t *Table) AddNumericColumn(name string, values []float64) error {
	return t.addColumn(name, &Series{Kind: Numeric, Floats: values})
}

// AddStringColumn appends a string column.
func (t *Table) AddStringColumn(name string, values []string) error {
	return t.addColumn(name, &Series{Kind: String, Strings: values})
}

func (t *Table) addColumn(name string, s *Series) error {
	if _, ok := t.series[name]; ok {
		return errors.NewSchemaError("Table.AddColumn", name, "already present")
	}
	if len(t.cols) > 0 && s.Len() != t.NumRows() {
		return errors.NewDimensionError("Table.AddColumn", t.NumRows(), s.Len(), 0)
	}
	t.cols = append(t.cols, name)
	t.series[name] = s
	return nil
}

// SetNumericColumn replaces the named column with numeric values, or appends
// it when absent. Used for predictions and derived columns.
func (t *Table) SetNumericColumn(name string, values []float64) error {
	if len(t.cols) > 0 && len(values) != t.NumRows() {
		return errors.NewDimensionError("Table.SetNumericColumn", t.NumRows(), len(values), 0)
	}
	if _, ok := t.series[name]; !ok {
		t.cols = append(t.cols, name)
	}
	t.series[name] = &Series{Kind: Numeric, Floats: values}
	return nil
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	out := New()
	for _, name := range t.cols {
		out.cols = append(out.cols, name)
		out.series[name] = t.series[name].copySeries()
	}
	return out
}

// RenameColumns renames columns according to mapping; unmapped columns pass
// through unchanged. A mapping entry whose source column is absent passes
// through silently, matching DataFrame rename semantics.
func (t *Table) RenameColumns(mapping map[string]string) error {
	renamed := make([]string, len(t.cols))
	series := make(map[string]*Series, len(t.cols))
	for i, name := range t.cols {
		to := name
		if v, ok := mapping[name]; ok {
			to = v
		}
		if _, dup := series[to]; dup {
			return errors.NewSchemaError("Table.RenameColumns", to, "rename produces duplicate column")
		}
		renamed[i] = to
		series[to] = t.series[name]
	}
	t.cols = renamed
	t.series = series
	return nil
}

// ReplaceInColumnNames applies each (pattern, replacement) pair in order as a
// substring replacement within every column name, then lowercases all names.
// Later pairs operate on the output of earlier ones, and the lowercasing
// happens even with no pairs configured.
func (t *Table) ReplaceInColumnNames(pairs [][2]string) error {
	renamed := make([]string, len(t.cols))
	series := make(map[string]*Series, len(t.cols))
	for i, name := range t.cols {
		to := name
		for _, pair := range pairs {
			to = strings.ReplaceAll(to, pair[0], pair[1])
		}
		to = strings.ToLower(to)
		if _, dup := series[to]; dup {
			return errors.NewSchemaError("Table.ReplaceInColumnNames", to, "replacement produces duplicate column")
		}
		renamed[i] = to
		series[to] = t.series[name]
	}
	t.cols = renamed
	t.series = series
	return nil
}

// AsCategorical coerces the named columns to categorical dtype. String
// columns are coded by first appearance; numeric columns use their canonical
// value form as labels.
func (t *Table) AsCategorical(cols []string) error {
	for _, name := range cols {
		s, ok := t.series[name]
		if !ok {
			return errors.NewSchemaError("Table.AsCategorical", name, "not present")
		}
		if s.Kind == Categorical {
			continue
		}
		n := s.Len()
		codes := make([]float64, n)
		var labels []string
		index := make(map[string]int)
		for i := 0; i < n; i++ {
			label := s.cell(i)
			code, seen := index[label]
			if !seen {
				code = len(labels)
				index[label] = code
				labels = append(labels, label)
			}
			codes[i] = float64(code)
		}
		t.series[name] = &Series{Kind: Categorical, Floats: codes, Labels: labels}
	}
	return nil
}

// DropDuplicates removes rows that are exact duplicates of an earlier row,
// keeping the first occurrence. Remaining row order is preserved. Missing
// values compare equal to each other.
func (t *Table) DropDuplicates() *Table {
	n := t.NumRows()
	keep := make([]int, 0, n)
	seen := make(map[string]struct{}, n)
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.Reset()
		for _, name := range t.cols {
			sb.WriteString(t.series[name].cell(i))
			sb.WriteByte('\x1f')
		}
		key := sb.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}
	return t.takeRows(keep)
}

// takeRows builds a new table from the given row indices.
func (t *Table) takeRows(idx []int) *Table {
	out := New()
	for _, name := range t.cols {
		s := t.series[name]
		ns := &Series{Kind: s.Kind}
		if s.Labels != nil {
			ns.Labels = append([]string(nil), s.Labels...)
		}
		if s.Kind == String {
			ns.Strings = make([]string, len(idx))
			for j, i := range idx {
				ns.Strings[j] = s.Strings[i]
			}
		} else {
			ns.Floats = make([]float64, len(idx))
			for j, i := range idx {
				ns.Floats[j] = s.Floats[i]
			}
		}
		out.cols = append(out.cols, name)
		out.series[name] = ns
	}
	return out
}

// Select returns a new table containing only the given columns, in the given
// order. A requested column that is absent is an error, never a silent skip.
func (t *Table) Select(cols []string) (*Table, error) {
	out := New()
	for _, name := range cols {
		s, ok := t.series[name]
		if !ok {
			return nil, errors.NewSchemaError("Table.Select", name, "not present")
		}
		out.cols = append(out.cols, name)
		out.series[name] = s.copySeries()
	}
	return out, nil
}

// NumericColumns returns the names of all numeric columns in order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, name := range t.cols {
		if t.series[name].Kind == Numeric {
			out = append(out, name)
		}
	}
	return out
}

// NumericValues returns a copy of a numeric column's values.
func (t *Table) NumericValues(name string) ([]float64, error) {
	s, ok := t.series[name]
	if !ok {
		return nil, errors.NewSchemaError("Table.NumericValues", name, "not present")
	}
	if s.Kind != Numeric {
		return nil, errors.NewSchemaError("Table.NumericValues", name, "expected numeric dtype, got "+s.Kind.String())
	}
	return append([]float64(nil), s.Floats...), nil
}

// GroupKeys returns the canonical group key of every row for the named
// column. Categorical columns key by label, numeric by canonical value form.
func (t *Table) GroupKeys(name string) ([]string, error) {
	s, ok := t.series[name]
	if !ok {
		return nil, errors.NewSchemaError("Table.GroupKeys", name, "not present")
	}
	n := s.Len()
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = s.cell(i)
	}
	return keys, nil
}

// Matrix assembles the given columns into a dense row-major matrix.
// Categorical columns contribute their integer codes; string columns are a
// schema error because they cannot feed a numeric model.
func (t *Table) Matrix(cols []string) (*mat.Dense, error) {
	if len(cols) == 0 {
		return nil, errors.NewValueError("Table.Matrix", "no columns requested")
	}
	n := t.NumRows()
	if n == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "Table.Matrix")
	}
	out := mat.NewDense(n, len(cols), nil)
	for j, name := range cols {
		s, ok := t.series[name]
		if !ok {
			return nil, errors.NewSchemaError("Table.Matrix", name, "not present")
		}
		if s.Kind == String {
			return nil, errors.NewSchemaError("Table.Matrix", name, "string dtype cannot enter the feature matrix")
		}
		for i := 0; i < n; i++ {
			out.Set(i, j, s.Floats[i])
		}
	}
	return out, nil
}

// SetMatrixColumns writes matrix columns back into the named numeric columns.
// The matrix must have one column per name and one row per table row.
func (t *Table) SetMatrixColumns(cols []string, m mat.Matrix) error {
	r, c := m.Dims()
	if c != len(cols) {
		return errors.NewDimensionError("Table.SetMatrixColumns", len(cols), c, 1)
	}
	if r != t.NumRows() {
		return errors.NewDimensionError("Table.SetMatrixColumns", t.NumRows(), r, 0)
	}
	for j, name := range cols {
		s, ok := t.series[name]
		if !ok {
			return errors.NewSchemaError("Table.SetMatrixColumns", name, "not present")
		}
		if s.Kind == String {
			return errors.NewSchemaError("Table.SetMatrixColumns", name, "string dtype cannot hold numeric values")
		}
		for i := 0; i < r; i++ {
			s.Floats[i] = m.At(i, j)
		}
	}
	return nil
}
