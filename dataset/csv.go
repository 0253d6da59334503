package dataset

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"github.com/agroml/yieldcast/pkg/errors"
)

// ReadCSV reads a delimited file with a header row into a Table. A column is
// numeric when every non-empty cell parses as a float; empty cells become NaN.
// Any other column is read as string with empty cells preserved.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read %q", path)
	}
	if len(records) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "read %q", path)
	}

	header := records[0]
	rows := records[1:]

	t := New()
	for j, name := range header {
		numeric := true
		for _, rec := range rows {
			cell := rec[j]
			if cell == "" {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric = false
				break
			}
		}
		if numeric {
			values := make([]float64, len(rows))
			for i, rec := range rows {
				if rec[j] == "" {
					values[i] = math.NaN()
					continue
				}
				values[i], _ = strconv.ParseFloat(rec[j], 64)
			}
			if err := t.AddNumericColumn(name, values); err != nil {
				return nil, err
			}
			continue
		}
		values := make([]string, len(rows))
		for i, rec := range rows {
			values[i] = rec[j]
		}
		if err := t.AddStringColumn(name, values); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// WriteCSV writes the table to path in the same delimited format. NaN cells
// are written empty; categorical cells are written as their labels.
func WriteCSV(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %q", path)
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns()); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "write header to %q", path)
	}

	n := t.NumRows()
	record := make([]string, t.NumCols())
	for i := 0; i < n; i++ {
		for j, name := range t.cols {
			record[j] = t.series[name].cell(i)
		}
		if err := w.Write(record); err != nil {
			_ = f.Close()
			return errors.Wrapf(err, "write row %d to %q", i, path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "flush %q", path)
	}
	return errors.Wrapf(f.Close(), "close %q", path)
}
