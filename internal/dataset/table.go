// Package dataset loads delimited files into tables and slices them into
// reference and current windows.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/driftwatch-systems/driftwatch/internal/drift"
)

// Table is an ordered set of rows sharing named columns, read-only after
// construction. Values stay raw strings; kind classification happens at
// sample construction so type mismatches surface inside the metric
// calculators.
type Table struct {
	columns []string
	rows    [][]string
}

// New builds a table from a header and rows.
func New(columns []string, rows [][]string) *Table {
	return &Table{columns: columns, rows: rows}
}

// Load reads a CSV file with a required header row into a Table. A
// header-only file yields an empty table.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading %s: missing header row", path)
	}
	return &Table{columns: records[0], rows: records[1:]}, nil
}

// Len returns the row count.
func (t *Table) Len() int { return len(t.rows) }

// Head returns a view of the first n rows, the whole table when n exceeds
// the row count.
func (t *Table) Head(n int) *Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n < 0 {
		n = 0
	}
	return &Table{columns: t.columns, rows: t.rows[:n]}
}

// Tail returns a view of the last n rows, the whole table when n exceeds
// the row count.
func (t *Table) Tail(n int) *Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n < 0 {
		n = 0
	}
	return &Table{columns: t.columns, rows: t.rows[len(t.rows)-n:]}
}

// Columns returns the column names.
func (t *Table) Columns() []string { return t.columns }

// Column returns the values of the i-th column in row order.
func (t *Table) Column(i int) ([]string, error) {
	if i < 0 || i >= len(t.columns) {
		return nil, drift.NewValidationError("column index %d out of range", i)
	}
	values := make([]string, len(t.rows))
	for j, row := range t.rows {
		values[j] = row[i]
	}
	return values, nil
}

// ColumnByName returns the values of the named column in row order.
func (t *Table) ColumnByName(name string) ([]string, error) {
	for i, c := range t.columns {
		if c == name {
			return t.Column(i)
		}
	}
	return nil, drift.NewValidationError("column %q not found", name)
}

// Project returns a single-column table holding only the named column, so
// a caller can designate which feature the pipeline compares.
func (t *Table) Project(name string) (*Table, error) {
	values, err := t.ColumnByName(name)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{v}
	}
	return &Table{columns: []string{name}, rows: rows}, nil
}
