package dataimport

import (
	"errors"
	"fmt"
)

var ErrNoColumn = errors.New("no such column")

// Table is a raw imported data block: named columns over row-major
// float64 samples, exactly as read from the acquisition file or the
// laboratory database. Rows keep the acquisition order.
type Table struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

func (t *Table) NumRows() int {
	return len(t.Rows)
}

func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column extracts a copy of one named column.
func (t *Table) Column(name string) ([]float64, error) {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("column %q: %w", name, ErrNoColumn)
	}
	ans := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		if idx >= len(row) {
			return nil, fmt.Errorf("row %d is too short for column %q", i, name)
		}
		ans[i] = row[idx]
	}
	return ans, nil
}

func (t *Table) appendRow(row []float64) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf(
			"row has %d values, table has %d columns", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}
