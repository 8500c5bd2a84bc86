package serializer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/aretw0/markovchain/pkg/domain"
)

// Table is the resampled output: a time column plus one column per state and counter,
// each aligned to the grid.
type Table struct {
	columns []string
	index   map[string]int
	time    []float64
	values  [][]float64
}

func newTable(columns []string, capacity int) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		time:    make([]float64, 0, capacity),
		values:  make([][]float64, len(columns)),
	}
	for i, c := range columns {
		t.index[c] = i
		t.values[i] = make([]float64, 0, capacity)
	}
	return t
}

// NewTable builds a table from aligned series. Every column must match len(time).
func NewTable(time []float64, columns []string, series [][]float64) (*Table, error) {
	if len(columns) != len(series) {
		return nil, fmt.Errorf("table: %d columns but %d series", len(columns), len(series))
	}
	t := newTable(columns, len(time))
	t.time = append(t.time, time...)
	for i, s := range series {
		if len(s) != len(time) {
			return nil, fmt.Errorf("table: column %q has %d values, want %d", columns[i], len(s), len(time))
		}
		t.values[i] = append(t.values[i], s...)
	}
	return t, nil
}

func (t *Table) appendRow(at float64, row []float64) {
	t.time = append(t.time, at)
	for i := range t.values {
		t.values[i] = append(t.values[i], row[i])
	}
}

func (t *Table) appendInterpolated(at, t0 float64, v0 []float64, t1 float64, v1 []float64) {
	t.time = append(t.time, at)
	frac := (at - t0) / (t1 - t0)
	for i := range t.values {
		slope := v1[i] - v0[i]
		t.values[i] = append(t.values[i], v0[i]+slope*frac)
	}
}

// Columns returns the value column names (without the time column).
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.time)
}

// Time returns the grid timestamps.
func (t *Table) Time() []float64 {
	return append([]float64(nil), t.time...)
}

// Column returns a copy of a series, or nil if the column does not exist.
// The reserved time column is accepted.
func (t *Table) Column(name string) []float64 {
	if name == domain.TimeColumn {
		return t.Time()
	}
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return append([]float64(nil), t.values[i]...)
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []float64 {
	row := make([]float64, len(t.values))
	for c := range t.values {
		row[c] = t.values[c][i]
	}
	return row
}

// Map returns every series keyed by name, plus the time column under "t".
func (t *Table) Map() map[string][]float64 {
	m := make(map[string][]float64, len(t.columns)+1)
	m[domain.TimeColumn] = t.Time()
	for _, c := range t.columns {
		m[c] = t.Column(c)
	}
	return m
}

// WriteCSV writes a header row (t first) and one line per grid point.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{domain.TimeColumn}, t.columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	record := make([]string, len(header))
	for i, at := range t.time {
		record[0] = strconv.FormatFloat(at, 'g', -1, 64)
		for c := range t.values {
			record[c+1] = strconv.FormatFloat(t.values[c][i], 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
