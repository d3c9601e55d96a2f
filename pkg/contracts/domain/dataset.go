package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ColumnType is the inferred type of a dataset column.
type ColumnType string

const (
	ColumnNumeric   ColumnType = "numeric"
	ColumnText      ColumnType = "text"
	ColumnTimestamp ColumnType = "timestamp"
)

// Expected sensor columns of a solar monitoring station export.
const (
	ColTimestamp = "Timestamp"
	ColGHI       = "GHI"
	ColDNI       = "DNI"
	ColDHI       = "DHI"
	ColWS        = "WS"
	ColWSGust    = "WSgust"
	ColWSStdev   = "WSstdev"
	ColWD        = "WD"
	ColWDStdev   = "WDstdev"
	ColTamb      = "Tamb"
	ColTModA     = "TModA"
	ColTModB     = "TModB"
)

// Column groups used by the analyses.
var (
	ExpectedColumns    = []string{ColTimestamp, ColGHI, ColDNI, ColDHI, ColWS, ColWSGust, ColWSStdev, ColWD, ColWDStdev, ColTamb, ColTModA, ColTModB}
	IrradianceColumns  = []string{ColGHI, ColDNI, ColDHI}
	WindColumns        = []string{ColWS, ColWSGust, ColWSStdev, ColWD, ColWDStdev}
	TemperatureColumns = []string{ColTamb, ColTModA, ColTModB}
	HistogramColumns   = []string{ColGHI, ColDNI, ColDHI, ColWS, ColTamb, ColTModA, ColTModB}
	CorrelationColumns = []string{ColGHI, ColDNI, ColDHI, ColTModA, ColTModB}
	ScatterPairs       = [][2]string{{ColGHI, ColTamb}, {ColWS, ColWSGust}, {ColTModA, ColTModB}}
)

// Dataset construction errors.
var (
	ErrEmptyHeader     = errors.New("header row is empty")
	ErrBlankColumnName = errors.New("blank column name")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrRaggedRow       = errors.New("row width does not match header")
)

// Column is one named, typed column of raw cells.
type Column struct {
	Name  string
	Type  ColumnType
	cells []string
}

// Dataset is an immutable table of raw cells with inferred column types.
// Cleaning operations derive new datasets and never modify the receiver.
type Dataset struct {
	name    string
	columns []Column
	index   map[string]int
	rows    int
}

// NewDataset builds a dataset from a header and row-major records. Column
// types are inferred from the cells.
func NewDataset(name string, header []string, records [][]string) (*Dataset, error) {
	if len(header) == 0 {
		return nil, ErrEmptyHeader
	}

	ds := &Dataset{
		name:    name,
		columns: make([]Column, len(header)),
		index:   make(map[string]int, len(header)),
		rows:    len(records),
	}

	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, fmt.Errorf("column %d: %w", i+1, ErrBlankColumnName)
		}
		if _, dup := ds.index[h]; dup {
			return nil, fmt.Errorf("%q: %w", h, ErrDuplicateColumn)
		}
		ds.index[h] = i
		ds.columns[i] = Column{Name: h, cells: make([]string, len(records))}
	}

	for r, rec := range records {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("row %d has %d fields, want %d: %w", r+1, len(rec), len(header), ErrRaggedRow)
		}
		for c, cell := range rec {
			ds.columns[c].cells[r] = cell
		}
	}

	for i := range ds.columns {
		ds.columns[i].Type = inferColumnType(ds.columns[i].cells)
	}
	return ds, nil
}

// Name returns the dataset's display name (usually the source file name).
func (d *Dataset) Name() string { return d.name }

// Len returns the number of rows.
func (d *Dataset) Len() int { return d.rows }

// Width returns the number of columns.
func (d *Dataset) Width() int { return len(d.columns) }

// Header returns the column names in order.
func (d *Dataset) Header() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the dataset has a column with the given name.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// ColumnType returns the inferred type of a column.
func (d *Dataset) ColumnType(name string) (ColumnType, bool) {
	i, ok := d.index[name]
	if !ok {
		return "", false
	}
	return d.columns[i].Type, true
}

// NumericColumns returns the names of numeric columns in order.
func (d *Dataset) NumericColumns() []string {
	var names []string
	for _, c := range d.columns {
		if c.Type == ColumnNumeric {
			names = append(names, c.Name)
		}
	}
	return names
}

// Cells returns a copy of a column's raw cells.
func (d *Dataset) Cells(name string) ([]string, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	out := make([]string, d.rows)
	copy(out, d.columns[i].cells)
	return out, true
}

// Coerced returns every cell of a column coerced to a number. Non-numeric
// cells are invalid entries, regardless of the column's inferred type.
func (d *Dataset) Coerced(name string) ([]NullFloat, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	out := make([]NullFloat, d.rows)
	for r, cell := range d.columns[i].cells {
		v, valid := ParseNumber(cell)
		out[r] = NullFloat{Value: v, Valid: valid}
	}
	return out, true
}

// Floats returns the non-null numeric values of a column in row order.
func (d *Dataset) Floats(name string) ([]float64, bool) {
	coerced, ok := d.Coerced(name)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(coerced))
	for _, v := range coerced {
		if v.Valid {
			out = append(out, v.Value)
		}
	}
	return out, true
}

// NullCount returns the number of null cells in a column.
func (d *Dataset) NullCount(name string) int {
	i, ok := d.index[name]
	if !ok {
		return 0
	}
	n := 0
	for _, cell := range d.columns[i].cells {
		if IsNull(cell) {
			n++
		}
	}
	return n
}

// Row returns a copy of row i in column order.
func (d *Dataset) Row(i int) []string {
	row := make([]string, len(d.columns))
	for c := range d.columns {
		row[c] = d.columns[c].cells[i]
	}
	return row
}

// Records returns a row-major copy of every cell.
func (d *Dataset) Records() [][]string {
	out := make([][]string, d.rows)
	for r := range out {
		out[r] = d.Row(r)
	}
	return out
}

// SelectRows derives a dataset holding only the given rows, in the given
// order. Column types are kept from the receiver.
func (d *Dataset) SelectRows(name string, rows []int) *Dataset {
	derived := &Dataset{
		name:    name,
		columns: make([]Column, len(d.columns)),
		index:   d.index,
		rows:    len(rows),
	}
	for c, col := range d.columns {
		cells := make([]string, len(rows))
		for i, r := range rows {
			cells[i] = col.cells[r]
		}
		derived.columns[c] = Column{Name: col.Name, Type: col.Type, cells: cells}
	}
	return derived
}

// Schema describes every column with its type and non-null count.
func (d *Dataset) Schema() []ColumnInfo {
	info := make([]ColumnInfo, len(d.columns))
	for i, c := range d.columns {
		info[i] = ColumnInfo{
			Name:    c.Name,
			Type:    c.Type,
			NonNull: d.rows - d.NullCount(c.Name),
		}
	}
	return info
}

// ColumnInfo is one line of a dataset's schema summary.
type ColumnInfo struct {
	Name    string     `json:"name"`
	Type    ColumnType `json:"type"`
	NonNull int        `json:"non_null"`
}

// DatasetInfo is the overview of a loaded dataset.
type DatasetInfo struct {
	Name    string       `json:"name"`
	Rows    int          `json:"rows"`
	Columns int          `json:"columns"`
	Schema  []ColumnInfo `json:"schema"`
}
