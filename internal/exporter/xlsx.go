package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"solareda/pkg/contracts/domain"
)

// DataSheet is the name of the sheet written by WriteDatasetXLSX.
const DataSheet = "Data"

// WriteDatasetXLSX writes ds to a single-sheet workbook. Cells of numeric
// columns are stored as numbers, everything else as text; null cells are
// left empty.
func WriteDatasetXLSX(w io.Writer, ds *domain.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), DataSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(DataSheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	header := ds.Header()
	numeric := make([]bool, len(header))
	headerRow := make([]interface{}, len(header))
	for i, name := range header {
		t, _ := ds.ColumnType(name)
		numeric[i] = t == domain.ColumnNumeric
		headerRow[i] = name
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for r := 0; r < ds.Len(); r++ {
		row := ds.Row(r)
		values := make([]interface{}, len(row))
		for c, cell := range row {
			switch {
			case domain.IsNull(cell):
				values[c] = nil
			case numeric[c]:
				v, _ := domain.ParseNumber(cell)
				values[c] = v
			default:
				values[c] = cell
			}
		}
		ref, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(ref, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
