package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// SolarHeader is the column layout of a station export.
var SolarHeader = []string{
	"Timestamp", "GHI", "DNI", "DHI", "ModA", "ModB", "Tamb", "RH", "WS", "WSgust",
	"WSstdev", "WD", "WDstdev", "BP", "Cleaning", "Precipitation", "TModA", "TModB", "Comments",
}

// SolarRecords returns a small station export. Rows 0 and 1 are night
// readings with negative irradiance, row 3 has a missing GHI.
func SolarRecords() [][]string {
	return [][]string{
		{"2021-08-09 00:01", "-1.2", "-0.2", "-1.1", "0", "0", "26.2", "93.4", "0", "0", "0", "0", "0", "998", "0", "0", "26.3", "26.2", ""},
		{"2021-08-09 00:02", "-1.1", "-0.2", "-1.1", "0", "0", "26.2", "93.6", "0", "0", "0", "0", "0", "998", "0", "0", "26.3", "26.2", ""},
		{"2021-08-09 12:00", "812.5", "640.1", "210.3", "805", "798", "31.4", "61.2", "3.1", "4.2", "0.6", "212", "9.8", "997", "0", "0", "52.1", "50.8", ""},
		{"2021-08-09 12:01", "", "642.7", "211", "806", "799", "31.5", "61", "3.4", "4.9", "0.7", "208", "10.4", "997", "0", "0", "52.3", "51", ""},
		{"2021-08-09 12:02", "815", "645.2", "209.8", "807", "801", "31.5", "60.8", "2.9", "3.8", "0.5", "215", "8.7", "997", "1", "0", "52.4", "51.1", "cleaned"},
		{"2021-08-09 18:30", "45.3", "12.4", "40.2", "44", "43", "28.7", "75.5", "1.2", "1.9", "0.3", "190", "12.1", "998", "0", "0.1", "30.2", "29.9", ""},
	}
}

// WriteCSVFixture writes header and records as a CSV file under dir.
func WriteCSVFixture(t *testing.T, dir, name string, header []string, records [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.Write(header))
	require.NoError(t, w.WriteAll(records))
	return path
}

// WriteXLSXFixture writes header and records to the first sheet of a new
// workbook under dir. Cells that parse as numbers are stored as numbers.
func WriteXLSXFixture(t *testing.T, dir, name string, header []string, records [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	writeRow := func(r int, cells []string) {
		for c, cell := range cells {
			ref, err := excelize.CoordinatesToCellName(c+1, r)
			require.NoError(t, err)
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				require.NoError(t, f.SetCellFloat(sheet, ref, v, -1, 64))
				continue
			}
			require.NoError(t, f.SetCellStr(sheet, ref, cell))
		}
	}

	writeRow(1, header)
	for i, rec := range records {
		writeRow(i+2, rec)
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}
