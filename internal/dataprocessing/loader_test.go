package dataprocessing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "solareda/internal/errors"
	"solareda/internal/shared/testutil"
	"solareda/pkg/contracts/domain"
)

func TestLoader_LoadFile_CSV(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	path := testutil.WriteCSVFixture(t, t.TempDir(), "benin-malanville.csv", testutil.SolarHeader, testutil.SolarRecords())

	ds, err := NewLoader(logger).LoadFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "benin-malanville.csv", ds.Name())
	assert.Equal(t, 6, ds.Len())
	assert.Equal(t, len(testutil.SolarHeader), ds.Width())
	assert.Equal(t, testutil.SolarHeader, ds.Header())

	typ, _ := ds.ColumnType(domain.ColGHI)
	assert.Equal(t, domain.ColumnNumeric, typ)
	typ, _ = ds.ColumnType(domain.ColTimestamp)
	assert.Equal(t, domain.ColumnTimestamp, typ)
	typ, _ = ds.ColumnType("Comments")
	assert.Equal(t, domain.ColumnText, typ)

	assert.True(t, handler.ContainsMessage("Dataset loaded"))
	testutil.AssertNoErrors(t, handler)
}

func TestLoader_LoadFile_CSVRoundTrip(t *testing.T) {
	records := testutil.SolarRecords()
	path := testutil.WriteCSVFixture(t, t.TempDir(), "station.csv", testutil.SolarHeader, records)

	ds, err := LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, records, ds.Records())
}

func TestLoader_LoadFile_XLSX(t *testing.T) {
	dir := t.TempDir()
	csvPath := testutil.WriteCSVFixture(t, dir, "station.csv", testutil.SolarHeader, testutil.SolarRecords())
	xlsxPath := testutil.WriteXLSXFixture(t, dir, "station.xlsx", testutil.SolarHeader, testutil.SolarRecords())

	fromCSV, err := LoadFile(context.Background(), csvPath)
	require.NoError(t, err)
	fromXLSX, err := LoadFile(context.Background(), xlsxPath)
	require.NoError(t, err)

	assert.Equal(t, "station.xlsx", fromXLSX.Name())
	assert.Equal(t, fromCSV.Len(), fromXLSX.Len())
	assert.Equal(t, fromCSV.Header(), fromXLSX.Header())

	for _, col := range []string{domain.ColGHI, domain.ColDNI, domain.ColTamb, domain.ColTModB} {
		want, _ := fromCSV.Floats(col)
		got, _ := fromXLSX.Floats(col)
		assert.InDeltaSlice(t, want, got, 1e-9, col)
	}
	assert.Equal(t, fromCSV.NullCount(domain.ColGHI), fromXLSX.NullCount(domain.ColGHI))
	assert.Equal(t, "cleaned", fromXLSX.Row(4)[len(testutil.SolarHeader)-1])
}

func TestLoader_LoadFile_XLSXHeaderOnly(t *testing.T) {
	path := testutil.WriteXLSXFixture(t, t.TempDir(), "empty.xlsx", []string{"GHI", "DNI"}, nil)

	ds, err := LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, []string{"GHI", "DNI"}, ds.Header())
}

func TestLoader_LoadFile_XLSXSkipsBlankRows(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"GHI", "DNI"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{1.5}))
	require.NoError(t, f.SetSheetRow(sheet, "A5", &[]interface{}{2.5, 3}))
	path := filepath.Join(t.TempDir(), "gaps.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := LoadFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"1.5", ""}, ds.Row(0))
	assert.Equal(t, 1, ds.NullCount("DNI"))
}

func TestLoader_LoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
		return p
	}

	tests := []struct {
		name      string
		path      string
		wantCause error
		contains  string
	}{
		{"pdf", write("report.pdf", "%PDF-1.4"), apperrors.ErrUnsupportedFormat, "PDF files are not supported"},
		{"unknown extension", write("notes.txt", "A\n1\n"), apperrors.ErrUnsupportedFormat, "unsupported file format"},
		{"missing file", filepath.Join(dir, "absent.csv"), apperrors.ErrUnreadableFile, "does not exist"},
		{"empty csv", write("empty.csv", ""), apperrors.ErrMalformedContent, "missing header row"},
		{"ragged csv", write("ragged.csv", "A,B\n1,2\n3\n"), apperrors.ErrMalformedContent, "failed to parse"},
		{"duplicate header", write("dup.csv", "A,A\n1,2\n"), apperrors.ErrMalformedContent, "duplicate column"},
		{"blank header", write("blank.csv", "A,\n1,2\n"), apperrors.ErrMalformedContent, "blank column name"},
		{"corrupt workbook", write("corrupt.xlsx", "not a zip"), apperrors.ErrMalformedContent, "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := LoadFile(context.Background(), tt.path)
			require.Error(t, err)
			assert.Nil(t, ds)
			assert.True(t, apperrors.IsLoadError(err), "got %v", err)
			assert.True(t, errors.Is(err, tt.wantCause), "got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoader_LoadReader(t *testing.T) {
	ctx := context.Background()

	t.Run("csv upload", func(t *testing.T) {
		ds, err := LoadReader(ctx, "upload.csv", strings.NewReader("GHI,Comments\n-1,x\n2,\n"))
		require.NoError(t, err)
		assert.Equal(t, 2, ds.Len())
		assert.Equal(t, "upload.csv", ds.Name())
	})

	t.Run("byte order mark is stripped", func(t *testing.T) {
		ds, err := NewLoader(nil).LoadBytes(ctx, "bom.csv", []byte("\ufeffTimestamp,GHI\n2021-08-09 00:01,1\n"))
		require.NoError(t, err)
		assert.True(t, ds.HasColumn(domain.ColTimestamp))
	})

	t.Run("name with directories", func(t *testing.T) {
		ds, err := LoadReader(ctx, "nested/dir/station.csv", strings.NewReader("A\n1\n"))
		require.NoError(t, err)
		assert.Equal(t, "station.csv", ds.Name())
	})

	t.Run("pdf upload", func(t *testing.T) {
		_, err := LoadReader(ctx, "scan.PDF", strings.NewReader("%PDF"))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := LoadReader(cctx, "a.csv", strings.NewReader("A\n1\n"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
