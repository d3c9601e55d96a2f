package exporter

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"solareda/internal/dataprocessing"
	"solareda/internal/shared/testutil"
	"solareda/pkg/contracts/domain"
)

func TestWriteDatasetXLSX(t *testing.T) {
	ds := solarDataset(t)

	var buf bytes.Buffer
	require.NoError(t, WriteDatasetXLSX(&buf, ds))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DataSheet}, f.GetSheetList())

	header, err := f.GetRows(DataSheet)
	require.NoError(t, err)
	assert.Equal(t, testutil.SolarHeader, header[0])

	ghiNoon, err := f.GetCellValue(DataSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "812.5", ghiNoon)

	stamp, err := f.GetCellValue(DataSheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "2021-08-09 12:00", stamp)

	ghi, err := f.GetCellValue(DataSheet, "B5")
	require.NoError(t, err)
	assert.Empty(t, ghi, "null GHI stays empty")
}

func TestWriteDatasetXLSX_Reload(t *testing.T) {
	ds := solarDataset(t)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, ds, FormatXLSX))

	reloaded, err := dataprocessing.LoadReader(context.Background(), "station.xlsx", &buf)
	require.NoError(t, err)
	assert.Equal(t, ds.Header(), reloaded.Header())
	assert.Equal(t, ds.Len(), reloaded.Len())

	for _, col := range ds.NumericColumns() {
		want, _ := ds.Floats(col)
		got, ok := reloaded.Floats(col)
		require.True(t, ok, col)
		assert.InDeltaSlice(t, want, got, 1e-9, col)
	}
	assert.Equal(t, ds.NullCount(domain.ColGHI), reloaded.NullCount(domain.ColGHI))
}

func TestExport_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, solarDataset(t), Format("pdf"))
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
