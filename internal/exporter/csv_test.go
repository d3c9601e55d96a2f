package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solareda/internal/dataprocessing"
	"solareda/internal/shared/testutil"
	"solareda/pkg/contracts/domain"
)

func solarDataset(t *testing.T) *domain.Dataset {
	t.Helper()
	ds, err := domain.NewDataset("station.csv", testutil.SolarHeader, testutil.SolarRecords())
	require.NoError(t, err)
	return ds
}

func TestWriteDatasetCSV_RoundTrip(t *testing.T) {
	ds := solarDataset(t)

	var buf bytes.Buffer
	require.NoError(t, WriteDatasetCSV(&buf, ds))

	reloaded, err := dataprocessing.LoadReader(context.Background(), "station.csv", &buf)
	require.NoError(t, err)
	assert.Equal(t, ds.Header(), reloaded.Header())
	assert.Equal(t, ds.Records(), reloaded.Records())
	assert.Equal(t, ds.Schema(), reloaded.Schema())
}

func TestWriteDatasetCSV_HeaderOnly(t *testing.T) {
	ds, err := domain.NewDataset("empty", []string{"GHI", "DNI"}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteDatasetCSV(&buf, ds))
	assert.Equal(t, "GHI,DNI\n", buf.String())
}

func TestExport(t *testing.T) {
	ds := solarDataset(t)

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, ds, FormatCSV))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Len(t, records, ds.Len()+1)
		assert.Equal(t, testutil.SolarHeader, records[0])
	})

	t.Run("xlsx", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, ds, FormatXLSX))
		reloaded, err := dataprocessing.NewLoader(nil).LoadBytes(context.Background(), "station.xlsx", buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, ds.Len(), reloaded.Len())
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, Export(&buf, ds, Format("pdf")))
		assert.Zero(t, buf.Len())
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"csv", FormatCSV, false},
		{"xlsx", FormatXLSX, false},
		{"pdf", "", true},
		{"CSV", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_Metadata(t *testing.T) {
	assert.Equal(t, ".csv", FormatCSV.Extension())
	assert.Equal(t, ".xlsx", FormatXLSX.Extension())
	assert.True(t, strings.HasPrefix(FormatCSV.ContentType(), "text/csv"))
	assert.Contains(t, FormatXLSX.ContentType(), "spreadsheetml")
}
