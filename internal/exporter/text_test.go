package exporter

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solareda/internal/dataprocessing"
	"solareda/pkg/contracts/domain"
)

func TestRenderReport(t *testing.T) {
	ds := solarDataset(t)
	report, err := dataprocessing.NewPipeline(nil, nil).Run(context.Background(), ds, dataprocessing.DefaultReportOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, report))
	out := buf.String()

	assert.Contains(t, out, "Dataset: station.csv (6 rows, 19 columns)")
	for _, title := range []string{
		"== Schema ==", "== Descriptive statistics ==", "== Summary statistics ==",
		"== Missing values ==", "== Negative values ==", "== Negative-row filter ==",
		"== Wind ==", "== Temperature ==",
	} {
		assert.Contains(t, out, title)
	}
	assert.Contains(t, out, domain.StatisticDescriptions[domain.StatSkewness])
	assert.Contains(t, out, "16.67%")
	assert.NotContains(t, out, "== Skipped sections ==")
}

func TestRenderReport_Skipped(t *testing.T) {
	ds, err := domain.NewDataset("small", []string{"GHI"}, [][]string{{"1"}})
	require.NoError(t, err)
	report, err := dataprocessing.NewPipeline(nil, nil).Run(context.Background(), ds, dataprocessing.DefaultReportOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, report))
	assert.Contains(t, buf.String(), "== Skipped sections ==")
	assert.Contains(t, buf.String(), "NaN")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderReport_WriteError(t *testing.T) {
	report := &dataprocessing.Report{Info: domain.DatasetInfo{Name: "x"}}
	err := RenderReport(failingWriter{}, report)
	assert.EqualError(t, err, "disk full")
}

func TestFormatMetric(t *testing.T) {
	assert.Equal(t, "NaN", formatMetric(domain.Metric(math.NaN())))
	assert.Equal(t, "NaN", formatMetric(domain.Metric(math.Inf(1))))
	assert.Equal(t, "812.5000", formatMetric(812.5))
	assert.Equal(t, "-1.2346", formatMetric(-1.23456))
	assert.Equal(t, "16.67%", formatPercent(100.0/6))
}
