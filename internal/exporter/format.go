package exporter

import (
	"fmt"
	"io"
	"math"
	"strconv"

	apperrors "solareda/internal/errors"
	"solareda/pkg/contracts/domain"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts csv or xlsx; empty means csv.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", apperrors.NewAppValidationError(fmt.Sprintf("unsupported export format %q", s)).
		WithContext("supported", []string{string(FormatCSV), string(FormatXLSX)})
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Export writes ds to w in the given format.
func Export(w io.Writer, ds *domain.Dataset, format Format) error {
	switch format {
	case FormatCSV:
		return WriteDatasetCSV(w, ds)
	case FormatXLSX:
		return WriteDatasetXLSX(w, ds)
	}
	_, err := ParseFormat(string(format))
	return err
}

// formatMetric renders a statistic with four decimals; undefined values
// print as NaN.
func formatMetric(m domain.Metric) string {
	f := m.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64) + "%"
}
