package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"solareda/pkg/contracts/domain"
)

// WriteDatasetCSV writes the header and the raw cells of every row. Loading
// the output again yields an equal dataset.
func WriteDatasetCSV(w io.Writer, ds *domain.Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ds.Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := 0; i < ds.Len(); i++ {
		if err := writer.Write(ds.Row(i)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
