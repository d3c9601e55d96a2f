// Package exporter writes datasets and analysis reports out of the process.
//
// Datasets are exported as CSV (raw cells, so a reload yields an equal
// dataset) or as a single-sheet XLSX workbook with numeric columns stored as
// numbers. CSVWriter places files below the configured reports directory.
//
// RenderReport formats a dataprocessing.Report as plain-text tables for the
// command line.
//
//	var buf bytes.Buffer
//	if err := exporter.Export(&buf, ds, exporter.FormatXLSX); err != nil {
//		return err
//	}
package exporter
